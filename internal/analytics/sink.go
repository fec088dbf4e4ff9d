package analytics

import "context"

// Sink combines the ClickHouse and Kafka analytics backends into the one
// interface internal/host's Table pushes completed hands through.
type Sink struct {
	ClickHouse *ClickHouseAnalytics
	Kafka      *KafkaPublisher
}

// RecordHandEvents writes the finished hand's per-player rows to
// ClickHouse; a nil ClickHouse backend makes this a no-op, so a host can
// run with analytics partially configured.
func (s *Sink) RecordHandEvents(ctx context.Context, events []*HandEvent) error {
	if s.ClickHouse == nil {
		return nil
	}
	return s.ClickHouse.RecordHandEvents(ctx, events)
}

// PublishHandCompleted announces the finished hand on Kafka; a nil Kafka
// backend makes this a no-op.
func (s *Sink) PublishHandCompleted(event HandCompletedEvent) error {
	if s.Kafka == nil {
		return nil
	}
	return s.Kafka.PublishHandCompleted(event)
}
