package analytics

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// KafkaPublisherConfig configures the hand-completion publisher.
type KafkaPublisherConfig struct {
	Brokers        []string
	Topic          string
	MaxRetries     int
	RetryBackoff   time.Duration
	FlushFrequency time.Duration
	RequiredAcks   sarama.RequiredAcks
	Compression    sarama.CompressionCodec
}

// KafkaPublisher publishes a "hand.completed" event for each finished hand.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	mu       sync.Mutex
	stats    PublisherStats
}

// PublisherStats tracks publish outcomes.
type PublisherStats struct {
	MessagesSent   int64
	MessagesFailed int64
	LastMessageAt  time.Time
}

// HandCompletedEvent is the message published once a hand reaches showdown
// or a fold win and its awards have been credited.
type HandCompletedEvent struct {
	HandID      string         `json:"hand_id"`
	TableID     string         `json:"table_id"`
	GameType    string         `json:"game_type"`
	NumPlayers  int            `json:"num_players"`
	TotalPot    int            `json:"total_pot"`
	SidePots    int            `json:"side_pots"`
	WasShowdown bool           `json:"was_showdown"`
	StackDeltas map[string]int `json:"stack_deltas"`
	Timestamp   time.Time      `json:"timestamp"`
}

// NewKafkaPublisher builds a synchronous sarama producer configured for
// durable, ordered delivery of hand-completion events.
func NewKafkaPublisher(cfg KafkaPublisherConfig) (*KafkaPublisher, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Producer.Retry.Max = cfg.MaxRetries
	saramaCfg.Producer.Retry.Backoff = cfg.RetryBackoff
	saramaCfg.Producer.Flush.Frequency = cfg.FlushFrequency
	saramaCfg.Producer.RequiredAcks = cfg.RequiredAcks
	saramaCfg.Producer.Compression = cfg.Compression

	if cfg.RequiredAcks == sarama.WaitForAll {
		saramaCfg.Producer.Idempotent = true
		saramaCfg.Net.MaxOpenRequests = 1
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("analytics: failed to create kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer, topic: cfg.Topic}, nil
}

// PublishHandCompleted sends one hand.completed event, keyed by table so a
// consumer can process a table's hands in order.
func (p *KafkaPublisher) PublishHandCompleted(event HandCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("analytics: failed to marshal hand.completed event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TableID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("hand.completed")},
			{Key: []byte("game_type"), Value: []byte(event.GameType)},
		},
		Timestamp: event.Timestamp,
	}

	_, _, err = p.producer.SendMessage(msg)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.stats.MessagesFailed++
		return fmt.Errorf("analytics: failed to publish hand.completed: %w", err)
	}
	p.stats.MessagesSent++
	p.stats.LastMessageAt = time.Now()
	return nil
}

// Stats returns a snapshot of publish counters.
func (p *KafkaPublisher) Stats() PublisherStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
