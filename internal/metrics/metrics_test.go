package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHandCompleteIncrementsHandsAndShowdowns(t *testing.T) {
	before := testutil.ToFloat64(HandsPlayed.WithLabelValues("test_variant_a"))
	beforeShowdowns := testutil.ToFloat64(ShowdownsTotal.WithLabelValues("test_variant_a"))

	RecordHandComplete("test_variant_a", 300, 1, true)

	if got := testutil.ToFloat64(HandsPlayed.WithLabelValues("test_variant_a")); got != before+1 {
		t.Fatalf("expected HandsPlayed to increment by 1, got %v want %v", got, before+1)
	}
	if got := testutil.ToFloat64(ShowdownsTotal.WithLabelValues("test_variant_a")); got != beforeShowdowns+1 {
		t.Fatalf("expected ShowdownsTotal to increment on a showdown hand, got %v want %v", got, beforeShowdowns+1)
	}
}

func TestRecordHandCompleteSkipsShowdownsCounterOnFoldWin(t *testing.T) {
	before := testutil.ToFloat64(ShowdownsTotal.WithLabelValues("test_variant_b"))
	RecordHandComplete("test_variant_b", 15, 0, false)
	if got := testutil.ToFloat64(ShowdownsTotal.WithLabelValues("test_variant_b")); got != before {
		t.Fatalf("expected ShowdownsTotal to stay unchanged on a fold win, got %v want %v", got, before)
	}
}

func TestRecordActionIncrementsPerActionTypeCounter(t *testing.T) {
	before := testutil.ToFloat64(ActionsTotal.WithLabelValues("fold"))
	RecordAction("fold")
	RecordAction("fold")
	if got := testutil.ToFloat64(ActionsTotal.WithLabelValues("fold")); got != before+2 {
		t.Fatalf("expected ActionsTotal{fold} to increment by 2, got %v want %v", got, before+2)
	}
}
