// Package metrics exposes prometheus instrumentation for the engine host:
// hands played, betting-round duration, pot sizes, showdown counts, and
// side-pot counts, following the promauto style the teacher uses for its
// fraud-detection metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HandsPlayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poker_hands_played_total",
			Help: "Total number of completed hands, by rules variant.",
		},
		[]string{"variant"},
	)

	BettingRoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poker_betting_round_duration_seconds",
			Help:    "Wall-clock duration of a betting round from first action to completion.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"variant"},
	)

	PotSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poker_pot_size_chips",
			Help:    "Total chips in the pot at showdown or fold-win, by variant.",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"variant"},
	)

	ShowdownsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poker_showdowns_total",
			Help: "Total number of hands that reached showdown (as opposed to a fold win).",
		},
		[]string{"variant"},
	)

	SidePotsPerHand = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poker_side_pots_per_hand",
			Help:    "Number of side pots created in a hand.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"variant"},
	)

	ActiveTables = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poker_active_tables",
			Help: "Number of tables currently running a hand loop.",
		},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poker_actions_total",
			Help: "Total player actions handled, by action type.",
		},
		[]string{"action"},
	)
)

// RecordHandComplete updates the per-hand metrics once a hand reaches
// PhaseComplete: hand count, pot size, showdown/fold-win split, and side
// pot count.
func RecordHandComplete(variant string, potTotal int, sidePots int, wasShowdown bool) {
	HandsPlayed.WithLabelValues(variant).Inc()
	PotSize.WithLabelValues(variant).Observe(float64(potTotal))
	SidePotsPerHand.WithLabelValues(variant).Observe(float64(sidePots))
	if wasShowdown {
		ShowdownsTotal.WithLabelValues(variant).Inc()
	}
}

// RecordAction increments the per-action-type counter; called by the host
// each time HandleAction is invoked.
func RecordAction(action string) {
	ActionsTotal.WithLabelValues(action).Inc()
}
