package encounter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (labels are fixed enums only)
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brawl_tick_duration_seconds",
		Help:    "Time spent in one physics tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	shovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_shoves_total",
		Help: "Player shoves that landed on the boss",
	})

	countersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_counters_total",
		Help: "Boss counters fired",
	}, []string{"kind"}) // Bounded: "parry", "brace"

	stunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_stuns_total",
		Help: "Knockback hits taken",
	}, []string{"agent"}) // Bounded: "player", "boss"

	bossShovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_boss_shoves_total",
		Help: "Boss contact shoves",
	})

	fallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_falls_total",
		Help: "Agents that dropped into the pit",
	}, []string{"agent"})

	progressGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brawl_progress",
		Help: "Progress value of the last applied difficulty blend",
	})

	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_outcomes_total",
		Help: "Finished encounters",
	}, []string{"outcome"}) // Bounded: "victory", "defeat"
)

// RecordTick records how long one tick took
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}
