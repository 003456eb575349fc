package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes training progress as Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	generations  prometheus.Counter
	goalsReached prometheus.Counter
	mazes        *prometheus.CounterVec
	mazeAttempts prometheus.Histogram
	bestFitness  prometheus.Gauge
	avgFitness   prometheus.Gauge
	phase        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazeevo_generations_total",
			Help: "Generations completed.",
		}),
		goalsReached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazeevo_goals_reached_total",
			Help: "Episodes that ended at the goal.",
		}),
		mazes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mazeevo_mazes_generated_total",
			Help: "Solvable mazes generated, by difficulty.",
		}, []string{"difficulty"}),
		mazeAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeevo_maze_attempts",
			Help:    "Attempts needed to generate a solvable maze.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeevo_best_fitness",
			Help: "Best fitness of the last completed generation.",
		}),
		avgFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeevo_avg_fitness",
			Help: "Average fitness of the last completed generation.",
		}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeevo_curriculum_phase",
			Help: "Current curriculum phase index.",
		}),
	}
	reg.MustRegister(m.generations, m.goalsReached, m.mazes, m.mazeAttempts, m.bestFitness, m.avgFitness, m.phase)
	return m
}

// ObserveGeneration records a finished generation.
func (m *Metrics) ObserveGeneration(s GenerationSummary) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.goalsReached.Add(float64(s.GoalsReached))
	m.bestFitness.Set(s.BestFitness)
	m.avgFitness.Set(s.AvgFitness)
	m.phase.Set(float64(s.Phase))
}

// ObserveMaze records a generated maze.
func (m *Metrics) ObserveMaze(r MazeRecord) {
	if m == nil {
		return
	}
	m.mazes.WithLabelValues(r.Difficulty).Inc()
	m.mazeAttempts.Observe(float64(r.Attempts))
}
