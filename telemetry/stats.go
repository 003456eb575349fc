// Package telemetry turns finished generations into summaries, log lines,
// output files and metrics.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/mazeevo/components"
)

// GenerationSummary holds aggregated results for one finished generation.
type GenerationSummary struct {
	Generation int    `csv:"generation"`
	Phase      int    `csv:"phase"`
	Difficulty string `csv:"difficulty"`
	MazeID     int    `csv:"maze_id"`

	Population   int `csv:"population"`
	GoalsReached int `csv:"goals_reached"`
	Ticks        int `csv:"ticks"` // ticks until every individual was terminal

	// Fitness distribution
	AvgFitness  float64 `csv:"avg_fitness"`
	BestFitness float64 `csv:"best_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	P10Fitness  float64 `csv:"p10_fitness"`
	P50Fitness  float64 `csv:"p50_fitness"`
	P90Fitness  float64 `csv:"p90_fitness"`
	BestID      int     `csv:"best_id"`

	AvgSteps        float64 `csv:"avg_steps"`
	TotalCollisions int     `csv:"total_collisions"`
}

// Summarize computes population statistics for a finished generation.
// Identification fields (phase, difficulty, maze, ticks) are left for the caller.
func Summarize(generation int, pop []components.Individual) GenerationSummary {
	s := GenerationSummary{
		Generation: generation,
		Population: len(pop),
		BestID:     -1,
	}
	if len(pop) == 0 {
		return s
	}

	fitness := make([]float64, len(pop))
	steps := make([]float64, len(pop))
	best := 0
	for i := range pop {
		ind := &pop[i]
		fitness[i] = ind.Fitness
		steps[i] = float64(ind.Steps)
		if ind.ReachedGoal {
			s.GoalsReached++
		}
		s.TotalCollisions += ind.Collisions
		if ind.Fitness > pop[best].Fitness {
			best = i
		}
	}

	s.BestFitness = pop[best].Fitness
	s.BestID = pop[best].ID
	s.AvgFitness, s.StdFitness, s.P10Fitness, s.P50Fitness, s.P90Fitness = ComputeFitnessStats(fitness)
	s.AvgSteps = stat.Mean(steps, nil)
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates mean, sample standard deviation and
// percentiles. A single value has zero deviation.
func ComputeFitnessStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if n == 1 || math.IsNaN(std) {
		std = 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("phase", s.Phase),
		slog.String("difficulty", s.Difficulty),
		slog.Int("maze_id", s.MazeID),
		slog.Int("population", s.Population),
		slog.Int("goals_reached", s.GoalsReached),
		slog.Int("ticks", s.Ticks),
		slog.Float64("avg_fitness", s.AvgFitness),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Float64("p10_fitness", s.P10Fitness),
		slog.Float64("p50_fitness", s.P50Fitness),
		slog.Float64("p90_fitness", s.P90Fitness),
		slog.Int("best_id", s.BestID),
		slog.Float64("avg_steps", s.AvgSteps),
		slog.Int("total_collisions", s.TotalCollisions),
	)
}

// LogStats logs the generation summary using slog.
func (s GenerationSummary) LogStats() {
	slog.Info("generation", "summary", s)
}
