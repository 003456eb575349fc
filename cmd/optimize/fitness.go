package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/mazeevo/checkpoint"
	"github.com/pthm-cable/mazeevo/config"
	"github.com/pthm-cable/mazeevo/telemetry"
	"github.com/pthm-cable/mazeevo/trainer"
)

// Score weights. Success dominates; efficiency separates configs that solve
// mazes equally often.
const (
	weightSuccess    = 1.0
	weightEfficiency = 0.2
)

// FitnessEvaluator runs headless training and scores the outcome.
type FitnessEvaluator struct {
	ctx         context.Context
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestElite   *checkpoint.Checkpoint
	lastSuccess float64 // success rate from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:         ctx,
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestElite returns the best individual found during the best evaluation.
func (fe *FitnessEvaluator) BestElite() *checkpoint.Checkpoint {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestElite
}

// LastSuccess returns the goal-reaching rate of the most recent evaluation.
func (fe *FitnessEvaluator) LastSuccess() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSuccess
}

// runResult holds the results from a single training run.
type runResult struct {
	elite   *checkpoint.Checkpoint
	fitness float64
	success float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run concurrently, each with a single-threaded trainer.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	if fe.ctx.Err() != nil {
		return 0
	}

	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	p := pool.New().WithMaxGoroutines(max(1, len(fe.seeds)))
	for i, seed := range fe.seeds {
		i, seed := i, seed
		p.Go(func() {
			results[i] = fe.runTraining(cfg, seed)
		})
	}
	p.Wait()

	fitness := make([]float64, len(results))
	success := make([]float64, len(results))
	var best *checkpoint.Checkpoint
	for i, r := range results {
		fitness[i] = r.fitness
		success[i] = r.success
		if r.elite != nil && (best == nil || r.elite.Fitness > best.Fitness) {
			best = r.elite
		}
	}
	avg := stat.Mean(fitness, nil)

	fe.mu.Lock()
	if avg < fe.bestFitness {
		fe.bestFitness = avg
		fe.bestElite = best
	}
	fe.lastSuccess = stat.Mean(success, nil)
	fe.mu.Unlock()

	return avg
}

// runTraining trains one population from scratch and scores it. A run that
// fails (an unsolvable maze, cancellation) scores 0, the worst possible value.
func (fe *FitnessEvaluator) runTraining(cfg *config.Config, seed int64) runResult {
	opts, err := trainer.OptionsFromConfig(cfg)
	if err != nil {
		slog.Warn("invalid parameters", "error", err)
		return runResult{}
	}
	opts.Seed = seed
	opts.LogStats = false
	opts.Workers = 1

	elite := &eliteObserver{}
	tr, err := trainer.New(opts, elite)
	if err != nil {
		slog.Warn("trainer rejected parameters", "error", err)
		return runResult{}
	}

	summaries, err := tr.Run(fe.ctx, fe.generations, nil)
	if err != nil {
		slog.Warn("training run failed", "seed", seed, "error", err)
		return runResult{}
	}

	success, efficiency := scoreRun(summaries, opts.MaxSteps)
	return runResult{
		elite:   elite.best,
		fitness: -(weightSuccess*success + weightEfficiency*efficiency),
		success: success,
	}
}

// scoreRun returns the mean per-generation goal-reaching rate and the mean
// fraction of the step budget left unused.
func scoreRun(summaries []telemetry.GenerationSummary, maxSteps int) (success, efficiency float64) {
	if len(summaries) == 0 || maxSteps <= 0 {
		return 0, 0
	}
	rates := make([]float64, len(summaries))
	unused := make([]float64, len(summaries))
	for i, s := range summaries {
		if s.Population > 0 {
			rates[i] = float64(s.GoalsReached) / float64(s.Population)
		}
		unused[i] = 1 - s.AvgSteps/float64(maxSteps)
	}
	return stat.Mean(rates, nil), stat.Mean(unused, nil)
}

// copyConfig returns a copy of the base config. Only scalar fields are
// rewritten by ApplyToConfig, so the shared slices and maps stay untouched.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// eliteObserver remembers the fittest individual seen in a run.
type eliteObserver struct {
	best *checkpoint.Checkpoint
}

func (o *eliteObserver) OnMaze(telemetry.MazeRecord) error { return nil }

func (o *eliteObserver) OnGeneration(_ context.Context, res trainer.GenerationResult) error {
	for i := range res.Population {
		ind := &res.Population[i]
		if ind.ID != res.Summary.BestID {
			continue
		}
		if o.best == nil || ind.Fitness > o.best.Fitness {
			o.best = &checkpoint.Checkpoint{
				ID:         ind.ID,
				Fitness:    ind.Fitness,
				Generation: res.Summary.Generation,
				NextID:     res.NextID,
				Difficulty: res.Summary.Difficulty,
				Chromosome: ind.Chromosome,
			}
		}
		break
	}
	return nil
}
