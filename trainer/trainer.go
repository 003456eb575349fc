// Package trainer runs the evolution loop: curriculum phases, generations,
// episodes and breeding.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/genome"
	"github.com/pthm-cable/mazeevo/systems"
	"github.com/pthm-cable/mazeevo/telemetry"
)

// GenerationResult is handed to observers after every generation.
// Population and Context must be treated as read-only and not retained.
type GenerationResult struct {
	Summary    telemetry.GenerationSummary
	Population []components.Individual
	Context    *systems.SimulationContext
	NextID     int // first ID the next generation will issue
}

// Observer receives mazes and finished generations. Observers run between
// generations, never during a tick. An error aborts the run.
type Observer interface {
	OnMaze(rec telemetry.MazeRecord) error
	OnGeneration(ctx context.Context, res GenerationResult) error
}

// Trainer evolves a population of navigation policies.
type Trainer struct {
	opts       Options
	rng        *rand.Rand
	mazes      *systems.MazeGenerator
	curriculum *Curriculum
	fitness    *systems.FitnessEvaluator
	ids        *genome.IDGenerator
	observers  []Observer

	// Current phase environment. Rebuilt only when the phase changes.
	sim       *systems.SimulationContext
	phase     int
	phaseGens int
	mazeCount int

	phaseBest  []float64
	totalGoals int

	population   []components.Individual
	generation   int  // next generation to run
	pendingBreed bool // population is finished but not yet bred
}

// New creates a trainer. A zero seed uses the current time.
func New(opts Options, observers ...Observer) (*Trainer, error) {
	if opts.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d", opts.PopulationSize)
	}
	if opts.MaxSteps < 1 {
		return nil, fmt.Errorf("max steps must be positive, got %d", opts.MaxSteps)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	curriculum, err := NewCurriculum(opts.Sequence, opts.PhaseLength, rng)
	if err != nil {
		return nil, err
	}

	return &Trainer{
		opts:       opts,
		rng:        rng,
		mazes:      systems.NewMazeGenerator(rng, opts.Profiles),
		curriculum: curriculum,
		fitness:    systems.NewFitnessEvaluator(opts.Fitness),
		ids:        genome.NewIDGenerator(opts.NextID),
		observers:  observers,
		phase:      -1,
		phaseBest:  make([]float64, curriculum.Len()),
		generation: opts.StartGeneration,
	}, nil
}

// ListDifficulties returns every maze difficulty the trainer can schedule.
func ListDifficulties() []systems.Difficulty {
	return systems.AllDifficulties()
}

// Generation returns the index of the next generation to run.
func (t *Trainer) Generation() int { return t.generation }

// NextID returns the next individual ID that will be issued.
func (t *Trainer) NextID() int { return t.ids.Peek() }

// Population returns the current population. It must not be modified.
func (t *Trainer) Population() []components.Individual { return t.population }

// Context returns the current simulation context, or nil before the first generation.
func (t *Trainer) Context() *systems.SimulationContext { return t.sim }

// PhaseBest returns the best fitness seen in each curriculum phase.
func (t *Trainer) PhaseBest() []float64 {
	out := make([]float64, len(t.phaseBest))
	copy(out, t.phaseBest)
	return out
}

// Run executes the given number of generations and returns their summaries.
//
// seed, if non-nil, replaces the chromosome of slot 0 in the very first
// generation this trainer runs. Cancellation is checked only between
// generations; on cancellation the summaries completed so far are returned
// together with ctx.Err().
func (t *Trainer) Run(ctx context.Context, generations int, seed *genome.Chromosome) ([]telemetry.GenerationSummary, error) {
	summaries := make([]telemetry.GenerationSummary, 0, generations)
	end := t.generation + generations

	for g := t.generation; g < end; g++ {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		if err := t.enterPhase(g); err != nil {
			return summaries, err
		}

		switch {
		case t.population == nil:
			t.population = t.initialPopulation(g, seed)
		case t.pendingBreed:
			t.breed(g)
		}

		summary := t.runGeneration(g)
		summaries = append(summaries, summary)

		if err := t.notify(ctx, summary); err != nil {
			return summaries, fmt.Errorf("generation %d: %w", g, err)
		}

		t.logProgress(g)
		t.generation = g + 1

		// The last generation of a run is left unbred so observers and
		// callers see the evaluated population.
		if g < end-1 {
			t.breed(g + 1)
		} else {
			t.pendingBreed = true
		}
	}

	return summaries, nil
}

func (t *Trainer) breed(generation int) {
	t.population = systems.Breed(t.population, generation, t.ids, t.opts.Mutation, t.sim.Rng)
	t.pendingBreed = false
}

// enterPhase regenerates the maze when generation g starts a different phase.
func (t *Trainer) enterPhase(g int) error {
	ph := t.curriculum.PhaseAt(g)
	if ph.Index == t.phase && t.sim != nil {
		t.phaseGens++
		return nil
	}

	if t.phase >= 0 {
		slog.Info("phase_completed",
			"phase", t.phase,
			"difficulty", t.curriculum.sequence[t.phase].String(),
			"generations", t.phaseGens,
			"best_fitness", t.phaseBest[t.phase],
		)
	}

	maze, err := t.mazes.Generate(ph.Difficulty, t.opts.MaxMazeAttempts)
	if err != nil {
		return fmt.Errorf("phase %d (%s): %w", ph.Index, ph.Difficulty, err)
	}

	t.sim = systems.NewSimulationContext(maze.Grid, maze.Start, maze.Goal, t.opts.Geometry, t.rng)
	t.phase = ph.Index
	t.phaseGens = 1
	t.mazeCount++

	slog.Info("phase_started",
		"phase", ph.Index,
		"difficulty", ph.Difficulty.String(),
		"generation", g,
		"maze_id", t.mazeCount,
	)

	rec := telemetry.NewMazeRecord(t.mazeCount, ph.Index, g, maze)
	for _, o := range t.observers {
		if err := o.OnMaze(rec); err != nil {
			return fmt.Errorf("phase %d (%s): %w", ph.Index, ph.Difficulty, err)
		}
	}
	return nil
}

func (t *Trainer) initialPopulation(g int, seed *genome.Chromosome) []components.Individual {
	pop := make([]components.Individual, t.opts.PopulationSize)
	for i := range pop {
		c := genome.NewRandom(t.rng)
		if i == 0 && seed != nil {
			c = seed.Clamped()
			slog.Info("population_seeded", "generation", g)
		}
		pop[i] = components.NewIndividual(t.ids.Next(), g, c, t.opts.Geometry.Body)
	}
	return pop
}

// runGeneration evaluates every individual on the current maze and summarizes the result.
func (t *Trainer) runGeneration(g int) telemetry.GenerationSummary {
	spawn := t.sim.SpawnPose()
	octant := systems.Octant(spawn.Heading)
	for i := range t.population {
		t.population[i].Reset(spawn, octant)
	}

	ticks := t.runEpisode()

	summary := telemetry.Summarize(g, t.population)
	summary.Phase = t.phase
	summary.Difficulty = t.curriculum.sequence[t.phase].String()
	summary.MazeID = t.mazeCount
	summary.Ticks = ticks

	t.totalGoals += summary.GoalsReached
	if summary.BestFitness > t.phaseBest[t.phase] {
		t.phaseBest[t.phase] = summary.BestFitness
	}
	if t.opts.LogStats {
		summary.LogStats()
	}
	return summary
}

func (t *Trainer) notify(ctx context.Context, s telemetry.GenerationSummary) error {
	res := GenerationResult{
		Summary:    s,
		Population: t.population,
		Context:    t.sim,
		NextID:     t.ids.Peek(),
	}
	var errs []error
	for _, o := range t.observers {
		if err := o.OnGeneration(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// logProgress emits a progress summary at every phase-length boundary.
func (t *Trainer) logProgress(g int) {
	if (g+1)%t.curriculum.PhaseLength() != 0 {
		return
	}
	slog.Info("training_progress",
		"generation", g,
		"phase", t.phase,
		"difficulty", t.curriculum.sequence[t.phase].String(),
		"phase_best_fitness", t.phaseBest[t.phase],
		"total_goals_reached", t.totalGoals,
	)
}
