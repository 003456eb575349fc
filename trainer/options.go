package trainer

import (
	"fmt"
	"runtime"

	"github.com/pthm-cable/mazeevo/checkpoint"
	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/config"
	"github.com/pthm-cable/mazeevo/genome"
	"github.com/pthm-cable/mazeevo/systems"
)

// Options holds everything a Trainer needs, resolved from configuration.
type Options struct {
	PopulationSize int
	Seed           int64

	Mutation genome.MutationParams
	Fitness  systems.FitnessWeights
	Geometry systems.Geometry

	MaxSteps             int
	TerminateOnCollision bool
	TrackMovement        bool
	LogStats             bool

	Profiles        map[systems.Difficulty]systems.MazeProfile
	MaxMazeAttempts int
	Sequence        []systems.Difficulty
	PhaseLength     int

	ParallelThreshold int // below this many active individuals a tick runs sequentially
	Workers           int // 0 = GOMAXPROCS

	// Resume counters. Generation numbering and ID issuance start here.
	StartGeneration int
	NextID          int
}

// DefaultOptions returns options matching the embedded default configuration,
// except for a fixed seed.
func DefaultOptions() Options {
	return Options{
		PopulationSize:    50,
		Seed:              1,
		Mutation:          genome.MutationParams{Rate: 0.1, Scale: 1},
		Fitness:           systems.DefaultFitnessWeights(),
		Geometry:          systems.DefaultGeometry(),
		MaxSteps:          1000,
		LogStats:          true,
		Profiles:          systems.DefaultProfiles(),
		MaxMazeAttempts:   1000,
		Sequence:          []systems.Difficulty{systems.Open, systems.Medium, systems.Complex, systems.Narrow},
		PhaseLength:       25,
		ParallelThreshold: 32,
	}
}

// OptionsFromConfig resolves a loaded configuration into trainer options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		PopulationSize: cfg.Population.Size,
		Seed:           cfg.Evolution.Seed,
		Mutation: genome.MutationParams{
			Rate:                  cfg.Mutation.Rate,
			Scale:                 cfg.Mutation.Scale,
			KeepThresholdsOrdered: cfg.Mutation.KeepThresholdsOrdered,
		},
		Fitness: systems.FitnessWeights{
			Baseline: cfg.Fitness.Baseline,
			Alpha:    cfg.Fitness.Alpha,
			Beta:     cfg.Fitness.Beta,
			Gamma:    cfg.Fitness.Gamma,
			Delta:    cfg.Fitness.Delta,
			Epsilon:  cfg.Fitness.Epsilon,
		},
		Geometry: systems.Geometry{
			Body:          components.Body{Width: cfg.Robot.Width, Height: cfg.Robot.Height},
			StepDistance:  cfg.Simulation.StepDistance,
			TurnAngle:     cfg.Derived.TurnAngleRad,
			GoalThreshold: cfg.Simulation.GoalThreshold,
			SensorStep:    cfg.Simulation.SensorStep,
		},
		MaxSteps:             cfg.Simulation.MaxSteps,
		TerminateOnCollision: cfg.Simulation.TerminateOnCollision,
		TrackMovement:        cfg.Telemetry.TrackMovement,
		LogStats:             cfg.Telemetry.LogStats,
		MaxMazeAttempts:      cfg.Maze.MaxAttempts,
		PhaseLength:          cfg.Curriculum.PhaseLength,
		ParallelThreshold:    cfg.Simulation.ParallelThreshold,
		Workers:              cfg.Simulation.Workers,
	}

	if len(cfg.Sensors) != systems.NumSensors {
		return Options{}, fmt.Errorf("expected %d sensors, got %d", systems.NumSensors, len(cfg.Sensors))
	}
	for i, s := range cfg.Sensors {
		opts.Geometry.Sensors[i] = systems.Sensor{
			Name:        s.Name,
			AngleOffset: cfg.Derived.SensorAngleRads[i],
			MaxRange:    s.Range,
		}
	}

	opts.Profiles = systems.DefaultProfiles()
	for name, p := range cfg.Maze.Difficulties {
		d, err := systems.ParseDifficulty(name)
		if err != nil {
			return Options{}, fmt.Errorf("maze.difficulties: %w", err)
		}
		opts.Profiles[d] = systems.MazeProfile{Width: p.Width, Height: p.Height, ClearPercent: p.ClearPercent}
	}

	for _, name := range cfg.Curriculum.Sequence {
		d, err := systems.ParseDifficulty(name)
		if err != nil {
			return Options{}, fmt.Errorf("curriculum.sequence: %w", err)
		}
		opts.Sequence = append(opts.Sequence, d)
	}

	return opts, nil
}

// ResumeFrom continues the generation and id counters of the run that wrote cp.
func (o *Options) ResumeFrom(cp *checkpoint.Checkpoint) {
	if cp == nil {
		return
	}
	o.StartGeneration = cp.Generation + 1
	o.NextID = cp.NextID
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
