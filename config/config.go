// Package config provides configuration loading and access for the trainer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// NumSensors is the fixed number of range sensors carried by every robot.
const NumSensors = 5

// Config holds all training configuration parameters.
type Config struct {
	Population PopulationConfig `yaml:"population"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Fitness    FitnessConfig    `yaml:"fitness"`
	Simulation SimulationConfig `yaml:"simulation"`
	Robot      RobotConfig      `yaml:"robot"`
	Sensors    []SensorConfig   `yaml:"sensors"`
	Maze       MazeConfig       `yaml:"maze"`
	Curriculum CurriculumConfig `yaml:"curriculum"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PopulationConfig holds population sizing.
type PopulationConfig struct {
	Size int `yaml:"size" env:"MAZEEVO_POPULATION_SIZE"`
}

// EvolutionConfig holds run length and RNG seeding.
type EvolutionConfig struct {
	Generations int   `yaml:"generations" env:"MAZEEVO_GENERATIONS"`
	Seed        int64 `yaml:"seed"        env:"MAZEEVO_SEED"` // 0 = time-based
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate                  float64 `yaml:"rate"                    env:"MAZEEVO_MUTATION_RATE"`
	Scale                 float64 `yaml:"scale"                   env:"MAZEEVO_MUTATION_SCALE"` // Multiplies every per-gene offset bound
	KeepThresholdsOrdered bool    `yaml:"keep_thresholds_ordered" env:"MAZEEVO_MUTATION_KEEP_THRESHOLDS_ORDERED"`
}

// FitnessConfig holds the fitness shaping weights.
type FitnessConfig struct {
	Baseline float64 `yaml:"baseline" env:"MAZEEVO_FITNESS_BASELINE"`
	Alpha    float64 `yaml:"alpha"    env:"MAZEEVO_FITNESS_ALPHA"`   // Time penalty per step
	Beta     float64 `yaml:"beta"     env:"MAZEEVO_FITNESS_BETA"`    // Energy penalty, applied to 0.1 per step
	Gamma    float64 `yaml:"gamma"    env:"MAZEEVO_FITNESS_GAMMA"`   // Final distance penalty
	Delta    float64 `yaml:"delta"    env:"MAZEEVO_FITNESS_DELTA"`   // Collision penalty
	Epsilon  float64 `yaml:"epsilon"  env:"MAZEEVO_FITNESS_EPSILON"` // Goal bonus, multiplied by 100
}

// SimulationConfig holds episode and kinematics parameters.
type SimulationConfig struct {
	MaxSteps             int     `yaml:"max_steps"              env:"MAZEEVO_MAX_STEPS"`
	StepDistance         float64 `yaml:"step_distance"`
	TurnAngleDeg         float64 `yaml:"turn_angle_deg"`
	GoalThreshold        float64 `yaml:"goal_threshold"`
	SensorStep           float64 `yaml:"sensor_step"`
	TerminateOnCollision bool    `yaml:"terminate_on_collision" env:"MAZEEVO_TERMINATE_ON_COLLISION"`
	ParallelThreshold    int     `yaml:"parallel_threshold"` // Below this many active individuals a tick runs single-threaded
	Workers              int     `yaml:"workers"            env:"MAZEEVO_WORKERS"` // 0 = GOMAXPROCS
}

// RobotConfig holds the robot's bounding rectangle.
type RobotConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SensorConfig describes one range sensor relative to the robot heading.
type SensorConfig struct {
	Name     string  `yaml:"name"`
	AngleDeg float64 `yaml:"angle_deg"`
	Range    float64 `yaml:"range"`
}

// MazeProfile defines grid size and openness for one difficulty.
type MazeProfile struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	ClearPercent int `yaml:"clear_percent"`
}

// MazeConfig holds maze generation parameters.
type MazeConfig struct {
	MaxAttempts  int                    `yaml:"max_attempts" env:"MAZEEVO_MAZE_MAX_ATTEMPTS"`
	Difficulties map[string]MazeProfile `yaml:"difficulties"`
}

// CurriculumConfig holds the difficulty schedule.
type CurriculumConfig struct {
	Sequence    []string `yaml:"sequence"     env:"MAZEEVO_CURRICULUM_SEQUENCE" envSeparator:","`
	PhaseLength int      `yaml:"phase_length" env:"MAZEEVO_CURRICULUM_PHASE_LENGTH"`
}

// TelemetryConfig holds output and observability settings.
type TelemetryConfig struct {
	OutputDir     string `yaml:"output_dir"     env:"MAZEEVO_OUTPUT_DIR"`
	TrackMovement bool   `yaml:"track_movement" env:"MAZEEVO_TRACK_MOVEMENT"`
	LogStats      bool   `yaml:"log_stats"      env:"MAZEEVO_LOG_STATS"`
	MetricsAddr   string `yaml:"metrics_addr"   env:"MAZEEVO_METRICS_ADDR"`
}

// CheckpointConfig selects where the best individual is persisted.
type CheckpointConfig struct {
	Backend string `yaml:"backend" env:"MAZEEVO_CHECKPOINT_BACKEND"` // file | sqlite
	Path    string `yaml:"path"    env:"MAZEEVO_CHECKPOINT_PATH"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	TurnAngleRad    float64
	SensorAngleRads [NumSensors]float64
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. MAZEEVO_* environment
// variables are applied last.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Validate checks the structural constraints the trainer relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.Population.Size < 2 {
		errs = append(errs, fmt.Errorf("population.size must be at least 2, got %d", c.Population.Size))
	}
	if c.Evolution.Generations < 0 {
		errs = append(errs, fmt.Errorf("evolution.generations must not be negative, got %d", c.Evolution.Generations))
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		errs = append(errs, fmt.Errorf("mutation.rate must be in [0,1], got %g", c.Mutation.Rate))
	}
	if c.Mutation.Scale < 0 {
		errs = append(errs, fmt.Errorf("mutation.scale must not be negative, got %g", c.Mutation.Scale))
	}
	if c.Simulation.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("simulation.max_steps must be positive, got %d", c.Simulation.MaxSteps))
	}
	if c.Simulation.StepDistance <= 0 {
		errs = append(errs, fmt.Errorf("simulation.step_distance must be positive, got %g", c.Simulation.StepDistance))
	}
	if c.Simulation.TurnAngleDeg <= 0 {
		errs = append(errs, fmt.Errorf("simulation.turn_angle_deg must be positive, got %g", c.Simulation.TurnAngleDeg))
	}
	if c.Simulation.GoalThreshold <= 0 {
		errs = append(errs, fmt.Errorf("simulation.goal_threshold must be positive, got %g", c.Simulation.GoalThreshold))
	}
	if c.Simulation.SensorStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.sensor_step must be positive, got %g", c.Simulation.SensorStep))
	}
	if c.Robot.Width <= 0 || c.Robot.Height <= 0 {
		errs = append(errs, fmt.Errorf("robot dimensions must be positive, got %gx%g", c.Robot.Width, c.Robot.Height))
	}
	if len(c.Sensors) != NumSensors {
		errs = append(errs, fmt.Errorf("exactly %d sensors required, got %d", NumSensors, len(c.Sensors)))
	}
	for i, s := range c.Sensors {
		if s.Range <= 0 {
			errs = append(errs, fmt.Errorf("sensors[%d] (%s): range must be positive", i, s.Name))
		}
	}
	if c.Maze.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("maze.max_attempts must be positive, got %d", c.Maze.MaxAttempts))
	}
	for name, p := range c.Maze.Difficulties {
		if p.Width < 3 || p.Height < 3 {
			errs = append(errs, fmt.Errorf("maze.difficulties.%s: grid must be at least 3x3", name))
		}
		if p.ClearPercent < 0 || p.ClearPercent > 100 {
			errs = append(errs, fmt.Errorf("maze.difficulties.%s: clear_percent must be in [0,100]", name))
		}
	}
	if len(c.Curriculum.Sequence) == 0 {
		errs = append(errs, errors.New("curriculum.sequence must not be empty"))
	}
	if c.Curriculum.PhaseLength < 1 {
		errs = append(errs, fmt.Errorf("curriculum.phase_length must be positive, got %d", c.Curriculum.PhaseLength))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TurnAngleRad = c.Simulation.TurnAngleDeg * math.Pi / 180
	for i := 0; i < NumSensors && i < len(c.Sensors); i++ {
		c.Derived.SensorAngleRads[i] = c.Sensors[i].AngleDeg * math.Pi / 180
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
