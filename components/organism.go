package components

import (
	"fmt"

	"github.com/pthm-cable/mazeevo/genome"
)

// Action is one discrete motor command.
type Action int

// Motor commands. The order is the index into genome action priorities.
const (
	Forward Action = iota
	TurnLeft45
	TurnRight45
	Backward
)

// NumActions is the number of motor commands.
const NumActions = 4

var actionNames = [NumActions]string{"forward", "turn_left", "turn_right", "backward"}

// String returns the lower-case name of the action.
func (a Action) String() string {
	if a >= 0 && int(a) < NumActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Status is an individual's episode state.
type Status int

const (
	Active Status = iota
	Terminal
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	if s == Terminal {
		return "terminal"
	}
	return "active"
}

// Individual bundles identity, genome and per-episode state.
type Individual struct {
	ID         int
	Generation int
	Chromosome genome.Chromosome
	Robot      Robot

	Status      Status
	Elite       bool // copied unchanged from the previous generation's best
	Fitness     float64
	Steps       int
	Collisions  int
	ReachedGoal bool

	Trace []TraceStep // populated only when movement tracking is enabled
}

// NewIndividual creates an active individual with zeroed episode state.
func NewIndividual(id, generation int, c genome.Chromosome, body Body) Individual {
	return Individual{
		ID:         id,
		Generation: generation,
		Chromosome: c,
		Robot:      Robot{Body: body},
	}
}

// Reset places the robot at pose and clears all episode state.
// Identity and chromosome are kept.
func (ind *Individual) Reset(pose Pose, octant int) {
	ind.Robot.Pose = pose
	ind.Robot.Octant = octant
	ind.Status = Active
	ind.Fitness = 0
	ind.Steps = 0
	ind.Collisions = 0
	ind.ReachedGoal = false
	ind.Trace = nil
}

// IsActive reports whether the individual still takes simulation steps.
func (ind *Individual) IsActive() bool {
	return ind.Status == Active
}
