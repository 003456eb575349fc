package systems

import (
	"math"

	"github.com/pthm-cable/mazeevo/components"
)

// MinFitness is the floor every evaluated fitness is raised to.
const MinFitness = 1.0

// FitnessWeights shape the episode score.
type FitnessWeights struct {
	Baseline float64
	Alpha    float64 // per step
	Beta     float64 // energy, applied to 0.1 per step
	Gamma    float64 // final distance to the goal center
	Delta    float64 // per collision
	Epsilon  float64 // goal bonus, multiplied by 100
}

// DefaultFitnessWeights returns the standard weights.
func DefaultFitnessWeights() FitnessWeights {
	return FitnessWeights{
		Baseline: 2000,
		Alpha:    1.0,
		Beta:     0.5,
		Gamma:    0.3,
		Delta:    2.0,
		Epsilon:  10.0,
	}
}

// FitnessEvaluator scores finished episodes.
type FitnessEvaluator struct {
	Weights FitnessWeights
}

// NewFitnessEvaluator creates an evaluator with the given weights.
func NewFitnessEvaluator(w FitnessWeights) *FitnessEvaluator {
	return &FitnessEvaluator{Weights: w}
}

// Score computes fitness from raw episode outcomes. The result is never below MinFitness.
func (e *FitnessEvaluator) Score(steps, collisions int, distance float64, reached bool) float64 {
	w := e.Weights
	timePenalty := w.Alpha * float64(steps)
	energyPenalty := w.Beta * 0.1 * float64(steps)
	distancePenalty := w.Gamma * distance
	collisionPenalty := w.Delta * float64(collisions)

	bonus := 0.0
	if reached {
		bonus = w.Epsilon * 100
	}

	f := w.Baseline + bonus - (timePenalty + energyPenalty + distancePenalty + collisionPenalty)
	return math.Max(f, MinFitness)
}

// Evaluate scores an individual's episode against the context's goal.
func (e *FitnessEvaluator) Evaluate(ind *components.Individual, ctx *SimulationContext) float64 {
	return e.Score(ind.Steps, ind.Collisions, DistanceToGoal(ind.Robot.Pose, ctx), ind.ReachedGoal)
}
