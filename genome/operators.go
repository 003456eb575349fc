package genome

import (
	"math/rand"
	"sort"
)

// Per-gene mutation offset bounds before scaling.
const (
	weightOffset    = 0.1
	thresholdOffset = 2.0
	priorityOffset  = 0.1
	turnOffset      = 0.2
	avoidanceOffset = 0.2
)

// MutationParams controls Mutate.
type MutationParams struct {
	Rate  float64 // Per-gene probability of perturbation
	Scale float64 // Multiplies every offset bound (1 = default bounds)

	// KeepThresholdsOrdered re-sorts thresholds after perturbation so near <= mid <= far.
	KeepThresholdsOrdered bool
}

// Crossover performs uniform crossover between two parents.
// Every gene is decided by its own coin flip and the two children are complementary:
// whichever parent child1 inherits from, child2 inherits from the other.
// Turn aggressiveness and collision avoidance travel together as one gene.
func Crossover(p1, p2 Chromosome, rng *rand.Rand) (Chromosome, Chromosome) {
	var c1, c2 Chromosome

	for i := range c1.SensorWeights {
		c1.SensorWeights[i], c2.SensorWeights[i] = pick(p1.SensorWeights[i], p2.SensorWeights[i], rng)
	}
	for i := range c1.Thresholds {
		c1.Thresholds[i], c2.Thresholds[i] = pick(p1.Thresholds[i], p2.Thresholds[i], rng)
	}
	for i := range c1.ActionPriorities {
		c1.ActionPriorities[i], c2.ActionPriorities[i] = pick(p1.ActionPriorities[i], p2.ActionPriorities[i], rng)
	}

	if rng.Intn(2) == 1 {
		c1.TurnAggressiveness, c1.CollisionAvoidance = p1.TurnAggressiveness, p1.CollisionAvoidance
		c2.TurnAggressiveness, c2.CollisionAvoidance = p2.TurnAggressiveness, p2.CollisionAvoidance
	} else {
		c1.TurnAggressiveness, c1.CollisionAvoidance = p2.TurnAggressiveness, p2.CollisionAvoidance
		c2.TurnAggressiveness, c2.CollisionAvoidance = p1.TurnAggressiveness, p1.CollisionAvoidance
	}

	return c1, c2
}

func pick(a, b float64, rng *rand.Rand) (float64, float64) {
	if rng.Intn(2) == 1 {
		return a, b
	}
	return b, a
}

// Mutate returns a perturbed copy of c. Each gene is offset with probability
// p.Rate by a uniform value in [-bound, bound] and then clamped, so the result
// is always within bounds.
func Mutate(c Chromosome, p MutationParams, rng *rand.Rand) Chromosome {
	for i := range c.SensorWeights {
		if rng.Float64() < p.Rate {
			c.SensorWeights[i] = clamp01(c.SensorWeights[i] + offset(rng, weightOffset*p.Scale))
		}
	}

	for i := range c.Thresholds {
		if rng.Float64() < p.Rate {
			c.Thresholds[i] = atLeast(c.Thresholds[i]+offset(rng, thresholdOffset*p.Scale), MinThreshold)
		}
	}
	if p.KeepThresholdsOrdered {
		sort.Float64s(c.Thresholds[:])
	}

	for i := range c.ActionPriorities {
		if rng.Float64() < p.Rate {
			c.ActionPriorities[i] = clamp01(c.ActionPriorities[i] + offset(rng, priorityOffset*p.Scale))
		}
	}

	if rng.Float64() < p.Rate {
		c.TurnAggressiveness = atLeast(c.TurnAggressiveness+offset(rng, turnOffset*p.Scale), MinTurnAggressiveness)
	}
	if rng.Float64() < p.Rate {
		c.CollisionAvoidance = atLeast(c.CollisionAvoidance+offset(rng, avoidanceOffset*p.Scale), MinCollisionAvoidance)
	}

	// Inputs may already be out of range (e.g. a hand-edited checkpoint).
	return c.Clamped()
}

func offset(rng *rand.Rand, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}

// IDGenerator issues monotonically increasing individual IDs.
type IDGenerator struct {
	next int
}

// NewIDGenerator creates a generator whose first ID is start.
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{next: start}
}

// Next returns the next unique ID.
func (g *IDGenerator) Next() int {
	id := g.next
	g.next++
	return id
}

// Peek returns the ID that Next will return, without consuming it.
func (g *IDGenerator) Peek() int {
	return g.next
}
