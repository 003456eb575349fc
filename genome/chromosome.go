// Package genome defines the evolvable navigation policy parameters and the
// chromosome-level genetic operators.
package genome

import (
	"math/rand"
)

// Chromosome layout sizes.
const (
	NumSensors    = 5
	NumThresholds = 3
	NumActions    = 4

	// NumGenes counts every scalar in a chromosome.
	NumGenes = NumSensors + NumThresholds + NumActions + 2
)

// Threshold indices.
const (
	Near = iota
	Mid
	Far
)

// Gene bounds. Values outside these are clamped, never rejected.
const (
	MinThreshold          = 1.0
	MinTurnAggressiveness = 0.1
	MinCollisionAvoidance = 0.1
)

// Chromosome holds the parameters of one decision policy.
// It is a value type: operators return new chromosomes instead of editing in place.
type Chromosome struct {
	SensorWeights      [NumSensors]float64    `json:"sensor_weights"      yaml:"sensor_weights"`
	Thresholds         [NumThresholds]float64 `json:"distance_thresholds" yaml:"distance_thresholds"` // near, mid, far
	ActionPriorities   [NumActions]float64    `json:"action_priorities"   yaml:"action_priorities"`
	TurnAggressiveness float64                `json:"turn_aggressiveness" yaml:"turn_aggressiveness"`
	CollisionAvoidance float64                `json:"collision_avoidance" yaml:"collision_avoidance"`
}

// NewRandom creates a chromosome with freshly sampled genes.
// Thresholds are drawn from disjoint ascending bands so near < mid < far.
func NewRandom(rng *rand.Rand) Chromosome {
	var c Chromosome
	for i := range c.SensorWeights {
		c.SensorWeights[i] = uniform(rng, 0, 1)
	}

	c.Thresholds[Near] = uniform(rng, 5, 15)
	c.Thresholds[Mid] = uniform(rng, 15, 30)
	c.Thresholds[Far] = uniform(rng, 30, 50)

	for i := range c.ActionPriorities {
		c.ActionPriorities[i] = uniform(rng, 0, 1)
	}

	c.TurnAggressiveness = uniform(rng, 0.1, 2.0)
	c.CollisionAvoidance = uniform(rng, 0.5, 2.0)
	return c
}

// Clamped returns a copy with every gene forced into its valid range.
func (c Chromosome) Clamped() Chromosome {
	for i := range c.SensorWeights {
		c.SensorWeights[i] = clamp01(c.SensorWeights[i])
	}
	for i := range c.Thresholds {
		c.Thresholds[i] = atLeast(c.Thresholds[i], MinThreshold)
	}
	for i := range c.ActionPriorities {
		c.ActionPriorities[i] = clamp01(c.ActionPriorities[i])
	}
	c.TurnAggressiveness = atLeast(c.TurnAggressiveness, MinTurnAggressiveness)
	c.CollisionAvoidance = atLeast(c.CollisionAvoidance, MinCollisionAvoidance)
	return c
}

// Genes flattens the chromosome in declaration order.
func (c Chromosome) Genes() [NumGenes]float64 {
	var g [NumGenes]float64
	i := 0
	for _, v := range c.SensorWeights {
		g[i] = v
		i++
	}
	for _, v := range c.Thresholds {
		g[i] = v
		i++
	}
	for _, v := range c.ActionPriorities {
		g[i] = v
		i++
	}
	g[i] = c.TurnAggressiveness
	g[i+1] = c.CollisionAvoidance
	return g
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func atLeast(x, lo float64) float64 {
	if x < lo {
		return lo
	}
	return x
}
