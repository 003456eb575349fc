// Package main provides CMA-ES tuning of the trainer's evolutionary hyper-parameters.
package main

import (
	"math"

	"github.com/pthm-cable/mazeevo/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Population size and the fitness baseline stay fixed: the first sets the cost
// of an evaluation, the second only shifts every score.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Mutation
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "mutation_scale", Path: "mutation.scale", Min: 0.2, Max: 3.0, Default: 1.0},
			// Fitness shaping
			{Name: "fitness_alpha", Path: "fitness.alpha", Min: 0.0, Max: 3.0, Default: 1.0},
			{Name: "fitness_gamma", Path: "fitness.gamma", Min: 0.0, Max: 5.0, Default: 0.3},
			{Name: "fitness_delta", Path: "fitness.delta", Min: 0.0, Max: 10.0, Default: 2.0},
			{Name: "fitness_epsilon", Path: "fitness.epsilon", Min: 1.0, Max: 30.0, Default: 10.0},
			// Curriculum
			{Name: "phase_length", Path: "curriculum.phase_length", Min: 5, Max: 60, Default: 25, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Mutation.Rate = c[0]
	cfg.Mutation.Scale = c[1]

	cfg.Fitness.Alpha = c[2]
	cfg.Fitness.Gamma = c[3]
	cfg.Fitness.Delta = c[4]
	cfg.Fitness.Epsilon = c[5]

	cfg.Curriculum.PhaseLength = int(c[6])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Rate,
		cfg.Mutation.Scale,
		cfg.Fitness.Alpha,
		cfg.Fitness.Gamma,
		cfg.Fitness.Delta,
		cfg.Fitness.Epsilon,
		float64(cfg.Curriculum.PhaseLength),
	}
}
