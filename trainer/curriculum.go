package trainer

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/mazeevo/systems"
)

// Phase identifies the curriculum stage a generation trains in.
type Phase struct {
	Index      int // position in the curriculum sequence
	Difficulty systems.Difficulty
}

// Curriculum schedules maze difficulty across generations.
//
// Generations are grouped into blocks of phaseLength. During the initial
// sweep block b trains on sequence[b]; once every phase has been visited each
// block picks a phase at random.
type Curriculum struct {
	sequence    []systems.Difficulty
	phaseLength int
	rng         *rand.Rand

	random map[int]int // block -> chosen phase index after the sweep
}

// NewCurriculum creates a scheduler over a non-empty difficulty sequence.
func NewCurriculum(sequence []systems.Difficulty, phaseLength int, rng *rand.Rand) (*Curriculum, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("curriculum sequence must not be empty")
	}
	if phaseLength < 1 {
		return nil, fmt.Errorf("phase length must be positive, got %d", phaseLength)
	}
	seq := make([]systems.Difficulty, len(sequence))
	copy(seq, sequence)
	return &Curriculum{
		sequence:    seq,
		phaseLength: phaseLength,
		rng:         rng,
		random:      make(map[int]int),
	}, nil
}

// PhaseAt returns the phase for a generation. A random choice is made once
// per block, so repeated calls for the same generation agree.
func (c *Curriculum) PhaseAt(generation int) Phase {
	block := generation / c.phaseLength
	if block < len(c.sequence) {
		return Phase{Index: block, Difficulty: c.sequence[block]}
	}

	idx, ok := c.random[block]
	if !ok {
		idx = c.rng.Intn(len(c.sequence))
		c.random[block] = idx
		slog.Info("curriculum_random_phase",
			"block", block,
			"phase", idx,
			"difficulty", c.sequence[idx].String(),
		)
	}
	return Phase{Index: idx, Difficulty: c.sequence[idx]}
}

// Len returns the number of phases in the sequence.
func (c *Curriculum) Len() int {
	return len(c.sequence)
}

// PhaseLength returns the number of generations per block.
func (c *Curriculum) PhaseLength() int {
	return c.phaseLength
}

// SweepLength returns the number of generations in the initial ordered sweep.
func (c *Curriculum) SweepLength() int {
	return len(c.sequence) * c.phaseLength
}
