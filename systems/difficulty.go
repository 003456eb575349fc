package systems

import (
	"fmt"
	"strings"
)

// Difficulty names a maze generation profile.
type Difficulty int

const (
	Simple Difficulty = iota
	Medium
	Complex
	Open
	Narrow
)

var difficultyNames = []string{"simple", "medium", "complex", "open", "narrow"}

// AllDifficulties returns every difficulty in declaration order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Simple, Medium, Complex, Open, Narrow}
}

// String returns the lower-case difficulty name.
func (d Difficulty) String() string {
	if d >= 0 && int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty converts a name to a Difficulty. Matching is case-insensitive.
func ParseDifficulty(s string) (Difficulty, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range difficultyNames {
		if n == name {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MazeProfile is the generation shape of one difficulty.
type MazeProfile struct {
	Width        int
	Height       int
	ClearPercent int // probability (0-100) that an interior cell is Empty
}

// DefaultProfiles returns the built-in profile for every difficulty.
func DefaultProfiles() map[Difficulty]MazeProfile {
	return map[Difficulty]MazeProfile{
		Simple:  {Width: 5, Height: 5, ClearPercent: 70},
		Medium:  {Width: 8, Height: 8, ClearPercent: 60},
		Complex: {Width: 12, Height: 12, ClearPercent: 40},
		Open:    {Width: 10, Height: 10, ClearPercent: 85},
		Narrow:  {Width: 10, Height: 10, ClearPercent: 30},
	}
}
