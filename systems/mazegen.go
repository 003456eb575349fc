package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
)

// ErrMazeUnsolvable is returned when no attempt produced a grid with a path
// from Start to Goal.
var ErrMazeUnsolvable = errors.New("no solvable maze within attempt budget")

// Maze is a generated grid together with its endpoints.
type Maze struct {
	Grid         *Grid
	Start        Point
	Goal         Point
	Difficulty   Difficulty
	ClearPercent int
	Attempts     int // attempts used, including the successful one
}

// GenerateOptions describe a single generation request.
type GenerateOptions struct {
	Width, Height int
	ClearPercent  int
	MaxAttempts   int
	Difficulty    Difficulty // recorded on the result only

	// Optional fixed endpoints. When nil, Goal is placed on a random non-corner
	// edge cell and Start on a random open interior cell.
	Start *Point
	Goal  *Point
}

// MazeGenerator builds random solvable grids.
type MazeGenerator struct {
	rng      *rand.Rand
	profiles map[Difficulty]MazeProfile
}

// NewMazeGenerator creates a generator. A nil profiles map uses DefaultProfiles.
func NewMazeGenerator(rng *rand.Rand, profiles map[Difficulty]MazeProfile) *MazeGenerator {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &MazeGenerator{rng: rng, profiles: profiles}
}

// Profile returns the generation profile for a difficulty.
func (m *MazeGenerator) Profile(d Difficulty) (MazeProfile, bool) {
	p, ok := m.profiles[d]
	return p, ok
}

// Generate builds a solvable maze for the difficulty, retrying up to maxAttempts times.
func (m *MazeGenerator) Generate(d Difficulty, maxAttempts int) (*Maze, error) {
	p, ok := m.profiles[d]
	if !ok {
		return nil, fmt.Errorf("no maze profile for difficulty %s", d)
	}
	return m.GenerateWith(GenerateOptions{
		Width:        p.Width,
		Height:       p.Height,
		ClearPercent: p.ClearPercent,
		MaxAttempts:  maxAttempts,
		Difficulty:   d,
	})
}

// GenerateWith builds a solvable maze from explicit options.
func (m *MazeGenerator) GenerateWith(opts GenerateOptions) (*Maze, error) {
	if opts.Width < 3 || opts.Height < 3 {
		return nil, fmt.Errorf("maze must be at least 3x3, got %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", opts.MaxAttempts)
	}
	if err := validateEndpoints(opts); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		grid, start, goal, ok := m.attempt(opts)
		if !ok || !Reachable(grid, start, goal) {
			slog.Debug("maze_attempt_failed",
				"difficulty", opts.Difficulty.String(),
				"attempt", attempt,
			)
			continue
		}

		slog.Info("maze_generated",
			"difficulty", opts.Difficulty.String(),
			"width", opts.Width,
			"height", opts.Height,
			"clear_percent", opts.ClearPercent,
			"start", start.String(),
			"goal", goal.String(),
			"attempts", attempt,
		)
		return &Maze{
			Grid:         grid,
			Start:        start,
			Goal:         goal,
			Difficulty:   opts.Difficulty,
			ClearPercent: opts.ClearPercent,
			Attempts:     attempt,
		}, nil
	}

	return nil, fmt.Errorf("%s after %d attempts: %w", opts.Difficulty, opts.MaxAttempts, ErrMazeUnsolvable)
}

func validateEndpoints(opts GenerateOptions) error {
	inBounds := func(p *Point) bool {
		return p.X >= 0 && p.X < opts.Width && p.Y >= 0 && p.Y < opts.Height
	}
	if opts.Start != nil {
		if !inBounds(opts.Start) {
			return fmt.Errorf("start %s outside %dx%d grid", opts.Start, opts.Width, opts.Height)
		}
		if opts.Start.X == 0 || opts.Start.Y == 0 || opts.Start.X == opts.Width-1 || opts.Start.Y == opts.Height-1 {
			return fmt.Errorf("start %s must be an interior cell", opts.Start)
		}
	}
	if opts.Goal != nil && !inBounds(opts.Goal) {
		return fmt.Errorf("goal %s outside %dx%d grid", opts.Goal, opts.Width, opts.Height)
	}
	if opts.Start != nil && opts.Goal != nil && *opts.Start == *opts.Goal {
		return fmt.Errorf("start and goal must differ, both %s", opts.Start)
	}
	return nil
}

// attempt builds one candidate grid. ok is false when no start cell was available.
func (m *MazeGenerator) attempt(opts GenerateOptions) (*Grid, Point, Point, bool) {
	w, h := opts.Width, opts.Height
	g := NewGrid(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case g.IsBorderCell(x, y):
				g.Set(x, y, Border)
			case m.rng.Intn(100) < opts.ClearPercent:
				g.Set(x, y, Empty)
			default:
				g.Set(x, y, Wall)
			}
		}
	}

	var goal Point
	if opts.Goal != nil {
		goal = *opts.Goal
	} else {
		goal = m.randomEdgePoint(w, h)
	}

	var start Point
	if opts.Start != nil {
		start = *opts.Start
	} else {
		candidates := make([]Point, 0, (w-2)*(h-2))
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				if g.At(x, y) != Wall && (Point{x, y}) != goal {
					candidates = append(candidates, Point{x, y})
				}
			}
		}
		if len(candidates) == 0 {
			return nil, Point{}, Point{}, false
		}
		start = candidates[m.rng.Intn(len(candidates))]
	}

	g.Set(start.X, start.Y, Start)
	g.Set(goal.X, goal.Y, Goal)
	return g, start, goal, true
}

// randomEdgePoint picks a uniformly random side, then a non-corner cell on it.
func (m *MazeGenerator) randomEdgePoint(w, h int) Point {
	switch m.rng.Intn(4) {
	case 0:
		return Point{1 + m.rng.Intn(w-2), 0}
	case 1:
		return Point{1 + m.rng.Intn(w-2), h - 1}
	case 2:
		return Point{0, 1 + m.rng.Intn(h-2)}
	default:
		return Point{w - 1, 1 + m.rng.Intn(h-2)}
	}
}
