package systems

import (
	"errors"
	"math/rand"
	"testing"
)

func checkMazeInvariants(t *testing.T, m *Maze) {
	t.Helper()
	g := m.Grid

	if _, ok := ShortestPath(g, m.Start, m.Goal); !ok {
		t.Fatalf("goal %v not reachable from start %v:\n%s", m.Goal, m.Start, g)
	}
	if g.Count(Start) != 1 || g.Count(Goal) != 1 {
		t.Errorf("expected exactly one start and goal, got %d and %d", g.Count(Start), g.Count(Goal))
	}
	if g.At(m.Start.X, m.Start.Y) != Start {
		t.Errorf("start cell %v is %v", m.Start, g.At(m.Start.X, m.Start.Y))
	}
	if g.At(m.Goal.X, m.Goal.Y) != Goal {
		t.Errorf("goal cell %v is %v", m.Goal, g.At(m.Goal.X, m.Goal.Y))
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.IsBorderCell(x, y) || (Point{x, y}) == m.Goal {
				continue
			}
			if g.At(x, y) != Border {
				t.Errorf("ring cell (%d,%d) is %v, want Border", x, y, g.At(x, y))
			}
		}
	}
}

func TestGenerateAllDifficulties(t *testing.T) {
	gen := NewMazeGenerator(rand.New(rand.NewSource(42)), nil)

	for _, d := range AllDifficulties() {
		t.Run(d.String(), func(t *testing.T) {
			for i := 0; i < 20; i++ {
				m, err := gen.Generate(d, 1000)
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				p, _ := gen.Profile(d)
				if m.Grid.Width() != p.Width || m.Grid.Height() != p.Height {
					t.Errorf("size %dx%d, want %dx%d", m.Grid.Width(), m.Grid.Height(), p.Width, p.Height)
				}
				if m.Difficulty != d {
					t.Errorf("difficulty %v, want %v", m.Difficulty, d)
				}
				checkMazeInvariants(t, m)

				g := m.Goal
				if !m.Grid.IsBorderCell(g.X, g.Y) {
					t.Errorf("goal %v not on an edge", g)
				}
				corner := (g.X == 0 || g.X == p.Width-1) && (g.Y == 0 || g.Y == p.Height-1)
				if corner {
					t.Errorf("goal %v on a corner", g)
				}
				if m.Grid.IsBorderCell(m.Start.X, m.Start.Y) {
					t.Errorf("start %v not interior", m.Start)
				}
			}
		})
	}
}

func TestGenerateOpenFiveByFive(t *testing.T) {
	gen := NewMazeGenerator(rand.New(rand.NewSource(1)), nil)
	start, goal := Point{1, 1}, Point{3, 3}

	m, err := gen.GenerateWith(GenerateOptions{
		Width:        5,
		Height:       5,
		ClearPercent: 100,
		MaxAttempts:  10,
		Start:        &start,
		Goal:         &goal,
	})
	if err != nil {
		t.Fatalf("GenerateWith: %v", err)
	}
	if m.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", m.Attempts)
	}
	if m.Grid.Count(Wall) != 0 {
		t.Errorf("expected no interior walls, got %d", m.Grid.Count(Wall))
	}
	if d, ok := ShortestPath(m.Grid, m.Start, m.Goal); !ok || d != 4 {
		t.Errorf("shortest path = (%d, %v), want (4, true)", d, ok)
	}
	checkMazeInvariants(t, m)
}

func TestGenerateExhaustion(t *testing.T) {
	gen := NewMazeGenerator(rand.New(rand.NewSource(1)), nil)
	start, goal := Point{1, 1}, Point{5, 5}

	// No clear cells: the fixed endpoints are walled apart.
	_, err := gen.GenerateWith(GenerateOptions{
		Width:        7,
		Height:       7,
		ClearPercent: 0,
		MaxAttempts:  5,
		Difficulty:   Narrow,
		Start:        &start,
		Goal:         &goal,
	})
	if !errors.Is(err, ErrMazeUnsolvable) {
		t.Fatalf("expected ErrMazeUnsolvable, got %v", err)
	}
}

func TestGenerateWithInvalidOptions(t *testing.T) {
	gen := NewMazeGenerator(rand.New(rand.NewSource(1)), nil)
	edge := Point{0, 2}
	same := Point{2, 2}
	outside := Point{9, 9}

	tests := []struct {
		name string
		opts GenerateOptions
	}{
		{"too small", GenerateOptions{Width: 2, Height: 5, MaxAttempts: 1}},
		{"no attempts", GenerateOptions{Width: 5, Height: 5, MaxAttempts: 0}},
		{"start on edge", GenerateOptions{Width: 5, Height: 5, MaxAttempts: 1, Start: &edge}},
		{"goal outside", GenerateOptions{Width: 5, Height: 5, MaxAttempts: 1, Goal: &outside}},
		{"start equals goal", GenerateOptions{Width: 5, Height: 5, MaxAttempts: 1, Start: &same, Goal: &same}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.GenerateWith(tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrMazeUnsolvable) {
				t.Errorf("option error reported as unsolvable: %v", err)
			}
		})
	}
}

func TestGenerateUnknownDifficulty(t *testing.T) {
	gen := NewMazeGenerator(rand.New(rand.NewSource(1)), map[Difficulty]MazeProfile{
		Simple: {Width: 5, Height: 5, ClearPercent: 70},
	})
	if _, err := gen.Generate(Narrow, 10); err == nil {
		t.Error("expected error for difficulty without a profile")
	}
}
