package systems

import (
	"strings"
	"testing"
)

// openGrid returns a bordered grid with an empty interior.
func openGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.IsBorderCell(x, y) {
				g.Set(x, y, Border)
			}
		}
	}
	return g
}

func TestGridIsBlocked(t *testing.T) {
	g := openGrid(5, 5)
	g.Set(2, 2, Wall)
	g.Set(1, 1, Start)
	g.Set(3, 3, Goal)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"empty interior", 1, 2, false},
		{"wall", 2, 2, true},
		{"border", 0, 3, true},
		{"start", 1, 1, false},
		{"goal", 3, 3, false},
		{"left of grid", -1, 2, true},
		{"below grid", 2, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsBlocked(tt.x, tt.y); got != tt.expected {
				t.Errorf("IsBlocked(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestGridIsBlockedAtFloors(t *testing.T) {
	g := openGrid(5, 5)
	g.Set(2, 2, Wall)

	if !g.IsBlockedAt(2.99, 2.01) {
		t.Error("expected (2.99, 2.01) to land in wall cell (2,2)")
	}
	if g.IsBlockedAt(1.99, 2.5) {
		t.Error("expected (1.99, 2.5) to land in open cell (1,2)")
	}
	if !g.IsBlockedAt(-0.1, 2.5) {
		t.Error("expected negative coordinate to floor out of bounds")
	}
}

func TestGridIndexRowMajor(t *testing.T) {
	g := NewGrid(4, 3)
	if got := g.Index(3, 2); got != 11 {
		t.Errorf("Index(3,2) = %d, want 11", got)
	}
	if got := g.Index(1, 1); got != 5 {
		t.Errorf("Index(1,1) = %d, want 5", got)
	}
}

func TestGridString(t *testing.T) {
	g := openGrid(4, 3)
	g.Set(1, 1, Start)
	g.Set(2, 1, Goal)
	want := strings.Join([]string{"BBBB", "BSGB", "BBBB"}, "\n")
	if got := g.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestShortestPath(t *testing.T) {
	g := openGrid(5, 5)
	if d, ok := ShortestPath(g, Point{1, 1}, Point{3, 3}); !ok || d != 4 {
		t.Errorf("open 5x5: got (%d, %v), want (4, true)", d, ok)
	}

	// Wall off column 2 entirely.
	for y := 1; y < 4; y++ {
		g.Set(2, y, Wall)
	}
	if _, ok := ShortestPath(g, Point{1, 1}, Point{3, 3}); ok {
		t.Error("expected no path through a full wall column")
	}

	// Reopen one gap; the detour is longer.
	g.Set(2, 3, Empty)
	if d, ok := ShortestPath(g, Point{1, 1}, Point{3, 1}); !ok || d != 6 {
		t.Errorf("detour: got (%d, %v), want (6, true)", d, ok)
	}

	if d, ok := ShortestPath(g, Point{1, 1}, Point{1, 1}); !ok || d != 0 {
		t.Errorf("same cell: got (%d, %v), want (0, true)", d, ok)
	}
	if _, ok := ShortestPath(g, Point{1, 1}, Point{0, 0}); ok {
		t.Error("expected border target to be unreachable")
	}
}

func TestDifficultyParse(t *testing.T) {
	for _, d := range AllDifficulties() {
		t.Run(d.String(), func(t *testing.T) {
			got, err := ParseDifficulty(strings.ToUpper(d.String()))
			if err != nil {
				t.Fatalf("ParseDifficulty: %v", err)
			}
			if got != d {
				t.Errorf("got %v, want %v", got, d)
			}
		})
	}

	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("expected error for unknown difficulty")
	}

	var d Difficulty
	if err := d.UnmarshalText([]byte("narrow")); err != nil || d != Narrow {
		t.Errorf("UnmarshalText(narrow) = %v, %v", d, err)
	}
}
