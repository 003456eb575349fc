package systems

import (
	"fmt"
	"math"
	"strings"
)

// CellKind classifies one grid cell.
type CellKind uint8

const (
	Empty CellKind = iota
	Wall
	Border
	Start
	Goal
)

// String returns the single-character glyph used when rendering grids.
func (k CellKind) String() string {
	switch k {
	case Empty:
		return "."
	case Wall:
		return "#"
	case Border:
		return "B"
	case Start:
		return "S"
	case Goal:
		return "G"
	}
	return "?"
}

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a row-major cell-kind buffer. Cell (x, y) covers the unit square
// [x, x+1) x [y, y+1) in continuous coordinates.
type Grid struct {
	cells  []CellKind
	width  int
	height int
}

// NewGrid creates a width x height grid of Empty cells.
func NewGrid(width, height int) *Grid {
	return &Grid{
		cells:  make([]CellKind, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Index maps a cell coordinate to its buffer offset.
func (g *Grid) Index(x, y int) int {
	return y*g.width + x
}

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the kind of cell (x, y). Out-of-bounds cells read as Border.
func (g *Grid) At(x, y int) CellKind {
	if !g.InBounds(x, y) {
		return Border
	}
	return g.cells[g.Index(x, y)]
}

// Set assigns the kind of cell (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, k CellKind) {
	if g.InBounds(x, y) {
		g.cells[g.Index(x, y)] = k
	}
}

// IsBlocked returns true for Wall and Border cells and for anything out of bounds.
func (g *Grid) IsBlocked(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	k := g.cells[g.Index(x, y)]
	return k == Wall || k == Border
}

// IsBlockedAt floors a continuous coordinate to its cell and reports whether it is blocked.
func (g *Grid) IsBlockedAt(x, y float64) bool {
	return g.IsBlocked(int(math.Floor(x)), int(math.Floor(y)))
}

// CellCenter returns the continuous coordinate of a cell's center.
func CellCenter(p Point) (float64, float64) {
	return float64(p.X) + 0.5, float64(p.Y) + 0.5
}

// IsBorderCell reports whether (x, y) lies on the outer ring.
func (g *Grid) IsBorderCell(x, y int) bool {
	return x == 0 || y == 0 || x == g.width-1 || y == g.height-1
}

// Count returns how many cells have kind k.
func (g *Grid) Count(k CellKind) int {
	n := 0
	for _, c := range g.cells {
		if c == k {
			n++
		}
	}
	return n
}

// Rows renders each row as a string of cell glyphs, top row first.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteString(g.cells[g.Index(x, y)].String())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the grid as newline-separated rows.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
