package systems

import "math"

const twoPi = 2 * math.Pi

// NormalizeHeading wraps an angle into [0, 2π).
func NormalizeHeading(angle float64) float64 {
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	// Mod of a tiny negative value can round up to exactly 2π.
	if angle >= twoPi {
		angle = 0
	}
	return angle
}

// Octant buckets a heading into one of 8 directions, 0 = +x, rounding to the nearest.
func Octant(heading float64) int {
	h := NormalizeHeading(heading)
	return int((h+math.Pi/8)/(math.Pi/4)) % 8
}

// rotate turns (x, y) about the origin by angle radians.
func rotate(x, y, angle float64) (float64, float64) {
	s, c := math.Sincos(angle)
	return x*c - y*s, x*s + y*c
}
