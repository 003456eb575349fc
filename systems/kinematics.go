package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/mazeevo/components"
)

// Collides reports whether a body placed at (x, y) with the given heading has
// any of its four rotated corners outside the grid or on a Wall or Border cell.
func Collides(body components.Body, x, y, heading float64, g *Grid) bool {
	hw, hh := body.Width/2, body.Height/2
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	for _, c := range corners {
		rx, ry := rotate(c[0], c[1], heading)
		if g.IsBlockedAt(x+rx, y+ry) {
			return true
		}
	}
	return false
}

// Execute applies one action to the robot. Moves that would collide leave the
// pose unchanged and return false. Turns always succeed.
// An unknown action is a programming error and panics.
func Execute(r *components.Robot, a components.Action, ctx *SimulationContext) bool {
	switch a {
	case components.Forward, components.Backward:
		dir := 1.0
		if a == components.Backward {
			dir = -1.0
		}
		dy, dx := math.Sincos(r.Heading)
		nx := r.X + dir*dx*ctx.StepDistance
		ny := r.Y + dir*dy*ctx.StepDistance
		if Collides(r.Body, nx, ny, r.Heading, ctx.Grid) {
			return false
		}
		r.X, r.Y = nx, ny

	case components.TurnLeft45:
		r.Heading = NormalizeHeading(r.Heading - ctx.TurnAngle)

	case components.TurnRight45:
		r.Heading = NormalizeHeading(r.Heading + ctx.TurnAngle)

	default:
		panic(fmt.Sprintf("systems: unknown action %d", int(a)))
	}

	r.Octant = Octant(r.Heading)
	return true
}

// DistanceToGoal returns the Euclidean distance from the pose to the goal cell center.
func DistanceToGoal(pose components.Pose, ctx *SimulationContext) float64 {
	gx, gy := CellCenter(ctx.Goal)
	return math.Hypot(pose.X-gx, pose.Y-gy)
}

// ReachedGoal reports whether the pose is within the goal threshold, inclusive.
func ReachedGoal(pose components.Pose, ctx *SimulationContext) bool {
	return DistanceToGoal(pose, ctx) <= ctx.GoalThreshold
}
