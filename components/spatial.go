package components

// Pose represents a robot's continuous position and heading in grid units.
// Cell (x, y) covers [x, x+1) x [y, y+1).
type Pose struct {
	X, Y    float64
	Heading float64 // radians, normalized to [0, 2π)
}

// TraceStep records one simulation step: the pose and sensor readings the
// action was decided from, and whether the action moved the robot.
type TraceStep struct {
	Step    int
	Pose    Pose
	Action  Action
	Moved   bool // false when a move was rejected by a collision
	Sensors [5]float64
}
