package components

// Body holds the robot's axis-aligned footprint before rotation.
type Body struct {
	Width  float64
	Height float64
}

// Robot is a body placed in the maze.
type Robot struct {
	Pose
	Body
	Octant int // heading bucket 0..7, each covering π/4
}
