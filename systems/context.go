package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/mazeevo/components"
)

// Sensor is one fixed range finder, described relative to the robot heading.
type Sensor struct {
	Name        string
	AngleOffset float64 // radians, negative is left
	MaxRange    float64
}

// DefaultSensors returns the standard five-sensor layout.
func DefaultSensors() [NumSensors]Sensor {
	return [NumSensors]Sensor{
		SensorFront:      {Name: "front", AngleOffset: 0, MaxRange: 50},
		SensorLeft:       {Name: "left", AngleOffset: -math.Pi / 2, MaxRange: 50},
		SensorRight:      {Name: "right", AngleOffset: math.Pi / 2, MaxRange: 50},
		SensorFrontLeft:  {Name: "front_left", AngleOffset: -math.Pi / 4, MaxRange: 30},
		SensorFrontRight: {Name: "front_right", AngleOffset: math.Pi / 4, MaxRange: 30},
	}
}

// Geometry holds the parts of a simulation context that never change during a run.
type Geometry struct {
	Sensors       [NumSensors]Sensor
	Body          components.Body
	StepDistance  float64
	TurnAngle     float64 // radians
	GoalThreshold float64
	SensorStep    float64
}

// DefaultGeometry returns the standard robot and sensor geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		Sensors:       DefaultSensors(),
		Body:          components.Body{Width: 0.8, Height: 0.8},
		StepDistance:  1.0,
		TurnAngle:     math.Pi / 4,
		GoalThreshold: 2.0,
		SensorStep:    0.5,
	}
}

// SimulationContext is the environment shared by a whole population during an
// episode. It must not be modified while individuals are being ticked.
type SimulationContext struct {
	Geometry

	Grid  *Grid
	Start Point
	Goal  Point

	// Rng drives breeding between episodes. Nothing in the tick path reads it.
	Rng *rand.Rand
}

// NewSimulationContext bundles a grid with its endpoints and the run geometry.
func NewSimulationContext(grid *Grid, start, goal Point, geom Geometry, rng *rand.Rand) *SimulationContext {
	return &SimulationContext{
		Geometry: geom,
		Grid:     grid,
		Start:    start,
		Goal:     goal,
		Rng:      rng,
	}
}

// SpawnPose returns the pose every robot starts an episode in: the center of
// the start cell, facing +x.
func (c *SimulationContext) SpawnPose() components.Pose {
	x, y := CellCenter(c.Start)
	return components.Pose{X: x, Y: y, Heading: 0}
}
