package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/mazeevo/components"
)

// NumSensors is the number of range sensors on every robot.
const NumSensors = 5

// Sensor indices. Chromosome sensor weights use the same order.
const (
	SensorFront = iota
	SensorLeft
	SensorRight
	SensorFrontLeft
	SensorFrontRight
)

// Readings holds one distance per sensor.
type Readings [NumSensors]float64

// Sense ray-marches from the pose along heading + the sensor's angle offset and
// returns the distance to the first Wall, Border or out-of-bounds sample, or the
// sensor's MaxRange if nothing is hit. The result is always in [0, MaxRange].
func Sense(pose components.Pose, sensor int, ctx *SimulationContext) float64 {
	if sensor < 0 || sensor >= NumSensors {
		panic(fmt.Sprintf("systems: sensor index %d out of range", sensor))
	}
	s := ctx.Sensors[sensor]
	dy, dx := math.Sincos(pose.Heading + s.AngleOffset)

	for dist := 0.0; dist < s.MaxRange; dist += ctx.SensorStep {
		if ctx.Grid.IsBlockedAt(pose.X+dx*dist, pose.Y+dy*dist) {
			return dist
		}
	}
	return s.MaxRange
}

// SenseAll reads every sensor.
func SenseAll(pose components.Pose, ctx *SimulationContext) Readings {
	var r Readings
	for i := range r {
		r[i] = Sense(pose, i, ctx)
	}
	return r
}
