package systems

import (
	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/genome"
)

// Scores below this on every action fall back to Backward.
const recoveryScoreFloor = 0.01

// DecideAction maps a chromosome and the current sensor readings to one action.
// It is a pure function.
func DecideAction(c genome.Chromosome, r Readings) components.Action {
	near := c.Thresholds[genome.Near]
	mid := c.Thresholds[genome.Mid]
	w := c.SensorWeights
	p := c.ActionPriorities

	var scores [components.NumActions]float64

	if r[SensorFront] > mid {
		scores[components.Forward] = p[0] * w[SensorFront]
	}

	if r[SensorLeft] > near {
		scores[components.TurnLeft45] = p[1] * w[SensorLeft]
	}
	if r[SensorFrontLeft] > near {
		scores[components.TurnLeft45] += 0.5 * w[SensorFrontLeft]
	}

	if r[SensorRight] > near {
		scores[components.TurnRight45] = p[2] * w[SensorRight]
	}
	if r[SensorFrontRight] > near {
		scores[components.TurnRight45] += 0.5 * w[SensorFrontRight]
	}

	scores[components.Backward] = p[3] * 0.3

	// Each sensor that is too close damps the action heading toward it.
	for sensor, action := range [NumSensors]components.Action{
		SensorFront:      components.Forward,
		SensorLeft:       components.TurnLeft45,
		SensorRight:      components.TurnRight45,
		SensorFrontLeft:  components.TurnLeft45,
		SensorFrontRight: components.TurnRight45,
	} {
		if r[sensor] < near {
			scores[action] /= c.CollisionAvoidance
		}
	}

	scores[components.TurnLeft45] *= c.TurnAggressiveness
	scores[components.TurnRight45] *= c.TurnAggressiveness

	best := components.Forward
	allLow := true
	for a, s := range scores {
		if s > recoveryScoreFloor {
			allLow = false
		}
		if s > scores[best] {
			best = components.Action(a)
		}
	}
	if allLow {
		return components.Backward
	}
	return best
}
