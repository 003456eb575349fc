package genome

import (
	"math"
	"math/rand"
	"testing"
)

func distinctParents() (Chromosome, Chromosome) {
	p1 := Chromosome{
		SensorWeights:      [NumSensors]float64{0.1, 0.1, 0.1, 0.1, 0.1},
		Thresholds:         [NumThresholds]float64{10, 20, 40},
		ActionPriorities:   [NumActions]float64{0.1, 0.1, 0.1, 0.1},
		TurnAggressiveness: 0.5,
		CollisionAvoidance: 1.0,
	}
	p2 := Chromosome{
		SensorWeights:      [NumSensors]float64{0.9, 0.9, 0.9, 0.9, 0.9},
		Thresholds:         [NumThresholds]float64{12, 25, 45},
		ActionPriorities:   [NumActions]float64{0.9, 0.9, 0.9, 0.9},
		TurnAggressiveness: 1.5,
		CollisionAvoidance: 2.0,
	}
	return p1, p2
}

func TestCrossoverGeneProvenance(t *testing.T) {
	p1, p2 := distinctParents()
	g1, g2 := p1.Genes(), p2.Genes()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		c1, c2 := Crossover(p1, p2, rng)
		a, b := c1.Genes(), c2.Genes()
		for i := range a {
			switch {
			case a[i] == g1[i] && b[i] == g2[i]:
			case a[i] == g2[i] && b[i] == g1[i]:
			default:
				t.Fatalf("trial %d gene %d: children (%g,%g) not complementary to parents (%g,%g)",
					trial, i, a[i], b[i], g1[i], g2[i])
			}
		}
	}
}

func TestCrossoverPairsTurnAndAvoidance(t *testing.T) {
	p1, p2 := distinctParents()
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 100; trial++ {
		c1, _ := Crossover(p1, p2, rng)
		fromP1 := c1.TurnAggressiveness == p1.TurnAggressiveness
		if fromP1 != (c1.CollisionAvoidance == p1.CollisionAvoidance) {
			t.Fatalf("trial %d: turn aggressiveness and collision avoidance inherited from different parents", trial)
		}
	}
}

func TestCrossoverIdenticalParents(t *testing.T) {
	p, _ := distinctParents()
	c1, c2 := Crossover(p, p, rand.New(rand.NewSource(1)))
	if c1 != p || c2 != p {
		t.Error("crossover of identical parents should reproduce the parent")
	}
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := NewRandom(rng)
	got := Mutate(c, MutationParams{Rate: 0, Scale: 1}, rng)
	if got != c {
		t.Error("mutation with rate 0 changed the chromosome")
	}
}

func TestMutateStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	edge := Chromosome{
		SensorWeights:      [NumSensors]float64{0, 1, 0, 1, 0},
		Thresholds:         [NumThresholds]float64{MinThreshold, MinThreshold, MinThreshold},
		ActionPriorities:   [NumActions]float64{0, 1, 0, 1},
		TurnAggressiveness: MinTurnAggressiveness,
		CollisionAvoidance: MinCollisionAvoidance,
	}

	for i := 0; i < 500; i++ {
		c := Mutate(edge, MutationParams{Rate: 1, Scale: 5}, rng)
		withinBounds(t, c)
		edge = c
	}
}

func TestMutateOffsetBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	c := Chromosome{
		SensorWeights:      [NumSensors]float64{0.5, 0.5, 0.5, 0.5, 0.5},
		Thresholds:         [NumThresholds]float64{20, 20, 20},
		ActionPriorities:   [NumActions]float64{0.5, 0.5, 0.5, 0.5},
		TurnAggressiveness: 1,
		CollisionAvoidance: 1,
	}

	for i := 0; i < 200; i++ {
		m := Mutate(c, MutationParams{Rate: 1, Scale: 1}, rng)
		for j := range m.SensorWeights {
			if math.Abs(m.SensorWeights[j]-0.5) > weightOffset+1e-12 {
				t.Fatalf("sensor weight moved too far: %g", m.SensorWeights[j])
			}
		}
		for j := range m.Thresholds {
			if math.Abs(m.Thresholds[j]-20) > thresholdOffset+1e-12 {
				t.Fatalf("threshold moved too far: %g", m.Thresholds[j])
			}
		}
		for j := range m.ActionPriorities {
			if math.Abs(m.ActionPriorities[j]-0.5) > priorityOffset+1e-12 {
				t.Fatalf("action priority moved too far: %g", m.ActionPriorities[j])
			}
		}
		if math.Abs(m.TurnAggressiveness-1) > turnOffset+1e-12 {
			t.Fatalf("turn aggressiveness moved too far: %g", m.TurnAggressiveness)
		}
		if math.Abs(m.CollisionAvoidance-1) > avoidanceOffset+1e-12 {
			t.Fatalf("collision avoidance moved too far: %g", m.CollisionAvoidance)
		}
	}
}

func TestMutateKeepThresholdsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	c := Chromosome{Thresholds: [NumThresholds]float64{10, 10.5, 11}}

	for i := 0; i < 200; i++ {
		c = Mutate(c, MutationParams{Rate: 1, Scale: 3, KeepThresholdsOrdered: true}, rng)
		if c.Thresholds[Near] > c.Thresholds[Mid] || c.Thresholds[Mid] > c.Thresholds[Far] {
			t.Fatalf("thresholds not ordered: %v", c.Thresholds)
		}
	}
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator(10)
	if g.Peek() != 10 {
		t.Errorf("Peek = %d, want 10", g.Peek())
	}
	for want := 10; want < 15; want++ {
		if got := g.Next(); got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}
	if g.Peek() != 15 {
		t.Errorf("Peek after 5 ids = %d, want 15", g.Peek())
	}
}
