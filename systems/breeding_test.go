package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/genome"
)

func populationWithFitness(rng *rand.Rand, fitness ...float64) []components.Individual {
	pop := make([]components.Individual, len(fitness))
	for i, f := range fitness {
		pop[i] = components.NewIndividual(i, 4, genome.NewRandom(rng), components.Body{Width: 0.8, Height: 0.8})
		pop[i].Fitness = f
		pop[i].Status = components.Terminal
		pop[i].Steps = 10 * i
	}
	return pop
}

func TestSelectElites(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name       string
		fitness    []float64
		wantBest   int
		wantSecond int
	}{
		{"ordered", []float64{9, 5, 3}, 0, 1},
		{"best last", []float64{1, 2, 3}, 2, 1},
		{"tie keeps first", []float64{5, 9, 3, 9, 7, 1}, 1, 3},
		{"all equal", []float64{4, 4, 4}, 0, 1},
		{"second after best", []float64{1, 10, 2, 8}, 1, 3},
		{"pair", []float64{2, 6}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, second := SelectElites(populationWithFitness(rng, tt.fitness...))
			if best != tt.wantBest || second != tt.wantSecond {
				t.Errorf("SelectElites = (%d, %d), want (%d, %d)", best, second, tt.wantBest, tt.wantSecond)
			}
		})
	}
}

func TestBreedElitismSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pop := populationWithFitness(rng, 5, 9, 3, 9, 7, 1)
	ids := genome.NewIDGenerator(100)

	next := Breed(pop, 5, ids, genome.MutationParams{Rate: 0.5, Scale: 1}, rng)

	if len(next) != len(pop) {
		t.Fatalf("next population size %d, want %d", len(next), len(pop))
	}

	if next[0].ID != pop[1].ID || next[0].Chromosome != pop[1].Chromosome {
		t.Error("slot 0 is not an unchanged copy of the best individual")
	}
	if !next[0].Elite {
		t.Error("slot 0 not marked elite")
	}
	if next[1].ID != pop[3].ID || next[1].Chromosome != pop[3].Chromosome {
		t.Error("slot 1 is not an unchanged copy of the second-best individual")
	}
	if next[1].Elite {
		t.Error("slot 1 marked elite")
	}

	for i := 2; i < len(next); i++ {
		c := next[i]
		if c.ID != 100+i-2 {
			t.Errorf("slot %d id %d, want %d", i, c.ID, 100+i-2)
		}
		if c.Generation != 5 {
			t.Errorf("slot %d generation %d, want 5", i, c.Generation)
		}
		if c.Elite || !c.IsActive() || c.Fitness != 0 || c.Steps != 0 || c.Collisions != 0 || c.ReachedGoal {
			t.Errorf("slot %d run state not zeroed: %+v", i, c)
		}
		if c.Robot.Body != pop[1].Robot.Body {
			t.Errorf("slot %d body %+v", i, c.Robot.Body)
		}
	}
	if ids.Peek() != 104 {
		t.Errorf("ids consumed up to %d, want 104", ids.Peek())
	}
}

func TestBreedChildrenInheritFromElites(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pop := populationWithFitness(rng, 1, 8, 2, 6, 3)
	g1, g2 := pop[1].Chromosome.Genes(), pop[3].Chromosome.Genes()

	next := Breed(pop, 1, genome.NewIDGenerator(10), genome.MutationParams{Rate: 0}, rng)

	if len(next) != 5 {
		t.Fatalf("odd population: size %d, want 5", len(next))
	}
	for i := 2; i < len(next); i++ {
		for j, g := range next[i].Chromosome.Genes() {
			if g != g1[j] && g != g2[j] {
				t.Errorf("slot %d gene %d = %g, from neither elite (%g, %g)", i, j, g, g1[j], g2[j])
			}
		}
	}
}

func TestBreedDoesNotAliasInput(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	pop := populationWithFitness(rng, 3, 2, 1)
	next := Breed(pop, 1, genome.NewIDGenerator(10), genome.MutationParams{Rate: 1, Scale: 1}, rng)

	next[0].Fitness = -1
	if pop[0].Fitness != 3 {
		t.Error("modifying the next population changed the previous one")
	}
}
