package systems

import (
	"math/rand"

	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/genome"
)

// SelectElites returns the indices of the highest and second-highest fitness
// individuals in a single scan. Ties keep the earlier index.
// The population must hold at least two individuals.
func SelectElites(pop []components.Individual) (best, second int) {
	best, second = 0, -1
	for i := 1; i < len(pop); i++ {
		f := pop[i].Fitness
		switch {
		case f > pop[best].Fitness:
			second = best
			best = i
		case second < 0 || f > pop[second].Fitness:
			second = i
		}
	}
	return best, second
}

// Breed produces the next population from a finished one.
//
// Slots 0 and 1 hold unchanged copies of the best and second-best individuals;
// slot 0 is marked Elite. The remaining slots are filled pairwise with the
// complementary children of uniform crossover between the two elites, each
// mutated independently. Children receive fresh IDs from ids, the given
// generation and zeroed Active run state.
func Breed(pop []components.Individual, generation int, ids *genome.IDGenerator, mut genome.MutationParams, rng *rand.Rand) []components.Individual {
	n := len(pop)
	next := make([]components.Individual, n)

	bi, si := SelectElites(pop)
	best, second := pop[bi], pop[si]

	next[0] = best
	next[0].Elite = true
	next[0].Trace = nil
	next[1] = second
	next[1].Elite = false
	next[1].Trace = nil

	body := best.Robot.Body
	for i := 2; i < n; i += 2 {
		c1, c2 := genome.Crossover(best.Chromosome, second.Chromosome, rng)
		next[i] = components.NewIndividual(ids.Next(), generation, genome.Mutate(c1, mut, rng), body)
		if i+1 < n {
			next[i+1] = components.NewIndividual(ids.Next(), generation, genome.Mutate(c2, mut, rng), body)
		}
	}

	return next
}
