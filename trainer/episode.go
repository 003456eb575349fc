package trainer

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/systems"
)

// runEpisode ticks every individual until all are terminal or the step
// budget is spent, and returns the number of ticks run.
//
// Individuals share nothing mutable during a tick: the grid is read-only and
// each worker writes only to its own slots. The result is therefore the same
// whether a tick runs sequentially or in parallel.
func (t *Trainer) runEpisode() int {
	active := make([]int, 0, len(t.population))
	ticks := 0

	for step := 0; step < t.opts.MaxSteps; step++ {
		active = active[:0]
		for i := range t.population {
			if t.population[i].IsActive() {
				active = append(active, i)
			}
		}
		if len(active) == 0 {
			break
		}

		if len(active) >= t.opts.ParallelThreshold && t.opts.workers() > 1 {
			t.tickParallel(active, step)
		} else {
			for _, i := range active {
				t.stepIndividual(&t.population[i], step)
			}
		}
		ticks++
	}

	// The final tick terminates everyone; this only catches a zero step budget.
	for i := range t.population {
		if t.population[i].IsActive() {
			t.finish(&t.population[i])
		}
	}
	return ticks
}

func (t *Trainer) tickParallel(active []int, step int) {
	workers := t.opts.workers()
	chunk := (len(active) + workers - 1) / workers

	p := pool.New().WithMaxGoroutines(workers)
	for lo := 0; lo < len(active); lo += chunk {
		hi := min(lo+chunk, len(active))
		part := active[lo:hi]
		p.Go(func() {
			for _, i := range part {
				t.stepIndividual(&t.population[i], step)
			}
		})
	}
	p.Wait()
}

// stepIndividual advances one individual by a single sense-decide-act cycle.
func (t *Trainer) stepIndividual(ind *components.Individual, step int) {
	ctx := t.sim
	pose := ind.Robot.Pose

	readings := systems.SenseAll(pose, ctx)
	action := systems.DecideAction(ind.Chromosome, readings)
	moved := systems.Execute(&ind.Robot, action, ctx)
	if !moved {
		ind.Collisions++
	}
	ind.Steps++

	if t.opts.TrackMovement {
		ind.Trace = append(ind.Trace, components.TraceStep{
			Step:    step,
			Pose:    pose,
			Action:  action,
			Moved:   moved,
			Sensors: readings,
		})
	}

	if systems.ReachedGoal(ind.Robot.Pose, ctx) {
		ind.ReachedGoal = true
		t.finish(ind)
		return
	}
	if step == t.opts.MaxSteps-1 || (!moved && t.opts.TerminateOnCollision) {
		t.finish(ind)
	}
}

// finish marks an individual terminal and scores it. Fitness is computed
// exactly once per episode.
func (t *Trainer) finish(ind *components.Individual) {
	ind.Status = components.Terminal
	ind.Fitness = t.fitness.Evaluate(ind, t.sim)
}
