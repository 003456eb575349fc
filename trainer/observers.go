package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/mazeevo/checkpoint"
	"github.com/pthm-cable/mazeevo/telemetry"
)

// OutputObserver writes every generation and maze to an output directory.
type OutputObserver struct {
	Output *telemetry.OutputManager
}

func (o *OutputObserver) OnMaze(rec telemetry.MazeRecord) error {
	return o.Output.WriteMaze(rec)
}

func (o *OutputObserver) OnGeneration(_ context.Context, res GenerationResult) error {
	g := res.Summary.Generation
	if err := o.Output.WriteGeneration(res.Summary); err != nil {
		return err
	}
	if err := o.Output.WriteIndividuals(telemetry.NewIndividualRecords(g, res.Population, res.Context)); err != nil {
		return err
	}
	return o.Output.WriteTraces(telemetry.NewTraceRecords(g, res.Population))
}

// MetricsObserver feeds Prometheus collectors.
type MetricsObserver struct {
	Metrics *telemetry.Metrics
}

func (o *MetricsObserver) OnMaze(rec telemetry.MazeRecord) error {
	o.Metrics.ObserveMaze(rec)
	return nil
}

func (o *MetricsObserver) OnGeneration(_ context.Context, res GenerationResult) error {
	o.Metrics.ObserveGeneration(res.Summary)
	return nil
}

// CheckpointObserver offers each generation's best individual to a tracker
// and records the counters a resumed run starts from.
type CheckpointObserver struct {
	Tracker *checkpoint.Tracker
}

func (o *CheckpointObserver) OnMaze(telemetry.MazeRecord) error { return nil }

func (o *CheckpointObserver) OnGeneration(ctx context.Context, res GenerationResult) error {
	s := res.Summary
	if s.BestID < 0 {
		return o.Tracker.Advance(ctx, s.Generation, res.NextID)
	}
	for i := range res.Population {
		ind := &res.Population[i]
		if ind.ID != s.BestID {
			continue
		}
		saved, err := o.Tracker.Offer(ctx, checkpoint.Checkpoint{
			ID:         ind.ID,
			Fitness:    ind.Fitness,
			Generation: s.Generation,
			NextID:     res.NextID,
			Difficulty: s.Difficulty,
			Chromosome: ind.Chromosome,
		})
		if err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
		if saved {
			slog.Info("checkpoint_saved", "id", ind.ID, "fitness", ind.Fitness, "generation", s.Generation)
		}
		return nil
	}
	return o.Tracker.Advance(ctx, s.Generation, res.NextID)
}
