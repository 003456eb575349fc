package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/config"
	"github.com/pthm-cable/mazeevo/genome"
	"github.com/pthm-cable/mazeevo/systems"
)

func testMaze(t *testing.T) *systems.Maze {
	t.Helper()
	gen := systems.NewMazeGenerator(rand.New(rand.NewSource(3)), nil)
	start, goal := systems.Point{X: 1, Y: 1}, systems.Point{X: 4, Y: 2}
	m, err := gen.GenerateWith(systems.GenerateOptions{
		Width:        5,
		Height:       5,
		ClearPercent: 100,
		MaxAttempts:  1,
		Difficulty:   systems.Simple,
		Start:        &start,
		Goal:         &goal,
	})
	if err != nil {
		t.Fatalf("GenerateWith: %v", err)
	}
	return m
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", true)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is safe on the disabled manager.
	if err := om.WriteGeneration(GenerationSummary{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteMaze(MazeRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q", om.Dir())
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, false)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for g := 0; g < 3; g++ {
		if err := om.WriteGeneration(GenerationSummary{Generation: g, Difficulty: "open", BestID: g}); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.WriteTraces([]TraceRecord{{ID: 1}}); err != nil {
		t.Fatalf("WriteTraces without traces enabled: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	m := testMaze(t)
	if err := om.WriteMaze(NewMazeRecord(1, 0, 0, m)); err != nil {
		t.Fatalf("WriteMaze: %v", err)
	}
	if err := om.WriteMaze(NewMazeRecord(2, 1, 25, m)); err != nil {
		t.Fatalf("WriteMaze: %v", err)
	}

	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "generations.csv"))
	if len(lines) != 4 {
		t.Fatalf("generations.csv has %d lines, want 4:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.HasPrefix(lines[0], "generation,phase,difficulty,maze_id") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.HasPrefix(lines[2], "generation") {
		t.Error("header repeated")
	}

	if _, err := os.Stat(filepath.Join(dir, "traces.csv")); !os.IsNotExist(err) {
		t.Errorf("traces.csv should not exist, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "mazes.yaml"))
	if err != nil {
		t.Fatalf("open mazes.yaml: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	var docs []MazeRecord
	for {
		var rec MazeRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		docs = append(docs, rec)
	}
	if len(docs) != 2 {
		t.Fatalf("decoded %d maze documents, want 2", len(docs))
	}
	if docs[1].ID != 2 || docs[1].Generation != 25 || docs[1].Difficulty != "simple" {
		t.Errorf("second maze = %+v", docs[1])
	}
	if docs[0].Start != [2]int{1, 1} || docs[0].Goal != [2]int{4, 2} {
		t.Errorf("endpoints start %v goal %v", docs[0].Start, docs[0].Goal)
	}
	if len(docs[0].Layout) != 5 || docs[0].Layout[1][1] != 'S' || docs[0].Layout[2][4] != 'G' {
		t.Errorf("layout %q", docs[0].Layout)
	}
}

func TestIndividualAndTraceRecords(t *testing.T) {
	m := testMaze(t)
	ctx := systems.NewSimulationContext(m.Grid, m.Start, m.Goal, systems.DefaultGeometry(), nil)

	ind := components.NewIndividual(9, 2, genome.Chromosome{}, components.Body{Width: 0.8, Height: 0.8})
	ind.Reset(ctx.SpawnPose(), 0)
	ind.Robot.X, ind.Robot.Y = 3.5, 2.5
	ind.Steps, ind.Collisions, ind.Fitness = 2, 1, 1990
	ind.Trace = []components.TraceStep{
		{Step: 0, Pose: ctx.SpawnPose(), Action: components.TurnLeft45, Moved: true, Sensors: [5]float64{1, 2, 3, 4, 5}},
		{Step: 1, Pose: ctx.SpawnPose(), Action: components.Forward, Moved: false},
	}
	pop := []components.Individual{ind, components.NewIndividual(10, 2, genome.Chromosome{}, components.Body{})}

	recs := NewIndividualRecords(4, pop, ctx)
	if len(recs) != 2 {
		t.Fatalf("got %d individual records", len(recs))
	}
	r := recs[0]
	if r.Generation != 4 || r.ID != 9 || r.BornGeneration != 2 || r.Steps != 2 || r.Collisions != 1 {
		t.Errorf("record = %+v", r)
	}
	// Goal cell (4,2) is centered at (4.5, 2.5).
	if r.DistanceToGoal != 1 {
		t.Errorf("distance to goal %v, want 1", r.DistanceToGoal)
	}

	traces := NewTraceRecords(4, pop)
	if len(traces) != 2 {
		t.Fatalf("got %d trace records, want 2", len(traces))
	}
	if traces[0].Action != "turn_left" || traces[0].FrontRight != 5 || traces[0].Left != 2 || !traces[0].Moved {
		t.Errorf("first trace = %+v", traces[0])
	}
	if traces[1].Step != 1 || traces[1].Moved {
		t.Errorf("second trace = %+v", traces[1])
	}
}
