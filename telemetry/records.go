package telemetry

import (
	"github.com/pthm-cable/mazeevo/components"
	"github.com/pthm-cable/mazeevo/systems"
)

// IndividualRecord is one row of individuals.csv.
type IndividualRecord struct {
	Generation     int     `csv:"generation"`
	ID             int     `csv:"id"`
	BornGeneration int     `csv:"born_generation"`
	Elite          bool    `csv:"elite"`
	Fitness        float64 `csv:"fitness"`
	ReachedGoal    bool    `csv:"reached_goal"`
	Steps          int     `csv:"steps"`
	Collisions     int     `csv:"collisions"`
	FinalX         float64 `csv:"final_x"`
	FinalY         float64 `csv:"final_y"`
	FinalHeading   float64 `csv:"final_heading"`
	DistanceToGoal float64 `csv:"distance_to_goal"`
}

// TraceRecord is one row of traces.csv.
type TraceRecord struct {
	Generation int     `csv:"generation"`
	ID         int     `csv:"id"`
	Step       int     `csv:"step"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Heading    float64 `csv:"heading"`
	Action     string  `csv:"action"`
	Moved      bool    `csv:"moved"`
	Front      float64 `csv:"front"`
	Left       float64 `csv:"left"`
	Right      float64 `csv:"right"`
	FrontLeft  float64 `csv:"front_left"`
	FrontRight float64 `csv:"front_right"`
}

// MazeRecord is one document in mazes.yaml.
type MazeRecord struct {
	ID           int      `yaml:"id"`
	Phase        int      `yaml:"phase"`
	Generation   int      `yaml:"generation"` // first generation that ran on this maze
	Difficulty   string   `yaml:"difficulty"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	ClearPercent int      `yaml:"clear_percent"`
	Attempts     int      `yaml:"attempts"`
	Start        [2]int   `yaml:"start,flow"`
	Goal         [2]int   `yaml:"goal,flow"`
	Layout       []string `yaml:"layout"`
}

// NewIndividualRecords flattens a finished population.
func NewIndividualRecords(generation int, pop []components.Individual, ctx *systems.SimulationContext) []IndividualRecord {
	records := make([]IndividualRecord, len(pop))
	for i := range pop {
		ind := &pop[i]
		records[i] = IndividualRecord{
			Generation:     generation,
			ID:             ind.ID,
			BornGeneration: ind.Generation,
			Elite:          ind.Elite,
			Fitness:        ind.Fitness,
			ReachedGoal:    ind.ReachedGoal,
			Steps:          ind.Steps,
			Collisions:     ind.Collisions,
			FinalX:         ind.Robot.X,
			FinalY:         ind.Robot.Y,
			FinalHeading:   ind.Robot.Heading,
			DistanceToGoal: systems.DistanceToGoal(ind.Robot.Pose, ctx),
		}
	}
	return records
}

// NewTraceRecords flattens every recorded movement trace in a population.
func NewTraceRecords(generation int, pop []components.Individual) []TraceRecord {
	n := 0
	for i := range pop {
		n += len(pop[i].Trace)
	}
	records := make([]TraceRecord, 0, n)

	for i := range pop {
		for _, st := range pop[i].Trace {
			records = append(records, TraceRecord{
				Generation: generation,
				ID:         pop[i].ID,
				Step:       st.Step,
				X:          st.Pose.X,
				Y:          st.Pose.Y,
				Heading:    st.Pose.Heading,
				Action:     st.Action.String(),
				Moved:      st.Moved,
				Front:      st.Sensors[systems.SensorFront],
				Left:       st.Sensors[systems.SensorLeft],
				Right:      st.Sensors[systems.SensorRight],
				FrontLeft:  st.Sensors[systems.SensorFrontLeft],
				FrontRight: st.Sensors[systems.SensorFrontRight],
			})
		}
	}
	return records
}

// NewMazeRecord describes a generated maze.
func NewMazeRecord(id, phase, generation int, m *systems.Maze) MazeRecord {
	return MazeRecord{
		ID:           id,
		Phase:        phase,
		Generation:   generation,
		Difficulty:   m.Difficulty.String(),
		Width:        m.Grid.Width(),
		Height:       m.Grid.Height(),
		ClearPercent: m.ClearPercent,
		Attempts:     m.Attempts,
		Start:        [2]int{m.Start.X, m.Start.Y},
		Goal:         [2]int{m.Goal.X, m.Goal.Y},
		Layout:       m.Grid.Rows(),
	}
}
