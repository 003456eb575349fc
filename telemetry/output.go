package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/mazeevo/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir             string
	generationsFile *os.File
	individualsFile *os.File
	tracesFile      *os.File
	mazesFile       *os.File
	mazes           *yaml.Encoder

	// Track if headers have been written
	generationsHeaderWritten bool
	individualsHeaderWritten bool
	tracesHeaderWritten      bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). traces.csv is only created
// when withTraces is set.
func NewOutputManager(dir string, withTraces bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.generationsFile, err = om.create("generations.csv"); err != nil {
		return nil, err
	}
	if om.individualsFile, err = om.create("individuals.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.mazesFile, err = om.create("mazes.yaml"); err != nil {
		om.Close()
		return nil, err
	}
	om.mazes = yaml.NewEncoder(om.mazesFile)

	if withTraces {
		if om.tracesFile, err = om.create("traces.csv"); err != nil {
			om.Close()
			return nil, err
		}
	}

	return om, nil
}

func (om *OutputManager) create(name string) (*os.File, error) {
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return f, nil
}

// writeCSV marshals records, including the header row only on the first call.
func writeCSV(records any, w io.Writer, headerWritten *bool) error {
	if !*headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, w)
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration appends a generation summary to generations.csv.
func (om *OutputManager) WriteGeneration(s GenerationSummary) error {
	if om == nil {
		return nil
	}
	if err := writeCSV([]GenerationSummary{s}, om.generationsFile, &om.generationsHeaderWritten); err != nil {
		return fmt.Errorf("writing generation: %w", err)
	}
	return nil
}

// WriteIndividuals appends per-individual results to individuals.csv.
func (om *OutputManager) WriteIndividuals(records []IndividualRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := writeCSV(records, om.individualsFile, &om.individualsHeaderWritten); err != nil {
		return fmt.Errorf("writing individuals: %w", err)
	}
	return nil
}

// WriteTraces appends movement traces to traces.csv. It is a no-op when
// traces were not enabled.
func (om *OutputManager) WriteTraces(records []TraceRecord) error {
	if om == nil || om.tracesFile == nil || len(records) == 0 {
		return nil
	}
	if err := writeCSV(records, om.tracesFile, &om.tracesHeaderWritten); err != nil {
		return fmt.Errorf("writing traces: %w", err)
	}
	return nil
}

// WriteMaze appends one maze document to mazes.yaml.
func (om *OutputManager) WriteMaze(m MazeRecord) error {
	if om == nil {
		return nil
	}
	if err := om.mazes.Encode(m); err != nil {
		return fmt.Errorf("writing maze: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.mazes != nil {
		if err := om.mazes.Close(); err != nil {
			firstErr = err
		}
	}

	for _, f := range []*os.File{om.generationsFile, om.individualsFile, om.tracesFile, om.mazesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
