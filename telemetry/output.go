package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/zeal8/bloom/config"
)

// OutputManager writes run output: perf.csv, field.csv and a config.yaml snapshot.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	perfFile  *os.File
	fieldFile *os.File

	// Track if headers have been written
	perfHeaderWritten  bool
	fieldHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "field.csv"))
	if err != nil {
		om.perfFile.Close()
		return nil, fmt.Errorf("creating field.csv: %w", err)
	}
	om.fieldFile = f

	return om, nil
}

// WriteConfig saves the configuration in effect as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(frame)}
	if err := writeRecords(records, om.perfFile, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteField writes a field stats record to field.csv.
func (om *OutputManager) WriteField(stats FieldStats) error {
	if om == nil {
		return nil
	}
	records := []FieldStats{stats}
	if err := writeRecords(records, om.fieldFile, &om.fieldHeaderWritten); err != nil {
		return fmt.Errorf("writing field stats: %w", err)
	}
	return nil
}

// writeRecords appends records, including the header only on the first write.
func writeRecords(records any, f *os.File, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, f)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return err
	}
	*headerWritten = true
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
	for _, f := range []*os.File{om.perfFile, om.fieldFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	om.perfFile, om.fieldFile = nil, nil
	return firstErr
}
