// Package feedfile reads and writes the two JSON artifacts of a run: the
// feed array itself and the aggregate stats report.
package feedfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"feedtriage/internal/domain"
)

const StatsFileName = "classification-stats.json"

// FormatError reports a feed file whose contents are not a JSON array.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("feed file %s is not a JSON array: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads the feed array from path. Numbers are decoded as json.Number so
// ids survive round-trips exactly.
func Load(path string) ([]domain.FeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feed file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []domain.FeedRecord
	if err := dec.Decode(&records); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	return records, nil
}

// Save writes the feed array to path, pretty-printed with 2-space indent.
func Save(path string, records []domain.FeedRecord) error {
	if records == nil {
		records = []domain.FeedRecord{}
	}
	return writeJSON(path, records)
}

// WriteStats writes the stats artifact to path.
func WriteStats(path string, report domain.StatsReport) error {
	return writeJSON(path, report)
}

// DefaultStatsPath derives the stats artifact location from the output path:
// classification-stats.json next to the output file.
func DefaultStatsPath(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), StatsFileName)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
