package feedfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feedtriage/internal/domain"
)

func TestLoadRejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte(`{"items": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		t.Fatalf("missing file should not be a FormatError: %v", err)
	}
}

func TestRoundTripPreservesOrderAndExtraFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	input := `[
  {"id": 2, "source": "mastodon", "author": "a", "content": "x", "lang": "en"},
  {"id": "1", "source": "bluesky", "author": "b", "content": "y", "metrics": {"likes": 3}}
]`
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID() != "2" || records[1].ID() != "1" {
		t.Fatalf("order not preserved: %s, %s", records[0].ID(), records[1].ID())
	}

	if err := Save(path, records); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded[0]["lang"] != "en" {
		t.Fatalf("extra field lost: %v", reloaded[0])
	}
	metrics, ok := reloaded[1]["metrics"].(map[string]any)
	if !ok || metrics["likes"] != json.Number("3") {
		t.Fatalf("nested extra field lost: %v", reloaded[1])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Fatalf("output not pretty-printed with 2-space indent:\n%s", data)
	}
}

func TestWriteStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classification-stats.json")
	report := domain.StatsReport{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Total:        5,
		Counts:       map[string]int{"bug": 2, "love": 1, "other": 1, "unlabeled": 1},
		PercentOther: 20,
	}
	if err := WriteStats(path, report); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded domain.StatsReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Total != 5 || decoded.Counts["bug"] != 2 || decoded.PercentOther != 20 {
		t.Fatalf("unexpected stats round-trip: %+v", decoded)
	}
}

func TestDefaultStatsPath(t *testing.T) {
	got := DefaultStatsPath("/data/out/feed.json")
	if got != "/data/out/classification-stats.json" {
		t.Fatalf("DefaultStatsPath = %s", got)
	}
}
