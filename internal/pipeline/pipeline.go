// Package pipeline holds the pure steps of a classification run: selecting
// pending records, batching them, merging classifier results back, and
// aggregating stats.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"feedtriage/internal/domain"
)

var ErrBatchSize = errors.New("batch size must be >= 1")

// Pending returns the ordered sub-sequence of records that have no
// classification label under field. The input is never mutated.
func Pending(records []domain.FeedRecord, field string) []domain.FeedRecord {
	var pending []domain.FeedRecord
	for _, record := range records {
		if record.Label(field) == "" {
			pending = append(pending, record)
		}
	}
	return pending
}

// Batches splits records into contiguous slices of at most size elements,
// preserving order. The last batch may be shorter.
func Batches(records []domain.FeedRecord, size int) ([][]domain.FeedRecord, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBatchSize, size)
	}
	var batches [][]domain.FeedRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches, nil
}

// Merge applies classifier results onto records in place, keyed by id with
// last-write-wins on duplicate result ids. Records with no match or an
// invalid label are left untouched. Returns the number of records updated.
func Merge(records []domain.FeedRecord, results []domain.ClassificationResult, field string, now time.Time) int {
	byID := make(map[string]domain.ClassificationResult, len(results))
	for _, res := range results {
		if res.ID == "" {
			continue
		}
		byID[res.ID] = res
	}

	updated := 0
	for _, record := range records {
		res, ok := byID[record.ID()]
		if !ok {
			continue
		}
		label, ok := domain.NormalizeLabel(res.Label)
		if !ok {
			continue
		}
		record[field] = domain.ClassificationField(label, clampConfidence(res.Confidence), res.Reason, now)
		updated++
	}
	return updated
}

// clampConfidence coerces a raw confidence value into [0,1], or nil when it
// is absent or not numeric.
func clampConfidence(raw json.RawMessage) any {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return nil
	}
	if f < 0 {
		return 0.0
	}
	if f > 1 {
		return 1.0
	}
	return f
}

// Stats buckets records by their label under field ("unlabeled" when absent)
// and derives the share of "other" as a percentage rounded to 2 decimals.
func Stats(records []domain.FeedRecord, field string, now time.Time) domain.StatsReport {
	counts := make(map[string]int)
	for _, record := range records {
		label := record.Label(field)
		if label == "" {
			label = domain.LabelUnlabeled
		}
		counts[label]++
	}

	total := len(records)
	percentOther := 0.0
	if total > 0 && counts[domain.LabelOther] > 0 {
		percentOther = math.Round(float64(counts[domain.LabelOther])/float64(total)*10000) / 100
	}

	return domain.StatsReport{
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		Total:        total,
		Counts:       counts,
		PercentOther: percentOther,
	}
}
