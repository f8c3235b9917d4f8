package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"feedtriage/internal/config"
	"feedtriage/internal/domain"
	"feedtriage/internal/integrations/llm"
	"feedtriage/internal/pipeline"
	"feedtriage/internal/storage/feedfile"
)

// Run executes one classification pass: load, select pending, batch,
// classify sequentially, merge, persist, report. Any batch failure (after
// the classifier's internal retries) aborts the run with nothing persisted.
func Run(ctx context.Context, cfg config.Config, classifier llm.Classifier) (domain.StatsReport, error) {
	runID := uuid.NewString()[:8]
	log.Printf("run id=%s input=%s output=%s batch_size=%d dry_run=%v provider=%s model=%s",
		runID, cfg.InputPath, cfg.OutputPath, cfg.BatchSize, cfg.DryRun, cfg.Provider, cfg.Model)

	records, err := feedfile.Load(cfg.InputPath)
	if err != nil {
		return domain.StatsReport{}, err
	}

	pending := pipeline.Pending(records, cfg.Field)
	log.Printf("run id=%s records=%d pending=%d", runID, len(records), len(pending))

	if len(pending) == 0 {
		log.Printf("run id=%s nothing to classify", runID)
		report := pipeline.Stats(records, cfg.Field, time.Now())
		if cfg.DryRun {
			return report, nil
		}
		if err := feedfile.WriteStats(cfg.StatsPath, report); err != nil {
			return domain.StatsReport{}, err
		}
		return report, nil
	}

	batches, err := pipeline.Batches(pending, cfg.BatchSize)
	if err != nil {
		return domain.StatsReport{}, err
	}

	// Batches run one at a time, in order. One invocation in flight is what
	// the external tool expects.
	var results []domain.ClassificationResult
	for i, batch := range batches {
		log.Printf("run id=%s classify batch=%d/%d items=%d", runID, i+1, len(batches), len(batch))
		batchResults, err := classifier.Classify(ctx, batch)
		if err != nil {
			return domain.StatsReport{}, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		results = append(results, batchResults...)
	}

	if cfg.DryRun {
		for _, res := range results {
			log.Printf("run id=%s dry-run id=%s label=%s reason=%q", runID, res.ID, res.Label, res.Reason)
		}
		log.Printf("run id=%s dry-run complete results=%d, nothing persisted", runID, len(results))
		return domain.StatsReport{}, nil
	}

	now := time.Now()
	updated := pipeline.Merge(records, results, cfg.Field, now)

	if err := feedfile.Save(cfg.OutputPath, records); err != nil {
		return domain.StatsReport{}, err
	}
	report := pipeline.Stats(records, cfg.Field, now)
	if err := feedfile.WriteStats(cfg.StatsPath, report); err != nil {
		return domain.StatsReport{}, err
	}

	log.Printf("run id=%s done updated=%d total=%d percent_other=%.2f", runID, updated, report.Total, report.PercentOther)
	return report, nil
}
