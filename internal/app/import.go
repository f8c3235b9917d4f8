package app

import (
	"errors"
	"log"
	"os"

	"feedtriage/internal/config"
	"feedtriage/internal/domain"
	"feedtriage/internal/feeder"
	"feedtriage/internal/storage/feedfile"
)

// RunImport fetches an RSS feed and appends its items to the input file as
// unclassified records, skipping ids already present.
func RunImport(cfg config.Config) error {
	imported, err := feeder.Import(cfg.ImportRSS, cfg.RSSLimit)
	if err != nil {
		return err
	}

	var existing []domain.FeedRecord
	if _, statErr := os.Stat(cfg.InputPath); statErr == nil {
		existing, err = feedfile.Load(cfg.InputPath)
		if err != nil {
			return err
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	seen := make(map[string]bool, len(existing))
	for _, record := range existing {
		seen[record.ID()] = true
	}

	added := 0
	merged := existing
	for _, record := range imported {
		if seen[record.ID()] {
			continue
		}
		seen[record.ID()] = true
		merged = append(merged, record)
		added++
	}

	if err := feedfile.Save(cfg.InputPath, merged); err != nil {
		return err
	}
	log.Printf("import url=%s fetched=%d added=%d total=%d file=%s",
		cfg.ImportRSS, len(imported), added, len(merged), cfg.InputPath)
	return nil
}
