package app

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"feedtriage/internal/config"
	"feedtriage/internal/integrations/llm"
)

// RunSchedule re-runs classification on a cron schedule until the process is
// stopped. Individual run failures are logged and the loop continues; only a
// bad cron expression is fatal.
func RunSchedule(ctx context.Context, cfg config.Config, classifier llm.Classifier) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return config.Errorf("invalid schedule %q: %v", cfg.Schedule, err)
	}

	log.Printf("schedule enabled cron=%q", cfg.Schedule)
	for {
		now := time.Now()
		next := sched.Next(now)
		log.Printf("next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), next.Sub(now).Round(time.Second))
		time.Sleep(next.Sub(now))

		report, err := Run(ctx, cfg, classifier)
		if err != nil {
			log.Printf("scheduled run error: %v", err)
			continue
		}
		notifyIfConfigured(cfg, report)
	}
}
