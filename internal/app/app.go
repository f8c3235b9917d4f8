package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"feedtriage/internal/config"
	"feedtriage/internal/domain"
	"feedtriage/internal/integrations/llm"
	slacknotify "feedtriage/internal/integrations/slack"
)

// Main wires the process: configuration, classifier provider, then a single
// run, an RSS import, or the cron schedule loop.
func Main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if cfg.ImportRSS != "" {
		if err := RunImport(cfg); err != nil {
			log.Fatalf("Import error: %v", err)
		}
		return
	}

	ctx := context.Background()
	classifier, err := buildClassifier(ctx, cfg)
	if err != nil {
		log.Fatalf("Classifier setup error: %v", err)
	}

	if cfg.Schedule != "" {
		if err := RunSchedule(ctx, cfg, classifier); err != nil {
			log.Fatalf("Schedule error: %v", err)
		}
		return
	}

	report, err := Run(ctx, cfg, classifier)
	if err != nil {
		log.Fatalf("Run error: %v", err)
	}
	notifyIfConfigured(cfg, report)
}

// buildClassifier picks the provider and wraps it with the retry policy.
func buildClassifier(ctx context.Context, cfg config.Config) (llm.Classifier, error) {
	var base llm.Classifier
	switch cfg.Provider {
	case config.ProviderAnthropic:
		base = &llm.AnthropicClassifier{APIKey: cfg.AnthropicAPIKey, Model: cfg.Model}
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = gemini
	default:
		base = &llm.CLIClassifier{Bin: cfg.CLIBin, Model: cfg.Model, Effort: cfg.Effort}
	}
	return &llm.Retry{Next: base}, nil
}

func notifyIfConfigured(cfg config.Config, report domain.StatsReport) {
	if cfg.DryRun || cfg.SlackBotToken == "" || cfg.ReportChannelID == "" {
		return
	}
	if err := slacknotify.PostStatsSummary(cfg.SlackBotToken, cfg.ReportChannelID, report); err != nil {
		log.Printf("slack notify error: %v", err)
	}
}
