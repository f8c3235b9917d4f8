// Package config builds the run configuration once at startup. Precedence:
// CLI flag > environment variable > config.yaml > default.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"feedtriage/internal/integrations/llm"
	"feedtriage/internal/storage/feedfile"
)

const (
	ProviderCLI       = "cli"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	DefaultBatchSize = 10
	DefaultField     = "classification"
)

// Error marks a configuration problem, caught before any feed I/O happens.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "config: " + e.Reason }

// Errorf builds a configuration error.
func Errorf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

type Config struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
	StatsPath  string `yaml:"stats_path"`
	Field      string `yaml:"classification_field"`
	BatchSize  int    `yaml:"batch_size"`
	DryRun     bool   `yaml:"-"`

	Provider string `yaml:"llm_provider"`
	Model    string `yaml:"llm_model"`
	Effort   string `yaml:"llm_reasoning_effort"`
	CLIBin   string `yaml:"cli_bin"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`

	Schedule        string `yaml:"schedule"`
	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	ImportRSS string `yaml:"-"`
	RSSLimit  int    `yaml:"-"`
}

// Load resolves the configuration from args plus environment and an optional
// config.yaml (path via CONFIG_PATH).
func Load(args []string) (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, Errorf("parsing %s: %v", configPath, err)
		}
	}

	// Env vars override YAML values.
	envOverride(&cfg.Field, "CLASSIFY_FIELD")
	envOverride(&cfg.Provider, "LLM_PROVIDER")
	envOverride(&cfg.CLIBin, "CLASSIFY_BIN")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	if err := envOverrideInt(&cfg.BatchSize, "CLASSIFY_BATCH_SIZE"); err != nil {
		return Config{}, err
	}
	envFirst(&cfg.Model, "CLASSIFY_MODEL", "LLM_MODEL")
	envFirst(&cfg.Effort, "CLASSIFY_EFFORT", "LLM_REASONING_EFFORT")

	// Flags override everything. Defaults are the already-resolved values so
	// unset flags change nothing.
	fs := flag.NewFlagSet("feedtriage", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.InputPath, "input", cfg.InputPath, "feed file path (required)")
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "merged feed destination (default: input path)")
	fs.StringVar(&cfg.StatsPath, "stats", cfg.StatsPath, "stats artifact path (default: next to output)")
	fs.StringVar(&cfg.Field, "field", cfg.Field, "classification field name")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "max records per classifier batch")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "classify but do not merge or persist")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "classifier provider: cli, anthropic, gemini")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model identifier")
	fs.StringVar(&cfg.Effort, "effort", cfg.Effort, "reasoning effort level (off omits the flag)")
	fs.StringVar(&cfg.CLIBin, "bin", cfg.CLIBin, "external classifier executable")
	fs.StringVar(&cfg.Schedule, "schedule", cfg.Schedule, "cron expression for repeated runs")
	fs.StringVar(&cfg.ImportRSS, "import-rss", "", "import items from an RSS feed URL, then exit")
	fs.IntVar(&cfg.RSSLimit, "rss-limit", 0, "max items to import from the RSS feed (0 = all)")
	if err := fs.Parse(args); err != nil {
		return Config{}, Errorf("%v", err)
	}
	batchSizeSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "batch-size" {
			batchSizeSet = true
		}
	})

	// Defaults.
	if cfg.Field == "" {
		cfg.Field = DefaultField
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderCLI
	}
	if cfg.BatchSize == 0 && !batchSizeSet {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Effort == "" {
		cfg.Effort = llm.DefaultEffort
	}
	if cfg.CLIBin == "" {
		cfg.CLIBin = llm.DefaultBin
	}
	if cfg.Model == "" {
		if cfg.Provider == ProviderGemini {
			cfg.Model = llm.DefaultGeminiModel
		} else {
			cfg.Model = llm.DefaultModel
		}
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath
	}
	if cfg.StatsPath == "" && cfg.OutputPath != "" {
		cfg.StatsPath = feedfile.DefaultStatsPath(cfg.OutputPath)
	}

	// Validation, before any feed I/O.
	if cfg.InputPath == "" {
		return Config{}, Errorf("input path is required (-input or input_path in config.yaml)")
	}
	if cfg.BatchSize < 1 {
		return Config{}, Errorf("batch size must be >= 1, got %d", cfg.BatchSize)
	}
	switch cfg.Provider {
	case ProviderCLI, ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return Config{}, Errorf("ANTHROPIC_API_KEY is required for provider %s", cfg.Provider)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Config{}, Errorf("GEMINI_API_KEY is required for provider gemini")
		}
	default:
		return Config{}, Errorf("unknown provider %q (want cli, anthropic or gemini)", cfg.Provider)
	}

	return cfg, nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return Errorf("invalid %s %q: %v", envKey, val, err)
	}
	*field = parsed
	return nil
}

// envFirst applies the first non-empty value among keys, in order.
func envFirst(field *string, keys ...string) {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			*field = val
			return
		}
	}
}
