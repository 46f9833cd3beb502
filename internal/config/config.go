// Package config holds all bulkclean configuration: the completion backend,
// batch pacing, and the per-task column bindings. Configuration is loaded
// once at startup and treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bulkclean/internal/completion"
	"bulkclean/internal/hoursfmt"
)

// Config holds all bulkclean configuration.
type Config struct {
	// Completion backend
	LLM LLMConfig `yaml:"llm"`

	// Batch scheduling
	Batch BatchConfig `yaml:"batch"`

	// Per-task bindings
	Contacts TaskConfig  `yaml:"contacts"`
	Hours    HoursConfig `yaml:"hours"`
	Tags     TagsConfig  `yaml:"tags"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the completion backend.
type LLMConfig struct {
	Provider        string `yaml:"provider"` // azure, openai, gemini
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureAPIVersion string `yaml:"azure_api_version"`
	MinCallInterval string `yaml:"min_call_interval"`
}

// BatchConfig configures the worker pool.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// TaskConfig binds one pipeline task to its model deployment and input
// columns.
type TaskConfig struct {
	Engine        string   `yaml:"engine"`
	PrimaryKey    string   `yaml:"primary_key"`
	SourceColumns []string `yaml:"source_columns"`

	// Sampling parameters for the task's deployment.
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float64 `yaml:"top_p"`
	BestOf      int     `yaml:"best_of"`
}

// HoursConfig extends the task binding with the mini-format version.
type HoursConfig struct {
	TaskConfig    `yaml:",inline"`
	FormatVersion int `yaml:"format_version"` // 1 or 2
}

// TagsConfig binds tag synthesis to its labeled column set.
type TagsConfig struct {
	Engine     string   `yaml:"engine"`
	PrimaryKey string   `yaml:"primary_key"`
	Columns    []string `yaml:"columns"`
}

// WatchConfig configures the drop-directory watcher.
type WatchConfig struct {
	Directory string `yaml:"directory"`
	Pattern   string `yaml:"pattern"` // glob over filenames, e.g. *.csv
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "azure",
			AzureAPIVersion: "2023-09-15-preview",
			MinCallInterval: "50ms",
		},
		Batch: BatchConfig{Workers: 4},
		Contacts: TaskConfig{
			Engine:      "primary_contact_model",
			PrimaryKey:  "Program External ID",
			Temperature: 0.4,
			MaxTokens:   15,
			TopP:        0.25,
			BestOf:      2,
		},
		Hours: HoursConfig{
			TaskConfig: TaskConfig{
				Engine:        "hours_clean_model",
				PrimaryKey:    "Program External ID",
				SourceColumns: []string{"Hours Note"},
				Temperature:   0.2,
				MaxTokens:     256,
				TopP:          1,
				BestOf:        1,
			},
			FormatVersion: 1,
		},
		Tags: TagsConfig{
			Engine:     "location_tags_model",
			PrimaryKey: "Location External ID",
			Columns: []string{
				"Location Name", "Location Headline", "Location Overview",
				"Location Announcements", "Location Action Links", "Location Tags",
				"Organization Name", "Organization About Us", "Organization Tags",
			},
		},
		Watch: WatchConfig{
			Directory: "drop",
			Pattern:   "*.csv",
		},
		Logging: LoggingConfig{Verbose: false},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file is not an error; .env and process environment are applied last, so
// secrets never need to live in the YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// .env is optional; absence is the normal case outside dev setups.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("AZURE_OPENAI_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "azure"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider != "azure" {
			c.LLM.Provider = "openai"
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		c.LLM.AzureEndpoint = endpoint
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "azure", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be at least 1, got %d", c.Batch.Workers)
	}
	if v := c.Hours.FormatVersion; v != 1 && v != 2 {
		return fmt.Errorf("hours format_version must be 1 or 2, got %d", v)
	}
	return nil
}

// MinCallInterval returns the inter-call pacing interval as a duration.
func (c *Config) MinCallInterval() time.Duration {
	d, err := time.ParseDuration(c.LLM.MinCallInterval)
	if err != nil || d < 0 {
		return 50 * time.Millisecond
	}
	return d
}

// HoursVersion returns the configured mini-format version.
func (c *Config) HoursVersion() hoursfmt.Version {
	if c.Hours.FormatVersion == 2 {
		return hoursfmt.V2
	}
	return hoursfmt.V1
}

// CompletionOptions builds the adapter options for one task binding.
func (c *Config) CompletionOptions(task TaskConfig) completion.Options {
	opts := completion.DefaultOptions()
	opts.Engine = task.Engine
	opts.Temperature = task.Temperature
	opts.MaxTokens = task.MaxTokens
	opts.TopP = task.TopP
	opts.BestOf = task.BestOf
	opts.MinInterval = c.MinCallInterval()
	return opts
}
