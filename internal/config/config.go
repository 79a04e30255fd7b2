package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete site-generation configuration
type Config struct {
	Site    SiteConfig    `yaml:"site" envconfig:"SITE"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Theme   ThemeConfig   `yaml:"theme" envconfig:"THEME"`
	Posts   PostsConfig   `yaml:"posts" envconfig:"POSTS"`
}

// SiteConfig contains the directories a post run reads from and writes to
type SiteConfig struct {
	ContentDir string `yaml:"content_dir" envconfig:"CONTENT_DIR" validate:"required"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	CacheDir   string `yaml:"cache_dir" envconfig:"CACHE_DIR"`
}

// FetchConfig contains remote-dataset client configuration
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RPS       float64       `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst     int           `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// ThemeConfig contains the default rendering theme. Styling always flows
// through this explicit configuration; nothing in the render path reads
// package-level state.
type ThemeConfig struct {
	Palette    []string `yaml:"palette" envconfig:"PALETTE"`
	FontFamily string   `yaml:"font_family" envconfig:"FONT_FAMILY"`
	GridLines  bool     `yaml:"grid_lines" envconfig:"GRID_LINES"`
}

// PostsConfig contains per-post dataset locations, overridable per build
type PostsConfig struct {
	ClaimsWorkbook string `yaml:"claims_workbook" envconfig:"CLAIMS_WORKBOOK"`
	RolloutURL     string `yaml:"rollout_url" envconfig:"ROLLOUT_URL" validate:"url"`
}

// Default returns the built-in configuration used when neither the config
// file nor the environment sets a value. Defaults live here rather than in
// struct tags so that envconfig.Process never reapplies them over values
// the file already set.
func Default() Config {
	return Config{
		Site: SiteConfig{
			ContentDir: "content/posts",
			DataDir:    "data",
			CacheDir:   "data/cache",
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			RPS:       1,
			Burst:     1,
			UserAgent: "datanotes/1.0 (site build)",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			Palette:    []string{"#4c78a8", "#f58518", "#54a24b", "#e45756"},
			FontFamily: "Georgia, serif",
			GridLines:  true,
		},
		Posts: PostsConfig{
			ClaimsWorkbook: "claims.xlsx",
			RolloutURL:     "https://data.example.org/vaccination/cumulative-doses.csv",
		},
	}
}

// Load loads configuration in increasing precedence: built-in defaults,
// then the YAML config file when it exists, then DATANOTES_* environment
// variables. A variable set in the environment always wins, so a single
// build can be redirected without editing the checked-in file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// Load from config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Environment variables override both defaults and file values
	if err := envconfig.Process("DATANOTES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for invalid values so a bad build
// environment fails at startup, never mid-run.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
