package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"amplify/internal/publish"
	"amplify/internal/render"
	"amplify/internal/scrape"
	"amplify/pkg/jobpoll"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAmplifyEnv       = "AMPLIFY_ENV"
	EnvAmplifyOutputDir = "AMPLIFY_OUTPUT_DIR"
	EnvAmplifyVersion   = "AMPLIFY_VERSION"
)

var scraperEnv = &scrape.Env{
	BaseURL:    "AMPLIFY_SCRAPER_BASE_URL",
	Token:      "AMPLIFY_SCRAPER_TOKEN",
	Actor:      "AMPLIFY_SCRAPER_ACTOR",
	MaxResults: "AMPLIFY_SCRAPER_MAX_RESULTS",
}

var imagesEnv = &render.Env{
	BaseURL: "AMPLIFY_IMAGES_BASE_URL",
	Token:   "AMPLIFY_IMAGES_TOKEN",
}

var publisherEnv = &publish.Env{
	BaseURL: "AMPLIFY_PUBLISHER_BASE_URL",
	Token:   "AMPLIFY_PUBLISHER_TOKEN",
	Author:  "AMPLIFY_PUBLISHER_AUTHOR",
}

// Config is the root configuration for the Amplify pipeline.
type Config struct {
	Agent     gaconfig.AgentConfig `toml:"agent"`
	Scraper   scrape.Config        `toml:"scraper"`
	Images    render.Config        `toml:"images"`
	Publisher publish.Config       `toml:"publisher"`
	Poll      PollConfig           `toml:"poll"`
	OutputDir string               `toml:"output_dir"`
	Version   string               `toml:"version"`
}

// Env returns the AMPLIFY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAmplifyEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Agent.Merge(&overlay.Agent)
	c.Scraper.Merge(&overlay.Scraper)
	c.Images.Merge(&overlay.Images)
	c.Publisher.Merge(&overlay.Publisher)
	c.Poll.Merge(&overlay.Poll)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Scraper.Finalize(scraperEnv); err != nil {
		return fmt.Errorf("scraper: %w", err)
	}
	if err := c.Images.Finalize(imagesEnv); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if err := c.Publisher.Finalize(publisherEnv); err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	if err := c.Poll.Finalize(); err != nil {
		return fmt.Errorf("poll: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "outputs"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAmplifyOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvAmplifyVersion); v != "" {
		c.Version = v
	}
}

// PollConfig bounds the image-generation polling loop.
type PollConfig struct {
	Interval string `toml:"interval"`
	Budget   string `toml:"budget"`
}

// Merge overwrites non-zero fields from overlay.
func (p *PollConfig) Merge(overlay *PollConfig) {
	if overlay.Interval != "" {
		p.Interval = overlay.Interval
	}
	if overlay.Budget != "" {
		p.Budget = overlay.Budget
	}
}

// Finalize applies defaults and validates the durations.
func (p *PollConfig) Finalize() error {
	if p.Interval == "" {
		p.Interval = jobpoll.DefaultInterval.String()
	}
	if p.Budget == "" {
		p.Budget = jobpoll.DefaultBudget.String()
	}
	if _, err := time.ParseDuration(p.Interval); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	if _, err := time.ParseDuration(p.Budget); err != nil {
		return fmt.Errorf("invalid budget: %w", err)
	}
	return nil
}

// Jobpoll converts the finalized values into a poller configuration.
func (p *PollConfig) Jobpoll() jobpoll.Config {
	interval, _ := time.ParseDuration(p.Interval)
	budget, _ := time.ParseDuration(p.Budget)
	return jobpoll.Config{Interval: interval, Budget: budget}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvAmplifyEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
