package scrape

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds scraping backend connection parameters.
type Config struct {
	BaseURL       string `toml:"base_url"`
	Token         string `toml:"token"`
	Actor         string `toml:"actor"`
	TranscriptURL string `toml:"transcript_url"`
	MaxResults    int    `toml:"max_results"`
	Timeout       string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL    string
	Token      string
	Actor      string
	MaxResults string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Actor != "" {
		c.Actor = overlay.Actor
	}
	if overlay.TranscriptURL != "" {
		c.TranscriptURL = overlay.TranscriptURL
	}
	if overlay.MaxResults != 0 {
		c.MaxResults = overlay.MaxResults
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.apify.com"
	}
	if c.Actor == "" {
		c.Actor = "streamers~youtube-scraper"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 3
	}
	if c.Timeout == "" {
		c.Timeout = "90s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Actor != "" {
		if v := os.Getenv(env.Actor); v != "" {
			c.Actor = v
		}
	}
	if env.MaxResults != "" {
		if v := os.Getenv(env.MaxResults); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxResults = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
