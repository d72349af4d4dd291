package render

import (
	"fmt"
	"os"
	"time"
)

// Config holds image-rendering backend connection parameters.
type Config struct {
	BaseURL     string `toml:"base_url"`
	DownloadURL string `toml:"download_url"`
	Token       string `toml:"token"`
	AspectRatio string `toml:"aspect_ratio"`
	Timeout     string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	Token   string
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
	if overlay.DownloadURL != "" {
		c.DownloadURL = overlay.DownloadURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.AspectRatio != "" {
		c.AspectRatio = overlay.AspectRatio
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
		c.BaseURL = "https://kieai.erweima.ai/api/v1/gpt4o-image"
	}
	if c.DownloadURL == "" {
		c.DownloadURL = "https://api.kie.ai/api/v1/gpt4o-image/download-url"
	}
	if c.AspectRatio == "" {
		c.AspectRatio = "1:1"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
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
