package scrape_test

import (
	"testing"
	"time"

	"amplify/internal/scrape"
)

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults with token", func(t *testing.T) {
		c := scrape.Config{Token: "apify-token"}
		if err := c.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}

		if c.BaseURL != "https://api.apify.com" {
			t.Errorf("base url = %q", c.BaseURL)
		}
		if c.Actor != "streamers~youtube-scraper" {
			t.Errorf("actor = %q", c.Actor)
		}
		if c.MaxResults != 3 {
			t.Errorf("max results = %d", c.MaxResults)
		}
		if c.TimeoutDuration() != 90*time.Second {
			t.Errorf("timeout = %s", c.TimeoutDuration())
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		var c scrape.Config
		if err := c.Finalize(nil); err == nil {
			t.Error("expected error without token")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		env := &scrape.Env{
			Token:      "TEST_SCRAPER_TOKEN",
			MaxResults: "TEST_SCRAPER_MAX_RESULTS",
		}
		t.Setenv("TEST_SCRAPER_TOKEN", "from-env")
		t.Setenv("TEST_SCRAPER_MAX_RESULTS", "7")

		var c scrape.Config
		if err := c.Finalize(env); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if c.Token != "from-env" {
			t.Errorf("token = %q", c.Token)
		}
		if c.MaxResults != 7 {
			t.Errorf("max results = %d", c.MaxResults)
		}
	})

	t.Run("merge keeps base fields the overlay omits", func(t *testing.T) {
		c := scrape.Config{Token: "base", MaxResults: 3}
		c.Merge(&scrape.Config{MaxResults: 5})

		if c.Token != "base" || c.MaxResults != 5 {
			t.Errorf("got %+v", c)
		}
	})
}
