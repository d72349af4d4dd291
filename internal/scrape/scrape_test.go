package scrape_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"amplify/internal/scrape"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearch(t *testing.T) {
	t.Run("actor results mapped with transcripts", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/streamers~youtube-scraper/run-sync-get-dataset-items", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s", r.Method)
			}
			if got := r.URL.Query().Get("token"); got != "apify-token" {
				t.Errorf("token = %q", got)
			}

			var input map[string]any
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				t.Errorf("decode input: %v", err)
			}
			if input["maxResults"] != float64(3) {
				t.Errorf("maxResults = %v", input["maxResults"])
			}

			fmt.Fprint(w, `[{
				"url": "https://youtube.com/watch?v=abc123",
				"title": "Remote Teams Deep Dive",
				"description": "A long talk.",
				"viewCount": "1000",
				"channelName": "WorkTalks"
			}]`)
		})
		mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("video_id"); got != "abc123" {
				t.Errorf("video_id = %q", got)
			}
			fmt.Fprint(w, `{"transcript": [{"text": "hello"}, {"text": "world"}]}`)
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		cfg := scrape.Config{
			BaseURL:       srv.URL,
			Token:         "apify-token",
			TranscriptURL: srv.URL + "/transcript",
		}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize config: %v", err)
		}

		got, err := scrape.New(cfg, testLogger()).Search(context.Background(), "remote teams")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("results = %d", len(got))
		}

		content := got[0]
		if content.SourceType != "youtube" || content.Title != "Remote Teams Deep Dive" {
			t.Errorf("content = %+v", content)
		}
		if content.Metadata["channel"] != "WorkTalks" || content.Metadata["views"] != "1000" {
			t.Errorf("metadata = %v", content.Metadata)
		}
		if content.Transcript != "hello world" {
			t.Errorf("transcript = %q", content.Transcript)
		}
	})

	t.Run("missing transcript leaves source usable", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/streamers~youtube-scraper/run-sync-get-dataset-items", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[{"url": "https://youtu.be/xyz", "title": "No Captions"}]`)
		})
		mux.HandleFunc("/transcript", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		cfg := scrape.Config{
			BaseURL:       srv.URL,
			Token:         "apify-token",
			TranscriptURL: srv.URL + "/transcript",
		}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize config: %v", err)
		}

		got, err := scrape.New(cfg, testLogger()).Search(context.Background(), "captions")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 || got[0].Transcript != "" {
			t.Errorf("got = %+v", got)
		}
	})

	t.Run("actor failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)

		cfg := scrape.Config{BaseURL: srv.URL, Token: "apify-token"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize config: %v", err)
		}

		_, err := scrape.New(cfg, testLogger()).Search(context.Background(), "anything")
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
