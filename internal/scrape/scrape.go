// Package scrape fetches source material for a topic from an actor-run
// scraping backend and enriches video results with transcripts.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"amplify/pipeline"
)

const transcriptWorkers = 4

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// Client fetches source material from the scraping backend.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New creates a Client. A nil logger defaults to slog.Default.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger,
	}
}

type datasetItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ViewCount   string `json:"viewCount"`
	LikeCount   string `json:"likeCount"`
	Duration    string `json:"duration"`
	UploadDate  string `json:"uploadDate"`
	ChannelName string `json:"channelName"`
}

// Search runs the scraping actor for a topic and returns the scraped
// sources. Transcripts are fetched concurrently with bounded workers; a
// missing transcript is logged and left empty rather than failing the
// search.
func (c *Client) Search(ctx context.Context, topic string) ([]pipeline.ScrapedContent, error) {
	items, err := c.runActor(ctx, topic)
	if err != nil {
		return nil, err
	}

	content := make([]pipeline.ScrapedContent, len(items))
	for i, item := range items {
		content[i] = pipeline.ScrapedContent{
			SourceType: "youtube",
			SourceURL:  item.URL,
			Title:      item.Title,
			Body:       item.Description,
			Metadata: map[string]string{
				"views":       item.ViewCount,
				"likes":       item.LikeCount,
				"duration":    item.Duration,
				"upload_date": item.UploadDate,
				"channel":     item.ChannelName,
			},
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transcriptWorkers)

	for i := range content {
		g.Go(func() error {
			videoID := extractVideoID(content[i].SourceURL)
			if videoID == "" {
				return nil
			}

			transcript, err := c.transcript(gctx, videoID)
			if err != nil {
				c.logger.WarnContext(
					gctx, "transcript unavailable",
					"video_id", videoID,
					"error", err,
				)
				return nil
			}

			content[i].Transcript = transcript
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch transcripts: %w", err)
	}

	return content, nil
}

func (c *Client) runActor(ctx context.Context, topic string) ([]datasetItem, error) {
	input := map[string]any{
		"searchQueries":      []string{topic},
		"maxResults":         c.cfg.MaxResults,
		"maxResultsShorts":   0,
		"includeDescription": true,
		"includeSubtitles":   true,
		"includeVideoUrls":   true,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.cfg.BaseURL, c.cfg.Actor, url.QueryEscape(c.cfg.Token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("actor run failed: %d - %s", resp.StatusCode, data)
	}

	var items []datasetItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}

	return items, nil
}

type transcriptResponse struct {
	Transcript []struct {
		Text string `json:"text"`
	} `json:"transcript"`
}

func (c *Client) transcript(ctx context.Context, videoID string) (string, error) {
	if c.cfg.TranscriptURL == "" {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s?video_id=%s", c.cfg.TranscriptURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript fetch failed: %d", resp.StatusCode)
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	parts := make([]string, 0, len(tr.Transcript))
	for _, entry := range tr.Transcript {
		parts = append(parts, entry.Text)
	}

	return strings.Join(parts, " "), nil
}

func extractVideoID(rawURL string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}
