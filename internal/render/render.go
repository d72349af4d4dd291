// Package render talks to a task-based image-rendering backend. It
// implements the jobpoll backend contract: a generation job is
// submitted, polled to a terminal status, its result reference resolved
// to a direct download location, and the image bytes fetched.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"amplify/pkg/jobpoll"
)

// Request describes one image-generation job.
type Request struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

// Backend is the rendering collaborator. It satisfies
// jobpoll.Backend[Request].
type Backend struct {
	cfg  Config
	http *http.Client
}

// New creates a Backend.
func New(cfg Config) *Backend {
	return &Backend{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Submit starts a generation job and returns its task identifier.
func (b *Backend) Submit(ctx context.Context, req Request) (string, error) {
	if req.AspectRatio == "" {
		req.AspectRatio = b.cfg.AspectRatio
	}

	var data struct {
		TaskID string `json:"taskId"`
	}
	if err := b.call(ctx, http.MethodPost, b.cfg.BaseURL+"/generate", req, &data); err != nil {
		return "", err
	}

	if data.TaskID == "" {
		return "", fmt.Errorf("no task id in generate response")
	}
	return data.TaskID, nil
}

type recordInfo struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	Response     *struct {
		ResultURLs []string `json:"resultUrls"`
	} `json:"response"`
}

// Poll reports the job's current status. The backend's SUCCESS and
// FAILED states are terminal; anything else maps to pending.
func (b *Backend) Poll(ctx context.Context, jobID string) (jobpoll.Poll, error) {
	endpoint := fmt.Sprintf("%s/record-info?taskId=%s", b.cfg.BaseURL, url.QueryEscape(jobID))

	var info recordInfo
	if err := b.call(ctx, http.MethodGet, endpoint, nil, &info); err != nil {
		return jobpoll.Poll{}, err
	}

	switch info.Status {
	case "SUCCESS":
		if info.Response == nil || len(info.Response.ResultURLs) == 0 {
			return jobpoll.Poll{}, fmt.Errorf("no result urls for task %s", jobID)
		}
		return jobpoll.Poll{
			Status:    jobpoll.StatusSuccess,
			ResultRef: info.Response.ResultURLs[0],
		}, nil
	case "FAILED":
		msg := info.ErrorMessage
		if msg == "" {
			msg = "image generation failed"
		}
		return jobpoll.Poll{Status: jobpoll.StatusFailed, Message: msg}, nil
	}

	return jobpoll.Poll{Status: jobpoll.StatusPending}, nil
}

// Resolve converts the opaque result URL into a direct download
// location via the backend's download-url endpoint.
func (b *Backend) Resolve(ctx context.Context, jobID, resultRef string) (string, error) {
	payload := map[string]string{
		"taskId": jobID,
		"url":    resultRef,
	}

	var location string
	if err := b.call(ctx, http.MethodPost, b.cfg.DownloadURL, payload, &location); err != nil {
		return "", err
	}

	if location == "" {
		return "", fmt.Errorf("no download url for task %s", jobID)
	}
	return location, nil
}

// Fetch downloads the rendered image bytes.
func (b *Backend) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// call issues an authenticated request and decodes the envelope's data
// field into out.
func (b *Backend) call(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend error: %d - %s", resp.StatusCode, data)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if envelope.Code != http.StatusOK {
		return fmt.Errorf("backend error: %s", envelope.Msg)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}

	return nil
}
