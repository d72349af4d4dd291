// Package publish posts finished content to the social platform.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"amplify/pipeline"
)

// Client publishes posts through the platform's UGC API.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

type ugcPost struct {
	Author     string    `json:"author"`
	Commentary string    `json:"commentary"`
	Visibility string    `json:"visibility"`
	Media      *ugcMedia `json:"media,omitempty"`
}

type ugcMedia struct {
	ID string `json:"id"`
}

type ugcResponse struct {
	ID string `json:"id"`
}

// Publish submits the post and returns the platform's post identifier.
// The post body, hashtags, and call-to-action are flattened into a
// single commentary the way the platform expects. When imagePath is
// non-empty the image is registered and uploaded first and its URN
// attached as the post's media.
func (c *Client) Publish(ctx context.Context, post pipeline.GeneratedPost, imagePath string) (string, error) {
	payload := ugcPost{
		Author:     c.cfg.Author,
		Commentary: commentary(post),
		Visibility: "PUBLIC",
	}

	if imagePath != "" {
		urn, err := c.uploadImage(ctx, imagePath)
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		payload.Media = &ugcMedia{ID: urn}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseURL+"/ugcPosts", bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("build publish request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("publish failed: %d - %s", resp.StatusCode, body)
	}

	var result ugcResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode publish response: %w", err)
	}

	if result.ID == "" {
		return "", fmt.Errorf("no post id in publish response")
	}
	return result.ID, nil
}

type initUploadRequest struct {
	InitializeUploadRequest struct {
		Owner string `json:"owner"`
	} `json:"initializeUploadRequest"`
}

type initUploadResponse struct {
	Value struct {
		UploadURL string `json:"uploadUrl"`
		Image     string `json:"image"`
	} `json:"value"`
}

// uploadImage performs the platform's two-step image attach: register
// the upload to obtain an upload location and image URN, then PUT the
// image bytes to that location.
func (c *Client) uploadImage(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	var init initUploadRequest
	init.InitializeUploadRequest.Owner = c.cfg.Author

	body, err := json.Marshal(init)
	if err != nil {
		return "", fmt.Errorf("encode upload registration: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.cfg.BaseURL+"/images?action=initializeUpload", bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build upload registration: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("register upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload registration failed: %d - %s", resp.StatusCode, msg)
	}

	var reg initUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		return "", fmt.Errorf("decode upload registration: %w", err)
	}
	if reg.Value.UploadURL == "" || reg.Value.Image == "" {
		return "", fmt.Errorf("incomplete upload registration response")
	}

	put, err := http.NewRequestWithContext(
		ctx, http.MethodPut, reg.Value.UploadURL, bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("build image upload: %w", err)
	}
	put.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	put.Header.Set("Content-Type", "application/octet-stream")

	putResp, err := c.http.Do(put)
	if err != nil {
		return "", fmt.Errorf("upload image bytes: %w", err)
	}
	defer putResp.Body.Close()

	if putResp.StatusCode != http.StatusOK && putResp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(putResp.Body)
		return "", fmt.Errorf("image upload failed: %d - %s", putResp.StatusCode, msg)
	}

	return reg.Value.Image, nil
}

func commentary(post pipeline.GeneratedPost) string {
	var sb strings.Builder
	sb.WriteString(post.Content)

	if post.CallToAction != "" {
		sb.WriteString("\n\n")
		sb.WriteString(post.CallToAction)
	}

	if len(post.Hashtags) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(post.Hashtags, " "))
	}

	return sb.String()
}
