// Package stages implements the pipeline stages: each is a pure function
// over a state snapshot that validates only the fields it needs, calls
// its collaborators, and returns a sparse delta with an outcome.
package stages

import (
	"context"
	"log/slog"

	"amplify/internal/render"
	"amplify/pipeline"
	"amplify/pkg/jobpoll"
)

// Generator produces raw model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scraper fetches source material for a topic.
type Scraper interface {
	Search(ctx context.Context, topic string) ([]pipeline.ScrapedContent, error)
}

// ImageRunner drives a bounded image-generation job to one of the three
// polling outcomes. Satisfied by jobpoll.Poller over the render backend.
type ImageRunner interface {
	Run(ctx context.Context, req render.Request) (jobpoll.Result, error)
}

// Publisher posts finished content to the platform.
type Publisher interface {
	Publish(ctx context.Context, post pipeline.GeneratedPost, imagePath string) (string, error)
}

// Renderer composes post text and images into a review document.
type Renderer interface {
	Render(text string, imagePaths []string, outPath string) error
}

// Runtime bundles the collaborators that stages require. It is
// constructed by the command layer from configuration.
type Runtime struct {
	Generator Generator
	Scraper   Scraper
	Images    ImageRunner
	Publisher Publisher
	Renderer  Renderer
	OutputDir string
	Logger    *slog.Logger
}
