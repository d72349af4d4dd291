// Package pipeline defines the shared state model for a content run: the
// typed State record, the sparse Delta merged after every stage, the
// entity records produced along the way, and the stage contract the
// engine executes.
package pipeline

import "errors"

// Sentinel errors for state validation inside stages.
var (
	ErrNoTopic        = errors.New("no topic provided")
	ErrNoSource       = errors.New("no scraped content available")
	ErrIdeaCount      = errors.New("need exactly 2 ideas")
	ErrInvalidChoice  = errors.New("choice must be 1 or 2")
	ErrNoSelectedIdea = errors.New("no selected idea available")
	ErrNoPost         = errors.New("no generated post available")
	ErrNoImage        = errors.New("no generated image available")
	ErrNoProduct      = errors.New("no product information available")
)
