// Package prompts holds the per-stage instruction and response-format
// texts for the generation stages, and composes them with serialized run
// context into a single prompt.
package prompts

import (
	"errors"
	"slices"
)

// ErrInvalidStage is returned when a value is not a known prompt stage.
var ErrInvalidStage = errors.New("invalid prompt stage")

// Stage identifies a generation stage with its own prompt material.
type Stage string

// Valid prompt stages.
const (
	StageIdeas Stage = "ideas"
	StageDraft Stage = "draft"
	StagePromo Stage = "promo"
)

var stages = []Stage{
	StageIdeas,
	StageDraft,
	StagePromo,
}

// Stages returns the list of valid prompt stages.
func Stages() []Stage {
	return stages
}

// ParseStage validates a string as a known prompt stage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
