package prompts

import (
	"fmt"
	"strings"
)

// Compose builds the full prompt for a stage by combining its
// instructions, its response-format spec, and the caller's serialized
// run context. Context may be empty.
func Compose(stage Stage, context string) (string, error) {
	instructions, err := Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if context != "" {
		sb.WriteString("\n\n")
		sb.WriteString(context)
	}

	return sb.String(), nil
}
