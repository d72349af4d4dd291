// Package extraction turns free-form generative-model text into typed
// records. Model output is supposed to carry a JSON envelope but often
// arrives as loosely formatted prose; every entry point here resolves
// that through a layered fallback chain and never returns an
// unrecoverable parse error.
package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoEnvelope is returned by Parse when no balanced brace block exists
// in the content.
var ErrNoEnvelope = errors.New("no structured envelope found")

// ErrParseFailed is returned by Parse when an envelope was found but
// could not be decoded, even after escape repair.
var ErrParseFailed = errors.New("failed to parse envelope")

// Parse attempts to decode the outermost balanced brace block of content
// into T. The block is sanitized of control characters first; if strict
// decoding fails, raw line breaks and tabs are re-escaped and decoding is
// retried once. Callers fall back to heuristic reconstruction on error.
func Parse[T any](content string) (T, error) {
	var result T

	block, ok := envelope(content)
	if !ok {
		return result, ErrNoEnvelope
	}

	cleaned := sanitize(block)
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return result, nil
	}

	repaired := escapeBreaks(cleaned)
	if err := json.Unmarshal([]byte(repaired), &result); err == nil {
		return result, nil
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, snippet(content))
}

// envelope locates the outermost balanced brace block in content.
func envelope(content string) (string, bool) {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}

	return "", false
}

// sanitize strips control characters that commonly leak into model
// output, keeping line breaks and tabs for the escape-repair pass.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// escapeBreaks re-escapes raw line breaks and tabs so that multi-line
// string values survive JSON decoding.
func escapeBreaks(s string) string {
	return strings.NewReplacer(
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	).Replace(s)
}

func snippet(s string) string {
	return clip(strings.TrimSpace(s), 120)
}

// clip shortens s to at most limit bytes plus an ellipsis, backing off
// to the previous rune boundary so multi-byte characters stay intact.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
