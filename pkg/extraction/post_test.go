package extraction_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"amplify/pipeline"
	"amplify/pkg/extraction"
)

func TestPost(t *testing.T) {
	t.Run("structured envelope", func(t *testing.T) {
		content := `Here you go:
{"title": "Remote Leadership", "content": "Managing distributed teams.", "hashtags": ["#remote", "#leadership"], "call_to_action": "Share your view.", "estimated_engagement": "High"}`

		got, structured := extraction.Post(content)
		if !structured {
			t.Fatal("expected structured decode")
		}

		want := pipeline.GeneratedPost{
			Title:               "Remote Leadership",
			Content:             "Managing distributed teams.",
			Hashtags:            []string{"#remote", "#leadership"},
			CallToAction:        "Share your view.",
			EstimatedEngagement: "High",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("post mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing engagement defaults", func(t *testing.T) {
		got, structured := extraction.Post(`{"title": "T", "content": "C"}`)
		if !structured {
			t.Fatal("expected structured decode")
		}
		if got.EstimatedEngagement != "Medium" {
			t.Errorf("engagement = %q", got.EstimatedEngagement)
		}
	})

	t.Run("reconstruction from plain text", func(t *testing.T) {
		got, structured := extraction.Post("My Title\nSome insight here.\n#ai #leadership")
		if structured {
			t.Fatal("expected heuristic reconstruction")
		}

		if got.Title != "My Title" {
			t.Errorf("title = %q", got.Title)
		}
		if got.Content != "Some insight here." {
			t.Errorf("content = %q", got.Content)
		}
		if diff := cmp.Diff([]string{"#ai", "#leadership"}, got.Hashtags); diff != "" {
			t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate hashtags collected once", func(t *testing.T) {
		got, _ := extraction.Post("Title line\nBody with #go and more #go\n#go again")

		if diff := cmp.Diff([]string{"#go"}, got.Hashtags); diff != "" {
			t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("hashtags synthesized from title", func(t *testing.T) {
		got, _ := extraction.Post("AI Strategy For 2026 Teams\nA body without any tags.")

		if diff := cmp.Diff([]string{"#ai", "#strategy", "#for"}, got.Hashtags); diff != "" {
			t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("title-only input falls back to placeholder body", func(t *testing.T) {
		got, _ := extraction.Post("Just a headline")

		if got.Title != "Just a headline" {
			t.Errorf("title = %q", got.Title)
		}
		if got.Content != extraction.PlaceholderContent {
			t.Errorf("content = %q, want placeholder", got.Content)
		}
	})
}
