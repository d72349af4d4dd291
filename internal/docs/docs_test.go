package docs_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amplify/internal/docs"
)

func TestRender(t *testing.T) {
	t.Run("writes a pdf with nested directories", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "nested", "content_ai.pdf")

		err := docs.NewRenderer().Render("Title\n\nBody text for review.", nil, outPath)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "%PDF") {
			t.Errorf("output is not a PDF, starts with %q", data[:8])
		}
	})

	t.Run("embeds every image", func(t *testing.T) {
		dir := t.TempDir()
		png, err := base64.StdEncoding.DecodeString(
			"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg==",
		)
		if err != nil {
			t.Fatalf("decode png: %v", err)
		}

		var images []string
		for _, name := range []string{"a.png", "b.png"} {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, png, 0o600); err != nil {
				t.Fatalf("write image: %v", err)
			}
			images = append(images, path)
		}

		outPath := filepath.Join(dir, "doc.pdf")
		if err := docs.NewRenderer().Render("text", images, outPath); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if _, err := os.Stat(outPath); err != nil {
			t.Fatalf("stat output: %v", err)
		}
	})

	t.Run("missing image is an error", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "doc.pdf")

		err := docs.NewRenderer().Render("text", []string{"/nonexistent/image.png"}, outPath)
		if err == nil {
			t.Fatal("expected error for missing image")
		}
	})
}
