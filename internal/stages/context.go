package stages

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"amplify/pipeline"
)

const (
	transcriptPreviewLong  = 2000
	transcriptPreviewShort = 1000
	bodyPreview            = 500
)

// sourceSummary formats scraped content for idea generation: per-source
// title, metadata, and truncated transcript/body previews.
func sourceSummary(topic string, scraped []pipeline.ScrapedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TOPIC: %s\n\nSOURCE MATERIAL:\n", topic)

	for i, content := range scraped {
		fmt.Fprintf(&sb, "\n--- SOURCE %d ---\n", i+1)
		fmt.Fprintf(&sb, "Title: %s\n", content.Title)
		if channel := content.Metadata["channel"]; channel != "" {
			fmt.Fprintf(&sb, "Channel: %s\n", channel)
		}
		if views := content.Metadata["views"]; views != "" {
			fmt.Fprintf(&sb, "Views: %s\n", views)
		}

		if content.Transcript != "" {
			fmt.Fprintf(&sb, "Transcript preview: %s\n", truncate(content.Transcript, transcriptPreviewLong))
		}
		if content.Body != "" {
			fmt.Fprintf(&sb, "Description: %s\n", truncate(content.Body, bodyPreview))
		}
	}

	return sb.String()
}

// draftContext formats the selected idea plus up to three supporting
// sources for post drafting.
func draftContext(topic string, idea pipeline.ContentIdea, scraped []pipeline.ScrapedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TOPIC: %s\n\nSELECTED IDEA:\n", topic)
	fmt.Fprintf(&sb, "Title: %s\n", idea.Title)
	fmt.Fprintf(&sb, "Description: %s\n", idea.Description)
	fmt.Fprintf(&sb, "Key points: %s\n", strings.Join(idea.KeyPoints, ", "))
	fmt.Fprintf(&sb, "Target audience: %s\n", idea.TargetAudience)
	fmt.Fprintf(&sb, "Inspiration sources: %s\n", strings.Join(idea.InspirationSources, ", "))

	if len(scraped) > 0 {
		sb.WriteString("\nSUPPORTING SOURCE CONTENT:\n")
		for i, content := range scraped {
			if i == 3 {
				break
			}
			fmt.Fprintf(&sb, "\n--- SOURCE %d ---\n", i+1)
			fmt.Fprintf(&sb, "Title: %s\n", content.Title)
			if content.Transcript != "" {
				fmt.Fprintf(&sb, "Key insights: %s\n", truncate(content.Transcript, transcriptPreviewShort))
			}
		}
	}

	return sb.String()
}

// promoContext formats product details and uploaded image descriptions
// for promotional drafting.
func promoContext(product pipeline.ProductInfo, uploads []pipeline.UploadedImage) string {
	var sb strings.Builder
	sb.WriteString("PRODUCT:\n")
	fmt.Fprintf(&sb, "Name: %s\n", product.Name)
	fmt.Fprintf(&sb, "Description: %s\n", product.Description)
	fmt.Fprintf(&sb, "Features: %s\n", strings.Join(product.Features, ", "))
	fmt.Fprintf(&sb, "Benefits: %s\n", strings.Join(product.Benefits, ", "))
	fmt.Fprintf(&sb, "Target audience: %s\n", product.TargetAudience)
	fmt.Fprintf(&sb, "Call to action: %s\n", product.CallToAction)
	if product.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", product.Website)
	}

	if len(uploads) > 0 {
		sb.WriteString("\nPROMOTIONAL IMAGES:\n")
		for _, img := range uploads {
			if img.Description != "" {
				fmt.Fprintf(&sb, "- %s: %s\n", img.Name, img.Description)
			} else {
				fmt.Fprintf(&sb, "- %s\n", img.Name)
			}
		}
	}

	return sb.String()
}

// documentText flattens a post into the review document body.
func documentText(post pipeline.GeneratedPost) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\nHashtags: %s\n\nCall to Action: %s",
		post.Title,
		post.Content,
		strings.Join(post.Hashtags, " "),
		post.CallToAction,
	)
}

// truncate caps s at limit bytes plus an ellipsis, stepping back to a
// rune boundary so the cut never splits a multi-byte character.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
