package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"amplify/internal/prompts"
	"amplify/internal/render"
	"amplify/pipeline"
	"amplify/pkg/extraction"
	"amplify/pkg/jobpoll"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// Input validates the run's topic and opens the message log.
func Input(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if strings.TrimSpace(s.Topic) == "" {
			return pipeline.Fail(pipeline.ErrNoTopic.Error()), pipeline.OutcomeFail
		}

		return pipeline.Delta{
			Status: pipeline.Ptr(pipeline.RunInitialized),
			Messages: []pipeline.Message{
				{Role: "user", Content: "Create content about: " + s.Topic},
			},
		}, pipeline.OutcomeContinue
	}
}

// Scrape fetches source material for the topic through the scraping
// collaborator.
func Scrape(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if strings.TrimSpace(s.Topic) == "" {
			return pipeline.Fail(pipeline.ErrNoTopic.Error()), pipeline.OutcomeFail
		}

		scraped, err := rt.Scraper.Search(ctx, s.Topic)
		if err != nil {
			msg := fmt.Sprintf("scraping failed: %s", err)
			d := pipeline.Fail(msg)
			d.ScrapingStatus = pipeline.Ptr(pipeline.StatusFailed)
			d.ScrapingErrors = []string{msg}
			return d, pipeline.OutcomeFail
		}

		rt.Logger.InfoContext(
			ctx, "scrape stage complete",
			"topic", s.Topic,
			"sources", len(scraped),
		)

		return pipeline.Delta{
			Scraped:        scraped,
			ScrapingStatus: pipeline.Ptr(pipeline.StatusCompleted),
			Status:         pipeline.Ptr(pipeline.RunScraping),
			Messages: []pipeline.Message{
				pipeline.SystemMessage(fmt.Sprintf("scraped %d sources for topic: %s", len(scraped), s.Topic)),
			},
		}, pipeline.OutcomeContinue
	}
}

// Ideas derives exactly two content ideas from the scraped material.
// Extraction of the model response never fails; a heuristic fallback is
// logged for operator visibility.
func Ideas(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if len(s.Scraped) == 0 {
			return pipeline.Fail(pipeline.ErrNoSource.Error()), pipeline.OutcomeFail
		}

		prompt, err := prompts.Compose(prompts.StageIdeas, sourceSummary(s.Topic, s.Scraped))
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("compose ideas prompt: %s", err)), pipeline.OutcomeFail
		}

		raw, err := rt.Generator.Generate(ctx, prompt)
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("idea generation failed: %s", err)), pipeline.OutcomeFail
		}

		ideas, structured := extraction.Ideas(raw, s.Topic)
		if !structured {
			rt.Logger.WarnContext(ctx, "ideas reconstructed heuristically", "topic", s.Topic)
		}

		return pipeline.Delta{
			Ideas:  ideas,
			Status: pipeline.Ptr(pipeline.RunGenerating),
			Messages: []pipeline.Message{
				pipeline.SystemMessage(fmt.Sprintf("generated %d content ideas from %d sources", len(ideas), len(s.Scraped))),
			},
		}, pipeline.OutcomeContinue
	}
}

// Choose promotes one of the two generated ideas to the run's selected
// idea. With no choice present the run suspends awaiting the operator.
func Choose(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if len(s.Ideas) != 2 {
			msg := fmt.Sprintf("%s, found %d", pipeline.ErrIdeaCount, len(s.Ideas))
			return pipeline.Fail(msg), pipeline.OutcomeFail
		}

		if s.UserChoice == nil {
			return pipeline.Delta{
				Status: pipeline.Ptr(pipeline.RunAwaitingChoice),
				Messages: []pipeline.Message{
					pipeline.SystemMessage("content ideas ready, awaiting operator choice"),
				},
			}, pipeline.OutcomeSuspend
		}

		choice := *s.UserChoice
		if choice != 1 && choice != 2 {
			msg := fmt.Sprintf("%s, got %d", pipeline.ErrInvalidChoice, choice)
			return pipeline.Fail(msg), pipeline.OutcomeFail
		}

		selected := s.Ideas[choice-1]
		return pipeline.Delta{
			SelectedIdea: &selected,
			Status:       pipeline.Ptr(pipeline.RunIdeaSelected),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("selected idea: " + selected.Title),
			},
		}, pipeline.OutcomeContinue
	}
}

// Draft writes the post from the selected idea. Safe to re-invoke with
// the same inputs; regeneration produces a fresh record.
func Draft(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.SelectedIdea == nil {
			return pipeline.Fail(pipeline.ErrNoSelectedIdea.Error()), pipeline.OutcomeFail
		}

		prompt, err := prompts.Compose(prompts.StageDraft, draftContext(s.Topic, *s.SelectedIdea, s.Scraped))
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("compose draft prompt: %s", err)), pipeline.OutcomeFail
		}

		raw, err := rt.Generator.Generate(ctx, prompt)
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("content writing failed: %s", err)), pipeline.OutcomeFail
		}

		post, structured := extraction.Post(raw)
		if !structured {
			rt.Logger.WarnContext(ctx, "post reconstructed heuristically", "title", post.Title)
		}

		return pipeline.Delta{
			Post:          &post,
			WritingStatus: pipeline.Ptr(pipeline.StatusCompleted),
			Status:        pipeline.Ptr(pipeline.RunWritingCompleted),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("drafted post: " + post.Title),
			},
		}, pipeline.OutcomeContinue
	}
}

// Image renders an illustration for the drafted post through the
// bounded image job. The three polling outcomes surface differently: a
// backend rejection preserves the backend's message, a timeout reports
// the job as still processing.
func Image(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Post == nil {
			return pipeline.Fail(pipeline.ErrNoPost.Error()), pipeline.OutcomeFail
		}

		prompt := imagePrompt(s.Topic)
		result, err := rt.Images.Run(ctx, render.Request{Prompt: prompt})
		if err != nil {
			d := pipeline.Fail(fmt.Sprintf("image generation failed: %s", err))
			d.ImageStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		}

		switch result.Kind {
		case jobpoll.RemoteFailure:
			d := pipeline.Fail("image backend rejected the job: " + result.Message)
			d.ImageStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		case jobpoll.Timeout:
			d := pipeline.Fail("image still processing: " + result.Message)
			d.ImageStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		}

		path := filepath.Join(rt.OutputDir, fmt.Sprintf("image_%s.png", uuid.NewString()))
		if err := writeArtifact(path, result.Payload); err != nil {
			d := pipeline.Fail(fmt.Sprintf("save image: %s", err))
			d.ImageStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		}

		image := pipeline.GeneratedImage{
			Path:        path,
			Description: "Illustration for post: " + s.Post.Title,
			Prompt:      prompt,
		}

		return pipeline.Delta{
			Image:       &image,
			ImageStatus: pipeline.Ptr(pipeline.StatusCompleted),
			Status:      pipeline.Ptr(pipeline.RunImagingCompleted),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("generated image: " + path),
			},
		}, pipeline.OutcomeContinue
	}
}

// Document composes the post, the generated image, and any uploaded
// product images into the review PDF.
func Document(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Post == nil {
			return pipeline.Fail(pipeline.ErrNoPost.Error()), pipeline.OutcomeFail
		}

		var imagePaths []string
		if s.Image != nil {
			imagePaths = append(imagePaths, s.Image.Path)
		}
		for _, u := range s.Uploads {
			imagePaths = append(imagePaths, u.Path)
		}

		outPath := filepath.Join(rt.OutputDir, fmt.Sprintf("content_%s.pdf", safeName(s.Topic)))
		if err := rt.Renderer.Render(documentText(*s.Post), imagePaths, outPath); err != nil {
			d := pipeline.Fail(fmt.Sprintf("render document: %s", err))
			d.DocsStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		}

		return pipeline.Delta{
			DocumentPath: pipeline.Ptr(outPath),
			DocsStatus:   pipeline.Ptr(pipeline.StatusCompleted),
			Status:       pipeline.Ptr(pipeline.RunDocsCompleted),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("review document written: " + outPath),
			},
		}, pipeline.OutcomeContinue
	}
}

// Review consumes the operator's post-or-regenerate decision. With no
// action present the run suspends; a regenerate request ends the walk so
// the driver can re-enter at the draft stage with fresh state.
func Review(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Post == nil {
			return pipeline.Fail(pipeline.ErrNoPost.Error()), pipeline.OutcomeFail
		}

		switch s.Action {
		case pipeline.ActionPost:
			return pipeline.Delta{
				Status: pipeline.Ptr(pipeline.RunReadyToPost),
				Messages: []pipeline.Message{
					pipeline.SystemMessage("operator approved posting"),
				},
			}, pipeline.OutcomeContinue
		case pipeline.ActionRegenerate:
			return pipeline.Delta{
				Status: pipeline.Ptr(pipeline.RunRegenerate),
				Messages: []pipeline.Message{
					pipeline.SystemMessage("operator requested regeneration"),
				},
			}, pipeline.OutcomeContinue
		}

		return pipeline.Delta{
			Status: pipeline.Ptr(pipeline.RunAwaitingReview),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("draft ready, awaiting operator review"),
			},
		}, pipeline.OutcomeSuspend
	}
}

// Publish posts the finished content through the publishing
// collaborator.
func Publish(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Post == nil {
			return pipeline.Fail(pipeline.ErrNoPost.Error()), pipeline.OutcomeFail
		}

		imagePath := ""
		if s.Image != nil {
			imagePath = s.Image.Path
		}

		postID, err := rt.Publisher.Publish(ctx, *s.Post, imagePath)
		if err != nil {
			d := pipeline.Fail(fmt.Sprintf("posting failed: %s", err))
			d.PostingStatus = pipeline.Ptr(pipeline.StatusFailed)
			return d, pipeline.OutcomeFail
		}

		return pipeline.Delta{
			PostID:        pipeline.Ptr(postID),
			PostingStatus: pipeline.Ptr(pipeline.StatusCompleted),
			Status:        pipeline.Ptr(pipeline.RunPostingCompleted),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("published post: " + postID),
			},
		}, pipeline.OutcomeContinue
	}
}

// imagePrompt builds the rendering prompt from the topic, steering the
// style by topic keywords.
func imagePrompt(topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Professional business illustration, %s, modern design, clean composition, corporate style", topic)

	lower := strings.ToLower(topic)
	switch {
	case containsAny(lower, "technology", "ai", "digital", "software", "tech"):
		sb.WriteString(", technology elements, digital transformation, innovation")
	case containsAny(lower, "business", "strategy", "management", "leadership"):
		sb.WriteString(", business growth, strategy, professional environment")
	case containsAny(lower, "marketing", "social media", "branding"):
		sb.WriteString(", marketing, engagement, brand elements")
	case containsAny(lower, "finance", "investment", "money"):
		sb.WriteString(", financial growth, professional finance")
	default:
		sb.WriteString(", professional development, modern business")
	}

	sb.WriteString(", minimalist design, high resolution, clean background")
	return sb.String()
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func safeName(topic string) string {
	name := unsafeNameChars.ReplaceAllString(topic, "_")
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
