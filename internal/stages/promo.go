package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"amplify/internal/prompts"
	"amplify/pipeline"
	"amplify/pkg/extraction"
)

// Product validates the product record that seeds a promotion run.
func Product(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Product == nil || s.Product.Name == "" {
			return pipeline.Fail(pipeline.ErrNoProduct.Error()), pipeline.OutcomeFail
		}

		return pipeline.Delta{
			PromotionStatus: pipeline.Ptr(pipeline.StatusInProgress),
			Status:          pipeline.Ptr(pipeline.RunPromotion),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("promoting product: " + s.Product.Name),
			},
		}, pipeline.OutcomeContinue
	}
}

// Uploads verifies the operator-supplied image files and records their
// sizes. Missing files fail the run before any generation spend.
func Uploads(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		verified := make([]pipeline.UploadedImage, 0, len(s.Uploads))
		for _, u := range s.Uploads {
			info, err := os.Stat(u.Path)
			if err != nil {
				return pipeline.Fail(fmt.Sprintf("uploaded image not readable: %s", u.Path)), pipeline.OutcomeFail
			}
			u.Name = filepath.Base(u.Path)
			u.Size = info.Size()
			verified = append(verified, u)
		}

		return pipeline.Delta{
			Uploads: verified,
			Messages: []pipeline.Message{
				pipeline.SystemMessage(fmt.Sprintf("verified %d uploaded images", len(verified))),
			},
		}, pipeline.OutcomeContinue
	}
}

// Promo drafts the promotional post from the product record.
func Promo(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Product == nil {
			return pipeline.Fail(pipeline.ErrNoProduct.Error()), pipeline.OutcomeFail
		}

		prompt, err := prompts.Compose(prompts.StagePromo, promoContext(*s.Product, s.Uploads))
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("compose promo prompt: %s", err)), pipeline.OutcomeFail
		}

		raw, err := rt.Generator.Generate(ctx, prompt)
		if err != nil {
			return pipeline.Fail(fmt.Sprintf("promotion writing failed: %s", err)), pipeline.OutcomeFail
		}

		post, structured := extraction.Post(raw)
		if !structured {
			rt.Logger.WarnContext(ctx, "promo post reconstructed heuristically", "product", s.Product.Name)
		}

		return pipeline.Delta{
			Post:          &post,
			WritingStatus: pipeline.Ptr(pipeline.StatusCompleted),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("drafted promotional post: " + post.Title),
			},
		}, pipeline.OutcomeContinue
	}
}

// Approve consumes the operator's go/no-go decision on the promotional
// post. With no decision present the run suspends; an explicit rejection
// ends the run without posting.
func Approve(rt *Runtime) pipeline.StageFunc {
	return func(ctx context.Context, s pipeline.State) (pipeline.Delta, pipeline.Outcome) {
		if s.Post == nil {
			return pipeline.Fail(pipeline.ErrNoPost.Error()), pipeline.OutcomeFail
		}

		if s.Approval == nil {
			return pipeline.Delta{
				Status: pipeline.Ptr(pipeline.RunAwaitingApproval),
				Messages: []pipeline.Message{
					pipeline.SystemMessage("promotional post ready, awaiting operator approval"),
				},
			}, pipeline.OutcomeSuspend
		}

		if !*s.Approval {
			msg := "operator rejected the promotional post"
			if s.ApprovalFeedback != "" {
				msg += ": " + s.ApprovalFeedback
			}
			return pipeline.Delta{
				Status: pipeline.Ptr(pipeline.RunPostingRejected),
				Messages: []pipeline.Message{
					pipeline.SystemMessage(msg),
				},
			}, pipeline.OutcomeContinue
		}

		return pipeline.Delta{
			Status: pipeline.Ptr(pipeline.RunReadyToPost),
			Messages: []pipeline.Message{
				pipeline.SystemMessage("operator approved the promotional post"),
			},
		}, pipeline.OutcomeContinue
	}
}
