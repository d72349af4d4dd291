package stages_test

import (
	"context"
	"testing"

	"amplify/internal/stages"
	"amplify/pipeline"
	"amplify/pkg/jobpoll"
)

// ideasThenPost answers the first generation call with the ideas
// envelope and later calls with the post envelope, mirroring the two
// prompts a content run issues.
type ideasThenPost struct {
	calls int
}

func (g *ideasThenPost) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.calls == 1 {
		return ideasJSON, nil
	}
	return postJSON, nil
}

func TestContentGraph(t *testing.T) {
	ctx := context.Background()

	rt := newRuntime(t)
	rt.Generator = &ideasThenPost{}
	graph, err := stages.ContentGraph(rt, rt.Logger)
	if err != nil {
		t.Fatalf("ContentGraph: %v", err)
	}

	s, outcome, err := graph.Run(ctx, pipeline.NewState("ai leadership"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != pipeline.OutcomeSuspend || s.Status != pipeline.RunAwaitingChoice {
		t.Fatalf("first halt: outcome = %q, status = %q", outcome, s.Status)
	}
	if len(s.Ideas) != 2 {
		t.Fatalf("ideas = %d", len(s.Ideas))
	}

	s.UserChoice = pipeline.Ptr(1)
	s, outcome, err = graph.RunFrom(ctx, s, stages.StageChoose)
	if err != nil {
		t.Fatalf("RunFrom(choose): %v", err)
	}
	if outcome != pipeline.OutcomeSuspend || s.Status != pipeline.RunAwaitingReview {
		t.Fatalf("second halt: outcome = %q, status = %q", outcome, s.Status)
	}
	if s.Post == nil || s.Image == nil || s.DocumentPath == "" {
		t.Fatalf("draft artifacts missing: post=%v image=%v doc=%q", s.Post, s.Image, s.DocumentPath)
	}

	s.Action = pipeline.ActionPost
	s, outcome, err = graph.RunFrom(ctx, s, stages.StageReview)
	if err != nil {
		t.Fatalf("RunFrom(review): %v", err)
	}
	if outcome != pipeline.OutcomeContinue {
		t.Fatalf("final outcome = %q", outcome)
	}
	if s.Status != pipeline.RunPostingCompleted || s.PostID != "urn:li:share:42" {
		t.Errorf("status = %q, post id = %q", s.Status, s.PostID)
	}
}

func TestContentGraphHaltsOnImageFailure(t *testing.T) {
	ctx := context.Background()

	rt := newRuntime(t)
	rt.Generator = &ideasThenPost{}
	rt.Images = &stubImages{result: jobpoll.Result{Kind: jobpoll.RemoteFailure, Message: "rejected"}}
	publisher := &stubPublisher{id: "should-not-publish"}
	rt.Publisher = publisher

	graph, err := stages.ContentGraph(rt, rt.Logger)
	if err != nil {
		t.Fatalf("ContentGraph: %v", err)
	}

	s, _, err := graph.Run(ctx, pipeline.NewState("ai"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s.UserChoice = pipeline.Ptr(1)
	s, outcome, err := graph.RunFrom(ctx, s, stages.StageChoose)
	if err != nil {
		t.Fatalf("RunFrom: %v", err)
	}

	if outcome != pipeline.OutcomeFail || s.Status != pipeline.RunFailed {
		t.Fatalf("outcome = %q, status = %q", outcome, s.Status)
	}
	if s.PostID != "" {
		t.Error("publish ran after a failed stage")
	}
	if s.DocumentPath != "" {
		t.Error("document stage ran after a failed stage")
	}
}

func TestPromotionGraph(t *testing.T) {
	ctx := context.Background()

	rt := newRuntime(t)
	graph, err := stages.PromotionGraph(rt, rt.Logger)
	if err != nil {
		t.Fatalf("PromotionGraph: %v", err)
	}

	s := pipeline.NewState("Acme Launch")
	s.Product = &pipeline.ProductInfo{Name: "Acme", Description: "Widgets"}

	s, outcome, err := graph.Run(ctx, s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != pipeline.OutcomeSuspend || s.Status != pipeline.RunAwaitingApproval {
		t.Fatalf("halt: outcome = %q, status = %q", outcome, s.Status)
	}
	if s.Post == nil {
		t.Fatal("no promotional post drafted")
	}

	t.Run("rejection ends without posting", func(t *testing.T) {
		rejected := s
		rejected.Approval = pipeline.Ptr(false)

		got, outcome, err := graph.RunFrom(ctx, rejected, stages.StageApprove)
		if err != nil {
			t.Fatalf("RunFrom: %v", err)
		}
		if outcome != pipeline.OutcomeContinue || got.Status != pipeline.RunPostingRejected {
			t.Errorf("outcome = %q, status = %q", outcome, got.Status)
		}
		if got.PostID != "" {
			t.Error("rejected run must not publish")
		}
	})

	t.Run("approval publishes", func(t *testing.T) {
		approved := s
		approved.Approval = pipeline.Ptr(true)

		got, outcome, err := graph.RunFrom(ctx, approved, stages.StageApprove)
		if err != nil {
			t.Fatalf("RunFrom: %v", err)
		}
		if outcome != pipeline.OutcomeContinue || got.Status != pipeline.RunPostingCompleted {
			t.Errorf("outcome = %q, status = %q", outcome, got.Status)
		}
		if got.PostID != "urn:li:share:42" {
			t.Errorf("post id = %q", got.PostID)
		}
	})
}
