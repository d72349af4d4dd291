package stages_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"amplify/internal/render"
	"amplify/internal/stages"
	"amplify/pipeline"
	"amplify/pkg/jobpoll"
)

const postJSON = `{"title": "Stub Post", "content": "Body text.", "hashtags": ["#stub"], "call_to_action": "Comment below.", "estimated_engagement": "High"}`

const ideasJSON = `{"ideas": [
	{"title": "Idea One", "description": "d1", "key_points": ["k1"], "target_audience": "devs", "inspiration_sources": ["s1"]},
	{"title": "Idea Two", "description": "d2", "key_points": ["k2"], "target_audience": "leads", "inspiration_sources": ["s2"]}
]}`

type stubGenerator struct {
	out     string
	err     error
	calls   int
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.out, g.err
}

type stubScraper struct {
	out []pipeline.ScrapedContent
	err error
}

func (s *stubScraper) Search(_ context.Context, _ string) ([]pipeline.ScrapedContent, error) {
	return s.out, s.err
}

type stubImages struct {
	result jobpoll.Result
	err    error
}

func (s *stubImages) Run(_ context.Context, _ render.Request) (jobpoll.Result, error) {
	return s.result, s.err
}

type stubPublisher struct {
	id  string
	err error
}

func (p *stubPublisher) Publish(_ context.Context, _ pipeline.GeneratedPost, _ string) (string, error) {
	return p.id, p.err
}

type stubRenderer struct {
	err    error
	paths  []string
	images [][]string
}

func (r *stubRenderer) Render(_ string, imagePaths []string, outPath string) error {
	r.paths = append(r.paths, outPath)
	r.images = append(r.images, imagePaths)
	return r.err
}

func newRuntime(t *testing.T) *stages.Runtime {
	t.Helper()
	return &stages.Runtime{
		Generator: &stubGenerator{out: postJSON},
		Scraper:   &stubScraper{out: []pipeline.ScrapedContent{{Title: "Video", Transcript: "insight"}}},
		Images:    &stubImages{result: jobpoll.Result{Kind: jobpoll.Success, Payload: []byte("png")}},
		Publisher: &stubPublisher{id: "urn:li:share:42"},
		Renderer:  &stubRenderer{},
		OutputDir: t.TempDir(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestInput(t *testing.T) {
	rt := newRuntime(t)
	ctx := context.Background()

	t.Run("empty topic fails", func(t *testing.T) {
		d, outcome := stages.Input(rt)(ctx, pipeline.State{Topic: "   "})
		if outcome != pipeline.OutcomeFail {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunFailed {
			t.Errorf("delta status = %v", d.Status)
		}
	})

	t.Run("topic accepted", func(t *testing.T) {
		_, outcome := stages.Input(rt)(ctx, pipeline.NewState("ai"))
		if outcome != pipeline.OutcomeContinue {
			t.Errorf("outcome = %q", outcome)
		}
	})
}

func TestScrape(t *testing.T) {
	ctx := context.Background()

	t.Run("success records sources", func(t *testing.T) {
		rt := newRuntime(t)
		s := pipeline.NewState("ai")

		d, outcome := stages.Scrape(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if len(d.Scraped) != 1 {
			t.Errorf("scraped = %d", len(d.Scraped))
		}
		if d.ScrapingStatus == nil || *d.ScrapingStatus != pipeline.StatusCompleted {
			t.Errorf("scraping status = %v", d.ScrapingStatus)
		}
	})

	t.Run("scraper error fails the run", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Scraper = &stubScraper{err: errors.New("quota exceeded")}

		d, outcome := stages.Scrape(rt)(ctx, pipeline.NewState("ai"))
		if outcome != pipeline.OutcomeFail {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.ScrapingStatus == nil || *d.ScrapingStatus != pipeline.StatusFailed {
			t.Errorf("scraping status = %v", d.ScrapingStatus)
		}
		if d.ErrorMessage == nil || !strings.Contains(*d.ErrorMessage, "quota exceeded") {
			t.Errorf("error message = %v", d.ErrorMessage)
		}
	})
}

func TestIdeas(t *testing.T) {
	ctx := context.Background()

	t.Run("requires scraped content", func(t *testing.T) {
		rt := newRuntime(t)
		_, outcome := stages.Ideas(rt)(ctx, pipeline.NewState("ai"))
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})

	t.Run("produces two ideas", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Generator = &stubGenerator{out: ideasJSON}
		s := pipeline.NewState("ai")
		s.Scraped = []pipeline.ScrapedContent{{Title: "Video"}}

		d, outcome := stages.Ideas(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if len(d.Ideas) != 2 {
			t.Errorf("ideas = %d", len(d.Ideas))
		}
	})

	t.Run("generator error fails", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Generator = &stubGenerator{err: errors.New("model unavailable")}
		s := pipeline.NewState("ai")
		s.Scraped = []pipeline.ScrapedContent{{Title: "Video"}}

		_, outcome := stages.Ideas(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})
}

func TestChoose(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	ideas := []pipeline.ContentIdea{{Title: "One"}, {Title: "Two"}}

	t.Run("wrong idea count fails", func(t *testing.T) {
		s := pipeline.NewState("ai")
		s.Ideas = []pipeline.ContentIdea{{Title: "only"}}

		d, outcome := stages.Choose(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.ErrorMessage == nil || !strings.Contains(*d.ErrorMessage, "found 1") {
			t.Errorf("error message = %v", d.ErrorMessage)
		}
	})

	t.Run("no choice suspends", func(t *testing.T) {
		s := pipeline.NewState("ai")
		s.Ideas = ideas

		d, outcome := stages.Choose(rt)(ctx, s)
		if outcome != pipeline.OutcomeSuspend {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunAwaitingChoice {
			t.Errorf("status = %v", d.Status)
		}
		if d.SelectedIdea != nil {
			t.Error("suspension must not select an idea")
		}
	})

	t.Run("out of range choice fails", func(t *testing.T) {
		s := pipeline.NewState("ai")
		s.Ideas = ideas
		s.UserChoice = pipeline.Ptr(3)

		_, outcome := stages.Choose(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})

	t.Run("valid choice selects by 1-based index", func(t *testing.T) {
		s := pipeline.NewState("ai")
		s.Ideas = ideas
		s.UserChoice = pipeline.Ptr(2)

		d, outcome := stages.Choose(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.SelectedIdea == nil || d.SelectedIdea.Title != "Two" {
			t.Errorf("selected = %+v", d.SelectedIdea)
		}
		if d.Status == nil || *d.Status != pipeline.RunIdeaSelected {
			t.Errorf("status = %v", d.Status)
		}
	})
}

func TestDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a selected idea", func(t *testing.T) {
		rt := newRuntime(t)
		_, outcome := stages.Draft(rt)(ctx, pipeline.NewState("ai"))
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})

	t.Run("repeat invocation over the same state is stable", func(t *testing.T) {
		rt := newRuntime(t)
		s := pipeline.NewState("ai")
		s.SelectedIdea = &pipeline.ContentIdea{Title: "Idea"}

		first, outcome1 := stages.Draft(rt)(ctx, s)
		second, outcome2 := stages.Draft(rt)(ctx, s)

		if outcome1 != pipeline.OutcomeContinue || outcome2 != pipeline.OutcomeContinue {
			t.Fatalf("outcomes = %q, %q", outcome1, outcome2)
		}
		if diff := cmp.Diff(first.Post, second.Post); diff != "" {
			t.Errorf("repeated draft diverged (-first +second):\n%s", diff)
		}
	})

	t.Run("long multibyte transcript yields a valid prompt", func(t *testing.T) {
		rt := newRuntime(t)
		gen := &stubGenerator{out: postJSON}
		rt.Generator = gen

		s := pipeline.NewState("ai")
		s.SelectedIdea = &pipeline.ContentIdea{Title: "Idea"}
		s.Scraped = []pipeline.ScrapedContent{{
			Title: "Video",
			// three-byte runes, long enough that the preview cap
			// falls inside one of them
			Transcript: strings.Repeat("世", 400),
		}}

		_, outcome := stages.Draft(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if len(gen.prompts) != 1 {
			t.Fatalf("generate calls = %d", len(gen.prompts))
		}
		if !utf8.ValidString(gen.prompts[0]) {
			t.Error("prompt contains a split rune")
		}
	})
}

func TestImage(t *testing.T) {
	ctx := context.Background()

	post := &pipeline.GeneratedPost{Title: "Post"}

	t.Run("requires a post", func(t *testing.T) {
		rt := newRuntime(t)
		_, outcome := stages.Image(rt)(ctx, pipeline.NewState("ai"))
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})

	t.Run("success writes the artifact", func(t *testing.T) {
		rt := newRuntime(t)
		s := pipeline.NewState("ai")
		s.Post = post

		d, outcome := stages.Image(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Image == nil {
			t.Fatal("no image in delta")
		}
		data, err := os.ReadFile(d.Image.Path)
		if err != nil {
			t.Fatalf("artifact not written: %v", err)
		}
		if string(data) != "png" {
			t.Errorf("artifact = %q", data)
		}
		if filepath.Dir(d.Image.Path) != rt.OutputDir {
			t.Errorf("artifact outside output dir: %s", d.Image.Path)
		}
	})

	t.Run("remote failure preserves backend message", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Images = &stubImages{result: jobpoll.Result{Kind: jobpoll.RemoteFailure, Message: "policy violation"}}
		s := pipeline.NewState("ai")
		s.Post = post

		d, outcome := stages.Image(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.ErrorMessage == nil || !strings.Contains(*d.ErrorMessage, "policy violation") {
			t.Errorf("error message = %v", d.ErrorMessage)
		}
	})

	t.Run("timeout reports still processing", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Images = &stubImages{result: jobpoll.Result{Kind: jobpoll.Timeout, Message: "no terminal status after 2m0s"}}
		s := pipeline.NewState("ai")
		s.Post = post

		d, outcome := stages.Image(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.ErrorMessage == nil || !strings.Contains(*d.ErrorMessage, "still processing") {
			t.Errorf("error message = %v", d.ErrorMessage)
		}
	})

	t.Run("transport error fails", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Images = &stubImages{err: errors.New("connection reset")}
		s := pipeline.NewState("ai")
		s.Post = post

		_, outcome := stages.Image(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})
}

func TestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("renders into the output dir", func(t *testing.T) {
		rt := newRuntime(t)
		renderer := &stubRenderer{}
		rt.Renderer = renderer

		s := pipeline.NewState("ai in 2026!")
		s.Post = &pipeline.GeneratedPost{Title: "Post", Content: "Body"}

		d, outcome := stages.Document(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.DocumentPath == nil {
			t.Fatal("no document path")
		}
		if filepath.Dir(*d.DocumentPath) != rt.OutputDir {
			t.Errorf("document outside output dir: %s", *d.DocumentPath)
		}
		name := filepath.Base(*d.DocumentPath)
		if strings.ContainsAny(name, "! ") {
			t.Errorf("unsafe characters in file name %q", name)
		}
		if len(renderer.paths) != 1 {
			t.Errorf("render calls = %d", len(renderer.paths))
		}
	})

	t.Run("passes generated image and uploads through", func(t *testing.T) {
		rt := newRuntime(t)
		renderer := &stubRenderer{}
		rt.Renderer = renderer

		s := pipeline.NewState("Widget")
		s.Post = &pipeline.GeneratedPost{Title: "Post", Content: "Body"}
		s.Image = &pipeline.GeneratedImage{Path: "/out/image_1.png"}
		s.Uploads = []pipeline.UploadedImage{
			{Path: "/assets/widget_front.png", Name: "widget_front.png"},
			{Path: "/assets/widget_side.png", Name: "widget_side.png"},
		}

		_, outcome := stages.Document(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		want := []string{
			"/out/image_1.png",
			"/assets/widget_front.png",
			"/assets/widget_side.png",
		}
		if diff := cmp.Diff(want, renderer.images[0]); diff != "" {
			t.Errorf("rendered images mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("renderer error fails", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Renderer = &stubRenderer{err: errors.New("disk full")}
		s := pipeline.NewState("ai")
		s.Post = &pipeline.GeneratedPost{Title: "Post"}

		_, outcome := stages.Document(rt)(ctx, s)
		if outcome != pipeline.OutcomeFail {
			t.Errorf("outcome = %q", outcome)
		}
	})
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	base := pipeline.NewState("ai")
	base.Post = &pipeline.GeneratedPost{Title: "Post"}

	t.Run("no action suspends", func(t *testing.T) {
		d, outcome := stages.Review(rt)(ctx, base)
		if outcome != pipeline.OutcomeSuspend {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunAwaitingReview {
			t.Errorf("status = %v", d.Status)
		}
	})

	t.Run("post action continues toward publishing", func(t *testing.T) {
		s := base
		s.Action = pipeline.ActionPost

		d, outcome := stages.Review(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunReadyToPost {
			t.Errorf("status = %v", d.Status)
		}
	})

	t.Run("regenerate action marks the run", func(t *testing.T) {
		s := base
		s.Action = pipeline.ActionRegenerate

		d, outcome := stages.Review(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunRegenerate {
			t.Errorf("status = %v", d.Status)
		}
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	base := pipeline.NewState("launch")
	base.Post = &pipeline.GeneratedPost{Title: "Promo"}

	t.Run("no decision suspends", func(t *testing.T) {
		d, outcome := stages.Approve(rt)(ctx, base)
		if outcome != pipeline.OutcomeSuspend {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunAwaitingApproval {
			t.Errorf("status = %v", d.Status)
		}
	})

	t.Run("explicit rejection ends without posting", func(t *testing.T) {
		s := base
		s.Approval = pipeline.Ptr(false)
		s.ApprovalFeedback = "tone is off"

		d, outcome := stages.Approve(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunPostingRejected {
			t.Errorf("status = %v", d.Status)
		}
	})

	t.Run("approval continues toward publishing", func(t *testing.T) {
		s := base
		s.Approval = pipeline.Ptr(true)

		d, outcome := stages.Approve(rt)(ctx, s)
		if outcome != pipeline.OutcomeContinue {
			t.Fatalf("outcome = %q", outcome)
		}
		if d.Status == nil || *d.Status != pipeline.RunReadyToPost {
			t.Errorf("status = %v", d.Status)
		}
	})
}

func TestRoutes(t *testing.T) {
	t.Run("after choice", func(t *testing.T) {
		s := pipeline.NewState("ai")
		if got := stages.RouteAfterChoice(s); got != pipeline.End {
			t.Errorf("route = %q, want End", got)
		}
		s.SelectedIdea = &pipeline.ContentIdea{Title: "Idea"}
		if got := stages.RouteAfterChoice(s); got != stages.StageDraft {
			t.Errorf("route = %q, want draft", got)
		}
	})

	t.Run("after review", func(t *testing.T) {
		s := pipeline.NewState("ai")
		s.Action = pipeline.ActionRegenerate
		if got := stages.RouteAfterReview(s); got != pipeline.End {
			t.Errorf("route = %q, want End", got)
		}
		s.Action = pipeline.ActionPost
		if got := stages.RouteAfterReview(s); got != stages.StagePublish {
			t.Errorf("route = %q, want publish", got)
		}
	})

	t.Run("after approval", func(t *testing.T) {
		s := pipeline.NewState("launch")
		if got := stages.RouteAfterApproval(s); got != pipeline.End {
			t.Errorf("route = %q, want End", got)
		}
		s.Approval = pipeline.Ptr(false)
		if got := stages.RouteAfterApproval(s); got != pipeline.End {
			t.Errorf("route = %q, want End on rejection", got)
		}
		s.Approval = pipeline.Ptr(true)
		if got := stages.RouteAfterApproval(s); got != stages.StagePublish {
			t.Errorf("route = %q, want publish", got)
		}
	})
}
