package stages

import (
	"log/slog"

	"amplify/internal/engine"
	"amplify/pipeline"
)

// Stage names, shared between graph wiring and the driver's resume
// targets.
const (
	StageInput    = "input"
	StageScrape   = "scrape"
	StageIdeas    = "ideas"
	StageChoose   = "choose"
	StageDraft    = "draft"
	StageImage    = "image"
	StageDocument = "document"
	StageReview   = "review"
	StagePublish  = "publish"

	StageProduct = "product"
	StageUploads = "uploads"
	StagePromo   = "promo"
	StageApprove = "approve"
)

// ContentGraph assembles the topic-to-post pipeline:
//
//	input -> scrape -> ideas -> choose -(route)-> draft -> image ->
//	document -> review -(route)-> publish
//
// choose and review suspend when the operator decision is absent; their
// routes end the walk when the decision does not lead to posting.
func ContentGraph(rt *Runtime, logger *slog.Logger) (*engine.Engine, error) {
	e := engine.New(logger)

	names := []string{
		StageInput, StageScrape, StageIdeas, StageChoose,
		StageDraft, StageImage, StageDocument, StageReview, StagePublish,
	}
	fns := []pipeline.StageFunc{
		Input(rt), Scrape(rt), Ideas(rt), Choose(rt),
		Draft(rt), Image(rt), Document(rt), Review(rt), Publish(rt),
	}
	for i, name := range names {
		if err := e.AddStage(name, fns[i]); err != nil {
			return nil, err
		}
	}

	edges := [][2]string{
		{StageInput, StageScrape},
		{StageScrape, StageIdeas},
		{StageIdeas, StageChoose},
		{StageDraft, StageImage},
		{StageImage, StageDocument},
		{StageDocument, StageReview},
		{StagePublish, pipeline.End},
	}
	for _, edge := range edges {
		if err := e.AddEdge(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}

	if err := e.AddRoute(StageChoose, RouteAfterChoice); err != nil {
		return nil, err
	}
	if err := e.AddRoute(StageReview, RouteAfterReview); err != nil {
		return nil, err
	}

	if err := e.SetEntry(StageInput); err != nil {
		return nil, err
	}
	return e, nil
}

// PromotionGraph assembles the product-to-post pipeline:
//
//	product -> uploads -> promo -> document -> approve -(route)-> publish
//
// approve suspends until the operator decides; a rejection ends the walk
// without posting.
func PromotionGraph(rt *Runtime, logger *slog.Logger) (*engine.Engine, error) {
	e := engine.New(logger)

	names := []string{
		StageProduct, StageUploads, StagePromo,
		StageDocument, StageApprove, StagePublish,
	}
	fns := []pipeline.StageFunc{
		Product(rt), Uploads(rt), Promo(rt),
		Document(rt), Approve(rt), Publish(rt),
	}
	for i, name := range names {
		if err := e.AddStage(name, fns[i]); err != nil {
			return nil, err
		}
	}

	edges := [][2]string{
		{StageProduct, StageUploads},
		{StageUploads, StagePromo},
		{StagePromo, StageDocument},
		{StageDocument, StageApprove},
		{StagePublish, pipeline.End},
	}
	for _, edge := range edges {
		if err := e.AddEdge(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}

	if err := e.AddRoute(StageApprove, RouteAfterApproval); err != nil {
		return nil, err
	}

	if err := e.SetEntry(StageProduct); err != nil {
		return nil, err
	}
	return e, nil
}
