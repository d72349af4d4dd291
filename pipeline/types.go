package pipeline

// Status tracks the lifecycle of a single pipeline phase.
type Status string

// Phase status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// RunStatus tracks the umbrella state of a pipeline run. Beyond the phase
// lifecycle it carries suspension values (the run is paused for an operator
// decision and resumable) and terminal values.
type RunStatus string

// Run status values.
const (
	RunInitialized      RunStatus = "initialized"
	RunScraping         RunStatus = "scraping"
	RunGenerating       RunStatus = "generating"
	RunAwaitingChoice   RunStatus = "awaiting_choice"
	RunIdeaSelected     RunStatus = "idea_selected"
	RunWritingCompleted RunStatus = "writing_completed"
	RunImagingCompleted RunStatus = "imaging_completed"
	RunDocsCompleted    RunStatus = "docs_completed"
	RunAwaitingReview   RunStatus = "awaiting_review"
	RunAwaitingApproval RunStatus = "awaiting_approval"
	RunReadyToPost      RunStatus = "ready_to_post"
	RunRegenerate       RunStatus = "regenerate_requested"
	RunPostingCompleted RunStatus = "posting_completed"
	RunPostingRejected  RunStatus = "posting_rejected"
	RunPromotion        RunStatus = "promotion"
	RunCompleted        RunStatus = "completed"
	RunFailed           RunStatus = "failed"
)

// Suspended reports whether the status marks a legitimate pause for
// operator input, as opposed to a failure or a completed run.
func (s RunStatus) Suspended() bool {
	switch s {
	case RunAwaitingChoice, RunAwaitingReview, RunAwaitingApproval:
		return true
	}
	return false
}

// Action is the operator's decision after reviewing a drafted post.
type Action string

// Review actions.
const (
	ActionPost       Action = "post"
	ActionRegenerate Action = "regenerate"
)

// Message is one entry in the append-only run log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role log entry.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// ScrapedContent is one piece of source material fetched by the scraping
// collaborator. Immutable once created.
type ScrapedContent struct {
	SourceType string            `json:"source_type"`
	SourceURL  string            `json:"source_url"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Transcript string            `json:"transcript,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ContentIdea is one of the two candidate ideas derived from scraped
// content. Exactly one is promoted to the run's selected idea.
type ContentIdea struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	KeyPoints          []string `json:"key_points"`
	TargetAudience     string   `json:"target_audience"`
	InspirationSources []string `json:"inspiration_sources"`
}

// GeneratedPost is the drafted social post. Regeneration produces a fresh
// instance rather than mutating an existing one.
type GeneratedPost struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	Hashtags            []string `json:"hashtags"`
	CallToAction        string   `json:"call_to_action"`
	EstimatedEngagement string   `json:"estimated_engagement"`
}

// GeneratedImage is the rendered artifact from a successful image job.
type GeneratedImage struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// ProductInfo carries the operator-supplied product details for the
// promotion flow.
type ProductInfo struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Features       []string `json:"features"`
	Benefits       []string `json:"benefits"`
	TargetAudience string   `json:"target_audience"`
	CallToAction   string   `json:"call_to_action"`
	Website        string   `json:"website,omitempty"`
	Contact        string   `json:"contact,omitempty"`
}

// UploadedImage references an operator-supplied promotional image.
type UploadedImage struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Description string `json:"description,omitempty"`
}
