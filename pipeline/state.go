package pipeline

// State is the run-scoped record carried between stages. The engine owns
// the only live copy; stages receive a snapshot and return a Delta.
type State struct {
	Topic    string    `json:"topic"`
	Messages []Message `json:"messages"`

	Scraped        []ScrapedContent `json:"scraped_content"`
	ScrapingStatus Status           `json:"scraping_status"`
	ScrapingErrors []string         `json:"scraping_errors,omitempty"`

	Ideas        []ContentIdea `json:"content_ideas"`
	UserChoice   *int          `json:"user_choice,omitempty"`
	SelectedIdea *ContentIdea  `json:"selected_idea,omitempty"`

	Post          *GeneratedPost `json:"post,omitempty"`
	WritingStatus Status         `json:"writing_status"`

	Image       *GeneratedImage `json:"image,omitempty"`
	ImageStatus Status          `json:"image_status"`

	DocumentPath string `json:"document_path,omitempty"`
	DocsStatus   Status `json:"docs_status"`

	Approval         *bool  `json:"approval,omitempty"`
	ApprovalFeedback string `json:"approval_feedback,omitempty"`
	Action           Action `json:"action,omitempty"`

	PostID        string `json:"post_id,omitempty"`
	PostingStatus Status `json:"posting_status"`

	Product         *ProductInfo    `json:"product,omitempty"`
	Uploads         []UploadedImage `json:"uploaded_images,omitempty"`
	PromotionStatus Status          `json:"promotion_status"`

	Status       RunStatus `json:"workflow_status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NewState builds the initial state for a run. All phase statuses start
// pending and the message log opens with the topic announcement.
func NewState(topic string) State {
	return State{
		Topic:           topic,
		ScrapingStatus:  StatusPending,
		WritingStatus:   StatusPending,
		ImageStatus:     StatusPending,
		DocsStatus:      StatusPending,
		PostingStatus:   StatusPending,
		PromotionStatus: StatusPending,
		Status:          RunInitialized,
		Messages: []Message{
			SystemMessage("pipeline initialized, topic: " + topic),
		},
	}
}

// Delta is the partial record a stage returns. Nil fields are absent and
// leave State untouched; non-nil fields overwrite wholesale, except
// Messages, which append to the run log.
type Delta struct {
	Topic    *string
	Messages []Message

	Scraped        []ScrapedContent
	ScrapingStatus *Status
	ScrapingErrors []string

	Ideas        []ContentIdea
	UserChoice   *int
	SelectedIdea *ContentIdea

	Post          *GeneratedPost
	WritingStatus *Status

	Image       *GeneratedImage
	ImageStatus *Status

	DocumentPath *string
	DocsStatus   *Status

	Approval         *bool
	ApprovalFeedback *string
	Action           *Action

	PostID        *string
	PostingStatus *Status

	Product         *ProductInfo
	Uploads         []UploadedImage
	PromotionStatus *Status

	Status       *RunStatus
	ErrorMessage *string
}

// Apply merges a Delta into the state and returns the result. The merge
// rule is overwrite-per-field for everything except Messages, which is
// append-only: prior entries are never removed or reordered.
func (s State) Apply(d Delta) State {
	if d.Topic != nil {
		s.Topic = *d.Topic
	}
	if len(d.Messages) > 0 {
		// Full slice expression so a shared backing array from an earlier
		// snapshot cannot be overwritten by this append.
		s.Messages = append(s.Messages[:len(s.Messages):len(s.Messages)], d.Messages...)
	}
	if d.Scraped != nil {
		s.Scraped = d.Scraped
	}
	if d.ScrapingStatus != nil {
		s.ScrapingStatus = *d.ScrapingStatus
	}
	if d.ScrapingErrors != nil {
		s.ScrapingErrors = d.ScrapingErrors
	}
	if d.Ideas != nil {
		s.Ideas = d.Ideas
	}
	if d.UserChoice != nil {
		s.UserChoice = d.UserChoice
	}
	if d.SelectedIdea != nil {
		s.SelectedIdea = d.SelectedIdea
	}
	if d.Post != nil {
		s.Post = d.Post
	}
	if d.WritingStatus != nil {
		s.WritingStatus = *d.WritingStatus
	}
	if d.Image != nil {
		s.Image = d.Image
	}
	if d.ImageStatus != nil {
		s.ImageStatus = *d.ImageStatus
	}
	if d.DocumentPath != nil {
		s.DocumentPath = *d.DocumentPath
	}
	if d.DocsStatus != nil {
		s.DocsStatus = *d.DocsStatus
	}
	if d.Approval != nil {
		s.Approval = d.Approval
	}
	if d.ApprovalFeedback != nil {
		s.ApprovalFeedback = *d.ApprovalFeedback
	}
	if d.Action != nil {
		s.Action = *d.Action
	}
	if d.PostID != nil {
		s.PostID = *d.PostID
	}
	if d.PostingStatus != nil {
		s.PostingStatus = *d.PostingStatus
	}
	if d.Product != nil {
		s.Product = d.Product
	}
	if d.Uploads != nil {
		s.Uploads = d.Uploads
	}
	if d.PromotionStatus != nil {
		s.PromotionStatus = *d.PromotionStatus
	}
	if d.Status != nil {
		s.Status = *d.Status
	}
	if d.ErrorMessage != nil {
		s.ErrorMessage = *d.ErrorMessage
	}
	return s
}

// Ptr returns a pointer to v; shorthand for building sparse deltas.
func Ptr[T any](v T) *T {
	return &v
}
