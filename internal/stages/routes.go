package stages

import (
	"amplify/pipeline"
)

// RouteAfterChoice continues into drafting once an idea is selected;
// otherwise the walk ends so the driver can collect the choice and
// resume.
func RouteAfterChoice(s pipeline.State) string {
	if s.SelectedIdea != nil {
		return StageDraft
	}
	return pipeline.End
}

// RouteAfterReview continues into posting on an approved review. Any
// other action, including a regeneration request, ends the walk: the
// driver decides whether to re-enter at drafting.
func RouteAfterReview(s pipeline.State) string {
	if s.Action == pipeline.ActionPost {
		return StagePublish
	}
	return pipeline.End
}

// RouteAfterApproval continues into posting only on an explicit yes.
func RouteAfterApproval(s pipeline.State) string {
	if s.Approval != nil && *s.Approval {
		return StagePublish
	}
	return pipeline.End
}
