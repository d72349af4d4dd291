package pipeline

import "context"

// Outcome is returned by every stage alongside its Delta and tells the
// engine how to proceed.
type Outcome string

// Stage outcomes. OutcomeSuspend means the run is correctly paused for an
// operator decision and can be resumed from the suspending stage once the
// missing field is populated; OutcomeFail is unrecoverable for the run.
const (
	OutcomeContinue Outcome = "continue"
	OutcomeSuspend  Outcome = "suspend_for_input"
	OutcomeFail     Outcome = "fail"
)

// End is the routing target that terminates the run.
const End = "__end__"

// StageFunc is the uniform stage contract: a pure function over a state
// snapshot producing a sparse Delta and an Outcome. Stages validate only
// the fields they need, perform collaborator calls only inside the body,
// and must be safe to invoke more than once with the same inputs.
type StageFunc func(ctx context.Context, s State) (Delta, Outcome)

// RouteFunc picks the next stage by inspecting state. It returns a stage
// name or End.
type RouteFunc func(s State) string

// Fail builds the conventional failure delta: the run status flips to
// failed and the message is recorded both as the error and in the log.
func Fail(msg string) Delta {
	return Delta{
		Status:       Ptr(RunFailed),
		ErrorMessage: Ptr(msg),
		Messages:     []Message{SystemMessage(msg)},
	}
}
