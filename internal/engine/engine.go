// Package engine executes a content run: an ordered set of named stages
// wired by static edges plus routed forks, walked sequentially over a
// single State. After every stage the returned Delta is merged and the
// Outcome inspected; anything other than continue halts the walk and
// returns the state as-is. Suspensions are resumed with RunFrom without
// re-running completed stages.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"amplify/pipeline"
)

// Graph construction and execution errors. These indicate a miswired
// graph, never a stage failure; stage failures travel through Outcome.
var (
	ErrDuplicateStage = errors.New("stage already registered")
	ErrUnknownStage   = errors.New("unknown stage")
	ErrNoEntry        = errors.New("entry stage not set")
)

// Engine holds the stage registry, the static edge list, and the routed
// forks for one pipeline graph. It is the sole mutator of State during a
// run; stages only ever see snapshots.
type Engine struct {
	stages map[string]pipeline.StageFunc
	edges  map[string]string
	routes map[string]pipeline.RouteFunc
	entry  string
	logger *slog.Logger
}

// New creates an empty engine. A nil logger defaults to slog.Default.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		stages: make(map[string]pipeline.StageFunc),
		edges:  make(map[string]string),
		routes: make(map[string]pipeline.RouteFunc),
		logger: logger,
	}
}

// AddStage registers a named stage.
func (e *Engine) AddStage(name string, fn pipeline.StageFunc) error {
	if name == "" || name == pipeline.End {
		return fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	if _, ok := e.stages[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, name)
	}
	e.stages[name] = fn
	return nil
}

// AddEdge wires a static transition from one stage to the next.
func (e *Engine) AddEdge(from, to string) error {
	if _, ok := e.stages[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, from)
	}
	if _, ok := e.stages[to]; !ok && to != pipeline.End {
		return fmt.Errorf("%w: %s", ErrUnknownStage, to)
	}
	e.edges[from] = to
	return nil
}

// AddRoute wires a conditional fork: after the named stage the next stage
// is chosen dynamically by inspecting state. Route targets are validated
// at execution time.
func (e *Engine) AddRoute(from string, route pipeline.RouteFunc) error {
	if _, ok := e.stages[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, from)
	}
	e.routes[from] = route
	return nil
}

// SetEntry names the stage a Run starts from.
func (e *Engine) SetEntry(name string) error {
	if _, ok := e.stages[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
	e.entry = name
	return nil
}

// Run executes the graph from the entry stage. It returns the final
// state together with the last stage's Outcome, so callers can tell a
// correctly suspended run from a failed one.
func (e *Engine) Run(ctx context.Context, s pipeline.State) (pipeline.State, pipeline.Outcome, error) {
	if e.entry == "" {
		return s, pipeline.OutcomeFail, ErrNoEntry
	}
	return e.RunFrom(ctx, s, e.entry)
}

// RunFrom executes the graph starting at the named stage. It is the
// resume path: after a suspension the caller populates the missing
// decision field on the state and re-enters at the stage that required
// it; stages before the entry point are not re-run.
func (e *Engine) RunFrom(ctx context.Context, s pipeline.State, stage string) (pipeline.State, pipeline.Outcome, error) {
	current := stage

	for current != pipeline.End {
		fn, ok := e.stages[current]
		if !ok {
			return s, pipeline.OutcomeFail, fmt.Errorf("%w: %s", ErrUnknownStage, current)
		}

		delta, outcome := fn(ctx, s)
		s = s.Apply(delta)

		e.logger.InfoContext(
			ctx, "stage complete",
			"stage", current,
			"outcome", outcome,
			"status", s.Status,
		)

		if outcome != pipeline.OutcomeContinue {
			return s, outcome, nil
		}

		next, err := e.next(current, s)
		if err != nil {
			return s, pipeline.OutcomeFail, err
		}
		current = next
	}

	return s, pipeline.OutcomeContinue, nil
}

// next resolves the transition out of a stage: a routed fork when one is
// wired, the static edge otherwise, End when neither exists.
func (e *Engine) next(from string, s pipeline.State) (string, error) {
	if route, ok := e.routes[from]; ok {
		target := route(s)
		if target == "" {
			target = pipeline.End
		}
		if _, ok := e.stages[target]; !ok && target != pipeline.End {
			return "", fmt.Errorf("%w: route from %s to %s", ErrUnknownStage, from, target)
		}
		return target, nil
	}

	if to, ok := e.edges[from]; ok {
		return to, nil
	}

	return pipeline.End, nil
}
