// Package jobpoll manages a submit → poll → resolve → fetch workflow
// against a slow asynchronous backend. The wait is a coarse synchronous
// loop: a fixed interval between polls and a hard wall-clock budget,
// with no backoff and no cancellation other than the budget or the
// caller's context.
package jobpoll

import (
	"context"
	"fmt"
	"time"
)

// Default polling parameters.
const (
	DefaultInterval = 5 * time.Second
	DefaultBudget   = 120 * time.Second
)

// Status is a backend's report for a submitted job.
type Status string

// Job status values.
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Poll is one status observation. ResultRef is an opaque reference set on
// success; it may require a resolution call before the payload can be
// fetched. Message carries the backend's failure message on failure.
type Poll struct {
	Status    Status
	ResultRef string
	Message   string
}

// Backend is the narrow contract a remote job service must satisfy.
// Resolve converts an opaque result reference into a directly fetchable
// location; backends whose references are already fetchable return the
// reference unchanged.
type Backend[Req any] interface {
	Submit(ctx context.Context, req Req) (string, error)
	Poll(ctx context.Context, jobID string) (Poll, error)
	Resolve(ctx context.Context, jobID, resultRef string) (string, error)
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Kind classifies the terminal result of a polling run. The three kinds
// are observably distinct: callers message a timeout ("still processing")
// differently from a backend rejection.
type Kind string

// Result kinds.
const (
	Success       Kind = "success"
	RemoteFailure Kind = "remote_failure"
	Timeout       Kind = "timeout"
)

// Result is the terminal outcome of a polling run. Payload is set for
// Success; Message preserves the backend's failure text verbatim for
// RemoteFailure and describes the exhausted budget for Timeout.
type Result struct {
	Kind    Kind
	Payload []byte
	Message string
}

// Config carries the polling parameters. Zero values take the defaults.
type Config struct {
	Interval time.Duration
	Budget   time.Duration
}

// Poller drives the bounded polling workflow for one backend.
type Poller[Req any] struct {
	backend  Backend[Req]
	interval time.Duration
	budget   time.Duration
}

// New builds a Poller over the given backend.
func New[Req any](backend Backend[Req], cfg Config) *Poller[Req] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	return &Poller[Req]{
		backend:  backend,
		interval: cfg.Interval,
		budget:   cfg.Budget,
	}
}

// Run submits the request and polls until the backend reports a terminal
// status or the budget is exhausted. Elapsed time is accounted by poll
// count (at most ceil(budget/interval) polls are made) so the timeout
// outcome is exact. Errors are transport failures (submit, poll, resolve,
// fetch, or context cancellation), distinct from the three result kinds.
func (p *Poller[Req]) Run(ctx context.Context, req Req) (Result, error) {
	jobID, err := p.backend.Submit(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("submit job: %w", err)
	}

	attempts := p.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		poll, err := p.backend.Poll(ctx, jobID)
		if err != nil {
			return Result{}, fmt.Errorf("poll job %s: %w", jobID, err)
		}

		switch poll.Status {
		case StatusSuccess:
			return p.collect(ctx, jobID, poll.ResultRef)
		case StatusFailed:
			return Result{Kind: RemoteFailure, Message: poll.Message}, nil
		}

		if attempt < attempts {
			if err := sleep(ctx, p.interval); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{
		Kind:    Timeout,
		Message: fmt.Sprintf("no terminal status after %s", p.budget),
	}, nil
}

// collect performs the two-step resolve-then-fetch on a successful job.
func (p *Poller[Req]) collect(ctx context.Context, jobID, resultRef string) (Result, error) {
	location, err := p.backend.Resolve(ctx, jobID, resultRef)
	if err != nil {
		return Result{}, fmt.Errorf("resolve result for job %s: %w", jobID, err)
	}

	payload, err := p.backend.Fetch(ctx, location)
	if err != nil {
		return Result{}, fmt.Errorf("fetch result for job %s: %w", jobID, err)
	}

	return Result{Kind: Success, Payload: payload}, nil
}

func (p *Poller[Req]) maxAttempts() int {
	n := int((p.budget + p.interval - 1) / p.interval)
	return max(n, 1)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
