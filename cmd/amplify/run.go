package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"amplify/internal/engine"
	"amplify/internal/operator"
	"amplify/internal/stages"
	"amplify/pipeline"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <topic>",
		Short: "Generate and publish a post about a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rt, logger, err := setup()
			if err != nil {
				return err
			}

			graph, err := stages.ContentGraph(rt, logger)
			if err != nil {
				return err
			}

			topic := strings.Join(args, " ")
			provider := operator.NewConsole(os.Stdin, os.Stdout)
			return runContent(cmd.Context(), graph, provider, topic, logger)
		},
	}
}

// runContent drives the content graph through its suspensions. The
// engine halts whenever an operator decision is missing; the decision is
// collected here and the walk resumes at the stage that required it.
// A regeneration request re-enters at drafting with the previous post,
// image, and action cleared.
func runContent(ctx context.Context, graph *engine.Engine, provider operator.Provider, topic string, logger *slog.Logger) error {
	s := pipeline.NewState(topic)

	s, outcome, err := graph.Run(ctx, s)
	for err == nil {
		switch {
		case outcome == pipeline.OutcomeSuspend && s.Status == pipeline.RunAwaitingChoice:
			choice, perr := provider.ChooseIdea(s.Ideas)
			if perr != nil {
				return perr
			}
			s.UserChoice = &choice
			s, outcome, err = graph.RunFrom(ctx, s, stages.StageChoose)

		case outcome == pipeline.OutcomeSuspend && s.Status == pipeline.RunAwaitingReview:
			action, perr := provider.Review(s)
			if perr != nil {
				return perr
			}
			s.Action = action
			s, outcome, err = graph.RunFrom(ctx, s, stages.StageReview)

		case outcome == pipeline.OutcomeContinue && s.Status == pipeline.RunRegenerate:
			logger.Info("regenerating draft", "topic", s.Topic)
			s.Post = nil
			s.Image = nil
			s.Action = ""
			s.WritingStatus = pipeline.StatusPending
			s.ImageStatus = pipeline.StatusPending
			s, outcome, err = graph.RunFrom(ctx, s, stages.StageDraft)

		default:
			return report(s, outcome)
		}
	}
	return err
}

// report prints the terminal summary and maps a failed run to a non-zero
// exit.
func report(s pipeline.State, outcome pipeline.Outcome) error {
	if outcome == pipeline.OutcomeFail {
		return fmt.Errorf("run failed: %s", s.ErrorMessage)
	}

	switch s.Status {
	case pipeline.RunPostingCompleted:
		fmt.Printf("Published: %s\n", s.PostID)
	case pipeline.RunPostingRejected:
		fmt.Println("Post rejected; nothing published.")
	default:
		fmt.Println("Run ended without posting.")
	}
	if s.DocumentPath != "" {
		fmt.Printf("Document: %s\n", s.DocumentPath)
	}
	if s.Image != nil {
		fmt.Printf("Image: %s\n", s.Image.Path)
	}
	return nil
}
