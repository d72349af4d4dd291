package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"amplify/internal/engine"
	"amplify/internal/operator"
	"amplify/internal/stages"
	"amplify/pipeline"
)

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote",
		Short: "Generate and publish a product promotion post",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rt, logger, err := setup()
			if err != nil {
				return err
			}

			graph, err := stages.PromotionGraph(rt, logger)
			if err != nil {
				return err
			}

			provider := operator.NewConsole(os.Stdin, os.Stdout)
			return runPromotion(cmd.Context(), graph, provider)
		},
	}
}

// runPromotion drives the promotion graph: product details and image
// uploads are collected up front, then the walk suspends once for the
// operator's approval decision.
func runPromotion(ctx context.Context, graph *engine.Engine, provider operator.Provider) error {
	product, err := provider.CollectProduct()
	if err != nil {
		return err
	}
	uploads, err := provider.CollectUploads()
	if err != nil {
		return err
	}

	s := pipeline.NewState(product.Name)
	s.Product = &product
	s.Uploads = uploads

	s, outcome, err := graph.Run(ctx, s)
	for err == nil && outcome == pipeline.OutcomeSuspend && s.Status == pipeline.RunAwaitingApproval {
		approved, feedback, perr := provider.Approve(s)
		if perr != nil {
			return perr
		}
		s.Approval = &approved
		s.ApprovalFeedback = feedback
		s, outcome, err = graph.RunFrom(ctx, s, stages.StageApprove)
	}
	if err != nil {
		return err
	}
	return report(s, outcome)
}
