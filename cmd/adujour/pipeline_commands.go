package main

import (
	"github.com/spf13/cobra"

	"adujour/internal/pipeline"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Fetch records, classify them, and render the site artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(ctx)
			if err != nil {
				return err
			}
			summary, err := ctrl.Build(cmd.Context())
			renderSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}
}

func newDeployCommand(ctx *commandContext) *cobra.Command {
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Publish an existing artifact to the deploy branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategyFlag != "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg.Deploy.Strategy = strategyFlag
			}
			ctrl, err := newController(ctx)
			if err != nil {
				return err
			}
			summary, err := ctrl.Deploy(cmd.Context())
			renderSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Isolation strategy: subtree, orphan, prune, or wipe")
	return cmd
}

func newMasterCommand(ctx *commandContext) *cobra.Command {
	var buildOnly bool

	cmd := &cobra.Command{
		Use:   "master",
		Short: "Build the site and deploy it in one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(ctx)
			if err != nil {
				return err
			}
			summary, err := ctrl.Run(cmd.Context(), buildOnly)
			renderSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	cmd.Flags().BoolVar(&buildOnly, "build-only", false, "Stop after the artifact is written")
	return cmd
}

func newController(ctx *commandContext) (*pipeline.Controller, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, ctx.ensureLogger())
}
