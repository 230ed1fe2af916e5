package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adujour/internal/preflight"
	"adujour/internal/services/git"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Run preflight checks and report readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			if client, err := git.New(cfg.GitBinary(), cfg.Paths.RepoDir); err == nil {
				results = append(results, preflight.CheckRepository(cmd.Context(), client, cfg.Deploy.Remote))
			}

			rows := make([][]string, 0, len(results))
			for _, res := range results {
				mark := "ok"
				if !res.Passed {
					mark = "FAIL"
				}
				rows = append(rows, []string{res.Name, mark, res.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "Status", "Detail"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if failed := preflight.Failures(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}
}
