package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyricsync/internal/preflight"
)

func newHealthCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check directories, external tools, and the alignment service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "FAIL"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more health checks failed")
			}
			return nil
		},
	}
}
