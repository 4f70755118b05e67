package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/preflight"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools, backend credentials, and workspace space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			results, ok := preflight.Run(cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, passCell(result.Passed), result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"CHECK", "STATUS", "DETAIL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !ok {
				return fmt.Errorf("one or more preflight checks failed")
			}
			return nil
		},
	}
}

func passCell(passed bool) string {
	if passed {
		return statusCell("ok")
	}
	return statusCell("error")
}
