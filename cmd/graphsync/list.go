package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List graphs ordered by most recent save",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		graphs, err := newEngine().List(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		for _, g := range graphs {
			savedAt := g.SavedAt
			if savedAt == "" {
				savedAt = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tseq=%d\n", g.Name, savedAt, g.SaveSequence)
		}
		return nil
	},
}
