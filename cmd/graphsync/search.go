package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <label>...",
	Short: "Find graphs containing nodes matching the given labels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := newEngine().FindByNodeLabels(cmd.Context(), credentials(), args)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	},
}
