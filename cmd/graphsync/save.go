package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/graph"
)

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save a graph snapshot from a JSON document",
	Long: `Reads a graph document ({"name": ..., "nodes": [...], "edges": [...],
"metadata": {...}}) from the given file, or stdin when no file is given,
and reconciles it with the store in one atomic batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reader io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			reader = f
		}

		var g graph.Graph
		if err := json.NewDecoder(reader).Decode(&g); err != nil {
			return fmt.Errorf("failed to parse graph document: %w", err)
		}

		if err := newEngine().Save(cmd.Context(), credentials(), g); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved graph %q (%d nodes, %d edges)\n",
			g.ResolveName(), len(g.Nodes), len(g.Edges))
		return nil
	},
}
