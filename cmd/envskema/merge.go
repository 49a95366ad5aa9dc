package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/envskema/source"
)

func (c *cli) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge FILE...",
		Short: "Deep-merge YAML/JSON files in order and print the result as JSON",
		Long: `Reads every FILE (.yaml, .yml or .json) and merges them left to right.
Nested mappings merge key by key; any other value in a later file replaces
the earlier one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src, err := source.Files(args...)
			if err != nil {
				return err
			}
			c.log.Debug().Strs("files", args).Int("keys", len(src.Tree())).Msg("merged")
			return c.writeJSON(src.Tree())
		},
	}
}
