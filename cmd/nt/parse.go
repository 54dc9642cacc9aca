package main

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/outline"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert outline text on stdin to a JSON block tree",
	Long: `Parse reads indented outline text from stdin and prints the block tree.
A leading YAML front matter block becomes page properties.`,
	Example: `  nt page Atomic --heading=0 | nt parse`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		page, err := outline.ParseDocument(strings.NewReader(input), outline.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		if format == "yaml" {
			return emit(cmd, page, nil)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
