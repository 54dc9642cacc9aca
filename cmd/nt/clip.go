package main

import (
	"github.com/spf13/cobra"
)

var clipFlags postModeFlags

var clipCmd = &cobra.Command{
	Use:   "clip [name]",
	Short: "Convert HTML from stdin to blocks and post them to a page (piped)",
	Example: `  curl -s https://example.com/article | nt clip Reading
  pbpaste | nt clip --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		input, err := readInput(cmd)
		if err != nil {
			return err
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		res, err := svc.Clip(cmd.Context(), name, input, clipFlags.options())
		if err != nil {
			return err
		}
		return report(cmd, svc, res)
	},
}

func init() {
	rootCmd.AddCommand(clipCmd)
	clipFlags.register(clipCmd)
}
