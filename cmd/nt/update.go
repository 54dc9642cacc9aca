package main

import (
	"github.com/spf13/cobra"
)

var updateFlags postModeFlags

var updateCmd = &cobra.Command{
	Use:    "update [name]",
	Short:  "Insert a JSON block tree from stdin into a page (piped)",
	Hidden: true,
	Example: `  nt page Template --json | jq '.blocks' | nt update Lasagna`,
	Args:    cobra.MaximumNArgs(1),
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
		res, err := svc.Update(cmd.Context(), name, []byte(input), updateFlags.options())
		if err != nil {
			return err
		}
		return report(cmd, svc, res)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateFlags.register(updateCmd)
}
