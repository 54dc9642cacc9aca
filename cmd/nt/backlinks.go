package main

import (
	"github.com/spf13/cobra"
)

var backlinksLimit int

var backlinksCmd = &cobra.Command{
	Use:     "backlinks [name]",
	Aliases: []string{"b"},
	Short:   "List pages that link to a given page (pipeable)",
	Example: `  nt backlinks Atomic --limit 10`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(name string, _ []string) error {
			if name == "" {
				return nil
			}
			names, err := svc.Backlinks(cmd.Context(), name, backlinksLimit)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(backlinksCmd)
	backlinksCmd.Flags().IntVar(&backlinksLimit, "limit", 0, "Limit to N entries (0 = no limit)")
}
