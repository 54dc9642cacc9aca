package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search [term]",
	Aliases: []string{"s"},
	Short:   "Search pages (pipeable)",
	Example: `  nt search "deep work" | nt page --heading=2`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(term string, _ []string) error {
			if term == "" {
				return nil
			}
			names, err := svc.Search(cmd.Context(), term)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
