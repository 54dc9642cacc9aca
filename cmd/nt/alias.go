package main

import (
	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:     "alias [alias]",
	Short:   "Get the page names declaring an alias (pipeable)",
	Example: `  nt alias NYC`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(alias string, _ []string) error {
			if alias == "" {
				return nil
			}
			names, err := svc.Alias(cmd.Context(), alias)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(aliasCmd)
}
