package main

import (
	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:     "name [id|name]",
	Aliases: []string{"n"},
	Short:   "Get the page name as cased from a page id or case-insensitive name (pipeable)",
	Example: `  nt n "writing voice"
  echo "writing voice" | nt n`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		var names []string
		err = eachArg(cmd, args, func(given string, _ []string) error {
			if given == "" {
				return nil
			}
			name, err := svc.Name(cmd.Context(), given)
			if err != nil {
				return err
			}
			names = append(names, name)
			return nil
		})
		if err != nil {
			return err
		}
		return emitLines(cmd, names)
	},
}

func init() {
	rootCmd.AddCommand(nameCmd)
}
