package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var identCmd = &cobra.Command{
	Use:    "ident [id|name]",
	Short:  "Get page identity details (pipeable)",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eachArg(cmd, args, func(given string, _ []string) error {
			if given == "" {
				return nil
			}
			id, err := svc.Identify(cmd.Context(), given)
			if err != nil {
				return err
			}
			return enc.Encode(id)
		})
	},
}

func init() {
	rootCmd.AddCommand(identCmd)
}
