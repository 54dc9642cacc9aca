package main

import (
	"github.com/spf13/cobra"
)

var (
	hasAll bool
	hasAny bool
)

var hasCmd = &cobra.Command{
	Use:     "has [prop] [vals...]",
	Aliases: []string{"h"},
	Short:   "List pages having a given prop with value(s) (pipeable)",
	Example: `  nt has status active
  nt has type Book Article --any`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(prop string, vals []string) error {
			if prop == "" {
				return nil
			}
			names, err := svc.Has(cmd.Context(), prop, vals, hasAny)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(hasCmd)
	hasCmd.Flags().BoolVar(&hasAll, "all", false, "Require all values to be present (default)")
	hasCmd.Flags().BoolVar(&hasAny, "any", false, "Require any value to be present")
	hasCmd.MarkFlagsMutuallyExclusive("all", "any")
}
