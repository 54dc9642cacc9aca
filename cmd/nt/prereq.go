package main

import (
	"github.com/spf13/cobra"
)

var prereqCmd = &cobra.Command{
	Use:   "prereq [name]",
	Short: "Recursively list page prerequisites (pipeable)",
	Example: `  nt prereq Coding | nt page
  nt prereq Coding | xargs -I {} nt props {} --vacant`,
	Args: cobra.MaximumNArgs(1),
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
			names, err := svc.Prerequisites(cmd.Context(), name)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(prereqCmd)
}
