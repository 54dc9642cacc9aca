package main

import (
	"github.com/spf13/cobra"
)

var (
	tagsAll bool
	tagsAny bool
)

var tagsCmd = &cobra.Command{
	Use:     "tags [tags...]",
	Aliases: []string{"t"},
	Short:   "List pages with all the given tags (pipeable)",
	Example: `  nt tags Writing
  nt tags Writing Editing --any
  nt name writing | nt tags`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(first string, rest []string) error {
			if first == "" {
				return nil
			}
			names, err := svc.Tags(cmd.Context(), append([]string{first}, rest...), tagsAny)
			if err != nil {
				return err
			}
			return emitLines(cmd, names)
		})
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().BoolVar(&tagsAll, "all", false, "Require all tags to be present (default)")
	tagsCmd.Flags().BoolVar(&tagsAny, "any", false, "Require any tag to be present")
	tagsCmd.MarkFlagsMutuallyExclusive("all", "any")
}
