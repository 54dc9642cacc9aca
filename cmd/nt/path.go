package main

import (
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path [name]",
	Short: "The path to the page file (pipeable)",
	Example: `  nt path "Article Ideas"
  nt path Moussaka | xargs code
  nt path Moussaka | xargs git restore`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		var paths []string
		err = eachArg(cmd, args, func(given string, _ []string) error {
			if given == "" {
				return nil
			}
			p, err := svc.Path(cmd.Context(), given)
			if err != nil {
				return err
			}
			paths = append(paths, p)
			return nil
		})
		if err != nil {
			return err
		}
		return emitLines(cmd, paths)
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
