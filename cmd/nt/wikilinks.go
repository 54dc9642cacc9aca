package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/markup"
)

var wikilinksType string

var wikilinksCmd = &cobra.Command{
	Use:   "wikilinks",
	Short: "Extract wikilinks from content (piped)",
	Example: `  nt page Boardgames | nt wikilinks
  nt page Mission | nt wikilinks --type all | nt page`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := markup.ParseWikiKind(wikilinksType)
		if err != nil {
			return core.Guide("%v", err)
		}
		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		return emitLines(cmd, markup.Wikilinks(input, kind))
	},
}

func init() {
	rootCmd.AddCommand(wikilinksCmd)
	wikilinksCmd.Flags().StringVarP(&wikilinksType, "type", "t", "bracket", "Type of link (bracket|tag|all)")
}
