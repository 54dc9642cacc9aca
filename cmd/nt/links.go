package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/markup"
)

var (
	linksType string
	linksBare bool
)

var linksCmd = &cobra.Command{
	Use:     "links",
	Short:   "Extract links from content (piped)",
	Example: `  nt page GenAI | nt links --type md --bare`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := markup.ParseLinkKind(linksType)
		if err != nil {
			return core.Guide("%v", err)
		}
		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		return emitLines(cmd, markup.Links([]byte(input), kind, linksBare))
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.Flags().StringVarP(&linksType, "type", "t", "all", "Type of link (md|bare|all)")
	linksCmd.Flags().BoolVar(&linksBare, "bare", false, "Print only the URL of markdown links")
}
