package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/outline"
)

var strSelection selectionFlags

var stringifyCmd = &cobra.Command{
	Use:     "stringify",
	Aliases: []string{"str"},
	Short:   "Convert a JSON block tree on stdin back to outline text",
	Example: `  nt page Atomic --json | nt str --less tasks`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		page, err := outline.DecodeTree([]byte(input))
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil && !strSelection.empty() {
			return err
		}
		var filters map[string]string
		if cfg != nil {
			filters = cfg.Filter
		}
		keep, forceKeep, err := strSelection.selection(filters).Predicates(filters)
		if err != nil {
			return core.Guide("%v", err)
		}
		page = outline.Select(page, keep, forceKeep)

		return emit(cmd, page, func(w io.Writer) error {
			return outline.Render(w, page)
		})
	},
}

func init() {
	rootCmd.AddCommand(stringifyCmd)
	strSelection.register(stringifyCmd)
}
