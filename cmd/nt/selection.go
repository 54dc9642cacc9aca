package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/outline"
)

// selectionFlags backs the --less and --only flags of a command.
type selectionFlags struct {
	less []string
	only []string
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&s.less, "less", "l", nil, "Drop blocks matching a filter name or regex (bare: all filters)")
	cmd.Flags().StringArrayVarP(&s.only, "only", "o", nil, "Keep only blocks matching a filter name or regex (bare: all filters)")
}

func (s *selectionFlags) empty() bool {
	return len(s.less) == 0 && len(s.only) == 0
}

func (s *selectionFlags) selection(filters map[string]string) outline.Selection {
	names := outline.FilterNames(filters)
	return outline.Selection{
		Less: expandFilters(s.less, names),
		Only: expandFilters(s.only, names),
	}
}
