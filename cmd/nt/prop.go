package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
)

var (
	propAdd    []string
	propRemove []string
	propPage   string
)

var propCmd = &cobra.Command{
	Use:   "prop",
	Short: "Rewrite page properties (piped)",
	Long: `Prop edits the leading "key:: value" lines of outline text read from stdin.
With --page the additions are applied to the page in the graph instead.`,
	Example: `  nt page Lasagna --heading=0 | nt prop --add tags=Recipe --remove tags=Draft
  nt prop --page Lasagna --add tags=Recipe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		add, err := service.ParsePropertyEdit(propAdd)
		if err != nil {
			return err
		}
		remove, err := service.ParsePropertyEdit(propRemove)
		if err != nil {
			return err
		}

		if propPage != "" {
			if !remove.Empty() {
				return core.Guide("Only --add can be applied to a page in the graph.")
			}
			svc, err := openService()
			if err != nil {
				return err
			}
			return svc.SetPageProperties(cmd.Context(), propPage, add)
		}

		input, err := readInput(cmd)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), service.RewriteProperties(input, add, remove))
		return err
	},
}

func init() {
	rootCmd.AddCommand(propCmd)
	propCmd.Flags().StringArrayVarP(&propAdd, "add", "a", nil, "Property to add (key=value)")
	propCmd.Flags().StringArrayVarP(&propRemove, "remove", "r", nil, "Property to remove (key=value)")
	propCmd.Flags().StringVar(&propPage, "page", "", "Apply additions to this page in the graph")
}
