package main

import (
	"github.com/spf13/cobra"

	service "github.com/aretw0/nt/pkg/nt"
)

var (
	pagesType  string
	pagesLimit int
	pagesLocal string
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages",
	Example: `  nt pages
  nt pages -t all --limit 20
  nt pages --local 'Clojure*'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		kind, err := service.ParsePageKind(pagesType)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}

		var names []string
		if cmd.Flags().Changed("local") {
			names, err = svc.LocalPages(pagesLocal, kind, pagesLimit)
		} else {
			names, err = svc.Pages(cmd.Context(), kind, pagesLimit)
		}
		if err != nil {
			return err
		}
		return emitLines(cmd, names)
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.Flags().StringVarP(&pagesType, "type", "t", "regular", "Page type (regular|journal|all)")
	pagesCmd.Flags().IntVar(&pagesLimit, "limit", 0, "Limit to N entries (0 = no limit)")
	pagesCmd.Flags().StringVar(&pagesLocal, "local", "", "List page files of the graph directory matching a glob instead")
}
