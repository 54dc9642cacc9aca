package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/aretw0/nt/pkg/nt"
)

var (
	pageHeading   int
	pageVacant    bool
	pageSelection selectionFlags
)

var pageCmd = &cobra.Command{
	Use:     "page [name|datestamp]",
	Aliases: []string{"p"},
	Short:   "Get page content (pipeable)",
	Example: `  nt page Atomic --less tasks
  nt page Atomic --only
  nt p --heading=0 2025-12-03
  nt tags Writing | nt page`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		opts := service.PageOptions{
			Format:    service.Format(format),
			Selection: pageSelection.selection(svc.Filters()),
		}
		return eachArg(cmd, args, func(given string, _ []string) error {
			if given == "" {
				return nil
			}
			res, err := svc.Page(cmd.Context(), given, opts)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) error {
				var body []string
				if res.Markdown != "" {
					body = strings.Split(res.Markdown, "\n")
				}
				return printLines(w, service.FormatBody(res.Name, body, pageHeading, pageVacant))
			})
		})
	},
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.Flags().IntVar(&pageHeading, "heading", 1, "Heading level (0-5, where 0=no heading)")
	pageCmd.Flags().BoolVar(&pageVacant, "vacant", false, "Include vacant entries")
	pageSelection.register(pageCmd)
}
