package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
)

// propsView is the structured output of props.
type propsView struct {
	Name       string          `json:"name"`
	Properties core.Properties `json:"properties"`
}

var (
	propsHeading int
	propsVacant  bool
)

var propsCmd = &cobra.Command{
	Use:   "props [name] [property]",
	Short: "Get page properties (pipeable)",
	Example: `  nt props Atomic tags
  nt tags Writing | nt props tags --heading=0`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return eachArg(cmd, args, func(given string, rest []string) error {
			if given == "" {
				return nil
			}
			var key string
			if len(rest) > 0 {
				key = rest[0]
			}
			name, props, err := svc.Props(cmd.Context(), given, key)
			if err != nil {
				return err
			}
			return emit(cmd, propsView{Name: name, Properties: props}, func(w io.Writer) error {
				return printLines(w, service.FormatBody(name, service.PropertyLines(props), propsHeading, propsVacant))
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(propsCmd)
	propsCmd.Flags().IntVar(&propsHeading, "heading", 1, "Heading level (0-5, where 0=no heading)")
	propsCmd.Flags().BoolVar(&propsVacant, "vacant", false, "Include vacant entries")
}
