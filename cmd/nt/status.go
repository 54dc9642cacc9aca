package main

import (
	"fmt"
	"io"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the service and its graph adapters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return emit(cmd, svc.State(), func(w io.Writer) error {
			return printState(w, svc)
		})
	},
}

func printState(w io.Writer, c introspection.Component) error {
	if intro, ok := c.(introspection.Introspectable); ok {
		_, err := fmt.Fprintf(w, "%s: %+v\n", c.ComponentType(), intro.State())
		return err
	}
	_, err := fmt.Fprintln(w, c.ComponentType())
	return err
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
