package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nt",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nt version %s\n", strings.TrimSpace(nt.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
