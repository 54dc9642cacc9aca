package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
)

var (
	writeOverwrite bool
	writeCommit    bool
)

var writeCmd = &cobra.Command{
	Use:   "write <name>",
	Short: "Write a page file from stdin",
	Long: `Write replaces the page file in the graph directory with stdin.
With --commit the file is staged and committed to the graph's git repository.`,
	Example: `  nt page Template --heading=0 | nt write Lasagna
  nt page Lasagna --heading=0 | sed s/beef/lentils/ | nt write Lasagna --overwrite --commit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !piped(cmd) {
			return core.ErrEmptyInput
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		res, err := svc.Write(cmd.Context(), args[0], cmd.InOrStdin(), service.WriteOptions{
			Overwrite: writeOverwrite,
			Commit:    writeCommit,
		})
		if err != nil {
			return err
		}
		if structured() {
			return emit(cmd, res, nil)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().BoolVar(&writeOverwrite, "overwrite", false, "Replace an existing page file")
	writeCmd.Flags().BoolVar(&writeCommit, "commit", false, "Commit the page file with git")
}
