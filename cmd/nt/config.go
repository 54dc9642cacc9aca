package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configFileCmd = &cobra.Command{
	Use:   "file",
	Short: "Show the path to the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

var configRepoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Show the path to the Logseq graph directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Logseq.Repo)
		return nil
	},
}

var configFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List the filters available to --less and --only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printPairs(cmd.OutOrStdout(), cfg.Filter)
	},
}

var configQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List the named queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printPairs(cmd.OutOrStdout(), cfg.Query)
	},
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration (token redacted)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cfg.Dump(cmd.OutOrStdout())
	},
}

// printPairs prints "key  =>  value" lines in natural key order.
func printPairs(w io.Writer, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s  =>  %s\n", k, pairs[k]); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configFileCmd, configRepoCmd, configFilterCmd, configQueryCmd, configDumpCmd)
}
