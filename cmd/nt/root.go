package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nt"
	"github.com/aretw0/nt/pkg/config"
	"github.com/aretw0/nt/pkg/core"
	service "github.com/aretw0/nt/pkg/nt"
)

var (
	configPath string
	verbose    bool
	format     string
	dryRun     bool
	readOnly   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nt",
	Short: "A general-purpose tool for interacting with Logseq content",
	Long: `nt reads and writes the pages of a Logseq graph through its HTTP API.

Commands marked (pipeable) take their primary argument from each non-blank
stdin line when input is piped, e.g. "nt tags Writing | nt page".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute runs the command line and returns the process exit code.
// Guidance errors print their message alone.
func Execute(args []string) int {
	rootCmd.SetArgs(rewriteArgs(args))
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if core.IsGuidance(err) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
	} else {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $NOTE_CONFIG or ~/.config/nt/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "md", "Output format (md|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Write to an in-memory graph and print the result")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Refuse every write")
}

// loadConfig reads the config file. Dry runs tolerate a missing or
// incomplete config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if dryRun && core.IsGuidance(err) {
			slog.Debug("dry run without config", "error", err)
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func openService() (*service.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return nt.New(cfg,
		nt.WithDryRun(dryRun),
		nt.WithReadOnly(readOnly),
		nt.WithLogger(slog.Default()),
	)
}
