package main

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/aretw0/nt/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the parse, stringify, page and post tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		slog.Debug("starting MCP server in stdio mode")
		return server.ServeStdio(mcp.NewServer(svc))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
