package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/formcheck/internal/cli"
	"github.com/aretw0/formcheck/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes formcheck as an MCP Server so AI agents can validate data as a tool.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		cfg, logger, v, closeStore, err := setup(sc, cmd)
		if err != nil {
			fail("Error initializing formcheck: %v", err)
		}
		defer closeStore()

		if cmd.Flags().Changed("transport") {
			cfg.MCP.Transport, _ = cmd.Flags().GetString("transport")
		}
		if cmd.Flags().Changed("port") {
			cfg.MCP.Port, _ = cmd.Flags().GetInt("port")
		}

		srv := mcp.NewServer(v, mcp.WithLogger(logger))

		switch cfg.MCP.Transport {
		case "stdio":
			logger.Info("starting formcheck MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				closeStore()
				fail("Error: %v", err)
			}
		case "sse":
			logger.Info("starting formcheck MCP server (SSE)", "port", cfg.MCP.Port)
			if err := srv.ServeSSE(sc, cfg.MCP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP server execution failed", "error", err)
				closeStore()
				fail("Error: %v", err)
			}
			logger.Info("MCP server stopped gracefully")
		default:
			closeStore()
			fail("Unknown transport: %s. Supported: stdio, sse", cfg.MCP.Transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the SSE transport (overrides mcp.port)")
}
