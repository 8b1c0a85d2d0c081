package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the analyze and deep_analyze tools and the
codeg://profile and codeg://results resources. By default it communicates
over stdio using JSON-RPC and can be used with any MCP-compatible AI
assistant.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for desktop assistants)
  codeg mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  codeg mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "codeg": {
        "command": "/path/to/codeg",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Profile:  profileService,
		Results:  resultSet,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	logger.Debug("mcp server starting (port %d)", port)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
