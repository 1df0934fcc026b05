package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"retrato/internal/app"
)

var (
	mcpDebug     bool
	mcpConfigDir string
	mcpTransport string
	mcpAddr      string
)

// mcpCmd serves the wizard as MCP tools.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the portrait wizard as MCP tools",
	Long: `Serves one wizard session as MCP tools so an assistant or a script can
drive the robot: wizard_begin, wizard_set_height, wizard_snap,
wizard_load_photo, wizard_confirm_photo and friends.

The stdio transport (default) is meant to be launched by an MCP client.
The sse transport listens on --addr (default from mcp.host and mcp.port).`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(true, mcpDebug, mcpConfigDir)
	cfg.Version = rootCmd.Version
	cfg.MCPTransport = mcpTransport
	cfg.MCPAddr = mcpAddr

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.ServeMCP(ctx)
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().BoolVar(&mcpDebug, "debug", false, "Enable debug logging")
	mcpCmd.Flags().StringVar(&mcpConfigDir, "config", "", "Directory containing config.yaml")
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", "MCP transport: stdio or sse")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "host:port for the sse transport")
}
