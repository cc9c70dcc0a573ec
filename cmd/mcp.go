package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/shop-scout/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing catalog search, recommendation, and inventory tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		deps, err := buildDeps(ctx, cfg, database)
		if err != nil {
			return err
		}

		// Stdout carries MCP protocol messages; logging goes to stderr.
		mcpserver.Version = Version
		fmt.Fprintln(os.Stderr, "shopscout MCP server started on stdio")

		srv := mcpserver.NewServer(deps.Catalog, deps.Matcher, deps.Inventory, deps.Feedback)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
