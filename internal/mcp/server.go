package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/inventory"
	"github.com/ziadkadry99/shop-scout/internal/match"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the product catalog and match
// engine as tools for AI agents.
type Server struct {
	catalog   catalog.Provider
	matcher   *match.Engine
	inventory inventory.Checker
	feedback  *feedback.Store
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. feedback
// may be nil.
func NewServer(cat catalog.Provider, matcher *match.Engine, inv inventory.Checker, fb *feedback.Store) *Server {
	s := &Server{
		catalog:   cat,
		matcher:   matcher,
		inventory: inv,
		feedback:  fb,
	}

	s.mcp = server.NewMCPServer(
		"shopscout",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCatalogTool, s.handleSearchCatalog)
	s.mcp.AddTool(recommendProductsTool, s.handleRecommendProducts)
	s.mcp.AddTool(checkInventoryTool, s.handleCheckInventory)
	if s.feedback != nil {
		s.mcp.AddTool(feedbackStatsTool, s.handleFeedbackStats)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
