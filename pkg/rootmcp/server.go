// Package rootmcp exposes the root checker as MCP (Model Context Protocol)
// tools so AI assistants can ask whether the device they run on is rooted.
package rootmcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// Server wraps an MCP server bound to a Checker
type Server struct {
	mcpServer *mcp.Server
	checker   rootcheck.Checker
	version   string
}

// New creates the MCP server and registers its tools
func New(checker rootcheck.Checker, version string) *Server {
	s := &Server{
		checker: checker,
		version: version,
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "rootcheck",
		Version: version,
	}, nil)

	s.registerTools()
	return s
}

// Run serves MCP on stdio until ctx is canceled or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
