// Package mcp provides the MCP (Model Context Protocol) subcommand. It lets
// AI assistants ask whether the device they run on is rooted.
package mcp

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/rootcheck/cmd/rootcheck/internal/setup"
	"github.com/txn2/rootcheck/cmd/rootcheck/version"
	"github.com/txn2/rootcheck/pkg/rootmcp"
)

var opts setup.Options

func init() {
	opts.AddFlags(Cmd)
}

// Cmd is the MCP subcommand
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdin/stdout.

Configure your MCP client:
  {
    "mcpServers": {
      "rootcheck": {
        "command": "rootcheck",
        "args": ["mcp"]
      }
    }
  }

Tools:
  - is_rooted                  Quick verdict
  - evaluate_root_heuristics   Every heuristic with its evidence
  - list_detectors             Heuristic names in run order`,
	Example: `  rootcheck mcp

  # With verbose logging (logs go to stderr, not interfering with stdio MCP)
  rootcheck mcp --verbose`,
	Run: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) {
	// stdout carries the MCP stdio transport
	log.SetOutput(os.Stderr)
	if !opts.Verbose {
		log.SetLevel(log.WarnLevel)
	}

	checker, err := opts.Checker()
	if err != nil {
		log.Fatalf("Unable to load configuration: %s", err)
	}

	log.Infof("Starting rootcheck MCP server (version %s)", version.Version)

	if err := rootmcp.New(checker, version.Version).Run(cmd.Context()); err != nil {
		log.Errorf("MCP server error: %v", err)
		os.Exit(1)
	}

	log.Info("MCP server stopped")
}
