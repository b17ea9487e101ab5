package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/txn2/rootcheck/cmd/rootcheck/check"
	"github.com/txn2/rootcheck/cmd/rootcheck/mcp"
	"github.com/txn2/rootcheck/cmd/rootcheck/serve"
	"github.com/txn2/rootcheck/cmd/rootcheck/version"
)

var globalUsage = `Estimate whether an Android device has been rooted.

rootcheck runs a set of independent heuristics (su and busybox binaries,
test-keys builds, dangerous system properties, writable system mounts and
known root tooling packages). Any single hit marks the device as rooted.
`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rootcheck",
		Short: "Detect rooted Android devices.",
		Long:  globalUsage,
	}

	cmd.AddCommand(version.Cmd, check.Cmd, serve.Cmd, mcp.Cmd)

	return cmd
}

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
