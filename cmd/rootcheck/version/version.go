package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags
var Version = "0.0.0"

// Cmd is the version subcommand
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of rootcheck",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rootcheck version: %s\nhttps://github.com/txn2/rootcheck\n", Version)
	},
}
