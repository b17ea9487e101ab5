// Package serve provides the subcommand running the local report API.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/rootcheck/cmd/rootcheck/internal/setup"
	"github.com/txn2/rootcheck/cmd/rootcheck/version"
	"github.com/txn2/rootcheck/pkg/rootapi"
)

var (
	opts setup.Options
	addr string
)

func init() {
	opts.AddFlags(Cmd)
	Cmd.Flags().StringVar(&addr, "addr", rootapi.DefaultAddr, "Listen address for the REST API")
}

// Cmd is the serve subcommand
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve root verdicts over a local REST API",
	Long: `Start a REST API answering root checks on demand.

Endpoints:
  GET /api/health           Liveness
  GET /api/v1/verdict       Verdict, stopping at the first heuristic hit
  GET /api/v1/report        Every heuristic with its evidence (?detected=true to filter)
  GET /api/v1/detectors     Heuristic names in run order

The API binds to loopback by default. The verdict describes this device and
should not be exposed to the network.`,
	Example: "  rootcheck serve\n" +
		"  rootcheck serve --addr 127.0.0.1:9090 -v",
	Run: runServe,
}

func runServe(cmd *cobra.Command, _ []string) {
	checker, err := opts.Checker()
	if err != nil {
		log.Fatalf("Unable to load configuration: %s", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting rootcheck API (version %s)", version.Version)
	if err := rootapi.New(checker, version.Version).Run(ctx, addr); err != nil {
		log.Errorf("API server error: %s", err)
		os.Exit(1)
	}
	log.Info("API server stopped")
}
