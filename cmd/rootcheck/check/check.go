// Package check provides the one-shot root check subcommand.
package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/rootcheck/cmd/rootcheck/internal/setup"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// ExitRooted is the exit status for a rooted device when --exit-code is set
const ExitRooted = 3

var (
	opts     setup.Options
	all      bool
	asJSON   bool
	exitCode bool
)

func init() {
	opts.AddFlags(Cmd)
	Cmd.Flags().BoolVarP(&all, "all", "a", false, "Run every heuristic and print each result instead of stopping at the first hit")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	Cmd.Flags().BoolVar(&exitCode, "exit-code", false, fmt.Sprintf("Exit with status %d when the device looks rooted", ExitRooted))
}

// Cmd is the check subcommand
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether this device looks rooted",
	Long: `Run the root heuristics against the local device.

By default the check stops at the first heuristic that finds evidence.
Use --all to run every heuristic and see the evidence each one found.

The verdict is a best-effort signal: every heuristic can be bypassed.`,
	Example: "  rootcheck check\n" +
		"  rootcheck check --all\n" +
		"  rootcheck check --all --json\n" +
		"  rootcheck check --exit-code -c rootcheck.yaml",
	Run: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) {
	checker, err := opts.Checker()
	if err != nil {
		log.Fatalf("Unable to load configuration: %s", err)
	}

	rooted, err := check(cmd.Context(), checker, cmd.OutOrStdout(), all, asJSON)
	if err != nil {
		log.Fatalf("Unable to write result: %s", err)
	}

	if rooted && exitCode {
		os.Exit(ExitRooted)
	}
}

// check runs the checker and writes the result to out
func check(ctx context.Context, checker rootcheck.Checker, out io.Writer, all, asJSON bool) (bool, error) {
	if !all {
		rooted := checker.IsRooted(ctx)
		if asJSON {
			return rooted, writeJSON(out, map[string]bool{"rooted": rooted})
		}
		_, err := fmt.Fprintln(out, verdictText(rooted))
		return rooted, err
	}

	report := checker.Evaluate(ctx)
	if asJSON {
		return report.Rooted, writeJSON(out, report)
	}
	return report.Rooted, writeReport(out, report)
}

func verdictText(rooted bool) string {
	if rooted {
		return "Device is likely rooted."
	}
	return "No indication of root found."
}

func writeReport(out io.Writer, report *rootcheck.Report) error {
	for _, f := range report.Findings {
		status := "clean"
		if f.Detected {
			status = "DETECTED"
		}
		line := fmt.Sprintf("%-22s %-11s %-9s %s", f.Detector, f.Category, status, strings.Join(f.Evidence, ", "))
		if _, err := fmt.Fprintln(out, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\n%s\n", verdictText(report.Rooted))
	return err
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
