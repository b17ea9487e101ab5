// Package rootprobe runs the OS commands and filesystem checks the root
// heuristics rely on. Nothing here fails past its boundary: read helpers log
// the problem and return an empty result.
package rootprobe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/rootcheck/pkg/rootcfg"
)

// ErrTimeout is returned by Run when a command outlives the probe timeout.
var ErrTimeout = errors.New("command timed out")

// SystemProbe reads device state by running shell commands and checking
// files. It is safe for concurrent use.
type SystemProbe struct {
	timeout  time.Duration
	commands rootcfg.Commands
}

// New creates a probe using the commands and timeout from cfg. A nil cfg
// means the defaults. A non-positive timeout would kill every command before
// it starts, so it is replaced with DefaultCommandTimeout.
func New(cfg *rootcfg.Configuration) *SystemProbe {
	if cfg == nil {
		cfg = rootcfg.Default()
	}

	timeout := cfg.CommandTimeout
	if timeout <= 0 {
		log.Errorf("Invalid command timeout %s, using %s", timeout, rootcfg.DefaultCommandTimeout)
		timeout = rootcfg.DefaultCommandTimeout
	}

	return &SystemProbe{
		timeout:  timeout,
		commands: cfg.Commands,
	}
}

// Run executes name with args and returns its standard output split into
// lines. A non-zero exit status is not an error; the process ran and its
// output is returned. Spawn failures and timeouts are.
func (p *SystemProbe) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	// a killed child may leave grandchildren holding the pipe open
	cmd.WaitDelay = p.timeout

	err := cmd.Run()
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Wrapf(ErrTimeout, "%s after %s", name, p.timeout)
		}
		return nil, errors.Wrapf(ctx.Err(), "running %s", name)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "running %s", name)
		}
		log.Debugf("%s exited with status %d", name, exitErr.ExitCode())
	}

	return SplitLines(stdout.String()), nil
}

// ReadProperties returns the full system property dump, one property per
// line. It returns an empty slice when the dump cannot be obtained.
func (p *SystemProbe) ReadProperties(ctx context.Context) []string {
	return p.readAll(ctx, "ReadProperties", p.commands.Properties)
}

// ReadMounts returns the live mount table, one mount per line. It returns
// an empty slice when the table cannot be obtained.
func (p *SystemProbe) ReadMounts(ctx context.Context) []string {
	return p.readAll(ctx, "ReadMounts", p.commands.Mounts)
}

// ReadProperty returns a single property value, or "" if it is unset or
// cannot be read.
func (p *SystemProbe) ReadProperty(ctx context.Context, name string) string {
	argv := append(append([]string{}, p.commands.Properties...), name)
	lines := p.readAll(ctx, "ReadProperty", argv)
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

// Which resolves binary with the configured which command.
func (p *SystemProbe) Which(ctx context.Context, binary string) []string {
	return p.readAll(ctx, "Which", []string{p.commands.Which, binary})
}

func (p *SystemProbe) readAll(ctx context.Context, caller string, argv []string) []string {
	if len(argv) == 0 {
		log.Errorf("%s: no command configured", caller)
		return []string{}
	}

	lines, err := p.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		log.Errorf("%s: unable to read output of %s: %s", caller, strings.Join(argv, " "), err)
		return []string{}
	}
	return lines
}

// BinaryExists reports whether filename exists under any of the path
// prefixes. All prefixes are checked so each hit is logged.
func (p *SystemProbe) BinaryExists(prefixes []string, filename string) bool {
	found := false
	for _, prefix := range prefixes {
		path := prefix + filename
		if fileExists(path) {
			log.Infof("%s binary detected!", path)
			found = true
		}
	}
	return found
}

// SplitLines splits command output on newlines, tolerating CRLF. A trailing
// newline does not produce an empty final line, and empty output yields an
// empty slice.
func SplitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return []string{}
	}

	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
