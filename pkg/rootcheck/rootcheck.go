// Package rootcheck estimates whether an Android device has been rooted.
//
// An Evaluator runs a fixed set of independent heuristics (build signing
// tags, dangerous system properties, su and busybox binaries, writable
// system mounts and known root tooling packages) and ORs their results.
// The verdict is a best-effort signal, not a security boundary: every
// heuristic is easy to bypass on its own.
//
// Probe failures never surface to the caller. A heuristic that cannot read
// its data source simply reports no evidence.
package rootcheck

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/rootcheck/pkg/rootcfg"
	"github.com/txn2/rootcheck/pkg/rootprobe"
)

// Evaluator combines the root detectors into a single verdict. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	cfg       *rootcfg.Configuration
	probe     Probe
	registry  PackageRegistry
	detectors []Detector
}

// Option configures an Evaluator in New.
type Option func(*Evaluator)

// WithConfig replaces the default configuration.
func WithConfig(cfg *rootcfg.Configuration) Option {
	return func(e *Evaluator) {
		e.cfg = cfg
	}
}

// WithProbe replaces the SystemProbe built from the configuration.
func WithProbe(p Probe) Option {
	return func(e *Evaluator) {
		e.probe = p
	}
}

// WithDetectors replaces the built-in detectors.
func WithDetectors(d ...Detector) Option {
	return func(e *Evaluator) {
		e.detectors = d
	}
}

// New creates an Evaluator that resolves packages through registry. A nil
// registry disables the package detectors. A nil or invalid configuration
// is replaced with the defaults.
func New(registry PackageRegistry, opts ...Option) *Evaluator {
	e := &Evaluator{
		cfg:      rootcfg.Default(),
		registry: registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = validConfig(e.cfg)

	if e.probe == nil {
		e.probe = rootprobe.New(e.cfg)
	}
	if e.detectors == nil {
		e.detectors = e.defaultDetectors()
	}
	return e
}

// NewDefault wires a SystemProbe and the shell package manager from cfg.
func NewDefault(cfg *rootcfg.Configuration) *Evaluator {
	cfg = validConfig(cfg)
	probe := rootprobe.New(cfg)
	return New(rootprobe.NewPackageManager(probe, cfg), WithConfig(cfg), WithProbe(probe))
}

// IsRooted returns true if any detector finds evidence of root. It stops at
// the first positive detector and never fails.
func (e *Evaluator) IsRooted(ctx context.Context) bool {
	e.refreshRegistry()
	for _, d := range e.detectors {
		if f := e.run(ctx, d); f.Detected {
			log.Infof("Root indicated by %s", f.Detector)
			return true
		}
	}
	return false
}

// Evaluate runs every detector, without short-circuiting, and returns the
// complete report.
func (e *Evaluator) Evaluate(ctx context.Context) *Report {
	start := time.Now()
	e.refreshRegistry()

	report := &Report{
		ID:        uuid.NewString(),
		Timestamp: start,
		Findings:  make([]Finding, 0, len(e.detectors)),
	}

	for _, d := range e.detectors {
		f := e.run(ctx, d)
		report.Findings = append(report.Findings, f)
		if f.Detected {
			report.Rooted = true
		}
	}

	if dp, ok := e.probe.(deviceProber); ok {
		device, err := dp.Device(ctx)
		if err != nil {
			log.Warnf("Unable to describe device: %s", err)
		}
		report.Device = device
	}

	report.DurationMS = time.Since(start).Milliseconds()
	log.Debugf("Evaluation %s finished in %dms, rooted=%t", report.ID, report.DurationMS, report.Rooted)

	return report
}

// Detectors lists the registered detector names in run order.
func (e *Evaluator) Detectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}

// run isolates a detector so a panic counts as no evidence.
func (e *Evaluator) run(ctx context.Context, d Detector) (f Finding) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Detector %s failed: %v", d.Name(), r)
			f = Finding{Detector: d.Name(), Category: d.Category()}
		}
	}()
	return d.Detect(ctx)
}

// refreshRegistry drops any package snapshot left by a previous call so
// each verdict sees the packages installed now.
func (e *Evaluator) refreshRegistry() {
	if r, ok := e.registry.(invalidator); ok {
		r.Invalidate()
	}
}

func validConfig(cfg *rootcfg.Configuration) *rootcfg.Configuration {
	if cfg == nil {
		return rootcfg.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Errorf("Invalid configuration, using defaults: %s", err)
		return rootcfg.Default()
	}
	return cfg
}

type deviceProber interface {
	Device(ctx context.Context) (*rootprobe.DeviceInfo, error)
}

type invalidator interface {
	Invalidate()
}
