package rootcheck

import (
	"context"
	"sync"

	"github.com/txn2/rootcheck/pkg/rootcfg"
)

// Probe is the bridge to the operating system. Implementations must not
// fail: unavailable data is reported as an empty result.
type Probe interface {
	// BinaryExists reports whether filename exists under any prefix.
	BinaryExists(prefixes []string, filename string) bool

	// ReadProperties returns the full property dump, one line per property.
	ReadProperties(ctx context.Context) []string

	// ReadProperty returns one property value or "".
	ReadProperty(ctx context.Context, name string) string

	// ReadMounts returns the mount table, one line per mount.
	ReadMounts(ctx context.Context) []string

	// Which returns the output of resolving binary on the device.
	Which(ctx context.Context, binary string) []string
}

// PackageRegistry answers whether a package is installed. An absent package
// is (false, nil); an error means the registry could not be queried.
type PackageRegistry interface {
	Lookup(ctx context.Context, id string) (bool, error)
}

// Checker produces a root verdict. Evaluator is the production
// implementation; MockChecker is a test double.
type Checker interface {
	// IsRooted returns true as soon as any detector fires.
	IsRooted(ctx context.Context) bool

	// Evaluate runs every detector and reports each outcome.
	Evaluate(ctx context.Context) *Report

	// Detectors lists detector names in run order.
	Detectors() []string
}

var (
	checkerMu sync.RWMutex
	checker   Checker
)

// getChecker returns the package-level Checker, building the default
// evaluator on first use.
func getChecker() Checker {
	checkerMu.RLock()
	c := checker
	checkerMu.RUnlock()
	if c != nil {
		return c
	}

	checkerMu.Lock()
	defer checkerMu.Unlock()
	if checker == nil {
		checker = NewDefault(rootcfg.Default())
	}
	return checker
}

// SetChecker replaces the package-level Checker (for testing).
func SetChecker(c Checker) {
	checkerMu.Lock()
	checker = c
	checkerMu.Unlock()
}

// ResetChecker restores the default evaluator on next use.
func ResetChecker() {
	checkerMu.Lock()
	checker = nil
	checkerMu.Unlock()
}

// IsRooted evaluates the device with the package-level Checker.
func IsRooted(ctx context.Context) bool {
	return getChecker().IsRooted(ctx)
}
