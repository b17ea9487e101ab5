package rootprobe

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/rootcheck/pkg/rootcfg"
)

type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// PackageManager answers package lookups from the output of the device's
// package list command. The installed set is a snapshot kept until
// Invalidate is called, so one evaluation spawns the command once. The
// Evaluator invalidates it at the start of every call. A positive TTL also
// bounds the snapshot's age; zero leaves it to Invalidate alone.
type PackageManager struct {
	run  runner
	argv []string
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	installed map[string]struct{}
	loadedAt  time.Time
}

// NewPackageManager lists packages with cfg's packageList command run
// through probe.
func NewPackageManager(probe *SystemProbe, cfg *rootcfg.Configuration) *PackageManager {
	if cfg == nil {
		cfg = rootcfg.Default()
	}
	return &PackageManager{
		run:  probe,
		argv: cfg.Commands.PackageList,
		ttl:  cfg.PackageListTTL,
		now:  time.Now,
	}
}

// Lookup reports whether id is installed. A package that is simply absent
// returns false with a nil error.
func (m *PackageManager) Lookup(ctx context.Context, id string) (bool, error) {
	installed, err := m.snapshot(ctx)
	if err != nil {
		return false, err
	}
	_, ok := installed[id]
	return ok, nil
}

// Invalidate drops the snapshot; the next Lookup lists packages again.
func (m *PackageManager) Invalidate() {
	m.mu.Lock()
	m.installed = nil
	m.mu.Unlock()
}

func (m *PackageManager) snapshot(ctx context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.installed != nil && (m.ttl == 0 || m.now().Sub(m.loadedAt) < m.ttl) {
		return m.installed, nil
	}

	if len(m.argv) == 0 {
		return nil, errors.New("no package list command configured")
	}

	lines, err := m.run.Run(ctx, m.argv[0], m.argv[1:]...)
	if err != nil {
		return nil, errors.Wrap(err, "listing installed packages")
	}

	m.installed = ParsePackageList(lines)
	m.loadedAt = m.now()
	log.Debugf("Loaded %d installed packages", len(m.installed))

	return m.installed, nil
}

// ParsePackageList parses `pm list packages` output. Lines look like
// "package:com.example", "package:/data/app/base.apk=com.example" (-f) or
// "package:com.example uid:10123" (-U).
func ParsePackageList(lines []string) map[string]struct{} {
	installed := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "package:")
		if !ok {
			continue
		}

		if fields := strings.Fields(rest); len(fields) > 0 {
			rest = fields[0]
		} else {
			continue
		}

		if i := strings.LastIndex(rest, "="); i >= 0 {
			rest = rest[i+1:]
		}
		if rest != "" {
			installed[rest] = struct{}{}
		}
	}
	return installed
}
