package rootcheck

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

// BuildTagsProperty holds the signing tags of the running build.
const BuildTagsProperty = "ro.build.tags"

// defaultDetectors returns the nine heuristics. Verdicts do not depend on
// order; filesystem checks run first because they are the cheapest, package
// lookups last because they are the slowest.
func (e *Evaluator) defaultDetectors() []Detector {
	return []Detector{
		NewDetectorFunc(DetectorSuBinary, CategoryBinaries, func(_ context.Context) []string {
			return e.binaryEvidence("su")
		}),
		NewDetectorFunc(DetectorBusyBoxBinary, CategoryBinaries, func(_ context.Context) []string {
			return e.binaryEvidence("busybox")
		}),
		NewDetectorFunc(DetectorTestKeys, CategoryBuild, e.detectTestKeys),
		NewDetectorFunc(DetectorDangerousProps, CategoryProperties, e.detectDangerousProps),
		NewDetectorFunc(DetectorRWPaths, CategoryMounts, e.detectRWPaths),
		NewDetectorFunc(DetectorSuWhich, CategoryBinaries, e.detectSuWhich),
		NewDetectorFunc(DetectorRootManagementApps, CategoryPackages, func(ctx context.Context) []string {
			return e.installedPackages(ctx, "root management", e.cfg.Packages.RootManagement)
		}),
		NewDetectorFunc(DetectorRootCloakingApps, CategoryPackages, func(ctx context.Context) []string {
			return e.installedPackages(ctx, "root cloaking", e.cfg.Packages.RootCloaking)
		}),
		NewDetectorFunc(DetectorDangerousApps, CategoryPackages, func(ctx context.Context) []string {
			return e.installedPackages(ctx, "potentially dangerous", e.cfg.Packages.Dangerous)
		}),
	}
}

// detectTestKeys fires when the build was signed with test keys rather than
// the vendor's release keys.
func (e *Evaluator) detectTestKeys(ctx context.Context) []string {
	tags := e.probe.ReadProperty(ctx, BuildTagsProperty)
	if strings.Contains(tags, "test-keys") {
		return []string{BuildTagsProperty + "=" + tags}
	}
	return nil
}

// detectDangerousProps fires on ro.secure=0 or ro.debuggable=1, or whatever
// pairs the configuration lists.
func (e *Evaluator) detectDangerousProps(ctx context.Context) []string {
	wanted := e.cfg.DangerousPropertyLines()
	if len(wanted) == 0 {
		return nil
	}

	var evidence []string
	for _, line := range e.probe.ReadProperties(ctx) {
		for _, w := range wanted {
			if strings.Contains(line, w) {
				evidence = append(evidence, strings.TrimSpace(line))
				break
			}
		}
	}
	return evidence
}

func (e *Evaluator) detectSuWhich(ctx context.Context) []string {
	lines := e.probe.Which(ctx, "su")
	if len(lines) == 0 {
		return nil
	}
	return lines
}

// detectRWPaths fires when a mount point that should be read-only is
// mounted read-write.
func (e *Evaluator) detectRWPaths(ctx context.Context) []string {
	var evidence []string

	for _, line := range e.probe.ReadMounts(ctx) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		m, ok := ParseMountLine(line)
		if !ok {
			log.Errorf("Error formatting mount line: %s", line)
			continue
		}

		for _, protected := range e.cfg.ProtectedMountPoints {
			if strings.EqualFold(m.MountPoint, protected) && m.Writable() {
				log.Infof("%s path is mounted with rw permissions! %s", protected, line)
				evidence = append(evidence, line)
			}
		}
	}

	return evidence
}

func (e *Evaluator) binaryEvidence(filename string) []string {
	if e.probe.BinaryExists(e.cfg.SuPaths, filename) {
		return []string{filename}
	}
	return nil
}

// installedPackages returns the ids from the list that resolve in the
// registry. A registry failure ends the scan; whatever was found before it
// is still reported.
func (e *Evaluator) installedPackages(ctx context.Context, kind string, ids []string) []string {
	if e.registry == nil {
		log.Debugf("No package registry configured, skipping %s apps", kind)
		return nil
	}

	var found []string
	for _, id := range ids {
		installed, err := e.registry.Lookup(ctx, id)
		if err != nil {
			log.Errorf("Unable to query package registry for %s apps: %s", kind, err)
			return found
		}
		if installed {
			log.Infof("%s %s app detected!", id, kind)
			found = append(found, id)
		}
	}
	return found
}
