// Package rootcfg holds the reference data and probe settings used by the
// root heuristics. Everything has a compiled-in default and may be
// overridden from a YAML file or the environment without a rebuild.
package rootcfg

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Environment variables read by ApplyEnv.
const (
	EnvCommandTimeout = "ROOTCHECK_COMMAND_TIMEOUT"
	EnvPackageListTTL = "ROOTCHECK_PACKAGE_LIST_TTL"
	EnvWhich          = "ROOTCHECK_WHICH"
)

// Configuration is the reference data and probe settings for one Evaluator.
type Configuration struct {
	SuPaths              []string          `yaml:"suPaths"`
	ProtectedMountPoints []string          `yaml:"protectedMountPoints"`
	DangerousProperties  map[string]string `yaml:"dangerousProperties"`
	Packages             PackageSets       `yaml:"packages"`
	Commands             Commands          `yaml:"commands"`
	CommandTimeout       time.Duration     `yaml:"commandTimeout"`
	PackageListTTL       time.Duration     `yaml:"packageListTTL"`
}

// PackageSets are the three disjoint groups of package identifiers that
// indicate root tooling on a device.
type PackageSets struct {
	RootManagement []string `yaml:"rootManagement"`
	RootCloaking   []string `yaml:"rootCloaking"`
	Dangerous      []string `yaml:"dangerous"`
}

// Commands are the argv vectors used to query the device.
type Commands struct {
	Properties  []string `yaml:"properties"`
	Mounts      []string `yaml:"mounts"`
	Which       string   `yaml:"which"`
	PackageList []string `yaml:"packageList"`
}

// Load reads a YAML file and overlays it on the defaults. Keys missing from
// the file keep their default value; dangerousProperties entries are merged
// into the default map.
func Load(path string) (*Configuration, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration %s", path)
	}

	if err := yaml.Unmarshal(dat, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration %s", path)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration %s", path)
	}

	log.Debugf("Loaded configuration from %s", path)
	return cfg, nil
}

// ApplyEnv overrides probe settings from the environment. Unparsable values
// are rejected rather than silently ignored.
func (c *Configuration) ApplyEnv() error {
	if v := os.Getenv(EnvCommandTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvCommandTimeout)
		}
		c.CommandTimeout = d
	}

	if v := os.Getenv(EnvPackageListTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvPackageListTTL)
		}
		c.PackageListTTL = d
	}

	if v := os.Getenv(EnvWhich); v != "" {
		c.Commands.Which = v
	}

	return c.Validate()
}

// Normalize makes every su path a directory prefix ending in "/".
func (c *Configuration) Normalize() {
	for i, p := range c.SuPaths {
		if p != "" && !strings.HasSuffix(p, "/") {
			c.SuPaths[i] = p + "/"
		}
	}
}

// Validate rejects settings that would silently disable detectors.
func (c *Configuration) Validate() error {
	if c.CommandTimeout <= 0 {
		return errors.Errorf("commandTimeout must be positive, got %s", c.CommandTimeout)
	}
	if c.PackageListTTL < 0 {
		return errors.Errorf("packageListTTL must not be negative, got %s", c.PackageListTTL)
	}
	if len(c.Commands.Properties) == 0 {
		return errors.New("commands.properties must not be empty")
	}
	if len(c.Commands.Mounts) == 0 {
		return errors.New("commands.mounts must not be empty")
	}
	if len(c.Commands.PackageList) == 0 {
		return errors.New("commands.packageList must not be empty")
	}
	if c.Commands.Which == "" {
		return errors.New("commands.which must not be empty")
	}

	return c.Packages.checkDisjoint()
}

// DangerousPropertyLines renders the dangerous properties the way getprop
// prints them, e.g. "[ro.secure]: [0]". The result is sorted.
func (c *Configuration) DangerousPropertyLines() []string {
	lines := make([]string, 0, len(c.DangerousProperties))
	for name, value := range c.DangerousProperties {
		lines = append(lines, fmt.Sprintf("[%s]: [%s]", name, value))
	}
	sort.Strings(lines)
	return lines
}

func (p PackageSets) checkDisjoint() error {
	seen := make(map[string]string)
	groups := []struct {
		name string
		ids  []string
	}{
		{"rootManagement", p.RootManagement},
		{"rootCloaking", p.RootCloaking},
		{"dangerous", p.Dangerous},
	}

	for _, g := range groups {
		for _, id := range g.ids {
			if other, ok := seen[id]; ok && other != g.name {
				return errors.Errorf("package %q listed in both %s and %s", id, other, g.name)
			}
			seen[id] = g.name
		}
	}
	return nil
}
