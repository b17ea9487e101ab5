package rootcheck

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/txn2/rootcheck/pkg/rootcfg"
	"github.com/txn2/rootcheck/pkg/rootprobe"
)

// cleanProbe describes a stock device: release keys, secure properties and
// read-only system mounts.
func cleanProbe() *MockProbe {
	return &MockProbe{
		Values: map[string]string{BuildTagsProperty: "release-keys"},
		Properties: []string{
			"[ro.build.type]: [user]",
			"[ro.debuggable]: [0]",
			"[ro.secure]: [1]",
		},
		Mounts: []string{
			"rootfs / rootfs ro,seclabel 0 0",
			"/dev/block/dm-0 /system ext4 ro,seclabel,relatime 0 0",
			"/dev/block/dm-1 /vendor ext4 ro,seclabel 0 0",
			"/dev/block/sda13 /data f2fs rw,lazytime,seclabel 0 0",
		},
	}
}

func cleanRegistry() *MockRegistry {
	return NewMockRegistry("com.android.chrome", "com.google.android.gm")
}

func findingFor(t *testing.T, r *Report, name string) Finding {
	t.Helper()
	for _, f := range r.Findings {
		if f.Detector == name {
			return f
		}
	}
	t.Fatalf("no finding for detector %s", name)
	return Finding{}
}

func TestIsRooted_CleanDevice(t *testing.T) {
	e := New(cleanRegistry(), WithProbe(cleanProbe()))

	assert.False(t, e.IsRooted(context.Background()))

	report := e.Evaluate(context.Background())
	assert.False(t, report.Rooted)
	assert.Len(t, report.Findings, 9)
	assert.Empty(t, report.Detected())
}

func TestIsRooted_EachDetectorAlone(t *testing.T) {
	tests := []struct {
		detector string
		probe    func(p *MockProbe)
		packages []string
	}{
		{
			detector: DetectorTestKeys,
			probe:    func(p *MockProbe) { p.Values[BuildTagsProperty] = "dev-keys,test-keys" },
		},
		{
			detector: DetectorDangerousProps,
			probe:    func(p *MockProbe) { p.Properties = append(p.Properties, "[ro.debuggable]: [1]") },
		},
		{
			detector: DetectorSuWhich,
			probe:    func(p *MockProbe) { p.WhichOutput = map[string][]string{"su": {"/system/xbin/su"}} },
		},
		{
			detector: DetectorRWPaths,
			probe:    func(p *MockProbe) { p.Mounts = append(p.Mounts, "/dev/block/x /SYSTEM ext4 RW,seclabel 0 0") },
		},
		{
			detector: DetectorRootManagementApps,
			packages: []string{"com.noshufou.android.su"},
		},
		{
			detector: DetectorRootCloakingApps,
			packages: []string{"com.devadvance.rootcloak"},
		},
		{
			detector: DetectorDangerousApps,
			packages: []string{"com.dimonvideo.luckypatcher"},
		},
		{
			detector: DetectorSuBinary,
			probe:    func(p *MockProbe) { p.Binaries = map[string]bool{"su": true} },
		},
		{
			detector: DetectorBusyBoxBinary,
			probe:    func(p *MockProbe) { p.Binaries = map[string]bool{"busybox": true} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.detector, func(t *testing.T) {
			probe := cleanProbe()
			if tt.probe != nil {
				tt.probe(probe)
			}
			registry := cleanRegistry()
			for _, id := range tt.packages {
				registry.Installed[id] = true
			}

			e := New(registry, WithProbe(probe))

			assert.True(t, e.IsRooted(context.Background()))

			report := e.Evaluate(context.Background())
			require.True(t, report.Rooted)
			detected := report.Detected()
			require.Len(t, detected, 1)
			assert.Equal(t, tt.detector, detected[0].Detector)
			assert.NotEmpty(t, detected[0].Evidence)
		})
	}
}

func TestRWPaths_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"read only", "/dev/block/x /system ext4 ro,seclabel 0 0", false},
		{"upper case rw and mount point", "/dev/block/x /SYSTEM ext4 RW,seclabel 0 0", true},
		{"rw not first option", "/dev/block/x /vendor/bin ext4 seclabel,rw 0 0", true},
		{"rw-like option is not rw", "/dev/block/x /system ext4 ro,rwx,nosuid 0 0", false},
		{"unprotected path", "/dev/block/x /data ext4 rw 0 0", false},
		{"toybox format", "/dev/block/dm-0 on /system type ext4 (rw,seclabel)", true},
		{"toybox read only", "/dev/block/dm-0 on /system type ext4 (ro,seclabel)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := cleanProbe()
			probe.Mounts = []string{tt.line}
			e := New(nil, WithProbe(probe))

			f := findingFor(t, e.Evaluate(context.Background()), DetectorRWPaths)
			assert.Equal(t, tt.want, f.Detected)
		})
	}
}

func TestRWPaths_MalformedLineSkipped(t *testing.T) {
	probe := cleanProbe()
	probe.Mounts = []string{
		"/dev/block/x /system",
		"",
		"/dev/block/y /system ext4 rw,seclabel 0 0",
	}
	e := New(nil, WithProbe(probe))

	assert.True(t, e.IsRooted(context.Background()))
	f := findingFor(t, e.Evaluate(context.Background()), DetectorRWPaths)
	assert.Equal(t, []string{"/dev/block/y /system ext4 rw,seclabel 0 0"}, f.Evidence)
}

func TestDangerousProps(t *testing.T) {
	tests := []struct {
		name  string
		props []string
		want  bool
	}{
		{"debuggable", []string{"[ro.debuggable]: [1]"}, true},
		{"insecure", []string{"[ro.secure]: [0]"}, true},
		{"production values", []string{"[ro.debuggable]: [0]", "[ro.secure]: [1]"}, false},
		{"similar value", []string{"[ro.debuggable]: [10]"}, false},
		{"empty dump", []string{}, false},
		{"nil dump", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := cleanProbe()
			probe.Properties = tt.props
			e := New(nil, WithProbe(probe))

			f := findingFor(t, e.Evaluate(context.Background()), DetectorDangerousProps)
			assert.Equal(t, tt.want, f.Detected)
		})
	}
}

func TestDangerousProps_FromConfiguration(t *testing.T) {
	cfg := rootcfg.Default()
	cfg.DangerousProperties = map[string]string{"ro.adb.secure": "0"}

	probe := cleanProbe()
	probe.Properties = []string{"[ro.debuggable]: [1]", "[ro.adb.secure]: [0]"}
	e := New(nil, WithConfig(cfg), WithProbe(probe))

	f := findingFor(t, e.Evaluate(context.Background()), DetectorDangerousProps)
	assert.Equal(t, []string{"[ro.adb.secure]: [0]"}, f.Evidence)
}

func TestTestKeys_MissingTags(t *testing.T) {
	probe := cleanProbe()
	probe.Values = nil
	e := New(nil, WithProbe(probe))

	f := findingFor(t, e.Evaluate(context.Background()), DetectorTestKeys)
	assert.False(t, f.Detected)
}

func TestPackages_RootManagement(t *testing.T) {
	e := New(NewMockRegistry("com.noshufou.android.su"), WithProbe(cleanProbe()))
	f := findingFor(t, e.Evaluate(context.Background()), DetectorRootManagementApps)
	assert.True(t, f.Detected)
	assert.Equal(t, []string{"com.noshufou.android.su"}, f.Evidence)

	none := New(NewMockRegistry(), WithProbe(cleanProbe()))
	f = findingFor(t, none.Evaluate(context.Background()), DetectorRootManagementApps)
	assert.False(t, f.Detected)
}

func TestPackages_ReportsEveryInstalledID(t *testing.T) {
	registry := NewMockRegistry("eu.chainfire.supersu", "com.topjohnwu.magisk")
	e := New(registry, WithProbe(cleanProbe()))

	f := findingFor(t, e.Evaluate(context.Background()), DetectorRootManagementApps)
	assert.Equal(t, []string{"eu.chainfire.supersu", "com.topjohnwu.magisk"}, f.Evidence)
}

func TestPackages_RegistryErrorIsNoEvidence(t *testing.T) {
	registry := &MockRegistry{Err: errors.New("package service unavailable")}
	e := New(registry, WithProbe(cleanProbe()))

	assert.False(t, e.IsRooted(context.Background()))

	registry.Lookups = 0
	e.Evaluate(context.Background())
	// each package detector gives up after its first failed lookup
	assert.Equal(t, 3, registry.Lookups)
}

func TestPackages_NilRegistry(t *testing.T) {
	e := New(nil, WithProbe(cleanProbe()))
	assert.False(t, e.IsRooted(context.Background()))
}

func TestIsRooted_ShortCircuits(t *testing.T) {
	probe := cleanProbe()
	probe.Binaries = map[string]bool{"su": true}
	registry := cleanRegistry()
	e := New(registry, WithProbe(probe))

	assert.True(t, e.IsRooted(context.Background()))
	assert.Equal(t, 0, probe.CallsTo("ReadMounts"))
	assert.Equal(t, 0, registry.Lookups)
}

func TestEvaluate_RunsEveryDetector(t *testing.T) {
	probe := cleanProbe()
	probe.Binaries = map[string]bool{"su": true, "busybox": true}
	e := New(cleanRegistry(), WithProbe(probe))

	report := e.Evaluate(context.Background())
	assert.True(t, report.Rooted)
	assert.Len(t, report.Detected(), 2)
	assert.Equal(t, 1, probe.CallsTo("ReadMounts"))
	assert.NotEmpty(t, report.ID)
}

type panicProbe struct{}

func (panicProbe) BinaryExists([]string, string) bool { panic("stat exploded") }
func (panicProbe) ReadProperties(context.Context) []string { panic("getprop exploded") }
func (panicProbe) ReadProperty(context.Context, string) string { panic("getprop exploded") }
func (panicProbe) ReadMounts(context.Context) []string { panic("mount exploded") }
func (panicProbe) Which(context.Context, string) []string { panic("which exploded") }
func (panicProbe) Lookup(context.Context, string) (bool, error) { panic("pm exploded") }

func TestIsRooted_NeverPanics(t *testing.T) {
	tests := []struct {
		name     string
		probe    Probe
		registry PackageRegistry
	}{
		{"zero value probe", &MockProbe{}, nil},
		{"garbage output", &MockProbe{
			Properties: []string{"", "\x00\x01", "[ro.secure]"},
			Mounts:     []string{"a", "a b", "\t", "x y z"},
			Values:     map[string]string{BuildTagsProperty: ""},
		}, NewMockRegistry()},
		{"panicking probe", panicProbe{}, panicProbe{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.registry, WithProbe(tt.probe))
			assert.NotPanics(t, func() {
				assert.False(t, e.IsRooted(context.Background()))
				assert.False(t, e.Evaluate(context.Background()).Rooted)
			})
		})
	}
}

func TestWithDetectors(t *testing.T) {
	calls := 0
	custom := NewDetectorFunc("custom", CategoryBuild, func(context.Context) []string {
		calls++
		return []string{"custom evidence"}
	})

	e := New(nil, WithProbe(&MockProbe{}), WithDetectors(custom))

	assert.Equal(t, []string{"custom"}, e.Detectors())
	assert.True(t, e.IsRooted(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestDetectors_Order(t *testing.T) {
	e := New(nil, WithProbe(&MockProbe{}))
	assert.Equal(t, []string{
		DetectorSuBinary,
		DetectorBusyBoxBinary,
		DetectorTestKeys,
		DetectorDangerousProps,
		DetectorRWPaths,
		DetectorSuWhich,
		DetectorRootManagementApps,
		DetectorRootCloakingApps,
		DetectorDangerousApps,
	}, e.Detectors())
}

func TestIsRooted_Concurrent(t *testing.T) {
	probe := cleanProbe()
	probe.Mounts = append(probe.Mounts, "/dev/block/x /system ext4 rw 0 0")
	e := New(cleanRegistry(), WithProbe(probe))

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.IsRooted(context.Background())
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.True(t, r, "goroutine %d", i)
	}
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	var e *Evaluator
	require.NotPanics(t, func() {
		e = New(nil, WithConfig(nil), WithProbe(cleanProbe()))
	})

	assert.Equal(t, rootcfg.Default(), e.cfg)
	assert.False(t, e.IsRooted(context.Background()))
	assert.Len(t, e.Detectors(), 9)
}

func TestNew_InvalidConfigUsesDefaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *rootcfg.Configuration)
	}{
		{"zero timeout", func(cfg *rootcfg.Configuration) { cfg.CommandTimeout = 0 }},
		{"negative ttl", func(cfg *rootcfg.Configuration) { cfg.PackageListTTL = -time.Second }},
		{"no mount command", func(cfg *rootcfg.Configuration) { cfg.Commands.Mounts = nil }},
		{"overlapping package sets", func(cfg *rootcfg.Configuration) {
			cfg.Packages.Dangerous = append(cfg.Packages.Dangerous, "com.topjohnwu.magisk")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := rootcfg.Default()
			tt.mutate(cfg)

			e := New(nil, WithConfig(cfg), WithProbe(cleanProbe()))
			assert.Equal(t, rootcfg.Default(), e.cfg)

			d := NewDefault(cfg)
			assert.Equal(t, rootcfg.Default(), d.cfg)
		})
	}
}

func TestNewDefault_ZeroTimeoutFallsBack(t *testing.T) {
	cfg := rootcfg.Default()
	cfg.CommandTimeout = 0

	e := NewDefault(cfg)
	require.NoError(t, e.cfg.Validate())
	assert.Equal(t, rootcfg.DefaultCommandTimeout, e.cfg.CommandTimeout)
}

// TestIsRooted_SeesNewlyInstalledPackages runs two verdicts against the real
// package manager while the package list changes between them.
func TestIsRooted_SeesNewlyInstalledPackages(t *testing.T) {
	list := filepath.Join(t.TempDir(), "packages.txt")
	require.NoError(t, os.WriteFile(list, []byte("package:com.android.chrome\n"), 0o600))

	cfg := rootcfg.Default()
	cfg.Commands.PackageList = []string{"cat", list}
	cfg.PackageListTTL = time.Hour

	registry := rootprobe.NewPackageManager(rootprobe.New(cfg), cfg)
	e := New(registry, WithConfig(cfg), WithProbe(cleanProbe()))

	assert.False(t, e.IsRooted(context.Background()))
	assert.False(t, e.Evaluate(context.Background()).Rooted)

	require.NoError(t, os.WriteFile(list, []byte("package:com.android.chrome\npackage:com.topjohnwu.magisk\n"), 0o600))

	assert.True(t, e.IsRooted(context.Background()))
	f := findingFor(t, e.Evaluate(context.Background()), DetectorRootManagementApps)
	assert.Equal(t, []string{"com.topjohnwu.magisk"}, f.Evidence)
}

func TestEvaluator_InvalidatesRegistryPerCall(t *testing.T) {
	registry := cleanRegistry()
	e := New(registry, WithProbe(cleanProbe()))

	e.IsRooted(context.Background())
	e.Evaluate(context.Background())
	e.IsRooted(context.Background())

	assert.Equal(t, 3, registry.Invalidations)
}

// deviceProbe is a MockProbe that also describes the device.
type deviceProbe struct {
	*MockProbe
	info *rootprobe.DeviceInfo
	err  error
}

func (p *deviceProbe) Device(context.Context) (*rootprobe.DeviceInfo, error) {
	return p.info, p.err
}

func TestEvaluate_AttachesDevice(t *testing.T) {
	info := &rootprobe.DeviceInfo{Hostname: "localhost", OS: "android", KernelArch: "aarch64"}

	tests := []struct {
		name  string
		probe Probe
		want  *rootprobe.DeviceInfo
	}{
		{"device info", &deviceProbe{MockProbe: cleanProbe(), info: info}, info},
		{"device error", &deviceProbe{MockProbe: cleanProbe(), err: errors.New("no host info")}, nil},
		{"partial info with error", &deviceProbe{MockProbe: cleanProbe(), info: info, err: errors.New("no platform")}, info},
		{"probe without device support", cleanProbe(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(cleanRegistry(), WithProbe(tt.probe))

			report := e.Evaluate(context.Background())
			assert.Equal(t, tt.want, report.Device)
			assert.Len(t, report.Findings, 9)
			assert.False(t, report.Rooted)
		})
	}
}
