package rootcheck

import "context"

// Category groups detectors by the data source they inspect.
type Category string

const (
	CategoryBuild      Category = "build"
	CategoryProperties Category = "properties"
	CategoryBinaries   Category = "binaries"
	CategoryMounts     Category = "mounts"
	CategoryPackages   Category = "packages"
)

// Detector names, as used in logs and reports.
const (
	DetectorSuBinary           = "su_binary"
	DetectorBusyBoxBinary      = "busybox_binary"
	DetectorTestKeys           = "test_keys"
	DetectorDangerousProps     = "dangerous_props"
	DetectorRWPaths            = "rw_paths"
	DetectorSuWhich            = "su_which"
	DetectorRootManagementApps = "root_management_apps"
	DetectorRootCloakingApps   = "root_cloaking_apps"
	DetectorDangerousApps      = "dangerous_apps"
)

// Finding is the outcome of a single detector.
type Finding struct {
	Detector string   `json:"detector"`
	Category Category `json:"category"`
	Detected bool     `json:"detected"`
	Evidence []string `json:"evidence,omitempty"`
}

// Detector is one independent root heuristic.
type Detector interface {
	Name() string
	Category() Category
	Detect(ctx context.Context) Finding
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc struct {
	name     string
	category Category
	fn       func(ctx context.Context) []string
}

// NewDetectorFunc builds a detector that fires when fn returns any evidence.
func NewDetectorFunc(name string, category Category, fn func(ctx context.Context) []string) *DetectorFunc {
	return &DetectorFunc{name: name, category: category, fn: fn}
}

// Name implements Detector.
func (d *DetectorFunc) Name() string { return d.name }

// Category implements Detector.
func (d *DetectorFunc) Category() Category { return d.category }

// Detect implements Detector.
func (d *DetectorFunc) Detect(ctx context.Context) Finding {
	evidence := d.fn(ctx)
	return Finding{
		Detector: d.name,
		Category: d.category,
		Detected: len(evidence) > 0,
		Evidence: evidence,
	}
}
