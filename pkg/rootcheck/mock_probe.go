package rootcheck

import (
	"context"
	"sync"
)

// MockProbe is a test double for Probe. The zero value reports nothing.
type MockProbe struct {
	mu sync.Mutex

	// Binaries maps a file name to whether it exists on any prefix
	Binaries map[string]bool

	// Properties is the property dump returned by ReadProperties
	Properties []string

	// Values maps property names to ReadProperty results
	Values map[string]string

	// Mounts is the mount table returned by ReadMounts
	Mounts []string

	// WhichOutput maps a binary to the output of Which
	WhichOutput map[string][]string

	// Calls counts calls per method name
	Calls map[string]int
}

func (m *MockProbe) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

// CallsTo returns how many times method was called.
func (m *MockProbe) CallsTo(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// BinaryExists implements Probe.
func (m *MockProbe) BinaryExists(_ []string, filename string) bool {
	m.record("BinaryExists")
	return m.Binaries[filename]
}

func (m *MockProbe) ReadProperties(_ context.Context) []string {
	m.record("ReadProperties")
	return m.Properties
}

func (m *MockProbe) ReadProperty(_ context.Context, name string) string {
	m.record("ReadProperty")
	return m.Values[name]
}

func (m *MockProbe) ReadMounts(_ context.Context) []string {
	m.record("ReadMounts")
	return m.Mounts
}

func (m *MockProbe) Which(_ context.Context, binary string) []string {
	m.record("Which")
	return m.WhichOutput[binary]
}

// MockRegistry is a test double for PackageRegistry.
type MockRegistry struct {
	mu sync.Mutex

	// Installed lists the package ids that resolve
	Installed map[string]bool

	// Err is returned from every Lookup when set
	Err error

	// Lookups tracks how many lookups were made
	Lookups int

	// Invalidations tracks how many times the evaluator dropped its snapshot
	Invalidations int
}

// NewMockRegistry creates a registry where ids are installed.
func NewMockRegistry(ids ...string) *MockRegistry {
	r := &MockRegistry{Installed: make(map[string]bool)}
	for _, id := range ids {
		r.Installed[id] = true
	}
	return r
}

// Lookup implements PackageRegistry.
func (r *MockRegistry) Lookup(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lookups++
	if r.Err != nil {
		return false, r.Err
	}
	return r.Installed[id], nil
}

// Invalidate records that the caller asked for a fresh package list.
func (r *MockRegistry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invalidations++
}
