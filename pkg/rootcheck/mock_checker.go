package rootcheck

import (
	"context"
	"sync"
	"time"
)

// MockChecker is a test double for Checker.
// It allows configuring return values and tracks calls.
type MockChecker struct {
	mu sync.Mutex

	// Rooted determines what IsRooted returns
	Rooted bool

	// Findings are returned inside the Report from Evaluate
	Findings []Finding

	// Names is returned from Detectors
	Names []string

	// CallCount tracks how many times IsRooted or Evaluate was called
	CallCount int
}

// NewMockChecker creates a mock that reports rooted
func NewMockChecker(rooted bool) *MockChecker {
	return &MockChecker{Rooted: rooted}
}

// IsRooted implements Checker.
func (m *MockChecker) IsRooted(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	return m.Rooted
}

// Evaluate implements Checker.
func (m *MockChecker) Evaluate(_ context.Context) *Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++

	findings := make([]Finding, len(m.Findings))
	copy(findings, m.Findings)

	return &Report{
		ID:        "mock",
		Timestamp: time.Now(),
		Rooted:    m.Rooted,
		Findings:  findings,
	}
}

// Detectors implements Checker.
func (m *MockChecker) Detectors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Names...)
}

// GetCallCount returns the number of evaluations performed
func (m *MockChecker) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset clears the call count and restores default values
func (m *MockChecker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.Rooted = false
	m.Findings = nil
	m.Names = nil
}
