package check

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

func TestCmd_FlagsExist(t *testing.T) {
	for _, name := range []string{"all", "json", "exit-code", "config", "env-file", "verbose"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "a", Cmd.Flags().Lookup("all").Shorthand)
}

func TestCheck_Verdict(t *testing.T) {
	tests := []struct {
		name   string
		rooted bool
		want   string
	}{
		{"rooted", true, "Device is likely rooted."},
		{"clean", false, "No indication of root found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rooted, err := check(context.Background(), rootcheck.NewMockChecker(tt.rooted), &out, false, false)
			require.NoError(t, err)
			assert.Equal(t, tt.rooted, rooted)
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}
}

func TestCheck_VerdictJSON(t *testing.T) {
	var out bytes.Buffer
	rooted, err := check(context.Background(), rootcheck.NewMockChecker(true), &out, false, true)
	require.NoError(t, err)
	assert.True(t, rooted)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got["rooted"])
}

func TestCheck_AllText(t *testing.T) {
	mock := &rootcheck.MockChecker{
		Rooted: true,
		Findings: []rootcheck.Finding{
			{Detector: rootcheck.DetectorSuBinary, Category: rootcheck.CategoryBinaries, Detected: true, Evidence: []string{"/system/xbin/su"}},
			{Detector: rootcheck.DetectorTestKeys, Category: rootcheck.CategoryBuild},
		},
	}

	var out bytes.Buffer
	rooted, err := check(context.Background(), mock, &out, true, false)
	require.NoError(t, err)
	assert.True(t, rooted)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "DETECTED")
	assert.Contains(t, lines[0], "/system/xbin/su")
	assert.Contains(t, lines[1], "clean")
	assert.Equal(t, "Device is likely rooted.", lines[3])
	assert.Equal(t, 1, mock.GetCallCount())
}

func TestCheck_AllJSON(t *testing.T) {
	mock := &rootcheck.MockChecker{
		Findings: []rootcheck.Finding{{Detector: rootcheck.DetectorTestKeys, Category: rootcheck.CategoryBuild}},
	}

	var out bytes.Buffer
	rooted, err := check(context.Background(), mock, &out, true, true)
	require.NoError(t, err)
	assert.False(t, rooted)

	var report rootcheck.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "mock", report.ID)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, rootcheck.DetectorTestKeys, report.Findings[0].Detector)
}
