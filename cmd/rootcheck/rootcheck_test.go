package main

import "testing"

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	want := map[string]bool{"version": false, "check": false, "serve": false, "mcp": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand %s", name)
		}
	}
}
