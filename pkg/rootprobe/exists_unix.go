//go:build !windows

package rootprobe

import "golang.org/x/sys/unix"

// fileExists follows symlinks, so a dangling link does not count.
func fileExists(path string) bool {
	var st unix.Stat_t
	return unix.Stat(path, &st) == nil
}
