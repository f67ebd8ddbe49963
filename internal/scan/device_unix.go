//go:build unix

package scan

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// deviceOf extracts the device id from lstat info.
func deviceOf(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}

	return uint64(st.Dev), true //nolint:unconvert // Dev is int32 on darwin
}

// rootDevice resolves the device id of path, following a symlinked root.
func rootDevice(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}

	return uint64(st.Dev), nil //nolint:unconvert // Dev is int32 on darwin
}
