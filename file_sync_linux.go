//go:build linux

package ttl

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile issues fdatasync on Linux, skipping the inode metadata flush
// fsync would force, matching blob-logger/ssdio's direct-I/O write path.
func syncFile(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
