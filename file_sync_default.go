//go:build !linux

package ttl

import "os"

// syncFile falls back to the portable fsync everywhere Fdatasync isn't
// available.
func syncFile(f *os.File) error {
	return f.Sync()
}
