//go:build unix

package filetable

import (
	"os"

	"golang.org/x/sys/unix"
)

// withFileLock takes an exclusive advisory lock on path (creating it if
// missing) for the duration of fn, so a flush racing an external writer
// to the same path can't interleave with it.
func withFileLock(path string, fn func() error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		// The lock file could not be opened or created; proceed
		// without the lock rather than failing the flush outright.
		return fn()
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err == nil {
		defer unix.Flock(int(f.Fd()), unix.LOCK_UN)
	}
	return fn()
}
