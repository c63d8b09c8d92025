package filetable

import (
	"os"
	"path/filepath"
)

// persistFile replaces path with data, atomically from the perspective
// of any other reader: it writes to a sibling temp file, fsyncs it, and
// renames it over path. withFileLock additionally guards the rename
// against a concurrent writer outside this process (unix only; a no-op
// elsewhere).
func persistFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".editr-flush-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return withFileLock(path, func() error {
		return os.Rename(tmpName, path)
	})
}
