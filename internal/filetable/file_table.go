package filetable

import (
	"os"
	"sync"

	"github.com/Ben-Lichtman/editr/internal/filestate"
	"github.com/Ben-Lichtman/editr/internal/rope"
)

// Table is the shared canonical-path -> filestate.State mapping. The
// zero value is not usable; use New.
type Table struct {
	mu    sync.RWMutex
	files map[string]*filestate.State
}

// New returns an empty file table.
func New() *Table {
	return &Table{files: make(map[string]*filestate.State)}
}

// Contains reports whether path currently has at least one session
// attached.
func (t *Table) Contains(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.files[path]
	return ok
}

// Open attaches session id to path, loading path from disk into a fresh
// rope on first open. The load-then-insert sequence runs under the
// table's write lock so two sessions racing to open the same new file
// can never load it twice.
func (t *Table) Open(path string, id filestate.SessionID, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.files[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		state = filestate.New(rope.FromBytes(data))
		t.files[path] = state
	}

	state.AddSession(id, name)
	return nil
}

// Close detaches id from path. If that leaves no sessions attached, the
// entry is removed from the table entirely.
func (t *Table) Close(path string, id filestate.SessionID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.files[path]
	if !ok {
		return ErrNotOpen
	}

	state.RemoveSession(id)
	if state.IsEmpty() {
		delete(t.files, path)
	}
	return nil
}

// lookup returns the state for path under the table's read lock.
func (t *Table) lookup(path string) (*filestate.State, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.files[path]
	if !ok {
		return nil, ErrNotOpen
	}
	return state, nil
}

// Read returns the bytes in [from, to) of the open file at path.
func (t *Table) Read(path string, from, to int) ([]byte, error) {
	state, err := t.lookup(path)
	if err != nil {
		return nil, err
	}
	return state.Read(from, to)
}

// Write inserts data at offset in the open file at path.
func (t *Table) Write(path string, offset int, data []byte) error {
	state, err := t.lookup(path)
	if err != nil {
		return err
	}
	return state.Write(offset, data)
}

// Remove deletes [offset, offset+length) from the open file at path.
func (t *Table) Remove(path string, offset, length int) error {
	state, err := t.lookup(path)
	if err != nil {
		return err
	}
	return state.Remove(offset, length)
}

// MoveCursor shifts id's cursor in path by delta, clamped to the file's
// bounds. An unknown session id is a no-op.
func (t *Table) MoveCursor(path string, id filestate.SessionID, delta int) error {
	state, err := t.lookup(path)
	if err != nil {
		return err
	}
	state.MoveCursor(id, delta)
	return nil
}

// WriteAtCursor inserts data at id's cursor in path.
func (t *Table) WriteAtCursor(path string, id filestate.SessionID, data []byte) (int, error) {
	state, err := t.lookup(path)
	if err != nil {
		return 0, err
	}
	return state.WriteAtCursor(id, data)
}

// RemoveAtCursor removes length bytes at id's cursor in path.
func (t *Table) RemoveAtCursor(path string, id filestate.SessionID, length int) (int, error) {
	state, err := t.lookup(path)
	if err != nil {
		return 0, err
	}
	return state.RemoveAtCursor(id, length)
}

// GetCursors returns id's own offset and every other attached session's
// cursor for path.
func (t *Table) GetCursors(path string, id filestate.SessionID) (own int, others []filestate.Cursor, err error) {
	state, err := t.lookup(path)
	if err != nil {
		return 0, nil, err
	}
	return state.GetCursors(id)
}

// ForEachSession invokes f for every session attached to path. It is a
// no-op if path is not open.
func (t *Table) ForEachSession(path string, f func(filestate.SessionID)) {
	state, err := t.lookup(path)
	if err != nil {
		return
	}
	state.ForEachSession(f)
}

// Flush flattens path's rope and atomically replaces the on-disk file
// with its exact current contents.
func (t *Table) Flush(path string) error {
	state, err := t.lookup(path)
	if err != nil {
		return err
	}
	return state.WithFlushLock(func(data []byte) error {
		return persistFile(path, data)
	})
}
