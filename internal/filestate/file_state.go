package filestate

import (
	"sync"

	"github.com/Ben-Lichtman/editr/internal/rope"
)

// State wraps one open file's rope and the cursors of every session
// currently attached to it.
type State struct {
	mu       sync.RWMutex // guards cursors; taken before the rope's own lock
	cursors  map[SessionID]*Cursor
	document *rope.Rope

	flushMu sync.Mutex // serializes concurrent flushes of this file
}

// New wraps r as a freshly opened file with no attached sessions.
func New(r *rope.Rope) *State {
	return &State{
		cursors:  make(map[SessionID]*Cursor),
		document: r,
	}
}

// AddSession attaches id to this file with cursor 0. name may be empty,
// meaning the session has no display name.
func (s *State) AddSession(id SessionID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[id] = &Cursor{Name: name, Named: name != ""}
}

// RemoveSession detaches id from this file.
func (s *State) RemoveSession(id SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cursors, id)
}

// IsEmpty reports whether any session is still attached.
func (s *State) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cursors) == 0
}

// ForEachSession invokes f for every attached session id. f must not
// call back into this State.
func (s *State) ForEachSession(f func(SessionID)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.cursors {
		f(id)
	}
}

// Len returns the current rope length.
func (s *State) Len() int {
	return s.document.Len()
}

// Read returns the bytes in [from, to).
func (s *State) Read(from, to int) ([]byte, error) {
	return s.document.Collect(from, to)
}

// Write inserts data at offset and shifts every attached cursor.
func (s *State) Write(offset int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.document.InsertAt(offset, data); err != nil {
		return err
	}
	for _, c := range s.cursors {
		c.Offset = shiftForInsert(offset, len(data), c.Offset)
	}
	return nil
}

// Remove deletes [offset, offset+length) and shifts every attached
// cursor, collapsing any cursor inside the removed range to offset.
func (s *State) Remove(offset, length int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.document.RemoveRange(offset, offset+length); err != nil {
		return err
	}
	for _, c := range s.cursors {
		c.Offset = shiftForRemove(offset, length, c.Offset)
	}
	return nil
}

// MoveCursor shifts id's cursor by the signed delta, clamped to
// [0, Len()]. An unknown id is a no-op, not an error.
func (s *State) MoveCursor(id SessionID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cursors[id]
	if !ok {
		return
	}
	c.Offset = clamp(c.Offset+delta, 0, s.document.Len())
}

// WriteAtCursor inserts data at id's current cursor offset and returns
// the offset written at.
func (s *State) WriteAtCursor(id SessionID, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cursors[id]
	if !ok {
		return 0, ErrUnknownSession
	}

	offset := c.Offset
	if err := s.document.InsertAt(offset, data); err != nil {
		return 0, err
	}
	for _, other := range s.cursors {
		other.Offset = shiftForInsert(offset, len(data), other.Offset)
	}
	return offset, nil
}

// RemoveAtCursor removes length bytes starting at id's cursor and
// returns the offset the removal started at.
func (s *State) RemoveAtCursor(id SessionID, length int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cursors[id]
	if !ok {
		return 0, ErrUnknownSession
	}

	offset := c.Offset
	if err := s.document.RemoveRange(offset, offset+length); err != nil {
		return 0, err
	}
	for _, other := range s.cursors {
		other.Offset = shiftForRemove(offset, length, other.Offset)
	}
	return offset, nil
}

// GetCursors returns id's own offset and the offset/name of every other
// attached session.
func (s *State) GetCursors(id SessionID) (own int, others []Cursor, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cursors[id]
	if !ok {
		return 0, nil, ErrUnknownSession
	}

	others = make([]Cursor, 0, len(s.cursors)-1)
	for other, oc := range s.cursors {
		if other == id {
			continue
		}
		others = append(others, *oc)
	}
	return c.Offset, others, nil
}

// Flatten collapses the underlying rope into a single contiguous
// buffer, used right before persisting to disk.
func (s *State) Flatten() error {
	return s.document.Flatten()
}

// Bytes returns the full contents of the file, flattening first.
func (s *State) Bytes() ([]byte, error) {
	if err := s.document.Flatten(); err != nil {
		return nil, err
	}
	return s.document.Collect(0, s.document.Len())
}

// WithFlushLock flattens the rope and invokes persist with its full
// contents, serializing against any other flush of this same file so
// two callers can never interleave writes to the file on disk.
func (s *State) WithFlushLock(persist func(data []byte) error) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	data, err := s.Bytes()
	if err != nil {
		return err
	}
	return persist(data)
}
