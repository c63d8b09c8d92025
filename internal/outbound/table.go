package outbound

import (
	"io"
	"sync"

	"github.com/Ben-Lichtman/editr/internal/filestate"
)

// sink serializes writes to one session's connection.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(data)
	return err
}

// Table is the shared session-id -> outbound-sink mapping.
type Table struct {
	mu    sync.RWMutex
	sinks map[filestate.SessionID]*sink
}

// New returns an empty outbound table.
func New() *Table {
	return &Table{sinks: make(map[filestate.SessionID]*sink)}
}

// Register inserts id's sink. Called once, on connection accept.
func (t *Table) Register(id filestate.SessionID, w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sinks[id] = &sink{w: w}
}

// Unregister removes id's sink. Called once, on disconnect. It is safe
// to call even if id was never registered.
func (t *Table) Unregister(id filestate.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sinks, id)
}

// Send writes data to id's sink. Concurrent sends to distinct ids never
// block one another; concurrent sends to the same id serialize.
func (t *Table) Send(id filestate.SessionID, data []byte) error {
	t.mu.RLock()
	s, ok := t.sinks[id]
	t.mu.RUnlock()

	if !ok {
		return ErrUnknownSession
	}
	return s.write(data)
}
