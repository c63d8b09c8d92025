package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/Ben-Lichtman/editr/internal/filestate"
	"github.com/Ben-Lichtman/editr/internal/filetable"
	"github.com/Ben-Lichtman/editr/internal/outbound"
	"github.com/Ben-Lichtman/editr/internal/protocol"
	"github.com/Ben-Lichtman/editr/internal/session"
)

// Listener accepts connections on one address and spawns a session
// worker per connection, all sharing the same file and outbound tables.
// It does no request handling itself; that is entirely the session
// package's job.
type Listener struct {
	Home  string // already-canonicalized home directory
	Addr  string
	Log   *slog.Logger
	Files *filetable.Table
	Out   *outbound.Table

	mu        sync.Mutex
	boundAddr string
	ready     chan struct{}
}

// New returns a Listener sharing fresh FileTable/OutboundTable instances.
func New(home, addr string, log *slog.Logger) *Listener {
	return &Listener{
		Home:  home,
		Addr:  addr,
		Log:   log,
		Files: filetable.New(),
		Out:   outbound.New(),
		ready: make(chan struct{}),
	}
}

// BoundAddr blocks until Run has bound its listening socket, then
// returns the actual address it bound (useful when Addr requests an
// OS-assigned port via ":0").
func (l *Listener) BoundAddr() string {
	<-l.ready
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.boundAddr
}

// Run binds Addr and accepts connections until ctx is cancelled or a
// fatal accept error occurs. Each accepted connection is handed to a new
// goroutine running a Session; the listener itself never blocks on a
// session's lifetime.
func (l *Listener) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", l.Addr)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.boundAddr = ln.Addr().String()
	l.mu.Unlock()
	close(l.ready)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	l.Log.Info("listening", "addr", l.Addr, "home", l.Home)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer conn.Close()

	id := filestate.SessionID(uuid.NewString())
	log := l.Log.With("remote", conn.RemoteAddr().String())

	sess := session.New(id, l.Home, l.Files, l.Out, frameWriter{conn}, log)
	if err := sess.Run(conn); err != nil {
		log.Warn("session ended", "error", err)
	}
}

// frameWriter sends each Write's payload as one length-prefixed frame.
type frameWriter struct{ w io.Writer }

func (f frameWriter) Write(p []byte) (int, error) {
	if err := protocol.WriteFrame(f.w, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
