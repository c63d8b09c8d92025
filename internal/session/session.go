package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Ben-Lichtman/editr/internal/filestate"
	"github.com/Ben-Lichtman/editr/internal/filetable"
	"github.com/Ben-Lichtman/editr/internal/outbound"
	"github.com/Ben-Lichtman/editr/internal/protocol"
)

// Session is the per-connection worker. It owns no network socket
// directly — Run consumes frames from the given reader, and replies and
// broadcasts are both delivered through the shared OutboundTable under
// the session's own id, matching the single outbound-sink discipline
// every other session uses to reach this one.
type Session struct {
	id            filestate.SessionID
	canonicalHome string

	files    *filetable.Table
	outbound *outbound.Table
	log      *slog.Logger

	openPath        string
	openDisplayName string
	hasOpen         bool

	consecutiveParseErrors int
}

// New constructs a session and registers it in outbound under id. home
// must already be canonicalized (symlinks resolved, cleaned) by the
// caller; sink is where replies and broadcasts addressed to this
// session are written.
func New(id filestate.SessionID, home string, files *filetable.Table, outboundTable *outbound.Table, sink io.Writer, log *slog.Logger) *Session {
	outboundTable.Register(id, sink)
	return &Session{
		id:            id,
		canonicalHome: home,
		files:         files,
		outbound:      outboundTable,
		log:           log.With("session", string(id)),
	}
}

// Run drives the read-dispatch loop until the peer disconnects, a
// malformed frame streak reaches maxConsecutiveParseErrors, or a fatal
// read error occurs. It always unwinds the session's open file and
// outbound registration before returning, regardless of how it exits —
// a panic during dispatch is recovered here so one session's failure
// can never corrupt the shared tables or another session's state.
func (s *Session) Run(r io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("session panicked", "panic", p)
		}
		s.cleanup()
	}()

	for {
		frame, readErr := protocol.ReadFrame(r)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
		if s.log.Enabled(context.Background(), slog.LevelDebug) {
			s.log.Debug("received frame", "frame", protocol.DebugString(frame))
		}

		req, parseErr := protocol.ParseRequest(frame)
		if parseErr != nil {
			s.consecutiveParseErrors++
			s.log.Warn("malformed frame", "error", parseErr, "streak", s.consecutiveParseErrors)
			if s.consecutiveParseErrors >= maxConsecutiveParseErrors {
				return parseErr
			}
			continue
		}
		s.consecutiveParseErrors = 0

		reply := s.dispatch(req)
		if reply == nil {
			continue
		}
		if sendErr := s.outbound.Send(s.id, reply); sendErr != nil {
			s.log.Error("failed to deliver reply", "error", sendErr)
		}
	}
}

// cleanup detaches the session's open file (if any) and removes it
// from OutboundTable. Both steps are attempted unconditionally: a
// failure to close the file must never prevent the outbound entry from
// being removed.
func (s *Session) cleanup() {
	if s.hasOpen {
		if err := s.files.Close(s.openPath, s.id); err != nil {
			s.log.Error("failed to close file on exit", "path", s.openPath, "error", err)
		}
	}
	s.outbound.Unregister(s.id)
}

// dispatch routes one parsed request to its handler and returns the
// reply frame to send on this session's own sink, or nil if the
// request produces no reply (there are none at present, but handlers
// may legitimately return nil on an internal encode failure that was
// already logged).
func (s *Session) dispatch(req protocol.Request) []byte {
	switch req.Kind {
	case protocol.KindEcho:
		return s.handleEcho(req)
	case protocol.KindFilesList:
		return s.handleFilesList(req)
	case protocol.KindCreate:
		return s.handleCreate(req)
	case protocol.KindDelete:
		return s.handleDelete(req)
	case protocol.KindRename:
		return s.handleRename(req)
	case protocol.KindOpen:
		return s.handleOpen(req)
	case protocol.KindClose:
		return s.handleClose(req)
	case protocol.KindWrite:
		return s.handleWrite(req)
	case protocol.KindRemove:
		return s.handleRemove(req)
	case protocol.KindRead:
		return s.handleRead(req)
	case protocol.KindSave:
		return s.handleSave(req)
	case protocol.KindMoveCursor:
		return s.handleMoveCursor(req)
	case protocol.KindWriteAtCursor:
		return s.handleWriteAtCursor(req)
	case protocol.KindRemoveAtCursor:
		return s.handleRemoveAtCursor(req)
	case protocol.KindGetCursors:
		return s.handleGetCursors(req)
	default:
		s.log.Error("unhandled request kind reached dispatch", "kind", req.Kind)
		return nil
	}
}

// okEnvelope builds a bare ok/err reply of the given kind, logging and
// dropping the frame on the near-impossible event that sjson fails to
// encode it.
func (s *Session) okEnvelope(kind protocol.Kind, err error) []byte {
	e := protocol.NewEnvelope(kind)
	if err != nil {
		e = e.Err(clientMessage(err))
	} else {
		e = e.OK()
	}
	frame, buildErr := e.Build()
	if buildErr != nil {
		s.log.Error("failed to encode reply", "kind", kind, "error", buildErr)
		return nil
	}
	return frame
}

// clientMessage maps an internal error to the string a client should
// see. PathEscape and Busy carry the fixed wording the wire contract
// promises; every other failure is surfaced as its own Go error text.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, ErrPathEscape):
		return "Invalid file path"
	case errors.Is(err, ErrBusy):
		return "File is busy"
	default:
		return err.Error()
	}
}
