package session

import (
	"errors"
	"os"

	"github.com/tidwall/match"

	"github.com/Ben-Lichtman/editr/internal/filestate"
	"github.com/Ben-Lichtman/editr/internal/protocol"
)

func (s *Session) handleEcho(req protocol.Request) []byte {
	frame, err := protocol.NewEnvelope(protocol.KindEcho).Bytes("bytes", req.Bytes).Build()
	if err != nil {
		s.log.Error("failed to encode echo reply", "error", err)
		return nil
	}
	return frame
}

// handleFilesList lists the regular files directly under the session's
// home directory (never recursive) whose name matches req.Pattern,
// defaulting to "*" when the client sends no pattern.
func (s *Session) handleFilesList(req protocol.Request) []byte {
	entries, err := os.ReadDir(s.canonicalHome)
	if err != nil {
		return s.filesListError(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !match.Match(entry.Name(), req.Pattern) {
			continue
		}
		names = append(names, entry.Name())
	}

	frame, buildErr := protocol.NewEnvelope(protocol.KindFilesList).OK().Strings("files", names).Build()
	if buildErr != nil {
		s.log.Error("failed to encode files_list reply", "error", buildErr)
		return nil
	}
	return frame
}

func (s *Session) filesListError(err error) []byte {
	frame, buildErr := protocol.NewEnvelope(protocol.KindFilesList).Err(err.Error()).Build()
	if buildErr != nil {
		s.log.Error("failed to encode files_list error reply", "error", buildErr)
		return nil
	}
	return frame
}

// handleCreate creates a new, empty regular file under home, failing if
// one already exists at that name.
func (s *Session) handleCreate(req protocol.Request) []byte {
	path, err := s.canonicalize(req.Name)
	if err == nil {
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if openErr != nil {
			err = openErr
		} else {
			_ = f.Close()
		}
	}
	return s.okEnvelope(protocol.KindCreate, err)
}

// handleDelete removes a file under home, refusing while any session
// has it open.
func (s *Session) handleDelete(req protocol.Request) []byte {
	path, err := s.canonicalize(req.Name)
	if err == nil {
		if s.files.Contains(path) {
			err = ErrBusy
		} else {
			err = os.Remove(path)
		}
	}
	return s.okEnvelope(protocol.KindDelete, err)
}

// handleRename renames a file under home, refusing if the source is
// open or the destination already exists.
func (s *Session) handleRename(req protocol.Request) []byte {
	from, err := s.canonicalize(req.Name)
	var to string
	if err == nil {
		to, err = s.canonicalize(req.To)
	}
	if err == nil {
		if s.files.Contains(from) {
			err = ErrBusy
		} else if _, statErr := os.Stat(to); statErr == nil {
			err = os.ErrExist
		} else if !errors.Is(statErr, os.ErrNotExist) {
			err = statErr
		}
	}
	if err == nil {
		err = os.Rename(from, to)
	}
	return s.okEnvelope(protocol.KindRename, err)
}

// handleOpen detaches any file the session currently has open, then
// canonicalises and opens the requested one, remembering an optional
// client-supplied display name for the session's cursor entry.
func (s *Session) handleOpen(req protocol.Request) []byte {
	if s.hasOpen {
		if err := s.files.Close(s.openPath, s.id); err != nil {
			s.log.Error("failed to close previously open file", "path", s.openPath, "error", err)
		}
		s.hasOpen = false
	}

	path, err := s.canonicalize(req.Name)
	if err != nil {
		return s.okEnvelope(protocol.KindOpen, err)
	}

	if err := s.files.Open(path, s.id, req.DisplayName); err != nil {
		return s.okEnvelope(protocol.KindOpen, err)
	}

	s.openPath = path
	s.openDisplayName = req.DisplayName
	s.hasOpen = true

	frame, buildErr := protocol.NewEnvelope(protocol.KindOpen).OK().Value("path", path).Build()
	if buildErr != nil {
		s.log.Error("failed to encode open reply", "error", buildErr)
		return nil
	}
	return frame
}

func (s *Session) handleClose(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindClose, ErrNoFileOpen)
	}
	err := s.files.Close(s.openPath, s.id)
	if err == nil {
		s.hasOpen = false
		s.openPath = ""
		s.openDisplayName = ""
	}
	return s.okEnvelope(protocol.KindClose, err)
}

func (s *Session) handleWrite(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindWrite, ErrNoFileOpen)
	}
	if err := s.files.Write(s.openPath, req.Offset, req.Bytes); err != nil {
		return s.okEnvelope(protocol.KindWrite, err)
	}
	s.broadcastAdd(req.Offset, req.Bytes)
	return s.okEnvelope(protocol.KindWrite, nil)
}

func (s *Session) handleRemove(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindRemove, ErrNoFileOpen)
	}
	if err := s.files.Remove(s.openPath, req.Offset, req.Len); err != nil {
		return s.okEnvelope(protocol.KindRemove, err)
	}
	s.broadcastRemove(req.Offset, req.Len)
	return s.okEnvelope(protocol.KindRemove, nil)
}

func (s *Session) handleRead(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindRead, ErrNoFileOpen)
	}
	data, err := s.files.Read(s.openPath, req.Offset, req.Offset+req.Len)
	if err != nil {
		return s.okEnvelope(protocol.KindRead, err)
	}
	frame, buildErr := protocol.NewEnvelope(protocol.KindRead).OK().Bytes("bytes", data).Build()
	if buildErr != nil {
		s.log.Error("failed to encode read reply", "error", buildErr)
		return nil
	}
	return frame
}

func (s *Session) handleSave(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindSave, ErrNoFileOpen)
	}
	return s.okEnvelope(protocol.KindSave, s.files.Flush(s.openPath))
}

func (s *Session) handleMoveCursor(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindMoveCursor, ErrNoFileOpen)
	}
	return s.okEnvelope(protocol.KindMoveCursor, s.files.MoveCursor(s.openPath, s.id, req.Delta))
}

func (s *Session) handleWriteAtCursor(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindWriteAtCursor, ErrNoFileOpen)
	}
	offset, err := s.files.WriteAtCursor(s.openPath, s.id, req.Bytes)
	if err != nil {
		return s.okEnvelope(protocol.KindWriteAtCursor, err)
	}
	s.broadcastAdd(offset, req.Bytes)
	return s.okEnvelope(protocol.KindWriteAtCursor, nil)
}

func (s *Session) handleRemoveAtCursor(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindRemoveAtCursor, ErrNoFileOpen)
	}
	offset, err := s.files.RemoveAtCursor(s.openPath, s.id, req.Len)
	if err != nil {
		return s.okEnvelope(protocol.KindRemoveAtCursor, err)
	}
	s.broadcastRemove(offset, req.Len)
	return s.okEnvelope(protocol.KindRemoveAtCursor, nil)
}

func (s *Session) handleGetCursors(req protocol.Request) []byte {
	if !s.hasOpen {
		return s.okEnvelope(protocol.KindGetCursors, ErrNoFileOpen)
	}
	own, others, err := s.files.GetCursors(s.openPath, s.id)
	if err != nil {
		return s.okEnvelope(protocol.KindGetCursors, err)
	}

	infos := make([]protocol.CursorInfo, 0, len(others))
	for _, c := range others {
		name := ""
		if c.Named {
			name = c.Name
		}
		infos = append(infos, protocol.CursorInfo{Offset: c.Offset, Name: name})
	}

	frame, buildErr := protocol.NewEnvelope(protocol.KindGetCursors).OK().
		Int("offset", own).
		Value("others", infos).
		Build()
	if buildErr != nil {
		s.log.Error("failed to encode get_cursors reply", "error", buildErr)
		return nil
	}
	return frame
}

// broadcastAdd delivers an update_add frame to every other session with
// the currently open file attached. A delivery failure to one recipient
// is logged and does not affect delivery to the rest, nor the
// originating reply.
func (s *Session) broadcastAdd(offset int, data []byte) {
	frame, err := protocol.BuildUpdateAdd(offset, data)
	if err != nil {
		s.log.Error("failed to encode broadcast", "error", err)
		return
	}
	s.broadcast(frame)
}

func (s *Session) broadcastRemove(offset, length int) {
	frame, err := protocol.BuildUpdateRemove(offset, length)
	if err != nil {
		s.log.Error("failed to encode broadcast", "error", err)
		return
	}
	s.broadcast(frame)
}

func (s *Session) broadcast(frame []byte) {
	s.files.ForEachSession(s.openPath, func(id filestate.SessionID) {
		if id == s.id {
			return
		}
		if err := s.outbound.Send(id, frame); err != nil {
			s.log.Warn("failed to deliver broadcast", "recipient", string(id), "error", err)
		}
	})
}
