package session

import "errors"

var (
	// ErrPathEscape is returned when a user-supplied path resolves
	// outside the session's canonical home directory.
	ErrPathEscape = errors.New("session: path escapes home directory")

	// ErrBusy is returned by delete/rename when the target file is
	// currently open in some session.
	ErrBusy = errors.New("session: file is busy")

	// ErrNoFileOpen is returned by any request that requires an open
	// file when the session has none.
	ErrNoFileOpen = errors.New("session: no file open")
)

// maxConsecutiveParseErrors bounds how many malformed frames in a row a
// session tolerates before it gives up on the connection. A single bad
// frame is routine (a client racing a protocol change); an unbroken run
// of them means the stream itself is desynchronised and no further
// frame boundary can be trusted.
const maxConsecutiveParseErrors = 5
