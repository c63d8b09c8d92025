package protocol

import "errors"

// ErrParse is returned when an inbound frame cannot be decoded into a
// Request: invalid JSON, an unrecognised kind, or a malformed field.
// A single parse failure does not end the session; see the session
// package for the consecutive-failure bound that does.
var ErrParse = errors.New("protocol: malformed frame")
