package outbound

import "errors"

// ErrUnknownSession is returned when Send addresses a session id that
// has no registered sink — either it never connected or it has already
// disconnected.
var ErrUnknownSession = errors.New("outbound: unknown session")
