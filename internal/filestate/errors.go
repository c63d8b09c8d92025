package filestate

import "errors"

// ErrUnknownSession is returned by cursor operations addressed to a
// session id that is not attached to this file.
var ErrUnknownSession = errors.New("filestate: session not attached to this file")
