package filetable

import "errors"

// ErrNotOpen is returned when an operation is addressed to a path that
// has no open entry in the table.
var ErrNotOpen = errors.New("filetable: file not open")
