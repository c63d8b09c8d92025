package rope

import "errors"

// Sentinel errors returned by Rope operations.
var (
	// ErrOutOfRange is returned when an offset or range falls outside
	// [0, Len()], or a range is given with from > to.
	ErrOutOfRange = errors.New("rope: offset out of range")

	// ErrLockPoisoned is returned by every subsequent InsertAt,
	// RemoveRange, Flatten or Collect on a Rope after a mutating
	// operation panicked while holding the write lock.
	ErrLockPoisoned = errors.New("rope: lock poisoned by earlier panic")
)
