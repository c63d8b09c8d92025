// Package rope provides a mutable rope data structure for efficient
// in-memory text storage under concurrent access.
//
// A rope is a binary tree over byte runs: leaves hold contiguous byte
// buffers, internal nodes cache the size of their left subtree and the
// total subtree size so that offset-addressed operations can descend in
// O(log n) without rescanning siblings. Unlike a persistent/copy-on-write
// rope, this implementation mutates the tree in place under a
// single-writer, multiple-reader lock: readers see a consistent view for
// the duration of their call, and a writer has exclusive access to the
// whole structure while it edits.
//
// # Basic usage
//
//	r := rope.New()
//	r.InsertAt(0, []byte("hello"))
//	r.InsertAt(5, []byte(", world"))
//	b, _ := r.Collect(0, r.Len())  // "hello, world"
//
// # Concurrency
//
// A *Rope is safe for concurrent use. InsertAt, RemoveRange and Flatten
// take the write lock; Len, Collect and Search take the read lock. If a
// mutating call panics while holding the write lock, the Rope is marked
// poisoned and every subsequent InsertAt, RemoveRange, Flatten or Collect
// returns ErrLockPoisoned (Len and Search do not check) — this mirrors a
// poisoned mutex rather than leaving the tree in a half-edited state that
// looks usable.
package rope
