// Package filestate owns one open file's rope together with the set of
// sessions currently editing it and their cursors.
//
// Every operation that mutates the rope also shifts the cursors of every
// attached session under the same critical section, so no session ever
// observes a cursor that is stale relative to the rope it addresses
// (spec invariant: a cursor at or after an edit's start offset moves by
// the edit's size, and a removal never moves it below the start offset;
// one before the start offset does not move).
package filestate
