// Package filetable maps canonical absolute paths to the in-memory
// filestate.State of the files currently open by at least one session.
//
// The table itself is guarded by a single reader/writer lock; a write
// lock is only taken by Open and Close, the two operations that can
// insert a file on first open or remove it on last close. Every other
// operation — reads, writes, cursor moves —
// takes only the table's read lock and then relies on the State's own,
// finer-grained locking, so two sessions editing different files never
// contend on the table.
package filetable
