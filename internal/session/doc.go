// Package session implements the per-connection worker: it reads framed
// requests from one client, authorises file-scoped requests against a
// sandboxed home directory, dispatches into the shared FileTable, and
// emits broadcast updates to every other session with the same file open.
//
// One Session exists per accepted connection and is never shared across
// goroutines; all cross-session coordination happens through the shared
// filetable.Table and outbound.Table passed in at construction.
package session
