// Package outbound implements the shared, session-id-keyed table of
// write sinks that lets one session deliver a broadcast update to
// another session's connection without ever touching that session's
// document lock.
//
// Writes to different sessions proceed in parallel; writes to the same
// session serialize on that session's own sink lock, so a session's
// outbound stream never interleaves two concurrent broadcasts into a
// corrupted frame.
package outbound
