// Package server implements the Listener: the minimal accept loop that
// binds a TCP address, spawns one session goroutine per connection, and
// shares a single FileTable and OutboundTable across every session it
// spawns.
package server
