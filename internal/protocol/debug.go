package protocol

import "github.com/tidwall/pretty"

// DebugString returns frame reformatted for human-readable debug
// logging. Invalid JSON is returned unchanged.
func DebugString(frame []byte) string {
	return string(pretty.Pretty(frame))
}
