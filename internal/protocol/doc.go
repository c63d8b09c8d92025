// Package protocol defines the wire message taxonomy described in the
// server's request/response/update tables and a concrete framing for
// it: a 4-byte big-endian length prefix followed by a JSON object.
//
// Frames are decoded and built with gjson/sjson rather than
// encoding/json's reflective struct tags, since the wire format is a
// closed tagged union dispatched on a single "kind" field rather than a
// fixed record shape — gjson's path queries read exactly the fields a
// given kind defines, and sjson's path sets build a reply without
// declaring a struct per reply shape.
package protocol
