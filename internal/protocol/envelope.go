package protocol

import (
	"encoding/base64"

	"github.com/tidwall/sjson"
)

// Envelope incrementally builds a JSON reply or update frame, one field
// set at a time. The zero value is not usable; use NewEnvelope.
type Envelope struct {
	data []byte
	err  error
}

// NewEnvelope starts an envelope tagged with the given kind.
func NewEnvelope(kind Kind) *Envelope {
	return (&Envelope{data: []byte("{}")}).set("kind", string(kind))
}

func (e *Envelope) set(path string, value any) *Envelope {
	if e.err != nil {
		return e
	}
	out, err := sjson.SetBytes(e.data, path, value)
	if err != nil {
		e.err = err
		return e
	}
	e.data = out
	return e
}

// OK marks the envelope as a successful reply.
func (e *Envelope) OK() *Envelope { return e.set("ok", true) }

// Err marks the envelope as a failed reply carrying a stringified
// error, per the ok/err wrapper contract for mutation requests.
func (e *Envelope) Err(msg string) *Envelope {
	return e.set("ok", false).set("error", msg)
}

// Bytes sets field to the base64 encoding of data.
func (e *Envelope) Bytes(field string, data []byte) *Envelope {
	return e.set(field, base64.StdEncoding.EncodeToString(data))
}

// Int sets field to an integer value.
func (e *Envelope) Int(field string, v int) *Envelope { return e.set(field, v) }

// Strings sets field to a list of strings.
func (e *Envelope) Strings(field string, v []string) *Envelope { return e.set(field, v) }

// Value sets field to an arbitrary JSON-marshalable value.
func (e *Envelope) Value(field string, v any) *Envelope { return e.set(field, v) }

// Build returns the finished frame, or the first error encountered
// while building it.
func (e *Envelope) Build() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.data, nil
}

// CursorInfo is the wire shape of one entry in a get_cursors reply.
type CursorInfo struct {
	Offset int    `json:"offset"`
	Name   string `json:"name,omitempty"`
}

// Update kinds for the broadcast envelope delivered to peers.
const (
	KindUpdateAdd    Kind = "update_add"
	KindUpdateRemove Kind = "update_remove"
)

// BuildUpdateAdd builds the broadcast frame for a successful write.
func BuildUpdateAdd(offset int, data []byte) ([]byte, error) {
	return NewEnvelope(KindUpdateAdd).Int("offset", offset).Bytes("bytes", data).Build()
}

// BuildUpdateRemove builds the broadcast frame for a successful remove.
func BuildUpdateRemove(offset, length int) ([]byte, error) {
	return NewEnvelope(KindUpdateRemove).Int("offset", offset).Int("len", length).Build()
}
