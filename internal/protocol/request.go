package protocol

import (
	"encoding/base64"
	"fmt"

	"github.com/tidwall/gjson"
)

// Kind tags the wire request taxonomy.
type Kind string

// The request kinds the server understands, one per row of the request
// taxonomy table.
const (
	KindEcho           Kind = "echo"
	KindFilesList      Kind = "files_list"
	KindCreate         Kind = "create"
	KindDelete         Kind = "delete"
	KindRename         Kind = "rename"
	KindOpen           Kind = "open"
	KindClose          Kind = "close"
	KindWrite          Kind = "write"
	KindRemove         Kind = "remove"
	KindRead           Kind = "read"
	KindSave           Kind = "save"
	KindMoveCursor     Kind = "move_cursor"
	KindWriteAtCursor  Kind = "write_at_cursor"
	KindRemoveAtCursor Kind = "remove_at_cursor"
	KindGetCursors     Kind = "get_cursors"
)

// Request is the decoded form of one inbound frame. Only the fields
// relevant to Kind are populated by a given request.
type Request struct {
	Kind        Kind
	Bytes       []byte
	Name        string
	To          string
	Pattern     string
	DisplayName string
	Offset      int
	Len         int
	Delta       int
}

// ParseRequest decodes one JSON frame into a Request. It fails with
// ErrParse for invalid JSON, an unrecognised kind, or a bytes field
// that is not valid base64.
func ParseRequest(frame []byte) (Request, error) {
	if !gjson.ValidBytes(frame) {
		return Request{}, fmt.Errorf("%w: not valid json", ErrParse)
	}

	root := gjson.ParseBytes(frame)
	kind := Kind(root.Get("kind").String())
	if !kind.valid() {
		return Request{}, fmt.Errorf("%w: unrecognised kind %q", ErrParse, kind)
	}

	req := Request{
		Kind:        kind,
		Name:        root.Get("name").String(),
		To:          root.Get("to").String(),
		Pattern:     root.Get("pattern").String(),
		DisplayName: root.Get("display_name").String(),
		Offset:      int(root.Get("offset").Int()),
		Len:         int(root.Get("len").Int()),
		Delta:       int(root.Get("delta").Int()),
	}

	if b := root.Get("bytes"); b.Exists() {
		decoded, err := base64.StdEncoding.DecodeString(b.String())
		if err != nil {
			return Request{}, fmt.Errorf("%w: bytes field: %v", ErrParse, err)
		}
		req.Bytes = decoded
	}

	if kind == KindFilesList && req.Pattern == "" {
		req.Pattern = "*"
	}

	return req, nil
}

func (k Kind) valid() bool {
	switch k {
	case KindEcho, KindFilesList, KindCreate, KindDelete, KindRename, KindOpen, KindClose,
		KindWrite, KindRemove, KindRead, KindSave, KindMoveCursor, KindWriteAtCursor,
		KindRemoveAtCursor, KindGetCursors:
		return true
	}
	return false
}
