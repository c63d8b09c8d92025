package protocol

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/tidwall/gjson"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"kind":"echo","bytes":"aGVsbG8="}`)
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %s, want %s", got, payload)
	}
}

func TestParseRequestEcho(t *testing.T) {
	frame := []byte(`{"kind":"echo","bytes":"` + base64.StdEncoding.EncodeToString([]byte("hi")) + `"}`)
	req, err := ParseRequest(frame)
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != KindEcho || string(req.Bytes) != "hi" {
		t.Fatalf("req = %+v", req)
	}
}

func TestParseRequestUnknownKind(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"kind":"nonsense"}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseRequestInvalidJSON(t *testing.T) {
	if _, err := ParseRequest([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestParseRequestFilesListDefaultsPattern(t *testing.T) {
	req, err := ParseRequest([]byte(`{"kind":"files_list"}`))
	if err != nil {
		t.Fatal(err)
	}
	if req.Pattern != "*" {
		t.Fatalf("pattern = %q, want *", req.Pattern)
	}
}

func TestEnvelopeBuildsOKReply(t *testing.T) {
	frame, err := NewEnvelope(KindOpen).OK().Value("path", "/home/alice/note.txt").Build()
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.GetBytes(frame, "ok").Bool() {
		t.Fatalf("frame = %s, want ok:true", frame)
	}
	if gjson.GetBytes(frame, "path").String() != "/home/alice/note.txt" {
		t.Fatalf("frame = %s", frame)
	}
}

func TestBuildUpdateAddRoundTrips(t *testing.T) {
	frame, err := BuildUpdateAdd(4, []byte("ABC"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(frame, []byte(`"kind":"update_add"`)) {
		t.Fatalf("frame = %s", frame)
	}
	if gjson.GetBytes(frame, "offset").Int() != 4 {
		t.Fatalf("frame = %s, want offset 4", frame)
	}
	decoded, err := base64.StdEncoding.DecodeString(gjson.GetBytes(frame, "bytes").String())
	if err != nil || string(decoded) != "ABC" {
		t.Fatalf("frame = %s, want bytes ABC", frame)
	}
}
