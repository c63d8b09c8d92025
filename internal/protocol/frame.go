package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameSize bounds the length prefix so a corrupt or malicious
// header can't make ReadFrame allocate an enormous buffer.
const maxFrameSize = 16 << 20 // 16 MiB

// WriteFrame writes payload to w as a 4-byte big-endian length prefix
// followed by payload itself.
func WriteFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame from r. It returns the
// underlying read error unchanged (including io.EOF) so callers can
// tell a clean disconnect from a malformed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds %d byte limit", ErrParse, n, maxFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
