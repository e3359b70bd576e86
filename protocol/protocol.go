// Package protocol implements the simulator's length-prefixed frame format.
//
// Every message travels as a 4-byte big-endian unsigned length followed by
// exactly that many payload bytes. There is no magic number and no checksum;
// the payload is opaque at this layer.
//
// Frame format:
//
//	0         4
//	┌─────────┬────────────────┐
//	│ length  │   payload ...  │
//	│ uint32  │  length bytes  │
//	└─────────┴────────────────┘
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ovr/beamng-go/bngerr"
)

// HeaderSize is the length prefix size in bytes.
const HeaderSize = 4

// flusher is implemented by buffered writers such as bufio.Writer. A bare
// net.Conn has no userspace buffer and writes through directly.
type flusher interface {
	Flush() error
}

// WriteFrame writes one length-prefixed frame to w and flushes it if w
// buffers. The caller must hold the write lock when w is shared between
// goroutines, otherwise interleaved frames corrupt the stream.
func WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("frame payload too large: %d bytes", len(payload))
	}

	var header [HeaderSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from r. A stream that ends
// mid-header or mid-body yields a disconnection error; any other transport
// failure passes through untouched.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if closed(err) {
			return nil, &bngerr.DisconnectedError{Reason: "connection closed while reading frame header"}
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(header[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if closed(err) {
			return nil, &bngerr.DisconnectedError{Reason: "connection closed while reading frame body"}
		}
		return nil, err
	}
	return payload, nil
}

func closed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
