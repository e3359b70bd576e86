package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ovr/beamng-go/bngerr"
)

func TestWriteReadRoundTrip(t *testing.T) {
	payload := []byte("hello world")

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	if buf.Len() != HeaderSize+len(payload) {
		t.Fatalf("expect %d bytes on the wire, got %d", HeaderSize+len(payload), buf.Len())
	}

	// The prefix is the big-endian payload length.
	prefix := binary.BigEndian.Uint32(buf.Bytes()[:HeaderSize])
	if int(prefix) != len(payload) {
		t.Fatalf("expect prefix %d, got %d", len(payload), prefix)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expect %q, got %q", payload, got)
	}
}

func TestEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if buf.Len() != HeaderSize {
		t.Fatalf("expect %d bytes for empty frame, got %d", HeaderSize, buf.Len())
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expect empty payload, got %d bytes", len(got))
	}
}

func TestWriteFrameFlushesBufferedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	if err := WriteFrame(w, []byte("abc")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	// The frame must be on the wire when WriteFrame returns, not parked in
	// the bufio buffer.
	if buf.Len() != HeaderSize+3 {
		t.Fatalf("frame not flushed: %d bytes written", buf.Len())
	}
}

func TestReadFrameDisconnectMidHeader(t *testing.T) {
	// Stream ends after 2 of the 4 header bytes.
	r := bytes.NewReader([]byte{0x00, 0x00})

	_, err := ReadFrame(r)
	var disc *bngerr.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("expect DisconnectedError, got %v", err)
	}
}

func TestReadFrameDisconnectMidBody(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("full payload")); err != nil {
		t.Fatal(err)
	}
	// Truncate the body after 4 bytes.
	truncated := bytes.NewReader(buf.Bytes()[:HeaderSize+4])

	_, err := ReadFrame(truncated)
	var disc *bngerr.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("expect DisconnectedError, got %v", err)
	}
}

func TestReadFrameDisconnectBeforeHeader(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	var disc *bngerr.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("expect DisconnectedError, got %v", err)
	}
}

// errReader fails with a non-EOF transport error.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadFrameGenericIOError(t *testing.T) {
	ioErr := errors.New("connection reset by peer")
	_, err := ReadFrame(errReader{err: ioErr})

	var disc *bngerr.DisconnectedError
	if errors.As(err, &disc) {
		t.Fatalf("generic I/O error misclassified as disconnection: %v", err)
	}
	if !errors.Is(err, ioErr) {
		t.Fatalf("expect underlying I/O error, got %v", err)
	}
}

func TestReadFrameLargePayload(t *testing.T) {
	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("1 MiB payload corrupted in round trip")
	}
}

func TestReadFrameSequential(t *testing.T) {
	var buf bytes.Buffer
	frames := [][]byte{[]byte("first"), {}, []byte("third")}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("frame %d: expect %q, got %q", i, want, got)
		}
	}
	// A clean EOF between frames is still a disconnection.
	_, err := ReadFrame(&buf)
	var disc *bngerr.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("expect DisconnectedError after last frame, got %v", err)
	}
}
