// Package bngerr defines the closed set of failures the transport layer can
// surface to callers.
//
// Every error a connection operation returns is one of these kinds (or a raw
// transport error from the net package). Callers branch with errors.As /
// errors.Is — e.g. a ValueError is worth showing to an end user, while a
// SimulatorError usually means log and abort.
package bngerr

import (
	"errors"
	"fmt"
	"time"
)

// SimulatorError is an application-level failure reported by the simulator
// through the bngError response field.
type SimulatorError struct {
	Msg string
}

func (e *SimulatorError) Error() string {
	return "simulator error: " + e.Msg
}

// ValueError is a bad-input failure reported by the simulator through the
// bngValueError response field. Kept distinct from SimulatorError so callers
// can treat bad arguments differently from engine faults.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string {
	return "value error: " + e.Msg
}

// DisconnectedError means the stream to the simulator closed. The connection
// is unusable afterwards; callers must discard it and open a fresh one.
type DisconnectedError struct {
	Reason string
}

func (e *DisconnectedError) Error() string {
	return "disconnected: " + e.Reason
}

// ProtocolMismatchError is a failed hello handshake. Both version strings are
// carried for diagnostics.
type ProtocolMismatchError struct {
	Client    string
	Simulator string
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("protocol mismatch: client speaks %s, simulator speaks %s", e.Client, e.Simulator)
}

// UnexpectedResponseTypeError means the response's type field did not match
// what the operation required.
type UnexpectedResponseTypeError struct {
	Expected string
	Got      string
}

func (e *UnexpectedResponseTypeError) Error() string {
	return fmt.Sprintf("unexpected response type: expected %q, got %q", e.Expected, e.Got)
}

// ErrMissingID marks a response without an _id field. This is a compatibility
// signal rather than a parse failure: a well-behaved peer always echoes the
// id, so its absence usually means the simulator speaks a different protocol
// revision.
var ErrMissingID = errors.New("invalid message: missing _id field; the version of the simulator may be incompatible")

// EncodeError wraps a serialization failure of an outgoing request.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encode: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError wraps a deserialization failure of an incoming payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// TimeoutError is produced by callers that wrap operations with a deadline
// (see the middleware package). The connection itself never arms timers.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %s gave no response within %s", e.Op, e.After)
}
