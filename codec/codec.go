// Package codec converts request and response values to and from the
// simulator's msgpack payload encoding.
package codec

import "github.com/ovr/beamng-go/message"

// Codec serializes outgoing requests and deserializes incoming payloads.
// The transport layer depends on this interface rather than a concrete
// implementation so tests can inject failing or recording codecs.
type Codec interface {
	// EncodeRequest serializes a request map containing the type field, the
	// request id, and the given fields, preserving field order.
	EncodeRequest(reqType string, id uint64, fields []message.Field) ([]byte, error)

	// Decode deserializes one response payload into a string-keyed map.
	Decode(data []byte) (message.StrDict, error)
}
