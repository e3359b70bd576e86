package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ovr/beamng-go/bngerr"
	"github.com/ovr/beamng-go/message"
)

// MsgpackCodec is the production codec. The simulator speaks msgpack and uses
// str and bin interchangeably for text (its peer implementation packs some
// strings as raw bytes); decoding normalizes both to Go strings where keys
// are concerned and leaves values to the message package's coercion helpers.
type MsgpackCodec struct{}

// EncodeRequest writes the request as a msgpack map with the type field
// first, the id second, and the remaining fields in the order given.
func (MsgpackCodec) EncodeRequest(reqType string, id uint64, fields []message.Field) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeMapLen(len(fields) + 2); err != nil {
		return nil, &bngerr.EncodeError{Err: err}
	}
	if err := encodePair(enc, message.KeyType, reqType); err != nil {
		return nil, &bngerr.EncodeError{Err: err}
	}
	if err := encodePair(enc, message.KeyID, id); err != nil {
		return nil, &bngerr.EncodeError{Err: err}
	}
	for _, f := range fields {
		if err := encodePair(enc, f.Key, f.Value); err != nil {
			return nil, &bngerr.EncodeError{Err: err}
		}
	}
	return buf.Bytes(), nil
}

func encodePair(enc *msgpack.Encoder, key string, value any) error {
	if err := enc.EncodeString(key); err != nil {
		return err
	}
	return enc.Encode(value)
}

// Decode deserializes one payload into a StrDict. Payloads that are valid
// msgpack but not string-keyed maps are decode failures: the protocol only
// ever carries maps at the top level.
func (MsgpackCodec) Decode(data []byte) (message.StrDict, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, &bngerr.DecodeError{Err: err}
	}
	dict, ok := message.AsStrDict(v)
	if !ok {
		return nil, &bngerr.DecodeError{Err: fmt.Errorf("payload is not a string-keyed map: %T", v)}
	}
	return dict, nil
}
