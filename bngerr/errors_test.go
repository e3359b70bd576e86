package bngerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "simulator error: engine fault",
		(&SimulatorError{Msg: "engine fault"}).Error())
	assert.Equal(t, "value error: bad vehicle name",
		(&ValueError{Msg: "bad vehicle name"}).Error())
	assert.Equal(t, "disconnected: connection closed while reading frame header",
		(&DisconnectedError{Reason: "connection closed while reading frame header"}).Error())
	assert.Equal(t, `unexpected response type: expected "Paused", got "Error"`,
		(&UnexpectedResponseTypeError{Expected: "Paused", Got: "Error"}).Error())
}

func TestProtocolMismatchCarriesBothVersions(t *testing.T) {
	err := &ProtocolMismatchError{Client: "v1.26", Simulator: "v0.99"}
	assert.Contains(t, err.Error(), "v1.26")
	assert.Contains(t, err.Error(), "v0.99")
}

func TestMissingIDHint(t *testing.T) {
	assert.Contains(t, ErrMissingID.Error(), "incompatible")
}

func TestWrappingUnwraps(t *testing.T) {
	cause := errors.New("short buffer")

	encErr := &EncodeError{Err: cause}
	require.ErrorIs(t, encErr, cause)

	decErr := &DecodeError{Err: cause}
	require.ErrorIs(t, decErr, cause)

	// Errors survive another layer of fmt wrapping.
	wrapped := fmt.Errorf("request failed: %w", decErr)
	var out *DecodeError
	require.ErrorAs(t, wrapped, &out)
	assert.Equal(t, cause, out.Err)
}
