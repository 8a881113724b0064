package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := Header{
			ProtocolVersion: ProtocolVersion,
			SeqNum:          rapid.Uint32().Draw(t, "seq"),
			Cmd:             Cmd(rapid.SampledFrom(knownCmdList()).Draw(t, "cmd")),
			Type:            Type(rapid.SampledFrom([]Type{MSG, ACK, NAK}).Draw(t, "type")),
			Flags:           0,
		}
		n := rapid.IntRange(0, PayloadMax).Draw(t, "payloadLen")
		payload := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "payload")

		// Responses pass through arbitrary cmd values; only restrict for MSG.
		if h.Type != MSG {
			h.Cmd = Cmd(rapid.Uint32().Draw(t, "respCmd"))
		}

		encoded, err := Encode(Frame{Header: h, Payload: payload})
		require.NoError(t, err)
		require.Len(t, encoded, HeaderSize+len(payload))

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, h.ProtocolVersion, decoded.Header.ProtocolVersion)
		assert.Equal(t, h.SeqNum, decoded.Header.SeqNum)
		assert.Equal(t, h.Cmd, decoded.Header.Cmd)
		assert.Equal(t, h.Type, decoded.Header.Type)
		assert.Equal(t, uint32(len(payload)), decoded.Header.PayloadLen)
		if len(payload) == 0 {
			assert.Empty(t, decoded.Payload)
		} else {
			assert.Equal(t, payload, decoded.Payload)
		}
	})
}

func knownCmdList() []Cmd {
	cmds := make([]Cmd, 0, len(knownCmds))
	for c := range knownCmds {
		cmds = append(cmds, c)
	}
	return cmds
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	f := Frame{Header: Header{ProtocolVersion: 2, Cmd: GetDevNum, Type: MSG}}
	encoded, err := Encode(f)
	require.NoError(t, err)
	_, err = Decode(encoded)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeRejectsBadType(t *testing.T) {
	f := Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: GetDevNum, Type: Type(7)}}
	encoded, err := Encode(f)
	require.NoError(t, err)
	_, err = Decode(encoded)
	assert.ErrorIs(t, err, ErrMsgType)
}

func TestDecodeRejectsUnknownCmdForMsg(t *testing.T) {
	f := Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: Cmd(1), Type: MSG}}
	encoded, err := Encode(f)
	require.NoError(t, err)
	_, err = Decode(encoded)
	assert.ErrorIs(t, err, ErrMsgID)
}

func TestDecodeAllowsUnknownCmdForResponses(t *testing.T) {
	for _, typ := range []Type{ACK, NAK} {
		f := Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: Cmd(999), Type: typ}}
		encoded, err := Encode(f)
		require.NoError(t, err)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, Cmd(999), decoded.Header.Cmd)
	}
}

func TestDecodeRejectsLengthMismatch(t *testing.T) {
	f := Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: GetDevNum, Type: MSG, PayloadLen: 4}, Payload: []byte{1, 2, 3, 4}}
	encoded, err := Encode(f)
	require.NoError(t, err)

	_, err = Decode(encoded[:len(encoded)-1])
	assert.ErrorIs(t, err, ErrMsgLen)

	_, err = Decode(append(encoded, 0))
	assert.ErrorIs(t, err, ErrMsgLen)
}

func TestEncodeRejectsOversizePayload(t *testing.T) {
	_, err := Encode(Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: BufOffsets, Type: MSG}, Payload: make([]byte, PayloadMax+1)})
	assert.ErrorIs(t, err, ErrPayloadSize)
}

func TestReservedBytesIgnoredOnReceive(t *testing.T) {
	f := Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: GetDevNum, Type: MSG}}
	encoded, err := Encode(f)
	require.NoError(t, err)

	// A peer that doesn't zero reserved bytes must still be accepted.
	for i := 20; i < 36; i++ {
		encoded[i] = 0xFF
	}
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, GetDevNum, decoded.Header.Cmd)
}

func TestEncodeZeroesReservedAndFlags(t *testing.T) {
	encoded, err := Encode(Frame{Header: Header{ProtocolVersion: ProtocolVersion, Cmd: GetDevNum, Type: MSG, Flags: 0}})
	require.NoError(t, err)
	for i := 16; i < 20; i++ {
		assert.Zero(t, encoded[i])
	}
	for i := 20; i < 36; i++ {
		assert.Zero(t, encoded[i])
	}
}

// TestGetDevNumWireBytes pins the literal on-wire bytes of a GET_DEV_NUM
// request/ack pair so a framing regression shows up as a byte diff.
func TestGetDevNumWireBytes(t *testing.T) {
	req, err := Encode(Frame{Header: Header{ProtocolVersion: 1, SeqNum: 1, Cmd: GetDevNum, Type: MSG}})
	require.NoError(t, err)
	require.Len(t, req, 40)
	assert.Equal(t, byte(1), req[0])
	assert.Equal(t, byte(1), req[4])
	assert.Equal(t, byte(9), req[8])
	assert.Equal(t, byte(0), req[12])

	ack, err := Encode(Frame{Header: Header{ProtocolVersion: 1, SeqNum: 1, Cmd: GetDevNum, Type: ACK}, Payload: EncodeU32(3)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00}, ack[40:44])
}
