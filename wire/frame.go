package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header field sizes, bit-exact, little-endian, no padding.
const (
	headerVersionSize = 4
	headerSeqSize     = 4
	headerCmdSize     = 4
	headerTypeSize    = 4
	headerFlagsSize   = 4
	headerReservedSize = 16
	headerLenSize     = 4

	// HeaderSize is the fixed wire size of a frame header.
	HeaderSize = headerVersionSize + headerSeqSize + headerCmdSize +
		headerTypeSize + headerFlagsSize + headerReservedSize + headerLenSize

	// PayloadMax is the largest payload any command may carry: the
	// fragment-offset batch (4-byte count + 64 4-byte offsets).
	PayloadMax = 4 + 64*4

	// FrameMax is the largest legal datagram this codec will emit or accept.
	FrameMax = HeaderSize + PayloadMax
)

func init() {
	if HeaderSize != 40 {
		panic(fmt.Sprintf("wire: header layout drifted, got %d bytes, want 40", HeaderSize))
	}
	if PayloadMax != 260 {
		panic(fmt.Sprintf("wire: payload union size drifted, got %d bytes, want 260", PayloadMax))
	}
}

// Header is the fixed-layout frame header. Reserved bytes are ignored
// on decode and always zeroed on encode.
type Header struct {
	ProtocolVersion uint32
	SeqNum          uint32
	Cmd             Cmd
	Type            Type
	Flags           uint32
	PayloadLen      uint32
}

// Frame is a decoded header plus its raw, command-interpreted payload.
type Frame struct {
	Header  Header
	Payload []byte
}

// Errors map 1:1 to the negative wire error codes of the protocol;
// see package icap for the Code type that carries the numeric value.
var (
	ErrMsgLen      = errors.New("wire: payload_len does not match datagram length")
	ErrProtocol    = errors.New("wire: protocol_version mismatch")
	ErrMsgType     = errors.New("wire: unknown frame type")
	ErrMsgID       = errors.New("wire: unknown command for MSG frame")
	ErrPayloadSize = errors.New("wire: payload exceeds maximum union size")
)

// Encode serializes f into a freshly allocated datagram buffer.
// It never writes beyond HeaderSize+len(f.Payload).
func Encode(f Frame) ([]byte, error) {
	if len(f.Payload) > PayloadMax {
		return nil, ErrPayloadSize
	}
	buf := make([]byte, HeaderSize+len(f.Payload))
	putHeader(buf, f.Header, uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf, nil
}

func putHeader(buf []byte, h Header, payloadLen uint32) {
	binary.LittleEndian.PutUint32(buf[0:4], h.ProtocolVersion)
	binary.LittleEndian.PutUint32(buf[4:8], h.SeqNum)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.Cmd))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.Type))
	binary.LittleEndian.PutUint32(buf[16:20], h.Flags)
	// reserved: buf[20:36], sender zeroes it — buf is already zero-valued.
	binary.LittleEndian.PutUint32(buf[36:40], payloadLen)
}

// Decode validates and parses a received datagram into a Frame.
//
// Validation proceeds length, then the payload_len bound (PayloadMax),
// then version, then type, then (for MSG only) command membership.
func Decode(data []byte) (Frame, error) {
	if len(data) < HeaderSize {
		return Frame{}, ErrMsgLen
	}
	h := getHeader(data)
	if len(data) != HeaderSize+int(h.PayloadLen) {
		return Frame{}, ErrMsgLen
	}
	if h.PayloadLen > PayloadMax {
		return Frame{}, ErrPayloadSize
	}
	if h.ProtocolVersion != ProtocolVersion {
		return Frame{}, ErrProtocol
	}
	switch h.Type {
	case MSG, ACK, NAK:
	default:
		return Frame{}, ErrMsgType
	}
	if h.Type == MSG && !KnownCmd(h.Cmd) {
		return Frame{}, ErrMsgID
	}
	payload := make([]byte, h.PayloadLen)
	copy(payload, data[HeaderSize:])
	return Frame{Header: h, Payload: payload}, nil
}

func getHeader(data []byte) Header {
	return Header{
		ProtocolVersion: binary.LittleEndian.Uint32(data[0:4]),
		SeqNum:          binary.LittleEndian.Uint32(data[4:8]),
		Cmd:             Cmd(binary.LittleEndian.Uint32(data[8:12])),
		Type:            Type(binary.LittleEndian.Uint32(data[12:16])),
		Flags:           binary.LittleEndian.Uint32(data[16:20]),
		// reserved (data[20:36]) intentionally not copied out: ignore-on-receive.
		PayloadLen: binary.LittleEndian.Uint32(data[36:40]),
	}
}
