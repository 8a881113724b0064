// Package wire implements the ICAP framing and payload codec: a fixed
// 40-byte little-endian header followed by a bounded tagged-union
// payload, packed explicitly (no reliance on native struct layout).
package wire

import "fmt"

// ProtocolVersion is the only wire version this codec understands.
const ProtocolVersion uint32 = 1

// Type is the frame kind carried in the header's type field.
type Type uint32

const (
	MSG Type = 0
	ACK Type = 1
	NAK Type = 2
)

func (t Type) String() string {
	switch t {
	case MSG:
		return "MSG"
	case ACK:
		return "ACK"
	case NAK:
		return "NAK"
	default:
		return fmt.Sprintf("Type(%d)", uint32(t))
	}
}

// Cmd identifies the command a MSG carries, or the originating command
// of an ACK/NAK (responses pass through arbitrary cmd values).
type Cmd uint32

const (
	GetDevNum      Cmd = 9
	GetDevFeatures Cmd = 10
	DevInit        Cmd = 11
	DevDeinit      Cmd = 12

	AddSrc      Cmd = 50
	AddDst      Cmd = 51
	RemoveSrc   Cmd = 52
	RemoveDst   Cmd = 53
	Start       Cmd = 54
	Stop        Cmd = 55
	Pause       Cmd = 56
	Resume      Cmd = 57
	BufOffsets  Cmd = 58
	FragReady   Cmd = 59
	Xrun        Cmd = 60

	RecordAddDst     Cmd = 100
	RecordAddSrc     Cmd = 101
	RecordRemoveDst  Cmd = 102
	RecordRemoveSrc  Cmd = 103
	RecordStart      Cmd = 104
	RecordStop       Cmd = 105
	RecordPause      Cmd = 106
	RecordResume     Cmd = 107
	RecordBufOffsets Cmd = 108
	RecordFragReady  Cmd = 109
	RecordXrun       Cmd = 110

	Error Cmd = 200
)

// knownCmds is used to reject unrecognized commands in an inbound MSG.
var knownCmds = map[Cmd]bool{
	GetDevNum: true, GetDevFeatures: true, DevInit: true, DevDeinit: true,
	AddSrc: true, AddDst: true, RemoveSrc: true, RemoveDst: true,
	Start: true, Stop: true, Pause: true, Resume: true,
	BufOffsets: true, FragReady: true, Xrun: true,
	RecordAddDst: true, RecordAddSrc: true, RecordRemoveDst: true, RecordRemoveSrc: true,
	RecordStart: true, RecordStop: true, RecordPause: true, RecordResume: true,
	RecordBufOffsets: true, RecordFragReady: true, RecordXrun: true,
	Error: true,
}

// KnownCmd reports whether cmd is a command this codec recognizes.
func KnownCmd(cmd Cmd) bool {
	return knownCmds[cmd]
}

func (c Cmd) String() string {
	switch c {
	case GetDevNum:
		return "GET_DEV_NUM"
	case GetDevFeatures:
		return "GET_DEV_FEATURES"
	case DevInit:
		return "DEV_INIT"
	case DevDeinit:
		return "DEV_DEINIT"
	case AddSrc:
		return "ADD_SRC"
	case AddDst:
		return "ADD_DST"
	case RemoveSrc:
		return "REMOVE_SRC"
	case RemoveDst:
		return "REMOVE_DST"
	case Start:
		return "START"
	case Stop:
		return "STOP"
	case Pause:
		return "PAUSE"
	case Resume:
		return "RESUME"
	case BufOffsets:
		return "BUF_OFFSETS"
	case FragReady:
		return "FRAG_READY"
	case Xrun:
		return "XRUN"
	case RecordAddDst:
		return "RECORD_ADD_DST"
	case RecordAddSrc:
		return "RECORD_ADD_SRC"
	case RecordRemoveDst:
		return "RECORD_REMOVE_DST"
	case RecordRemoveSrc:
		return "RECORD_REMOVE_SRC"
	case RecordStart:
		return "RECORD_START"
	case RecordStop:
		return "RECORD_STOP"
	case RecordPause:
		return "RECORD_PAUSE"
	case RecordResume:
		return "RECORD_RESUME"
	case RecordBufOffsets:
		return "RECORD_BUF_OFFSETS"
	case RecordFragReady:
		return "RECORD_FRAG_READY"
	case RecordXrun:
		return "RECORD_XRUN"
	case Error:
		return "ERROR"
	default:
		return fmt.Sprintf("Cmd(%d)", uint32(c))
	}
}
