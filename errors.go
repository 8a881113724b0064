package icap

import (
	"fmt"
)

// Code is a protocol error number, held as a positive value; on the
// wire it travels negated (see Negative), matching the C core's
// convention of returning the error as a negative int32. It satisfies
// the error interface so it composes with errors.Is/errors.As.
type Code int32

const (
	CodeNoMem       Code = 12
	CodeBusy        Code = 16
	CodeInvalid     Code = 22
	CodeBrokenConn  Code = 32
	CodeMsgType     Code = 42
	CodeProtocol    Code = 71
	CodeMsgID       Code = 74
	CodeRemoteAddr  Code = 78
	CodeMsgLen      Code = 90
	CodeProtoNotSup Code = 93
	CodeTimeout     Code = 110
	CodeNoBufs      Code = 233
	CodeNotSup      Code = 252
)

var codeNames = map[Code]string{
	CodeNoMem:       "NoMem",
	CodeBusy:        "Busy",
	CodeInvalid:     "Invalid",
	CodeBrokenConn:  "BrokenConn",
	CodeMsgType:     "MsgType",
	CodeProtocol:    "Protocol",
	CodeMsgID:       "MsgId",
	CodeRemoteAddr:  "RemoteAddr",
	CodeMsgLen:      "MsgLen",
	CodeProtoNotSup: "ProtoNotSup",
	CodeTimeout:     "Timeout",
	CodeNoBufs:      "NoBufs",
	CodeNotSup:      "NotSup",
}

func (c Code) Error() string {
	if name, ok := codeNames[c]; ok {
		return fmt.Sprintf("icap: %s (%d)", name, int32(c))
	}
	return fmt.Sprintf("icap: error %d", int32(c))
}

// Negative returns the wire representation of this code: a negative
// int32, as carried in a NAK payload.
func (c Code) Negative() int32 {
	return -int32(c)
}

// CodeFromNegative reconstructs a Code from a NAK payload's signed
// value. It returns false if v isn't a negative known code.
func CodeFromNegative(v int32) (Code, bool) {
	if v >= 0 {
		return 0, false
	}
	c := Code(-v)
	_, known := codeNames[c]
	return c, known
}

// Sentinel errors for use with errors.Is, one per Code.
var (
	ErrNoMem       error = CodeNoMem
	ErrBusy        error = CodeBusy
	ErrInvalid     error = CodeInvalid
	ErrBrokenConn  error = CodeBrokenConn
	ErrMsgType     error = CodeMsgType
	ErrProtocol    error = CodeProtocol
	ErrMsgID       error = CodeMsgID
	ErrRemoteAddr  error = CodeRemoteAddr
	ErrMsgLen      error = CodeMsgLen
	ErrProtoNotSup error = CodeProtoNotSup
	ErrTimeout     error = CodeTimeout
	ErrNoBufs      error = CodeNoBufs
	ErrNotSup      error = CodeNotSup
)
