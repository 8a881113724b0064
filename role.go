package icap

import (
	"context"

	"github.com/analogdevicesinc/icap-go/wire"
)

// Role selects which command table and callback set an Instance uses.
type Role int

const (
	// RoleApplication drives devices: it sends control commands and
	// receives asynchronous notifications back.
	RoleApplication Role = iota
	// RoleDevice renders/captures audio: it receives control commands
	// and sends asynchronous notifications to its application peer.
	RoleDevice
)

func (r Role) String() string {
	switch r {
	case RoleApplication:
		return "application"
	case RoleDevice:
		return "device"
	default:
		return "unknown"
	}
}

// DeviceCallbacks is implemented by the device-side embedder. Each
// method corresponds to one inbound command in the device command
// table. A nil callback set is valid: every well-known command then
// gets the dispatcher's default ACK (§4.5 of the protocol docs).
//
// A non-nil error return produces a NAK carrying the error's Code
// (CodeInvalid if the error doesn't carry one); a nil return with no
// explicit reply value produces a default ACK.
type DeviceCallbacks interface {
	GetDevNum(ctx context.Context) (uint32, error)
	GetDevFeatures(ctx context.Context, devID uint32) (wire.DeviceFeatures, error)
	DevInit(ctx context.Context, params wire.DeviceParams) error
	DevDeinit(ctx context.Context, devID uint32) error

	AddSrc(ctx context.Context, buf wire.BufDescriptor) (bufID uint32, err error)
	AddDst(ctx context.Context, buf wire.BufDescriptor) (bufID uint32, err error)
	RemoveSrc(ctx context.Context, bufID uint32) error
	RemoveDst(ctx context.Context, bufID uint32) error

	Start(ctx context.Context, devID uint32) error
	Stop(ctx context.Context, devID uint32) error
	Pause(ctx context.Context, devID uint32) error
	Resume(ctx context.Context, devID uint32) error

	BufOffsets(ctx context.Context, offsets wire.Offsets) error

	// RecordAddDst/RecordAddSrc and the rest of the Record* methods
	// mirror their playback counterparts on the capture command band.
	RecordAddDst(ctx context.Context, buf wire.BufDescriptor) (bufID uint32, err error)
	RecordAddSrc(ctx context.Context, buf wire.BufDescriptor) (bufID uint32, err error)
	RecordRemoveDst(ctx context.Context, bufID uint32) error
	RecordRemoveSrc(ctx context.Context, bufID uint32) error
	RecordStart(ctx context.Context, devID uint32) error
	RecordStop(ctx context.Context, devID uint32) error
	RecordPause(ctx context.Context, devID uint32) error
	RecordResume(ctx context.Context, devID uint32) error
	RecordBufOffsets(ctx context.Context, offsets wire.Offsets) error

	// Error is invoked for an inbound ERROR MSG. Per the fire-and-forget
	// rule, a nil return emits no reply; a non-nil return still emits a
	// NAK so the sender can observe a local rejection.
	Error(ctx context.Context, code int32) error
}

// ApplicationCallbacks is implemented by the application-side
// embedder. Each method answers one asynchronous notification a
// device peer may send.
type ApplicationCallbacks interface {
	// FragReady and Xrun both reply with an ACK that echoes the
	// frame's buf_id; a non-nil error instead produces a NAK.
	FragReady(ctx context.Context, frags wire.Frags) error
	Xrun(ctx context.Context, frags wire.Frags) error

	RecordFragReady(ctx context.Context, frags wire.Frags) error
	RecordXrun(ctx context.Context, frags wire.Frags) error

	// Error mirrors DeviceCallbacks.Error's fire-and-forget rule.
	Error(ctx context.Context, code int32) error
}
