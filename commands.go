package icap

import (
	"context"

	"github.com/analogdevicesinc/icap-go/wire"
)

// handleDeviceCommand answers an inbound MSG on a device-role
// instance: the application drives the device through this table.
func (inst *Instance[A]) handleDeviceCommand(ctx context.Context, frame wire.Frame) responder {
	if !wire.KnownCmd(frame.Header.Cmd) {
		return nakCode(CodeMsgID)
	}
	if inst.device == nil {
		return ackEmpty()
	}

	switch frame.Header.Cmd {
	case wire.GetDevNum:
		n, err := inst.device.GetDevNum(ctx)
		if err != nil {
			return errToResponder(err)
		}
		return ackValue(n)

	case wire.GetDevFeatures:
		devID, err := wire.DecodeU32(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		feat, err := inst.device.GetDevFeatures(ctx, devID)
		if err != nil {
			return errToResponder(err)
		}
		return ackPayload(wire.EncodeDeviceFeatures(feat))

	case wire.DevInit:
		params, err := wire.DecodeDeviceParams(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		if err := inst.device.DevInit(ctx, params); err != nil {
			return errToResponder(err)
		}
		return ackEmpty()

	case wire.DevDeinit:
		devID, err := wire.DecodeU32(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		if err := inst.device.DevDeinit(ctx, devID); err != nil {
			return errToResponder(err)
		}
		return ackEmpty()

	case wire.AddSrc, wire.AddDst, wire.RecordAddDst, wire.RecordAddSrc:
		buf, err := wire.DecodeBufDescriptor(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		bufID, err := inst.dispatchAddBuf(ctx, frame.Header.Cmd, buf)
		if err != nil {
			return errToResponder(err)
		}
		return ackValue(bufID)

	case wire.RemoveSrc, wire.RemoveDst, wire.RecordRemoveDst, wire.RecordRemoveSrc:
		bufID, err := wire.DecodeU32(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		if err := inst.dispatchRemoveBuf(ctx, frame.Header.Cmd, bufID); err != nil {
			return errToResponder(err)
		}
		return ackEmpty()

	case wire.Start, wire.Stop, wire.Pause, wire.Resume,
		wire.RecordStart, wire.RecordStop, wire.RecordPause, wire.RecordResume:
		devID, err := wire.DecodeU32(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		if err := inst.dispatchTransport(ctx, frame.Header.Cmd, devID); err != nil {
			return errToResponder(err)
		}
		return ackEmpty()

	case wire.BufOffsets, wire.RecordBufOffsets:
		offsets, err := wire.DecodeOffsets(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		if frame.Header.Cmd == wire.BufOffsets {
			err = inst.device.BufOffsets(ctx, offsets)
		} else {
			err = inst.device.RecordBufOffsets(ctx, offsets)
		}
		if err != nil {
			return errToResponder(err)
		}
		return ackEmpty()

	case wire.Error:
		code, err := wire.DecodeI32(frame.Payload)
		if err != nil {
			return skipResponse()
		}
		if err := inst.device.Error(ctx, code); err != nil {
			return errToResponder(err)
		}
		return skipResponse()

	default:
		return nakCode(CodeMsgID)
	}
}

func (inst *Instance[A]) dispatchAddBuf(ctx context.Context, cmd wire.Cmd, buf wire.BufDescriptor) (uint32, error) {
	switch cmd {
	case wire.AddSrc:
		return inst.device.AddSrc(ctx, buf)
	case wire.AddDst:
		return inst.device.AddDst(ctx, buf)
	case wire.RecordAddDst:
		return inst.device.RecordAddDst(ctx, buf)
	default:
		return inst.device.RecordAddSrc(ctx, buf)
	}
}

func (inst *Instance[A]) dispatchRemoveBuf(ctx context.Context, cmd wire.Cmd, bufID uint32) error {
	switch cmd {
	case wire.RemoveSrc:
		return inst.device.RemoveSrc(ctx, bufID)
	case wire.RemoveDst:
		return inst.device.RemoveDst(ctx, bufID)
	case wire.RecordRemoveDst:
		return inst.device.RecordRemoveDst(ctx, bufID)
	default:
		return inst.device.RecordRemoveSrc(ctx, bufID)
	}
}

func (inst *Instance[A]) dispatchTransport(ctx context.Context, cmd wire.Cmd, devID uint32) error {
	switch cmd {
	case wire.Start:
		return inst.device.Start(ctx, devID)
	case wire.Stop:
		return inst.device.Stop(ctx, devID)
	case wire.Pause:
		return inst.device.Pause(ctx, devID)
	case wire.Resume:
		return inst.device.Resume(ctx, devID)
	case wire.RecordStart:
		return inst.device.RecordStart(ctx, devID)
	case wire.RecordStop:
		return inst.device.RecordStop(ctx, devID)
	case wire.RecordPause:
		return inst.device.RecordPause(ctx, devID)
	default:
		return inst.device.RecordResume(ctx, devID)
	}
}

// handleApplicationCommand answers an inbound MSG on an
// application-role instance: unsolicited notifications from the
// device peer.
func (inst *Instance[A]) handleApplicationCommand(ctx context.Context, frame wire.Frame) responder {
	if !wire.KnownCmd(frame.Header.Cmd) {
		return nakCode(CodeMsgID)
	}
	if inst.app == nil {
		return ackEmpty()
	}

	switch frame.Header.Cmd {
	case wire.FragReady, wire.RecordFragReady:
		frags, err := wire.DecodeFrags(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		var cbErr error
		if frame.Header.Cmd == wire.FragReady {
			cbErr = inst.app.FragReady(ctx, frags)
		} else {
			cbErr = inst.app.RecordFragReady(ctx, frags)
		}
		if cbErr != nil {
			return errToResponder(cbErr)
		}
		return ackValue(frags.BufID)

	case wire.Xrun, wire.RecordXrun:
		frags, err := wire.DecodeFrags(frame.Payload)
		if err != nil {
			return nakCode(CodeInvalid)
		}
		var cbErr error
		if frame.Header.Cmd == wire.Xrun {
			cbErr = inst.app.Xrun(ctx, frags)
		} else {
			cbErr = inst.app.RecordXrun(ctx, frags)
		}
		if cbErr != nil {
			return errToResponder(cbErr)
		}
		return ackValue(frags.BufID)

	case wire.Error:
		code, err := wire.DecodeI32(frame.Payload)
		if err != nil {
			return skipResponse()
		}
		if err := inst.app.Error(ctx, code); err != nil {
			return errToResponder(err)
		}
		return skipResponse()

	default:
		return nakCode(CodeMsgID)
	}
}
