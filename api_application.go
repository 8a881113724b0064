package icap

import (
	"context"

	"github.com/analogdevicesinc/icap-go/wire"
)

// The following methods are the application-role public surface: one
// synchronous call per device command, each built atop request(). An
// Instance constructed with NewDeviceInstance must not call these —
// there is no compile-time role split, so calling them on a device
// instance sends a MSG to a peer that doesn't expect it and will
// observe whatever response its own dispatcher produces. Error, at the
// end of this file, is the exception: either role may send it, and it
// does not wait for a response.

// GetDevNum asks the device how many logical subdevices it exposes.
func (inst *Instance[A]) GetDevNum(ctx context.Context) (uint32, error) {
	resp, err := inst.request(ctx, wire.GetDevNum, nil)
	if err != nil {
		return 0, err
	}
	return wire.DecodeU32(resp.Payload)
}

// GetDevFeatures asks the device for the capability mask of devID.
func (inst *Instance[A]) GetDevFeatures(ctx context.Context, devID uint32) (wire.DeviceFeatures, error) {
	resp, err := inst.request(ctx, wire.GetDevFeatures, wire.EncodeU32(devID))
	if err != nil {
		return wire.DeviceFeatures{}, err
	}
	return wire.DecodeDeviceFeatures(resp.Payload)
}

// DevInit configures a subdevice's sample rate, channel count, and format.
func (inst *Instance[A]) DevInit(ctx context.Context, params wire.DeviceParams) error {
	_, err := inst.request(ctx, wire.DevInit, wire.EncodeDeviceParams(params))
	return err
}

// DevDeinit releases a previously initialized subdevice.
func (inst *Instance[A]) DevDeinit(ctx context.Context, devID uint32) error {
	_, err := inst.request(ctx, wire.DevDeinit, wire.EncodeU32(devID))
	return err
}

// AddSrc registers a source buffer for playback and returns its assigned id.
func (inst *Instance[A]) AddSrc(ctx context.Context, buf wire.BufDescriptor) (uint32, error) {
	return inst.addBuf(ctx, wire.AddSrc, buf)
}

// AddDst registers a destination buffer for playback.
func (inst *Instance[A]) AddDst(ctx context.Context, buf wire.BufDescriptor) (uint32, error) {
	return inst.addBuf(ctx, wire.AddDst, buf)
}

// RecordAddDst registers a destination buffer for capture.
func (inst *Instance[A]) RecordAddDst(ctx context.Context, buf wire.BufDescriptor) (uint32, error) {
	return inst.addBuf(ctx, wire.RecordAddDst, buf)
}

// RecordAddSrc registers a source buffer for capture.
func (inst *Instance[A]) RecordAddSrc(ctx context.Context, buf wire.BufDescriptor) (uint32, error) {
	return inst.addBuf(ctx, wire.RecordAddSrc, buf)
}

func (inst *Instance[A]) addBuf(ctx context.Context, cmd wire.Cmd, buf wire.BufDescriptor) (uint32, error) {
	resp, err := inst.request(ctx, cmd, wire.EncodeBufDescriptor(buf))
	if err != nil {
		return 0, err
	}
	return wire.DecodeU32(resp.Payload)
}

// RemoveSrc releases a previously added playback source buffer.
func (inst *Instance[A]) RemoveSrc(ctx context.Context, bufID uint32) error {
	return inst.removeBuf(ctx, wire.RemoveSrc, bufID)
}

// RemoveDst releases a previously added playback destination buffer.
func (inst *Instance[A]) RemoveDst(ctx context.Context, bufID uint32) error {
	return inst.removeBuf(ctx, wire.RemoveDst, bufID)
}

// RecordRemoveDst releases a previously added capture destination buffer.
func (inst *Instance[A]) RecordRemoveDst(ctx context.Context, bufID uint32) error {
	return inst.removeBuf(ctx, wire.RecordRemoveDst, bufID)
}

// RecordRemoveSrc releases a previously added capture source buffer.
func (inst *Instance[A]) RecordRemoveSrc(ctx context.Context, bufID uint32) error {
	return inst.removeBuf(ctx, wire.RecordRemoveSrc, bufID)
}

func (inst *Instance[A]) removeBuf(ctx context.Context, cmd wire.Cmd, bufID uint32) error {
	_, err := inst.request(ctx, cmd, wire.EncodeU32(bufID))
	return err
}

// Start begins playback on devID.
func (inst *Instance[A]) Start(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.Start, devID)
}

// Stop halts playback on devID.
func (inst *Instance[A]) Stop(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.Stop, devID)
}

// Pause suspends playback on devID without releasing its buffers.
func (inst *Instance[A]) Pause(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.Pause, devID)
}

// Resume continues a paused playback stream on devID.
func (inst *Instance[A]) Resume(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.Resume, devID)
}

// RecordStart begins capture on devID.
func (inst *Instance[A]) RecordStart(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.RecordStart, devID)
}

// RecordStop halts capture on devID.
func (inst *Instance[A]) RecordStop(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.RecordStop, devID)
}

// RecordPause suspends capture on devID.
func (inst *Instance[A]) RecordPause(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.RecordPause, devID)
}

// RecordResume continues a paused capture stream on devID.
func (inst *Instance[A]) RecordResume(ctx context.Context, devID uint32) error {
	return inst.transportCmd(ctx, wire.RecordResume, devID)
}

func (inst *Instance[A]) transportCmd(ctx context.Context, cmd wire.Cmd, devID uint32) error {
	_, err := inst.request(ctx, cmd, wire.EncodeU32(devID))
	return err
}

// BufOffsets reports the current fragment offsets for playback buffers.
func (inst *Instance[A]) BufOffsets(ctx context.Context, offsets wire.Offsets) error {
	payload, err := wire.EncodeOffsets(offsets)
	if err != nil {
		return err
	}
	_, err = inst.request(ctx, wire.BufOffsets, payload)
	return err
}

// RecordBufOffsets reports the current fragment offsets for capture buffers.
func (inst *Instance[A]) RecordBufOffsets(ctx context.Context, offsets wire.Offsets) error {
	payload, err := wire.EncodeOffsets(offsets)
	if err != nil {
		return err
	}
	_, err = inst.request(ctx, wire.RecordBufOffsets, payload)
	return err
}

// Error notifies the peer of a local fault. It does not wait for a
// response; the peer's handler may still NAK. A device-role instance
// passes such a NAK's code to DeviceCallbacks.Error; an
// application-role instance drops it.
func (inst *Instance[A]) Error(ctx context.Context, code Code) error {
	return inst.notify(ctx, wire.Error, wire.EncodeI32(code.Negative()))
}
