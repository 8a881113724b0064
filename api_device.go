package icap

import (
	"context"

	"github.com/analogdevicesinc/icap-go/wire"
)

// The following methods are the device-role public surface: each
// sends an unsolicited notification MSG to the application peer and
// waits for its ACK/NAK, mirroring §4.5's application command table.

// FragReady notifies the application that frags.Count fragments are
// available starting at frags.BufID for a playback buffer.
func (inst *Instance[A]) FragReady(ctx context.Context, frags wire.Frags) error {
	_, err := inst.request(ctx, wire.FragReady, wire.EncodeFrags(frags))
	return err
}

// Xrun notifies the application of an underrun/overrun on a playback buffer.
func (inst *Instance[A]) Xrun(ctx context.Context, frags wire.Frags) error {
	_, err := inst.request(ctx, wire.Xrun, wire.EncodeFrags(frags))
	return err
}

// RecordFragReady notifies the application that frags.Count fragments
// are ready to drain from a capture buffer.
func (inst *Instance[A]) RecordFragReady(ctx context.Context, frags wire.Frags) error {
	_, err := inst.request(ctx, wire.RecordFragReady, wire.EncodeFrags(frags))
	return err
}

// RecordXrun notifies the application of an underrun/overrun on a capture buffer.
func (inst *Instance[A]) RecordXrun(ctx context.Context, frags wire.Frags) error {
	_, err := inst.request(ctx, wire.RecordXrun, wire.EncodeFrags(frags))
	return err
}
