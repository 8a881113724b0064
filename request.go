package icap

import (
	"context"
	"errors"
	"fmt"

	"github.com/analogdevicesinc/icap-go/internal/pending"
	"github.com/analogdevicesinc/icap-go/wire"
)

// request sends cmd with payload as a MSG, blocks for the matching
// ACK/NAK within the configured timeout, and on NAK translates the
// signed payload back into a Code error.
func (inst *Instance[A]) request(ctx context.Context, cmd wire.Cmd, payload []byte) (wire.Frame, error) {
	seq := inst.nextSeq()

	waiter, err := inst.table.Register(seq, cmd)
	if err != nil {
		return wire.Frame{}, translateRegisterErr(err)
	}

	frame := wire.Frame{
		Header: wire.Header{
			ProtocolVersion: wire.ProtocolVersion,
			SeqNum:          seq,
			Cmd:             cmd,
			Type:            wire.MSG,
		},
		Payload: payload,
	}
	if err := inst.send(ctx, frame); err != nil {
		return wire.Frame{}, err
	}

	resp, err := waiter.Wait(ctx, inst.cfg.MsgTimeout)
	if err != nil {
		return wire.Frame{}, translateWaitErr(err)
	}
	if resp.Header.Cmd != waiter.Cmd() {
		inst.logger.Warn("response cmd does not match the originating request", "want", waiter.Cmd(), "got", resp.Header.Cmd)
		return wire.Frame{}, ErrInvalid
	}
	if resp.Header.Type == wire.NAK {
		code, decErr := wire.DecodeI32(resp.Payload)
		if decErr != nil {
			return wire.Frame{}, ErrInvalid
		}
		if c, ok := CodeFromNegative(code); ok {
			return wire.Frame{}, c
		}
		return wire.Frame{}, ErrInvalid
	}
	return resp, nil
}

// notify sends cmd as a fire-and-forget MSG: used for ERROR, which
// never waits on the pending table.
func (inst *Instance[A]) notify(ctx context.Context, cmd wire.Cmd, payload []byte) error {
	seq := inst.nextSeq()
	frame := wire.Frame{
		Header: wire.Header{
			ProtocolVersion: wire.ProtocolVersion,
			SeqNum:          seq,
			Cmd:             cmd,
			Type:            wire.MSG,
		},
		Payload: payload,
	}
	return inst.send(ctx, frame)
}

func translateWaitErr(err error) error {
	if errors.Is(err, pending.ErrTimeout) {
		return ErrTimeout
	}
	return err
}

// translateRegisterErr maps a pending-table registration failure onto
// the public Code taxonomy so callers can use errors.Is(err,
// icap.ErrBusy) etc. instead of reaching into the internal package.
func translateRegisterErr(err error) error {
	switch {
	case errors.Is(err, pending.ErrBusy):
		return ErrBusy
	case errors.Is(err, pending.ErrFull):
		return ErrNoBufs
	default:
		return fmt.Errorf("icap: register request: %w", err)
	}
}
