package icap

import (
	"context"
	"errors"

	"github.com/analogdevicesinc/icap-go/wire"
)

// dispatch implements the entry point every inbound datagram passes
// through: decode, latch/verify the peer, then resolve a waiter (for
// ACK/NAK) or route to a role command table (for MSG). It never
// blocks — callers reach it only from Run/RunOnce, which drain the
// queue that onInbound fills.
func (inst *Instance[A]) dispatch(ctx context.Context, addr A, data []byte) {
	frame, err := wire.Decode(data)
	if err != nil {
		if errors.Is(err, wire.ErrProtocol) {
			// An incompatible version is dropped outright, no reply,
			// since we can't trust the sender understands ours.
			inst.logger.Debug("dropping frame with incompatible protocol version")
			return
		}
		inst.logger.Debug("dropping undecodable frame", "error", err)
		return
	}

	if err := inst.verifyPeer(addr); err != nil {
		inst.logger.Warn("rejecting frame from unverified peer", "seq", frame.Header.SeqNum)
		return
	}

	switch frame.Header.Type {
	case wire.ACK, wire.NAK:
		inst.dispatchResponse(ctx, frame)
	case wire.MSG:
		inst.dispatchRequest(ctx, addr, frame)
	}
}

// dispatchResponse resolves a waiter for ACK/NAK frames. When no
// waiter is registered (a late or duplicate reply, or an unsolicited
// device notification's own response landing on a device instance),
// a device-role instance's callbacks get a chance to observe it; an
// application-role instance drops it.
func (inst *Instance[A]) dispatchResponse(ctx context.Context, frame wire.Frame) {
	if inst.table.Resolve(frame.Header.SeqNum, frame) {
		return
	}

	if inst.role != RoleDevice {
		return
	}
	// A device instance's asynchronous notifications (FRAG_READY,
	// XRUN) are themselves sent as MSG and resolved as ACK/NAK by the
	// application; the device side only observes unsolicited
	// ACK/NAK here if a peer answers a notification out of band. The
	// signed payload carries the error on NAK, and may carry a buf-id
	// on ACK for FRAG_READY/XRUN.
	if inst.device == nil {
		return
	}
	switch frame.Header.Cmd {
	case wire.FragReady, wire.RecordFragReady, wire.Xrun, wire.RecordXrun:
		// Informational only: the application already applied its own
		// success/failure locally. Nothing further to deliver.
	case wire.Error:
		if frame.Header.Type == wire.NAK {
			code, _ := wire.DecodeI32(frame.Payload)
			if err := inst.device.Error(ctx, code); err != nil {
				inst.logger.Debug("device Error callback returned an error", "error", err)
			}
		}
	}
}

// dispatchRequest routes an inbound MSG by role and emits the
// resulting response per the responder policy below.
func (inst *Instance[A]) dispatchRequest(ctx context.Context, addr A, frame wire.Frame) {
	var resp responder
	switch inst.role {
	case RoleDevice:
		resp = inst.handleDeviceCommand(ctx, frame)
	case RoleApplication:
		resp = inst.handleApplicationCommand(ctx, frame)
	}
	if resp.skip {
		return
	}
	out := wire.Frame{
		Header: wire.Header{
			ProtocolVersion: wire.ProtocolVersion,
			SeqNum:          frame.Header.SeqNum,
			Cmd:             frame.Header.Cmd,
			Type:            resp.frameType(),
		},
		Payload: resp.payload,
	}
	if err := inst.send(ctx, out); err != nil {
		inst.logger.Warn("failed to send response", "cmd", frame.Header.Cmd, "error", err)
	}
}

// responder captures what dispatchRequest should reply with: either
// no frame at all (skip, for the fire-and-forget ERROR commands), a
// default empty ACK, an ACK carrying payload, or a NAK carrying the
// negative Code.
type responder struct {
	skip    bool
	nak     bool
	payload []byte
}

func (r responder) frameType() wire.Type {
	if r.nak {
		return wire.NAK
	}
	return wire.ACK
}

func ackEmpty() responder           { return responder{} }
func ackValue(v uint32) responder   { return responder{payload: wire.EncodeU32(v)} }
func ackPayload(p []byte) responder { return responder{payload: p} }
func skipResponse() responder       { return responder{skip: true} }

func nakCode(c Code) responder {
	return responder{nak: true, payload: wire.EncodeI32(c.Negative())}
}

// errToResponder converts a callback's error into the NAK policy: if
// err wraps a Code, that code is carried; otherwise CodeInvalid.
func errToResponder(err error) responder {
	var code Code
	if errors.As(err, &code) {
		return nakCode(code)
	}
	return nakCode(CodeInvalid)
}
