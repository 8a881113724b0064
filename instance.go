package icap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/analogdevicesinc/icap-go/internal/pending"
	"github.com/analogdevicesinc/icap-go/transport"
	"github.com/analogdevicesinc/icap-go/wire"
)

type lifecycleState int32

const (
	stateUninit lifecycleState = iota
	stateIdle
	stateActive
)

// inboundFrame is queued by the transport's delivery callback and
// drained by Run/RunOnce, keeping the transport's calling context
// (which may be an interrupt or a reader goroutine) non-blocking.
type inboundFrame[A transport.Addr] struct {
	addr A
	data []byte
}

// Instance is one ICAP endpoint: one role, one transport, one
// callback set, and the sequencing/correlation state that drives
// synchronous request/response exchanges with a single latched peer.
type Instance[A transport.Addr] struct {
	id     string
	role   Role
	cfg    Config
	logger *slog.Logger

	transport transport.Transport[A]
	device    DeviceCallbacks
	app       ApplicationCallbacks

	state atomic.Int32

	seqMu sync.Mutex
	seq   uint32

	peerMu sync.Mutex
	peer   A
	hasPeer bool

	table *pending.Table

	inbox chan inboundFrame[A]
}

// NewApplicationInstance constructs an Instance in the application
// role. callbacks may be nil if the embedder never expects
// unsolicited notifications from its device peer.
func NewApplicationInstance[A transport.Addr](cfg Config, t transport.Transport[A], callbacks ApplicationCallbacks, logger *slog.Logger) (*Instance[A], error) {
	return newInstance[A](cfg, RoleApplication, t, nil, callbacks, logger)
}

// NewDeviceInstance constructs an Instance in the device role.
func NewDeviceInstance[A transport.Addr](cfg Config, t transport.Transport[A], callbacks DeviceCallbacks, logger *slog.Logger) (*Instance[A], error) {
	return newInstance[A](cfg, RoleDevice, t, callbacks, nil, logger)
}

func newInstance[A transport.Addr](cfg Config, role Role, t transport.Transport[A], device DeviceCallbacks, app ApplicationCallbacks, logger *slog.Logger) (*Instance[A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("icap: transport must not be nil")
	}
	if logger == nil {
		logger = noopLogger()
	}

	inst := &Instance[A]{
		id:        uuid.NewString(),
		role:      role,
		cfg:       cfg,
		logger:    logger.With("icap_instance", role.String()),
		transport: t,
		device:    device,
		app:       app,
		table:     pending.New(cfg.PendingCapacity, cfg.clockOrReal()),
		inbox:     make(chan inboundFrame[A], cfg.PendingCapacity*4),
	}
	return inst, nil
}

// Init binds the transport and transitions Uninit -> Idle. Reinit on
// an already-initialized instance fails.
func (inst *Instance[A]) Init(ctx context.Context) error {
	if !inst.state.CompareAndSwap(int32(stateUninit), int32(stateIdle)) {
		return fmt.Errorf("icap: instance already initialized")
	}
	if err := inst.transport.Init(ctx, inst.onInbound); err != nil {
		inst.state.Store(int32(stateUninit))
		return fmt.Errorf("icap: transport init: %w", err)
	}
	inst.logger.Info("instance initialized", "id", inst.id)
	return nil
}

// Deinit tears down the pending table (waking every waiter with
// ErrTimeout) and releases the transport. The latched peer keeps
// being accepted until this call returns; see DESIGN.md.
func (inst *Instance[A]) Deinit(ctx context.Context) error {
	inst.state.Store(int32(stateUninit))
	inst.table.Close()
	err := inst.transport.Deinit(ctx)
	inst.logger.Info("instance deinitialized", "id", inst.id)
	if err != nil {
		return fmt.Errorf("icap: transport deinit: %w", err)
	}
	return nil
}

// Run drains queued inbound frames until ctx is canceled. The deliver
// callback handed to the transport by Init only queues frames; it never
// dispatches them inline, so an embedder must drive either Run or
// RunOnce for inbound frames to be handled.
func (inst *Instance[A]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-inst.inbox:
			inst.dispatch(ctx, f.addr, f.data)
		}
	}
}

// RunOnce drains at most one queued inbound frame, for embedders
// driving dispatch from their own scheduler tick instead of Run.
// It reports false if the queue was empty.
func (inst *Instance[A]) RunOnce(ctx context.Context) bool {
	select {
	case f := <-inst.inbox:
		inst.dispatch(ctx, f.addr, f.data)
		return true
	default:
		return false
	}
}

func (inst *Instance[A]) onInbound(ctx context.Context, addr A, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case inst.inbox <- inboundFrame[A]{addr: addr, data: buf}:
		return nil
	default:
		inst.logger.Warn("inbound queue full, dropping frame", "id", inst.id)
		return ErrNoMem
	}
}

// nextSeq allocates the next sequence number under the instance lock.
// Wraparound is defined; a collision with a still-pending entry is not
// detected here but by the pending table's Register, which request
// turns into ErrBusy.
func (inst *Instance[A]) nextSeq() uint32 {
	inst.seqMu.Lock()
	defer inst.seqMu.Unlock()
	inst.seq++
	return inst.seq
}

// verifyPeer latches addr on the first inbound frame and rejects any
// later frame from a different identity. This lives on the instance
// rather than the transport because the latch is addr-type generic
// state the core can own without any transport-specific knowledge.
func (inst *Instance[A]) verifyPeer(addr A) error {
	inst.peerMu.Lock()
	defer inst.peerMu.Unlock()
	if !inst.hasPeer {
		inst.peer = addr
		inst.hasPeer = true
		return nil
	}
	if inst.peer != addr {
		return ErrRemoteAddr
	}
	return nil
}

// send marks the instance Active on its first transmitted frame, per
// the Idle -> Active transition, then hands the encoded frame to the
// transport.
func (inst *Instance[A]) send(ctx context.Context, f wire.Frame) error {
	inst.state.CompareAndSwap(int32(stateIdle), int32(stateActive))
	data, err := wire.Encode(f)
	if err != nil {
		return fmt.Errorf("icap: encode: %w", err)
	}
	if err := inst.transport.Send(ctx, data); err != nil {
		return fmt.Errorf("icap: transport send: %w", err)
	}
	return nil
}
