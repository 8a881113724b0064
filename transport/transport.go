// Package transport declares the adapter ICAP's core depends on. The
// concrete shared-memory driver (kernel rpmsg, a user-space character
// device, a bare-metal queue) is an external collaborator; this
// package only fixes the contract and a peer-address type.
package transport

import "context"

// Addr identifies a remote endpoint on the transport. Concrete
// transports choose their own comparable representation (an rpmsg
// address, a queue index, a socket tuple); the core only compares
// instances of it for equality to latch and verify the peer.
type Addr interface {
	comparable
}

// Inbound is invoked by a transport implementation when a datagram
// arrives from addr. It may run in a transport-owned execution
// context (interrupt, softirq, reader goroutine); the core copies the
// datagram and queues it for later drain via Run or RunOnce. It does
// not dispatch inline from this callback.
type Inbound[A Addr] func(ctx context.Context, addr A, data []byte) error

// Transport is the adapter the ICAP core consumes. Implementations
// must be safe for concurrent use by the sender and the inbound
// delivery path, per §5 of the protocol's concurrency model.
type Transport[A Addr] interface {
	// Init binds the transport to an inbound handler. One-shot per
	// instance; calling it twice on an already-initialized transport
	// is an implementation error.
	Init(ctx context.Context, deliver Inbound[A]) error

	// Deinit releases resources. It must be idempotent after a
	// previous failed Init or a previous Deinit.
	Deinit(ctx context.Context) error

	// Send emits one datagram, at most once, best-effort. It must not
	// fragment: size is bounded by the core to wire.FrameMax.
	Send(ctx context.Context, data []byte) error
}
