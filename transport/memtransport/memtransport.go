// Package memtransport is the reference in-memory Transport
// implementation: two Transports wired to each other's inbound
// delivery, useful for tests such as the loopback tests. It is not meant
// for production use — real deployments supply a shared-memory driver.
package memtransport

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/analogdevicesinc/icap-go/transport"
)

// Addr is the peer identity used by this transport: each endpoint of
// a Pair is addressed by a small integer.
type Addr int

const (
	Side0 Addr = 0
	Side1 Addr = 1
)

// Pair returns two Transports, each other's sole peer, connected by
// buffered channels of 32 datagrams each way. Send blocks only while
// that buffer is full, until the peer drains it or ctx is done.
func Pair() (a, b *Transport) {
	ab := make(chan []byte, 32)
	ba := make(chan []byte, 32)
	a = &Transport{self: Side0, peer: Side1, out: ab, in: ba}
	b = &Transport{self: Side1, peer: Side0, out: ba, in: ab}
	return a, b
}

var errNotInitialized = errors.New("memtransport: not initialized")
var errAlreadyInitialized = errors.New("memtransport: already initialized")

// Transport is one endpoint of an in-memory Pair.
type Transport struct {
	self Addr
	peer Addr

	out chan<- []byte
	in  <-chan []byte

	mu      sync.Mutex
	deliver transport.Inbound[Addr]
	group   *errgroup.Group
	cancel  context.CancelFunc
}

var _ transport.Transport[Addr] = (*Transport)(nil)

// Init starts a goroutine that drains inbound datagrams and hands
// them to deliver. One-shot, per the Transport contract.
func (t *Transport) Init(ctx context.Context, deliver transport.Inbound[Addr]) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.deliver != nil {
		return errAlreadyInitialized
	}
	t.deliver = deliver

	runCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	group, groupCtx := errgroup.WithContext(runCtx)
	t.group = group
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case data, ok := <-t.in:
				if !ok {
					return nil
				}
				// A delivery error (e.g. the instance's inbound queue is
				// momentarily full) is the receiver's problem, not a
				// transport failure: keep draining rather than tearing
				// the whole pipe down over one dropped frame.
				_ = t.deliver(groupCtx, t.peer, data)
			}
		}
	})
	return nil
}

// Deinit stops the drain goroutine. Idempotent.
func (t *Transport) Deinit(ctx context.Context) error {
	t.mu.Lock()
	cancel := t.cancel
	group := t.group
	t.cancel = nil
	t.group = nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	if group != nil {
		return group.Wait()
	}
	return nil
}

// Send enqueues data for the peer's drain goroutine.
func (t *Transport) Send(ctx context.Context, data []byte) error {
	t.mu.Lock()
	initialized := t.deliver != nil
	t.mu.Unlock()
	if !initialized {
		return errNotInitialized
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case t.out <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
