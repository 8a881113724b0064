// Package pending implements the ICAP pending-request table: a
// bounded map from seq_num to an in-flight waiter, with timeout-driven
// reclamation and removal that is atomic with respect to signaling.
package pending

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/analogdevicesinc/icap-go/wire"
)

// ErrBusy is returned by Register when seq already has a pending entry.
var ErrBusy = errBusy{}

type errBusy struct{}

func (errBusy) Error() string { return "pending: seq_num already in flight" }

// ErrFull is returned by Register when the table is at capacity.
var ErrFull = errFull{}

type errFull struct{}

func (errFull) Error() string { return "pending: table at capacity" }

// ErrTimeout is returned by Wait when the deadline elapses before a
// response is resolved, and by any waiter still pending at Close.
var ErrTimeout = errTimeout{}

type errTimeout struct{}

func (errTimeout) Error() string { return "pending: wait timed out" }

// ErrClosed is returned by Register after the table has been closed.
var ErrClosed = errClosed{}

type errClosed struct{}

func (errClosed) Error() string { return "pending: table closed" }

type entry struct {
	cmd wire.Cmd
	ch  chan wire.Frame
}

// Table is a mutex-protected, bounded map from seq_num to waiter.
type Table struct {
	mu       sync.Mutex
	entries  map[uint32]*entry
	capacity int
	clock    clockwork.Clock
	closed   bool
}

// New creates a Table bounded to capacity concurrent in-flight entries.
func New(capacity int, clock clockwork.Clock) *Table {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Table{
		entries:  make(map[uint32]*entry),
		capacity: capacity,
		clock:    clock,
	}
}

// Waiter is the handle returned by Register; the caller uses it to
// block for the response after emitting the request over the transport.
type Waiter struct {
	seq   uint32
	cmd   wire.Cmd
	ch    chan wire.Frame
	table *Table
}

// Cmd returns the command this waiter was registered under, the
// originating command a resolved ACK/NAK is expected to echo back.
func (w *Waiter) Cmd() wire.Cmd { return w.cmd }

// Register inserts a new entry keyed by seq before the request is sent,
// eliminating the race where a fast response arrives before the caller
// starts waiting (§4.3 step 1).
func (t *Table) Register(seq uint32, cmd wire.Cmd) (*Waiter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}
	if _, exists := t.entries[seq]; exists {
		return nil, ErrBusy
	}
	if len(t.entries) >= t.capacity {
		return nil, ErrFull
	}

	e := &entry{cmd: cmd, ch: make(chan wire.Frame, 1)}
	t.entries[seq] = e
	return &Waiter{seq: seq, cmd: cmd, ch: e.ch, table: t}, nil
}

// Resolve delivers an inbound ACK/NAK to its waiter. It reports
// whether a waiter was found; a false result means the reply is late
// or duplicate and must be silently dropped by the caller.
//
// Removal from the table happens under the table lock; the frame is
// then sent on the entry's 1-buffered channel after the lock is
// released. Only the goroutine that removed the entry sends on it, so
// the send never blocks, and a concurrently timing-out Wait can never
// observe a partially delivered response: either it already removed
// the entry itself (Resolve then finds nothing and drops the frame),
// or Resolve removes it first and the whole frame lands in the
// channel buffer, where a Wait that has already given up leaves it.
func (t *Table) Resolve(seq uint32, frame wire.Frame) bool {
	t.mu.Lock()
	e, ok := t.entries[seq]
	if ok {
		delete(t.entries, seq)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}
	e.ch <- frame
	return true
}

// Len reports the number of currently in-flight entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Close tears down the table, waking every current waiter with
// ErrTimeout (§4.6: deinit has no quiescence requirement).
func (t *Table) Close() {
	t.mu.Lock()
	t.closed = true
	entries := t.entries
	t.entries = make(map[uint32]*entry)
	t.mu.Unlock()

	for _, e := range entries {
		close(e.ch)
	}
}

func (t *Table) remove(seq uint32) {
	t.mu.Lock()
	delete(t.entries, seq)
	t.mu.Unlock()
}

// Wait blocks until the waiter's response is resolved, the timeout
// elapses, or ctx is canceled. A canceled context reports a distinct
// error from a timeout, per §5.
func (w *Waiter) Wait(ctx context.Context, timeout time.Duration) (wire.Frame, error) {
	timer := w.table.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frame, ok := <-w.ch:
		if !ok {
			// Channel closed by Table.Close: instance tore down mid-wait.
			return wire.Frame{}, ErrTimeout
		}
		return frame, nil
	case <-timer.Chan():
		w.table.remove(w.seq)
		return wire.Frame{}, ErrTimeout
	case <-ctx.Done():
		w.table.remove(w.seq)
		return wire.Frame{}, ctx.Err()
	}
}

// Seq returns the sequence number this waiter is registered under.
func (w *Waiter) Seq() uint32 { return w.seq }
