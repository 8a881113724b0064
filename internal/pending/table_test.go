package pending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analogdevicesinc/icap-go/wire"
)

func TestRegisterThenResolveDeliversFrame(t *testing.T) {
	tbl := New(8, nil)
	w, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)

	frame := wire.Frame{Header: wire.Header{SeqNum: 1, Type: wire.ACK}}
	ok := tbl.Resolve(1, frame)
	require.True(t, ok)

	got, err := w.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
	assert.Equal(t, 0, tbl.Len())
}

func TestWaiterCmdReportsOriginatingCommand(t *testing.T) {
	tbl := New(8, nil)
	w, err := tbl.Register(1, wire.DevInit)
	require.NoError(t, err)
	assert.Equal(t, wire.DevInit, w.Cmd())
}

func TestResolveUnknownSeqReturnsFalse(t *testing.T) {
	tbl := New(8, nil)
	ok := tbl.Resolve(99, wire.Frame{})
	assert.False(t, ok)
}

func TestRegisterDuplicateSeqIsBusy(t *testing.T) {
	tbl := New(8, nil)
	_, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)
	_, err = tbl.Register(1, wire.GetDevNum)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestRegisterAtCapacityIsFull(t *testing.T) {
	tbl := New(2, nil)
	_, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)
	_, err = tbl.Register(2, wire.GetDevNum)
	require.NoError(t, err)
	_, err = tbl.Register(3, wire.GetDevNum)
	assert.ErrorIs(t, err, ErrFull)
}

func TestWaitTimesOutOnFakeClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tbl := New(8, clock)
	w, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)

	done := make(chan struct{})
	var waitErr error
	go func() {
		_, waitErr = w.Wait(context.Background(), 500*time.Millisecond)
		close(done)
	}()

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(500 * time.Millisecond)
	<-done

	assert.ErrorIs(t, waitErr, ErrTimeout)
	assert.Equal(t, 0, tbl.Len())
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	tbl := New(8, nil)
	w, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var waitErr error
	go func() {
		_, waitErr = w.Wait(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	assert.ErrorIs(t, waitErr, context.Canceled)
	assert.NotErrorIs(t, waitErr, ErrTimeout)
}

func TestCloseWakesAllWaitersWithTimeout(t *testing.T) {
	tbl := New(8, nil)
	w1, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)
	w2, err := tbl.Register(2, wire.GetDevNum)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = w1.Wait(context.Background(), time.Hour) }()
	go func() { defer wg.Done(); _, errs[1] = w2.Wait(context.Background(), time.Hour) }()

	time.Sleep(10 * time.Millisecond)
	tbl.Close()
	wg.Wait()

	assert.ErrorIs(t, errs[0], ErrTimeout)
	assert.ErrorIs(t, errs[1], ErrTimeout)
}

func TestRegisterAfterCloseIsClosed(t *testing.T) {
	tbl := New(8, nil)
	tbl.Close()
	_, err := tbl.Register(1, wire.GetDevNum)
	assert.ErrorIs(t, err, ErrClosed)
}

// TestConcurrentSequenceCorrelation registers N distinct seqs up
// front, then runs N concurrent waiter goroutines against a single
// resolver goroutine delivering replies in a scrambled order: every
// waiter must observe exactly its own frame, never another's.
func TestConcurrentSequenceCorrelation(t *testing.T) {
	const n = 64
	tbl := New(n, nil)

	waiters := make([]*Waiter, n)
	for i := 0; i < n; i++ {
		w, err := tbl.Register(uint32(i), wire.GetDevNum)
		require.NoError(t, err)
		waiters[i] = w
	}

	// Resolve in reverse order to scramble delivery relative to registration.
	go func() {
		for i := n - 1; i >= 0; i-- {
			tbl.Resolve(uint32(i), wire.Frame{Header: wire.Header{SeqNum: uint32(i), Type: wire.ACK}})
		}
	}()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			frame, err := waiters[i].Wait(context.Background(), 2*time.Second)
			assert.NoError(t, err)
			assert.Equal(t, uint32(i), frame.Header.SeqNum)
		}(i)
	}
	wg.Wait()
}

func TestLateResolveAfterTimeoutIsDropped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tbl := New(8, clock)
	w, err := tbl.Register(1, wire.GetDevNum)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Wait(context.Background(), 100*time.Millisecond)
		close(done)
	}()
	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(100 * time.Millisecond)
	<-done

	ok := tbl.Resolve(1, wire.Frame{})
	assert.False(t, ok, "a late resolve after timeout must be dropped, not delivered")
}
