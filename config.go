package icap

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// defaultMsgTimeout mirrors ICAP_MSG_TIMEOUT_US from the reference
// platform layer: the synchronous send/wait ceiling for a request
// that never gets an ACK or NAK back.
const defaultMsgTimeout = 600 * time.Millisecond

// defaultPendingCapacity bounds how many requests an Instance may have
// outstanding at once before a further request fails with ErrNoBufs.
const defaultPendingCapacity = 32

// Config controls the timing and capacity knobs of an Instance. The
// zero value is not usable; start from DefaultConfig.
type Config struct {
	// Clock is the time source used for request timeouts. Tests inject
	// a clockwork.FakeClock to drive timeouts deterministically;
	// production instances leave this nil and get a real clock.
	Clock clockwork.Clock

	// MsgTimeout bounds how long a send waits for its ACK/NAK.
	MsgTimeout time.Duration

	// PendingCapacity bounds the number of in-flight requests.
	PendingCapacity int
}

// DefaultConfig returns the configuration used when an embedder
// doesn't need to tune timing: a real clock, the reference timeout,
// and a pending table sized for a handful of concurrent requests.
func DefaultConfig() Config {
	return Config{
		Clock:           clockwork.NewRealClock(),
		MsgTimeout:      defaultMsgTimeout,
		PendingCapacity: defaultPendingCapacity,
	}
}

// Validate reports a descriptive error for any field left unusable
// after an embedder has customized DefaultConfig's result.
func (c Config) Validate() error {
	if c.MsgTimeout <= 0 {
		return fmt.Errorf("icap: MsgTimeout must be positive, got %s", c.MsgTimeout)
	}
	if c.PendingCapacity <= 0 {
		return fmt.Errorf("icap: PendingCapacity must be positive, got %d", c.PendingCapacity)
	}
	return nil
}

func (c Config) clockOrReal() clockwork.Clock {
	if c.Clock == nil {
		return clockwork.NewRealClock()
	}
	return c.Clock
}
