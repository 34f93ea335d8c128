// internal/poller/retry.go
package poller

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// Retry is a bounded, fixed-delay retry policy.
// No backoff, no jitter.
type Retry struct {
	MaxAttempts int
	Delay       time.Duration

	// Sleep waits between attempts. nil means time.Sleep.
	Sleep func(time.Duration)
}

// ReadWithRetry runs ReadBatch until it succeeds or MaxAttempts reads
// have been issued. A transient failure re-reads the whole span.
// Only transport failures are retried.
func ReadWithRetry(c Client, regs []*register.Descriptor, r Retry) ([][]uint16, error) {
	out, _, err := readWithRetry(c, regs, r)
	return out, err
}

// readWithRetry also reports how many reads were issued.
func readWithRetry(c Client, regs []*register.Descriptor, r Retry) ([][]uint16, int, error) {
	plan, err := BuildPlan(regs)
	if err != nil {
		return nil, 0, err
	}
	if len(plan.Registers) == 0 {
		return [][]uint16{}, 0, nil
	}

	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last *TransportError
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := readPlan(c, plan)
		if err == nil {
			return out, attempt, nil
		}

		if !errors.As(err, &last) {
			return nil, attempt, err
		}
		last.Attempts = attempt

		if attempt < attempts {
			zap.S().Debugf("read %d+%d attempt %d/%d failed: %v",
				plan.Span.Address, plan.Span.Quantity, attempt, attempts, last.Err)
			sleep(r.Delay)
		}
	}

	return nil, attempts, last
}
