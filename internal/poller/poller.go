// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// Client abstracts the Modbus operations needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Retry Retry
}

// Poller reads batches of registers over one shared client.
// It is not safe for concurrent use; the collector drives it serially.
type Poller struct {
	cfg    Config
	client Client
	now    func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, errors.New("poller: retry max attempts must be >= 1")
	}
	if cfg.Retry.Delay < 0 {
		return nil, errors.New("poller: retry delay must be >= 0")
	}
	return &Poller{cfg: cfg, client: client, now: time.Now}, nil
}

// PollOnce reads one batch with retry.
// All-or-nothing: any exhausted failure aborts the batch.
func (p *Poller) PollOnce(regs []*register.Descriptor) PollResult {
	res := PollResult{
		At:        p.now(),
		Registers: regs,
	}

	words, attempts, err := readWithRetry(p.client, regs, p.cfg.Retry)
	res.Attempts = attempts
	if err != nil {
		res.Err = err
		return res
	}

	res.Words = words
	return res
}

// ReadValues polls a batch and decodes every register.
// A transport failure fails the call. Conversion failures are reported
// per register in errs (nil where the value decoded) and leave the
// other values intact.
func (p *Poller) ReadValues(regs []*register.Descriptor) (vals []register.Value, errs []error, err error) {
	res := p.PollOnce(regs)
	if res.Err != nil {
		return nil, nil, res.Err
	}

	vals = make([]register.Value, len(regs))
	errs = make([]error, len(regs))
	for i, d := range regs {
		vals[i], errs[i] = register.Decode(d, res.Words[i])
	}
	return vals, errs, nil
}
