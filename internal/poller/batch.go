// internal/poller/batch.go
package poller

import (
	"errors"
	"fmt"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// ErrDuplicateRegister is returned when a batch names the same register twice.
var ErrDuplicateRegister = errors.New("poller: duplicate register in batch")

// TransportError wraps a failed wire read.
// Attempts is the number of reads issued before giving up.
type TransportError struct {
	Span     ReadBlock
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("poller: read %d+%d failed after %d attempt(s): %v",
		e.Span.Address, e.Span.Quantity, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BuildPlan merges a set of registers into one covering span:
// [min(address), max(address+quantity)).
//
// Gaps between registers are read and discarded. Splitting the span at
// large gaps would save bandwidth on sparse batches.
func BuildPlan(regs []*register.Descriptor) (Plan, error) {
	if len(regs) == 0 {
		return Plan{}, nil
	}

	seen := make(map[*register.Descriptor]struct{}, len(regs))
	lo := uint32(1 << 16)
	hi := uint32(0)

	for _, d := range regs {
		if d == nil {
			return Plan{}, errors.New("poller: nil register in batch")
		}
		if _, dup := seen[d]; dup {
			return Plan{}, fmt.Errorf("%w: %s", ErrDuplicateRegister, d.Name)
		}
		seen[d] = struct{}{}

		if uint32(d.Address) < lo {
			lo = uint32(d.Address)
		}
		if d.End() > hi {
			hi = d.End()
		}
	}

	if hi-lo > 0xFFFF {
		return Plan{}, fmt.Errorf("poller: span %d..%d too large for one read", lo, hi)
	}

	p := Plan{
		Span:      ReadBlock{Address: uint16(lo), Quantity: uint16(hi - lo)},
		Registers: regs,
		Offsets:   make([]uint16, len(regs)),
	}
	for i, d := range regs {
		p.Offsets[i] = uint16(uint32(d.Address) - lo)
	}
	return p, nil
}

// ReadBatch issues exactly one read for the plan span and slices the
// response back to each register, in input order.
// Any transport error aborts the whole batch.
func ReadBatch(c Client, regs []*register.Descriptor) ([][]uint16, error) {
	plan, err := BuildPlan(regs)
	if err != nil {
		return nil, err
	}
	return readPlan(c, plan)
}

func readPlan(c Client, plan Plan) ([][]uint16, error) {
	if len(plan.Registers) == 0 {
		return [][]uint16{}, nil
	}

	words, err := c.ReadHoldingRegisters(plan.Span.Address, plan.Span.Quantity)
	if err != nil {
		return nil, &TransportError{Span: plan.Span, Attempts: 1, Err: err}
	}

	out, err := plan.Slice(words)
	if err != nil {
		// malformed response counts as a transport failure
		return nil, &TransportError{Span: plan.Span, Attempts: 1, Err: err}
	}
	return out, nil
}
