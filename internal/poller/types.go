// internal/poller/types.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// ReadBlock describes one Modbus read geometry.
// Geometry only: no semantics.
type ReadBlock struct {
	Address  uint16
	Quantity uint16
}

// End returns the first address after the block.
func (b ReadBlock) End() uint32 {
	return uint32(b.Address) + uint32(b.Quantity)
}

// Plan is the coalesced read for one batch of registers.
// Offsets[i] is the word offset of the i-th input register inside Span.
type Plan struct {
	Span      ReadBlock
	Registers []*register.Descriptor
	Offsets   []uint16
}

// Slice cuts a span response back into one word slice per register.
func (p Plan) Slice(words []uint16) ([][]uint16, error) {
	if len(words) < int(p.Span.Quantity) {
		return nil, fmt.Errorf("poller: short response: got %d words, want %d", len(words), p.Span.Quantity)
	}
	out := make([][]uint16, len(p.Registers))
	for i, d := range p.Registers {
		off := int(p.Offsets[i])
		chunk := make([]uint16, d.Quantity)
		copy(chunk, words[off:off+int(d.Quantity)])
		out[i] = chunk
	}
	return out, nil
}

// PollResult is the raw outcome of one batch read.
// All-or-nothing: either Words holds one entry per register or Err is set.
type PollResult struct {
	At        time.Time
	Registers []*register.Descriptor
	Words     [][]uint16
	Attempts  int
	Err       error // non-nil means the batch failed
}
