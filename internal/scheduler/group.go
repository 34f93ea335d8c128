// internal/scheduler/group.go
package scheduler

import (
	"time"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// Column binds a sink column label to a catalog register.
type Column struct {
	Label    string
	Register *register.Descriptor
}

// Group is one measurement table: its registers are read in a single
// batch and written as a single row.
type Group struct {
	Name    string
	Columns []Column
	Cadence time.Duration

	// Next is the due time of the next poll. Always a multiple of
	// Cadence from the Unix epoch.
	Next time.Time
}

// Registers returns the descriptors in column order.
func (g *Group) Registers() []*register.Descriptor {
	out := make([]*register.Descriptor, len(g.Columns))
	for i, c := range g.Columns {
		out[i] = c.Register
	}
	return out
}

// Labels returns the column labels in column order.
func (g *Group) Labels() []string {
	out := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		out[i] = c.Label
	}
	return out
}

// Align returns the smallest multiple of cadence (from the Unix epoch)
// strictly greater than t. An aligned t yields t+cadence.
func Align(cadence time.Duration, t time.Time) time.Time {
	if cadence <= 0 {
		panic("scheduler: non-positive cadence")
	}
	n := t.UnixNano()
	c := int64(cadence)

	rem := n % c
	if rem < 0 {
		rem += c
	}
	return time.Unix(0, n-rem+c)
}
