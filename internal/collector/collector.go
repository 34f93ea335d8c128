// internal/collector/collector.go
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/observability"
	"github.com/tamzrod/inverter-collector/internal/poller"
	"github.com/tamzrod/inverter-collector/internal/register"
	"github.com/tamzrod/inverter-collector/internal/scheduler"
	"github.com/tamzrod/inverter-collector/internal/status"
	"github.com/tamzrod/inverter-collector/internal/writer"
)

// Reader performs one retried batch read. *poller.Poller implements it.
type Reader interface {
	PollOnce(regs []*register.Descriptor) poller.PollResult
}

// Options tune a Collector. Zero values select the defaults.
type Options struct {
	Policy  FailurePolicy
	Clock   scheduler.Clock
	Tracker *status.Tracker
}

// Collector drives the poll loop: it owns the scheduler and is the only
// user of the reader (and so of the Modbus connection).
type Collector struct {
	reader  Reader
	sched   *scheduler.Scheduler
	sink    writer.Sink
	policy  FailurePolicy
	clock   scheduler.Clock
	tracker *status.Tracker
}

func New(reader Reader, sched *scheduler.Scheduler, sink writer.Sink, opts Options) (*Collector, error) {
	if reader == nil {
		return nil, errors.New("collector: reader required")
	}
	if sched == nil {
		return nil, errors.New("collector: scheduler required")
	}
	if sink == nil {
		return nil, errors.New("collector: sink required")
	}

	c := &Collector{
		reader:  reader,
		sched:   sched,
		sink:    sink,
		policy:  opts.Policy,
		clock:   opts.Clock,
		tracker: opts.Tracker,
	}
	if c.clock == nil {
		c.clock = scheduler.SystemClock{}
	}
	if c.tracker == nil {
		c.tracker = status.NewTrackerWithClock(c.clock.Now)
	}
	for _, g := range sched.Groups() {
		c.tracker.Register(g.Name, g.Cadence)
	}
	return c, nil
}

// Tracker exposes per-group health.
func (c *Collector) Tracker() *status.Tracker {
	return c.tracker
}

// Prepare creates the sink schema of every group.
func (c *Collector) Prepare(ctx context.Context) error {
	for _, g := range c.sched.Groups() {
		if err := c.sink.CreateSchema(ctx, g.Name, Columns(g)); err != nil {
			return fmt.Errorf("collector: schema %s: %w", g.Name, err)
		}
		zap.S().Debugf("Schema ready for %s (%d columns, every %s)", g.Name, len(g.Columns), g.Cadence)
	}
	return nil
}

// Run loops until the group set is empty, ctx is cancelled or, under
// PolicyAbort, a batch exhausts its retries.
func (c *Collector) Run(ctx context.Context) error {
	for {
		if c.sched.Empty() {
			zap.S().Infof("No groups left to poll")
			return nil
		}

		if err := c.RunCycle(ctx); err != nil {
			return err
		}

		wake, err := c.sched.NextWake()
		if err != nil {
			return nil
		}
		zap.S().Debugf("Sleeping until %s", wake.Format(time.RFC3339))

		if err := c.clock.SleepUntil(ctx, wake); err != nil {
			return err
		}
	}
}

// RunCycle polls every due group once, in list order.
func (c *Collector) RunCycle(ctx context.Context) error {
	for _, g := range c.sched.Due(c.clock.Now()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.pollGroup(ctx, g); err != nil {
			return err
		}
		c.sched.Advance(g, c.clock.Now())
	}
	return nil
}

func (c *Collector) pollGroup(ctx context.Context, g *scheduler.Group) error {
	at := g.Next
	start := c.clock.Now()

	res := c.reader.PollOnce(g.Registers())

	observability.ReadsTotal.WithLabelValues(g.Name).Inc()
	observability.ReadLatency.WithLabelValues(g.Name).Observe(c.clock.Now().Sub(start).Seconds())
	if res.Attempts > 1 {
		observability.Retries.WithLabelValues(g.Name).Add(float64(res.Attempts - 1))
	}

	if res.Err != nil {
		observability.ReadFailures.WithLabelValues(g.Name).Inc()
		c.tracker.Record(g.Name, start, res.Err)

		if c.policy == PolicyAbort {
			return fmt.Errorf("collector: group %s: %w", g.Name, res.Err)
		}
		zap.S().Warnf("Skipping %s until next slot: %v", g.Name, res.Err)
		return nil
	}

	c.tracker.Record(g.Name, start, nil)
	observability.LastSuccess.WithLabelValues(g.Name).Set(float64(start.Unix()))

	cells := make([]writer.Cell, len(g.Columns))
	for i, col := range g.Columns {
		cells[i] = c.cell(g.Name, col, res.Words[i])
	}

	if err := c.sink.AppendRow(ctx, g.Name, at, cells); err != nil {
		observability.SinkErrors.WithLabelValues(g.Name).Inc()
		zap.S().Errorf("Writing %s row failed: %v", g.Name, err)
		return nil
	}
	observability.RowsWritten.WithLabelValues(g.Name).Inc()
	zap.S().Debugf("%s row at %s: %d columns", g.Name, at.Format(time.RFC3339), len(cells))
	return nil
}

// cell decodes one column. A conversion error yields a null cell and
// leaves the other columns alone.
func (c *Collector) cell(group string, col scheduler.Column, words []uint16) writer.Cell {
	cell, err := Cell(col.Register, words)
	if err != nil {
		observability.ConversionErrors.WithLabelValues(group).Inc()
		zap.S().Warnf("%s.%s: %v", group, col.Label, err)
		return writer.Null()
	}
	return cell
}

// Cell converts raw words into a sink cell: numbers are scaled, strings
// and bitfields become text.
func Cell(d *register.Descriptor, words []uint16) (writer.Cell, error) {
	switch d.Type {
	case register.String, register.Bitfield:
		v, err := register.Decode(d, words)
		if err != nil {
			return writer.Null(), err
		}
		if d.Type == register.String {
			return writer.Text(v.Text()), nil
		}
		return writer.Text(v.Bits().String()), nil
	}

	f, err := register.Measure(d, words)
	if err != nil {
		return writer.Null(), err
	}
	return writer.Float(f), nil
}

// Columns returns the sink columns of g.
func Columns(g *scheduler.Group) []writer.Column {
	out := make([]writer.Column, len(g.Columns))
	for i, col := range g.Columns {
		out[i] = writer.Column{
			Label: col.Label,
			Text:  !col.Register.Type.Numeric(),
		}
	}
	return out
}
