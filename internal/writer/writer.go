// internal/writer/writer.go
package writer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// fanout delivers every call to all sinks.
// A failing sink never prevents delivery to the others.
type fanout struct {
	sinks []Sink
	names []string
}

// Named pairs a sink with the name used in errors.
type Named struct {
	Name string
	Sink Sink
}

// New returns a Sink writing to all of sinks. A single sink is returned as is.
func New(sinks ...Named) (Sink, error) {
	if len(sinks) == 0 {
		return nil, errors.New("writer: no sinks")
	}
	if len(sinks) == 1 {
		return sinks[0].Sink, nil
	}

	f := &fanout{}
	for _, s := range sinks {
		f.sinks = append(f.sinks, s.Sink)
		f.names = append(f.names, s.Name)
	}
	return f, nil
}

func (f *fanout) CreateSchema(ctx context.Context, group string, columns []Column) error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.CreateSchema(ctx, group, columns); err != nil {
			errs = append(errs, fmt.Errorf("writer: %s: create %s: %w", f.names[i], group, err))
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) AppendRow(ctx context.Context, group string, at time.Time, cells []Cell) error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.AppendRow(ctx, group, at, cells); err != nil {
			errs = append(errs, fmt.Errorf("writer: %s: append %s: %w", f.names[i], group, err))
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("writer: %s: close: %w", f.names[i], err))
		}
	}
	return errors.Join(errs...)
}
