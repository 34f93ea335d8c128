// internal/writer/types.go
package writer

import (
	"context"
	"time"
)

// Column is one sink column. Text columns carry string registers.
type Column struct {
	Label string `yaml:"label"`
	Text  bool   `yaml:"text,omitempty"`
}

// CellKind tags a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellFloat
	CellText
)

// Cell is one value of a row: a float, a text or null.
type Cell struct {
	Kind  CellKind
	Float float64
	Text  string
}

func Float(v float64) Cell { return Cell{Kind: CellFloat, Float: v} }
func Text(s string) Cell   { return Cell{Kind: CellText, Text: s} }
func Null() Cell           { return Cell{} }

// Value returns the cell as a driver argument (nil for null).
func (c Cell) Value() any {
	switch c.Kind {
	case CellFloat:
		return c.Float
	case CellText:
		return c.Text
	default:
		return nil
	}
}

// Sink persists measurement rows.
// CreateSchema MUST be idempotent.
type Sink interface {
	CreateSchema(ctx context.Context, group string, columns []Column) error
	AppendRow(ctx context.Context, group string, at time.Time, cells []Cell) error
	Close() error
}
