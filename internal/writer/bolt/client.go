// internal/writer/bolt/client.go
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"reflect"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/inverter-collector/internal/writer"
)

const (
	BucketNamePrefix = "group_"
	schemaKey        = "_schema"
)

// Client stores rows in a local bbolt file, one bucket per group.
// Rows are keyed by big-endian unix nanoseconds so a cursor walks them
// in time order.
type Client struct {
	DB *bbolt.DB
}

var _ writer.Sink = (*Client)(nil)

type storedCell struct {
	Label string   `yaml:"label"`
	Float *float64 `yaml:"float,omitempty"`
	Text  *string  `yaml:"text,omitempty"`
}

type storedRow struct {
	Time  time.Time    `yaml:"time"`
	Cells []storedCell `yaml:"cells"`
}

// Row is one decoded row as read back from the file.
type Row struct {
	At    time.Time
	Cells []writer.Cell
}

func Open(path string) (*Client, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	return &Client{DB: db}, nil
}

func bucketName(group string) []byte {
	return []byte(BucketNamePrefix + group)
}

func timeKey(at time.Time) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(at.UnixNano()))
	return b
}

// CreateSchema creates the group bucket and records its columns.
// A changed column set replaces the stored one.
func (c *Client) CreateSchema(_ context.Context, group string, columns []writer.Column) error {
	if group == "" {
		return fmt.Errorf("bolt: empty group name")
	}
	if len(columns) == 0 {
		return fmt.Errorf("bolt: group %s has no columns", group)
	}

	raw, err := yaml.Marshal(columns)
	if err != nil {
		return err
	}

	return c.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(group))
		if err != nil {
			return err
		}
		if prev := b.Get([]byte(schemaKey)); prev != nil {
			var old []writer.Column
			if err := yaml.Unmarshal(prev, &old); err == nil && reflect.DeepEqual(old, columns) {
				return nil
			}
			zap.S().Warnf("bolt: schema of %s changed, replacing", group)
		}
		return b.Put([]byte(schemaKey), raw)
	})
}

func (c *Client) AppendRow(_ context.Context, group string, at time.Time, cells []writer.Cell) error {
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(group))
		if b == nil {
			return fmt.Errorf("bolt: bucket not found: %s", bucketName(group))
		}

		cols, err := readSchema(b)
		if err != nil {
			return err
		}
		if len(cells) != len(cols) {
			return fmt.Errorf("bolt: group %s: %d cells for %d columns", group, len(cells), len(cols))
		}

		row := storedRow{Time: at.UTC(), Cells: make([]storedCell, len(cells))}
		for i, cell := range cells {
			sc := storedCell{Label: cols[i].Label}
			switch cell.Kind {
			case writer.CellFloat:
				v := cell.Float
				sc.Float = &v
			case writer.CellText:
				s := cell.Text
				sc.Text = &s
			}
			row.Cells[i] = sc
		}

		raw, err := yaml.Marshal(row)
		if err != nil {
			return err
		}
		return b.Put(timeKey(at), raw)
	})
}

// Columns returns the stored schema of group.
func (c *Client) Columns(group string) ([]writer.Column, error) {
	var cols []writer.Column
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(group))
		if b == nil {
			return fmt.Errorf("bolt: bucket not found: %s", bucketName(group))
		}
		var err error
		cols, err = readSchema(b)
		return err
	})
	return cols, err
}

// Rows returns the rows of group in time order.
func (c *Client) Rows(group string) ([]Row, error) {
	var rows []Row
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName(group))
		if b == nil {
			return fmt.Errorf("bolt: bucket not found: %s", bucketName(group))
		}
		return b.ForEach(func(k, v []byte) error {
			if string(k) == schemaKey {
				return nil
			}
			var sr storedRow
			if err := yaml.Unmarshal(v, &sr); err != nil {
				return fmt.Errorf("bolt: row %x: %w", k, err)
			}
			row := Row{At: sr.Time, Cells: make([]writer.Cell, len(sr.Cells))}
			for i, sc := range sr.Cells {
				switch {
				case sc.Float != nil:
					row.Cells[i] = writer.Float(*sc.Float)
				case sc.Text != nil:
					row.Cells[i] = writer.Text(*sc.Text)
				default:
					row.Cells[i] = writer.Null()
				}
			}
			rows = append(rows, row)
			return nil
		})
	})
	return rows, err
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func readSchema(b *bbolt.Bucket) ([]writer.Column, error) {
	raw := b.Get([]byte(schemaKey))
	if raw == nil {
		return nil, fmt.Errorf("bolt: no schema stored")
	}
	var cols []writer.Column
	if err := yaml.Unmarshal(raw, &cols); err != nil {
		return nil, fmt.Errorf("bolt: schema: %w", err)
	}
	return cols, nil
}
