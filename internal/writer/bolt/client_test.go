// internal/writer/bolt/client_test.go
package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/inverter-collector/internal/writer"
)

func openTemp(t *testing.T) *Client {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "collector.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBolt_SchemaIsIdempotent(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	cols := []writer.Column{{Label: "voltage"}, {Label: "current"}}

	require.NoError(t, c.CreateSchema(ctx, "plant_1", cols))
	require.NoError(t, c.CreateSchema(ctx, "plant_1", cols))

	got, err := c.Columns("plant_1")
	require.NoError(t, err)
	assert.Equal(t, cols, got)
}

func TestBolt_AppendAndReadBackInTimeOrder(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	cols := []writer.Column{{Label: "efficiency"}, {Label: "model", Text: true}, {Label: "temperature"}}
	require.NoError(t, c.CreateSchema(ctx, "monitoring", cols))

	t1 := time.Unix(1700000010, 0).UTC()
	t0 := time.Unix(1699999980, 0).UTC()

	require.NoError(t, c.AppendRow(ctx, "monitoring", t1, []writer.Cell{writer.Float(98.5), writer.Text("SUN2000"), writer.Null()}))
	require.NoError(t, c.AppendRow(ctx, "monitoring", t0, []writer.Cell{writer.Float(97), writer.Text("SUN2000"), writer.Float(41.2)}))

	rows, err := c.Rows("monitoring")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].At.Equal(t0))
	assert.True(t, rows[1].At.Equal(t1))
	assert.Equal(t, []writer.Cell{writer.Float(98.5), writer.Text("SUN2000"), writer.Null()}, rows[1].Cells)
	assert.Equal(t, writer.Float(41.2), rows[0].Cells[2])
}

func TestBolt_AppendWithoutSchema(t *testing.T) {
	c := openTemp(t)

	err := c.AppendRow(context.Background(), "storage", time.Now(), []writer.Cell{writer.Float(1)})
	assert.Error(t, err)
}

func TestBolt_CellCountMismatch(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	require.NoError(t, c.CreateSchema(ctx, "plant_1", []writer.Column{{Label: "voltage"}, {Label: "current"}}))

	err := c.AppendRow(ctx, "plant_1", time.Now(), []writer.Cell{writer.Float(1)})
	assert.Error(t, err)
}

func TestBolt_SchemaChangeReplaces(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	require.NoError(t, c.CreateSchema(ctx, "general", []writer.Column{{Label: "a"}}))
	require.NoError(t, c.CreateSchema(ctx, "general", []writer.Column{{Label: "a"}, {Label: "b"}}))

	got, err := c.Columns("general")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
