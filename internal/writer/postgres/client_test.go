// internal/writer/postgres/client_test.go
package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/inverter-collector/internal/writer"
)

func createMockClient(t *testing.T, hypertable bool) (*Client, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	return newClient(mock, time.Second, hypertable), mock
}

var plantColumns = []writer.Column{{Label: "voltage"}, {Label: "current"}}

func TestCreateSchema(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "plant_1" (time timestamptz NOT NULL, "voltage" real, "current" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, c.CreateSchema(context.Background(), "plant_1", plantColumns))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema_TextColumnAndHypertable(t *testing.T) {
	c, mock := createMockClient(t, true)
	defer c.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "identity" (time timestamptz NOT NULL, "model" text, "rated" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`SELECT create_hypertable('"identity"', 'time', if_not_exists => TRUE)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	err := c.CreateSchema(context.Background(), "identity", []writer.Column{{Label: "model", Text: true}, {Label: "rated"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema_QuotesIdentifiers(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "x""; DROP TABLE y; --" (time timestamptz NOT NULL, "a" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, c.CreateSchema(context.Background(), `x"; DROP TABLE y; --`, []writer.Column{{Label: "a"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRow(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	at := time.Unix(1700000010, 0)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "plant_1" (time timestamptz NOT NULL, "voltage" real, "current" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`INSERT INTO "plant_1" (time, "voltage", "current") VALUES ($1, $2, $3)`).
		WithArgs(at, 6150.0, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := context.Background()
	require.NoError(t, c.CreateSchema(ctx, "plant_1", plantColumns))
	require.NoError(t, c.AppendRow(ctx, "plant_1", at, []writer.Cell{writer.Float(6150), writer.Null()}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRow_UnknownGroup(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	err := c.AppendRow(context.Background(), "plant_9", time.Now(), []writer.Cell{writer.Float(1)})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRow_CellCountMismatch(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "plant_1" (time timestamptz NOT NULL, "voltage" real, "current" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	ctx := context.Background()
	require.NoError(t, c.CreateSchema(ctx, "plant_1", plantColumns))
	assert.Error(t, c.AppendRow(ctx, "plant_1", time.Now(), []writer.Cell{writer.Float(1)}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRow_ExecError(t *testing.T) {
	c, mock := createMockClient(t, false)
	defer c.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "monitoring" (time timestamptz NOT NULL, "efficiency" real)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`INSERT INTO "monitoring" (time, "efficiency") VALUES ($1, $2)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)

	ctx := context.Background()
	require.NoError(t, c.CreateSchema(ctx, "monitoring", []writer.Column{{Label: "efficiency"}}))
	err := c.AppendRow(ctx, "monitoring", time.Now(), []writer.Cell{writer.Float(98.7)})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnString(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     5432,
		User:     "solar",
		Password: "p@ss word",
		Database: "inverter",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://solar:p%40ss%20word@db:5432/inverter?sslmode=disable", cfg.ConnString())
}
