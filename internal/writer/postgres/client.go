// internal/writer/postgres/client.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/writer"
)

// Config for a TimescaleDB / PostgreSQL sink.
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	Timeout        time.Duration
	ConnectRetries int
	ConnectDelay   time.Duration
	Hypertable     bool
}

// ConnString renders cfg as a postgres:// URL.
func (cfg Config) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// pgxIface is the subset of *pgxpool.Pool the sink needs.
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Client writes one table per group.
type Client struct {
	db         pgxIface
	timeout    time.Duration
	hypertable bool

	mu      sync.Mutex
	schemas map[string][]writer.Column
}

var _ writer.Sink = (*Client)(nil)

// Connect opens a pool and pings it, retrying with a fixed delay.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.Timeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.Timeout
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var last error
	for attempt := 1; attempt <= retries; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, pc)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				zap.S().Infof("Connected to %s@%s:%d/%s [%s]", cfg.User, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
				return newClient(pool, cfg.Timeout, cfg.Hypertable), nil
			}
			pool.Close()
		}
		last = err
		zap.S().Warnf("postgres: connect attempt %d/%d failed: %v", attempt, retries, err)

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectDelay):
		}
	}

	return nil, fmt.Errorf("postgres: connect after %d attempts: %w", retries, last)
}

func newClient(db pgxIface, timeout time.Duration, hypertable bool) *Client {
	return &Client{
		db:         db,
		timeout:    timeout,
		hypertable: hypertable,
		schemas:    make(map[string][]writer.Column),
	}
}

// CreateSchema creates the group's table if it does not exist.
func (c *Client) CreateSchema(ctx context.Context, group string, columns []writer.Column) error {
	if group == "" {
		return errors.New("postgres: empty group name")
	}
	if len(columns) == 0 {
		return fmt.Errorf("postgres: group %s has no columns", group)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.db.Exec(ctx, createTableSQL(group, columns)); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", group, err)
	}

	if c.hypertable {
		if _, err := c.db.Exec(ctx, hypertableSQL(group)); err != nil {
			return fmt.Errorf("postgres: create hypertable %s: %w", group, err)
		}
	}

	c.mu.Lock()
	c.schemas[group] = append([]writer.Column(nil), columns...)
	c.mu.Unlock()
	return nil
}

// AppendRow inserts one row. Null cells are written as SQL NULL.
func (c *Client) AppendRow(ctx context.Context, group string, at time.Time, cells []writer.Cell) error {
	c.mu.Lock()
	cols, ok := c.schemas[group]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("postgres: unknown group %s", group)
	}
	if len(cells) != len(cols) {
		return fmt.Errorf("postgres: group %s: %d cells for %d columns", group, len(cells), len(cols))
	}

	args := make([]any, 0, len(cells)+1)
	args = append(args, at)
	for _, cell := range cells {
		args = append(args, cell.Value())
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.db.Exec(ctx, insertSQL(group, cols), args...); err != nil {
		return fmt.Errorf("postgres: insert %s: %w", group, err)
	}
	return nil
}

func (c *Client) Close() error {
	c.db.Close()
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ---- SQL ----

func createTableSQL(group string, columns []writer.Column) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pgx.Identifier{group}.Sanitize())
	b.WriteString(" (time timestamptz NOT NULL")
	for _, col := range columns {
		b.WriteString(", ")
		b.WriteString(pgx.Identifier{col.Label}.Sanitize())
		if col.Text {
			b.WriteString(" text")
		} else {
			b.WriteString(" real")
		}
	}
	b.WriteString(")")
	return b.String()
}

func hypertableSQL(group string) string {
	table := strings.ReplaceAll(pgx.Identifier{group}.Sanitize(), "'", "''")
	return fmt.Sprintf("SELECT create_hypertable('%s', 'time', if_not_exists => TRUE)", table)
}

func insertSQL(group string, columns []writer.Column) string {
	names := make([]string, 0, len(columns)+1)
	params := make([]string, 0, len(columns)+1)

	names = append(names, "time")
	params = append(params, "$1")
	for i, col := range columns {
		names = append(names, pgx.Identifier{col.Label}.Sanitize())
		params = append(params, "$"+strconv.Itoa(i+2))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{group}.Sanitize(),
		strings.Join(names, ", "),
		strings.Join(params, ", "),
	)
}
