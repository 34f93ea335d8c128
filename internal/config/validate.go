// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// TimeColumn is the row timestamp column every sink table carries.
const TimeColumn = "time"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	c := &cfg.Collector

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	if c.Source.Host == "" {
		return fmt.Errorf("source: host is required (or set %s)", EnvInverterAddr)
	}
	if c.Source.Port == 0 {
		return fmt.Errorf("source: port must be > 0")
	}
	if c.Source.ConnectTimeoutMs < 0 || c.Source.ReadTimeoutMs < 0 || c.Source.WriteTimeoutMs < 0 {
		return fmt.Errorf("source: timeouts must be >= 0")
	}

	// ------------------------------------------------------------
	// RETRY / POLICY
	// ------------------------------------------------------------

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry: max_attempts must be >= 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.DelayMs < 0 {
		return fmt.Errorf("retry: delay_ms must be >= 0, got %d", c.Retry.DelayMs)
	}

	switch c.OnReadFailure {
	case PolicySkip, PolicyAbort:
	default:
		return fmt.Errorf("on_read_failure: must be %q or %q, got %q", PolicySkip, PolicyAbort, c.OnReadFailure)
	}

	// ------------------------------------------------------------
	// GROUPS (empty list means device defaults)
	// ------------------------------------------------------------

	names := make(map[string]struct{}, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d]: name is required", i)
		}
		if _, dup := names[g.Name]; dup {
			return fmt.Errorf("group %q: duplicate name", g.Name)
		}
		names[g.Name] = struct{}{}

		if g.CadenceSeconds <= 0 {
			return fmt.Errorf("group %q: cadence_seconds must be > 0", g.Name)
		}
		if len(g.Columns) == 0 {
			return fmt.Errorf("group %q: at least one column is required", g.Name)
		}

		labels := make(map[string]struct{}, len(g.Columns))
		regs := make(map[string]struct{}, len(g.Columns))
		for _, col := range g.Columns {
			d, ok := register.ByName(col.Register)
			if !ok {
				return fmt.Errorf("group %q: unknown register %q", g.Name, col.Register)
			}
			if !d.Access.Readable() {
				return fmt.Errorf("group %q: register %s is not readable", g.Name, d.Name)
			}
			if _, dup := regs[d.Name]; dup {
				return fmt.Errorf("group %q: register %s listed twice", g.Name, d.Name)
			}
			regs[d.Name] = struct{}{}

			if strings.EqualFold(col.Label, TimeColumn) {
				return fmt.Errorf("group %q: column label %q is reserved for the row timestamp", g.Name, col.Label)
			}
			if _, dup := labels[col.Label]; dup {
				return fmt.Errorf("group %q: duplicate column label %q", g.Name, col.Label)
			}
			labels[col.Label] = struct{}{}
		}
	}

	// ------------------------------------------------------------
	// SINK
	// ------------------------------------------------------------

	if c.Sink.Postgres == nil && c.Sink.Bolt == nil {
		return fmt.Errorf("sink: at least one of postgres or bolt is required")
	}
	if pg := c.Sink.Postgres; pg != nil {
		if pg.Host == "" {
			return fmt.Errorf("sink.postgres: host is required (or set %s)", EnvDBHost)
		}
		if pg.Database == "" {
			return fmt.Errorf("sink.postgres: database is required (or set %s)", EnvDBName)
		}
		if pg.Port <= 0 || pg.Port > 0xFFFF {
			return fmt.Errorf("sink.postgres: invalid port %d", pg.Port)
		}
		if pg.ConnectRetries < 1 {
			return fmt.Errorf("sink.postgres: connect_retries must be >= 1")
		}
	}
	if b := c.Sink.Bolt; b != nil && b.Path == "" {
		return fmt.Errorf("sink.bolt: path is required")
	}

	return nil
}
