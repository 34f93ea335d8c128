// internal/config/normalize.go
package config

import "strings"

// Defaults. Timeouts match what the collector has always used against
// the inverter's built-in dongle.
const (
	DefaultPort            = 6607
	DefaultTimeoutMs       = 500
	DefaultMaxAttempts     = 10
	DefaultRetryDelayMs    = 1000
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"
	DefaultPostgresTimeout = 10000
	DefaultConnectRetries  = 5
	DefaultLogLevel        = "PRODUCTION"
)

// Normalize fills defaults.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Collector

	// ---- source ----

	if c.Source.Port == 0 {
		c.Source.Port = DefaultPort
	}
	if c.Source.ConnectTimeoutMs == 0 {
		c.Source.ConnectTimeoutMs = DefaultTimeoutMs
	}
	if c.Source.ReadTimeoutMs == 0 {
		c.Source.ReadTimeoutMs = DefaultTimeoutMs
	}
	if c.Source.WriteTimeoutMs == 0 {
		c.Source.WriteTimeoutMs = DefaultTimeoutMs
	}

	// ---- retry / policy ----

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if c.Retry.DelayMs == 0 {
		c.Retry.DelayMs = DefaultRetryDelayMs
	}
	c.OnReadFailure = strings.ToLower(strings.TrimSpace(c.OnReadFailure))
	if c.OnReadFailure == "" {
		c.OnReadFailure = PolicySkip
	}

	// ---- groups ----

	for gi := range c.Groups {
		g := &c.Groups[gi]
		g.Name = strings.TrimSpace(g.Name)
		for ci := range g.Columns {
			col := &g.Columns[ci]
			col.Register = strings.ToUpper(strings.TrimSpace(col.Register))
			if col.Label == "" {
				col.Label = strings.ToLower(col.Register)
			}
		}
	}

	// ---- sink ----

	if pg := c.Sink.Postgres; pg != nil {
		if pg.Port == 0 {
			pg.Port = DefaultPostgresPort
		}
		if pg.SSLMode == "" {
			pg.SSLMode = DefaultPostgresSSLMode
		}
		if pg.TimeoutMs == 0 {
			pg.TimeoutMs = DefaultPostgresTimeout
		}
		if pg.ConnectRetries == 0 {
			pg.ConnectRetries = DefaultConnectRetries
		}
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
