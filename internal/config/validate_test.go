// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a valid normalized config quickly
func validConfig() *Config {
	cfg := &Config{
		Collector: CollectorConfig{
			Source: SourceConfig{Host: "192.168.200.1"},
			Groups: []GroupConfig{
				{
					Name:           "monitoring",
					CadenceSeconds: 30,
					Columns: []ColumnConfig{
						{Label: "efficiency", Register: "EFFICIENCY"},
						{Register: "active_power"},
					},
				},
			},
			Sink: SinkConfig{Bolt: &BoltConfig{Path: "/tmp/collector.db"}},
		},
	}
	Normalize(cfg)
	return cfg
}

func expectErr(t *testing.T, cfg *Config, contains string) {
	t.Helper()
	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Fatalf("error %q does not contain %q", err, contains)
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoGroupsMeansDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups = nil

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingHost(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Source.Host = ""
	expectErr(t, cfg, "host is required")
}

func TestValidate_BadPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.OnReadFailure = "retry-forever"
	expectErr(t, cfg, "on_read_failure")
}

func TestValidate_ZeroCadence(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups[0].CadenceSeconds = 0
	expectErr(t, cfg, "cadence_seconds")
}

func TestValidate_DuplicateGroup(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups = append(cfg.Collector.Groups, cfg.Collector.Groups[0])
	expectErr(t, cfg, "duplicate name")
}

func TestValidate_EmptyColumns(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups[0].Columns = nil
	expectErr(t, cfg, "at least one column")
}

func TestValidate_UnknownRegister(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups[0].Columns[0].Register = "FLUX_CAPACITOR"
	expectErr(t, cfg, "unknown register")
}

func TestValidate_RegisterListedTwice(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups[0].Columns[1] = ColumnConfig{Label: "eff2", Register: "EFFICIENCY"}
	expectErr(t, cfg, "listed twice")
}

func TestValidate_DuplicateLabel(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Groups[0].Columns[1].Label = "efficiency"
	expectErr(t, cfg, "duplicate column label")
}

func TestValidate_TimeLabelReserved(t *testing.T) {
	for _, label := range []string{"time", "Time", "TIME"} {
		cfg := validConfig()
		cfg.Collector.Groups[0].Columns[1].Label = label
		expectErr(t, cfg, "reserved for the row timestamp")
	}
}

func TestValidate_NoSink(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Sink = SinkConfig{}
	expectErr(t, cfg, "at least one of postgres or bolt")
}

func TestValidate_PostgresNeedsDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Sink.Postgres = &PostgresConfig{Host: "db"}
	Normalize(cfg)
	expectErr(t, cfg, "database is required")
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := validConfig()
	c := cfg.Collector

	if c.Source.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", c.Source.Port, DefaultPort)
	}
	if c.Source.ReadTimeoutMs != DefaultTimeoutMs {
		t.Fatalf("read timeout = %d", c.Source.ReadTimeoutMs)
	}
	if c.Retry.MaxAttempts != DefaultMaxAttempts || c.Retry.DelayMs != DefaultRetryDelayMs {
		t.Fatalf("retry = %+v", c.Retry)
	}
	if c.OnReadFailure != PolicySkip {
		t.Fatalf("policy = %q, want %q", c.OnReadFailure, PolicySkip)
	}
	// register names are canonicalised, labels default to the lowercased name
	col := c.Groups[0].Columns[1]
	if col.Register != "ACTIVE_POWER" || col.Label != "active_power" {
		t.Fatalf("column = %+v", col)
	}
}

func TestNormalize_PostgresDefaults(t *testing.T) {
	cfg := &Config{Collector: CollectorConfig{Sink: SinkConfig{Postgres: &PostgresConfig{}}}}
	Normalize(cfg)

	pg := cfg.Collector.Sink.Postgres
	if pg.Port != DefaultPostgresPort || pg.SSLMode != DefaultPostgresSSLMode || pg.ConnectRetries != DefaultConnectRetries {
		t.Fatalf("postgres = %+v", pg)
	}
}
