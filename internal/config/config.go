// internal/config/config.go
package config

type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

type CollectorConfig struct {
	Source        SourceConfig  `yaml:"source"`
	Retry         RetryConfig   `yaml:"retry"`
	OnReadFailure string        `yaml:"on_read_failure"` // skip | abort
	Groups        []GroupConfig `yaml:"groups"`          // empty => device defaults
	Sink          SinkConfig    `yaml:"sink"`
	HTTP          HTTPConfig    `yaml:"http"`
	LogLevel      string        `yaml:"log_level"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Host             string `yaml:"host"`
	Port             uint16 `yaml:"port"`
	UnitID           uint8  `yaml:"unit_id"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	ReadTimeoutMs    int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs   int    `yaml:"write_timeout_ms"`
	Trace            bool   `yaml:"trace"`
}

// ---- RETRY ----

type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	DelayMs     int `yaml:"delay_ms"`
}

// ---- GROUPS ----

type GroupConfig struct {
	Name           string         `yaml:"name"`
	CadenceSeconds int            `yaml:"cadence_seconds"`
	Columns        []ColumnConfig `yaml:"columns"`
}

type ColumnConfig struct {
	Label    string `yaml:"label"`
	Register string `yaml:"register"` // catalog symbolic name
}

// ---- SINK ----

type SinkConfig struct {
	Postgres *PostgresConfig `yaml:"postgres"`
	Bolt     *BoltConfig     `yaml:"bolt"`
}

type PostgresConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"ssl_mode"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	ConnectRetries int    `yaml:"connect_retries"`
	Hypertable     bool   `yaml:"hypertable"`
}

type BoltConfig struct {
	Path string `yaml:"path"`
}

// ---- HTTP ----

type HTTPConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	HealthAddr  string `yaml:"health_addr"`
}

// Failure policies.
const (
	PolicySkip  = "skip"
	PolicyAbort = "abort"
)
