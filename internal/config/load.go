// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"github.com/united-manufacturing-hub/umh-utils/env"
	"gopkg.in/yaml.v3"
)

// Environment overrides. Env beats file; file beats defaults.
const (
	EnvInverterAddr = "INV_ADDR"
	EnvInverterPort = "INV_PORT"
	EnvInverterUnit = "INV_MBID"
	EnvDBHost       = "DB_HOST"
	EnvDBPort       = "DB_PORT"
	EnvDBUser       = "DB_USER"
	EnvDBPass       = "DB_PASS"
	EnvDBName       = "DB_NAME"
	EnvLogLevel     = "LOGGING_LEVEL"
)

// Load reads the YAML file at path and applies environment overrides.
// An empty path yields a config built from the environment only.
// The result still needs Normalize and Validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the environment onto cfg.
func ApplyEnv(cfg *Config) error {
	c := &cfg.Collector
	var err error

	if c.Source.Host, err = env.GetAsString(EnvInverterAddr, false, c.Source.Host); err != nil {
		return err
	}

	port, err := env.GetAsInt(EnvInverterPort, false, int(c.Source.Port))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if port < 0 || port > 0xFFFF {
		return fmt.Errorf("config: %s=%d out of range", EnvInverterPort, port)
	}
	c.Source.Port = uint16(port)

	unit, err := env.GetAsInt(EnvInverterUnit, false, int(c.Source.UnitID))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if unit < 0 || unit > 0xFF {
		return fmt.Errorf("config: %s=%d out of range", EnvInverterUnit, unit)
	}
	c.Source.UnitID = uint8(unit)

	if c.LogLevel, err = env.GetAsString(EnvLogLevel, false, c.LogLevel); err != nil {
		return err
	}

	// A DB_HOST in the environment enables the postgres sink.
	if _, set := os.LookupEnv(EnvDBHost); set && c.Sink.Postgres == nil {
		c.Sink.Postgres = &PostgresConfig{}
	}
	if pg := c.Sink.Postgres; pg != nil {
		if pg.Host, err = env.GetAsString(EnvDBHost, false, pg.Host); err != nil {
			return err
		}
		if pg.Port, err = env.GetAsInt(EnvDBPort, false, pg.Port); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if pg.User, err = env.GetAsString(EnvDBUser, false, pg.User); err != nil {
			return err
		}
		if pg.Password, err = env.GetAsString(EnvDBPass, false, pg.Password); err != nil {
			return err
		}
		if pg.Database, err = env.GetAsString(EnvDBName, false, pg.Database); err != nil {
			return err
		}
	}

	return nil
}
