// cmd/collector/root.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/inverter-collector/internal/config"
	"github.com/tamzrod/inverter-collector/internal/observability"
)

const (
	ConfigOptionName   = "config"
	LogLevelOptionName = "log-level"
)

// options are shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "inverter-collector",
		Short:        "Collect Huawei inverter telemetry over Modbus TCP",
		SilenceUsage: true,
	}
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newInfoCommand(opts))
	cmd.AddCommand(newRegistersCommand())
	cmd.PersistentFlags().StringVarP(&opts.configPath, ConfigOptionName, "c", "", "Path to the YAML config (environment only if empty)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, LogLevelOptionName, "", "Log level. One of: DEVELOPMENT, PRODUCTION")
	return cmd
}

// load reads, normalizes and, when strict, validates the config, then
// installs the logger. The --log-level flag beats the config.
func (o *options) load(strict bool) (*config.Config, error) {
	c, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		c.Collector.LogLevel = o.logLevel
	}
	config.Normalize(c)

	observability.InitLogger(c.Collector.LogLevel)

	if strict {
		if err := config.Validate(c); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	} else if c.Collector.Source.Host == "" {
		return nil, fmt.Errorf("config validation failed: source host required")
	}
	return c, nil
}
