// cmd/collector/info.go
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/collector"
	"github.com/tamzrod/inverter-collector/internal/poller"
)

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Read and print the inverter identity, state and storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.load(false)
			if err != nil {
				return err
			}

			p, closeDevice, err := poller.Build(c.Collector)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeDevice(); err != nil {
					zap.S().Warnf("Closing device connection: %v", err)
				}
			}()

			_, err = collector.Describe(p)
			return err
		},
	}
}
