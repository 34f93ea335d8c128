// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/inverter-collector/internal/config"
	pmodbus "github.com/tamzrod/inverter-collector/internal/poller/modbus"
)

// Build constructs a Poller and wires the Modbus client lifecycle.
// One connection is opened here and reused for every batch.
// The returned closer disconnects it.
func Build(c cfg.CollectorConfig) (*Poller, func() error, error) {
	src := c.Source

	client, err := pmodbus.New(pmodbus.Config{
		Host:           src.Host,
		Port:           src.Port,
		UnitID:         src.UnitID,
		ConnectTimeout: time.Duration(src.ConnectTimeoutMs) * time.Millisecond,
		ReadTimeout:    time.Duration(src.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:   time.Duration(src.WriteTimeoutMs) * time.Millisecond,
		Trace:          src.Trace,
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			Retry: Retry{
				MaxAttempts: c.Retry.MaxAttempts,
				Delay:       time.Duration(c.Retry.DelayMs) * time.Millisecond,
			},
		},
		client,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}
