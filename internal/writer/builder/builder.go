// internal/writer/builder/builder.go
package builder

import (
	"context"
	"errors"
	"time"

	cfg "github.com/tamzrod/inverter-collector/internal/config"
	"github.com/tamzrod/inverter-collector/internal/writer"
	"github.com/tamzrod/inverter-collector/internal/writer/bolt"
	"github.com/tamzrod/inverter-collector/internal/writer/postgres"
)

// ConnectDelay is the fixed pause between database connect attempts.
const ConnectDelay = 2 * time.Second

// Build opens every configured sink and joins them.
// Assumes config has already passed validation.
func Build(ctx context.Context, c cfg.SinkConfig) (writer.Sink, error) {
	var sinks []writer.Named

	closeAll := func() {
		for _, s := range sinks {
			_ = s.Sink.Close()
		}
	}

	if pg := c.Postgres; pg != nil {
		cli, err := postgres.Connect(ctx, postgres.Config{
			Host:           pg.Host,
			Port:           pg.Port,
			User:           pg.User,
			Password:       pg.Password,
			Database:       pg.Database,
			SSLMode:        pg.SSLMode,
			Timeout:        time.Duration(pg.TimeoutMs) * time.Millisecond,
			ConnectRetries: pg.ConnectRetries,
			ConnectDelay:   ConnectDelay,
			Hypertable:     pg.Hypertable,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, writer.Named{Name: "postgres", Sink: cli})
	}

	if b := c.Bolt; b != nil {
		cli, err := bolt.Open(b.Path)
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, writer.Named{Name: "bolt", Sink: cli})
	}

	if len(sinks) == 0 {
		return nil, errors.New("writer: no sink configured")
	}
	return writer.New(sinks...)
}
