// cmd/collector/run.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/collector"
	"github.com/tamzrod/inverter-collector/internal/config"
	"github.com/tamzrod/inverter-collector/internal/observability"
	"github.com/tamzrod/inverter-collector/internal/poller"
	"github.com/tamzrod/inverter-collector/internal/register"
	"github.com/tamzrod/inverter-collector/internal/scheduler"
	"github.com/tamzrod/inverter-collector/internal/writer"
	"github.com/tamzrod/inverter-collector/internal/writer/builder"
)

const shutdownTimeout = 5 * time.Second

// device is the inverter connection as the collector sees it.
// *poller.Poller implements it.
type device interface {
	collector.Reader
	collector.ValueReader
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the inverter and write rows until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
}

func run(opts *options) error {
	c, err := opts.load(true)
	if err != nil {
		return err
	}
	cc := c.Collector
	log := zap.S()

	if err := register.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, closeDevice, err := poller.Build(cc)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDevice(); err != nil {
			log.Warnf("Closing device connection: %v", err)
		}
	}()

	col, sink, err := buildCollector(ctx, cc, p, time.Now())
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warnf("Closing sink: %v", err)
		}
	}()

	// --------------------
	// Observability
	// --------------------

	servers := []*http.Server{
		observability.Serve("metrics", cc.HTTP.MetricsAddr, observability.MetricsHandler()),
		observability.Serve("health", cc.HTTP.HealthAddr, observability.NewHealth(col.Tracker().Check)),
	}
	defer shutdown(servers)

	err = col.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Infof("Shutting down")
		return nil
	}
	return err
}

// buildCollector wires a ready collector over dev: it describes the
// device, resolves the groups, opens the sinks and creates their schema.
// The caller owns the returned sink.
func buildCollector(ctx context.Context, cc config.CollectorConfig, dev device, now time.Time) (*collector.Collector, writer.Sink, error) {
	// --------------------
	// Groups
	// --------------------

	id, err := collector.Describe(dev)
	if err != nil {
		return nil, nil, err
	}

	groups := collector.DefaultGroups(int(id.Strings))
	if len(cc.Groups) > 0 {
		if groups, err = collector.GroupsFromConfig(cc.Groups); err != nil {
			return nil, nil, err
		}
	}

	sched, err := scheduler.New(groups, now)
	if err != nil {
		return nil, nil, err
	}

	policy, err := collector.ParsePolicy(cc.OnReadFailure)
	if err != nil {
		return nil, nil, err
	}

	// --------------------
	// Sinks
	// --------------------

	sink, err := builder.Build(ctx, cc.Sink)
	if err != nil {
		return nil, nil, err
	}

	col, err := collector.New(dev, sched, sink, collector.Options{Policy: policy})
	if err != nil {
		_ = sink.Close()
		return nil, nil, err
	}
	if err := col.Prepare(ctx); err != nil {
		_ = sink.Close()
		return nil, nil, err
	}

	zap.S().Infof("Collecting %d groups (policy: %s)", len(groups), policy)
	return col, sink, nil
}

func shutdown(servers []*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		_ = srv.Shutdown(ctx)
	}
}
