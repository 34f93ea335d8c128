// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"
	"go.uber.org/zap"
)

// MaxReadQuantity is the Modbus limit for one FC3 request.
const MaxReadQuantity = 125

// Client implements poller.Client using Modbus TCP.
// This adapter is geometry-only: it issues reads and unpacks raw responses.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is the transport config, passed through unmodified.
type Config struct {
	Host           string
	Port           uint16
	UnitID         uint8
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// Trace logs every frame through zap at debug level.
	Trace bool
}

// Endpoint returns host:port.
func (c Config) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("modbus client: host required")
	}
	if cfg.Port == 0 {
		return nil, errors.New("modbus client: port required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint())
	h.SlaveId = cfg.UnitID
	// goburrow applies one deadline to dial and to each request.
	h.Timeout = maxDuration(cfg.ConnectTimeout, cfg.ReadTimeout, cfg.WriteTimeout)
	// The collector owns the connection for its whole lifetime.
	h.IdleTimeout = 0
	if cfg.Trace {
		h.Logger = zap.NewStdLog(zap.L().Named("modbus"))
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: connect %s: %w", cfg.Endpoint(), err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- poller.Client interface ----

// ReadHoldingRegisters reads qty words starting at addr.
// Requests above MaxReadQuantity are split into consecutive bursts.
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("modbus client: not connected")
	}
	if qty == 0 {
		return nil, nil
	}

	out := make([]uint16, 0, qty)
	for done := uint32(0); done < uint32(qty); {
		n := uint32(qty) - done
		if n > MaxReadQuantity {
			n = MaxReadQuantity
		}
		start := uint32(addr) + done

		raw, err := c.client.ReadHoldingRegisters(uint16(start), uint16(n))
		if err != nil {
			// Drop the socket so the next attempt redials instead of
			// reading a stale response.
			_ = c.handler.Close()
			return nil, err
		}
		if len(raw) != int(2*n) {
			_ = c.handler.Close()
			return nil, fmt.Errorf("modbus: read %d+%d returned %d bytes, want %d", start, n, len(raw), 2*n)
		}

		out = append(out, unpackRegisters(raw)...)
		done += n
	}
	return out, nil
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func maxDuration(ds ...time.Duration) time.Duration {
	var m time.Duration
	for _, d := range ds {
		if d > m {
			m = d
		}
	}
	return m
}
