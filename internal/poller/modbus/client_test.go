// internal/poller/modbus/client_test.go
package modbus

import (
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a minimal Modbus TCP server answering FC3.
// Register n holds the value n (truncated to 16 bits).
type fakeDevice struct {
	ln net.Listener

	mu       sync.Mutex
	requests [][2]uint16 // addr, qty
}

func startFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	d := &fakeDevice{ln: ln}
	go d.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return d
}

func (d *fakeDevice) port(t *testing.T) uint16 {
	_, p, err := net.SplitHostPort(d.ln.Addr().String())
	require.NoError(t, err)
	n, err := strconv.Atoi(p)
	require.NoError(t, err)
	return uint16(n)
}

func (d *fakeDevice) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeDevice) handle(conn net.Conn) {
	defer conn.Close()
	for {
		// MBAP(7) + FC(1) + Address(2) + Quantity(2)
		req := make([]byte, 12)
		if _, err := io.ReadFull(conn, req); err != nil {
			return
		}
		addr := binary.BigEndian.Uint16(req[8:10])
		qty := binary.BigEndian.Uint16(req[10:12])

		d.mu.Lock()
		d.requests = append(d.requests, [2]uint16{addr, qty})
		d.mu.Unlock()

		pdu := make([]byte, 2+2*int(qty))
		pdu[0] = req[7]
		pdu[1] = byte(2 * qty)
		for i := 0; i < int(qty); i++ {
			binary.BigEndian.PutUint16(pdu[2+2*i:], addr+uint16(i))
		}

		resp := make([]byte, 7+len(pdu))
		copy(resp[0:4], req[0:4]) // transaction + protocol id
		binary.BigEndian.PutUint16(resp[4:6], uint16(len(pdu)+1))
		resp[6] = req[6]
		copy(resp[7:], pdu)

		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}

func TestClient_ReadHoldingRegisters(t *testing.T) {
	dev := startFakeDevice(t)

	c, err := New(Config{
		Host:           "127.0.0.1",
		Port:           dev.port(t),
		UnitID:         1,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	})
	require.NoError(t, err)
	defer c.Close()

	words, err := c.ReadHoldingRegisters(32016, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{32016, 32017, 32018, 32019, 32020}, words)
}

func TestClient_SplitsLongReads(t *testing.T) {
	dev := startFakeDevice(t)

	c, err := New(Config{Host: "127.0.0.1", Port: dev.port(t), ReadTimeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	words, err := c.ReadHoldingRegisters(1000, 300)
	require.NoError(t, err)
	require.Len(t, words, 300)
	assert.Equal(t, uint16(1000), words[0])
	assert.Equal(t, uint16(1299), words[299])

	dev.mu.Lock()
	defer dev.mu.Unlock()
	assert.Equal(t, [][2]uint16{{1000, 125}, {1125, 125}, {1250, 50}}, dev.requests)
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{Port: 502})
	assert.Error(t, err)

	_, err = New(Config{Host: "127.0.0.1"})
	assert.Error(t, err)
}

func TestUnpackRegisters(t *testing.T) {
	assert.Equal(t, []uint16{0x0102, 0xFFFE}, unpackRegisters([]byte{0x01, 0x02, 0xFF, 0xFE}))
}

func TestMaxDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, maxDuration(time.Second, 3*time.Second, 2*time.Second))
	assert.Equal(t, time.Duration(0), maxDuration())
}
