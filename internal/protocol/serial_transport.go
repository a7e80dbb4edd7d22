// internal/protocol/serial_transport.go
package protocol

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialTransport implements Transport over a serial port. The BC125AT
// enumerates as a CDC ACM device talking 9600 8N1; commands and replies
// are single ASCII lines terminated by a carriage return.
type SerialTransport struct {
	config *SerialConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.Mutex
	isOpen bool
	stats  TransportStats
}

// NewSerialTransport creates a serial transport for the given port.
func NewSerialTransport(config *SerialConfig, logger *zap.Logger) *SerialTransport {
	return &SerialTransport{
		config: config,
		logger: logger.With(
			zap.String("transport", "serial"),
			zap.String("port", config.Port),
		),
	}
}

// Open opens the serial port and flushes any stale buffered data.
func (st *SerialTransport) Open(ctx context.Context) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if st.isOpen {
		return nil
	}

	st.logger.Info("Opening serial port",
		zap.Int("baud_rate", st.config.BaudRate),
		zap.Duration("timeout", st.config.Timeout),
	)

	mode := &serial.Mode{
		BaudRate: st.config.BaudRate,
		DataBits: st.config.DataBits,
		StopBits: serial.StopBits(st.config.StopBits),
	}
	switch st.config.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}

	port, err := serial.Open(st.config.Port, mode)
	if err != nil {
		st.logger.Error("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("%w: open %s: %v", ErrIO, st.config.Port, err)
	}

	if err := port.SetReadTimeout(st.config.Timeout); err != nil {
		port.Close()
		return fmt.Errorf("%w: set read timeout: %v", ErrIO, err)
	}

	port.ResetInputBuffer()
	port.ResetOutputBuffer()

	st.port = port
	st.isOpen = true
	st.stats.IsConnected = true
	st.stats.LastActivity = time.Now()

	st.logger.Info("Serial port opened successfully")
	return nil
}

// Close closes the serial port.
func (st *SerialTransport) Close() error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if !st.isOpen || st.port == nil {
		return nil
	}

	if err := st.port.Close(); err != nil {
		st.logger.Error("Failed to close serial port", zap.Error(err))
		return fmt.Errorf("%w: close: %v", ErrIO, err)
	}

	st.port = nil
	st.isOpen = false
	st.stats.IsConnected = false

	st.logger.Info("Serial port closed")
	return nil
}

// IsOpen returns whether the port is open.
func (st *SerialTransport) IsOpen() bool {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return st.isOpen && st.port != nil
}

// Send writes one command line and reads the reply line. The mutex keeps
// the request/reply pair atomic; there is never more than one command in
// flight.
func (st *SerialTransport) Send(ctx context.Context, command string) (string, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if !st.isOpen || st.port == nil {
		return "", ErrNotOpen
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	data := []byte(command + string(Terminator))
	st.logger.Debug("Serial send", zap.String("command", command))

	n, err := st.port.Write(data)
	if err != nil {
		st.stats.ErrorCount++
		return "", fmt.Errorf("%w: write: %v", ErrIO, err)
	}
	if n != len(data) {
		st.stats.ErrorCount++
		return "", fmt.Errorf("%w: incomplete write: wrote %d of %d bytes", ErrIO, n, len(data))
	}
	st.stats.BytesWritten += int64(len(data))

	reply, err := st.readLine(ctx)
	if err != nil {
		st.stats.ErrorCount++
		return "", err
	}

	st.stats.BytesRead += int64(len(reply))
	st.stats.CommandCount++
	st.stats.LastActivity = time.Now()

	st.logger.Debug("Serial reply", zap.String("response", reply))
	return reply, nil
}

// readLine accumulates bytes until the terminator. A zero-byte read
// means the port-level read timeout elapsed with no data.
func (st *SerialTransport) readLine(ctx context.Context) (string, error) {
	var line strings.Builder
	buf := make([]byte, 1)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := st.port.Read(buf)
		if err != nil {
			return "", fmt.Errorf("%w: read: %v", ErrIO, err)
		}
		if n == 0 {
			return "", fmt.Errorf("%w: no reply within %s", ErrTimeout, st.config.Timeout)
		}

		switch buf[0] {
		case Terminator, '\n':
			if line.Len() == 0 {
				continue // leading terminator from a previous reply
			}
			return line.String(), nil
		default:
			line.WriteByte(buf[0])
		}
	}
}

// Stats returns a copy of the transport counters.
func (st *SerialTransport) Stats() TransportStats {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return st.stats
}

var _ Transport = (*SerialTransport)(nil)
