// internal/protocol/transport.go
package protocol

import (
	"context"
	"errors"
	"time"
)

// Transport failure classes. The SDO layer propagates these unchanged.
var (
	ErrTimeout = errors.New("transport timeout")
	ErrIO      = errors.New("transport I/O error")
	ErrNotOpen = errors.New("transport not open")
)

// Transport carries one ASCII command to the scanner and returns the raw
// reply line. The command protocol is strictly request/reply with no
// pipelining, so a transport is exclusively owned for the duration of a
// session and implementations serialize Send internally.
type Transport interface {
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Send transmits one command (without terminator) and returns the
	// reply with the terminator stripped.
	Send(ctx context.Context, command string) (string, error)
}

// Terminator ends every command and reply on the wire.
const Terminator = '\r'

// SerialConfig represents serial transport configuration.
type SerialConfig struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}

// TransportStats tracks transport activity for health reporting.
type TransportStats struct {
	BytesWritten int64     `json:"bytes_written"`
	BytesRead    int64     `json:"bytes_read"`
	CommandCount int64     `json:"command_count"`
	ErrorCount   int64     `json:"error_count"`
	IsConnected  bool      `json:"is_connected"`
	LastActivity time.Time `json:"last_activity"`
}
