// internal/protocol/sim_transport.go
package protocol

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SimulatedTransport is a transport with no scanner behind it: every
// command is appended to a log file and echoed back as its own reply.
// It lets the full import pipeline run for debugging, producing a
// reviewable dump of exactly what would have been programmed.
type SimulatedTransport struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	logger *zap.Logger
	mutex  sync.Mutex
	stats  TransportStats
}

// NewSimulatedTransport creates a simulated transport logging to path.
func NewSimulatedTransport(path string, logger *zap.Logger) *SimulatedTransport {
	return &SimulatedTransport{
		path: path,
		logger: logger.With(
			zap.String("transport", "simulated"),
			zap.String("path", path),
		),
	}
}

// Open creates or truncates the command log file.
func (st *SimulatedTransport) Open(ctx context.Context) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if st.file != nil {
		return nil
	}

	file, err := os.Create(st.path)
	if err != nil {
		return fmt.Errorf("%w: open command log: %v", ErrIO, err)
	}

	st.file = file
	st.writer = bufio.NewWriter(file)
	st.stats.IsConnected = true

	st.logger.Info("Simulated transport opened")
	return nil
}

// Close flushes and closes the command log.
func (st *SimulatedTransport) Close() error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if st.file == nil {
		return nil
	}

	st.writer.Flush()
	err := st.file.Close()
	st.file = nil
	st.writer = nil
	st.stats.IsConnected = false

	if err != nil {
		return fmt.Errorf("%w: close command log: %v", ErrIO, err)
	}
	st.logger.Info("Simulated transport closed")
	return nil
}

// IsOpen returns whether the command log is open.
func (st *SimulatedTransport) IsOpen() bool {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return st.file != nil
}

// Send records the command and echoes it back.
func (st *SimulatedTransport) Send(ctx context.Context, command string) (string, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if st.file == nil {
		return "", ErrNotOpen
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if _, err := st.writer.WriteString(command + "\n"); err != nil {
		st.stats.ErrorCount++
		return "", fmt.Errorf("%w: write command log: %v", ErrIO, err)
	}

	st.stats.BytesWritten += int64(len(command) + 1)
	st.stats.CommandCount++
	st.stats.LastActivity = time.Now()

	st.logger.Debug("Simulated send", zap.String("command", command))
	return command, nil
}

// Stats returns a copy of the transport counters.
func (st *SimulatedTransport) Stats() TransportStats {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return st.stats
}

var _ Transport = (*SimulatedTransport)(nil)
