// internal/discovery/discovery.go
package discovery

import (
	"context"
	"sort"
	"strings"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// CandidatePort is a serial port that may have a scanner behind it.
type CandidatePort struct {
	Device     string  `json:"device"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

// Finder locates scanner candidates on the host: serial ports by name
// pattern, plus a USB-level presence check for the scanner's VID/PID.
type Finder struct {
	logger *zap.Logger
}

// NewFinder creates a port finder.
func NewFinder(logger *zap.Logger) *Finder {
	return &Finder{
		logger: logger.With(zap.String("component", "discovery")),
	}
}

// ListPorts enumerates serial ports and ranks them. CDC ACM ports get
// the highest confidence since the scanner enumerates as one; other
// USB-serial names rank lower but stay in the list.
func (f *Finder) ListPorts(ctx context.Context) ([]CandidatePort, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	names, err := serial.GetPortsList()
	if err != nil {
		f.logger.Error("Serial port enumeration failed", zap.Error(err))
		return nil, err
	}

	candidates := make([]CandidatePort, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, CandidatePort{
			Device:     name,
			Confidence: portConfidence(name),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	f.logger.Info("Serial port scan completed", zap.Int("ports_found", len(candidates)))
	return candidates, nil
}

// BestPort returns the most likely scanner port, or empty if none found.
func (f *Finder) BestPort(ctx context.Context) (string, error) {
	candidates, err := f.ListPorts(ctx)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0].Device, nil
}

func portConfidence(name string) float64 {
	switch {
	case strings.Contains(name, "ttyACM"), strings.Contains(name, "usbmodem"):
		return 0.9
	case strings.Contains(name, "ttyUSB"), strings.Contains(name, "usbserial"):
		return 0.5
	case strings.Contains(name, "COM"):
		return 0.4
	default:
		return 0.1
	}
}
