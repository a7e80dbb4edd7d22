// internal/service/discovery_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scanner-service/internal/discovery"
	"scanner-service/internal/utils"
)

// DiscoveryService locates the scanner on the host.
type DiscoveryService struct {
	finder *discovery.Finder
	logger *utils.ServiceLogger
}

// NewDiscoveryService creates a new discovery service instance
func NewDiscoveryService(finder *discovery.Finder, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		finder: finder,
		logger: utils.NewServiceLogger(logger, "discovery-service"),
	}
}

// DiscoveryResult combines the serial and USB views of the host.
type DiscoveryResult struct {
	Ports      []discovery.CandidatePort `json:"ports"`
	USBDevices []discovery.USBDevice     `json:"usb_devices"`
	BestPort   string                    `json:"best_port,omitempty"`
}

// Discover enumerates serial candidates and checks the USB bus for the
// scanner's VID/PID. A USB enumeration failure is not fatal; serial
// candidates are still reported.
func (ds *DiscoveryService) Discover(ctx context.Context) (*DiscoveryResult, error) {
	ports, err := ds.finder.ListPorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("serial discovery failed: %w", err)
	}

	result := &DiscoveryResult{Ports: ports}
	if len(ports) > 0 {
		result.BestPort = ports[0].Device
	}

	usbDevices, err := ds.finder.FindUSB()
	if err != nil {
		ds.logger.Warn("USB discovery failed", zap.Error(err))
	} else {
		result.USBDevices = usbDevices
	}

	return result, nil
}

// SetupDriver registers the scanner's VID/PID with the kernel's generic
// usb-serial driver. Linux only; requires root.
func (ds *DiscoveryService) SetupDriver() error {
	return ds.finder.SetupDriver()
}
