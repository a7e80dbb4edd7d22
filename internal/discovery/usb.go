// internal/discovery/usb.go
package discovery

import (
	"fmt"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// The scanner's USB identity.
const (
	VendorID  = gousb.ID(0x1965)
	ProductID = gousb.ID(0x0017)
)

// USBDevice describes the scanner as seen on the USB bus.
type USBDevice struct {
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`
	Bus       int    `json:"bus"`
	Address   int    `json:"address"`
}

// FindUSB checks the USB bus for the scanner. It reports presence only;
// the actual conversation always goes through the CDC ACM serial port.
func (f *Finder) FindUSB() ([]USBDevice, error) {
	usbCtx := gousb.NewContext()
	defer func() {
		if err := usbCtx.Close(); err != nil {
			f.logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()

	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == VendorID && desc.Product == ProductID
	})
	defer func() {
		for _, device := range devices {
			if device != nil {
				device.Close()
			}
		}
	}()
	if err != nil {
		f.logger.Error("USB enumeration failed", zap.Error(err))
		return nil, fmt.Errorf("enumerate USB devices: %w", err)
	}

	found := make([]USBDevice, 0, len(devices))
	for _, device := range devices {
		desc := device.Desc
		found = append(found, USBDevice{
			VendorID:  fmt.Sprintf("%04x", uint16(desc.Vendor)),
			ProductID: fmt.Sprintf("%04x", uint16(desc.Product)),
			Bus:       desc.Bus,
			Address:   desc.Address,
		})
		f.logger.Info("Scanner found on USB bus",
			zap.Int("bus", desc.Bus),
			zap.Int("address", desc.Address),
		)
	}
	return found, nil
}

// IsPresent reports whether at least one scanner is on the USB bus.
func (f *Finder) IsPresent() bool {
	devices, err := f.FindUSB()
	return err == nil && len(devices) > 0
}
