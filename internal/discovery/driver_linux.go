// internal/discovery/driver_linux.go
package discovery

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Some kernels do not bind a tty driver to the scanner automatically.
// Registering its VID/PID with the generic usb-serial driver makes a
// /dev/ttyUSB node appear. Requires root.
const (
	newIDPath = "/sys/bus/usb-serial/drivers/generic/new_id"
	driverID  = "1965 0017 2 076d 0006"
)

// SetupDriver registers the scanner with the generic usb-serial driver.
func (f *Finder) SetupDriver() error {
	file, err := os.OpenFile(newIDPath, os.O_WRONLY, 0)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("driver setup requires root: %w", err)
		}
		return fmt.Errorf("open %s: %w", newIDPath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(driverID + "\n"); err != nil {
		return fmt.Errorf("register usb-serial id: %w", err)
	}

	f.logger.Info("Registered scanner with generic usb-serial driver",
		zap.String("id", driverID),
	)
	return nil
}
