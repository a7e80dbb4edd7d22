// internal/discovery/driver_other.go
//go:build !linux

package discovery

import "errors"

// SetupDriver is only meaningful on Linux, where the kernel's generic
// usb-serial driver can be taught new VID/PID pairs at runtime.
func (f *Finder) SetupDriver() error {
	return errors.New("driver setup is only supported on Linux")
}
