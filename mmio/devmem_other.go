//go:build !linux

package mmio

import "errors"

// DevMem is only available on Linux.
type DevMem struct{}

// OpenDevMem always fails on this platform.
func OpenDevMem(base uintptr, words int) (*DevMem, error) {
	return nil, errors.New("/dev/mem access is only supported on linux")
}

// Read32 is never reached because OpenDevMem fails.
func (d *DevMem) Read32(offset uint32) uint32 {
	panic("not supported")
}

// Write32 is never reached because OpenDevMem fails.
func (d *DevMem) Write32(offset uint32, value uint32) {
	panic("not supported")
}

// Close does nothing.
func (d *DevMem) Close() error {
	return nil
}
