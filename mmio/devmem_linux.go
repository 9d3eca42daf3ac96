//go:build linux

package mmio

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMem is a Bus backed by a shared mapping of /dev/mem. Accesses use
// sync/atomic so the compiler can neither elide nor reorder them.
type DevMem struct {
	mapping []byte
	delta   uintptr
	words   uint32
}

// OpenDevMem maps words 32-bit registers starting at the physical address
// base. base must be 4-byte aligned.
func OpenDevMem(base uintptr, words int) (*DevMem, error) {
	if base%4 != 0 {
		return nil, fmt.Errorf("physical address %#x is not word aligned", base)
	}

	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev/mem: %w", err)
	}
	defer unix.Close(fd)

	pageSize := uintptr(unix.Getpagesize())
	pageBase := base &^ (pageSize - 1)
	delta := base - pageBase
	length := (delta + uintptr(words)*4 + pageSize - 1) &^ (pageSize - 1)

	mapping, err := unix.Mmap(fd, int64(pageBase), int(length),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map %#x: %w", base, err)
	}

	return &DevMem{
		mapping: mapping,
		delta:   delta,
		words:   uint32(words),
	}, nil
}

func (d *DevMem) word(offset uint32) *uint32 {
	if offset >= d.words {
		panic(fmt.Sprintf("offset %d outside mapped window of %d words",
			offset, d.words))
	}

	return (*uint32)(unsafe.Pointer(&d.mapping[d.delta+uintptr(offset)*4]))
}

// Read32 loads the register at offset.
func (d *DevMem) Read32(offset uint32) uint32 {
	return atomic.LoadUint32(d.word(offset))
}

// Write32 stores value to the register at offset.
func (d *DevMem) Write32(offset uint32, value uint32) {
	atomic.StoreUint32(d.word(offset), value)
}

// Close unmaps the window. The DevMem must not be used afterwards.
func (d *DevMem) Close() error {
	if d.mapping == nil {
		return nil
	}

	err := unix.Munmap(d.mapping)
	d.mapping = nil

	return err
}
