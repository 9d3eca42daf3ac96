// Package mmio provides typed access to memory-mapped register files.
//
// A Bus is a window of 32-bit registers addressed by word offset. Drivers do
// not do offset arithmetic on a Bus directly; they carve it into named
// Regions and Registers once and access the hardware only through those.
package mmio

import "fmt"

// Bus is a window of 32-bit registers addressed by word offset. Every call is
// one externally observable access. Implementations must not cache, merge or
// reorder accesses, and each access must be ordered against every earlier and
// later access made through the same Bus.
type Bus interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)
}

// Region is a contiguous run of registers inside a Bus.
type Region struct {
	bus    Bus
	offset uint32
	words  int
}

// NewRegion creates a region of words registers starting at offset.
func NewRegion(bus Bus, offset uint32, words int) Region {
	return Region{bus: bus, offset: offset, words: words}
}

// Len returns the number of registers in the region.
func (r Region) Len() int {
	return r.words
}

// Offset returns the word offset of the first register of the region.
func (r Region) Offset() uint32 {
	return r.offset
}

func (r Region) addr(i int) uint32 {
	if i < 0 || i >= r.words {
		panic(fmt.Sprintf("register index %d out of region [%d, %d)",
			i, r.offset, r.offset+uint32(r.words)))
	}

	return r.offset + uint32(i)
}

// Load reads the i-th register of the region.
func (r Region) Load(i int) uint32 {
	return r.bus.Read32(r.addr(i))
}

// LoadInt32 reads the i-th register and reinterprets its bits as a signed
// 32-bit value.
func (r Region) LoadInt32(i int) int32 {
	return int32(r.Load(i))
}

// Store writes the i-th register of the region.
func (r Region) Store(i int, value uint32) {
	r.bus.Write32(r.addr(i), value)
}

// StoreInt16 sign-extends v to 32 bits and writes it to the i-th register.
func (r Region) StoreInt16(i int, v int16) {
	r.Store(i, uint32(int32(v)))
}

// Register is a single register inside a Bus.
type Register struct {
	bus    Bus
	offset uint32
}

// NewRegister creates a handle to the register at offset.
func NewRegister(bus Bus, offset uint32) Register {
	return Register{bus: bus, offset: offset}
}

// Offset returns the word offset of the register.
func (r Register) Offset() uint32 {
	return r.offset
}

// Load reads the register.
func (r Register) Load() uint32 {
	return r.bus.Read32(r.offset)
}

// Store writes the register.
func (r Register) Store(value uint32) {
	r.bus.Write32(r.offset, value)
}

// BitSet reads the register and reports whether bit n is set.
func (r Register) BitSet(n uint) bool {
	return r.Load()&(1<<n) != 0
}
