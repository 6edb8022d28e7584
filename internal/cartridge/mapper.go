package cartridge

import "errors"

// ErrUnsupportedMapper is returned when an iNES header names a mapper
// number this package does not implement.
var ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")

// ErrMalformedROM is returned for structurally invalid iNES images.
var ErrMalformedROM = errors.New("cartridge: malformed rom")

// Mapper is the polymorphic capability set every cartridge variant
// implements: CPU-side and PPU-side address decode, the reset vector,
// mapper IRQ state, and the PPU-cycle-260 hook that scanline-counting
// mappers (MMC3, MMC5) use to clock their IRQ counters.
type Mapper interface {
	// CPURead/CPUWrite decode the CPU-visible $6000-$FFFF range: PRG RAM,
	// PRG ROM banks, and any mapper control registers that share the PRG
	// address space.
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, value uint8)

	// PPURead/PPUWrite decode the PPU-visible $0000-$1FFF pattern table
	// range: CHR ROM/RAM banks.
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)

	// ResetVector returns the 16-bit word at $FFFC/$FFFD through this
	// mapper's current PRG bank configuration.
	ResetVector() uint16

	// PollIRQ reports whether this mapper currently asserts its IRQ line.
	// Mappers without IRQ capability always return false.
	PollIRQ() bool

	// PPUCycle260 is called once per visible and pre-render scanline, at
	// PPU dot 260, so MMC3/MMC5-style scanline counters can clock.
	PPUCycle260(scanline int)

	// MirrorMode returns the mapper's current nametable mirroring. Most
	// mappers return a fixed value; MMC1/MMC3/AxROM change it at runtime.
	MirrorMode() MirrorMode
}
