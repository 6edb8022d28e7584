package cartridge

// Mapper005 implements the reduced-scope subset of MMC5 (mapper 5) spec
// calls for: PRG mode 3 only (four switchable 8KB banks, last fixed to
// the final bank), 8KB CHR (single switchable bank), 1KB of ExRAM at
// $5C00-$5FFF, a scanline-counter IRQ, and mirroring selected from
// $5105. Audio, split-screen, fill mode and the hardware multiplier are
// deliberately out of scope per spec §4.4/§9.
type Mapper005 struct {
	cart     *Cartridge
	prgBanks uint8
	chrBanks uint8

	prgBank [4]uint8 // banks for $8000,$A000,$C000,$E000 (last forced to top bank)
	chrBank uint8

	exRAM [0x400]uint8

	mirroring uint8 // 2-bit value from $5105 (0=single0,1=single1,2=vertical,3=horizontal)

	irqScanlineTarget uint8
	irqEnabled        bool
	irqPending        bool
	currentScanline   int
}

// NewMapper005 creates a new reduced-scope MMC5 mapper
func NewMapper005(cart *Cartridge) *Mapper005 {
	m := &Mapper005{
		cart:     cart,
		prgBanks: uint8(len(cart.prgROM) / 0x2000),
		chrBanks: uint8(len(cart.chrROM) / 0x2000),
	}
	for i := range m.prgBank {
		m.prgBank[i] = m.prgBanks - 1
	}
	return m
}

func (m *Mapper005) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x5C00 && addr < 0x6000:
		return m.exRAM[addr-0x5C00]
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.sram[addr-0x6000]
	case addr >= 0x8000 && addr < 0xA000:
		return m.readPRGBank(m.prgBank[0], addr-0x8000)
	case addr >= 0xA000 && addr < 0xC000:
		return m.readPRGBank(m.prgBank[1], addr-0xA000)
	case addr >= 0xC000 && addr < 0xE000:
		return m.readPRGBank(m.prgBank[2], addr-0xC000)
	case addr >= 0xE000:
		return m.readPRGBank(m.prgBanks-1, addr-0xE000)
	}
	return 0
}

func (m *Mapper005) readPRGBank(bank uint8, offsetInBank uint16) uint8 {
	offset := uint32(bank)*0x2000 + uint32(offsetInBank)
	if int(offset) < len(m.cart.prgROM) {
		return m.cart.prgROM[offset]
	}
	return 0
}

func (m *Mapper005) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x5C00 && addr < 0x6000:
		m.exRAM[addr-0x5C00] = value

	case addr == 0x5105:
		m.mirroring = value & 0x03

	case addr == 0x5203:
		m.irqScanlineTarget = value

	case addr == 0x5204:
		m.irqEnabled = value&0x80 != 0

	case addr >= 0x5114 && addr <= 0x5117:
		// PRG bank registers for $8000/$A000/$C000/$E000; register 3
		// ($5117) always selects ROM and is kept mirrored onto the
		// fixed-last-bank slot per the reduced PRG-mode-3 scope.
		slot := addr - 0x5114
		m.prgBank[slot] = value & 0x7F

	case addr >= 0x6000 && addr < 0x8000:
		m.cart.sram[addr-0x6000] = value

	case addr == 0x5106 || addr == 0x5107:
		// fill-mode tile/attribute registers: out of scope, ignored.

	case addr >= 0x5120 && addr <= 0x5127:
		// CHR bank registers; reduced scope keeps a single 8KB bank.
		m.chrBank = value
	}
}

func (m *Mapper005) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	offset := uint32(m.chrBank)*0x2000 + uint32(addr)
	if int(offset) < len(m.cart.chrROM) {
		return m.cart.chrROM[offset]
	}
	return 0
}

func (m *Mapper005) PPUWrite(addr uint16, value uint8) {
	if !m.cart.hasCHRRAM || addr >= 0x2000 {
		return
	}
	offset := uint32(m.chrBank)*0x2000 + uint32(addr)
	if int(offset) < len(m.cart.chrROM) {
		m.cart.chrROM[offset] = value
	}
}

func (m *Mapper005) ResetVector() uint16 {
	lo := uint16(m.CPURead(0xFFFC))
	hi := uint16(m.CPURead(0xFFFD))
	return lo | hi<<8
}

func (m *Mapper005) PollIRQ() bool {
	return m.irqPending
}

// PPUCycle260 implements MMC5's scanline counter in its simplest form: an
// IRQ fires once the visible scanline reaches the configured target.
func (m *Mapper005) PPUCycle260(scanline int) {
	m.currentScanline = scanline
	if m.irqEnabled && scanline >= 0 && scanline == int(m.irqScanlineTarget) {
		m.irqPending = true
	}
}

func (m *Mapper005) MirrorMode() MirrorMode {
	switch m.mirroring {
	case 0:
		return MirrorSingleScreen0
	case 1:
		return MirrorSingleScreen1
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}
