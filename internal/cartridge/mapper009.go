package cartridge

// Mapper009 implements MMC2 (mapper 9): a switchable 8KB PRG bank at
// $8000 with the last three 8KB banks fixed, and two independent CHR
// latches per 4KB pattern-table half that flip between two pre-selected
// banks whenever the PPU fetches tile $FD or $FE on that half.
type Mapper009 struct {
	cart     *Cartridge
	prgBanks uint8

	prgBank uint8

	// left half ($0000-$0FFF) banks for latch state FD/FE
	leftFD, leftFE uint8
	// right half ($1000-$1FFF) banks for latch state FD/FE
	rightFD, rightFE uint8

	leftLatch  uint8 // 0xFD or 0xFE
	rightLatch uint8

	mirroring uint8 // 0=vertical, 1=horizontal
}

// NewMapper009 creates a new MMC2 mapper
func NewMapper009(cart *Cartridge) *Mapper009 {
	return &Mapper009{
		cart:       cart,
		prgBanks:   uint8(len(cart.prgROM) / 0x2000),
		leftLatch:  0xFE,
		rightLatch: 0xFE,
	}
}

func (m *Mapper009) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.sram[addr-0x6000]
	case addr >= 0x8000 && addr < 0xA000:
		return m.readPRGBank(m.prgBank, addr-0x8000)
	case addr >= 0xA000 && addr < 0xC000:
		return m.readPRGBank(m.prgBanks-3, addr-0xA000)
	case addr >= 0xC000 && addr < 0xE000:
		return m.readPRGBank(m.prgBanks-2, addr-0xC000)
	default:
		return m.readPRGBank(m.prgBanks-1, addr-0xE000)
	}
}

func (m *Mapper009) readPRGBank(bank uint8, offsetInBank uint16) uint8 {
	offset := uint32(bank)*0x2000 + uint32(offsetInBank)
	if int(offset) < len(m.cart.prgROM) {
		return m.cart.prgROM[offset]
	}
	return 0
}

func (m *Mapper009) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.sram[addr-0x6000] = value
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = value & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.leftFD = value & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.leftFE = value & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.rightFD = value & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.rightFE = value & 0x1F
	case addr >= 0xF000:
		m.mirroring = value & 0x01
	}
}

func (m *Mapper009) PPURead(addr uint16) uint8 {
	bank := m.bankForFetch(addr)
	idx := uint32(bank)*0x1000 + uint32(addr&0x0FFF)
	var value uint8
	if int(idx) < len(m.cart.chrROM) {
		value = m.cart.chrROM[idx]
	}
	m.latchOnFetch(addr)
	return value
}

func (m *Mapper009) bankForFetch(addr uint16) uint8 {
	if addr < 0x1000 {
		if m.leftLatch == 0xFD {
			return m.leftFD
		}
		return m.leftFE
	}
	if m.rightLatch == 0xFD {
		return m.rightFD
	}
	return m.rightFE
}

// latchOnFetch flips the relevant latch when the tile just fetched was
// $FD or $FE, per MMC2's documented Punch-Out!! CHR-switch behaviour.
func (m *Mapper009) latchOnFetch(addr uint16) {
	tileIndex := uint8((addr & 0x0FFF) >> 4)
	if addr < 0x1000 {
		switch tileIndex {
		case 0xFD:
			m.leftLatch = 0xFD
		case 0xFE:
			m.leftLatch = 0xFE
		}
		return
	}
	switch tileIndex {
	case 0xFD:
		m.rightLatch = 0xFD
	case 0xFE:
		m.rightLatch = 0xFE
	}
}

// PPUWrite is a no-op: MMC2 carts always use CHR ROM
func (m *Mapper009) PPUWrite(addr uint16, value uint8) {}

func (m *Mapper009) ResetVector() uint16 {
	lo := uint16(m.CPURead(0xFFFC))
	hi := uint16(m.CPURead(0xFFFD))
	return lo | hi<<8
}

func (m *Mapper009) PollIRQ() bool   { return false }
func (m *Mapper009) PPUCycle260(int) {}

func (m *Mapper009) MirrorMode() MirrorMode {
	if m.mirroring == 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}
