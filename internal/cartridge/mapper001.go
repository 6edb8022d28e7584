package cartridge

// Mapper001 implements MMC1 (mapper 1): a 5-bit serial shift register
// feeding four internal registers (control, CHR bank 0, CHR bank 1, PRG
// bank), switchable PRG in 16KB or 32KB mode, switchable CHR in 4KB or
// 8KB mode, and runtime-selectable mirroring.
type Mapper001 struct {
	cart *Cartridge

	prgBanks uint8 // number of 16KB PRG banks
	chrBanks uint8 // number of 4KB CHR banks

	shiftRegister uint8
	shiftCount    uint8

	mirroring uint8 // 0=single-low, 1=single-high, 2=vertical, 3=horizontal
	prgMode   uint8 // 0/1=32K, 2=fix first at $8000, 3=fix last at $C000
	chrMode   uint8 // 0=8K, 1=4K

	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgRAMEnabled bool
}

// NewMapper001 creates a new MMC1 mapper
func NewMapper001(cart *Cartridge) *Mapper001 {
	m := &Mapper001{
		cart:          cart,
		prgBanks:      uint8(len(cart.prgROM) / 0x4000),
		chrBanks:      uint8(len(cart.chrROM) / 0x1000),
		shiftRegister: 0x10,
		prgMode:       3,
		mirroring:     3,
		prgRAMEnabled: true,
	}
	if cart.mirror == MirrorVertical {
		m.mirroring = 2
	}
	return m
}

func (m *Mapper001) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			return m.cart.sram[addr-0x6000]
		}
		return 0

	case addr >= 0x8000 && addr < 0xC000:
		var bank uint8
		switch m.prgMode {
		case 0, 1:
			bank = m.prgBank &^ 1
		case 2:
			bank = 0
		case 3:
			bank = m.prgBank
		}
		return m.readPRGBank(bank, addr-0x8000)

	default: // addr >= 0xC000
		var bank uint8
		switch m.prgMode {
		case 0, 1:
			bank = (m.prgBank &^ 1) | 1
		case 2:
			bank = m.prgBank
		case 3:
			bank = m.prgBanks - 1
		}
		return m.readPRGBank(bank, addr-0xC000)
	}
}

func (m *Mapper001) readPRGBank(bank uint8, offsetInBank uint16) uint8 {
	offset := uint32(bank)*0x4000 + uint32(offsetInBank)
	if int(offset) < len(m.cart.prgROM) {
		return m.cart.prgROM[offset]
	}
	return 0
}

func (m *Mapper001) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			m.cart.sram[addr-0x6000] = value
		}

	case addr >= 0x8000:
		if value&0x80 != 0 {
			m.shiftRegister = 0x10
			m.shiftCount = 0
			m.prgMode = 3
			return
		}
		m.shiftRegister = (m.shiftRegister >> 1) | ((value & 1) << 4)
		m.shiftCount++
		if m.shiftCount == 5 {
			m.writeRegister(addr, m.shiftRegister)
			m.shiftRegister = 0x10
			m.shiftCount = 0
		}
	}
}

func (m *Mapper001) writeRegister(addr uint16, value uint8) {
	switch {
	case addr < 0xA000:
		m.mirroring = value & 0x03
		m.prgMode = (value >> 2) & 0x03
		m.chrMode = (value >> 4) & 0x01

	case addr < 0xC000:
		m.chrBank0 = value & 0x1F

	case addr < 0xE000:
		m.chrBank1 = value & 0x1F

	default:
		m.prgBank = value & 0x0F
		m.prgRAMEnabled = value&0x10 == 0
	}
}

func (m *Mapper001) PPURead(addr uint16) uint8 {
	bank, offset := m.chrBankFor(addr)
	idx := uint32(bank)*0x1000 + offset
	if int(idx) < len(m.cart.chrROM) {
		return m.cart.chrROM[idx]
	}
	return 0
}

func (m *Mapper001) PPUWrite(addr uint16, value uint8) {
	if !m.cart.hasCHRRAM {
		return
	}
	bank, offset := m.chrBankFor(addr)
	idx := uint32(bank)*0x1000 + offset
	if int(idx) < len(m.cart.chrROM) {
		m.cart.chrROM[idx] = value
	}
}

func (m *Mapper001) chrBankFor(addr uint16) (bank uint8, offset uint32) {
	if m.chrMode == 0 {
		bank = m.chrBank0 &^ 1
		if addr >= 0x1000 {
			bank |= 1
		}
		return bank, uint32(addr & 0x0FFF)
	}
	if addr < 0x1000 {
		return m.chrBank0, uint32(addr)
	}
	return m.chrBank1, uint32(addr - 0x1000)
}

func (m *Mapper001) ResetVector() uint16 {
	lo := uint16(m.CPURead(0xFFFC))
	hi := uint16(m.CPURead(0xFFFD))
	return lo | hi<<8
}

func (m *Mapper001) PollIRQ() bool { return false }

func (m *Mapper001) PPUCycle260(scanline int) {}

func (m *Mapper001) MirrorMode() MirrorMode {
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
