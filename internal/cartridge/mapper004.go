package cartridge

// Mapper004 implements MMC3 (mapper 4): eight bank registers selected by
// a bank-select register at $8000, two PRG modes, two CHR modes, runtime
// mirroring and PRG-RAM write-protect at $A000, and a scanline IRQ
// counter clocked from PPUCycle260 per spec.
type Mapper004 struct {
	cart     *Cartridge
	prgBanks uint8 // 8KB PRG banks
	chrBanks uint8 // 1KB CHR banks

	bankSelect uint8
	prgMode    uint8 // 0 or 1
	chrMode    uint8 // 0 or 1 (A12 inversion)
	registers  [8]uint8

	mirroring uint8 // 0=vertical, 1=horizontal

	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqEnabled    bool
	irqPending    bool
	irqReloadFlag bool
}

// NewMapper004 creates a new MMC3 mapper
func NewMapper004(cart *Cartridge) *Mapper004 {
	m := &Mapper004{
		cart:          cart,
		prgBanks:      uint8(len(cart.prgROM) / 0x2000),
		chrBanks:      uint8(len(cart.chrROM) / 0x400),
		prgRAMEnabled: true,
	}
	if cart.mirror != MirrorVertical {
		m.mirroring = 1
	}
	return m
}

func (m *Mapper004) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			return m.cart.sram[addr-0x6000]
		}
		return 0

	case addr >= 0x8000 && addr < 0xA000:
		bank := m.registers[6]
		if m.prgMode == 1 {
			bank = m.prgBanks - 2
		}
		return m.readPRGBank(bank, addr-0x8000)

	case addr >= 0xA000 && addr < 0xC000:
		return m.readPRGBank(m.registers[7], addr-0xA000)

	case addr >= 0xC000 && addr < 0xE000:
		bank := m.prgBanks - 2
		if m.prgMode == 1 {
			bank = m.registers[6]
		}
		return m.readPRGBank(bank, addr-0xC000)

	default: // $E000-$FFFF
		return m.readPRGBank(m.prgBanks-1, addr-0xE000)
	}
}

func (m *Mapper004) readPRGBank(bank uint8, offsetInBank uint16) uint8 {
	offset := uint32(bank)*0x2000 + uint32(offsetInBank)
	if int(offset) < len(m.cart.prgROM) {
		return m.cart.prgROM[offset]
	}
	return 0
}

func (m *Mapper004) CPUWrite(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && !m.prgRAMWriteProtect {
			m.cart.sram[addr-0x6000] = value
		}

	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 0x01
			m.chrMode = (value >> 7) & 0x01
		} else {
			m.registers[m.bankSelect] = value
		}

	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			if value&1 == 0 {
				m.mirroring = 0
			} else {
				m.mirroring = 1
			}
		} else {
			m.prgRAMWriteProtect = value&0x40 != 0
			m.prgRAMEnabled = value&0x80 != 0
		}

	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCounter = 0
			m.irqReloadFlag = true
		}

	default: // $E000-$FFFF
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *Mapper004) PPURead(addr uint16) uint8 {
	bank, offset := m.chrBankFor(addr)
	idx := uint32(bank)*0x400 + offset
	if int(idx) < len(m.cart.chrROM) {
		return m.cart.chrROM[idx]
	}
	return 0
}

func (m *Mapper004) PPUWrite(addr uint16, value uint8) {
	if !m.cart.hasCHRRAM {
		return
	}
	bank, offset := m.chrBankFor(addr)
	idx := uint32(bank)*0x400 + offset
	if int(idx) < len(m.cart.chrROM) {
		m.cart.chrROM[idx] = value
	}
}

func (m *Mapper004) chrBankFor(addr uint16) (bank uint8, offset uint32) {
	if m.chrMode == 0 {
		switch {
		case addr < 0x0800:
			return m.registers[0] &^ 1, uint32(addr)
		case addr < 0x1000:
			return m.registers[1] &^ 1, uint32(addr - 0x0800)
		case addr < 0x1400:
			return m.registers[2], uint32(addr - 0x1000)
		case addr < 0x1800:
			return m.registers[3], uint32(addr - 0x1400)
		case addr < 0x1C00:
			return m.registers[4], uint32(addr - 0x1800)
		default:
			return m.registers[5], uint32(addr - 0x1C00)
		}
	}
	switch {
	case addr < 0x0400:
		return m.registers[2], uint32(addr)
	case addr < 0x0800:
		return m.registers[3], uint32(addr - 0x0400)
	case addr < 0x0C00:
		return m.registers[4], uint32(addr - 0x0800)
	case addr < 0x1000:
		return m.registers[5], uint32(addr - 0x0C00)
	case addr < 0x1800:
		return m.registers[0] &^ 1, uint32(addr - 0x1000)
	default:
		return m.registers[1] &^ 1, uint32(addr - 0x1800)
	}
}

func (m *Mapper004) ResetVector() uint16 {
	lo := uint16(m.CPURead(0xFFFC))
	hi := uint16(m.CPURead(0xFFFD))
	return lo | hi<<8
}

func (m *Mapper004) PollIRQ() bool {
	return m.irqPending
}

// PPUCycle260 clocks the MMC3 scanline IRQ counter, per spec §4.4/§4.6:
// decremented (or reloaded from the latch on 0 or a pending reload) on
// PPU dot 260 of each visible and pre-render scanline.
func (m *Mapper004) PPUCycle260(scanline int) {
	if m.irqCounter == 0 || m.irqReloadFlag {
		m.irqCounter = m.irqLatch
		m.irqReloadFlag = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *Mapper004) MirrorMode() MirrorMode {
	if m.mirroring == 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}
