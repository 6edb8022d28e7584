package cpu

// This file holds every opcode's behavior and the table that maps opcode
// bytes to it. buildOpcodeTable is the single place that ties a byte value
// to a mnemonic, its length/cycle count and the function that runs it —
// there is no separate switch to keep in sync with this table.

// def registers one opcode byte's static shape and implementation.
func (c *CPU) def(b uint8, mnemonic string, length, cycles uint8, mode AddressingMode, run func(*CPU, uint16, bool) uint8) {
	c.opcodes[b] = &opcode{mnemonic: mnemonic, length: length, cycles: cycles, mode: mode, run: run}
}

func (c *CPU) buildOpcodeTable() {
	// Load/Store
	c.def(0xA9, "LDA", 2, 2, Immediate, opLDA)
	c.def(0xA5, "LDA", 2, 3, ZeroPage, opLDA)
	c.def(0xB5, "LDA", 2, 4, ZeroPageX, opLDA)
	c.def(0xAD, "LDA", 3, 4, Absolute, opLDA)
	c.def(0xBD, "LDA", 3, 4, AbsoluteX, opLDA)
	c.def(0xB9, "LDA", 3, 4, AbsoluteY, opLDA)
	c.def(0xA1, "LDA", 2, 6, IndexedIndirect, opLDA)
	c.def(0xB1, "LDA", 2, 5, IndirectIndexed, opLDA)

	c.def(0xA2, "LDX", 2, 2, Immediate, opLDX)
	c.def(0xA6, "LDX", 2, 3, ZeroPage, opLDX)
	c.def(0xB6, "LDX", 2, 4, ZeroPageY, opLDX)
	c.def(0xAE, "LDX", 3, 4, Absolute, opLDX)
	c.def(0xBE, "LDX", 3, 4, AbsoluteY, opLDX)

	c.def(0xA0, "LDY", 2, 2, Immediate, opLDY)
	c.def(0xA4, "LDY", 2, 3, ZeroPage, opLDY)
	c.def(0xB4, "LDY", 2, 4, ZeroPageX, opLDY)
	c.def(0xAC, "LDY", 3, 4, Absolute, opLDY)
	c.def(0xBC, "LDY", 3, 4, AbsoluteX, opLDY)

	c.def(0x85, "STA", 2, 3, ZeroPage, opSTA)
	c.def(0x95, "STA", 2, 4, ZeroPageX, opSTA)
	c.def(0x8D, "STA", 3, 4, Absolute, opSTA)
	c.def(0x9D, "STA", 3, 5, AbsoluteX, opSTA)
	c.def(0x99, "STA", 3, 5, AbsoluteY, opSTA)
	c.def(0x81, "STA", 2, 6, IndexedIndirect, opSTA)
	c.def(0x91, "STA", 2, 6, IndirectIndexed, opSTA)

	c.def(0x86, "STX", 2, 3, ZeroPage, opSTX)
	c.def(0x96, "STX", 2, 4, ZeroPageY, opSTX)
	c.def(0x8E, "STX", 3, 4, Absolute, opSTX)

	c.def(0x84, "STY", 2, 3, ZeroPage, opSTY)
	c.def(0x94, "STY", 2, 4, ZeroPageX, opSTY)
	c.def(0x8C, "STY", 3, 4, Absolute, opSTY)

	// Arithmetic
	c.def(0x69, "ADC", 2, 2, Immediate, opADC)
	c.def(0x65, "ADC", 2, 3, ZeroPage, opADC)
	c.def(0x75, "ADC", 2, 4, ZeroPageX, opADC)
	c.def(0x6D, "ADC", 3, 4, Absolute, opADC)
	c.def(0x7D, "ADC", 3, 4, AbsoluteX, opADC)
	c.def(0x79, "ADC", 3, 4, AbsoluteY, opADC)
	c.def(0x61, "ADC", 2, 6, IndexedIndirect, opADC)
	c.def(0x71, "ADC", 2, 5, IndirectIndexed, opADC)

	c.def(0xE9, "SBC", 2, 2, Immediate, opSBC)
	c.def(0xE5, "SBC", 2, 3, ZeroPage, opSBC)
	c.def(0xF5, "SBC", 2, 4, ZeroPageX, opSBC)
	c.def(0xED, "SBC", 3, 4, Absolute, opSBC)
	c.def(0xFD, "SBC", 3, 4, AbsoluteX, opSBC)
	c.def(0xF9, "SBC", 3, 4, AbsoluteY, opSBC)
	c.def(0xE1, "SBC", 2, 6, IndexedIndirect, opSBC)
	c.def(0xF1, "SBC", 2, 5, IndirectIndexed, opSBC)
	c.def(0xEB, "SBC", 2, 2, Immediate, opSBC) // unofficial duplicate of 0xE9

	// Logical
	c.def(0x29, "AND", 2, 2, Immediate, opAND)
	c.def(0x25, "AND", 2, 3, ZeroPage, opAND)
	c.def(0x35, "AND", 2, 4, ZeroPageX, opAND)
	c.def(0x2D, "AND", 3, 4, Absolute, opAND)
	c.def(0x3D, "AND", 3, 4, AbsoluteX, opAND)
	c.def(0x39, "AND", 3, 4, AbsoluteY, opAND)
	c.def(0x21, "AND", 2, 6, IndexedIndirect, opAND)
	c.def(0x31, "AND", 2, 5, IndirectIndexed, opAND)

	c.def(0x09, "ORA", 2, 2, Immediate, opORA)
	c.def(0x05, "ORA", 2, 3, ZeroPage, opORA)
	c.def(0x15, "ORA", 2, 4, ZeroPageX, opORA)
	c.def(0x0D, "ORA", 3, 4, Absolute, opORA)
	c.def(0x1D, "ORA", 3, 4, AbsoluteX, opORA)
	c.def(0x19, "ORA", 3, 4, AbsoluteY, opORA)
	c.def(0x01, "ORA", 2, 6, IndexedIndirect, opORA)
	c.def(0x11, "ORA", 2, 5, IndirectIndexed, opORA)

	c.def(0x49, "EOR", 2, 2, Immediate, opEOR)
	c.def(0x45, "EOR", 2, 3, ZeroPage, opEOR)
	c.def(0x55, "EOR", 2, 4, ZeroPageX, opEOR)
	c.def(0x4D, "EOR", 3, 4, Absolute, opEOR)
	c.def(0x5D, "EOR", 3, 4, AbsoluteX, opEOR)
	c.def(0x59, "EOR", 3, 4, AbsoluteY, opEOR)
	c.def(0x41, "EOR", 2, 6, IndexedIndirect, opEOR)
	c.def(0x51, "EOR", 2, 5, IndirectIndexed, opEOR)

	// Shift/rotate
	c.def(0x0A, "ASL", 1, 2, Accumulator, opASLAcc)
	c.def(0x06, "ASL", 2, 5, ZeroPage, opASL)
	c.def(0x16, "ASL", 2, 6, ZeroPageX, opASL)
	c.def(0x0E, "ASL", 3, 6, Absolute, opASL)
	c.def(0x1E, "ASL", 3, 7, AbsoluteX, opASL)

	c.def(0x4A, "LSR", 1, 2, Accumulator, opLSRAcc)
	c.def(0x46, "LSR", 2, 5, ZeroPage, opLSR)
	c.def(0x56, "LSR", 2, 6, ZeroPageX, opLSR)
	c.def(0x4E, "LSR", 3, 6, Absolute, opLSR)
	c.def(0x5E, "LSR", 3, 7, AbsoluteX, opLSR)

	c.def(0x2A, "ROL", 1, 2, Accumulator, opROLAcc)
	c.def(0x26, "ROL", 2, 5, ZeroPage, opROL)
	c.def(0x36, "ROL", 2, 6, ZeroPageX, opROL)
	c.def(0x2E, "ROL", 3, 6, Absolute, opROL)
	c.def(0x3E, "ROL", 3, 7, AbsoluteX, opROL)

	c.def(0x6A, "ROR", 1, 2, Accumulator, opRORAcc)
	c.def(0x66, "ROR", 2, 5, ZeroPage, opROR)
	c.def(0x76, "ROR", 2, 6, ZeroPageX, opROR)
	c.def(0x6E, "ROR", 3, 6, Absolute, opROR)
	c.def(0x7E, "ROR", 3, 7, AbsoluteX, opROR)

	// Compare
	c.def(0xC9, "CMP", 2, 2, Immediate, opCMP)
	c.def(0xC5, "CMP", 2, 3, ZeroPage, opCMP)
	c.def(0xD5, "CMP", 2, 4, ZeroPageX, opCMP)
	c.def(0xCD, "CMP", 3, 4, Absolute, opCMP)
	c.def(0xDD, "CMP", 3, 4, AbsoluteX, opCMP)
	c.def(0xD9, "CMP", 3, 4, AbsoluteY, opCMP)
	c.def(0xC1, "CMP", 2, 6, IndexedIndirect, opCMP)
	c.def(0xD1, "CMP", 2, 5, IndirectIndexed, opCMP)

	c.def(0xE0, "CPX", 2, 2, Immediate, opCPX)
	c.def(0xE4, "CPX", 2, 3, ZeroPage, opCPX)
	c.def(0xEC, "CPX", 3, 4, Absolute, opCPX)

	c.def(0xC0, "CPY", 2, 2, Immediate, opCPY)
	c.def(0xC4, "CPY", 2, 3, ZeroPage, opCPY)
	c.def(0xCC, "CPY", 3, 4, Absolute, opCPY)

	// Increment/decrement
	c.def(0xE6, "INC", 2, 5, ZeroPage, opINC)
	c.def(0xF6, "INC", 2, 6, ZeroPageX, opINC)
	c.def(0xEE, "INC", 3, 6, Absolute, opINC)
	c.def(0xFE, "INC", 3, 7, AbsoluteX, opINC)

	c.def(0xC6, "DEC", 2, 5, ZeroPage, opDEC)
	c.def(0xD6, "DEC", 2, 6, ZeroPageX, opDEC)
	c.def(0xCE, "DEC", 3, 6, Absolute, opDEC)
	c.def(0xDE, "DEC", 3, 7, AbsoluteX, opDEC)

	c.def(0xE8, "INX", 1, 2, Implied, opINX)
	c.def(0xCA, "DEX", 1, 2, Implied, opDEX)
	c.def(0xC8, "INY", 1, 2, Implied, opINY)
	c.def(0x88, "DEY", 1, 2, Implied, opDEY)

	// Transfer
	c.def(0xAA, "TAX", 1, 2, Implied, opTAX)
	c.def(0x8A, "TXA", 1, 2, Implied, opTXA)
	c.def(0xA8, "TAY", 1, 2, Implied, opTAY)
	c.def(0x98, "TYA", 1, 2, Implied, opTYA)
	c.def(0xBA, "TSX", 1, 2, Implied, opTSX)
	c.def(0x9A, "TXS", 1, 2, Implied, opTXS)

	// Stack
	c.def(0x48, "PHA", 1, 3, Implied, opPHA)
	c.def(0x68, "PLA", 1, 4, Implied, opPLA)
	c.def(0x08, "PHP", 1, 3, Implied, opPHP)
	c.def(0x28, "PLP", 1, 4, Implied, opPLP)

	// Flags
	c.def(0x18, "CLC", 1, 2, Implied, opCLC)
	c.def(0x38, "SEC", 1, 2, Implied, opSEC)
	c.def(0x58, "CLI", 1, 2, Implied, opCLI)
	c.def(0x78, "SEI", 1, 2, Implied, opSEI)
	c.def(0xB8, "CLV", 1, 2, Implied, opCLV)
	c.def(0xD8, "CLD", 1, 2, Implied, opCLD)
	c.def(0xF8, "SED", 1, 2, Implied, opSED)

	// Control flow
	c.def(0x4C, "JMP", 3, 3, Absolute, opJMP)
	c.def(0x6C, "JMP", 3, 5, Indirect, opJMP)
	c.def(0x20, "JSR", 3, 6, Absolute, opJSR)
	c.def(0x60, "RTS", 1, 6, Implied, opRTS)
	c.def(0x40, "RTI", 1, 6, Implied, opRTI)

	// Branches
	c.def(0x90, "BCC", 2, 2, Relative, opBCC)
	c.def(0xB0, "BCS", 2, 2, Relative, opBCS)
	c.def(0xD0, "BNE", 2, 2, Relative, opBNE)
	c.def(0xF0, "BEQ", 2, 2, Relative, opBEQ)
	c.def(0x10, "BPL", 2, 2, Relative, opBPL)
	c.def(0x30, "BMI", 2, 2, Relative, opBMI)
	c.def(0x50, "BVC", 2, 2, Relative, opBVC)
	c.def(0x70, "BVS", 2, 2, Relative, opBVS)

	// Misc
	c.def(0x24, "BIT", 2, 3, ZeroPage, opBIT)
	c.def(0x2C, "BIT", 3, 4, Absolute, opBIT)
	c.def(0xEA, "NOP", 1, 2, Implied, opNOP)
	c.def(0x00, "BRK", 1, 7, Implied, opBRK)

	// Unofficial NOPs of various lengths/modes; all discard their operand.
	c.def(0x1A, "NOP", 1, 2, Implied, opNOP)
	c.def(0x3A, "NOP", 1, 2, Implied, opNOP)
	c.def(0x5A, "NOP", 1, 2, Implied, opNOP)
	c.def(0x7A, "NOP", 1, 2, Implied, opNOP)
	c.def(0xDA, "NOP", 1, 2, Implied, opNOP)
	c.def(0xFA, "NOP", 1, 2, Implied, opNOP)
	c.def(0x80, "NOP", 2, 2, Immediate, opNOP)
	c.def(0x82, "NOP", 2, 2, Immediate, opNOP)
	c.def(0x89, "NOP", 2, 2, Immediate, opNOP)
	c.def(0xC2, "NOP", 2, 2, Immediate, opNOP)
	c.def(0xE2, "NOP", 2, 2, Immediate, opNOP)
	c.def(0x04, "NOP", 2, 3, ZeroPage, opNOP)
	c.def(0x44, "NOP", 2, 3, ZeroPage, opNOP)
	c.def(0x64, "NOP", 2, 3, ZeroPage, opNOP)
	c.def(0x14, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0x34, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0x54, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0x74, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0xD4, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0xF4, "NOP", 2, 4, ZeroPageX, opNOP)
	c.def(0x0C, "NOP", 3, 4, Absolute, opNOP)
	c.def(0x1C, "NOP", 3, 4, AbsoluteX, opNOP)
	c.def(0x3C, "NOP", 3, 4, AbsoluteX, opNOP)
	c.def(0x5C, "NOP", 3, 4, AbsoluteX, opNOP)
	c.def(0x7C, "NOP", 3, 4, AbsoluteX, opNOP)
	c.def(0xDC, "NOP", 3, 4, AbsoluteX, opNOP)
	c.def(0xFC, "NOP", 3, 4, AbsoluteX, opNOP)

	// Unofficial combined opcodes
	c.def(0xA7, "LAX", 2, 3, ZeroPage, opLAX)
	c.def(0xB7, "LAX", 2, 4, ZeroPageY, opLAX)
	c.def(0xAF, "LAX", 3, 4, Absolute, opLAX)
	c.def(0xBF, "LAX", 3, 4, AbsoluteY, opLAX)
	c.def(0xA3, "LAX", 2, 6, IndexedIndirect, opLAX)
	c.def(0xB3, "LAX", 2, 5, IndirectIndexed, opLAX)

	c.def(0x87, "SAX", 2, 3, ZeroPage, opSAX)
	c.def(0x97, "SAX", 2, 4, ZeroPageY, opSAX)
	c.def(0x8F, "SAX", 3, 4, Absolute, opSAX)
	c.def(0x83, "SAX", 2, 6, IndexedIndirect, opSAX)

	c.def(0xC7, "DCP", 2, 5, ZeroPage, opDCP)
	c.def(0xD7, "DCP", 2, 6, ZeroPageX, opDCP)
	c.def(0xCF, "DCP", 3, 6, Absolute, opDCP)
	c.def(0xDF, "DCP", 3, 7, AbsoluteX, opDCP)
	c.def(0xDB, "DCP", 3, 7, AbsoluteY, opDCP)
	c.def(0xC3, "DCP", 2, 8, IndexedIndirect, opDCP)
	c.def(0xD3, "DCP", 2, 8, IndirectIndexed, opDCP)

	c.def(0xE7, "ISB", 2, 5, ZeroPage, opISB)
	c.def(0xF7, "ISB", 2, 6, ZeroPageX, opISB)
	c.def(0xEF, "ISB", 3, 6, Absolute, opISB)
	c.def(0xFF, "ISB", 3, 7, AbsoluteX, opISB)
	c.def(0xFB, "ISB", 3, 7, AbsoluteY, opISB)
	c.def(0xE3, "ISB", 2, 8, IndexedIndirect, opISB)
	c.def(0xF3, "ISB", 2, 8, IndirectIndexed, opISB)

	c.def(0x07, "SLO", 2, 5, ZeroPage, opSLO)
	c.def(0x17, "SLO", 2, 6, ZeroPageX, opSLO)
	c.def(0x0F, "SLO", 3, 6, Absolute, opSLO)
	c.def(0x1F, "SLO", 3, 7, AbsoluteX, opSLO)
	c.def(0x1B, "SLO", 3, 7, AbsoluteY, opSLO)
	c.def(0x03, "SLO", 2, 8, IndexedIndirect, opSLO)
	c.def(0x13, "SLO", 2, 8, IndirectIndexed, opSLO)

	c.def(0x27, "RLA", 2, 5, ZeroPage, opRLA)
	c.def(0x37, "RLA", 2, 6, ZeroPageX, opRLA)
	c.def(0x2F, "RLA", 3, 6, Absolute, opRLA)
	c.def(0x3F, "RLA", 3, 7, AbsoluteX, opRLA)
	c.def(0x3B, "RLA", 3, 7, AbsoluteY, opRLA)
	c.def(0x23, "RLA", 2, 8, IndexedIndirect, opRLA)
	c.def(0x33, "RLA", 2, 8, IndirectIndexed, opRLA)

	c.def(0x47, "SRE", 2, 5, ZeroPage, opSRE)
	c.def(0x57, "SRE", 2, 6, ZeroPageX, opSRE)
	c.def(0x4F, "SRE", 3, 6, Absolute, opSRE)
	c.def(0x5F, "SRE", 3, 7, AbsoluteX, opSRE)
	c.def(0x5B, "SRE", 3, 7, AbsoluteY, opSRE)
	c.def(0x43, "SRE", 2, 8, IndexedIndirect, opSRE)
	c.def(0x53, "SRE", 2, 8, IndirectIndexed, opSRE)

	c.def(0x67, "RRA", 2, 5, ZeroPage, opRRA)
	c.def(0x77, "RRA", 2, 6, ZeroPageX, opRRA)
	c.def(0x6F, "RRA", 3, 6, Absolute, opRRA)
	c.def(0x7F, "RRA", 3, 7, AbsoluteX, opRRA)
	c.def(0x7B, "RRA", 3, 7, AbsoluteY, opRRA)
	c.def(0x63, "RRA", 2, 8, IndexedIndirect, opRRA)
	c.def(0x73, "RRA", 2, 8, IndirectIndexed, opRRA)
}

// --- Load/Store ---

func opLDA(c *CPU, addr uint16, _ bool) uint8 { c.A = c.mem.Read(addr); c.setZN(c.A); return 0 }
func opLDX(c *CPU, addr uint16, _ bool) uint8 { c.X = c.mem.Read(addr); c.setZN(c.X); return 0 }
func opLDY(c *CPU, addr uint16, _ bool) uint8 { c.Y = c.mem.Read(addr); c.setZN(c.Y); return 0 }
func opSTA(c *CPU, addr uint16, _ bool) uint8 { c.mem.Write(addr, c.A); return 0 }
func opSTX(c *CPU, addr uint16, _ bool) uint8 { c.mem.Write(addr, c.X); return 0 }
func opSTY(c *CPU, addr uint16, _ bool) uint8 { c.mem.Write(addr, c.Y); return 0 }

// --- Arithmetic ---

// addWithCarry is ADC's actual arithmetic, factored out so SBC can reuse it
// on the bitwise-inverted operand: on a 6502 (no decimal mode on the NES),
// A-M-(1-C) and A+(~M)+C produce identical carry, overflow, zero and
// negative flags, so SBC is implemented as ADC(value ^ 0xFF).
func (c *CPU) addWithCarry(value uint8) {
	carryIn := uint16(0)
	if c.C {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(value) + carryIn

	c.V = (c.A^uint8(sum))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = sum > 0xFF
	c.A = uint8(sum)
	c.setZN(c.A)
}

func opADC(c *CPU, addr uint16, _ bool) uint8 {
	c.addWithCarry(c.mem.Read(addr))
	return 0
}

func opSBC(c *CPU, addr uint16, _ bool) uint8 {
	c.addWithCarry(c.mem.Read(addr) ^ 0xFF)
	return 0
}

// --- Logical ---

func opAND(c *CPU, addr uint16, _ bool) uint8 { c.A &= c.mem.Read(addr); c.setZN(c.A); return 0 }
func opORA(c *CPU, addr uint16, _ bool) uint8 { c.A |= c.mem.Read(addr); c.setZN(c.A); return 0 }
func opEOR(c *CPU, addr uint16, _ bool) uint8 { c.A ^= c.mem.Read(addr); c.setZN(c.A); return 0 }

// --- Shift/rotate ---

func opASLAcc(c *CPU, _ uint16, _ bool) uint8 {
	c.C = c.A&0x80 != 0
	c.A <<= 1
	c.setZN(c.A)
	return 0
}

func opASL(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

func opLSRAcc(c *CPU, _ uint16, _ bool) uint8 {
	c.C = c.A&0x01 != 0
	c.A >>= 1
	c.setZN(c.A)
	return 0
}

func opLSR(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

func opROLAcc(c *CPU, _ uint16, _ bool) uint8 {
	carry := c.C
	c.C = c.A&0x80 != 0
	c.A <<= 1
	if carry {
		c.A |= 0x01
	}
	c.setZN(c.A)
	return 0
}

func opROL(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	carry := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if carry {
		v |= 0x01
	}
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

func opRORAcc(c *CPU, _ uint16, _ bool) uint8 {
	carry := c.C
	c.C = c.A&0x01 != 0
	c.A >>= 1
	if carry {
		c.A |= 0x80
	}
	c.setZN(c.A)
	return 0
}

func opROR(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	carry := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if carry {
		v |= 0x80
	}
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

// --- Compare ---

func compare(c *CPU, reg, value uint8) {
	c.C = reg >= value
	c.setZN(reg - value)
}

func opCMP(c *CPU, addr uint16, _ bool) uint8 { compare(c, c.A, c.mem.Read(addr)); return 0 }
func opCPX(c *CPU, addr uint16, _ bool) uint8 { compare(c, c.X, c.mem.Read(addr)); return 0 }
func opCPY(c *CPU, addr uint16, _ bool) uint8 { compare(c, c.Y, c.mem.Read(addr)); return 0 }

// --- Increment/decrement ---

func opINC(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr) + 1
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

func opDEC(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr) - 1
	c.mem.Write(addr, v)
	c.setZN(v)
	return 0
}

func opINX(c *CPU, _ uint16, _ bool) uint8 { c.X++; c.setZN(c.X); return 0 }
func opDEX(c *CPU, _ uint16, _ bool) uint8 { c.X--; c.setZN(c.X); return 0 }
func opINY(c *CPU, _ uint16, _ bool) uint8 { c.Y++; c.setZN(c.Y); return 0 }
func opDEY(c *CPU, _ uint16, _ bool) uint8 { c.Y--; c.setZN(c.Y); return 0 }

// --- Transfer ---

func opTAX(c *CPU, _ uint16, _ bool) uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func opTXA(c *CPU, _ uint16, _ bool) uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func opTAY(c *CPU, _ uint16, _ bool) uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func opTYA(c *CPU, _ uint16, _ bool) uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func opTSX(c *CPU, _ uint16, _ bool) uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func opTXS(c *CPU, _ uint16, _ bool) uint8 { c.SP = c.X; return 0 }

// --- Stack ---

func opPHA(c *CPU, _ uint16, _ bool) uint8 { c.push(c.A); return 0 }
func opPLA(c *CPU, _ uint16, _ bool) uint8 { c.A = c.pop(); c.setZN(c.A); return 0 }
func opPHP(c *CPU, _ uint16, _ bool) uint8 { c.push(c.GetStatusByte() | flagB); return 0 }
func opPLP(c *CPU, _ uint16, _ bool) uint8 { c.SetStatusByte(c.pop()); return 0 }

// --- Flags ---

func opCLC(c *CPU, _ uint16, _ bool) uint8 { c.C = false; return 0 }
func opSEC(c *CPU, _ uint16, _ bool) uint8 { c.C = true; return 0 }
func opCLI(c *CPU, _ uint16, _ bool) uint8 { c.I = false; return 0 }
func opSEI(c *CPU, _ uint16, _ bool) uint8 { c.I = true; return 0 }
func opCLV(c *CPU, _ uint16, _ bool) uint8 { c.V = false; return 0 }
func opCLD(c *CPU, _ uint16, _ bool) uint8 { c.D = false; return 0 }
func opSED(c *CPU, _ uint16, _ bool) uint8 { c.D = true; return 0 }

// --- Control flow ---

func opJMP(c *CPU, addr uint16, _ bool) uint8 { c.PC = addr; return 0 }

func opJSR(c *CPU, addr uint16, _ bool) uint8 {
	c.pushWord(c.PC - 1) // JSR pushes the address of its own last byte
	c.PC = addr
	return 0
}

func opRTS(c *CPU, _ uint16, _ bool) uint8 {
	c.PC = c.popWord() + 1
	return 0
}

func opRTI(c *CPU, _ uint16, _ bool) uint8 {
	c.SetStatusByte(c.pop())
	c.PC = c.popWord()
	return 0
}

// --- Branches ---

func branch(c *CPU, taken bool, addr uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = addr
	if pageCrossed {
		return 2
	}
	return 1
}

func opBCC(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, !c.C, addr, crossed) }
func opBCS(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, c.C, addr, crossed) }
func opBNE(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, !c.Z, addr, crossed) }
func opBEQ(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, c.Z, addr, crossed) }
func opBPL(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, !c.N, addr, crossed) }
func opBMI(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, c.N, addr, crossed) }
func opBVC(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, !c.V, addr, crossed) }
func opBVS(c *CPU, addr uint16, crossed bool) uint8 { return branch(c, c.V, addr, crossed) }

// --- Misc ---

func opBIT(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	c.N = v&flagN != 0
	c.V = v&flagV != 0
	c.Z = c.A&v == 0
	return 0
}

func opNOP(c *CPU, _ uint16, _ bool) uint8 { return 0 }

// opBRK implements BRK's quirk: it's encoded as a 1-byte instruction but
// pushes PC+2 (the decoder has already advanced PC by 1 for the opcode
// itself; BRK advances it once more past the padding byte every assembler
// still emits after it) so RTI returns past that byte rather than onto it.
func opBRK(c *CPU, _ uint16, _ bool) uint8 {
	c.PC++
	c.pushWord(c.PC)
	c.push(c.GetStatusByte() | flagB)
	c.I = true

	lo := uint16(c.mem.Read(vecIRQ))
	hi := uint16(c.mem.Read(vecIRQ + 1))
	c.PC = hi<<8 | lo
	return 0
}

// --- Unofficial opcodes ---

func opLAX(c *CPU, addr uint16, _ bool) uint8 {
	c.A = c.mem.Read(addr)
	c.X = c.A
	c.setZN(c.A)
	return 0
}

func opSAX(c *CPU, addr uint16, _ bool) uint8 {
	c.mem.Write(addr, c.A&c.X)
	return 0
}

func opDCP(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr) - 1
	c.mem.Write(addr, v)
	compare(c, c.A, v)
	return 0
}

func opISB(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr) + 1
	c.mem.Write(addr, v)
	c.addWithCarry(v ^ 0xFF)
	return 0
}

func opSLO(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.mem.Write(addr, v)
	c.A |= v
	c.setZN(c.A)
	return 0
}

func opRLA(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	carry := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if carry {
		v |= 0x01
	}
	c.mem.Write(addr, v)
	c.A &= v
	c.setZN(c.A)
	return 0
}

func opSRE(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.mem.Write(addr, v)
	c.A ^= v
	c.setZN(c.A)
	return 0
}

func opRRA(c *CPU, addr uint16, _ bool) uint8 {
	v := c.mem.Read(addr)
	carry := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if carry {
		v |= 0x80
	}
	c.mem.Write(addr, v)
	c.addWithCarry(v)
	return 0
}
