// Package cpu implements cycle-accurate emulation of the Ricoh 2A03's 6502
// core: the registers, addressing modes, interrupt protocol and the
// instruction set the rest of the emulator drives one Step() at a time.
package cpu

import "fmt"

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackPage = 0x0100 // the stack always lives in page 1

	flagN = 0x80
	flagV = 0x40
	flagU = 0x20 // unused, always read back as 1
	flagB = 0x10
	flagD = 0x08
	flagI = 0x04
	flagZ = 0x02
	flagC = 0x01

	zpMask   = 0xFF
	pageMask = 0xFF00

	vecNMI   = 0xFFFA
	vecRESET = 0xFFFC
	vecIRQ   = 0xFFFE
)

// opcode bundles the static shape of one opcode (its mnemonic, byte length,
// base cycle count and addressing mode) with the function that carries out
// its effect. Building the dispatch table from a single slice of these,
// rather than a metadata table plus a parallel switch, keeps one opcode's
// timing and behavior next to each other instead of in two files that have
// to be kept in sync by hand.
type opcode struct {
	mnemonic string
	length   uint8
	cycles   uint8
	mode     AddressingMode
	run      func(cpu *CPU, address uint16, pageCrossed bool) uint8
}

// MemoryInterface is the bus the CPU fetches instructions and operands
// through. Everything outside the zero page/stack arithmetic goes through
// it, so mappers, PPU register shadows and open-bus behavior are entirely
// the memory implementation's concern.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU holds 2A03 register state plus the bookkeeping needed to step the
// core one instruction at a time and service interrupts between them.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C bool // carry
	Z bool // zero
	I bool // interrupt disable
	D bool // decimal (decoded but has no effect on the NES ALU)
	B bool // break (only meaningful in the pushed status byte)
	V bool // overflow
	N bool // negative

	mem MemoryInterface

	totalCycles uint64

	opcodes [256]*opcode

	// NMI is edge-triggered: a request latches on the falling edge of the
	// line and is consumed by the next ProcessPendingInterrupts call.
	nmiLine     bool
	nmiLatched  bool
	pendingIRQ  bool

	traceExec  bool
	watchPC    bool
	stallPC    uint16
	stallTicks int
}

// New wires up a CPU against the given memory bus. Registers start in the
// 6502's documented power-up state; Reset() still needs to run before the
// first Step() to load the reset vector.
func New(mem MemoryInterface) *CPU {
	c := &CPU{mem: mem, SP: 0xFD}
	c.buildOpcodeTable()
	return c
}

// Reset replays the 6502's 7-cycle reset sequence: five bus reads while the
// reset line settles, followed by the two reads that fetch the reset
// vector into PC.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD

	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.B = true

	for i := 0; i < 5; i++ {
		c.mem.Read(c.PC)
		c.totalCycles++
	}

	lo := uint16(c.mem.Read(vecRESET))
	hi := uint16(c.mem.Read(vecRESET + 1))
	c.PC = hi<<8 | lo
	c.totalCycles += 2
}

// Step fetches, decodes and runs one instruction, then services any
// interrupt that became pending while it ran. Returns the number of CPU
// cycles the instruction (including any page-cross or branch penalty)
// consumed.
func (c *CPU) Step() uint64 {
	pc := c.PC
	opByte := c.mem.Read(pc)
	op := c.opcodes[opByte]

	if c.watchPC {
		c.trackStall(pc, opByte)
	}
	if c.traceExec {
		c.traceStep(pc, opByte, op)
	}

	if op == nil {
		// buildOpcodeTable leaves the JAM bytes and the unstable unofficial
		// opcodes (ANC, ALR, ARR, XAA, AXS, SHA, TAS, SHY, SHX, LAS, LXA)
		// unmapped; reaching one is fatal.
		panic(fmt.Sprintf("cpu: unimplemented opcode 0x%02X at $%04X", opByte, pc))
	}

	address, pageCrossed := c.decodeOperand(op.mode)
	extra := op.run(c, address, pageCrossed)

	if pageCrossed {
		extra += c.crossPenalty(opByte)
	}

	spent := uint64(op.cycles + extra)
	c.totalCycles += spent

	c.ProcessPendingInterrupts()
	return spent
}

// crossPenalty reports the extra cycle charged when an indexed read (or an
// indexed-addressing unofficial NOP) straddles a page boundary. Indexed
// stores, read-modify-write opcodes and branches carry their own timing and
// get no extra cycle here.
func (c *CPU) crossPenalty(opByte uint8) uint8 {
	switch opByte {
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31, 0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1:
		return 1
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC: // unofficial NOP absolute,X
		return 1
	case 0xBF, 0xB3: // unofficial LAX absolute,Y / (zp),Y
		return 1
	default:
		return 0
	}
}

// decodeOperand advances PC past the instruction's operand bytes and
// returns the effective address the opcode body should read or write,
// along with whether forming it crossed a page boundary.
func (c *CPU) decodeOperand(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false

	case ZeroPage:
		addr := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		return addr, false

	case ZeroPageX:
		base := c.mem.Read(c.PC + 1)
		addr := uint16((base + c.X) & zpMask)
		c.PC += 2
		return addr, false

	case ZeroPageY:
		base := c.mem.Read(c.PC + 1)
		addr := uint16((base + c.Y) & zpMask)
		c.PC += 2
		return addr, false

	case Relative:
		offset := int8(c.mem.Read(c.PC + 1))
		from := c.PC + 2
		to := uint16(int32(from) + int32(offset))
		c.PC = from // overwritten by the branch opcode if it's taken
		return to, (from & pageMask) != (to & pageMask)

	case Absolute:
		lo := uint16(c.mem.Read(c.PC + 1))
		hi := uint16(c.mem.Read(c.PC + 2))
		c.PC += 3
		return hi<<8 | lo, false

	case AbsoluteX:
		lo := uint16(c.mem.Read(c.PC + 1))
		hi := uint16(c.mem.Read(c.PC + 2))
		base := hi<<8 | lo
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case AbsoluteY:
		lo := uint16(c.mem.Read(c.PC + 1))
		hi := uint16(c.mem.Read(c.PC + 2))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case Indirect: // JMP only
		loPtr := uint16(c.mem.Read(c.PC + 1))
		hiPtr := uint16(c.mem.Read(c.PC + 2))
		ptr := hiPtr<<8 | loPtr

		var addr uint16
		if ptr&zpMask == zpMask {
			// Hardware bug: the high byte wraps to the start of the
			// same page instead of crossing into the next one.
			lo := uint16(c.mem.Read(ptr))
			hi := uint16(c.mem.Read(ptr & pageMask))
			addr = hi<<8 | lo
		} else {
			lo := uint16(c.mem.Read(ptr))
			hi := uint16(c.mem.Read(ptr + 1))
			addr = hi<<8 | lo
		}
		c.PC += 3
		return addr, false

	case IndexedIndirect: // (zp,X)
		base := c.mem.Read(c.PC + 1)
		ptr := (base + c.X) & zpMask
		lo := uint16(c.mem.Read(uint16(ptr)))
		hi := uint16(c.mem.Read(uint16((ptr + 1) & zpMask)))
		c.PC += 2
		return hi<<8 | lo, false

	case IndirectIndexed: // (zp),Y
		ptr := uint16(c.mem.Read(c.PC + 1))
		lo := uint16(c.mem.Read(ptr))
		hi := uint16(c.mem.Read((ptr + 1) & zpMask))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		c.PC += 2
		return addr, (base & pageMask) != (addr & pageMask)

	default:
		return 0, false
	}
}

func (c *CPU) push(v uint8) {
	c.mem.Write(stackPage+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.mem.Read(stackPage + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// setZN updates Z and N to reflect v, the pattern every load, transfer and
// ALU result op that "sets the flags as usual" shares.
func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&flagN != 0
}

// enterInterrupt is the shared tail of NMI, IRQ and BRK delivery: push PC
// and status (with B cleared for hardware interrupts, set by brk itself
// before calling in), set I, and load PC from the given vector.
func (c *CPU) enterInterrupt(vector uint16, statusB bool) {
	c.pushWord(c.PC)
	status := c.GetStatusByte() &^ uint8(flagB)
	if statusB {
		status |= flagB
	}
	status |= flagU
	c.push(status)
	c.I = true

	lo := uint16(c.mem.Read(vector))
	hi := uint16(c.mem.Read(vector + 1))
	c.PC = hi<<8 | lo
	c.totalCycles += 7
}

// SetNMI drives the CPU's NMI input line. The PPU pulses it high then low
// once per vblank; the falling edge is what actually requests the
// interrupt; holding the line steady (or raising it again before the first
// request is serviced) has no further effect.
func (c *CPU) SetNMI(state bool) {
	if c.nmiLine && !state {
		c.nmiLatched = true
	}
	c.nmiLine = state
}

// SetIRQ sets the level of the CPU's IRQ input. Unlike NMI this is a level,
// not an edge: any mapper or APU source asserting it keeps the request
// pending until every source deasserts (the bus ORs them together before
// calling this) or the I flag is set.
func (c *CPU) SetIRQ(state bool) {
	c.pendingIRQ = state
}

// ProcessPendingInterrupts services a latched NMI or a live, unmasked IRQ.
// Called once after every completed instruction, which is where real
// hardware's interrupt polling happens too — never mid-instruction.
func (c *CPU) ProcessPendingInterrupts() {
	if c.nmiLatched {
		c.nmiLatched = false
		c.enterInterrupt(vecNMI, false)
		return
	}
	if c.pendingIRQ && !c.I {
		c.enterInterrupt(vecIRQ, false)
	}
}

// TriggerNMI and TriggerIRQ force an interrupt request without going
// through the edge/level line protocol above. Kept for callers (and tests)
// that model an interrupt source as a single pulse rather than wiring a
// persistent line through SetNMI/SetIRQ.
func (c *CPU) TriggerNMI() { c.nmiLatched = true }
func (c *CPU) TriggerIRQ() { c.pendingIRQ = true }

// ClearNMIPending cancels a latched-but-not-yet-serviced NMI request,
// re-arming edge detection without running the handler.
func (c *CPU) ClearNMIPending() { c.nmiLatched = false }

// SetIRQPending asserts the IRQ request directly, bypassing SetIRQ's level
// semantics — equivalent to TriggerIRQ, named for symmetry with
// ClearNMIPending in interrupt-timing tests.
func (c *CPU) SetIRQPending() { c.pendingIRQ = true }

// GetStatusByte packs the seven flags (plus the always-set unused bit)
// into the processor status byte pushed by PHP/BRK and read by PLP/RTI.
func (c *CPU) GetStatusByte() uint8 {
	var s uint8
	if c.N {
		s |= flagN
	}
	if c.V {
		s |= flagV
	}
	s |= flagU
	if c.B {
		s |= flagB
	}
	if c.D {
		s |= flagD
	}
	if c.I {
		s |= flagI
	}
	if c.Z {
		s |= flagZ
	}
	if c.C {
		s |= flagC
	}
	return s
}

// SetStatusByte unpacks a processor status byte into the seven flags.
func (c *CPU) SetStatusByte(s uint8) {
	c.N = s&flagN != 0
	c.V = s&flagV != 0
	c.B = s&flagB != 0
	c.D = s&flagD != 0
	c.I = s&flagI != 0
	c.Z = s&flagZ != 0
	c.C = s&flagC != 0
}

// EnableDebugLogging turns per-instruction tracing on or off.
func (c *CPU) EnableDebugLogging(enable bool) { c.traceExec = enable }

// EnableLoopDetection turns PC-stall detection on or off.
func (c *CPU) EnableLoopDetection(enable bool) { c.watchPC = enable }

// trackStall flags a CPU that keeps re-fetching the same PC, which on real
// ROMs usually means it ran into an unhandled wait loop rather than a bug
// in the core.
func (c *CPU) trackStall(pc uint16, opByte uint8) {
	if pc == c.stallPC {
		c.stallTicks++
		if c.stallTicks > 100 {
			fmt.Printf("[cpu] stalled at $%04X on opcode 0x%02X (%d steps)\n", pc, opByte, c.stallTicks)
			if c.stallTicks%1000 == 0 {
				c.dumpState(pc, opByte)
			}
		}
	} else {
		c.stallTicks = 0
	}
	c.stallPC = pc
}

func (c *CPU) traceStep(pc uint16, opByte uint8, op *opcode) {
	name := "???"
	if op != nil {
		name = op.mnemonic
	}
	fmt.Printf("$%04X: %-3s (%02X) A=%02X X=%02X Y=%02X SP=%02X %s\n",
		pc, name, opByte, c.A, c.X, c.Y, c.SP, c.flagString())
}

func (c *CPU) dumpState(pc uint16, opByte uint8) {
	op := c.opcodes[opByte]
	name := "???"
	if op != nil {
		name = op.mnemonic
	}
	b1 := c.mem.Read(pc + 1)
	b2 := c.mem.Read(pc + 2)
	fmt.Printf("[cpu] $%04X: %s (%02X %02X %02X) A=%02X X=%02X Y=%02X SP=%02X %s cycles=%d\n",
		pc, name, opByte, b1, b2, c.A, c.X, c.Y, c.SP, c.flagString(), c.totalCycles)
}

func (c *CPU) flagString() string {
	bit := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '-'
	}
	return string([]byte{
		bit(c.N, 'N'), bit(c.V, 'V'), '-', bit(c.B, 'B'),
		bit(c.D, 'D'), bit(c.I, 'I'), bit(c.Z, 'Z'), bit(c.C, 'C'),
	})
}
