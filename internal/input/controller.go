// Package input implements the standard NES controller's serial shift
// register protocol on ports $4016/$4017.
package input

import "log"

// Button identifies one of the eight buttons on a standard NES pad, each a
// distinct bit so a full button state fits in one byte.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Short aliases for the buttons above, used by callers that map a
// physical key/pad input onto a controller button.
const (
	A      = ButtonA
	B      = ButtonB
	Select = ButtonSelect
	Start  = ButtonStart
	Up     = ButtonUp
	Down   = ButtonDown
	Left   = ButtonLeft
	Right  = ButtonRight
)

// buttonOrder is the bit order the hardware shifts buttons out in: A, B,
// Select, Start, Up, Down, Left, Right, LSB first.
var buttonOrder = [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}

// Controller models one NES controller: the live button state plus the
// 8-bit shift register the console reads serially through $4016/$4017.
type Controller struct {
	buttons uint8

	shiftRegister uint8
	strobe        bool
	latched       uint8 // button snapshot taken when strobe went low

	readIndex uint8 // which shift-register bit the next Read() returns

	reads, writes uint64
	trace         bool
}

// New creates a disconnected controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton updates one button's held state.
func (c *Controller) SetButton(button Button, pressed bool) {
	before := c.buttons
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
	if c.trace {
		log.Printf("[input] button %02X pressed=%t: %02X -> %02X", uint8(button), pressed, before, c.buttons)
	}
}

// SetButtons replaces the full button state in hardware bit order (A, B,
// Select, Start, Up, Down, Left, Right).
func (c *Controller) SetButtons(buttons [8]bool) {
	before := c.buttons
	c.buttons = 0
	for i, held := range buttons {
		if held {
			c.buttons |= uint8(buttonOrder[i])
		}
	}
	if c.trace {
		log.Printf("[input] buttons set: %02X -> %02X", before, c.buttons)
	}
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to $4016. Raising the strobe bit freezes the shift
// register to the live button state; it stays latched to that snapshot
// until the strobe bit falls again, at which point the next Read() begins
// shifting out from bit 0.
func (c *Controller) Write(value uint8) {
	c.writes++
	wasStrobing := c.strobe
	c.strobe = value&1 != 0

	if c.strobe {
		c.latch()
	} else if wasStrobing {
		c.latch()
	}
}

func (c *Controller) latch() {
	c.latched = c.buttons
	c.shiftRegister = c.latched
	c.readIndex = 0
	if c.trace {
		log.Printf("[input] latched buttons=%02X", c.latched)
	}
}

// Read pulls the next bit out of the shift register. While strobe is held
// high the register is continuously reloaded, so every read returns
// button A's current state. Once the 8 button bits are exhausted, reads
// wrap around: read n returns bit n mod 8 of the latched state, starting
// again from button A.
func (c *Controller) Read() uint8 {
	c.reads++

	if c.strobe {
		c.readIndex = 0
		return c.latched & 1
	}

	if c.readIndex >= 8 {
		bit := (c.latched >> (c.readIndex % 8)) & 1
		c.readIndex++
		return bit
	}

	bit := c.shiftRegister & 1
	c.shiftRegister >>= 1
	c.readIndex++
	return bit
}

// Reset clears all controller state, as happens on console power-on.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
	c.latched = 0
	c.readIndex = 0
	c.reads = 0
	c.writes = 0
}

// EnableDebug turns per-access tracing on or off.
func (c *Controller) EnableDebug(enable bool) {
	c.trace = enable
}

// GetBitPosition reports how many shift-register bits have been read
// since the last latch, for tests asserting on read sequencing.
func (c *Controller) GetBitPosition() uint8 {
	return c.readIndex
}

// InputState bundles both controller ports, which share the same strobe
// line on real hardware.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates both ports with no buttons held.
func NewInputState() *InputState {
	return &InputState{Controller1: New(), Controller2: New()}
}

// Reset resets both controllers.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// EnableDebug turns tracing on or off for both controllers.
func (is *InputState) EnableDebug(enable bool) {
	is.Controller1.EnableDebug(enable)
	is.Controller2.EnableDebug(enable)
}

// SetButtons1 replaces controller 1's button state.
func (is *InputState) SetButtons1(buttons [8]bool) { is.Controller1.SetButtons(buttons) }

// SetButtons2 replaces controller 2's button state.
func (is *InputState) SetButtons2(buttons [8]bool) { is.Controller2.SetButtons(buttons) }

// Read dispatches a CPU read of $4016/$4017 to the matching controller.
// $4017 carries bit 6 set, the open-bus value real NES hardware returns
// there since nothing below $4020 drives that bit for port 2.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write applies a CPU write of $4016 to both controllers; they share one
// strobe line and only port 1's address decodes the write.
func (is *InputState) Write(address uint16, value uint8) {
	if address != 0x4016 {
		return
	}
	is.Controller1.Write(value)
	is.Controller2.Write(value)
}
