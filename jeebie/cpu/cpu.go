package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/disasm"
)

// Bus is the CPU's view of the address space.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	// HandleKeyPress presses a joypad input, returning true on a
	// released to pressed transition.
	HandleKeyPress(b addr.Button) bool
	HandleKeyRelease(b addr.Button)
}

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// interruptCycles is the cost of dispatching to an interrupt vector.
const interruptCycles = 20

// State is the execution state of the CPU.
type State uint8

const (
	StateNormal State = iota
	// StateHalt idles until an enabled interrupt is pending.
	StateHalt
	// StateStop idles until a button is pressed.
	StateStop
	// StateCrashed is entered on an illegal opcode; only Reset leaves it.
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "Normal"
	case StateHalt:
		return "Halt"
	case StateStop:
		return "Stop"
	case StateCrashed:
		return "Crashed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// CPU is the main struct holding SM83 state
type CPU struct {
	// registers
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// metadata
	ime           bool
	imeDelay      int // EI: counts down to the step after the next instruction
	state         State
	currentOpcode uint16
	cycles        uint64

	// haltBug makes the next fetch skip the PC increment, so the byte
	// after HALT is read twice.
	haltBug bool

	trace bool

	bus Bus
}

// New returns a CPU wired to bus, in the state the DMG boot ROM leaves it.
func New(bus Bus) *CPU {
	cpu := &CPU{bus: bus}
	cpu.Reset()
	return cpu
}

// Reset restores the post-boot register values.
func (c *CPU) Reset() {
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100

	c.ime = false
	c.imeDelay = 0
	c.state = StateNormal
	c.currentOpcode = 0
	c.cycles = 0
	c.haltBug = false
}

// SetTrace enables per-instruction debug logging.
func (c *CPU) SetTrace(enabled bool) {
	c.trace = enabled
}

// Step runs one unit of CPU work: an idle tick while halted or stopped, an
// interrupt dispatch, or one instruction. It returns the T-cycles spent.
func (c *CPU) Step() int {
	cycles := c.step()
	c.cycles += uint64(cycles)
	return cycles
}

func (c *CPU) step() int {
	switch c.state {
	case StateStop, StateCrashed:
		return 4
	case StateHalt:
		if c.PendingInterrupts() == 0 {
			return 4
		}
		c.state = StateNormal
	}

	if c.ime {
		if c.serviceInterrupt() {
			return interruptCycles
		}
	}

	cycles := c.execute()

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	return cycles
}

func (c *CPU) execute() int {
	if c.trace {
		c.logInstruction()
	}

	instruction := Decode(c)

	// the halt bug skips the first PC increment, operands still advance it
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	if bit.High(c.currentOpcode) == 0xCB {
		c.pc++
	}

	return instruction(c)
}

func (c *CPU) logInstruction() {
	line := disasm.DisassembleAt(c.pc, c.bus)
	slog.Debug("exec",
		"pc", fmt.Sprintf("0x%04X", c.pc),
		"instr", line.Instruction,
		"af", fmt.Sprintf("0x%04X", c.getAF()),
		"bc", fmt.Sprintf("0x%04X", c.getBC()),
		"de", fmt.Sprintf("0x%04X", c.getDE()),
		"hl", fmt.Sprintf("0x%04X", c.getHL()),
		"sp", fmt.Sprintf("0x%04X", c.sp),
	)
}

// PendingInterrupts returns which interrupts are both enabled and requested.
func (c *CPU) PendingInterrupts() uint8 {
	return c.bus.Read(addr.IE) & c.bus.Read(addr.IF) & 0x1F
}

// serviceInterrupt dispatches the highest priority pending interrupt, if any.
func (c *CPU) serviceInterrupt() bool {
	pending := c.PendingInterrupts()
	if pending == 0 {
		return false
	}

	for _, source := range addr.Interrupts {
		if pending&uint8(source) == 0 {
			continue
		}

		c.bus.Write(addr.IF, c.bus.Read(addr.IF)&^uint8(source))
		c.ime = false
		c.imeDelay = 0
		c.pushStack(c.pc)
		c.pc = source.Vector()
		return true
	}

	return false
}

// PressButton presses a joypad input. Any press wakes the CPU from STOP.
func (c *CPU) PressButton(b addr.Button) {
	c.bus.HandleKeyPress(b)
	if c.state == StateStop {
		c.state = StateNormal
	}
}

// ReleaseButton releases a joypad input.
func (c *CPU) ReleaseButton(b addr.Button) {
	c.bus.HandleKeyRelease(b)
}

// peekImmediate returns the byte at the memory address pointed by the PC
// this value is known as immediate ('n' in mnemonics), some opcodes use it as a parameter
func (c *CPU) peekImmediate() uint8 {
	return c.bus.Read(c.pc)
}

// peekImmediateWord returns the two bytes at the memory address pointed by PC and PC+1
func (c *CPU) peekImmediateWord() uint16 {
	low := c.bus.Read(c.pc)
	high := c.bus.Read(c.pc + 1)
	return bit.Combine(high, low)
}

// readImmediate acts similarly as its peek counterpart, but increments the PC once after reading
func (c *CPU) readImmediate() uint8 {
	n := c.peekImmediate()
	c.pc++
	return n
}

// readImmediateWord acts similarly as its peek counterpart, but increments the PC twice after reading
func (c *CPU) readImmediateWord() uint16 {
	nn := c.peekImmediateWord()
	c.pc += 2
	return nn
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
		return
	}
	c.resetFlag(flag)
}

// setFlags overwrites all four flags.
func (c *CPU) setFlags(z, n, h, cy bool) {
	c.f = 0
	c.setFlagToCondition(zeroFlag, z)
	c.setFlagToCondition(subFlag, n)
	c.setFlagToCondition(halfCarryFlag, h)
	c.setFlagToCondition(carryFlag, cy)
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	// F register lower 4 bits must be 0
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

// State returns the execution state.
func (c *CPU) State() State { return c.state }

// Cycles returns the T-cycles run since the last reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// IME reports whether the interrupt master enable is set.
func (c *CPU) IME() bool { return c.ime }
