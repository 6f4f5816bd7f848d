package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/bit"
)

// illegal locks up the CPU, as the hardware does for the eleven unused opcodes.
func illegal(c *CPU) int {
	slog.Error("Illegal opcode, CPU locked",
		"opcode", fmt.Sprintf("0x%02X", c.currentOpcode),
		"pc", fmt.Sprintf("0x%04X", c.pc-1))
	c.state = StateCrashed
	return 4
}

// NOP
// 0x00
func opcode0x00(_ *CPU) int {
	return 4
}

// LD BC, nn
// 0x01
func opcode0x01(c *CPU) int {
	c.setBC(c.readImmediateWord())
	return 12
}

// LD (BC), A
// 0x02
func opcode0x02(c *CPU) int {
	c.bus.Write(c.getBC(), c.a)
	return 8
}

// INC BC
// 0x03
func opcode0x03(c *CPU) int {
	c.setBC(c.getBC() + 1)
	return 8
}

// RLCA
// 0x07
func opcode0x07(c *CPU) int {
	c.rlc(&c.a)
	c.resetFlag(zeroFlag)
	return 4
}

// LD (nn), SP
// 0x08
func opcode0x08(c *CPU) int {
	address := c.readImmediateWord()
	c.bus.Write(address, bit.Low(c.sp))
	c.bus.Write(address+1, bit.High(c.sp))
	return 20
}

// ADD HL, BC
// 0x09
func opcode0x09(c *CPU) int {
	c.addToHL(c.getBC())
	return 8
}

// LD A, (BC)
// 0x0A
func opcode0x0A(c *CPU) int {
	c.a = c.bus.Read(c.getBC())
	return 8
}

// DEC BC
// 0x0B
func opcode0x0B(c *CPU) int {
	c.setBC(c.getBC() - 1)
	return 8
}

// RRCA
// 0x0F
func opcode0x0F(c *CPU) int {
	c.rrc(&c.a)
	c.resetFlag(zeroFlag)
	return 4
}

// STOP
// 0x10
// The byte after STOP is skipped.
func opcode0x10(c *CPU) int {
	c.pc++
	c.state = StateStop
	return 4
}

// LD DE, nn
// 0x11
func opcode0x11(c *CPU) int {
	c.setDE(c.readImmediateWord())
	return 12
}

// LD (DE), A
// 0x12
func opcode0x12(c *CPU) int {
	c.bus.Write(c.getDE(), c.a)
	return 8
}

// INC DE
// 0x13
func opcode0x13(c *CPU) int {
	c.setDE(c.getDE() + 1)
	return 8
}

// RLA
// 0x17
func opcode0x17(c *CPU) int {
	c.rl(&c.a)
	c.resetFlag(zeroFlag)
	return 4
}

// JR n
// 0x18
func opcode0x18(c *CPU) int {
	c.jr(c.readSignedImmediate())
	return 12
}

// ADD HL, DE
// 0x19
func opcode0x19(c *CPU) int {
	c.addToHL(c.getDE())
	return 8
}

// LD A, (DE)
// 0x1A
func opcode0x1A(c *CPU) int {
	c.a = c.bus.Read(c.getDE())
	return 8
}

// DEC DE
// 0x1B
func opcode0x1B(c *CPU) int {
	c.setDE(c.getDE() - 1)
	return 8
}

// RRA
// 0x1F
func opcode0x1F(c *CPU) int {
	c.rr(&c.a)
	c.resetFlag(zeroFlag)
	return 4
}

// LD HL, nn
// 0x21
func opcode0x21(c *CPU) int {
	c.setHL(c.readImmediateWord())
	return 12
}

// LD (HL+), A
// 0x22
func opcode0x22(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.a)
	c.setHL(hl + 1)
	return 8
}

// INC HL
// 0x23
func opcode0x23(c *CPU) int {
	c.setHL(c.getHL() + 1)
	return 8
}

// DAA
// 0x27
func opcode0x27(c *CPU) int {
	c.daa()
	return 4
}

// ADD HL, HL
// 0x29
func opcode0x29(c *CPU) int {
	c.addToHL(c.getHL())
	return 8
}

// LD A, (HL+)
// 0x2A
func opcode0x2A(c *CPU) int {
	hl := c.getHL()
	c.a = c.bus.Read(hl)
	c.setHL(hl + 1)
	return 8
}

// DEC HL
// 0x2B
func opcode0x2B(c *CPU) int {
	c.setHL(c.getHL() - 1)
	return 8
}

// CPL
// 0x2F
func opcode0x2F(c *CPU) int {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
	return 4
}

// LD SP, nn
// 0x31
func opcode0x31(c *CPU) int {
	c.sp = c.readImmediateWord()
	return 12
}

// LD (HL-), A
// 0x32
func opcode0x32(c *CPU) int {
	hl := c.getHL()
	c.bus.Write(hl, c.a)
	c.setHL(hl - 1)
	return 8
}

// INC SP
// 0x33
func opcode0x33(c *CPU) int {
	c.sp++
	return 8
}

// INC (HL)
// 0x34
func opcode0x34(c *CPU) int {
	hl := c.getHL()
	value := c.bus.Read(hl)
	c.inc(&value)
	c.bus.Write(hl, value)
	return 12
}

// DEC (HL)
// 0x35
func opcode0x35(c *CPU) int {
	hl := c.getHL()
	value := c.bus.Read(hl)
	c.dec(&value)
	c.bus.Write(hl, value)
	return 12
}

// LD (HL), n
// 0x36
func opcode0x36(c *CPU) int {
	c.bus.Write(c.getHL(), c.readImmediate())
	return 12
}

// SCF
// 0x37
func opcode0x37(c *CPU) int {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
	return 4
}

// ADD HL, SP
// 0x39
func opcode0x39(c *CPU) int {
	c.addToHL(c.sp)
	return 8
}

// LD A, (HL-)
// 0x3A
func opcode0x3A(c *CPU) int {
	hl := c.getHL()
	c.a = c.bus.Read(hl)
	c.setHL(hl - 1)
	return 8
}

// DEC SP
// 0x3B
func opcode0x3B(c *CPU) int {
	c.sp--
	return 8
}

// CCF
// 0x3F
func opcode0x3F(c *CPU) int {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
	return 4
}

// HALT
// 0x76
// With IME clear and an interrupt already pending the CPU doesn't halt: the
// next opcode byte is fetched twice instead.
func opcode0x76(c *CPU) int {
	if !c.ime && c.PendingInterrupts() != 0 {
		c.haltBug = true
		return 4
	}
	c.state = StateHalt
	return 4
}

// POP BC
// 0xC1
func opcode0xC1(c *CPU) int {
	c.setBC(c.popStack())
	return 12
}

// JP nn
// 0xC3
func opcode0xC3(c *CPU) int {
	c.pc = c.readImmediateWord()
	return 16
}

// PUSH BC
// 0xC5
func opcode0xC5(c *CPU) int {
	c.pushStack(c.getBC())
	return 16
}

// ADD A, n
// 0xC6
func opcode0xC6(c *CPU) int {
	c.addToA(c.readImmediate())
	return 8
}

// RET
// 0xC9
func opcode0xC9(c *CPU) int {
	c.ret()
	return 16
}

// CALL nn
// 0xCD
func opcode0xCD(c *CPU) int {
	c.call(c.readImmediateWord())
	return 24
}

// ADC A, n
// 0xCE
func opcode0xCE(c *CPU) int {
	c.adc(c.readImmediate(), c.flagToBit(carryFlag))
	return 8
}

// POP DE
// 0xD1
func opcode0xD1(c *CPU) int {
	c.setDE(c.popStack())
	return 12
}

// PUSH DE
// 0xD5
func opcode0xD5(c *CPU) int {
	c.pushStack(c.getDE())
	return 16
}

// SUB n
// 0xD6
func opcode0xD6(c *CPU) int {
	c.sub(c.readImmediate())
	return 8
}

// RETI
// 0xD9
func opcode0xD9(c *CPU) int {
	c.ret()
	c.ime = true
	c.imeDelay = 0
	return 16
}

// SBC A, n
// 0xDE
func opcode0xDE(c *CPU) int {
	c.sbc(c.readImmediate(), c.flagToBit(carryFlag))
	return 8
}

// LDH (n), A
// 0xE0
func opcode0xE0(c *CPU) int {
	c.bus.Write(0xFF00+uint16(c.readImmediate()), c.a)
	return 12
}

// POP HL
// 0xE1
func opcode0xE1(c *CPU) int {
	c.setHL(c.popStack())
	return 12
}

// LD (C), A
// 0xE2
func opcode0xE2(c *CPU) int {
	c.bus.Write(0xFF00+uint16(c.c), c.a)
	return 8
}

// PUSH HL
// 0xE5
func opcode0xE5(c *CPU) int {
	c.pushStack(c.getHL())
	return 16
}

// AND n
// 0xE6
func opcode0xE6(c *CPU) int {
	c.and(c.readImmediate())
	return 8
}

// ADD SP, e
// 0xE8
func opcode0xE8(c *CPU) int {
	c.sp = c.addSPOffset(c.readSignedImmediate())
	return 16
}

// JP HL
// 0xE9
func opcode0xE9(c *CPU) int {
	c.pc = c.getHL()
	return 4
}

// LD (nn), A
// 0xEA
func opcode0xEA(c *CPU) int {
	c.bus.Write(c.readImmediateWord(), c.a)
	return 16
}

// XOR n
// 0xEE
func opcode0xEE(c *CPU) int {
	c.xor(c.readImmediate())
	return 8
}

// LDH A, (n)
// 0xF0
func opcode0xF0(c *CPU) int {
	c.a = c.bus.Read(0xFF00 + uint16(c.readImmediate()))
	return 12
}

// POP AF
// 0xF1
func opcode0xF1(c *CPU) int {
	c.setAF(c.popStack())
	return 12
}

// LD A, (C)
// 0xF2
func opcode0xF2(c *CPU) int {
	c.a = c.bus.Read(0xFF00 + uint16(c.c))
	return 8
}

// DI
// 0xF3
func opcode0xF3(c *CPU) int {
	c.ime = false
	c.imeDelay = 0
	return 4
}

// PUSH AF
// 0xF5
func opcode0xF5(c *CPU) int {
	c.pushStack(c.getAF())
	return 16
}

// OR n
// 0xF6
func opcode0xF6(c *CPU) int {
	c.or(c.readImmediate())
	return 8
}

// LD HL, SP+e
// 0xF8
func opcode0xF8(c *CPU) int {
	c.setHL(c.addSPOffset(c.readSignedImmediate()))
	return 12
}

// LD SP, HL
// 0xF9
func opcode0xF9(c *CPU) int {
	c.sp = c.getHL()
	return 8
}

// LD A, (nn)
// 0xFA
func opcode0xFA(c *CPU) int {
	c.a = c.bus.Read(c.readImmediateWord())
	return 16
}

// EI
// 0xFB
// IME is set after the instruction following EI.
func opcode0xFB(c *CPU) int {
	if !c.ime && c.imeDelay == 0 {
		c.imeDelay = 2
	}
	return 4
}

// CP n
// 0xFE
func opcode0xFE(c *CPU) int {
	c.cp(c.readImmediate())
	return 8
}

// The remaining opcodes come in regular groups: the register operand sits in
// a 3-bit field and the cycle cost only depends on whether it is (HL).

// incReg builds INC r (0x04, 0x0C, ... 0x3C).
func incReg(r uint8) Opcode {
	return func(c *CPU) int {
		c.inc(c.reg8(r))
		return 4
	}
}

// decReg builds DEC r (0x05, 0x0D, ... 0x3D).
func decReg(r uint8) Opcode {
	return func(c *CPU) int {
		c.dec(c.reg8(r))
		return 4
	}
}

// loadImmediate builds LD r, n (0x06, 0x0E, ... 0x3E).
func loadImmediate(r uint8) Opcode {
	return func(c *CPU) int {
		*c.reg8(r) = c.readImmediate()
		return 8
	}
}

// jumpRelative builds JR cc, n (0x20, 0x28, 0x30, 0x38).
func jumpRelative(cc uint8) Opcode {
	return func(c *CPU) int {
		offset := c.readSignedImmediate()
		if !c.condition(cc) {
			return 8
		}
		c.jr(offset)
		return 12
	}
}

// load builds LD r, r' (0x40-0x7F, except 0x76).
func load(dst, src uint8) Opcode {
	cycles := 4
	if dst == 6 || src == 6 {
		cycles = 8
	}
	return func(c *CPU) int {
		c.setOperand(dst, c.operand(src))
		return cycles
	}
}

// alu builds the accumulator operations (0x80-0xBF): ADD, ADC, SUB, SBC,
// AND, XOR, OR, CP.
func alu(op, src uint8) Opcode {
	cycles := 4
	if src == 6 {
		cycles = 8
	}
	return func(c *CPU) int {
		value := c.operand(src)
		switch op {
		case 0:
			c.addToA(value)
		case 1:
			c.adc(value, c.flagToBit(carryFlag))
		case 2:
			c.sub(value)
		case 3:
			c.sbc(value, c.flagToBit(carryFlag))
		case 4:
			c.and(value)
		case 5:
			c.xor(value)
		case 6:
			c.or(value)
		case 7:
			c.cp(value)
		}
		return cycles
	}
}

// retConditional builds RET cc (0xC0, 0xC8, 0xD0, 0xD8).
func retConditional(cc uint8) Opcode {
	return func(c *CPU) int {
		if !c.condition(cc) {
			return 8
		}
		c.ret()
		return 20
	}
}

// jumpConditional builds JP cc, nn (0xC2, 0xCA, 0xD2, 0xDA).
func jumpConditional(cc uint8) Opcode {
	return func(c *CPU) int {
		address := c.readImmediateWord()
		if !c.condition(cc) {
			return 12
		}
		c.pc = address
		return 16
	}
}

// callConditional builds CALL cc, nn (0xC4, 0xCC, 0xD4, 0xDC).
func callConditional(cc uint8) Opcode {
	return func(c *CPU) int {
		address := c.readImmediateWord()
		if !c.condition(cc) {
			return 12
		}
		c.call(address)
		return 24
	}
}

// restart builds RST n (0xC7, 0xCF, ... 0xFF).
func restart(vector uint16) Opcode {
	return func(c *CPU) int {
		c.call(vector)
		return 16
	}
}
