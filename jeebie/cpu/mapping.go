package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// Opcode represents a function that executes an opcode and returns the
// T-cycles it took.
type Opcode func(*CPU) int

// Decode retrieves the instruction identified by the value pointed at by the PC.
// Note: PC must be incremented separately, this is so we can handle the "HALT bug".
func Decode(c *CPU) Opcode {
	// peek PC+1|PC
	instr := c.peekImmediateWord()
	high, low := bit.High(instr), bit.Low(instr)

	// 0xCB is only ever used as a prefix for the next byte.
	if low == 0xCB {
		c.currentOpcode = bit.Combine(0xCB, high)
		return opcodesCB[high]
	}

	c.currentOpcode = bit.Combine(0, low)
	return opcodes[low]
}

var opcodes = buildOpcodes()

var opcodesCB = buildOpcodesCB()

func buildOpcodes() [0x100]Opcode {
	var table [0x100]Opcode

	for r := uint8(0); r < 8; r++ {
		if r == 6 {
			continue
		}
		table[r<<3|0x04] = incReg(r)
		table[r<<3|0x05] = decReg(r)
		table[r<<3|0x06] = loadImmediate(r)
	}

	for cc := uint8(0); cc < 4; cc++ {
		table[0x20|cc<<3] = jumpRelative(cc)
		table[0xC0|cc<<3] = retConditional(cc)
		table[0xC2|cc<<3] = jumpConditional(cc)
		table[0xC4|cc<<3] = callConditional(cc)
	}

	for op := 0x40; op <= 0x7F; op++ {
		table[op] = load(uint8(op>>3)&0x07, uint8(op)&0x07)
	}

	for op := 0x80; op <= 0xBF; op++ {
		table[op] = alu(uint8(op>>3)&0x07, uint8(op)&0x07)
	}

	for n := uint16(0); n < 8; n++ {
		table[0xC7|n<<3] = restart(n * 8)
	}

	irregular := map[uint8]Opcode{
		0x00: opcode0x00, 0x01: opcode0x01, 0x02: opcode0x02, 0x03: opcode0x03,
		0x07: opcode0x07, 0x08: opcode0x08, 0x09: opcode0x09, 0x0A: opcode0x0A,
		0x0B: opcode0x0B, 0x0F: opcode0x0F,
		0x10: opcode0x10, 0x11: opcode0x11, 0x12: opcode0x12, 0x13: opcode0x13,
		0x17: opcode0x17, 0x18: opcode0x18, 0x19: opcode0x19, 0x1A: opcode0x1A,
		0x1B: opcode0x1B, 0x1F: opcode0x1F,
		0x21: opcode0x21, 0x22: opcode0x22, 0x23: opcode0x23, 0x27: opcode0x27,
		0x29: opcode0x29, 0x2A: opcode0x2A, 0x2B: opcode0x2B, 0x2F: opcode0x2F,
		0x31: opcode0x31, 0x32: opcode0x32, 0x33: opcode0x33, 0x34: opcode0x34,
		0x35: opcode0x35, 0x36: opcode0x36, 0x37: opcode0x37, 0x39: opcode0x39,
		0x3A: opcode0x3A, 0x3B: opcode0x3B, 0x3F: opcode0x3F,
		0x76: opcode0x76,
		0xC1: opcode0xC1, 0xC3: opcode0xC3, 0xC5: opcode0xC5, 0xC6: opcode0xC6,
		0xC9: opcode0xC9, 0xCD: opcode0xCD, 0xCE: opcode0xCE,
		0xD1: opcode0xD1, 0xD5: opcode0xD5, 0xD6: opcode0xD6, 0xD9: opcode0xD9,
		0xDE: opcode0xDE,
		0xE0: opcode0xE0, 0xE1: opcode0xE1, 0xE2: opcode0xE2, 0xE5: opcode0xE5,
		0xE6: opcode0xE6, 0xE8: opcode0xE8, 0xE9: opcode0xE9, 0xEA: opcode0xEA,
		0xEE: opcode0xEE,
		0xF0: opcode0xF0, 0xF1: opcode0xF1, 0xF2: opcode0xF2, 0xF3: opcode0xF3,
		0xF5: opcode0xF5, 0xF6: opcode0xF6, 0xF8: opcode0xF8, 0xF9: opcode0xF9,
		0xFA: opcode0xFA, 0xFB: opcode0xFB, 0xFE: opcode0xFE,
	}
	for op, fn := range irregular {
		table[op] = fn
	}

	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		table[op] = illegal
	}

	// 0xCB is dispatched through opcodesCB by Decode
	table[0xCB] = illegal

	return table
}

func buildOpcodesCB() [0x100]Opcode {
	var table [0x100]Opcode
	for op := 0; op < 0x100; op++ {
		table[op] = cbOpcode(uint8(op))
	}
	return table
}
