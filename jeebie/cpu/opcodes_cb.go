package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// CB-prefixed opcodes are fully regular:
//
//	bits 7-6: 00 rotate/shift, 01 BIT, 10 RES, 11 SET
//	bits 5-3: rotate/shift kind, or bit index
//	bits 2-0: operand (B,C,D,E,H,L,(HL),A)
//
// Register forms take 8 cycles, (HL) forms 16, except BIT n,(HL) which
// only reads and takes 12.

func cbOpcode(op uint8) Opcode {
	group, y, z := op>>6, (op>>3)&0x07, op&0x07

	switch group {
	case 0:
		return cbShift(y, z)
	case 1:
		cycles := 8
		if z == 6 {
			cycles = 12
		}
		return func(c *CPU) int {
			c.bit(y, c.operand(z))
			return cycles
		}
	case 2:
		return cbModify(z, func(v uint8) uint8 { return bit.Reset(y, v) })
	}
	return cbModify(z, func(v uint8) uint8 { return bit.Set(y, v) })
}

func cbShift(kind, z uint8) Opcode {
	var shift func(c *CPU, r *uint8)
	switch kind {
	case 0:
		shift = (*CPU).rlc
	case 1:
		shift = (*CPU).rrc
	case 2:
		shift = (*CPU).rl
	case 3:
		shift = (*CPU).rr
	case 4:
		shift = (*CPU).sla
	case 5:
		shift = (*CPU).sra
	case 6:
		shift = (*CPU).swap
	default:
		shift = (*CPU).srl
	}

	return func(c *CPU) int {
		if r := c.reg8(z); r != nil {
			shift(c, r)
			return 8
		}
		hl := c.getHL()
		value := c.bus.Read(hl)
		shift(c, &value)
		c.bus.Write(hl, value)
		return 16
	}
}

// cbModify builds RES/SET, which leave the flags alone.
func cbModify(z uint8, modify func(uint8) uint8) Opcode {
	cycles := 8
	if z == 6 {
		cycles = 16
	}
	return func(c *CPU) int {
		c.setOperand(z, modify(c.operand(z)))
		return cycles
	}
}
