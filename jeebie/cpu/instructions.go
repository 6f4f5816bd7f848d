package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) inc(r *uint8) {
	*r++
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	value := *r

	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(halfCarryFlag, value&0xF == 0xF)
	c.setFlag(subFlag)
}

// rlc rotates left, bit 7 goes to both bit 0 and carry.
func (c *CPU) rlc(r *uint8) {
	value := *r
	result := value<<1 | value>>7
	c.setFlags(result == 0, false, false, value > 0x7F)
	*r = result
}

// rl rotates left through the carry flag.
func (c *CPU) rl(r *uint8) {
	value := *r
	result := value<<1 | c.flagToBit(carryFlag)
	c.setFlags(result == 0, false, false, value > 0x7F)
	*r = result
}

func (c *CPU) rrc(r *uint8) {
	value := *r
	result := value>>1 | value<<7
	c.setFlags(result == 0, false, false, value&1 == 1)
	*r = result
}

func (c *CPU) rr(r *uint8) {
	value := *r
	result := value>>1 | c.flagToBit(carryFlag)<<7
	c.setFlags(result == 0, false, false, value&1 == 1)
	*r = result
}

func (c *CPU) sla(r *uint8) {
	value := *r
	result := value << 1
	c.setFlags(result == 0, false, false, value > 0x7F)
	*r = result
}

// sra shifts right keeping bit 7.
func (c *CPU) sra(r *uint8) {
	value := *r
	result := value>>1 | value&0x80
	c.setFlags(result == 0, false, false, value&1 == 1)
	*r = result
}

func (c *CPU) srl(r *uint8) {
	value := *r
	result := value >> 1
	c.setFlags(result == 0, false, false, value&1 == 1)
	*r = result
}

func (c *CPU) swap(r *uint8) {
	value := *r
	result := value<<4 | value>>4
	c.setFlags(result == 0, false, false, false)
	*r = result
}

// bit tests bit b of value. Carry is left untouched.
func (c *CPU) bit(b uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(b, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// addToA sets the result of adding an 8 bit value to A, while setting all relevant flags.
func (c *CPU) addToA(value uint8) {
	c.adc(value, 0)
}

// adc adds value and the carry-in to A.
func (c *CPU) adc(value uint8, carryIn uint8) {
	a := c.a
	sum := uint16(a) + uint16(value) + uint16(carryIn)
	result := uint8(sum)

	halfCarry := (a&0xF)+(value&0xF)+carryIn > 0xF
	c.setFlags(result == 0, false, halfCarry, sum > 0xFF)
	c.a = result
}

// sub will subtract the value from register A and set all relevant flags.
func (c *CPU) sub(value uint8) {
	c.a = c.subtract(value, 0)
}

// sbc subtracts value and the carry-in from A.
func (c *CPU) sbc(value uint8, carryIn uint8) {
	c.a = c.subtract(value, carryIn)
}

// cp compares A with value: a subtraction with the result thrown away.
func (c *CPU) cp(value uint8) {
	c.subtract(value, 0)
}

func (c *CPU) subtract(value uint8, carryIn uint8) uint8 {
	a := c.a
	diff := int(a) - int(value) - int(carryIn)
	result := uint8(diff)

	halfCarry := int(a&0xF)-int(value&0xF)-int(carryIn) < 0
	c.setFlags(result == 0, true, halfCarry, diff < 0)
	return result
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlags(c.a == 0, false, true, false)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlags(c.a == 0, false, false, false)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlags(c.a == 0, false, false, false)
}

// addToHL sets the result of adding a 16 bit value to HL, while setting relevant flags.
// Zero is left untouched.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	sum := uint32(hl) + uint32(value)

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagToCondition(carryFlag, sum > 0xFFFF)

	c.setHL(uint16(sum))
}

// addSPOffset returns SP plus a signed offset. Flags come from the unsigned
// addition of the low bytes, Z and N are cleared.
func (c *CPU) addSPOffset(offset int8) uint16 {
	sp := c.sp
	unsigned := uint16(uint8(offset))

	halfCarry := (sp&0xF)+(unsigned&0xF) > 0xF
	carry := (sp&0xFF)+unsigned > 0xFF
	c.setFlags(false, false, halfCarry, carry)

	return sp + uint16(int16(offset))
}

// daa adjusts A to a valid BCD value after an addition or subtraction.
func (c *CPU) daa() {
	a := c.a
	adjust := uint8(0)
	carry := c.isSetFlag(carryFlag)
	subtract := c.isSetFlag(subFlag)

	if c.isSetFlag(halfCarryFlag) || (!subtract && a&0x0F > 0x09) {
		adjust |= 0x06
	}
	if carry || (!subtract && a > 0x99) {
		adjust |= 0x60
		carry = true
	}

	if subtract {
		a -= adjust
	} else {
		a += adjust
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

// jr adds a signed offset to PC.
func (c *CPU) jr(offset int8) {
	c.pc += uint16(int16(offset))
}

func (c *CPU) call(address uint16) {
	c.pushStack(c.pc)
	c.pc = address
}

func (c *CPU) ret() {
	c.pc = c.popStack()
}

// condition evaluates the 2-bit condition field of a jump: NZ, Z, NC, C.
func (c *CPU) condition(cc uint8) bool {
	switch cc & 0x03 {
	case 0:
		return !c.isSetFlag(zeroFlag)
	case 1:
		return c.isSetFlag(zeroFlag)
	case 2:
		return !c.isSetFlag(carryFlag)
	}
	return c.isSetFlag(carryFlag)
}
