package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index, value uint8) bool {
	return (value>>index)&1 == 1
}

// Set will return the passed byte with the bit at the specified index set to 1.
func Set(index, value uint8) uint8 {
	return value | (1 << index)
}

// Reset will return the passed byte with the bit at the specified index set to 0.
func Reset(index, value uint8) uint8 {
	return value &^ (1 << index)
}

// SetTo sets or resets the bit at index depending on on.
func SetTo(index, value uint8, on bool) uint8 {
	if on {
		return Set(index, value)
	}
	return Reset(index, value)
}

// ExtractBits extracts bits from highBit to lowBit (inclusive)
// Example: ExtractBits(0b11010110, 6, 4) -> 0b101 (extracts bits 6, 5, 4)
func ExtractBits(value uint8, highBit, lowBit uint8) uint8 {
	width := highBit - lowBit + 1
	mask := uint8((1 << width) - 1)
	return (value >> lowBit) & mask
}

// Field describes a run of bits inside a register byte.
type Field struct {
	Shift uint8
	Width uint8
}

func (f Field) mask() uint8 {
	return uint8((1<<f.Width)-1) << f.Shift
}

// Get extracts the field from value.
func (f Field) Get(value uint8) uint8 {
	return (value & f.mask()) >> f.Shift
}

// Put returns value with the field replaced by v; excess bits of v are dropped.
func (f Field) Put(value, v uint8) uint8 {
	return value&^f.mask() | (v<<f.Shift)&f.mask()
}
