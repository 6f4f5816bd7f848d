package memory

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// joypad holds the button matrix behind P1. A 0 bit means pressed.
type joypad struct {
	dpad    uint8
	buttons uint8
	selects uint8 // P1 bits 4-5 as last written
}

func (j *joypad) reset() {
	j.dpad = 0x0F
	j.buttons = 0x0F
	j.selects = 0x30
}

// read composes P1: bit 4 low selects the d-pad, bit 5 low the buttons,
// both low ANDs the two groups. Bits 6-7 always read as 1.
func (j *joypad) read() uint8 {
	lines := uint8(0x0F)
	if !bit.IsSet(4, j.selects) {
		lines &= j.dpad
	}
	if !bit.IsSet(5, j.selects) {
		lines &= j.buttons
	}
	return 0xC0 | j.selects | lines
}

func (j *joypad) write(value uint8) {
	j.selects = value & 0x30
}

func (j *joypad) group(b addr.Button) *uint8 {
	if b.IsDirection() {
		return &j.dpad
	}
	return &j.buttons
}

// press returns true on a released to pressed transition.
func (j *joypad) press(b addr.Button) bool {
	g := j.group(b)
	was := *g
	*g &^= b.Mask()
	return was != *g
}

func (j *joypad) release(b addr.Button) {
	*j.group(b) |= b.Mask()
}
