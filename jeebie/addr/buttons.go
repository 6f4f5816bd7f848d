package addr

// Button is one of the eight physical inputs. The low two bits are the input's
// line in the P1 matrix, the order matches the hardware nibble layout.
type Button uint8

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Buttons lists every input, directions first.
var Buttons = [...]Button{
	ButtonRight, ButtonLeft, ButtonUp, ButtonDown,
	ButtonA, ButtonB, ButtonSelect, ButtonStart,
}

var buttonNames = [...]string{
	ButtonRight:  "Right",
	ButtonLeft:   "Left",
	ButtonUp:     "Up",
	ButtonDown:   "Down",
	ButtonA:      "A",
	ButtonB:      "B",
	ButtonSelect: "Select",
	ButtonStart:  "Start",
}

// IsDirection reports whether the input belongs to the d-pad group (P1 bit 4).
func (b Button) IsDirection() bool {
	return b <= ButtonDown
}

// Mask is the input's bit in the low nibble of P1.
func (b Button) Mask() uint8 {
	return 1 << (b & 0x03)
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "Unknown"
}
