package memory

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// timerBits maps TAC input clock select (bits 1-0) to the bit of the 16-bit
// system counter whose falling edge clocks TIMA.
//
//	00 -> bit 9  (4096 Hz)
//	01 -> bit 3  (262144 Hz)
//	10 -> bit 5  (65536 Hz)
//	11 -> bit 7  (16384 Hz)
var timerBits = [4]uint8{9, 3, 5, 7}

// powerOnDivider is the system counter value left by the DMG boot ROM.
const powerOnDivider = 0xABCC

// timer implements DIV/TIMA/TMA/TAC.
// Reference: https://gbdev.io/pandocs/Timer_Obscure_Behaviour.html
type timer struct {
	counter    uint16 // DIV is the upper byte
	lastSignal bool   // AND of the enable bit and the selected counter bit
	reloading  int    // cycles left before TIMA <- TMA after an overflow

	tima, tma, tac byte

	irq func()
}

func (t *timer) reset() {
	t.counter = powerOnDivider
	t.lastSignal = false
	t.reloading = 0
	t.tima = 0
	t.tma = 0
	t.tac = 0xF8
}

func (t *timer) tick(cycles int) {
	for range cycles {
		if t.reloading > 0 {
			t.reloading--
			if t.reloading == 0 {
				t.tima = t.tma
				t.irq()
			}
		}
		t.counter++
		t.updateSignal()
	}
}

// updateSignal increments TIMA on a falling edge of the timer clock signal.
// DIV resets and TAC writes can produce such an edge too.
func (t *timer) updateSignal() {
	selected := timerBits[t.tac&0x03]
	signal := bit.IsSet(2, t.tac) && (t.counter>>selected)&1 == 1
	if t.lastSignal && !signal {
		t.increment()
	}
	t.lastSignal = signal
}

func (t *timer) increment() {
	t.tima++
	if t.tima == 0 {
		// TIMA reads 0 for 4 cycles before the reload
		t.reloading = 4
	}
}

func (t *timer) read(address uint16) byte {
	switch address {
	case addr.DIV:
		return byte(t.counter >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	default:
		return t.tac | 0xF8
	}
}

func (t *timer) write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.counter = 0
		t.updateSignal()
	case addr.TIMA:
		// a write during the reload window cancels it
		t.tima = value
		t.reloading = 0
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
		t.updateSignal()
	}
}
