package addr

// memory map boundaries
const (
	ROMBank0Start   uint16 = 0x0000
	ROMBankNStart   uint16 = 0x4000
	ROMEnd          uint16 = 0x7FFF
	VRAMStart       uint16 = 0x8000
	VRAMEnd         uint16 = 0x9FFF
	ExtRAMStart     uint16 = 0xA000
	ExtRAMEnd       uint16 = 0xBFFF
	WRAMStart       uint16 = 0xC000
	WRAMEnd         uint16 = 0xDFFF
	EchoStart       uint16 = 0xE000
	EchoEnd         uint16 = 0xFDFF
	OAMStart        uint16 = 0xFE00
	OAMEnd          uint16 = 0xFE9F
	UnusableStart   uint16 = 0xFEA0
	UnusableEnd     uint16 = 0xFEFF
	IOStart         uint16 = 0xFF00
	IOEnd           uint16 = 0xFF7F
	HRAMStart       uint16 = 0xFF80
	HRAMEnd         uint16 = 0xFFFE
	InterruptVector uint16 = 0x0040

	// EchoOffset is the distance between an echo address and the work RAM cell it aliases.
	EchoOffset = EchoStart - WRAMStart
)

// lcd registers, stored as plain I/O bytes by the core
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	// LY is read-only; any write resets it to 0.
	LY   uint16 = 0xFF44
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// Audio registers.
// Reference: https://gbdev.io/pandocs/Audio_Registers.html
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	// Channel 1 - square wave with sweep
	NR10 uint16 = 0xFF10 // sweep
	NR11 uint16 = 0xFF11 // length timer & duty cycle
	NR12 uint16 = 0xFF12 // volume & envelope
	NR13 uint16 = 0xFF13 // period low
	NR14 uint16 = 0xFF14 // period high & control

	// Channel 2 - square wave
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19

	// Channel 3 - wave output
	NR30 uint16 = 0xFF1A // DAC enable
	NR31 uint16 = 0xFF1B // length timer
	NR32 uint16 = 0xFF1C // output level
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E

	// Channel 4 - noise
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22 // clock shift, LFSR width, divider
	NR44 uint16 = 0xFF23

	NR50 uint16 = 0xFF24 // master volume & VIN panning
	NR51 uint16 = 0xFF25 // panning
	NR52 uint16 = 0xFF26 // power and channel status

	// 32 4-bit samples
	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// P1 selects and reads the joypad matrix.
const P1 uint16 = 0xFF00

// serial I/O
const (
	// SB holds the byte being shifted out; after a transfer it holds the byte received
	// from the peer (0xFF when nothing is connected).
	SB uint16 = 0xFF01
	// SC bit 7 starts a transfer and is cleared by hardware when done, bit 0 selects
	// the internal clock.
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV is the divider register. Incremented 16384 times/s, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// Interrupt is an enum that represents one of the possible interrupts.
// The value is the interrupt's bit in IE and IF.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the LCD has completed a frame.
	VBlankInterrupt Interrupt = 1
	// LCDSTATInterrupt is fired based on one of the conditions in the LCDSTAT register.
	LCDSTATInterrupt Interrupt = 1 << 1
	// TimerInterrupt is fired when the timer register (TIMA) overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt Interrupt = 1 << 2
	// SerialInterrupt is fired when a serial transfer has completed on the game link port.
	SerialInterrupt Interrupt = 1 << 3
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt Interrupt = 1 << 4
)

// Interrupts lists every source in service priority order.
var Interrupts = [...]Interrupt{
	VBlankInterrupt,
	LCDSTATInterrupt,
	TimerInterrupt,
	SerialInterrupt,
	JoypadInterrupt,
}

// Vector returns the address the CPU jumps to when servicing the interrupt.
func (i Interrupt) Vector() uint16 {
	for n, source := range Interrupts {
		if source == i {
			return InterruptVector + uint16(n)*8
		}
	}
	return 0
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "VBlank"
	case LCDSTATInterrupt:
		return "LCDSTAT"
	case TimerInterrupt:
		return "Timer"
	case SerialInterrupt:
		return "Serial"
	case JoypadInterrupt:
		return "Joypad"
	}
	return "Unknown"
}
