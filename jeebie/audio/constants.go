package audio

// Timing constants
// Reference: https://gbdev.io/pandocs/Audio_details.html
const (
	// CyclesPerStep is the number of CPU cycles per frame sequencer step.
	// The frame sequencer runs at 512 Hz: 4194304 Hz / 512 Hz = 8192 t-cycles
	CyclesPerStep = 8192

	// toneClock and waveClock are the period counter clocks of the tone and
	// wave channels, in Hz.
	toneClock = 131072
	waveClock = 65536
	// noiseClock is the noise channel's base clock, for a divider code of 0.
	noiseClock = 524288
)

// waveRAMSize is the size of wave pattern RAM in bytes (16 bytes = 32 nibbles)
const waveRAMSize = 16
