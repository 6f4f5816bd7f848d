package audio

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// ChannelInfo holds the parameters a channel is currently producing sound with.
type ChannelInfo struct {
	Enabled bool
	// Volume is the envelope volume (0-15); for channel 3 it is the output
	// level code from NR32 (0 mute, 1 100%, 2 50%, 3 25%).
	Volume uint8
	// Period is the raw 11-bit period, or NR43 for the noise channel.
	Period uint16
	// Frequency is the resulting tone frequency in Hz, or the LFSR clock for the noise channel.
	Frequency float64
	// Duty is the fraction of the waveform spent high (pulse channels only).
	Duty float64
	// ShortLFSR reports the 7-bit LFSR mode of the noise channel.
	ShortLFSR bool
	Left      bool
	Right     bool
}

var dutyCycles = [4]float64{0.125, 0.25, 0.5, 0.75}

var (
	dutyField        = bit.Field{Shift: 6, Width: 2}
	outputLevelField = bit.Field{Shift: 5, Width: 2}
	noiseDivider     = bit.Field{Shift: 0, Width: 3}
	noiseWidth       = bit.Field{Shift: 3, Width: 1}
	noiseShift       = bit.Field{Shift: 4, Width: 4}
)

// Channels returns the derived parameters of all four channels.
func (a *APU) Channels() [4]ChannelInfo {
	var info [4]ChannelInfo
	panning := a.reg(addr.NR51)

	for ch := range info {
		c := &info[ch]
		c.Enabled = a.Enabled(ch)
		c.Right = bit.IsSet(uint8(ch), panning)
		c.Left = bit.IsSet(uint8(ch)+4, panning)

		switch ch {
		case Channel1, Channel2:
			c.Volume = a.envelopes[ch].volume
			c.Period = a.period(ch)
			if ch == Channel1 {
				c.Period = a.sweep.frequency
			}
			c.Frequency = float64(toneClock) / float64(2048-int(c.Period))
			c.Duty = dutyCycles[dutyField.Get(a.reg(channelTable[ch].length))]
		case Channel3:
			c.Volume = outputLevelField.Get(a.reg(addr.NR32))
			c.Period = a.period(ch)
			c.Frequency = float64(waveClock) / float64(2048-int(c.Period))
		case Channel4:
			nr43 := a.reg(addr.NR43)
			c.Volume = a.envelopes[ch].volume
			c.Period = uint16(nr43)
			c.Frequency = noiseFrequency(nr43)
			c.ShortLFSR = noiseWidth.Get(nr43) == 1
		}
	}
	return info
}

// noiseFrequency is 262144 / (r * 2^s) Hz, with r = 0 treated as 0.5.
func noiseFrequency(nr43 uint8) float64 {
	divider := float64(noiseDivider.Get(nr43))
	if divider == 0 {
		divider = 0.5
	}
	return float64(noiseClock) / (divider * 2) / float64(uint32(1)<<noiseShift.Get(nr43))
}

// WaveRAM returns a copy of the 32 4-bit samples of channel 3.
func (a *APU) WaveRAM() [waveRAMSize]uint8 {
	var wave [waveRAMSize]uint8
	copy(wave[:], a.registers[addr.WaveRAMStart-addr.AudioStart:])
	return wave
}

// EnvelopeVolume returns the cached envelope volume of a channel with an envelope.
func (a *APU) EnvelopeVolume(ch int) uint8 {
	return a.envelopes[ch].volume
}
