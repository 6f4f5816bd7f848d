package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/addr"
)

func TestAPU_ReadMasks(t *testing.T) {
	tests := []struct {
		name     string
		register uint16
		value    uint8
		want     uint8
	}{
		{"NR10 top bit reads 1", addr.NR10, 0x00, 0x80},
		{"NR11 length is write only", addr.NR11, 0x80, 0xBF},
		{"NR12 reads back", addr.NR12, 0xA5, 0xA5},
		{"NR13 write only", addr.NR13, 0x12, 0xFF},
		{"NR14 only length enable readable", addr.NR14, 0x47, 0xFF},
		{"NR14 length enable clear", addr.NR14, 0x07, 0xBF},
		{"unused FF15", 0xFF15, 0x00, 0xFF},
		{"NR21 length is write only", addr.NR21, 0x40, 0x7F},
		{"NR23 write only", addr.NR23, 0x00, 0xFF},
		{"NR24 only length enable readable", addr.NR24, 0x00, 0xBF},
		{"NR30 only DAC bit readable", addr.NR30, 0x80, 0xFF},
		{"NR31 write only", addr.NR31, 0x00, 0xFF},
		{"NR32 only level readable", addr.NR32, 0x20, 0xBF},
		{"NR33 write only", addr.NR33, 0x00, 0xFF},
		{"NR34 only length enable readable", addr.NR34, 0x00, 0xBF},
		{"unused FF1F", 0xFF1F, 0x00, 0xFF},
		{"NR41 write only", addr.NR41, 0x00, 0xFF},
		{"NR42 reads back", addr.NR42, 0x00, 0x00},
		{"NR43 reads back", addr.NR43, 0x5A, 0x5A},
		{"NR44 only length enable readable", addr.NR44, 0x40, 0xFF},
		{"NR50 reads back", addr.NR50, 0x35, 0x35},
		{"NR51 reads back", addr.NR51, 0x0F, 0x0F},
		{"unused FF27", 0xFF27, 0x00, 0xFF},
		{"unused FF2F", 0xFF2F, 0x00, 0xFF},
		{"wave RAM reads back", addr.WaveRAMStart, 0xAB, 0xAB},
		{"wave RAM end reads back", addr.WaveRAMEnd, 0x01, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apu := New()
			apu.SetMem(tt.register, tt.value)
			assert.Equal(t, tt.want, apu.GetMem(tt.register))
		})
	}
}

func TestAPU_PowerOn(t *testing.T) {
	apu := New()

	assert.True(t, apu.Powered())
	assert.Equal(t, uint8(0xF1), apu.GetMem(addr.NR52))
	assert.Equal(t, uint8(7), apu.FrameSequencerStep())
	assert.Equal(t, uint8(0xF3), apu.GetMem(addr.NR12))
	assert.Equal(t, uint8(0xBF), apu.GetMem(addr.NR11))
}

func TestAPU_PowerOff(t *testing.T) {
	channelRegisters := []uint16{
		addr.NR10, addr.NR11, addr.NR12, addr.NR13, addr.NR14,
		addr.NR21, addr.NR22, addr.NR23, addr.NR24,
		addr.NR30, addr.NR31, addr.NR32, addr.NR33, addr.NR34,
		addr.NR41, addr.NR42, addr.NR43, addr.NR44,
		addr.NR50, addr.NR51,
	}

	apu := New()
	apu.SetMem(addr.NR52, 0x00)

	assert.False(t, apu.Powered())
	assert.Equal(t, uint8(0x70), apu.GetMem(addr.NR52))
	for _, reg := range channelRegisters {
		fixed := New()
		fixed.registers = [0x30]byte{}
		assert.Equal(t, fixed.GetMem(reg), apu.GetMem(reg), "register %04X", reg)
	}

	apu.SetMem(addr.NR52, 0x80)
	assert.True(t, apu.Powered())
	assert.Equal(t, uint8(0xF0), apu.GetMem(addr.NR52), "no channel should be enabled")
	assert.Equal(t, uint8(7), apu.FrameSequencerStep())
}

func TestAPU_WritesWhilePoweredOff(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR52, 0x00)

	apu.SetMem(addr.NR12, 0xF0)
	apu.SetMem(addr.NR50, 0x77)
	apu.SetMem(addr.NR14, 0x80)
	assert.Equal(t, uint8(0x00), apu.GetMem(addr.NR12), "control writes are ignored")
	assert.Equal(t, uint8(0x00), apu.GetMem(addr.NR50))
	assert.False(t, apu.Enabled(Channel1))

	apu.SetMem(addr.NR11, 0xFF)
	assert.Equal(t, uint8(0x3F), apu.registers[addr.NR11-addr.AudioStart], "only the length bits are written")
	apu.SetMem(addr.NR31, 0x42)
	assert.Equal(t, uint8(0x42), apu.registers[addr.NR31-addr.AudioStart])
}

func TestAPU_WaveRAMPowerOff(t *testing.T) {
	tests := []struct {
		name  string
		clear bool
		want  uint8
	}{
		{"preserved by default", false, 0x5A},
		{"cleared when configured", true, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apu := New(WithWaveRAMClearedOnPowerOff(tt.clear))
			apu.SetMem(addr.WaveRAMStart+3, 0x5A)
			apu.SetMem(addr.NR52, 0x00)
			assert.Equal(t, tt.want, apu.GetMem(addr.WaveRAMStart+3))
			assert.Equal(t, tt.want, apu.WaveRAM()[3])
		})
	}
}

func TestAPU_TriggerWithDACOff(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0x07) // volume 0, decreasing: DAC off
	assert.False(t, apu.Enabled(Channel1))

	apu.SetMem(addr.NR14, 0x80)
	assert.False(t, apu.Enabled(Channel1))

	apu.SetMem(addr.NR12, 0x08) // volume 0 increasing: DAC on
	apu.SetMem(addr.NR14, 0x80)
	assert.True(t, apu.Enabled(Channel1))
}

func TestAPU_ChannelDACs(t *testing.T) {
	tests := []struct {
		name    string
		ch      int
		dacReg  uint16
		dacOff  uint8
		dacOn   uint8
		control uint16
	}{
		{"channel 2", Channel2, addr.NR22, 0x00, 0xF0, addr.NR24},
		{"channel 3", Channel3, addr.NR30, 0x7F, 0x80, addr.NR34},
		{"channel 4", Channel4, addr.NR42, 0x07, 0x10, addr.NR44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apu := New()
			apu.SetMem(tt.dacReg, tt.dacOff)
			apu.SetMem(tt.control, 0x80)
			assert.False(t, apu.Enabled(tt.ch))

			apu.SetMem(tt.dacReg, tt.dacOn)
			apu.SetMem(tt.control, 0x80)
			assert.True(t, apu.Enabled(tt.ch))

			apu.SetMem(tt.dacReg, tt.dacOff)
			assert.False(t, apu.Enabled(tt.ch), "turning the DAC off stops the channel")
		})
	}
}

func TestAPU_EnvelopeReloadsOncePerEightSteps(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR52, 0x80)
	apu.SetMem(addr.NR12, 0xF1) // volume 15, decreasing, pace 1
	apu.SetMem(addr.NR14, 0x80)
	require.True(t, apu.Enabled(Channel1))
	require.Equal(t, uint8(15), apu.EnvelopeVolume(Channel1))

	for range 8 {
		apu.Step()
	}
	assert.Equal(t, uint8(14), apu.EnvelopeVolume(Channel1))
	assert.Equal(t, uint8(1), apu.envelopes[Channel1].counter)

	for range 8 {
		apu.Step()
	}
	assert.Equal(t, uint8(13), apu.EnvelopeVolume(Channel1))
}

func TestAPU_EnvelopeUsesPaceCachedAtTrigger(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0xF3)
	apu.SetMem(addr.NR14, 0x80)

	// a new pace written after the trigger must not apply until retriggered
	apu.SetMem(addr.NR12, 0xF1)
	for range 8 {
		apu.Step()
	}
	assert.Equal(t, uint8(15), apu.EnvelopeVolume(Channel1))
	assert.Equal(t, uint8(2), apu.envelopes[Channel1].counter)
}

func TestAPU_EnvelopeVolumeStaysInRange(t *testing.T) {
	for start := uint8(0); start <= 15; start++ {
		for _, increasing := range []bool{true, false} {
			apu := New()
			apu.envelopes[Channel2] = envelope{pace: 1, counter: 1, volume: start, increasing: increasing}
			for range 40 {
				apu.stepEnvelope(Channel2)
				v := apu.EnvelopeVolume(Channel2)
				assert.LessOrEqual(t, v, uint8(15))
			}
			if increasing {
				assert.Equal(t, uint8(15), apu.EnvelopeVolume(Channel2))
			} else {
				assert.Equal(t, uint8(0), apu.EnvelopeVolume(Channel2))
			}
		}
	}
}

func TestAPU_LengthCounter(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR22, 0xF0)
	apu.SetMem(addr.NR21, 0x3E) // two ticks left
	apu.SetMem(addr.NR24, 0xC0) // trigger with length enabled
	require.True(t, apu.Enabled(Channel2))

	// div is 7: the first step (0) clocks length
	apu.Step()
	assert.True(t, apu.Enabled(Channel2))
	apu.Step()
	apu.Step()
	assert.False(t, apu.Enabled(Channel2))
}

func TestAPU_WaveLengthCounter(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR30, 0x80)
	apu.SetMem(addr.NR31, 0xFF)
	apu.SetMem(addr.NR34, 0xC0)
	require.True(t, apu.Enabled(Channel3))

	apu.Step()
	assert.False(t, apu.Enabled(Channel3))
}

func TestAPU_LengthEnableExtraClock(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR22, 0xF0)
	apu.SetMem(addr.NR21, 0x3F)
	apu.SetMem(addr.NR24, 0x80)
	require.True(t, apu.Enabled(Channel2))

	apu.Step() // div 0: next step won't clock length
	apu.SetMem(addr.NR24, 0x40)
	assert.False(t, apu.Enabled(Channel2), "enabling length on an odd step clocks it once")
}

func TestAPU_SweepOverflowAtTrigger(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0xF0)
	apu.SetMem(addr.NR10, 0x11) // pace 1, add, shift 1
	apu.SetMem(addr.NR13, 0xFF)
	apu.SetMem(addr.NR14, 0x87) // period 0x7FF, trigger

	assert.False(t, apu.Enabled(Channel1))
}

func TestAPU_SweepStep(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0xF0)
	apu.SetMem(addr.NR10, 0x11) // pace 1, add, shift 1
	apu.SetMem(addr.NR13, 0x00)
	apu.SetMem(addr.NR14, 0x81) // period 0x100, trigger
	require.True(t, apu.Enabled(Channel1))

	// div 7 -> 0, 1, 2: sweep clocks on step 2
	apu.Step()
	apu.Step()
	apu.Step()
	assert.Equal(t, uint16(0x180), apu.sweep.frequency)
	assert.Equal(t, uint16(0x180), apu.period(Channel1))
	assert.True(t, apu.Enabled(Channel1))
}

func TestAPU_SweepStoppedByLivePace(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0xF0)
	apu.SetMem(addr.NR10, 0x21) // pace 2, add, shift 1
	apu.SetMem(addr.NR13, 0x00)
	apu.SetMem(addr.NR14, 0x81)

	apu.SetMem(addr.NR10, 0x01) // pace 0 mid-countdown
	for range 8 {
		apu.Step()
	}
	assert.Equal(t, uint16(0x100), apu.sweep.frequency)
}

func TestAPU_SweepNegateFlipDisables(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR12, 0xF0)
	apu.SetMem(addr.NR10, 0x19) // pace 1, subtract, shift 1
	apu.SetMem(addr.NR13, 0x00)
	apu.SetMem(addr.NR14, 0x84)
	require.True(t, apu.Enabled(Channel1))
	require.True(t, apu.sweep.negateExecuted)

	apu.SetMem(addr.NR10, 0x11)
	assert.False(t, apu.Enabled(Channel1))
}

func TestAPU_Channels(t *testing.T) {
	apu := New()
	apu.SetMem(addr.NR51, 0x21) // ch1 right, ch2 left
	apu.SetMem(addr.NR21, 0x80) // 50% duty
	apu.SetMem(addr.NR22, 0xA0)
	apu.SetMem(addr.NR23, 0x00)
	apu.SetMem(addr.NR24, 0x87) // period 0x700, trigger
	apu.SetMem(addr.NR43, 0x00)

	info := apu.Channels()
	assert.True(t, info[Channel1].Right)
	assert.False(t, info[Channel1].Left)
	assert.True(t, info[Channel2].Left)

	ch2 := info[Channel2]
	assert.True(t, ch2.Enabled)
	assert.Equal(t, uint8(10), ch2.Volume)
	assert.Equal(t, uint16(0x700), ch2.Period)
	assert.InDelta(t, 131072.0/256.0, ch2.Frequency, 0.001)
	assert.Equal(t, 0.5, ch2.Duty)

	assert.InDelta(t, 524288.0, info[Channel4].Frequency, 0.001)
}
