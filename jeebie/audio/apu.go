package audio

import (
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// Channel indexes, in NR52 status bit order.
const (
	Channel1 = iota
	Channel2
	Channel3
	Channel4
)

// channelRegs locates the registers shared by every channel's length/trigger
// logic. Channel 3 has no envelope: its "dac" register is NR30.
type channelRegs struct {
	length     uint16
	dac        uint16
	control    uint16
	lengthMask uint8
}

var channelTable = [4]channelRegs{
	Channel1: {length: addr.NR11, dac: addr.NR12, control: addr.NR14, lengthMask: 0x3F},
	Channel2: {length: addr.NR21, dac: addr.NR22, control: addr.NR24, lengthMask: 0x3F},
	Channel3: {length: addr.NR31, dac: addr.NR30, control: addr.NR34, lengthMask: 0xFF},
	Channel4: {length: addr.NR41, dac: addr.NR42, control: addr.NR44, lengthMask: 0x3F},
}

// envelope register (NRx2) layout
var (
	envelopePace      = bit.Field{Shift: 0, Width: 3}
	envelopeDirection = bit.Field{Shift: 3, Width: 1}
	envelopeVolume    = bit.Field{Shift: 4, Width: 4}
)

// sweep register (NR10) layout
var (
	sweepShift     = bit.Field{Shift: 0, Width: 3}
	sweepDirection = bit.Field{Shift: 3, Width: 1}
	sweepPace      = bit.Field{Shift: 4, Width: 3}
)

const (
	lengthEnableBit = 6
	triggerBit      = 7
	powerBit        = 7

	// counterIdle is loaded into envelope/sweep counters when their pace is 0.
	counterIdle = 8
	maxVolume   = 0x0F
	maxPeriod   = 0x7FF
)

// envelope is the cached volume envelope of channels 1, 2 and 4. It is loaded
// from NRx2 on trigger; later NRx2 writes only take effect on the next trigger.
type envelope struct {
	pace       uint8
	counter    uint8
	volume     uint8
	increasing bool
}

// sweep is channel 1's cached frequency sweep unit.
type sweep struct {
	pace           uint8
	counter        uint8
	enabled        bool
	negateExecuted bool
	// shadow frequency, 11 bits
	frequency uint16
}

// APU implements the Game Boy's Audio Processing Unit register model: power
// gating, triggers, the frame sequencer and the envelope, sweep and length units.
// It keeps no sample state; collaborators read derived parameters via Channels.
// Reference: https://gbdev.io/pandocs/Audio.html
type APU struct {
	// registers FF10-FF3F; the source of truth for every control bit
	registers [0x30]byte

	// frame sequencer step (0-7), advanced only by Step
	divAPU uint8

	envelopes [4]envelope // Channel3 entry unused
	sweep     sweep

	clearWaveOnPowerOff bool
}

// Option configures an APU.
type Option func(*APU)

// WithWaveRAMClearedOnPowerOff selects whether powering the APU off also zeroes
// wave RAM (FF30-FF3F). DMG units preserve it, which is the default.
func WithWaveRAMClearedOnPowerOff(clear bool) Option {
	return func(a *APU) {
		a.clearWaveOnPowerOff = clear
	}
}

// New creates an APU in its power-on state.
func New(opts ...Option) *APU {
	a := &APU{}
	for _, opt := range opts {
		opt(a)
	}
	a.Reset()
	return a
}

// Reset loads the DMG power-on register values and refreshes the cached
// channel state from them. Wave RAM is left as is.
// Reference: https://gbdev.io/pandocs/Power_Up_Sequence.html#hardware-registers
func (a *APU) Reset() {
	for i := addr.AudioStart; i < addr.WaveRAMStart; i++ {
		a.setReg(i, 0)
	}
	a.setReg(addr.NR10, 0x80)
	a.setReg(addr.NR11, 0xBF)
	a.setReg(addr.NR12, 0xF3)
	a.setReg(addr.NR13, 0xFF)
	a.setReg(addr.NR14, 0xBF)
	a.setReg(addr.NR21, 0x3F)
	a.setReg(addr.NR22, 0x00)
	a.setReg(addr.NR23, 0xFF)
	a.setReg(addr.NR24, 0xBF)
	a.setReg(addr.NR30, 0x7F)
	a.setReg(addr.NR31, 0xFF)
	a.setReg(addr.NR32, 0x9F)
	a.setReg(addr.NR33, 0xFF)
	a.setReg(addr.NR34, 0xBF)
	a.setReg(addr.NR41, 0xFF)
	a.setReg(addr.NR42, 0x00)
	a.setReg(addr.NR43, 0x00)
	a.setReg(addr.NR44, 0xBF)
	a.setReg(addr.NR50, 0x77)
	a.setReg(addr.NR51, 0xF3)
	a.setReg(addr.NR52, 0xF1)

	a.divAPU = 7
	a.sweep = sweep{
		pace:      sweepPace.Get(a.reg(addr.NR10)),
		counter:   counterIdle,
		frequency: a.period(Channel1),
	}
	for _, ch := range []int{Channel1, Channel2, Channel4} {
		a.loadEnvelope(ch)
		a.envelopes[ch].counter = counterIdle
	}
}

func (a *APU) reg(address uint16) uint8 {
	return a.registers[address-addr.AudioStart]
}

func (a *APU) setReg(address uint16, value uint8) {
	a.registers[address-addr.AudioStart] = value
}

// Powered reports whether the master enable bit (NR52 bit 7) is set.
func (a *APU) Powered() bool {
	return bit.IsSet(powerBit, a.reg(addr.NR52))
}

// Enabled reports whether the channel's NR52 status bit is set.
func (a *APU) Enabled(ch int) bool {
	return bit.IsSet(uint8(ch), a.reg(addr.NR52))
}

func (a *APU) enable(ch int) {
	a.setReg(addr.NR52, bit.Set(uint8(ch), a.reg(addr.NR52)))
}

func (a *APU) disable(ch int) {
	a.setReg(addr.NR52, bit.Reset(uint8(ch), a.reg(addr.NR52)))
}

// Status returns the NR52 power and channel status bits.
func (a *APU) Status() uint8 {
	return a.reg(addr.NR52) & 0x8F
}

// FrameSequencerStep returns the current frame sequencer step (0-7).
func (a *APU) FrameSequencerStep() uint8 {
	return a.divAPU
}

// GetMem returns the value the CPU observes when reading an audio register.
// Write-only bits and unused registers read back as 1.
func (a *APU) GetMem(address uint16) uint8 {
	switch {
	case address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd:
		return a.reg(address)
	case address > addr.NR52:
		return 0xFF
	}

	switch address {
	case addr.NR10:
		return a.reg(address) | 0x80
	case addr.NR11, addr.NR21:
		return a.reg(address) | 0x3F
	case addr.NR13, addr.NR23, addr.NR31, addr.NR33, addr.NR41, 0xFF15, 0xFF1F:
		return 0xFF
	case addr.NR14, addr.NR24, addr.NR34, addr.NR44:
		return a.reg(address) | 0xBF
	case addr.NR30:
		return a.reg(address) | 0x7F
	case addr.NR32:
		return a.reg(address) | 0x9F
	case addr.NR52:
		return a.reg(address) | 0x70
	}
	return a.reg(address)
}

// SetMem handles a CPU write to an audio register.
func (a *APU) SetMem(address uint16, value uint8) {
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		a.setReg(address, value)
		return
	}
	if address > addr.NR52 {
		return
	}

	if !a.Powered() && address != addr.NR52 {
		a.writeWhilePoweredOff(address, value)
		return
	}

	switch address {
	case addr.NR10:
		a.writeSweep(value)
	case addr.NR12, addr.NR22, addr.NR42:
		if value>>3 == 0 {
			a.disable(a.channelForDAC(address))
		}
		a.setReg(address, value)
	case addr.NR30:
		if !bit.IsSet(7, value) {
			a.disable(Channel3)
		}
		a.setReg(address, value)
	case addr.NR14:
		a.writeControl(Channel1, value)
	case addr.NR24:
		a.writeControl(Channel2, value)
	case addr.NR34:
		a.writeControl(Channel3, value)
	case addr.NR44:
		a.writeControl(Channel4, value)
	case addr.NR52:
		a.writePower(value)
	case 0xFF15, 0xFF1F:
		// unmapped holes in the register block
	default:
		a.setReg(address, value)
	}
}

// writeWhilePoweredOff applies the subset of writes that still reach the
// registers with the APU off: the length counters.
// Reference: https://gbdev.io/pandocs/Audio_details.html#power-control
func (a *APU) writeWhilePoweredOff(address uint16, value uint8) {
	for _, regs := range channelTable {
		if regs.length == address {
			raw := a.reg(address)
			a.setReg(address, raw&^regs.lengthMask|value&regs.lengthMask)
			return
		}
	}
	slog.Debug("Ignored audio register write while powered off",
		"address", address, "value", value)
}

func (a *APU) channelForDAC(address uint16) int {
	for ch, regs := range channelTable {
		if regs.dac == address {
			return ch
		}
	}
	return Channel1
}

func (a *APU) writeSweep(value uint8) {
	old := a.reg(addr.NR10)
	a.setReg(addr.NR10, value&0x7F)

	// leaving negate mode after a subtraction was computed disables the channel
	wasSubtract := sweepDirection.Get(old) == 1
	isAdd := sweepDirection.Get(value) == 0
	if wasSubtract && isAdd && a.sweep.negateExecuted {
		a.disable(Channel1)
	}
}

func (a *APU) writePower(value uint8) {
	if !bit.IsSet(powerBit, value) {
		a.powerOff()
		return
	}
	if !a.Powered() {
		a.divAPU = 7
	}
	a.setReg(addr.NR52, bit.Set(powerBit, a.reg(addr.NR52)))
}

func (a *APU) powerOff() {
	for i := addr.AudioStart; i < addr.WaveRAMStart; i++ {
		a.setReg(i, 0)
	}
	if a.clearWaveOnPowerOff {
		for i := addr.WaveRAMStart; i <= addr.WaveRAMEnd; i++ {
			a.setReg(i, 0)
		}
	}
}

// writeControl handles NRx4: the length enable bit and the trigger.
func (a *APU) writeControl(ch int, value uint8) {
	regs := channelTable[ch]
	wasLengthEnabled := a.lengthEnabled(ch)
	a.setReg(regs.control, value)

	// when the next sequencer step won't clock length, enabling it clocks once now
	nextSkipsLength := a.divAPU&1 == 0
	if a.lengthEnabled(ch) && !wasLengthEnabled && nextSkipsLength && a.lengthValue(ch) != 0 {
		a.clockLength(ch)
	}

	if bit.IsSet(triggerBit, value) {
		a.trigger(ch)
	}
}

// trigger restarts a channel, reloading its cached state from the registers.
func (a *APU) trigger(ch int) {
	if a.lengthValue(ch) == 0 && a.lengthEnabled(ch) && a.divAPU&1 == 0 {
		a.clockLength(ch)
	}

	switch ch {
	case Channel1:
		a.loadEnvelope(ch)
		a.loadSweep()
	case Channel2, Channel4:
		a.loadEnvelope(ch)
	}

	if !a.dacEnabled(ch) {
		a.disable(ch)
		return
	}
	a.enable(ch)

	if ch == Channel1 && sweepShift.Get(a.reg(addr.NR10)) > 0 {
		a.checkSweepOverflow()
	}
}

func (a *APU) dacEnabled(ch int) bool {
	value := a.reg(channelTable[ch].dac)
	if ch == Channel3 {
		return bit.IsSet(7, value)
	}
	return value>>3 != 0
}

func (a *APU) loadEnvelope(ch int) {
	value := a.reg(channelTable[ch].dac)
	env := &a.envelopes[ch]
	env.pace = envelopePace.Get(value)
	env.counter = env.pace
	if env.pace == 0 {
		env.counter = counterIdle
	}
	env.increasing = envelopeDirection.Get(value) == 1
	env.volume = envelopeVolume.Get(value)
}

func (a *APU) loadSweep() {
	value := a.reg(addr.NR10)
	a.sweep.frequency = a.period(Channel1)
	a.sweep.pace = sweepPace.Get(value)
	a.sweep.counter = a.sweep.pace
	if a.sweep.pace == 0 {
		a.sweep.counter = counterIdle
	}
	a.sweep.negateExecuted = false
	a.sweep.enabled = sweepShift.Get(value) > 0 || a.sweep.pace > 0
}

// Step advances the frame sequencer by one step. It is called at 512 Hz, i.e.
// once every CyclesPerStep CPU cycles, by the emulation loop.
//
//	Step   Length Ctr  Vol Env     Sweep
//	---------------------------------------
//	0      Clock       -           -
//	1      -           -           -
//	2      Clock       -           Clock
//	3      -           -           -
//	4      Clock       -           -
//	5      -           -           -
//	6      Clock       -           Clock
//	7      -           Clock       -
func (a *APU) Step() {
	a.divAPU = (a.divAPU + 1) & 0x07

	if a.divAPU == 7 {
		a.tickEnvelope(Channel1)
		a.tickEnvelope(Channel2)
		a.tickEnvelope(Channel4)
	}

	if a.divAPU&0x03 == 2 {
		a.tickSweep()
	}

	if a.divAPU&1 == 0 {
		for ch := range channelTable {
			if a.lengthEnabled(ch) {
				a.clockLength(ch)
			}
		}
	}
}

func (a *APU) tickEnvelope(ch int) {
	if !a.Enabled(ch) {
		return
	}
	env := &a.envelopes[ch]
	env.counter--
	if env.counter != 0 {
		return
	}
	if env.pace == 0 {
		env.counter = counterIdle
		return
	}
	env.counter = env.pace
	a.stepEnvelope(ch)
}

// stepEnvelope moves the cached volume one step in the envelope's direction,
// saturating at 0 and 15.
func (a *APU) stepEnvelope(ch int) {
	env := &a.envelopes[ch]
	switch {
	case env.increasing && env.volume < maxVolume:
		env.volume++
	case !env.increasing && env.volume > 0:
		env.volume--
	}
}

func (a *APU) tickSweep() {
	if !a.sweep.enabled || !a.Enabled(Channel1) {
		return
	}
	a.sweep.counter--
	if a.sweep.counter != 0 {
		return
	}

	// the live register pace is used so that writing 0 stops a running sweep
	pace := sweepPace.Get(a.reg(addr.NR10))
	if pace == 0 {
		a.sweep.counter = counterIdle
		return
	}
	a.sweep.pace = pace
	a.sweep.counter = pace
	a.sweepStep()
}

// nextSweepFrequency computes the shadow frequency's successor. ok is false
// when an addition overflows the 11-bit period.
func (a *APU) nextSweepFrequency() (next uint16, ok bool) {
	nr10 := a.reg(addr.NR10)
	freq := a.sweep.frequency
	delta := freq >> sweepShift.Get(nr10)

	if sweepDirection.Get(nr10) == 0 {
		next = freq + delta
		return next, next <= maxPeriod
	}
	a.sweep.negateExecuted = true
	return freq - delta, true
}

func (a *APU) checkSweepOverflow() {
	if _, ok := a.nextSweepFrequency(); !ok {
		a.disable(Channel1)
	}
}

func (a *APU) sweepStep() {
	next, ok := a.nextSweepFrequency()
	if !ok {
		a.disable(Channel1)
		return
	}
	if sweepShift.Get(a.reg(addr.NR10)) == 0 {
		return
	}

	a.sweep.frequency = next
	a.setReg(addr.NR13, uint8(next))
	a.setReg(addr.NR14, a.reg(addr.NR14)&^0x07|uint8(next>>8)&0x07)
	a.checkSweepOverflow()
}

func (a *APU) lengthEnabled(ch int) bool {
	return bit.IsSet(lengthEnableBit, a.reg(channelTable[ch].control))
}

// lengthValue returns the channel's length counter. It counts up from the
// value written to NRx1 and the channel stops when it wraps.
func (a *APU) lengthValue(ch int) uint8 {
	regs := channelTable[ch]
	return a.reg(regs.length) & regs.lengthMask
}

func (a *APU) clockLength(ch int) {
	regs := channelTable[ch]
	raw := a.reg(regs.length)
	next := (raw&regs.lengthMask + 1) & regs.lengthMask
	a.setReg(regs.length, raw&^regs.lengthMask|next)
	if next == 0 {
		a.disable(ch)
	}
}

// period returns the 11-bit period written to NRx3/NRx4 of a tone or wave channel.
func (a *APU) period(ch int) uint16 {
	control := channelTable[ch].control
	return bit.Combine(a.reg(control)&0x07, a.reg(control-1))
}
