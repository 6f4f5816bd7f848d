package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/addr"
)

func TestInterruptHandling(t *testing.T) {
	t.Run("interrupts disabled by default", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x00)
		mmu.Write(addr.IF, 0x01)
		mmu.Write(addr.IE, 0x01)

		assert.Equal(t, 4, cpu.Step())
		assert.Equal(t, uint16(0xC001), cpu.pc)
		assert.Equal(t, uint8(0x01), cpu.PendingInterrupts())
	})

	t.Run("EI enables interrupts after the next instruction", func(t *testing.T) {
		cpu, mmu := newTestCPU(0xFB, 0x00, 0x00)
		mmu.Write(addr.IF, 0x01)
		mmu.Write(addr.IE, 0x01)

		cpu.Step() // EI
		assert.False(t, cpu.IME())

		cpu.Step() // NOP still runs
		assert.Equal(t, uint16(0xC002), cpu.pc)
		assert.True(t, cpu.IME())

		assert.Equal(t, interruptCycles, cpu.Step())
		assert.Equal(t, uint16(0x0040), cpu.pc)
		assert.Equal(t, uint16(0xC002), cpu.popStack())
	})

	t.Run("DI cancels a pending EI", func(t *testing.T) {
		cpu, mmu := newTestCPU(0xFB, 0xF3, 0x00, 0x00)
		mmu.Write(addr.IF, 0x01)
		mmu.Write(addr.IE, 0x01)

		steps(cpu, 4)
		assert.False(t, cpu.IME())
		assert.Equal(t, uint16(0xC004), cpu.pc)
	})

	t.Run("DI disables interrupts immediately", func(t *testing.T) {
		cpu, _ := newTestCPU(0xF3)
		cpu.ime = true

		cpu.Step()
		assert.False(t, cpu.IME())
	})

	t.Run("interrupt priority order", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x00)
		cpu.ime = true
		mmu.Write(addr.IF, 0x1F)
		mmu.Write(addr.IE, 0x1F)

		cpu.Step()

		assert.Equal(t, uint16(0x40), cpu.pc)
		assert.Equal(t, uint8(0x1E), mmu.InterruptFlags())
		assert.False(t, cpu.IME())
	})

	t.Run("only enabled interrupts are serviced", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x00)
		cpu.ime = true
		mmu.Write(addr.IF, 0x1F)
		mmu.Write(addr.IE, 0x14)

		cpu.Step()

		assert.Equal(t, addr.TimerInterrupt.Vector(), cpu.pc)
		assert.Equal(t, uint8(0x1B), mmu.InterruptFlags())
	})

	t.Run("RETI enables interrupts and returns", func(t *testing.T) {
		cpu, _ := newTestCPU(0xD9)
		cpu.pushStack(0xC150)

		assert.Equal(t, 16, cpu.Step())

		assert.True(t, cpu.IME())
		assert.Equal(t, uint16(0xC150), cpu.pc)
	})
}

func TestInterruptVectors(t *testing.T) {
	for i, source := range addr.Interrupts {
		t.Run(source.String(), func(t *testing.T) {
			cpu, mmu := newTestCPU(0x00)
			cpu.ime = true
			mmu.Write(addr.IE, 0x1F)
			mmu.RequestInterrupt(source)

			cpu.Step()
			assert.Equal(t, uint16(0x40+8*i), cpu.pc)
			assert.Equal(t, uint8(0), mmu.InterruptFlags())
		})
	}
}

func TestHALTBehavior(t *testing.T) {
	t.Run("interrupt wakes HALT and returns past it", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x76, 0x00)
		cpu.ime = true
		mmu.Write(addr.IE, uint8(addr.TimerInterrupt))

		cpu.Step()
		require.Equal(t, StateHalt, cpu.State())
		haltedPC := cpu.PC()
		assert.Equal(t, uint16(0xC001), haltedPC)

		assert.Equal(t, 4, cpu.Step(), "halted CPU idles")
		assert.Equal(t, StateHalt, cpu.State())
		assert.Equal(t, haltedPC, cpu.PC())

		mmu.RequestInterrupt(addr.TimerInterrupt)
		assert.Equal(t, interruptCycles, cpu.Step())

		assert.Equal(t, StateNormal, cpu.State())
		assert.Equal(t, addr.TimerInterrupt.Vector(), cpu.PC())
		assert.Equal(t, haltedPC, cpu.popStack(), "return address is the PC after HALT")
	})

	t.Run("HALT with IME=0 wakes without servicing", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x76, 0x3C)
		mmu.Write(addr.IE, 0x01)

		cpu.Step()
		require.Equal(t, StateHalt, cpu.State())

		mmu.Write(addr.IF, 0x01)
		cpu.Step()

		assert.Equal(t, StateNormal, cpu.State())
		assert.Equal(t, uint8(0x02), cpu.a, "INC A ran once")
		assert.Equal(t, uint16(0xC002), cpu.pc)
		assert.Equal(t, uint8(0x01), mmu.InterruptFlags(), "interrupt left pending")
	})

	t.Run("HALT with IME=0 and no interrupt stays halted", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x76)
		mmu.Write(addr.IE, 0x01)

		assert.Equal(t, 4*5, steps(cpu, 5))
		assert.Equal(t, StateHalt, cpu.State())
		assert.Equal(t, uint64(20), cpu.Cycles())
	})

	t.Run("HALT bug reads the next byte twice", func(t *testing.T) {
		cpu, mmu := newTestCPU(0x76, 0x3C, 0x00)
		cpu.a = 0
		mmu.Write(addr.IE, 0x01)
		mmu.Write(addr.IF, 0x01)

		cpu.Step()
		assert.Equal(t, StateNormal, cpu.State(), "HALT doesn't halt")
		assert.Equal(t, uint16(0xC001), cpu.pc)

		cpu.Step()
		assert.Equal(t, uint8(1), cpu.a)
		assert.Equal(t, uint16(0xC001), cpu.pc)

		cpu.Step()
		assert.Equal(t, uint8(2), cpu.a)
		assert.Equal(t, uint16(0xC002), cpu.pc)
	})

	t.Run("HALT bug re-reads the opcode as an operand", func(t *testing.T) {
		// LD A,n after HALT loads the LD opcode itself
		cpu, mmu := newTestCPU(0x76, 0x3E, 0x42)
		mmu.Write(addr.IE, 0x01)
		mmu.Write(addr.IF, 0x01)

		steps(cpu, 2)
		assert.Equal(t, uint8(0x3E), cpu.a)
		assert.Equal(t, uint16(0xC002), cpu.pc)
	})
}

func TestSTOPBehavior(t *testing.T) {
	cpu, mmu := newTestCPU(0x10, 0x00, 0x3C)
	cpu.a = 0

	cpu.Step()
	require.Equal(t, StateStop, cpu.State())
	assert.Equal(t, uint16(0xC002), cpu.pc)

	assert.Equal(t, 4, cpu.Step())
	assert.Equal(t, StateStop, cpu.State())
	assert.Equal(t, uint16(0xC002), cpu.pc)

	cpu.ReleaseButton(addr.ButtonA)
	assert.Equal(t, StateStop, cpu.State(), "releases don't wake")

	cpu.PressButton(addr.ButtonA)
	assert.Equal(t, StateNormal, cpu.State())
	assert.Equal(t, uint8(addr.JoypadInterrupt), mmu.InterruptFlags())

	cpu.Step()
	assert.Equal(t, uint8(1), cpu.a)
}

func TestIllegalOpcodeLocksCPU(t *testing.T) {
	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		cpu, mmu := newTestCPU(op)
		cpu.ime = true
		mmu.Write(addr.IE, 0x01)

		cpu.Step()
		assert.Equal(t, StateCrashed, cpu.State(), "opcode 0x%02X", op)

		mmu.Write(addr.IF, 0x01)
		pc := cpu.pc
		assert.Equal(t, 4, cpu.Step())
		assert.Equal(t, pc, cpu.pc, "interrupts don't unlock the CPU")

		cpu.PressButton(addr.ButtonStart)
		assert.Equal(t, StateCrashed, cpu.State())

		cpu.Reset()
		assert.Equal(t, StateNormal, cpu.State())
	}
}

func TestInterruptTiming(t *testing.T) {
	cpu, mmu := newTestCPU(0x00)
	cpu.ime = true
	mmu.Write(addr.IF, 0x01)
	mmu.Write(addr.IE, 0x01)

	start := cpu.Cycles()
	cpu.Step()
	assert.Equal(t, uint64(20), cpu.Cycles()-start)
}
