package debug

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/audio"
	"github.com/valerio/jeebie-core/jeebie/cpu"
)

// DefaultWindow is the memory window size captured around the program counter.
const DefaultWindow = 200

// CPUReader is the read-only view of the processor needed for a snapshot.
type CPUReader interface {
	Registers() cpu.Registers
	State() cpu.State
	IME() bool
	Cycles() uint64
	PendingInterrupts() uint8
}

// Capture copies the machine state. The memory window holds window bytes,
// starting a quarter of the way before the program counter so the
// instructions leading up to it can be disassembled.
func Capture(c CPUReader, mem MemoryReader, apu audio.Provider, window int) *Snapshot {
	if c == nil || mem == nil {
		return nil
	}
	if window <= 0 {
		window = DefaultWindow
	}

	regs := c.Registers()
	back := min(int(regs.PC), window/4)
	start := regs.PC - uint16(back)

	return &Snapshot{
		CPU: CPUState{
			Registers: regs,
			State:     c.State(),
			IME:       c.IME(),
			Cycles:    c.Cycles(),
			Pending:   c.PendingInterrupts(),
		},
		Memory:          SnapshotMemory(mem, start, window),
		Audio:           ExtractAudioData(mem, apu),
		InterruptEnable: mem.Read(addr.IE),
		InterruptFlags:  mem.Read(addr.IF) & 0x1F,
	}
}
