package cpu

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/memory"
)

const programStart = 0xC000

// newTestCPU loads program into work RAM and points PC at it, with no
// interrupts requested and the stack in work RAM.
func newTestCPU(program ...byte) (*CPU, *memory.MMU) {
	mmu := memory.New()
	for i, b := range program {
		mmu.Write(programStart+uint16(i), b)
	}
	mmu.Write(addr.IF, 0x00)

	cpu := New(mmu)
	cpu.pc = programStart
	cpu.sp = 0xDFFE
	return cpu, mmu
}

// steps runs n steps and returns the cycles they took.
func steps(c *CPU, n int) int {
	total := 0
	for range n {
		total += c.Step()
	}
	return total
}
