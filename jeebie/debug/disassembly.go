package debug

import (
	"github.com/valerio/jeebie-core/jeebie/disasm"
)

type DisasmLine struct {
	disasm.DisassemblyLine
	IsCurrent bool
}

// CreateDisassembly decodes the instructions around pc from the captured
// memory, at most before lines ahead of it and after lines past it.
// Bytes outside the snapshot decode as 0xFF.
func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, before, after int) []DisasmLine {
	if snapshot == nil || !snapshot.Contains(pc) {
		return nil
	}

	decoded := disasm.DisassembleAround(pc, before, after, snapshot)
	lines := make([]DisasmLine, 0, len(decoded))
	for _, line := range decoded {
		if !snapshot.Contains(line.Address) {
			continue
		}
		lines = append(lines, DisasmLine{
			DisassemblyLine: line,
			IsCurrent:       line.Address == pc,
		})
	}
	return lines
}

// Disassembly decodes the instructions around the captured program counter.
func (s *Snapshot) Disassembly(before, after int) []DisasmLine {
	return CreateDisassembly(s.Memory, s.CPU.PC, before, after)
}
