package disasm

import (
	"fmt"

	"github.com/valerio/jeebie-core/jeebie/bit"
)

// Reader is anything instructions can be read from, such as the MMU.
type Reader interface {
	Read(address uint16) byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// Instruction returns the mnemonic of the instruction at pc and its length
// in bytes.
func Instruction(r Reader, pc uint16) (string, int) {
	line := DisassembleAt(pc, r)
	return line.Instruction, line.Length
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, r Reader) DisassemblyLine {
	opcode := r.Read(pc)

	if opcode == 0xCB {
		return DisassemblyLine{
			Address:     pc,
			Instruction: cbTable[r.Read(pc+1)],
			Length:      2,
		}
	}

	e := baseTable[opcode]
	line := DisassemblyLine{Address: pc, Length: e.length()}

	switch e.operand {
	case none, ignored:
		line.Instruction = e.format
	case imm8:
		line.Instruction = fmt.Sprintf(e.format, r.Read(pc+1))
	case imm16:
		nn := bit.Combine(r.Read(pc+2), r.Read(pc+1))
		line.Instruction = fmt.Sprintf(e.format, nn)
	case relative:
		target := pc + 2 + uint16(int8(r.Read(pc+1)))
		line.Instruction = fmt.Sprintf(e.format, target)
	case highPage:
		line.Instruction = fmt.Sprintf(e.format, 0xFF00+uint16(r.Read(pc+1)))
	case signedImm:
		line.Instruction = fmt.Sprintf(e.format, int8(r.Read(pc+1)))
	}

	return line
}

// DisassembleRange disassembles multiple instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, r Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for range count {
		line := DisassembleAt(pc, r)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC.
// Instructions are variable length, so the lines before currentPC come from
// the furthest start address whose decoding lands exactly on currentPC.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, r Reader) []DisassemblyLine {
	for offset := beforeCount * 3; offset > 0; offset-- {
		if int(currentPC) < offset {
			continue
		}
		start := currentPC - uint16(offset)

		pc, count := start, 0
		for pc < currentPC {
			pc += uint16(DisassembleAt(pc, r).Length)
			count++
		}
		if pc == currentPC && count <= beforeCount {
			return DisassembleRange(start, count+1+afterCount, r)
		}
	}

	return DisassembleRange(currentPC, 1+afterCount, r)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}
