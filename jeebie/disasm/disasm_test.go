package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// rom is a flat Reader over a byte slice placed at address 0.
type rom []byte

func (r rom) Read(address uint16) byte {
	if int(address) >= len(r) {
		return 0
	}
	return r[address]
}

func TestDisassembleAt(t *testing.T) {
	tests := []struct {
		name   string
		code   rom
		want   string
		length int
	}{
		{"NOP", rom{0x00}, "NOP", 1},
		{"LD BC,nn", rom{0x01, 0x34, 0x12}, "LD BC,0x1234", 3},
		{"LD B,n", rom{0x06, 0xCB}, "LD B,0xCB", 2},
		{"LD (HL),n", rom{0x36, 0x7F}, "LD (HL),0x7F", 2},
		{"LD r,r'", rom{0x78}, "LD A,B", 1},
		{"LD (HL),A", rom{0x77}, "LD (HL),A", 1},
		{"HALT", rom{0x76}, "HALT", 1},
		{"ALU register", rom{0x8E}, "ADC A,(HL)", 1},
		{"ALU immediate", rom{0xFE, 0x10}, "CP 0x10", 2},
		{"JR backwards", rom{0x18, 0xFE}, "JR 0x0000", 2},
		{"JR conditional", rom{0x20, 0x05}, "JR NZ,0x0007", 2},
		{"CALL", rom{0xCD, 0x00, 0x40}, "CALL 0x4000", 3},
		{"RST", rom{0xFF}, "RST 0x38", 1},
		{"LDH", rom{0xE0, 0x26}, "LDH (0xFF26),A", 2},
		{"LD HL,SP+e", rom{0xF8, 0xFE}, "LD HL,SP-2", 2},
		{"POP AF", rom{0xF1}, "POP AF", 1},
		{"STOP", rom{0x10, 0x00}, "STOP", 2},
		{"illegal", rom{0xD3}, "DB 0xD3", 1},
		{"CB rotate", rom{0xCB, 0x11}, "RL C", 2},
		{"CB BIT", rom{0xCB, 0x7E}, "BIT 7,(HL)", 2},
		{"CB SET", rom{0xCB, 0xFF}, "SET 7,A", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, length := Instruction(tt.code, 0)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.length, length)
		})
	}
}

func TestDisassembleRange(t *testing.T) {
	code := rom{0x3E, 0x01, 0xC3, 0x00, 0x01, 0x00}
	lines := DisassembleRange(0, 3, code)

	assert.Equal(t, []DisassemblyLine{
		{Address: 0x0000, Instruction: "LD A,0x01", Length: 2},
		{Address: 0x0002, Instruction: "JP 0x0100", Length: 3},
		{Address: 0x0005, Instruction: "NOP", Length: 1},
	}, lines)
}

func TestDisassembleAround(t *testing.T) {
	code := rom{0x00, 0x3E, 0x01, 0x00, 0xC3, 0x00, 0x01}
	lines := DisassembleAround(0x0004, 2, 1, code)

	assert.Len(t, lines, 4)
	assert.Equal(t, uint16(0x0001), lines[0].Address)
	assert.Equal(t, uint16(0x0004), lines[2].Address)
	assert.Equal(t, "JP 0x0100", lines[2].Instruction)
}

func TestFormatDisassemblyLine(t *testing.T) {
	line := DisassemblyLine{Address: 0x0150, Instruction: "NOP", Length: 1}
	assert.Equal(t, ">0x0150: NOP", FormatDisassemblyLine(line, true))
	assert.Equal(t, " 0x0150: NOP", FormatDisassemblyLine(line, false))
}
