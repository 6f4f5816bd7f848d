package disasm

import "fmt"

// operand kinds following an opcode byte
type operand uint8

const (
	none      operand = iota
	imm8              // n
	imm16             // nn
	relative          // signed offset, shown as the jump target
	highPage          // n, shown as 0xFF00+n
	signedImm         // e, shown as a signed offset
	ignored           // byte consumed but not shown
)

type entry struct {
	format  string
	operand operand
}

func (e entry) length() int {
	switch e.operand {
	case none:
		return 1
	case imm16:
		return 3
	}
	return 2
}

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

var (
	aluNames   = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	condNames  = [4]string{"NZ", "Z", "NC", "C"}
	shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
	pairNames  = [4]string{"BC", "DE", "HL", "SP"}
	stackPairs = [4]string{"BC", "DE", "HL", "AF"}
)

var baseTable = buildBaseTable()

var cbTable = buildCBTable()

func buildBaseTable() [0x100]entry {
	var t [0x100]entry

	for i := range t {
		t[i] = entry{format: fmt.Sprintf("DB 0x%02X", i)}
	}

	for p := 0; p < 4; p++ {
		t[0x01|p<<4] = entry{"LD " + pairNames[p] + ",0x%04X", imm16}
		t[0x03|p<<4] = entry{format: "INC " + pairNames[p]}
		t[0x09|p<<4] = entry{format: "ADD HL," + pairNames[p]}
		t[0x0B|p<<4] = entry{format: "DEC " + pairNames[p]}
		t[0xC1|p<<4] = entry{format: "POP " + stackPairs[p]}
		t[0xC5|p<<4] = entry{format: "PUSH " + stackPairs[p]}
	}

	for r := 0; r < 8; r++ {
		t[0x04|r<<3] = entry{format: "INC " + regNames[r]}
		t[0x05|r<<3] = entry{format: "DEC " + regNames[r]}
		t[0x06|r<<3] = entry{"LD " + regNames[r] + ",0x%02X", imm8}
		t[0xC7|r<<3] = entry{format: fmt.Sprintf("RST 0x%02X", r*8)}
	}

	for cc := 0; cc < 4; cc++ {
		t[0x20|cc<<3] = entry{"JR " + condNames[cc] + ",0x%04X", relative}
		t[0xC0|cc<<3] = entry{format: "RET " + condNames[cc]}
		t[0xC2|cc<<3] = entry{"JP " + condNames[cc] + ",0x%04X", imm16}
		t[0xC4|cc<<3] = entry{"CALL " + condNames[cc] + ",0x%04X", imm16}
	}

	for op := 0x40; op <= 0x7F; op++ {
		t[op] = entry{format: "LD " + regNames[op>>3&7] + "," + regNames[op&7]}
	}
	for op := 0x80; op <= 0xBF; op++ {
		t[op] = entry{format: aluNames[op>>3&7] + regNames[op&7]}
	}
	for i, name := range aluNames {
		t[0xC6|i<<3] = entry{name + "0x%02X", imm8}
	}

	fixed := map[int]entry{
		0x00: {format: "NOP"},
		0x02: {format: "LD (BC),A"},
		0x07: {format: "RLCA"},
		0x08: {"LD (0x%04X),SP", imm16},
		0x0A: {format: "LD A,(BC)"},
		0x0F: {format: "RRCA"},
		0x10: {"STOP", ignored},
		0x12: {format: "LD (DE),A"},
		0x17: {format: "RLA"},
		0x18: {"JR 0x%04X", relative},
		0x1A: {format: "LD A,(DE)"},
		0x1F: {format: "RRA"},
		0x22: {format: "LD (HL+),A"},
		0x27: {format: "DAA"},
		0x2A: {format: "LD A,(HL+)"},
		0x2F: {format: "CPL"},
		0x32: {format: "LD (HL-),A"},
		0x37: {format: "SCF"},
		0x3A: {format: "LD A,(HL-)"},
		0x3F: {format: "CCF"},
		0x76: {format: "HALT"},
		0xC3: {"JP 0x%04X", imm16},
		0xC9: {format: "RET"},
		0xCD: {"CALL 0x%04X", imm16},
		0xD9: {format: "RETI"},
		0xE0: {"LDH (0x%04X),A", highPage},
		0xE2: {format: "LD (0xFF00+C),A"},
		0xE8: {"ADD SP,%d", signedImm},
		0xE9: {format: "JP HL"},
		0xEA: {"LD (0x%04X),A", imm16},
		0xF0: {"LDH A,(0x%04X)", highPage},
		0xF2: {format: "LD A,(0xFF00+C)"},
		0xF3: {format: "DI"},
		0xF8: {"LD HL,SP%+d", signedImm},
		0xF9: {format: "LD SP,HL"},
		0xFA: {"LD A,(0x%04X)", imm16},
		0xFB: {format: "EI"},
	}
	for op, e := range fixed {
		t[op] = e
	}

	return t
}

func buildCBTable() [0x100]string {
	var t [0x100]string
	for op := 0; op < 0x100; op++ {
		y, z := op>>3&7, op&7
		switch op >> 6 {
		case 0:
			t[op] = shiftNames[y] + " " + regNames[z]
		case 1:
			t[op] = fmt.Sprintf("BIT %d,%s", y, regNames[z])
		case 2:
			t[op] = fmt.Sprintf("RES %d,%s", y, regNames[z])
		default:
			t[op] = fmt.Sprintf("SET %d,%s", y, regNames[z])
		}
	}
	return t
}
