package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDisassembly(t *testing.T) {
	// NOP; LD A,0x01; NOP; JP 0x0100
	snapshot := &MemorySnapshot{
		StartAddr: 0xC000,
		Bytes:     []uint8{0x00, 0x3E, 0x01, 0x00, 0xC3, 0x00, 0x01},
	}

	lines := CreateDisassembly(snapshot, 0xC003, 2, 1)
	require.Len(t, lines, 4)

	assert.Equal(t, uint16(0xC000), lines[0].Address)
	assert.Equal(t, "LD A,0x01", lines[1].Instruction)
	assert.Equal(t, uint16(0xC003), lines[2].Address)
	assert.True(t, lines[2].IsCurrent)
	assert.False(t, lines[1].IsCurrent)
	assert.Equal(t, "JP 0x0100", lines[3].Instruction)
}

func TestCreateDisassemblyOutsideSnapshot(t *testing.T) {
	snapshot := &MemorySnapshot{StartAddr: 0xC000, Bytes: []uint8{0x00}}

	assert.Nil(t, CreateDisassembly(snapshot, 0x0100, 2, 2))
	assert.Nil(t, CreateDisassembly(nil, 0xC000, 2, 2))
}

func TestCreateDisassemblyDropsLinesPastWindow(t *testing.T) {
	snapshot := &MemorySnapshot{StartAddr: 0xC000, Bytes: []uint8{0x00, 0x00}}

	lines := CreateDisassembly(snapshot, 0xC001, 0, 5)
	require.Len(t, lines, 1)
	assert.Equal(t, uint16(0xC001), lines[0].Address)
}

func TestSnapshotDisassembly(t *testing.T) {
	snapshot := &Snapshot{
		Memory: &MemorySnapshot{StartAddr: 0xC000, Bytes: []uint8{0xAF, 0x3C}},
	}
	snapshot.CPU.PC = 0xC001

	lines := snapshot.Disassembly(1, 0)
	require.Len(t, lines, 2)
	assert.Equal(t, "XOR A", lines[0].Instruction)
	assert.Equal(t, "INC A", lines[1].Instruction)
	assert.True(t, lines[1].IsCurrent)
}
