package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/debug"
)

func TestSetupLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		level string
		trace bool
		want  slog.Level
	}{
		{"info", false, slog.LevelInfo},
		{"DEBUG", false, slog.LevelDebug},
		{"warn", false, slog.LevelWarn},
		{"error", true, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			require.NoError(t, setupLogging(tt.level, tt.trace))
			assert.True(t, slog.Default().Enabled(context.Background(), tt.want))
			assert.False(t, slog.Default().Enabled(context.Background(), tt.want-1))
		})
	}

	assert.Error(t, setupLogging("loud", false))
}

func TestPrepareSnapshotDir(t *testing.T) {
	dir := t.TempDir() + "/nested/snapshots"
	got, err := prepareSnapshotDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)
}

func TestWriteSnapshot(t *testing.T) {
	s := &debug.Snapshot{
		Memory: &debug.MemorySnapshot{StartAddr: 0xC000, Bytes: []uint8{0xAF, 0x3C, 0x76}},
		Audio:  &debug.AudioData{APUEnabled: true},
	}
	s.CPU.Registers = cpu.Registers{A: 0x01, F: 0xB0, SP: 0xFFFE, PC: 0xC001}
	s.CPU.State = cpu.StateNormal

	var buf bytes.Buffer
	writeSnapshot(&buf, 42, s)
	out := buf.String()

	assert.Contains(t, out, "# Frame: 42")
	assert.Contains(t, out, "A=01 F=B0")
	assert.Contains(t, out, "SP=FFFE PC=C001 flags=Z-HC state=Normal IME=false")
	assert.Contains(t, out, " 0xC000: XOR A")
	assert.Contains(t, out, ">0xC001: INC A")
	assert.Contains(t, out, " 0xC002: HALT")
}
