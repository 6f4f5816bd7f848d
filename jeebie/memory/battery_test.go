package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePathFor(t *testing.T) {
	assert.Equal(t, "/roms/zelda.sav", SavePathFor("/roms/zelda.gb"))
	assert.Equal(t, "game.sav", SavePathFor("game"))
}

func TestOpenSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")

	save, err := OpenSaveFile(path, 0x2000)
	require.NoError(t, err)
	require.Len(t, save.Bytes(), 0x2000)
	save.Bytes()[0x10] = 0xAB
	require.NoError(t, save.Close())
	require.NoError(t, save.Close(), "closing twice is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 0x2000)
	assert.Equal(t, byte(0xAB), data[0x10])

	reopened, err := OpenSaveFile(path, 0x2000)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, byte(0xAB), reopened.Bytes()[0x10])
}

func TestOpenSaveFile_InvalidSize(t *testing.T) {
	_, err := OpenSaveFile(filepath.Join(t.TempDir(), "x.sav"), 0)
	assert.Error(t, err)
}

func TestBatteryBackedCartridge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")
	cart := mustCartridge(t, buildROM(MBC1RAMBattery, 0x01, 0x02))

	mmu, err := NewWithCartridge(cart, WithSaveFile(path))
	require.NoError(t, err)
	mmu.Write(0x0000, 0x0A)
	mmu.Write(0xA123, 0x5C)
	require.NoError(t, mmu.Close())

	mmu, err = NewWithCartridge(cart, WithSaveFile(path))
	require.NoError(t, err)
	defer mmu.Close()
	mmu.Write(0x0000, 0x0A)
	assert.Equal(t, byte(0x5C), mmu.Read(0xA123))
}
