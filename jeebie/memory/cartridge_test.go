package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartridgeWithData(t *testing.T) {
	tests := []struct {
		name     string
		cartType CartridgeType
		romCode  uint8
		ramCode  uint8
		banks    int
		ram      int
		battery  bool
	}{
		{"ROM only", ROMOnly, 0x00, 0x00, 2, 0, false},
		{"ROM only ignores RAM code", ROMOnly, 0x00, 0x02, 2, 0, false},
		{"ROM+RAM+BATTERY", ROMRAMBattery, 0x00, 0x02, 2, 0x2000, true},
		{"MBC1", MBC1Type, 0x04, 0x00, 32, 0, false},
		{"MBC1+RAM", MBC1RAM, 0x02, 0x02, 8, 0x2000, false},
		{"MBC1+RAM+BATTERY", MBC1RAMBattery, 0x01, 0x03, 4, 0x8000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := NewCartridgeWithData(buildROM(tt.cartType, tt.romCode, tt.ramCode))
			require.NoError(t, err)
			assert.Equal(t, "TESTROM", cart.Title())
			assert.Equal(t, tt.cartType, cart.Type())
			assert.Equal(t, tt.banks, cart.ROMBankCount())
			assert.Equal(t, tt.ram, cart.RAMSize())
			assert.Equal(t, tt.battery, cart.HasBattery())
		})
	}
}

func TestNewCartridgeWithData_Errors(t *testing.T) {
	truncated := buildROM(MBC1Type, 0x02, 0x00)[:4*romBankSize]

	badRAM := buildROM(MBC1RAM, 0x00, 0x00)
	badRAM[ramSizeAddress] = 0x09

	badROMCode := buildROM(ROMOnly, 0x00, 0x00)
	badROMCode[romSizeAddress] = 0x52

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"shorter than header", make([]byte, 0x100), ErrMalformedHeader},
		{"image shorter than declared", truncated, ErrMalformedHeader},
		{"unknown RAM size code", badRAM, ErrMalformedHeader},
		{"unknown ROM size code", badROMCode, ErrMalformedHeader},
		{"unknown type byte", buildROM(CartridgeType(0x04), 0x00, 0x00), ErrUnknownCartridgeType},
		{"unknown type byte 0x42", buildROM(CartridgeType(0x42), 0x00, 0x00), ErrUnknownCartridgeType},
		{"MBC2 unsupported", buildROM(MBC2Type, 0x00, 0x00), ErrUnsupportedCartridge},
		{"MBC3 unsupported", buildROM(MBC3RAMBattery, 0x00, 0x00), ErrUnsupportedCartridge},
		{"MBC5 unsupported", buildROM(MBC5Type, 0x00, 0x00), ErrUnsupportedCartridge},
		{"HuC1 unsupported", buildROM(HuC1RAMBattery, 0x00, 0x00), ErrUnsupportedCartridge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := NewCartridgeWithData(tt.data)
			assert.Nil(t, cart)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewCartridgeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.gb")
	require.NoError(t, os.WriteFile(path, buildROM(ROMOnly, 0x00, 0x00), 0o644))

	cart, err := NewCartridgeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ROMOnly, cart.Type())

	_, err = NewCartridgeFromFile(filepath.Join(t.TempDir(), "missing.gb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCartridgeTypeString(t *testing.T) {
	assert.Equal(t, "MBC1+RAM+BATTERY", MBC1RAMBattery.String())
	assert.Equal(t, "UNKNOWN(0x42)", CartridgeType(0x42).String())
	assert.True(t, PocketCamera.Known())
	assert.False(t, CartridgeType(0x04).Known())
}

func TestCleanGameboyTitle(t *testing.T) {
	assert.Equal(t, "TETRIS", cleanGameboyTitle([]byte("TETRIS\x00\x00\x00\x00")))
	assert.Equal(t, "A?B", cleanGameboyTitle([]byte{'A', 0x80, 'B'}))
	assert.Equal(t, "(Untitled)", cleanGameboyTitle(make([]byte, 15)))
}
