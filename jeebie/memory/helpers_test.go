package memory

import (
	"errors"
	"testing"
)

// buildROM returns a valid image of 2<<romCode banks; every byte outside the
// header holds its bank number.
func buildROM(cartType CartridgeType, romCode, ramCode uint8) []byte {
	banks := 2 << romCode
	rom := make([]byte, banks*romBankSize)
	for i := range rom {
		rom[i] = uint8(i / romBankSize)
	}
	copy(rom[titleAddress:], "TESTROM")
	for i := titleAddress + len("TESTROM"); i < titleAddress+titleLength; i++ {
		rom[i] = 0
	}
	rom[cgbFlagAddress] = 0
	rom[sgbFlagAddress] = 0
	rom[cartridgeTypeAddress] = uint8(cartType)
	rom[romSizeAddress] = romCode
	rom[ramSizeAddress] = ramCode
	rom[headerChecksumAddress] = headerChecksum(rom)
	return rom
}

func mustCartridge(t *testing.T, data []byte) *Cartridge {
	t.Helper()
	cart, err := NewCartridgeWithData(data)
	if err != nil {
		t.Fatalf("NewCartridgeWithData: %v", err)
	}
	return cart
}

// recoverError runs f and returns the error it panicked with, if any.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New("non-error panic")
		}
	}()
	f()
	return nil
}
