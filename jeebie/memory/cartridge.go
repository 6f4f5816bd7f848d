package memory

import (
	"fmt"
	"log/slog"
	"os"
)

const titleLength = 15

const (
	titleAddress          = 0x134
	cgbFlagAddress        = 0x143
	sgbFlagAddress        = 0x146
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
	headerEnd             = 0x150
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// CartridgeType is the controller byte at 0x147 of the cartridge header.
type CartridgeType uint8

const (
	ROMOnly                    CartridgeType = 0x00
	MBC1Type                   CartridgeType = 0x01
	MBC1RAM                    CartridgeType = 0x02
	MBC1RAMBattery             CartridgeType = 0x03
	MBC2Type                   CartridgeType = 0x05
	MBC2Battery                CartridgeType = 0x06
	ROMRAM                     CartridgeType = 0x08
	ROMRAMBattery              CartridgeType = 0x09
	MMM01                      CartridgeType = 0x0B
	MMM01RAM                   CartridgeType = 0x0C
	MMM01RAMBattery            CartridgeType = 0x0D
	MBC3TimerBattery           CartridgeType = 0x0F
	MBC3TimerRAMBattery        CartridgeType = 0x10
	MBC3Type                   CartridgeType = 0x11
	MBC3RAM                    CartridgeType = 0x12
	MBC3RAMBattery             CartridgeType = 0x13
	MBC5Type                   CartridgeType = 0x19
	MBC5RAM                    CartridgeType = 0x1A
	MBC5RAMBattery             CartridgeType = 0x1B
	MBC5Rumble                 CartridgeType = 0x1C
	MBC5RumbleRAM              CartridgeType = 0x1D
	MBC5RumbleRAMBattery       CartridgeType = 0x1E
	MBC6Type                   CartridgeType = 0x20
	MBC7SensorRumbleRAMBattery CartridgeType = 0x22
	PocketCamera               CartridgeType = 0xFC
	BandaiTAMA5                CartridgeType = 0xFD
	HuC3                       CartridgeType = 0xFE
	HuC1RAMBattery             CartridgeType = 0xFF
)

var cartridgeTypeNames = map[CartridgeType]string{
	ROMOnly:                    "ROM ONLY",
	MBC1Type:                   "MBC1",
	MBC1RAM:                    "MBC1+RAM",
	MBC1RAMBattery:             "MBC1+RAM+BATTERY",
	MBC2Type:                   "MBC2",
	MBC2Battery:                "MBC2+BATTERY",
	ROMRAM:                     "ROM+RAM",
	ROMRAMBattery:              "ROM+RAM+BATTERY",
	MMM01:                      "MMM01",
	MMM01RAM:                   "MMM01+RAM",
	MMM01RAMBattery:            "MMM01+RAM+BATTERY",
	MBC3TimerBattery:           "MBC3+TIMER+BATTERY",
	MBC3TimerRAMBattery:        "MBC3+TIMER+RAM+BATTERY",
	MBC3Type:                   "MBC3",
	MBC3RAM:                    "MBC3+RAM",
	MBC3RAMBattery:             "MBC3+RAM+BATTERY",
	MBC5Type:                   "MBC5",
	MBC5RAM:                    "MBC5+RAM",
	MBC5RAMBattery:             "MBC5+RAM+BATTERY",
	MBC5Rumble:                 "MBC5+RUMBLE",
	MBC5RumbleRAM:              "MBC5+RUMBLE+RAM",
	MBC5RumbleRAMBattery:       "MBC5+RUMBLE+RAM+BATTERY",
	MBC6Type:                   "MBC6",
	MBC7SensorRumbleRAMBattery: "MBC7+SENSOR+RUMBLE+RAM+BATTERY",
	PocketCamera:               "POCKET CAMERA",
	BandaiTAMA5:                "BANDAI TAMA5",
	HuC3:                       "HuC3",
	HuC1RAMBattery:             "HuC1+RAM+BATTERY",
}

func (t CartridgeType) String() string {
	if name, ok := cartridgeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
}

// Known reports whether the byte is a documented controller type.
func (t CartridgeType) Known() bool {
	_, ok := cartridgeTypeNames[t]
	return ok
}

// hasBattery lists the supported types that keep their RAM across power cycles.
func (t CartridgeType) hasBattery() bool {
	return t == MBC1RAMBattery || t == ROMRAMBattery
}

// ramSizes maps the RAM size header code to a size in bytes.
// Code 0x01 is unofficial, a handful of homebrew use it for 2KB.
var ramSizes = map[uint8]int{
	0x00: 0,
	0x01: 0x800,
	0x02: 0x2000,
	0x03: 0x8000,
	0x04: 0x20000,
	0x05: 0x10000,
}

// Cartridge holds a validated ROM image and its decoded header.
type Cartridge struct {
	data           []byte
	title          string
	cartType       CartridgeType
	romBanks       int
	ramSize        int
	version        uint8
	headerChecksum uint8
	cgb            bool
	sgb            bool
}

// NewCartridgeFromFile reads a ROM image from disk.
func NewCartridgeFromFile(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM %s: %w", path, err)
	}
	return NewCartridgeWithData(data)
}

// NewCartridgeWithData decodes and validates the header of a ROM image.
// Types outside the closed set of known controllers, and known controllers
// other than ROM-only and MBC1, are rejected.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("%w: image is %d bytes, shorter than the header", ErrMalformedHeader, len(data))
	}

	cartType := CartridgeType(data[cartridgeTypeAddress])
	if !cartType.Known() {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownCartridgeType, uint8(cartType))
	}
	if !supportedType(cartType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCartridge, cartType)
	}

	romCode := data[romSizeAddress]
	if romCode > 0x08 {
		return nil, fmt.Errorf("%w: ROM size code 0x%02X", ErrMalformedHeader, romCode)
	}
	romBanks := 2 << romCode
	if len(data) < romBanks*romBankSize {
		return nil, fmt.Errorf("%w: header declares %d banks, image holds %d bytes",
			ErrMalformedHeader, romBanks, len(data))
	}

	ramSize, ok := ramSizes[data[ramSizeAddress]]
	if !ok {
		return nil, fmt.Errorf("%w: RAM size code 0x%02X", ErrMalformedHeader, data[ramSizeAddress])
	}
	if cartType == ROMOnly || cartType == MBC1Type {
		ramSize = 0
	}

	cart := &Cartridge{
		data:           make([]byte, romBanks*romBankSize),
		title:          cleanGameboyTitle(data[titleAddress : titleAddress+titleLength]),
		cartType:       cartType,
		romBanks:       romBanks,
		ramSize:        ramSize,
		version:        data[versionNumberAddress],
		headerChecksum: data[headerChecksumAddress],
		cgb:            data[cgbFlagAddress]&0x80 != 0,
		sgb:            data[sgbFlagAddress] == 0x03,
	}
	copy(cart.data, data)

	if sum := headerChecksum(data); sum != cart.headerChecksum {
		slog.Warn("Cartridge header checksum mismatch",
			"title", cart.title, "expected", cart.headerChecksum, "computed", sum)
	}

	return cart, nil
}

func supportedType(t CartridgeType) bool {
	switch t {
	case ROMOnly, ROMRAM, ROMRAMBattery, MBC1Type, MBC1RAM, MBC1RAMBattery:
		return true
	}
	return false
}

// headerChecksum computes the checksum the boot ROM verifies over 0x134-0x14C.
func headerChecksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data[titleAddress:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum
}

// Title returns the cleaned-up game title.
func (c *Cartridge) Title() string { return c.title }

// Type returns the cartridge controller type.
func (c *Cartridge) Type() CartridgeType { return c.cartType }

// ROMBankCount returns the number of 16KB ROM banks.
func (c *Cartridge) ROMBankCount() int { return c.romBanks }

// RAMSize returns the external RAM size in bytes.
func (c *Cartridge) RAMSize() int { return c.ramSize }

// HasRAM reports whether the cartridge carries external RAM.
func (c *Cartridge) HasRAM() bool { return c.ramSize > 0 }

// HasBattery reports whether external RAM should be persisted.
func (c *Cartridge) HasBattery() bool { return c.cartType.hasBattery() && c.ramSize > 0 }

// Version returns the mask ROM version number.
func (c *Cartridge) Version() uint8 { return c.version }

// CGBFlag reports whether the cartridge advertises Game Boy Color features.
func (c *Cartridge) CGBFlag() bool { return c.cgb }

// SGBFlag reports whether the cartridge advertises Super Game Boy features.
func (c *Cartridge) SGBFlag() bool { return c.sgb }
