package memory

import (
	"log/slog"
)

// MBC is the capability set every cartridge controller family implements.
// Addresses are CPU addresses in 0x0000-0x7FFF and 0xA000-0xBFFF.
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	// Reset restores the power-on register state. RAM contents are kept.
	Reset()
}

// newMBC selects the controller for the cartridge. ram backs external RAM;
// it may be a memory-mapped save file.
func newMBC(cart *Cartridge, ram []byte) (MBC, error) {
	switch cart.cartType {
	case ROMOnly, ROMRAM, ROMRAMBattery:
		return NewNoMBC(cart.data, ram), nil
	case MBC1Type, MBC1RAM, MBC1RAMBattery:
		return NewMBC1(cart.data, ram), nil
	}
	return nil, ErrUnsupportedCartridge
}

// NoMBC represents cartridges with no memory banking capabilities.
// The ROM is directly mapped to 0x0000-0x7FFF and cannot be switched.
// ROM+RAM cartridges map up to 8KB of RAM at 0xA000-0xBFFF with no enable gate.
type NoMBC struct {
	rom []uint8
	ram []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(rom, ram []uint8) *NoMBC {
	return &NoMBC{
		rom: rom,
		ram: ram,
	}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return m.rom[addr]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[int(addr-0xA000)%len(m.ram)]
	}
	return 0xFF
}

func (m *NoMBC) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF:
		slog.Debug("Ignored write to ROM-only cartridge", "addr", addr, "value", value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if len(m.ram) == 0 {
			return
		}
		m.ram[int(addr-0xA000)%len(m.ram)] = value
	}
}

func (m *NoMBC) Reset() {}

// MBC1Mode is the MBC1 banking mode selected through 0x6000-0x7FFF.
type MBC1Mode uint8

const (
	// Mode16_8 maps up to 16Mbit of ROM and a single 8KB RAM bank.
	Mode16_8 MBC1Mode = iota
	// Mode4_32 maps 4Mbit of ROM and four 8KB RAM banks.
	Mode4_32
)

func (m MBC1Mode) String() string {
	if m == Mode4_32 {
		return "4/32"
	}
	return "16/8"
}

// MBC1 is the first and most common MBC chip. Features include:
//   - Up to 2MB ROM, bank 0 fixed at 0x0000-0x3FFF
//   - Switchable ROM bank at 0x4000-0x7FFF, selected by a 5-bit register
//     plus 2 upper bits from the secondary register
//   - 8KB of external RAM at 0xA000-0xBFFF, gated by a RAM enable register
//   - Mode select between 16/8 and 4/32 addressing
//
// The 4/32 mode is not implemented: any banked access while it is selected
// panics with ErrNotImplemented.
type MBC1 struct {
	rom        []uint8
	ram        []uint8
	romBanks   int
	bankLow    uint8 // 5 bits, never 0
	bankHigh   uint8 // 2 bits
	ramEnabled bool
	mode       MBC1Mode
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(rom, ram []uint8) *MBC1 {
	m := &MBC1{
		rom:      rom,
		ram:      ram,
		romBanks: max(len(rom)/romBankSize, 1),
	}
	m.Reset()
	return m
}

func (m *MBC1) Reset() {
	m.bankLow = 1
	m.bankHigh = 0
	m.ramEnabled = false
	m.mode = Mode16_8
}

// ActiveBank returns the bank index selected for 0x4000-0x7FFF.
func (m *MBC1) ActiveBank() int {
	return int(m.bankHigh)<<5 | int(m.bankLow)
}

// Mode returns the selected banking mode.
func (m *MBC1) Mode() MBC1Mode {
	return m.mode
}

// RAMEnabled reports whether external RAM is currently accessible.
func (m *MBC1) RAMEnabled() bool {
	return m.ramEnabled
}

// physicalBank wraps the selected bank into the ROM: carts only wire as many
// bank lines as they need, so higher bits are dropped.
func (m *MBC1) physicalBank() int {
	bank := m.ActiveBank()
	if bank >= m.romBanks {
		slog.Debug("MBC1 bank select beyond ROM size", "bank", bank, "banks", m.romBanks)
		bank %= m.romBanks
	}
	return bank
}

func (m *MBC1) checkMode() {
	if m.mode == Mode4_32 {
		panic(notImplemented("MBC1 4/32 banking mode"))
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		m.checkMode()
		return m.rom[addr]
	case addr <= 0x7FFF:
		m.checkMode()
		offset := int(addr-0x4000) + m.physicalBank()*romBankSize
		return m.rom[offset]
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.checkMode()
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[int(addr-0xA000)%min(len(m.ram), ramBankSize)]
	}
	return 0xFF
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		m.bankLow = max(value&0x1F, 1)
	case addr <= 0x5FFF:
		m.checkMode()
		m.bankHigh = value & 0x03
	case addr <= 0x7FFF:
		mode := MBC1Mode(value & 0x01)
		if mode != m.mode {
			slog.Debug("MBC1 banking mode changed", "mode", mode)
		}
		m.mode = mode
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.checkMode()
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		m.ram[int(addr-0xA000)%min(len(m.ram), ramBankSize)] = value
	}
}
