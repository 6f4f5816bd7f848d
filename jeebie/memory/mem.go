package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/audio"
	"github.com/valerio/jeebie-core/jeebie/serial"
)

type memRegion uint8

const (
	regionUnmapped memRegion = iota
	regionROM
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnusable
	regionIO
	regionHRAM
	regionIE
)

// unmappedValue is what reads from the unusable gap return.
const unmappedValue = 0xFF

type regionSpan struct {
	low, high uint16
	region    memRegion
}

// regionTable partitions the 16-bit address space, sorted by address.
var regionTable = [...]regionSpan{
	{addr.ROMBank0Start, addr.ROMEnd, regionROM},
	{addr.VRAMStart, addr.VRAMEnd, regionVRAM},
	{addr.ExtRAMStart, addr.ExtRAMEnd, regionExtRAM},
	{addr.WRAMStart, addr.WRAMEnd, regionWRAM},
	{addr.EchoStart, addr.EchoEnd, regionEcho},
	{addr.OAMStart, addr.OAMEnd, regionOAM},
	{addr.UnusableStart, addr.UnusableEnd, regionUnusable},
	{addr.IOStart, addr.IOEnd, regionIO},
	{addr.HRAMStart, addr.HRAMEnd, regionHRAM},
	{addr.IE, addr.IE, regionIE},
}

// regionMap is regionTable expanded to one entry per address.
var regionMap = buildRegionMap(regionTable[:])

func buildRegionMap(spans []regionSpan) *[0x10000]memRegion {
	var m [0x10000]memRegion
	for _, s := range spans {
		for a := uint32(s.low); a <= uint32(s.high); a++ {
			m[a] = s.region
		}
	}
	return &m
}

// power-on values of the I/O registers the MMU stores itself
var ioPowerOn = map[uint16]byte{
	addr.IF:   0xE1,
	addr.LCDC: 0x91,
	addr.STAT: 0x85,
	addr.DMA:  0xFF,
	addr.BGP:  0xFC,
	addr.OBP0: 0xFF,
	addr.OBP1: 0xFF,
}

// MMU allows access to all memory mapped I/O and data/registers
type MMU struct {
	cart *Cartridge
	mbc  MBC
	save *SaveFile

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	io   [0x80]byte
	hram [0x7F]byte
	ie   byte

	apu    *audio.APU
	timer  timer
	serial *serial.Port
	joypad joypad
}

type config struct {
	savePath   string
	apuOpts    []audio.Option
	serialSink serial.Sink
}

// Option configures an MMU.
type Option func(*config)

// WithSaveFile persists battery-backed cartridge RAM to path.
func WithSaveFile(path string) Option {
	return func(c *config) { c.savePath = path }
}

// WithAPUOptions passes options through to the audio unit.
func WithAPUOptions(opts ...audio.Option) Option {
	return func(c *config) { c.apuOpts = append(c.apuOpts, opts...) }
}

// WithSerialSink forwards bytes sent over the link port to sink.
func WithSerialSink(sink serial.Sink) Option {
	return func(c *config) { c.serialSink = sink }
}

// New creates a new memory unit with nothing in the cartridge slot.
// Cartridge reads return 0xFF.
func New(opts ...Option) *MMU {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newMMU(cfg)
}

func newMMU(cfg *config) *MMU {
	m := &MMU{
		apu: audio.New(cfg.apuOpts...),
	}
	m.timer.irq = func() { m.RequestInterrupt(addr.TimerInterrupt) }

	var serialOpts []serial.Option
	if cfg.serialSink != nil {
		serialOpts = append(serialOpts, serial.WithSink(cfg.serialSink))
	}
	m.serial = serial.NewPort(func() { m.RequestInterrupt(addr.SerialInterrupt) }, serialOpts...)

	m.Reset()
	return m
}

// NewWithCartridge creates a new memory unit with the cartridge inserted.
// Battery-backed RAM is mapped from the save file when one is configured.
func NewWithCartridge(cart *Cartridge, opts ...Option) (*MMU, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	ram := make([]byte, cart.RAMSize())
	var save *SaveFile
	if cart.HasBattery() && cfg.savePath != "" {
		var err error
		save, err = OpenSaveFile(cfg.savePath, cart.RAMSize())
		if err != nil {
			return nil, err
		}
		ram = save.Bytes()
	}

	mbc, err := newMBC(cart, ram)
	if err != nil {
		if save != nil {
			save.Close()
		}
		return nil, fmt.Errorf("%w: %s", err, cart.cartType)
	}

	m := newMMU(cfg)
	m.cart = cart
	m.mbc = mbc
	m.save = save

	slog.Info("Cartridge loaded", "title", cart.title, "type", cart.cartType,
		"rom_banks", cart.romBanks, "ram", cart.ramSize, "battery", save != nil)
	return m, nil
}

// Reset restores the power-on state of every store and register without
// reallocating. Battery-backed RAM keeps its contents.
func (m *MMU) Reset() {
	clear(m.vram[:])
	clear(m.wram[:])
	clear(m.oam[:])
	clear(m.io[:])
	clear(m.hram[:])
	m.ie = 0
	for address, value := range ioPowerOn {
		m.io[address-addr.IOStart] = value
	}

	m.timer.reset()
	m.serial.Reset()
	m.joypad.reset()
	m.apu.Reset()
	if m.mbc != nil {
		m.mbc.Reset()
	}
}

// Close releases the battery save file, if any.
func (m *MMU) Close() error {
	if m.save == nil {
		return nil
	}
	return m.save.Close()
}

// APU returns the audio unit wired to FF10-FF3F.
func (m *MMU) APU() *audio.APU {
	return m.apu
}

// Cartridge returns the inserted cartridge, nil when the slot is empty.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// MBC returns the cartridge's bank controller, nil when the slot is empty.
func (m *MMU) MBC() MBC {
	return m.mbc
}

// Tick advances the timer and the link port.
func (m *MMU) Tick(cycles int) {
	m.timer.tick(cycles)
	m.serial.Tick(cycles)
}

// RequestInterrupt sets the interrupt's bit in IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.io[addr.IF-addr.IOStart] |= uint8(interrupt)
}

// InterruptFlags returns the requested interrupts (IF, low 5 bits).
func (m *MMU) InterruptFlags() uint8 {
	return m.io[addr.IF-addr.IOStart] & 0x1F
}

// InterruptEnable returns the IE register.
func (m *MMU) InterruptEnable() uint8 {
	return m.ie
}

// HandleKeyPress presses a button, requesting the joypad interrupt if it was
// released. It returns whether the press was a transition.
func (m *MMU) HandleKeyPress(b addr.Button) bool {
	if !m.joypad.press(b) {
		return false
	}
	m.RequestInterrupt(addr.JoypadInterrupt)
	return true
}

// HandleKeyRelease releases a button.
func (m *MMU) HandleKeyRelease(b addr.Button) {
	m.joypad.release(b)
}

func (m *MMU) Read(address uint16) byte {
	switch regionMap[address] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			return unmappedValue
		}
		return m.mbc.Read(address)
	case regionVRAM:
		return m.vram[address-addr.VRAMStart]
	case regionWRAM:
		return m.wram[address-addr.WRAMStart]
	case regionEcho:
		return m.wram[address-addr.EchoStart]
	case regionOAM:
		return m.oam[address-addr.OAMStart]
	case regionUnusable:
		return unmappedValue
	case regionIO:
		return m.readIO(address)
	case regionHRAM:
		return m.hram[address-addr.HRAMStart]
	case regionIE:
		return m.ie
	}
	panic(&UnmappedAccessError{Address: address})
}

func (m *MMU) Write(address uint16, value byte) {
	switch regionMap[address] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Debug("Write to empty cartridge slot", "addr", fmt.Sprintf("0x%04X", address), "value", value)
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM:
		m.vram[address-addr.VRAMStart] = value
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
	case regionEcho:
		m.wram[address-addr.EchoStart] = value
	case regionOAM:
		m.oam[address-addr.OAMStart] = value
	case regionUnusable:
		// writes are dropped
	case regionIO:
		m.writeIO(address, value)
	case regionHRAM:
		m.hram[address-addr.HRAMStart] = value
	case regionIE:
		m.ie = value
	default:
		panic(&UnmappedAccessError{Address: address, Write: true})
	}
}

// ioUnused reports I/O addresses with no register behind them on a DMG.
func ioUnused(address uint16) bool {
	switch {
	case address == 0xFF03, address >= 0xFF08 && address <= 0xFF0E:
		return true
	case address >= 0xFF4C:
		return true
	}
	return false
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.read(address)
	case address == addr.IF:
		return m.io[address-addr.IOStart] | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.apu.GetMem(address)
	case ioUnused(address):
		return unmappedValue
	}
	return m.io[address-addr.IOStart]
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.joypad.write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.write(address, value)
	case address == addr.IF:
		m.io[address-addr.IOStart] = value & 0x1F
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.apu.SetMem(address, value)
	case address == addr.LY:
		m.io[address-addr.IOStart] = 0
	case address == addr.DMA:
		m.io[address-addr.IOStart] = value
		m.dma(value)
	case ioUnused(address):
		// nothing behind these
	default:
		m.io[address-addr.IOStart] = value
	}
}

// dma copies 160 bytes from value*0x100 into OAM. The copy is instant.
func (m *MMU) dma(value byte) {
	source := uint16(value) << 8
	if value >= 0xE0 {
		// the DMA unit sees work RAM mirrored above 0xDFFF
		source -= addr.EchoOffset
	}
	for i := range uint16(len(m.oam)) {
		m.oam[i] = m.Read(source + i)
	}
}
