package serial

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
)

// transferCycles is the duration of an 8-bit transfer on the internal clock
// (8192 Hz bit clock, 512 CPU cycles per bit).
const transferCycles = 8 * 512

// Sink receives every byte shifted out on the link port.
type Sink interface {
	Send(b byte)
}

// Port models SB/SC with nothing connected on the other end: incoming bits
// are all 1s and only internally clocked transfers complete.
type Port struct {
	irqHandler     func()
	sink           Sink
	sb, sc         byte
	transferActive bool
	countdown      int
	immediate      bool
}

type Option func(*Port)

// WithSink forwards outgoing bytes to s.
func WithSink(s Sink) Option { return func(p *Port) { p.sink = s } }

// WithImmediateTransfers completes transfers as soon as they start instead of
// after the 4096 cycles real hardware takes.
func WithImmediateTransfers() Option { return func(p *Port) { p.immediate = true } }

// NewPort creates a link port. irq is called when a transfer completes and
// should request the Serial interrupt.
func NewPort(irq func(), opts ...Option) *Port {
	p := &Port{irqHandler: irq}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

func (p *Port) Reset() {
	p.sb = 0x00
	p.sc = 0x7E
	p.transferActive = false
	p.countdown = 0
}

func (p *Port) Read(address uint16) byte {
	if address == addr.SB {
		return p.sb
	}
	// unused SC bits read as 1
	return p.sc | 0x7E
}

func (p *Port) Write(address uint16, value byte) {
	if address == addr.SB {
		p.sb = value
		return
	}
	p.sc = value
	p.maybeStartTransfer()
}

func (p *Port) Tick(cycles int) {
	if !p.transferActive {
		return
	}
	p.countdown -= cycles
	if p.countdown <= 0 {
		p.completeTransfer()
	}
}

func (p *Port) maybeStartTransfer() {
	// bit 7 requests a transfer, bit 0 selects the internal clock
	if p.transferActive || !bit.IsSet(7, p.sc) || !bit.IsSet(0, p.sc) {
		return
	}

	if p.sink != nil {
		p.sink.Send(p.sb)
	}

	p.transferActive = true
	p.countdown = transferCycles
	if p.immediate {
		p.completeTransfer()
	}
}

func (p *Port) completeTransfer() {
	p.sb = 0xFF
	p.sc = bit.Reset(7, p.sc)
	p.transferActive = false
	p.countdown = 0
	if p.irqHandler != nil {
		p.irqHandler()
	}
}
