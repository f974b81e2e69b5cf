package hal

import (
	"context"
	"sync/atomic"

	"tinygo.org/x/drivers"
)

// Ensure the link satisfies the framed transmit contract at compile time.
var _ FramedTx = (*SPIDriverLink)(nil)

// SPIDriverLink is a framed transmit link over any tinygo drivers.SPI bus
// master. Each byte is one word inside its own chip-select frame. Transfer
// blocks until the word is clocked out, so Busy is always false once
// WriteTx returns. The transmit interrupt is a software Line.
type SPIDriverLink struct {
	spi   drivers.SPI
	cs    ChipSelect
	line  *Line
	ready atomic.Pointer[func() bool]

	words  atomic.Uint32
	errors atomic.Uint32
	last   atomic.Uint32 // last byte clocked back in (MISO)
}

// NewSPIDriverLink wraps spi. cs may be nil when the bus frames on its own.
func NewSPIDriverLink(spi drivers.SPI, cs ChipSelect) *SPIDriverLink {
	l := &SPIDriverLink{spi: spi, cs: cs}
	l.line = NewLine("spi-tx", l.TxReady)
	if cs != nil {
		cs.High()
	}
	return l
}

// SetReady installs a flow-control condition (e.g. the far end's receive
// register is free). Without one the link is always ready.
func (l *SPIDriverLink) SetReady(f func() bool) { l.ready.Store(&f) }

func (l *SPIDriverLink) TxReady() bool {
	if f := l.ready.Load(); f != nil {
		return (*f)()
	}
	return true
}

func (l *SPIDriverLink) WriteTx(b byte) {
	if l.cs != nil {
		l.cs.Low()
	}
	in, err := l.spi.Transfer(b)
	if err != nil {
		l.errors.Add(1)
		return
	}
	l.last.Store(uint32(in))
	l.words.Add(1)
}

func (l *SPIDriverLink) Busy() bool { return false }

func (l *SPIDriverLink) EndFrame() {
	if l.cs != nil {
		l.cs.High()
	}
}

func (l *SPIDriverLink) SetTxInterrupt(on bool) { l.line.Set(on) }

// TxInterruptEnabled reports the state of the transmit trigger.
func (l *SPIDriverLink) TxInterruptEnabled() bool { return l.line.Enabled() }

// HandleTx installs the transmit-ready handler.
func (l *SPIDriverLink) HandleTx(h func()) { l.line.Handle(h) }

// Pend re-evaluates the transmit condition, e.g. after the far end drained.
func (l *SPIDriverLink) Pend() { l.line.Pend() }

func (l *SPIDriverLink) Run(ctx context.Context) { l.line.Run(ctx) }

// LastIn is the byte clocked back in on the last transfer.
func (l *SPIDriverLink) LastIn() byte { return byte(l.last.Load()) }

// Words and Errors count completed and failed transfers.
func (l *SPIDriverLink) Words() uint32  { return l.words.Load() }
func (l *SPIDriverLink) Errors() uint32 { return l.errors.Load() }
