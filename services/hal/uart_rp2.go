//go:build rp2040 || rp2350

package hal

import (
	"context"
	"device/rp"
	"machine"
	"sync/atomic"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"calcbridge-go/errcode"
	"calcbridge-go/services/hal/setups"
)

var (
	_ RxLink = (*UARTLink)(nil)
	_ TxLink = (*UARTLink)(nil)
)

// UARTLink adapts an interrupt-driven uartx port to the link contracts.
// uartx owns the PL011 vector, so the link exposes its own one-byte receive
// register filled by a pump goroutine, and both interrupt sources are Lines.
type UARTLink struct {
	name string
	u    *uartx.UART
	regs *rp.UART0_Type

	rx     atomic.Uint32 // bit 8 set while a byte is held
	freed  chan struct{}
	txBuf  [1]byte
	errors atomic.Uint32

	rxLine *Line
	txLine *Line
}

const rxFull = 1 << 8

func newUARTLink(p setups.UARTPlan) (*UARTLink, error) {
	var hw *uartx.UART
	switch p.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "uart", Msg: p.ID}
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: p.Baud,
		TX:       machine.Pin(p.TX),
		RX:       machine.Pin(p.RX),
	}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "uart", Msg: p.ID, Err: err}
	}
	l := &UARTLink{name: p.ID, u: hw, regs: hw.Bus, freed: make(chan struct{}, 1)}
	l.rxLine = NewLine(p.ID+"-rx", l.RxReady)
	l.txLine = NewLine(p.ID+"-tx", nil)
	return l, nil
}

func (l *UARTLink) HandleRx(h func()) {
	l.rxLine.Handle(h)
	l.rxLine.Enable()
}

func (l *UARTLink) HandleTx(h func()) { l.txLine.Handle(h) }

// Run pumps received bytes into the register and dispatches both lines.
func (l *UARTLink) Run(ctx context.Context) {
	go l.rxLine.Run(ctx)
	go l.txLine.Run(ctx)
	l.pump(ctx)
}

func (l *UARTLink) pump(ctx context.Context) {
	var buf [1]byte
	for {
		n, err := l.u.RecvSomeContext(ctx, buf[:])
		if ctx.Err() != nil {
			return
		}
		if err != nil || n == 0 {
			continue
		}
		for l.RxReady() {
			select {
			case <-ctx.Done():
				return
			case <-l.freed:
			}
		}
		l.rx.Store(rxFull | uint32(buf[0]))
		l.rxLine.Pend()
	}
}

func (l *UARTLink) RxReady() bool { return l.rx.Load()&rxFull != 0 }

func (l *UARTLink) ReadRx() byte {
	b := byte(l.rx.Swap(0))
	select {
	case l.freed <- struct{}{}:
	default:
	}
	return b
}

// Overrun reports the PL011 receive FIFO overflowed. uartx clears sticky
// errors from its own handler, so this only sees an overrun raised since
// its last drain.
func (l *UARTLink) Overrun() bool { return l.regs.UARTRSR.HasBits(rp.UART0_UARTRSR_OE) }

// ClearOverrun writes the error-clear register; any value clears all flags.
func (l *UARTLink) ClearOverrun() { l.regs.UARTRSR.Set(0) }

// TxReady is always true: uartx queues into its own transmit ring.
func (l *UARTLink) TxReady() bool { return true }

func (l *UARTLink) WriteTx(b byte) {
	l.txBuf[0] = b
	if _, err := l.u.Write(l.txBuf[:]); err != nil {
		l.errors.Add(1)
	}
}

func (l *UARTLink) SetTxInterrupt(on bool) { l.txLine.Set(on) }

func (l *UARTLink) Errors() uint32 { return l.errors.Load() }
