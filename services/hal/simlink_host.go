//go:build !(rp2040 || rp2350)

package hal

import (
	"context"
	"sync"
	"time"

	"calcbridge-go/errcode"
)

// Ensure the simulated links satisfy the contracts at compile time.
var (
	_ RxLink   = (*SimLink)(nil)
	_ TxLink   = (*SimLink)(nil)
	_ FramedTx = (*SimFramedLink)(nil)
)

// SimLink is a host-side bus endpoint with a one-byte receive register and a
// transmit register that hands each byte to a sink. Both interrupt sources
// are software Lines; the receive line is always enabled.
type SimLink struct {
	name string

	mu      sync.Mutex
	rx      byte
	rxFull  bool
	overrun bool
	lost    uint32 // bytes lost to overrun

	sink      func(byte)  // WriteTx target; nil captures into out
	peerReady func() bool // transmit flow control; nil = always ready
	onDrain   func()      // called after ReadRx frees the register
	out       []byte

	drained chan struct{} // coalesced: receive register freed
	wrote   chan struct{} // coalesced: captured output grew

	rxLine *Line
	txLine *Line
}

func NewSimLink(name string) *SimLink {
	l := &SimLink{
		name:    name,
		drained: make(chan struct{}, 1),
		wrote:   make(chan struct{}, 1),
	}
	l.rxLine = NewLine(name+"-rx", l.RxReady)
	l.txLine = NewLine(name+"-tx", l.TxReady)
	return l
}

func (l *SimLink) Name() string { return l.name }

// HandleRx installs the receive handler and unmasks the receive interrupt.
func (l *SimLink) HandleRx(h func()) {
	l.rxLine.Handle(h)
	l.rxLine.Enable()
}

// HandleTx installs the transmit handler; the interrupt stays masked until
// SetTxInterrupt(true).
func (l *SimLink) HandleTx(h func()) { l.txLine.Handle(h) }

// Connect makes WriteTx deliver into peer's receive register, with transmit
// readiness following the peer's register being free.
func (l *SimLink) Connect(peer *SimLink) {
	l.mu.Lock()
	l.sink = peer.Deliver
	l.peerReady = peer.RxFree
	l.mu.Unlock()
	peer.OnDrain(l.txLine.Pend)
}

// OnDrain registers f to run each time the receive register is read.
func (l *SimLink) OnDrain(f func()) {
	l.mu.Lock()
	l.onDrain = f
	l.mu.Unlock()
}

// Run dispatches both interrupt lines until ctx is cancelled.
func (l *SimLink) Run(ctx context.Context) {
	go l.rxLine.Run(ctx)
	l.txLine.Run(ctx)
}

// ---- wire side ----

// Deliver places b in the receive register. If the previous byte was not
// read yet, b is lost and the overrun flag is raised.
func (l *SimLink) Deliver(b byte) {
	l.mu.Lock()
	if l.rxFull {
		l.overrun = true
		l.lost++
	} else {
		l.rx = b
		l.rxFull = true
	}
	l.mu.Unlock()
	l.rxLine.Pend()
}

// RxFree reports the receive register can take another byte.
func (l *SimLink) RxFree() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.rxFull
}

// Send delivers p one byte at a time, waiting for the receive register to be
// read before each byte, as a paced sender would.
func (l *SimLink) Send(ctx context.Context, p []byte) error {
	for _, b := range p {
		for !l.RxFree() {
			select {
			case <-ctx.Done():
				return &errcode.E{C: errcode.Timeout, Op: "send", Msg: l.name, Err: ctx.Err()}
			case <-l.drained:
			case <-time.After(time.Millisecond):
			}
		}
		l.Deliver(b)
	}
	return nil
}

// ---- RxLink ----

func (l *SimLink) RxReady() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rxFull
}

func (l *SimLink) ReadRx() byte {
	l.mu.Lock()
	b := l.rx
	l.rxFull = false
	drain := l.onDrain
	l.mu.Unlock()
	select {
	case l.drained <- struct{}{}:
	default:
	}
	if drain != nil {
		drain()
	}
	return b
}

func (l *SimLink) Overrun() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overrun
}

func (l *SimLink) ClearOverrun() {
	l.mu.Lock()
	l.overrun = false
	l.mu.Unlock()
}

// Lost returns how many bytes were dropped by receive overruns.
func (l *SimLink) Lost() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lost
}

// ---- TxLink ----

func (l *SimLink) TxReady() bool {
	l.mu.Lock()
	ready := l.peerReady
	l.mu.Unlock()
	return ready == nil || ready()
}

func (l *SimLink) WriteTx(b byte) {
	l.mu.Lock()
	sink := l.sink
	if sink == nil {
		l.out = append(l.out, b)
	}
	l.mu.Unlock()
	if sink != nil {
		sink(b)
		return
	}
	select {
	case l.wrote <- struct{}{}:
	default:
	}
}

func (l *SimLink) SetTxInterrupt(on bool) { l.txLine.Set(on) }

// TxInterruptEnabled reports the state of the transmit trigger.
func (l *SimLink) TxInterruptEnabled() bool { return l.txLine.Enabled() }

// TxFires is the number of times the transmit handler ran.
func (l *SimLink) TxFires() uint32 { return l.txLine.Fires() }

// Output returns a copy of everything transmitted to the capture buffer.
func (l *SimLink) Output() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.out...)
}

// WaitOutput blocks until at least n bytes were captured or ctx ends.
func (l *SimLink) WaitOutput(ctx context.Context, n int) ([]byte, error) {
	for {
		out := l.Output()
		if len(out) >= n {
			return out, nil
		}
		select {
		case <-ctx.Done():
			return out, &errcode.E{C: errcode.Timeout, Op: "wait_output", Msg: l.name, Err: ctx.Err()}
		case <-l.wrote:
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// SimFramedLink is a SimLink whose transmit side frames every word and stays
// busy for BusyPolls polls after each WriteTx, like an SPI shifter.
type SimFramedLink struct {
	*SimLink

	mu        sync.Mutex
	BusyPolls int
	busyLeft  int
	inFrame   bool
	frames    uint32
}

func NewSimFramedLink(name string, busyPolls int) *SimFramedLink {
	return &SimFramedLink{SimLink: NewSimLink(name), BusyPolls: busyPolls}
}

func (f *SimFramedLink) WriteTx(b byte) {
	f.mu.Lock()
	f.inFrame = true
	f.busyLeft = f.BusyPolls
	f.mu.Unlock()
	f.SimLink.WriteTx(b)
}

func (f *SimFramedLink) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyLeft > 0 {
		f.busyLeft--
		return true
	}
	return false
}

func (f *SimFramedLink) EndFrame() {
	f.mu.Lock()
	if f.inFrame {
		f.inFrame = false
		f.frames++
	}
	f.mu.Unlock()
}

// Frames returns how many frames were closed with EndFrame.
func (f *SimFramedLink) Frames() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// InFrame reports a word was written but its frame not yet ended.
func (f *SimFramedLink) InFrame() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFrame
}
