// Package bridge relays bytes from one bus to another through a bounded
// queue, with a receive-interrupt producer and a transmit-interrupt consumer.
//
// The transmit interrupt is the back-pressure valve: it is enabled when the
// queue goes from empty to non-empty and disabled when a drain empties it,
// so the consumer only fires while there is something to send.
package bridge

import (
	"sync/atomic"

	"calcbridge-go/services/hal"
	"calcbridge-go/x/critical"
	"calcbridge-go/x/mathx"
	"calcbridge-go/x/spsc"
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

const (
	DefaultSpinLimit = 4096
	MaxSpinLimit     = 1 << 20

	// maxBurst bounds the bytes a processor may produce for one input byte.
	maxBurst = spsc.Capacity
)

// Config tunes a Bridge. The zero value is usable.
type Config struct {
	// SpinLimit bounds the busy-wait for a framed transmit link to go idle,
	// counted in Busy polls. On an RP2040 at 125 MHz one poll is roughly
	// 10 cycles, so the default bounds the wait at about 40k cycles (~330 µs),
	// well above one 8-bit word at any SPI clock >= 1 MHz.
	SpinLimit int
}

func (c Config) normalised() Config {
	if c.SpinLimit <= 0 {
		c.SpinLimit = DefaultSpinLimit
	}
	c.SpinLimit = mathx.Clamp(c.SpinLimit, 1, MaxSpinLimit)
	return c
}

// -----------------------------------------------------------------------------
// Processing hook
// -----------------------------------------------------------------------------

// Processor turns one received byte into the bytes to forward, appended to
// dst. It runs in the receive context only.
type Processor interface {
	Process(dst []byte, c byte) []byte
}

// Relay forwards every byte unchanged.
type Relay struct{}

func (Relay) Process(dst []byte, c byte) []byte { return append(dst, c) }

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(dst []byte, c byte) []byte

func (f ProcessorFunc) Process(dst []byte, c byte) []byte { return f(dst, c) }

// -----------------------------------------------------------------------------
// Bridge
// -----------------------------------------------------------------------------

// Bridge owns one queue and the handles of the two buses it joins.
// OnReceive must only be called from the receive interrupt and OnTransmit
// only from the transmit interrupt.
type Bridge struct {
	q    spsc.Queue
	rx   hal.RxLink
	tx   hal.TxLink
	fr   hal.FramedTx // tx, when it frames words
	proc Processor
	cfg  Config

	received      atomic.Uint32
	forwarded     atomic.Uint32
	dropped       atomic.Uint32
	overruns      atomic.Uint32
	spurious      atomic.Uint32
	spinTimeouts  atomic.Uint32
	txEnables     atomic.Uint32
	txDisables    atomic.Uint32
	spinHighWater atomic.Uint32
}

// New joins rx to tx. A nil proc relays bytes unchanged.
func New(rx hal.RxLink, tx hal.TxLink, proc Processor, cfg Config) *Bridge {
	if proc == nil {
		proc = Relay{}
	}
	b := &Bridge{rx: rx, tx: tx, proc: proc, cfg: cfg.normalised()}
	if fr, ok := tx.(hal.FramedTx); ok {
		b.fr = fr
	}
	return b
}

// OnReceive is the receive-buffer-not-empty handler.
func (b *Bridge) OnReceive() {
	if b.rx.Overrun() {
		// A byte was already lost in hardware; acknowledge and carry on.
		b.rx.ClearOverrun()
		b.overruns.Add(1)
	}
	if !b.rx.RxReady() {
		return
	}
	c := b.rx.ReadRx()
	b.received.Add(1)

	var buf [maxBurst]byte
	out := b.proc.Process(buf[:0], c)
	if len(out) == 0 {
		return
	}

	s := critical.Enter()
	wasEmpty := b.q.IsEmpty()
	for _, v := range out {
		if !b.q.TryEnqueue(v) {
			b.dropped.Add(1)
		}
	}
	if wasEmpty && !b.q.IsEmpty() {
		b.tx.SetTxInterrupt(true)
		b.txEnables.Add(1)
	}
	critical.Exit(s)
}

// OnTransmit is the transmit-ready handler.
func (b *Bridge) OnTransmit() {
	if !b.tx.TxReady() {
		return
	}

	s := critical.Enter()
	v, ok := b.q.TryDequeue()
	if !ok {
		// Spurious or trailing fire: nothing to send.
		b.tx.SetTxInterrupt(false)
		b.txDisables.Add(1)
		critical.Exit(s)
		b.spurious.Add(1)
		return
	}
	critical.Exit(s)

	b.tx.WriteTx(v)
	b.forwarded.Add(1)
	if b.fr != nil {
		b.waitIdle()
		b.fr.EndFrame()
	}

	s = critical.Enter()
	if b.q.IsEmpty() {
		b.tx.SetTxInterrupt(false)
		b.txDisables.Add(1)
	}
	critical.Exit(s)
}

// waitIdle spins until the framed link finishes the word, at most SpinLimit
// polls. This is the only place a handler busy-waits; it never holds a
// critical section.
func (b *Bridge) waitIdle() {
	n := 0
	for b.fr.Busy() {
		n++
		if n >= b.cfg.SpinLimit {
			b.spinTimeouts.Add(1)
			break
		}
	}
	for {
		hw := b.spinHighWater.Load()
		if uint32(n) <= hw || b.spinHighWater.CompareAndSwap(hw, uint32(n)) {
			return
		}
	}
}

// Pending returns the number of queued bytes.
func (b *Bridge) Pending() int { return b.q.Len() }

// Config returns the normalised configuration in use.
func (b *Bridge) Config() Config { return b.cfg }
