//go:build !(rp2040 || rp2350)

// Package sim wires a controller and a peripheral together on the host:
// a terminal types into the controller's serial link, the controller relays
// over a loopback SPI bus, and the peripheral answers on its serial link.
package sim

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"calcbridge-go/errcode"
	"calcbridge-go/services/bridge"
	"calcbridge-go/services/hal"
	"calcbridge-go/services/node"
	"calcbridge-go/x/logx"
)

type Options struct {
	Bridge bridge.Config
	// SPIIdle is the byte the peripheral clocks back to the controller.
	SPIIdle byte
	Logger  *slog.Logger
}

// System is the two-node rig.
type System struct {
	CtrlSerial   *hal.SimLink // terminal -> controller
	SPIBus       *hal.LoopbackSPI
	ChipSelect   *hal.SimPin
	CtrlSPI      *hal.SPIDriverLink
	PeriphSPI    *hal.SimLink
	PeriphSerial *hal.SimLink // peripheral -> terminal

	Controller *node.Node
	Peripheral *node.Node

	log *slog.Logger

	mu    sync.Mutex
	mark  int // output offset consumed by Expect/Eval
	typed uint32
}

func New(opts Options) *System {
	if opts.Logger == nil {
		opts.Logger = logx.NewNop()
	}
	s := &System{
		CtrlSerial:   hal.NewSimLink("controller-uart"),
		PeriphSPI:    hal.NewSimLink("peripheral-spi"),
		PeriphSerial: hal.NewSimLink("peripheral-uart"),
		ChipSelect:   &hal.SimPin{},
		log:          opts.Logger,
	}
	s.SPIBus = &hal.LoopbackSPI{Peer: s.PeriphSPI, Idle: opts.SPIIdle}
	s.CtrlSPI = hal.NewSPIDriverLink(s.SPIBus, s.ChipSelect)
	s.CtrlSPI.SetReady(s.PeriphSPI.RxFree)
	s.PeriphSPI.OnDrain(s.CtrlSPI.Pend)

	s.Controller = node.NewController(s.CtrlSerial, s.CtrlSPI, opts.Bridge)
	s.Peripheral = node.NewPeripheral(s.PeriphSPI, s.PeriphSerial, opts.Bridge)

	s.CtrlSerial.HandleRx(s.Controller.OnReceive)
	s.CtrlSPI.HandleTx(s.Controller.OnTransmit)
	s.PeriphSPI.HandleRx(s.Peripheral.OnReceive)
	s.PeriphSerial.HandleTx(s.Peripheral.OnTransmit)
	return s
}

// Run dispatches every simulated interrupt line until ctx is cancelled.
func (s *System) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){
		s.CtrlSerial.Run,
		s.CtrlSPI.Run,
		s.PeriphSPI.Run,
		s.PeriphSerial.Run,
	} {
		wg.Add(1)
		go func(f func(context.Context)) {
			defer wg.Done()
			f(ctx)
		}(run)
	}
	s.log.Debug("sim running")
	wg.Wait()
	s.log.Debug("sim stopped")
}

// Type sends p to the controller's serial input at typing pace: each byte
// is handed over only once the controller has taken the previous one.
func (s *System) Type(ctx context.Context, p []byte) error {
	for _, b := range p {
		if err := s.CtrlSerial.Send(ctx, []byte{b}); err != nil {
			return err
		}
		s.mu.Lock()
		s.typed++
		want := s.typed
		s.mu.Unlock()
		for {
			st := s.Controller.Stats()
			if st.Received >= want && st.Pending == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return &errcode.E{C: errcode.Timeout, Op: "type", Err: ctx.Err()}
			case <-time.After(100 * time.Microsecond):
			}
		}
	}
	s.log.Debug("typed", "bytes", len(p))
	return nil
}

// Output is everything the peripheral has written to its serial link.
func (s *System) Output() []byte { return s.PeriphSerial.Output() }

// Unread returns the output after the last consumed mark without
// advancing it.
func (s *System) Unread() []byte {
	s.mu.Lock()
	mark := s.mark
	s.mu.Unlock()
	out := s.Output()
	if mark > len(out) {
		return nil
	}
	return out[mark:]
}

// Expect waits for want to appear as the next unread output and consumes it.
func (s *System) Expect(ctx context.Context, want []byte) error {
	s.mu.Lock()
	mark := s.mark
	s.mu.Unlock()

	out, err := s.PeriphSerial.WaitOutput(ctx, mark+len(want))
	if err != nil {
		return &errcode.E{C: errcode.Timeout, Op: "expect", Msg: quote(out[min(mark, len(out)):]), Err: err}
	}
	got := out[mark : mark+len(want)]
	if !bytes.Equal(got, want) {
		return &errcode.E{C: errcode.Mismatch, Op: "expect", Msg: "got " + quote(got) + " want " + quote(want)}
	}
	s.mu.Lock()
	s.mark = mark + len(want)
	s.mu.Unlock()
	return nil
}

// Eval types expr and returns everything the peripheral wrote in response,
// up to and including the CRLF that ends a reply.
func (s *System) Eval(ctx context.Context, expr string) (string, error) {
	if err := s.Type(ctx, []byte(expr)); err != nil {
		return "", err
	}
	for {
		un := s.Unread()
		if i := bytes.Index(un, []byte("\r\n")); i >= 0 {
			s.mu.Lock()
			s.mark += i + 2
			s.mu.Unlock()
			return string(un[:i+2]), nil
		}
		select {
		case <-ctx.Done():
			return string(un), &errcode.E{C: errcode.Timeout, Op: "eval", Msg: expr, Err: ctx.Err()}
		case <-time.After(time.Millisecond):
		}
	}
}

// Settle waits until no node has queued bytes and no transmit trigger is armed.
func (s *System) Settle(ctx context.Context) error {
	for {
		c, p := s.Controller.Stats(), s.Peripheral.Stats()
		if c.Pending == 0 && p.Pending == 0 &&
			!s.CtrlSPI.TxInterruptEnabled() && !s.PeriphSerial.TxInterruptEnabled() &&
			s.PeriphSPI.RxFree() && s.CtrlSerial.RxFree() {
			return nil
		}
		select {
		case <-ctx.Done():
			return &errcode.E{C: errcode.Timeout, Op: "settle", Err: ctx.Err()}
		case <-time.After(time.Millisecond):
		}
	}
}

func quote(p []byte) string { return strconv.Quote(string(p)) }
