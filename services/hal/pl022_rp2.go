//go:build rp2040 || rp2350

package hal

import (
	"device/rp"
	"runtime/interrupt"
)

var _ RxLink = (*PL022Slave)(nil)

// PL022Slave is the receive side of an SPI controller in slave mode, driven
// straight from its interrupt vector.
type PL022Slave struct {
	bus *rp.SPI0_Type
	irq interrupt.Interrupt
	rx  func()
}

// spi0Slave is the instance the SPI0 vector dispatches to.
var spi0Slave *PL022Slave

func newPL022Slave(bus *rp.SPI0_Type) *PL022Slave {
	s := &PL022Slave{bus: bus}
	spi0Slave = s
	s.irq = interrupt.New(rp.IRQ_SPI0_IRQ, func(interrupt.Interrupt) {
		if spi0Slave != nil {
			spi0Slave.handleInterrupt()
		}
	})
	return s
}

// setSlave switches the configured controller to slave mode. MS may only
// change while the port is disabled.
func (s *PL022Slave) setSlave() {
	s.bus.SSPCR1.ClearBits(rp.SPI0_SSPCR1_SSE)
	s.bus.SSPCR1.SetBits(rp.SPI0_SSPCR1_MS)
	s.bus.SSPCR1.SetBits(rp.SPI0_SSPCR1_SSE)
	for s.RxReady() {
		s.ReadRx()
	}
	s.bus.SSPICR.Set(rp.SPI0_SSPICR_RORIC | rp.SPI0_SSPICR_RTIC)
}

// HandleRx installs h and unmasks receive, receive-timeout and overrun.
func (s *PL022Slave) HandleRx(h func()) {
	s.rx = h
	s.bus.SSPIMSC.SetBits(rp.SPI0_SSPIMSC_RXIM | rp.SPI0_SSPIMSC_RTIM | rp.SPI0_SSPIMSC_RORIM)
	s.irq.Enable()
}

func (s *PL022Slave) handleInterrupt() {
	for s.RxReady() || s.Overrun() {
		s.rx()
	}
	s.bus.SSPICR.Set(rp.SPI0_SSPICR_RTIC)
}

func (s *PL022Slave) RxReady() bool { return s.bus.SSPSR.HasBits(rp.SPI0_SSPSR_RNE) }
func (s *PL022Slave) ReadRx() byte  { return byte(s.bus.SSPDR.Get()) }

func (s *PL022Slave) Overrun() bool { return s.bus.SSPRIS.HasBits(rp.SPI0_SSPRIS_RORRIS) }
func (s *PL022Slave) ClearOverrun() { s.bus.SSPICR.Set(rp.SPI0_SSPICR_RORIC) }
