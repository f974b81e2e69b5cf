//go:build !(rp2040 || rp2350)

package hal

import (
	"sync"

	"calcbridge-go/errcode"
	"tinygo.org/x/drivers"
)

var _ drivers.SPI = (*LoopbackSPI)(nil)

// LoopbackSPI is a host drivers.SPI bus master whose MOSI is wired into a
// peer's receive register. Reads clock back Idle.
type LoopbackSPI struct {
	Peer *SimLink
	Idle byte
}

func (s *LoopbackSPI) Transfer(b byte) (byte, error) {
	if s.Peer == nil {
		return 0, errcode.UnknownBus
	}
	s.Peer.Deliver(b)
	return s.Idle, nil
}

func (s *LoopbackSPI) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := s.Transfer(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

// SimPin is a host chip-select output that records its edges.
type SimPin struct {
	mu    sync.Mutex
	level bool
	lows  int
	highs int
}

func (p *SimPin) High() {
	p.mu.Lock()
	p.level = true
	p.highs++
	p.mu.Unlock()
}

func (p *SimPin) Low() {
	p.mu.Lock()
	p.level = false
	p.lows++
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Edges returns the number of Low and High calls.
func (p *SimPin) Edges() (lows, highs int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lows, p.highs
}
