//go:build !(rp2040 || rp2350)

package hal

import (
	"context"
	"testing"
	"time"

	"calcbridge-go/errcode"
)

func TestSPIDriverLink_FramesEachWord(t *testing.T) {
	peer := NewSimLink("slave")
	cs := &SimPin{}
	l := NewSPIDriverLink(&LoopbackSPI{Peer: peer, Idle: 0xA5}, cs)
	if !cs.Get() {
		t.Fatal("chip select not idle high")
	}

	l.WriteTx('7')
	if cs.Get() {
		t.Fatal("chip select high during word")
	}
	if l.Busy() {
		t.Fatal("busy after blocking transfer")
	}
	l.EndFrame()
	if !cs.Get() {
		t.Fatal("frame not released")
	}
	if lows, highs := cs.Edges(); lows != 1 || highs != 2 {
		t.Fatalf("edges lows=%d highs=%d", lows, highs)
	}
	if peer.ReadRx() != '7' || l.LastIn() != 0xA5 || l.Words() != 1 {
		t.Fatalf("word not delivered: last=%#x words=%d", l.LastIn(), l.Words())
	}
}

func TestSPIDriverLink_ReadyAndErrors(t *testing.T) {
	peer := NewSimLink("slave")
	l := NewSPIDriverLink(&LoopbackSPI{}, nil)
	if !l.TxReady() {
		t.Fatal("no flow control should mean ready")
	}
	l.SetReady(peer.RxFree)
	peer.Deliver(1)
	if l.TxReady() {
		t.Fatal("ready while peer full")
	}
	l.WriteTx(2)
	if l.Errors() != 1 || l.Words() != 0 {
		t.Fatalf("errors=%d words=%d", l.Errors(), l.Words())
	}
}

func TestSPIDriverLink_InterruptLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	peer := NewSimLink("slave")
	l := NewSPIDriverLink(&LoopbackSPI{Peer: peer}, nil)
	l.SetReady(peer.RxFree)
	peer.OnDrain(l.Pend)

	sent := 0
	l.HandleTx(func() {
		l.WriteTx(byte(sent))
		sent++
		if sent == 2 {
			l.SetTxInterrupt(false)
		}
	})
	go l.Run(ctx)

	l.SetTxInterrupt(true)
	waitFor(t, "first word", func() bool { return l.Words() == 1 })
	time.Sleep(5 * time.Millisecond)
	if l.Words() != 1 {
		t.Fatal("fired while peer register full")
	}
	peer.ReadRx()
	waitFor(t, "second word", func() bool { return l.Words() == 2 })
	if l.TxInterruptEnabled() {
		t.Fatal("trigger left enabled")
	}
}

func TestLoopbackSPI_Tx(t *testing.T) {
	peer := NewSimLink("slave")
	s := &LoopbackSPI{Peer: peer, Idle: 0xEE}
	r := make([]byte, 1)
	if err := s.Tx([]byte{9}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0xEE || peer.ReadRx() != 9 {
		t.Fatalf("r=%v", r)
	}
	if err := (&LoopbackSPI{}).Tx([]byte{1}, nil); errcode.Of(err) != errcode.UnknownBus {
		t.Fatalf("err = %v", err)
	}
}
