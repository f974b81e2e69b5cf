//go:build !(rp2040 || rp2350)

package hal

import (
	"context"
	"testing"
	"time"
)

func TestSimLink_RegisterAndOverrun(t *testing.T) {
	l := NewSimLink("rx")
	if l.RxReady() || !l.RxFree() {
		t.Fatal("fresh link not empty")
	}
	l.Deliver('a')
	l.Deliver('b')
	if !l.Overrun() || l.Lost() != 1 {
		t.Fatalf("overrun=%v lost=%d", l.Overrun(), l.Lost())
	}
	if got := l.ReadRx(); got != 'a' {
		t.Fatalf("read %q, want first byte kept", got)
	}
	l.ClearOverrun()
	if l.Overrun() || l.RxReady() {
		t.Fatal("flags not cleared")
	}
}

func TestSimLink_ConnectFlowControl(t *testing.T) {
	a, b := NewSimLink("a"), NewSimLink("b")
	a.Connect(b)
	if !a.TxReady() {
		t.Fatal("not ready with empty peer")
	}
	a.WriteTx('x')
	if a.TxReady() {
		t.Fatal("ready while peer register full")
	}
	if len(a.Output()) != 0 {
		t.Fatal("connected link captured output")
	}
	if b.ReadRx() != 'x' || !a.TxReady() {
		t.Fatal("peer drain did not restore readiness")
	}
}

func TestSimLink_SendPacesOnHandler(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rx, out := NewSimLink("rx"), NewSimLink("out")
	rx.HandleRx(func() { out.WriteTx(rx.ReadRx()) })
	go rx.Run(ctx)

	if err := rx.Send(ctx, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := out.WaitOutput(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" || rx.Lost() != 0 {
		t.Fatalf("got %q lost %d", got, rx.Lost())
	}
}

func TestSimLink_WaitOutputTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := NewSimLink("x").WaitOutput(ctx, 1); err == nil {
		t.Fatal("expected timeout")
	}
}

func TestSimFramedLink_BusyThenFrame(t *testing.T) {
	f := NewSimFramedLink("spi", 3)
	f.WriteTx(1)
	if !f.InFrame() {
		t.Fatal("no frame open after write")
	}
	n := 0
	for f.Busy() {
		n++
	}
	if n != 3 {
		t.Fatalf("busy for %d polls", n)
	}
	f.EndFrame()
	f.EndFrame()
	if f.Frames() != 1 || f.InFrame() {
		t.Fatalf("frames=%d", f.Frames())
	}
}
