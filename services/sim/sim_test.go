//go:build !(rp2040 || rp2350)

package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"calcbridge-go/errcode"
	"calcbridge-go/services/bridge"
)

func start(t *testing.T) (*System, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	s := New(Options{Bridge: bridge.Config{SpinLimit: 256}, SPIIdle: 0xFF})
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, ctx
}

func TestEval_LiteralCases(t *testing.T) {
	s, ctx := start(t)
	cases := []struct{ in, want string }{
		{"12+3=", "12+3=15\r\n"},
		{"9999-1=", "9999-1=9998\r\n"},
		{"5/0=", "5/0=5\r\n"},
		{"7=", "7=7\r\n"},
		{"3-9=", "3-9=0\r\n"},
		{"12345=", "1234=1234\r\n"},
		{"9999*9999=", "9999*9999=99980001\r\n"},
	}
	for _, c := range cases {
		got, err := s.Eval(ctx, c.in)
		if err != nil {
			t.Fatalf("eval %q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("eval %q = %q, want %q", c.in, got, c.want)
		}
	}
	if err := s.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	cs, ps := s.Controller.Stats(), s.Peripheral.Stats()
	if cs.Dropped != 0 || ps.Dropped != 0 || cs.Overruns != 0 || ps.Overruns != 0 {
		t.Fatalf("lossy run: controller %+v peripheral %+v", cs, ps)
	}
	if cs.Forwarded != cs.Received {
		t.Fatalf("controller forwarded %d of %d", cs.Forwarded, cs.Received)
	}
	if lows, highs := s.ChipSelect.Edges(); lows != int(cs.Forwarded) || highs != lows+1 {
		t.Fatalf("chip select edges lows=%d highs=%d for %d words", lows, highs, cs.Forwarded)
	}
	if s.CtrlSPI.LastIn() != 0xFF {
		t.Fatalf("MISO = %#x", s.CtrlSPI.LastIn())
	}
}

func TestEval_RejectedInputIsSilent(t *testing.T) {
	s, ctx := start(t)
	got, err := s.Eval(ctx, "a1 +?2=")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1+2=3\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestExpect_Mismatch(t *testing.T) {
	s, ctx := start(t)
	if err := s.Type(ctx, []byte("4")); err != nil {
		t.Fatal(err)
	}
	err := s.Expect(ctx, []byte("5"))
	if !errors.Is(err, errcode.Mismatch) {
		t.Fatalf("err = %v, want mismatch", err)
	}
	if err := s.Expect(ctx, []byte("4")); err != nil {
		t.Fatalf("mark advanced on mismatch: %v", err)
	}
}

func TestExpect_Timeout(t *testing.T) {
	s, _ := start(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Expect(ctx, []byte("x")); errcode.Of(err) != errcode.Timeout {
		t.Fatalf("err = %v, want timeout", err)
	}
}
