//go:build !(rp2040 || rp2350)

package sim

import (
	"errors"
	"strings"
	"testing"

	"calcbridge-go/errcode"
)

func TestRunScript(t *testing.T) {
	s, ctx := start(t)
	script := `
# echo then reply
type "12+3"
expect 12+3
type =
expect '=15\r\n'
eval 9999-1=
wait 1ms
settle
`
	steps, err := s.RunScript(ctx, strings.NewReader(script))
	if err != nil {
		t.Fatalf("script: %v (steps %+v)", err, steps)
	}
	if len(steps) != 7 {
		t.Fatalf("ran %d steps", len(steps))
	}
	if steps[4].Cmd != "eval" || steps[4].Got != "9999-1=9998\r\n" {
		t.Fatalf("eval step = %+v", steps[4])
	}
}

func TestRunScript_StopsAtFirstFailure(t *testing.T) {
	s, ctx := start(t)
	steps, err := s.RunScript(ctx, strings.NewReader("type 7=\nexpect '7=8\\r\\n'\ntype 1\n"))
	if !errors.Is(err, errcode.Mismatch) {
		t.Fatalf("err = %v", err)
	}
	if len(steps) != 2 || steps[1].Line != 2 {
		t.Fatalf("steps = %+v", steps)
	}
}

func TestRunScript_BadInput(t *testing.T) {
	s, ctx := start(t)
	cases := map[string]errcode.Code{
		"bogus":          errcode.Unsupported,
		"wait soon":      errcode.InvalidParams,
		`type "unclosed`: errcode.InvalidParams,
	}
	for in, want := range cases {
		_, err := s.RunScript(ctx, strings.NewReader(in))
		if errcode.Of(err) != want {
			t.Fatalf("%q: err = %v, want %s", in, err, want)
		}
	}
}

func TestUnescape(t *testing.T) {
	got, err := unescape(`a\r\n"b`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\r\n\"b" {
		t.Fatalf("got %q", got)
	}
}
