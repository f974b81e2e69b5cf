//go:build !(rp2040 || rp2350)

package sim

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"calcbridge-go/errcode"
)

// Step is the outcome of one script line.
type Step struct {
	Line int
	Cmd  string
	Arg  string
	Got  string // eval replies
	Err  error
}

// RunScript executes a line-oriented script against the system. Lines are
// split shell-style; '#' starts a comment. Commands:
//
//	type <text>      type bytes into the controller's serial input
//	expect <text>    next unread output must equal text
//	eval <expr>      type expr and capture the reply line
//	wait <duration>  sleep, e.g. "wait 20ms"
//	settle           wait until both bridges are idle
//
// Text arguments accept Go escapes (\r, \n, \x00); shlex strips backslashes
// outside single quotes, so escaped text is written '=15\r\n'. The run stops
// at the first failing step; the returned slice includes it.
func (s *System) RunScript(ctx context.Context, r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		words, err := shlex.Split(sc.Text())
		if err != nil {
			st := Step{Line: n, Err: &errcode.E{C: errcode.InvalidParams, Op: "parse", Msg: "line " + strconv.Itoa(n), Err: err}}
			return append(steps, st), st.Err
		}
		if len(words) == 0 {
			continue
		}
		st := Step{Line: n, Cmd: words[0], Arg: strings.Join(words[1:], " ")}
		st.Got, st.Err = s.step(ctx, st.Cmd, st.Arg)
		steps = append(steps, st)
		if st.Err != nil {
			return steps, st.Err
		}
	}
	return steps, sc.Err()
}

func (s *System) step(ctx context.Context, cmd, arg string) (string, error) {
	switch cmd {
	case "type":
		text, err := unescape(arg)
		if err != nil {
			return "", err
		}
		return "", s.Type(ctx, []byte(text))
	case "expect":
		text, err := unescape(arg)
		if err != nil {
			return "", err
		}
		return "", s.Expect(ctx, []byte(text))
	case "eval":
		return s.Eval(ctx, arg)
	case "wait":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return "", &errcode.E{C: errcode.InvalidParams, Op: "wait", Msg: arg, Err: err}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(d):
			return "", nil
		}
	case "settle":
		return "", s.Settle(ctx)
	default:
		return "", &errcode.E{C: errcode.Unsupported, Op: "script", Msg: cmd}
	}
}

// unescape decodes Go string escapes in a script argument.
func unescape(s string) (string, error) {
	out, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return "", &errcode.E{C: errcode.InvalidParams, Op: "unescape", Msg: s, Err: err}
	}
	return out, nil
}
