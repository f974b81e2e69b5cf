//go:build !(rp2040 || rp2350)

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "eval", "--log-level", "error", "12+3=", "5/0")
	if err != nil {
		t.Fatal(err)
	}
	if out != "12+3=15\r\n5/0=5\r\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.txt")
	script := "# smoke\ntype 7=\nexpect '7=7\\r\\n'\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "run", "--log-level", "error", path)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.Contains(out, "2 steps passed") {
		t.Fatalf("got %q", out)
	}
}

func TestRunCommand_ReportsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("type 7=\nexpect 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "run", "--log-level", "error", path)
	if err == nil {
		t.Fatalf("expected failure, got %q", out)
	}
	if !strings.Contains(out, ":2 expect") {
		t.Fatalf("failing step not reported: %q", out)
	}
}

// Each Execute cancels its context on return; a later run of the same
// subcommand must not inherit it.
func TestRunCommand_RepeatedExecute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.txt")
	if err := os.WriteFile(path, []byte("type 4=\nexpect '4=4\\r\\n'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		out, err := execute(t, "run", "--log-level", "error", path)
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i, err, out)
		}
		if !strings.Contains(out, "2 steps passed") {
			t.Fatalf("run %d: got %q", i, out)
		}
	}
	out, err := execute(t, "eval", "--log-level", "error", "2+2")
	if err != nil || out != "2+2=4\r\n" {
		t.Fatalf("eval after runs: %q %v", out, err)
	}
}
