//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"calcbridge-go/services/sim"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Type into the controller and watch the peripheral answer",
	Long: `Connects stdin to the controller's serial input and stdout to the
peripheral's serial output. With --raw every keystroke is sent as it is
typed; Ctrl-C or Ctrl-D quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		ctx, sess, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer sess.stop()

		fd := int(os.Stdin.Fd())
		if raw && term.IsTerminal(fd) {
			old, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			defer term.Restore(fd, old)
		} else if raw {
			sess.log.Warn("stdin is not a terminal, ignoring --raw")
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go echoOutput(ctx, sess.sys, cmd.OutOrStdout())

		// Read blocks outside ctx, so a signal returns without waiting for it.
		typed := make(chan error, 1)
		go func() { typed <- typeInput(ctx, sess.sys, cmd.InOrStdin()) }()
		select {
		case <-ctx.Done():
			return nil
		case err := <-typed:
			if err == io.EOF {
				return nil
			}
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveCmd.Flags().Bool("raw", true, "Put the terminal in raw mode so each key is one serial byte")
}

// typeInput forwards r to the controller until EOF, Ctrl-C or Ctrl-D.
func typeInput(ctx context.Context, s *sim.System, r io.Reader) error {
	var buf [64]byte
	for {
		n, err := r.Read(buf[:])
		for _, b := range buf[:n] {
			if b == ctrlC || b == ctrlD {
				return io.EOF
			}
			if err := s.Type(ctx, []byte{b}); err != nil {
				return err
			}
		}
		if err != nil {
			return err
		}
	}
}

// echoOutput copies the peripheral's serial output to w as it grows.
func echoOutput(ctx context.Context, s *sim.System, w io.Writer) {
	shown := 0
	for {
		out, err := s.PeriphSerial.WaitOutput(ctx, shown+1)
		if err != nil {
			return
		}
		if _, err := w.Write(out[shown:]); err != nil {
			return
		}
		shown = len(out)
	}
}
