//go:build !(rp2040 || rp2350)

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Run a test script against the simulator",
	Long: `Runs a line-oriented script. Each line is one of:

  type TEXT      send TEXT to the controller's serial input
  expect TEXT    the next unread output must equal TEXT
  eval EXPR      send EXPR and print the reply line
  wait DURATION  pause, e.g. "wait 10ms"
  settle         wait until both nodes are idle

Words are split shell-style. Put TEXT in single quotes to keep Go escapes
such as \r and \n intact. Lines starting with # are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, sess, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer sess.stop()

		steps, err := sess.sys.RunScript(ctx, f)
		out := cmd.OutOrStdout()
		for _, st := range steps {
			status := "ok"
			if st.Err != nil {
				status = st.Err.Error()
			}
			fmt.Fprintf(out, "%s:%d %s %s: %s", args[0], st.Line, st.Cmd, strconv.Quote(st.Arg), status)
			if st.Got != "" {
				fmt.Fprintf(out, " %s", strconv.Quote(st.Got))
			}
			fmt.Fprintln(out)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d steps passed\n", len(steps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
