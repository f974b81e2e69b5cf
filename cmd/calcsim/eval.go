//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPR...",
	Short: "Type each expression and print the peripheral's reply",
	Example: `  calcsim eval 12+3= 9999-1=
  calcsim eval "5/0"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx, sess, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer sess.stop()

		for _, expr := range args {
			if !strings.HasSuffix(expr, "=") {
				expr += "="
			}
			ectx, cancel := context.WithTimeout(ctx, timeout)
			reply, err := sess.sys.Eval(ectx, expr)
			cancel()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), reply)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Duration("timeout", 2*time.Second, "Per-expression timeout")
}
