//go:build rp2040 || rp2350

// Package critical masks peer interrupt handlers for the duration of a short
// read-modify-write shared between interrupt contexts.
package critical

import "runtime/interrupt"

// State is the saved interrupt mask to hand back to Exit.
type State = interrupt.State

// Enter disables interrupts on the current core and returns the previous state.
func Enter() State { return interrupt.Disable() }

// Exit restores the state returned by the matching Enter.
func Exit(s State) { interrupt.Restore(s) }
