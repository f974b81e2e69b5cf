//go:build !(rp2040 || rp2350)

// Package critical masks peer interrupt handlers for the duration of a short
// read-modify-write shared between interrupt contexts.
//
// On the host, simulated interrupt lines run on goroutines, so a section is a
// process-wide mutex. Sections must not nest.
package critical

import "sync"

type State struct{}

var mu sync.Mutex

func Enter() State {
	mu.Lock()
	return State{}
}

func Exit(State) { mu.Unlock() }
