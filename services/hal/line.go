package hal

import (
	"context"
	"sync/atomic"
)

// Line is a software interrupt line. While enabled, its handler runs on the
// line's own goroutine for as long as the level condition holds, the way a
// level-triggered interrupt keeps firing until its cause is cleared. The
// handler never runs concurrently with itself.
//
// Lines stand in for hardware vectors where the platform only exposes a
// notification (host simulation, buffered UART drivers).
type Line struct {
	name    string
	cond    func() bool
	handler func()

	enabled atomic.Bool
	kick    chan struct{} // coalesced
	fires   atomic.Uint32
}

// NewLine returns a disabled line. cond may be nil, meaning always asserted.
func NewLine(name string, cond func() bool) *Line {
	if cond == nil {
		cond = func() bool { return true }
	}
	return &Line{name: name, cond: cond, kick: make(chan struct{}, 1)}
}

func (l *Line) Name() string { return l.name }

// Handle installs the handler. It must be called before Run.
func (l *Line) Handle(h func()) { l.handler = h }

// Enable unmasks the line and pends it so an already-asserted condition fires.
func (l *Line) Enable() {
	l.enabled.Store(true)
	l.Pend()
}

func (l *Line) Disable()      { l.enabled.Store(false) }
func (l *Line) Enabled() bool { return l.enabled.Load() }

// Set enables or disables the line.
func (l *Line) Set(on bool) {
	if on {
		l.Enable()
	} else {
		l.Disable()
	}
}

// Pend signals that the condition may have become true. Never blocks.
func (l *Line) Pend() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Fires returns how many times the handler has run.
func (l *Line) Fires() uint32 { return l.fires.Load() }

// Run dispatches the handler until ctx is cancelled.
func (l *Line) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.kick:
		}
		for l.enabled.Load() && l.cond() {
			if ctx.Err() != nil {
				return
			}
			l.fires.Add(1)
			if l.handler != nil {
				l.handler()
			}
		}
	}
}
