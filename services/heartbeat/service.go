package heartbeat

import (
	"context"
	"time"

	"calcbridge-go/errcode"
	"calcbridge-go/services/bridge"
)

const DefaultInterval = 5 * time.Second

// Source is anything that can report bridge counters (a node).
type Source interface {
	Stats() bridge.Stats
}

// Service prints a status line for a node on every tick. Lines are skipped
// while the counters have not moved.
type Service struct {
	Name     string
	Interval time.Duration
	Src      Source
	// Report replaces the default println sink (tests, host tools). It also
	// receives a final snapshot when the service stops.
	Report func(name string, st bridge.Stats)

	last  bridge.Stats
	ticks int
}

func (s *Service) serviceLoop(ctx context.Context) {
	iv := s.Interval
	if iv <= 0 {
		iv = DefaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stop()
			return
		case <-tick.C:
			s.beat()
		}
	}
}

// beat reports once if anything changed since the previous report, and
// always on the first tick.
func (s *Service) beat() {
	st := s.Src.Stats()
	s.ticks++
	if s.ticks > 1 && st == s.last {
		return
	}
	s.last = st
	if s.Report != nil {
		s.Report(s.Name, st)
		return
	}
	println("Info:", s.Name,
		"rx", st.Received, "tx", st.Forwarded,
		"drop", st.Dropped, "ovr", st.Overruns,
		"spur", st.Spurious, "spin_to", st.SpinTimeouts,
		"spin_hw", st.SpinHighWater, "pend", st.Pending)
}

// stop flushes the last counters to Report, or prints a stop line when
// printing.
func (s *Service) stop() {
	if s.Report != nil {
		s.Report(s.Name, s.Src.Stats())
		return
	}
	println("Info:", s.Name, "heartbeat stopping")
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context) error {
	if s.Src == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "heartbeat", Msg: "no source"}
	}
	go s.serviceLoop(ctx)
	return nil
}
