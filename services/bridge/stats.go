package bridge

// Stats is a snapshot of a bridge's counters.
type Stats struct {
	Received      uint32 // bytes read from the receive link
	Forwarded     uint32 // bytes written to the transmit link
	Dropped       uint32 // bytes discarded because the queue was full
	Overruns      uint32 // receive overruns acknowledged
	Spurious      uint32 // transmit fires with nothing queued
	SpinTimeouts  uint32 // framed waits that hit SpinLimit
	TxEnables     uint32
	TxDisables    uint32
	SpinHighWater uint32 // longest framed wait seen, in polls
	Pending       int
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Received:      b.received.Load(),
		Forwarded:     b.forwarded.Load(),
		Dropped:       b.dropped.Load(),
		Overruns:      b.overruns.Load(),
		Spurious:      b.spurious.Load(),
		SpinTimeouts:  b.spinTimeouts.Load(),
		TxEnables:     b.txEnables.Load(),
		TxDisables:    b.txDisables.Load(),
		SpinHighWater: b.spinHighWater.Load(),
		Pending:       b.q.Len(),
	}
}
