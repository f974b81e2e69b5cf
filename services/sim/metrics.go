//go:build !(rp2040 || rp2350)

package sim

import (
	"github.com/prometheus/client_golang/prometheus"

	"calcbridge-go/services/bridge"
	"calcbridge-go/services/node"
)

var _ prometheus.Collector = (*Collector)(nil)

// Collector exports the bridge counters of one or more nodes, labelled by role.
type Collector struct {
	nodes []*node.Node
	descs []statDesc
}

type statDesc struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(bridge.Stats) float64
}

func NewCollector(nodes ...*node.Node) *Collector {
	counter := func(name, help string, f func(bridge.Stats) uint32) statDesc {
		return statDesc{
			desc:  prometheus.NewDesc("calcbridge_bridge_"+name+"_total", help, []string{"node"}, nil),
			kind:  prometheus.CounterValue,
			value: func(st bridge.Stats) float64 { return float64(f(st)) },
		}
	}
	return &Collector{
		nodes: nodes,
		descs: []statDesc{
			counter("received", "Bytes read from the receive link.", func(s bridge.Stats) uint32 { return s.Received }),
			counter("forwarded", "Bytes written to the transmit link.", func(s bridge.Stats) uint32 { return s.Forwarded }),
			counter("dropped", "Bytes dropped because the queue was full.", func(s bridge.Stats) uint32 { return s.Dropped }),
			counter("overruns", "Receive overruns acknowledged.", func(s bridge.Stats) uint32 { return s.Overruns }),
			counter("spurious", "Transmit interrupts with nothing queued.", func(s bridge.Stats) uint32 { return s.Spurious }),
			counter("spin_timeouts", "Framed transmit waits that hit the spin limit.", func(s bridge.Stats) uint32 { return s.SpinTimeouts }),
			{
				desc:  prometheus.NewDesc("calcbridge_bridge_pending", "Bytes currently queued.", []string{"node"}, nil),
				kind:  prometheus.GaugeValue,
				value: func(st bridge.Stats) float64 { return float64(st.Pending) },
			},
		},
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d.desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, n := range c.nodes {
		st := n.Stats()
		for _, d := range c.descs {
			ch <- prometheus.MustNewConstMetric(d.desc, d.kind, d.value(st), string(n.Role))
		}
	}
}
