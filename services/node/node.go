// Package node assembles the two firmware roles from a bridge and, on the
// peripheral, the calculator engine.
package node

import (
	"calcbridge-go/services/bridge"
	"calcbridge-go/services/calc"
	"calcbridge-go/services/hal"
)

type Role string

const (
	Controller Role = "controller"
	Peripheral Role = "peripheral"
)

// Node is one firmware image: a single bridge between its two buses.
type Node struct {
	Role   Role
	Bridge *bridge.Bridge
	Engine *calc.Engine // peripheral only
}

// NewController relays every byte received on the serial link to the SPI
// link unchanged.
func NewController(serialRx hal.RxLink, spiTx hal.TxLink, cfg bridge.Config) *Node {
	return &Node{
		Role:   Controller,
		Bridge: bridge.New(serialRx, spiTx, bridge.Relay{}, cfg),
	}
}

// NewPeripheral feeds bytes received on the SPI link to the calculator and
// sends the echoes and replies out of the serial link.
func NewPeripheral(spiRx hal.RxLink, serialTx hal.TxLink, cfg bridge.Config) *Node {
	e := calc.New()
	return &Node{
		Role:   Peripheral,
		Bridge: bridge.New(spiRx, serialTx, e, cfg),
		Engine: e,
	}
}

// OnReceive and OnTransmit are the node's two interrupt handlers.
func (n *Node) OnReceive()  { n.Bridge.OnReceive() }
func (n *Node) OnTransmit() { n.Bridge.OnTransmit() }

func (n *Node) Stats() bridge.Stats { return n.Bridge.Stats() }
