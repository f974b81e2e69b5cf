//go:build rp2040 || rp2350

// Controller firmware: every byte typed on UART0 is clocked out on SPI0,
// one chip-select frame per byte.
package main

import (
	"context"
	"time"

	"calcbridge-go/services/bridge"
	"calcbridge-go/services/hal"
	"calcbridge-go/services/hal/setups"
	"calcbridge-go/services/heartbeat"
	"calcbridge-go/services/node"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[controller] boot")
	ctx := context.Background()

	serial, spi, err := hal.SetupController(setups.Controller)
	if err != nil {
		halt("setup: " + err.Error())
	}

	n := node.NewController(serial, spi, bridge.Config{})
	serial.HandleRx(n.OnReceive)
	spi.HandleTx(n.OnTransmit)
	go serial.Run(ctx)
	go spi.Run(ctx)

	hb := &heartbeat.Service{Name: "[controller]", Interval: heartbeat.DefaultInterval, Src: n}
	if err := hb.Start(ctx); err != nil {
		println("[controller] heartbeat:", err.Error())
	}

	println("[controller] relaying", setups.Controller.UART.ID, "->", setups.Controller.SPI.ID)
	select {}
}

func halt(msg string) {
	for {
		println("[controller]", msg)
		time.Sleep(5 * time.Second)
	}
}
