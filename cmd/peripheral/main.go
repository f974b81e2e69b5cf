//go:build rp2040 || rp2350

// Peripheral firmware: bytes arriving on SPI0 drive the calculator; echoes
// and results go out on UART0.
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
	time.Sleep(2 * time.Second)
	println("[peripheral] boot")
	ctx := context.Background()

	spi, serial, err := hal.SetupPeripheral(setups.Peripheral)
	if err != nil {
		halt("setup: " + err.Error())
	}

	n := node.NewPeripheral(spi, serial, bridge.Config{})
	serial.HandleTx(n.OnTransmit)
	go serial.Run(ctx)
	// Unmask SPI last: the vector may fire as soon as this returns.
	spi.HandleRx(n.OnReceive)

	hb := &heartbeat.Service{Name: "[peripheral]", Src: n}
	if err := hb.Start(ctx); err != nil {
		println("[peripheral] heartbeat:", err.Error())
	}

	println("[peripheral] calculator on", setups.Peripheral.SPI.ID, "->", setups.Peripheral.UART.ID)
	select {}
}

func halt(msg string) {
	for {
		println("[peripheral]", msg)
		time.Sleep(5 * time.Second)
	}
}
