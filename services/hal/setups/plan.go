// Package setups holds the wiring a node is brought up with: which serial
// and SPI controllers it uses, on which pins, at what rates.
package setups

import (
	"strconv"

	"calcbridge-go/errcode"
)

// Plan specifies wiring and operating parameters for one node. Bring-up
// consumes it once at boot.
type Plan struct {
	Name string
	UART UARTPlan
	SPI  SPIPlan
}

type UARTPlan struct {
	ID   string // "uart0"
	TX   int    // GPIO number
	RX   int    // GPIO number
	Baud uint32
}

// SPIRole says which end of the bus the node drives.
type SPIRole uint8

const (
	SPIMaster SPIRole = iota
	SPISlave
)

func (r SPIRole) String() string {
	if r == SPISlave {
		return "slave"
	}
	return "master"
}

type SPIPlan struct {
	ID   string // "spi0"
	Role SPIRole
	SCK  int
	SDO  int // MOSI on a master, MISO on a slave
	SDI  int
	CS   int    // chip select; driven as GPIO on a master, hardware CSn on a slave
	Hz   uint32 // master clock; ignored on a slave
	Mode uint8  // CPOL/CPHA, 0..3
}

// Validate checks the plan against what the board provides: controllers
// exist, pins are in range and no pin is used twice.
func (p Plan) Validate(b Board) error {
	if !b.hasUART(p.UART.ID) {
		return &errcode.E{C: errcode.UnknownBus, Op: "validate", Msg: p.UART.ID}
	}
	if !b.hasSPI(p.SPI.ID) {
		return &errcode.E{C: errcode.UnknownBus, Op: "validate", Msg: p.SPI.ID}
	}
	if p.UART.Baud == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "validate", Msg: "uart baud"}
	}
	if p.SPI.Role == SPIMaster && p.SPI.Hz == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "validate", Msg: "spi frequency"}
	}
	if p.SPI.Mode > 3 {
		return &errcode.E{C: errcode.InvalidParams, Op: "validate", Msg: "spi mode " + strconv.Itoa(int(p.SPI.Mode))}
	}

	used := make(map[int]string, 6)
	for _, pin := range []struct {
		name string
		n    int
	}{
		{"uart tx", p.UART.TX}, {"uart rx", p.UART.RX},
		{"spi sck", p.SPI.SCK}, {"spi sdo", p.SPI.SDO}, {"spi sdi", p.SPI.SDI}, {"spi cs", p.SPI.CS},
	} {
		if pin.n < b.GPIOMin || pin.n > b.GPIOMax {
			return &errcode.E{C: errcode.UnknownPin, Op: "validate", Msg: pin.name + " GP" + strconv.Itoa(pin.n)}
		}
		if other, dup := used[pin.n]; dup {
			return &errcode.E{C: errcode.PinInUse, Op: "validate", Msg: pin.name + " and " + other + " share GP" + strconv.Itoa(pin.n)}
		}
		used[pin.n] = pin.name
	}
	return nil
}
