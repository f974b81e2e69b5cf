//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"calcbridge-go/errcode"
	"calcbridge-go/services/hal/setups"
)

// SetupController brings up the serial receive leg and the SPI master leg.
func SetupController(p setups.Plan) (*UARTLink, *SPIDriverLink, error) {
	if err := p.Validate(setups.Pico); err != nil {
		return nil, nil, err
	}
	if p.SPI.Role != setups.SPIMaster {
		return nil, nil, &errcode.E{C: errcode.InvalidParams, Op: "setup", Msg: "controller must be spi master"}
	}
	uart, err := newUARTLink(p.UART)
	if err != nil {
		return nil, nil, err
	}
	spi, err := configureSPI(p.SPI)
	if err != nil {
		return nil, nil, err
	}
	cs := machine.Pin(p.SPI.CS)
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return uart, NewSPIDriverLink(spi, cs), nil
}

// SetupPeripheral brings up the SPI slave receive leg and the serial
// transmit leg.
func SetupPeripheral(p setups.Plan) (*PL022Slave, *UARTLink, error) {
	if err := p.Validate(setups.Pico); err != nil {
		return nil, nil, err
	}
	if p.SPI.Role != setups.SPISlave || p.SPI.ID != "spi0" {
		return nil, nil, &errcode.E{C: errcode.Unsupported, Op: "setup", Msg: "peripheral needs spi0 as slave"}
	}
	spi, err := configureSPI(p.SPI)
	if err != nil {
		return nil, nil, err
	}
	machine.Pin(p.SPI.CS).Configure(machine.PinConfig{Mode: machine.PinSPI})
	s := newPL022Slave(spi.Bus)
	s.setSlave()

	uart, err := newUARTLink(p.UART)
	if err != nil {
		return nil, nil, err
	}
	return s, uart, nil
}

func configureSPI(p setups.SPIPlan) (*machine.SPI, error) {
	var hw *machine.SPI
	switch p.ID {
	case "spi0":
		hw = machine.SPI0
	case "spi1":
		hw = machine.SPI1
	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "spi", Msg: p.ID}
	}
	hz := p.Hz
	if hz == 0 {
		hz = 1_000_000
	}
	if err := hw.Configure(machine.SPIConfig{
		Frequency: hz,
		SCK:       machine.Pin(p.SCK),
		SDO:       machine.Pin(p.SDO),
		SDI:       machine.Pin(p.SDI),
		Mode:      p.Mode,
	}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "spi", Msg: p.ID, Err: err}
	}
	return hw, nil
}
