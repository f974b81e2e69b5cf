package setups

import (
	"testing"

	"calcbridge-go/errcode"
)

func TestNodePlansValidate(t *testing.T) {
	for _, p := range []Plan{Controller, Peripheral} {
		if err := p.Validate(Pico); err != nil {
			t.Fatalf("%s: %v", p.Name, err)
		}
	}
	if Controller.SPI.Role != SPIMaster || Peripheral.SPI.Role != SPISlave {
		t.Fatal("roles swapped")
	}
	if Controller.SPI.SDO != Peripheral.SPI.SDO || Controller.SPI.SDI != Peripheral.SPI.SDI {
		t.Fatal("pin functions differ between nodes")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Plan)
		want errcode.Code
	}{
		{"unknown uart", func(p *Plan) { p.UART.ID = "uart7" }, errcode.UnknownBus},
		{"unknown spi", func(p *Plan) { p.SPI.ID = "spi9" }, errcode.UnknownBus},
		{"zero baud", func(p *Plan) { p.UART.Baud = 0 }, errcode.InvalidParams},
		{"master without clock", func(p *Plan) { p.SPI.Hz = 0 }, errcode.InvalidParams},
		{"bad mode", func(p *Plan) { p.SPI.Mode = 4 }, errcode.InvalidParams},
		{"pin out of range", func(p *Plan) { p.SPI.CS = 29 }, errcode.UnknownPin},
		{"negative pin", func(p *Plan) { p.UART.TX = -1 }, errcode.UnknownPin},
		{"shared pin", func(p *Plan) { p.SPI.CS = p.UART.RX }, errcode.PinInUse},
	}
	for _, c := range cases {
		p := Controller
		c.mod(&p)
		if got := errcode.Of(p.Validate(Pico)); got != c.want {
			t.Fatalf("%s: got %q want %q", c.name, got, c.want)
		}
	}
}

func TestSlaveIgnoresClock(t *testing.T) {
	p := Peripheral
	p.SPI.Hz = 0
	if err := p.Validate(Pico); err != nil {
		t.Fatal(err)
	}
	if SPISlave.String() != "slave" || SPIMaster.String() != "master" {
		t.Fatal("role names")
	}
}
