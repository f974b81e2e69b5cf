package setups

// Both nodes use UART0 on GP0/GP1 and SPI0 on GP16..GP19. The PL022 pin
// functions are fixed (GP19 transmits, GP16 receives) whatever the role, so
// the boards are wired SCK-SCK, CS-CS, GP19-GP16 and GP16-GP19.

var Controller = Plan{
	Name: "controller",
	UART: UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115_200},
	SPI: SPIPlan{
		ID: "spi0", Role: SPIMaster,
		SCK: 18, SDO: 19, SDI: 16, CS: 17,
		Hz: 1_000_000, Mode: 0,
	},
}

var Peripheral = Plan{
	Name: "peripheral",
	UART: UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115_200},
	SPI: SPIPlan{
		ID: "spi0", Role: SPISlave,
		SCK: 18, SDO: 19, SDI: 16, CS: 17,
		Mode: 0,
	},
}
