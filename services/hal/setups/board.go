package setups

// Board describes what the PCB/SoC can do (controllers present, GPIO range).
// It must not include wiring choices or operating parameters.
type Board struct {
	Name             string
	GPIOMin, GPIOMax int

	SPI  []string
	UART []string
}

var Pico = Board{
	Name:    "pico",
	GPIOMin: 0,
	GPIOMax: 28,
	SPI:     []string{"spi0", "spi1"},
	UART:    []string{"uart0", "uart1"},
}

func (b Board) hasUART(id string) bool { return contains(b.UART, id) }
func (b Board) hasSPI(id string) bool  { return contains(b.SPI, id) }

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
