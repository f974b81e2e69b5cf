//go:build !(rp2040 || rp2350)

// Command calcsim runs the controller and peripheral firmware logic on the
// host, wired over simulated serial and SPI links.
package main

func main() {
	Execute()
}
