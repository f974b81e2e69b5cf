// Package hal is the node's view of its two buses: byte-level links with a
// receive register, a transmit register, an overrun flag and a software
// controlled transmit interrupt, plus the one-time bring-up that yields them.
package hal

// RxLink is the receive side of a bus.
type RxLink interface {
	// RxReady reports a received byte is waiting in the receive register.
	RxReady() bool
	// ReadRx returns the received byte; the read clears RxReady.
	ReadRx() byte
	// Overrun reports the hardware lost a byte because firmware read too slowly.
	Overrun() bool
	ClearOverrun()
}

// TxLink is the transmit side of a bus.
type TxLink interface {
	// TxReady reports the transmit register can take a byte.
	TxReady() bool
	// WriteTx loads b and starts the transfer; it clears TxReady.
	WriteTx(b byte)
	// SetTxInterrupt enables or disables the transmit-ready interrupt.
	SetTxInterrupt(on bool)
}

// FramedTx is implemented by transmit links that frame each word on their
// own (SPI with hardware chip select). After WriteTx the caller polls Busy
// until the word is on the wire, then calls EndFrame to release the frame.
type FramedTx interface {
	TxLink
	Busy() bool
	EndFrame()
}

// ChipSelect is a frame-select output. machine.Pin satisfies it.
type ChipSelect interface {
	High()
	Low()
}
