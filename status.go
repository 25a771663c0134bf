package nrf24

import "fmt"

// Status is the byte the chip shifts out during the first byte of every
// SPI transaction. It is live as of that transaction only; never cache
// it across operations that may change it.
type Status byte

// DataReady reports whether a payload arrived in the RX FIFO (RX_DR).
func (s Status) DataReady() bool { return s&_RX_DR != 0 }

// DataSent reports whether the last payload was transmitted, and
// acknowledged if auto-ack is enabled (TX_DS).
func (s Status) DataSent() bool { return s&_TX_DS != 0 }

// MaxRetries reports whether the auto-retransmit budget was exhausted
// for the last payload (MAX_RT). Transmission stalls until the flag is
// cleared.
func (s Status) MaxRetries() bool { return s&_MAX_RT != 0 }

// RxPipe returns the pipe number of the payload at the head of the RX
// FIFO, or -1 if the FIFO is empty.
func (s Status) RxPipe() int {
	n := int(s>>1) & 0x07
	if n > 5 {
		return -1
	}
	return n
}

// TxFull reports whether the TX FIFO has no free slots.
func (s Status) TxFull() bool { return s&_TX_FULL != 0 }

func (s Status) String() string {
	return fmt.Sprintf("Status(dataReady=%v dataSent=%v maxRetries=%v rxPipe=%d txFull=%v)",
		s.DataReady(), s.DataSent(), s.MaxRetries(), s.RxPipe(), s.TxFull())
}

// FIFOStatus is the decoded FIFO_STATUS register.
type FIFOStatus byte

// RxEmpty reports whether the receive FIFO holds no payloads.
func (f FIFOStatus) RxEmpty() bool { return f&_FIFO_RX_EMPTY != 0 }

// RxFull reports whether all three receive FIFO slots are occupied.
func (f FIFOStatus) RxFull() bool { return f&_FIFO_RX_FULL != 0 }

// TxEmpty reports whether the transmit FIFO holds no payloads.
func (f FIFOStatus) TxEmpty() bool { return f&_FIFO_TX_EMPTY != 0 }

// TxFull reports whether all three transmit FIFO slots are occupied.
func (f FIFOStatus) TxFull() bool { return f&_FIFO_TX_FULL != 0 }

func (f FIFOStatus) String() string {
	return fmt.Sprintf("FIFOStatus(rxEmpty=%v rxFull=%v txEmpty=%v txFull=%v)",
		f.RxEmpty(), f.RxFull(), f.TxEmpty(), f.TxFull())
}
