package nrf24

// Level represents the logical level of a pin (Low or High).
type Level bool

const (
	Low  Level = false
	High Level = true
)

// SPI represents a generic SPI connection to the chip. Implementations
// must assert chip-select for the duration of each Tx call, clock the
// bytes most-significant-bit first in SPI mode 0, and release
// chip-select on every exit path.
type SPI interface {
	// Tx sends w and reads into r. len(r) must be >= len(w).
	Tx(w, r []byte) error
}

// Pin represents the chip-enable (CE) control line. It is driven
// exclusively by the driver's mode transitions.
type Pin interface {
	// Out sets the pin as output with the given level.
	Out(l Level) error
}

// Delay provides the blocking waits the chip's timing windows require
// (power-up settling, receive settling, CE pulse width, transmit-status
// polling). Implementations must guarantee that at least the requested
// real time elapses; the hardware misbehaves otherwise.
type Delay interface {
	// Ms blocks for at least n milliseconds.
	Ms(n uint32)
	// Us blocks for at least n microseconds.
	Us(n uint32)
}
