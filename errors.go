package nrf24

import "errors"

var (
	// ErrTransport wraps an SPI transfer failure. The driver never
	// retries a failed transfer; retry policy belongs to callers.
	ErrTransport = errors.New("spi transfer failed")

	// ErrInvalidConfig is returned by configuration setters when a value
	// falls outside the chip's register encoding range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidAddressLength is returned when a pipe address does not
	// match the configured address width.
	ErrInvalidAddressLength = errors.New("address length does not match configured width")

	// ErrInvalidPipe is returned for pipe numbers outside 0-5, or when a
	// pipe's addressing preconditions are not met.
	ErrInvalidPipe = errors.New("invalid pipe")

	// ErrPayloadTooLarge is returned for payloads outside 1-32 bytes.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrSizeMismatch is returned when a payload or buffer does not
	// match the configured static payload width.
	ErrSizeMismatch = errors.New("payload size does not match configured width")

	// ErrNotConnected means the chip did not echo a register back as
	// expected; usually a wiring or power problem.
	ErrNotConnected = errors.New("chip not responding")

	// ErrNotListening is returned by Read when the radio is not in
	// listening mode.
	ErrNotListening = errors.New("radio is not listening")

	// ErrMaxRetransmits means the hardware retry budget was exhausted
	// without an acknowledgement. The TX FIFO has been flushed, so a
	// subsequent Write is safe.
	ErrMaxRetransmits = errors.New("max retransmissions reached")

	// ErrCorruptPayload means the chip reported a dynamic payload length
	// over 32 bytes. The RX FIFO has been flushed.
	ErrCorruptPayload = errors.New("corrupt payload length reported")

	// ErrTimeout means the chip asserted neither the data-sent nor the
	// max-retransmit flag within the worst-case retry window.
	ErrTimeout = errors.New("timeout waiting for device")
)
