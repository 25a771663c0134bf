//go:build tinygo

package nrf24

import (
	"machine"
)

// tinygoPin adapts a machine.Pin to the Pin interface.
type tinygoPin struct {
	pin machine.Pin
}

func (p *tinygoPin) Out(l Level) error {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pin.Set(bool(l))
	return nil
}

// tinygoSPI adapts a machine.SPI to the SPI interface, driving the
// chip-select pin around each transfer.
type tinygoSPI struct {
	spi *machine.SPI
	cs  machine.Pin
}

func (s *tinygoSPI) Tx(w, r []byte) error {
	s.cs.Low()
	err := s.spi.Tx(w, r)
	s.cs.High()
	return err
}

// OpenTinyGo constructs the driver on top of a TinyGo SPI bus and pins.
// The bus must already be configured for mode 0, MSB first.
func OpenTinyGo(cfg Config, bus *machine.SPI, csPin, cePin machine.Pin) (*Device, error) {
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	csPin.High()

	return New(
		&tinygoSPI{spi: bus, cs: csPin},
		&tinygoPin{pin: cePin},
		SleepDelay{},
		cfg,
	)
}
