//go:build !tinygo

package nrf24

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// periphPin adapts a gpio.PinIO to the Pin interface.
type periphPin struct {
	gpio.PinIO
}

func (p *periphPin) Out(l Level) error {
	if l == High {
		return p.PinIO.Out(gpio.High)
	}
	return p.PinIO.Out(gpio.Low)
}

// periphConn adapts a spi.Conn to the SPI interface. periph asserts
// chip-select for the duration of each Tx.
type periphConn struct {
	conn spi.Conn
}

func (c *periphConn) Tx(w, r []byte) error {
	return c.conn.Tx(w, r)
}

// Options configures the Linux/periph.io adapter.
type Options struct {
	// Config is the radio configuration from NewConfig().Build().
	Config Config
	// CEPin is the GPIO pin number (BCM numbering) wired to CE.
	// Defaults to 25.
	CEPin int
	// SPIPath is the SPI bus device (e.g. "/dev/spidev0.0").
	// Defaults to "/dev/spidev0.0".
	SPIPath string
	// SPIClockHz is the SPI clock frequency. Defaults to 1MHz; the chip
	// tops out at 10MHz.
	SPIClockHz int
}

// Open initializes the periph.io host, opens the SPI bus and CE pin
// described by o and constructs the driver on top of them.
func Open(o Options) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}

	if o.SPIPath == "" {
		o.SPIPath = "/dev/spidev0.0"
	}
	port, err := spireg.Open(o.SPIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port: %w", err)
	}

	if o.SPIClockHz == 0 {
		o.SPIClockHz = 1000000
	}
	// Mode 0, 8 bits, MSB first: the chip's only framing.
	conn, err := port.Connect(physic.Frequency(o.SPIClockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to create SPI connection: %w", err)
	}

	if o.CEPin == 0 {
		o.CEPin = 25
	}
	ceName := fmt.Sprintf("GPIO%d", o.CEPin)
	cePin := gpioreg.ByName(ceName)
	if cePin == nil {
		port.Close()
		return nil, fmt.Errorf("failed to open CE pin %s", ceName)
	}

	dev, err := New(&periphConn{conn: conn}, &periphPin{PinIO: cePin}, SleepDelay{}, o.Config)
	if err != nil {
		port.Close()
		return nil, err
	}
	dev.closer = port.Close
	return dev, nil
}
