package nrf24

import "fmt"

// pipe0Owner tracks who the pipe 0 address register currently belongs
// to. Pipe 0 doubles as the auto-ack return path during transmission,
// so a user-configured reading address must be restored whenever the
// radio goes back to listening.
type pipe0Owner byte

const (
	pipe0Unowned pipe0Owner = iota
	pipe0User
	pipe0TxShadow
)

// OpenWritingPipe sets the transmit address. The same address is written
// to pipe 0 when auto-ack is enabled, because acknowledgements come back
// as normal packets addressed to the transmitter. The address must be
// exactly the configured width.
func (d *Device) OpenWritingPipe(addr []byte) error {
	if len(addr) != int(d.config.addressWidth) {
		return fmt.Errorf("%w: got %d bytes, width is %d",
			ErrInvalidAddressLength, len(addr), d.config.addressWidth)
	}
	if _, err := d.writeRegisterN(_TX_ADDR, addr); err != nil {
		return err
	}
	copy(d.txAddr[:], addr)
	d.txAddrSet = true

	if d.config.autoAck {
		if err := d.shadowPipe0(); err != nil {
			return err
		}
		if err := d.configurePipeWidth(0); err != nil {
			return err
		}
		if err := d.setRegisterBits(_EN_RXADDR, 1<<0); err != nil {
			return err
		}
		if err := d.setRegisterBits(_EN_AA, 1<<0); err != nil {
			return err
		}
	}
	globalLogger.Debug("Writing pipe opened")
	return nil
}

// OpenReadingPipe assigns an address to a receive pipe and enables it.
// Pipes 0 and 1 take a full address of the configured width. Pipes 2-5
// share pipe 1's high-order bytes and take a single low byte; pipe 1
// must already be open for them.
func (d *Device) OpenReadingPipe(pipe int, addr []byte) error {
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %d is not in 0-5", ErrInvalidPipe, pipe)
	}

	switch {
	case pipe <= 1:
		if len(addr) != int(d.config.addressWidth) {
			return fmt.Errorf("%w: pipe %d needs %d bytes, got %d",
				ErrInvalidAddressLength, pipe, d.config.addressWidth, len(addr))
		}
		if _, err := d.writeRegisterN(byte(_RX_ADDR_P0+pipe), addr); err != nil {
			return err
		}
		if pipe == 0 {
			copy(d.pipe0Addr[:], addr)
			d.pipe0Owner = pipe0User
			d.pipe0UserSet = true
		} else {
			d.pipe1Open = true
		}
	default:
		if !d.pipe1Open {
			return fmt.Errorf("%w: pipe %d shares pipe 1's address, open pipe 1 first",
				ErrInvalidPipe, pipe)
		}
		if len(addr) != 1 {
			return fmt.Errorf("%w: pipe %d takes a single low byte, got %d bytes",
				ErrInvalidAddressLength, pipe, len(addr))
		}
		if _, err := d.writeRegister(byte(_RX_ADDR_P0+pipe), addr[0]); err != nil {
			return err
		}
	}

	if err := d.configurePipeWidth(pipe); err != nil {
		return err
	}
	if err := d.setRegisterBits(_EN_RXADDR, 1<<pipe); err != nil {
		return err
	}
	if d.config.autoAck {
		if err := d.setRegisterBits(_EN_AA, 1<<pipe); err != nil {
			return err
		}
	} else {
		if err := d.clearRegisterBits(_EN_AA, 1<<pipe); err != nil {
			return err
		}
	}
	globalLogger.Debug("Reading pipe opened")
	return nil
}

// CloseReadingPipe disables a receive pipe and its auto-ack bit.
func (d *Device) CloseReadingPipe(pipe int) error {
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %d is not in 0-5", ErrInvalidPipe, pipe)
	}
	if err := d.clearRegisterBits(_EN_RXADDR, 1<<pipe); err != nil {
		return err
	}
	if err := d.clearRegisterBits(_EN_AA, 1<<pipe); err != nil {
		return err
	}
	if pipe == 0 {
		d.pipe0UserSet = false
		if d.pipe0Owner == pipe0User {
			d.pipe0Owner = pipe0Unowned
		}
	}
	if pipe == 1 {
		d.pipe1Open = false
	}
	return nil
}

// configurePipeWidth programs the pipe's payload sizing: the DYNPD bit
// when dynamic payloads are on, the static width register otherwise.
func (d *Device) configurePipeWidth(pipe int) error {
	if d.config.dynamicPayload {
		return d.setRegisterBits(_DYNPD, 1<<pipe)
	}
	_, err := d.writeRegister(byte(_RX_PW_P0+pipe), d.config.payloadSize)
	return err
}

// shadowPipe0 points pipe 0 at the transmit address so the auto-ack
// reply can be received.
func (d *Device) shadowPipe0() error {
	if _, err := d.writeRegisterN(_RX_ADDR_P0, d.txAddr[:d.config.addressWidth]); err != nil {
		return err
	}
	d.pipe0Owner = pipe0TxShadow
	return nil
}

// restorePipe0 undoes the transmit shadow if the user had opened pipe 0
// for reading. Called on the way back into listening mode.
func (d *Device) restorePipe0() error {
	if !d.pipe0UserSet || d.pipe0Owner == pipe0User {
		return nil
	}
	if _, err := d.writeRegisterN(_RX_ADDR_P0, d.pipe0Addr[:d.config.addressWidth]); err != nil {
		return err
	}
	d.pipe0Owner = pipe0User
	return nil
}
