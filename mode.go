package nrf24

// Mode is the chip's operating state. Transitions happen only through
// the driver's own methods; nothing else toggles CE or the power-up bit.
type Mode byte

const (
	// ModePowerDown is the unpowered state. Registers are accessible but
	// the radio is off.
	ModePowerDown Mode = iota
	// ModeStandby is the powered idle state all operations start from.
	ModeStandby
	// ModeListening means the radio is actively receiving on the open
	// pipes.
	ModeListening
	// ModeTransmitting is the transient state while the chip sends the
	// queued payload. The chip returns to standby on its own.
	ModeTransmitting
)

func (m Mode) String() string {
	switch m {
	case ModePowerDown:
		return "power-down"
	case ModeStandby:
		return "standby"
	case ModeListening:
		return "listening"
	case ModeTransmitting:
		return "transmitting"
	default:
		return "unknown"
	}
}

// Hardware timing windows. The power-up settle covers the 1.5ms
// oscillator start-up plus the worst-case reset settling the datasheet
// describes; short-changing any of these produces registers that do not
// stick or packets that never leave the FIFO.
const (
	powerUpSettleMs  = 5
	rxSettleUs       = 130
	cePulseUs        = 10
	txPollIntervalUs = 100
	txPollMarginUs   = 50000
)

func (d *Device) setCE(level Level) error {
	if err := d.ce.Out(level); err != nil {
		return wrapTransport("ce pin", err)
	}
	return nil
}

// powerUp moves PowerDown -> Standby and blocks until the oscillator has
// settled. No-op when already powered.
func (d *Device) powerUp() error {
	if d.mode != ModePowerDown {
		return nil
	}
	d.configReg |= _PWR_UP
	if _, err := d.writeRegister(_CONFIG, d.configReg); err != nil {
		return err
	}
	d.delay.Ms(powerUpSettleMs)
	d.mode = ModeStandby
	return nil
}

// powerDown drops the radio into its lowest-power state. CE goes low
// first so no mode is active while the power-up bit clears.
func (d *Device) powerDown() error {
	if err := d.setCE(Low); err != nil {
		return err
	}
	d.configReg &^= _PWR_UP
	if _, err := d.writeRegister(_CONFIG, d.configReg); err != nil {
		return err
	}
	d.mode = ModePowerDown
	return nil
}

// enterListening moves Standby -> Listening: receive-mode bit, CE high,
// then the mandatory settle before the chip actually hears anything.
func (d *Device) enterListening() error {
	d.configReg |= _PRIM_RX
	if _, err := d.writeRegister(_CONFIG, d.configReg); err != nil {
		return err
	}
	if err := d.setCE(High); err != nil {
		return err
	}
	d.delay.Us(rxSettleUs)
	d.mode = ModeListening
	return nil
}

// exitListening moves Listening -> Standby, abandoning any in-flight
// reception.
func (d *Device) exitListening() error {
	if err := d.setCE(Low); err != nil {
		return err
	}
	d.configReg &^= _PRIM_RX
	if _, err := d.writeRegister(_CONFIG, d.configReg); err != nil {
		return err
	}
	d.mode = ModeStandby
	return nil
}

// pulseCE kicks off transmission of the queued payload. The chip sends
// autonomously and falls back to standby once the FIFO drains or the
// retry budget runs out; callers poll STATUS for the outcome.
func (d *Device) pulseCE() error {
	d.mode = ModeTransmitting
	if err := d.setCE(High); err != nil {
		d.mode = ModeStandby
		return err
	}
	d.delay.Us(cePulseUs)
	err := d.setCE(Low)
	d.mode = ModeStandby
	return err
}
