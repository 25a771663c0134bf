// Package nrf24 drives the NRF24L01+ 2.4GHz transceiver over SPI plus a
// chip-enable line. The driver is synchronous and single-threaded: every
// operation runs to completion on the calling goroutine, and the SPI
// bus, CE pin and delay provider are exclusively owned by the Device for
// its lifetime. It performs no internal locking; callers that share a
// Device across goroutines must serialize access themselves.
package nrf24

import "fmt"

// Device is a handle to one NRF24L01+ chip. Construct it with New (or
// the Open helpers in the hardware adapters).
type Device struct {
	spi   SPI
	ce    Pin
	delay Delay

	config    Config
	mode      Mode
	configReg byte // cached CONFIG register value

	txAddr       [5]byte
	txAddrSet    bool
	pipe0Addr    [5]byte
	pipe0UserSet bool
	pipe0Owner   pipe0Owner
	pipe1Open    bool

	closer  func() error
	scratch [33]byte // max payload (32) + 1 command/status byte
}

// nopBytes is clocked out while reading payload bytes back.
var nopBytes = func() [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = _NOP
	}
	return b
}()

func wrapTransport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

// New initializes the chip behind the given bus, CE line and delay
// provider, applies cfg, powers the radio up into standby and verifies
// the chip answers. cfg must come from NewConfig().Build().
func New(spi SPI, ce Pin, delay Delay, cfg Config) (*Device, error) {
	if spi == nil || ce == nil || delay == nil {
		return nil, fmt.Errorf("%w: spi, ce and delay handles are required", ErrInvalidConfig)
	}
	if cfg.addressWidth == 0 {
		return nil, fmt.Errorf("%w: zero Config, use NewConfig().Build()", ErrInvalidConfig)
	}

	d := &Device{
		spi:    spi,
		ce:     ce,
		delay:  delay,
		config: cfg,
		mode:   ModePowerDown,
	}

	globalLogger.Info("Initializing NRF24L01 radio")

	if err := d.setCE(Low); err != nil {
		return nil, err
	}
	// The radio needs settling time after power-on or reset before
	// configuration bits reliably stick.
	d.delay.Ms(powerUpSettleMs)

	if err := d.applyConfig(); err != nil {
		return nil, err
	}
	if err := d.clearStatusFlags(_RX_DR | _TX_DS | _MAX_RT); err != nil {
		return nil, err
	}
	if err := d.FlushTX(); err != nil {
		return nil, err
	}
	if err := d.FlushRX(); err != nil {
		return nil, err
	}
	if err := d.powerUp(); err != nil {
		return nil, err
	}

	// Read a just-written register back; a floating or absent chip
	// returns anything but the channel.
	ch, _, err := d.readRegister(_RF_CH)
	if err != nil {
		return nil, err
	}
	if ch != cfg.channel {
		return nil, fmt.Errorf("%w: channel register reads 0x%02X, wrote %d (check wiring and power)",
			ErrNotConnected, ch, cfg.channel)
	}

	globalLogger.Info("NRF24L01 initialized, radio in standby")
	return d, nil
}

// applyConfig writes every configuration register in a fixed order:
// address width before any pipe address can be written, RF parameters
// before the radio leaves power-down. The chip is held powered down
// throughout so no intermediate state is ever live.
func (d *Device) applyConfig() error {
	writes := []struct {
		reg byte
		val byte
	}{
		{_CONFIG, 0}, // known state: powered down, no CRC, PTX
		{_SETUP_AW, d.config.addressWidth - 2},
		{_SETUP_RETR, d.config.setupRetr()},
		{_RF_CH, d.config.channel},
		{_RF_SETUP, d.config.rfSetup()},
		{_CONFIG, d.config.crcBits()},
		{_FEATURE, d.featureBits()},
		{_DYNPD, 0}, // per-pipe bits are set as pipes open
	}
	for _, w := range writes {
		if _, err := d.writeRegister(w.reg, w.val); err != nil {
			return err
		}
	}
	d.configReg = d.config.crcBits()
	return nil
}

// featureBits encodes the FEATURE register. W_TX_PAYLOAD_NOACK is always
// allowed so WriteNoAck works regardless of payload sizing.
func (d *Device) featureBits() byte {
	v := byte(_EN_DYN_ACK)
	if d.config.dynamicPayload {
		v |= _EN_DPL
	}
	if d.config.ackPayloads {
		v |= _EN_ACK_PAY
	}
	return v
}

// --- Register/command protocol layer ---

// transfer runs one full-duplex SPI transaction over the scratch buffer.
// The first byte shifted back is always the chip's live status.
func (d *Device) transfer(n int) (Status, []byte, error) {
	buf := d.scratch[:n]
	if err := d.spi.Tx(buf, buf); err != nil {
		return 0, nil, wrapTransport("transfer", err)
	}
	return Status(d.scratch[0]), d.scratch[1:n], nil
}

func (d *Device) readRegister(reg byte) (byte, Status, error) {
	d.scratch[0] = _R_REGISTER | reg
	d.scratch[1] = _NOP
	st, data, err := d.transfer(2)
	if err != nil {
		return 0, 0, err
	}
	return data[0], st, nil
}

func (d *Device) writeRegister(reg, val byte) (Status, error) {
	d.scratch[0] = _W_REGISTER | reg
	d.scratch[1] = val
	st, _, err := d.transfer(2)
	return st, err
}

func (d *Device) writeRegisterN(reg byte, data []byte) (Status, error) {
	d.scratch[0] = _W_REGISTER | reg
	copy(d.scratch[1:], data)
	st, _, err := d.transfer(1 + len(data))
	return st, err
}

// sendCommand transmits a command opcode followed by payload and returns
// the status byte plus whatever the chip clocked back in the payload
// positions. The response aliases the internal scratch buffer; copy it
// out before the next transaction.
func (d *Device) sendCommand(op byte, payload []byte) (Status, []byte, error) {
	d.scratch[0] = op
	copy(d.scratch[1:], payload)
	return d.transfer(1 + len(payload))
}

func (d *Device) setRegisterBits(reg, mask byte) error {
	v, _, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	_, err = d.writeRegister(reg, v|mask)
	return err
}

func (d *Device) clearRegisterBits(reg, mask byte) error {
	v, _, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	_, err = d.writeRegister(reg, v&^mask)
	return err
}

// clearStatusFlags writes the given interrupt flags back to STATUS,
// which is how the chip clears them.
func (d *Device) clearStatusFlags(flags byte) error {
	_, err := d.writeRegister(_STATUS, flags)
	return err
}

// --- Receive path ---

// StartListening puts the radio into receive mode on the open pipes.
// Pipe 0's reading address is restored first if a previous transmit
// shadowed it with the transmit address.
func (d *Device) StartListening() error {
	if d.mode == ModeListening {
		return nil
	}
	if err := d.powerUp(); err != nil {
		return err
	}
	if err := d.restorePipe0(); err != nil {
		return err
	}
	if err := d.enterListening(); err != nil {
		return err
	}
	globalLogger.Debug("Radio listening")
	return nil
}

// StopListening returns the radio to standby, abandoning any in-flight
// reception.
func (d *Device) StopListening() error {
	if d.mode != ModeListening {
		return nil
	}
	return d.exitListening()
}

// DataAvailable reports whether the receive FIFO holds at least one
// payload. It is false until StartListening has run and a packet has
// arrived.
func (d *Device) DataAvailable() (bool, error) {
	fs, _, err := d.readRegister(_FIFO_STATUS)
	if err != nil {
		return false, err
	}
	return !FIFOStatus(fs).RxEmpty(), nil
}

// DataAvailableOnPipe reports which pipe the payload at the head of the
// receive FIFO arrived on. ok is false when the FIFO is empty.
func (d *Device) DataAvailableOnPipe() (pipe int, ok bool, err error) {
	avail, err := d.DataAvailable()
	if err != nil || !avail {
		return -1, false, err
	}
	st, _, err := d.sendCommand(_NOP, nil)
	if err != nil {
		return -1, false, err
	}
	p := st.RxPipe()
	return p, p >= 0, nil
}

// Read drains the payload at the head of the receive FIFO into buf and
// returns its length. The radio must be listening. With dynamic payloads
// the length comes from the chip; a reported length outside 1-32 means
// the FIFO is corrupt, in which case it is flushed and ErrCorruptPayload
// returned rather than reading garbage.
func (d *Device) Read(buf []byte) (int, error) {
	if d.mode != ModeListening {
		return 0, ErrNotListening
	}

	var n int
	if d.config.dynamicPayload {
		_, resp, err := d.sendCommand(_R_RX_PL_WID, nopBytes[:1])
		if err != nil {
			return 0, err
		}
		w := resp[0]
		if w == 0 || w > _MAX_PAYLOAD_BYTES {
			if err := d.FlushRX(); err != nil {
				return 0, err
			}
			if err := d.clearStatusFlags(_RX_DR); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: chip reported %d bytes", ErrCorruptPayload, w)
		}
		n = int(w)
	} else {
		n = int(d.config.payloadSize)
	}

	if len(buf) < n {
		return 0, fmt.Errorf("%w: payload is %d bytes, buffer holds %d", ErrSizeMismatch, n, len(buf))
	}

	_, resp, err := d.sendCommand(_R_RX_PAYLOAD, nopBytes[:n])
	if err != nil {
		return 0, err
	}
	// Copy out before the status write-back reuses the scratch buffer.
	copy(buf, resp)

	if err := d.clearStatusFlags(_RX_DR); err != nil {
		return 0, err
	}
	return n, nil
}

// --- Transmit path ---

// Write queues payload, transmits it and blocks until the chip reports
// the outcome. With auto-ack enabled, success means the receiver
// acknowledged; exhausting the hardware retry budget flushes the stuck
// payload and returns ErrMaxRetransmits, after which a retry is safe.
// Write leaves the radio in standby; call StartListening again to
// resume receiving.
func (d *Device) Write(payload []byte) error {
	return d.write(payload, false)
}

// WriteNoAck transmits with the no-acknowledgement flag set in the
// packet header, telling the receiver not to reply. Useful for
// broadcasts where retransmission is pointless.
func (d *Device) WriteNoAck(payload []byte) error {
	return d.write(payload, true)
}

func (d *Device) write(payload []byte, noAck bool) error {
	if d.config.dynamicPayload {
		if len(payload) < 1 || len(payload) > _MAX_PAYLOAD_BYTES {
			return fmt.Errorf("%w: %d bytes, limit is %d", ErrPayloadTooLarge, len(payload), _MAX_PAYLOAD_BYTES)
		}
	} else if len(payload) != int(d.config.payloadSize) {
		return fmt.Errorf("%w: got %d bytes, static width is %d", ErrSizeMismatch, len(payload), d.config.payloadSize)
	}
	if !d.txAddrSet {
		return fmt.Errorf("%w: no writing pipe open", ErrInvalidPipe)
	}

	if d.mode == ModeListening {
		if err := d.exitListening(); err != nil {
			return err
		}
	}
	if err := d.powerUp(); err != nil {
		return err
	}

	// The ack reply comes back addressed to us on pipe 0; make sure it
	// still points at the transmit address.
	if d.config.autoAck && !noAck && d.pipe0Owner != pipe0TxShadow {
		if err := d.shadowPipe0(); err != nil {
			return err
		}
	}

	// A payload stranded by an earlier failure blocks the queue.
	fs, _, err := d.readRegister(_FIFO_STATUS)
	if err != nil {
		return err
	}
	if !FIFOStatus(fs).TxEmpty() {
		globalLogger.Warn("Stale payload in TX FIFO, flushing")
		if err := d.FlushTX(); err != nil {
			return err
		}
	}

	op := byte(_W_TX_PAYLOAD)
	if noAck {
		op = _W_TX_PAYLOAD_NOACK
	}
	n := len(payload)
	if !d.config.dynamicPayload {
		n = int(d.config.payloadSize)
	}
	d.scratch[0] = op
	for i := 1; i <= n; i++ {
		d.scratch[i] = 0
	}
	copy(d.scratch[1:], payload)
	if _, _, err := d.transfer(1 + n); err != nil {
		return err
	}

	if err := d.pulseCE(); err != nil {
		return err
	}
	return d.waitForTransmit()
}

// waitForTransmit polls STATUS until the chip reports data sent or the
// retransmit budget exhausted, bounded by the worst-case hardware retry
// time plus a scheduling margin.
func (d *Device) waitForTransmit() error {
	retryDelay, retryCount := d.config.AutoRetransmit()
	budget := uint32(retryDelay)*(uint32(retryCount)+1) + txPollMarginUs

	for waited := uint32(0); ; waited += txPollIntervalUs {
		st, _, err := d.sendCommand(_NOP, nil)
		if err != nil {
			return err
		}
		switch {
		case st.DataSent():
			return d.clearStatusFlags(_TX_DS)
		case st.MaxRetries():
			// The unacknowledged payload stays in the FIFO and would
			// block every future write; flush before reporting.
			if err := d.FlushTX(); err != nil {
				return err
			}
			if err := d.clearStatusFlags(_MAX_RT); err != nil {
				return err
			}
			return fmt.Errorf("%w after %d attempts", ErrMaxRetransmits, retryCount)
		case waited >= budget:
			if err := d.FlushTX(); err != nil {
				return err
			}
			if err := d.clearStatusFlags(_TX_DS | _MAX_RT); err != nil {
				return err
			}
			return fmt.Errorf("%w: no outcome within %dus", ErrTimeout, waited)
		}
		d.delay.Us(txPollIntervalUs)
	}
}

// WriteAckPayload queues data to be attached to the next acknowledgement
// sent from the given pipe. Requires the AckPayloads configuration.
func (d *Device) WriteAckPayload(pipe int, data []byte) error {
	if !d.config.ackPayloads {
		return fmt.Errorf("%w: ack payloads not enabled", ErrInvalidConfig)
	}
	if pipe < 0 || pipe > 5 {
		return fmt.Errorf("%w: %d is not in 0-5", ErrInvalidPipe, pipe)
	}
	if len(data) < 1 || len(data) > _MAX_PAYLOAD_BYTES {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrPayloadTooLarge, len(data), _MAX_PAYLOAD_BYTES)
	}
	_, _, err := d.sendCommand(_W_ACK_PAYLOAD|byte(pipe), data)
	return err
}

// --- Runtime configuration ---

// SetChannel retunes the radio. Valid range is 0 to 125.
func (d *Device) SetChannel(ch byte) error {
	if ch > 125 {
		return fmt.Errorf("%w: channel: %d is out of range 0-125", ErrInvalidConfig, ch)
	}
	if _, err := d.writeRegister(_RF_CH, ch); err != nil {
		return err
	}
	d.config.channel = ch
	return nil
}

// SetDataRate changes the air data rate. Both ends of a link must agree.
func (d *Device) SetDataRate(rate DataRate) error {
	if rate > DataRate2mbps {
		return fmt.Errorf("%w: dataRate: unknown rate %d", ErrInvalidConfig, rate)
	}
	d.config.dataRate = rate
	_, err := d.writeRegister(_RF_SETUP, d.config.rfSetup())
	return err
}

// SetPALevel changes the power amplifier output level.
func (d *Device) SetPALevel(level PALevel) error {
	if level > PALevelMax {
		return fmt.Errorf("%w: paLevel: unknown level %d", ErrInvalidConfig, level)
	}
	d.config.paLevel = level
	_, err := d.writeRegister(_RF_SETUP, d.config.rfSetup())
	return err
}

// SetAutoRetransmit reconfigures the hardware retry delay (250-4000us,
// multiple of 250) and count (0-15).
func (d *Device) SetAutoRetransmit(delayUs uint16, count byte) error {
	if delayUs < 250 || delayUs > 4000 || delayUs%250 != 0 {
		return fmt.Errorf("%w: retryDelay: %dus is not a multiple of 250 in 250-4000", ErrInvalidConfig, delayUs)
	}
	if count > 15 {
		return fmt.Errorf("%w: retryCount: %d is out of range 0-15", ErrInvalidConfig, count)
	}
	d.config.retryDelayUs = delayUs
	d.config.retryCount = count
	_, err := d.writeRegister(_SETUP_RETR, d.config.setupRetr())
	return err
}

// --- Power and lifecycle ---

// PowerUp wakes the radio from power-down into standby, blocking for the
// oscillator settle time. No-op when already powered.
func (d *Device) PowerUp() error { return d.powerUp() }

// PowerDown puts the radio into its lowest-power state. Intended for
// explicit shutdown; normal operation cycles through standby instead.
func (d *Device) PowerDown() error { return d.powerDown() }

// Mode returns the driver's view of the chip's operating state.
func (d *Device) Mode() Mode { return d.mode }

// Close powers the radio down and releases any bus resources an adapter
// attached.
func (d *Device) Close() error {
	if err := d.powerDown(); err != nil {
		return err
	}
	globalLogger.Info("NRF24L01 powered down")
	if d.closer != nil {
		return d.closer()
	}
	return nil
}

// --- Diagnostics ---

// IsConnected round-trips the address-width register and checks the chip
// answers with a legal encoding. A floating bus reads 0x00 or 0xFF.
func (d *Device) IsConnected() (bool, error) {
	aw, _, err := d.readRegister(_SETUP_AW)
	if err != nil {
		return false, err
	}
	return aw >= 1 && aw <= 3, nil
}

// Status reads the live status byte via a NOP command.
func (d *Device) Status() (Status, error) {
	st, _, err := d.sendCommand(_NOP, nil)
	return st, err
}

// FIFOStatus reads the FIFO_STATUS register.
func (d *Device) FIFOStatus() (FIFOStatus, error) {
	fs, _, err := d.readRegister(_FIFO_STATUS)
	return FIFOStatus(fs), err
}

// RetransmissionCounters returns the lost-packet counter (resets on
// channel change) and the retry count of the most recent transmission.
func (d *Device) RetransmissionCounters() (lostPackets, lastRetries byte, err error) {
	v, _, err := d.readRegister(_OBSERVE_TX)
	if err != nil {
		return 0, 0, err
	}
	return v >> 4, v & 0x0F, nil
}

// IsCarrierDetected reports whether the chip hears a signal above
// -64dBm on the current channel. Handy for crude clear-channel checks.
func (d *Device) IsCarrierDetected() (bool, error) {
	v, _, err := d.readRegister(_RPD)
	if err != nil {
		return false, err
	}
	return v&0x01 != 0, nil
}

// FlushTX discards every payload in the transmit FIFO.
func (d *Device) FlushTX() error {
	_, _, err := d.sendCommand(_FLUSH_TX, nil)
	return err
}

// FlushRX discards every payload in the receive FIFO.
func (d *Device) FlushRX() error {
	_, _, err := d.sendCommand(_FLUSH_RX, nil)
	return err
}

func (d *Device) String() string {
	return fmt.Sprintf("NRF24L01(%s mode=%s)", d.config, d.mode)
}
