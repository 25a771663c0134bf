package nrf24

import "fmt"

type (
	// DataRate is the configured air data rate.
	DataRate byte
	// PALevel is the power amplifier output level.
	PALevel byte
	// CRCLength is the CRC encoding width appended to each packet.
	CRCLength byte
)

const (
	// DataRate250kbps represents a data rate of 250kbps.
	DataRate250kbps DataRate = iota
	// DataRate1mbps represents a data rate of 1mbps.
	DataRate1mbps
	// DataRate2mbps represents a data rate of 2mbps.
	DataRate2mbps
)

func (d DataRate) String() string {
	switch d {
	case DataRate250kbps:
		return "250kbps"
	case DataRate1mbps:
		return "1mbps"
	case DataRate2mbps:
		return "2mbps"
	default:
		return "unknown"
	}
}

const (
	// PALevelMin represents a power amplifier level of -18dBm.
	PALevelMin PALevel = iota
	// PALevelLow represents a power amplifier level of -12dBm.
	PALevelLow
	// PALevelHigh represents a power amplifier level of -6dBm.
	PALevelHigh
	// PALevelMax represents a power amplifier level of 0dBm.
	PALevelMax
)

func (p PALevel) String() string {
	switch p {
	case PALevelMin:
		return "-18dBm"
	case PALevelLow:
		return "-12dBm"
	case PALevelHigh:
		return "-6dBm"
	case PALevelMax:
		return "0dBm"
	default:
		return "unknown"
	}
}

const (
	// CRCDisabled disables the CRC.
	CRCDisabled CRCLength = iota
	// CRC8 appends a 1-byte CRC.
	CRC8
	// CRC16 appends a 2-byte CRC.
	CRC16
)

func (c CRCLength) String() string {
	switch c {
	case CRCDisabled:
		return "disabled"
	case CRC8:
		return "8-bit"
	case CRC16:
		return "16-bit"
	default:
		return "unknown"
	}
}

// Config is an immutable, validated radio configuration. Build one with
// NewConfig; the zero value is not usable.
type Config struct {
	channel        byte
	dataRate       DataRate
	paLevel        PALevel
	crcLength      CRCLength
	addressWidth   byte
	retryDelayUs   uint16
	retryCount     byte
	payloadSize    byte
	dynamicPayload bool
	autoAck        bool
	ackPayloads    bool
}

// Channel returns the configured RF channel (0-125).
func (c Config) Channel() byte { return c.channel }

// DataRate returns the configured air data rate.
func (c Config) DataRate() DataRate { return c.dataRate }

// PALevel returns the configured power amplifier level.
func (c Config) PALevel() PALevel { return c.paLevel }

// CRCLength returns the configured CRC width.
func (c Config) CRCLength() CRCLength { return c.crcLength }

// AddressWidth returns the configured address width in bytes (3-5).
func (c Config) AddressWidth() byte { return c.addressWidth }

// AutoRetransmit returns the retransmit delay in microseconds and the
// retransmit count.
func (c Config) AutoRetransmit() (delayUs uint16, count byte) {
	return c.retryDelayUs, c.retryCount
}

// PayloadSize returns the static payload width. Meaningless when
// DynamicPayload is true.
func (c Config) PayloadSize() byte { return c.payloadSize }

// DynamicPayload reports whether per-packet payload lengths are used.
func (c Config) DynamicPayload() bool { return c.dynamicPayload }

// AutoAck reports whether hardware auto-acknowledgement is enabled.
func (c Config) AutoAck() bool { return c.autoAck }

// AckPayloads reports whether payloads may be attached to ACK packets.
func (c Config) AckPayloads() bool { return c.ackPayloads }

func (c Config) String() string {
	return fmt.Sprintf("Config(channel=%d rate=%s power=%s crc=%s addrWidth=%d retries=%d@%dus dynamic=%v autoAck=%v)",
		c.channel, c.dataRate, c.paLevel, c.crcLength, c.addressWidth,
		c.retryCount, c.retryDelayUs, c.dynamicPayload, c.autoAck)
}

// rfSetup encodes the RF_SETUP register value for the configured data
// rate and PA level.
func (c Config) rfSetup() byte {
	var v byte
	switch c.dataRate {
	case DataRate1mbps:
		// RF_DR_HIGH = 0, RF_DR_LOW = 0
	case DataRate2mbps:
		v |= _RF_DR_HIGH
	case DataRate250kbps:
		v |= _RF_DR_LOW
	}
	v |= byte(c.paLevel) << 1
	return v
}

// crcBits encodes the CONFIG register CRC bits.
func (c Config) crcBits() byte {
	switch c.crcLength {
	case CRC8:
		return _EN_CRC
	case CRC16:
		return _EN_CRC | _CRCO
	default:
		return 0
	}
}

// setupRetr encodes the SETUP_RETR register value.
func (c Config) setupRetr() byte {
	ard := byte(c.retryDelayUs/250-1) & 0x0F
	arc := c.retryCount & 0x0F
	return ard<<4 | arc
}

// ConfigBuilder assembles a Config through validating setters. The first
// out-of-range value is recorded and reported by Build; subsequent
// setters keep the builder usable but do not overwrite the error.
type ConfigBuilder struct {
	cfg Config
	err error
}

// NewConfig returns a builder primed with the documented defaults:
// channel 76, 1mbps, max power, 16-bit CRC, 5-byte addresses, 5 retries
// at the minimum 250us delay, auto-ack on, static 32-byte payloads.
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: Config{
		channel:      76,
		dataRate:     DataRate1mbps,
		paLevel:      PALevelMax,
		crcLength:    CRC16,
		addressWidth: 5,
		retryDelayUs: 250,
		retryCount:   5,
		payloadSize:  32,
		autoAck:      true,
	}}
}

func (b *ConfigBuilder) fail(field string, format string, args ...interface{}) *ConfigBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
	}
	return b
}

// Channel sets the RF channel. Valid range is 0 to 125.
func (b *ConfigBuilder) Channel(ch byte) *ConfigBuilder {
	if ch > 125 {
		return b.fail("channel", "%d is out of range 0-125", ch)
	}
	b.cfg.channel = ch
	return b
}

// DataRate sets the air data rate.
func (b *ConfigBuilder) DataRate(rate DataRate) *ConfigBuilder {
	if rate > DataRate2mbps {
		return b.fail("dataRate", "unknown rate %d", rate)
	}
	b.cfg.dataRate = rate
	return b
}

// PALevel sets the power amplifier level.
func (b *ConfigBuilder) PALevel(level PALevel) *ConfigBuilder {
	if level > PALevelMax {
		return b.fail("paLevel", "unknown level %d", level)
	}
	b.cfg.paLevel = level
	return b
}

// CRCLength sets the CRC width.
func (b *ConfigBuilder) CRCLength(length CRCLength) *ConfigBuilder {
	if length > CRC16 {
		return b.fail("crcLength", "unknown length %d", length)
	}
	b.cfg.crcLength = length
	return b
}

// AddressWidth sets the pipe address width in bytes. Valid range is 3
// to 5.
func (b *ConfigBuilder) AddressWidth(width byte) *ConfigBuilder {
	if width < 3 || width > 5 {
		return b.fail("addressWidth", "%d is out of range 3-5", width)
	}
	b.cfg.addressWidth = width
	return b
}

// AutoRetransmit sets the retransmit delay in microseconds (250-4000,
// multiple of 250) and count (0-15). A count of 0 disables hardware
// retransmission.
func (b *ConfigBuilder) AutoRetransmit(delayUs uint16, count byte) *ConfigBuilder {
	if delayUs < 250 || delayUs > 4000 || delayUs%250 != 0 {
		return b.fail("retryDelay", "%dus is not a multiple of 250 in 250-4000", delayUs)
	}
	if count > 15 {
		return b.fail("retryCount", "%d is out of range 0-15", count)
	}
	b.cfg.retryDelayUs = delayUs
	b.cfg.retryCount = count
	return b
}

// PayloadSize sets the static payload width in bytes (1-32) and
// disables dynamic payload lengths.
func (b *ConfigBuilder) PayloadSize(size byte) *ConfigBuilder {
	if size < 1 || size > _MAX_PAYLOAD_BYTES {
		return b.fail("payloadSize", "%d is out of range 1-32", size)
	}
	b.cfg.payloadSize = size
	b.cfg.dynamicPayload = false
	return b
}

// DynamicPayload enables per-packet payload lengths negotiated over the
// air instead of a static width.
func (b *ConfigBuilder) DynamicPayload() *ConfigBuilder {
	b.cfg.dynamicPayload = true
	return b
}

// AutoAck enables or disables hardware auto-acknowledgement for pipes
// opened after construction.
func (b *ConfigBuilder) AutoAck(enabled bool) *ConfigBuilder {
	b.cfg.autoAck = enabled
	return b
}

// AckPayloads enables attaching payloads to ACK packets. Requires
// dynamic payloads and auto-ack; Build reports the conflict otherwise.
func (b *ConfigBuilder) AckPayloads() *ConfigBuilder {
	b.cfg.ackPayloads = true
	return b
}

// Build returns the finished Config, or the first validation error
// recorded by a setter.
func (b *ConfigBuilder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if b.cfg.ackPayloads && (!b.cfg.dynamicPayload || !b.cfg.autoAck) {
		return Config{}, fmt.Errorf("%w: ackPayloads: requires dynamic payloads and auto-ack", ErrInvalidConfig)
	}
	return b.cfg, nil
}
