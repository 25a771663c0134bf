package nrf24

// NRF24L01 register addresses.
const (
	_CONFIG      = 0x00
	_EN_AA       = 0x01
	_EN_RXADDR   = 0x02
	_SETUP_AW    = 0x03
	_SETUP_RETR  = 0x04
	_RF_CH       = 0x05
	_RF_SETUP    = 0x06
	_STATUS      = 0x07
	_OBSERVE_TX  = 0x08
	_RPD         = 0x09
	_RX_ADDR_P0  = 0x0A
	_RX_ADDR_P1  = 0x0B
	_RX_ADDR_P2  = 0x0C
	_RX_ADDR_P3  = 0x0D
	_RX_ADDR_P4  = 0x0E
	_RX_ADDR_P5  = 0x0F
	_TX_ADDR     = 0x10
	_RX_PW_P0    = 0x11
	_RX_PW_P1    = 0x12
	_RX_PW_P2    = 0x13
	_RX_PW_P3    = 0x14
	_RX_PW_P4    = 0x15
	_RX_PW_P5    = 0x16
	_FIFO_STATUS = 0x17
	_DYNPD       = 0x1C
	_FEATURE     = 0x1D
)

// SPI command opcodes. The register read/write opcodes are ORed with a
// 5-bit register address.
const (
	_R_REGISTER         = 0x00
	_W_REGISTER         = 0x20
	_R_RX_PL_WID        = 0x60
	_R_RX_PAYLOAD       = 0x61
	_W_TX_PAYLOAD       = 0xA0
	_W_ACK_PAYLOAD      = 0xA8 // + pipe (0-5)
	_W_TX_PAYLOAD_NOACK = 0xB0
	_FLUSH_TX           = 0xE1
	_FLUSH_RX           = 0xE2
	_NOP                = 0xFF
)

// CONFIG register bits.
const (
	_PRIM_RX = 1 << 0
	_PWR_UP  = 1 << 1
	_CRCO    = 1 << 2
	_EN_CRC  = 1 << 3
)

// STATUS register bits. The three interrupt flags are cleared by writing
// them back to the register.
const (
	_TX_FULL = 1 << 0
	_MAX_RT  = 1 << 4
	_TX_DS   = 1 << 5
	_RX_DR   = 1 << 6
)

// RF_SETUP register bits.
const (
	_RF_DR_HIGH = 1 << 3
	_RF_DR_LOW  = 1 << 5
)

// FIFO_STATUS register bits.
const (
	_FIFO_RX_EMPTY = 1 << 0
	_FIFO_RX_FULL  = 1 << 1
	_FIFO_TX_EMPTY = 1 << 4
	_FIFO_TX_FULL  = 1 << 5
)

// FEATURE register bits.
const (
	_EN_DYN_ACK = 1 << 0 // Enable W_TX_PAYLOAD_NOACK
	_EN_ACK_PAY = 1 << 1 // Enable ACK payloads
	_EN_DPL     = 1 << 2 // Enable dynamic payload length
)

const _MAX_PAYLOAD_BYTES = 32
