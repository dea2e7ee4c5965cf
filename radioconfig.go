package hub

import "periph.io/x/conn/v3/physic"

// PowerLevel is the radio's TX power amplifier setting.
type PowerLevel int8

const (
	// PowerPlus4dBm is the only level this firmware uses; the on-air
	// contract with existing sensor nodes fixes it at +4 dBm.
	PowerPlus4dBm PowerLevel = 4
)

// Register-layout constants that make up the on-air contract. These must
// be bit-identical to interoperate with existing sensor nodes; none of
// them are configurable at runtime.
const (
	// baseFrequency is the nRF52 RADIO FREQUENCY register's zero point;
	// RadioConfig.Frequency minus this gives the register value in MHz
	// above 2400 MHz.
	baseFrequency = 2400 * physic.MegaHertz

	// baseAddress and addressPrefix form the 3-byte access address
	// (2-byte base + 1-byte prefix) shared with every sensor node.
	baseAddress   = 0x63e0
	addressPrefix = 0x17

	// crcPolynomial is CRC-24-Radix-64 (OpenPGP), CRC length 3 bytes,
	// init 0.
	crcPolynomial = 0x864CFB
	crcInit       = 0
	crcLengthByte = 3

	// payloadLength is the fixed 10-byte frame size (no S0/S1/length
	// field): either an InboundRadioFrame or an OutboundRadioFrame.
	payloadLength = 10

	// addressLength is the base-address length in bytes (BALEN).
	addressLength = 2
)

// RadioConfig is the complete, fixed configuration the protocol coroutine
// applies to the radio peripheral at the start of every slot. Every field
// is part of the on-air contract and is not meant to vary across
// deployments; it is a struct (rather than bare constants) only so
// Configure has a single typed argument.
type RadioConfig struct {
	// Frequency is the RF channel center frequency. Always 2400 MHz for
	// this firmware; typed as physic.Frequency so callers can't confuse
	// units.
	Frequency physic.Frequency
	// Power is the TX amplifier level. Always PowerPlus4dBm.
	Power PowerLevel
}

// DefaultRadioConfig is the one and only configuration this firmware ever
// applies to the radio.
var DefaultRadioConfig = RadioConfig{
	Frequency: baseFrequency,
	Power:     PowerPlus4dBm,
}
