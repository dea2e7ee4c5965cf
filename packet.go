package hub

import "encoding/binary"

// InboundRadioFrame is the 10-byte on-air frame received from a sensor
// node. Fields are little-endian and 4-byte aligned on the wire.
type InboundRadioFrame struct {
	AddrLow  uint32
	AddrHigh uint16
	Temp     int16
	Voltage  int16
}

// OutboundRadioFrame is the 10-byte ACK frame this hub transmits back to
// the sensor node after a valid receive.
type OutboundRadioFrame struct {
	AddrLow  uint32
	AddrHigh uint16
	Reserved uint16
	Flags    uint16
}

// FlagACK is the only flag bit this firmware ever sets in an outbound
// frame.
const FlagACK uint16 = 0x8000

// NoValue marks a temperature or voltage reading as absent.
const NoValue int16 = 0x7FFF

// DecodeInboundFrame parses a 10-byte on-air buffer. The caller has
// already verified CRC and address match; this only decodes the bytes.
func DecodeInboundFrame(buf []byte) InboundRadioFrame {
	return InboundRadioFrame{
		AddrLow:  binary.LittleEndian.Uint32(buf[0:4]),
		AddrHigh: binary.LittleEndian.Uint16(buf[4:6]),
		Temp:     int16(binary.LittleEndian.Uint16(buf[6:8])),
		Voltage:  int16(binary.LittleEndian.Uint16(buf[8:10])),
	}
}

// EncodeOutboundFrame writes an ACK frame for addr into buf, which must be
// at least payloadLength bytes. Reserved is always zeroed.
func EncodeOutboundFrame(buf []byte, addrLow uint32, addrHigh uint16) {
	binary.LittleEndian.PutUint32(buf[0:4], addrLow)
	binary.LittleEndian.PutUint16(buf[4:6], addrHigh)
	binary.LittleEndian.PutUint16(buf[6:8], 0)
	binary.LittleEndian.PutUint16(buf[8:10], FlagACK)
}
