//go:build tinygo

package hub

import (
	"device/arm"
	"device/nrf"
	"unsafe"

	"periph.io/x/conn/v3/physic"
)

// tinygoRadio binds the Radio façade directly to the nRF52's own RADIO
// peripheral registers. There is no machine-level abstraction to go
// through; this firmware owns the peripheral outright inside a slot.
type tinygoRadio struct{}

// NewTinygoRadio returns the Radio implementation used on the real nRF52
// target.
func NewTinygoRadio() Radio { return tinygoRadio{} }

func (tinygoRadio) Power(on bool) {
	if on {
		nrf.RADIO.POWER.Set(1)
	} else {
		nrf.RADIO.POWER.Set(0)
	}
}

func (tinygoRadio) Configure(cfg RadioConfig) {
	freqMHz := uint32((cfg.Frequency - baseFrequency) / physic.MegaHertz)
	nrf.RADIO.FREQUENCY.Set(freqMHz)
	nrf.RADIO.MODE.Set(2) // Nrf_250Kbit
	nrf.RADIO.PCNF0.Set(0)
	nrf.RADIO.PCNF1.Set(
		uint32(payloadLength)<<nrf.RADIO_PCNF1_MAXLEN_Pos |
			uint32(payloadLength)<<nrf.RADIO_PCNF1_STATLEN_Pos |
			uint32(addressLength)<<nrf.RADIO_PCNF1_BALEN_Pos |
			nrf.RADIO_PCNF1_ENDIAN_Little<<nrf.RADIO_PCNF1_ENDIAN_Pos,
	)
	nrf.RADIO.BASE0.Set(baseAddress)
	nrf.RADIO.PREFIX0.Set(addressPrefix << nrf.RADIO_PREFIX0_AP0_Pos)
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(nrf.RADIO_RXADDRESSES_ADDR0_Msk)
	nrf.RADIO.CRCCNF.Set(nrf.RADIO_CRCCNF_LEN_Three << nrf.RADIO_CRCCNF_LEN_Pos)
	nrf.RADIO.CRCPOLY.Set(crcPolynomial)
	nrf.RADIO.CRCINIT.Set(crcInit)
	nrf.RADIO.TXPOWER.Set(txPowerRegisterValue(cfg.Power))
}

func txPowerRegisterValue(p PowerLevel) uint32 {
	switch p {
	case PowerPlus4dBm:
		return nrf.RADIO_TXPOWER_TXPOWER_Pos4dBm
	default:
		return nrf.RADIO_TXPOWER_TXPOWER_0dBm
	}
}

func (tinygoRadio) SetPacketPtr(buf []byte) {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
}

func (tinygoRadio) SetShorts(s Shorts) {
	var v uint32
	if s&ShortReadyStart != 0 {
		v |= nrf.RADIO_SHORTS_READY_START_Msk
	}
	if s&ShortEndDisable != 0 {
		v |= nrf.RADIO_SHORTS_END_DISABLE_Msk
	}
	nrf.RADIO.SHORTS.Set(v)
}

func (tinygoRadio) SetInterrupts(i Interrupts) {
	nrf.RADIO.INTENCLR.Set(0xFFFFFFFF)
	var v uint32
	if i&IntEnd != 0 {
		v |= nrf.RADIO_INTENSET_END_Msk
	}
	if i&IntDisabled != 0 {
		v |= nrf.RADIO_INTENSET_DISABLED_Msk
	}
	if v != 0 {
		nrf.RADIO.INTENSET.Set(v)
	}
}

func (tinygoRadio) ArmRX() {
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
}

func (tinygoRadio) ArmTX() {
	// Barrier so the freshly written outbound frame is visible to the
	// radio's DMA read before TX ramps up.
	arm.Asm("dsb")
	nrf.RADIO.TASKS_TXEN.Set(1)
}

func (tinygoRadio) Start() {
	nrf.RADIO.TASKS_START.Set(1)
}

func (tinygoRadio) Disable() {
	nrf.RADIO.EVENTS_DISABLED.Set(0)
	nrf.RADIO.TASKS_DISABLE.Set(1)
}

func (tinygoRadio) State() RadioState {
	switch nrf.RADIO.STATE.Get() {
	case nrf.RADIO_STATE_STATE_Disabled:
		return StateDisabled
	case nrf.RADIO_STATE_STATE_RxRu:
		return StateRXRU
	case nrf.RADIO_STATE_STATE_Rx:
		return StateRX
	case nrf.RADIO_STATE_STATE_TxRu:
		return StateTXRU
	case nrf.RADIO_STATE_STATE_Tx:
		return StateTX
	default:
		return StateOther
	}
}

func (tinygoRadio) EventEndPending() bool {
	if nrf.RADIO.EVENTS_END.Get() == 0 {
		return false
	}
	nrf.RADIO.EVENTS_END.Set(0)
	return true
}

func (tinygoRadio) EventDisabledPending() bool {
	if nrf.RADIO.EVENTS_DISABLED.Get() == 0 {
		return false
	}
	nrf.RADIO.EVENTS_DISABLED.Set(0)
	return true
}

func (tinygoRadio) CRCOk() bool {
	return nrf.RADIO.CRCSTATUS.Get() != 0
}

func (tinygoRadio) RXMatchZero() bool {
	return nrf.RADIO.RXMATCH.Get() == 0
}
