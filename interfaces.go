package hub

// RadioEvent identifies which of the four asynchronous events woke the
// protocol coroutine: a slot starting, a slot ending, a radio interrupt, or
// a scheduled deadline timer firing.
type RadioEvent uint8

const (
	EventStart RadioEvent = iota
	EventEnd
	EventRadio
	EventTimer
)

func (e RadioEvent) String() string {
	switch e {
	case EventStart:
		return "START"
	case EventEnd:
		return "END"
	case EventRadio:
		return "RADIO"
	case EventTimer:
		return "TIMER"
	default:
		return "UNKNOWN"
	}
}

// RadioState mirrors the nRF52 RADIO peripheral's STATE register values
// that matter to the protocol coroutine. Ramp-up states map to RXRU/TXRU;
// every other hardware state (idle, ramp-down) reads as StateOther. The
// coroutine only ever branches on "is it Disabled".
type RadioState uint8

const (
	StateDisabled RadioState = iota
	StateRXRU
	StateRX
	StateTXRU
	StateTX
	StateOther
)

// Shorts is a bitset of the nRF52 RADIO peripheral's hardware shortcuts
// this firmware relies on.
type Shorts uint8

const (
	ShortReadyStart Shorts = 1 << iota
	ShortEndDisable
)

// Interrupts is a bitset of RADIO events the HAL should raise as an
// EventRadio delivery to the coroutine.
type Interrupts uint8

const (
	IntEnd Interrupts = 1 << iota
	IntDisabled
)

// Radio is the typed façade over the physical radio peripheral's
// registers, tasks, and events. It carries no policy: every method is a
// direct, side-effect-only wrapper.
type Radio interface {
	// Power turns the radio peripheral on or off.
	Power(on bool)
	// Configure programs frequency, mode, packet layout, addressing, and
	// CRC per RadioConfig. Must be called while the radio is Disabled.
	Configure(cfg RadioConfig)
	// SetPacketPtr points the radio at the buffer used for both RX and TX.
	SetPacketPtr(buf []byte)
	// SetShorts programs the hardware shortcut bitset.
	SetShorts(s Shorts)
	// SetInterrupts programs which events raise EventRadio.
	SetInterrupts(i Interrupts)
	// ArmRX issues TASKS_RXEN.
	ArmRX()
	// ArmTX issues TASKS_TXEN.
	ArmTX()
	// Start issues TASKS_START.
	Start()
	// Disable issues TASKS_DISABLE.
	Disable()
	// State reads the current radio state.
	State() RadioState
	// EventEndPending reports and clears EVENTS_END.
	EventEndPending() bool
	// EventDisabledPending reports and clears EVENTS_DISABLED.
	EventDisabledPending() bool
	// CRCOk reports whether the last received packet's CRC matched.
	CRCOk() bool
	// RXMatchZero reports whether the last received packet matched address
	// index 0, the only address this firmware ever arms.
	RXMatchZero() bool
}

// SlotTimer is the typed façade over the slot-local 16 MHz timer used to
// program CC0 (extend-now), CC1 (end-slot), and CC2 (deadline) compare
// channels. On hardware this is NRF_TIMER0, owned by the host scheduler
// while a slot is active.
type SlotTimer interface {
	// CaptureCounter captures the live counter value into the given
	// channel and returns it.
	CaptureCounter(channel int) uint32
	// SetCompare programs an absolute compare value on a channel.
	SetCompare(channel int, ticks uint32)
	// EnableCompareInt enables the compare-match interrupt for a channel.
	EnableCompareInt(channel int)
	// DisableCompareInt disables the compare-match interrupt for a channel.
	DisableCompareInt(channel int)
	// ClearCompareEvent clears a channel's pending compare event.
	ClearCompareEvent(channel int)
	// CompareEventPending reports whether a channel's compare event fired
	// and has not been cleared yet.
	CompareEventPending(channel int) bool
}

// SlotAction is the action the arbiter returns to the host scheduler in
// response to a signal.
type SlotAction uint8

const (
	ActionNone SlotAction = iota
	ActionExtend
	ActionRequest
)

// SlotSignal is a notification delivered by the host scheduler to the
// arbiter: slot started, slot-local timer fired, a radio interrupt arrived
// during the slot, an extend request succeeded/failed, or the slot was
// blocked/cancelled before it could start.
type SlotSignal uint8

const (
	SignalStart SlotSignal = iota
	SignalTimer0
	SignalRadio
	SignalExtendSucceeded
	SignalExtendFailed
	SignalBlocked
	SignalCancelled
)

// SlotHost is the host scheduler that owns the radio outside of granted
// slots and arbitrates exclusive intervals for this firmware.
type SlotHost interface {
	// RequestEarliest submits the "as soon as possible" timeslot request
	// used at startup and after BLOCKED/CANCELLED.
	RequestEarliest(length, timeout uint32)
	// RequestNormal submits a timeslot request placed a fixed distance
	// after the current slot's end, used when ending a slot in response
	// to a radio/timer event inside the signal callback.
	RequestNormal(distanceFromNow, length uint32)
}
