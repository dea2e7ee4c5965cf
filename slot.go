package hub

import (
	"context"

	"github.com/kildom/dongle-hub/internal/worker"
)

// Slot-local timer channel assignments. The timer itself is owned by the
// arbiter; the coroutine never touches it.
const (
	ccExtend   = 0 // CC0: extend-now, MARGIN before end of slot
	ccEnd      = 1 // CC1: race-free clean end of slot
	ccDeadline = 2 // CC2: coroutine-requested deadline
)

const (
	// slotMarginUs is the headroom before slot end a clean handoff needs.
	slotMarginUs = 200
	// slotLengthUs is the fixed timeslot length requested and extended by.
	// It budgets one full RX→TX cycle, rounded up from 1487 µs:
	//
	//	RX ramp-up             140
	//	on-air inbound frame   544 (8 preamble + 24 address + 80 payload
	//	                            + 24 CRC = 136 bits at 250 kbit/s)
	//	RX disable               4
	//	packet processing      100
	//	TX ramp-up             140
	//	on-air ACK frame       544
	//	TX disable              15
	//
	// plus the margin above.
	slotLengthUs = 1500 + slotMarginUs
	// slotTimeoutUs bounds how long an "earliest" request may wait.
	slotTimeoutUs = 1_000_000
	// advSlotUs is the time one BLE advertising event needs; advJumpUs
	// places the next request 4/3 of that (8000 µs) past the end of the slot just
	// finished, clear of the advertising the radio was yielded to.
	advSlotUs = 6000
	advJumpUs = advSlotUs * 4 / 3
	// endTimerDeltaTicks is the "a few ticks ahead" used by the race-free
	// CC1 arming idiom in armEndTimer.
	endTimerDeltaTicks = 5
)

// Arbiter requests, extends, and ends exclusive radio intervals from a
// host scheduler and turns the three slot-local timer channels into the
// four events the protocol coroutine understands. It never touches radio
// registers directly.
type Arbiter struct {
	host  SlotHost
	timer SlotTimer
	proto *Coroutine

	endTimeUs uint32
}

// NewArbiter builds an arbiter driving proto from signals delivered by host
// and a timer.
func NewArbiter(host SlotHost, timer SlotTimer, proto *Coroutine) *Arbiter {
	return &Arbiter{host: host, timer: timer, proto: proto}
}

// Init submits the first earliest-timeslot request. Called once at startup;
// a request that comes back BLOCKED or CANCELLED is resubmitted by
// resubmit, not by Init.
func (a *Arbiter) Init() {
	a.host.RequestEarliest(slotLengthUs, slotTimeoutUs)
}

// Signal is the single entry point for host-scheduler signals, demuxing a
// slot-timer signal by which compare channel fired. The individual Handle
// methods remain available to callers that have already demuxed.
func (a *Arbiter) Signal(sig SlotSignal) SlotAction {
	switch sig {
	case SignalStart:
		return a.HandleStart()
	case SignalRadio:
		return a.HandleRadio()
	case SignalTimer0:
		switch {
		case a.timer.CompareEventPending(ccExtend):
			return a.HandleExtendCompare()
		case a.timer.CompareEventPending(ccEnd):
			return a.HandleEndCompare()
		case a.timer.CompareEventPending(ccDeadline):
			return a.HandleDeadline()
		}
		return ActionNone
	case SignalExtendSucceeded:
		a.HandleExtendSucceeded()
		return ActionNone
	case SignalExtendFailed:
		return a.HandleExtendFailed()
	case SignalBlocked:
		globalLogger.Warn(ErrSlotBlocked.Error())
		a.HandleBlocked()
		return ActionNone
	case SignalCancelled:
		globalLogger.Warn(ErrSlotCancelled.Error())
		a.HandleCancelled()
		return ActionNone
	default:
		return ActionNone
	}
}

// HandleStart delivers the slot-granted signal: program CC0 for the
// extend-now trigger and wake the coroutine with EventStart.
func (a *Arbiter) HandleStart() SlotAction {
	a.endTimeUs = slotLengthUs
	a.timer.SetCompare(ccExtend, a.endTimeUs-slotMarginUs)
	a.timer.EnableCompareInt(ccExtend)
	return a.deliver(EventStart, false)
}

// HandleRadio delivers a radio interrupt received during the slot.
func (a *Arbiter) HandleRadio() SlotAction {
	return a.deliver(EventRadio, true)
}

// HandleDeadline delivers CC2 firing as EventTimer.
func (a *Arbiter) HandleDeadline() SlotAction {
	a.timer.ClearCompareEvent(ccDeadline)
	return a.deliver(EventTimer, true)
}

// deliver resumes the coroutine and translates its Outcome into the action
// returned to the host scheduler. immediateRequest is true when called from
// a context (RADIO or TIMER) where an END outcome means the radio is
// already safely Disabled and powered off, so the next slot can be
// requested directly; otherwise an END outcome arms CC1 for a race-free
// end instead.
func (a *Arbiter) deliver(ev RadioEvent, immediateRequest bool) SlotAction {
	out := a.proto.Resume(ev)
	switch out.Kind {
	case OutcomeEnd:
		if immediateRequest {
			a.host.RequestNormal(a.endTimeUs+advJumpUs, slotLengthUs)
			return ActionRequest
		}
		a.armEndTimer()
		return ActionNone
	case OutcomeTimer:
		now := a.timer.CaptureCounter(ccDeadline)
		a.timer.SetCompare(ccDeadline, now+out.TimerUs)
		a.timer.EnableCompareInt(ccDeadline)
		return ActionNone
	default:
		return ActionNone
	}
}

// HandleExtendCompare handles CC0 firing: ask the host for one more slot
// length.
func (a *Arbiter) HandleExtendCompare() SlotAction {
	a.timer.ClearCompareEvent(ccExtend)
	return ActionExtend
}

// HandleExtendSucceeded extends the tracked end time and reprograms CC0 for
// the new end of slot.
func (a *Arbiter) HandleExtendSucceeded() {
	a.endTimeUs += slotLengthUs
	a.timer.SetCompare(ccExtend, a.endTimeUs-slotMarginUs)
}

// HandleExtendFailed delivers EventEnd to the coroutine; the slot is ending
// but not from inside a RADIO/TIMER signal, so any END outcome arms CC1
// rather than requesting the next slot immediately.
func (a *Arbiter) HandleExtendFailed() SlotAction {
	a.timer.DisableCompareInt(ccExtend)
	return a.deliver(EventEnd, false)
}

// HandleEndCompare handles CC1 firing: the race-free, authoritative signal
// that the slot is over. It redelivers EventEnd to the coroutine (a no-op
// if the coroutine already reached POWER_OFF) and always requests the next
// slot.
func (a *Arbiter) HandleEndCompare() SlotAction {
	a.timer.ClearCompareEvent(ccEnd)
	a.proto.Resume(EventEnd)
	a.host.RequestNormal(a.endTimeUs+advJumpUs, slotLengthUs)
	return ActionRequest
}

// armEndTimer arms CC1 using the race-free capture/compare/recapture idiom:
// the slot-local timer free-runs and cannot be paused, so a plain
// capture-then-set can straddle a tick boundary and miss the compare
// entirely; recapturing and retrying until the two captures agree within
// one tick rules that out.
func (a *Arbiter) armEndTimer() {
	for {
		counter := a.timer.CaptureCounter(ccEnd)
		a.timer.SetCompare(ccEnd, counter+endTimerDeltaTicks)
		recaptured := a.timer.CaptureCounter(ccEnd)
		if recaptured <= counter+1 {
			break
		}
	}
	a.timer.EnableCompareInt(ccEnd)
}

// HandleBlocked and HandleCancelled resubmit the earliest request from a
// worker goroutine, since the signal callback that observed BLOCKED or
// CANCELLED must not block.
func (a *Arbiter) HandleBlocked() {
	a.resubmit()
}

func (a *Arbiter) HandleCancelled() {
	a.resubmit()
}

func (a *Arbiter) resubmit() {
	worker.Go(context.Background(), "slot-resubmit", func(ctx context.Context) {
		a.host.RequestEarliest(slotLengthUs, slotTimeoutUs)
	})
}
