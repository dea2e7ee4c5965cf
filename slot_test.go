package hub

import (
	"testing"
	"time"
)

func TestArbiterInitRequestsEarliestSlot(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)

	a.Init()
	req, ok := host.LastRequest()
	if !ok || !req.Earliest || req.Length != slotLengthUs || req.Timeout != slotTimeoutUs {
		t.Fatalf("Init request = %+v, ok=%v, want earliest(%d, %d)", req, ok, slotLengthUs, slotTimeoutUs)
	}
}

func TestArbiterHandleStartArmsExtendTimerAndCoroutine(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)

	action := a.HandleStart()
	if action != ActionNone {
		t.Fatalf("HandleStart action = %v, want ActionNone", action)
	}
	if timer.compare[ccExtend] != slotLengthUs-slotMarginUs {
		t.Fatalf("CC0 compare = %d, want %d", timer.compare[ccExtend], slotLengthUs-slotMarginUs)
	}
	if !timer.enabled[ccExtend] {
		t.Fatalf("CC0 compare interrupt not enabled")
	}
	if radio.State() != StateRX {
		t.Fatalf("coroutine not driven to RX by START: %v", radio.State())
	}
}

func TestArbiterExtendCycle(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)
	a.HandleStart()

	if action := a.HandleExtendCompare(); action != ActionExtend {
		t.Fatalf("HandleExtendCompare action = %v, want ActionExtend", action)
	}
	a.HandleExtendSucceeded()
	wantEnd := uint32(slotLengthUs + slotLengthUs)
	if a.endTimeUs != wantEnd {
		t.Fatalf("endTimeUs after extend = %d, want %d", a.endTimeUs, wantEnd)
	}
	if timer.compare[ccExtend] != wantEnd-slotMarginUs {
		t.Fatalf("CC0 reprogrammed to %d, want %d", timer.compare[ccExtend], wantEnd-slotMarginUs)
	}
}

func TestArbiterEndCompareRequestsNextSlot(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)
	a.HandleStart()

	action := a.HandleEndCompare()
	if action != ActionRequest {
		t.Fatalf("HandleEndCompare action = %v, want ActionRequest", action)
	}
	req, ok := host.LastRequest()
	if !ok || req.Earliest {
		t.Fatalf("HandleEndCompare did not issue a RequestNormal: %+v", req)
	}
	if req.Length != slotLengthUs {
		t.Fatalf("RequestNormal length = %d, want %d", req.Length, slotLengthUs)
	}
	if req.Distance != a.endTimeUs+advJumpUs {
		t.Fatalf("RequestNormal distance = %d, want %d", req.Distance, a.endTimeUs+advJumpUs)
	}
}

func TestArbiterSignalDemuxesTimerChannels(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)
	a.Signal(SignalStart)

	fired := timer.Advance(slotLengthUs - slotMarginUs)
	if len(fired) != 1 || fired[0] != ccExtend {
		t.Fatalf("advancing to MARGIN fired %v, want CC0", fired)
	}
	if action := a.Signal(SignalTimer0); action != ActionExtend {
		t.Fatalf("Signal(TIMER0) with CC0 pending = %v, want ActionExtend", action)
	}
	if timer.CompareEventPending(ccExtend) {
		t.Fatalf("CC0 event not cleared by the extend signal")
	}

	a.Signal(SignalExtendSucceeded)
	if a.endTimeUs != 2*slotLengthUs {
		t.Fatalf("endTimeUs after Signal(EXTEND_SUCCEEDED) = %d, want %d", a.endTimeUs, 2*slotLengthUs)
	}
}

func TestArbiterSignalExtendFailedDuringRX(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)
	a.Signal(SignalStart)

	// From RX the coroutine must first drive the radio to Disabled; the
	// slot finishes on the resulting radio interrupt, which requests the
	// next slot directly.
	if action := a.Signal(SignalExtendFailed); action != ActionNone {
		t.Fatalf("Signal(EXTEND_FAILED) = %v, want ActionNone while awaiting DISABLED", action)
	}
	if action := a.Signal(SignalRadio); action != ActionRequest {
		t.Fatalf("Signal(RADIO) after teardown = %v, want ActionRequest", action)
	}
	if radio.IsPowered() {
		t.Fatalf("radio still powered after the slot ended")
	}
	req, ok := host.LastRequest()
	if !ok || req.Earliest || req.Distance != a.endTimeUs+advJumpUs {
		t.Fatalf("next-slot request = %+v, ok=%v", req, ok)
	}
}

func TestArbiterSignalExtendFailedDuringPeerWaitArmsEndTimer(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)
	a.Signal(SignalStart)

	// Walk the coroutine into the peer-turnaround wait.
	radio.DeliverRX(encodeInbound(1, 2, 3, 4), true, true)
	a.Signal(SignalRadio)
	radio.ForceDisabled()
	a.Signal(SignalRadio)

	// END here returns immediately (nothing pending on the radio), so the
	// arbiter arms CC1 for the race-free end instead of requesting inline.
	if action := a.Signal(SignalExtendFailed); action != ActionNone {
		t.Fatalf("Signal(EXTEND_FAILED) = %v, want ActionNone", action)
	}
	if !timer.enabled[ccEnd] {
		t.Fatalf("CC1 not armed after an immediate END outcome")
	}
	if radio.IsPowered() {
		t.Fatalf("radio still powered after END during the peer wait")
	}

	if fired := timer.Advance(endTimerDeltaTicks); !containsChannel(fired, ccEnd) {
		t.Fatalf("CC1 did not fire after the arming delta: %v", fired)
	}
	if action := a.Signal(SignalTimer0); action != ActionRequest {
		t.Fatalf("Signal(TIMER0) with CC1 pending = %v, want ActionRequest", action)
	}
}

func containsChannel(channels []int, ch int) bool {
	for _, c := range channels {
		if c == ch {
			return true
		}
	}
	return false
}

func TestArbiterBlockedResubmitsFromWorker(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)

	a.HandleBlocked()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := host.LastRequest(); ok {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("HandleBlocked did not resubmit an earliest request within 1s")
}

func TestArbiterCancelledResubmitsFromWorker(t *testing.T) {
	host := NewSimSlotHost()
	timer := NewSimTimer()
	radio := NewSimRadio()
	proto := NewCoroutine(radio, DefaultRadioConfig, nil)
	a := NewArbiter(host, timer, proto)

	a.HandleCancelled()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := host.LastRequest(); ok {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("HandleCancelled did not resubmit an earliest request within 1s")
}
