//go:build !tinygo

package hub

import "sync"

// SimTimer is a software simulation of the slot-local 16 MHz timer,
// free-running and advanced explicitly by the test harness or cmd/hubsim
// instead of real ticks.
type SimTimer struct {
	mu      sync.Mutex
	counter uint32
	compare [3]uint32
	enabled [3]bool
	pending [3]bool
}

func NewSimTimer() *SimTimer { return &SimTimer{} }

func (t *SimTimer) CaptureCounter(channel int) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter
}

func (t *SimTimer) SetCompare(channel int, ticks uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compare[channel] = ticks
}

func (t *SimTimer) EnableCompareInt(channel int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled[channel] = true
}

func (t *SimTimer) DisableCompareInt(channel int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled[channel] = false
}

func (t *SimTimer) ClearCompareEvent(channel int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[channel] = false
}

func (t *SimTimer) CompareEventPending(channel int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[channel]
}

// Advance moves the free-running counter forward by ticks and returns the
// channels that newly crossed their armed compare value, in channel order.
func (t *SimTimer) Advance(ticks uint32) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counter += ticks
	var fired []int
	for ch := 0; ch < len(t.compare); ch++ {
		if t.enabled[ch] && !t.pending[ch] && t.counter >= t.compare[ch] {
			t.pending[ch] = true
			fired = append(fired, ch)
		}
	}
	return fired
}

// slotRequest records one call to RequestEarliest or RequestNormal.
type slotRequest struct {
	Earliest bool
	Length   uint32
	Timeout  uint32
	Distance uint32
}

// SimSlotHost is a software simulation of the host scheduler: it just
// records requests for test assertions and cmd/hubsim's display, since
// there is no real competing BLE radio-user to arbitrate against in
// simulation.
type SimSlotHost struct {
	mu       sync.Mutex
	requests []slotRequest
}

func NewSimSlotHost() *SimSlotHost { return &SimSlotHost{} }

func (h *SimSlotHost) RequestEarliest(length, timeout uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, slotRequest{Earliest: true, Length: length, Timeout: timeout})
}

func (h *SimSlotHost) RequestNormal(distanceFromNow, length uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, slotRequest{Length: length, Distance: distanceFromNow})
}

// Requests returns a copy of every request observed so far.
func (h *SimSlotHost) Requests() []slotRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slotRequest, len(h.requests))
	copy(out, h.requests)
	return out
}

// LastRequest returns the most recent request and whether any has happened
// yet.
func (h *SimSlotHost) LastRequest() (slotRequest, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		return slotRequest{}, false
	}
	return h.requests[len(h.requests)-1], true
}
