//go:build !tinygo

package hub

import "sync"

// SimRadio is a software simulation of the nRF52 RADIO peripheral used by
// the host test suite and cmd/hubsim in place of real hardware. It models
// exactly the behavior the coroutine depends on: shortcuts, pending
// events that clear on read, and CRC/address-match flags. Nothing about
// over-the-air timing or interference.
type SimRadio struct {
	mu sync.Mutex

	powered bool
	cfg     RadioConfig
	state   RadioState
	shorts  Shorts
	ints    Interrupts
	buf     []byte

	endPending      bool
	disabledPending bool
	crcOk           bool
	matchZero       bool
}

// NewSimRadio returns a radio starting in the Disabled state, unpowered.
func NewSimRadio() *SimRadio {
	return &SimRadio{state: StateDisabled}
}

func (s *SimRadio) Power(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.powered = on
}

func (s *SimRadio) Configure(cfg RadioConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *SimRadio) SetPacketPtr(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = buf
}

func (s *SimRadio) SetShorts(sh Shorts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shorts = sh
}

func (s *SimRadio) SetInterrupts(i Interrupts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = i
}

func (s *SimRadio) ArmRX() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateRXRU
	if s.shorts&ShortReadyStart != 0 {
		s.state = StateRX
	}
}

func (s *SimRadio) ArmTX() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTXRU
	if s.shorts&ShortReadyStart != 0 {
		s.state = StateTX
	}
}

func (s *SimRadio) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRXRU:
		s.state = StateRX
	case StateTXRU:
		s.state = StateTX
	}
}

func (s *SimRadio) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDisabled {
		s.state = StateDisabled
		s.disabledPending = true
	}
}

func (s *SimRadio) State() RadioState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SimRadio) EventEndPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endPending {
		return false
	}
	s.endPending = false
	return true
}

func (s *SimRadio) EventDisabledPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disabledPending {
		return false
	}
	s.disabledPending = false
	return true
}

func (s *SimRadio) CRCOk() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crcOk
}

func (s *SimRadio) RXMatchZero() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchZero
}

// IsPowered reports the simulated POWER register, for assertions in tests.
func (s *SimRadio) IsPowered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powered
}

// DeliverRX simulates a complete inbound packet landing in the packet
// buffer while the radio is listening: it is the hardware's doing, not the
// coroutine's, so it only takes effect in StateRX. Applies the END→DISABLE
// shortcut like real silicon would (READY→START is applied by ArmRX).
func (s *SimRadio) DeliverRX(raw []byte, crcOk, matchZero bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRX {
		return false
	}
	copy(s.buf, raw)
	s.crcOk = crcOk
	s.matchZero = matchZero
	s.endPending = true
	if s.shorts&ShortEndDisable != 0 {
		s.state = StateDisabled
		s.disabledPending = true
	}
	return true
}

// CompleteTX simulates a transmission finishing.
func (s *SimRadio) CompleteTX() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateTX {
		return false
	}
	if s.shorts&ShortEndDisable != 0 {
		s.state = StateDisabled
	}
	s.disabledPending = true
	return true
}

// ForceDisabled completes a pending Disable() request, e.g. the cleanup
// DISABLE issued at slot start when the BLE stack left the radio running.
func (s *SimRadio) ForceDisabled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisabled
	s.disabledPending = true
}
