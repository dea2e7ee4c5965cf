package hub

import (
	"encoding/binary"
	"testing"
)

func buildRequest(cmd, tag byte, id uint16, body []byte) []byte {
	req := make([]byte, 4+len(body))
	req[0] = cmd
	req[1] = tag
	binary.LittleEndian.PutUint16(req[2:4], id)
	copy(req[4:], body)
	return req
}

func newTestDispatcher() (*Dispatcher, *Config, *State) {
	cfg := &Config{Version: 1}
	st := &State{}
	return NewDispatcher(cfg, st, nil, fixedUptime(42)), cfg, st
}

func TestDispatchGetUptime(t *testing.T) {
	d, _, _ := newTestDispatcher()
	resp := d.HandleCommand(buildRequest(cmdGetUptime, 0, 7, nil))
	if resp[1] != statusOK {
		t.Fatalf("status = %d, want OK", resp[1])
	}
	if binary.LittleEndian.Uint16(resp[2:4]) != 7 {
		t.Fatalf("response id mismatch")
	}
	if got := binary.LittleEndian.Uint32(resp[4:8]); got != 42 {
		t.Fatalf("uptime = %d, want 42", got)
	}
}

func TestDispatchReadOutOfBounds(t *testing.T) {
	d, cfg, _ := newTestDispatcher()
	offsetSize := make([]byte, 4)
	binary.LittleEndian.PutUint16(offsetSize[0:2], uint16(cfg.RegionSize()-3))
	binary.LittleEndian.PutUint16(offsetSize[2:4], 4)
	resp := d.HandleCommand(buildRequest(cmdRead, 0, 1, offsetSize))
	if resp[1] != statusOutOfBounds {
		t.Fatalf("status = %d, want OUT_OF_BOUNDS", resp[1])
	}
	if len(resp) != responseHeaderSize {
		t.Fatalf("out of bounds response carries a payload: % X", resp)
	}
}

func TestDispatchReadRoundTrip(t *testing.T) {
	d, cfg, _ := newTestDispatcher()
	cfg.NodeCount = 3
	offsetSize := make([]byte, 4)
	binary.LittleEndian.PutUint16(offsetSize[0:2], 0)
	binary.LittleEndian.PutUint16(offsetSize[2:4], 4)
	resp := d.HandleCommand(buildRequest(cmdRead, 0, 2, offsetSize))
	if resp[1] != statusOK {
		t.Fatalf("status = %d, want OK", resp[1])
	}
	body := resp[responseHeaderSize:]
	if body[0] != 1 || body[1] != 3 {
		t.Fatalf("read body = % X, want version=1 node_count=3 leading bytes", body)
	}
}

func TestDispatchWriteRoundTrip(t *testing.T) {
	d, cfg, _ := newTestDispatcher()
	body := make([]byte, 2+1)
	binary.LittleEndian.PutUint16(body[0:2], 1) // offset 1: NodeCount byte
	body[2] = 9
	resp := d.HandleCommand(buildRequest(cmdWrite, 0, 3, body))
	if resp[1] != statusOK {
		t.Fatalf("status = %d, want OK", resp[1])
	}
	if cfg.NodeCount != 9 {
		t.Fatalf("NodeCount after WRITE = %d, want 9", cfg.NodeCount)
	}
}

func TestDispatchWriteOutOfBounds(t *testing.T) {
	d, cfg, _ := newTestDispatcher()
	body := make([]byte, 2+4)
	binary.LittleEndian.PutUint16(body[0:2], uint16(cfg.RegionSize()-1))
	resp := d.HandleCommand(buildRequest(cmdWrite, 0, 0, body))
	if resp[1] != statusOutOfBounds {
		t.Fatalf("status = %d, want OUT_OF_BOUNDS", resp[1])
	}
}

func TestDispatchUnknownTagIsOutOfBounds(t *testing.T) {
	d, _, _ := newTestDispatcher()
	offsetSize := make([]byte, 4)
	resp := d.HandleCommand(buildRequest(cmdRead, 2, 0, offsetSize))
	if resp[1] != statusOutOfBounds {
		t.Fatalf("status = %d, want OUT_OF_BOUNDS for tag > 1", resp[1])
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d, _, _ := newTestDispatcher()
	resp := d.HandleCommand(buildRequest(0xFF, 0, 0, nil))
	if resp[1] != statusUnknownCmd {
		t.Fatalf("status = %d, want UNKNOWN_CMD", resp[1])
	}
}

type recordingStore struct {
	kept *Config
}

func (s *recordingStore) Keep(cfg *Config) error {
	s.kept = cfg
	return nil
}

func TestDispatchKeepDelegatesToStore(t *testing.T) {
	cfg := &Config{Version: 1}
	st := &State{}
	store := &recordingStore{}
	d := NewDispatcher(cfg, st, store, fixedUptime(0))
	resp := d.HandleCommand(buildRequest(cmdKeep, 0, 0, nil))
	if resp[1] != statusOK {
		t.Fatalf("status = %d, want OK", resp[1])
	}
	if store.kept != cfg {
		t.Fatalf("KEEP did not delegate to the configured store")
	}
}

func TestDispatchStateRegion(t *testing.T) {
	d, _, st := newTestDispatcher()
	st.TimeShift = 12345
	offsetSize := make([]byte, 4)
	binary.LittleEndian.PutUint16(offsetSize[2:4], 4)
	resp := d.HandleCommand(buildRequest(cmdRead, 1, 0, offsetSize))
	if resp[1] != statusOK {
		t.Fatalf("status = %d, want OK", resp[1])
	}
	if got := binary.LittleEndian.Uint32(resp[responseHeaderSize:]); got != 12345 {
		t.Fatalf("TimeShift read back = %d, want 12345", got)
	}
}
