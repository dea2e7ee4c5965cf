package hub

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Command opcodes and status codes.
const (
	cmdGetUptime = 1
	cmdRead      = 2
	cmdWrite     = 3
	cmdKeep      = 4

	statusOK          = 0
	statusUnknownCmd  = 1
	statusOutOfBounds = 2

	responseHeaderSize = 4 // cmd, status, id (u16)
	responseMax        = 512
)

// memRegion is the bounded byte-addressable view READ/WRITE operate over;
// Config and State both implement it (region.go).
type memRegion interface {
	RegionSize() int
	ReadRegion(offset, size int) []byte
	WriteRegion(offset int, data []byte)
}

// Dispatcher executes GET_UPTIME/READ/WRITE/KEEP against the Config (tag
// 0) and State (tag 1) memory regions. HandleCommand runs synchronously on
// the caller's goroutine (Framer calls it from WriteChunk on the END chunk)
// and does not hand work off to a worker; nothing on the slot signal
// callback path calls it.
type Dispatcher struct {
	config *Config
	state  *State
	store  ConfigStore

	uptimeSeconds func() uint32
}

// NewDispatcher builds a dispatcher over config/state, persisting KEEP
// through store and stamping GET_UPTIME with uptimeSeconds.
func NewDispatcher(config *Config, state *State, store ConfigStore, uptimeSeconds func() uint32) *Dispatcher {
	if store == nil {
		store = nopConfigStore{}
	}
	return &Dispatcher{config: config, state: state, store: store, uptimeSeconds: uptimeSeconds}
}

// HandleCommand implements CommandHandler, the hand-off point Framer
// calls on a completed request.
func (d *Dispatcher) HandleCommand(request []byte) []byte {
	resp := make([]byte, responseHeaderSize, responseMax)
	if len(request) < responseHeaderSize {
		resp[1] = statusFor(ErrUnknownCmd)
		return resp
	}

	cmd := request[0]
	tag := request[1]
	id := binary.LittleEndian.Uint16(request[2:4])
	body := request[4:]

	resp[0] = cmd
	binary.LittleEndian.PutUint16(resp[2:4], id)

	region, regionSize := d.regionFor(tag)

	var err error
	switch cmd {
	case cmdGetUptime:
		var t [4]byte
		binary.LittleEndian.PutUint32(t[:], d.uptimeSeconds())
		resp = append(resp, t[:]...)

	case cmdRead:
		if len(body) < 4 {
			err = fmt.Errorf("%w: truncated read request", ErrOutOfBounds)
			break
		}
		offset := int(binary.LittleEndian.Uint16(body[0:2]))
		size := int(binary.LittleEndian.Uint16(body[2:4]))
		if region == nil || size > responseMax-responseHeaderSize || offset+size > regionSize {
			err = fmt.Errorf("%w: read %d bytes at %d, tag %d", ErrOutOfBounds, size, offset, tag)
			break
		}
		resp = append(resp, region.ReadRegion(offset, size)...)

	case cmdWrite:
		if len(body) < 2 {
			err = fmt.Errorf("%w: truncated write request", ErrOutOfBounds)
			break
		}
		offset := int(binary.LittleEndian.Uint16(body[0:2]))
		writeSize := len(body) - 2
		if region == nil || writeSize+offset > regionSize {
			err = fmt.Errorf("%w: write %d bytes at %d, tag %d", ErrOutOfBounds, writeSize, offset, tag)
			break
		}
		region.WriteRegion(offset, body[2:])

	case cmdKeep:
		if keepErr := d.store.Keep(d.config); keepErr != nil {
			globalLogger.Error("keep failed: " + keepErr.Error())
		}

	default:
		err = fmt.Errorf("%w: opcode %#x", ErrUnknownCmd, cmd)
	}

	if err != nil {
		globalLogger.Warn(err.Error())
		resp = resp[:responseHeaderSize]
	}
	resp[1] = statusFor(err)
	return resp
}

// statusFor maps a command-level error to the wire status byte.
func statusFor(err error) uint8 {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrUnknownCmd):
		return statusUnknownCmd
	default:
		return statusOutOfBounds
	}
}

func (d *Dispatcher) regionFor(tag uint8) (memRegion, int) {
	switch tag {
	case 0:
		return d.config, d.config.RegionSize()
	case 1:
		return d.state, d.state.RegionSize()
	default:
		return nil, 0
	}
}
