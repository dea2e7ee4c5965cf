package hub

import "sync"

// Fixed table capacities.
const (
	nMax = 32 // max enrolled nodes
	cMax = 8  // max channels
)

// ChannelFunc is the reduction a channel applies over its assigned nodes.
type ChannelFunc uint8

const (
	FuncMin ChannelFunc = iota
	FuncMax
	FuncAvg
)

// unassignedChannel marks a node with no channel assignment.
const unassignedChannel uint8 = 0xFF

// DaylightTransition names one edge (start or end) of daylight saving time.
type DaylightTransition struct {
	TimeMinutes int16 // minutes since local midnight, relative to UTCOffset
	Month       int8
	Day         int8 // negative selects a fixed day-of-month, counted from the end
	Week        int8 // negative counts backwards from the end of the month
}

// TimeZone is carried in Config verbatim and never interpreted by this
// module; the calendar conversion routines live elsewhere. It only needs
// to round-trip through READ/WRITE.
type TimeZone struct {
	UTCOffsetMinutes int16
	DaylightDelta    int16 // daylight saving disabled if zero
	DaylightStart    DaylightTransition
	DaylightEnd      DaylightTransition
}

// ConfigNode identifies one enrolled sensor node and its channel
// assignment. Unique by (AddrHigh, AddrLow).
type ConfigNode struct {
	AddrLow  uint32
	AddrHigh uint16
	Channel  uint8 // unassignedChannel, or < cMax
	Name     [48]byte
}

// ConfigChannel is a logical group of nodes reduced by Func.
type ConfigChannel struct {
	Func ChannelFunc
	Name [48]byte
}

// Config is the device's persistent configuration: mutable via BLE WRITE
// and by the aggregation engine when auto-enrolling a node. Only
// the first NodeCount entries of Nodes, and the first ChannelCount entries
// of Channels, are live.
type Config struct {
	mu sync.Mutex

	Version      uint8
	NodeCount    uint8
	ChannelCount uint8
	TimeZone     TimeZone
	Nodes        [nMax]ConfigNode
	Channels     [cMax]ConfigChannel
}

// StateNode is the last observed reading for one enrolled node. Index-
// aligned with Config.Nodes.
type StateNode struct {
	LastUpdateSeconds uint32
	Temperature       int16
	Voltage           int16
}

// StateChannel is the last computed aggregate for one channel.
type StateChannel struct {
	Temperature int16
}

// State is the device's volatile, continuously-updated state.
type State struct {
	mu sync.Mutex

	// TimeShift is written by the worker and may be read from any other
	// context; it must stay a single word so loads and stores can't tear.
	TimeShift int32 // 0 means "wall clock not set"; else UTC = uptime + TimeShift
	Nodes     [nMax]StateNode
	Channels  [cMax]StateChannel
}

// Aggregator owns Config and State and is the sole writer to both outside
// of an explicit WRITE command. It must only ever be driven from a worker
// context, never from the slot signal callback.
type Aggregator struct {
	Config *Config
	State  *State

	uptimeSeconds func() uint32

	droppedFull uint64
}

// NewAggregator builds an aggregator over an empty Config/State, using
// uptimeSeconds to stamp StateNode.LastUpdateSeconds.
func NewAggregator(uptimeSeconds func() uint32) *Aggregator {
	return &Aggregator{
		Config:        &Config{},
		State:         &State{},
		uptimeSeconds: uptimeSeconds,
	}
}

// Observe processes one decoded inbound frame: enrolling the node if
// unseen and capacity allows, updating its state, and recomputing its
// channel's aggregate.
func (a *Aggregator) Observe(frame InboundRadioFrame) {
	a.Config.mu.Lock()
	defer a.Config.mu.Unlock()
	a.State.mu.Lock()
	defer a.State.mu.Unlock()

	idx, found := a.findNode(frame.AddrHigh, frame.AddrLow)
	if !found {
		if a.Config.NodeCount >= nMax {
			a.droppedFull++
			globalLogger.Warn("node table full, dropping frame from unenrolled node")
			return
		}
		idx = int(a.Config.NodeCount)
		a.Config.Nodes[idx] = ConfigNode{
			AddrLow:  frame.AddrLow,
			AddrHigh: frame.AddrHigh,
			Channel:  unassignedChannel,
			Name:     defaultNodeName(),
		}
		a.State.Nodes[idx] = StateNode{Temperature: NoValue, Voltage: NoValue}
		a.Config.NodeCount++
	}

	a.State.Nodes[idx] = StateNode{
		LastUpdateSeconds: a.uptimeSeconds(),
		Temperature:       frame.Temp,
		Voltage:           frame.Voltage,
	}

	channel := a.Config.Nodes[idx].Channel
	if channel < cMax {
		a.recomputeChannel(channel)
	}
}

func (a *Aggregator) findNode(addrHigh uint16, addrLow uint32) (int, bool) {
	for i := 0; i < int(a.Config.NodeCount); i++ {
		n := &a.Config.Nodes[i]
		if n.AddrHigh == addrHigh && n.AddrLow == addrLow {
			return i, true
		}
	}
	return 0, false
}

func defaultNodeName() [48]byte {
	var b [48]byte
	copy(b[:], "[no name]")
	return b
}

// recomputeChannel folds every node assigned to channel into its
// aggregate, under the lock callers already hold.
func (a *Aggregator) recomputeChannel(channel uint8) {
	fn := a.Config.Channels[channel].Func

	var sum int32
	var count int32
	var missing bool
	result := NoValue

	first := true
	for i := 0; i < int(a.Config.NodeCount); i++ {
		if a.Config.Nodes[i].Channel != channel {
			continue
		}
		temp := a.State.Nodes[i].Temperature
		count++
		if temp == NoValue {
			missing = true
			continue
		}
		switch fn {
		case FuncMin:
			if first || temp < result {
				result = temp
			}
		case FuncMax:
			if first || temp > result {
				result = temp
			}
		case FuncAvg:
			sum += int32(temp)
		}
		first = false
	}

	switch {
	case count == 0 || missing:
		a.State.Channels[channel].Temperature = NoValue
	case fn == FuncAvg:
		// Round half away from zero. Go's integer division truncates
		// toward zero, so the half-step must follow the sum's sign.
		if sum < 0 {
			a.State.Channels[channel].Temperature = int16((sum - count/2) / count)
		} else {
			a.State.Channels[channel].Temperature = int16((sum + count/2) / count)
		}
	default:
		a.State.Channels[channel].Temperature = result
	}
}

// DroppedForFullTable returns how many frames were dropped because the
// node table was at capacity when an unenrolled node was heard from.
func (a *Aggregator) DroppedForFullTable() uint64 {
	return a.droppedFull
}
