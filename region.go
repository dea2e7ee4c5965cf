package hub

import "encoding/binary"

// Region byte sizes, fixed by the struct layouts in aggregate.go in
// declaration order, so READ/WRITE offsets have a stable meaning across
// firmware versions sharing the same Config.Version.
const (
	daylightTransitionSize = 6 // i16 + 3×i8, padded to a 2-byte stride
	timeZoneSize           = 2 + 2 + 2*daylightTransitionSize
	configNodeSize         = 4 + 2 + 1 + 48
	configChannelSize      = 1 + 48
	configHeaderSize       = 4 // version, node_count, channel_count, reserved
	configRegionSize       = configHeaderSize + timeZoneSize + nMax*configNodeSize + cMax*configChannelSize

	stateNodeSize    = 4 + 2 + 2
	stateChannelSize = 2
	stateRegionSize  = 4 + nMax*stateNodeSize + cMax*stateChannelSize
)

// RegionSize returns the byte length of the Config memory region (tag 0).
func (c *Config) RegionSize() int { return configRegionSize }

// ReadRegion returns a copy of size bytes at offset in the Config region.
// Callers must have already bounds-checked offset+size against RegionSize.
func (c *Config) ReadRegion(offset, size int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := c.marshal()
	out := make([]byte, size)
	copy(out, buf[offset:offset+size])
	return out
}

// WriteRegion patches data into the Config region at offset and reparses
// the result back into the live struct. Callers must have already bounds-
// checked offset+len(data) against RegionSize.
func (c *Config) WriteRegion(offset int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := c.marshal()
	copy(buf[offset:], data)
	c.unmarshal(buf)
}

func (c *Config) marshal() []byte {
	buf := make([]byte, configRegionSize)
	buf[0] = c.Version
	buf[1] = c.NodeCount
	buf[2] = c.ChannelCount
	buf[3] = 0
	off := configHeaderSize
	off += marshalTimeZone(buf[off:], &c.TimeZone)
	for i := range c.Nodes {
		off += marshalConfigNode(buf[off:], &c.Nodes[i])
	}
	for i := range c.Channels {
		off += marshalConfigChannel(buf[off:], &c.Channels[i])
	}
	return buf
}

func (c *Config) unmarshal(buf []byte) {
	c.Version = buf[0]
	c.NodeCount = buf[1]
	c.ChannelCount = buf[2]
	off := configHeaderSize
	off += unmarshalTimeZone(buf[off:], &c.TimeZone)
	for i := range c.Nodes {
		off += unmarshalConfigNode(buf[off:], &c.Nodes[i])
	}
	for i := range c.Channels {
		off += unmarshalConfigChannel(buf[off:], &c.Channels[i])
	}
}

func marshalDaylightTransition(buf []byte, d *DaylightTransition) int {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(d.TimeMinutes))
	buf[2] = uint8(d.Month)
	buf[3] = uint8(d.Day)
	buf[4] = uint8(d.Week)
	buf[5] = 0
	return daylightTransitionSize
}

func unmarshalDaylightTransition(buf []byte, d *DaylightTransition) int {
	d.TimeMinutes = int16(binary.LittleEndian.Uint16(buf[0:2]))
	d.Month = int8(buf[2])
	d.Day = int8(buf[3])
	d.Week = int8(buf[4])
	return daylightTransitionSize
}

func marshalTimeZone(buf []byte, tz *TimeZone) int {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(tz.UTCOffsetMinutes))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(tz.DaylightDelta))
	off := 4
	off += marshalDaylightTransition(buf[off:], &tz.DaylightStart)
	off += marshalDaylightTransition(buf[off:], &tz.DaylightEnd)
	return off
}

func unmarshalTimeZone(buf []byte, tz *TimeZone) int {
	tz.UTCOffsetMinutes = int16(binary.LittleEndian.Uint16(buf[0:2]))
	tz.DaylightDelta = int16(binary.LittleEndian.Uint16(buf[2:4]))
	off := 4
	off += unmarshalDaylightTransition(buf[off:], &tz.DaylightStart)
	off += unmarshalDaylightTransition(buf[off:], &tz.DaylightEnd)
	return off
}

func marshalConfigNode(buf []byte, n *ConfigNode) int {
	binary.LittleEndian.PutUint32(buf[0:4], n.AddrLow)
	binary.LittleEndian.PutUint16(buf[4:6], n.AddrHigh)
	buf[6] = n.Channel
	copy(buf[7:7+48], n.Name[:])
	return configNodeSize
}

func unmarshalConfigNode(buf []byte, n *ConfigNode) int {
	n.AddrLow = binary.LittleEndian.Uint32(buf[0:4])
	n.AddrHigh = binary.LittleEndian.Uint16(buf[4:6])
	n.Channel = buf[6]
	copy(n.Name[:], buf[7:7+48])
	return configNodeSize
}

func marshalConfigChannel(buf []byte, ch *ConfigChannel) int {
	buf[0] = uint8(ch.Func)
	copy(buf[1:1+48], ch.Name[:])
	return configChannelSize
}

func unmarshalConfigChannel(buf []byte, ch *ConfigChannel) int {
	ch.Func = ChannelFunc(buf[0])
	copy(ch.Name[:], buf[1:1+48])
	return configChannelSize
}

// RegionSize returns the byte length of the State memory region (tag 1).
func (s *State) RegionSize() int { return stateRegionSize }

func (s *State) ReadRegion(offset, size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.marshal()
	out := make([]byte, size)
	copy(out, buf[offset:offset+size])
	return out
}

func (s *State) WriteRegion(offset int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.marshal()
	copy(buf[offset:], data)
	s.unmarshal(buf)
}

func (s *State) marshal() []byte {
	buf := make([]byte, stateRegionSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(s.TimeShift))
	off := 4
	for i := range s.Nodes {
		off += marshalStateNode(buf[off:], &s.Nodes[i])
	}
	for i := range s.Channels {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(s.Channels[i].Temperature))
		off += stateChannelSize
	}
	return buf
}

func (s *State) unmarshal(buf []byte) {
	s.TimeShift = int32(binary.LittleEndian.Uint32(buf[0:4]))
	off := 4
	for i := range s.Nodes {
		off += unmarshalStateNode(buf[off:], &s.Nodes[i])
	}
	for i := range s.Channels {
		s.Channels[i].Temperature = int16(binary.LittleEndian.Uint16(buf[off : off+2]))
		off += stateChannelSize
	}
}

func marshalStateNode(buf []byte, n *StateNode) int {
	binary.LittleEndian.PutUint32(buf[0:4], n.LastUpdateSeconds)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(n.Temperature))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(n.Voltage))
	return stateNodeSize
}

func unmarshalStateNode(buf []byte, n *StateNode) int {
	n.LastUpdateSeconds = binary.LittleEndian.Uint32(buf[0:4])
	n.Temperature = int16(binary.LittleEndian.Uint16(buf[4:6]))
	n.Voltage = int16(binary.LittleEndian.Uint16(buf[6:8]))
	return stateNodeSize
}
