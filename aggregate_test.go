package hub

import "testing"

func fixedUptime(seconds uint32) func() uint32 {
	return func() uint32 { return seconds }
}

func TestAggregatorAutoEnrolment(t *testing.T) {
	a := NewAggregator(fixedUptime(100))
	a.Observe(InboundRadioFrame{AddrHigh: 0xAAAA, AddrLow: 0x11112222, Temp: 2345, Voltage: 310})

	if a.Config.NodeCount != 1 {
		t.Fatalf("NodeCount = %d, want 1", a.Config.NodeCount)
	}
	if a.Config.Nodes[0].Channel != unassignedChannel {
		t.Fatalf("Channel = %d, want unassigned", a.Config.Nodes[0].Channel)
	}
	if a.State.Nodes[0].Temperature != 2345 {
		t.Fatalf("Temperature = %d, want 2345", a.State.Nodes[0].Temperature)
	}
	if a.State.Nodes[0].LastUpdateSeconds != 100 {
		t.Fatalf("LastUpdateSeconds = %d, want 100", a.State.Nodes[0].LastUpdateSeconds)
	}
}

func TestAggregatorTableFullDropsFrame(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	for i := 0; i < nMax; i++ {
		a.Observe(InboundRadioFrame{AddrHigh: 0, AddrLow: uint32(i + 1), Temp: 1})
	}
	if a.Config.NodeCount != nMax {
		t.Fatalf("NodeCount = %d, want %d", a.Config.NodeCount, nMax)
	}
	a.Observe(InboundRadioFrame{AddrHigh: 0, AddrLow: 9999, Temp: 1})
	if a.Config.NodeCount != nMax {
		t.Fatalf("NodeCount changed after table-full observe: %d", a.Config.NodeCount)
	}
	if a.DroppedForFullTable() != 1 {
		t.Fatalf("DroppedForFullTable() = %d, want 1", a.DroppedForFullTable())
	}
}

func TestChannelMin(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	a.Config.ChannelCount = 1
	a.Config.Channels[0] = ConfigChannel{Func: FuncMin}
	a.Config.Nodes[0] = ConfigNode{AddrLow: 1, Channel: 0}
	a.Config.Nodes[1] = ConfigNode{AddrLow: 2, Channel: 0}
	a.Config.NodeCount = 2
	a.State.Nodes[0] = StateNode{Temperature: NoValue, Voltage: NoValue}
	a.State.Nodes[1] = StateNode{Temperature: NoValue, Voltage: NoValue}

	a.Observe(InboundRadioFrame{AddrLow: 1, Temp: 2500})
	a.Observe(InboundRadioFrame{AddrLow: 2, Temp: 2480})
	if got := a.State.Channels[0].Temperature; got != 2480 {
		t.Fatalf("channel MIN = %d, want 2480", got)
	}

	a.Observe(InboundRadioFrame{AddrLow: 1, Temp: NoValue})
	if got := a.State.Channels[0].Temperature; got != NoValue {
		t.Fatalf("channel MIN after missing sample = %d, want NoValue", got)
	}
}

func TestChannelMax(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	a.Config.ChannelCount = 1
	a.Config.Channels[0] = ConfigChannel{Func: FuncMax}
	a.Config.Nodes[0] = ConfigNode{AddrLow: 1, Channel: 0}
	a.Config.Nodes[1] = ConfigNode{AddrLow: 2, Channel: 0}
	a.Config.NodeCount = 2
	a.State.Nodes[0] = StateNode{Temperature: NoValue}
	a.State.Nodes[1] = StateNode{Temperature: NoValue}

	a.Observe(InboundRadioFrame{AddrLow: 1, Temp: 2500})
	a.Observe(InboundRadioFrame{AddrLow: 2, Temp: 2480})
	if got := a.State.Channels[0].Temperature; got != 2500 {
		t.Fatalf("channel MAX = %d, want 2500", got)
	}
}

func TestChannelAvgRoundsToNearest(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	a.Config.ChannelCount = 1
	a.Config.Channels[0] = ConfigChannel{Func: FuncAvg}
	a.Config.Nodes[0] = ConfigNode{AddrLow: 1, Channel: 0}
	a.Config.Nodes[1] = ConfigNode{AddrLow: 2, Channel: 0}
	a.Config.Nodes[2] = ConfigNode{AddrLow: 3, Channel: 0}
	a.Config.NodeCount = 3
	for i := range a.State.Nodes[:3] {
		a.State.Nodes[i] = StateNode{Temperature: NoValue}
	}

	a.Observe(InboundRadioFrame{AddrLow: 1, Temp: 10})
	a.Observe(InboundRadioFrame{AddrLow: 2, Temp: 10})
	a.Observe(InboundRadioFrame{AddrLow: 3, Temp: 11})
	// (10+10+11 + 3/2) / 3 = (31+1)/3 = 10
	if got := a.State.Channels[0].Temperature; got != 10 {
		t.Fatalf("channel AVG = %d, want 10 (round to nearest)", got)
	}
}

func TestChannelAvgRoundsNegativeSumsAwayFromZero(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	a.Config.ChannelCount = 1
	a.Config.Channels[0] = ConfigChannel{Func: FuncAvg}
	a.Config.Nodes[0] = ConfigNode{AddrLow: 1, Channel: 0}
	a.Config.Nodes[1] = ConfigNode{AddrLow: 2, Channel: 0}
	a.Config.NodeCount = 2
	a.State.Nodes[0] = StateNode{Temperature: NoValue}
	a.State.Nodes[1] = StateNode{Temperature: NoValue}

	a.Observe(InboundRadioFrame{AddrLow: 1, Temp: -3})
	a.Observe(InboundRadioFrame{AddrLow: 2, Temp: -4})
	// true mean -3.5 rounds away from zero to -4, not toward zero to -3
	if got := a.State.Channels[0].Temperature; got != -4 {
		t.Fatalf("channel AVG of -3,-4 = %d, want -4 (round half away from zero)", got)
	}
}

func TestAggregationLawsSingleSample(t *testing.T) {
	for _, fn := range []ChannelFunc{FuncMin, FuncMax, FuncAvg} {
		a := NewAggregator(fixedUptime(0))
		a.Config.ChannelCount = 1
		a.Config.Channels[0] = ConfigChannel{Func: fn}
		a.Config.Nodes[0] = ConfigNode{AddrLow: 1, Channel: 0}
		a.Config.NodeCount = 1
		a.State.Nodes[0] = StateNode{Temperature: NoValue}

		a.Observe(InboundRadioFrame{AddrLow: 1, Temp: 500})
		if got := a.State.Channels[0].Temperature; got != 500 {
			t.Fatalf("fn=%v single sample = %d, want 500", fn, got)
		}

		a.Observe(InboundRadioFrame{AddrLow: 1, Temp: NoValue})
		if got := a.State.Channels[0].Temperature; got != NoValue {
			t.Fatalf("fn=%v single missing sample = %d, want NoValue", fn, got)
		}
	}
}

func TestChannelWithNoAssignedNodesIsNoValue(t *testing.T) {
	a := NewAggregator(fixedUptime(0))
	a.Config.ChannelCount = 1
	a.Config.Channels[0] = ConfigChannel{Func: FuncMin}
	a.recomputeChannel(0)
	if got := a.State.Channels[0].Temperature; got != NoValue {
		t.Fatalf("empty channel = %d, want NoValue", got)
	}
}
