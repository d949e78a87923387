package profinfo

import "slices"

// Session holds everything loaded from one dump, or several merged dumps.
// It is built once and treated as read-only afterwards.
type Session struct {
	CommandLines      []string  `json:"command_lines"`
	FunctionCounts    []uint32  `json:"function_counts"`
	BlockCounts       []uint32  `json:"block_counts"`
	EdgeCounts        []uint32  `json:"edge_counts"`
	OptimalEdgeCounts []uint32  `json:"optimal_edge_counts"`
	BBTrace           []uint32  `json:"bb_trace"`
	ValueCounts       []uint32  `json:"value_counts"`
	ValueContents     [][]int32 `json:"value_contents"`

	// Packets counts the decoded packets of each kind.
	Packets map[PacketType]int `json:"packets,omitempty"`

	// SwappedPackets counts packets written in the opposite byte order.
	SwappedPackets int `json:"swapped_packets"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{Packets: make(map[PacketType]int)}
}

// NumExecutions is the number of profiled runs, one command line each.
func (s *Session) NumExecutions() int {
	return len(s.CommandLines)
}

// Table returns the count table filled by packets of kind t, or nil if t is
// not a count packet.
func (s *Session) Table(t PacketType) []uint32 {
	if p := s.table(t); p != nil {
		return *p
	}
	return nil
}

func (s *Session) table(t PacketType) *[]uint32 {
	switch t {
	case FunctionInfo:
		return &s.FunctionCounts
	case BlockInfo:
		return &s.BlockCounts
	case EdgeInfo:
		return &s.EdgeCounts
	case OptEdgeInfo:
		return &s.OptimalEdgeCounts
	case BBTraceInfo:
		return &s.BBTrace
	case ValueInfo:
		return &s.ValueCounts
	}
	return nil
}

// Merge folds o into s with the same rules the decoder applies to repeated
// packets: counts are combined with AddCounts, command lines and value
// samples are appended.
func (s *Session) Merge(o *Session) {
	if o == nil {
		return
	}
	s.CommandLines = append(s.CommandLines, o.CommandLines...)
	for _, t := range CountPackets {
		accumulate(s.table(t), o.Table(t))
	}
	appendContents(&s.ValueContents, o.ValueContents)

	if s.Packets == nil {
		s.Packets = make(map[PacketType]int, len(o.Packets))
	}
	for t, n := range o.Packets {
		s.Packets[t] += n
	}
	s.SwappedPackets += o.SwappedPackets
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := &Session{
		CommandLines:      slices.Clone(s.CommandLines),
		FunctionCounts:    slices.Clone(s.FunctionCounts),
		BlockCounts:       slices.Clone(s.BlockCounts),
		EdgeCounts:        slices.Clone(s.EdgeCounts),
		OptimalEdgeCounts: slices.Clone(s.OptimalEdgeCounts),
		BBTrace:           slices.Clone(s.BBTrace),
		ValueCounts:       slices.Clone(s.ValueCounts),
		SwappedPackets:    s.SwappedPackets,
	}
	if s.ValueContents != nil {
		c.ValueContents = make([][]int32, len(s.ValueContents))
		for i, v := range s.ValueContents {
			c.ValueContents[i] = slices.Clone(v)
		}
	}
	if s.Packets != nil {
		c.Packets = make(map[PacketType]int, len(s.Packets))
		for t, n := range s.Packets {
			c.Packets[t] = n
		}
	}
	return c
}
