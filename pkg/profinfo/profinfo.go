// Package profinfo loads the binary profiling dump written by an instrumented
// program's runtime.
//
// A dump is a concatenation of packets. Every packet starts with a 32-bit tag
// followed by a tag-specific payload of 32-bit words. The producer writes in its
// own byte order; the reader detects a mismatch per packet from the tag, whose
// value always fits in the low byte.
package profinfo

import (
	"fmt"
	"strings"
)

// Uncounted marks a table entry for which no packet has recorded a value.
const Uncounted uint32 = ^uint32(0)

// PacketType is the tag that starts every packet.
type PacketType uint32

// Packet tags are fixed by the producer and must never change.
const (
	ArgumentInfo PacketType = 1
	FunctionInfo PacketType = 2
	BlockInfo    PacketType = 3
	EdgeInfo     PacketType = 4
	BBTraceInfo  PacketType = 6
	OptEdgeInfo  PacketType = 7
	ValueInfo    PacketType = 8
	ValueContent PacketType = 9
)

// CountPackets lists the packet kinds whose payload is a single count block,
// in the order tables are reported and encoded.
var CountPackets = []PacketType{
	FunctionInfo,
	BlockInfo,
	EdgeInfo,
	OptEdgeInfo,
	BBTraceInfo,
	ValueInfo,
}

var packetNames = map[PacketType]string{
	ArgumentInfo: "arguments",
	FunctionInfo: "function",
	BlockInfo:    "block",
	EdgeInfo:     "edge",
	OptEdgeInfo:  "opt-edge",
	BBTraceInfo:  "bbtrace",
	ValueInfo:    "value",
	ValueContent: "value-content",
}

// Known reports whether t belongs to the closed set of packet kinds.
func (t PacketType) Known() bool {
	_, ok := packetNames[t]
	return ok
}

// IsCount reports whether packets of kind t carry a single count block.
func (t PacketType) IsCount() bool {
	switch t {
	case FunctionInfo, BlockInfo, EdgeInfo, OptEdgeInfo, BBTraceInfo, ValueInfo:
		return true
	}
	return false
}

func (t PacketType) String() string {
	if name, ok := packetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PacketType(%d)", uint32(t))
}

// MarshalText lets PacketType be used as a JSON object key.
func (t PacketType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *PacketType) UnmarshalText(b []byte) error {
	p, err := ParsePacketType(string(b))
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// ParsePacketType resolves a packet name such as "block" or "opt-edge".
func ParsePacketType(name string) (PacketType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range packetNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown packet type %q", name)
}

// ParseTable resolves the name of a count table.
func ParseTable(name string) (PacketType, error) {
	t, err := ParsePacketType(name)
	if err != nil {
		return 0, err
	}
	if !t.IsCount() {
		return 0, fmt.Errorf("%q is not a count table", name)
	}
	return t, nil
}

// AddCounts combines two counts. Uncounted is the identity: if exactly one
// operand is Uncounted the other is returned, if both are the result is
// Uncounted. Otherwise the sum wraps like any uint32 addition.
func AddCounts(a, b uint32) uint32 {
	if a == Uncounted {
		return b
	}
	if b == Uncounted {
		return a
	}
	return a + b
}

// accumulate folds src into *dst, growing *dst with Uncounted as needed.
func accumulate(dst *[]uint32, src []uint32) {
	data := *dst
	if len(data) < len(src) {
		grown := make([]uint32, len(src))
		copy(grown, data)
		for i := len(data); i < len(grown); i++ {
			grown[i] = Uncounted
		}
		data = grown
	}
	for i, v := range src {
		data[i] = AddCounts(v, data[i])
	}
	*dst = data
}

// appendContents appends src[i] to (*dst)[i], growing *dst with empty entries.
func appendContents(dst *[][]int32, src [][]int32) {
	data := *dst
	if len(data) < len(src) {
		grown := make([][]int32, len(src))
		copy(grown, data)
		data = grown
	}
	for i, samples := range src {
		if len(samples) == 0 {
			continue
		}
		data[i] = append(data[i], samples...)
	}
	*dst = data
}
