package profinfo

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated     = errors.New("data packet truncated")
	ErrUnknownPacket = errors.New("unknown packet type")
)

// PacketError reports a read that ended before a fixed-size field or a
// declared-length block was complete.
type PacketError struct {
	// Packet is zero when the tag itself was cut short.
	Packet PacketType
	Field  string
	Offset int64
	Err    error
}

func (e *PacketError) Error() string {
	if e.Packet == 0 {
		return fmt.Sprintf("packet tag truncated at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s packet truncated reading %s at offset %d: %v", e.Packet, e.Field, e.Offset, e.Err)
}

func (e *PacketError) Unwrap() []error {
	return []error{ErrTruncated, e.Err}
}

// UnknownPacketError reports a tag outside the closed set of packet kinds.
// Offset is the stream position just past the tag.
type UnknownPacketError struct {
	Type   PacketType
	Offset int64
	// Size is the total stream size, or -1 if unknown.
	Size int64
}

func (e *UnknownPacketError) Error() string {
	size := "?"
	if e.Size >= 0 {
		size = fmt.Sprint(e.Size)
	}
	return fmt.Sprintf("unknown packet type #%d at position %d/%s", uint32(e.Type), e.Offset, size)
}

func (e *UnknownPacketError) Unwrap() error {
	return ErrUnknownPacket
}

// LoadError wraps any failure of Load with the caller's label and the path.
type LoadError struct {
	Tool string
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Op == "open" {
		return fmt.Sprintf("%s: error opening '%s': %v", e.Tool, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Tool, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
