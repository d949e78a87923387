package profinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Writer emits packets in the wire format read by Decoder. It is the
// producer side of the format and is used to re-encode merged sessions.
type Writer struct {
	w     io.Writer
	order binary.AppendByteOrder
	buf   []byte
	off   int64
}

// NewWriter returns a Writer encoding every word in order. A nil order
// selects the host byte order.
func NewWriter(w io.Writer, order binary.AppendByteOrder) *Writer {
	if order == nil {
		order = binary.NativeEndian
	}
	return &Writer{w: w, order: order}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.off
}

// WriteArguments writes one ArgumentInfo packet. The text is padded with
// zero bytes to a multiple of four.
func (w *Writer) WriteArguments(cmdline string) error {
	if uint64(len(cmdline)) > math.MaxUint32 {
		return errors.New("profinfo: command line too long")
	}
	w.buf = w.buf[:0]
	w.buf = w.order.AppendUint32(w.buf, uint32(ArgumentInfo))
	w.buf = w.order.AppendUint32(w.buf, uint32(len(cmdline)))
	w.buf = append(w.buf, cmdline...)
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
	return w.flush()
}

// WriteCounts writes one count packet of kind t.
func (w *Writer) WriteCounts(t PacketType, counts []uint32) error {
	if !t.IsCount() {
		return fmt.Errorf("profinfo: %s is not a count packet", t)
	}
	if uint64(len(counts)) > math.MaxUint32 {
		return errors.New("profinfo: count block too large")
	}
	w.buf = w.buf[:0]
	w.buf = w.order.AppendUint32(w.buf, uint32(t))
	w.buf = w.appendWords(w.buf, counts)
	return w.flush()
}

// WriteValueContent writes one ValueContent packet carrying samples[i] for
// every index i. Empty entries contribute a zero count and no samples.
func (w *Writer) WriteValueContent(samples [][]int32) error {
	if uint64(len(samples)) > math.MaxUint32 {
		return errors.New("profinfo: value block too large")
	}
	counts := make([]uint32, len(samples))
	for i, s := range samples {
		if uint64(len(s)) > math.MaxUint32 {
			return fmt.Errorf("profinfo: too many samples at index %d", i)
		}
		counts[i] = uint32(len(s))
	}

	w.buf = w.buf[:0]
	w.buf = w.order.AppendUint32(w.buf, uint32(ValueContent))
	w.buf = w.appendWords(w.buf, counts)
	for _, s := range samples {
		for _, v := range s {
			w.buf = w.order.AppendUint32(w.buf, uint32(v))
		}
	}
	return w.flush()
}

// WriteSession encodes s so that decoding the output yields the same tables:
// command lines first, then every non-empty count table, then one
// ValueContent packet if any samples exist.
func (w *Writer) WriteSession(s *Session) error {
	for _, cmdline := range s.CommandLines {
		if err := w.WriteArguments(cmdline); err != nil {
			return err
		}
	}
	for _, t := range CountPackets {
		table := s.Table(t)
		if len(table) == 0 {
			continue
		}
		if err := w.WriteCounts(t, table); err != nil {
			return err
		}
	}
	if len(s.ValueContents) > 0 {
		return w.WriteValueContent(s.ValueContents)
	}
	return nil
}

func (w *Writer) appendWords(b []byte, words []uint32) []byte {
	b = w.order.AppendUint32(b, uint32(len(words)))
	for _, v := range words {
		b = w.order.AppendUint32(b, v)
	}
	return b
}

func (w *Writer) flush() error {
	for p := w.buf; len(p) > 0; {
		n, err := w.w.Write(p)
		w.off += int64(n)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// ParseByteOrder resolves "native", "little" or "big".
func ParseByteOrder(name string) (binary.AppendByteOrder, error) {
	switch name {
	case "", "native":
		return binary.NativeEndian, nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", name)
}
