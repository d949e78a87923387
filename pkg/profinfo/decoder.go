package profinfo

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
)

const (
	// readChunkWords bounds a single read so a corrupt length fails on the
	// short read instead of on the allocation.
	readChunkWords = 1 << 16
	readBufSize    = 64 << 10
)

// exit is replaced in tests.
var exit = os.Exit

// Load reads the dump at path. tool names the caller in diagnostics.
// The file is closed before Load returns, on success and on every error.
// No partially built session is ever returned.
func Load(tool, path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Tool: tool, Path: path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	size := int64(-1)
	if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
		size = st.Size()
	}
	adviseSequential(f)

	s, err := NewDecoder(f, size).Decode()
	if err != nil {
		return nil, &LoadError{Tool: tool, Path: path, Op: "decode", Err: err}
	}
	return s, nil
}

// MustLoad is like Load but prints the diagnostic to stderr and terminates
// the process with status 1 on any error.
func MustLoad(tool, path string) *Session {
	s, err := Load(tool, path)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		exit(1)
		return nil
	}
	return s
}

// Decoder parses a packet stream. It is not safe for concurrent use.
type Decoder struct {
	r    *bufio.Reader
	size int64
	off  int64

	// order decodes the words of the current packet.
	order binary.ByteOrder
	buf   []byte
	sess  *Session
}

// NewDecoder returns a decoder reading from r. size is the total stream
// length reported in diagnostics; pass -1 if it is not known.
func NewDecoder(r io.Reader, size int64) *Decoder {
	return &Decoder{
		r:    bufio.NewReaderSize(r, readBufSize),
		size: size,
		buf:  make([]byte, 4*readChunkWords),
	}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.off
}

// Decode reads packets until the stream ends and returns the loaded session.
func (d *Decoder) Decode() (*Session, error) {
	d.sess = NewSession()
	defer func() { d.sess = nil }()

	for {
		err := d.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return d.sess, nil
}

// next decodes one packet. It returns io.EOF only when the stream ends
// cleanly on a packet boundary.
func (d *Decoder) next() error {
	var raw [4]byte
	start := d.off
	n, err := io.ReadFull(d.r, raw[:])
	d.off += int64(n)
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return &PacketError{Field: "tag", Offset: start, Err: err}
	}

	tag := binary.NativeEndian.Uint32(raw[:])
	d.order = binary.NativeEndian
	swapped := tag&0xff == 0
	if swapped {
		tag = bits.ReverseBytes32(tag)
		d.order = reverseOrder(binary.NativeEndian)
	}
	t := PacketType(tag)

	switch t {
	case ArgumentInfo:
		err = d.readArguments()
	case FunctionInfo, BlockInfo, EdgeInfo, OptEdgeInfo, BBTraceInfo, ValueInfo:
		err = d.readBlock(t, d.sess.table(t))
	case ValueContent:
		var counts []uint32
		if err = d.readBlock(t, &counts); err == nil {
			err = d.readValueContents(counts)
		}
	default:
		return &UnknownPacketError{Type: t, Offset: d.off, Size: d.size}
	}
	if err != nil {
		return err
	}

	d.sess.Packets[t]++
	if swapped {
		d.sess.SwappedPackets++
	}
	return nil
}

func (d *Decoder) readArguments() error {
	length, err := d.readWord(ArgumentInfo, "length")
	if err != nil {
		return err
	}
	padded := (uint64(length) + 3) &^ 3
	data, err := d.readBytes(ArgumentInfo, "arguments", padded)
	if err != nil {
		return err
	}
	d.sess.CommandLines = append(d.sess.CommandLines, string(data[:length]))
	return nil
}

// readBlock reads a count word and that many values, then accumulates them
// into *table.
func (d *Decoder) readBlock(t PacketType, table *[]uint32) error {
	count, err := d.readWord(t, "count")
	if err != nil {
		return err
	}
	values, err := d.readWords(t, "counts", count)
	if err != nil {
		return err
	}
	accumulate(table, values)
	return nil
}

// readValueContents reads counts[i] samples for every index with a non-zero
// count and appends them to the session's value contents.
func (d *Decoder) readValueContents(counts []uint32) error {
	contents := d.sess.ValueContents
	if len(contents) < len(counts) {
		grown := make([][]int32, len(counts))
		copy(grown, contents)
		contents = grown
		d.sess.ValueContents = contents
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		words, err := d.readWords(ValueContent, "samples", c)
		if err != nil {
			return err
		}
		dst := contents[i]
		for _, w := range words {
			dst = append(dst, int32(w))
		}
		contents[i] = dst
	}
	return nil
}

func (d *Decoder) readWord(t PacketType, field string) (uint32, error) {
	b, err := d.read(t, field, d.buf[:4])
	if err != nil {
		return 0, err
	}
	return d.order.Uint32(b), nil
}

// readWords reads n words of the current packet in bounded chunks.
func (d *Decoder) readWords(t PacketType, field string, n uint32) ([]uint32, error) {
	start := d.off
	out := make([]uint32, 0, min(n, readChunkWords))
	for remaining := n; remaining > 0; {
		k := min(remaining, readChunkWords)
		b := d.buf[:4*k]
		got, err := io.ReadFull(d.r, b)
		d.off += int64(got)
		if err != nil {
			return nil, truncated(t, field, start, err)
		}
		for i := 0; i < len(b); i += 4 {
			out = append(out, d.order.Uint32(b[i:]))
		}
		remaining -= k
	}
	return out, nil
}

// readBytes reads n raw bytes in bounded chunks.
func (d *Decoder) readBytes(t PacketType, field string, n uint64) ([]byte, error) {
	start := d.off
	out := make([]byte, 0, min(n, uint64(len(d.buf))))
	for remaining := n; remaining > 0; {
		k := min(remaining, uint64(len(d.buf)))
		b := d.buf[:k]
		got, err := io.ReadFull(d.r, b)
		d.off += int64(got)
		if err != nil {
			return nil, truncated(t, field, start, err)
		}
		out = append(out, b...)
		remaining -= k
	}
	return out, nil
}

func (d *Decoder) read(t PacketType, field string, b []byte) ([]byte, error) {
	start := d.off
	n, err := io.ReadFull(d.r, b)
	d.off += int64(n)
	if err != nil {
		return nil, truncated(t, field, start, err)
	}
	return b, nil
}

func truncated(t PacketType, field string, offset int64, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &PacketError{Packet: t, Field: field, Offset: offset, Err: err}
}

func reverseOrder(o binary.ByteOrder) binary.ByteOrder {
	if o.Uint16([]byte{1, 0}) == 1 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
