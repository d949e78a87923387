package profinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var swappedOrder = reverseOrder(binary.NativeEndian).(binary.AppendByteOrder)

func words(order binary.AppendByteOrder, vs ...uint32) []byte {
	var b []byte
	for _, v := range vs {
		b = order.AppendUint32(b, v)
	}
	return b
}

func encode(t *testing.T, order binary.AppendByteOrder, fn func(w *Writer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(NewWriter(&buf, order)))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) *Session {
	t.Helper()
	s, err := NewDecoder(bytes.NewReader(data), int64(len(data))).Decode()
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestDecodeFunctionCounts(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		return w.WriteCounts(FunctionInfo, []uint32{10, Uncounted, 20})
	})
	s := decode(t, data)
	require.Equal(t, []uint32{10, Uncounted, 20}, s.FunctionCounts)
	require.Equal(t, 1, s.Packets[FunctionInfo])
	require.Zero(t, s.SwappedPackets)
}

func TestDecodeAccumulatesRepeatedPackets(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		if err := w.WriteCounts(BlockInfo, []uint32{5, 7}); err != nil {
			return err
		}
		return w.WriteCounts(BlockInfo, []uint32{Uncounted, 3, 9})
	})
	s := decode(t, data)
	require.Equal(t, []uint32{5, 10, 9}, s.BlockCounts)
	require.Equal(t, 2, s.Packets[BlockInfo])
}

func TestDecodeShorterPacketKeepsLength(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		if err := w.WriteCounts(EdgeInfo, []uint32{1, 2, 3, 4}); err != nil {
			return err
		}
		return w.WriteCounts(EdgeInfo, []uint32{1})
	})
	s := decode(t, data)
	require.Equal(t, []uint32{2, 2, 3, 4}, s.EdgeCounts)
}

func TestDecodeTablesAreIndependent(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		for i, pt := range CountPackets {
			if err := w.WriteCounts(pt, []uint32{uint32(i + 1)}); err != nil {
				return err
			}
		}
		return nil
	})
	s := decode(t, data)
	for i, pt := range CountPackets {
		require.Equal(t, []uint32{uint32(i + 1)}, s.Table(pt), pt.String())
	}
	require.Nil(t, s.CommandLines)
	require.Nil(t, s.ValueContents)
}

func TestDecodeSwappedByteOrder(t *testing.T) {
	t.Parallel()

	write := func(w *Writer) error {
		if err := w.WriteArguments("./a.out --iterations 3"); err != nil {
			return err
		}
		if err := w.WriteCounts(FunctionInfo, []uint32{1, 0x01020304, Uncounted}); err != nil {
			return err
		}
		if err := w.WriteCounts(OptEdgeInfo, []uint32{0xff000000, 0}); err != nil {
			return err
		}
		if err := w.WriteCounts(ValueInfo, []uint32{0, 2}); err != nil {
			return err
		}
		return w.WriteValueContent([][]int32{nil, {-1, 1 << 20}})
	}

	native := decode(t, encode(t, binary.NativeEndian, write))
	swapped := decode(t, encode(t, swappedOrder, write))

	require.Zero(t, native.SwappedPackets)
	require.Equal(t, 5, swapped.SwappedPackets)

	native.SwappedPackets = swapped.SwappedPackets
	require.Equal(t, native, swapped)
	require.Equal(t, []uint32{1, 0x01020304, Uncounted}, swapped.FunctionCounts)
	require.Equal(t, []int32{-1, 1 << 20}, swapped.ValueContents[1])
}

func TestDecodeMixedByteOrderPackets(t *testing.T) {
	t.Parallel()

	var data []byte
	data = append(data, encode(t, binary.LittleEndian, func(w *Writer) error {
		return w.WriteCounts(BlockInfo, []uint32{1, 2})
	})...)
	data = append(data, encode(t, binary.BigEndian, func(w *Writer) error {
		return w.WriteCounts(BlockInfo, []uint32{10, 20})
	})...)

	s := decode(t, data)
	require.Equal(t, []uint32{11, 22}, s.BlockCounts)
	require.Equal(t, 1, s.SwappedPackets)
}

func TestDecodeValueContentsAppend(t *testing.T) {
	t.Parallel()

	first := encode(t, nil, func(w *Writer) error {
		return w.WriteValueContent([][]int32{nil, {100, -5}, {42}})
	})
	// Counts [0, 2, 1] followed by the samples of indices 1 and 2.
	require.Equal(t, words(binary.NativeEndian,
		uint32(ValueContent), 3, 0, 2, 1, 100, uint32(0xfffffffb), 42), first)

	s := decode(t, first)
	require.Equal(t, [][]int32{nil, {100, -5}, {42}}, s.ValueContents)

	second := encode(t, nil, func(w *Writer) error {
		return w.WriteValueContent([][]int32{{7}, nil, nil})
	})
	s = decode(t, append(first, second...))
	require.Equal(t, [][]int32{{7}, {100, -5}, {42}}, s.ValueContents)
	require.Equal(t, 2, s.Packets[ValueContent])
	require.Nil(t, s.ValueCounts)
}

func TestDecodeValueContentsGrow(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		if err := w.WriteValueContent([][]int32{{1}}); err != nil {
			return err
		}
		return w.WriteValueContent([][]int32{{2}, nil, nil, {3, 4}})
	})
	s := decode(t, data)
	require.Equal(t, [][]int32{{1, 2}, nil, nil, {3, 4}}, s.ValueContents)
}

func TestDecodeArgumentPadding(t *testing.T) {
	t.Parallel()

	order := binary.NativeEndian
	var data []byte
	data = append(data, words(order, uint32(ArgumentInfo), 5)...)
	data = append(data, "hello"...)
	data = append(data, 0xaa, 0xbb, 0xcc)
	data = append(data, words(order, uint32(FunctionInfo), 1, 7)...)

	s := decode(t, data)
	require.Equal(t, []string{"hello"}, s.CommandLines)
	require.Equal(t, []uint32{7}, s.FunctionCounts)
	require.Equal(t, 1, s.NumExecutions())
}

func TestDecodeArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "empty", args: []string{""}},
		{name: "aligned", args: []string{"abcd"}},
		{name: "several", args: []string{"prog", "prog -x", "prog -x -y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := encode(t, nil, func(w *Writer) error {
				for _, a := range tt.args {
					if err := w.WriteArguments(a); err != nil {
						return err
					}
				}
				return nil
			})
			require.Zero(t, len(data)%4)
			s := decode(t, data)
			require.Equal(t, tt.args, s.CommandLines)
		})
	}
}

func TestDecodeEmptyStream(t *testing.T) {
	t.Parallel()

	s := decode(t, nil)
	require.Zero(t, s.NumExecutions())
	require.Nil(t, s.FunctionCounts)
	require.Empty(t, s.Packets)
}

func TestDecodeTruncatedBlock(t *testing.T) {
	t.Parallel()

	order := binary.NativeEndian
	var data []byte
	data = append(data, words(order, uint32(FunctionInfo), 1, 3)...)
	data = append(data, words(order, uint32(EdgeInfo), 4, 1, 2)...)

	s, err := NewDecoder(bytes.NewReader(data), int64(len(data))).Decode()
	require.Nil(t, s)
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var perr *PacketError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, EdgeInfo, perr.Packet)
	require.Equal(t, "counts", perr.Field)
	require.EqualValues(t, 20, perr.Offset)
}

func TestDecodeTruncation(t *testing.T) {
	t.Parallel()

	order := binary.NativeEndian
	tests := []struct {
		name   string
		data   []byte
		packet PacketType
		field  string
	}{
		{
			name:   "partial tag",
			data:   append(words(order, uint32(BlockInfo), 0), 1, 0),
			packet: 0,
			field:  "tag",
		},
		{
			name:   "missing count",
			data:   words(order, uint32(BlockInfo)),
			packet: BlockInfo,
			field:  "count",
		},
		{
			name:   "partial count",
			data:   append(words(order, uint32(BBTraceInfo)), 1, 0),
			packet: BBTraceInfo,
			field:  "count",
		},
		{
			name:   "missing argument length",
			data:   words(order, uint32(ArgumentInfo)),
			packet: ArgumentInfo,
			field:  "length",
		},
		{
			name:   "argument padding cut",
			data:   append(words(order, uint32(ArgumentInfo), 5), "hello"...),
			packet: ArgumentInfo,
			field:  "arguments",
		},
		{
			name:   "value samples cut",
			data:   words(order, uint32(ValueContent), 2, 1, 2, 10, 20),
			packet: ValueContent,
			field:  "samples",
		},
		{
			name:   "huge declared count",
			data:   words(order, uint32(ValueInfo), Uncounted, 1),
			packet: ValueInfo,
			field:  "counts",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewDecoder(bytes.NewReader(tt.data), int64(len(tt.data))).Decode()
			require.Nil(t, s)
			require.ErrorIs(t, err, ErrTruncated)

			var perr *PacketError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.packet, perr.Packet)
			require.Equal(t, tt.field, perr.Field)
		})
	}
}

func TestDecodeUnknownPacket(t *testing.T) {
	t.Parallel()

	order := binary.NativeEndian
	var data []byte
	data = append(data, words(order, uint32(FunctionInfo), 1, 3)...)
	data = append(data, words(order, 5, 0)...)

	s, err := NewDecoder(bytes.NewReader(data), int64(len(data))).Decode()
	require.Nil(t, s)
	require.ErrorIs(t, err, ErrUnknownPacket)

	var uerr *UnknownPacketError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, PacketType(5), uerr.Type)
	require.EqualValues(t, 16, uerr.Offset)
	require.EqualValues(t, 20, uerr.Size)
	require.EqualError(t, err, "unknown packet type #5 at position 16/20")
}

func TestDecodeUnknownPacketSwapped(t *testing.T) {
	t.Parallel()

	data := words(swappedOrder, 0x42)
	_, err := NewDecoder(bytes.NewReader(data), -1).Decode()

	var uerr *UnknownPacketError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, PacketType(0x42), uerr.Type)
	require.EqualValues(t, 4, uerr.Offset)
	require.Contains(t, err.Error(), "at position 4/?")
}

func TestDecodeZeroTag(t *testing.T) {
	t.Parallel()

	data := words(binary.NativeEndian, 0)
	_, err := NewDecoder(bytes.NewReader(data), int64(len(data))).Decode()
	require.ErrorIs(t, err, ErrUnknownPacket)
}

func TestDecoderOffset(t *testing.T) {
	t.Parallel()

	data := encode(t, nil, func(w *Writer) error {
		return w.WriteCounts(ValueInfo, []uint32{1, 2, 3})
	})
	d := NewDecoder(bytes.NewReader(data), int64(len(data)))
	_, err := d.Decode()
	require.NoError(t, err)
	require.EqualValues(t, len(data), d.Offset())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "llvmprof.out")
	data := encode(t, nil, func(w *Writer) error {
		if err := w.WriteArguments("prog"); err != nil {
			return err
		}
		return w.WriteCounts(BlockInfo, []uint32{4, 0, Uncounted})
	})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load("profinfo-test", path)
	require.NoError(t, err)
	require.Equal(t, []string{"prog"}, s.CommandLines)
	require.Equal(t, []uint32{4, 0, Uncounted}, s.BlockCounts)
}

func TestLoadOpenError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.out")
	s, err := Load("profinfo-test", path)
	require.Nil(t, s)
	require.ErrorIs(t, err, fs.ErrNotExist)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, "open", lerr.Op)
	require.True(t, strings.HasPrefix(err.Error(), "profinfo-test: error opening '"+path+"': "))
}

func TestLoadDecodeError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.out")
	require.NoError(t, os.WriteFile(path, words(binary.NativeEndian, 0x7f), 0o644))

	_, err := Load("profinfo-test", path)
	require.ErrorIs(t, err, ErrUnknownPacket)
	require.Contains(t, err.Error(), "profinfo-test: "+path+": unknown packet type #127 at position 4/4")
}

func TestMustLoadExits(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	s := MustLoad("profinfo-test", filepath.Join(t.TempDir(), "missing.out"))
	require.Nil(t, s)
	require.Equal(t, 1, code)
}

func TestPacketErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := error(&PacketError{Packet: BlockInfo, Field: "counts", Offset: 8, Err: io.ErrUnexpectedEOF})
	require.True(t, errors.Is(err, ErrTruncated))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.EqualError(t, err, "block packet truncated reading counts at offset 8: unexpected EOF")
}
