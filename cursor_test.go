// Copyright 2025 The steadypb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package steadypb_test

import (
	"io"
	"testing"
	"unsafe"

	"github.com/planetscale/vtprotobuf/protohelpers"
	"github.com/protocolbuffers/protoscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steadypb/steadypb"
	"github.com/steadypb/steadypb/internal/wire"
)

// scope assembles a wire-format payload from protoscope text.
func scope(t *testing.T, text string) []byte {
	t.Helper()
	b, err := protoscope.NewScanner(text).Exec()
	require.NoError(t, err)
	return b
}

func TestReadTag(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor(scope(t, `1: 150 12: {"hi"}`))

	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, int32(1), num)
	assert.Equal(t, wire.VarintType, wt)
	v, err := cur.ReadVarint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(150), v)

	num, wt, err = cur.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, int32(12), num)
	assert.Equal(t, wire.BytesType, wt)
}

func TestReadTagZeroFieldNumber(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor([]byte{0x00})
	_, _, err := cur.ReadTag()
	assert.ErrorIs(t, err, steadypb.ErrFieldNumber)
}

func TestLimitsNest(t *testing.T) {
	t.Parallel()

	// 4: {1: 1.5} followed by a trailing varint field.
	cur := steadypb.NewCursor(scope(t, `4: {1: 1.5} 2: 7`))

	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	require.Equal(t, int32(4), num)
	require.Equal(t, wire.BytesType, wt)

	saved, err := cur.PushLimitPrefixed()
	require.NoError(t, err)
	assert.Equal(t, 9, cur.Remaining()) // 1-byte tag + 8-byte double

	num, _, err = cur.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, int32(1), num)
	v, err := cur.ReadDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	assert.True(t, cur.AtEnd())

	cur.PopLimit(saved)
	assert.False(t, cur.AtEnd())

	num, _, err = cur.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, int32(2), num)
}

func TestPopLimitMismatchPanics(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor(make([]byte, 16))
	_, err := cur.PushLimit(8)
	require.NoError(t, err)
	_, err = cur.PushLimit(4)
	require.NoError(t, err)

	// Popping the outer scope while the inner one is still open is a bug
	// in the caller.
	assert.Panics(t, func() { cur.PopLimit(2) })
}

func TestPopLimitWithoutPushPanics(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor(make([]byte, 16))
	assert.Panics(t, func() { cur.PopLimit(16) })
}

func TestPushLimitPastEnd(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor(make([]byte, 4))
	_, err := cur.PushLimit(5)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDepthGuard(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor(nil)
	for range 64 {
		_, err := cur.PushLimit(0)
		require.NoError(t, err)
	}
	_, err := cur.PushLimit(0)
	assert.ErrorIs(t, err, steadypb.ErrRecursionDepth)
}

func TestTruncatedReads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
		read func(*steadypb.Cursor) error
	}{
		{"empty varint", nil, func(c *steadypb.Cursor) error {
			_, err := c.ReadVarint64()
			return err
		}},
		{"cut varint", []byte{0x96}, func(c *steadypb.Cursor) error {
			_, err := c.ReadVarint64()
			return err
		}},
		{"cut fixed32", []byte{1, 2, 3}, func(c *steadypb.Cursor) error {
			_, err := c.ReadFixed32()
			return err
		}},
		{"cut fixed64", []byte{1, 2, 3, 4, 5, 6, 7}, func(c *steadypb.Cursor) error {
			_, err := c.ReadFixed64()
			return err
		}},
		{"cut delimited", []byte{5, 'h', 'i'}, func(c *steadypb.Cursor) error {
			var text steadypb.Text
			return c.ReadBytes(&text)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.read(steadypb.NewCursor(tt.buf))
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestMalformedVarint(t *testing.T) {
	t.Parallel()

	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}
	_, err := steadypb.NewCursor(buf).ReadVarint64()
	assert.ErrorIs(t, err, steadypb.ErrMalformedVarint)

	var decErr *steadypb.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, 0, decErr.Offset())
}

func TestReadStringRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor([]byte{2, 0xc0, 0x80}) // overlong NUL
	var text steadypb.Text
	assert.ErrorIs(t, cur.ReadString(&text), steadypb.ErrInvalidUTF8)

	// ReadBytes takes the same payload verbatim.
	cur.Reset([]byte{2, 0xc0, 0x80})
	require.NoError(t, cur.ReadBytes(&text))
	assert.Equal(t, []byte{0xc0, 0x80}, text.Bytes())
}

func TestSkipField(t *testing.T) {
	t.Parallel()

	buf := scope(t, `
		1: 150
		2: 1.5
		3: {"skipped"}
		4: 2.25i32
		5: !{ 1: 1 2: {"nested"} }
		6: 42
	`)

	// Skip everything with the cursor, recording field boundaries.
	cur := steadypb.NewCursor(buf)
	var bounds []int
	for !cur.AtEnd() {
		num, wt, err := cur.ReadTag()
		require.NoError(t, err)
		require.NoError(t, cur.SkipField(num, wt))
		bounds = append(bounds, cur.Offset())
	}
	assert.Len(t, bounds, 6)

	// An independent skipper must agree on every boundary.
	var prev int
	for _, end := range bounds {
		n, err := protohelpers.Skip(buf[prev:])
		require.NoError(t, err)
		assert.Equal(t, end, prev+n)
		prev = end
	}
}

func TestSkipGroupMismatchedEnd(t *testing.T) {
	t.Parallel()

	// Group 1 closed by group 2's end marker.
	buf := []byte{1<<3 | 3, 2<<3 | 4}
	cur := steadypb.NewCursor(buf)
	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	assert.ErrorIs(t, cur.SkipField(num, wt), steadypb.ErrEndGroup)
}

func TestStrayEndGroup(t *testing.T) {
	t.Parallel()

	cur := steadypb.NewCursor([]byte{1<<3 | 4})
	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	assert.ErrorIs(t, cur.SkipField(num, wt), steadypb.ErrEndGroup)
}

func TestSkipGroupDepthGuard(t *testing.T) {
	t.Parallel()

	var buf []byte
	for range 70 {
		buf = append(buf, 1<<3|3)
	}
	for range 70 {
		buf = append(buf, 1<<3|4)
	}

	cur := steadypb.NewCursor(buf)
	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	assert.ErrorIs(t, cur.SkipField(num, wt), steadypb.ErrRecursionDepth)
}

func TestReservedWireTypes(t *testing.T) {
	t.Parallel()

	for _, wt := range []wire.Type{6, 7} {
		cur := steadypb.NewCursor([]byte{byte(1<<3) | byte(wt)})
		num, got, err := cur.ReadTag()
		require.NoError(t, err)
		assert.ErrorIs(t, cur.SkipField(num, got), steadypb.ErrReserved)
	}
}

func TestPackedReaders(t *testing.T) {
	t.Parallel()

	t.Run("varint32", func(t *testing.T) {
		t.Parallel()
		cur := steadypb.NewCursor(scope(t, `{1 2 300}`))
		var r steadypb.Repeated[int32]
		require.NoError(t, steadypb.ReadPackedVarint32(cur, &r))
		assert.Equal(t, []int32{1, 2, 300}, r.Slice())
		assert.True(t, cur.AtEnd())
	})

	t.Run("fixed64", func(t *testing.T) {
		t.Parallel()
		cur := steadypb.NewCursor(scope(t, `{1.0 2.5}`))
		var r steadypb.Repeated[float64]
		require.NoError(t, steadypb.ReadPackedFixed64(cur, &r))
		assert.Equal(t, []float64{1.0, 2.5}, r.Slice())
	})

	t.Run("zigzag", func(t *testing.T) {
		t.Parallel()
		cur := steadypb.NewCursor(scope(t, `{-1z 1z -64z}`))
		var r steadypb.Repeated[int64]
		require.NoError(t, steadypb.ReadPackedZigZag64(cur, &r))
		assert.Equal(t, []int64{-1, 1, -64}, r.Slice())
	})

	t.Run("bools", func(t *testing.T) {
		t.Parallel()
		cur := steadypb.NewCursor(scope(t, `{1 0 1}`))
		var r steadypb.Repeated[bool]
		require.NoError(t, steadypb.ReadPackedBools(cur, &r))
		assert.Equal(t, []bool{true, false, true}, r.Slice())
	})

	t.Run("truncated run", func(t *testing.T) {
		t.Parallel()
		// Length prefix promises 8 bytes, only 3 follow.
		cur := steadypb.NewCursor([]byte{8, 1, 2, 3})
		var r steadypb.Repeated[uint64]
		assert.ErrorIs(t, steadypb.ReadPackedFixed64(cur, &r), io.ErrUnexpectedEOF)
	})
}

func TestUnsafeCursor(t *testing.T) {
	t.Parallel()

	buf := scope(t, `1: 150`)
	cur := steadypb.NewCursorUnsafe(unsafe.Pointer(&buf[0]), len(buf))

	num, wt, err := cur.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, int32(1), num)
	assert.Equal(t, wire.VarintType, wt)
	v, err := cur.ReadVarint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(150), v)
	assert.True(t, cur.AtEnd())
}

func TestUnsafeCursorNilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { steadypb.NewCursorUnsafe(nil, 8) })
	assert.NotPanics(t, func() {
		cur := steadypb.NewCursorUnsafe(nil, 0)
		assert.True(t, cur.AtEnd())
	})
}
