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

package steadypb

import (
	"encoding/binary"
	"math"

	"github.com/steadypb/steadypb/internal/debug"
	"github.com/steadypb/steadypb/internal/utf8x"
	"github.com/steadypb/steadypb/internal/wire"
	"github.com/steadypb/steadypb/internal/xunsafe"
)

// maxDepth bounds the nesting of length-delimited scopes (and groups being
// skipped). It is a hard constant: it exists to bound stack growth against
// maliciously deep input, so it is not configurable per call.
const maxDepth = 64

// Cursor is a bounds-checked, forward-only read cursor over a fixed byte
// region.
//
// A length-delimited scope is entered with [Cursor.PushLimit] and left with
// [Cursor.PopLimit]; pushes and pops must pair up in LIFO order. A cursor is
// bound per decode operation and rebound with [Cursor.Reset]; it is not part
// of message state and not safe for concurrent use.
type Cursor struct {
	buf   []byte
	pos   int
	limit int
	depth int
}

// NewCursor returns a cursor over buf.
//
// The cursor aliases buf; the caller must not mutate it mid-decode.
func NewCursor(buf []byte) *Cursor {
	c := new(Cursor)
	c.Reset(buf)
	return c
}

// Reset rebinds the cursor to buf, discarding all position and limit state.
func (c *Cursor) Reset(buf []byte) {
	*c = Cursor{buf: buf, limit: len(buf)}
}

// Offset returns the cursor's position from the start of the region.
func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining returns the number of bytes left before the active limit.
func (c *Cursor) Remaining() int {
	return c.limit - c.pos
}

// AtEnd reports whether the position has reached the active limit.
func (c *Cursor) AtEnd() bool {
	return c.pos == c.limit
}

func (c *Cursor) fail(code errCode) error {
	return &DecodeError{code: code, offset: c.pos}
}

// ReadTag decodes one field tag, splitting it into field number and wire
// type. A field number of zero is invalid.
func (c *Cursor) ReadTag() (int32, wire.Type, error) {
	v, err := c.ReadVarint32()
	if err != nil {
		return 0, 0, err
	}
	num, wt := wire.DecodeTag(uint64(v))
	if num == 0 {
		return 0, 0, c.fail(errCodeFieldNumber)
	}
	return num, wt, nil
}

// ReadVarint64 decodes one varint of up to ten bytes.
func (c *Cursor) ReadVarint64() (uint64, error) {
	v, n := wire.ConsumeVarint64(c.buf[c.pos:c.limit])
	if n <= 0 {
		return 0, c.failVarint(n)
	}
	c.pos += n
	return v, nil
}

// ReadVarint32 decodes one varint, discarding any bits past the 32nd. Sign-
// extended encodings of negative 32-bit values decode to the value's low 32
// bits.
func (c *Cursor) ReadVarint32() (uint32, error) {
	v, n := wire.ConsumeVarint32(c.buf[c.pos:c.limit])
	if n <= 0 {
		return 0, c.failVarint(n)
	}
	c.pos += n
	return v, nil
}

func (c *Cursor) failVarint(n int) error {
	if n == 0 {
		return c.fail(errCodeTruncated)
	}
	return c.fail(errCodeMalformedVarint)
}

// ReadFixed32 decodes four little-endian bytes.
func (c *Cursor) ReadFixed32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, c.fail(errCodeTruncated)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadFixed64 decodes eight little-endian bytes.
func (c *Cursor) ReadFixed64() (uint64, error) {
	if c.Remaining() < 8 {
		return 0, c.fail(errCodeTruncated)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// ReadInt32 decodes an int32 field value.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadVarint32()
	return int32(v), err
}

// ReadInt64 decodes an int64 field value.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadVarint64()
	return int64(v), err
}

// ReadSInt32 decodes a zigzag-encoded sint32 field value.
func (c *Cursor) ReadSInt32() (int32, error) {
	v, err := c.ReadVarint64()
	return wire.DecodeZigZag32(v), err
}

// ReadSInt64 decodes a zigzag-encoded sint64 field value.
func (c *Cursor) ReadSInt64() (int64, error) {
	v, err := c.ReadVarint64()
	return wire.DecodeZigZag64(v), err
}

// ReadBool decodes a bool field value. Any nonzero varint is true.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadVarint64()
	return v != 0, err
}

// ReadSFixed32 decodes an sfixed32 field value.
func (c *Cursor) ReadSFixed32() (int32, error) {
	v, err := c.ReadFixed32()
	return int32(v), err
}

// ReadSFixed64 decodes an sfixed64 field value.
func (c *Cursor) ReadSFixed64() (int64, error) {
	v, err := c.ReadFixed64()
	return int64(v), err
}

// ReadFloat decodes a float field value.
func (c *Cursor) ReadFloat() (float32, error) {
	v, err := c.ReadFixed32()
	return math.Float32frombits(v), err
}

// ReadDouble decodes a double field value.
func (c *Cursor) ReadDouble() (float64, error) {
	v, err := c.ReadFixed64()
	return math.Float64frombits(v), err
}

// readDelimited reads a length prefix and returns a view of that many bytes.
func (c *Cursor) readDelimited() ([]byte, error) {
	n, err := c.readLengthPrefix()
	if err != nil {
		return nil, err
	}
	view := c.buf[c.pos : c.pos+n]
	c.pos += n
	return view, nil
}

func (c *Cursor) readLengthPrefix() (int, error) {
	v, err := c.ReadVarint64()
	if err != nil {
		return 0, err
	}
	if v > uint64(c.Remaining()) {
		return 0, c.fail(errCodeTruncated)
	}
	return int(v), nil
}

// ReadBytes reads a length-delimited field into t, reusing t's capacity.
func (c *Cursor) ReadBytes(t *Text) error {
	view, err := c.readDelimited()
	if err != nil {
		return err
	}
	t.SetBytes(view)
	return nil
}

// ReadString reads a length-delimited field into t, reusing t's capacity.
// The bytes are strictly validated as UTF-8 before they are stored.
func (c *Cursor) ReadString(t *Text) error {
	view, err := c.readDelimited()
	if err != nil {
		return err
	}
	if !utf8x.Valid(view) {
		return c.fail(errCodeUTF8)
	}
	t.SetBytes(view)
	return nil
}

// PushLimit enters a length-delimited scope of n bytes, returning the saved
// outer limit to pass to [Cursor.PopLimit].
//
// Fails with a truncation error if n runs past the enclosing limit, and with
// [ErrRecursionDepth] once scopes nest deeper than a small hard constant.
func (c *Cursor) PushLimit(n int) (int, error) {
	if n < 0 || n > c.Remaining() {
		return 0, c.fail(errCodeTruncated)
	}
	if c.depth >= maxDepth {
		return 0, c.fail(errCodeRecursionDepth)
	}
	c.depth++
	saved := c.limit
	c.limit = c.pos + n
	return saved, nil
}

// PushLimitPrefixed reads a length prefix and enters a scope of that many
// bytes. This is the composition emitted for every nested message field.
func (c *Cursor) PushLimitPrefixed() (int, error) {
	n, err := c.readLengthPrefix()
	if err != nil {
		return 0, err
	}
	return c.PushLimit(n)
}

// PopLimit leaves the innermost scope, restoring the limit saved by the
// matching [Cursor.PushLimit].
//
// Mismatched ordering is a contract violation and panics; it is a bug in the
// caller, not a property of the input.
func (c *Cursor) PopLimit(saved int) {
	if c.depth == 0 || saved < c.limit || saved > len(c.buf) {
		contractViolation("PopLimit(%d) does not match the innermost PushLimit", saved)
	}
	debug.Assert(c.pos <= c.limit, "cursor ran past its limit: %d > %d", c.pos, c.limit)
	c.depth--
	c.limit = saved
}

func (c *Cursor) skip(n int) error {
	if n > c.Remaining() {
		return c.fail(errCodeTruncated)
	}
	c.pos += n
	return nil
}

// SkipField advances past a field's value according to its wire type. This is
// how unknown field numbers remain non-errors: their bytes are skipped and
// decoding continues.
func (c *Cursor) SkipField(num int32, wt wire.Type) error {
	switch wt {
	case wire.VarintType:
		_, err := c.ReadVarint64()
		return err
	case wire.Fixed64Type:
		return c.skip(8)
	case wire.BytesType:
		n, err := c.readLengthPrefix()
		if err != nil {
			return err
		}
		return c.skip(n)
	case wire.StartGroupType:
		return c.skipGroup(num)
	case wire.EndGroupType:
		return c.fail(errCodeEndGroup)
	case wire.Fixed32Type:
		return c.skip(4)
	default:
		return c.fail(errCodeReserved)
	}
}

// skipGroup skips a deprecated group field up to its matching end marker.
// Groups carry no length prefix, so this recurses over nested content; the
// same depth guard as PushLimit applies.
func (c *Cursor) skipGroup(num int32) error {
	if c.depth >= maxDepth {
		return c.fail(errCodeRecursionDepth)
	}
	c.depth++
	for {
		inner, wt, err := c.ReadTag()
		if err != nil {
			return err
		}
		if wt == wire.EndGroupType {
			if inner != num {
				return c.fail(errCodeEndGroup)
			}
			c.depth--
			return nil
		}
		if err := c.SkipField(inner, wt); err != nil {
			return err
		}
	}
}

// ReadPackedFixed64 appends the elements of one packed run of an 8-byte
// fixed-width field onto r. Emitted decoders call this for the packed
// encoding and the element read for the unpacked one; both append, so the
// two encodings may be freely interleaved.
func ReadPackedFixed64[T ~uint64 | ~int64 | ~float64](c *Cursor, r *Repeated[T]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	r.Grow(c.Remaining() / 8)
	for !c.AtEnd() {
		v, err := c.ReadFixed64()
		if err != nil {
			return err
		}
		r.Append(xunsafe.BitCast[T](v))
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedFixed32 appends the elements of one packed run of a 4-byte
// fixed-width field onto r.
func ReadPackedFixed32[T ~uint32 | ~int32 | ~float32](c *Cursor, r *Repeated[T]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	r.Grow(c.Remaining() / 4)
	for !c.AtEnd() {
		v, err := c.ReadFixed32()
		if err != nil {
			return err
		}
		r.Append(xunsafe.BitCast[T](v))
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedVarint32 appends the elements of one packed run of a 32-bit
// varint field onto r.
func ReadPackedVarint32[T ~int32 | ~uint32](c *Cursor, r *Repeated[T]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	for !c.AtEnd() {
		v, err := c.ReadVarint32()
		if err != nil {
			return err
		}
		r.Append(T(v))
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedVarint64 appends the elements of one packed run of a 64-bit
// varint field onto r.
func ReadPackedVarint64[T ~int64 | ~uint64](c *Cursor, r *Repeated[T]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	for !c.AtEnd() {
		v, err := c.ReadVarint64()
		if err != nil {
			return err
		}
		r.Append(T(v))
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedZigZag32 appends the elements of one packed run of a sint32
// field onto r.
func ReadPackedZigZag32(c *Cursor, r *Repeated[int32]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	for !c.AtEnd() {
		v, err := c.ReadSInt32()
		if err != nil {
			return err
		}
		r.Append(v)
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedZigZag64 appends the elements of one packed run of a sint64
// field onto r.
func ReadPackedZigZag64(c *Cursor, r *Repeated[int64]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	for !c.AtEnd() {
		v, err := c.ReadSInt64()
		if err != nil {
			return err
		}
		r.Append(v)
	}
	c.PopLimit(saved)
	return nil
}

// ReadPackedBools appends the elements of one packed run of a bool field
// onto r.
func ReadPackedBools(c *Cursor, r *Repeated[bool]) error {
	saved, err := c.PushLimitPrefixed()
	if err != nil {
		return err
	}
	r.Grow(c.Remaining())
	for !c.AtEnd() {
		v, err := c.ReadBool()
		if err != nil {
			return err
		}
		r.Append(v)
	}
	c.PopLimit(saved)
	return nil
}
