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

	"github.com/steadypb/steadypb/internal/utf8x"
	"github.com/steadypb/steadypb/internal/wire"
	"github.com/steadypb/steadypb/internal/xunsafe"
)

// Sink is a bounds-checked write cursor.
//
// A sink over a caller-supplied buffer has fixed capacity and fails with
// [ErrSinkOverflow] when a write would run past it; a growable sink doubles
// its backing storage instead. Capacity is checked once per write with a
// slightly pessimistic bound rather than per byte; a fixed sink may therefore
// refuse a write a few bytes before it is literally full.
//
// Like [Cursor], a sink is bound per operation and is not safe for
// concurrent use.
type Sink struct {
	buf      []byte
	n        int
	growable bool
}

// NewSink returns a fixed-capacity sink writing into buf.
func NewSink(buf []byte) *Sink {
	return &Sink{buf: buf}
}

// NewGrowableSink returns a sink that grows its own backing storage as
// needed. Growth is doubling, so the amortized cost per write is constant.
func NewGrowableSink() *Sink {
	return &Sink{growable: true}
}

// Reset rebinds a fixed sink to buf and rewinds it.
func (s *Sink) Reset(buf []byte) {
	*s = Sink{buf: buf}
}

// Rewind keeps the sink's storage but discards everything written so far.
func (s *Sink) Rewind() {
	s.n = 0
}

// BytesWritten returns the total number of bytes written so far.
func (s *Sink) BytesWritten() int {
	return s.n
}

// Bytes returns a view of everything written so far.
//
// The view is invalidated by the next write to a growable sink.
func (s *Sink) Bytes() []byte {
	return s.buf[:s.n]
}

// ensure makes room for k more bytes.
func (s *Sink) ensure(k int) error {
	if s.n+k <= len(s.buf) {
		return nil
	}
	if !s.growable {
		return ErrSinkOverflow
	}
	size := max(2*len(s.buf), s.n+k, 64)
	grown := make([]byte, size)
	copy(grown, s.buf[:s.n])
	s.buf = grown
	return nil
}

func (s *Sink) putVarint(v uint64) {
	for v >= 0x80 {
		s.buf[s.n] = byte(v) | 0x80
		s.n++
		v >>= 7
	}
	s.buf[s.n] = byte(v)
	s.n++
}

// WriteVarint writes one varint. v is treated as unsigned.
func (s *Sink) WriteVarint(v uint64) error {
	if err := s.ensure(wire.MaxVarint64Len); err != nil {
		return err
	}
	s.putVarint(v)
	return nil
}

// WriteTag writes the tag for the given field number and wire type.
func (s *Sink) WriteTag(num int32, t wire.Type) error {
	return s.WriteVarint(wire.EncodeTag(num, t))
}

// WriteLengthPrefix writes a byte-count prefix. Emitted code writes a nested
// message as tag, prefix of the sub-message's serialized size, then the
// sub-message itself.
func (s *Sink) WriteLengthPrefix(n int) error {
	return s.WriteVarint(uint64(n))
}

// WriteInt32 writes an int32 field value. Negative values are sign-extended
// to ten bytes, matching every other proto2 encoder.
func (s *Sink) WriteInt32(v int32) error {
	return s.WriteVarint(uint64(int64(v)))
}

// WriteInt64 writes an int64 field value.
func (s *Sink) WriteInt64(v int64) error {
	return s.WriteVarint(uint64(v))
}

// WriteUInt32 writes a uint32 field value. Never sign-extended.
func (s *Sink) WriteUInt32(v uint32) error {
	return s.WriteVarint(uint64(v))
}

// WriteUInt64 writes a uint64 field value.
func (s *Sink) WriteUInt64(v uint64) error {
	return s.WriteVarint(v)
}

// WriteSInt32 writes a zigzag-encoded sint32 field value.
func (s *Sink) WriteSInt32(v int32) error {
	return s.WriteVarint(wire.EncodeZigZag32(v))
}

// WriteSInt64 writes a zigzag-encoded sint64 field value.
func (s *Sink) WriteSInt64(v int64) error {
	return s.WriteVarint(wire.EncodeZigZag64(v))
}

// WriteBool writes a bool field value.
func (s *Sink) WriteBool(v bool) error {
	if err := s.ensure(1); err != nil {
		return err
	}
	var b byte
	if v {
		b = 1
	}
	s.buf[s.n] = b
	s.n++
	return nil
}

// WriteFixed32 writes four little-endian bytes.
func (s *Sink) WriteFixed32(v uint32) error {
	if err := s.ensure(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(s.buf[s.n:], v)
	s.n += 4
	return nil
}

// WriteFixed64 writes eight little-endian bytes.
func (s *Sink) WriteFixed64(v uint64) error {
	if err := s.ensure(8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s.buf[s.n:], v)
	s.n += 8
	return nil
}

// WriteSFixed32 writes an sfixed32 field value.
func (s *Sink) WriteSFixed32(v int32) error {
	return s.WriteFixed32(uint32(v))
}

// WriteSFixed64 writes an sfixed64 field value.
func (s *Sink) WriteSFixed64(v int64) error {
	return s.WriteFixed64(uint64(v))
}

// WriteFloat writes a float field value.
func (s *Sink) WriteFloat(v float32) error {
	return s.WriteFixed32(math.Float32bits(v))
}

// WriteDouble writes a double field value.
func (s *Sink) WriteDouble(v float64) error {
	return s.WriteFixed64(math.Float64bits(v))
}

// WriteBytes writes a length-delimited field value.
func (s *Sink) WriteBytes(b []byte) error {
	if err := s.ensure(wire.MaxVarint64Len + len(b)); err != nil {
		return err
	}
	s.putVarint(uint64(len(b)))
	s.n += copy(s.buf[s.n:], b)
	return nil
}

// WriteText writes the contents of t as a length-delimited field value,
// directly from t's owned storage.
func (s *Sink) WriteText(t *Text) error {
	return s.WriteBytes(t.Bytes())
}

// WriteString writes a length-delimited string field value, validating it as
// UTF-8 first. Go strings are raw byte sequences, so an arbitrary one may
// well not be valid UTF-8; the wire format requires that string fields are.
func (s *Sink) WriteString(v string) error {
	if !utf8x.ValidString(v) {
		return ErrInvalidUTF8
	}
	if err := s.ensure(wire.MaxVarint64Len + len(v)); err != nil {
		return err
	}
	s.putVarint(uint64(len(v)))
	s.n += copy(s.buf[s.n:], v)
	return nil
}

// WritePackedFixed64 writes r as one packed, length-delimited run of 8-byte
// fixed-width elements, preceded by the field's tag. Nothing is written for
// an empty container.
func WritePackedFixed64[T ~uint64 | ~int64 | ~float64](s *Sink, num int32, r *Repeated[T]) error {
	if r.Len() == 0 {
		return nil
	}
	if err := s.WriteTag(num, wire.BytesType); err != nil {
		return err
	}
	if err := s.ensure(wire.MaxVarint64Len + 8*r.Len()); err != nil {
		return err
	}
	s.putVarint(uint64(8 * r.Len()))
	for _, v := range r.Slice() {
		binary.LittleEndian.PutUint64(s.buf[s.n:], xunsafe.BitCast[uint64](v))
		s.n += 8
	}
	return nil
}

// WritePackedFixed32 writes r as one packed run of 4-byte fixed-width
// elements, preceded by the field's tag.
func WritePackedFixed32[T ~uint32 | ~int32 | ~float32](s *Sink, num int32, r *Repeated[T]) error {
	if r.Len() == 0 {
		return nil
	}
	if err := s.WriteTag(num, wire.BytesType); err != nil {
		return err
	}
	if err := s.ensure(wire.MaxVarint64Len + 4*r.Len()); err != nil {
		return err
	}
	s.putVarint(uint64(4 * r.Len()))
	for _, v := range r.Slice() {
		binary.LittleEndian.PutUint32(s.buf[s.n:], xunsafe.BitCast[uint32](v))
		s.n += 4
	}
	return nil
}

// WritePackedVarints writes r as one packed run of varint elements, preceded
// by the field's tag. Signed element types sign-extend, unsigned ones do
// not, exactly as for the singular writes.
func WritePackedVarints[T ~int32 | ~uint32 | ~int64 | ~uint64](s *Sink, num int32, r *Repeated[T]) error {
	if r.Len() == 0 {
		return nil
	}
	if err := s.WriteTag(num, wire.BytesType); err != nil {
		return err
	}
	if err := s.WriteLengthPrefix(SizePackedVarints(r)); err != nil {
		return err
	}
	for _, v := range r.Slice() {
		if err := s.WriteVarint(uint64(int64(v))); err != nil {
			return err
		}
	}
	return nil
}

// WritePackedZigZag writes r as one packed run of zigzag-encoded elements,
// preceded by the field's tag.
func WritePackedZigZag[T ~int32 | ~int64](s *Sink, num int32, r *Repeated[T]) error {
	if r.Len() == 0 {
		return nil
	}
	if err := s.WriteTag(num, wire.BytesType); err != nil {
		return err
	}
	if err := s.WriteLengthPrefix(SizePackedZigZag(r)); err != nil {
		return err
	}
	for _, v := range r.Slice() {
		if err := s.WriteVarint(wire.EncodeZigZag64(int64(v))); err != nil {
			return err
		}
	}
	return nil
}

// WritePackedBools writes r as one packed run of bool elements, preceded by
// the field's tag.
func WritePackedBools(s *Sink, num int32, r *Repeated[bool]) error {
	if r.Len() == 0 {
		return nil
	}
	if err := s.WriteTag(num, wire.BytesType); err != nil {
		return err
	}
	if err := s.ensure(wire.MaxVarint64Len + r.Len()); err != nil {
		return err
	}
	s.putVarint(uint64(r.Len()))
	for _, v := range r.Slice() {
		var b byte
		if v {
			b = 1
		}
		s.buf[s.n] = b
		s.n++
	}
	return nil
}
