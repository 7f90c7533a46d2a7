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

// Package wire implements the low-level primitives of the Protobuf binary
// wire format: varints, zigzag mapping for signed types, and field tags.
package wire

import (
	"math/bits"

	"google.golang.org/protobuf/encoding/protowire"
)

// Type is a Protobuf wire type.
type Type = protowire.Type

// The four wire types of proto2, plus the deprecated group markers, which
// are recognized only so that unknown groups can be skipped.
const (
	VarintType     = protowire.VarintType
	Fixed64Type    = protowire.Fixed64Type
	BytesType      = protowire.BytesType
	StartGroupType = protowire.StartGroupType
	EndGroupType   = protowire.EndGroupType
	Fixed32Type    = protowire.Fixed32Type
)

const (
	// MaxVarint32Len is the maximum number of bytes in a varint encoding a
	// 32-bit value.
	MaxVarint32Len = 5
	// MaxVarint64Len is the maximum number of bytes in a varint encoding a
	// 64-bit value.
	MaxVarint64Len = 10
)

// AppendVarint appends the varint encoding of v to buf: seven value bits per
// byte, continuation bit set on all but the last.
//
// v is treated as unsigned; it is never sign-extended.
func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// SizeVarint returns the number of bytes AppendVarint will write for v.
func SizeVarint(v uint64) int {
	// Each byte carries 7 bits, and a zero value still takes one byte.
	return (bits.Len64(v|1) + 6) / 7
}

// ConsumeVarint64 decodes a varint from the front of b.
//
// Returns the decoded value and the number of bytes consumed. A return count
// of 0 means b was exhausted mid-varint; a negative count means the varint
// had a continuation bit set past the tenth byte.
func ConsumeVarint64(b []byte) (uint64, int) {
	// Single-byte values dominate real streams.
	if len(b) > 0 && b[0] < 0x80 {
		return uint64(b[0]), 1
	}

	var v uint64
	for i := 0; i < MaxVarint64Len; i++ {
		if i >= len(b) {
			return 0, 0
		}
		c := b[i]
		v |= uint64(c&0x7f) << uint(i*7)
		if c < 0x80 {
			return v, i + 1
		}
	}
	return 0, -1
}

// ConsumeVarint32 decodes a varint from the front of b, keeping the low 32
// bits of the value.
//
// Up to five bytes are read; any bits of the fifth byte beyond the 32nd bit
// of the value are discarded, for compatibility with producers that emit
// sign-extended 64-bit encodings of negative 32-bit values. After the fifth
// byte, up to five more continuation bytes are tolerated and ignored.
//
// The return count follows [ConsumeVarint64]: 0 for truncation, negative for
// a malformed varint.
func ConsumeVarint32(b []byte) (uint32, int) {
	if len(b) > 0 && b[0] < 0x80 {
		return uint32(b[0]), 1
	}

	var v uint32
	for i := 0; i < MaxVarint32Len; i++ {
		if i >= len(b) {
			return 0, 0
		}
		c := b[i]
		v |= uint32(c&0x7f) << uint(i*7)
		if c < 0x80 {
			return v, i + 1
		}
	}

	// Discard the upper 32 bits of the encoding.
	for i := MaxVarint32Len; i < MaxVarint64Len; i++ {
		if i >= len(b) {
			return 0, 0
		}
		if b[i] < 0x80 {
			return v, i + 1
		}
	}
	return 0, -1
}

// EncodeZigZag64 maps a signed integer onto an unsigned one so that values of
// small magnitude stay small under varint encoding.
func EncodeZigZag64(n int64) uint64 {
	return protowire.EncodeZigZag(n)
}

// DecodeZigZag64 is the exact inverse of [EncodeZigZag64].
func DecodeZigZag64(raw uint64) int64 {
	return protowire.DecodeZigZag(raw)
}

// EncodeZigZag32 zigzag-encodes a 32-bit signed integer.
//
// The 64-bit mapping agrees with the 32-bit one on all of int32, so this is
// a cast plus [EncodeZigZag64].
func EncodeZigZag32(n int32) uint64 {
	return protowire.EncodeZigZag(int64(n))
}

// DecodeZigZag32 zigzag-decodes a 32-bit signed integer.
//
// Calling [DecodeZigZag64] directly does not work correctly when sign
// extension is involved, so the raw value is masked down first.
func DecodeZigZag32(raw uint64) int32 {
	return int32(protowire.DecodeZigZag(raw & 0xffffffff))
}

// EncodeTag packs a field number and a wire type into a tag value.
func EncodeTag(num int32, t Type) uint64 {
	return uint64(num)<<3 | uint64(t&7)
}

// DecodeTag splits a tag value into its field number and wire type.
func DecodeTag(tag uint64) (int32, Type) {
	return int32(tag >> 3), Type(tag & 7)
}

// SizeTag returns the encoded size of the tag for the given field number.
func SizeTag(num int32) int {
	return SizeVarint(EncodeTag(num, 0))
}
