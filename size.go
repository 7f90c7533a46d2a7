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

import "github.com/steadypb/steadypb/internal/wire"

// Sizing helpers for emitted SerializedSize methods. Each returns exactly
// the byte count the corresponding write will produce.

// SizeVarint returns the encoded size of one varint.
func SizeVarint(v uint64) int {
	return wire.SizeVarint(v)
}

// SizeTag returns the encoded size of the tag for the given field number.
func SizeTag(num int32) int {
	return wire.SizeTag(num)
}

// SizeInt32 returns the encoded size of an int32 field value.
func SizeInt32(v int32) int {
	return wire.SizeVarint(uint64(int64(v)))
}

// SizeInt64 returns the encoded size of an int64 field value.
func SizeInt64(v int64) int {
	return wire.SizeVarint(uint64(v))
}

// SizeUInt32 returns the encoded size of a uint32 field value.
func SizeUInt32(v uint32) int {
	return wire.SizeVarint(uint64(v))
}

// SizeUInt64 returns the encoded size of a uint64 field value.
func SizeUInt64(v uint64) int {
	return wire.SizeVarint(v)
}

// SizeSInt32 returns the encoded size of a sint32 field value.
func SizeSInt32(v int32) int {
	return wire.SizeVarint(wire.EncodeZigZag32(v))
}

// SizeSInt64 returns the encoded size of a sint64 field value.
func SizeSInt64(v int64) int {
	return wire.SizeVarint(wire.EncodeZigZag64(v))
}

// SizeBytes returns the encoded size of a length-delimited value of n
// payload bytes, including the length prefix but not the tag.
func SizeBytes(n int) int {
	return wire.SizeVarint(uint64(n)) + n
}

// SizePackedVarints returns the payload size of r packed as varints,
// excluding the tag and length prefix.
func SizePackedVarints[T ~int32 | ~uint32 | ~int64 | ~uint64](r *Repeated[T]) int {
	var n int
	for _, v := range r.Slice() {
		n += wire.SizeVarint(uint64(int64(v)))
	}
	return n
}

// SizePackedZigZag returns the payload size of r packed as zigzag varints,
// excluding the tag and length prefix.
func SizePackedZigZag[T ~int32 | ~int64](r *Repeated[T]) int {
	var n int
	for _, v := range r.Slice() {
		n += wire.SizeVarint(wire.EncodeZigZag64(int64(v)))
	}
	return n
}
