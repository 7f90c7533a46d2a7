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

// Package utf8x validates UTF-8 text.
//
// The validator is strict: overlong encodings, surrogate code points, and
// values past U+10FFFF are all rejected, never silently replaced.
package utf8x

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// signBits masks the sign bit of each byte in a 64-bit word. A word of ASCII
// bytes has none of them set.
const signBits = 0x8080_8080_8080_8080

// Valid reports whether b is well-formed UTF-8.
func Valid(b []byte) bool {
	for len(b) > 0 {
		// Vectorized-ish ASCII check: eight bytes per load. Most string
		// fields in practice are pure ASCII.
		for len(b) >= 8 {
			if binary.LittleEndian.Uint64(b)&signBits != 0 {
				break
			}
			b = b[8:]
		}
		if len(b) == 0 {
			return true
		}
		if b[0] < 0x80 {
			b = b[1:]
			continue
		}

		// A multi-byte rune. The possible encodings are:
		//
		//	110xxxxx 10xxxxxx
		//	1110xxxx 10xxxxxx 10xxxxxx
		//	11110xxx 10xxxxxx 10xxxxxx 10xxxxxx
		//
		// LeadingZeros8 of the complement counts the total bytes.
		count := bits.LeadingZeros8(^b[0])
		if uint(count)-2 > 2 || len(b) < count {
			// Counts 0, 1, 2, 3, 4, 5, 6, 7, 8 map to -2, -1, 0, 1, 2, 3,
			// 4, 5, 6; everything but 2, 3, 4 compares >2 unsigned.
			return false
		}

		r := rune(b[0] & (1<<(8-count) - 1))
		for _, c := range b[1:count] {
			if c&0b11_000000 != 0b10_000000 {
				return false
			}
			r = r<<6 | rune(c&0b111111)
		}

		// Check that the shortest possible encoding was used. The ranges
		// map like so (ASCII cannot reach here):
		//
		//	U+0080..U+07FF -> 2
		//	U+0800..U+FFFF -> 3
		//	U+10000...     -> 4
		//
		// bits.Len / 4 maps U+0080..U+07FF to 8..11 -> 2 and
		// U+0800..U+FFFF to 12..16 -> 3, after correcting a length of
		// exactly 16. U+10000.. has lengths 17..21, so the quotient is
		// clamped to 4; values past U+10FFFF are rejected below.
		want := bits.Len32(uint32(r))
		if want == 16 {
			want--
		}
		want /= 4
		if want > 4 {
			want = 4
		}
		if want != count {
			return false
		}

		if r&^0x7ff == 0xd800 { // The surrogate range.
			return false
		}
		if r > 0x10ffff {
			return false
		}

		b = b[count:]
	}
	return true
}

// ValidString is [Valid] for a string, without copying it.
func ValidString(s string) bool {
	if len(s) == 0 {
		return true
	}
	return Valid(unsafe.Slice(unsafe.StringData(s), len(s)))
}
