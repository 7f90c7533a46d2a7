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

import "math"

// BitEqual64 compares two doubles by bit pattern. Unlike ==, it treats NaN
// as equal to an identical NaN and distinguishes -0.0 from 0.0, so equality
// matches what a round trip through the wire preserves.
func BitEqual64(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// BitEqual32 is [BitEqual64] for floats.
func BitEqual32(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

// Floats64Equal reports whether two repeated double containers hold
// bit-identical elements.
func Floats64Equal(a, b *Repeated[float64]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		if !BitEqual64(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}

// Floats32Equal is [Floats64Equal] for repeated floats.
func Floats32Equal(a, b *Repeated[float32]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		if !BitEqual32(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}
