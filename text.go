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

import "bytes"

// Text is the owned, reusable buffer backing a string or bytes field.
//
// Mutation happens in place: setting new contents rewinds the length and
// copies into existing storage, growing it only when the new contents are
// longer than anything the buffer has held before.
type Text struct {
	buf []byte
}

// Len returns the length of the contents in bytes.
func (t *Text) Len() int {
	return len(t.buf)
}

// Bytes returns a view of the contents. The view is invalidated by the next
// mutation.
func (t *Text) Bytes() []byte {
	return t.buf
}

// String returns the contents as a string. This copies; steady-state code
// paths should prefer [Text.Bytes].
func (t *Text) String() string {
	return string(t.buf)
}

// Set replaces the contents with s.
func (t *Text) Set(s string) {
	t.buf = append(t.buf[:0], s...)
}

// SetBytes replaces the contents with a copy of b.
func (t *Text) SetBytes(b []byte) {
	t.buf = append(t.buf[:0], b...)
}

// Append appends s to the contents.
func (t *Text) Append(s string) {
	t.buf = append(t.buf, s...)
}

// Clear resets the length to zero, keeping capacity.
func (t *Text) Clear() {
	t.buf = t.buf[:0]
}

// CopyFrom replaces the contents with a copy of other's.
func (t *Text) CopyFrom(other *Text) {
	t.SetBytes(other.buf)
}

// Equal reports whether two buffers hold the same contents.
func (t *Text) Equal(other *Text) bool {
	return bytes.Equal(t.buf, other.buf)
}

// EqualString reports whether the contents equal s.
func (t *Text) EqualString(s string) bool {
	return string(t.buf) == s
}
