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

// Message is the contract implemented by every generated message type.
//
// A message owns all of its storage, including nested messages, string
// buffers and repeated containers. Clearing and re-parsing a message does
// not release that storage, so a long-lived instance reaches a steady
// state where no decode or encode allocates.
type Message interface {
	// Clear resets every field to its default and drops every has bit.
	// Owned storage is retained for reuse.
	Clear()

	// MergeFrom decodes fields from cur until the current limit, merging
	// them into the message: scalars overwrite, repeated fields append,
	// nested messages merge recursively. Unknown fields are skipped.
	MergeFrom(cur *Cursor) error

	// WriteTo encodes all present fields to snk in the message's field
	// layout order.
	WriteTo(snk *Sink) error

	// SerializedSize returns the exact number of bytes WriteTo will
	// produce.
	SerializedSize() int
}

// Unmarshal clears m and decodes it from b. The whole of b must be
// consumed.
func Unmarshal(b []byte, m Message) error {
	m.Clear()
	cur := NewCursor(b)
	if err := m.MergeFrom(cur); err != nil {
		return err
	}
	if !cur.AtEnd() {
		return cur.fail(errCodeTruncated)
	}
	return nil
}

// Merge decodes b into m without clearing it first.
func Merge(b []byte, m Message) error {
	return m.MergeFrom(NewCursor(b))
}

// Marshal encodes m into a freshly allocated buffer of exact size.
func Marshal(m Message) ([]byte, error) {
	return MarshalAppend(make([]byte, 0, m.SerializedSize()), m)
}

// MarshalAppend encodes m and appends the result to b.
func MarshalAppend(b []byte, m Message) ([]byte, error) {
	snk := NewGrowableSink()
	snk.buf = b[:cap(b)]
	snk.n = len(b)
	if err := m.WriteTo(snk); err != nil {
		return b, err
	}
	return snk.Bytes(), nil
}

// MarshalDelimited encodes m preceded by a varint of its size, the framing
// used for length-delimited streams. The result is appended to b.
func MarshalDelimited(b []byte, m Message) ([]byte, error) {
	snk := NewGrowableSink()
	snk.buf = b[:cap(b)]
	snk.n = len(b)
	if err := snk.WriteLengthPrefix(m.SerializedSize()); err != nil {
		return b, err
	}
	if err := m.WriteTo(snk); err != nil {
		return b, err
	}
	return snk.Bytes(), nil
}

// UnmarshalDelimited decodes one length-prefixed message from b into m,
// returning the number of bytes consumed. m is cleared first.
func UnmarshalDelimited(b []byte, m Message) (int, error) {
	m.Clear()
	cur := NewCursor(b)
	saved, err := cur.PushLimitPrefixed()
	if err != nil {
		return 0, err
	}
	if err := m.MergeFrom(cur); err != nil {
		return 0, err
	}
	cur.PopLimit(saved)
	return cur.Offset(), nil
}

// SizeDelimited returns the encoded size of m under delimited framing.
func SizeDelimited(m Message) int {
	n := m.SerializedSize()
	return wire.SizeVarint(uint64(n)) + n
}
