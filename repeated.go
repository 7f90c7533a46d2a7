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

import "slices"

// Repeated is a growable container for a repeated scalar field.
//
// The backing storage is owned by the container and only ever grows:
// clearing resets the length to zero without releasing capacity, so a
// message that is cleared and refilled every cycle stops allocating once it
// has seen its high-water mark.
type Repeated[T any] struct {
	data []T
}

// Len returns the number of elements.
func (r *Repeated[T]) Len() int {
	return len(r.data)
}

// Get returns the element at index i. Panics if out of bounds.
func (r *Repeated[T]) Get(i int) T {
	return r.data[i]
}

// Set replaces the element at index i. Panics if out of bounds.
func (r *Repeated[T]) Set(i int, v T) {
	r.data[i] = v
}

// Append appends values to the container.
func (r *Repeated[T]) Append(vs ...T) {
	r.data = append(r.data, vs...)
}

// Grow reserves capacity for n more elements.
func (r *Repeated[T]) Grow(n int) {
	r.data = slices.Grow(r.data, n)
}

// Clear resets the length to zero, keeping capacity.
func (r *Repeated[T]) Clear() {
	r.data = r.data[:0]
}

// Slice returns a view of the elements. The view is invalidated by Append.
func (r *Repeated[T]) Slice() []T {
	return r.data
}

// CopyFrom replaces the contents with a copy of other's, reusing existing
// capacity where it suffices.
func (r *Repeated[T]) CopyFrom(other *Repeated[T]) {
	r.data = append(r.data[:0], other.data...)
}

// RepeatedText is a growable container for a repeated string or bytes field.
//
// Element buffers are owned by the container and reused across clear/refill
// cycles, like every other piece of message storage.
type RepeatedText struct {
	data []*Text
	len  int
}

// Len returns the number of elements.
func (r *RepeatedText) Len() int {
	return r.len
}

// Get returns the element at index i. Panics if out of bounds.
func (r *RepeatedText) Get(i int) *Text {
	if i >= r.len {
		panic("steadypb: index out of range")
	}
	return r.data[i]
}

// Add appends one element and returns it for in-place population. A buffer
// retained from an earlier cycle is reused if one is available.
func (r *RepeatedText) Add() *Text {
	if r.len < len(r.data) {
		t := r.data[r.len]
		t.Clear()
		r.len++
		return t
	}
	t := new(Text)
	r.data = append(r.data, t)
	r.len++
	return t
}

// Clear resets the length to zero. Element buffers are retained.
func (r *RepeatedText) Clear() {
	r.len = 0
}

// CopyFrom replaces the contents with a deep copy of other's.
func (r *RepeatedText) CopyFrom(other *RepeatedText) {
	r.Clear()
	for i := range other.Len() {
		r.Add().CopyFrom(other.Get(i))
	}
}

// Equal reports whether two containers hold the same sequence of contents.
func (r *RepeatedText) Equal(other *RepeatedText) bool {
	if r.Len() != other.Len() {
		return false
	}
	for i := range r.Len() {
		if !r.Get(i).Equal(other.Get(i)) {
			return false
		}
	}
	return true
}

// RepeatedMessage is a growable container for a repeated message field.
//
// Elements are owned, always-valid instances: Add hands back a cleared
// instance retained from an earlier cycle when one is available, so refilling
// a cleared container allocates nothing.
type RepeatedMessage[M any, P interface {
	*M
	Message
}] struct {
	data []*M
	len  int
}

// Len returns the number of elements.
func (r *RepeatedMessage[M, P]) Len() int {
	return r.len
}

// Get returns the element at index i. Panics if out of bounds.
func (r *RepeatedMessage[M, P]) Get(i int) *M {
	if i >= r.len {
		panic("steadypb: index out of range")
	}
	return r.data[i]
}

// Add appends one element and returns it for in-place population.
func (r *RepeatedMessage[M, P]) Add() *M {
	if r.len < len(r.data) {
		m := r.data[r.len]
		P(m).Clear()
		r.len++
		return m
	}
	m := new(M)
	r.data = append(r.data, m)
	r.len++
	return m
}

// Clear resets the length to zero. Element instances are retained; their
// contents are cleared lazily on reuse by Add.
func (r *RepeatedMessage[M, P]) Clear() {
	r.len = 0
}
