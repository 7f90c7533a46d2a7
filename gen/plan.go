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

// Package gen plans the field layout of generated messages.
//
// The planner is a pure function from a [schema.Message] to a [Plan]: the
// order a message's fields occupy storage, the order they are written to
// the wire, and the speculative next-field chain that drives the decoder's
// fast path. The emitter consumes the plan; the plan never depends on how
// the emitter renders it.
package gen

import (
	"cmp"
	"slices"

	"github.com/steadypb/steadypb/schema"
)

// Plan is the layout of one message's fields. All three slices index into
// the message's declared field list.
type Plan struct {
	// Storage holds the field indices in storage order: widest alignment
	// class first, variable-size fields last, ties by ascending number.
	Storage []int

	// Wire holds the field indices in serialization order. Encoders visit
	// fields in the same sequence they occupy memory, so this is always
	// identical to Storage.
	Wire []int

	// Next maps each storage position to the storage position the decoder
	// should speculate after handling it, or -1 to fall back to generic
	// dispatch. Its shape depends on the input-order policy.
	Next []int
}

// Storage classes, in descending layout width. Variable-size and
// reference-like fields sort after every scalar so the fixed-size prefix of
// a message is contiguous.
const (
	class8        = 4 // 8-byte scalars
	class4        = 3 // 4-byte scalars
	class1        = 2 // bool
	classVariable = 1 // strings, bytes, messages, all repeated fields
)

func classOf(f *schema.Field) int {
	if f.Label == schema.Repeated {
		return classVariable
	}
	switch f.Kind {
	case schema.Int64, schema.UInt64, schema.SInt64,
		schema.Fixed64, schema.SFixed64, schema.Double:
		return class8
	case schema.Int32, schema.UInt32, schema.SInt32,
		schema.Fixed32, schema.SFixed32, schema.Float:
		return class4
	case schema.Bool:
		return class1
	default:
		return classVariable
	}
}

// NewPlan lays out m's fields under the given input-order policy. The
// result is deterministic for a given message and policy.
func NewPlan(m *schema.Message, order InputOrder) Plan {
	storage := make([]int, len(m.Fields))
	for i := range storage {
		storage[i] = i
	}
	slices.SortStableFunc(storage, func(a, b int) int {
		fa, fb := &m.Fields[a], &m.Fields[b]
		if c := cmp.Compare(classOf(fb), classOf(fa)); c != 0 {
			return c
		}
		return cmp.Compare(fa.Number, fb.Number)
	})

	p := Plan{
		Storage: storage,
		Wire:    storage,
		Next:    make([]int, len(storage)),
	}

	switch order {
	case OwnLayout:
		// Fall through storage order. A repeated field speculates itself,
		// since its elements usually arrive back to back.
		for i, fi := range storage {
			switch {
			case m.Fields[fi].Label == schema.Repeated:
				p.Next[i] = i
			case i+1 < len(storage):
				p.Next[i] = i + 1
			default:
				p.Next[i] = -1
			}
		}

	case AscendingNumber:
		// Fall through ascending field numbers instead. byNumber[k] is the
		// storage position of the k-th smallest field number.
		byNumber := slices.Clone(storage)
		slices.SortFunc(byNumber, func(a, b int) int {
			return cmp.Compare(m.Fields[a].Number, m.Fields[b].Number)
		})
		pos := make(map[int]int, len(storage)) // field index -> storage position
		for i, fi := range storage {
			pos[fi] = i
		}
		for k, fi := range byNumber {
			i := pos[fi]
			switch {
			case m.Fields[fi].Label == schema.Repeated:
				p.Next[i] = i
			case k+1 < len(byNumber):
				p.Next[i] = pos[byNumber[k+1]]
			default:
				p.Next[i] = -1
			}
		}

	default:
		for i := range p.Next {
			p.Next[i] = -1
		}
	}

	return p
}
