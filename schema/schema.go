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

// Package schema describes message types to the layout planner.
//
// A [Message] is the planner's view of one message: its fields, their
// numbers, kinds and labels, and references to the messages of nested
// fields. [Validate] checks the structural rules that generated code
// depends on, most importantly that no message owns itself through a chain
// of singular message fields.
package schema

import (
	"fmt"
	"iter"

	"github.com/steadypb/steadypb/internal/scc"
	"github.com/steadypb/steadypb/internal/wire"
)

// Field numbers 19000 through 19999 are reserved by the Protobuf language.
const (
	reservedLo = 19000
	reservedHi = 19999

	// MaxNumber is the largest valid field number, 2^29 - 1.
	MaxNumber = 1<<29 - 1
)

// Kind is the declared type of a field, which fixes both its wire encoding
// and its storage representation.
type Kind int

const (
	Int32 Kind = iota
	Int64
	UInt32
	UInt64
	SInt32
	SInt64
	Bool
	Fixed32
	SFixed32
	Float
	Fixed64
	SFixed64
	Double
	String
	Bytes
	MessageKind
)

var kindNames = [...]string{
	Int32:       "int32",
	Int64:       "int64",
	UInt32:      "uint32",
	UInt64:      "uint64",
	SInt32:      "sint32",
	SInt64:      "sint64",
	Bool:        "bool",
	Fixed32:     "fixed32",
	SFixed32:    "sfixed32",
	Float:       "float",
	Fixed64:     "fixed64",
	SFixed64:    "sfixed64",
	Double:      "double",
	String:      "string",
	Bytes:       "bytes",
	MessageKind: "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// WireType returns the wire type a singular field of this kind encodes
// with.
func (k Kind) WireType() wire.Type {
	switch k {
	case Fixed32, SFixed32, Float:
		return wire.Fixed32Type
	case Fixed64, SFixed64, Double:
		return wire.Fixed64Type
	case String, Bytes, MessageKind:
		return wire.BytesType
	default:
		return wire.VarintType
	}
}

// Packable reports whether repeated fields of this kind may use the packed
// encoding.
func (k Kind) Packable() bool {
	switch k {
	case String, Bytes, MessageKind:
		return false
	default:
		return true
	}
}

// Label is a field's cardinality.
type Label int

const (
	Optional Label = iota
	Required
	Repeated
)

func (l Label) String() string {
	switch l {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Repeated:
		return "repeated"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Field describes one declared field.
type Field struct {
	Name   string
	Number int32
	Kind   Kind
	Label  Label

	// Packed selects the packed encoding for a repeated field of a
	// packable kind. It is ignored otherwise.
	Packed bool

	// Message is the referenced type of a message-kind field, and must be
	// nil for every other kind.
	Message *Message
}

// Message describes one message type.
type Message struct {
	Name   string
	Fields []Field
}

// owned ranges over the message types this message allocates as part of its
// own storage. Singular message fields are allocated eagerly with their
// parent; repeated message fields start empty and do not contribute.
func owned(m *Message) iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for i := range m.Fields {
			f := &m.Fields[i]
			if f.Kind != MessageKind || f.Label == Repeated {
				continue
			}
			if !yield(f.Message) {
				return
			}
		}
	}
}

// Validate checks root and every message reachable from it against the
// structural rules generated code depends on. It rejects, in particular,
// any message whose eagerly-allocated storage would contain itself.
func Validate(root *Message) error {
	seen := make(map[*Message]bool)
	if err := validateOne(root, seen); err != nil {
		return err
	}

	dag := scc.Sort(root, owned)
	for c := range dag.Topological() {
		members := c.Members()
		if len(members) > 1 {
			return fmt.Errorf(
				"schema: message %q transitively contains itself via singular message fields",
				members[0].Name)
		}
		for dep := range owned(members[0]) {
			if dep == members[0] {
				return fmt.Errorf(
					"schema: message %q contains itself via a singular message field",
					members[0].Name)
			}
		}
	}
	return nil
}

func validateOne(m *Message, seen map[*Message]bool) error {
	if seen[m] {
		return nil
	}
	seen[m] = true

	if m.Name == "" {
		return fmt.Errorf("schema: message with empty name")
	}

	numbers := make(map[int32]string, len(m.Fields))
	for i := range m.Fields {
		f := &m.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("schema: %s: field with empty name", m.Name)
		}
		if f.Number <= 0 || f.Number > MaxNumber {
			return fmt.Errorf("schema: %s.%s: field number %d out of range",
				m.Name, f.Name, f.Number)
		}
		if f.Number >= reservedLo && f.Number <= reservedHi {
			return fmt.Errorf("schema: %s.%s: field number %d is reserved",
				m.Name, f.Name, f.Number)
		}
		if prev, ok := numbers[f.Number]; ok {
			return fmt.Errorf("schema: %s: fields %s and %s share number %d",
				m.Name, prev, f.Name, f.Number)
		}
		numbers[f.Number] = f.Name

		if (f.Kind == MessageKind) != (f.Message != nil) {
			return fmt.Errorf("schema: %s.%s: kind %v does not match message reference",
				m.Name, f.Name, f.Kind)
		}
		if f.Packed && (f.Label != Repeated || !f.Kind.Packable()) {
			return fmt.Errorf("schema: %s.%s: packed is only valid on repeated packable fields",
				m.Name, f.Name)
		}

		if f.Message != nil {
			if err := validateOne(f.Message, seen); err != nil {
				return err
			}
		}
	}
	return nil
}
