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

package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// InputOrder is the field order a decoder should speculate incoming
// messages were encoded in. The choice affects only how often the decoder's
// fast path hits; decoding is correct for any actual arrival order.
type InputOrder int

const (
	// OwnLayout speculates that producers encode in this planner's own
	// storage order.
	OwnLayout InputOrder = iota

	// AscendingNumber speculates ascending field numbers, the order
	// generic encoders emit.
	AscendingNumber

	// None disables speculation; every field goes through generic
	// dispatch.
	None
)

func (o InputOrder) String() string {
	switch o {
	case OwnLayout:
		return "own-layout"
	case AscendingNumber:
		return "ascending-number"
	case None:
		return "none"
	default:
		return fmt.Sprintf("InputOrder(%d)", int(o))
	}
}

// UnmarshalYAML decodes an input order from its configuration spelling.
func (o *InputOrder) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "own-layout":
		*o = OwnLayout
	case "ascending-number":
		*o = AscendingNumber
	case "none":
		*o = None
	default:
		return fmt.Errorf("gen: unknown input_order %q", s)
	}
	return nil
}

// Options is the generation configuration.
type Options struct {
	// Indent is the indentation width of emitted source. Cosmetic only.
	Indent int `yaml:"indent"`

	// ReplacePackage rewrites the declared package of emitted source.
	// Cosmetic only.
	ReplacePackage string `yaml:"replace_package"`

	// InputOrder selects the decode speculation policy.
	InputOrder InputOrder `yaml:"input_order"`
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{Indent: 2, InputOrder: OwnLayout}
}

// DecodeOptions parses a YAML configuration document. Unknown keys are an
// error. Omitted keys keep their defaults.
func DecodeOptions(b []byte) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("gen: %w", err)
	}
	if opts.Indent <= 0 {
		return Options{}, fmt.Errorf("gen: indent must be positive, got %d", opts.Indent)
	}
	return opts, nil
}
