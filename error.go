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

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors that a [DecodeError] unwraps to. Truncated input unwraps to
// [io.ErrUnexpectedEOF], matching the rest of the ecosystem.
var (
	ErrMalformedVarint = errors.New("variable-length integer overflow")
	ErrFieldNumber     = errors.New("invalid field number")
	ErrReserved        = errors.New("cannot parse reserved wire type")
	ErrEndGroup        = errors.New("mismatching end group marker")
	ErrRecursionDepth  = errors.New("recursion depth exceeded")
	ErrInvalidUTF8     = errors.New("invalid UTF-8 in string")
)

// ErrSinkOverflow is returned by writes to a fixed-capacity [Sink] that would
// run past the end of the destination buffer.
var ErrSinkOverflow = errors.New("steadypb: write past end of fixed-capacity sink")

const (
	errCodeOk errCode = iota
	errCodeTruncated
	errCodeFieldNumber
	errCodeMalformedVarint
	errCodeReserved
	errCodeEndGroup
	errCodeRecursionDepth
	errCodeUTF8
)

type errCode int

var errs = [...]error{
	errCodeOk:              nil,
	errCodeTruncated:       io.ErrUnexpectedEOF,
	errCodeFieldNumber:     ErrFieldNumber,
	errCodeMalformedVarint: ErrMalformedVarint,
	errCodeReserved:        ErrReserved,
	errCodeEndGroup:        ErrEndGroup,
	errCodeRecursionDepth:  ErrRecursionDepth,
	errCodeUTF8:            ErrInvalidUTF8,
}

// DecodeError is an error produced while decoding wire-format input.
//
// Any decode error aborts the parse that produced it; the cursor it came from
// is left at an unspecified position and should be rebound before reuse.
type DecodeError struct {
	code   errCode
	offset int
}

// Offset returns the offset at which the error occurred.
func (e *DecodeError) Offset() int {
	return e.offset
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *DecodeError) Unwrap() error {
	return errs[e.code]
}

// Error implements [error].
func (e *DecodeError) Error() string {
	return fmt.Sprintf("steadypb: decode error at offset %d/%#x: %v", e.offset, e.offset, e.Unwrap())
}

// contractViolation panics. Mismatched limit push/pop ordering and similar
// API misuse are programmer errors, not data errors, and are not recoverable.
func contractViolation(format string, args ...any) {
	panic(fmt.Errorf("steadypb: contract violation: "+format, args...))
}
