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
	"unsafe"

	"github.com/steadypb/steadypb/internal/xunsafe"
)

// NewCursorUnsafe returns a cursor over n bytes of raw, caller-owned memory,
// such as a region shared with a device or another process.
//
// This is the explicitly unsafe counterpart of [NewCursor]: no bounds or
// lifetime guarantees exist beyond the caller's word. The caller must
// guarantee that p is valid for all n bytes, and stays valid and unmoved for
// as long as the cursor (and anything that borrowed from it, such as a
// [Text] filled by [Cursor.ReadBytes]) is in use. The cursor itself performs
// no retention or reference counting.
func NewCursorUnsafe(p unsafe.Pointer, n int) *Cursor {
	if p == nil && n > 0 {
		contractViolation("NewCursorUnsafe(nil, %d)", n)
	}
	return NewCursor(xunsafe.Bytes(p, n))
}
