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

package steadypb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steadypb/steadypb"
	"github.com/steadypb/steadypb/internal/prototest"
)

func FuzzSampleUnmarshal(f *testing.F) {
	valid, err := steadypb.Marshal(fullSample())
	require.NoError(f, err)

	f.Add(valid)
	f.Add(valid[:len(valid)/2])
	f.Add([]byte{})
	f.Add([]byte{0x80, 0x80, 0x80})
	f.Add([]byte{1<<3 | 3, 1<<3 | 3}) // unterminated groups

	f.Fuzz(func(t *testing.T, data []byte) {
		s := prototest.NewSample()
		if err := steadypb.Unmarshal(data, s); err != nil {
			return
		}

		// Anything that decodes must re-encode at its declared size and
		// decode back to an equal message.
		out, err := steadypb.Marshal(s)
		if err != nil {
			t.Fatalf("re-encode of accepted input failed: %v", err)
		}
		if len(out) != s.SerializedSize() {
			t.Fatalf("size mismatch: wrote %d, declared %d", len(out), s.SerializedSize())
		}

		back := prototest.NewSample()
		if err := steadypb.Unmarshal(out, back); err != nil {
			t.Fatalf("re-decode failed: %v", err)
		}
		if !s.Equal(back) {
			t.Fatal("round trip through re-encode changed the message")
		}
	})
}
