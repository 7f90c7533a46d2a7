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

package wire_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/planetscale/vtprotobuf/protohelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/steadypb/steadypb/internal/wire"
)

func TestVarintBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    uint64
		size int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{math.MaxInt32, 5},
		{0xffffffff, 5},
		{math.MaxUint64, 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%#x", tt.v), func(t *testing.T) {
			t.Parallel()

			buf := wire.AppendVarint(nil, tt.v)
			assert.Len(t, buf, tt.size)
			assert.Equal(t, tt.size, wire.SizeVarint(tt.v))

			// Cross-check against two independent implementations.
			assert.Equal(t, protowire.AppendVarint(nil, tt.v), buf)
			assert.Equal(t, protohelpers.SizeOfVarint(tt.v), wire.SizeVarint(tt.v))
		})
	}
}

func TestVarintRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []uint64{
		0, 1, 2, 63, 64, 127, 128, 300, 16383, 16384,
		1 << 21, 1<<28 - 1, 1 << 28, math.MaxUint32,
		1 << 35, 1 << 56, math.MaxInt64, math.MaxUint64,
	}

	for _, v := range tests {
		t.Run(fmt.Sprintf("%#x", v), func(t *testing.T) {
			t.Parallel()

			buf := wire.AppendVarint(nil, v)
			got, n := wire.ConsumeVarint64(buf)
			require.Equal(t, len(buf), n)
			assert.Equal(t, v, got)

			if v <= math.MaxUint32 {
				got32, n32 := wire.ConsumeVarint32(buf)
				require.Equal(t, len(buf), n32)
				assert.Equal(t, uint32(v), got32)
			}
		})
	}
}

func TestVarint32DiscardsHighBits(t *testing.T) {
	t.Parallel()

	// A sign-extended int32(-1) arrives as the full ten-byte encoding of
	// 0xffffffffffffffff. The low 32 bits must survive.
	buf := wire.AppendVarint(nil, math.MaxUint64)
	require.Len(t, buf, 10)

	got, n := wire.ConsumeVarint32(buf)
	assert.Equal(t, 10, n)
	assert.Equal(t, uint32(0xffffffff), got)
}

func TestVarintTruncated(t *testing.T) {
	t.Parallel()

	full := wire.AppendVarint(nil, math.MaxUint64)
	for i := range full {
		prefix := full[:i]
		_, n := wire.ConsumeVarint64(prefix)
		assert.Zero(t, n, "prefix of %d bytes", i)
		_, n = wire.ConsumeVarint32(prefix)
		assert.Zero(t, n, "prefix of %d bytes", i)
	}
}

func TestVarintMalformed(t *testing.T) {
	t.Parallel()

	// Eleven continuation bytes: too long for any 64-bit value.
	bad := make([]byte, 11)
	for i := range bad {
		bad[i] = 0x80
	}

	_, n := wire.ConsumeVarint64(bad)
	assert.Negative(t, n)
	_, n = wire.ConsumeVarint32(bad)
	assert.Negative(t, n)
}

func TestZigZag(t *testing.T) {
	t.Parallel()

	tests32 := []int32{
		0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
		0x7fffffff,
		-0x80000000,
		-1, -2, -3, -4, -5, -6, -7, -8,
	}
	tests64 := []int64{
		0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
		0x7fffffffffffffff,
		-0x8000000000000000,
		-1, -2, -3, -4, -5, -6, -7, -8,
	}

	for _, tt := range tests32 {
		t.Run(fmt.Sprintf("32/%#x", tt), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt, wire.DecodeZigZag32(wire.EncodeZigZag32(tt)))

			// A sign-extended encoding must decode identically.
			raw := uint64(int64(tt))<<1 ^ uint64(int64(tt)>>63)
			assert.Equal(t, tt, wire.DecodeZigZag32(raw))
		})
	}

	for _, tt := range tests64 {
		t.Run(fmt.Sprintf("64/%#x", tt), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt, wire.DecodeZigZag64(wire.EncodeZigZag64(tt)))
			assert.Equal(t, protowire.EncodeZigZag(tt), wire.EncodeZigZag64(tt))
		})
	}
}

func TestTag(t *testing.T) {
	t.Parallel()

	for _, num := range []int32{1, 2, 15, 16, 99, 1 << 20, 1<<29 - 1} {
		for _, ty := range []wire.Type{
			wire.VarintType, wire.Fixed64Type, wire.BytesType, wire.Fixed32Type,
		} {
			tag := wire.EncodeTag(num, ty)
			assert.Equal(t, uint64(protowire.EncodeTag(protowire.Number(num), ty)), tag)

			gotNum, gotType := wire.DecodeTag(tag)
			assert.Equal(t, num, gotNum)
			assert.Equal(t, ty, gotType)
		}
	}
}
