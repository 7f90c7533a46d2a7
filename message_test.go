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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steadypb/steadypb"
	"github.com/steadypb/steadypb/internal/prototest"
)

func fullSample() *prototest.Sample {
	s := prototest.NewSample()
	s.SetStamp(0xdeadbeef).
		SetSensor(7).
		SetLabel("lidar").
		SetDrift(-42).
		SetValid(true).
		AddValues(1.5, -2.25, math.Inf(1)).
		AddCounts(1, -1, 300)
	s.GetMutablePose().SetX(0.5).SetY(-0.5).SetTheta(math.Pi)
	return s
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	src := fullSample()
	buf, err := steadypb.Marshal(src)
	require.NoError(t, err)
	assert.Len(t, buf, src.SerializedSize())

	dst := prototest.NewSample()
	require.NoError(t, steadypb.Unmarshal(buf, dst))
	assert.True(t, src.Equal(dst))
}

func TestRoundTripLog(t *testing.T) {
	t.Parallel()

	log := prototest.NewLog()
	log.SetSource("robot-1")
	log.AddSamples().CopyFrom(fullSample())
	log.AddSamples().SetSensor(2)

	buf, err := steadypb.Marshal(log)
	require.NoError(t, err)
	assert.Len(t, buf, log.SerializedSize())

	dst := prototest.NewLog()
	require.NoError(t, steadypb.Unmarshal(buf, dst))
	assert.True(t, log.Equal(dst))
	assert.Equal(t, 2, dst.GetSamples().Len())
}

func TestHasBitIndependence(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	assert.False(t, s.HasSensor())
	assert.Zero(t, s.GetSensor())

	// Presence is set by the setter, not by the value being nonzero.
	s.SetSensor(0)
	assert.True(t, s.HasSensor())
	assert.Zero(t, s.GetSensor())

	// An explicitly set default still goes to the wire.
	buf, err := steadypb.Marshal(s)
	require.NoError(t, err)
	assert.NotEmpty(t, buf)

	dst := prototest.NewSample()
	require.NoError(t, steadypb.Unmarshal(buf, dst))
	assert.True(t, dst.HasSensor())

	// Clearing drops the bit and restores the default.
	s.SetSensor(9).ClearSensor()
	assert.False(t, s.HasSensor())
	assert.Zero(t, s.GetSensor())
}

func TestGetWithoutPresence(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	// Unset fields read as their defaults; getters never gate on the has
	// bit.
	assert.Zero(t, s.GetStamp())
	assert.Equal(t, "", s.GetLabel())
	assert.NotNil(t, s.GetPose())
	assert.Zero(t, s.GetPose().GetX())
}

func TestMergeSemantics(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	require.NoError(t, steadypb.Merge(scope(t, `2: 1`), s))
	require.Equal(t, uint32(1), s.GetSensor())

	// Singular fields overwrite, repeated fields append.
	require.NoError(t, steadypb.Merge(scope(t, `2: 2 5: {5.0}`), s))
	assert.Equal(t, uint32(2), s.GetSensor())
	assert.Equal(t, []float64{5.0}, s.GetValues().Slice())
}

func TestMergeNestedMessage(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	require.NoError(t, steadypb.Merge(scope(t, `4: {1: 1.0}`), s))
	require.NoError(t, steadypb.Merge(scope(t, `4: {2: 2.0}`), s))

	// The second payload merged into the owned pose instead of replacing
	// it.
	assert.True(t, s.HasPose())
	assert.True(t, s.GetPose().HasX())
	assert.Equal(t, 1.0, s.GetPose().GetX())
	assert.Equal(t, 2.0, s.GetPose().GetY())
}

func TestMergeLastWinsDuplicates(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	require.NoError(t, steadypb.Merge(scope(t, `2: 1 2: 2 2: 3`), s))
	assert.Equal(t, uint32(3), s.GetSensor())
}

func TestUnknownFieldsSkipped(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()
	buf := scope(t, `
		99: 150
		2: 7
		100: {"ignored"}
		101: 2.5
		102: !{ 1: 1 }
	`)
	require.NoError(t, steadypb.Unmarshal(buf, s))
	assert.Equal(t, uint32(7), s.GetSensor())

	// Unknown fields are dropped, not retained: re-encoding yields only
	// the known field.
	out, err := steadypb.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, scope(t, `2: 7`), out)
}

func TestWireTypeMismatchSkipped(t *testing.T) {
	t.Parallel()

	// Field 2 is a varint field; a length-delimited record under the same
	// number is treated as unknown.
	s := prototest.NewSample()
	require.NoError(t, steadypb.Unmarshal(scope(t, `2: {"zzz"} 2: 9`), s))
	assert.Equal(t, uint32(9), s.GetSensor())
}

func TestOrderIndependence(t *testing.T) {
	t.Parallel()

	payloads := []string{
		`2: 1 3: {"x"} 5: {1.0 2.0}`,
		`5: {1.0 2.0} 3: {"x"} 2: 1`,
		`3: {"x"} 2: 1 5: {1.0 2.0}`,
	}

	want := prototest.NewSample()
	require.NoError(t, steadypb.Unmarshal(scope(t, payloads[0]), want))

	for _, text := range payloads[1:] {
		got := prototest.NewSample()
		require.NoError(t, steadypb.Unmarshal(scope(t, text), got))
		assert.True(t, want.Equal(got), "payload %q", text)
	}
}

func TestPackedUnpackedInterleave(t *testing.T) {
	t.Parallel()

	s := prototest.NewSample()

	// counts is declared unpacked, values packed; both accept either
	// encoding, always appending.
	require.NoError(t, steadypb.Unmarshal(scope(t, `6: {1 2} 6: 3 6: {4}`), s))
	assert.Equal(t, []int32{1, 2, 3, 4}, s.GetCounts().Slice())

	s.Clear()
	require.NoError(t, steadypb.Unmarshal(scope(t, `5: 1.0 5: {2.0 3.0}`), s))
	assert.Equal(t, []float64{1, 2, 3}, s.GetValues().Slice())
}

func TestFloatEqualityBitExact(t *testing.T) {
	t.Parallel()

	a := prototest.NewPose()
	b := prototest.NewPose()

	a.SetX(0.0)
	b.SetX(math.Copysign(0, -1))
	assert.False(t, a.Equal(b), "0.0 and -0.0 are distinct states")

	nan := math.Float64frombits(0x7ff8000000000001)
	a.SetX(nan)
	b.SetX(nan)
	assert.True(t, a.Equal(b), "identical NaN payloads are equal")

	b.SetX(math.NaN())
	assert.Equal(t, math.Float64bits(nan) == math.Float64bits(math.NaN()), a.Equal(b))
}

func TestNegativeZeroSurvivesRoundTrip(t *testing.T) {
	t.Parallel()

	src := prototest.NewPose()
	src.SetX(math.Copysign(0, -1))
	buf, err := steadypb.Marshal(src)
	require.NoError(t, err)

	dst := prototest.NewPose()
	require.NoError(t, steadypb.Unmarshal(buf, dst))
	assert.True(t, src.Equal(dst))
	assert.True(t, math.Signbit(dst.GetX()))
}

func TestClearRetainsCapacity(t *testing.T) {
	t.Parallel()

	s := fullSample()
	s.Clear()
	assert.False(t, s.HasStamp())
	assert.False(t, s.HasPose())
	assert.Zero(t, s.GetValues().Len())
	assert.Equal(t, "", s.GetLabel())
	assert.True(t, s.Equal(prototest.NewSample()))
}

func TestCopyFrom(t *testing.T) {
	t.Parallel()

	src := fullSample()
	dst := prototest.NewSample()
	dst.SetLabel("stale").AddCounts(99)

	dst.CopyFrom(src)
	assert.True(t, src.Equal(dst))

	// The copy is a value copy; mutating it does not touch the source.
	dst.GetMutablePose().SetX(100)
	assert.Equal(t, 0.5, src.GetPose().GetX())
}

func TestDelimitedRoundTrip(t *testing.T) {
	t.Parallel()

	var stream []byte
	var err error
	first := fullSample()
	second := prototest.NewSample()
	second.SetSensor(2)

	stream, err = steadypb.MarshalDelimited(stream, first)
	require.NoError(t, err)
	stream, err = steadypb.MarshalDelimited(stream, second)
	require.NoError(t, err)
	assert.Len(t, stream, steadypb.SizeDelimited(first)+steadypb.SizeDelimited(second))

	got := prototest.NewSample()
	n, err := steadypb.UnmarshalDelimited(stream, got)
	require.NoError(t, err)
	assert.True(t, first.Equal(got))

	_, err = steadypb.UnmarshalDelimited(stream[n:], got)
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestUnmarshalRejectsTrailingGarbage(t *testing.T) {
	t.Parallel()

	buf := scope(t, `2: 7`)
	buf = append(buf, 0x03) // half a tag
	err := steadypb.Unmarshal(buf, prototest.NewSample())
	assert.Error(t, err)
}

func TestSteadyStateDecodeAllocs(t *testing.T) {
	buf, err := steadypb.Marshal(fullSample())
	require.NoError(t, err)

	s := prototest.NewSample()
	cur := steadypb.NewCursor(buf)
	// Warm up the owned storage.
	require.NoError(t, s.MergeFrom(cur))

	allocs := testing.AllocsPerRun(100, func() {
		s.Clear()
		cur.Reset(buf)
		if err := s.MergeFrom(cur); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
}

func TestSteadyStateEncodeAllocs(t *testing.T) {
	s := fullSample()
	snk := steadypb.NewGrowableSink()
	require.NoError(t, s.WriteTo(snk))

	allocs := testing.AllocsPerRun(100, func() {
		snk.Rewind()
		if err := s.WriteTo(snk); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
}
