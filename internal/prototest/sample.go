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

package prototest

import (
	"github.com/steadypb/steadypb"
	"github.com/steadypb/steadypb/internal/wire"
	"github.com/steadypb/steadypb/schema"
)

// Sample is one telemetry sample.
//
//	message Sample {
//	  optional fixed64 stamp  = 1;
//	  optional uint32  sensor = 2;
//	  optional string  label  = 3;
//	  optional Pose    pose   = 4;
//	  repeated double  values = 5 [packed = true];
//	  repeated int32   counts = 6;
//	  optional sint64  drift  = 7;
//	  optional bool    valid  = 8;
//	}
//
// Struct members are in storage order, widest first; wire output follows
// the same order. Repeated fields carry no has bit, their presence is
// having elements.
type Sample struct {
	stamp  uint64
	drift  int64
	sensor uint32
	valid  bool
	bits   uint32
	label  steadypb.Text
	pose   Pose
	values steadypb.Repeated[float64]
	counts steadypb.Repeated[int32]
}

const (
	sampleHasStamp = 1 << iota
	sampleHasDrift
	sampleHasSensor
	sampleHasValid
	sampleHasLabel
	sampleHasPose
)

// NewSample returns a fresh Sample with all storage allocated.
func NewSample() *Sample {
	return new(Sample)
}

func (s *Sample) GetStamp() uint64 { return s.stamp }
func (s *Sample) HasStamp() bool   { return s.bits&sampleHasStamp != 0 }

func (s *Sample) SetStamp(v uint64) *Sample {
	s.stamp = v
	s.bits |= sampleHasStamp
	return s
}

func (s *Sample) ClearStamp() *Sample {
	s.stamp = 0
	s.bits &^= sampleHasStamp
	return s
}

func (s *Sample) GetDrift() int64 { return s.drift }
func (s *Sample) HasDrift() bool  { return s.bits&sampleHasDrift != 0 }

func (s *Sample) SetDrift(v int64) *Sample {
	s.drift = v
	s.bits |= sampleHasDrift
	return s
}

func (s *Sample) ClearDrift() *Sample {
	s.drift = 0
	s.bits &^= sampleHasDrift
	return s
}

func (s *Sample) GetSensor() uint32 { return s.sensor }
func (s *Sample) HasSensor() bool   { return s.bits&sampleHasSensor != 0 }

func (s *Sample) SetSensor(v uint32) *Sample {
	s.sensor = v
	s.bits |= sampleHasSensor
	return s
}

func (s *Sample) ClearSensor() *Sample {
	s.sensor = 0
	s.bits &^= sampleHasSensor
	return s
}

func (s *Sample) GetValid() bool { return s.valid }
func (s *Sample) HasValid() bool { return s.bits&sampleHasValid != 0 }

func (s *Sample) SetValid(v bool) *Sample {
	s.valid = v
	s.bits |= sampleHasValid
	return s
}

func (s *Sample) ClearValid() *Sample {
	s.valid = false
	s.bits &^= sampleHasValid
	return s
}

func (s *Sample) GetLabel() string { return s.label.String() }
func (s *Sample) HasLabel() bool   { return s.bits&sampleHasLabel != 0 }

func (s *Sample) SetLabel(v string) *Sample {
	s.label.Set(v)
	s.bits |= sampleHasLabel
	return s
}

func (s *Sample) ClearLabel() *Sample {
	s.label.Clear()
	s.bits &^= sampleHasLabel
	return s
}

// GetPose returns the owned nested message. It is always valid, whether or
// not the field is present.
func (s *Sample) GetPose() *Pose { return &s.pose }
func (s *Sample) HasPose() bool  { return s.bits&sampleHasPose != 0 }

// GetMutablePose marks the field present and returns the owned nested
// message for in-place population.
func (s *Sample) GetMutablePose() *Pose {
	s.bits |= sampleHasPose
	return &s.pose
}

// ClearPose clears the owned instance in place rather than replacing it.
func (s *Sample) ClearPose() *Sample {
	s.pose.Clear()
	s.bits &^= sampleHasPose
	return s
}

func (s *Sample) GetValues() *steadypb.Repeated[float64] { return &s.values }
func (s *Sample) HasValues() bool                        { return s.values.Len() > 0 }

func (s *Sample) AddValues(vs ...float64) *Sample {
	s.values.Append(vs...)
	return s
}

func (s *Sample) ClearValues() *Sample {
	s.values.Clear()
	return s
}

func (s *Sample) GetCounts() *steadypb.Repeated[int32] { return &s.counts }
func (s *Sample) HasCounts() bool                      { return s.counts.Len() > 0 }

func (s *Sample) AddCounts(vs ...int32) *Sample {
	s.counts.Append(vs...)
	return s
}

func (s *Sample) ClearCounts() *Sample {
	s.counts.Clear()
	return s
}

// Clear resets every field to its default and keeps all owned storage.
func (s *Sample) Clear() {
	s.stamp = 0
	s.drift = 0
	s.sensor = 0
	s.valid = false
	s.bits = 0
	s.label.Clear()
	s.pose.Clear()
	s.values.Clear()
	s.counts.Clear()
}

// CopyFrom makes s a deep copy of other, reusing owned storage.
func (s *Sample) CopyFrom(other *Sample) {
	s.stamp = other.stamp
	s.drift = other.drift
	s.sensor = other.sensor
	s.valid = other.valid
	s.bits = other.bits
	s.label.CopyFrom(&other.label)
	s.pose.CopyFrom(&other.pose)
	s.values.CopyFrom(&other.values)
	s.counts.CopyFrom(&other.counts)
}

// Equal compares field presence and values. Doubles compare by bit pattern.
func (s *Sample) Equal(other *Sample) bool {
	if s.bits != other.bits ||
		s.stamp != other.stamp ||
		s.drift != other.drift ||
		s.sensor != other.sensor ||
		s.valid != other.valid {
		return false
	}
	if !s.label.Equal(&other.label) || !s.pose.Equal(&other.pose) {
		return false
	}
	if !steadypb.Floats64Equal(&s.values, &other.values) {
		return false
	}
	if s.counts.Len() != other.counts.Len() {
		return false
	}
	for i := range s.counts.Len() {
		if s.counts.Get(i) != other.counts.Get(i) {
			return false
		}
	}
	return true
}

// MergeFrom decodes from cur until its limit, merging into s: singular
// fields overwrite, the nested pose merges recursively, repeated fields
// append. Unknown fields and wire-type mismatches are skipped.
func (s *Sample) MergeFrom(cur *steadypb.Cursor) error {
	for !cur.AtEnd() {
		num, wt, err := cur.ReadTag()
		if err != nil {
			return err
		}
		switch {
		case num == 1 && wt == wire.Fixed64Type:
			v, err := cur.ReadFixed64()
			if err != nil {
				return err
			}
			s.SetStamp(v)
		case num == 2 && wt == wire.VarintType:
			v, err := cur.ReadVarint32()
			if err != nil {
				return err
			}
			s.SetSensor(v)
		case num == 3 && wt == wire.BytesType:
			if err := cur.ReadString(&s.label); err != nil {
				return err
			}
			s.bits |= sampleHasLabel
		case num == 4 && wt == wire.BytesType:
			saved, err := cur.PushLimitPrefixed()
			if err != nil {
				return err
			}
			if err := s.pose.MergeFrom(cur); err != nil {
				return err
			}
			cur.PopLimit(saved)
			s.bits |= sampleHasPose
		case num == 5 && wt == wire.BytesType:
			if err := steadypb.ReadPackedFixed64(cur, &s.values); err != nil {
				return err
			}
		case num == 5 && wt == wire.Fixed64Type:
			v, err := cur.ReadDouble()
			if err != nil {
				return err
			}
			s.values.Append(v)
		case num == 6 && wt == wire.VarintType:
			v, err := cur.ReadInt32()
			if err != nil {
				return err
			}
			s.counts.Append(v)
		case num == 6 && wt == wire.BytesType:
			if err := steadypb.ReadPackedVarint32(cur, &s.counts); err != nil {
				return err
			}
		case num == 7 && wt == wire.VarintType:
			v, err := cur.ReadSInt64()
			if err != nil {
				return err
			}
			s.SetDrift(v)
		case num == 8 && wt == wire.VarintType:
			v, err := cur.ReadBool()
			if err != nil {
				return err
			}
			s.SetValid(v)
		default:
			if err := cur.SkipField(num, wt); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo encodes every present field in storage order.
func (s *Sample) WriteTo(snk *steadypb.Sink) error {
	if s.bits&sampleHasStamp != 0 {
		if err := snk.WriteTag(1, wire.Fixed64Type); err != nil {
			return err
		}
		if err := snk.WriteFixed64(s.stamp); err != nil {
			return err
		}
	}
	if s.bits&sampleHasDrift != 0 {
		if err := snk.WriteTag(7, wire.VarintType); err != nil {
			return err
		}
		if err := snk.WriteSInt64(s.drift); err != nil {
			return err
		}
	}
	if s.bits&sampleHasSensor != 0 {
		if err := snk.WriteTag(2, wire.VarintType); err != nil {
			return err
		}
		if err := snk.WriteUInt32(s.sensor); err != nil {
			return err
		}
	}
	if s.bits&sampleHasValid != 0 {
		if err := snk.WriteTag(8, wire.VarintType); err != nil {
			return err
		}
		if err := snk.WriteBool(s.valid); err != nil {
			return err
		}
	}
	if s.bits&sampleHasLabel != 0 {
		if err := snk.WriteTag(3, wire.BytesType); err != nil {
			return err
		}
		if err := snk.WriteText(&s.label); err != nil {
			return err
		}
	}
	if s.bits&sampleHasPose != 0 {
		if err := snk.WriteTag(4, wire.BytesType); err != nil {
			return err
		}
		if err := snk.WriteLengthPrefix(s.pose.SerializedSize()); err != nil {
			return err
		}
		if err := s.pose.WriteTo(snk); err != nil {
			return err
		}
	}
	if err := steadypb.WritePackedFixed64(snk, 5, &s.values); err != nil {
		return err
	}
	for i := range s.counts.Len() {
		if err := snk.WriteTag(6, wire.VarintType); err != nil {
			return err
		}
		if err := snk.WriteInt32(s.counts.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// SerializedSize returns the exact size of the next WriteTo.
func (s *Sample) SerializedSize() int {
	var n int
	if s.bits&sampleHasStamp != 0 {
		n += steadypb.SizeTag(1) + 8
	}
	if s.bits&sampleHasDrift != 0 {
		n += steadypb.SizeTag(7) + steadypb.SizeSInt64(s.drift)
	}
	if s.bits&sampleHasSensor != 0 {
		n += steadypb.SizeTag(2) + steadypb.SizeUInt32(s.sensor)
	}
	if s.bits&sampleHasValid != 0 {
		n += steadypb.SizeTag(8) + 1
	}
	if s.bits&sampleHasLabel != 0 {
		n += steadypb.SizeTag(3) + steadypb.SizeBytes(s.label.Len())
	}
	if s.bits&sampleHasPose != 0 {
		n += steadypb.SizeTag(4) + steadypb.SizeBytes(s.pose.SerializedSize())
	}
	if s.values.Len() > 0 {
		n += steadypb.SizeTag(5) + steadypb.SizeBytes(8*s.values.Len())
	}
	for i := range s.counts.Len() {
		n += steadypb.SizeTag(6) + steadypb.SizeInt32(s.counts.Get(i))
	}
	return n
}

var _ steadypb.Message = (*Sample)(nil)

// Log is a stream of samples.
//
//	message Log {
//	  repeated Sample samples = 1;
//	  optional string source  = 2;
//	}
type Log struct {
	samples steadypb.RepeatedMessage[Sample, *Sample]
	source  steadypb.Text
	bits    uint32
}

const logHasSource = 1 << iota

// NewLog returns a fresh Log.
func NewLog() *Log {
	return new(Log)
}

func (l *Log) GetSamples() *steadypb.RepeatedMessage[Sample, *Sample] {
	return &l.samples
}

// AddSamples appends one sample and returns it for in-place population.
func (l *Log) AddSamples() *Sample {
	return l.samples.Add()
}

func (l *Log) GetSource() string { return l.source.String() }
func (l *Log) HasSource() bool   { return l.bits&logHasSource != 0 }

func (l *Log) SetSource(v string) *Log {
	l.source.Set(v)
	l.bits |= logHasSource
	return l
}

func (l *Log) ClearSource() *Log {
	l.source.Clear()
	l.bits &^= logHasSource
	return l
}

func (l *Log) Clear() {
	l.samples.Clear()
	l.source.Clear()
	l.bits = 0
}

// CopyFrom makes l a deep copy of other, reusing owned storage.
func (l *Log) CopyFrom(other *Log) {
	l.samples.Clear()
	for i := range other.samples.Len() {
		l.samples.Add().CopyFrom(other.samples.Get(i))
	}
	l.source.CopyFrom(&other.source)
	l.bits = other.bits
}

func (l *Log) Equal(other *Log) bool {
	if l.bits != other.bits || !l.source.Equal(&other.source) {
		return false
	}
	if l.samples.Len() != other.samples.Len() {
		return false
	}
	for i := range l.samples.Len() {
		if !l.samples.Get(i).Equal(other.samples.Get(i)) {
			return false
		}
	}
	return true
}

func (l *Log) MergeFrom(cur *steadypb.Cursor) error {
	for !cur.AtEnd() {
		num, wt, err := cur.ReadTag()
		if err != nil {
			return err
		}
		switch {
		case num == 1 && wt == wire.BytesType:
			saved, err := cur.PushLimitPrefixed()
			if err != nil {
				return err
			}
			if err := l.samples.Add().MergeFrom(cur); err != nil {
				return err
			}
			cur.PopLimit(saved)
		case num == 2 && wt == wire.BytesType:
			if err := cur.ReadString(&l.source); err != nil {
				return err
			}
			l.bits |= logHasSource
		default:
			if err := cur.SkipField(num, wt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Log) WriteTo(snk *steadypb.Sink) error {
	for i := range l.samples.Len() {
		m := l.samples.Get(i)
		if err := snk.WriteTag(1, wire.BytesType); err != nil {
			return err
		}
		if err := snk.WriteLengthPrefix(m.SerializedSize()); err != nil {
			return err
		}
		if err := m.WriteTo(snk); err != nil {
			return err
		}
	}
	if l.bits&logHasSource != 0 {
		if err := snk.WriteTag(2, wire.BytesType); err != nil {
			return err
		}
		if err := snk.WriteText(&l.source); err != nil {
			return err
		}
	}
	return nil
}

func (l *Log) SerializedSize() int {
	var n int
	for i := range l.samples.Len() {
		n += steadypb.SizeTag(1) + steadypb.SizeBytes(l.samples.Get(i).SerializedSize())
	}
	if l.bits&logHasSource != 0 {
		n += steadypb.SizeTag(2) + steadypb.SizeBytes(l.source.Len())
	}
	return n
}

var _ steadypb.Message = (*Log)(nil)

// PoseSchema returns the schema of [Pose].
func PoseSchema() *schema.Message {
	return &schema.Message{
		Name: "Pose",
		Fields: []schema.Field{
			{Name: "x", Number: 1, Kind: schema.Double},
			{Name: "y", Number: 2, Kind: schema.Double},
			{Name: "theta", Number: 3, Kind: schema.Double},
		},
	}
}

// SampleSchema returns the schema of [Sample].
func SampleSchema() *schema.Message {
	return &schema.Message{
		Name: "Sample",
		Fields: []schema.Field{
			{Name: "stamp", Number: 1, Kind: schema.Fixed64},
			{Name: "sensor", Number: 2, Kind: schema.UInt32},
			{Name: "label", Number: 3, Kind: schema.String},
			{Name: "pose", Number: 4, Kind: schema.MessageKind, Message: PoseSchema()},
			{Name: "values", Number: 5, Kind: schema.Double, Label: schema.Repeated, Packed: true},
			{Name: "counts", Number: 6, Kind: schema.Int32, Label: schema.Repeated},
			{Name: "drift", Number: 7, Kind: schema.SInt64},
			{Name: "valid", Number: 8, Kind: schema.Bool},
		},
	}
}

// LogSchema returns the schema of [Log].
func LogSchema() *schema.Message {
	return &schema.Message{
		Name: "Log",
		Fields: []schema.Field{
			{Name: "samples", Number: 1, Kind: schema.MessageKind, Label: schema.Repeated, Message: SampleSchema()},
			{Name: "source", Number: 2, Kind: schema.String},
		},
	}
}
