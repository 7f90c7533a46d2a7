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

// Package prototest holds hand-written messages in the exact shape the
// generator emits, used to exercise the runtime end to end.
//
// The types follow the planner's layout: struct members in storage order,
// wire output in the same order, singular nested messages embedded by value
// so the whole object graph is allocated with the root.
package prototest

import (
	"github.com/steadypb/steadypb"
	"github.com/steadypb/steadypb/internal/wire"
)

// Pose is a telemetry pose.
//
//	message Pose {
//	  optional double x     = 1;
//	  optional double y     = 2;
//	  optional double theta = 3;
//	}
type Pose struct {
	x     float64
	y     float64
	theta float64
	bits  uint32
}

const (
	poseHasX = 1 << iota
	poseHasY
	poseHasTheta
)

// NewPose returns a fresh Pose with all storage allocated.
func NewPose() *Pose {
	return new(Pose)
}

func (p *Pose) GetX() float64 { return p.x }
func (p *Pose) HasX() bool    { return p.bits&poseHasX != 0 }

func (p *Pose) SetX(v float64) *Pose {
	p.x = v
	p.bits |= poseHasX
	return p
}

func (p *Pose) ClearX() *Pose {
	p.x = 0
	p.bits &^= poseHasX
	return p
}

func (p *Pose) GetY() float64 { return p.y }
func (p *Pose) HasY() bool    { return p.bits&poseHasY != 0 }

func (p *Pose) SetY(v float64) *Pose {
	p.y = v
	p.bits |= poseHasY
	return p
}

func (p *Pose) ClearY() *Pose {
	p.y = 0
	p.bits &^= poseHasY
	return p
}

func (p *Pose) GetTheta() float64 { return p.theta }
func (p *Pose) HasTheta() bool    { return p.bits&poseHasTheta != 0 }

func (p *Pose) SetTheta(v float64) *Pose {
	p.theta = v
	p.bits |= poseHasTheta
	return p
}

func (p *Pose) ClearTheta() *Pose {
	p.theta = 0
	p.bits &^= poseHasTheta
	return p
}

// Clear resets every field to its default.
func (p *Pose) Clear() {
	*p = Pose{}
}

// CopyFrom makes p a deep copy of other.
func (p *Pose) CopyFrom(other *Pose) {
	*p = *other
}

// Equal compares field presence and values. Doubles compare by bit pattern.
func (p *Pose) Equal(other *Pose) bool {
	return p.bits == other.bits &&
		steadypb.BitEqual64(p.x, other.x) &&
		steadypb.BitEqual64(p.y, other.y) &&
		steadypb.BitEqual64(p.theta, other.theta)
}

// MergeFrom decodes from cur until its limit, merging into p.
func (p *Pose) MergeFrom(cur *steadypb.Cursor) error {
	for !cur.AtEnd() {
		num, wt, err := cur.ReadTag()
		if err != nil {
			return err
		}
		switch {
		case num == 1 && wt == wire.Fixed64Type:
			v, err := cur.ReadDouble()
			if err != nil {
				return err
			}
			p.SetX(v)
		case num == 2 && wt == wire.Fixed64Type:
			v, err := cur.ReadDouble()
			if err != nil {
				return err
			}
			p.SetY(v)
		case num == 3 && wt == wire.Fixed64Type:
			v, err := cur.ReadDouble()
			if err != nil {
				return err
			}
			p.SetTheta(v)
		default:
			if err := cur.SkipField(num, wt); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo encodes every present field.
func (p *Pose) WriteTo(snk *steadypb.Sink) error {
	if p.bits&poseHasX != 0 {
		if err := snk.WriteTag(1, wire.Fixed64Type); err != nil {
			return err
		}
		if err := snk.WriteDouble(p.x); err != nil {
			return err
		}
	}
	if p.bits&poseHasY != 0 {
		if err := snk.WriteTag(2, wire.Fixed64Type); err != nil {
			return err
		}
		if err := snk.WriteDouble(p.y); err != nil {
			return err
		}
	}
	if p.bits&poseHasTheta != 0 {
		if err := snk.WriteTag(3, wire.Fixed64Type); err != nil {
			return err
		}
		if err := snk.WriteDouble(p.theta); err != nil {
			return err
		}
	}
	return nil
}

// SerializedSize returns the exact size of the next WriteTo.
func (p *Pose) SerializedSize() int {
	var n int
	if p.bits&poseHasX != 0 {
		n += steadypb.SizeTag(1) + 8
	}
	if p.bits&poseHasY != 0 {
		n += steadypb.SizeTag(2) + 8
	}
	if p.bits&poseHasTheta != 0 {
		n += steadypb.SizeTag(3) + 8
	}
	return n
}

var _ steadypb.Message = (*Pose)(nil)
