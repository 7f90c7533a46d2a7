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

// Package steadypb is a Protobuf runtime built around message instances
// that own all of their storage.
//
// Generated messages allocate their full object graph up front: nested
// messages, string buffers and repeated containers are created with their
// parent and never released by Clear. Decoding merges into that storage and
// encoding reads out of it, so a reused instance serializes and parses with
// zero allocations once its buffers have grown to fit the traffic.
//
// The wire format is standard Protobuf. Messages produced by steadypb can
// be read by any other Protobuf runtime and vice versa.
//
// The runtime surface is small: [Cursor] decodes, [Sink] encodes, [Message]
// is the contract generated code implements, and [Unmarshal], [Marshal] and
// the delimited variants tie them together.
package steadypb
