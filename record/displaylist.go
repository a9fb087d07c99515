// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

// Chunk is a contiguous run of ops recorded under one reorder barrier.
// Chunks partition the op list: they are contiguous, non-overlapping,
// and cover every op. Child (node) indices are bracketed per chunk so
// the deferral engine can Z-sort the children of a reordered chunk
// without scanning the whole list.
type Chunk struct {
	BeginOpIndex, EndOpIndex       int
	BeginChildIndex, EndChildIndex int

	// ReorderChildren permits Z reordering of this chunk's child nodes.
	ReorderChildren bool
}

// DisplayList is an immutable recording. It is produced by
// [Canvas.FinishRecording] and consumed, possibly many times, by the
// deferral engine; it is never mutated afterwards.
type DisplayList struct {
	ops      []Op
	children []*NodeOp
	chunks   []Chunk

	// projectionReceiveIndex is the index of the op after which content
	// projected onto this list replays, or -1 when no op in the list is
	// a projection receiver.
	projectionReceiveIndex int

	hasDrawOps bool
}

func newDisplayList() *DisplayList {
	return &DisplayList{projectionReceiveIndex: -1}
}

// Ops returns the recorded ops in order.
func (d *DisplayList) Ops() []Op { return d.ops }

// Chunks returns the chunk partition of the op list.
func (d *DisplayList) Chunks() []Chunk { return d.chunks }

// Children returns the node ops in recording order.
func (d *DisplayList) Children() []*NodeOp { return d.children }

// ProjectionReceiveIndex returns the receiver op index, or -1.
func (d *DisplayList) ProjectionReceiveIndex() int { return d.projectionReceiveIndex }

// IsEmpty reports whether the recording contains no ops.
func (d *DisplayList) IsEmpty() bool { return len(d.ops) == 0 }

// HasDrawOps reports whether the recording contains ops that put
// content on screen. Layer begin/end brackets alone do not count.
func (d *DisplayList) HasDrawOps() bool { return d.hasDrawOps }

func (d *DisplayList) addChild(op *NodeOp) int {
	index := len(d.children)
	d.children = append(d.children, op)
	return index
}
