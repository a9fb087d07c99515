// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"slices"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
	"github.com/gogpu/dlist/record"
)

// layerBuilder collects the baked ops of one render target (the frame
// itself, a temporary save-layer, or a node's persistent layer) into an
// ordered batch list.
//
// Two indices accelerate deferral: batchLookup remembers the most
// recent unmerging batch per batch id, mergingBatches the open merging
// batch per (batch id, merge id).
type layerBuilder struct {
	width, height int
	repaintRect   dlist.Rect

	// offscreenBuffer is the replay target. Temporary layers get it
	// assigned during replay; node layers draw into the node's buffer.
	offscreenBuffer *dlist.OffscreenBuffer

	// beginLayerOp is set for temporary save-layers, node for
	// persistent layer repaints; the frame target has neither.
	beginLayerOp *record.BeginLayerOp
	node         *record.Node

	batches        []*opBatch
	batchLookup    [batchCount]*opBatch
	mergingBatches [batchCount]map[mergeID]*opBatch
}

func newLayerBuilder(alloc *arena.Arena, width, height int, repaintRect dlist.Rect,
	beginLayerOp *record.BeginLayerOp, node *record.Node) *layerBuilder {

	lb := arena.Alloc[layerBuilder](alloc)
	lb.width = width
	lb.height = height
	lb.repaintRect = repaintRect
	lb.beginLayerOp = beginLayerOp
	lb.node = node
	return lb
}

func (lb *layerBuilder) empty() bool { return len(lb.batches) == 0 }

// clear discards every deferred batch, used when a finished layer turns
// out not to be drawn.
func (lb *layerBuilder) clear() {
	lb.batches = nil
	lb.batchLookup = [batchCount]*opBatch{}
	lb.mergingBatches = [batchCount]map[mergeID]*opBatch{}
}

// locateInsertIndex scans the batch list backward from the end for the
// position a new op of the given batch id may move back to without
// reordering past overlapping content.
//
// The scan stops at the current target batch (the op joins it), at the
// first intersecting batch (the op must stay in front of it, so target
// is abandoned), and tracks the position just after the rearmost batch
// with the same id.
func (lb *layerBuilder) locateInsertIndex(id batchID, clippedBounds dlist.Rect,
	target *opBatch, insertIndex int) (*opBatch, int) {

	for i := len(lb.batches) - 1; i >= 0; i-- {
		over := lb.batches[i]
		if over == target {
			break
		}
		if over.id == id {
			insertIndex = i + 1
			if target == nil {
				break
			}
		}
		if over.intersects(clippedBounds) {
			target = nil
			break
		}
	}
	return target, insertIndex
}

// deferUnmergeableOp appends op to the rearmost batch with the same id
// that it can reach without crossing overlapping content, or opens a
// new batch at the deepest safe position.
func (lb *layerBuilder) deferUnmergeableOp(alloc *arena.Arena, op *BakedOpState, id batchID) {
	target := lb.batchLookup[id]
	insertIndex := len(lb.batches)
	if target != nil {
		target, insertIndex = lb.locateInsertIndex(id, op.State.ClippedBounds, target, insertIndex)
	}
	if target != nil {
		target.add(op)
		return
	}
	target = newOpBatch(alloc, id, op)
	lb.batchLookup[id] = target
	lb.batches = slices.Insert(lb.batches, insertIndex, target)
}

// deferMergeableOp tries to merge op into the open merging batch for
// (id, mid); on refusal it opens a new merging batch at the deepest
// safe position and makes it the open batch for the pair.
func (lb *layerBuilder) deferMergeableOp(alloc *arena.Arena, op *BakedOpState,
	id batchID, mid mergeID) {

	var target *opBatch
	if m := lb.mergingBatches[id]; m != nil {
		target = m[mid]
	}
	if target != nil && !target.canMergeWith(op) {
		target = nil
	}

	insertIndex := len(lb.batches)
	target, insertIndex = lb.locateInsertIndex(id, op.State.ClippedBounds, target, insertIndex)

	if target != nil {
		target.mergeOp(op)
		return
	}
	target = newMergingOpBatch(alloc, id, op)
	if lb.mergingBatches[id] == nil {
		lb.mergingBatches[id] = make(map[mergeID]*opBatch)
	}
	lb.mergingBatches[id][mid] = target
	lb.batches = slices.Insert(lb.batches, insertIndex, target)
}

// replay dispatches the layer's batches in order. Merging batches with
// more than one op go through the merged receiver for their op kind;
// everything else replays op by op.
func (lb *layerBuilder) replay(r Renderer) {
	for _, b := range lb.batches {
		if len(b.ops) > 1 && b.merging {
			kind := b.ops[0].Op.Kind()
			recv := mergedReceivers[kind]
			if recv == nil {
				panic("dlist: no merged replay receiver for " + kind.String())
			}
			recv(r, MergedOpList{
				States:        b.ops,
				ClipSideFlags: b.clipSideFlags,
				Clip:          b.clipRect,
			})
			continue
		}
		for _, s := range b.ops {
			recv := unmergedReceivers[s.Op.Kind()]
			if recv == nil {
				panic("dlist: no replay receiver for " + s.Op.Kind().String())
			}
			recv(r, s)
		}
	}
}
