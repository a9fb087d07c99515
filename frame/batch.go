// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
)

// batchID partitions baked ops by the renderer state they need. Ops in
// different batches never reorder past each other when their bounds
// intersect; ops in the same batch draw together.
type batchID uint8

const (
	batchBitmap batchID = iota
	batchAlphaVertices
	batchVertices
	batchAlphaMaskTexture
	batchText
	batchColorText
	batchShadow
	batchCopyToLayer
	batchCopyFromLayer

	batchCount
)

// mergeID distinguishes merge groups inside one batchID: the bitmap
// generation for bitmaps, the packed color for text.
type mergeID uint64

const epsilon = 1e-7

func floatsEqual(a, b float32) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}

// opBatch is an ordered group of baked ops that replay together. A
// merging batch additionally tracks the combined clip so the whole
// group can draw with one clip apply.
type opBatch struct {
	id     batchID
	bounds dlist.Rect
	ops    []*BakedOpState

	// merging batch state; meaningful only when merging is set.
	merging       bool
	clipSideFlags ClipSide
	clipRect      dlist.Rect
}

func newOpBatch(alloc *arena.Arena, id batchID, op *BakedOpState) *opBatch {
	b := arena.Alloc[opBatch](alloc)
	b.id = id
	b.bounds = op.State.ClippedBounds
	b.ops = append(b.ops, op)
	return b
}

func newMergingOpBatch(alloc *arena.Arena, id batchID, op *BakedOpState) *opBatch {
	b := newOpBatch(alloc, id, op)
	b.merging = true
	b.clipSideFlags = op.State.ClipSideFlags
	b.clipRect = op.ClipRect()
	return b
}

// intersects reports whether r overlaps any op in the batch. The batch
// bounds are a cheap first-pass reject; per-op bounds decide.
func (b *opBatch) intersects(r dlist.Rect) bool {
	if !b.bounds.Intersects(r) {
		return false
	}
	for _, op := range b.ops {
		if op.State.ClippedBounds.Intersects(r) {
			return true
		}
	}
	return false
}

// add appends an op to an unmerging batch.
func (b *opBatch) add(op *BakedOpState) {
	b.bounds = b.bounds.Union(op.State.ClippedBounds)
	b.ops = append(b.ops, op)
}

// checkSide validates one side of the clip-compatibility test.
// boundsDelta measures how the op bounds extend past the batch bounds
// on that side (positive when the batch edge is more restrictive).
func checkSide(currentFlags, newFlags, side ClipSide, boundsDelta float32) bool {
	if boundsDelta > 0 && currentFlags&side != 0 {
		// op extends past a clipped batch edge
		return false
	}
	if boundsDelta < 0 && newFlags&side != 0 {
		// batch extends past the op's clipped edge
		return false
	}
	return true
}

func paintIsDefault(p *dlist.Paint) bool {
	return p.Alpha() == 255 && p.ColorFilter == nil && p.Shader == nil
}

func paintsAreEquivalent(a, b *dlist.Paint) bool {
	return a.Alpha() == b.Alpha() && a.ColorFilter == b.ColorFilter && a.Shader == b.Shader
}

// canMergeWith decides whether op may join this merging batch. Merged
// ops draw in a single pass, so anything that would change per-op
// renderer state, or make draw order observable, refuses the merge.
func (b *opBatch) canMergeWith(op *BakedOpState) bool {
	// Overlap breaks merged draw order. Text tolerates it, because
	// glyphs composite correctly under overlap, unless a shadow extends
	// past the glyph bounds.
	isTextBatch := b.id == batchText || b.id == batchColorText
	if !isTextBatch || op.Op.Base().Paint.HasTextShadow() {
		if b.intersects(op.State.ClippedBounds) {
			return false
		}
	}

	first := b.ops[0]
	if !floatsEqual(first.Alpha, op.Alpha) {
		return false
	}
	// Arena-stable pointers; identity comparison is the contract.
	if first.RoundRectClip != op.RoundRectClip {
		return false
	}
	if first.ProjectionMask != op.ProjectionMask {
		return false
	}

	currentFlags := b.clipSideFlags
	newFlags := op.State.ClipSideFlags
	if currentFlags != ClipSideNone || newFlags != ClipSideNone {
		opBounds := op.State.ClippedBounds
		if !checkSide(currentFlags, newFlags, ClipSideLeft, b.bounds.Left-opBounds.Left) {
			return false
		}
		if !checkSide(currentFlags, newFlags, ClipSideTop, b.bounds.Top-opBounds.Top) {
			return false
		}
		if !checkSide(currentFlags, newFlags, ClipSideRight, opBounds.Right-b.bounds.Right) {
			return false
		}
		if !checkSide(currentFlags, newFlags, ClipSideBottom, opBounds.Bottom-b.bounds.Bottom) {
			return false
		}
	}

	newPaint := op.Op.Base().Paint
	oldPaint := first.Op.Base().Paint
	if newPaint == oldPaint {
		return true
	}
	if newPaint == nil || oldPaint == nil {
		// One op has no paint; the other must behave like the default.
		p := newPaint
		if p == nil {
			p = oldPaint
		}
		return paintIsDefault(p)
	}
	return paintsAreEquivalent(newPaint, oldPaint)
}

// mergeOp absorbs op into the batch, widening the combined clip by
// adopting the op's clip edge on every side the op is clipped.
func (b *opBatch) mergeOp(op *BakedOpState) {
	b.bounds = b.bounds.Union(op.State.ClippedBounds)
	b.ops = append(b.ops, op)

	newClipSideFlags := op.State.ClipSideFlags
	b.clipSideFlags |= newClipSideFlags

	opClip := op.ClipRect()
	if newClipSideFlags&ClipSideLeft != 0 {
		b.clipRect.Left = opClip.Left
	}
	if newClipSideFlags&ClipSideTop != 0 {
		b.clipRect.Top = opClip.Top
	}
	if newClipSideFlags&ClipSideRight != 0 {
		b.clipRect.Right = opClip.Right
	}
	if newClipSideFlags&ClipSideBottom != 0 {
		b.clipRect.Bottom = opClip.Bottom
	}
}
