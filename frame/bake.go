// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
	"github.com/gogpu/dlist/canvas"
	"github.com/gogpu/dlist/clip"
	"github.com/gogpu/dlist/record"
)

// ClipSide flags record which edges of an op's bounds were cut by the
// clip when its state was resolved. They gate merging: a batch may only
// absorb an op whose clipped edges stay compatible with its own.
type ClipSide uint8

const (
	ClipSideNone   ClipSide = 0
	ClipSideLeft   ClipSide = 1
	ClipSideTop    ClipSide = 2
	ClipSideRight  ClipSide = 4
	ClipSideBottom ClipSide = 8
	ClipSideFull            = ClipSideLeft | ClipSideTop | ClipSideRight | ClipSideBottom
)

// ResolvedState is the render-target-space drawing state of one op:
// the composed transform, the serialized clip, the op bounds after
// transform and clip, and which sides the clip cut.
type ResolvedState struct {
	// Transform composes the snapshot transform with the op's local
	// matrix; it maps the op's unmapped bounds into the render target.
	Transform dlist.Matrix4

	// ClipState is the serialized clip the op draws under. Ops baked
	// under the same unmodified clip share the pointer.
	ClipState *clip.Snapshot

	// ClippedBounds are the op bounds mapped by Transform and
	// intersected with the clip. Empty means the op was rejected.
	ClippedBounds dlist.Rect

	ClipSideFlags ClipSide
}

// BakedOpState pairs a recorded op with its resolved drawing state for
// one frame. Instances are arena-allocated and live until the frame's
// arena resets.
type BakedOpState struct {
	State ResolvedState

	// Alpha is the soft alpha accumulated from node properties and
	// alpha save-layers.
	Alpha float32

	// RoundRectClip and ProjectionMask are arena-stable for the frame;
	// batching compares them by identity.
	RoundRectClip  *canvas.RoundRectClip
	ProjectionMask *canvas.ProjectionMask

	Op record.Op
}

// RequiresClip reports whether the renderer must scissor or mask this
// op rather than rely on its bounds alone.
func (s *BakedOpState) RequiresClip() bool {
	return s.State.ClipSideFlags != ClipSideNone ||
		(s.State.ClipState != nil && s.State.ClipState.Mode != clip.ModeRectangle)
}

// ClipRect returns the enclosing serialized clip rectangle.
func (s *BakedOpState) ClipRect() dlist.Rect {
	return s.State.ClipState.Rect
}

type strokeBehavior uint8

const (
	// strokeStyleDefined expands bounds only when the paint style
	// strokes.
	strokeStyleDefined strokeBehavior = iota
	// strokeForced always expands; used for ops that are inherently
	// stroked (lines, points) whatever the paint style says.
	strokeForced
)

// resolveState computes an op's render-target state against a snapshot.
// A rejected op comes back with empty ClippedBounds and a nil ClipState.
func resolveState(alloc *arena.Arena, snap *canvas.Snapshot, op record.Op,
	expandForStroke bool) ResolvedState {

	base := op.Base()
	r := ResolvedState{Transform: snap.Transform.Multiply(base.LocalMatrix)}

	bounds := base.UnmappedBounds
	var strokeWidth float32
	if expandForStroke {
		if base.Paint != nil {
			strokeWidth = base.Paint.StrokeWidth
		}
		bounds = bounds.Outset(strokeWidth * 0.5)
	}
	r.ClippedBounds = r.Transform.MapRect(bounds)
	if expandForStroke && (!r.Transform.IsPureTranslate() || strokeWidth < 1) {
		// Account for scale and hairline anti-aliasing ramp.
		r.ClippedBounds = r.ClippedBounds.Outset(0.5)
	}

	// An empty LocalClip marks an op synthesized without a recorded
	// clip; it takes the snapshot clip as-is.
	if base.LocalClip.IsEmpty() {
		r.ClipState = snap.Clip().SerializeClip(alloc)
	} else {
		r.ClipState = snap.Clip().SerializeIntersectedClip(alloc, base.LocalClip, snap.Transform)
	}

	clipRect := r.ClipState.Rect
	if clipRect.IsEmpty() || !r.ClippedBounds.Intersects(clipRect) {
		r.ClipState = nil
		r.ClippedBounds = dlist.Rect{}
		return r
	}

	if clipRect.Left > r.ClippedBounds.Left {
		r.ClipSideFlags |= ClipSideLeft
	}
	if clipRect.Top > r.ClippedBounds.Top {
		r.ClipSideFlags |= ClipSideTop
	}
	if clipRect.Right < r.ClippedBounds.Right {
		r.ClipSideFlags |= ClipSideRight
	}
	if clipRect.Bottom < r.ClippedBounds.Bottom {
		r.ClipSideFlags |= ClipSideBottom
	}
	r.ClippedBounds = r.ClippedBounds.Intersect(clipRect)
	return r
}

// resolveUnboundedState is the variant for ops whose extent is the
// whole clip, such as shadows.
func resolveUnboundedState(alloc *arena.Arena, snap *canvas.Snapshot) ResolvedState {
	s := snap.Clip().SerializeClip(alloc)
	return ResolvedState{
		Transform:     snap.Transform,
		ClipState:     s,
		ClippedBounds: s.Rect,
		ClipSideFlags: ClipSideFull,
	}
}

func bakeOpState(alloc *arena.Arena, snap *canvas.Snapshot, op record.Op,
	expandForStroke bool) *BakedOpState {

	s := arena.Alloc[BakedOpState](alloc)
	s.State = resolveState(alloc, snap, op, expandForStroke)
	if s.State.ClippedBounds.IsEmpty() {
		// Quick rejected; hand the slot back when it is still on top.
		arena.Rewind(alloc, s)
		return nil
	}
	s.Alpha = snap.Alpha
	s.RoundRectClip = snap.RoundRectClip
	s.ProjectionMask = snap.ProjectionMask
	s.Op = op
	return s
}

// tryBakeOpState resolves op against snap, or returns nil if the op is
// entirely clipped out.
func tryBakeOpState(alloc *arena.Arena, snap *canvas.Snapshot, op record.Op) *BakedOpState {
	return bakeOpState(alloc, snap, op, false)
}

// tryBakeStrokeableOpState is tryBakeOpState with stroke-aware bounds
// expansion.
func tryBakeStrokeableOpState(alloc *arena.Arena, snap *canvas.Snapshot, op record.Op,
	sb strokeBehavior) *BakedOpState {

	expand := sb == strokeForced
	if sb == strokeStyleDefined {
		p := op.Base().Paint
		expand = p != nil && p.Style != dlist.PaintStyleFill
	}
	return bakeOpState(alloc, snap, op, expand)
}

// tryBakeShadowOpState resolves a synthesized shadow, whose bounds are
// the full clip.
func tryBakeShadowOpState(alloc *arena.Arena, snap *canvas.Snapshot,
	op *record.ShadowOp) *BakedOpState {

	if snap.ClipRect().IsEmpty() {
		return nil
	}
	s := arena.Alloc[BakedOpState](alloc)
	s.State = resolveUnboundedState(alloc, snap)
	s.Alpha = snap.Alpha
	s.RoundRectClip = snap.RoundRectClip
	s.ProjectionMask = snap.ProjectionMask
	s.Op = op
	return s
}
