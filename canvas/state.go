// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/clip"
)

// SaveFlags select which state a Save isolates. State not named by a
// flag writes through to the parent snapshot on restore.
type SaveFlags uint8

const (
	SaveMatrix SaveFlags = 1 << iota
	SaveClip

	SaveMatrixClip = SaveMatrix | SaveClip
)

// Client observes state-stack lifecycle events. The recording canvas
// uses OnSnapshotRestored to close save-layers when their snapshot
// pops.
type Client interface {
	OnViewportInitialized()
	OnSnapshotRestored(removed, restored *Snapshot)
}

// State is the canvas save/restore stack. The bottom snapshot always
// remains; Restore on a one-deep stack is a silent no-op.
type State struct {
	client Client
	stack  []*Snapshot
	free   []*Snapshot
}

// NewState returns a stack with a single base snapshot covering a zero
// viewport; call InitializeSaveStack before use.
func NewState(client Client) *State {
	s := &State{client: client}
	base := &Snapshot{Transform: dlist.Identity(), Alpha: 1}
	s.stack = append(s.stack, base)
	return s
}

// InitializeSaveStack resets the stack to a single base snapshot with
// the given viewport and clip.
func (s *State) InitializeSaveStack(viewportWidth, viewportHeight int,
	clipLeft, clipTop, clipRight, clipBottom float32) {

	for len(s.stack) > 1 {
		s.pop()
	}
	base := s.stack[0]
	*base = Snapshot{Transform: dlist.Identity(), Alpha: 1}
	base.InitializeViewport(viewportWidth, viewportHeight)
	base.SetClip(clipLeft, clipTop, clipRight, clipBottom)
	if s.client != nil {
		s.client.OnViewportInitialized()
	}
}

// SaveCount returns the current stack depth.
func (s *State) SaveCount() int { return len(s.stack) }

// Save pushes a copy of the current snapshot and returns the depth to
// pass to RestoreToCount to undo it.
func (s *State) Save(flags SaveFlags) int {
	count := len(s.stack)
	top := s.stack[count-1]

	var snap *Snapshot
	if n := len(s.free); n > 0 {
		snap = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		snap = &Snapshot{}
	}
	*snap = *top
	snap.saveFlags = flags
	s.stack = append(s.stack, snap)
	return count
}

// Restore pops the top snapshot. State not isolated by the snapshot's
// save flags writes through to the restored parent.
func (s *State) Restore() {
	if len(s.stack) <= 1 {
		return
	}
	removed := s.pop()
	restored := s.stack[len(s.stack)-1]
	if removed.saveFlags&SaveMatrix == 0 {
		restored.Transform = removed.Transform
	}
	if removed.saveFlags&SaveClip == 0 {
		*restored.Clip() = *removed.Clip()
	}
	if s.client != nil {
		s.client.OnSnapshotRestored(removed, restored)
	}
	s.free = append(s.free, removed)
}

// RestoreToCount pops snapshots until the depth returned by a matching
// Save is reached.
func (s *State) RestoreToCount(count int) {
	if count < 1 {
		count = 1
	}
	for len(s.stack) > count {
		s.Restore()
	}
}

func (s *State) pop() *Snapshot {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// CurrentSnapshot returns the top snapshot for reading.
func (s *State) CurrentSnapshot() *Snapshot { return s.stack[len(s.stack)-1] }

// WritableSnapshot returns the top snapshot for mutation.
func (s *State) WritableSnapshot() *Snapshot { return s.stack[len(s.stack)-1] }

// CurrentTransform returns the top snapshot's transform.
func (s *State) CurrentTransform() dlist.Matrix4 {
	return s.CurrentSnapshot().Transform
}

// Translate applies a local-space translation.
func (s *State) Translate(dx, dy float32) {
	snap := s.WritableSnapshot()
	snap.Transform = snap.Transform.Translate(dx, dy)
}

// Scale applies a local-space scale.
func (s *State) Scale(sx, sy float32) {
	snap := s.WritableSnapshot()
	snap.Transform = snap.Transform.Scale(sx, sy)
}

// Rotate applies a local-space rotation in radians.
func (s *State) Rotate(radians float32) {
	snap := s.WritableSnapshot()
	snap.Transform = snap.Transform.Rotate(radians)
}

// Skew applies a local-space shear.
func (s *State) Skew(kx, ky float32) {
	snap := s.WritableSnapshot()
	snap.Transform = snap.Transform.Skew(kx, ky)
}

// ConcatMatrix post-multiplies the current transform by m.
func (s *State) ConcatMatrix(m dlist.Matrix4) {
	snap := s.WritableSnapshot()
	snap.Transform = snap.Transform.Multiply(m)
}

// SetMatrix replaces the current transform.
func (s *State) SetMatrix(m dlist.Matrix4) {
	s.WritableSnapshot().Transform = m
}

// ScaleAlpha multiplies the accumulated soft alpha.
func (s *State) ScaleAlpha(alpha float32) {
	s.WritableSnapshot().Alpha *= alpha
}

// ClipRect clips with a local-space rectangle and reports whether any
// clip area remains.
func (s *State) ClipRect(left, top, right, bottom float32, op clip.Op) bool {
	snap := s.WritableSnapshot()
	snap.Clip().ClipRectWithTransform(dlist.RectLTRB(left, top, right, bottom),
		snap.Transform, op)
	return !snap.Clip().IsEmpty()
}

// ClipRegion clips with a render-target-space region and reports
// whether any clip area remains.
func (s *State) ClipRegion(rg clip.Region, op clip.Op) bool {
	snap := s.WritableSnapshot()
	snap.Clip().ClipRegionOp(rg, op)
	return !snap.Clip().IsEmpty()
}

// GetRenderTargetClipBounds returns the enclosing clip rectangle in
// render-target space.
func (s *State) GetRenderTargetClipBounds() dlist.Rect {
	return s.CurrentSnapshot().ClipRect()
}

// GetLocalClipBounds returns the clip bounds mapped back into local
// space through the inverse of the current transform.
func (s *State) GetLocalClipBounds() dlist.Rect {
	inv, ok := s.CurrentTransform().Invert()
	if !ok {
		return dlist.Rect{}
	}
	return inv.MapRect(s.GetRenderTargetClipBounds())
}

// QuickRejectConservative reports whether a local-space rectangle is
// certainly outside the clip. False negatives are fine; false positives
// are not.
func (s *State) QuickRejectConservative(left, top, right, bottom float32) bool {
	snap := s.CurrentSnapshot()
	if snap.Clip().IsEmpty() {
		return true
	}
	r := dlist.RectLTRB(left, top, right, bottom)
	if r.IsEmpty() {
		return true
	}
	mapped := snap.Transform.MapRect(r).SnapToPixelBoundaries()
	return !mapped.Intersects(snap.ClipRect())
}
