// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
)

// Snapshot is an immutable serialized clip attached to a baked op.
// Rect always holds the tightest enclosing rectangle in render-target
// space, whatever the mode; renderers that only support scissor clipping
// can use it directly.
type Snapshot struct {
	Mode     Mode
	Rect     dlist.Rect
	RectList []TransformedRect // ModeRectangleList only
	Region   Region            // ModeRegion only
}

// SerializeClip captures the current clip into an immutable snapshot
// allocated from alloc. Repeated calls without intervening mutation
// return the same snapshot, so ops sharing clip state share the pointer
// and the batching engine can compare clips by identity.
func (a *Area) SerializeClip(alloc *arena.Arena) *Snapshot {
	if a.lastSerialization == nil {
		s := arena.Alloc[Snapshot](alloc)
		s.Mode = a.mode
		s.Rect = a.clipRect
		switch a.mode {
		case ModeRectangleList:
			s.RectList = append(s.RectList, a.rectList.rects[:a.rectList.count]...)
		case ModeRegion:
			s.Region = a.clipRegion
		}
		a.lastSerialization = s
	}
	return a.lastSerialization
}

// SerializeIntersectedClip returns the intersection of the current clip
// with a clip rectangle recorded in another space, mapped through
// recordToCurrent. The result is cached against (localClip,
// recordToCurrent) until the clip next mutates.
func (a *Area) SerializeIntersectedClip(alloc *arena.Arena, localClip dlist.Rect,
	recordToCurrent dlist.Matrix4) *Snapshot {

	if a.lastResolutionResult != nil &&
		a.lastResolutionLocalClip == localClip &&
		a.lastResolutionTransform == recordToCurrent {
		return a.lastResolutionResult
	}

	mapped := recordToCurrent.MapRect(localClip)
	s := arena.Alloc[Snapshot](alloc)
	switch a.mode {
	case ModeRectangle:
		s.Mode = ModeRectangle
		s.Rect = a.clipRect.Intersect(mapped)

	case ModeRectangleList:
		list := a.rectList
		if list.intersectWith(localClip, recordToCurrent) {
			s.Mode = ModeRectangleList
			s.Rect = list.calculateBounds()
			s.RectList = append(s.RectList, list.rects[:list.count]...)
		} else {
			// List overflow: flatten to a region.
			rg := a.rectList.convertToRegion(RegionFromRect(a.viewportBounds)).
				IntersectRect(mapped)
			s.Mode = ModeRegion
			s.Rect = rg.Bounds()
			s.Region = rg
		}

	case ModeRegion:
		rg := a.clipRegion.IntersectRect(mapped)
		if rg.IsRect() {
			s.Mode = ModeRectangle
			s.Rect = rg.Bounds()
		} else {
			s.Mode = ModeRegion
			s.Rect = rg.Bounds()
			s.Region = rg
		}
	}

	a.lastResolutionResult = s
	a.lastResolutionLocalClip = localClip
	a.lastResolutionTransform = recordToCurrent
	return s
}
