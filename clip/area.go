// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clip tracks the clip state of a canvas snapshot through three
// representations of increasing generality: a single render-target
// rectangle, a short list of transformed rectangles, and a region.
//
// The representation only ever escalates while a snapshot is mutated
// (rectangle -> rectangle list -> region), except that a region
// collapsing to a single rectangle re-enters rectangle mode. Baked ops
// receive an immutable serialized form of whichever representation was
// current.
package clip

import "github.com/gogpu/dlist"

// Op selects how a new shape combines with the current clip.
type Op uint8

const (
	OpIntersect Op = iota
	OpUnion
	OpDifference
	OpReplace
)

var opNames = [...]string{
	OpIntersect:  "Intersect",
	OpUnion:      "Union",
	OpDifference: "Difference",
	OpReplace:    "Replace",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Unknown"
}

// Mode identifies the active clip representation.
type Mode uint8

const (
	// ModeRectangle is a single rectangle in render-target space.
	ModeRectangle Mode = iota
	// ModeRectangleList is up to maxTransformedRects rectangles, each
	// carrying the transform it was clipped under.
	ModeRectangleList
	// ModeRegion is the general fallback.
	ModeRegion
)

var modeNames = [...]string{
	ModeRectangle:     "Rectangle",
	ModeRectangleList: "RectangleList",
	ModeRegion:        "Region",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// maxTransformedRects bounds rectangle-list mode; one more intersecting
// transform escalates to region mode.
const maxTransformedRects = 5

// TransformedRect is a rectangle together with the transform that was
// current when it entered the clip.
type TransformedRect struct {
	Bounds    dlist.Rect
	Transform dlist.Matrix4
}

// TransformedBounds returns the axis-aligned render-target bounds.
func (t TransformedRect) TransformedBounds() dlist.Rect {
	return t.Transform.MapRect(t.Bounds)
}

// canSimplyIntersectWith reports whether other shares the same basis,
// so the two rectangles intersect exactly in untransformed space.
func (t TransformedRect) canSimplyIntersectWith(other TransformedRect) bool {
	return t.Transform == other.Transform
}

// RectangleList holds the rectangle-list clip representation.
type RectangleList struct {
	rects [maxTransformedRects]TransformedRect
	count int
}

// Count returns the number of rectangles in the list.
func (l *RectangleList) Count() int { return l.count }

// At returns the i-th transformed rectangle.
func (l *RectangleList) At(i int) TransformedRect { return l.rects[i] }

func (l *RectangleList) setEmpty() { l.count = 0 }

func (l *RectangleList) set(bounds dlist.Rect, transform dlist.Matrix4) {
	l.count = 1
	l.rects[0] = TransformedRect{Bounds: bounds, Transform: transform}
}

// intersectWith adds a rectangle, collapsing it into an entry with the
// same transform when possible. It reports false when the list is full.
func (l *RectangleList) intersectWith(bounds dlist.Rect, transform dlist.Matrix4) bool {
	nr := TransformedRect{Bounds: bounds, Transform: transform}
	for i := 0; i < l.count; i++ {
		if l.rects[i].canSimplyIntersectWith(nr) {
			l.rects[i].Bounds = l.rects[i].Bounds.Intersect(nr.Bounds)
			return true
		}
	}
	if l.count < maxTransformedRects {
		l.rects[l.count] = nr
		l.count++
		return true
	}
	return false
}

// calculateBounds returns the intersection of every entry's
// render-target bounds.
func (l *RectangleList) calculateBounds() dlist.Rect {
	var bounds dlist.Rect
	for i := 0; i < l.count; i++ {
		tb := l.rects[i].TransformedBounds()
		if i == 0 {
			bounds = tb
		} else {
			bounds = bounds.Intersect(tb)
		}
	}
	return bounds
}

// convertToRegion flattens the list into a region, intersected with the
// given viewport region. Each entry contributes the axis-aligned bounds
// of its transformed rectangle; rotated corners are clipped per-fragment
// by the renderer, so the region is a conservative cover.
func (l *RectangleList) convertToRegion(viewport Region) Region {
	out := viewport
	for i := 0; i < l.count; i++ {
		out = out.IntersectRect(l.rects[i].TransformedBounds())
	}
	return out
}

// Area is the mutable clip of one canvas snapshot.
//
// Area values are copied wholesale on canvas save, so all state is held
// by value.
type Area struct {
	mode           Mode
	viewportBounds dlist.Rect

	// clipRect is maintained in every mode as the tightest enclosing
	// rectangle of the true clip.
	clipRect   dlist.Rect
	rectList   RectangleList
	clipRegion Region

	// Serialization caches, invalidated on every mutation.
	lastSerialization       *Snapshot
	lastResolutionResult    *Snapshot
	lastResolutionLocalClip dlist.Rect
	lastResolutionTransform dlist.Matrix4
}

// NewArea returns an area clipped to nothing (empty) in rectangle mode.
func NewArea() Area {
	return Area{mode: ModeRectangle}
}

// SetViewportDimensions resets the clip to the full viewport.
func (a *Area) SetViewportDimensions(width, height int) {
	a.onClipUpdated()
	a.viewportBounds = dlist.RectWH(float32(width), float32(height))
	a.clipRect = a.viewportBounds
	a.mode = ModeRectangle
	a.clipRegion = Region{}
	a.rectList.setEmpty()
}

// SetClip replaces the clip with an axis-aligned rectangle in
// render-target space.
func (a *Area) SetClip(left, top, right, bottom float32) {
	a.onClipUpdated()
	a.mode = ModeRectangle
	a.clipRect = dlist.RectLTRB(left, top, right, bottom)
	a.clipRegion = Region{}
	a.rectList.setEmpty()
}

// SetEmpty clips everything out.
func (a *Area) SetEmpty() {
	a.SetClip(0, 0, 0, 0)
}

// Mode returns the active representation.
func (a *Area) Mode() Mode { return a.mode }

// IsEmpty reports whether nothing can draw.
func (a *Area) IsEmpty() bool { return a.clipRect.IsEmpty() }

// ClipRect returns the tightest enclosing rectangle of the clip in
// render-target space.
func (a *Area) ClipRect() dlist.Rect { return a.clipRect }

// ClipRegion returns the region representation. Valid in ModeRegion.
func (a *Area) ClipRegion() Region { return a.clipRegion }

// RectangleList returns the list representation. Valid in
// ModeRectangleList.
func (a *Area) RectangleList() *RectangleList { return &a.rectList }

// ClipRectWithTransform clips with a rectangle expressed in the given
// transform's local space.
func (a *Area) ClipRectWithTransform(r dlist.Rect, transform dlist.Matrix4, op Op) {
	a.onClipUpdated()
	switch a.mode {
	case ModeRectangle:
		a.rectangleModeClip(r, transform, op)
	case ModeRectangleList:
		a.rectangleListModeClip(r, transform, op)
	case ModeRegion:
		a.regionModeClip(r, transform, op)
	}
}

// ClipRegionOp clips with an arbitrary region in render-target space.
func (a *Area) ClipRegionOp(rg Region, op Op) {
	a.onClipUpdated()
	a.enterRegionMode()
	a.clipRegion = a.clipRegion.Op(rg, op)
	a.onClipRegionUpdated()
}

func (a *Area) rectangleModeClip(r dlist.Rect, transform dlist.Matrix4, op Op) {
	if op == OpReplace && transform.IsSimple() {
		a.clipRect = transform.MapRect(r)
		return
	}
	if op != OpIntersect {
		a.enterRegionMode()
		a.regionModeClip(r, transform, op)
		return
	}
	if transform.IsSimple() || transform.IsPureTranslate() {
		a.clipRect = a.clipRect.Intersect(transform.MapRect(r))
		return
	}
	a.enterRectangleListMode()
	a.rectangleListModeClip(r, transform, op)
}

func (a *Area) rectangleListModeClip(r dlist.Rect, transform dlist.Matrix4, op Op) {
	if op != OpIntersect || !a.rectList.intersectWith(r, transform) {
		a.enterRegionMode()
		a.regionModeClip(r, transform, op)
		return
	}
	a.clipRect = a.rectList.calculateBounds()
}

func (a *Area) regionModeClip(r dlist.Rect, transform dlist.Matrix4, op Op) {
	a.clipRegion = a.clipRegion.Op(RegionFromRect(transform.MapRect(r)), op)
	a.onClipRegionUpdated()
}

// enterRectangleListMode seeds the list with the current rectangle
// under the identity transform. Only reachable from rectangle mode.
func (a *Area) enterRectangleListMode() {
	a.mode = ModeRectangleList
	a.rectList.set(a.clipRect, dlist.Identity())
}

// enterRegionMode converts the current representation to a region. The
// mode must hold at Region until the pending op has applied: collapsing
// a single-rect conversion back to rectangle mode here would clear
// clipRegion out from under the op.
func (a *Area) enterRegionMode() {
	oldMode := a.mode
	a.mode = ModeRegion
	if oldMode == ModeRegion {
		return
	}
	if oldMode == ModeRectangle {
		a.clipRegion = RegionFromRect(a.clipRect)
		return
	}
	a.clipRegion = a.rectList.convertToRegion(RegionFromRect(a.viewportBounds))
	a.clipRect = a.clipRegion.Bounds()
}

// onClipRegionUpdated refreshes the enclosing rectangle and collapses a
// single-rect (or empty) region back to rectangle mode. Runs only after
// a region op completes, never mid-transition.
func (a *Area) onClipRegionUpdated() {
	if a.clipRegion.IsEmpty() {
		a.clipRect = dlist.Rect{}
		a.clipRegion = Region{}
		a.mode = ModeRectangle
		return
	}
	a.clipRect = a.clipRegion.Bounds()
	if a.clipRegion.IsRect() {
		a.clipRegion = Region{}
		a.mode = ModeRectangle
	}
}

// onClipUpdated drops cached serializations before any mutation.
func (a *Area) onClipUpdated() {
	a.lastSerialization = nil
	a.lastResolutionResult = nil
}
