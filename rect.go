// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle with float32 edges.
//
// A Rect is empty when Right <= Left or Bottom <= Top. Empty rectangles
// never intersect anything, including themselves.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// RectLTRB constructs a rectangle from explicit edges.
func RectLTRB(left, top, right, bottom float32) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectWH constructs a rectangle anchored at the origin.
func RectWH(width, height float32) Rect {
	return Rect{Right: width, Bottom: height}
}

// Width returns Right - Left.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// SetEmpty returns the canonical empty rectangle.
func (r Rect) SetEmpty() Rect { return Rect{} }

// Intersects reports whether r and other share any area.
// Empty rectangles intersect nothing.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Intersect returns the overlap of r and other, or an empty rectangle
// when they do not intersect.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
}

// Union returns the smallest rectangle covering both r and other.
// An empty operand does not contribute.
func (r Rect) Union(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Left:   min(r.Left, other.Left),
		Top:    min(r.Top, other.Top),
		Right:  max(r.Right, other.Right),
		Bottom: max(r.Bottom, other.Bottom),
	}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// ContainsPoint reports whether the point (x, y) lies inside r.
func (r Rect) ContainsPoint(x, y float32) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// ExpandToCover grows r so that it contains the point (x, y).
func (r Rect) ExpandToCover(x, y float32) Rect {
	return Rect{
		Left:   min(r.Left, x),
		Top:    min(r.Top, y),
		Right:  max(r.Right, x),
		Bottom: max(r.Bottom, y),
	}
}

// Outset grows the rectangle by d on every side.
func (r Rect) Outset(d float32) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

// Translate shifts the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// SnapToPixelBoundaries expands the rectangle outward to integral edges.
func (r Rect) SnapToPixelBoundaries() Rect {
	return Rect{
		Left:   float32(math.Floor(float64(r.Left))),
		Top:    float32(math.Floor(float64(r.Top))),
		Right:  float32(math.Ceil(float64(r.Right))),
		Bottom: float32(math.Ceil(float64(r.Bottom))),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.Left, r.Top, r.Right, r.Bottom)
}
