// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"sort"

	"github.com/gogpu/dlist"
)

// Region is a set of points covered by axis-aligned rectangles. It is
// the general fallback representation for clips that neither a single
// rectangle nor a short list of transformed rectangles can express.
//
// The zero value is the empty region. Regions are immutable; operations
// return new regions.
type Region struct {
	// rects is the canonical band decomposition: rectangles sorted by
	// (Top, Left), grouped into horizontal bands that share Top and
	// Bottom, with no overlap anywhere.
	rects []dlist.Rect
}

// RegionFromRect returns the region covering exactly r.
func RegionFromRect(r dlist.Rect) Region {
	if r.IsEmpty() {
		return Region{}
	}
	return Region{rects: []dlist.Rect{r}}
}

// RegionFromRects returns the union of the given rectangles.
func RegionFromRects(rects ...dlist.Rect) Region {
	var out Region
	for _, r := range rects {
		out = out.Union(RegionFromRect(r))
	}
	return out
}

// IsEmpty reports whether the region covers no area.
func (rg Region) IsEmpty() bool { return len(rg.rects) == 0 }

// IsRect reports whether the region is a single rectangle.
func (rg Region) IsRect() bool { return len(rg.rects) == 1 }

// Rects returns the region's rectangles in band order. The slice is
// shared; callers must not modify it.
func (rg Region) Rects() []dlist.Rect { return rg.rects }

// Bounds returns the tightest rectangle covering the region.
func (rg Region) Bounds() dlist.Rect {
	var b dlist.Rect
	for _, r := range rg.rects {
		b = b.Union(r)
	}
	return b
}

// Union returns the set of points in rg or other.
func (rg Region) Union(other Region) Region {
	return boolOp(rg, other, func(a, b bool) bool { return a || b })
}

// Intersect returns the set of points in both rg and other.
func (rg Region) Intersect(other Region) Region {
	return boolOp(rg, other, func(a, b bool) bool { return a && b })
}

// Difference returns the set of points in rg but not other.
func (rg Region) Difference(other Region) Region {
	return boolOp(rg, other, func(a, b bool) bool { return a && !b })
}

// IntersectRect is shorthand for intersecting with a single rectangle.
func (rg Region) IntersectRect(r dlist.Rect) Region {
	return rg.Intersect(RegionFromRect(r))
}

// Op applies the given clip operation with other as the operand.
func (rg Region) Op(other Region, op Op) Region {
	switch op {
	case OpIntersect:
		return rg.Intersect(other)
	case OpUnion:
		return rg.Union(other)
	case OpDifference:
		return rg.Difference(other)
	case OpReplace:
		return other
	}
	panic("dlist: unknown clip op")
}

// boolOp computes a boolean combination of two regions by sweeping
// horizontal bands over the union of their y-edges.
func boolOp(a, b Region, keep func(inA, inB bool) bool) Region {
	if len(a.rects) == 0 && len(b.rects) == 0 {
		return Region{}
	}

	ys := make([]float32, 0, 2*(len(a.rects)+len(b.rects)))
	for _, r := range a.rects {
		ys = append(ys, r.Top, r.Bottom)
	}
	for _, r := range b.rects {
		ys = append(ys, r.Top, r.Bottom)
	}
	sort.Slice(ys, func(i, j int) bool { return ys[i] < ys[j] })
	ys = dedupFloats(ys)

	var out []dlist.Rect
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		if y1 <= y0 {
			continue
		}
		band := bandIntervals(a, b, y0, y1, keep)
		for _, iv := range band {
			out = append(out, dlist.Rect{Left: iv[0], Top: y0, Right: iv[1], Bottom: y1})
		}
	}
	return Region{rects: coalesceBands(out)}
}

// bandIntervals computes the kept x-intervals for one horizontal band.
func bandIntervals(a, b Region, y0, y1 float32, keep func(bool, bool) bool) [][2]float32 {
	var xs []float32
	collect := func(rg Region) {
		for _, r := range rg.rects {
			if r.Top < y1 && r.Bottom > y0 {
				xs = append(xs, r.Left, r.Right)
			}
		}
	}
	collect(a)
	collect(b)
	if len(xs) == 0 {
		return nil
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	xs = dedupFloats(xs)

	covered := func(rg Region, x0, x1 float32) bool {
		for _, r := range rg.rects {
			if r.Top < y1 && r.Bottom > y0 && r.Left <= x0 && r.Right >= x1 {
				return true
			}
		}
		return false
	}

	var out [][2]float32
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		if x1 <= x0 {
			continue
		}
		if !keep(covered(a, x0, x1), covered(b, x0, x1)) {
			continue
		}
		if n := len(out); n > 0 && out[n-1][1] == x0 {
			out[n-1][1] = x1
		} else {
			out = append(out, [2]float32{x0, x1})
		}
	}
	return out
}

// coalesceBands merges vertically adjacent bands whose x-intervals are
// identical, restoring the canonical decomposition. rects arrive band
// by band in sweep order.
func coalesceBands(rects []dlist.Rect) []dlist.Rect {
	if len(rects) == 0 {
		return nil
	}

	// Group into bands by shared (Top, Bottom).
	var bands [][]dlist.Rect
	for _, r := range rects {
		if n := len(bands); n > 0 && bands[n-1][0].Top == r.Top && bands[n-1][0].Bottom == r.Bottom {
			bands[n-1] = append(bands[n-1], r)
		} else {
			bands = append(bands, []dlist.Rect{r})
		}
	}

	// Merge a band into its predecessor when they touch vertically and
	// cover the same x-intervals.
	out := bands[:1]
	for _, band := range bands[1:] {
		prev := out[len(out)-1]
		if prev[0].Bottom == band[0].Top && sameIntervals(prev, band) {
			for i := range prev {
				prev[i].Bottom = band[0].Bottom
			}
			continue
		}
		out = append(out, band)
	}

	var flat []dlist.Rect
	for _, band := range out {
		flat = append(flat, band...)
	}
	return flat
}

func sameIntervals(a, b []dlist.Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Left != b[i].Left || a[i].Right != b[i].Right {
			return false
		}
	}
	return true
}

func dedupFloats(v []float32) []float32 {
	out := v[:0]
	for i, x := range v {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
