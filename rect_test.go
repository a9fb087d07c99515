// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

import "testing"

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"normal", RectLTRB(0, 0, 10, 10), false},
		{"zero width", RectLTRB(5, 0, 5, 10), true},
		{"inverted", RectLTRB(10, 10, 0, 0), true},
		{"negative coords", RectLTRB(-10, -10, -5, -5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("%v.IsEmpty() = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", RectLTRB(0, 0, 10, 10), RectLTRB(5, 5, 15, 15), RectLTRB(5, 5, 10, 10)},
		{"contained", RectLTRB(0, 0, 10, 10), RectLTRB(2, 2, 8, 8), RectLTRB(2, 2, 8, 8)},
		{"disjoint", RectLTRB(0, 0, 10, 10), RectLTRB(20, 20, 30, 30), Rect{}},
		{"touching edges", RectLTRB(0, 0, 10, 10), RectLTRB(10, 0, 20, 10), Rect{}},
		{"empty operand", RectLTRB(0, 0, 10, 10), Rect{}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
			wantHit := !tt.want.IsEmpty()
			if got := tt.a.Intersects(tt.b); got != wantHit {
				t.Errorf("Intersects = %v, want %v", got, wantHit)
			}
		})
	}
}

func TestRectUnionIgnoresEmpty(t *testing.T) {
	a := RectLTRB(10, 10, 20, 20)
	if got := a.Union(Rect{}); got != a {
		t.Errorf("union with empty = %v, want %v", got, a)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty union = %v, want %v", got, a)
	}
	want := RectLTRB(0, 5, 20, 20)
	if got := a.Union(RectLTRB(0, 5, 12, 12)); got != want {
		t.Errorf("union = %v, want %v", got, want)
	}
}

func TestRectSnapToPixelBoundaries(t *testing.T) {
	got := RectLTRB(1.2, 2.7, 3.1, 4.0).SnapToPixelBoundaries()
	if want := RectLTRB(1, 2, 4, 4); got != want {
		t.Errorf("snapped = %v, want %v", got, want)
	}
	got = RectLTRB(-1.5, -0.2, 0.5, 0.2).SnapToPixelBoundaries()
	if want := RectLTRB(-2, -1, 1, 1); got != want {
		t.Errorf("snapped negative = %v, want %v", got, want)
	}
}

func TestRectOutsetAndContains(t *testing.T) {
	r := RectLTRB(10, 10, 20, 20).Outset(2)
	if want := RectLTRB(8, 8, 22, 22); r != want {
		t.Fatalf("outset = %v, want %v", r, want)
	}
	if !r.Contains(RectLTRB(10, 10, 20, 20)) {
		t.Error("outset rect does not contain original")
	}
	if !r.ContainsPoint(8, 8) || r.ContainsPoint(22, 22) {
		t.Error("ContainsPoint edge semantics wrong: left/top in, right/bottom out")
	}
}
