// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

import (
	"fmt"
	"math"
)

// Matrix4 is a row-major 4x4 transform. Display-list recording and
// deferral only ever produce 2D affine content, but the full 4x4 layout
// is kept so that 3D camera transforms composed by callers survive a
// round trip through the pipeline.
type Matrix4 [16]float32

// Named indices into the row-major layout.
const (
	mScaleX     = 0
	mSkewX      = 1
	mTranslateX = 3
	mSkewY      = 4
	mScaleY     = 5
	mTranslateY = 7
)

// Identity returns the identity transform.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that shifts by (dx, dy).
func Translation(dx, dy float32) Matrix4 {
	m := Identity()
	m[mTranslateX] = dx
	m[mTranslateY] = dy
	return m
}

// Scaling returns a transform that scales by (sx, sy) about the origin.
func Scaling(sx, sy float32) Matrix4 {
	m := Identity()
	m[mScaleX] = sx
	m[mScaleY] = sy
	return m
}

// Rotation returns a transform that rotates by the given angle in
// radians about the origin.
func Rotation(radians float32) Matrix4 {
	sin := float32(math.Sin(float64(radians)))
	cos := float32(math.Cos(float64(radians)))
	m := Identity()
	m[mScaleX] = cos
	m[mSkewX] = -sin
	m[mSkewY] = sin
	m[mScaleY] = cos
	return m
}

// Skewing returns a shear transform with factors (kx, ky).
func Skewing(kx, ky float32) Matrix4 {
	m := Identity()
	m[mSkewX] = kx
	m[mSkewY] = ky
	return m
}

// Multiply returns m * rhs, so that the combined transform applies rhs
// first and m second.
func (m Matrix4) Multiply(rhs Matrix4) Matrix4 {
	var out Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * rhs[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Translate returns m with a translation applied in local space.
func (m Matrix4) Translate(dx, dy float32) Matrix4 {
	return m.Multiply(Translation(dx, dy))
}

// Scale returns m with a scale applied in local space.
func (m Matrix4) Scale(sx, sy float32) Matrix4 {
	return m.Multiply(Scaling(sx, sy))
}

// Rotate returns m with a rotation (radians) applied in local space.
func (m Matrix4) Rotate(radians float32) Matrix4 {
	return m.Multiply(Rotation(radians))
}

// Skew returns m with a shear applied in local space.
func (m Matrix4) Skew(kx, ky float32) Matrix4 {
	return m.Multiply(Skewing(kx, ky))
}

// MapPoint transforms the point (x, y) through the 2D affine part of m.
func (m Matrix4) MapPoint(x, y float32) (float32, float32) {
	return m[mScaleX]*x + m[mSkewX]*y + m[mTranslateX],
		m[mSkewY]*x + m[mScaleY]*y + m[mTranslateY]
}

// MapRect returns the axis-aligned bounds of r transformed through the
// 2D affine part of m. Perspective components are ignored; callers that
// need exact perspective bounds must map corners themselves.
func (m Matrix4) MapRect(r Rect) Rect {
	if m.IsIdentity() {
		return r
	}
	if m.IsPureTranslate() {
		return r.Translate(m[mTranslateX], m[mTranslateY])
	}
	x0, y0 := m.MapPoint(r.Left, r.Top)
	x1, y1 := m.MapPoint(r.Right, r.Top)
	x2, y2 := m.MapPoint(r.Left, r.Bottom)
	x3, y3 := m.MapPoint(r.Right, r.Bottom)
	return Rect{
		Left:   min(min(x0, x1), min(x2, x3)),
		Top:    min(min(y0, y1), min(y2, y3)),
		Right:  max(max(x0, x1), max(x2, x3)),
		Bottom: max(max(y0, y1), max(y2, y3)),
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix4) IsIdentity() bool {
	return m == Identity()
}

// IsPureTranslate reports whether m only translates.
func (m Matrix4) IsPureTranslate() bool {
	return m == Translation(m[mTranslateX], m[mTranslateY])
}

// IsSimple reports whether m is a translation combined with a positive
// scale, with no rotation or shear. Simple transforms map rectangles to
// rectangles, which keeps clip intersection in rectangle mode.
func (m Matrix4) IsSimple() bool {
	if m[mSkewX] != 0 || m[mSkewY] != 0 {
		return false
	}
	if m[mScaleX] <= 0 || m[mScaleY] <= 0 {
		return false
	}
	s := Identity()
	s[mScaleX] = m[mScaleX]
	s[mScaleY] = m[mScaleY]
	s[mTranslateX] = m[mTranslateX]
	s[mTranslateY] = m[mTranslateY]
	return m == s
}

// Invert returns the inverse of the 2D affine part of m. The second
// return value is false when the transform is degenerate (zero
// determinant), in which case the identity is returned.
func (m Matrix4) Invert() (Matrix4, bool) {
	a, b, c := m[mScaleX], m[mSkewX], m[mTranslateX]
	d, e, f := m[mSkewY], m[mScaleY], m[mTranslateY]
	det := a*e - b*d
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det
	out := Identity()
	out[mScaleX] = e * inv
	out[mSkewX] = -b * inv
	out[mSkewY] = -d * inv
	out[mScaleY] = a * inv
	out[mTranslateX] = (b*f - e*c) * inv
	out[mTranslateY] = (d*c - a*f) * inv
	return out, true
}

func (m Matrix4) String() string {
	return fmt.Sprintf("Matrix4[%g %g %g | %g %g %g]",
		m[mScaleX], m[mSkewX], m[mTranslateX],
		m[mSkewY], m[mScaleY], m[mTranslateY])
}
