// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

// PaintStyle selects how geometry is drawn.
type PaintStyle uint8

const (
	// PaintStyleFill fills the interior of the geometry.
	PaintStyleFill PaintStyle = iota
	// PaintStyleStroke strokes the boundary of the geometry.
	PaintStyleStroke
	// PaintStyleFillAndStroke both fills and strokes.
	PaintStyleFillAndStroke
)

var paintStyleNames = [...]string{
	PaintStyleFill:          "Fill",
	PaintStyleStroke:        "Stroke",
	PaintStyleFillAndStroke: "FillAndStroke",
}

func (s PaintStyle) String() string {
	if int(s) < len(paintStyleNames) {
		return paintStyleNames[s]
	}
	return "Unknown"
}

// Paint is an immutable snapshot of drawing attributes attached to a
// recorded op. Paints are deduplicated by value at record time, so two
// ops recorded with equal paints share the same *Paint; batching relies
// on this to compare paints by pointer first.
//
// All fields are comparable; Paint must stay free of slices and maps so
// that it can serve as a map key.
type Paint struct {
	// Color is packed as 0xAARRGGBB.
	Color uint32

	Style       PaintStyle
	StrokeWidth float32
	AntiAlias   bool

	// Dashed marks a stroke with a dash effect. Dashed geometry is
	// tessellated through an alpha mask and batches separately from
	// plain vertices.
	Dashed bool

	// Text attributes.
	TextSize      float32
	Underline     bool
	StrikeThrough bool

	// Shader, ColorFilter and TextShadow are compared by identity:
	// equal pointers mean equal effects.
	Shader      *Shader
	ColorFilter *ColorFilter
	TextShadow  *TextShadow
}

// Alpha returns the alpha channel of the paint color.
func (p *Paint) Alpha() uint8 {
	if p == nil {
		return 255
	}
	return uint8(p.Color >> 24)
}

// HasTextShadow reports whether the paint carries a text shadow.
// Shadowed text may never merge across overlapping bounds because the
// shadow extends past the glyph bounds.
func (p *Paint) HasTextShadow() bool {
	return p != nil && p.TextShadow != nil
}

// Shader is an opaque source of per-pixel color, compared by identity.
// A bitmap shader references the bitmap it samples.
type Shader struct {
	Bitmap *Bitmap
}

// ColorFilter transforms source color before blending, compared by
// identity. Mul and Add are packed 0xAARRGGBB factors.
type ColorFilter struct {
	Mul, Add uint32
}

// TextShadow describes a blurred drop shadow behind glyphs.
type TextShadow struct {
	Radius float32
	DX, DY float32
	Color  uint32
}
