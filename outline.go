// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

// OutlineType classifies a node outline.
type OutlineType uint8

const (
	// OutlineNone means no outline is set; the node casts no shadow and
	// does not clip projected content.
	OutlineNone OutlineType = iota
	// OutlineEmpty is an explicitly empty outline; content is rejected.
	OutlineEmpty
	// OutlineRoundRect is a rounded rectangle outline.
	OutlineRoundRect
)

// Outline describes the silhouette of a content node. It drives shadow
// casting for elevated nodes and clipping of content projected onto a
// receiver.
type Outline struct {
	Type       OutlineType
	ShouldClip bool
	Bounds     Rect
	Radius     float32
	Alpha      float32
}

// RoundRectOutline constructs a rounded-rectangle outline with full
// shadow opacity.
func RoundRectOutline(bounds Rect, radius float32) Outline {
	return Outline{Type: OutlineRoundRect, Bounds: bounds, Radius: radius, Alpha: 1}
}

// IsEmpty reports whether the outline rejects all content.
func (o *Outline) IsEmpty() bool { return o.Type == OutlineEmpty }

// WillClip reports whether the outline clips drawn content.
func (o *Outline) WillClip() bool {
	return o.ShouldClip && o.Type == OutlineRoundRect
}

// ClosesShape reports whether the outline is well-defined enough to
// cast a shadow.
func (o *Outline) ClosesShape() bool {
	return o.Type == OutlineRoundRect && o.Alpha > 0 && !o.Bounds.IsEmpty()
}
