// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/dlist"
)

// Kind identifies a recorded op. The deferral and replay engines index
// jump tables by Kind, so the set is closed.
type Kind uint8

const (
	KindBitmap Kind = iota
	KindRect
	KindSimpleRects
	KindLines
	KindPoints
	KindText
	KindNode
	KindShadow
	KindBeginLayer
	KindEndLayer
	KindLayer
	KindCopyToLayer
	KindCopyFromLayer

	// KindCount is the size for jump tables indexed by Kind.
	KindCount
)

var kindNames = [...]string{
	KindBitmap:        "Bitmap",
	KindRect:          "Rect",
	KindSimpleRects:   "SimpleRects",
	KindLines:         "Lines",
	KindPoints:        "Points",
	KindText:          "Text",
	KindNode:          "Node",
	KindShadow:        "Shadow",
	KindBeginLayer:    "BeginLayer",
	KindEndLayer:      "EndLayer",
	KindLayer:         "Layer",
	KindCopyToLayer:   "CopyToLayer",
	KindCopyFromLayer: "CopyFromLayer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Op is a recorded drawing command. Every op embeds OpBase; the
// concrete type carries kind-specific payload.
type Op interface {
	Kind() Kind
	Base() *OpBase
}

// OpBase is the state every op records: pre-transform bounds, the
// transform and clip current at record time, and the paint (nil for
// ops that don't paint, such as node references).
type OpBase struct {
	// UnmappedBounds are the op's bounds in local (recording) space,
	// before LocalMatrix is applied.
	UnmappedBounds dlist.Rect

	// LocalMatrix maps UnmappedBounds into the recording's space.
	LocalMatrix dlist.Matrix4

	// LocalClip is the render-target clip bounds observed at record
	// time, in the recording's space.
	LocalClip dlist.Rect

	Paint *dlist.Paint
}

// Base returns the embedded common state.
func (b *OpBase) Base() *OpBase { return b }

// BitmapOp draws a bitmap at the origin of its local space.
type BitmapOp struct {
	OpBase
	Bitmap *dlist.Bitmap
}

func (*BitmapOp) Kind() Kind { return KindBitmap }

// RectOp fills or strokes an axis-aligned rectangle.
type RectOp struct {
	OpBase
}

func (*RectOp) Kind() Kind { return KindRect }

// SimpleRectsOp fills a run of pre-tessellated rectangles (4 vertices
// per rect) with a single paint.
type SimpleRectsOp struct {
	OpBase
	Vertices []dlist.Vertex
}

func (*SimpleRectsOp) Kind() Kind { return KindSimpleRects }

// LinesOp strokes line segments. Points holds interleaved x,y pairs;
// every two pairs form one segment.
type LinesOp struct {
	OpBase
	Points []float32
}

func (*LinesOp) Kind() Kind { return KindLines }

// PointsOp strokes individual points, interleaved x,y.
type PointsOp struct {
	OpBase
	Points []float32
}

func (*PointsOp) Kind() Kind { return KindPoints }

// TextOp draws a positioned glyph run. Positions holds interleaved x,y
// pairs, one per glyph, already offset from (X, Y).
type TextOp struct {
	OpBase
	Glyphs    []font.GID
	Positions []float32
	X, Y      float32

	// TotalAdvance is the run's advance width, used for decorations.
	TotalAdvance fixed.Int26_6
}

func (*TextOp) Kind() Kind { return KindText }

// NodeOp references a child node drawn at this point of the recording.
// Node ops are consumed by deferral and never replayed directly.
type NodeOp struct {
	OpBase
	Node *Node
}

func (*NodeOp) Kind() Kind { return KindNode }

// ShadowOp is synthesized at defer time for an elevated caster inside a
// reordered chunk. It never appears in a recorded display list.
type ShadowOp struct {
	OpBase
	CasterOutline   dlist.Outline
	CasterTransform dlist.Matrix4
	CasterAlpha     float32
	CasterZ         float32
	Light           dlist.LightGeometry
}

func (*ShadowOp) Kind() Kind { return KindShadow }

// BeginLayerOp opens a clipped save-layer. UnmappedBounds are the
// requested layer bounds; LocalMatrix and LocalClip capture the state
// the finished layer must be drawn back with.
type BeginLayerOp struct {
	OpBase
}

func (*BeginLayerOp) Kind() Kind { return KindBeginLayer }

// EndLayerOp closes the innermost save-layer. Emitted automatically
// when the layer's snapshot pops.
type EndLayerOp struct {
	OpBase
}

func (*EndLayerOp) Kind() Kind { return KindEndLayer }

// LayerOp draws a finished offscreen buffer back into its parent. It is
// synthesized at defer time from a BeginLayerOp (temporary layers, with
// Destroy set) or from a node's persistent layer handle.
type LayerOp struct {
	OpBase

	// Buffer is doubly indirect: temporary layer buffers are allocated
	// during replay, after the LayerOp itself is built.
	Buffer **dlist.OffscreenBuffer

	Alpha       float32
	Mode        dlist.BlendMode
	ColorFilter *dlist.ColorFilter

	// Destroy marks a one-shot layer whose buffer returns to the pool
	// after drawing.
	Destroy bool
}

func (*LayerOp) Kind() Kind { return KindLayer }

// CopyToLayerOp snapshots the destination under an unclipped save-layer
// into a temporary buffer before the layer content draws over it.
type CopyToLayerOp struct {
	OpBase
	Buffer **dlist.OffscreenBuffer
}

func (*CopyToLayerOp) Kind() Kind { return KindCopyToLayer }

// CopyFromLayerOp draws a CopyToLayerOp's snapshot back, restoring the
// area outside the unclipped layer's blend region.
type CopyFromLayerOp struct {
	OpBase
	Buffer **dlist.OffscreenBuffer
}

func (*CopyFromLayerOp) Kind() Kind { return KindCopyFromLayer }
