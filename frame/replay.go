// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/record"
)

// Renderer receives baked ops during replay. Implementations own the
// actual drawing: a GPU backend, the CPU pixmap renderer, or a test
// recorder.
//
// Replay visits finished layers first (deepest last-deferred layer
// first, so every buffer exists before something draws it) and the
// frame target last. Each layer is bracketed by a Start call and
// EndLayer; the frame by StartFrame and EndFrame.
type Renderer interface {
	StartFrame(width, height int, repaintRect dlist.Rect)
	EndFrame(repaintRect dlist.Rect)

	// StartRepaintLayer re-enters a node's persistent layer to redraw
	// the damaged region.
	StartRepaintLayer(buffer *dlist.OffscreenBuffer, repaintRect dlist.Rect)

	// StartTemporaryLayer allocates the buffer for a save-layer. The
	// returned buffer is what the parent's layer-draw op references.
	StartTemporaryLayer(width, height int) *dlist.OffscreenBuffer
	EndLayer()

	RenderBitmapOp(op *record.BitmapOp, state *BakedOpState)
	RenderRectOp(op *record.RectOp, state *BakedOpState)
	RenderSimpleRectsOp(op *record.SimpleRectsOp, state *BakedOpState)
	RenderLinesOp(op *record.LinesOp, state *BakedOpState)
	RenderPointsOp(op *record.PointsOp, state *BakedOpState)
	RenderTextOp(op *record.TextOp, state *BakedOpState)
	RenderShadowOp(op *record.ShadowOp, state *BakedOpState)
	RenderLayerOp(op *record.LayerOp, state *BakedOpState)
	RenderCopyToLayerOp(op *record.CopyToLayerOp, state *BakedOpState)
	RenderCopyFromLayerOp(op *record.CopyFromLayerOp, state *BakedOpState)

	RenderMergedBitmapOps(list MergedOpList)
	RenderMergedTextOps(list MergedOpList)
}

// MergedOpList is a group of compatible baked ops replayed as one draw.
// Clip is the combined clip rectangle; ClipSideFlags says which of its
// sides actually clip.
type MergedOpList struct {
	States        []*BakedOpState
	ClipSideFlags ClipSide
	Clip          dlist.Rect
}

// unmergedReceivers is the replay jump table indexed by op kind. Kinds
// with a nil entry never reach replay: node references and layer
// brackets are consumed by deferral.
var unmergedReceivers = [record.KindCount]func(Renderer, *BakedOpState){
	record.KindBitmap: func(r Renderer, s *BakedOpState) {
		r.RenderBitmapOp(s.Op.(*record.BitmapOp), s)
	},
	record.KindRect: func(r Renderer, s *BakedOpState) {
		r.RenderRectOp(s.Op.(*record.RectOp), s)
	},
	record.KindSimpleRects: func(r Renderer, s *BakedOpState) {
		r.RenderSimpleRectsOp(s.Op.(*record.SimpleRectsOp), s)
	},
	record.KindLines: func(r Renderer, s *BakedOpState) {
		r.RenderLinesOp(s.Op.(*record.LinesOp), s)
	},
	record.KindPoints: func(r Renderer, s *BakedOpState) {
		r.RenderPointsOp(s.Op.(*record.PointsOp), s)
	},
	record.KindText: func(r Renderer, s *BakedOpState) {
		r.RenderTextOp(s.Op.(*record.TextOp), s)
	},
	record.KindShadow: func(r Renderer, s *BakedOpState) {
		r.RenderShadowOp(s.Op.(*record.ShadowOp), s)
	},
	record.KindLayer: func(r Renderer, s *BakedOpState) {
		r.RenderLayerOp(s.Op.(*record.LayerOp), s)
	},
	record.KindCopyToLayer: func(r Renderer, s *BakedOpState) {
		r.RenderCopyToLayerOp(s.Op.(*record.CopyToLayerOp), s)
	},
	record.KindCopyFromLayer: func(r Renderer, s *BakedOpState) {
		r.RenderCopyFromLayerOp(s.Op.(*record.CopyFromLayerOp), s)
	},
}

// mergedReceivers dispatches merged batches; only bitmap and text
// batches merge.
var mergedReceivers = [record.KindCount]func(Renderer, MergedOpList){
	record.KindBitmap: func(r Renderer, l MergedOpList) { r.RenderMergedBitmapOps(l) },
	record.KindText:   func(r Renderer, l MergedOpList) { r.RenderMergedTextOps(l) },
}

// ReplayBakedOps issues every deferred layer and finally the frame to
// the renderer.
//
// Layers replay in reverse deferral order: layers deferred later are
// drawn by layers deferred earlier, so their buffers must be filled
// first. Node layers always replay, even when empty, since the repaint
// clears damaged content; an empty temporary layer is skipped outright
// because nothing will draw it.
func (fb *FrameBuilder) ReplayBakedOps(r Renderer) {
	dlist.Logger().Debug("replaying frame",
		"layers", len(fb.layerBuilders)-1, "batches", len(fb.layerBuilders[0].batches))
	for i := len(fb.layerBuilders) - 1; i >= 1; i-- {
		lb := fb.layerBuilders[i]
		if lb.node != nil {
			r.StartRepaintLayer(lb.node.Layer(), lb.repaintRect)
			lb.replay(r)
			r.EndLayer()
		} else if !lb.empty() {
			lb.offscreenBuffer = r.StartTemporaryLayer(lb.width, lb.height)
			lb.replay(r)
			r.EndLayer()
		}
	}

	fbo0 := fb.layerBuilders[0]
	r.StartFrame(fbo0.width, fbo0.height, fbo0.repaintRect)
	fbo0.replay(r)
	r.EndFrame(fbo0.repaintRect)
}
