// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame turns recorded display lists into batched, render-ready
// op streams.
//
// A FrameBuilder walks the content tree once per frame: it resolves
// every op's final transform, clip and alpha into a BakedOpState, and
// feeds the baked ops into per-layer batch lists that reorder and merge
// compatible draws. The finished frame replays against a Renderer via
// ReplayBakedOps.
package frame

import (
	"cmp"
	"slices"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
	"github.com/gogpu/dlist/canvas"
	"github.com/gogpu/dlist/clip"
	"github.com/gogpu/dlist/record"
)

// projectedChild is a node op rerouted onto a projection receiver,
// together with the transform from the receiver's surface to the op's
// parent space. The op's own clip and matrix apply on top during
// deferral, exactly as for an in-order draw.
type projectedChild struct {
	op        *record.NodeOp
	transform dlist.Matrix4
}

// FrameBuilder defers one frame of content. It is single-use: build,
// replay, then reset the arena and discard.
type FrameBuilder struct {
	alloc *arena.Arena
	state *canvas.State
	light dlist.LightGeometry

	// layerBuilders holds every render target deferred this frame, in
	// deferral order; index 0 is the frame itself. layerStack indexes
	// the currently open targets.
	layerBuilders []*layerBuilder
	layerStack    []int

	// projected collects, per receiver node, the child ops that project
	// onto it; skip marks node ops drawn out of order (projected or Z
	// reordered) so the in-order walk passes them over.
	projected map[*record.Node][]projectedChild
	skip      map[*record.NodeOp]bool
}

// NewFrameBuilder defers the damaged node layers in layers (in reverse,
// so replay repaints them in request order) and then the top-level
// nodes, clipped to clipRect within a viewport of the given size.
//
// alloc backs every frame-scoped allocation; the caller resets it after
// replay. layers may be nil when no node layer needs repainting.
func NewFrameBuilder(alloc *arena.Arena, layers *LayerUpdateQueue, clipRect dlist.Rect,
	viewportWidth, viewportHeight int, nodes []*record.Node,
	light dlist.LightGeometry) *FrameBuilder {

	fb := &FrameBuilder{
		alloc:     alloc,
		light:     light,
		projected: make(map[*record.Node][]projectedChild),
		skip:      make(map[*record.NodeOp]bool),
	}
	fb.state = canvas.NewState(fb)
	fb.state.InitializeSaveStack(viewportWidth, viewportHeight,
		clipRect.Left, clipRect.Top, clipRect.Right, clipRect.Bottom)

	fb.layerBuilders = append(fb.layerBuilders,
		newLayerBuilder(alloc, viewportWidth, viewportHeight, clipRect, nil, nil))
	fb.layerStack = append(fb.layerStack, 0)

	if layers != nil {
		// Layers deferred later replay earlier, so walking the queue
		// backward repaints the layers in the order they were enqueued.
		entries := layers.Entries()
		for i := len(entries) - 1; i >= 0; i-- {
			node := entries[i].Node
			if node.Layer() == nil {
				// Layer dropped since the damage was queued; nothing to
				// repaint into.
				continue
			}
			fb.computeOrdering(node)
			fb.saveForLayer(node.Width(), node.Height(), 0, 0, entries[i].Damage, nil, node)
			if node.DisplayList() != nil {
				fb.deferNodeOps(node)
			}
			fb.restoreForLayer()
		}
	}

	for _, node := range nodes {
		if node.NothingToDraw() {
			continue
		}
		fb.computeOrdering(node)
		count := fb.state.Save(canvas.SaveMatrixClip)
		fb.deferNodePropsAndOps(node)
		fb.state.RestoreToCount(count)
	}
	return fb
}

// OnViewportInitialized implements canvas.Client.
func (fb *FrameBuilder) OnViewportInitialized() {}

// OnSnapshotRestored implements canvas.Client.
func (fb *FrameBuilder) OnSnapshotRestored(removed, restored *canvas.Snapshot) {}

func (fb *FrameBuilder) currentLayer() *layerBuilder {
	return fb.layerBuilders[fb.layerStack[len(fb.layerStack)-1]]
}

// saveForLayer opens a fresh reorder target: a new layer builder plus a
// snapshot whose viewport, transform and clip are the layer's own.
func (fb *FrameBuilder) saveForLayer(layerWidth, layerHeight int,
	contentTranslateX, contentTranslateY float32, repaintRect dlist.Rect,
	beginLayerOp *record.BeginLayerOp, node *record.Node) {

	fb.state.Save(canvas.SaveMatrixClip)
	snap := fb.state.WritableSnapshot()
	snap.InitializeViewport(layerWidth, layerHeight)
	snap.RoundRectClip = nil
	snap.Transform = dlist.Translation(contentTranslateX, contentTranslateY)
	snap.SetClip(repaintRect.Left, repaintRect.Top, repaintRect.Right, repaintRect.Bottom)

	fb.layerBuilders = append(fb.layerBuilders,
		newLayerBuilder(fb.alloc, layerWidth, layerHeight, repaintRect, beginLayerOp, node))
	fb.layerStack = append(fb.layerStack, len(fb.layerBuilders)-1)
}

func (fb *FrameBuilder) restoreForLayer() {
	fb.state.Restore()
	fb.layerStack = fb.layerStack[:len(fb.layerStack)-1]
}

// computeOrdering precomputes projection routing for one content tree:
// which node ops leave the in-order walk and which receiver they replay
// onto.
func (fb *FrameBuilder) computeOrdering(node *record.Node) {
	delete(fb.projected, node)
	dl := node.DisplayList()
	if dl == nil {
		return
	}
	for _, childOp := range dl.Children() {
		fb.computeOrderingImpl(childOp, node, dlist.Identity())
	}
}

// computeOrderingImpl routes op into collector if it projects backward,
// then decides, per child, whether the child projects onto this node
// (it is a receiver) or onto the collector handed down from above.
// surfaceTransform accumulates the transform from the collector's
// surface down to op.
func (fb *FrameBuilder) computeOrderingImpl(op *record.NodeOp, collector *record.Node,
	surfaceTransform dlist.Matrix4) {

	node := op.Node
	delete(fb.projected, node)
	dl := node.DisplayList()
	if dl == nil || dl.IsEmpty() {
		return
	}

	localTransform := surfaceTransform.Multiply(op.Base().LocalMatrix)
	if node.Properties().ProjectBackwards {
		fb.skip[op] = true
		fb.projected[collector] = append(fb.projected[collector],
			projectedChild{op: op, transform: surfaceTransform})
	} else {
		delete(fb.skip, op)
	}

	children := dl.Children()
	if len(children) == 0 {
		return
	}
	isReceiver := dl.ProjectionReceiveIndex() >= 0
	applied := false
	appliedTransform := localTransform
	for _, childOp := range children {
		child := childOp.Node
		if isReceiver && !child.Properties().ProjectBackwards {
			// Descendants of a receiver project onto it. A direct child
			// that itself projects backward skips its parent and keeps
			// the collector from above, since it must not land where it
			// already draws.
			fb.computeOrderingImpl(childOp, node, dlist.Identity())
			continue
		}
		if !applied {
			if tm := node.Properties().TransformMatrix; tm != nil {
				appliedTransform = appliedTransform.Multiply(*tm)
			}
			applied = true
		}
		fb.computeOrderingImpl(childOp, collector, appliedTransform)
	}
}

// setClippingOutline clips to a node outline's bounds; a rounded
// outline additionally installs corner-clip state that every op baked
// under it references.
func (fb *FrameBuilder) setClippingOutline(o dlist.Outline) {
	b := o.Bounds
	fb.state.ClipRect(b.Left, b.Top, b.Right, b.Bottom, clip.OpIntersect)
	if o.Radius > 0 {
		snap := fb.state.WritableSnapshot()
		rr := arena.Alloc[canvas.RoundRectClip](fb.alloc)
		*rr = canvas.RoundRectClip{Matrix: snap.Transform, Rect: b, Radius: o.Radius}
		snap.RoundRectClip = rr
	}
}

// deferNodePropsAndOps applies a node's properties to the canvas state
// and defers its content, either directly or as a draw of its
// persistent layer. The caller brackets it in a save/restore.
func (fb *FrameBuilder) deferNodePropsAndOps(node *record.Node) {
	props := node.Properties()
	if props.Alpha <= 0 || (props.Outline.WillClip() && props.Outline.IsEmpty()) {
		return
	}

	if props.TransformMatrix != nil {
		fb.state.ConcatMatrix(*props.TransformMatrix)
	}
	width := float32(node.Width())
	height := float32(node.Height())

	if props.Alpha < 1 {
		fb.state.ScaleAlpha(props.Alpha)
	}
	if props.ClipToBounds {
		fb.state.ClipRect(0, 0, width, height, clip.OpIntersect)
	}
	if props.Outline.WillClip() {
		fb.setClippingOutline(props.Outline)
	}

	quickRejected := fb.state.CurrentSnapshot().ClipRect().IsEmpty() ||
		(props.ClipToBounds && fb.state.QuickRejectConservative(0, 0, width, height))
	if quickRejected {
		return
	}

	if node.Layer() != nil {
		// The node's content lives in its persistent layer (already
		// deferred as its own target); draw the buffer here.
		op := arena.Alloc[record.LayerOp](fb.alloc)
		op.UnmappedBounds = dlist.RectWH(width, height)
		op.LocalMatrix = dlist.Identity()
		op.Buffer = node.LayerHandle()
		op.Alpha = props.LayerAlpha
		op.Mode = dlist.BlendSrcOver

		if baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op); baked != nil {
			fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchBitmap)
		}
		return
	}
	fb.deferNodeOps(node)
}

type zNodePair struct {
	z  float32
	op *record.NodeOp
}

// buildZSortedChildList pulls the nonzero-elevation children of a
// reorderable chunk out of in-order drawing and returns them sorted by
// elevation, stable so equal elevations keep recording order.
func (fb *FrameBuilder) buildZSortedChildList(dl *record.DisplayList, chunk record.Chunk) []zNodePair {
	if chunk.BeginChildIndex == chunk.EndChildIndex {
		return nil
	}
	var pairs []zNodePair
	children := dl.Children()
	for i := chunk.BeginChildIndex; i < chunk.EndChildIndex; i++ {
		childOp := children[i]
		childZ := childOp.Node.Properties().Elevation
		if childZ != 0 && chunk.ReorderChildren {
			pairs = append(pairs, zNodePair{z: childZ, op: childOp})
			fb.skip[childOp] = true
		} else if !childOp.Node.Properties().ProjectBackwards {
			delete(fb.skip, childOp)
		}
	}
	slices.SortStableFunc(pairs, func(a, b zNodePair) int {
		return cmp.Compare(a.z, b.z)
	})
	return pairs
}

type childrenSelectMode uint8

const (
	selectNegative childrenSelectMode = iota
	selectPositive
)

// defer3dChildren draws one half of a chunk's elevation-sorted
// children: those below the plane before the chunk's ops, those above
// after. Every positive-elevation child gets its shadow deferred
// immediately before its own content.
func (fb *FrameBuilder) defer3dChildren(mode childrenSelectMode, pairs []zNodePair) {
	size := len(pairs)
	if size == 0 ||
		(mode == selectNegative && pairs[0].z > 0) ||
		(mode == selectPositive && pairs[size-1].z < 0) {
		return
	}

	nonNegativeIndex := 0
	for nonNegativeIndex < size && pairs[nonNegativeIndex].z < 0 {
		nonNegativeIndex++
	}

	if mode == selectNegative {
		for i := 0; i < nonNegativeIndex; i++ {
			fb.deferNodeOpImpl(pairs[i].op)
		}
		return
	}
	for i := nonNegativeIndex; i < size; i++ {
		fb.deferShadow(pairs[i].op)
		fb.deferNodeOpImpl(pairs[i].op)
	}
}

// deferShadow synthesizes and defers the shadow cast by an elevated
// node, if its outline closes and anything of the clip remains.
func (fb *FrameBuilder) deferShadow(casterOp *record.NodeOp) {
	node := casterOp.Node
	props := node.Properties()
	if props.Alpha <= 0 || !props.Outline.ClosesShape() {
		return
	}
	if fb.state.GetRenderTargetClipBounds().IsEmpty() {
		return
	}

	casterTransform := casterOp.Base().LocalMatrix
	if props.TransformMatrix != nil {
		casterTransform = casterTransform.Multiply(*props.TransformMatrix)
	}

	op := arena.Alloc[record.ShadowOp](fb.alloc)
	op.LocalMatrix = dlist.Identity()
	op.CasterOutline = props.Outline
	op.CasterTransform = casterTransform
	op.CasterAlpha = props.Alpha * props.Outline.Alpha
	op.CasterZ = props.Elevation
	op.Light = fb.light

	if baked := tryBakeShadowOpState(fb.alloc, fb.state.WritableSnapshot(), op); baked != nil {
		fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchShadow)
	}
}

// deferNodeOps walks a display list chunk by chunk: negative-elevation
// children, the chunk's recorded ops (splicing projected content in
// after the receiver op), then positive-elevation children.
func (fb *FrameBuilder) deferNodeOps(node *record.Node) {
	dl := node.DisplayList()
	ops := dl.Ops()
	receiveIndex := dl.ProjectionReceiveIndex()
	for _, chunk := range dl.Chunks() {
		pairs := fb.buildZSortedChildList(dl, chunk)

		fb.defer3dChildren(selectNegative, pairs)
		for opIndex := chunk.BeginOpIndex; opIndex < chunk.EndOpIndex; opIndex++ {
			fb.deferOp(ops[opIndex])

			if opIndex == receiveIndex && len(fb.projected[node]) > 0 {
				fb.deferProjectedChildren(node)
			}
		}
		fb.defer3dChildren(selectPositive, pairs)
	}
}

// deferNodeOpImpl enters a child node: apply the recorded clip (in the
// parent's space, so before the matrix concat), the recorded matrix,
// then the child's own properties and ops.
func (fb *FrameBuilder) deferNodeOpImpl(op *record.NodeOp) {
	if op.Node.NothingToDraw() {
		return
	}
	count := fb.state.Save(canvas.SaveMatrixClip)

	base := op.Base()
	if !base.LocalClip.IsEmpty() {
		snap := fb.state.WritableSnapshot()
		snap.Clip().ClipRectWithTransform(base.LocalClip, snap.Transform, clip.OpIntersect)
	}
	fb.state.ConcatMatrix(base.LocalMatrix)

	fb.deferNodePropsAndOps(op.Node)

	fb.state.RestoreToCount(count)
}

// deferProjectedChildren replays the ops projected onto a receiver,
// clipped to the receiver's outline; a rounded outline becomes a
// projection mask on every projected op.
func (fb *FrameBuilder) deferProjectedChildren(node *record.Node) {
	children := fb.projected[node]
	count := fb.state.Save(canvas.SaveMatrixClip)

	outline := node.Properties().Outline
	if outline.Type == dlist.OutlineRoundRect && !outline.Bounds.IsEmpty() {
		b := outline.Bounds
		fb.state.ClipRect(b.Left, b.Top, b.Right, b.Bottom, clip.OpIntersect)
		if outline.Radius > 0 {
			snap := fb.state.WritableSnapshot()
			mask := arena.Alloc[canvas.ProjectionMask](fb.alloc)
			*mask = canvas.ProjectionMask{
				Bounds:    b,
				Radius:    outline.Radius,
				Transform: snap.Transform,
			}
			snap.ProjectionMask = mask
		}
	}

	for _, pc := range children {
		restoreTo := fb.state.Save(canvas.SaveMatrix)
		fb.state.ConcatMatrix(pc.transform)
		fb.deferNodeOpImpl(pc.op)
		fb.state.RestoreToCount(restoreTo)
	}

	fb.state.RestoreToCount(count)
}

// deferLUT dispatches recorded ops by kind. Kinds with a nil entry
// (Shadow, Layer) are synthesized during deferral and must never appear
// in a recorded list.
//
// Populated in init: the entries call methods that themselves dispatch
// through the table, which a composite literal initializer would turn
// into an initialization cycle.
var deferLUT [record.KindCount]func(*FrameBuilder, record.Op)

func init() {
	deferLUT = [record.KindCount]func(*FrameBuilder, record.Op){
		record.KindBitmap: func(fb *FrameBuilder, op record.Op) {
			fb.deferBitmapOp(op.(*record.BitmapOp))
		},
		record.KindRect: func(fb *FrameBuilder, op record.Op) {
			fb.deferRectOp(op.(*record.RectOp))
		},
		record.KindSimpleRects: func(fb *FrameBuilder, op record.Op) {
			fb.deferSimpleRectsOp(op.(*record.SimpleRectsOp))
		},
		record.KindLines: func(fb *FrameBuilder, op record.Op) {
			fb.deferLinesOp(op.(*record.LinesOp))
		},
		record.KindPoints: func(fb *FrameBuilder, op record.Op) {
			fb.deferPointsOp(op.(*record.PointsOp))
		},
		record.KindText: func(fb *FrameBuilder, op record.Op) {
			fb.deferTextOp(op.(*record.TextOp))
		},
		record.KindNode: func(fb *FrameBuilder, op record.Op) {
			fb.deferNodeOp(op.(*record.NodeOp))
		},
		record.KindBeginLayer: func(fb *FrameBuilder, op record.Op) {
			fb.deferBeginLayerOp(op.(*record.BeginLayerOp))
		},
		record.KindEndLayer: func(fb *FrameBuilder, op record.Op) {
			fb.deferEndLayerOp(op.(*record.EndLayerOp))
		},
		record.KindCopyToLayer: func(fb *FrameBuilder, op record.Op) {
			fb.deferCopyToLayerOp(op.(*record.CopyToLayerOp))
		},
		record.KindCopyFromLayer: func(fb *FrameBuilder, op record.Op) {
			fb.deferCopyFromLayerOp(op.(*record.CopyFromLayerOp))
		},
	}
}

func (fb *FrameBuilder) deferOp(op record.Op) {
	fn := deferLUT[op.Kind()]
	if fn == nil {
		panic("dlist: cannot defer recorded " + op.Kind().String() + " op")
	}
	fn(fb, op)
}

// tessBatchID picks the tessellated-geometry batch for a paint: dashed
// strokes rasterize through an alpha mask, anti-aliased geometry needs
// alpha ramps, everything else is plain vertices.
func tessBatchID(p *dlist.Paint) batchID {
	if p != nil && p.Dashed {
		return batchAlphaMaskTexture
	}
	if p != nil && p.AntiAlias {
		return batchAlphaVertices
	}
	return batchVertices
}

// textColor returns the packed color a text run draws with; runs
// recorded without a paint draw opaque black.
func textColor(p *dlist.Paint) uint32 {
	if p == nil {
		return 0xff000000
	}
	return p.Color
}

func textBatchID(p *dlist.Paint) batchID {
	if textColor(p) == 0xff000000 {
		return batchText
	}
	return batchColorText
}

func (fb *FrameBuilder) deferStrokeableOp(op record.Op, id batchID, sb strokeBehavior) {
	baked := tryBakeStrokeableOpState(fb.alloc, fb.state.WritableSnapshot(), op, sb)
	if baked == nil {
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, id)
}

func (fb *FrameBuilder) deferBitmapOp(op *record.BitmapOp) {
	baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op)
	if baked == nil {
		return
	}
	// Alpha-8 bitmaps take their color from the paint, which the merge
	// id does not capture; they stay unmergeable.
	if baked.State.Transform.IsSimple() && !op.Bitmap.IsAlpha8() {
		fb.currentLayer().deferMergeableOp(fb.alloc, baked, batchBitmap,
			mergeID(op.Bitmap.GenerationID()))
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchBitmap)
}

func (fb *FrameBuilder) deferRectOp(op *record.RectOp) {
	fb.deferStrokeableOp(op, tessBatchID(op.Paint), strokeStyleDefined)
}

func (fb *FrameBuilder) deferSimpleRectsOp(op *record.SimpleRectsOp) {
	baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op)
	if baked == nil {
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchVertices)
}

func (fb *FrameBuilder) deferLinesOp(op *record.LinesOp) {
	id := batchVertices
	if op.Paint != nil && op.Paint.AntiAlias {
		id = batchAlphaVertices
	}
	fb.deferStrokeableOp(op, id, strokeForced)
}

func (fb *FrameBuilder) deferPointsOp(op *record.PointsOp) {
	id := batchVertices
	if op.Paint != nil && op.Paint.AntiAlias {
		id = batchAlphaVertices
	}
	fb.deferStrokeableOp(op, id, strokeForced)
}

func (fb *FrameBuilder) deferTextOp(op *record.TextOp) {
	baked := tryBakeStrokeableOpState(fb.alloc, fb.state.WritableSnapshot(), op,
		strokeStyleDefined)
	if baked == nil {
		return
	}
	id := textBatchID(op.Paint)
	if baked.State.Transform.IsPureTranslate() {
		fb.currentLayer().deferMergeableOp(fb.alloc, baked, id, mergeID(textColor(op.Paint)))
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, id)
}

func (fb *FrameBuilder) deferNodeOp(op *record.NodeOp) {
	if !fb.skip[op] {
		fb.deferNodeOpImpl(op)
	}
}

// deferBeginLayerOp opens a temporary layer. The layer keeps its
// requested size so the finished buffer composites at the requested
// bounds origin; content recording is clipped to the portion visible
// under the parent's clip, so occluded content defers nothing.
func (fb *FrameBuilder) deferBeginLayerOp(op *record.BeginLayerOp) {
	prev := fb.state.CurrentSnapshot()
	layerBounds := dlist.RectWH(op.UnmappedBounds.Width(), op.UnmappedBounds.Height())

	// parent content transform x canvas transform x bounds offset
	content := prev.Transform.Multiply(op.LocalMatrix).
		Translate(op.UnmappedBounds.Left, op.UnmappedBounds.Top)

	visible := layerBounds
	if inv, ok := content.Invert(); ok {
		visible = content.MapRect(layerBounds)
		visible = visible.Intersect(prev.ClipRect())
		visible = inv.MapRect(visible)
		visible = visible.Intersect(layerBounds)
		visible = visible.SnapToPixelBoundaries()
	}

	fb.saveForLayer(int(layerBounds.Width()), int(layerBounds.Height()),
		0, 0, visible, op, nil)
}

// deferEndLayerOp closes the innermost temporary layer and defers a
// draw of its buffer into the parent, carrying the state captured by
// the matching begin op. A layer whose draw is rejected is cleared so
// replay never renders it.
func (fb *FrameBuilder) deferEndLayerOp(*record.EndLayerOp) {
	finished := fb.layerStack[len(fb.layerStack)-1]
	begin := fb.layerBuilders[finished].beginLayerOp

	fb.restoreForLayer()

	op := arena.Alloc[record.LayerOp](fb.alloc)
	op.OpBase = begin.OpBase
	op.Buffer = &fb.layerBuilders[finished].offscreenBuffer
	op.Alpha = float32(begin.Paint.Alpha()) / 255
	op.Mode = dlist.BlendSrcOver
	if begin.Paint != nil {
		op.ColorFilter = begin.Paint.ColorFilter
	}
	op.Destroy = true

	if baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op); baked != nil {
		fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchBitmap)
		return
	}
	fb.layerBuilders[finished].clear()
}

func (fb *FrameBuilder) deferCopyToLayerOp(op *record.CopyToLayerOp) {
	baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op)
	if baked == nil {
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchCopyToLayer)
}

func (fb *FrameBuilder) deferCopyFromLayerOp(op *record.CopyFromLayerOp) {
	baked := tryBakeOpState(fb.alloc, fb.state.WritableSnapshot(), op)
	if baked == nil {
		return
	}
	fb.currentLayer().deferUnmergeableOp(fb.alloc, baked, batchCopyFromLayer)
}
