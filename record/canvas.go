// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package record captures drawing commands into immutable display
// lists. A Canvas resolves transform and clip state while recording, so
// each op carries everything deferral needs without replaying state
// ops.
package record

import (
	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/canvas"
	"github.com/gogpu/dlist/clip"
)

// Decoration geometry relative to text size. Same values used by Skia.
const (
	stdUnderlineOffset     = 1.0 / 9.0
	stdUnderlineThickness  = 1.0 / 18.0
	stdStrikeThroughOffset = -6.0 / 21.0
)

type barrierType uint8

const (
	barrierNone barrierType = iota
	barrierInOrder
	barrierOutOfOrder
)

// unclippedLayer tracks an open unclipped save-layer until its snapshot
// pops and the destination snapshot can be drawn back.
type unclippedLayer struct {
	snapshot *canvas.Snapshot
	handle   **dlist.OffscreenBuffer
	base     OpBase
}

// Canvas records drawing commands into a DisplayList.
//
// A Canvas alternates between recording (after NewCanvas or Reset) and
// idle (after FinishRecording). Drawing while idle, or resetting while
// recording, is a programmer error and panics. A Canvas is not safe for
// concurrent use.
type Canvas struct {
	state *canvas.State
	dl    *DisplayList

	barrier barrierType

	// paints dedups value-equal paints so ops recorded with the same
	// attributes share one *Paint.
	paints map[dlist.Paint]*dlist.Paint

	unclipped []unclippedLayer
}

// NewCanvas creates a canvas recording into a fresh display list sized
// to the given viewport.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{paints: make(map[dlist.Paint]*dlist.Paint)}
	c.state = canvas.NewState(c)
	c.Reset(width, height)
	return c
}

// Reset begins a new recording. It panics if the previous recording was
// never finished.
func (c *Canvas) Reset(width, height int) {
	if c.dl != nil {
		panic("dlist: Reset called a second time during a recording")
	}
	c.dl = newDisplayList()
	c.state.InitializeSaveStack(width, height, 0, 0, float32(width), float32(height))
	c.barrier = barrierInOrder
	c.unclipped = c.unclipped[:0]
}

// FinishRecording ends the recording and returns the immutable display
// list. It panics when no recording is active.
func (c *Canvas) FinishRecording() *DisplayList {
	if c.dl == nil {
		panic("dlist: FinishRecording without an active recording")
	}
	clear(c.paints)
	dl := c.dl
	c.dl = nil
	return dl
}

func (c *Canvas) checkRecording() {
	if c.dl == nil {
		panic("dlist: draw after FinishRecording")
	}
}

// OnViewportInitialized implements canvas.Client.
func (c *Canvas) OnViewportInitialized() {}

// OnSnapshotRestored implements canvas.Client: closing a layer snapshot
// records the op that ends it.
func (c *Canvas) OnSnapshotRestored(removed, restored *canvas.Snapshot) {
	if removed.Flags&canvas.FlagIsFboLayer != 0 {
		op := &EndLayerOp{}
		op.LocalMatrix = dlist.Identity()
		c.addOp(op)
		return
	}
	if n := len(c.unclipped); n > 0 && c.unclipped[n-1].snapshot == removed {
		entry := c.unclipped[n-1]
		c.unclipped = c.unclipped[:n-1]
		op := &CopyFromLayerOp{OpBase: entry.base, Buffer: entry.handle}
		c.addOp(op)
	}
}

// Save pushes the state stack and returns the depth for
// RestoreToCount.
func (c *Canvas) Save(flags canvas.SaveFlags) int {
	return c.state.Save(flags)
}

// Restore pops one state level.
func (c *Canvas) Restore() { c.state.Restore() }

// RestoreToCount pops to the depth returned by a matching Save.
func (c *Canvas) RestoreToCount(count int) { c.state.RestoreToCount(count) }

// SaveCount returns the current state depth.
func (c *Canvas) SaveCount() int { return c.state.SaveCount() }

// SaveLayer opens an offscreen layer clipped to bounds. Content until
// the matching Restore renders into a temporary buffer that is drawn
// back with paint. Layers whose clipped bounds are empty record
// nothing: the snapshot's clip empties so every op under it rejects.
func (c *Canvas) SaveLayer(left, top, right, bottom float32, paint *dlist.Paint) int {
	c.checkRecording()

	previous := c.state.CurrentSnapshot()
	prevTransform := previous.Transform
	prevClip := previous.ClipRect()

	untransformedBounds := dlist.RectLTRB(left, top, right, bottom)

	// Determine the visible portion relative to the previous viewport.
	visibleBounds := prevTransform.MapRect(untransformedBounds)
	visibleBounds = visibleBounds.Intersect(prevClip)
	visibleBounds = visibleBounds.SnapToPixelBoundaries()
	previousViewport := dlist.RectWH(
		float32(previous.ViewportWidth()), float32(previous.ViewportHeight()))
	visibleBounds = visibleBounds.Intersect(previousViewport)

	// Map back to layer space and clamp to the requested bounds.
	layerBounds := visibleBounds
	if inverse, ok := prevTransform.Invert(); ok {
		layerBounds = inverse.MapRect(visibleBounds)
	}
	layerBounds = layerBounds.Intersect(untransformedBounds)

	// Layers isolate matrix and clip regardless of caller flags.
	saveValue := c.state.Save(canvas.SaveMatrixClip)
	snapshot := c.state.WritableSnapshot()

	if layerBounds.IsEmpty() || untransformedBounds.IsEmpty() {
		// Rejected layer: empty the clip so content under it records
		// nothing that survives baking.
		snapshot.SetClip(0, 0, 0, 0)
		return saveValue
	}

	snapshot.Flags |= canvas.FlagIsLayer | canvas.FlagIsFboLayer
	snapshot.InitializeViewport(
		int(untransformedBounds.Width()), int(untransformedBounds.Height()))
	snapshot.Transform = dlist.Translation(-untransformedBounds.Left, -untransformedBounds.Top)

	layerClip := layerBounds.Translate(-untransformedBounds.Left, -untransformedBounds.Top)
	snapshot.SetClip(layerClip.Left, layerClip.Top, layerClip.Right, layerClip.Bottom)
	snapshot.RoundRectClip = nil

	op := &BeginLayerOp{}
	op.UnmappedBounds = untransformedBounds
	op.LocalMatrix = prevTransform // transform to draw the result with
	op.LocalClip = prevClip        // clip to draw the result with
	op.Paint = c.refPaint(paint)
	c.addOp(op)

	return saveValue
}

// SaveLayerAlpha is SaveLayer with a plain alpha paint.
func (c *Canvas) SaveLayerAlpha(left, top, right, bottom float32, alpha uint8) int {
	paint := dlist.Paint{Color: uint32(alpha)<<24 | 0x00ffffff}
	return c.SaveLayer(left, top, right, bottom, &paint)
}

// SaveLayerUnclipped opens a layer that does not clip its content.
// Instead of redirecting rendering, the destination region is snapshot
// into a buffer before the content draws and composited back at
// restore.
func (c *Canvas) SaveLayerUnclipped(left, top, right, bottom float32) int {
	c.checkRecording()

	handle := new(*dlist.OffscreenBuffer)
	base := OpBase{
		UnmappedBounds: dlist.RectLTRB(left, top, right, bottom),
		LocalMatrix:    c.state.CurrentTransform(),
		LocalClip:      c.state.GetRenderTargetClipBounds(),
	}
	c.addOp(&CopyToLayerOp{OpBase: base, Buffer: handle})

	saveValue := c.state.Save(canvas.SaveMatrixClip)
	snapshot := c.state.WritableSnapshot()
	snapshot.Flags |= canvas.FlagIsLayer
	c.unclipped = append(c.unclipped, unclippedLayer{
		snapshot: snapshot,
		handle:   handle,
		base:     base,
	})
	return saveValue
}

// Translate applies a local translation.
func (c *Canvas) Translate(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.state.Translate(dx, dy)
}

// Scale applies a local scale.
func (c *Canvas) Scale(sx, sy float32) {
	if sx == 1 && sy == 1 {
		return
	}
	c.state.Scale(sx, sy)
}

// Rotate applies a local rotation in radians.
func (c *Canvas) Rotate(radians float32) {
	if radians == 0 {
		return
	}
	c.state.Rotate(radians)
}

// Skew applies a local shear.
func (c *Canvas) Skew(kx, ky float32) { c.state.Skew(kx, ky) }

// Concat post-multiplies the current transform.
func (c *Canvas) Concat(m dlist.Matrix4) { c.state.ConcatMatrix(m) }

// ClipRect clips to a local-space rectangle, reporting whether any
// drawable area remains.
func (c *Canvas) ClipRect(left, top, right, bottom float32, op clip.Op) bool {
	return c.state.ClipRect(left, top, right, bottom, op)
}

// ClipRegion clips to a render-target-space region.
func (c *Canvas) ClipRegion(rg clip.Region, op clip.Op) bool {
	return c.state.ClipRegion(rg, op)
}

// GetClipBounds returns the clip bounds in local space and whether they
// are non-empty.
func (c *Canvas) GetClipBounds() (dlist.Rect, bool) {
	b := c.state.GetLocalClipBounds()
	return b, !b.IsEmpty()
}

// QuickReject reports whether a local-space rect certainly cannot draw.
func (c *Canvas) QuickReject(left, top, right, bottom float32) bool {
	return c.state.QuickRejectConservative(left, top, right, bottom)
}

// InsertReorderBarrier splits the recording into a new chunk. With
// reorder true, the new chunk's child nodes may be Z-reordered at defer
// time; with false, children draw strictly in recording order.
func (c *Canvas) InsertReorderBarrier(reorder bool) {
	c.checkRecording()
	if reorder {
		c.barrier = barrierOutOfOrder
	} else {
		c.barrier = barrierInOrder
	}
}

// DrawColor fills the current clip with a color.
func (c *Canvas) DrawColor(color uint32) {
	c.DrawPaint(&dlist.Paint{Color: color})
}

// DrawPaint fills the current clip with the paint.
func (c *Canvas) DrawPaint(paint *dlist.Paint) {
	c.checkRecording()
	clipBounds := c.state.GetRenderTargetClipBounds()
	op := &RectOp{}
	op.UnmappedBounds = clipBounds
	op.LocalMatrix = dlist.Identity()
	op.LocalClip = clipBounds
	op.Paint = c.refPaint(paint)
	c.addOp(op)
}

// DrawRect records a rectangle fill or stroke.
func (c *Canvas) DrawRect(left, top, right, bottom float32, paint *dlist.Paint) {
	c.checkRecording()
	op := &RectOp{}
	op.UnmappedBounds = dlist.RectLTRB(left, top, right, bottom)
	op.LocalMatrix = c.state.CurrentTransform()
	op.LocalClip = c.state.GetRenderTargetClipBounds()
	op.Paint = c.refPaint(paint)
	c.addOp(op)
}

// DrawSimpleRects records a run of axis-aligned fills sharing one
// paint. rects holds left,top,right,bottom quads.
func (c *Canvas) DrawSimpleRects(rects []float32, paint *dlist.Paint) {
	c.checkRecording()
	if len(rects) < 4 {
		return
	}
	n := len(rects) &^ 0x3

	vertices := make([]dlist.Vertex, 0, n)
	bounds := dlist.RectLTRB(rects[0], rects[1], rects[0], rects[1])
	for i := 0; i < n; i += 4 {
		l, t, r, b := rects[i], rects[i+1], rects[i+2], rects[i+3]
		vertices = append(vertices,
			dlist.V(l, t), dlist.V(r, t), dlist.V(l, b), dlist.V(r, b))
		bounds = bounds.ExpandToCover(l, t)
		bounds = bounds.ExpandToCover(r, b)
	}

	op := &SimpleRectsOp{Vertices: vertices}
	op.UnmappedBounds = bounds
	op.LocalMatrix = c.state.CurrentTransform()
	op.LocalClip = c.state.GetRenderTargetClipBounds()
	op.Paint = c.refPaint(paint)
	c.addOp(op)
}

// DrawRegion fills a region. Fill-style paints under a simple transform
// collapse into one SimpleRects op; otherwise each region rect records
// individually.
func (c *Canvas) DrawRegion(rg clip.Region, paint *dlist.Paint) {
	c.checkRecording()
	simple := paint == nil ||
		(paint.Style == dlist.PaintStyleFill &&
			(!paint.AntiAlias || c.state.CurrentTransform().IsSimple()))
	if simple {
		var rects []float32
		for _, r := range rg.Rects() {
			rects = append(rects, r.Left, r.Top, r.Right, r.Bottom)
		}
		c.DrawSimpleRects(rects, paint)
		return
	}
	for _, r := range rg.Rects() {
		c.DrawRect(r.Left, r.Top, r.Right, r.Bottom, paint)
	}
}

// DrawLines strokes segments from interleaved x,y pairs; every two
// points form one segment. Bounds are outset by half the stroke width,
// at least half a pixel, since sub-pixel AA strokes draw a full pixel
// at reduced alpha.
func (c *Canvas) DrawLines(points []float32, paint *dlist.Paint) {
	c.checkRecording()
	if len(points) < 4 {
		return
	}
	n := len(points) &^ 0x3
	c.addStrokedPoints(&LinesOp{Points: append([]float32(nil), points[:n]...)}, points[:n], paint)
}

// DrawPoints strokes individual points from interleaved x,y pairs.
func (c *Canvas) DrawPoints(points []float32, paint *dlist.Paint) {
	c.checkRecording()
	if len(points) < 2 {
		return
	}
	n := len(points) &^ 0x1
	c.addStrokedPoints(&PointsOp{Points: append([]float32(nil), points[:n]...)}, points[:n], paint)
}

func (c *Canvas) addStrokedPoints(op Op, points []float32, paint *dlist.Paint) {
	bounds := dlist.RectLTRB(points[0], points[1], points[0], points[1])
	for i := 2; i < len(points); i += 2 {
		bounds = bounds.ExpandToCover(points[i], points[i+1])
	}
	var strokeWidth float32 = 1
	if paint != nil {
		strokeWidth = paint.StrokeWidth
	}
	bounds = bounds.Outset(max(strokeWidth, 1) * 0.5)

	base := op.Base()
	base.UnmappedBounds = bounds
	base.LocalMatrix = c.state.CurrentTransform()
	base.LocalClip = c.state.GetRenderTargetClipBounds()
	base.Paint = c.refPaint(paint)
	c.addOp(op)
}

// DrawBitmap draws a bitmap with its top-left corner at (left, top).
func (c *Canvas) DrawBitmap(bitmap *dlist.Bitmap, left, top float32, paint *dlist.Paint) {
	c.Save(canvas.SaveMatrix)
	c.Translate(left, top)
	c.drawBitmap(bitmap, paint)
	c.Restore()
}

// DrawBitmapMatrix draws a bitmap through an explicit transform.
func (c *Canvas) DrawBitmapMatrix(bitmap *dlist.Bitmap, m dlist.Matrix4, paint *dlist.Paint) {
	if m.IsIdentity() {
		c.drawBitmap(bitmap, paint)
		return
	}
	c.Save(canvas.SaveMatrix)
	c.Concat(m)
	c.drawBitmap(bitmap, paint)
	c.Restore()
}

// DrawBitmapRect draws the src portion of a bitmap into dst. Only the
// whole-bitmap, unscaled case is supported; it collapses into a
// positioned bitmap op so the draws stay mergeable.
func (c *Canvas) DrawBitmapRect(bitmap *dlist.Bitmap, src, dst dlist.Rect, paint *dlist.Paint) {
	if src.Left == 0 && src.Top == 0 &&
		src.Right == float32(bitmap.Width) && src.Bottom == float32(bitmap.Height) &&
		src.Width() == dst.Width() && src.Height() == dst.Height() {
		c.DrawBitmap(bitmap, dst.Left, dst.Top, paint)
		return
	}
	panic("dlist: DrawBitmapRect with subrect or scaling not supported by deferred recording")
}

func (c *Canvas) drawBitmap(bitmap *dlist.Bitmap, paint *dlist.Paint) {
	c.checkRecording()
	op := &BitmapOp{Bitmap: bitmap}
	op.UnmappedBounds = bitmap.Bounds()
	op.LocalMatrix = c.state.CurrentTransform()
	op.LocalClip = c.state.GetRenderTargetClipBounds()
	op.Paint = c.refPaint(paint)
	c.addOp(op)
}

// DrawText records an already-shaped glyph run. positions holds one x,y
// pair per glyph; bounds are the run's tight pixel bounds; totalAdvance
// sizes underline and strike-through decorations.
func (c *Canvas) DrawText(glyphs []font.GID, positions []float32, x, y float32,
	bounds dlist.Rect, totalAdvance fixed.Int26_6, paint *dlist.Paint) {

	c.checkRecording()
	if len(glyphs) == 0 || len(positions) < 2*len(glyphs) || paintWillNotDrawText(paint) {
		return
	}

	op := &TextOp{
		Glyphs:       append([]font.GID(nil), glyphs...),
		Positions:    append([]float32(nil), positions[:2*len(glyphs)]...),
		X:            x,
		Y:            y,
		TotalAdvance: totalAdvance,
	}
	op.UnmappedBounds = bounds
	op.LocalMatrix = c.state.CurrentTransform()
	op.LocalClip = c.state.GetRenderTargetClipBounds()
	op.Paint = c.refPaint(paint)
	c.addOp(op)

	c.drawTextDecorations(x, y, float32(totalAdvance)/64, paint)
}

func paintWillNotDrawText(p *dlist.Paint) bool {
	return p != nil && p.Alpha() == 0 && p.TextShadow == nil &&
		p.ColorFilter == nil && p.Shader == nil
}

// drawTextDecorations records underline / strike-through rects sized
// from the run's advance.
func (c *Canvas) drawTextDecorations(x, y, length float32, paint *dlist.Paint) {
	if paint == nil || (!paint.Underline && !paint.StrikeThrough) {
		return
	}
	left, right := x, x+length
	textSize := paint.TextSize
	strokeWidth := max(textSize*stdUnderlineThickness, 1)
	if paint.Underline {
		center := y + textSize*stdUnderlineOffset
		c.DrawRect(left, center-0.5*strokeWidth, right, center+0.5*strokeWidth, paint)
	}
	if paint.StrikeThrough {
		center := y + textSize*stdStrikeThroughOffset
		c.DrawRect(left, center-0.5*strokeWidth, right, center+0.5*strokeWidth, paint)
	}
}

// DrawNode records a child node reference at the current transform.
func (c *Canvas) DrawNode(node *Node) {
	c.checkRecording()
	op := &NodeOp{Node: node}
	op.UnmappedBounds = dlist.RectWH(float32(node.Width()), float32(node.Height()))
	op.LocalMatrix = c.state.CurrentTransform()
	op.LocalClip = c.state.GetRenderTargetClipBounds()

	opIndex := c.addOp(op)
	childIndex := c.dl.addChild(op)

	chunk := &c.dl.chunks[len(c.dl.chunks)-1]
	chunk.EndChildIndex = childIndex + 1

	if node.Properties().ProjectionReceiver {
		c.dl.projectionReceiveIndex = opIndex
	}
}

// DrawRoundRect is not representable in the deferred op set.
func (c *Canvas) DrawRoundRect(left, top, right, bottom, rx, ry float32, paint *dlist.Paint) {
	panic("dlist: DrawRoundRect not supported by deferred recording")
}

// DrawCircle is not representable in the deferred op set.
func (c *Canvas) DrawCircle(x, y, radius float32, paint *dlist.Paint) {
	panic("dlist: DrawCircle not supported by deferred recording")
}

// DrawOval is not representable in the deferred op set.
func (c *Canvas) DrawOval(left, top, right, bottom float32, paint *dlist.Paint) {
	panic("dlist: DrawOval not supported by deferred recording")
}

// DrawArc is not representable in the deferred op set.
func (c *Canvas) DrawArc(left, top, right, bottom, startAngle, sweepAngle float32,
	useCenter bool, paint *dlist.Paint) {
	panic("dlist: DrawArc not supported by deferred recording")
}

// addOp appends an op, opening a new chunk when a barrier is pending.
func (c *Canvas) addOp(op Op) int {
	insertIndex := len(c.dl.ops)
	c.dl.ops = append(c.dl.ops, op)
	switch op.Kind() {
	case KindBeginLayer, KindEndLayer:
		// Layer brackets alone put nothing on screen.
	default:
		c.dl.hasDrawOps = true
	}

	if c.barrier != barrierNone {
		nextChildIndex := len(c.dl.children)
		c.dl.chunks = append(c.dl.chunks, Chunk{
			BeginOpIndex:    insertIndex,
			EndOpIndex:      insertIndex + 1,
			BeginChildIndex: nextChildIndex,
			EndChildIndex:   nextChildIndex,
			ReorderChildren: c.barrier == barrierOutOfOrder,
		})
		c.barrier = barrierNone
	} else {
		c.dl.chunks[len(c.dl.chunks)-1].EndOpIndex = insertIndex + 1
	}
	return insertIndex
}

// refPaint interns a paint by value, so ops recorded with equal paints
// share one pointer.
func (c *Canvas) refPaint(p *dlist.Paint) *dlist.Paint {
	if p == nil {
		return nil
	}
	if interned, ok := c.paints[*p]; ok {
		return interned
	}
	copied := *p
	c.paints[copied] = &copied
	return &copied
}
