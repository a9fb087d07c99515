// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render provides a CPU renderer for replayed frames.
//
// PixmapRenderer implements the frame.Renderer contract over image.RGBA
// pixels. It exists for tests, debugging, and software fallback; it is
// not a GPU backend. Clipping uses the enclosing clip rectangle only,
// and glyph rasterization is out of scope, so text ops leave no pixels.
package render

import (
	"image"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/frame"
	"github.com/gogpu/dlist/record"
)

// defaultPoolBytes bounds the layer buffer pool when the caller does not
// supply one.
const defaultPoolBytes = 16 << 20

// surface is one render target on the stack: the frame image at the
// bottom, one entry per open layer above it.
type surface struct {
	img *image.RGBA

	// buffer is nil for the frame target.
	buffer *dlist.OffscreenBuffer

	// scissor bounds every draw on this surface, in surface pixels.
	scissor image.Rectangle
}

// PixmapRenderer replays baked ops into an image.RGBA. Layer buffers
// carry their backing image in OffscreenBuffer.Handle and recycle
// through an OffscreenBufferPool.
//
// A PixmapRenderer is not safe for concurrent use.
type PixmapRenderer struct {
	pool  *frame.OffscreenBufferPool
	frame *image.RGBA
	stack []surface
}

// NewPixmapRenderer returns a renderer drawing into CPU pixels. A nil
// pool gets a private pool with a default budget.
func NewPixmapRenderer(pool *frame.OffscreenBufferPool) *PixmapRenderer {
	if pool == nil {
		pool = frame.NewOffscreenBufferPool(defaultPoolBytes)
	}
	return &PixmapRenderer{pool: pool}
}

// Image returns the frame target of the most recent replay. The pixels
// remain valid until the next StartFrame with different dimensions.
func (r *PixmapRenderer) Image() *image.RGBA { return r.frame }

func (r *PixmapRenderer) current() *surface { return &r.stack[len(r.stack)-1] }

func (r *PixmapRenderer) push(img *image.RGBA, buffer *dlist.OffscreenBuffer, scissor image.Rectangle) {
	r.stack = append(r.stack, surface{img: img, buffer: buffer, scissor: scissor.Intersect(img.Bounds())})
}

// backing returns the buffer's image, (re)allocating the Handle when it
// is missing or too small for the buffer's current dimensions.
func backing(b *dlist.OffscreenBuffer) *image.RGBA {
	if img, ok := b.Handle.(*image.RGBA); ok &&
		img.Bounds().Dx() >= b.Width && img.Bounds().Dy() >= b.Height {
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	b.Handle = img
	return img
}

func imageRect(r dlist.Rect) image.Rectangle {
	s := r.SnapToPixelBoundaries()
	return image.Rect(int(s.Left), int(s.Top), int(s.Right), int(s.Bottom))
}

func clearArea(img *image.RGBA, area image.Rectangle) {
	stddraw.Draw(img, area.Intersect(img.Bounds()), image.Transparent, image.Point{}, stddraw.Src)
}

// StartFrame prepares the frame target, reusing the previous frame's
// pixels when the dimensions match so undamaged content persists.
func (r *PixmapRenderer) StartFrame(width, height int, repaintRect dlist.Rect) {
	if r.frame == nil || r.frame.Bounds().Dx() != width || r.frame.Bounds().Dy() != height {
		r.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	repaint := imageRect(repaintRect)
	clearArea(r.frame, repaint)
	r.stack = r.stack[:0]
	r.push(r.frame, nil, repaint)
}

// EndFrame closes the frame target.
func (r *PixmapRenderer) EndFrame(dlist.Rect) {
	r.stack = r.stack[:len(r.stack)-1]
}

// StartRepaintLayer re-enters a node's persistent layer, clearing only
// the damaged region.
func (r *PixmapRenderer) StartRepaintLayer(buffer *dlist.OffscreenBuffer, repaintRect dlist.Rect) {
	img := backing(buffer)
	repaint := imageRect(repaintRect)
	clearArea(img, repaint)
	r.push(img, buffer, repaint)
}

// StartTemporaryLayer allocates a save-layer buffer from the pool.
func (r *PixmapRenderer) StartTemporaryLayer(width, height int) *dlist.OffscreenBuffer {
	buffer := r.pool.Get(width, height)
	img := backing(buffer)
	area := image.Rect(0, 0, width, height)
	clearArea(img, area)
	r.push(img, buffer, area)
	return buffer
}

// EndLayer closes the innermost open layer.
func (r *PixmapRenderer) EndLayer() {
	top := r.current()
	if top.buffer != nil {
		top.buffer.HasRenderedSinceRepaint = true
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// scissorFor intersects the surface scissor with the op's serialized
// clip. Rect-list and region clips degrade to their enclosing rectangle.
func (r *PixmapRenderer) scissorFor(state *frame.BakedOpState) image.Rectangle {
	return r.current().scissor.Intersect(imageRect(state.ClipRect()))
}

// RenderRectOp fills (or, for stroke styles, outlines) an axis-aligned
// rectangle. Rotated rects degrade to their mapped bounds.
func (r *PixmapRenderer) RenderRectOp(op *record.RectOp, state *frame.BakedOpState) {
	base := op.Base()
	mapped := state.State.Transform.MapRect(base.UnmappedBounds)
	scissor := r.scissorFor(state)
	c := paintColor(base.Paint, state.Alpha)

	if base.Paint != nil && base.Paint.Style == dlist.PaintStyleStroke {
		w := base.Paint.StrokeWidth * transformScale(state.State.Transform)
		if w < 1 {
			w = 1
		}
		h := w / 2
		fillRect(r.current().img, scissor, dlist.RectLTRB(mapped.Left-h, mapped.Top-h, mapped.Right+h, mapped.Top+h), c)
		fillRect(r.current().img, scissor, dlist.RectLTRB(mapped.Left-h, mapped.Bottom-h, mapped.Right+h, mapped.Bottom+h), c)
		fillRect(r.current().img, scissor, dlist.RectLTRB(mapped.Left-h, mapped.Top+h, mapped.Left+h, mapped.Bottom-h), c)
		fillRect(r.current().img, scissor, dlist.RectLTRB(mapped.Right-h, mapped.Top+h, mapped.Right+h, mapped.Bottom-h), c)
		return
	}
	fillRect(r.current().img, scissor, mapped, c)
}

// RenderSimpleRectsOp fills each 4-vertex run as an axis-aligned rect.
func (r *PixmapRenderer) RenderSimpleRectsOp(op *record.SimpleRectsOp, state *frame.BakedOpState) {
	scissor := r.scissorFor(state)
	c := paintColor(op.Base().Paint, state.Alpha)
	verts := op.Vertices
	for i := 0; i+3 < len(verts); i += 4 {
		rect := dlist.Rect{Left: verts[i].X, Top: verts[i].Y, Right: verts[i].X, Bottom: verts[i].Y}
		for _, v := range verts[i+1 : i+4] {
			rect = rect.ExpandToCover(v.X, v.Y)
		}
		fillRect(r.current().img, scissor, state.State.Transform.MapRect(rect), c)
	}
}

// RenderLinesOp strokes each segment at the paint's stroke width.
func (r *PixmapRenderer) RenderLinesOp(op *record.LinesOp, state *frame.BakedOpState) {
	r.strokeSegments(op.Points, op.Base().Paint, state, false)
}

// RenderPointsOp draws each point as a stroke-width square.
func (r *PixmapRenderer) RenderPointsOp(op *record.PointsOp, state *frame.BakedOpState) {
	r.strokeSegments(op.Points, op.Base().Paint, state, true)
}

func (r *PixmapRenderer) strokeSegments(points []float32, paint *dlist.Paint,
	state *frame.BakedOpState, isPoints bool) {

	scissor := r.scissorFor(state)
	c := paintColor(paint, state.Alpha)
	var width float32 = 1
	if paint != nil && paint.StrokeWidth > 1 {
		width = paint.StrokeWidth
	}
	half := width * transformScale(state.State.Transform) / 2

	img := r.current().img
	if isPoints {
		for i := 0; i+1 < len(points); i += 2 {
			x, y := state.State.Transform.MapPoint(points[i], points[i+1])
			fillRect(img, scissor, dlist.RectLTRB(x-half, y-half, x+half, y+half), c)
		}
		return
	}
	for i := 0; i+3 < len(points); i += 4 {
		x0, y0 := state.State.Transform.MapPoint(points[i], points[i+1])
		x1, y1 := state.State.Transform.MapPoint(points[i+2], points[i+3])
		fillSegment(img, scissor, x0, y0, x1, y1, half, c)
	}
}

// RenderTextOp is a no-op: glyph rasterization is out of scope for the
// pixmap renderer. Text decorations arrive as separate rect ops.
func (r *PixmapRenderer) RenderTextOp(*record.TextOp, *frame.BakedOpState) {}

// RenderShadowOp draws a crude projected umbra: the caster outline
// bounds, offset away from the light and widened with elevation, filled
// with translucent black.
func (r *PixmapRenderer) RenderShadowOp(op *record.ShadowOp, state *frame.BakedOpState) {
	bounds := op.CasterTransform.MapRect(op.CasterOutline.Bounds)
	z := op.CasterZ

	var dx, dy float32
	if op.Light.CenterZ > z {
		scale := z / (op.Light.CenterZ - z)
		cx := (bounds.Left + bounds.Right) / 2
		cy := (bounds.Top + bounds.Bottom) / 2
		dx = (cx - op.Light.CenterX) * scale
		dy = (cy - op.Light.CenterY) * scale
	}
	shadow := state.State.Transform.MapRect(bounds.Translate(dx, dy).Outset(z / 2))

	alpha := 0.3 * op.CasterAlpha * state.Alpha
	c := premultiply(0, 0, 0, alpha)
	fillRect(r.current().img, r.scissorFor(state), shadow, c)
}

// RenderBitmapOp draws one bitmap through the baked transform.
func (r *PixmapRenderer) RenderBitmapOp(op *record.BitmapOp, state *frame.BakedOpState) {
	base := op.Base()
	r.drawBitmap(op.Bitmap, base.Paint, state.State.Transform, r.scissorFor(state), state.Alpha)
}

// RenderMergedBitmapOps draws a merged batch op by op under the batch's
// combined clip. A GPU backend would build one vertex buffer here; for
// CPU pixels per-op drawing is equivalent.
func (r *PixmapRenderer) RenderMergedBitmapOps(list frame.MergedOpList) {
	scissor := r.current().scissor
	if list.ClipSideFlags != frame.ClipSideNone {
		scissor = scissor.Intersect(imageRect(list.Clip))
	}
	for _, s := range list.States {
		op := s.Op.(*record.BitmapOp)
		r.drawBitmap(op.Bitmap, op.Base().Paint, s.State.Transform, scissor, s.Alpha)
	}
}

// RenderMergedTextOps is a no-op, matching RenderTextOp.
func (r *PixmapRenderer) RenderMergedTextOps(frame.MergedOpList) {}

// RenderLayerOp composites a finished layer buffer into the current
// surface. A nil buffer means the layer had no visible content.
func (r *PixmapRenderer) RenderLayerOp(op *record.LayerOp, state *frame.BakedOpState) {
	if op.Buffer == nil || *op.Buffer == nil {
		return
	}
	buffer := *op.Buffer
	src, ok := buffer.Handle.(*image.RGBA)
	if !ok {
		return
	}
	// The buffer lands where the layer's bounds were requested; the
	// baked transform maps the bounds origin, not the buffer origin.
	transform := state.State.Transform.Translate(op.UnmappedBounds.Left, op.UnmappedBounds.Top)
	alpha := op.Alpha * state.Alpha
	r.drawImage(src, image.Rect(0, 0, buffer.Width, buffer.Height),
		transform, r.scissorFor(state), alpha, op.ColorFilter)

	if op.Destroy {
		r.pool.Put(buffer)
	}
}

// RenderCopyToLayerOp snapshots the destination under an unclipped
// save-layer before its content draws.
func (r *PixmapRenderer) RenderCopyToLayerOp(op *record.CopyToLayerOp, state *frame.BakedOpState) {
	area := imageRect(state.State.ClippedBounds).Intersect(r.current().img.Bounds())
	if area.Empty() {
		return
	}
	buffer := r.pool.Get(area.Dx(), area.Dy())
	img := backing(buffer)
	stddraw.Draw(img, image.Rect(0, 0, area.Dx(), area.Dy()), r.current().img, area.Min, stddraw.Src)
	*op.Buffer = buffer
}

// RenderCopyFromLayerOp restores a CopyToLayerOp snapshot and returns
// its buffer to the pool.
func (r *PixmapRenderer) RenderCopyFromLayerOp(op *record.CopyFromLayerOp, state *frame.BakedOpState) {
	if op.Buffer == nil || *op.Buffer == nil {
		return
	}
	buffer := *op.Buffer
	src, ok := buffer.Handle.(*image.RGBA)
	if !ok {
		return
	}
	area := imageRect(state.State.ClippedBounds).Intersect(r.current().img.Bounds())
	stddraw.Draw(r.current().img, area, src, image.Point{}, stddraw.Src)
	r.pool.Put(buffer)
	*op.Buffer = nil
}

func (r *PixmapRenderer) drawBitmap(bmp *dlist.Bitmap, paint *dlist.Paint,
	transform dlist.Matrix4, scissor image.Rectangle, alpha float32) {

	if bmp == nil || bmp.Pix == nil {
		return
	}
	bounds := image.Rect(0, 0, bmp.Width, bmp.Height)
	if bmp.IsAlpha8() {
		// Coverage-only bitmaps draw modulated by the paint color.
		src := colorizeAlpha8(bmp, paintColor(paint, alpha))
		r.drawImage(src, bounds, transform, scissor, 1, nil)
		return
	}
	src := &image.RGBA{Pix: bmp.Pix, Stride: bmp.Width * 4, Rect: bounds}
	var filter *dlist.ColorFilter
	if paint != nil {
		filter = paint.ColorFilter
	}
	r.drawImage(src, bounds, transform, scissor, alpha, filter)
}

// drawImage composites src through an affine transform with source-over
// blending, scissored to clip.
func (r *PixmapRenderer) drawImage(src *image.RGBA, srcBounds image.Rectangle,
	transform dlist.Matrix4, scissor image.Rectangle, alpha float32,
	filter *dlist.ColorFilter) {

	if scissor.Empty() || alpha <= 0 {
		return
	}
	if alpha < 1 || filter != nil {
		src = modulate(src, srcBounds, alpha, filter)
		srcBounds = src.Bounds()
	}
	// Drawing into a sub-image scissors without touching coordinates.
	dst, ok := r.current().img.SubImage(scissor).(*image.RGBA)
	if !ok {
		return
	}
	if transform.IsPureTranslate() {
		dx, dy := transform.MapPoint(0, 0)
		target := srcBounds.Sub(srcBounds.Min).Add(image.Pt(int(dx), int(dy))).Intersect(scissor)
		offset := srcBounds.Min.Add(target.Min.Sub(image.Pt(int(dx), int(dy))))
		stddraw.Draw(dst, target, src, offset, stddraw.Over)
		return
	}
	aff := f64.Aff3{
		float64(transform[0]), float64(transform[1]), float64(transform[3]),
		float64(transform[4]), float64(transform[5]), float64(transform[7]),
	}
	xdraw.ApproxBiLinear.Transform(dst, aff, src, srcBounds, xdraw.Over, nil)
}

var _ frame.Renderer = (*PixmapRenderer)(nil)
