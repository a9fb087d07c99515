package record

import (
	"testing"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/canvas"
	"github.com/gogpu/dlist/clip"
)

func fillPaint(color uint32) *dlist.Paint {
	return &dlist.Paint{Color: color}
}

// Chunks must be contiguous, non-overlapping, and cover every op.
func checkChunkCoverage(t *testing.T, dl *DisplayList) {
	t.Helper()
	next := 0
	for i, ch := range dl.Chunks() {
		if ch.BeginOpIndex != next {
			t.Fatalf("chunk %d begins at %d, want %d", i, ch.BeginOpIndex, next)
		}
		if ch.EndOpIndex <= ch.BeginOpIndex {
			t.Fatalf("chunk %d empty or inverted: [%d, %d)", i, ch.BeginOpIndex, ch.EndOpIndex)
		}
		next = ch.EndOpIndex
	}
	if next != len(dl.Ops()) {
		t.Fatalf("chunks cover %d ops, want %d", next, len(dl.Ops()))
	}
}

func TestChunkCoverage(t *testing.T) {
	c := NewCanvas(100, 100)
	c.DrawRect(0, 0, 10, 10, fillPaint(0xff0000ff))
	c.DrawRect(10, 0, 20, 10, fillPaint(0xff0000ff))

	c.InsertReorderBarrier(true)
	c.DrawNode(NewNode("child", 10, 10))
	c.DrawRect(20, 0, 30, 10, fillPaint(0xff0000ff))

	c.InsertReorderBarrier(false)
	c.DrawRect(30, 0, 40, 10, fillPaint(0xff0000ff))

	dl := c.FinishRecording()
	checkChunkCoverage(t, dl)

	chunks := dl.Chunks()
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	if chunks[0].ReorderChildren {
		t.Fatal("chunk 0 should not reorder")
	}
	if !chunks[1].ReorderChildren {
		t.Fatal("chunk 1 should reorder")
	}
	if chunks[2].ReorderChildren {
		t.Fatal("chunk 2 should not reorder")
	}
	// The node landed in chunk 1's child bracket.
	if chunks[1].BeginChildIndex != 0 || chunks[1].EndChildIndex != 1 {
		t.Fatalf("chunk 1 children [%d, %d), want [0, 1)",
			chunks[1].BeginChildIndex, chunks[1].EndChildIndex)
	}
}

func TestBarrierWithoutOpsAddsNoChunk(t *testing.T) {
	c := NewCanvas(100, 100)
	c.DrawRect(0, 0, 10, 10, fillPaint(0xff0000ff))
	c.InsertReorderBarrier(true)
	c.InsertReorderBarrier(false)
	// No op followed the barriers, so no empty chunk may exist.
	dl := c.FinishRecording()
	checkChunkCoverage(t, dl)
	if got := len(dl.Chunks()); got != 1 {
		t.Fatalf("chunk count = %d, want 1", got)
	}
}

func TestPaintInterning(t *testing.T) {
	c := NewCanvas(100, 100)
	p := dlist.Paint{Color: 0xff00ff00}
	q := p // equal by value, distinct variable
	c.DrawRect(0, 0, 10, 10, &p)
	c.DrawRect(10, 0, 20, 10, &q)
	c.DrawRect(20, 0, 30, 10, &dlist.Paint{Color: 0xffff0000})

	dl := c.FinishRecording()
	ops := dl.Ops()
	p0 := ops[0].Base().Paint
	p1 := ops[1].Base().Paint
	p2 := ops[2].Base().Paint
	if p0 != p1 {
		t.Fatal("value-equal paints not interned to one pointer")
	}
	if p0 == p2 {
		t.Fatal("distinct paints interned together")
	}
	if p0 == &p {
		t.Fatal("recorded op aliases the caller's paint")
	}
}

func TestRecordedOpState(t *testing.T) {
	c := NewCanvas(200, 200)
	c.Save(canvas.SaveMatrixClip)
	c.Translate(10, 20)
	c.ClipRect(0, 0, 50, 50, clip.OpIntersect)
	c.DrawRect(5, 5, 25, 25, fillPaint(0xff000000))
	c.Restore()

	dl := c.FinishRecording()
	op := dl.Ops()[0].(*RectOp)
	if got, want := op.UnmappedBounds, dlist.RectLTRB(5, 5, 25, 25); got != want {
		t.Fatalf("unmapped bounds = %v, want %v", got, want)
	}
	if got, want := op.LocalMatrix, dlist.Translation(10, 20); got != want {
		t.Fatalf("local matrix = %v, want %v", got, want)
	}
	if got, want := op.LocalClip, dlist.RectLTRB(10, 20, 60, 70); got != want {
		t.Fatalf("local clip = %v, want %v", got, want)
	}
}

func TestSaveLayerRecordsBeginAndEnd(t *testing.T) {
	c := NewCanvas(200, 200)
	c.Translate(10, 10)
	sc := c.SaveLayer(0, 0, 100, 100, fillPaint(0x80ffffff))
	c.DrawRect(0, 0, 50, 50, fillPaint(0xff0000ff))
	c.RestoreToCount(sc)

	dl := c.FinishRecording()
	ops := dl.Ops()
	if len(ops) != 3 {
		t.Fatalf("op count = %d, want 3 (begin, rect, end)", len(ops))
	}
	begin, ok := ops[0].(*BeginLayerOp)
	if !ok {
		t.Fatalf("ops[0] = %T, want *BeginLayerOp", ops[0])
	}
	if _, ok := ops[2].(*EndLayerOp); !ok {
		t.Fatalf("ops[2] = %T, want *EndLayerOp", ops[2])
	}
	// The begin op draws the finished layer with the outer transform.
	if got, want := begin.LocalMatrix, dlist.Translation(10, 10); got != want {
		t.Fatalf("begin transform = %v, want %v", got, want)
	}
	if got, want := begin.UnmappedBounds, dlist.RectLTRB(0, 0, 100, 100); got != want {
		t.Fatalf("begin bounds = %v, want %v", got, want)
	}

	// Content inside the layer records in layer-local space.
	rect := ops[1].(*RectOp)
	if got := rect.LocalMatrix; got != dlist.Translation(0, 0) && !got.IsIdentity() {
		t.Fatalf("layer content transform = %v, want identity", got)
	}
}

func TestSaveLayerClippedOutRecordsNothing(t *testing.T) {
	c := NewCanvas(200, 200)
	c.ClipRect(0, 0, 50, 50, clip.OpIntersect)
	// Layer bounds entirely outside the clip.
	sc := c.SaveLayer(100, 100, 150, 150, nil)
	c.DrawRect(100, 100, 140, 140, fillPaint(0xff0000ff))
	c.RestoreToCount(sc)

	dl := c.FinishRecording()
	// The rejected layer records no begin/end; the inner rect still
	// records but carries an empty clip, so baking rejects it.
	for _, op := range dl.Ops() {
		switch op.(type) {
		case *BeginLayerOp, *EndLayerOp:
			t.Fatalf("rejected layer recorded %T", op)
		}
	}
	for _, op := range dl.Ops() {
		if !op.Base().LocalClip.IsEmpty() {
			t.Fatalf("op under rejected layer has non-empty clip %v", op.Base().LocalClip)
		}
	}
}

func TestSaveLayerUnclippedPairsCopyOps(t *testing.T) {
	c := NewCanvas(200, 200)
	sc := c.SaveLayerUnclipped(20, 20, 80, 80)
	c.DrawRect(0, 0, 200, 200, fillPaint(0x40ff0000))
	c.RestoreToCount(sc)

	dl := c.FinishRecording()
	ops := dl.Ops()
	if len(ops) != 3 {
		t.Fatalf("op count = %d, want 3", len(ops))
	}
	to, ok := ops[0].(*CopyToLayerOp)
	if !ok {
		t.Fatalf("ops[0] = %T, want *CopyToLayerOp", ops[0])
	}
	from, ok := ops[2].(*CopyFromLayerOp)
	if !ok {
		t.Fatalf("ops[2] = %T, want *CopyFromLayerOp", ops[2])
	}
	if to.Buffer != from.Buffer {
		t.Fatal("copy ops do not share a buffer handle")
	}
}

func TestHasDrawOpsIgnoresLayerBrackets(t *testing.T) {
	c := NewCanvas(200, 200)
	sc := c.SaveLayerAlpha(10, 10, 190, 190, 128)
	c.RestoreToCount(sc)

	dl := c.FinishRecording()
	if dl.IsEmpty() {
		t.Fatal("layer brackets recorded no ops")
	}
	if dl.HasDrawOps() {
		t.Fatal("begin/end layer pair counted as draw content")
	}
	node := NewNode("brackets-only", 200, 200)
	node.SetDisplayList(dl)
	if !node.NothingToDraw() {
		t.Fatal("node holding only layer brackets should have nothing to draw")
	}

	c.Reset(200, 200)
	sc = c.SaveLayerAlpha(10, 10, 190, 190, 128)
	c.DrawRect(20, 20, 40, 40, fillPaint(0xff0000ff))
	c.RestoreToCount(sc)
	if dl = c.FinishRecording(); !dl.HasDrawOps() {
		t.Fatal("layer content not counted as draw content")
	}
}

func TestDrawBitmapRectCollapse(t *testing.T) {
	c := NewCanvas(200, 200)
	bmp := dlist.NewBitmap(32, 32)
	c.DrawBitmapRect(bmp,
		dlist.RectLTRB(0, 0, 32, 32),
		dlist.RectLTRB(50, 60, 82, 92), nil)

	dl := c.FinishRecording()
	op, ok := dl.Ops()[0].(*BitmapOp)
	if !ok {
		t.Fatalf("op = %T, want *BitmapOp", dl.Ops()[0])
	}
	if got, want := op.LocalMatrix, dlist.Translation(50, 60); got != want {
		t.Fatalf("collapsed transform = %v, want %v", got, want)
	}
	// Translate-only save must not leak.
	if got := c.SaveCount(); got != 1 {
		t.Fatalf("save count = %d, want 1", got)
	}
}

func TestDrawBitmapRectSubrectPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("subrect bitmap draw did not panic")
		}
	}()
	c := NewCanvas(200, 200)
	bmp := dlist.NewBitmap(32, 32)
	c.DrawBitmapRect(bmp, dlist.RectLTRB(0, 0, 16, 16), dlist.RectLTRB(0, 0, 16, 16), nil)
}

func TestDrawTextDecorations(t *testing.T) {
	c := NewCanvas(200, 200)
	paint := &dlist.Paint{Color: 0xff000000, TextSize: 18, Underline: true, StrikeThrough: true}
	c.DrawText(
		[]font.GID{1, 2, 3},
		[]float32{0, 0, 10, 0, 20, 0},
		5, 50,
		dlist.RectLTRB(5, 36, 35, 54),
		fixed.I(30),
		paint)

	dl := c.FinishRecording()
	ops := dl.Ops()
	if len(ops) != 3 {
		t.Fatalf("op count = %d, want text + underline + strike", len(ops))
	}
	if _, ok := ops[0].(*TextOp); !ok {
		t.Fatalf("ops[0] = %T, want *TextOp", ops[0])
	}
	under := ops[1].(*RectOp)
	if got, want := under.UnmappedBounds.Width(), float32(30); got != want {
		t.Fatalf("underline width = %g, want %g (total advance)", got, want)
	}
	strike := ops[2].(*RectOp)
	if strike.UnmappedBounds.Top >= under.UnmappedBounds.Top {
		t.Fatal("strike-through should sit above the underline")
	}
}

func TestDrawTextInvisiblePaintSkipped(t *testing.T) {
	c := NewCanvas(200, 200)
	c.DrawText([]font.GID{1}, []float32{0, 0}, 0, 0,
		dlist.RectLTRB(0, 0, 10, 10), fixed.I(10),
		&dlist.Paint{Color: 0x00000000})
	dl := c.FinishRecording()
	if !dl.IsEmpty() {
		t.Fatalf("invisible text recorded %d ops", len(dl.Ops()))
	}
}

func TestDrawNodeProjectionReceiver(t *testing.T) {
	c := NewCanvas(200, 200)
	c.DrawRect(0, 0, 10, 10, fillPaint(0xff000000))

	receiver := NewNode("background", 100, 100)
	receiver.MutateProperties(func(p *Properties) { p.ProjectionReceiver = true })
	c.DrawNode(receiver)
	c.DrawNode(NewNode("sibling", 10, 10))

	dl := c.FinishRecording()
	if got := dl.ProjectionReceiveIndex(); got != 1 {
		t.Fatalf("projection receive index = %d, want 1", got)
	}
	if got := len(dl.Children()); got != 2 {
		t.Fatalf("children = %d, want 2", got)
	}
}

func TestDrawRegionDecomposition(t *testing.T) {
	c := NewCanvas(200, 200)
	rg := clip.RegionFromRects(
		dlist.RectLTRB(0, 0, 10, 10),
		dlist.RectLTRB(20, 0, 30, 10),
	)
	c.DrawRegion(rg, fillPaint(0xff00ff00))

	dl := c.FinishRecording()
	op, ok := dl.Ops()[0].(*SimpleRectsOp)
	if !ok {
		t.Fatalf("fill-style region should record SimpleRects, got %T", dl.Ops()[0])
	}
	if got := len(op.Vertices); got != 8 {
		t.Fatalf("vertex count = %d, want 8", got)
	}

	// A stroked paint falls back to individual rects.
	c.Reset(200, 200)
	c.DrawRegion(rg, &dlist.Paint{Style: dlist.PaintStyleStroke, AntiAlias: true, StrokeWidth: 2})
	dl = c.FinishRecording()
	if got := len(dl.Ops()); got != 2 {
		t.Fatalf("stroked region op count = %d, want 2 rects", got)
	}
}

func TestRecordAfterFinishPanics(t *testing.T) {
	c := NewCanvas(100, 100)
	c.FinishRecording()
	defer func() {
		if recover() == nil {
			t.Fatal("draw after FinishRecording did not panic")
		}
	}()
	c.DrawRect(0, 0, 10, 10, nil)
}

func TestDoubleResetPanics(t *testing.T) {
	c := NewCanvas(100, 100)
	defer func() {
		if recover() == nil {
			t.Fatal("Reset during recording did not panic")
		}
	}()
	c.Reset(100, 100)
}

func TestDrawLinesBoundsOutset(t *testing.T) {
	c := NewCanvas(200, 200)
	c.DrawLines([]float32{10, 10, 90, 10},
		&dlist.Paint{Style: dlist.PaintStyleStroke, StrokeWidth: 4})
	dl := c.FinishRecording()
	op := dl.Ops()[0].(*LinesOp)
	if got, want := op.UnmappedBounds, dlist.RectLTRB(8, 8, 92, 12); got != want {
		t.Fatalf("bounds = %v, want %v", got, want)
	}

	// Hairlines still outset by half a pixel.
	c.Reset(200, 200)
	c.DrawLines([]float32{0, 0, 10, 0},
		&dlist.Paint{Style: dlist.PaintStyleStroke, StrokeWidth: 0})
	dl = c.FinishRecording()
	op = dl.Ops()[0].(*LinesOp)
	if got, want := op.UnmappedBounds, dlist.RectLTRB(-0.5, -0.5, 10.5, 0.5); got != want {
		t.Fatalf("hairline bounds = %v, want %v", got, want)
	}
}
