// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/arena"
	"github.com/gogpu/dlist/canvas"
	"github.com/gogpu/dlist/record"
)

// bakeState returns a one-deep save stack with the given viewport and
// initial render-target clip.
func bakeState(viewportW, viewportH int, clip dlist.Rect) *canvas.State {
	st := canvas.NewState(nil)
	st.InitializeSaveStack(viewportW, viewportH, clip.Left, clip.Top, clip.Right, clip.Bottom)
	return st
}

func rectOp(bounds, localClip dlist.Rect, paint *dlist.Paint) *record.RectOp {
	return &record.RectOp{OpBase: record.OpBase{
		UnmappedBounds: bounds,
		LocalMatrix:    dlist.Identity(),
		LocalClip:      localClip,
		Paint:          paint,
	}}
}

func TestResolveStateIdentity(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(200, 200))
	alloc := arena.New()

	op := rectOp(dlist.RectLTRB(10, 10, 50, 50), dlist.RectWH(200, 200), nil)
	baked := tryBakeOpState(alloc, st.CurrentSnapshot(), op)
	if baked == nil {
		t.Fatal("op rejected under open clip")
	}
	if got := baked.State.ClippedBounds; got != op.UnmappedBounds {
		t.Errorf("ClippedBounds = %v, want unmapped bounds %v", got, op.UnmappedBounds)
	}
	if baked.State.Transform != dlist.Identity() {
		t.Errorf("Transform = %v, want identity", baked.State.Transform)
	}
	if baked.State.ClipSideFlags != ClipSideNone {
		t.Errorf("ClipSideFlags = %04b, want none", baked.State.ClipSideFlags)
	}
	if baked.State.ClipState == nil {
		t.Fatal("ClipState = nil for accepted op")
	}
	if baked.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", baked.Alpha)
	}
}

func TestResolveStateClipSideFlags(t *testing.T) {
	opBounds := dlist.RectLTRB(10, 10, 50, 50)
	tests := []struct {
		name      string
		clip      dlist.Rect
		wantFlags ClipSide
		wantRect  dlist.Rect
	}{
		{"open", dlist.RectWH(200, 200), ClipSideNone, opBounds},
		{"right bottom", dlist.RectWH(30, 30), ClipSideRight | ClipSideBottom, dlist.RectLTRB(10, 10, 30, 30)},
		{"left top", dlist.RectLTRB(20, 20, 200, 200), ClipSideLeft | ClipSideTop, dlist.RectLTRB(20, 20, 50, 50)},
		{"all sides", dlist.RectLTRB(20, 20, 40, 40), ClipSideFull, dlist.RectLTRB(20, 20, 40, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := bakeState(200, 200, tt.clip)
			alloc := arena.New()

			op := rectOp(opBounds, dlist.RectWH(200, 200), nil)
			baked := tryBakeOpState(alloc, st.CurrentSnapshot(), op)
			if baked == nil {
				t.Fatal("op rejected")
			}
			if baked.State.ClipSideFlags != tt.wantFlags {
				t.Errorf("ClipSideFlags = %04b, want %04b", baked.State.ClipSideFlags, tt.wantFlags)
			}
			if baked.State.ClippedBounds != tt.wantRect {
				t.Errorf("ClippedBounds = %v, want %v", baked.State.ClippedBounds, tt.wantRect)
			}
		})
	}
}

func TestResolveStateRejectsOutsideClip(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(30, 30))
	alloc := arena.New()

	op := rectOp(dlist.RectLTRB(100, 100, 150, 150), dlist.RectWH(200, 200), nil)
	if baked := tryBakeOpState(alloc, st.CurrentSnapshot(), op); baked != nil {
		t.Fatalf("op outside clip baked with bounds %v", baked.State.ClippedBounds)
	}
}

func TestResolveStateComposesLocalMatrix(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(200, 200))
	st.Translate(30, 0)
	alloc := arena.New()

	op := rectOp(dlist.RectWH(10, 10), dlist.RectWH(200, 200), nil)
	op.LocalMatrix = dlist.Translation(10, 0)
	baked := tryBakeOpState(alloc, st.CurrentSnapshot(), op)
	if baked == nil {
		t.Fatal("op rejected")
	}
	want := dlist.RectLTRB(40, 0, 50, 10)
	if baked.State.ClippedBounds != want {
		t.Errorf("ClippedBounds = %v, want %v", baked.State.ClippedBounds, want)
	}
	wantTransform := st.CurrentTransform().Multiply(op.LocalMatrix)
	if baked.State.Transform != wantTransform {
		t.Errorf("Transform = %v, want %v", baked.State.Transform, wantTransform)
	}
}

func TestStrokeExpansion(t *testing.T) {
	opBounds := dlist.RectLTRB(10, 10, 50, 50)
	tests := []struct {
		name     string
		paint    *dlist.Paint
		behavior strokeBehavior
		scale    float32
		want     dlist.Rect
	}{
		{
			// Fill style never expands, whatever the stroke width says.
			name:     "fill untouched",
			paint:    &dlist.Paint{Color: 0xff000000, StrokeWidth: 4},
			behavior: strokeStyleDefined,
			scale:    1,
			want:     opBounds,
		},
		{
			name:     "stroke half width",
			paint:    &dlist.Paint{Color: 0xff000000, Style: dlist.PaintStyleStroke, StrokeWidth: 4},
			behavior: strokeStyleDefined,
			scale:    1,
			want:     dlist.RectLTRB(8, 8, 52, 52),
		},
		{
			// Hairline strokes get the extra half pixel for the AA ramp.
			name:     "hairline",
			paint:    &dlist.Paint{Color: 0xff000000, Style: dlist.PaintStyleStroke},
			behavior: strokeStyleDefined,
			scale:    1,
			want:     dlist.RectLTRB(9.5, 9.5, 50.5, 50.5),
		},
		{
			// Inherently stroked geometry expands without a paint.
			name:     "forced without paint",
			paint:    nil,
			behavior: strokeForced,
			scale:    1,
			want:     dlist.RectLTRB(9.5, 9.5, 50.5, 50.5),
		},
		{
			// Scaled transforms are not pure translates, so the half
			// pixel applies even to wide strokes.
			name:     "stroke under scale",
			paint:    &dlist.Paint{Color: 0xff000000, Style: dlist.PaintStyleStroke, StrokeWidth: 4},
			behavior: strokeStyleDefined,
			scale:    2,
			want:     dlist.RectLTRB(15.5, 15.5, 104.5, 104.5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := bakeState(400, 400, dlist.RectWH(400, 400))
			if tt.scale != 1 {
				st.Scale(tt.scale, tt.scale)
			}
			alloc := arena.New()

			op := rectOp(opBounds, dlist.RectWH(400, 400), tt.paint)
			baked := tryBakeStrokeableOpState(alloc, st.CurrentSnapshot(), op, tt.behavior)
			if baked == nil {
				t.Fatal("op rejected")
			}
			if baked.State.ClippedBounds != tt.want {
				t.Errorf("ClippedBounds = %v, want %v", baked.State.ClippedBounds, tt.want)
			}
		})
	}
}

func TestShadowBakeCoversClip(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(120, 80))
	st.Translate(5, 5)
	alloc := arena.New()

	op := &record.ShadowOp{OpBase: record.OpBase{LocalMatrix: dlist.Identity()}}
	baked := tryBakeShadowOpState(alloc, st.CurrentSnapshot(), op)
	if baked == nil {
		t.Fatal("shadow rejected under open clip")
	}
	if want := dlist.RectWH(120, 80); baked.State.ClippedBounds != want {
		t.Errorf("ClippedBounds = %v, want clip %v", baked.State.ClippedBounds, want)
	}
	if baked.State.ClipSideFlags != ClipSideFull {
		t.Errorf("ClipSideFlags = %04b, want full", baked.State.ClipSideFlags)
	}
	// Shadows take the snapshot transform untouched; the caster
	// transform travels in the op itself.
	if baked.State.Transform != st.CurrentTransform() {
		t.Errorf("Transform = %v, want snapshot transform", baked.State.Transform)
	}
}

func TestShadowBakeRejectsEmptyClip(t *testing.T) {
	st := bakeState(200, 200, dlist.Rect{})
	alloc := arena.New()

	op := &record.ShadowOp{OpBase: record.OpBase{LocalMatrix: dlist.Identity()}}
	if baked := tryBakeShadowOpState(alloc, st.CurrentSnapshot(), op); baked != nil {
		t.Fatal("shadow baked under empty clip")
	}
}

func TestBakeCarriesSnapshotState(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(200, 200))
	st.ScaleAlpha(0.5)
	rr := &canvas.RoundRectClip{Rect: dlist.RectWH(100, 100), Radius: 8, Matrix: dlist.Identity()}
	st.WritableSnapshot().RoundRectClip = rr
	alloc := arena.New()

	op := rectOp(dlist.RectWH(50, 50), dlist.RectWH(200, 200), nil)
	baked := tryBakeOpState(alloc, st.CurrentSnapshot(), op)
	if baked == nil {
		t.Fatal("op rejected")
	}
	if baked.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want 0.5", baked.Alpha)
	}
	if baked.RoundRectClip != rr {
		t.Error("RoundRectClip pointer not carried from snapshot")
	}
	if baked.Op != record.Op(op) {
		t.Error("baked state does not reference its op")
	}
}

func TestBakedOpsShareSerializedClip(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(200, 200))
	alloc := arena.New()

	localClip := dlist.RectWH(200, 200)
	a := tryBakeOpState(alloc, st.CurrentSnapshot(), rectOp(dlist.RectWH(50, 50), localClip, nil))
	b := tryBakeOpState(alloc, st.CurrentSnapshot(), rectOp(dlist.RectLTRB(60, 0, 110, 50), localClip, nil))
	if a == nil || b == nil {
		t.Fatal("op rejected")
	}
	if a.State.ClipState != b.State.ClipState {
		t.Error("ops baked under the same clip do not share the serialized snapshot")
	}
}

func TestBakeRewindsRejectedState(t *testing.T) {
	st := bakeState(200, 200, dlist.RectWH(30, 30))
	alloc := arena.New()

	// Rejected bake hands its slot back, so the next baked state reuses it.
	rejected := arena.Alloc[BakedOpState](alloc)
	if !arena.Rewind(alloc, rejected) {
		t.Fatal("fresh allocation did not rewind")
	}
	if tryBakeOpState(alloc, st.CurrentSnapshot(),
		rectOp(dlist.RectLTRB(100, 100, 150, 150), dlist.RectWH(200, 200), nil)) != nil {
		t.Fatal("clipped-out op baked")
	}
	accepted := tryBakeOpState(alloc, st.CurrentSnapshot(),
		rectOp(dlist.RectWH(20, 20), dlist.RectWH(200, 200), nil))
	if accepted == nil {
		t.Fatal("op rejected")
	}
	if accepted != rejected {
		t.Error("rejected bake did not return its slot to the arena")
	}
}
