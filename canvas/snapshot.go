// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas maintains the save/restore stack of drawing state
// (transform, clip, alpha, viewport) shared by the recording canvas and
// the deferral engine.
package canvas

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/clip"
)

// Flags mark properties of one snapshot.
type Flags uint8

const (
	// FlagIsLayer marks the snapshot pushed by a save-layer or layer
	// repaint; content under it renders offscreen.
	FlagIsLayer Flags = 1 << iota
	// FlagIsFboLayer marks a layer with its own render target and
	// viewport (as opposed to an in-place saveLayerAlpha).
	FlagIsFboLayer
)

// RoundRectClip is the corner-clip state imposed by a node outline with
// a nonzero radius. It is referenced by pointer from every op baked
// under it; the batching engine treats distinct pointers as distinct
// clip state and refuses to merge across them.
type RoundRectClip struct {
	Matrix dlist.Matrix4
	Rect   dlist.Rect
	Radius float32
}

// ProjectionMask is the mask a projection receiver's rounded outline
// imposes on content projected onto it.
type ProjectionMask struct {
	Bounds    dlist.Rect
	Radius    float32
	Transform dlist.Matrix4
}

// Snapshot is one level of the canvas state stack.
type Snapshot struct {
	Flags Flags

	// Transform maps local space to render-target space.
	Transform dlist.Matrix4

	// Alpha is the accumulated soft alpha from node properties and
	// saveLayerAlpha, applied at bake time.
	Alpha float32

	RoundRectClip  *RoundRectClip
	ProjectionMask *ProjectionMask

	clipArea clip.Area

	viewportWidth, viewportHeight int

	// saveFlags records which parts of the parent state this snapshot
	// isolates; the rest writes through on restore.
	saveFlags SaveFlags
}

// Clip exposes the snapshot's mutable clip area.
func (s *Snapshot) Clip() *clip.Area { return &s.clipArea }

// ClipRect returns the enclosing clip rectangle in render-target space.
func (s *Snapshot) ClipRect() dlist.Rect { return s.clipArea.ClipRect() }

// SetClip replaces the clip with an axis-aligned render-target rect.
func (s *Snapshot) SetClip(left, top, right, bottom float32) {
	s.clipArea.SetClip(left, top, right, bottom)
}

// InitializeViewport resets the viewport extent and opens the clip to
// cover it.
func (s *Snapshot) InitializeViewport(width, height int) {
	s.viewportWidth = width
	s.viewportHeight = height
	s.clipArea.SetViewportDimensions(width, height)
}

// ViewportWidth returns the viewport width in pixels.
func (s *Snapshot) ViewportWidth() int { return s.viewportWidth }

// ViewportHeight returns the viewport height in pixels.
func (s *Snapshot) ViewportHeight() int { return s.viewportHeight }
