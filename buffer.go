// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

import "github.com/gogpu/gputypes"

// OffscreenBuffer is a render target detached from the frame target.
// Save layers render into temporary buffers allocated during replay;
// nodes promoted to hardware layers hold a persistent buffer across
// frames.
//
// The deferred pipeline never touches pixels. Handle is owned by the
// renderer that created the buffer (a texture ID, an *image.RGBA, ...)
// and is carried through untouched.
type OffscreenBuffer struct {
	Width, Height int
	Format        gputypes.TextureFormat

	// Handle is the renderer-owned backing store.
	Handle any

	// HasRenderedSinceRepaint is cleared when a repaint is queued and
	// set once the layer's content has been replayed into the buffer.
	HasRenderedSinceRepaint bool
}

// NewOffscreenBuffer constructs a buffer descriptor in the default
// RGBA8 format. The backing store is attached later by the renderer.
func NewOffscreenBuffer(width, height int) *OffscreenBuffer {
	return &OffscreenBuffer{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// SizeBytes estimates the memory footprint of the backing store, used
// for pool accounting.
func (b *OffscreenBuffer) SizeBytes() int {
	bpp := 4
	if b.Format == gputypes.TextureFormatR8Unorm {
		bpp = 1
	}
	return b.Width * b.Height * bpp
}
