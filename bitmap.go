// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dlist

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

var bitmapGeneration atomic.Uint64

// Bitmap is an immutable pixel buffer referenced by recorded ops.
//
// Each bitmap carries a process-unique generation ID. The batching
// engine uses the generation ID as the merge identity for bitmap ops:
// draws of the same bitmap can collapse into one merged draw call.
type Bitmap struct {
	Width, Height int
	Format        gputypes.TextureFormat

	// Pix holds CPU pixels in row-major order when the bitmap is
	// software-backed; nil for texture-only bitmaps. RGBA8 bitmaps use
	// 4 bytes per pixel, R8 (alpha-only) bitmaps use 1.
	Pix []byte

	gen uint64
}

// NewBitmap allocates an RGBA8 software bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pix:    make([]byte, width*height*4),
		gen:    bitmapGeneration.Add(1),
	}
}

// NewAlpha8Bitmap allocates an alpha-only software bitmap. Alpha-only
// bitmaps are drawn modulated by the paint color and never merge.
func NewAlpha8Bitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatR8Unorm,
		Pix:    make([]byte, width*height),
		gen:    bitmapGeneration.Add(1),
	}
}

// GenerationID returns the process-unique identity of the pixel data.
func (b *Bitmap) GenerationID() uint64 { return b.gen }

// IsAlpha8 reports whether the bitmap stores coverage only.
func (b *Bitmap) IsAlpha8() bool {
	return b.Format == gputypes.TextureFormatR8Unorm
}

// Bounds returns the bitmap extent as a Rect at the origin.
func (b *Bitmap) Bounds() Rect {
	return RectWH(float32(b.Width), float32(b.Height))
}
