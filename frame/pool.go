// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import "github.com/gogpu/dlist"

// layerDimensionGranularity rounds layer buffer dimensions up so that
// slightly different layer sizes reuse the same pooled buffer.
const layerDimensionGranularity = 64

func idealDimension(d int) int {
	return (d + layerDimensionGranularity - 1) &^ (layerDimensionGranularity - 1)
}

// OffscreenBufferPool recycles layer buffers across frames. Buffers are
// pooled by their rounded-up dimensions; a returned buffer that alone
// exceeds the pool budget is dropped rather than cached.
//
// The pool is not safe for concurrent use.
type OffscreenBufferPool struct {
	maxSize int
	size    int
	pool    []*dlist.OffscreenBuffer
}

// NewOffscreenBufferPool returns a pool holding at most maxBytes of
// buffer memory.
func NewOffscreenBufferPool(maxBytes int) *OffscreenBufferPool {
	return &OffscreenBufferPool{maxSize: maxBytes}
}

// Get returns a buffer for a width x height layer, reusing a pooled
// buffer with the same rounded dimensions when one exists.
func (p *OffscreenBufferPool) Get(width, height int) *dlist.OffscreenBuffer {
	iw, ih := idealDimension(width), idealDimension(height)
	for i, b := range p.pool {
		if idealDimension(b.Width) == iw && idealDimension(b.Height) == ih {
			p.pool = append(p.pool[:i], p.pool[i+1:]...)
			p.size -= b.SizeBytes()
			b.Width = width
			b.Height = height
			b.HasRenderedSinceRepaint = false
			return b
		}
	}
	return dlist.NewOffscreenBuffer(width, height)
}

// Put returns a buffer to the pool, evicting the oldest pooled buffers
// until it fits. A buffer bigger than the whole budget is refused.
func (p *OffscreenBufferPool) Put(b *dlist.OffscreenBuffer) {
	size := b.SizeBytes()
	if size >= p.maxSize {
		dlist.Logger().Warn("offscreen buffer exceeds pool budget, dropping",
			"width", b.Width, "height", b.Height, "bytes", size)
		return
	}
	for p.size+size > p.maxSize && len(p.pool) > 0 {
		victim := p.pool[0]
		p.pool = p.pool[1:]
		p.size -= victim.SizeBytes()
	}
	p.pool = append(p.pool, b)
	p.size += size
}

// Resize adjusts a buffer to new dimensions. When the rounded
// dimensions do not change, the buffer is adjusted in place; otherwise
// it returns to the pool and a replacement comes back.
func (p *OffscreenBufferPool) Resize(b *dlist.OffscreenBuffer, width, height int) *dlist.OffscreenBuffer {
	if idealDimension(b.Width) == idealDimension(width) &&
		idealDimension(b.Height) == idealDimension(height) {
		b.Width = width
		b.Height = height
		return b
	}
	p.Put(b)
	return p.Get(width, height)
}

// Count returns the number of pooled buffers.
func (p *OffscreenBufferPool) Count() int { return len(p.pool) }

// Size returns the pooled buffer memory in bytes.
func (p *OffscreenBufferPool) Size() int { return p.size }

// Clear drops every pooled buffer.
func (p *OffscreenBufferPool) Clear() {
	p.pool = nil
	p.size = 0
}
