// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/gogpu/dlist"
)

func TestIdealDimension(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 64},
		{64, 64},
		{65, 128},
		{180, 192},
		{256, 256},
	}
	for _, tt := range tests {
		if got := idealDimension(tt.in); got != tt.want {
			t.Errorf("idealDimension(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPoolReusesByIdealDimensions(t *testing.T) {
	p := NewOffscreenBufferPool(8 << 20)

	b := p.Get(100, 200)
	if b.Width != 100 || b.Height != 200 {
		t.Fatalf("Get(100, 200) = %dx%d", b.Width, b.Height)
	}
	b.HasRenderedSinceRepaint = true
	p.Put(b)

	// Same rounded dimensions (128x256), different exact size: must reuse.
	got := p.Get(120, 220)
	if got != b {
		t.Fatal("pooled buffer with matching rounded dimensions not reused")
	}
	if got.Width != 120 || got.Height != 220 {
		t.Errorf("reused buffer resized to %dx%d, want 120x220", got.Width, got.Height)
	}
	if got.HasRenderedSinceRepaint {
		t.Error("reused buffer still marked as rendered")
	}
	if p.Count() != 0 || p.Size() != 0 {
		t.Errorf("pool not emptied by Get: count %d size %d", p.Count(), p.Size())
	}

	// Rounded dimensions differ: a fresh buffer comes back.
	other := p.Get(100, 200)
	if other == got {
		t.Fatal("Get returned a buffer that is still checked out")
	}
}

func TestPoolRefusesOversizedBuffer(t *testing.T) {
	p := NewOffscreenBufferPool(1024)
	p.Put(dlist.NewOffscreenBuffer(64, 64)) // 16K, over budget alone
	if p.Count() != 0 {
		t.Errorf("oversized buffer pooled: count %d", p.Count())
	}
}

func TestPoolEvictsOldestOverBudget(t *testing.T) {
	a := dlist.NewOffscreenBuffer(64, 64)
	b := dlist.NewOffscreenBuffer(64, 64)
	c := dlist.NewOffscreenBuffer(64, 64)
	each := a.SizeBytes()

	p := NewOffscreenBufferPool(2*each + 1)
	p.Put(a)
	p.Put(b)
	p.Put(c) // evicts a
	if p.Count() != 2 {
		t.Fatalf("pool count = %d, want 2", p.Count())
	}
	if p.Size() != 2*each {
		t.Errorf("pool size = %d, want %d", p.Size(), 2*each)
	}
	if got := p.Get(64, 64); got != b {
		t.Error("oldest surviving buffer not returned first")
	}
}

func TestPoolResize(t *testing.T) {
	p := NewOffscreenBufferPool(8 << 20)

	b := p.Get(100, 100)
	// Rounded dimensions unchanged: adjusted in place.
	if got := p.Resize(b, 120, 110); got != b {
		t.Error("resize within rounded dimensions replaced the buffer")
	} else if got.Width != 120 || got.Height != 110 {
		t.Errorf("resized to %dx%d, want 120x110", got.Width, got.Height)
	}

	// Rounded dimensions change: the old buffer returns to the pool.
	got := p.Resize(b, 300, 300)
	if got == b {
		t.Error("resize across rounded dimensions kept the buffer")
	}
	if got.Width != 300 || got.Height != 300 {
		t.Errorf("resized to %dx%d, want 300x300", got.Width, got.Height)
	}
	if p.Count() != 1 {
		t.Errorf("old buffer not pooled: count %d", p.Count())
	}
}

func TestPoolClear(t *testing.T) {
	p := NewOffscreenBufferPool(8 << 20)
	p.Put(dlist.NewOffscreenBuffer(64, 64))
	p.Put(dlist.NewOffscreenBuffer(128, 64))
	p.Clear()
	if p.Count() != 0 || p.Size() != 0 {
		t.Errorf("Clear left count %d size %d", p.Count(), p.Size())
	}
}
