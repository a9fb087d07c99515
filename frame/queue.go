// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"github.com/gogpu/dlist"
	"github.com/gogpu/dlist/record"
)

// LayerUpdateEntry is one node layer scheduled for repaint, with the
// accumulated damage in layer-local pixels.
type LayerUpdateEntry struct {
	Node   *record.Node
	Damage dlist.Rect
}

// LayerUpdateQueue accumulates damaged node layers between frames. The
// frame builder consumes it at construction, deferring the entries in
// reverse so replay repaints them in enqueue order.
type LayerUpdateQueue struct {
	entries []LayerUpdateEntry
}

// Enqueue schedules node's layer for repaint. Damage snaps to pixel
// boundaries and clips to the layer bounds; repeated enqueues of the
// same node accumulate into one entry.
func (q *LayerUpdateQueue) Enqueue(node *record.Node, damage dlist.Rect) {
	damage = damage.SnapToPixelBoundaries().
		Intersect(dlist.RectWH(float32(node.Width()), float32(node.Height())))
	if damage.IsEmpty() {
		return
	}
	for i := range q.entries {
		if q.entries[i].Node == node {
			q.entries[i].Damage = q.entries[i].Damage.Union(damage)
			return
		}
	}
	q.entries = append(q.entries, LayerUpdateEntry{Node: node, Damage: damage})
}

// Entries returns the scheduled repaints in enqueue order.
func (q *LayerUpdateQueue) Entries() []LayerUpdateEntry { return q.entries }

// Clear empties the queue, typically after a frame consumed it.
func (q *LayerUpdateQueue) Clear() { q.entries = nil }
