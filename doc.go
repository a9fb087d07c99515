// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dlist is the core of a retained-mode 2D deferred-rendering
// pipeline. Drawing commands are recorded into immutable display lists
// on one side, and at flush time baked, reordered, merged and replayed
// against an external renderer on the other.
//
// The pipeline has four stages:
//
//   - Recording: a [record.Canvas] captures draw calls, resolved clip
//     and transform state, and child-node references into a
//     [record.DisplayList].
//   - Deferral: a [frame.FrameBuilder] walks a forest of display lists,
//     resolving each op's final transform, clip and alpha into a baked
//     state, and routing it into per-layer batch lists.
//   - Batching: each render target's batch list reorders compatible ops
//     together and merges identical-state ops into single draw calls,
//     without ever changing what appears on screen.
//   - Replay: the batched frame is dispatched in order to a
//     [frame.Renderer] implementation.
//
// This root package holds the shared vocabulary: rectangles, matrices,
// paints, bitmaps, outlines and offscreen buffer descriptors. The
// subpackages arena, clip, canvas, record, frame and render build the
// stages on top of it.
package dlist
