// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import "github.com/gogpu/dlist"

// Properties are the per-node attributes the deferral engine resolves
// into drawing state: bounds clipping, soft alpha, elevation for Z
// reordering and shadows, projection roles, and the outline.
type Properties struct {
	// Alpha in [0, 1] multiplies into every descendant op. Zero alpha
	// rejects the subtree.
	Alpha float32

	// Elevation lifts the node out of recording order inside a
	// reordered chunk. Positive elevations also cast shadows when the
	// outline closes.
	Elevation float32

	// TransformMatrix, when non-nil, applies after the node's placement
	// transform recorded by the parent.
	TransformMatrix *dlist.Matrix4

	// ClipToBounds clips descendants to the node's (0,0,w,h) rect.
	ClipToBounds bool

	// ProjectBackwards removes the node from in-order drawing and
	// replays it onto the nearest enclosing projection receiver.
	ProjectBackwards bool

	// ProjectionReceiver marks the node's background op as the surface
	// that descendants' projected content replays onto.
	ProjectionReceiver bool

	Outline dlist.Outline

	// LayerAlpha applies when the node renders through a persistent
	// layer.
	LayerAlpha float32
}

// Node is a retained content node: a display list plus resolved
// properties, optionally promoted to a persistent offscreen layer.
//
// Recording (SetDisplayList, Mutate) happens on the owner's thread
// strictly before the node is handed to a frame builder; the deferral
// engine only reads.
type Node struct {
	name          string
	width, height int
	displayList   *DisplayList
	props         Properties

	// layer is non-nil while the node renders through a persistent
	// offscreen buffer. Held behind a stable handle so LayerOps built
	// before buffer allocation observe the final pointer.
	layer *dlist.OffscreenBuffer
}

// NewNode creates a node with default properties (opaque, clipped to
// bounds, no elevation).
func NewNode(name string, width, height int) *Node {
	return &Node{
		name:   name,
		width:  width,
		height: height,
		props: Properties{
			Alpha:        1,
			LayerAlpha:   1,
			ClipToBounds: true,
		},
	}
}

// Name returns the debug name given at construction.
func (n *Node) Name() string { return n.name }

// Width returns the node width in pixels.
func (n *Node) Width() int { return n.width }

// Height returns the node height in pixels.
func (n *Node) Height() int { return n.height }

// SetDisplayList swaps in new recorded content.
func (n *Node) SetDisplayList(d *DisplayList) { n.displayList = d }

// DisplayList returns the current recorded content, possibly nil.
func (n *Node) DisplayList() *DisplayList { return n.displayList }

// Properties returns the node's properties for reading.
func (n *Node) Properties() Properties { return n.props }

// MutateProperties edits the node's properties in place.
func (n *Node) MutateProperties(f func(*Properties)) { f(&n.props) }

// Layer returns the persistent layer buffer, or nil.
func (n *Node) Layer() *dlist.OffscreenBuffer { return n.layer }

// SetLayer attaches or detaches a persistent layer buffer.
func (n *Node) SetLayer(b *dlist.OffscreenBuffer) { n.layer = b }

// LayerHandle returns a stable handle to the layer pointer for LayerOps
// that outlive buffer (re)allocation.
func (n *Node) LayerHandle() **dlist.OffscreenBuffer { return &n.layer }

// NothingToDraw reports whether deferral can skip the node outright.
func (n *Node) NothingToDraw() bool {
	if n.props.Alpha <= 0 || n.width <= 0 || n.height <= 0 {
		return true
	}
	return n.layer == nil && (n.displayList == nil || !n.displayList.HasDrawOps())
}
