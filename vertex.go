package dlist

// Vertex is a 2D position used by pre-tessellated rect runs.
type Vertex struct {
	X, Y float32
}

// V is shorthand for constructing a Vertex.
func V(x, y float32) Vertex { return Vertex{X: x, Y: y} }
