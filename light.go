package dlist

// LightGeometry positions the scene light used to synthesize shadows
// for elevated nodes. It is passed explicitly to the frame builder;
// there is no process-global light.
type LightGeometry struct {
	// CenterX, CenterY, CenterZ locate the light in frame coordinates.
	CenterX, CenterY, CenterZ float32
	// Radius is the light's physical radius, controlling penumbra size.
	Radius float32
}
