package geometry

// Transform places a model in the scene: scale first, then rotate (XYZ Euler angles in
// radians), then translate.
type Transform struct {
	Position Vector3 `json:"position" yaml:"position"`
	Scale    Vector3 `json:"scale" yaml:"scale"`
	Rotation Vector3 `json:"rotation" yaml:"rotation"`
}

// IdentityTransform returns a transform with unit scale and no rotation or translation
func IdentityTransform() Transform {
	return Transform{Scale: NewVector3(1, 1, 1)}
}

// Quaternion returns the rotation part of the transform
func (t Transform) Quaternion() Quaternion {
	return QuaternionFromEuler(t.Rotation)
}

// Apply maps a model-space point into the scene
func (t Transform) Apply(v Vector3) Vector3 {
	return t.Quaternion().Rotate(v.MulComponents(t.Scale)).Add(t.Position)
}

// ApplyTriangle maps all three vertices of a triangle and recomputes its normal
func (t Transform) ApplyTriangle(tri Triangle) Triangle {
	q := t.Quaternion()
	apply := func(v Vector3) Vector3 {
		return q.Rotate(v.MulComponents(t.Scale)).Add(t.Position)
	}
	out := NewTriangle(Vector3{}, apply(tri.V1), apply(tri.V2), apply(tri.V3))
	out.Normal = out.CalculateNormal()
	return out
}
