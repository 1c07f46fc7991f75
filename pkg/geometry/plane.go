package geometry

import "math"

// Plane is the set of points p with Normal·p + Constant = 0
type Plane struct {
	Normal   Vector3 `json:"normal"`
	Constant float64 `json:"constant"`
}

// NewPlaneFromNormalAndPoint creates the plane with the given normal passing through point.
// The normal is used as given and should be unit length.
func NewPlaneFromNormalAndPoint(normal, point Vector3) Plane {
	return Plane{
		Normal:   normal,
		Constant: -point.Dot(normal),
	}
}

// DistanceToPoint returns the signed distance from the plane to point
func (p Plane) DistanceToPoint(point Vector3) float64 {
	return p.Normal.Dot(point) + p.Constant
}

// ProjectPoint projects point onto the plane along the normal
func (p Plane) ProjectPoint(point Vector3) Vector3 {
	return point.Sub(p.Normal.Mul(p.DistanceToPoint(point)))
}

// CoplanarPoint returns the point of the plane closest to the origin
func (p Plane) CoplanarPoint() Vector3 {
	return p.Normal.Mul(-p.Constant)
}

// IntersectLine intersects the infinite line through origin with direction dir.
// ok is false when the line is parallel to the plane and not contained in it.
func (p Plane) IntersectLine(origin, dir Vector3) (point Vector3, ok bool) {
	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < Tolerance {
		if math.Abs(p.DistanceToPoint(origin)) < Tolerance {
			return origin, true
		}
		return Vector3{}, false
	}
	t := -(origin.Dot(p.Normal) + p.Constant) / denom
	return origin.Add(dir.Mul(t)), true
}

// ProjectPointOntoPlane projects point onto the plane through planePoint with unit normal
func ProjectPointOntoPlane(point, normal, planePoint Vector3) Vector3 {
	distance := point.Sub(planePoint).Dot(normal)
	return point.Sub(normal.Mul(distance))
}
