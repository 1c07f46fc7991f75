package geometry

import (
	"math"
	"testing"
)

func TestPlaneProjectPointOnPlane(t *testing.T) {
	normal := NewVector3(0.2, 0.9, -0.4).Normalize()
	origin := NewVector3(0.1, -0.3, 0.05)
	plane := NewPlaneFromNormalAndPoint(normal, origin)

	// any point built from two in-plane directions lies on the plane
	u := normal.Cross(UnitX).Normalize()
	w := normal.Cross(u)
	onPlane := origin.Add(u.Mul(0.7)).Add(w.Mul(-1.3))

	got := plane.ProjectPoint(onPlane)
	if !got.ApproxEqual(onPlane, 1e-12) {
		t.Errorf("ProjectPoint failed: expected %v, got %v", onPlane, got)
	}

	got = ProjectPointOntoPlane(onPlane, normal, origin)
	if !got.ApproxEqual(onPlane, 1e-12) {
		t.Errorf("ProjectPointOntoPlane failed: expected %v, got %v", onPlane, got)
	}
}

func TestPlaneProjectPoint(t *testing.T) {
	plane := NewPlaneFromNormalAndPoint(UnitY, Vector3{})
	got := plane.ProjectPoint(NewVector3(-0.02, 0.5, 0.3))
	expected := NewVector3(-0.02, 0, 0.3)
	if !got.ApproxEqual(expected, 1e-12) {
		t.Errorf("ProjectPoint failed: expected %v, got %v", expected, got)
	}
}

func TestPlaneDistance(t *testing.T) {
	plane := NewPlaneFromNormalAndPoint(UnitZ, NewVector3(0, 0, 0.01))

	if math.Abs(plane.Constant+0.01) > 1e-12 {
		t.Errorf("Constant failed: expected -0.01, got %v", plane.Constant)
	}
	if d := plane.DistanceToPoint(Vector3{}); math.Abs(d+0.01) > 1e-12 {
		t.Errorf("DistanceToPoint failed: expected -0.01, got %v", d)
	}
	if p := plane.CoplanarPoint(); !p.ApproxEqual(NewVector3(0, 0, 0.01), 1e-12) {
		t.Errorf("CoplanarPoint failed: got %v", p)
	}
}

func TestPlaneIntersectLine(t *testing.T) {
	plane := NewPlaneFromNormalAndPoint(UnitZ, NewVector3(0.03, 0, 0.01))

	got, ok := plane.IntersectLine(NewVector3(0.06, 0, 0), UnitZ)
	if !ok {
		t.Fatalf("IntersectLine failed: expected intersection")
	}
	if !got.ApproxEqual(NewVector3(0.06, 0, 0.01), 1e-12) {
		t.Errorf("IntersectLine failed: expected (0.06, 0, 0.01), got %v", got)
	}

	// points beyond the plane still intersect along the line
	got, ok = plane.IntersectLine(NewVector3(0, 0, 0.5), UnitZ)
	if !ok || !got.ApproxEqual(NewVector3(0, 0, 0.01), 1e-12) {
		t.Errorf("IntersectLine failed: expected (0, 0, 0.01), got %v (ok=%v)", got, ok)
	}

	if _, ok := plane.IntersectLine(Vector3{}, UnitX); ok {
		t.Errorf("IntersectLine failed: expected no intersection for a parallel line")
	}
}

func TestSegment(t *testing.T) {
	s := SegmentFrom(Vector3{}, NewVector3(0, 0, 2), 5)
	if !s.End.ApproxEqual(NewVector3(0, 0, 5), 1e-12) {
		t.Errorf("SegmentFrom failed: got %v", s.End)
	}
	if math.Abs(s.Length()-5) > 1e-12 {
		t.Errorf("Length failed: expected 5, got %v", s.Length())
	}
	if !s.Direction().ApproxEqual(UnitZ, 1e-12) {
		t.Errorf("Direction failed: got %v", s.Direction())
	}
}

func TestTransformApply(t *testing.T) {
	tr := Transform{
		Position: NewVector3(0.17, -0.15, 0),
		Scale:    NewVector3(0.01, 0.01, 0.01),
		Rotation: NewVector3(-math.Pi/2, 0, 0),
	}

	// model +Z (up in the STL frame) maps to scene +Y after the -90° X rotation
	got := tr.Apply(NewVector3(0, 0, 100))
	expected := NewVector3(0.17, 0.85, 0)
	if !got.ApproxEqual(expected, 1e-12) {
		t.Errorf("Apply failed: expected %v, got %v", expected, got)
	}

	if got := IdentityTransform().Apply(NewVector3(1, 2, 3)); !got.ApproxEqual(NewVector3(1, 2, 3), 1e-12) {
		t.Errorf("IdentityTransform failed: got %v", got)
	}
}
