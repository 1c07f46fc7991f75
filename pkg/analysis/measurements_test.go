package analysis

import (
	"math"
	"testing"

	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/stl"
)

// unitCube returns a closed, outward-wound cube spanning [0,1]^3
func unitCube() *stl.Model {
	v := func(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }
	quads := [][4]geometry.Vector3{
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // bottom
		{v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)}, // top
		{v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)}, // front
		{v(0, 1, 0), v(0, 1, 1), v(1, 1, 1), v(1, 1, 0)}, // back
		{v(0, 0, 0), v(0, 0, 1), v(0, 1, 1), v(0, 1, 0)}, // left
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // right
	}
	model := stl.NewModel("cube")
	for _, q := range quads {
		a := geometry.NewTriangle(geometry.Vector3{}, q[0], q[1], q[2])
		b := geometry.NewTriangle(geometry.Vector3{}, q[0], q[2], q[3])
		a.Normal = a.CalculateNormal()
		b.Normal = b.CalculateNormal()
		model.AddTriangle(a)
		model.AddTriangle(b)
	}
	return model
}

func TestAnalyzeModel(t *testing.T) {
	result := AnalyzeModel(unitCube())

	if result.TriangleCount != 12 {
		t.Errorf("TriangleCount failed: expected 12, got %d", result.TriangleCount)
	}
	if result.EdgeCount != 36 {
		t.Errorf("EdgeCount failed: expected 36, got %d", result.EdgeCount)
	}
	if math.Abs(result.SurfaceArea-6.0) > 1e-10 {
		t.Errorf("SurfaceArea failed: expected 6, got %v", result.SurfaceArea)
	}
	if math.Abs(result.Volume-1.0) > 1e-10 {
		t.Errorf("Volume failed: expected 1, got %v", result.Volume)
	}
	if math.Abs(result.MinEdgeLength-1.0) > 1e-10 {
		t.Errorf("MinEdgeLength failed: expected 1, got %v", result.MinEdgeLength)
	}
	if math.Abs(result.MaxEdgeLength-math.Sqrt2) > 1e-10 {
		t.Errorf("MaxEdgeLength failed: expected sqrt(2), got %v", result.MaxEdgeLength)
	}
	if result.Dimensions != geometry.NewVector3(1, 1, 1) {
		t.Errorf("Dimensions failed: expected (1,1,1), got %v", result.Dimensions)
	}
}

func TestAnalyzeEmptyModel(t *testing.T) {
	result := AnalyzeModel(stl.NewModel("empty"))
	if result.EdgeCount != 0 || result.MinEdgeLength != 0 {
		t.Errorf("expected zero edge stats, got %+v", result)
	}
}

func TestClipStats(t *testing.T) {
	// keep everything above z = 0.5
	plane := geometry.NewPlaneFromNormalAndPoint(geometry.UnitZ, geometry.NewVector3(0, 0, 0.5))
	res := ClipStats(unitCube(), plane)

	if res.Kept != 2 || res.Removed != 2 || res.Cut != 8 {
		t.Errorf("ClipStats failed: expected 2 kept, 2 removed, 8 cut, got %+v", res)
	}
	if math.Abs(res.RemovedArea-1.0) > 1e-10 {
		t.Errorf("RemovedArea failed: expected 1, got %v", res.RemovedArea)
	}
}

func TestFindNearestVertex(t *testing.T) {
	nearest, dist := FindNearestVertex(unitCube(), geometry.NewVector3(0.9, 0.1, 1.2))
	if nearest != geometry.NewVector3(1, 0, 1) {
		t.Errorf("FindNearestVertex failed: expected (1,0,1), got %v", nearest)
	}
	expected := math.Sqrt(0.01 + 0.01 + 0.04)
	if math.Abs(dist-expected) > 1e-10 {
		t.Errorf("distance failed: expected %v, got %v", expected, dist)
	}
}

func TestFormatVector(t *testing.T) {
	got := FormatVector(geometry.NewVector3(1, -0.5, 0))
	if got != "(1.000000, -0.500000, 0.000000)" {
		t.Errorf("FormatVector failed: got %s", got)
	}
	if got := FormatMeasurement(2, ""); got != "2.000000 units" {
		t.Errorf("FormatMeasurement failed: got %s", got)
	}
}
