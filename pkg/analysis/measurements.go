package analysis

import (
	"fmt"
	"math"

	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/stl"
)

// MeasurementResult contains various measurements of a bone mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// AnalyzeModel performs comprehensive analysis on an STL model
func AnalyzeModel(model *stl.Model) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
		Volume:        MeshVolume(model),
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
			result.EdgeCount++
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// MeshVolume returns the enclosed volume of a closed mesh using signed tetrahedra.
// Open or inconsistently wound meshes give meaningless values.
func MeshVolume(model *stl.Model) float64 {
	volume := 0.0
	for _, t := range model.Triangles {
		volume += t.V1.Dot(t.V2.Cross(t.V3)) / 6.0
	}
	return math.Abs(volume)
}

// ClipResult counts how a clipping plane partitions a mesh.
// Kept triangles lie on the positive side of the plane, which a renderer keeps visible.
type ClipResult struct {
	Kept        int
	Removed     int
	Cut         int
	RemovedArea float64
}

// ClipStats classifies every triangle of the model against plane
func ClipStats(model *stl.Model, plane geometry.Plane) ClipResult {
	var res ClipResult
	for _, tri := range model.Triangles {
		switch tri.Side(plane) {
		case 1:
			res.Kept++
		case -1:
			res.Removed++
			res.RemovedArea += tri.Area()
		default:
			res.Cut++
		}
	}
	return res
}

// FindNearestVertex finds the vertex in the model nearest to a given point
func FindNearestVertex(model *stl.Model, point geometry.Vector3) (geometry.Vector3, float64) {
	var nearestVertex geometry.Vector3
	minDistance := math.MaxFloat64

	for _, triangle := range model.Triangles {
		for _, vertex := range triangle.Vertices() {
			distance := point.Distance(vertex)
			if distance < minDistance {
				minDistance = distance
				nearestVertex = vertex
			}
		}
	}

	return nearestVertex, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
