// Package measurement computes the resection depth readouts shown next to the
// distal condyles.
package measurement

import (
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Measure intersects the line through point along the plane normal with plane.
// The second result is false when the line does not meet the plane.
func Measure(side Side, point geometry.Vector3, plane geometry.Plane) (DistanceLine, bool) {
	hit, ok := plane.IntersectLine(point, plane.Normal)
	if !ok {
		return DistanceLine{}, false
	}

	mm := point.Distance(hit) * MetersToMillimeters
	return DistanceLine{
		Side:       side,
		Segment:    geometry.NewSegment(point, hit),
		DistanceMM: mm,
		Label: Label{
			Text:     FormatMillimeters(mm),
			Position: hit,
		},
	}, true
}

// MeasureResection measures both distal points against plane
func MeasureResection(medial, lateral geometry.Vector3, plane geometry.Plane) (Resection, bool) {
	m, ok := Measure(Medial, medial, plane)
	if !ok {
		return Resection{}, false
	}
	l, ok := Measure(Lateral, lateral, plane)
	if !ok {
		return Resection{}, false
	}
	return Resection{Medial: m, Lateral: l}, true
}
