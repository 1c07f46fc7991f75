// Package axis derives the clinical reference axes from placed landmarks.
package axis

import (
	"fmt"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Role names the clinical meaning of an axis
type Role string

const (
	Mechanical        Role = "mechanical"
	Anatomical        Role = "anatomical"
	Transepicondylar  Role = "tea"
	PosteriorCondylar Role = "pca"
)

// Origin is the fixed model-space reference point the mechanical axis starts from
var Origin = geometry.Vector3{}

// Axis is a line between two points with a clinical role
type Axis struct {
	Role  Role             `json:"role"`
	Start geometry.Vector3 `json:"start"`
	End   geometry.Vector3 `json:"end"`
}

// Segment returns the axis as a line segment
func (a Axis) Segment() geometry.Segment {
	return geometry.NewSegment(a.Start, a.End)
}

// Direction returns the unit vector from Start to End
func (a Axis) Direction() geometry.Vector3 {
	return a.End.Sub(a.Start).Normalize()
}

// Landmarks is the read side of the landmark store
type Landmarks interface {
	Get(name landmark.Name) (geometry.Vector3, error)
}

// NewMechanical builds the axis from the model origin to the hip center
func NewMechanical(lm Landmarks) (Axis, error) {
	hip, err := lm.Get(landmark.HipCenter)
	if err != nil {
		return Axis{}, fmt.Errorf("mechanical axis: %w", err)
	}
	return Axis{Role: Mechanical, Start: Origin, End: hip}, nil
}

// NewAnatomical builds the femoral canal axis, proximal to distal
func NewAnatomical(lm Landmarks) (Axis, error) {
	return between(lm, Anatomical, landmark.FemurProximalCanal, landmark.FemurDistalCanal)
}

// NewTransepicondylar builds the axis from the medial to the lateral epicondyle
func NewTransepicondylar(lm Landmarks) (Axis, error) {
	return between(lm, Transepicondylar, landmark.MedialEpicondyle, landmark.LateralEpicondyle)
}

// NewPosteriorCondylar builds the axis between the posterior condyle points
func NewPosteriorCondylar(lm Landmarks) (Axis, error) {
	return between(lm, PosteriorCondylar, landmark.PosteriorMedialPt, landmark.PosteriorLateralPt)
}

// All builds the four axes in a fixed order. It fails on the first missing landmark.
func All(lm Landmarks) ([]Axis, error) {
	builders := []func(Landmarks) (Axis, error){
		NewMechanical,
		NewAnatomical,
		NewTransepicondylar,
		NewPosteriorCondylar,
	}

	axes := make([]Axis, 0, len(builders))
	for _, build := range builders {
		a, err := build(lm)
		if err != nil {
			return nil, err
		}
		axes = append(axes, a)
	}
	return axes, nil
}

func between(lm Landmarks, role Role, from, to landmark.Name) (Axis, error) {
	start, err := lm.Get(from)
	if err != nil {
		return Axis{}, fmt.Errorf("%s axis: %w", role, err)
	}
	end, err := lm.Get(to)
	if err != nil {
		return Axis{}, fmt.Errorf("%s axis: %w", role, err)
	}
	return Axis{Role: role, Start: start, End: end}, nil
}
