package plan

import (
	"fmt"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/scene"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Role names one of the derived planes
type Role string

const (
	MechanicalAxisPlane   Role = "mechanicalAxisPlane"
	VarusValgusPlane      Role = "varusValgusPlane"
	FlexionExtensionPlane Role = "flexionExtensionPlane"
	DistalMedialPlane     Role = "distalMedialPlane"
	DistalResectionPlane  Role = "distalResectionPlane"
)

// Roles lists the planes from upstream to downstream
var Roles = []Role{
	MechanicalAxisPlane,
	VarusValgusPlane,
	FlexionExtensionPlane,
	DistalMedialPlane,
	DistalResectionPlane,
}

// ParseRole validates a plane role name
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Auxiliary line names
const (
	LineProjectedTEA    = "projectedTEA"
	LineAnterior        = "anteriorLine"
	LineLateral         = "lateralLine"
	LineFlexionAxis     = "flexionExtensionAxis"
	LineMedialDistance  = "medialDistance"
	LineLateralDistance = "lateralDistance"
)

// Line is an auxiliary display line owned by a plane
type Line struct {
	Name    string           `json:"name"`
	Handle  scene.Handle     `json:"handle"`
	Segment geometry.Segment `json:"segment"`
}

// DerivedPlane is a square plane whose local +Z axis is its normal
type DerivedPlane struct {
	Role        Role
	Handle      scene.Handle
	Origin      geometry.Vector3
	Orientation geometry.Quaternion
	Size        float64
	Visible     bool

	// Owned holds every decoration released together with the plane
	Owned []scene.Handle
	Lines []Line
}

// Normal returns the plane normal in world coordinates
func (p *DerivedPlane) Normal() geometry.Vector3 {
	return p.Orientation.LocalZ()
}

// Plane returns the infinite plane through Origin
func (p *DerivedPlane) Plane() geometry.Plane {
	return geometry.NewPlaneFromNormalAndPoint(p.Normal(), p.Origin)
}

// Line returns the owned line called name
func (p *DerivedPlane) Line(name string) (Line, bool) {
	for _, l := range p.Lines {
		if l.Name == name {
			return l, true
		}
	}
	return Line{}, false
}

func (p *DerivedPlane) setLine(name string, seg geometry.Segment) {
	for i := range p.Lines {
		if p.Lines[i].Name == name {
			p.Lines[i].Segment = seg
			return
		}
	}
}
