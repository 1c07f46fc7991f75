package plan

import (
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/axis"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// The geometric constructions below are pure: each stage's output depends only
// on its immediate upstream stage and its own parameter.

const (
	anteriorLineLength = 5.0
	lateralLineLength  = 10.0
	millimetersPerUnit = 1000.0
)

// MechanicalFrame is the mechanical axis plane with its two auxiliary lines
type MechanicalFrame struct {
	Normal       geometry.Vector3
	Orientation  geometry.Quaternion
	Size         float64
	ProjectedTEA geometry.Segment
	Anterior     geometry.Segment
}

// NewMechanicalFrame builds the reference plane through the model origin
// perpendicular to the mechanical axis, then projects the epicondyles onto it.
func NewMechanicalFrame(hip, medialEpicondyle, lateralEpicondyle geometry.Vector3) (MechanicalFrame, error) {
	origin := axis.Origin
	axisVec := hip.Sub(origin)
	if axisVec.Length() < geometry.Tolerance {
		return MechanicalFrame{}, ErrDegenerate
	}

	normal := axisVec.Normalize()
	tea := ProjectTEA(normal, origin, medialEpicondyle, lateralEpicondyle)
	return MechanicalFrame{
		Normal:       normal,
		Orientation:  geometry.QuaternionFromUnitVectors(geometry.UnitZ, normal),
		Size:         hip.Distance(origin) * 2,
		ProjectedTEA: tea,
		Anterior:     AnteriorLine(origin, tea, anteriorLineLength),
	}, nil
}

// ProjectTEA projects both epicondyles onto the plane through origin with the given normal
func ProjectTEA(normal, origin, medial, lateral geometry.Vector3) geometry.Segment {
	return geometry.NewSegment(
		geometry.ProjectPointOntoPlane(medial, normal, origin),
		geometry.ProjectPointOntoPlane(lateral, normal, origin),
	)
}

// AnteriorLine runs length units from origin perpendicular to the projected TEA
// in the horizontal plane. The direction is flipped to positive Z, which is
// anterior for bone models loaded in the default orientation.
func AnteriorLine(origin geometry.Vector3, projectedTEA geometry.Segment, length float64) geometry.Segment {
	tea := projectedTEA.Direction()
	perp := geometry.NewVector3(tea.Z, 0, -tea.X).Normalize()
	if perp.Z < 0 {
		perp = perp.Negate()
	}
	return geometry.NewSegment(origin, origin.Add(perp.Mul(length)))
}

// VarusValgusOrientation rotates base about its own Y axis by degrees
func VarusValgusOrientation(base geometry.Quaternion, degrees float64) geometry.Quaternion {
	return base.RotateLocal(geometry.UnitY, geometry.DegToRad(degrees))
}

// LateralLine runs from origin along anterior × normal
func LateralLine(origin, anteriorDir, normal geometry.Vector3) geometry.Segment {
	dir := anteriorDir.Cross(normal).Normalize()
	return geometry.NewSegment(origin, origin.Add(dir.Mul(lateralLineLength)))
}

// FlexionExtensionOrientation rotates the varus/valgus orientation about its
// local X axis expressed in world coordinates
func FlexionExtensionOrientation(varusValgus geometry.Quaternion, degrees float64) geometry.Quaternion {
	lateral := varusValgus.LocalX()
	return varusValgus.RotateWorld(lateral, geometry.DegToRad(degrees))
}

// FlexionAxisLine spans the plane width along the plane's local X axis
func FlexionAxisLine(origin geometry.Vector3, orientation geometry.Quaternion, size float64) geometry.Segment {
	half := orientation.Rotate(geometry.NewVector3(size/2, 0, 0))
	return geometry.NewSegment(origin.Sub(half), origin.Add(half))
}

// DistalMedialOrigin is the midpoint of the two distal condyle points
func DistalMedialOrigin(medial, lateral geometry.Vector3) geometry.Vector3 {
	return medial.Add(lateral).Mul(0.5)
}

// ResectionOrigin offsets origin along normal by depth millimeters
func ResectionOrigin(origin, normal geometry.Vector3, depthMM float64) geometry.Vector3 {
	return origin.Add(normal.Mul(depthMM / millimetersPerUnit))
}
