package measurement

import (
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Side selects the distal condyle a measurement belongs to
type Side string

const (
	Medial  Side = "medial"
	Lateral Side = "lateral"
)

// MetersToMillimeters converts scene units to millimeters
const MetersToMillimeters = 1000.0

// DistanceLine runs from a distal landmark to its intersection with the
// resection plane along the plane normal
type DistanceLine struct {
	Side       Side             `json:"side"`
	Segment    geometry.Segment `json:"segment"`
	DistanceMM float64          `json:"distanceMm"`
	Label      Label            `json:"label"`
}

// Resection holds the medial and lateral resection depths
type Resection struct {
	Medial  DistanceLine `json:"medial"`
	Lateral DistanceLine `json:"lateral"`
}

// Lines returns both distance lines, medial first
func (r Resection) Lines() []DistanceLine {
	return []DistanceLine{r.Medial, r.Lateral}
}
