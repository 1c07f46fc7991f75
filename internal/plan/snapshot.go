package plan

import (
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/axis"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/measurement"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Snapshot is everything a display needs to draw the current plan
type Snapshot struct {
	Frame            uint64              `json:"frame"`
	Landmarks        []landmark.Landmark `json:"landmarks"`
	Missing          []landmark.Name     `json:"missing"`
	Axes             []axis.Axis         `json:"axes"`
	Planes           []PlaneState        `json:"planes"`
	Lines            []LineState         `json:"lines"`
	Labels           []measurement.Label `json:"labels"`
	Measurements     *Measurements       `json:"measurements,omitempty"`
	Parameters       Parameters          `json:"parameters"`
	Controls         ControlValues       `json:"controls"`
	Enabled          Enablement          `json:"enabled"`
	ResectionVisible bool                `json:"resectionVisible"`
	SceneCounts      map[string]int      `json:"sceneCounts"`
	Bones            []BoneState         `json:"bones"`
}

// PlaneState is the display state of one derived plane
type PlaneState struct {
	Role        Role                `json:"role"`
	Origin      geometry.Vector3    `json:"origin"`
	Orientation geometry.Quaternion `json:"orientation"`
	Normal      geometry.Vector3    `json:"normal"`
	Size        float64             `json:"size"`
	Visible     bool                `json:"visible"`
}

// LineState is one auxiliary line and the plane that owns it
type LineState struct {
	Name    string           `json:"name"`
	Owner   Role             `json:"owner"`
	Segment geometry.Segment `json:"segment"`
}

// Measurements are the resection depths at the distal condyles
type Measurements struct {
	MedialMM    float64 `json:"medialMm"`
	LateralMM   float64 `json:"lateralMm"`
	MedialText  string  `json:"medialText"`
	LateralText string  `json:"lateralText"`
}

// Enablement reports which actions are currently available
type Enablement struct {
	CreateAxes    bool `json:"createAxes"`
	CreatePlanes  bool `json:"createPlanes"`
	PlaneControls bool `json:"planeControls"`
}

// BoneState is the clip state of one bone mesh
type BoneState struct {
	Name string          `json:"name"`
	Clip *geometry.Plane `json:"clip,omitempty"`
}

// Snapshot captures the current pipeline state
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Frame:      e.frames,
		Landmarks:  e.landmarks.Placed(),
		Missing:    e.landmarks.Missing(),
		Axes:       append([]axis.Axis(nil), e.axes...),
		Parameters: e.params,
		Controls:   e.params.Display(),
		Enabled: Enablement{
			CreateAxes:    e.canCreateAxes,
			CreatePlanes:  e.canCreatePlanes,
			PlaneControls: e.planeControls,
		},
		ResectionVisible: e.resectionVisible,
		SceneCounts:      e.registry.CountByRole(),
	}

	for _, role := range Roles {
		p := e.Plane(role)
		if p == nil {
			continue
		}
		s.Planes = append(s.Planes, PlaneState{
			Role:        p.Role,
			Origin:      p.Origin,
			Orientation: p.Orientation,
			Normal:      p.Normal(),
			Size:        p.Size,
			Visible:     p.Visible,
		})
		for _, l := range p.Lines {
			s.Lines = append(s.Lines, LineState{Name: l.Name, Owner: p.Role, Segment: l.Segment})
		}
	}

	if res, ok := e.Resection(); ok {
		s.Labels = []measurement.Label{res.Medial.Label, res.Lateral.Label}
		s.Measurements = &Measurements{
			MedialMM:    res.Medial.DistanceMM,
			LateralMM:   res.Lateral.DistanceMM,
			MedialText:  res.Medial.Label.Text,
			LateralText: res.Lateral.Label.Text,
		}
	}

	for _, b := range e.bones {
		state := BoneState{Name: b.Name()}
		if clip, ok := b.ClipPlane(); ok {
			state.Clip = &clip
		}
		s.Bones = append(s.Bones, state)
	}
	return s
}

// Plane returns the state of role from the snapshot
func (s Snapshot) Plane(role Role) (PlaneState, bool) {
	for _, p := range s.Planes {
		if p.Role == role {
			return p, true
		}
	}
	return PlaneState{}, false
}
