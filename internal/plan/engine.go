// Package plan derives the resection planes from the placed landmarks and the
// live planning parameters.
//
// An Engine is owned by a single goroutine. Every user action is a Command
// applied through Dispatch, which is followed by the same refresh pass that
// runs on every frame.
package plan

import (
	"fmt"
	"log/slog"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/axis"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/measurement"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/scene"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Bone is a mesh that can be clipped by the resection plane
type Bone interface {
	Name() string
	SetClipPlane(p geometry.Plane)
	ClearClipPlane()
	ClipPlane() (geometry.Plane, bool)
}

// Options configures a new Engine
type Options struct {
	Parameters       Parameters
	ResectionVisible bool
	Logger           *slog.Logger

	// Snap moves a landmark placement onto the bone surface when requested
	Snap func(geometry.Vector3) geometry.Vector3
}

// Engine holds the pipeline state
type Engine struct {
	landmarks *landmark.Store
	registry  *scene.Registry
	log       *slog.Logger
	snap      func(geometry.Vector3) geometry.Vector3

	params           Parameters
	resectionVisible bool
	bones            []Bone
	hidden           map[Role]bool

	canCreateAxes   bool
	canCreatePlanes bool
	planeControls   bool

	axes        []axis.Axis
	axisHandles []scene.Handle

	mechanical       *DerivedPlane
	varusValgus      *DerivedPlane
	flexionExtension *DerivedPlane
	distalMedial     *DerivedPlane
	distalResection  *DerivedPlane

	anteriorDir geometry.Vector3
	resection   measurement.Resection
	resectionOK bool
	frames      uint64
}

// New creates an engine with an empty landmark store
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		landmarks:        landmark.NewStore(),
		registry:         scene.NewRegistry(),
		log:              logger,
		snap:             opts.Snap,
		params:           opts.Parameters.Clamped(),
		resectionVisible: opts.ResectionVisible,
		hidden:           make(map[Role]bool),
	}
	e.landmarks.OnChange(func(allPlaced bool) {
		e.canCreateAxes = allPlaced
	})
	return e
}

// Landmarks returns the landmark store
func (e *Engine) Landmarks() *landmark.Store { return e.landmarks }

// Registry returns the display object registry
func (e *Engine) Registry() *scene.Registry { return e.registry }

// Parameters returns the current parameter values
func (e *Engine) Parameters() Parameters { return e.params }

// ResectionVisible reports whether the bones are clipped by the resection plane
func (e *Engine) ResectionVisible() bool { return e.resectionVisible }

// Axes returns the axes drawn by the last CreateAxes
func (e *Engine) Axes() []axis.Axis { return e.axes }

// Plane returns the live plane for role, or nil
func (e *Engine) Plane(role Role) *DerivedPlane {
	switch role {
	case MechanicalAxisPlane:
		return e.mechanical
	case VarusValgusPlane:
		return e.varusValgus
	case FlexionExtensionPlane:
		return e.flexionExtension
	case DistalMedialPlane:
		return e.distalMedial
	case DistalResectionPlane:
		return e.distalResection
	}
	return nil
}

// Resection returns the latest medial and lateral resection measurements
func (e *Engine) Resection() (measurement.Resection, bool) {
	return e.resection, e.resectionOK
}

// SetBones attaches the bone meshes and applies the current clip state to them
func (e *Engine) SetBones(bones ...Bone) {
	e.bones = bones
	e.updateResectionVisibility()
}

// PlaceLandmark records a landmark, optionally snapped onto the bone surface
func (e *Engine) PlaceLandmark(name landmark.Name, position geometry.Vector3, snap bool) error {
	if snap && e.snap != nil {
		position = e.snap(position)
	}
	return e.landmarks.Place(name, position)
}

// CreateAxes derives the four clinical axes, replacing any drawn before.
// It is ignored until every required landmark is placed.
func (e *Engine) CreateAxes() {
	if !e.canCreateAxes {
		e.log.Debug("not all required landmarks have been placed", "missing", e.landmarks.Missing())
		return
	}

	axes, err := axis.All(e.landmarks)
	if err != nil {
		e.skip("axes", err)
		return
	}

	e.registry.Remove(e.axisHandles...)
	e.axisHandles = e.axisHandles[:0]
	for _, a := range axes {
		e.axisHandles = append(e.axisHandles, e.registry.Add(scene.KindAxis, string(a.Role)))
	}
	e.axes = axes
	e.canCreatePlanes = true
	e.log.Info("axes created", "count", len(axes))
}

// CreatePlanes builds the mechanical axis plane and every plane downstream of it
func (e *Engine) CreatePlanes() {
	if !e.canCreatePlanes {
		e.log.Debug("axes not created yet")
		return
	}
	e.buildMechanical()
}

// Adjust changes a parameter by delta within its range and rebuilds the stage it drives
func (e *Engine) Adjust(ch Channel, delta float64) error {
	if err := e.params.adjust(ch, delta); err != nil {
		return err
	}

	switch ch {
	case VarusValgus:
		if e.varusValgus != nil {
			e.buildVarusValgus()
		}
	case FlexionExtension:
		if e.flexionExtension != nil {
			e.buildFlexionExtension()
		}
	case ResectionDepth:
		e.buildDistalResection()
	}
	return nil
}

// ToggleResection switches bone clipping by the resection plane on or off
func (e *Engine) ToggleResection() {
	e.resectionVisible = !e.resectionVisible
	e.updateResectionVisibility()
}

// TogglePlane flips the visibility of the plane with the given role.
// Toggling a plane that does not exist yet has no effect.
func (e *Engine) TogglePlane(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	p := e.Plane(role)
	if p == nil {
		e.log.Debug("plane not created yet", "role", role)
		return nil
	}
	p.Visible = !p.Visible
	e.hidden[role] = !p.Visible
	return nil
}

// Frame refreshes every plane below the mechanical axis plane in dependency order. Each one recomputes
// from its upstream stage so that repeated frames do not accumulate error.
func (e *Engine) Frame() {
	e.frames++

	if e.varusValgus != nil && e.mechanical != nil {
		e.refreshVarusValgus()
	}
	if e.flexionExtension != nil && e.varusValgus != nil {
		e.refreshFlexionExtension()
	}
	if e.distalMedial != nil && e.flexionExtension != nil {
		if err := e.refreshDistalMedial(); err != nil {
			e.skip(string(DistalMedialPlane), err)
		}
	}
	if e.distalResection != nil && e.distalMedial != nil {
		e.refreshDistalResection()
	}
}

// Frames returns the number of frames run so far
func (e *Engine) Frames() uint64 { return e.frames }

func (e *Engine) skip(stage string, err error) {
	e.log.Debug("stage skipped", "stage", stage, "err", err)
}

func (e *Engine) newPlane(role Role, origin geometry.Vector3, orientation geometry.Quaternion, size float64) *DerivedPlane {
	return &DerivedPlane{
		Role:        role,
		Handle:      e.registry.Add(scene.KindPlane, string(role)),
		Origin:      origin,
		Orientation: orientation,
		Size:        size,
		Visible:     !e.hidden[role],
	}
}

func (e *Engine) attach(p *DerivedPlane, name string, seg geometry.Segment) {
	h := e.registry.Add(scene.KindLine, string(p.Role))
	p.Owned = append(p.Owned, h)
	p.Lines = append(p.Lines, Line{Name: name, Handle: h, Segment: seg})
}

func (e *Engine) release(p *DerivedPlane) {
	if p == nil {
		return
	}
	e.registry.Remove(p.Handle)
	e.registry.Remove(p.Owned...)
}

func missing(stage Role) error {
	return fmt.Errorf("%w: %s not created yet", ErrMissingDependency, stage)
}
