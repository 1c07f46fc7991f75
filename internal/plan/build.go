package plan

import (
	"fmt"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/axis"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/measurement"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/scene"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Each build releases the stage's current plane with everything it owns,
// constructs the replacement when its upstream stage exists and then rebuilds
// the next stage down. A stage that cannot be built is left empty, which in
// turn empties every stage below it.

func (e *Engine) buildMechanical() {
	e.release(e.mechanical)
	e.mechanical = nil

	frame, err := e.mechanicalFrame()
	if err != nil {
		e.skip(string(MechanicalAxisPlane), err)
	} else {
		p := e.newPlane(MechanicalAxisPlane, axis.Origin, frame.Orientation, frame.Size)
		e.attach(p, LineProjectedTEA, frame.ProjectedTEA)
		e.attach(p, LineAnterior, frame.Anterior)
		e.mechanical = p
		e.anteriorDir = frame.Anterior.Direction()
		e.planeControls = true
		e.log.Info("mechanical axis plane created", "size", frame.Size, "normal", frame.Normal)
	}

	e.buildVarusValgus()
}

func (e *Engine) mechanicalFrame() (MechanicalFrame, error) {
	hip, err := e.landmarks.Get(landmark.HipCenter)
	if err != nil {
		return MechanicalFrame{}, err
	}
	medial, err := e.landmarks.Get(landmark.MedialEpicondyle)
	if err != nil {
		return MechanicalFrame{}, err
	}
	lateral, err := e.landmarks.Get(landmark.LateralEpicondyle)
	if err != nil {
		return MechanicalFrame{}, err
	}
	frame, err := NewMechanicalFrame(hip, medial, lateral)
	if err != nil {
		return MechanicalFrame{}, fmt.Errorf("hip center at model origin: %w", err)
	}
	return frame, nil
}

func (e *Engine) buildVarusValgus() {
	e.release(e.varusValgus)
	e.varusValgus = nil

	if base := e.mechanical; base == nil {
		e.log.Debug("mechanical axis plane or anterior line not created yet")
	} else {
		p := e.newPlane(VarusValgusPlane, axis.Origin, VarusValgusOrientation(base.Orientation, e.params.VarusValgus), base.Size)
		e.attach(p, LineLateral, LateralLine(p.Origin, e.anteriorDir, p.Normal()))
		e.varusValgus = p
		e.log.Debug("varus/valgus plane updated", "angle", e.params.VarusValgus)
	}

	e.buildFlexionExtension()
}

func (e *Engine) buildFlexionExtension() {
	e.release(e.flexionExtension)
	e.flexionExtension = nil

	if base := e.varusValgus; base == nil {
		e.skip(string(FlexionExtensionPlane), missing(VarusValgusPlane))
	} else {
		p := e.newPlane(FlexionExtensionPlane, axis.Origin, FlexionExtensionOrientation(base.Orientation, e.params.FlexionExtension), base.Size)
		e.attach(p, LineFlexionAxis, FlexionAxisLine(p.Origin, p.Orientation, p.Size))
		e.flexionExtension = p
		e.log.Debug("flexion/extension plane updated", "angle", e.params.FlexionExtension)
	}

	e.buildDistalMedial()
}

func (e *Engine) buildDistalMedial() {
	e.release(e.distalMedial)
	e.distalMedial = nil

	if base := e.flexionExtension; base == nil {
		e.skip(string(DistalMedialPlane), missing(FlexionExtensionPlane))
	} else if origin, err := e.distalMidpoint(); err != nil {
		e.skip(string(DistalMedialPlane), err)
	} else {
		e.distalMedial = e.newPlane(DistalMedialPlane, origin, base.Orientation, base.Size)
		e.log.Debug("distal medial plane created", "origin", origin)
	}

	e.buildDistalResection()
}

func (e *Engine) buildDistalResection() {
	e.release(e.distalResection)
	e.distalResection = nil
	e.resectionOK = false

	base := e.distalMedial
	if base == nil {
		e.skip(string(DistalResectionPlane), missing(DistalMedialPlane))
		e.updateResectionVisibility()
		return
	}

	origin := ResectionOrigin(base.Origin, base.Normal(), e.params.ResectionDepth)
	p := e.newPlane(DistalResectionPlane, origin, base.Orientation, base.Size)
	e.attach(p, LineMedialDistance, geometry.Segment{})
	e.attach(p, LineLateralDistance, geometry.Segment{})
	for range 2 {
		p.Owned = append(p.Owned, e.registry.Add(scene.KindLabel, string(p.Role)))
	}
	e.distalResection = p
	e.log.Debug("distal resection plane created", "depth", e.params.ResectionDepth, "origin", origin)

	e.updateResectionVisibility()
	e.updateDistances()
}

func (e *Engine) refreshVarusValgus() {
	p := e.varusValgus
	p.Orientation = VarusValgusOrientation(e.mechanical.Orientation, e.params.VarusValgus)
	p.setLine(LineLateral, LateralLine(p.Origin, e.anteriorDir, p.Normal()))
}

func (e *Engine) refreshFlexionExtension() {
	p := e.flexionExtension
	p.Orientation = FlexionExtensionOrientation(e.varusValgus.Orientation, e.params.FlexionExtension)
	p.setLine(LineFlexionAxis, FlexionAxisLine(p.Origin, p.Orientation, p.Size))
}

func (e *Engine) refreshDistalMedial() error {
	p := e.distalMedial
	p.Orientation = e.flexionExtension.Orientation
	origin, err := e.distalMidpoint()
	if err != nil {
		return err
	}
	p.Origin = origin
	return nil
}

func (e *Engine) refreshDistalResection() {
	p := e.distalResection
	base := e.distalMedial
	p.Orientation = base.Orientation
	p.Origin = ResectionOrigin(base.Origin, base.Normal(), e.params.ResectionDepth)

	e.updateResectionVisibility()
	e.updateDistances()
}

func (e *Engine) distalMidpoint() (geometry.Vector3, error) {
	medial, err := e.landmarks.Get(landmark.DistalMedialPt)
	if err != nil {
		return geometry.Vector3{}, err
	}
	lateral, err := e.landmarks.Get(landmark.DistalLateralPt)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return DistalMedialOrigin(medial, lateral), nil
}

// updateResectionVisibility clips every bone by the resection plane while
// resection display is on and the plane exists, and clears the clip otherwise
func (e *Engine) updateResectionVisibility() {
	if e.distalResection == nil || !e.resectionVisible {
		for _, b := range e.bones {
			b.ClearClipPlane()
		}
		return
	}

	clip := e.distalResection.Plane()
	for _, b := range e.bones {
		b.SetClipPlane(clip)
	}
}

func (e *Engine) updateDistances() {
	p := e.distalResection
	medial, err := e.landmarks.Get(landmark.DistalMedialPt)
	if err != nil {
		e.skip("distance lines", err)
		return
	}
	lateral, err := e.landmarks.Get(landmark.DistalLateralPt)
	if err != nil {
		e.skip("distance lines", err)
		return
	}

	res, ok := measurement.MeasureResection(medial, lateral, p.Plane())
	if !ok {
		e.skip("distance lines", fmt.Errorf("%w: distal points do not meet the resection plane", ErrDegenerate))
		return
	}
	p.setLine(LineMedialDistance, res.Medial.Segment)
	p.setLine(LineLateralDistance, res.Lateral.Segment)
	e.resection = res
	e.resectionOK = true
}
