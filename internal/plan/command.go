package plan

import (
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Command is one user action against the pipeline
type Command interface {
	Apply(e *Engine) error
}

// PlaceLandmark places or moves a landmark
type PlaceLandmark struct {
	Name     landmark.Name
	Position geometry.Vector3
	Snap     bool
}

func (c PlaceLandmark) Apply(e *Engine) error {
	return e.PlaceLandmark(c.Name, c.Position, c.Snap)
}

// CreateAxes draws the four clinical axes
type CreateAxes struct{}

func (CreateAxes) Apply(e *Engine) error {
	e.CreateAxes()
	return nil
}

// CreatePlanes builds the plane chain from the mechanical axis plane down
type CreatePlanes struct{}

func (CreatePlanes) Apply(e *Engine) error {
	e.CreatePlanes()
	return nil
}

// Adjust moves a parameter by Delta, clamped to the channel's range
type Adjust struct {
	Channel Channel
	Delta   float64
}

// Increment returns the command for one step up on ch
func Increment(ch Channel) Adjust { return Adjust{Channel: ch, Delta: Step} }

// Decrement returns the command for one step down on ch
func Decrement(ch Channel) Adjust { return Adjust{Channel: ch, Delta: -Step} }

func (c Adjust) Apply(e *Engine) error {
	return e.Adjust(c.Channel, c.Delta)
}

// ToggleResection switches bone clipping by the resection plane
type ToggleResection struct{}

func (ToggleResection) Apply(e *Engine) error {
	e.ToggleResection()
	return nil
}

// TogglePlane flips the visibility of one plane
type TogglePlane struct {
	Role Role
}

func (c TogglePlane) Apply(e *Engine) error {
	return e.TogglePlane(c.Role)
}

// Dispatch applies cmd and runs the refresh pass
func (e *Engine) Dispatch(cmd Command) error {
	err := cmd.Apply(e)
	e.Frame()
	return err
}
