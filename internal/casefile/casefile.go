// Package casefile reads planning cases: the bones to load, the landmark
// placements and the starting parameters.
package casefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a case file that parses but cannot be planned
var ErrInvalid = errors.New("invalid case file")

// Case is one planning case
type Case struct {
	Name             string                      `yaml:"name"`
	Bones            []bone.Config               `yaml:"bones"`
	Landmarks        map[string]geometry.Vector3 `yaml:"landmarks"`
	Parameters       Parameters                  `yaml:"parameters,omitempty"`
	ResectionVisible bool                        `yaml:"resection_visible"`
}

// Parameters are the starting parameters of a case. Each one is optional.
type Parameters struct {
	VarusValgus      *float64 `yaml:"varus_valgus,omitempty"`
	FlexionExtension *float64 `yaml:"flexion_extension,omitempty"`
	ResectionDepth   *float64 `yaml:"resection_depth,omitempty"`
}

// Load reads and validates a case file. Relative bone paths are resolved
// against the directory of the case file.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range c.Bones {
		if p := c.Bones[i].Path; p != "" && !filepath.IsAbs(p) {
			c.Bones[i].Path = filepath.Join(dir, p)
		}
	}
	return c, nil
}

// Parse decodes and validates a case document
func Parse(data []byte) (*Case, error) {
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse case: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i := range c.Bones {
		if c.Bones[i].Transform.Scale.IsZero() {
			c.Bones[i].Transform.Scale = geometry.NewVector3(1, 1, 1)
		}
	}
	return &c, nil
}

// Validate checks landmark names and bone entries
func (c *Case) Validate() error {
	for name := range c.Landmarks {
		if _, err := landmark.ParseName(name); err != nil {
			return errors.Join(ErrInvalid, err)
		}
	}
	for i, b := range c.Bones {
		if b.Name == "" {
			return fmt.Errorf("%w: bone %d has no name", ErrInvalid, i)
		}
		if b.Path == "" {
			return fmt.Errorf("%w: bone %q has no path", ErrInvalid, b.Name)
		}
	}
	return nil
}

// PlanParameters returns fallback with every parameter the case sets replaced
func (c *Case) PlanParameters(fallback plan.Parameters) plan.Parameters {
	p := fallback
	if v := c.Parameters.VarusValgus; v != nil {
		p.VarusValgus = *v
	}
	if v := c.Parameters.FlexionExtension; v != nil {
		p.FlexionExtension = *v
	}
	if v := c.Parameters.ResectionDepth; v != nil {
		p.ResectionDepth = *v
	}
	return p
}

// PlaceCommands returns one placement per landmark in canonical order
func (c *Case) PlaceCommands() []plan.Command {
	var cmds []plan.Command
	for _, name := range landmark.Required {
		if pos, ok := c.Landmarks[string(name)]; ok {
			cmds = append(cmds, plan.PlaceLandmark{Name: name, Position: pos})
		}
	}
	return cmds
}

// Complete reports whether the case places every required landmark
func (c *Case) Complete() bool {
	for _, name := range landmark.Required {
		if _, ok := c.Landmarks[string(name)]; !ok {
			return false
		}
	}
	return true
}
