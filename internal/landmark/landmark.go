// Package landmark holds the named anatomical points placed on the bone models.
package landmark

import (
	"errors"
	"fmt"

	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

var (
	// ErrNotPlaced reports a landmark that has not been placed yet
	ErrNotPlaced = errors.New("landmark not placed")

	// ErrUnknownName reports a name outside the fixed clinical set
	ErrUnknownName = errors.New("unknown landmark name")
)

// Name identifies one of the fixed clinical landmarks
type Name string

const (
	HipCenter          Name = "Hip Center"
	FemurProximalCanal Name = "Femur Proximal Canal"
	FemurDistalCanal   Name = "Femur Distal Canal"
	MedialEpicondyle   Name = "Medial Epicondyle"
	LateralEpicondyle  Name = "Lateral Epicondyle"
	DistalMedialPt     Name = "Distal Medial Pt"
	DistalLateralPt    Name = "Distal Lateral Pt"
	PosteriorMedialPt  Name = "Posterior Medial Pt"
	PosteriorLateralPt Name = "Posterior Lateral Pt"
)

// Required lists every landmark in canonical order
var Required = []Name{
	HipCenter,
	FemurProximalCanal,
	FemurDistalCanal,
	MedialEpicondyle,
	LateralEpicondyle,
	DistalMedialPt,
	DistalLateralPt,
	PosteriorMedialPt,
	PosteriorLateralPt,
}

// ParseName validates s against the known landmark names
func ParseName(s string) (Name, error) {
	for _, n := range Required {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownName, s)
}

// Landmark is a placed point
type Landmark struct {
	Name     Name             `json:"name"`
	Position geometry.Vector3 `json:"position"`
}

// Store keeps one position per landmark name
type Store struct {
	positions map[Name]geometry.Vector3
	listeners []func(allPlaced bool)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{positions: make(map[Name]geometry.Vector3)}
}

// Place records or overwrites the position of name and notifies listeners
func (s *Store) Place(name Name, position geometry.Vector3) error {
	if _, err := ParseName(string(name)); err != nil {
		return err
	}
	s.positions[name] = position

	all := s.AllRequiredPlaced()
	for _, fn := range s.listeners {
		fn(all)
	}
	return nil
}

// Get returns the position of name or ErrNotPlaced
func (s *Store) Get(name Name) (geometry.Vector3, error) {
	pos, ok := s.positions[name]
	if !ok {
		return geometry.Vector3{}, fmt.Errorf("%w: %s", ErrNotPlaced, name)
	}
	return pos, nil
}

// Has reports whether name has been placed
func (s *Store) Has(name Name) bool {
	_, ok := s.positions[name]
	return ok
}

// AllRequiredPlaced reports whether every required landmark is present
func (s *Store) AllRequiredPlaced() bool {
	for _, n := range Required {
		if _, ok := s.positions[n]; !ok {
			return false
		}
	}
	return true
}

// Placed returns the placed landmarks in canonical order
func (s *Store) Placed() []Landmark {
	out := make([]Landmark, 0, len(s.positions))
	for _, n := range Required {
		if pos, ok := s.positions[n]; ok {
			out = append(out, Landmark{Name: n, Position: pos})
		}
	}
	return out
}

// Missing returns the required landmarks not yet placed
func (s *Store) Missing() []Name {
	var out []Name
	for _, n := range Required {
		if _, ok := s.positions[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// OnChange registers fn to be called after every placement with the
// current all-placed state
func (s *Store) OnChange(fn func(allPlaced bool)) {
	s.listeners = append(s.listeners, fn)
}
