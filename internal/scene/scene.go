// Package scene tracks the display objects the planning pipeline has handed to
// the renderer. Each object is identified by an opaque handle so that a stage
// can release exactly the objects it owns when it is rebuilt.
package scene

import (
	"slices"

	"github.com/google/uuid"
)

// Handle identifies a live display object
type Handle = uuid.UUID

// Kind is the type of a display object
type Kind string

const (
	KindPlane Kind = "plane"
	KindLine  Kind = "line"
	KindLabel Kind = "label"
	KindAxis  Kind = "axis"
)

// Object is one registered display object
type Object struct {
	Handle Handle `json:"handle"`
	Kind   Kind   `json:"kind"`
	Role   string `json:"role"`
}

// Registry is the retained set of display objects
type Registry struct {
	objects map[Handle]Object
	order   []Handle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{objects: make(map[Handle]Object)}
}

// Add registers a new object and returns its handle
func (r *Registry) Add(kind Kind, role string) Handle {
	h := uuid.New()
	r.objects[h] = Object{Handle: h, Kind: kind, Role: role}
	r.order = append(r.order, h)
	return h
}

// Remove releases the given handles. Unknown handles are ignored.
func (r *Registry) Remove(handles ...Handle) {
	if len(handles) == 0 {
		return
	}
	for _, h := range handles {
		delete(r.objects, h)
	}
	r.order = slices.DeleteFunc(r.order, func(h Handle) bool {
		_, ok := r.objects[h]
		return !ok
	})
}

// Contains reports whether h is live
func (r *Registry) Contains(h Handle) bool {
	_, ok := r.objects[h]
	return ok
}

// Get returns the object registered under h
func (r *Registry) Get(h Handle) (Object, bool) {
	obj, ok := r.objects[h]
	return obj, ok
}

// Count returns the number of live objects of kind with the given role
func (r *Registry) Count(kind Kind, role string) int {
	n := 0
	for _, obj := range r.objects {
		if obj.Kind == kind && obj.Role == role {
			n++
		}
	}
	return n
}

// CountByRole returns live object counts keyed by role
func (r *Registry) CountByRole() map[string]int {
	counts := make(map[string]int)
	for _, obj := range r.objects {
		counts[obj.Role]++
	}
	return counts
}

// Len returns the number of live objects
func (r *Registry) Len() int {
	return len(r.objects)
}

// Objects returns the live objects in insertion order
func (r *Registry) Objects() []Object {
	out := make([]Object, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, r.objects[h])
	}
	return out
}
