// Package scene models the host scene graph the pipeline used to reach
// into ambiently: named objects, an explicit active target, and temporary
// object bookkeeping. Everything is parameter-passed; there is no global
// current scene.
package scene

import (
	"errors"
	"fmt"

	"rpm-shape-transfer/internal/mesh"
)

var (
	// ErrMissingTarget means no active target object is available. Nothing
	// downstream of a transfer is meaningful without one, so this aborts a
	// whole batch rather than a single job.
	ErrMissingTarget = errors.New("no active target object")

	// ErrNotAMesh means an operation requiring mesh data got a non-mesh
	// object (an armature or empty imported alongside the geometry).
	ErrNotAMesh = errors.New("object is not a mesh")

	errDuplicate = errors.New("object name already linked")
)

// Kind discriminates scene object types. Asset files carry non-mesh nodes
// (armatures, empties) that the pipeline must reject explicitly.
type Kind string

const (
	KindMesh  Kind = "MESH"
	KindOther Kind = "OTHER"
)

// Object is one named scene member. Mesh is nil for non-mesh kinds.
// Temp marks disposable geometry created during a transfer job; anything
// still flagged after a job is a leak and gets swept.
type Object struct {
	Name string
	Kind Kind
	Mesh *mesh.Mesh
	Temp bool
}

// RequireMesh returns the object's mesh or ErrNotAMesh.
func (o *Object) RequireMesh() (*mesh.Mesh, error) {
	if o.Kind != KindMesh || o.Mesh == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotAMesh, o.Name)
	}
	return o.Mesh, nil
}

// Scene owns linked objects, preserving link order, with one optional
// active object.
type Scene struct {
	objects map[string]*Object
	order   []string
	active  string
}

func New() *Scene {
	return &Scene{objects: make(map[string]*Object)}
}

// Link adds an object to the scene. Names are unique.
func (s *Scene) Link(o *Object) error {
	if _, ok := s.objects[o.Name]; ok {
		return fmt.Errorf("%w: %q", errDuplicate, o.Name)
	}
	s.objects[o.Name] = o
	s.order = append(s.order, o.Name)
	return nil
}

// Unlink removes an object and frees its data. Unknown names are a no-op.
func (s *Scene) Unlink(name string) {
	o, ok := s.objects[name]
	if !ok {
		return
	}
	delete(s.objects, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == name {
		s.active = ""
	}
	o.Mesh = nil
}

func (s *Scene) Get(name string) (*Object, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// Objects returns linked objects in link order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.objects[n])
	}
	return out
}

func (s *Scene) Len() int { return len(s.order) }

// SetActive marks the named object active. It must be linked.
func (s *Scene) SetActive(name string) error {
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("%w: %q not linked", ErrMissingTarget, name)
	}
	s.active = name
	return nil
}

// Active returns the active object, or ErrMissingTarget.
func (s *Scene) Active() (*Object, error) {
	if s.active == "" {
		return nil, ErrMissingTarget
	}
	return s.objects[s.active], nil
}

// SweepTemp unlinks every object flagged Temp and returns how many were
// removed. The orchestrator runs this after every job so a hard fail
// mid-job cannot leak working copies.
func (s *Scene) SweepTemp() int {
	var doomed []string
	for _, n := range s.order {
		if s.objects[n].Temp {
			doomed = append(doomed, n)
		}
	}
	for _, n := range doomed {
		s.Unlink(n)
	}
	return len(doomed)
}
