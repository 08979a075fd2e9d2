// Package shape holds named shape keys (per-vertex displacement fields)
// for a mesh and the scoped isolation used during transfer.
package shape

import (
	"errors"
	"fmt"

	"rpm-shape-transfer/internal/mathutil"
)

// ErrUnknownShape is returned when a requested shape name is not in the library.
var ErrUnknownShape = errors.New("unknown shape key")

// Key is one named displacement field relative to the owning mesh's base
// positions. Applying it means position = base + Offsets[i] * Weight.
type Key struct {
	Name    string
	Offsets []mathutil.Vec3
	Weight  float64
}

// Library maps shape names to keys. Names are unique; insertion order is
// preserved so exports and reports are reproducible.
type Library struct {
	order []string
	keys  map[string]*Key
}

func NewLibrary() *Library {
	return &Library{keys: make(map[string]*Key)}
}

// Put installs a key, overwriting any existing key of the same name.
func (l *Library) Put(k *Key) {
	if _, ok := l.keys[k.Name]; !ok {
		l.order = append(l.order, k.Name)
	}
	l.keys[k.Name] = k
}

func (l *Library) Get(name string) (*Key, bool) {
	k, ok := l.keys[name]
	return k, ok
}

func (l *Library) Has(name string) bool {
	_, ok := l.keys[name]
	return ok
}

// HasAll reports whether every name is present.
func (l *Library) HasAll(names []string) bool {
	for _, n := range names {
		if !l.Has(n) {
			return false
		}
	}
	return true
}

// Names returns the shape names in insertion order.
func (l *Library) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

func (l *Library) Len() int {
	return len(l.order)
}

// Remove deletes a key by name. Unknown names are a no-op.
func (l *Library) Remove(name string) {
	if _, ok := l.keys[name]; !ok {
		return
	}
	delete(l.keys, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of the library.
func (l *Library) Clone() *Library {
	c := NewLibrary()
	for _, name := range l.order {
		k := l.keys[name]
		offs := make([]mathutil.Vec3, len(k.Offsets))
		copy(offs, k.Offsets)
		c.Put(&Key{Name: k.Name, Offsets: offs, Weight: k.Weight})
	}
	return c
}

// Displace returns base positions with every key applied at its current
// weight. The base slice is not modified.
func (l *Library) Displace(base []mathutil.Vec3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(base))
	copy(out, base)
	for _, name := range l.order {
		k := l.keys[name]
		if k.Weight == 0 {
			continue
		}
		n := len(k.Offsets)
		if n > len(out) {
			n = len(out)
		}
		for i := 0; i < n; i++ {
			out[i] = out[i].Add(k.Offsets[i].Scale(k.Weight))
		}
	}
	return out
}

// WithIsolated sets the named key to weight 1 and all others to 0, calls fn
// with that key's displacement field, and restores all prior weights on
// every exit path, including a panic inside fn.
func (l *Library) WithIsolated(name string, fn func(k *Key) error) error {
	k, ok := l.keys[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}

	saved := make(map[string]float64, len(l.keys))
	for n, key := range l.keys {
		saved[n] = key.Weight
		key.Weight = 0
	}
	k.Weight = 1
	defer func() {
		for n, w := range saved {
			l.keys[n].Weight = w
		}
	}()

	return fn(k)
}
