package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpm-shape-transfer/internal/mathutil"
)

func sampleLibrary() *Library {
	l := NewLibrary()
	l.Put(&Key{Name: "Basis", Offsets: []mathutil.Vec3{{0, 0, 0}, {0, 0, 0}}})
	l.Put(&Key{Name: "smile", Offsets: []mathutil.Vec3{{0, 1, 0}, {0, 2, 0}}, Weight: 0.5})
	l.Put(&Key{Name: "frown", Offsets: []mathutil.Vec3{{0, -1, 0}, {0, -2, 0}}, Weight: 0.25})
	return l
}

func TestLibraryPutOverwriteKeepsOrder(t *testing.T) {
	l := sampleLibrary()
	l.Put(&Key{Name: "smile", Offsets: []mathutil.Vec3{{9, 9, 9}, {9, 9, 9}}})

	assert.Equal(t, []string{"Basis", "smile", "frown"}, l.Names())
	k, ok := l.Get("smile")
	require.True(t, ok)
	assert.Equal(t, mathutil.Vec3{9, 9, 9}, k.Offsets[0])
	assert.Equal(t, 3, l.Len())
}

func TestLibraryRemove(t *testing.T) {
	l := sampleLibrary()
	l.Remove("smile")
	l.Remove("no-such")

	assert.Equal(t, []string{"Basis", "frown"}, l.Names())
	assert.False(t, l.Has("smile"))
	assert.True(t, l.HasAll([]string{"Basis", "frown"}))
	assert.False(t, l.HasAll([]string{"Basis", "smile"}))
}

func TestLibraryDisplace(t *testing.T) {
	l := sampleLibrary()
	base := []mathutil.Vec3{{1, 0, 0}, {2, 0, 0}}

	got := l.Displace(base)
	// smile at 0.5 and frown at 0.25 stack additively.
	assert.InDelta(t, 0.5-0.25, got[0][1], 1e-12)
	assert.InDelta(t, 1.0-0.5, got[1][1], 1e-12)
	// Base slice untouched.
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, base[0])
}

func TestWithIsolatedRestoresWeights(t *testing.T) {
	l := sampleLibrary()

	err := l.WithIsolated("smile", func(k *Key) error {
		assert.Equal(t, 1.0, k.Weight)
		frown, _ := l.Get("frown")
		assert.Equal(t, 0.0, frown.Weight)
		return nil
	})
	require.NoError(t, err)

	smile, _ := l.Get("smile")
	frown, _ := l.Get("frown")
	assert.Equal(t, 0.5, smile.Weight)
	assert.Equal(t, 0.25, frown.Weight)
}

func TestWithIsolatedRestoresOnError(t *testing.T) {
	l := sampleLibrary()
	sentinel := errors.New("boom")

	err := l.WithIsolated("frown", func(*Key) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)

	smile, _ := l.Get("smile")
	frown, _ := l.Get("frown")
	assert.Equal(t, 0.5, smile.Weight)
	assert.Equal(t, 0.25, frown.Weight)
}

func TestWithIsolatedRestoresOnPanic(t *testing.T) {
	l := sampleLibrary()

	assert.Panics(t, func() {
		_ = l.WithIsolated("smile", func(*Key) error { panic("mid-transfer") })
	})

	smile, _ := l.Get("smile")
	assert.Equal(t, 0.5, smile.Weight)
}

func TestWithIsolatedUnknownShape(t *testing.T) {
	l := sampleLibrary()

	err := l.WithIsolated("no-such", func(*Key) error {
		t.Fatal("fn must not run for an unknown shape")
		return nil
	})
	assert.ErrorIs(t, err, ErrUnknownShape)
}
