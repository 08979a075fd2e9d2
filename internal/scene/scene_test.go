package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
)

func meshObject(name string) *Object {
	return &Object{
		Name: name,
		Kind: KindMesh,
		Mesh: mesh.New([]mathutil.Vec3{{0, 0, 0}}, nil),
	}
}

func TestLinkRejectsDuplicateNames(t *testing.T) {
	s := New()
	require.NoError(t, s.Link(meshObject("body")))
	err := s.Link(meshObject("body"))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestObjectsPreserveLinkOrder(t *testing.T) {
	s := New()
	for _, n := range []string{"armature", "body", "outfit"} {
		require.NoError(t, s.Link(meshObject(n)))
	}
	s.Unlink("body")
	require.NoError(t, s.Link(meshObject("body")))

	var names []string
	for _, o := range s.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"armature", "outfit", "body"}, names)
}

func TestActiveLifecycle(t *testing.T) {
	s := New()

	_, err := s.Active()
	assert.ErrorIs(t, err, ErrMissingTarget)

	assert.ErrorIs(t, s.SetActive("body"), ErrMissingTarget)

	require.NoError(t, s.Link(meshObject("body")))
	require.NoError(t, s.SetActive("body"))
	o, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, "body", o.Name)

	// Unlinking the active object clears the active slot.
	s.Unlink("body")
	_, err = s.Active()
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestRequireMesh(t *testing.T) {
	m, err := meshObject("body").RequireMesh()
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = (&Object{Name: "rig", Kind: KindOther}).RequireMesh()
	assert.ErrorIs(t, err, ErrNotAMesh)
}

func TestSweepTemp(t *testing.T) {
	s := New()
	require.NoError(t, s.Link(meshObject("body")))

	work := meshObject("body.working")
	work.Temp = true
	require.NoError(t, s.Link(work))
	other := meshObject("src.working")
	other.Temp = true
	require.NoError(t, s.Link(other))

	assert.Equal(t, 2, s.SweepTemp())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("body")
	assert.True(t, ok)

	// Nothing left to sweep.
	assert.Equal(t, 0, s.SweepTemp())
}
