package shapeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetsAreConsistent(t *testing.T) {
	sets := Sets()
	require.Contains(t, sets, "gender")
	require.Contains(t, sets, "body_male")
	require.Contains(t, sets, "body_female")

	for name, s := range sets {
		assert.Equal(t, name, s.Name)
		assert.NotEmpty(t, s.LibraryKey)
		assert.NotEmpty(t, s.Shapes)
	}

	// Gender keeps the explicit neutral basis; body sets have none.
	assert.Equal(t, ShapeNeutral, sets["gender"].Basis)
	assert.False(t, sets["gender"].MergeVerts)
	assert.True(t, sets["body_male"].MergeVerts)
	assert.Equal(t, BodyShapes, sets["body_female"].Shapes)
}

func TestDefaultPathsRequiresEnvOrOverrides(t *testing.T) {
	t.Setenv(EnvModularAssets, "")
	_, err := DefaultPaths(nil)
	assert.Error(t, err)
}

func TestDefaultPathsFromEnv(t *testing.T) {
	t.Setenv(EnvModularAssets, "/assets")
	p, err := DefaultPaths(nil)
	require.NoError(t, err)
	assert.Equal(t, "/assets/body/legacy_v2_deform.glb", p["body_deform"])
	assert.Equal(t, "/assets/body/bodyshapes_male.glb", p["bodyshapes_male"])
}

func TestDefaultPathsOverrides(t *testing.T) {
	t.Setenv(EnvModularAssets, "/assets")
	p, err := DefaultPaths(map[string]string{
		"body_deform": "/custom/deform.glb",
		"empty":       "",
	})
	require.NoError(t, err)
	assert.Equal(t, "/custom/deform.glb", p["body_deform"])
	assert.Equal(t, "/assets/body/bodyshapes_female.glb", p["bodyshapes_female"])
	assert.NotContains(t, p, "empty")
}
