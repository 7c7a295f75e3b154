package assets

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorShaderEntryPoints(t *testing.T) {
	src := string(ColorShader)
	assert.Contains(t, src, "fn vs_main")
	assert.Contains(t, src, "fn fs_main")
	assert.Contains(t, src, "@group(0) @binding(0)")
}

func TestCornellBoxLoads(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeOBJ, loader.WithFS(Meshes))
	defer l.Close()

	m, err := l.Load(CornellBoxPath)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, CornellBoxVertices)
	assert.Len(t, m.Shapes, 8)
	assert.Equal(t, "left_wall", m.Shapes[3].Name)

	// left wall is red
	first := m.Vertices[m.Shapes[3].First]
	assert.InDelta(t, 0.63, first.Color[0], 1e-6)
	assert.Equal(t, float32(1), first.Color[3])
}
