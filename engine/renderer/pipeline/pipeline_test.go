package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchFixedState(t *testing.T) {
	p := NewPipeline("color", WithShaderSource([]byte("vs"), []byte("fs")))

	assert.Equal(t, "color", p.PipelineKey())
	assert.Equal(t, command.TopologyTriangleList, p.Topology())
	assert.Equal(t, CullNone, p.CullMode())
	assert.Equal(t, FillWireframe, p.FillMode())
	assert.Equal(t, FormatRGBA8Unorm, p.Format())
	assert.False(t, p.DepthTestEnabled())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.Equal(t, uint32(28), p.VertexStride())
	require.Len(t, p.VertexAttributes(), 2)
	assert.Equal(t, uint32(12), p.VertexAttributes()[1].Offset)
	assert.NoError(t, p.Validate())
	assert.Nil(t, p.Pipeline())

	p.SetPipeline("gpu object")
	assert.Equal(t, "gpu object", p.Pipeline())
}

func TestValidateRequiresBothShaders(t *testing.T) {
	p := NewPipeline("color", WithShaderSource([]byte("vs"), nil))
	assert.True(t, errors.Is(p.Validate(), ErrMissingShader))
}

func TestValidateRejectsOverrunningLayout(t *testing.T) {
	p := NewPipeline("color",
		WithShaderSource([]byte("vs"), []byte("fs")),
		WithVertexLayout(16, VertexAttribute{Location: 0, Offset: 8, Format: VertexFormatFloat32x3}),
	)
	assert.Error(t, p.Validate())
}

func TestOptionsOverrideDefaults(t *testing.T) {
	p := NewPipeline("solid",
		WithShaderSource([]byte("src"), []byte("src")),
		WithFillMode(FillSolid),
		WithCullMode(CullBack),
		WithFormat(FormatBGRA8Unorm),
		WithEntryPoints("vert", "frag"),
		WithDepthTestEnabled(true),
		WithBlendEnabled(true),
	)
	assert.Equal(t, FillSolid, p.FillMode())
	assert.Equal(t, CullBack, p.CullMode())
	assert.Equal(t, FormatBGRA8Unorm, p.Format())
	assert.Equal(t, "vert", p.VertexEntryPoint())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.BlendEnabled())
}
