package pipeline

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaderSource sets the shader source for both stages. WGSL modules commonly hold both
// entry points, so the same source may be passed twice.
//
// Parameters:
//   - vertex: the vertex stage source
//   - fragment: the fragment stage source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader sources for this pipeline
func WithShaderSource(vertex, fragment []byte) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexSource = vertex
		p.fragmentSource = fragment
	}
}

// WithEntryPoints overrides the vs_main / fs_main entry point names.
//
// Parameters:
//   - vertex: the vertex stage entry point
//   - fragment: the fragment stage entry point
//
// Returns:
//   - PipelineBuilderOption: a function that sets the entry points for this pipeline
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntryPoint = vertex
		p.fragmentEntryPoint = fragment
	}
}

// WithCullMode sets which faces are culled.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFillMode sets whether triangles are filled or drawn as wireframe.
//
// Parameters:
//   - mode: the fill mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fill mode for this pipeline
func WithFillMode(mode FillMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fillMode = mode
	}
}

// WithFormat sets the render target format.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the format for this pipeline
func WithFormat(format TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.format = format
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithBlendEnabled sets whether alpha blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithVertexLayout overrides the ColorVertex input layout.
//
// Parameters:
//   - stride: the size of one vertex in bytes
//   - attributes: the attributes in location order
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(stride uint32, attributes ...VertexAttribute) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexStride = stride
		p.vertexAttributes = attributes
	}
}
