package renderer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/loader"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPacing sets how long Render blocks after a submission. The default is fence.PacingDrainAll.
//
// Parameters:
//   - policy: the pacing policy
//
// Returns:
//   - RendererBuilderOption: a function that applies the pacing option to a renderer
func WithPacing(policy fence.PacingPolicy) RendererBuilderOption {
	return func(r *renderer) {
		r.pacing = policy
	}
}

// WithFenceTimeout bounds every fence wait. Zero waits forever.
//
// Parameters:
//   - d: the timeout
//
// Returns:
//   - RendererBuilderOption: a function that applies the timeout option to a renderer
func WithFenceTimeout(d time.Duration) RendererBuilderOption {
	return func(r *renderer) {
		r.fenceTimeout = d
	}
}

// WithClearColor sets the colour the render target is cleared to every frame.
//
// Parameters:
//   - c: the clear colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear colour option to a renderer
func WithClearColor(c common.RGBA) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithShaderSource replaces the embedded colour shader. The module must define vs_main and fs_main.
//
// Parameters:
//   - src: the WGSL source
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader option to a renderer
func WithShaderSource(src []byte) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderSource = src
	}
}

// WithPipelineOptions adjusts the fixed pipeline state, e.g. pipeline.WithFillMode(pipeline.FillSolid).
//
// Parameters:
//   - options: pipeline builder options applied after the shader source
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline options to a renderer
func WithPipelineOptions(options ...pipeline.PipelineBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineOptions = append(r.pipelineOptions, options...)
	}
}

// WithVertices renders the given triangle list instead of loading a mesh.
//
// Parameters:
//   - vertices: the triangle list
//
// Returns:
//   - RendererBuilderOption: a function that applies the vertices option to a renderer
func WithVertices(vertices []common.ColorVertex) RendererBuilderOption {
	return func(r *renderer) {
		r.vertices = vertices
	}
}

// WithMesh loads the mesh at path through l during Init. The caller keeps ownership of l.
//
// Parameters:
//   - l: the mesh loader
//   - path: the mesh path
//
// Returns:
//   - RendererBuilderOption: a function that applies the mesh option to a renderer
func WithMesh(l loader.Loader, path string) RendererBuilderOption {
	return func(r *renderer) {
		r.meshLoader = l
		r.meshPath = path
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera option to a renderer
func WithCamera(c camera.Camera) RendererBuilderOption {
	return func(r *renderer) {
		r.camera = c
	}
}
