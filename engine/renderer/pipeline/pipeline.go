package pipeline

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/pkg/errors"
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FillMode selects how triangles are rasterized.
type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
)

// TextureFormat is the pixel format of the render target.
type TextureFormat int

const (
	FormatRGBA8Unorm TextureFormat = iota
	FormatBGRA8Unorm
)

// VertexFormat is the type of one vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32x3 VertexFormat = iota
	VertexFormatFloat32x4
)

// VertexAttribute describes one attribute inside a vertex.
type VertexAttribute struct {
	Location uint32
	Offset   uint32
	Format   VertexFormat
}

// ErrMissingShader is returned when a pipeline lacks vertex or fragment shader source.
var ErrMissingShader = errors.New("both vertex and fragment shaders must be set to create a render pipeline")

// pipeline is the implementation of the Pipeline interface.
// It holds the fixed render state and, once created by a backend, the backend pipeline object.
type pipeline struct {
	pipelineKey string

	vertexSource, fragmentSource         []byte
	vertexEntryPoint, fragmentEntryPoint string

	// backendPipeline is set by the backend once the GPU object exists
	backendPipeline any

	topology         command.Topology
	cullMode         CullMode
	fillMode         FillMode
	format           TextureFormat
	depthTestEnabled bool
	blendEnabled     bool

	vertexStride     uint32
	vertexAttributes []VertexAttribute
}

// Pipeline is the single fixed render pipeline state: shader blobs, input layout, rasterizer and
// output format. The backend turns it into a GPU object once during renderer initialization.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used as its debug label.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// VertexSource returns the vertex stage shader source.
	//
	// Returns:
	//   - []byte: the shader source
	VertexSource() []byte

	// FragmentSource returns the fragment stage shader source.
	//
	// Returns:
	//   - []byte: the shader source
	FragmentSource() []byte

	// VertexEntryPoint returns the vertex stage entry point name.
	//
	// Returns:
	//   - string: the entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the fragment stage entry point name.
	//
	// Returns:
	//   - string: the entry point
	FragmentEntryPoint() string

	// Pipeline returns the backend pipeline object, or nil before the backend created it.
	// The caller is responsible for type asserting the returned value.
	//
	// Returns:
	//   - any: the backend pipeline object
	Pipeline() any

	// SetPipeline stores the backend pipeline object.
	//
	// Parameters:
	//   - p: the backend pipeline object
	SetPipeline(p any)

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - command.Topology: the topology
	Topology() command.Topology

	// CullMode returns the cull mode.
	//
	// Returns:
	//   - CullMode: the cull mode
	CullMode() CullMode

	// FillMode returns the fill mode.
	//
	// Returns:
	//   - FillMode: the fill mode
	FillMode() FillMode

	// Format returns the render target format.
	//
	// Returns:
	//   - TextureFormat: the format
	Format() TextureFormat

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// VertexStride returns the size of one vertex in bytes.
	//
	// Returns:
	//   - uint32: the stride
	VertexStride() uint32

	// VertexAttributes returns the vertex input layout.
	//
	// Returns:
	//   - []VertexAttribute: the attributes in location order
	VertexAttributes() []VertexAttribute

	// Validate checks the pipeline can be created.
	//
	// Returns:
	//   - error: ErrMissingShader or a layout error
	Validate() error
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline with the fixed state used by the frame engine: triangle lists,
// wireframe fill, no culling, no depth test and an RGBA8 target, reading ColorVertex input.
//
// Parameters:
//   - key: the unique pipeline key
//   - options: functional options applied to the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(key string, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        key,
		vertexEntryPoint:   "vs_main",
		fragmentEntryPoint: "fs_main",
		topology:           command.TopologyTriangleList,
		cullMode:           CullNone,
		fillMode:           FillWireframe,
		format:             FormatRGBA8Unorm,
		vertexStride:       common.ColorVertexStride,
		vertexAttributes: []VertexAttribute{
			{Location: 0, Offset: 0, Format: VertexFormatFloat32x3},
			{Location: 1, Offset: common.ColorVertexColorOffset, Format: VertexFormatFloat32x4},
		},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) VertexSource() []byte {
	return p.vertexSource
}

func (p *pipeline) FragmentSource() []byte {
	return p.fragmentSource
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntryPoint
}

func (p *pipeline) Pipeline() any {
	return p.backendPipeline
}

func (p *pipeline) SetPipeline(bp any) {
	p.backendPipeline = bp
}

func (p *pipeline) Topology() command.Topology {
	return p.topology
}

func (p *pipeline) CullMode() CullMode {
	return p.cullMode
}

func (p *pipeline) FillMode() FillMode {
	return p.fillMode
}

func (p *pipeline) Format() TextureFormat {
	return p.format
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) VertexStride() uint32 {
	return p.vertexStride
}

func (p *pipeline) VertexAttributes() []VertexAttribute {
	return p.vertexAttributes
}

func (p *pipeline) Validate() error {
	if len(p.vertexSource) == 0 || len(p.fragmentSource) == 0 {
		return errors.Wrapf(ErrMissingShader, "pipeline %q", p.pipelineKey)
	}
	if p.vertexEntryPoint == "" || p.fragmentEntryPoint == "" {
		return errors.Errorf("pipeline %q: empty shader entry point", p.pipelineKey)
	}
	for _, a := range p.vertexAttributes {
		size := uint32(12)
		if a.Format == VertexFormatFloat32x4 {
			size = 16
		}
		if a.Offset+size > p.vertexStride {
			return errors.Errorf("pipeline %q: attribute %d overruns stride %d", p.pipelineKey, a.Location, p.vertexStride)
		}
	}
	return nil
}
