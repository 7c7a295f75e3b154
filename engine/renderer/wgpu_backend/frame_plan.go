package wgpu_backend

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// framePlan is a recorded command sequence folded into the single render pass WebGPU encodes.
// State set before the render-target transition is carried into the pass.
type framePlan struct {
	slot         uint32
	pipeline     any
	bindGroup    any
	viewport     command.Rect
	scissor      command.Rect
	clear        common.RGBA
	vertexBuffer any
	vertexCount  uint32

	acquired bool
	released bool
	drawn    bool
}

// planFrame walks ops in order and collects what the render pass needs. It rejects sequences a
// D3D12 queue would reject: writes outside the renderable window, unpaired transitions and
// transitions of a foreign target.
func planFrame(slot uint32, ops []command.Op) (framePlan, error) {
	p := framePlan{slot: slot}
	for i, op := range ops {
		switch op.Kind {
		case command.OpSetPipeline:
			p.pipeline = op.Resource
		case command.OpSetBindingTable:
			p.bindGroup = op.Resource
		case command.OpSetViewport:
			p.viewport = op.Rect
		case command.OpSetScissor:
			p.scissor = op.Rect
		case command.OpSetVertexBuffer:
			p.vertexBuffer = op.Resource
		case command.OpTransition:
			if op.Target != slot {
				return p, errors.Errorf("op %d: transition of foreign target %d", i, op.Target)
			}
			switch {
			case op.Before == command.StatePresentable && op.After == command.StateRenderable && !p.acquired:
				p.acquired = true
			case op.Before == command.StateRenderable && op.After == command.StatePresentable && p.acquired && !p.released:
				p.released = true
			default:
				return p, errors.Errorf("op %d: unexpected %s", i, op)
			}
		case command.OpSetRenderTarget, command.OpClear, command.OpDraw:
			if !p.acquired || p.released {
				return p, errors.Errorf("op %d: %s outside the renderable window", i, op)
			}
			switch op.Kind {
			case command.OpClear:
				p.clear = op.Color
			case command.OpDraw:
				p.vertexCount = op.VertexCount
				p.drawn = true
			}
		}
	}
	if !p.acquired || !p.released {
		return p, errors.New("render target was not transitioned to renderable and back")
	}
	return p, nil
}

// expandWireframe rewrites a triangle list as a line list holding the three edges of each triangle.
// WebGPU has no polygon fill mode, so wireframe pipelines draw lines instead.
func expandWireframe(data []byte, stride uint32) []byte {
	s := int(stride)
	tris := len(data) / (3 * s)
	out := make([]byte, 0, tris*6*s)
	for t := 0; t < tris; t++ {
		v := [3][]byte{
			data[(t*3)*s : (t*3+1)*s],
			data[(t*3+1)*s : (t*3+2)*s],
			data[(t*3+2)*s : (t*3+3)*s],
		}
		out = append(out, v[0]...)
		out = append(out, v[1]...)
		out = append(out, v[1]...)
		out = append(out, v[2]...)
		out = append(out, v[2]...)
		out = append(out, v[0]...)
	}
	return out
}

func toTextureFormat(f pipeline.TextureFormat) wgpu.TextureFormat {
	if f == pipeline.FormatBGRA8Unorm {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return wgpu.TextureFormatRGBA8Unorm
}

func toCullMode(c pipeline.CullMode) wgpu.CullMode {
	switch c {
	case pipeline.CullFront:
		return wgpu.CullModeFront
	case pipeline.CullBack:
		return wgpu.CullModeBack
	}
	return wgpu.CullModeNone
}

func toVertexFormat(f pipeline.VertexFormat) wgpu.VertexFormat {
	if f == pipeline.VertexFormatFloat32x4 {
		return wgpu.VertexFormatFloat32x4
	}
	return wgpu.VertexFormatFloat32x3
}

func toTopology(fill pipeline.FillMode) wgpu.PrimitiveTopology {
	if fill == pipeline.FillWireframe {
		return wgpu.PrimitiveTopologyLineList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

func toPresentMode(mode renderer.PresentMode) wgpu.PresentMode {
	if mode == renderer.PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// pickFormat returns want when the surface supports it, otherwise the surface's preferred format.
func pickFormat(supported []wgpu.TextureFormat, want wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(supported) == 0 {
		return wgpu.TextureFormatUndefined, errors.New("surface reports no formats")
	}
	for _, f := range supported {
		if f == want {
			return f, nil
		}
	}
	return supported[0], nil
}
