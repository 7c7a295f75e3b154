package command

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// ResourceState is the state of a swap-chain render target.
type ResourceState int

const (
	// StatePresentable means the target is owned by the display and must not be written.
	StatePresentable ResourceState = iota

	// StateRenderable means the target is owned by the pipeline and may be written.
	StateRenderable
)

func (s ResourceState) String() string {
	switch s {
	case StatePresentable:
		return "presentable"
	case StateRenderable:
		return "renderable"
	}
	return fmt.Sprintf("ResourceState(%d)", int(s))
}

// Topology is the primitive topology used by a draw.
type Topology int

const (
	// TopologyTriangleList draws every three vertices as an independent triangle.
	TopologyTriangleList Topology = iota
)

// OpKind identifies a recorded GPU operation.
type OpKind int

const (
	// OpSetPipeline binds the pipeline state object in Resource.
	OpSetPipeline OpKind = iota

	// OpSetBindingTable binds the slot's constant region view in Resource.
	OpSetBindingTable

	// OpSetViewport sets the viewport to Rect.
	OpSetViewport

	// OpSetScissor sets the scissor rectangle to Rect.
	OpSetScissor

	// OpTransition moves render target Target from Before to After.
	OpTransition

	// OpSetRenderTarget binds the render target view in Resource. Only valid while renderable.
	OpSetRenderTarget

	// OpClear fills the bound render target with Color.
	OpClear

	// OpSetTopology selects the primitive topology in Topology.
	OpSetTopology

	// OpSetVertexBuffer binds the vertex buffer in Resource.
	OpSetVertexBuffer

	// OpDraw draws VertexCount vertices from the bound vertex buffer.
	OpDraw
)

var opKindNames = [...]string{
	OpSetPipeline:     "set-pipeline",
	OpSetBindingTable: "set-binding-table",
	OpSetViewport:     "set-viewport",
	OpSetScissor:      "set-scissor",
	OpTransition:      "transition",
	OpSetRenderTarget: "set-render-target",
	OpClear:           "clear",
	OpSetTopology:     "set-topology",
	OpSetVertexBuffer: "set-vertex-buffer",
	OpDraw:            "draw",
}

func (k OpKind) String() string {
	if int(k) >= 0 && int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Rect is a viewport or scissor rectangle in pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Op is one recorded GPU operation. Only the fields relevant to Kind are set.
// Resource carries the backend handle the op binds (pipeline, binding table, render-target view or vertex buffer).
type Op struct {
	Kind     OpKind
	Resource any

	// Target is the frame slot whose render target a transition or render-target op refers to.
	Target uint32
	Before ResourceState
	After  ResourceState

	Rect        Rect
	Color       common.RGBA
	Topology    Topology
	VertexCount uint32
}

// touchesTarget reports whether the op writes to the render target of the recorded slot.
func (o Op) touchesTarget() bool {
	switch o.Kind {
	case OpSetRenderTarget, OpClear, OpDraw:
		return true
	}
	return false
}

func (o Op) String() string {
	switch o.Kind {
	case OpTransition:
		return fmt.Sprintf("%s[%d %s->%s]", o.Kind, o.Target, o.Before, o.After)
	case OpSetRenderTarget:
		return fmt.Sprintf("%s[%d]", o.Kind, o.Target)
	case OpDraw:
		return fmt.Sprintf("%s[%d]", o.Kind, o.VertexCount)
	}
	return o.Kind.String()
}
