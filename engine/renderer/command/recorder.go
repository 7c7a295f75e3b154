package command

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
)

// Frame carries the handles the recorder binds for one frame slot.
type Frame struct {
	Slot         uint32
	Pipeline     any
	BindingTable any
	RenderTarget any
	VertexBuffer any
	VertexCount  uint32
	Viewport     Rect
	Scissor      Rect
}

// Recorder builds the fixed per-frame command sequence.
type Recorder interface {
	// Record resets seq and fills it, in order, with: pipeline and binding table, viewport and scissor,
	// the Presentable->Renderable barrier, render target and clear, topology, vertex buffer and draw,
	// and the Renderable->Presentable barrier. The sequence is closed on success.
	//
	// Parameters:
	//   - seq: the sequence for f.Slot
	//   - f: the handles to bind
	//   - completed: the fence value the GPU reports as completed, used to prove seq is reusable
	//
	// Returns:
	//   - error: ErrInFlight if seq is still executing, or any recording/validation error
	Record(seq Sequence, f Frame, completed uint64) error

	// ClearColor returns the colour render targets are cleared to.
	//
	// Returns:
	//   - common.RGBA: the clear colour
	ClearColor() common.RGBA

	// SetClearColor sets the colour render targets are cleared to.
	//
	// Parameters:
	//   - c: the clear colour
	SetClearColor(c common.RGBA)
}

type recorder struct {
	clearColor common.RGBA
	topology   Topology
}

var _ Recorder = &recorder{}

// NewRecorder creates a Recorder. The clear colour defaults to opaque black.
//
// Parameters:
//   - options: functional options applied to the recorder
//
// Returns:
//   - Recorder: the new recorder
func NewRecorder(options ...RecorderBuilderOption) Recorder {
	r := &recorder{
		clearColor: common.Black,
		topology:   TopologyTriangleList,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *recorder) ClearColor() common.RGBA {
	return r.clearColor
}

func (r *recorder) SetClearColor(c common.RGBA) {
	r.clearColor = c
}

func (r *recorder) Record(seq Sequence, f Frame, completed uint64) error {
	if seq.Slot() != f.Slot {
		return errors.Errorf("record: sequence for slot %d used for slot %d", seq.Slot(), f.Slot)
	}
	if err := seq.Reset(completed); err != nil {
		return err
	}

	ops := [...]Op{
		{Kind: OpSetPipeline, Resource: f.Pipeline},
		{Kind: OpSetBindingTable, Resource: f.BindingTable},
		{Kind: OpSetViewport, Rect: f.Viewport},
		{Kind: OpSetScissor, Rect: f.Scissor},
		{Kind: OpTransition, Target: f.Slot, Before: StatePresentable, After: StateRenderable},
		{Kind: OpSetRenderTarget, Target: f.Slot, Resource: f.RenderTarget},
		{Kind: OpClear, Target: f.Slot, Color: r.clearColor},
		{Kind: OpSetTopology, Topology: r.topology},
		{Kind: OpSetVertexBuffer, Resource: f.VertexBuffer},
		{Kind: OpDraw, VertexCount: f.VertexCount},
		{Kind: OpTransition, Target: f.Slot, Before: StateRenderable, After: StatePresentable},
	}
	for _, op := range ops {
		if err := seq.Append(op); err != nil {
			return err
		}
	}
	return seq.Close()
}
