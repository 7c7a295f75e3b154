package renderer

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/queue"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/pkg/errors"
)

// FrameCount is the number of frame slots, equal to the swap chain buffer count.
const FrameCount = 2

// ErrDeviceRemoved is returned once a backend detects an unrecoverable device state,
// such as a barrier whose before-state does not match the resource. It is sticky.
var ErrDeviceRemoved = errors.New("device removed")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects the in-memory backend that executes command sequences on a goroutine.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	}
	return "unknown"
}

// ParseBackendType maps a configuration name to a RendererBackendType.
//
// Parameters:
//   - name: "wgpu" or "headless"
//
// Returns:
//   - RendererBackendType: the matching backend type
//   - error: an error for unknown names
func ParseBackendType(name string) (RendererBackendType, error) {
	switch name {
	case "", "wgpu":
		return BackendTypeWGPU, nil
	case "headless":
		return BackendTypeHeadless, nil
	}
	return BackendTypeWGPU, errors.Errorf("unknown renderer backend %q", name)
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration name to a PresentMode.
//
// Parameters:
//   - name: "vsync" or "uncapped"
//
// Returns:
//   - PresentMode: the matching mode
//   - error: an error for unknown names
func ParsePresentMode(name string) (PresentMode, error) {
	switch name {
	case "", "vsync":
		return PresentModeVSync, nil
	case "uncapped":
		return PresentModeUncapped, nil
	}
	return PresentModeVSync, errors.Errorf("unknown present mode %q", name)
}

// RendererBackend is everything the frame lifecycle needs from a GPU API: resource allocation,
// the single execution queue, the swap chain and the completion counter.
type RendererBackend interface {
	resource.Allocator
	queue.Queue
	queue.SwapChain
	fence.Primitive

	// CreatePipeline creates the GPU pipeline object for p and stores it with p.SetPipeline.
	//
	// Parameters:
	//   - p: the pipeline state
	//
	// Returns:
	//   - error: an error if shader compilation or pipeline creation fails
	CreatePipeline(p pipeline.Pipeline) error

	// Viewport returns the size of the swap chain buffers in pixels.
	//
	// Returns:
	//   - width, height: the buffer size
	Viewport() (width, height uint32)

	// Release frees every device object. Work still queued must have been drained first.
	//
	// Returns:
	//   - error: an error if the device could not be released cleanly
	Release() error
}

// Resizer is implemented by backends whose swap chain follows the window size.
type Resizer interface {
	// Resize reconfigures the swap chain buffers. No frame may be in flight.
	//
	// Parameters:
	//   - width, height: the new size in pixels; zero is ignored
	//
	// Returns:
	//   - error: an error if the swap chain could not be reconfigured
	Resize(width, height uint32) error
}
