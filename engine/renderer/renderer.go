package renderer

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/assets"
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/loader"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/queue"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("renderer already initialized")

	// ErrNotInitialized is returned by Render or Destroy before Init.
	ErrNotInitialized = errors.New("renderer not initialized")

	// ErrNoMesh is returned by Init when neither vertices nor a mesh loader were configured.
	ErrNoMesh = errors.New("no mesh configured")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	// Pre-creation config collected from builder options
	pacing          fence.PacingPolicy
	fenceTimeout    time.Duration
	clearColor      common.RGBA
	shaderSource    []byte
	pipelineOptions []pipeline.PipelineBuilderOption
	vertices        []common.ColorVertex
	meshLoader      loader.Loader
	meshPath        string

	camera    camera.Camera
	pipeline  pipeline.Pipeline
	bundle    resource.Bundle
	sequences [FrameCount]command.Sequence
	recorder  command.Recorder
	fence     fence.Fence
	submitter queue.Submitter

	initialized bool
	destroyed   bool
	frames      uint64
}

// Renderer is the frame lifecycle: it owns every GPU object of one session and turns
// Update/Render calls into recorded, submitted and presented frames.
//
// One implementation is selected at startup; all methods are called from the single
// controlling goroutine. Every error returned is a *Fault and ends the session.
type Renderer interface {
	// Init creates the pipeline, loads the mesh, allocates the resource bundle, one command
	// sequence per frame slot and the fence. A failed Init releases the backend, after which
	// Destroy is a no-op and Init faults with ErrAlreadyInitialized.
	//
	// Returns:
	//   - error: a *Fault wrapping ErrAlreadyInitialized, a loader error or a backend error
	Init() error

	// Update advances the camera by dt seconds. It never touches GPU resources.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Render records, submits and presents one frame into the current slot, signals the fence
	// and applies the pacing policy.
	//
	// Returns:
	//   - error: a *Fault; ErrNotInitialized before Init
	Render() error

	// Destroy waits for the GPU to go idle, then releases every resource and the backend.
	// Calling it again afterwards is a no-op.
	//
	// Returns:
	//   - error: a *Fault; ErrNotInitialized before Init
	Destroy() error

	// HandleKey forwards a key transition to the camera controller.
	//
	// Parameters:
	//   - code: the virtual key code
	//   - down: true on press, false on release
	HandleKey(code uint32, down bool)

	// FrameIndex returns the slot the next frame renders into.
	//
	// Returns:
	//   - uint32: the frame index
	FrameIndex() uint32

	// FenceValue returns the value the next fence signal will push.
	//
	// Returns:
	//   - uint64: the next fence value, 0 before Init
	FenceValue() uint64
}

// StatsReporter is implemented by renderers that expose frame statistics.
type StatsReporter interface {
	// Stats returns a snapshot of frame and fence counters.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats
}

// Stats is a snapshot of the renderer's activity.
type Stats struct {
	Frames      uint64
	Submissions uint64
	FrameIndex  uint32
	Pacing      fence.PacingPolicy
	Fence       fence.Stats
}

// Resizable is implemented by renderers that can follow a window resize.
type Resizable interface {
	// Resize drains the GPU, then resizes the swap chain when the backend supports it and updates
	// the camera aspect ratio.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: a *Fault
	Resize(width, height uint32) error
}

var _ Renderer = &renderer{}
var _ StatsReporter = &renderer{}
var _ Resizable = &renderer{}

// NewRenderer creates an uninitialized Renderer on top of backend.
//
// Parameters:
//   - backend: the GPU backend
//   - options: functional options applied to the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:           &sync.Mutex{},
		backend:      backend,
		pacing:       fence.PacingDrainAll,
		clearColor:   common.Black,
		shaderSource: assets.ColorShader,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.camera == nil {
		r.camera = camera.NewCamera()
	}
	return r
}

func (r *renderer) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized || r.destroyed {
		return fault(FaultInit, "init", ErrAlreadyInitialized)
	}
	if err := r.initLocked(); err != nil {
		// a failed Init owns the cleanup; the renderer cannot be initialized again
		if releaseErr := r.backend.Release(); releaseErr != nil {
			common.Logger().Warn("backend release after failed init", "error", releaseErr)
		}
		r.destroyed = true
		return err
	}
	return nil
}

// initLocked allocates everything a frame needs. Caller must hold the mutex.
func (r *renderer) initLocked() error {
	if n := r.backend.BufferCount(); n != FrameCount {
		return fault(FaultInit, "init", errors.Errorf("swap chain has %d buffers, want %d", n, FrameCount))
	}

	opts := append([]pipeline.PipelineBuilderOption{pipeline.WithShaderSource(r.shaderSource, r.shaderSource)}, r.pipelineOptions...)
	p := pipeline.NewPipeline("color", opts...)
	if err := p.Validate(); err != nil {
		return fault(FaultInit, "create pipeline", err)
	}
	if err := r.backend.CreatePipeline(p); err != nil {
		return fault(FaultInit, "create pipeline", err)
	}

	vertices, err := r.loadVertices()
	if err != nil {
		return fault(FaultAsset, "load mesh", err)
	}

	bundle := resource.NewBundle(r.backend, FrameCount)
	if err := bundle.Init(vertices); err != nil {
		return fault(FaultInit, "allocate resources", err)
	}

	for slot := range r.sequences {
		r.sequences[slot] = command.NewSequence(uint32(slot))
	}
	r.pipeline = p
	r.bundle = bundle
	r.recorder = command.NewRecorder(command.WithClearColor(r.clearColor))
	r.fence = fence.NewFence(r.backend, FrameCount, fence.WithPacing(r.pacing), fence.WithTimeout(r.fenceTimeout))
	r.submitter = queue.NewSubmitter(r.backend, r.backend)

	w, h := r.backend.Viewport()
	if h > 0 {
		r.camera.SetAspect(float32(w) / float32(h))
	}

	r.initialized = true
	common.Logger().Info("renderer initialized",
		"vertices", len(vertices),
		"width", w, "height", h,
		"pacing", r.pacing.String(),
		"frameIndex", r.submitter.FrameIndex(),
	)
	return nil
}

// loadVertices returns the configured vertices, loading them through the mesh loader when needed.
func (r *renderer) loadVertices() ([]common.ColorVertex, error) {
	if len(r.vertices) > 0 {
		return r.vertices, nil
	}
	if r.meshLoader == nil {
		return nil, ErrNoMesh
	}
	m, err := r.meshLoader.Load(r.meshPath)
	if err != nil {
		return nil, err
	}
	return m.Vertices, nil
}

func (r *renderer) Update(dt float32) {
	r.camera.Update(dt)
}

func (r *renderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return fault(FaultFrame, "render", ErrNotInitialized)
	}

	slot := r.submitter.FrameIndex()

	// the slot's constants and sequence are only reused once its last submission has retired
	if err := r.fence.WaitForSlot(slot); err != nil {
		return fault(FaultSync, "wait for slot", err)
	}

	if err := r.bundle.WriteConstants(slot, r.camera.Constants().WorldViewProjection); err != nil {
		return fault(FaultFrame, "write constants", err)
	}

	w, h := r.backend.Viewport()
	rect := command.Rect{Width: float32(w), Height: float32(h)}
	vb := r.bundle.VertexBuffer()
	frame := command.Frame{
		Slot:         slot,
		Pipeline:     r.pipeline.Pipeline(),
		BindingTable: r.bundle.ConstantRegion(slot).View(),
		RenderTarget: r.bundle.RenderTargetView(slot),
		VertexBuffer: vb.Handle(),
		VertexCount:  vb.Count(),
		Viewport:     rect,
		Scissor:      rect,
	}

	seq := r.sequences[slot]
	if err := r.recorder.Record(seq, frame, r.fence.Completed()); err != nil {
		return fault(FaultFrame, "record", err)
	}
	if err := r.submitter.Submit(seq); err != nil {
		return fault(FaultFrame, "submit", err)
	}

	value, err := r.fence.Signal()
	if err != nil {
		return fault(FaultSync, "signal", err)
	}
	if err := seq.MarkSubmitted(value); err != nil {
		return fault(FaultFrame, "submit", err)
	}
	if err := r.fence.Pace(slot, value); err != nil {
		return fault(FaultSync, "pace", err)
	}

	r.frames++
	return nil
}

func (r *renderer) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return nil
	}
	if !r.initialized {
		return fault(FaultInit, "destroy", ErrNotInitialized)
	}

	// release even when the drain fails
	drainErr := r.fence.DrainAll()
	r.bundle.Release()
	releaseErr := r.backend.Release()

	r.initialized = false
	r.destroyed = true
	common.Logger().Info("renderer destroyed", "frames", r.frames, "fenceValue", r.fence.Next())

	if drainErr != nil {
		return fault(FaultSync, "drain", drainErr)
	}
	return fault(FaultInit, "release backend", releaseErr)
}

func (r *renderer) Resize(width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized || width == 0 || height == 0 {
		return nil
	}
	resizer, ok := r.backend.(Resizer)
	if !ok {
		return nil
	}
	if err := r.fence.DrainAll(); err != nil {
		return fault(FaultSync, "drain", err)
	}
	if err := resizer.Resize(width, height); err != nil {
		return fault(FaultFrame, "resize", err)
	}
	r.camera.SetAspect(float32(width) / float32(height))
	return nil
}

func (r *renderer) HandleKey(code uint32, down bool) {
	r.camera.HandleKey(code, down)
}

func (r *renderer) FrameIndex() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submitter == nil {
		return r.backend.CurrentBackBufferIndex()
	}
	return r.submitter.FrameIndex()
}

func (r *renderer) FenceValue() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fence == nil {
		return 0
	}
	return r.fence.Next()
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{Frames: r.frames, Pacing: r.pacing}
	if r.fence != nil {
		s.Fence = r.fence.Stats()
	}
	if r.submitter != nil {
		s.Submissions = r.submitter.Submissions()
		s.FrameIndex = r.submitter.FrameIndex()
	}
	return s
}
