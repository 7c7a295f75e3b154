package wgpu_backend

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

type waiter struct {
	value uint64
	ev    *fence.Event
}

// wgpuBackend is the RendererBackend on top of WebGPU. WebGPU hides swap-chain barriers and
// back-buffer indices, so both are tracked here: transitions are checked while folding a sequence
// into a render pass, and the back-buffer index advances on every Present.
type wgpuBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	width, height uint32
	presentMode   renderer.PresentMode
	fallback      bool
	preferred     pipeline.TextureFormat
	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode

	renderPipeline *wgpu.RenderPipeline
	fillMode       pipeline.FillMode

	// acquired between Execute and Present
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView

	backBuffer uint32
	completed  atomic.Uint64
	waiters    []waiter
	kick       chan struct{}
	pollerDone chan struct{}

	lost     error
	released bool
}

var _ renderer.RendererBackend = &wgpuBackend{}
var _ renderer.Resizer = &wgpuBackend{}

type vertexBuffer struct {
	buf    *wgpu.Buffer
	stride uint32
	count  uint32
	draw   uint32
}

func (v *vertexBuffer) Handle() any    { return v }
func (v *vertexBuffer) Stride() uint32 { return v.stride }
func (v *vertexBuffer) Count() uint32  { return v.count }
func (v *vertexBuffer) Release()       { v.buf.Release() }

type constantRegion struct {
	queue     *wgpu.Queue
	slot      uint32
	size      uint64
	buf       *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (r *constantRegion) Slot() uint32 { return r.slot }
func (r *constantRegion) Size() uint64 { return r.size }
func (r *constantRegion) View() any    { return r.bindGroup }

func (r *constantRegion) Write(data []byte) error {
	if uint64(len(data)) > r.size {
		return errors.Errorf("write of %d bytes exceeds region size %d", len(data), r.size)
	}
	return r.queue.WriteBuffer(r.buf, 0, data)
}

func (r *constantRegion) Release() {
	r.bindGroup.Release()
	r.buf.Release()
}

// NewBackend creates the WebGPU instance, adapter, device and a configured surface of FrameCount buffers.
// Must be called on the thread that owns the window.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the window
//   - width, height: the initial surface size
//   - options: functional options applied to the backend
//
// Returns:
//   - renderer.RendererBackend: the backend
//   - error: an error if any device object could not be created
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...BackendBuilderOption) (renderer.RendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuBackend{
		mu:          &sync.Mutex{},
		width:       uint32(width),
		height:      uint32(height),
		presentMode: renderer.PresentModeVSync,
		kick:        make(chan struct{}, 1),
		pollerDone:  make(chan struct{}),
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.fallback,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.releaseDevice()
		return nil, errors.Wrap(err, "request adapter")
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.releaseDevice()
		return nil, errors.Wrap(err, "request device")
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat, err = pickFormat(capabilities.Formats, toTextureFormat(b.preferred))
	if err != nil {
		b.releaseDevice()
		return nil, err
	}
	if len(capabilities.AlphaModes) > 0 {
		b.alphaMode = capabilities.AlphaModes[0]
	}
	b.configureSurface()

	go b.poll()

	common.Logger().Info("wgpu backend created",
		"format", b.surfaceFormat,
		"width", b.width, "height", b.height,
		"buffers", renderer.FrameCount,
	)
	return b, nil
}

// configureSurface (re)configures the surface for the current size. Caller must hold the mutex or own b exclusively.
func (b *wgpuBackend) configureSurface() {
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       b.width,
		Height:      b.height,
		PresentMode: toPresentMode(b.presentMode),
		AlphaMode:   b.alphaMode,
	})
}

// poll drives wgpu callbacks while anyone waits on the fence.
func (b *wgpuBackend) poll() {
	defer close(b.pollerDone)
	for range b.kick {
		for b.pending() {
			if queueEmpty := b.device.Poll(true, nil); queueEmpty {
				break
			}
		}
	}
}

func (b *wgpuBackend) pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters) > 0 && !b.released
}

func (b *wgpuBackend) CreatePipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := p.Validate(); err != nil {
		return err
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: string(p.VertexSource()),
		},
	})
	if err != nil {
		return errors.Wrap(err, "create vertex shader module")
	}
	defer vs.Release()

	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey() + " fragment",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: string(p.FragmentSource()),
		},
	})
	if err != nil {
		return errors.Wrap(err, "create fragment shader module")
	}
	defer fs.Release()

	if want := toTextureFormat(p.Format()); want != b.surfaceFormat {
		common.Logger().Warn("pipeline format differs from surface, using surface format",
			"pipeline", p.PipelineKey(), "want", want, "surface", b.surfaceFormat)
	}

	attributes := make([]wgpu.VertexAttribute, 0, len(p.VertexAttributes()))
	for _, a := range p.VertexAttributes() {
		attributes = append(attributes, wgpu.VertexAttribute{
			Format:         toVertexFormat(a.Format),
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
		})
	}

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if p.BlendEnabled() {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: p.PipelineKey() + " Render Pipeline",
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.VertexEntryPoint(),
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(p.VertexStride()),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attributes,
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toTopology(p.FillMode()),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  toCullMode(p.CullMode()),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return errors.Wrap(err, "create render pipeline")
	}

	if b.renderPipeline != nil {
		b.renderPipeline.Release()
	}
	b.renderPipeline = created
	b.fillMode = p.FillMode()
	p.SetPipeline(created)
	return nil
}

func (b *wgpuBackend) CreateVertexBuffer(label string, data []byte, stride, count uint32) (resource.VertexBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if uint64(len(data)) != uint64(stride)*uint64(count) {
		return nil, errors.Errorf("%s: %d bytes for %d vertices of stride %d", label, len(data), count, stride)
	}
	draw := count
	if b.fillMode == pipeline.FillWireframe {
		data = expandWireframe(data, stride)
		draw = uint32(len(data)) / stride
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", label)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, errors.Wrapf(err, "upload %s", label)
	}
	return &vertexBuffer{buf: buf, stride: stride, count: count, draw: draw}, nil
}

func (b *wgpuBackend) CreateConstantRegion(label string, slot uint32, size uint64) (resource.ConstantRegion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPipeline == nil {
		return nil, errors.Errorf("%s: no pipeline to bind against", label)
	}
	if slot >= renderer.FrameCount {
		return nil, errors.Errorf("%s: slot %d out of range", label, slot)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", label)
	}

	layout := b.renderPipeline.GetBindGroupLayout(0)
	defer layout.Release()
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		buf.Release()
		return nil, errors.Wrapf(err, "create %s bind group", label)
	}
	return &constantRegion{queue: b.queue, slot: slot, size: size, buf: buf, bindGroup: bindGroup}, nil
}

func (b *wgpuBackend) RenderTargetView(slot uint32) (any, error) {
	if slot >= renderer.FrameCount {
		return nil, errors.Errorf("render target %d out of range", slot)
	}
	// the surface hands out its texture on acquisition; the slot identifies it until then
	return slot, nil
}

func (b *wgpuBackend) Viewport() (width, height uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *wgpuBackend) Execute(seq command.Sequence) error {
	commandBuffer, err := b.encodeFrame(seq)
	if err != nil {
		return err
	}
	// wgpu may run work-done callbacks inside Submit, and those take mu
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

// encodeFrame folds seq into one render pass on the acquired surface texture. The texture is held
// until Present.
func (b *wgpuBackend) encodeFrame(seq command.Sequence) (*wgpu.CommandBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lost != nil {
		return nil, b.lost
	}
	if b.frameTexture != nil {
		return nil, b.failLocked(errors.New("previous frame surface not yet presented"))
	}
	if seq.Slot() != b.backBuffer {
		return nil, b.failLocked(errors.Errorf("sequence for slot %d executed on back buffer %d", seq.Slot(), b.backBuffer))
	}

	plan, err := planFrame(seq.Slot(), seq.Ops())
	if err != nil {
		return nil, b.failLocked(err)
	}
	rp, ok := plan.pipeline.(*wgpu.RenderPipeline)
	if !ok {
		return nil, b.failLocked(errors.Errorf("pipeline handle %T", plan.pipeline))
	}
	bindGroup, ok := plan.bindGroup.(*wgpu.BindGroup)
	if !ok {
		return nil, b.failLocked(errors.Errorf("binding table handle %T", plan.bindGroup))
	}
	vb, ok := plan.vertexBuffer.(*vertexBuffer)
	if !ok {
		return nil, b.failLocked(errors.Errorf("vertex buffer handle %T", plan.vertexBuffer))
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, b.failLocked(errors.Wrap(err, "acquire surface texture"))
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, b.failLocked(errors.Wrap(err, "create surface view"))
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, b.failLocked(errors.Wrap(err, "create command encoder"))
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: plan.clear[0], G: plan.clear[1], B: plan.clear[2], A: plan.clear[3],
			},
		}},
	})
	pass.SetPipeline(rp)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetViewport(plan.viewport.X, plan.viewport.Y, plan.viewport.Width, plan.viewport.Height, 0, 1)
	pass.SetScissorRect(uint32(plan.scissor.X), uint32(plan.scissor.Y), uint32(plan.scissor.Width), uint32(plan.scissor.Height))
	pass.SetVertexBuffer(0, vb.buf, 0, wgpu.WholeSize)
	if plan.drawn {
		count := plan.vertexCount
		if b.fillMode == pipeline.FillWireframe {
			count = vb.draw
		}
		pass.Draw(count, 1, 0, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, b.failLocked(errors.Wrap(err, "finish command encoder"))
	}

	b.frameTexture = surfaceTexture
	b.frameView = view
	return commandBuffer, nil
}

// failLocked records the first device error as ErrDeviceRemoved. Caller must hold the mutex.
func (b *wgpuBackend) failLocked(err error) error {
	if b.lost == nil {
		b.lost = errors.Wrap(renderer.ErrDeviceRemoved, err.Error())
	}
	return b.lost
}

func (b *wgpuBackend) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lost != nil {
		return b.lost
	}
	if b.frameTexture == nil {
		return b.failLocked(errors.New("present without an executed frame"))
	}

	b.surface.Present()
	b.frameView.Release()
	b.frameTexture.Release()
	b.frameView = nil
	b.frameTexture = nil
	b.backBuffer = (b.backBuffer + 1) % renderer.FrameCount
	return nil
}

func (b *wgpuBackend) CurrentBackBufferIndex() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backBuffer
}

func (b *wgpuBackend) BufferCount() uint32 {
	return renderer.FrameCount
}

func (b *wgpuBackend) CompletedValue() uint64 {
	return b.completed.Load()
}

func (b *wgpuBackend) Signal(value uint64) error {
	b.mu.Lock()
	released := b.released
	b.mu.Unlock()
	if released {
		return errors.New("wgpu backend released")
	}

	// the callback may run on the poller goroutine
	b.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		b.complete(value, status)
	})
	return nil
}

// complete advances the completed value and wakes the waiters it satisfies. It takes mu, so it
// must never run while mu is held.
func (b *wgpuBackend) complete(value uint64, status wgpu.QueueWorkDoneStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status != wgpu.QueueWorkDoneStatusSuccess && b.lost == nil {
		b.lost = errors.Wrapf(renderer.ErrDeviceRemoved, "queue work done status %v", status)
	}
	if value > b.completed.Load() {
		b.completed.Store(value)
	}
	b.fireLocked()
}

func (b *wgpuBackend) SetEventOnCompletion(value uint64, ev *fence.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.completed.Load() >= value {
		ev.Set()
		return nil
	}
	if b.released {
		return errors.New("wgpu backend released")
	}
	b.waiters = append(b.waiters, waiter{value: value, ev: ev})
	select {
	case b.kick <- struct{}{}:
	default:
	}
	return nil
}

// fireLocked sets the events of every satisfied waiter. Caller must hold the mutex.
func (b *wgpuBackend) fireLocked() {
	completed := b.completed.Load()
	kept := b.waiters[:0]
	for _, w := range b.waiters {
		if w.value <= completed {
			w.ev.Set()
			continue
		}
		kept = append(kept, w)
	}
	b.waiters = kept
}

func (b *wgpuBackend) Resize(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width == 0 || height == 0 {
		return nil
	}
	if b.frameTexture != nil {
		return errors.New("resize while a frame is acquired")
	}
	b.width, b.height = width, height
	b.configureSurface()
	common.Logger().Debug("surface resized", "width", width, "height", height)
	return nil
}

func (b *wgpuBackend) Release() error {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return nil
	}
	b.released = true
	close(b.kick)
	b.mu.Unlock()

	<-b.pollerDone

	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed.Store(math.MaxUint64)
	b.fireLocked()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameTexture != nil {
		b.frameTexture.Release()
		b.frameTexture = nil
	}
	if b.renderPipeline != nil {
		b.renderPipeline.Release()
		b.renderPipeline = nil
	}
	b.releaseDevice()
	return nil
}

// releaseDevice drops the device objects in reverse creation order.
func (b *wgpuBackend) releaseDevice() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
