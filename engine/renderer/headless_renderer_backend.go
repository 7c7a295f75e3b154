package renderer

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/pkg/errors"
)

// HeadlessBackend is a RendererBackend without a GPU. Submitted work runs in order on an executor
// goroutine that tracks render-target states, so barrier or presentation mistakes surface as
// ErrDeviceRemoved exactly where a real device would reject them.
type HeadlessBackend interface {
	RendererBackend

	// Signaled returns every fence value the executor has reached, in order.
	Signaled() []uint64

	// Executed returns the slot of every executed sequence, in order.
	Executed() []uint32

	// Presented returns the slot of every presented buffer, in order.
	Presented() []uint32

	// Registrations returns how many completion events were registered.
	Registrations() int

	// Constants returns the last matrix written to a slot's constant region.
	//
	// Parameters:
	//   - slot: the frame slot
	//
	// Returns:
	//   - [16]float32: the column-major matrix
	Constants(slot uint32) [16]float32

	// Err returns the sticky device error, or nil.
	Err() error
}

type headlessWaiter struct {
	value uint64
	ev    *fence.Event
}

type headlessRendererBackend struct {
	mu *sync.Mutex

	width, height uint32
	buffers       uint32
	latency       time.Duration

	backBuffer uint32
	completed  atomic.Uint64
	waiters    []headlessWaiter

	// executor-owned
	states []command.ResourceState

	// sendMu orders sends on work against Release; the executor never takes it
	sendMu   sync.Mutex
	work     chan func()
	done     chan struct{}
	released bool
	lost     error

	regions       []*headlessRegion
	signaled      []uint64
	executed      []uint32
	presented     []uint32
	registrations int
}

var _ HeadlessBackend = &headlessRendererBackend{}
var _ Resizer = &headlessRendererBackend{}

type headlessPipeline struct {
	key string
}

type headlessTarget struct {
	slot uint32
}

type headlessVertexBuffer struct {
	data          []byte
	stride, count uint32
}

func (b *headlessVertexBuffer) Handle() any    { return b }
func (b *headlessVertexBuffer) Stride() uint32 { return b.stride }
func (b *headlessVertexBuffer) Count() uint32  { return b.count }
func (b *headlessVertexBuffer) Release()       { b.data = nil }

type headlessRegion struct {
	mu   sync.Mutex
	slot uint32
	data []byte
}

func (r *headlessRegion) Slot() uint32 { return r.slot }
func (r *headlessRegion) Size() uint64 { return uint64(len(r.data)) }
func (r *headlessRegion) View() any    { return r }
func (r *headlessRegion) Release()     {}

func (r *headlessRegion) Write(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(data) > len(r.data) {
		return errors.Errorf("write of %d bytes exceeds region size %d", len(data), len(r.data))
	}
	copy(r.data, data)
	return nil
}

// NewHeadlessBackend creates a HeadlessBackend and starts its executor goroutine.
//
// Parameters:
//   - options: functional options applied to the backend
//
// Returns:
//   - HeadlessBackend: the new backend
func NewHeadlessBackend(options ...HeadlessBackendOption) HeadlessBackend {
	b := &headlessRendererBackend{
		mu:      &sync.Mutex{},
		width:   1280,
		height:  720,
		buffers: FrameCount,
		work:    make(chan func(), 64),
		done:    make(chan struct{}),
	}
	for _, opt := range options {
		opt(b)
	}
	b.states = make([]command.ResourceState, b.buffers)
	go b.run()
	return b
}

func (b *headlessRendererBackend) run() {
	defer close(b.done)
	for item := range b.work {
		if b.latency > 0 {
			time.Sleep(b.latency)
		}
		item()
	}
}

// enqueue hands an item to the executor. Caller must not hold the mutex.
func (b *headlessRendererBackend) enqueue(item func()) error {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()
	if b.released {
		return errors.New("headless backend released")
	}
	b.work <- item
	return nil
}

// fail records the first device error. Caller must hold the mutex.
func (b *headlessRendererBackend) fail(err error) {
	if b.lost == nil {
		b.lost = err
	}
}

func (b *headlessRendererBackend) CreateVertexBuffer(label string, data []byte, stride, count uint32) (resource.VertexBuffer, error) {
	if uint64(len(data)) != uint64(stride)*uint64(count) {
		return nil, errors.Errorf("%s: %d bytes for %d vertices of stride %d", label, len(data), count, stride)
	}
	return &headlessVertexBuffer{data: append([]byte(nil), data...), stride: stride, count: count}, nil
}

func (b *headlessRendererBackend) CreateConstantRegion(label string, slot uint32, size uint64) (resource.ConstantRegion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if slot >= b.buffers {
		return nil, errors.Errorf("%s: slot %d out of range", label, slot)
	}
	r := &headlessRegion{slot: slot, data: make([]byte, size)}
	for len(b.regions) <= int(slot) {
		b.regions = append(b.regions, nil)
	}
	b.regions[slot] = r
	return r, nil
}

func (b *headlessRendererBackend) RenderTargetView(slot uint32) (any, error) {
	if slot >= b.buffers {
		return nil, errors.Errorf("render target %d out of range", slot)
	}
	return headlessTarget{slot: slot}, nil
}

func (b *headlessRendererBackend) CreatePipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.SetPipeline(headlessPipeline{key: p.PipelineKey()})
	return nil
}

func (b *headlessRendererBackend) Viewport() (width, height uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *headlessRendererBackend) Resize(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 && height > 0 {
		b.width, b.height = width, height
	}
	return nil
}

func (b *headlessRendererBackend) Execute(seq command.Sequence) error {
	if err := b.Err(); err != nil {
		return err
	}
	slot := seq.Slot()
	ops := seq.Ops()
	return b.enqueue(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if err := b.apply(slot, ops); err != nil {
			b.fail(err)
		}
		b.executed = append(b.executed, slot)
	})
}

// apply replays ops against the tracked render-target states. Runs on the executor.
func (b *headlessRendererBackend) apply(slot uint32, ops []command.Op) error {
	for _, op := range ops {
		switch op.Kind {
		case command.OpTransition:
			if op.Target >= b.buffers {
				return errors.Wrapf(ErrDeviceRemoved, "transition of missing target %d", op.Target)
			}
			if b.states[op.Target] != op.Before {
				return errors.Wrapf(ErrDeviceRemoved, "transition %s on target %d in state %s", op, op.Target, b.states[op.Target])
			}
			b.states[op.Target] = op.After
		case command.OpSetRenderTarget, command.OpClear, command.OpDraw:
			if b.states[slot] != command.StateRenderable {
				return errors.Wrapf(ErrDeviceRemoved, "%s on target %d in state %s", op, slot, b.states[slot])
			}
		}
	}
	return nil
}

func (b *headlessRendererBackend) Present() error {
	b.mu.Lock()
	if b.lost != nil {
		err := b.lost
		b.mu.Unlock()
		return err
	}
	slot := b.backBuffer
	b.backBuffer = (b.backBuffer + 1) % b.buffers
	b.mu.Unlock()

	return b.enqueue(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.states[slot] != command.StatePresentable {
			b.fail(errors.Wrapf(ErrDeviceRemoved, "present of target %d in state %s", slot, b.states[slot]))
		}
		b.presented = append(b.presented, slot)
	})
}

func (b *headlessRendererBackend) CurrentBackBufferIndex() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backBuffer
}

func (b *headlessRendererBackend) BufferCount() uint32 {
	return b.buffers
}

func (b *headlessRendererBackend) CompletedValue() uint64 {
	return b.completed.Load()
}

func (b *headlessRendererBackend) Signal(value uint64) error {
	return b.enqueue(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if value > b.completed.Load() {
			b.completed.Store(value)
		}
		b.signaled = append(b.signaled, value)
		b.fireLocked()
	})
}

func (b *headlessRendererBackend) SetEventOnCompletion(value uint64, ev *fence.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.registrations++
	if b.completed.Load() >= value {
		ev.Set()
		return nil
	}
	b.waiters = append(b.waiters, headlessWaiter{value: value, ev: ev})
	return nil
}

// fireLocked sets the events of every satisfied waiter. Caller must hold the mutex.
func (b *headlessRendererBackend) fireLocked() {
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

func (b *headlessRendererBackend) Release() error {
	b.sendMu.Lock()
	if b.released {
		b.sendMu.Unlock()
		return nil
	}
	b.released = true
	close(b.work)
	b.sendMu.Unlock()

	<-b.done

	b.mu.Lock()
	defer b.mu.Unlock()
	// nothing will signal again; wake anyone still waiting
	b.completed.Store(math.MaxUint64)
	b.fireLocked()
	return nil
}

func (b *headlessRendererBackend) Signaled() []uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint64(nil), b.signaled...)
}

func (b *headlessRendererBackend) Executed() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint32(nil), b.executed...)
}

func (b *headlessRendererBackend) Presented() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint32(nil), b.presented...)
}

func (b *headlessRendererBackend) Registrations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registrations
}

func (b *headlessRendererBackend) Constants(slot uint32) [16]float32 {
	b.mu.Lock()
	var r *headlessRegion
	if int(slot) < len(b.regions) {
		r = b.regions[slot]
	}
	b.mu.Unlock()

	var m [16]float32
	if r == nil {
		return m
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range m {
		bits := uint32(r.data[i*4]) | uint32(r.data[i*4+1])<<8 | uint32(r.data[i*4+2])<<16 | uint32(r.data[i*4+3])<<24
		m[i] = math.Float32frombits(bits)
	}
	return m
}

func (b *headlessRendererBackend) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lost
}
