package resource

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
)

// ConstantsSize is the unaligned size of the per-frame constants: one column-major 4x4 float32 matrix.
const ConstantsSize = 16 * 4

var (
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("resource bundle already initialized")

	// ErrNotInitialized is returned when the bundle is used before Init.
	ErrNotInitialized = errors.New("resource bundle not initialized")

	// ErrEmptyMesh is returned when Init receives no vertices.
	ErrEmptyMesh = errors.New("mesh has no vertices")
)

// VertexBuffer is an immutable GPU vertex buffer.
type VertexBuffer interface {
	// Handle returns the backend object bound by set-vertex-buffer ops.
	Handle() any
	// Stride returns the size of one vertex in bytes.
	Stride() uint32
	// Count returns the number of vertices.
	Count() uint32
	// Release frees the GPU memory.
	Release()
}

// ConstantRegion is one frame slot's constant buffer region.
type ConstantRegion interface {
	// Slot returns the frame slot the region belongs to.
	Slot() uint32
	// Size returns the aligned size in bytes.
	Size() uint64
	// View returns the backend binding table entry that exposes this region to shaders.
	View() any
	// Write copies data to the start of the region.
	//
	// Parameters:
	//   - data: the bytes to write, at most Size() long
	//
	// Returns:
	//   - error: an error if data does not fit or the write failed
	Write(data []byte) error
	// Release frees the GPU memory.
	Release()
}

// Allocator creates GPU resources. Backends implement it.
type Allocator interface {
	// CreateVertexBuffer uploads data into a new immutable vertex buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - data: raw vertex bytes
	//   - stride: size of one vertex in bytes
	//   - count: number of vertices
	//
	// Returns:
	//   - VertexBuffer: the uploaded buffer
	//   - error: an error if allocation or upload failed
	CreateVertexBuffer(label string, data []byte, stride, count uint32) (VertexBuffer, error)

	// CreateConstantRegion allocates a CPU-writable constant buffer region for one frame slot.
	//
	// Parameters:
	//   - label: debug label
	//   - slot: the frame slot that owns the region
	//   - size: the aligned size in bytes
	//
	// Returns:
	//   - ConstantRegion: the allocated region
	//   - error: an error if allocation failed
	CreateConstantRegion(label string, slot uint32, size uint64) (ConstantRegion, error)

	// RenderTargetView returns the render-target view of a swap-chain buffer.
	//
	// Parameters:
	//   - slot: the frame slot
	//
	// Returns:
	//   - any: the backend view handle
	//   - error: an error if the slot does not exist
	RenderTargetView(slot uint32) (any, error)
}

// Bundle owns the resources the frame engine reads every frame but allocates once.
type Bundle interface {
	// Init uploads the vertex buffer, allocates one constant region per frame slot and
	// resolves every slot's render-target view. It must run exactly once.
	//
	// Parameters:
	//   - vertices: the mesh to upload
	//
	// Returns:
	//   - error: ErrAlreadyInitialized, ErrEmptyMesh, or an allocation error
	Init(vertices []common.ColorVertex) error

	// Initialized reports whether Init succeeded.
	Initialized() bool

	// Slots returns the number of frame slots.
	Slots() uint32

	// VertexBuffer returns the uploaded vertex buffer, or nil before Init.
	VertexBuffer() VertexBuffer

	// ConstantRegion returns the constant region of slot, or nil.
	ConstantRegion(slot uint32) ConstantRegion

	// RenderTargetView returns the render-target view of slot, or nil.
	RenderTargetView(slot uint32) any

	// WriteConstants writes the world-view-projection matrix into slot's constant region.
	//
	// Parameters:
	//   - slot: the frame slot being recorded
	//   - wvp: the column-major matrix
	//
	// Returns:
	//   - error: ErrNotInitialized or a write error
	WriteConstants(slot uint32, wvp [16]float32) error

	// Release frees every resource. Safe to call more than once.
	Release()
}

type bundle struct {
	mu *sync.Mutex

	allocator Allocator
	slots     uint32
	label     string

	vertexBuffer  VertexBuffer
	regions       []ConstantRegion
	renderTargets []any
	initialized   bool
}

var _ Bundle = &bundle{}

// NewBundle creates an uninitialized Bundle.
//
// Parameters:
//   - alloc: the backend allocator
//   - slots: the number of frame slots
//   - options: functional options applied to the bundle
//
// Returns:
//   - Bundle: the new bundle
func NewBundle(alloc Allocator, slots uint32, options ...BundleBuilderOption) Bundle {
	b := &bundle{
		mu:        &sync.Mutex{},
		allocator: alloc,
		slots:     slots,
		label:     "Frame",
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *bundle) Init(vertices []common.ColorVertex) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return ErrAlreadyInitialized
	}
	if len(vertices) == 0 {
		return ErrEmptyMesh
	}

	vb, err := b.allocator.CreateVertexBuffer(b.label+" Vertex Buffer", common.SliceToBytes(vertices), common.ColorVertexStride, uint32(len(vertices)))
	if err != nil {
		return errors.Wrap(err, "create vertex buffer")
	}
	b.vertexBuffer = vb

	size := common.AlignConstantBuffer(ConstantsSize)
	b.regions = make([]ConstantRegion, b.slots)
	b.renderTargets = make([]any, b.slots)
	for slot := uint32(0); slot < b.slots; slot++ {
		region, err := b.allocator.CreateConstantRegion(fmt.Sprintf("%s Constants %d", b.label, slot), slot, size)
		if err != nil {
			b.releaseLocked()
			return errors.Wrapf(err, "create constant region for slot %d", slot)
		}
		b.regions[slot] = region

		rtv, err := b.allocator.RenderTargetView(slot)
		if err != nil {
			b.releaseLocked()
			return errors.Wrapf(err, "render target view for slot %d", slot)
		}
		b.renderTargets[slot] = rtv
	}

	b.initialized = true
	return nil
}

func (b *bundle) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

func (b *bundle) Slots() uint32 {
	return b.slots
}

func (b *bundle) VertexBuffer() VertexBuffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vertexBuffer
}

func (b *bundle) ConstantRegion(slot uint32) ConstantRegion {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(slot) >= len(b.regions) {
		return nil
	}
	return b.regions[slot]
}

func (b *bundle) RenderTargetView(slot uint32) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(slot) >= len(b.renderTargets) {
		return nil
	}
	return b.renderTargets[slot]
}

func (b *bundle) WriteConstants(slot uint32, wvp [16]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if int(slot) >= len(b.regions) {
		return errors.Errorf("write constants: slot %d out of range", slot)
	}
	if err := b.regions[slot].Write(common.StructToBytes(&wvp)); err != nil {
		return errors.Wrapf(err, "write constants for slot %d", slot)
	}
	return nil
}

func (b *bundle) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
}

func (b *bundle) releaseLocked() {
	for i, r := range b.regions {
		if r != nil {
			r.Release()
			b.regions[i] = nil
		}
	}
	if b.vertexBuffer != nil {
		b.vertexBuffer.Release()
		b.vertexBuffer = nil
	}
	b.regions = nil
	b.renderTargets = nil
	b.initialized = false
}
