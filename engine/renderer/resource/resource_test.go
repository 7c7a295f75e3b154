package resource

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memVertexBuffer struct {
	data          []byte
	stride, count uint32
	released      bool
}

func (v *memVertexBuffer) Handle() any    { return v }
func (v *memVertexBuffer) Stride() uint32 { return v.stride }
func (v *memVertexBuffer) Count() uint32  { return v.count }
func (v *memVertexBuffer) Release()       { v.released = true }

type memRegion struct {
	slot     uint32
	data     []byte
	released bool
}

func (r *memRegion) Slot() uint32 { return r.slot }
func (r *memRegion) Size() uint64 { return uint64(len(r.data)) }
func (r *memRegion) View() any    { return r }
func (r *memRegion) Release()     { r.released = true }
func (r *memRegion) Write(data []byte) error {
	if len(data) > len(r.data) {
		return errors.New("too large")
	}
	copy(r.data, data)
	return nil
}

type memAllocator struct {
	vertexBuffers []*memVertexBuffer
	regions       []*memRegion
	failRegion    int
}

func (a *memAllocator) CreateVertexBuffer(label string, data []byte, stride, count uint32) (VertexBuffer, error) {
	vb := &memVertexBuffer{data: append([]byte(nil), data...), stride: stride, count: count}
	a.vertexBuffers = append(a.vertexBuffers, vb)
	return vb, nil
}

func (a *memAllocator) CreateConstantRegion(label string, slot uint32, size uint64) (ConstantRegion, error) {
	if a.failRegion > 0 && int(slot)+1 == a.failRegion {
		return nil, errors.New("out of memory")
	}
	r := &memRegion{slot: slot, data: make([]byte, size)}
	a.regions = append(a.regions, r)
	return r, nil
}

func (a *memAllocator) RenderTargetView(slot uint32) (any, error) {
	return slot, nil
}

func triangle() []common.ColorVertex {
	return []common.ColorVertex{
		{Position: [3]float32{0, 1, 0}, Color: [4]float32{1, 0, 0, 1}},
		{Position: [3]float32{1, 0, 0}, Color: [4]float32{0, 1, 0, 1}},
		{Position: [3]float32{-1, 0, 0}, Color: [4]float32{0, 0, 1, 1}},
	}
}

func TestInitAllocatesOnce(t *testing.T) {
	alloc := &memAllocator{}
	b := NewBundle(alloc, 2, WithLabel("Test"))

	require.NoError(t, b.Init(triangle()))
	assert.True(t, b.Initialized())
	assert.Equal(t, uint32(3), b.VertexBuffer().Count())
	assert.Equal(t, common.ColorVertexStride, b.VertexBuffer().Stride())
	assert.Len(t, alloc.vertexBuffers[0].data, 3*int(common.ColorVertexStride))

	require.Len(t, alloc.regions, 2)
	for slot := uint32(0); slot < 2; slot++ {
		assert.Equal(t, uint64(256), b.ConstantRegion(slot).Size())
		assert.Equal(t, slot, b.RenderTargetView(slot))
	}

	assert.True(t, errors.Is(b.Init(triangle()), ErrAlreadyInitialized))
	assert.Len(t, alloc.vertexBuffers, 1)
}

func TestInitRejectsEmptyMesh(t *testing.T) {
	b := NewBundle(&memAllocator{}, 2)
	assert.True(t, errors.Is(b.Init(nil), ErrEmptyMesh))
	assert.False(t, b.Initialized())
}

func TestInitFailureReleasesPartialAllocations(t *testing.T) {
	alloc := &memAllocator{failRegion: 2}
	b := NewBundle(alloc, 2)

	require.Error(t, b.Init(triangle()))
	assert.False(t, b.Initialized())
	assert.True(t, alloc.vertexBuffers[0].released)
	assert.True(t, alloc.regions[0].released)
}

func TestWriteConstantsTargetsOnlyThatSlot(t *testing.T) {
	alloc := &memAllocator{}
	b := NewBundle(alloc, 2)
	require.NoError(t, b.Init(triangle()))

	var wvp [16]float32
	for i := range wvp {
		wvp[i] = float32(i + 1)
	}
	require.NoError(t, b.WriteConstants(1, wvp))

	got := math.Float32frombits(binary.LittleEndian.Uint32(alloc.regions[1].data[15*4:]))
	assert.Equal(t, float32(16), got)
	assert.Equal(t, make([]byte, 256), alloc.regions[0].data)
}

func TestWriteConstantsBeforeInit(t *testing.T) {
	b := NewBundle(&memAllocator{}, 2)
	assert.True(t, errors.Is(b.WriteConstants(0, [16]float32{}), ErrNotInitialized))
}

func TestReleaseIsRepeatable(t *testing.T) {
	alloc := &memAllocator{}
	b := NewBundle(alloc, 2)
	require.NoError(t, b.Init(triangle()))

	b.Release()
	b.Release()
	assert.False(t, b.Initialized())
	assert.Nil(t, b.VertexBuffer())
	assert.True(t, alloc.regions[1].released)
}
