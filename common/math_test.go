package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAlignConstantBuffer(t *testing.T) {
	assert.Equal(t, uint64(256), AlignConstantBuffer(64))
	assert.Equal(t, uint64(256), AlignConstantBuffer(256))
	assert.Equal(t, uint64(512), AlignConstantBuffer(257))
	assert.Equal(t, uint64(0), AlignConstantBuffer(0))
}

func TestLookAtLHMapsTargetOntoPositiveZ(t *testing.T) {
	view := LookAtLH(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-6)
	assert.InDelta(t, 0, p.Y(), 1e-6)
	assert.InDelta(t, 5, p.Z(), 1e-6)

	// +X in world stays on the right for a camera looking down +Z.
	r := view.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, r.X(), 1e-6)
}

func TestPerspectiveLHDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := PerspectiveLH(mgl32.DegToRad(60), 16.0/9.0, near, far)

	n := proj.Mul4x1(mgl32.Vec4{0, 0, near, 1})
	assert.InDelta(t, 0, n.Z()/n.W(), 1e-5)

	f := proj.Mul4x1(mgl32.Vec4{0, 0, far, 1})
	assert.InDelta(t, 1, f.Z()/f.W(), 1e-5)
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "component %d", i)
	}
}

func TestHeading(t *testing.T) {
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, Heading(0))
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, Heading(mgl32.DegToRad(90)))
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, Heading(mgl32.DegToRad(180)))
}

func TestColorVertexLayout(t *testing.T) {
	assert.Equal(t, uint32(28), ColorVertexStride)
	assert.Equal(t, uint32(12), ColorVertexColorOffset)
	assert.Len(t, SliceToBytes([]ColorVertex{{}, {}}), 56)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
