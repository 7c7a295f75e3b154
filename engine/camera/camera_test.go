package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestForwardVelocityOnlyWhileHeld(t *testing.T) {
	cc := NewCameraController()
	assert.Zero(t, cc.ForwardVelocity())

	start := cc.Position()
	cc.KeyDown(common.KeyW)
	for i := 0; i < 10; i++ {
		assert.NotZero(t, cc.ForwardVelocity())
		cc.Update(0.1)
	}
	cc.KeyUp(common.KeyW)
	assert.Zero(t, cc.ForwardVelocity())

	moved := cc.Position()
	assert.InDelta(t, start.Z()+cc.MoveSpeed(), moved.Z(), 1e-4)

	cc.Update(1)
	assert.Equal(t, moved, cc.Position())
}

func TestKeyBindings(t *testing.T) {
	cc := NewCameraController(WithMoveSpeed(2), WithTurnSpeed(3))

	cc.KeyDown(common.KeyS)
	assert.Equal(t, float32(-2), cc.ForwardVelocity())
	cc.KeyDown(common.KeyA)
	assert.Equal(t, float32(-3), cc.RotationVelocity())
	cc.KeyDown(common.KeyD)
	assert.Equal(t, float32(3), cc.RotationVelocity())

	// releasing either key of an axis stops it
	cc.KeyUp(common.KeyA)
	assert.Zero(t, cc.RotationVelocity())
	cc.KeyUp(common.KeyW)
	assert.Zero(t, cc.ForwardVelocity())

	cc.KeyDown(common.KeySpace)
	assert.Zero(t, cc.ForwardVelocity())
	assert.Zero(t, cc.RotationVelocity())
}

func TestRotationTurnsHeading(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 0))
	cc.KeyDown(common.KeyD)
	cc.Update(1)
	cc.KeyUp(common.KeyD)

	assert.InDelta(t, 1.2, cc.Angle(), 1e-6)
	target := cc.Target()
	assert.InDelta(t, 0.932, target.X(), 1e-3)
	assert.InDelta(t, 0.362, target.Z(), 1e-3)
}

func TestDefaultCameraProjectsPointAhead(t *testing.T) {
	c := NewCamera(WithAspect(4.0 / 3.0))

	assert.Equal(t, mgl32.Vec3{0, 1, -5}, c.Controller().Position())

	wvp := mgl32.Mat4(c.Constants().WorldViewProjection)
	clip := wvp.Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 5, clip.W(), 1e-4)
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)

	depth := clip.Z() / clip.W()
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))
}

func TestHandleKeyDrivesController(t *testing.T) {
	c := NewCamera()
	before := c.Constants()

	c.HandleKey(common.KeyW, true)
	c.Update(0.5)
	c.HandleKey(common.KeyW, false)

	assert.NotEqual(t, before, c.Constants())
	assert.Zero(t, c.Controller().ForwardVelocity())
}

func TestWorldMatrixIsApplied(t *testing.T) {
	c := NewCamera()
	base := c.Constants()

	c.SetWorldMatrix(mgl32.Translate3D(1, 0, 0))
	assert.NotEqual(t, base, c.Constants())
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), c.WorldMatrix())

	var g GPUConstants
	assert.Equal(t, 64, g.Size())
}

func TestBuilderOptions(t *testing.T) {
	world := mgl32.Translate3D(0, 0, 2)
	c := NewCamera(
		WithFov(1),
		WithNear(0.5),
		WithFar(50),
		WithUp(0, 1, 1),
		WithWorldMatrix(world),
	)

	assert.Equal(t, float32(1), c.Fov())
	assert.Equal(t, float32(0.5), c.Near())
	assert.Equal(t, float32(50), c.Far())
	assert.Equal(t, mgl32.Vec3{0, 1, 1}, c.Up())
	assert.Equal(t, world, c.WorldMatrix())

	want := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4(world)
	assert.Equal(t, [16]float32(want), c.Constants().WorldViewProjection)
}

func assertFinite(t *testing.T, m [16]float32) {
	t.Helper()
	for i, v := range m {
		f := float64(v)
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "element %d is %v", i, v)
	}
}

func TestUpParallelToYawPlaneIsIgnored(t *testing.T) {
	c := NewCamera(WithUp(0, 0, 1))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assertFinite(t, c.Constants().WorldViewProjection)

	// Yawing a quarter turn would put +X up along the heading.
	c = NewCamera(WithUp(1, 0, 0))
	c.Controller().SetAngle(mgl32.DegToRad(90))
	c.Update(0)
	assertFinite(t, c.Constants().WorldViewProjection)
}

type fixedController struct {
	CameraController
	eye, target mgl32.Vec3
}

func (f *fixedController) Position() mgl32.Vec3 { return f.eye }
func (f *fixedController) Target() mgl32.Vec3   { return f.target }

func TestDegenerateViewKeepsLastMatrix(t *testing.T) {
	c := NewCamera()
	good := c.ViewMatrix()

	c.SetController(&fixedController{eye: mgl32.Vec3{1, 2, 3}, target: mgl32.Vec3{1, 2, 3}})
	assert.Equal(t, good, c.ViewMatrix())
	assertFinite(t, c.Constants().WorldViewProjection)

	c.SetController(&fixedController{eye: mgl32.Vec3{0, 0, 0}, target: mgl32.Vec3{0, 5, 0}})
	assert.Equal(t, good, c.ViewMatrix())
	assertFinite(t, c.Constants().WorldViewProjection)
}
