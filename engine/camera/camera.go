package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateEpsilon bounds the cross product length below which eye, target and up no longer
// define a view basis.
const degenerateEpsilon = 1e-6

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	worldMatrix      mgl32.Mat4
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	wvp              mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes the left-handed view and projection
// matrices from its attached CameraController each time Update runs.
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// WorldMatrix returns the model-to-world transform applied to the mesh.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// ViewMatrix returns the current view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Constants returns the per-frame constant block for the current matrices.
	//
	// Returns:
	//   - GPUConstants: projection * view * world, column-major
	Constants() GPUConstants

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// HandleKey forwards a key transition to the controller.
	//
	// Parameters:
	//   - code: the key code
	//   - down: true on press, false on release
	HandleKey(code uint32, down bool)

	// Update advances the controller by dt seconds and recomputes the matrices.
	// Should be called once per frame before rendering.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetWorldMatrix sets the model-to-world transform and recomputes matrices.
	//
	// Parameters:
	//   - m: the world matrix
	SetWorldMatrix(m mgl32.Mat4)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 60 degree field of view, a 0.001 near plane and a 100 far plane.
// When no controller is supplied a default fly controller is attached.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         60.0 * (math.Pi / 180.0), // radians
		aspect:      1.0,
		near:        0.001,
		far:         100.0,
		worldMatrix: mgl32.Ident4(),
		viewMatrix:  mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) WorldMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldMatrix
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Constants() GPUConstants {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUConstants{WorldViewProjection: c.wvp}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) HandleKey(code uint32, down bool) {
	ctrl := c.Controller()
	if down {
		ctrl.KeyDown(code)
	} else {
		ctrl.KeyUp(code)
	}
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.Update(dt)
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetWorldMatrix(m mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.worldMatrix = m
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and world-view-projection matrices from the controller.
// A degenerate basis (target on the eye, or heading parallel to up) keeps the previous view matrix.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}
	eye, target := c.controller.Position(), c.controller.Target()
	if c.up.Cross(target.Sub(eye)).Len() > degenerateEpsilon {
		c.viewMatrix = common.LookAtLH(eye, target, c.up)
	}
	c.projectionMatrix = common.PerspectiveLH(c.fov, c.aspect, c.near, c.far)
	c.wvp = c.projectionMatrix.Mul4(c.viewMatrix).Mul4(c.worldMatrix)
}
