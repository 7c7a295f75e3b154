package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/go-gl/mathgl/mgl32"
)

// flyController is the single implementation of CameraController.
// It moves along its heading on the XZ plane and yaws around the Y axis.
type flyController struct {
	mu *sync.Mutex

	position mgl32.Vec3
	angle    float32

	forwardVelocity  float32
	rotationVelocity float32

	moveSpeed float32
	turnSpeed float32
}

// Compile-time interface compliance check
var _ CameraController = &flyController{}

// NewCameraController creates a fly controller at (0, 1, -5) facing +Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &flyController{
		mu:        &sync.Mutex{},
		position:  mgl32.Vec3{0, 1, -5},
		moveSpeed: 1.5,
		turnSpeed: 1.2,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *flyController) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *flyController) SetPosition(p mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = p
}

func (cc *flyController) Angle() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.angle
}

func (cc *flyController) SetAngle(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.angle = angle
}

func (cc *flyController) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(common.Heading(cc.angle))
}

func (cc *flyController) KeyDown(code uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	switch code {
	case common.KeyA, common.KeyLeft:
		cc.rotationVelocity = -cc.turnSpeed
	case common.KeyD, common.KeyRight:
		cc.rotationVelocity = cc.turnSpeed
	case common.KeyW, common.KeyUp:
		cc.forwardVelocity = cc.moveSpeed
	case common.KeyS, common.KeyDown:
		cc.forwardVelocity = -cc.moveSpeed
	}
}

func (cc *flyController) KeyUp(code uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	switch code {
	case common.KeyA, common.KeyD, common.KeyLeft, common.KeyRight:
		cc.rotationVelocity = 0
	case common.KeyW, common.KeyS, common.KeyUp, common.KeyDown:
		cc.forwardVelocity = 0
	}
}

func (cc *flyController) ForwardVelocity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forwardVelocity
}

func (cc *flyController) RotationVelocity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotationVelocity
}

func (cc *flyController) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.angle += cc.rotationVelocity * dt
	// yaw first, then move along the new heading
	cc.position = cc.position.Add(common.Heading(cc.angle).Mul(cc.forwardVelocity * dt))
}

func (cc *flyController) MoveSpeed() float32 {
	return cc.moveSpeed
}

func (cc *flyController) TurnSpeed() float32 {
	return cc.turnSpeed
}
