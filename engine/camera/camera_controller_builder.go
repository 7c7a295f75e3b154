package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*flyController)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x: X coordinate
//   - y: Y coordinate
//   - z: Z coordinate
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *flyController) {
		cc.position = mgl32.Vec3{x, y, z}
	}
}

// WithAngle sets the initial yaw.
//
// Parameters:
//   - angle: yaw in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithAngle(angle float32) CameraControllerOption {
	return func(cc *flyController) {
		cc.angle = angle
	}
}

// WithMoveSpeed sets the forward speed applied while W or S is held.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *flyController) {
		cc.moveSpeed = speed
	}
}

// WithTurnSpeed sets the yaw speed applied while A or D is held.
//
// Parameters:
//   - speed: radians per second
//
// Returns:
//   - CameraControllerOption: functional option to set the turn speed
func WithTurnSpeed(speed float32) CameraControllerOption {
	return func(cc *flyController) {
		cc.turnSpeed = speed
	}
}
