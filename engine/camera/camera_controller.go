package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's positional state and turns held keys into motion.
// A key sets a velocity on its axis while held; releasing either key of an axis zeroes it.
// Position only changes inside Update, scaled by the elapsed time.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - p: world-space coordinates
	SetPosition(p mgl32.Vec3)

	// Angle returns the yaw around the Y axis in radians, 0 facing +Z.
	//
	// Returns:
	//   - float32: yaw in radians
	Angle() float32

	// SetAngle sets the yaw directly.
	//
	// Parameters:
	//   - angle: yaw in radians
	SetAngle(angle float32)

	// Target returns the look-at point one unit ahead of the camera along its heading.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// KeyDown starts motion on the axis bound to code. Unbound keys are ignored.
	//
	// Parameters:
	//   - code: the key code (see common.KeyW and friends)
	KeyDown(code uint32)

	// KeyUp stops motion on the axis bound to code.
	//
	// Parameters:
	//   - code: the key code
	KeyUp(code uint32)

	// ForwardVelocity returns the current forward speed in units per second.
	//
	// Returns:
	//   - float32: signed forward speed
	ForwardVelocity() float32

	// RotationVelocity returns the current yaw speed in radians per second.
	//
	// Returns:
	//   - float32: signed yaw speed
	RotationVelocity() float32

	// Update integrates the velocities over dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// MoveSpeed returns the forward speed applied while W or S is held.
	MoveSpeed() float32

	// TurnSpeed returns the yaw speed applied while A or D is held.
	TurnSpeed() float32
}
