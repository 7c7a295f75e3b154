package camera

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option applied to a camera during construction via NewCamera.
// The matrices are computed once after every option has run.
type CameraBuilderOption func(*cameraImpl)

// WithUp overrides the world up vector used by the look-at transform. The default is +Y.
// The fly controller yaws in the XZ plane, so an up vector without a Y component is parallel to
// some heading and is ignored.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that applies the up vector to a camera
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		up := mgl32.Vec3{x, y, z}
		if mgl32.Abs(y) <= degenerateEpsilon {
			common.Logger().Warn("ignoring up vector parallel to the yaw plane", "up", up)
			return
		}
		c.up = up
	}
}

// WithFov sets the vertical field of view in radians. The default is 60 degrees.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that applies the field of view to a camera
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the initial width / height ratio. The renderer replaces it with the swap chain
// ratio during Init.
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: a function that applies the aspect ratio to a camera
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near plane of the depth range.
//
// Parameters:
//   - near: near plane distance, greater than zero
//
// Returns:
//   - CameraBuilderOption: a function that applies the near plane to a camera
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far plane of the depth range.
//
// Parameters:
//   - far: far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: a function that applies the far plane to a camera
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithWorldMatrix places the mesh in the world. The default is the identity.
//
// Parameters:
//   - m: the model-to-world transform
//
// Returns:
//   - CameraBuilderOption: a function that applies the world matrix to a camera
func WithWorldMatrix(m mgl32.Mat4) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.worldMatrix = m
	}
}

// WithController replaces the default fly controller.
//
// Parameters:
//   - ctrl: the controller that supplies eye position and heading
//
// Returns:
//   - CameraBuilderOption: a function that applies the controller to a camera
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
