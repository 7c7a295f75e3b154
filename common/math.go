package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ConstantBufferAlignment is the required alignment of a constant buffer region in bytes.
const ConstantBufferAlignment = 256

// AlignConstantBuffer rounds a constant buffer size up to ConstantBufferAlignment.
//
// Parameters:
//   - size: the unaligned size in bytes
//
// Returns:
//   - uint64: the aligned size
func AlignConstantBuffer(size uint64) uint64 {
	return AlignUp(size, ConstantBufferAlignment)
}

// LookAtLH builds a left-handed view matrix looking from eye towards target.
// The result is column-major and expects column vectors (clip = M * v).
//
// Parameters:
//   - eye: the camera position
//   - target: the point the camera looks at
//   - up: the world up vector
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAtLH(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	z := target.Sub(eye).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveLH builds a left-handed perspective projection with depth mapped to [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near clipping plane distance
//   - far: far clipping plane distance
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := float32(1 / math.Tan(float64(fovY)/2))
	w := h / aspect
	r := far / (far - near)

	return mgl32.Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, 1,
		0, 0, -near * r, 0,
	}
}

// Heading returns the unit direction on the XZ plane for a yaw angle, where angle 0 faces +Z.
//
// Parameters:
//   - angle: yaw in radians
//
// Returns:
//   - mgl32.Vec3: the unit direction
func Heading(angle float32) mgl32.Vec3 {
	s, c := math.Sincos(float64(angle))
	return mgl32.Vec3{float32(s), 0, float32(c)}
}
