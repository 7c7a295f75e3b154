package camera

import "unsafe"

// GPUConstants is the per-frame constant block read by the vertex shader.
// Matches the WGSL Constants struct: one column-major mat4x4<f32> (64 bytes).
type GPUConstants struct {
	WorldViewProjection [16]float32 // offset 0: projection * view * world (mat4x4<f32>)
}

// Size returns the size of the GPUConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUConstants) Size() int {
	return int(unsafe.Sizeof(*g))
}
