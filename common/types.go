package common

import "unsafe"

// ColorVertex is the vertex layout consumed by the colour pipeline.
// Position is in object space, Color is linear RGBA taken from the face material.
type ColorVertex struct {
	Position [3]float32
	Color    [4]float32
}

// ColorVertexStride is the size in bytes of one ColorVertex as laid out in a vertex buffer.
const ColorVertexStride = uint32(unsafe.Sizeof(ColorVertex{}))

// ColorVertexColorOffset is the byte offset of ColorVertex.Color inside one vertex.
const ColorVertexColorOffset = uint32(unsafe.Offsetof(ColorVertex{}.Color))

// RGBA is a clear or material colour with components in [0, 1].
type RGBA [4]float64

// Black is the default clear colour.
var Black = RGBA{0, 0, 0, 1}
