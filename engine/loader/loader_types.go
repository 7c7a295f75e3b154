package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
)

// ErrNoGeometry is returned when a mesh file decodes to zero triangles.
var ErrNoGeometry = errors.New("mesh contains no triangles")

// ErrLoaderClosed is returned by loads of uncached meshes after Close.
var ErrLoaderClosed = errors.New("loader closed")

// Shape is one named object of a mesh, stored as a contiguous run of vertices.
type Shape struct {
	Name  string
	First uint32
	Count uint32
}

// Mesh is a decoded, triangulated mesh ready for upload. Every three vertices form one triangle
// and every vertex carries the diffuse colour of its face's material.
type Mesh struct {
	Name     string
	Vertices []common.ColorVertex
	Shapes   []Shape
	Warnings []string
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() uint32 {
	return uint32(len(m.Vertices))
}

// MalformedAssetError reports a face that cannot be expanded, most commonly one that references
// a material the material library does not define.
type MalformedAssetError struct {
	Path     string
	Object   string
	Face     int
	Material string
	Reason   string
}

func (e *MalformedAssetError) Error() string {
	if e.Material != "" {
		return fmt.Sprintf("malformed asset %s: object %q face %d: %s %q", e.Path, e.Object, e.Face, e.Reason, e.Material)
	}
	return fmt.Sprintf("malformed asset %s: object %q face %d: %s", e.Path, e.Object, e.Face, e.Reason)
}
