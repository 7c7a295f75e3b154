// Package assets embeds the shader and default mesh shipped with the engine.
package assets

import "embed"

// ColorShader is the WGSL module holding the vs_main and fs_main entry points of the colour pipeline.
//
//go:embed shaders/color.wgsl
var ColorShader []byte

// Meshes holds the bundled OBJ meshes and their MTL libraries.
//
//go:embed meshes
var Meshes embed.FS

// CornellBoxPath is the path of the default mesh inside Meshes.
const CornellBoxPath = "meshes/cornell_box.obj"

// CornellBoxVertices is the number of vertices CornellBoxPath expands to.
const CornellBoxVertices = 96
