package loader

import (
	"io"
	"io/fs"
)

// loaderBackend defines the generic interface for decoding mesh files.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the mesh at path together with any companion files it references.
	//
	// Parameters:
	//   - fsys: the file system to read from, or nil for the host file system
	//   - path: the file path to load
	//
	// Returns:
	//   - *Mesh: the decoded mesh
	//   - error: error if reading or decoding fails
	Load(fsys fs.FS, path string) (*Mesh, error)

	// LoadReader decodes a mesh from reader streams.
	//
	// Parameters:
	//   - name: the name reported in errors and stored on the mesh
	//   - r: the reader providing mesh data
	//   - companion: the reader providing the material library, or nil
	//
	// Returns:
	//   - *Mesh: the decoded mesh
	//   - error: error if decoding fails
	LoadReader(name string, r, companion io.Reader) (*Mesh, error)

	// Close releases resources held by the backend.
	Close()
}
