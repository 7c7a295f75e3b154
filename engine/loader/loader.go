package loader

import (
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ/MTL loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys    fs.FS
	workers int

	meshCache map[string]*Mesh

	backend loaderBackend
	closed  bool
}

// Loader defines the public-facing interface for loading and caching meshes.
// It abstracts the file format behind a generic backend and manages a cache of previously loaded meshes.
type Loader interface {
	// Load decodes a mesh file and caches the result.
	// If the mesh is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.obj → OBJ backend).
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - *Mesh: the loaded and cached mesh
	//   - error: a *MalformedAssetError for faces that cannot be expanded, or any read/decode error
	Load(path string) (*Mesh, error)

	// LoadReader decodes a mesh from reader streams and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded mesh
	//   - r: the reader providing mesh data
	//   - materials: the reader providing the material library, or nil
	//
	// Returns:
	//   - *Mesh: the loaded mesh
	//   - error: error if loading fails
	LoadReader(name string, r, materials io.Reader) (*Mesh, error)

	// Get retrieves a cached mesh by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Mesh: the cached mesh or nil
	Get(name string) *Mesh

	// Meshes returns a copy of the mesh cache.
	//
	// Returns:
	//   - map[string]*Mesh: all cached meshes keyed by name
	Meshes() map[string]*Mesh

	// Close stops the backend worker pool. Cached meshes stay readable; new loads fail with ErrLoaderClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:        sync.RWMutex{},
		workers:   runtime.NumCPU(),
		meshCache: make(map[string]*Mesh),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend(l.workers)
	}
	return l
}

func (l *loader) Load(path string) (*Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if l.isClosed() {
		return nil, ErrLoaderClosed
	}
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	m, err := backend.Load(l.fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	common.Logger().Info("mesh loaded", "path", path, "vertices", len(m.Vertices), "shapes", len(m.Shapes), "warnings", len(m.Warnings))

	l.mu.Lock()
	l.meshCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r, materials io.Reader) (*Mesh, error) {
	l.mu.RLock()
	if cached, ok := l.meshCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if l.isClosed() {
		return nil, ErrLoaderClosed
	}
	m, err := l.backend.LoadReader(name, r, materials)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load from reader %q", name)
	}

	l.mu.Lock()
	l.meshCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) *Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]*Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Mesh, len(l.meshCache))
	for k, v := range l.meshCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.backend.Close()
}

func (l *loader) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only OBJ is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, errors.Errorf("unsupported mesh format: %s", ext)
	}
}
