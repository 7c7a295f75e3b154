package loader

import "io/fs"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS is an option builder that makes Load read from fsys instead of the host file system.
//
// Parameters:
//   - fsys: the file system, e.g. an embed.FS
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithWorkers is an option builder that caps the number of goroutines expanding objects in parallel.
//
// Parameters:
//   - n: the maximum number of workers, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMesh is an option builder that pre-populates the mesh cache.
//
// Parameters:
//   - key: the cache key for the mesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(key string, m *Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[key] = m
	}
}
