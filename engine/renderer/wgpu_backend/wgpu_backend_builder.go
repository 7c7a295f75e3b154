package wgpu_backend

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
)

// BackendBuilderOption is a functional option applied to the backend during construction via NewBackend.
type BackendBuilderOption func(*wgpuBackend)

// WithPresentMode sets how frames are presented. The default is renderer.PresentModeVSync.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - BackendBuilderOption: a function that applies the present mode to a backend
func WithPresentMode(mode renderer.PresentMode) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.presentMode = mode
	}
}

// WithFallbackAdapter forces the software adapter.
//
// Parameters:
//   - fallback: whether to force the fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the adapter option to a backend
func WithFallbackAdapter(fallback bool) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.fallback = fallback
	}
}

// WithPreferredFormat selects the surface format when the surface supports it. The default is RGBA8.
//
// Parameters:
//   - format: the preferred render target format
//
// Returns:
//   - BackendBuilderOption: a function that applies the format preference to a backend
func WithPreferredFormat(format pipeline.TextureFormat) BackendBuilderOption {
	return func(b *wgpuBackend) {
		b.preferred = format
	}
}
