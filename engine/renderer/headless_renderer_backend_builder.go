package renderer

import "time"

// HeadlessBackendOption is a functional option applied to a headless backend during construction.
type HeadlessBackendOption func(*headlessRendererBackend)

// WithHeadlessSize sets the swap chain buffer size reported by Viewport.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - HeadlessBackendOption: a function that applies the size to a backend
func WithHeadlessSize(width, height uint32) HeadlessBackendOption {
	return func(b *headlessRendererBackend) {
		b.width = width
		b.height = height
	}
}

// WithHeadlessLatency delays every executor item, simulating a GPU that lags the CPU.
//
// Parameters:
//   - d: the delay per item
//
// Returns:
//   - HeadlessBackendOption: a function that applies the latency to a backend
func WithHeadlessLatency(d time.Duration) HeadlessBackendOption {
	return func(b *headlessRendererBackend) {
		b.latency = d
	}
}

// WithHeadlessBufferCount overrides the swap chain buffer count.
//
// Parameters:
//   - n: the buffer count, at least 1
//
// Returns:
//   - HeadlessBackendOption: a function that applies the buffer count to a backend
func WithHeadlessBufferCount(n uint32) HeadlessBackendOption {
	return func(b *headlessRendererBackend) {
		if n > 0 {
			b.buffers = n
		}
	}
}
