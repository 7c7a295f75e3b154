package fence

import "time"

// FenceBuilderOption is a functional option applied to a fence during construction via NewFence.
type FenceBuilderOption func(*fence)

// WithPacing sets the pacing policy. The default is PacingDrainAll.
//
// Parameters:
//   - p: the pacing policy
//
// Returns:
//   - FenceBuilderOption: a function that applies the pacing policy to a fence
func WithPacing(p PacingPolicy) FenceBuilderOption {
	return func(f *fence) {
		f.policy = p
	}
}

// WithTimeout bounds every blocking wait. Zero, the default, waits forever.
//
// Parameters:
//   - d: the maximum time a single wait may block
//
// Returns:
//   - FenceBuilderOption: a function that applies the timeout to a fence
func WithTimeout(d time.Duration) FenceBuilderOption {
	return func(f *fence) {
		f.timeout = d
	}
}
