package command

import "github.com/Carmen-Shannon/oxy-frame/common"

// RecorderBuilderOption is a functional option applied to a recorder during construction via NewRecorder.
type RecorderBuilderOption func(*recorder)

// WithClearColor sets the colour render targets are cleared to at the start of every frame.
//
// Parameters:
//   - c: the clear colour
//
// Returns:
//   - RecorderBuilderOption: a function that applies the clear colour to a recorder
func WithClearColor(c common.RGBA) RecorderBuilderOption {
	return func(r *recorder) {
		r.clearColor = c
	}
}
