package window

// WindowBuilderOption is a functional option for configuring window Settings.
// Use the With* functions to create options.
type WindowBuilderOption func(s *Settings)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(s *Settings) {
		s.Title = title
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(s *Settings) {
		s.Width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(s *Settings) {
		s.Height = height
	}
}

// WithResizable allows the user to resize the window.
//
// Parameters:
//   - resizable: true to allow resizing
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithResizable(resizable bool) WindowBuilderOption {
	return func(s *Settings) {
		s.Resizable = resizable
	}
}

// WithFrames stops a headless window after n repaints. Platform windows ignore it.
//
// Parameters:
//   - n: the number of repaints, 0 for unlimited
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFrames(n int) WindowBuilderOption {
	return func(s *Settings) {
		s.Frames = n
	}
}

// WithKeyEvents scripts key input for a headless window. Platform windows ignore it.
//
// Parameters:
//   - events: the key transitions to replay
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithKeyEvents(events ...KeyEvent) WindowBuilderOption {
	return func(s *Settings) {
		s.Script = append(s.Script, events...)
	}
}
