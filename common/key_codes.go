package common

// Virtual key codes delivered by the window layer.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII), move forward
	KeyA     = 65  // A key (ASCII), turn left
	KeyS     = 83  // S key (ASCII), move backward
	KeyD     = 68  // D key (ASCII), turn right
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW), closes the window
)

// Arrow keys mirror the WASD bindings.
const (
	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)

// KeyName returns a short printable name for the key codes the engine binds, or "" for anything else.
//
// Parameters:
//   - code: the virtual key code
//
// Returns:
//   - string: the key name, or "" when the code is not bound
func KeyName(code uint32) string {
	switch code {
	case KeyW:
		return "w"
	case KeyA:
		return "a"
	case KeyS:
		return "s"
	case KeyD:
		return "d"
	case KeySpace:
		return "space"
	case KeyEsc:
		return "esc"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	}
	return ""
}
