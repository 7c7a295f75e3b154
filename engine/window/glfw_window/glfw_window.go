package glfw_window

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// Window is a window.Window backed by GLFW that can also hand out a WebGPU surface descriptor.
type Window interface {
	window.Window

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil after Close
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window.Dispatcher

	settings window.Settings
	window   *glfw.Window
	running  bool

	width, height int
}

var _ Window = &glfwWindow{}

// NewWindow creates the GLFW window and registers its input callbacks.
// The calling goroutine is locked to its OS thread; every later method must run on it.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if GLFW could not be initialized or the window could not be created
func NewWindow(options ...window.WindowBuilderOption) (Window, error) {
	runtime.LockOSThread()

	settings := window.NewSettings(options...)

	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if settings.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(settings.Width, settings.Height, settings.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create GLFW window")
	}

	gw := &glfwWindow{
		settings: settings,
		window:   win,
		running:  true,
	}

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.Quit()
			return
		}
		switch action {
		case glfw.Press:
			gw.Key(uint32(key), true)
		case glfw.Release:
			gw.Key(uint32(key), false)
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gw.width = width
		gw.height = height
		gw.Resize(width, height)
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	gw.width, gw.height = win.GetFramebufferSize()

	common.Logger().Info("window created", "title", settings.Title, "width", gw.width, "height", gw.height)
	return gw, nil
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.window == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

// IsRunning returns false once the running flag is cleared or GLFW reports ShouldClose.
func (w *glfwWindow) IsRunning() bool {
	if w.window == nil {
		return false
	}
	return w.running && !w.window.ShouldClose()
}

func (w *glfwWindow) Quit() {
	w.running = false
	if w.window != nil {
		w.window.SetShouldClose(true)
	}
}

// Close destroys the GLFW window and terminates the GLFW library.
func (w *glfwWindow) Close() error {
	if w.window == nil {
		return errors.New("window is not initialized")
	}
	w.running = false
	w.window.SetShouldClose(true)
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}

// ProcessMessages polls GLFW for pending events without blocking and repaints once per iteration,
// so the loop renders continuously while the window is open. Settings.Frames bounds the repaints.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func (w *glfwWindow) ProcessMessages() {
	for frame := 0; w.IsRunning(); frame++ {
		if w.settings.Frames > 0 && frame >= w.settings.Frames {
			w.Quit()
			break
		}
		glfw.PollEvents()
		if !w.IsRunning() {
			break
		}
		w.Update()
		runtime.Gosched()
	}
}

func (w *glfwWindow) Title() string {
	return w.settings.Title
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}
