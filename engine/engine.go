package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/pkg/errors"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// ErrNoRenderer is returned by Run when the engine was built without a renderer.
var ErrNoRenderer = errors.New("engine has no renderer")

// engine implements the Engine interface.
// Everything runs on the goroutine that calls Run: the window delivers input and repaints, and each
// repaint updates and renders one frame.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	running  bool
	quitOnce sync.Once
	err      error
	frames   uint64
}

// Engine drives one rendering session: it initializes the renderer, runs the window message loop,
// renders a frame per repaint and tears everything down when the loop ends.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer driven by the engine.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called before every frame is rendered.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run initializes the renderer and blocks in the window message loop until the window closes,
	// Quit is called or a frame faults. The renderer is destroyed and the window closed before it returns.
	//
	// Returns:
	//   - error: the fault that ended the session, or a teardown error
	Run() error

	// Quit asks the message loop to stop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Frames returns the number of frames rendered so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu: &sync.Mutex{},
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		var popts []profiler.ProfilerBuilderOption
		if s, ok := e.renderer.(renderer.StatsReporter); ok {
			popts = append(popts, profiler.WithStatsSource(s))
		}
		e.profiler = profiler.NewProfiler(popts...)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if e.renderer == nil {
		return ErrNoRenderer
	}

	if err := e.renderer.Init(); err != nil {
		common.Logger().Error("renderer init failed", "error", err)
		if closeErr := e.window.Close(); closeErr != nil {
			common.Logger().Warn("window close failed", "error", closeErr)
		}
		return err
	}

	e.bind()
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.window.ProcessMessages()

	e.mu.Lock()
	e.running = false
	runErr := e.err
	e.mu.Unlock()

	destroyErr := e.renderer.Destroy()
	if destroyErr != nil {
		common.Logger().Error("renderer destroy failed", "error", destroyErr)
	}
	closeErr := e.window.Close()

	common.Logger().Info("session ended", "frames", e.Frames())

	switch {
	case runErr != nil:
		return runErr
	case destroyErr != nil:
		return destroyErr
	}
	return closeErr
}

// bind connects window events to the renderer.
func (e *engine) bind() {
	lastRender := time.Now()

	e.window.SetKeyDownCallback(func(keyCode uint32) {
		common.Logger().Debug("key down", "key", common.KeyName(keyCode))
		e.renderer.HandleKey(keyCode, true)
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		e.renderer.HandleKey(keyCode, false)
	})
	e.window.SetResizeCallback(func(width, height int) {
		r, ok := e.renderer.(renderer.Resizable)
		if !ok || width <= 0 || height <= 0 {
			return
		}
		if err := r.Resize(uint32(width), uint32(height)); err != nil {
			e.fail(err)
		}
	})
	e.window.SetUpdateCallback(func() {
		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if e.tickCallback != nil {
			e.tickCallback(dt)
		}
		e.renderer.Update(dt)
		if err := e.renderer.Render(); err != nil {
			e.fail(err)
			return
		}

		e.mu.Lock()
		e.frames++
		e.mu.Unlock()

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			elapsed := time.Since(now)
			if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
}

// fail records the first fault and stops the message loop.
func (e *engine) fail(err error) {
	e.mu.Lock()
	if e.err == nil {
		e.err = err
		common.Logger().Error("frame fault, ending session", "error", err)
	}
	e.mu.Unlock()
	e.Quit()
}

// Quit stops the message loop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.Quit()
		}
	})
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
