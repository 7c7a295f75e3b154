package window

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Events are delivered through callbacks bound to the window value itself, so several windows
// (or a window and a test harness) never share state.
type Window interface {
	// SetUpdateCallback sets the function called once per repaint.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Quit asks the message loop to stop after the current iteration.
	Quit()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed or Quit is called. Calls the update callback once per repaint.
	ProcessMessages()

	// Title returns the window title.
	//
	// Returns:
	//   - string: the title
	Title() string

	// Width returns the current client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// Dispatcher holds the event callbacks of one window and delivers events to them.
// Platform windows embed it; a nil callback drops the event.
type Dispatcher struct {
	// onUpdate is called once per repaint (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)
}

func (d *Dispatcher) SetUpdateCallback(callback func()) {
	d.onUpdate = callback
}

func (d *Dispatcher) SetResizeCallback(callback func(width, height int)) {
	d.onResize = callback
}

func (d *Dispatcher) SetKeyDownCallback(callback func(keyCode uint32)) {
	d.onKeyDown = callback
}

func (d *Dispatcher) SetKeyUpCallback(callback func(keyCode uint32)) {
	d.onKeyUp = callback
}

// Update delivers one repaint.
func (d *Dispatcher) Update() {
	if d.onUpdate != nil {
		d.onUpdate()
	}
}

// Resize delivers a framebuffer size change.
func (d *Dispatcher) Resize(width, height int) {
	if d.onResize != nil {
		d.onResize(width, height)
	}
}

// Key delivers a key press (down) or release.
func (d *Dispatcher) Key(keyCode uint32, down bool) {
	if down {
		if d.onKeyDown != nil {
			d.onKeyDown(keyCode)
		}
		return
	}
	if d.onKeyUp != nil {
		d.onKeyUp(keyCode)
	}
}

// Settings is the configuration shared by every Window implementation.
type Settings struct {
	Title     string
	Width     int
	Height    int
	Resizable bool

	// Frames stops a headless window after this many repaints; 0 runs until Quit.
	Frames int

	// Script is the key input a headless window replays.
	Script []KeyEvent
}

// KeyEvent is a scripted key transition delivered just before repaint Frame.
type KeyEvent struct {
	Frame int
	Code  uint32
	Down  bool
}

// NewSettings applies options over the defaults: a fixed-size 1280x720 window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Settings: the resolved settings
func NewSettings(options ...WindowBuilderOption) Settings {
	s := Settings{
		Title:  "oxy-frame",
		Width:  1280,
		Height: 720,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}
