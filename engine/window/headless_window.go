package window

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
)

// headlessWindow is a Window without a display. It repaints as fast as the update callback
// returns and replays scripted key input, which makes the engine loop runnable in tests and CI.
type headlessWindow struct {
	Dispatcher

	settings Settings
	script   []KeyEvent

	running atomic.Bool
	closed  atomic.Bool
	frames  atomic.Int64
}

var _ Window = &headlessWindow{}

// NewHeadlessWindow creates a headless Window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the headless window
func NewHeadlessWindow(options ...WindowBuilderOption) Window {
	w := &headlessWindow{settings: NewSettings(options...)}
	w.script = append([]KeyEvent(nil), w.settings.Script...)
	sort.SliceStable(w.script, func(i, j int) bool { return w.script[i].Frame < w.script[j].Frame })
	w.running.Store(true)
	return w
}

func (w *headlessWindow) IsRunning() bool {
	return w.running.Load()
}

func (w *headlessWindow) Quit() {
	w.running.Store(false)
}

func (w *headlessWindow) Close() error {
	if w.closed.Swap(true) {
		return errors.New("window already closed")
	}
	w.running.Store(false)
	return nil
}

func (w *headlessWindow) ProcessMessages() {
	next := 0
	for frame := 0; w.IsRunning(); frame++ {
		if w.settings.Frames > 0 && frame >= w.settings.Frames {
			w.running.Store(false)
			break
		}
		for next < len(w.script) && w.script[next].Frame <= frame {
			ev := w.script[next]
			w.Key(ev.Code, ev.Down)
			next++
		}
		w.Update()
		w.frames.Add(1)
	}
}

func (w *headlessWindow) Title() string {
	return w.settings.Title
}

func (w *headlessWindow) Width() int {
	return w.settings.Width
}

func (w *headlessWindow) Height() int {
	return w.settings.Height
}

// Frames returns the number of repaints delivered so far.
func (w *headlessWindow) Frames() int64 {
	return w.frames.Load()
}
