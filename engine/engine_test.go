package engine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangle = []common.ColorVertex{
	{Position: [3]float32{0, 0.5, 0}, Color: [4]float32{1, 0, 0, 1}},
	{Position: [3]float32{0.5, -0.5, 0}, Color: [4]float32{0, 1, 0, 1}},
	{Position: [3]float32{-0.5, -0.5, 0}, Color: [4]float32{0, 0, 1, 1}},
}

// scriptedRenderer records calls and fails Render once failAt frames have been rendered.
type scriptedRenderer struct {
	initErr   error
	failAt    int
	renders   int
	updates   int
	destroyed int
	keys      []string
}

func (r *scriptedRenderer) Init() error       { return r.initErr }
func (r *scriptedRenderer) Update(dt float32) { r.updates++ }
func (r *scriptedRenderer) Render() error {
	if r.failAt > 0 && r.renders == r.failAt {
		return &renderer.Fault{Kind: renderer.FaultSync, Op: "wait for slot", Err: fence.ErrWaitTimeout}
	}
	r.renders++
	return nil
}
func (r *scriptedRenderer) Destroy() error { r.destroyed++; return nil }
func (r *scriptedRenderer) HandleKey(code uint32, down bool) {
	state := "up"
	if down {
		state = "down"
	}
	r.keys = append(r.keys, state+" "+common.KeyName(code))
}
func (r *scriptedRenderer) FrameIndex() uint32 { return uint32(r.renders % renderer.FrameCount) }
func (r *scriptedRenderer) FenceValue() uint64 { return uint64(r.renders + 1) }

func TestRunRendersEveryRepaint(t *testing.T) {
	backend := renderer.NewHeadlessBackend()
	r := renderer.NewRenderer(backend, renderer.WithVertices(triangle))
	w := window.NewHeadlessWindow(window.WithFrames(5), window.WithKeyEvents(
		window.KeyEvent{Frame: 1, Code: common.KeyW, Down: true},
		window.KeyEvent{Frame: 3, Code: common.KeyW, Down: false},
	))

	var ticks int
	e := NewEngine(WithWindow(w), WithRenderer(r), WithProfiling(true), WithTickCallback(func(float32) { ticks++ }))
	require.NoError(t, e.Run())

	assert.Equal(t, uint64(5), e.Frames())
	assert.Equal(t, 5, ticks)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, backend.Signaled())
	assert.False(t, w.IsRunning())

	// the renderer was destroyed and the window closed
	f := new(renderer.Fault)
	require.True(t, errors.As(r.Render(), &f))
	assert.True(t, errors.Is(f, renderer.ErrNotInitialized))
	assert.Error(t, w.Close())
}

func TestRunForwardsKeys(t *testing.T) {
	r := &scriptedRenderer{}
	w := window.NewHeadlessWindow(window.WithFrames(3), window.WithKeyEvents(
		window.KeyEvent{Frame: 0, Code: common.KeyA, Down: true},
		window.KeyEvent{Frame: 2, Code: common.KeyA, Down: false},
	))
	e := NewEngine(WithWindow(w), WithRenderer(r))
	require.NoError(t, e.Run())

	assert.Equal(t, []string{"down a", "up a"}, r.keys)
	assert.Equal(t, 3, r.updates)
	assert.Equal(t, 3, r.renders)
	assert.Equal(t, 1, r.destroyed)
}

func TestFrameFaultEndsSession(t *testing.T) {
	r := &scriptedRenderer{failAt: 2}
	w := window.NewHeadlessWindow()
	e := NewEngine(WithWindow(w), WithRenderer(r))

	err := e.Run()
	require.Error(t, err)

	var f *renderer.Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, renderer.FaultSync, f.Kind)
	assert.True(t, errors.Is(err, fence.ErrWaitTimeout))
	assert.Equal(t, uint64(2), e.Frames())
	assert.Equal(t, 1, r.destroyed)
}

func TestInitFailureClosesWindow(t *testing.T) {
	r := &scriptedRenderer{initErr: errors.New("no adapter")}
	w := window.NewHeadlessWindow(window.WithFrames(3))
	e := NewEngine(WithWindow(w), WithRenderer(r))

	assert.EqualError(t, e.Run(), "no adapter")
	assert.Equal(t, 0, r.renders)
	assert.Equal(t, 0, r.destroyed)
	assert.Error(t, w.Close())
}

func TestRunRequiresWindowAndRenderer(t *testing.T) {
	assert.Equal(t, ErrNoWindow, NewEngine(WithRenderer(&scriptedRenderer{})).Run())
	assert.Equal(t, ErrNoRenderer, NewEngine(WithWindow(window.NewHeadlessWindow())).Run())
}
