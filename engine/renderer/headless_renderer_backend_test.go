package renderer

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForValue signals value and blocks until the executor has reached it.
func waitForValue(t *testing.T, b HeadlessBackend, value uint64) {
	t.Helper()
	require.NoError(t, b.Signal(value))
	ev := fence.NewEvent()
	require.NoError(t, b.SetEventOnCompletion(value, ev))
	select {
	case <-ev.C():
	case <-time.After(5 * time.Second):
		t.Fatalf("fence value %d never completed", value)
	}
}

func TestHeadlessRejectsMismatchedTransition(t *testing.T) {
	b := NewHeadlessBackend()
	defer b.Release()

	seq := command.NewSequence(0)
	require.NoError(t, seq.Reset(0))
	require.NoError(t, seq.Append(command.Op{
		Kind:   command.OpTransition,
		Target: 0,
		Before: command.StateRenderable,
		After:  command.StatePresentable,
	}))
	require.NoError(t, b.Execute(seq))
	waitForValue(t, b, 1)

	require.Error(t, b.Err())
	assert.True(t, errors.Is(b.Err(), ErrDeviceRemoved))
	assert.True(t, errors.Is(b.Execute(seq), ErrDeviceRemoved))
	assert.True(t, errors.Is(b.Present(), ErrDeviceRemoved))
}

func TestHeadlessRejectsPresentOfRenderableTarget(t *testing.T) {
	b := NewHeadlessBackend()
	defer b.Release()

	seq := command.NewSequence(0)
	require.NoError(t, seq.Reset(0))
	require.NoError(t, seq.Append(command.Op{
		Kind:   command.OpTransition,
		Target: 0,
		Before: command.StatePresentable,
		After:  command.StateRenderable,
	}))
	require.NoError(t, b.Execute(seq))
	require.NoError(t, b.Present())
	waitForValue(t, b, 1)

	assert.True(t, errors.Is(b.Err(), ErrDeviceRemoved))
	assert.Equal(t, []uint32{0}, b.Presented())
}

func TestHeadlessCompletionEvents(t *testing.T) {
	b := NewHeadlessBackend(WithHeadlessLatency(5 * time.Millisecond))

	ev := fence.NewEvent()
	require.NoError(t, b.SetEventOnCompletion(1, ev))
	require.NoError(t, b.Signal(1))
	assert.Equal(t, uint64(0), b.CompletedValue())

	select {
	case <-ev.C():
	case <-time.After(5 * time.Second):
		t.Fatal("event never set")
	}
	assert.Equal(t, uint64(1), b.CompletedValue())

	already := fence.NewEvent()
	require.NoError(t, b.SetEventOnCompletion(1, already))
	select {
	case <-already.C():
	default:
		t.Fatal("completed value should set the event immediately")
	}
	assert.Equal(t, 2, b.Registrations())

	// release wakes waiters that can never be satisfied
	orphan := fence.NewEvent()
	require.NoError(t, b.SetEventOnCompletion(10, orphan))
	require.NoError(t, b.Release())
	select {
	case <-orphan.C():
	case <-time.After(5 * time.Second):
		t.Fatal("release did not wake waiter")
	}
	assert.NoError(t, b.Release())
	assert.Error(t, b.Signal(2))
}

func TestHeadlessAllocation(t *testing.T) {
	b := NewHeadlessBackend(WithHeadlessSize(640, 480))
	defer b.Release()

	w, h := b.Viewport()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)

	_, err := b.CreateVertexBuffer("vb", make([]byte, 10), 28, 1)
	assert.Error(t, err)

	vb, err := b.CreateVertexBuffer("vb", make([]byte, 56), 28, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), vb.Count())

	_, err = b.CreateConstantRegion("cb", FrameCount, 64)
	assert.Error(t, err)

	region, err := b.CreateConstantRegion("cb", 1, 64)
	require.NoError(t, err)
	assert.Error(t, region.Write(make([]byte, 65)))

	_, err = b.RenderTargetView(FrameCount)
	assert.Error(t, err)
}
