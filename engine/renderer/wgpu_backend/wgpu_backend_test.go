package wgpu_backend

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/fence"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrameLeavesLockFree(t *testing.T) {
	b := &wgpuBackend{mu: &sync.Mutex{}, backBuffer: 1}

	_, err := b.encodeFrame(command.NewSequence(0))
	assert.True(t, errors.Is(err, renderer.ErrDeviceRemoved))
	require.True(t, b.mu.TryLock(), "encodeFrame returned with the mutex held")
	b.mu.Unlock()

	// the first failure sticks
	_, again := b.encodeFrame(command.NewSequence(1))
	assert.Equal(t, err, again)
	require.True(t, b.mu.TryLock())
	b.mu.Unlock()
}

func TestCompletionDuringSubmitDoesNotBlock(t *testing.T) {
	b := &wgpuBackend{mu: &sync.Mutex{}}
	ev := fence.NewEvent()
	require.NoError(t, b.SetEventOnCompletion(1, ev))

	// Execute submits with mu released, so an inline work-done callback can take it
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.complete(1, wgpu.QueueWorkDoneStatusSuccess)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("work-done callback blocked")
	}
	select {
	case <-ev.C():
	default:
		t.Fatal("waiter for value 1 was not woken")
	}
	assert.Equal(t, uint64(1), b.CompletedValue())
	assert.Empty(t, b.waiters)
}

func TestCompletionFailureMarksDeviceLost(t *testing.T) {
	b := &wgpuBackend{mu: &sync.Mutex{}}
	b.complete(3, wgpu.QueueWorkDoneStatusError)

	assert.Equal(t, uint64(3), b.CompletedValue())
	_, err := b.encodeFrame(command.NewSequence(0))
	assert.True(t, errors.Is(err, renderer.ErrDeviceRemoved))
	assert.Contains(t, err.Error(), "queue work done status")

	// a late success does not clear the loss
	b.complete(4, wgpu.QueueWorkDoneStatusSuccess)
	_, err = b.encodeFrame(command.NewSequence(0))
	assert.True(t, errors.Is(err, renderer.ErrDeviceRemoved))
}
