package queue

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	calls      []string
	index      uint32
	count      uint32
	executeErr error
	presentErr error
}

func (d *fakeDevice) Execute(seq command.Sequence) error {
	d.calls = append(d.calls, "execute")
	return d.executeErr
}

func (d *fakeDevice) Present() error {
	d.calls = append(d.calls, "present")
	if d.presentErr != nil {
		return d.presentErr
	}
	d.index = (d.index + 1) % d.count
	return nil
}

func (d *fakeDevice) CurrentBackBufferIndex() uint32 { return d.index }
func (d *fakeDevice) BufferCount() uint32            { return d.count }

func closedSequence(t *testing.T, slot uint32) command.Sequence {
	t.Helper()
	seq := command.NewSequence(slot)
	require.NoError(t, command.NewRecorder().Record(seq, command.Frame{Slot: slot, VertexCount: 3}, 0))
	return seq
}

func TestSubmitExecutesPresentsAndAdvances(t *testing.T) {
	dev := &fakeDevice{count: 2}
	s := NewSubmitter(dev, dev)
	assert.Equal(t, uint32(0), s.FrameIndex())

	require.NoError(t, s.Submit(closedSequence(t, 0)))
	assert.Equal(t, []string{"execute", "present"}, dev.calls)
	assert.Equal(t, uint32(1), s.FrameIndex())

	require.NoError(t, s.Submit(closedSequence(t, 1)))
	assert.Equal(t, uint32(0), s.FrameIndex())
	assert.Equal(t, uint64(2), s.Submissions())
}

func TestSubmitRejectsOpenSequence(t *testing.T) {
	dev := &fakeDevice{count: 2}
	s := NewSubmitter(dev, dev)

	seq := command.NewSequence(0)
	require.NoError(t, seq.Reset(0))

	err := s.Submit(seq)
	assert.True(t, errors.Is(err, command.ErrNotClosed))
	assert.Empty(t, dev.calls)
}

func TestSubmitRejectsWrongSlot(t *testing.T) {
	dev := &fakeDevice{count: 2}
	s := NewSubmitter(dev, dev)

	err := s.Submit(closedSequence(t, 1))
	assert.True(t, errors.Is(err, ErrSlotMismatch))
	assert.Empty(t, dev.calls)
}

func TestSubmitFailuresAreReported(t *testing.T) {
	lost := errors.New("surface lost")

	dev := &fakeDevice{count: 2, presentErr: lost}
	s := NewSubmitter(dev, dev)
	err := s.Submit(closedSequence(t, 0))
	assert.True(t, errors.Is(err, lost))
	assert.Equal(t, uint32(0), s.FrameIndex())

	removed := errors.New("device removed")
	dev = &fakeDevice{count: 2, executeErr: removed}
	s = NewSubmitter(dev, dev)
	err = s.Submit(closedSequence(t, 0))
	assert.True(t, errors.Is(err, removed))
	assert.Equal(t, []string{"execute"}, dev.calls)
}
