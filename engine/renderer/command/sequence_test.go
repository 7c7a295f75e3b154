package command

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFrame(t *testing.T, seq Sequence, slot uint32, completed uint64) {
	t.Helper()
	r := NewRecorder(WithClearColor(common.RGBA{0.1, 0.2, 0.3, 1}))
	require.NoError(t, r.Record(seq, Frame{Slot: slot, VertexCount: 36}, completed))
}

func TestRecordProducesFixedOrder(t *testing.T) {
	seq := NewSequence(1)
	recordFrame(t, seq, 1, 0)

	assert.Equal(t, SequenceClosed, seq.State())

	var kinds []OpKind
	for _, op := range seq.Ops() {
		kinds = append(kinds, op.Kind)
	}
	assert.Equal(t, []OpKind{
		OpSetPipeline, OpSetBindingTable,
		OpSetViewport, OpSetScissor,
		OpTransition,
		OpSetRenderTarget, OpClear,
		OpSetTopology, OpSetVertexBuffer, OpDraw,
		OpTransition,
	}, kinds)

	ops := seq.Ops()
	assert.Equal(t, common.RGBA{0.1, 0.2, 0.3, 1}, ops[6].Color)
	assert.Equal(t, uint32(36), ops[9].VertexCount)
	assert.Equal(t, StatePresentable, ops[4].Before)
	assert.Equal(t, StateRenderable, ops[4].After)
	assert.Equal(t, StateRenderable, ops[10].Before)
	assert.Equal(t, StatePresentable, ops[10].After)
}

func TestRecordedSequencesKeepBarrierPairing(t *testing.T) {
	for slot := uint32(0); slot < 2; slot++ {
		seq := NewSequence(slot)
		for frame := uint64(1); frame <= 4; frame++ {
			recordFrame(t, seq, slot, frame-1)
			require.NoError(t, seq.Validate())
			require.NoError(t, seq.MarkSubmitted(frame))
		}
	}
}

func TestResetRefusesSequenceInFlight(t *testing.T) {
	seq := NewSequence(0)
	recordFrame(t, seq, 0, 0)
	require.NoError(t, seq.MarkSubmitted(3))

	err := seq.Reset(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInFlight))
	assert.Equal(t, SequenceSubmitted, seq.State())

	require.NoError(t, seq.Reset(3))
	assert.Equal(t, SequenceOpen, seq.State())
	assert.Empty(t, seq.Ops())
}

func TestRecordWithWrongSlotFails(t *testing.T) {
	r := NewRecorder()
	err := r.Record(NewSequence(0), Frame{Slot: 1}, 0)
	assert.Error(t, err)
}

func TestAppendAfterCloseFails(t *testing.T) {
	seq := NewSequence(0)
	recordFrame(t, seq, 0, 0)

	err := seq.Append(Op{Kind: OpDraw})
	assert.True(t, errors.Is(err, ErrNotOpen))
}

func TestMarkSubmittedRequiresClosed(t *testing.T) {
	seq := NewSequence(0)
	assert.True(t, errors.Is(seq.MarkSubmitted(1), ErrNotClosed))

	require.NoError(t, seq.Reset(0))
	assert.True(t, errors.Is(seq.MarkSubmitted(1), ErrNotClosed))
}

func TestValidateRejectsBrokenPairing(t *testing.T) {
	begin := Op{Kind: OpTransition, Target: 0, Before: StatePresentable, After: StateRenderable}
	end := Op{Kind: OpTransition, Target: 0, Before: StateRenderable, After: StatePresentable}
	draw := Op{Kind: OpDraw, VertexCount: 3}
	rt := Op{Kind: OpSetRenderTarget, Target: 0}

	cases := map[string][]Op{
		"missing begin":     {rt, draw, end},
		"missing end":       {begin, rt, draw},
		"draw before begin": {draw, begin, rt, end},
		"draw after end":    {begin, rt, end, draw},
		"double begin":      {begin, begin, rt, draw, end},
		"double end":        {begin, rt, draw, end, end},
		"foreign target":    {begin, {Kind: OpSetRenderTarget, Target: 1}, draw, end},
		"foreign barrier":   {begin, rt, draw, {Kind: OpTransition, Target: 1, Before: StateRenderable, After: StatePresentable}},
		"same state":        {{Kind: OpTransition, Target: 0, Before: StateRenderable, After: StateRenderable}},
	}

	for name, ops := range cases {
		t.Run(name, func(t *testing.T) {
			seq := NewSequence(0)
			require.NoError(t, seq.Reset(0))
			for _, op := range ops {
				require.NoError(t, seq.Append(op))
			}
			err := seq.Close()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBarrierPairing))
			assert.Equal(t, SequenceOpen, seq.State())
		})
	}
}

func TestValidateAcceptsMinimalSpan(t *testing.T) {
	seq := NewSequence(0)
	require.NoError(t, seq.Reset(0))
	require.NoError(t, seq.Append(Op{Kind: OpSetViewport}))
	require.NoError(t, seq.Append(Op{Kind: OpTransition, Target: 0, Before: StatePresentable, After: StateRenderable}))
	require.NoError(t, seq.Append(Op{Kind: OpTransition, Target: 0, Before: StateRenderable, After: StatePresentable}))
	assert.NoError(t, seq.Close())
}
