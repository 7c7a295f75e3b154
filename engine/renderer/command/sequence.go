package command

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// SequenceState is the lifecycle state of a Sequence.
type SequenceState int

const (
	// SequenceReusable is the initial state, and the state a submitted sequence returns to once its fence value completes.
	SequenceReusable SequenceState = iota

	// SequenceOpen means the sequence was reset and is accepting operations.
	SequenceOpen

	// SequenceClosed means recording finished and the sequence is ready for submission.
	SequenceClosed

	// SequenceSubmitted means the sequence was handed to the queue under a fence value.
	SequenceSubmitted
)

func (s SequenceState) String() string {
	switch s {
	case SequenceReusable:
		return "reusable"
	case SequenceOpen:
		return "open"
	case SequenceClosed:
		return "closed"
	case SequenceSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("SequenceState(%d)", int(s))
}

var (
	// ErrInFlight is returned when a sequence is reset before the GPU finished consuming its last submission.
	ErrInFlight = errors.New("command sequence is still in flight")

	// ErrNotOpen is returned when operations are appended to a sequence that was not reset.
	ErrNotOpen = errors.New("command sequence is not open")

	// ErrNotClosed is returned when a sequence that is not closed is marked as submitted.
	ErrNotClosed = errors.New("command sequence is not closed")

	// ErrBarrierPairing is returned when a sequence violates the Presentable/Renderable barrier pairing.
	ErrBarrierPairing = errors.New("barrier pairing violated")
)

// Sequence is an ordered, append-only list of GPU operations bound to one frame slot's command buffer.
// It is reused across frames: Reset reopens it once the fence value of its previous submission completed.
type Sequence interface {
	// Slot returns the frame slot this sequence records for.
	//
	// Returns:
	//   - uint32: the frame slot index
	Slot() uint32

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - SequenceState: the lifecycle state
	State() SequenceState

	// FenceValue returns the fence value of the last submission, or 0 if never submitted.
	//
	// Returns:
	//   - uint64: the fence value
	FenceValue() uint64

	// Reset discards recorded operations and reopens the sequence.
	// It fails with ErrInFlight when the sequence was submitted under a fence value greater than completed.
	//
	// Parameters:
	//   - completed: the fence value the GPU reports as completed
	//
	// Returns:
	//   - error: ErrInFlight if the previous submission is still executing, or an error if the sequence is already open
	Reset(completed uint64) error

	// Append adds an operation to an open sequence.
	//
	// Parameters:
	//   - op: the operation to append
	//
	// Returns:
	//   - error: ErrNotOpen if the sequence is not open
	Append(op Op) error

	// Close validates the recorded operations and seals the sequence for submission.
	//
	// Returns:
	//   - error: ErrNotOpen if not open, or a wrapped ErrBarrierPairing if validation fails
	Close() error

	// MarkSubmitted records the fence value signaled right after the sequence was executed.
	//
	// Parameters:
	//   - value: the signaled fence value
	//
	// Returns:
	//   - error: ErrNotClosed if the sequence is not closed
	MarkSubmitted(value uint64) error

	// Ops returns a copy of the recorded operations.
	//
	// Returns:
	//   - []Op: the recorded operations in order
	Ops() []Op

	// Validate checks the barrier pairing invariant on the recorded operations.
	//
	// Returns:
	//   - error: a wrapped ErrBarrierPairing describing the first violation, or nil
	Validate() error
}

type sequence struct {
	mu *sync.Mutex

	slot       uint32
	state      SequenceState
	ops        []Op
	fenceValue uint64
}

var _ Sequence = &sequence{}

// NewSequence creates a reusable sequence bound to the given frame slot.
//
// Parameters:
//   - slot: the frame slot index
//
// Returns:
//   - Sequence: the new sequence in the reusable state
func NewSequence(slot uint32) Sequence {
	return &sequence{
		mu:    &sync.Mutex{},
		slot:  slot,
		state: SequenceReusable,
		ops:   make([]Op, 0, 16),
	}
}

func (s *sequence) Slot() uint32 {
	return s.slot
}

func (s *sequence) State() SequenceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sequence) FenceValue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fenceValue
}

func (s *sequence) Reset(completed uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SequenceOpen:
		return errors.Errorf("reset slot %d: sequence is already open", s.slot)
	case SequenceSubmitted:
		if s.fenceValue > completed {
			return errors.Wrapf(ErrInFlight, "reset slot %d: fence %d not reached (completed %d)", s.slot, s.fenceValue, completed)
		}
	}

	s.ops = s.ops[:0]
	s.state = SequenceOpen
	return nil
}

func (s *sequence) Append(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SequenceOpen {
		return errors.Wrapf(ErrNotOpen, "append %s to slot %d in state %s", op, s.slot, s.state)
	}
	s.ops = append(s.ops, op)
	return nil
}

func (s *sequence) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SequenceOpen {
		return errors.Wrapf(ErrNotOpen, "close slot %d in state %s", s.slot, s.state)
	}
	if err := validate(s.slot, s.ops); err != nil {
		return err
	}
	s.state = SequenceClosed
	return nil
}

func (s *sequence) MarkSubmitted(value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SequenceClosed {
		return errors.Wrapf(ErrNotClosed, "mark slot %d submitted in state %s", s.slot, s.state)
	}
	s.fenceValue = value
	s.state = SequenceSubmitted
	return nil
}

func (s *sequence) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Op, len(s.ops))
	copy(out, s.ops)
	return out
}

func (s *sequence) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validate(s.slot, s.ops)
}

// validate enforces that the slot's render target is transitioned Presentable->Renderable exactly once,
// then Renderable->Presentable exactly once, and that every op writing the target sits between the two.
func validate(slot uint32, ops []Op) error {
	begin, end := -1, -1

	for i, op := range ops {
		if op.Kind == OpTransition {
			if op.Target != slot {
				return errors.Wrapf(ErrBarrierPairing, "op %d: transition on foreign target %d", i, op.Target)
			}
			switch {
			case op.Before == StatePresentable && op.After == StateRenderable:
				if begin >= 0 {
					return errors.Wrapf(ErrBarrierPairing, "op %d: second presentable->renderable transition", i)
				}
				begin = i
			case op.Before == StateRenderable && op.After == StatePresentable:
				if begin < 0 {
					return errors.Wrapf(ErrBarrierPairing, "op %d: renderable->presentable before target became renderable", i)
				}
				if end >= 0 {
					return errors.Wrapf(ErrBarrierPairing, "op %d: second renderable->presentable transition", i)
				}
				end = i
			default:
				return errors.Wrapf(ErrBarrierPairing, "op %d: unsupported transition %s->%s", i, op.Before, op.After)
			}
			continue
		}

		if op.Kind == OpSetRenderTarget && op.Target != slot {
			return errors.Wrapf(ErrBarrierPairing, "op %d: render target %d bound while recording slot %d", i, op.Target, slot)
		}
		if op.touchesTarget() && (begin < 0 || end >= 0) {
			return errors.Wrapf(ErrBarrierPairing, "op %d: %s outside the renderable span", i, op)
		}
	}

	if begin < 0 {
		return errors.Wrap(ErrBarrierPairing, "missing presentable->renderable transition")
	}
	if end < 0 {
		return errors.Wrap(ErrBarrierPairing, "missing renderable->presentable transition")
	}
	return nil
}
