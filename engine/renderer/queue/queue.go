package queue

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/command"
	"github.com/pkg/errors"
)

// ErrSlotMismatch is returned when a sequence recorded for one slot is submitted while another slot is current.
var ErrSlotMismatch = errors.New("sequence slot does not match the current back buffer")

// Queue is the single hardware execution queue. Work executes in submission order.
type Queue interface {
	// Execute submits one closed sequence for asynchronous execution.
	//
	// Parameters:
	//   - seq: the closed sequence
	//
	// Returns:
	//   - error: an error if the device rejected the submission
	Execute(seq command.Sequence) error
}

// SwapChain is the fixed-size ring of presentable render targets.
type SwapChain interface {
	// Present hands the current back buffer to the display and advances to the next one.
	//
	// Returns:
	//   - error: an error if presentation failed (surface lost, device removed)
	Present() error

	// CurrentBackBufferIndex returns the slot the next frame must render into.
	//
	// Returns:
	//   - uint32: the back buffer index
	CurrentBackBufferIndex() uint32

	// BufferCount returns the number of buffers in the swap chain.
	//
	// Returns:
	//   - uint32: the buffer count
	BufferCount() uint32
}

// Submitter pushes recorded frames to the queue and presents them.
type Submitter interface {
	// Submit executes seq, presents the current back buffer and refreshes the frame index
	// from the swap chain.
	//
	// Parameters:
	//   - seq: a closed sequence recorded for the current frame index
	//
	// Returns:
	//   - error: any execute or present failure; all of them are fatal for the session
	Submit(seq command.Sequence) error

	// FrameIndex returns the slot the next frame renders into.
	//
	// Returns:
	//   - uint32: the frame index
	FrameIndex() uint32

	// Submissions returns the number of successful submissions.
	//
	// Returns:
	//   - uint64: the submission count
	Submissions() uint64
}

type submitter struct {
	mu *sync.Mutex

	queue     Queue
	swapChain SwapChain

	frameIndex  uint32
	submissions uint64
}

var _ Submitter = &submitter{}

// NewSubmitter creates a Submitter. The frame index starts at the swap chain's current back buffer.
//
// Parameters:
//   - q: the execution queue
//   - sc: the swap chain
//
// Returns:
//   - Submitter: the new submitter
func NewSubmitter(q Queue, sc SwapChain) Submitter {
	return &submitter{
		mu:         &sync.Mutex{},
		queue:      q,
		swapChain:  sc,
		frameIndex: sc.CurrentBackBufferIndex(),
	}
}

func (s *submitter) Submit(seq command.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st := seq.State(); st != command.SequenceClosed {
		return errors.Wrapf(command.ErrNotClosed, "submit slot %d in state %s", seq.Slot(), st)
	}
	if seq.Slot() != s.frameIndex {
		return errors.Wrapf(ErrSlotMismatch, "submit slot %d while back buffer is %d", seq.Slot(), s.frameIndex)
	}

	if err := s.queue.Execute(seq); err != nil {
		return errors.Wrapf(err, "execute slot %d", seq.Slot())
	}
	if err := s.swapChain.Present(); err != nil {
		return errors.Wrapf(err, "present slot %d", seq.Slot())
	}

	s.frameIndex = s.swapChain.CurrentBackBufferIndex()
	s.submissions++
	return nil
}

func (s *submitter) FrameIndex() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameIndex
}

func (s *submitter) Submissions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissions
}
