package fence

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/pkg/errors"
)

var (
	// ErrWaitTimeout is returned when WaitFor gives up before the value completes.
	ErrWaitTimeout = errors.New("fence wait timed out")

	// ErrNeverSignaled is returned when waiting for a value that was never pushed onto the queue.
	ErrNeverSignaled = errors.New("fence value was never signaled")
)

// Primitive is the GPU-side completion counter a backend exposes.
type Primitive interface {
	// CompletedValue returns the highest value the GPU has reached.
	//
	// Returns:
	//   - uint64: the completed value
	CompletedValue() uint64

	// Signal pushes value onto the hardware queue as a completion marker.
	// The GPU reaches it once every previously submitted unit of work has retired.
	//
	// Parameters:
	//   - value: the marker value
	//
	// Returns:
	//   - error: an error if the marker could not be queued
	Signal(value uint64) error

	// SetEventOnCompletion arranges for ev to be set once the completed value reaches value.
	// If it already has, ev is set immediately.
	//
	// Parameters:
	//   - value: the value to wait for
	//   - ev: the event to set
	//
	// Returns:
	//   - error: an error if the wait could not be registered
	SetEventOnCompletion(value uint64, ev *Event) error
}

// PacingPolicy controls how long Render blocks after a submission.
type PacingPolicy int

const (
	// PacingDrainAll waits for each frame to fully retire before the next one is recorded.
	PacingDrainAll PacingPolicy = iota

	// PacingPerSlot only waits for the fence value last submitted on the slot about to be reused.
	PacingPerSlot
)

func (p PacingPolicy) String() string {
	switch p {
	case PacingDrainAll:
		return "drain"
	case PacingPerSlot:
		return "per-slot"
	}
	return fmt.Sprintf("PacingPolicy(%d)", int(p))
}

// ParsePacingPolicy maps a configuration name to a PacingPolicy.
//
// Parameters:
//   - name: "drain" or "per-slot"
//
// Returns:
//   - PacingPolicy: the matching policy
//   - error: an error for unknown names
func ParsePacingPolicy(name string) (PacingPolicy, error) {
	switch name {
	case "", "drain":
		return PacingDrainAll, nil
	case "per-slot":
		return PacingPerSlot, nil
	}
	return PacingDrainAll, errors.Errorf("unknown pacing policy %q", name)
}

// Stats is a snapshot of fence activity.
type Stats struct {
	Next      uint64
	Completed uint64
	Signals   uint64
	Waits     uint64
	FastPaths uint64
	Blocked   time.Duration
}

// Fence tracks the monotonically increasing completion counter shared by CPU and GPU,
// and the value last submitted on each frame slot.
type Fence interface {
	// Signal pushes the current counter value onto the queue and then increments the counter.
	//
	// Returns:
	//   - uint64: the value that was pushed
	//   - error: an error if the marker could not be queued
	Signal() (uint64, error)

	// WaitFor blocks until the GPU reaches value. It returns without registering a wait
	// when value is already complete.
	//
	// Parameters:
	//   - value: the value to wait for
	//
	// Returns:
	//   - error: ErrNeverSignaled, ErrWaitTimeout, or a registration error
	WaitFor(value uint64) error

	// DrainAll blocks until every submitted unit of work has retired.
	// When nothing is outstanding it returns immediately without touching the queue.
	//
	// Returns:
	//   - error: any Signal or WaitFor error
	DrainAll() error

	// WaitForSlot blocks until the last value submitted on slot is complete.
	//
	// Parameters:
	//   - slot: the frame slot about to be reused
	//
	// Returns:
	//   - error: any WaitFor error
	WaitForSlot(slot uint32) error

	// Pace records value as the last submission on slot and applies the pacing policy.
	//
	// Parameters:
	//   - slot: the frame slot that was just submitted
	//   - value: the fence value signaled for it
	//
	// Returns:
	//   - error: any WaitFor error
	Pace(slot uint32, value uint64) error

	// SlotValue returns the last value submitted on slot, or 0.
	//
	// Parameters:
	//   - slot: the frame slot
	//
	// Returns:
	//   - uint64: the fence value
	SlotValue(slot uint32) uint64

	// Next returns the value the next Signal will push.
	//
	// Returns:
	//   - uint64: the next value
	Next() uint64

	// Completed returns the value the GPU reports as completed.
	//
	// Returns:
	//   - uint64: the completed value
	Completed() uint64

	// Policy returns the pacing policy.
	//
	// Returns:
	//   - PacingPolicy: the pacing policy
	Policy() PacingPolicy

	// Stats returns a snapshot of fence activity.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats
}

type fence struct {
	mu *sync.Mutex

	primitive  Primitive
	event      *Event
	next       uint64
	slotValues []uint64
	policy     PacingPolicy
	timeout    time.Duration

	signals   uint64
	waits     uint64
	fastPaths uint64
	blocked   time.Duration
}

var _ Fence = &fence{}

// NewFence creates a Fence over the backend primitive with one tracked value per frame slot.
// The counter starts at 1, so the first Signal pushes 1.
//
// Parameters:
//   - p: the backend completion primitive
//   - slots: the number of frame slots
//   - options: functional options applied to the fence
//
// Returns:
//   - Fence: the new fence
func NewFence(p Primitive, slots uint32, options ...FenceBuilderOption) Fence {
	f := &fence{
		mu:         &sync.Mutex{},
		primitive:  p,
		event:      NewEvent(),
		next:       1,
		slotValues: make([]uint64, slots),
		policy:     PacingDrainAll,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *fence) Signal() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value := f.next
	if err := f.primitive.Signal(value); err != nil {
		return 0, errors.Wrapf(err, "signal fence value %d", value)
	}
	f.next++
	f.signals++
	return value, nil
}

func (f *fence) WaitFor(value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waitLocked(value)
}

func (f *fence) waitLocked(value uint64) error {
	if f.primitive.CompletedValue() >= value {
		f.fastPaths++
		return nil
	}
	if value >= f.next {
		return errors.Wrapf(ErrNeverSignaled, "wait for %d (next %d)", value, f.next)
	}

	f.event.Clear()
	if err := f.primitive.SetEventOnCompletion(value, f.event); err != nil {
		return errors.Wrapf(err, "register completion event for %d", value)
	}
	f.waits++

	var deadline <-chan time.Time
	if f.timeout > 0 {
		timer := time.NewTimer(f.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	start := time.Now()
	defer func() { f.blocked += time.Since(start) }()

	for f.primitive.CompletedValue() < value {
		select {
		case <-f.event.C():
		case <-deadline:
			return errors.Wrapf(ErrWaitTimeout, "wait for %d after %s (completed %d)", value, f.timeout, f.primitive.CompletedValue())
		}
	}
	common.Logger().Debug("fence wait", "value", value, "took", time.Since(start))
	return nil
}

func (f *fence) DrainAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.primitive.CompletedValue() >= f.next-1 {
		f.fastPaths++
		return nil
	}

	value := f.next
	if err := f.primitive.Signal(value); err != nil {
		return errors.Wrapf(err, "signal drain value %d", value)
	}
	f.next++
	f.signals++
	return f.waitLocked(value)
}

func (f *fence) WaitForSlot(slot uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if int(slot) >= len(f.slotValues) {
		return errors.Errorf("wait for slot %d: only %d slots", slot, len(f.slotValues))
	}
	return f.waitLocked(f.slotValues[slot])
}

func (f *fence) Pace(slot uint32, value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if int(slot) >= len(f.slotValues) {
		return errors.Errorf("pace slot %d: only %d slots", slot, len(f.slotValues))
	}
	f.slotValues[slot] = value

	if f.policy == PacingDrainAll {
		return f.waitLocked(value)
	}
	return nil
}

func (f *fence) SlotValue(slot uint32) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if int(slot) >= len(f.slotValues) {
		return 0
	}
	return f.slotValues[slot]
}

func (f *fence) Next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}

func (f *fence) Completed() uint64 {
	return f.primitive.CompletedValue()
}

func (f *fence) Policy() PacingPolicy {
	return f.policy
}

func (f *fence) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Stats{
		Next:      f.next,
		Completed: f.primitive.CompletedValue(),
		Signals:   f.signals,
		Waits:     f.waits,
		FastPaths: f.fastPaths,
		Blocked:   f.blocked,
	}
}
