package fence

// Event is an auto-reset wait primitive. Set wakes at most one pending wait;
// a Set with nobody waiting is remembered until the next wait consumes it.
type Event struct {
	c chan struct{}
}

// NewEvent creates an unsignaled Event.
//
// Returns:
//   - *Event: the new event
func NewEvent() *Event {
	return &Event{c: make(chan struct{}, 1)}
}

// Set signals the event. Safe to call from any goroutine; extra sets are coalesced.
func (e *Event) Set() {
	select {
	case e.c <- struct{}{}:
	default:
	}
}

// C returns the channel that receives once per Set.
//
// Returns:
//   - <-chan struct{}: the wake channel
func (e *Event) C() <-chan struct{} {
	return e.c
}

// Clear drops a pending signal, if any.
func (e *Event) Clear() {
	select {
	case <-e.c:
	default:
	}
}
