package draft

import "sync"

// State is the lifecycle of the single draft slot.
type State int

const (
	StateIdle State = iota
	StatePending
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Tracker allows at most one draft request at a time. Done moves back to
// Idle on the next Begin.
type Tracker struct {
	mu    sync.Mutex
	state State
	err   error
}

// Begin claims the slot, or returns ErrInFlight while a request is pending.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StatePending {
		return ErrInFlight
	}
	t.state = StatePending
	t.err = nil
	return nil
}

// Finish records the outcome and releases the slot whatever it was.
func (t *Tracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateDone
	t.err = err
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// InFlight reports whether the trigger should be disabled.
func (t *Tracker) InFlight() bool {
	return t.State() == StatePending
}

// Err is the failure of the last finished request, nil on success.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
