// Package form is the per-form state machine shared by every editor:
// Idle → Editing → Submitting → (Idle | Failed → Editing).
package form

import (
	"context"
	"errors"
	"sync"

	"catalogadmin/api"
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Failed
	Succeeded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

var (
	ErrBusy       = errors.New("a submission is already in progress")
	ErrNotEditing = errors.New("form is not open")
)

// Controller owns one working model. While Submitting every input is
// refused; a failed submit keeps the model and exposes the inline message.
type Controller[M any] struct {
	mu       sync.Mutex
	state    State
	model    M
	message  string
	observer func(from, to State)
}

func New[M any]() *Controller[M] {
	return &Controller[M]{}
}

// Observe registers fn to be called on every state change, outside the lock.
func (c *Controller[M]) Observe(fn func(from, to State)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

func (c *Controller[M]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Model returns a copy of the working model.
func (c *Controller[M]) Model() M {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Message is the inline error text from the last failure, or "".
func (c *Controller[M]) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Open starts editing m, replacing whatever was open unless a submit is in flight.
func (c *Controller[M]) Open(m M) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	from := c.state
	c.model = m
	c.message = ""
	c.state = Editing
	c.mu.Unlock()
	c.notify(from, Editing)
	return nil
}

// Update applies fn to the working model. An error from fn leaves the model
// as it was. Editing resumes from Failed on the first successful update.
func (c *Controller[M]) Update(fn func(*M) error) error {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	case Editing, Failed:
	default:
		c.mu.Unlock()
		return ErrNotEditing
	}

	draft := c.model
	if err := fn(&draft); err != nil {
		c.mu.Unlock()
		return err
	}
	from := c.state
	c.model = draft
	c.message = ""
	c.state = Editing
	c.mu.Unlock()
	if from != Editing {
		c.notify(from, Editing)
	}
	return nil
}

// Submit validates the model, then runs submit with a snapshot of it.
// Validation failures never reach submit. On success the form closes.
func (c *Controller[M]) Submit(ctx context.Context, validate func(M) error, submit func(context.Context, M) error) error {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	case Editing, Failed:
	default:
		c.mu.Unlock()
		return ErrNotEditing
	}
	snapshot := c.model
	from := c.state

	if validate != nil {
		if err := validate(snapshot); err != nil {
			c.state = Failed
			c.message = api.UserMessage(err)
			c.mu.Unlock()
			c.notify(from, Failed)
			return err
		}
	}
	c.state = Submitting
	c.message = ""
	c.mu.Unlock()
	c.notify(from, Submitting)

	err := submit(ctx, snapshot)

	c.mu.Lock()
	if err != nil {
		c.state = Failed
		c.message = api.UserMessage(err)
		c.mu.Unlock()
		c.notify(Submitting, Failed)
		return err
	}
	var zero M
	c.model = zero
	c.state = Idle
	c.mu.Unlock()
	c.notify(Submitting, Succeeded)
	c.notify(Succeeded, Idle)
	return nil
}

// Close discards the working model. It is refused while submitting.
func (c *Controller[M]) Close() error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	from := c.state
	var zero M
	c.model = zero
	c.message = ""
	c.state = Idle
	c.mu.Unlock()
	if from != Idle {
		c.notify(from, Idle)
	}
	return nil
}

func (c *Controller[M]) notify(from, to State) {
	c.mu.Lock()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(from, to)
	}
}
