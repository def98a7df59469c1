package progress

import (
	"sync"
	"sync/atomic"
)

// Outcome is the terminal state of a Status.
type Outcome int32

const (
	Pending Outcome = iota
	Succeeded
	Failed
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Status is a one-shot completion cell shared between the goroutine doing
// the work, which finishes it, and an indicator, which only reads it.
//
// The outcome is stored before the done channel is closed, so a reader
// woken by Done always observes the final Outcome.
type Status struct {
	outcome atomic.Int32
	done    chan struct{}
	once    sync.Once
}

// NewStatus returns a pending Status.
func NewStatus() *Status {
	return &Status{done: make(chan struct{})}
}

// Finish records the outcome and requests the indicator to stop. Only the
// first call has an effect.
func (s *Status) Finish(success bool) {
	s.once.Do(func() {
		o := Failed
		if success {
			o = Succeeded
		}
		s.outcome.Store(int32(o))
		close(s.done)
	})
}

// Done is closed once Finish has been called.
func (s *Status) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the recorded outcome, Pending before Finish.
func (s *Status) Outcome() Outcome {
	return Outcome(s.outcome.Load())
}
