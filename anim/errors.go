package anim

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBuilderApplied    = errors.New("anim: sequence builder already applied")
	ErrBuilderNotApplied = errors.New("anim: lazy sequence builder has steps but was not applied")
	ErrInvalidOperation  = errors.New("anim: invalid operation")
	ErrOutOfRange        = errors.New("anim: value out of range")
	ErrInvalidDuration   = errors.New("anim: invalid duration")
	ErrNilArgument       = errors.New("anim: nil argument")
	ErrCanceled          = errors.New("anim: sequence canceled")
	ErrConcurrentAccess  = errors.New("anim: sequencer used from more than one goroutine")
	ErrNegativeInterval  = errors.New("anim: negative time till next event")
	ErrZeroInterval      = errors.New("anim: zero step interval")
	ErrStepLimit         = errors.New("anim: step limit reached")
	ErrInternal          = errors.New("anim: internal consistency error")
)

// PanicError wraps a value recovered from a panicking animation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("anim: panic during update: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func checkDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, d)
	}
	return nil
}
