// pkg/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned when Run is called on an active simulation.
	ErrAlreadyRunning = errors.New("simulation already running")

	// ErrAlreadyFinished is returned when Start or Run is called on a
	// simulation whose run has ended.
	ErrAlreadyFinished = errors.New("simulation already finished")

	// ErrNoInput is returned when Run is called without an input source.
	ErrNoInput = errors.New("no input source")

	// ErrNoSuccessfulStrategy is returned by FirstSuccessful when every
	// strategy crashed or ran out of fuel.
	ErrNoSuccessfulStrategy = errors.New("no strategy landed safely")
)

// RunError wraps a failure that aborted a run with the tick it happened on.
type RunError struct {
	Tick int
	Time float64
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run aborted at tick %d (t=%.1fs): %v", e.Tick, e.Time, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
