// pkg/engine/io.go
package engine

import (
	"context"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// InputSource supplies one throttle command per tick. An error wrapping
// validation.ErrInvalidThrust rejects the command and the driver asks again
// without advancing the state; any other error aborts the run.
type InputSource interface {
	NextThrust(ctx context.Context, state physics.LanderState) (float64, error)
}

// InputFunc adapts a plain function to InputSource.
type InputFunc func(ctx context.Context, state physics.LanderState) (float64, error)

// NextThrust implements InputSource.
func (f InputFunc) NextThrust(ctx context.Context, state physics.LanderState) (float64, error) {
	return f(ctx, state)
}

// AutopilotInput flies the lander with a throttle policy. The policy output
// is clamped to [0, 100] before it reaches the core.
type AutopilotInput struct {
	Strategy autopilot.Strategy
}

// NextThrust implements InputSource.
func (a AutopilotInput) NextThrust(ctx context.Context, state physics.LanderState) (float64, error) {
	return validation.ClampThrust(a.Strategy.Throttle(state)), nil
}

// TickReport describes one completed tick.
type TickReport struct {
	Tick   int
	Thrust float64
	State  physics.LanderState // copy taken after the step
}

// Sink observes a run. Calls happen on the goroutine running the
// simulation, in order.
type Sink interface {
	OnStart(state physics.LanderState)
	OnTick(report TickReport)
	OnRejected(tick int, err error)
	OnFinish(result Result)
}

// BaseSink implements Sink with no-ops, for sinks that only care about some
// of the callbacks.
type BaseSink struct{}

func (BaseSink) OnStart(physics.LanderState) {}
func (BaseSink) OnTick(TickReport)           {}
func (BaseSink) OnRejected(int, error)       {}
func (BaseSink) OnFinish(Result)             {}
