// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/opd-ai/go-lander/pkg/config"
	"github.com/opd-ai/go-lander/pkg/event"
	"github.com/opd-ai/go-lander/pkg/logging"
	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Status is the lifecycle phase of a Simulation.
type Status int

const (
	StatusWaiting Status = iota
	StatusActive
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Simulation drives one lander state from its initial conditions to a
// terminal condition. The state is only mutated by the goroutine calling Run
// or Advance; the lock lets observers such as the status server take
// consistent snapshots.
type Simulation struct {
	State               *physics.LanderState
	TimeStep            float64
	MaxTicks            int // 0 means unlimited
	StopOnFuelExhausted bool
	SafeLandingSpeed    float64
	EventBus            *event.Bus
	Status              Status
	CurrentTick         int
	Rejected            int

	mu           sync.RWMutex
	sinks        []Sink
	logger       *logging.Logger
	fuelReported bool
	result       Result
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithSink adds an output sink.
func WithSink(sink Sink) Option {
	return func(s *Simulation) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithEventBus publishes events on an existing bus.
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) {
		s.EventBus = bus
	}
}

// WithState starts from the given state instead of the configured initial
// conditions. The simulation takes ownership of state.
func WithState(state *physics.LanderState) Option {
	return func(s *Simulation) {
		s.State = state
	}
}

// NewSimulation creates a simulation from cfg. A nil cfg uses
// config.DefaultConfig.
func NewSimulation(cfg *config.SimulationConfig, opts ...Option) *Simulation {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sim := &Simulation{
		State:               cfg.Lander.NewState(),
		TimeStep:            cfg.Run.TimeStep,
		MaxTicks:            cfg.Run.MaxTicks,
		StopOnFuelExhausted: cfg.Run.StopOnFuelExhausted,
		SafeLandingSpeed:    cfg.Run.SafeLandingSpeed,
		EventBus:            event.NewEventBus(),
		Status:              StatusWaiting,
	}

	for _, opt := range opts {
		opt(sim)
	}
	if sim.logger == nil {
		sim.logger = logging.NewLogger()
	}

	return sim
}

// Snapshot returns a copy of the current state.
func (s *Simulation) Snapshot() physics.LanderState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.State
}

// GetStatus returns the lifecycle phase.
func (s *Simulation) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CurrentTick
}

// LastResult returns the result of the finished run, if any.
func (s *Simulation) LastResult() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.Status == StatusEnded
}

// Start marks the simulation active and notifies observers. Run calls it;
// front ends that step on their own clock call it before the first Advance.
// A simulation runs once: starting an ended one returns ErrAlreadyFinished.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.Status {
	case StatusActive:
		s.mu.Unlock()
		return ErrAlreadyRunning
	case StatusEnded:
		s.mu.Unlock()
		return ErrAlreadyFinished
	}
	s.Status = StatusActive
	initial := *s.State
	s.mu.Unlock()

	s.logger.Info(ctx, "Simulation started",
		"altitude", initial.Altitude,
		"velocity", initial.Velocity,
		"fuel", initial.Fuel,
		"time_step", s.TimeStep,
	)
	s.EventBus.Publish(event.NewTickEvent(event.SimulationStarted, s, 0, 0,
		initial.Altitude, initial.Velocity, initial.Fuel, initial.Time))
	for _, sink := range s.sinks {
		sink.OnStart(initial)
	}
	return nil
}

// Advance applies one tick with the given throttle and reports whether the
// run reached a terminal condition. It does not check MaxTicks.
func (s *Simulation) Advance(ctx context.Context, thrustPercent float64) (TickReport, Termination) {
	s.mu.Lock()
	physics.Step(s.State, thrustPercent, s.TimeStep)
	s.CurrentTick++
	report := TickReport{Tick: s.CurrentTick, Thrust: thrustPercent, State: *s.State}
	s.mu.Unlock()

	s.logger.Debug(ctx, "Tick completed",
		"tick", report.Tick,
		"thrust", thrustPercent,
		"altitude", report.State.Altitude,
		"velocity", report.State.Velocity,
		"fuel", report.State.Fuel,
	)
	s.EventBus.Publish(event.NewTickEvent(event.TickCompleted, s, report.Tick, thrustPercent,
		report.State.Altitude, report.State.Velocity, report.State.Fuel, report.State.Time))
	for _, sink := range s.sinks {
		sink.OnTick(report)
	}

	if !report.State.Descending() {
		return report, TerminationTouchdown
	}
	if report.State.FuelExhausted() {
		if !s.fuelReported {
			s.fuelReported = true
			s.logger.Warn(ctx, "Fuel exhausted", "tick", report.Tick, "altitude", report.State.Altitude)
			s.EventBus.Publish(event.NewTickEvent(event.FuelExhausted, s, report.Tick, thrustPercent,
				report.State.Altitude, report.State.Velocity, report.State.Fuel, report.State.Time))
		}
		if s.StopOnFuelExhausted {
			return report, TerminationFuelExhausted
		}
	}
	return report, TerminationNone
}

// Reject records an operator input that was refused. The state is not
// touched.
func (s *Simulation) Reject(ctx context.Context, err error) {
	s.mu.Lock()
	s.Rejected++
	tick := s.CurrentTick
	s.mu.Unlock()

	s.logger.Warn(ctx, "Input rejected", "tick", tick, "reason", err.Error())
	s.EventBus.Publish(event.NewRejectionEvent(s, tick, err.Error()))
	for _, sink := range s.sinks {
		sink.OnRejected(tick, err)
	}
}

// Finish ends the run, classifies the landing and notifies observers.
func (s *Simulation) Finish(ctx context.Context, termination Termination) Result {
	s.mu.Lock()
	s.Status = StatusEnded
	final := *s.State
	result := Result{
		Termination: termination,
		Landing:     ClassifyLanding(final.Velocity, s.SafeLandingSpeed),
		Final:       final,
		Ticks:       s.CurrentTick,
		Rejected:    s.Rejected,
	}
	s.result = result
	s.mu.Unlock()

	if termination == TerminationTouchdown {
		s.EventBus.Publish(event.NewTickEvent(event.Touchdown, s, result.Ticks, 0,
			final.Altitude, final.Velocity, final.Fuel, final.Time))
	}
	s.EventBus.Publish(event.NewOutcomeEvent(s, termination.String(), result.Landing.String(),
		final.Velocity, result.Ticks))

	s.logger.Info(ctx, "Simulation ended",
		"termination", termination.String(),
		"landing", result.Landing.String(),
		"ticks", result.Ticks,
		"velocity", final.Velocity,
		"fuel", final.Fuel,
		"rejected_inputs", result.Rejected,
	)
	for _, sink := range s.sinks {
		sink.OnFinish(result)
	}
	return result
}

// Run drives the simulation until the lander is no longer above the
// surface, the tank runs dry (when StopOnFuelExhausted is set), MaxTicks is
// reached, the input source fails, or ctx is cancelled. Rejected inputs are
// asked for again without consuming a tick.
func (s *Simulation) Run(ctx context.Context, input InputSource) (Result, error) {
	if input == nil {
		return Result{}, ErrNoInput
	}
	if logging.GetRunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	if err := s.Start(ctx); err != nil {
		return Result{}, err
	}

	if !s.Snapshot().Descending() {
		return s.Finish(ctx, TerminationTouchdown), nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, err)
		}
		if s.MaxTicks > 0 && s.Ticks() >= s.MaxTicks {
			return s.Finish(ctx, TerminationTickLimit), nil
		}

		thrust, err := input.NextThrust(ctx, s.Snapshot())
		if err != nil {
			if errors.Is(err, validation.ErrInvalidThrust) {
				s.Reject(ctx, err)
				continue
			}
			return s.abort(ctx, err)
		}
		// A command that arrives after cancellation is not applied.
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, err)
		}

		if _, termination := s.Advance(ctx, thrust); termination != TerminationNone {
			return s.Finish(ctx, termination), nil
		}
	}
}

func (s *Simulation) abort(ctx context.Context, err error) (Result, error) {
	s.logger.Error(ctx, "Simulation aborted", err, "tick", s.Ticks())
	result := s.Finish(ctx, TerminationAborted)
	return result, &RunError{Tick: result.Ticks, Time: result.Final.Time, Err: err}
}
