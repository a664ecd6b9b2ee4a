// pkg/input/guarded.go
package input

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-lander/pkg/config"
	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/logging"
	"github.com/opd-ai/go-lander/pkg/physics"
)

// ErrInputUnavailable is returned once the breaker has opened after too many
// consecutive failed reads.
var ErrInputUnavailable = errors.New("input source unavailable")

// Guarded wraps an input source with a circuit breaker. Rejected commands
// and read failures both count against the breaker; when a failure limit is
// set and the breaker opens, the source returns ErrInputUnavailable and the
// run ends instead of prompting forever on a broken or hostile stream.
type Guarded struct {
	source  engine.InputSource
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// NewGuarded wraps source using the limits in cfg. A MaxConsecutiveFailures
// of zero never opens the breaker, so rejected input is asked for again
// indefinitely.
func NewGuarded(source engine.InputSource, cfg config.InputConfig, logger *logging.Logger) *Guarded {
	if logger == nil {
		logger = logging.NewLogger()
	}

	maxFailures := cfg.MaxConsecutiveFailures

	settings := gobreaker.Settings{
		Name:        "lander-input",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.ResetTimeoutSeconds * float64(time.Second)),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return maxFailures > 0 && counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "input circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Guarded{
		source:  source,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// NextThrust implements engine.InputSource.
func (g *Guarded) NextThrust(ctx context.Context, state physics.LanderState) (float64, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.source.NextThrust(ctx, state)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.logger.Error(ctx, "input source disabled", err,
				"consecutive_failures", g.breaker.Counts().ConsecutiveFailures,
			)
			return 0, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
		}
		return 0, err
	}
	return result.(float64), nil
}

// State returns the breaker state.
func (g *Guarded) State() gobreaker.State {
	return g.breaker.State()
}

// Disabled reports whether the breaker is open and reads are refused.
func (g *Guarded) Disabled() bool {
	return g.breaker.State() == gobreaker.StateOpen
}

// Counts returns the breaker's request counters.
func (g *Guarded) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
