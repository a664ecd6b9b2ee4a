// pkg/engine/search.go
package engine

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/config"
)

// Attempt records how one strategy fared in FirstSuccessful.
type Attempt struct {
	Name   string
	Result Result
}

// FirstSuccessful flies each strategy in a fresh simulation built from cfg,
// in order, and stops at the first one that lands safely. Every attempt made
// is returned; on success the last attempt is the winner. Each attempt starts
// from its own copy of the initial state, including a state given with
// WithState, which is never modified.
func FirstSuccessful(ctx context.Context, cfg *config.SimulationConfig, strategies []autopilot.Named, opts ...Option) ([]Attempt, error) {
	attempts := make([]Attempt, 0, len(strategies))
	initial := NewSimulation(cfg, opts...).Snapshot()

	for _, named := range strategies {
		state := initial
		attemptOpts := append(opts[:len(opts):len(opts)], WithState(&state))
		sim := NewSimulation(cfg, attemptOpts...)
		result, err := sim.Run(ctx, AutopilotInput{Strategy: named.Strategy})
		if err != nil {
			return attempts, fmt.Errorf("strategy %s: %w", named.Name, err)
		}

		attempts = append(attempts, Attempt{Name: named.Name, Result: result})
		if result.Landed() {
			return attempts, nil
		}
	}

	return attempts, ErrNoSuccessfulStrategy
}
