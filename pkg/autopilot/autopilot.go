// Package autopilot provides throttle policies that fly the lander without an
// operator. Every policy is a pure function of the current state, so a run
// driven by a policy is fully reproducible.
package autopilot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Strategy computes a throttle percentage from the current state.
type Strategy interface {
	Throttle(state physics.LanderState) float64
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(state physics.LanderState) float64

// Throttle implements Strategy.
func (f StrategyFunc) Throttle(state physics.LanderState) float64 {
	return f(state)
}

// Named pairs a strategy with its registry name.
type Named struct {
	Name     string
	Strategy Strategy
}

// Registry names of the built-in strategies
const (
	NameThreshold    = "threshold"
	NameDescent      = "descent"
	NameAltitude     = "altitude"
	NameProportional = "proportional"
	NameBangBang     = "bangbang"
)

// DefaultGain is the proportional controller gain used by Lookup.
const DefaultGain = 20.0

// Threshold raises the throttle in steps as the descent rate grows and
// commits to 90% close to the ground.
func Threshold() Strategy {
	return StrategyFunc(func(s physics.LanderState) float64 {
		switch {
		case s.Altitude < 20:
			return 90
		case s.Velocity < -40:
			return 100
		case s.Velocity < -20:
			return 75
		case s.Velocity < -5:
			return 50
		default:
			return 0
		}
	})
}

// Descent holds 90% below 100 m and otherwise brakes by descent rate.
func Descent() Strategy {
	return StrategyFunc(func(s physics.LanderState) float64 {
		switch {
		case s.Altitude < 100:
			return 90
		case s.Velocity < -40:
			return 100
		case s.Velocity < -25:
			return 80
		case s.Velocity < -10:
			return 50
		default:
			return 0
		}
	})
}

// Altitude burns harder as the ground approaches, ignoring velocity.
func Altitude() Strategy {
	return StrategyFunc(func(s physics.LanderState) float64 {
		switch {
		case s.Altitude < 50:
			return 100
		case s.Altitude < 150:
			return 70
		default:
			return 30
		}
	})
}

// Proportional tracks a target descent rate that shrinks linearly with
// altitude, from -2 m/s at the surface. The output is clamped to [0, 100].
type Proportional struct {
	Gain float64
}

// Throttle implements Strategy.
func (p Proportional) Throttle(s physics.LanderState) float64 {
	desired := -2.0 - (s.Altitude/300)*10
	return validation.ClampThrust(p.Gain * (desired - s.Velocity))
}

// BangBang runs the engine flat out whenever the descent rate exceeds
// Limit, and cuts it otherwise.
type BangBang struct {
	Limit float64
}

// Throttle implements Strategy.
func (b BangBang) Throttle(s physics.LanderState) float64 {
	if s.Velocity < -b.Limit {
		return 100
	}
	return 0
}

// Builtins returns the built-in strategies in the order they are tried by
// engine.FirstSuccessful.
func Builtins(gain float64) []Named {
	return []Named{
		{Name: NameDescent, Strategy: Descent()},
		{Name: NameAltitude, Strategy: Altitude()},
		{Name: NameProportional, Strategy: Proportional{Gain: gain}},
		{Name: NameBangBang, Strategy: BangBang{Limit: 5}},
		{Name: NameThreshold, Strategy: Threshold()},
	}
}

// Names returns the sorted names of the built-in strategies.
func Names() []string {
	builtins := Builtins(DefaultGain)
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in strategy with the given name. gain is used by
// the proportional controller; a non-positive gain selects DefaultGain.
func Lookup(name string, gain float64) (Strategy, error) {
	if gain <= 0 {
		gain = DefaultGain
	}
	key := strings.ToLower(strings.TrimSpace(name))
	for _, b := range Builtins(gain) {
		if b.Name == key {
			return b.Strategy, nil
		}
	}
	return nil, fmt.Errorf("unknown autopilot strategy %q (available: %s)", name, strings.Join(Names(), ", "))
}
