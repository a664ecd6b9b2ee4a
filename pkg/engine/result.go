// pkg/engine/result.go
package engine

import (
	"math"

	"github.com/opd-ai/go-lander/pkg/physics"
)

// DefaultSafeLandingSpeed is the largest touchdown speed, in m/s, that still
// counts as a successful landing.
const DefaultSafeLandingSpeed = 5.0

// Termination tells why a run stopped.
type Termination int

const (
	TerminationNone Termination = iota
	TerminationTouchdown
	TerminationFuelExhausted
	TerminationTickLimit
	TerminationAborted
)

func (t Termination) String() string {
	switch t {
	case TerminationNone:
		return "none"
	case TerminationTouchdown:
		return "touchdown"
	case TerminationFuelExhausted:
		return "fuel_exhausted"
	case TerminationTickLimit:
		return "tick_limit"
	case TerminationAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Landing is the quality classification of the final velocity.
type Landing int

const (
	LandingSuccessful Landing = iota + 1
	LandingCrash
)

func (l Landing) String() string {
	switch l {
	case LandingSuccessful:
		return "successful"
	case LandingCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// ClassifyLanding returns LandingSuccessful when |velocity| <= safeSpeed.
func ClassifyLanding(velocity, safeSpeed float64) Landing {
	if math.Abs(velocity) <= safeSpeed {
		return LandingSuccessful
	}
	return LandingCrash
}

// Result summarizes a finished run.
type Result struct {
	Termination Termination
	Landing     Landing
	Final       physics.LanderState
	Ticks       int
	Rejected    int // operator inputs refused without a tick
}

// Landed reports whether the vehicle reached the surface slowly enough.
func (r Result) Landed() bool {
	return r.Termination == TerminationTouchdown && r.Landing == LandingSuccessful
}
