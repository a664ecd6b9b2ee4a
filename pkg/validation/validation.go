// Package validation provides input validation for throttle commands and
// simulation parameters. The physics core never validates its inputs; every
// front end runs operator input through this package first.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Throttle limits and input size constraints
const (
	MinThrustPercent = 0.0
	MaxThrustPercent = 100.0
	MaxInputLen      = 64
)

var (
	// ErrInvalidThrust marks a throttle command that was rejected. Drivers
	// re-prompt on it without advancing the simulation.
	ErrInvalidThrust = errors.New("invalid thrust")

	// ErrInvalidTimeStep marks a non-positive or non-finite time step.
	ErrInvalidTimeStep = errors.New("invalid time step")
)

// ParseThrust parses a throttle percentage typed by an operator.
func ParseThrust(input string) (float64, error) {
	if len(input) > MaxInputLen {
		return 0, fmt.Errorf("%w: input too long: %d characters (max %d)", ErrInvalidThrust, len(input), MaxInputLen)
	}

	if !utf8.ValidString(input) {
		return 0, fmt.Errorf("%w: input contains invalid UTF-8 characters", ErrInvalidThrust)
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: input cannot be empty", ErrInvalidThrust)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return 0, fmt.Errorf("%w: input contains control characters", ErrInvalidThrust)
		}
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidThrust, trimmed)
	}

	if err := ValidateThrust(value); err != nil {
		return 0, err
	}

	return value, nil
}

// ValidateThrust checks that a throttle percentage lies within [0, 100].
func ValidateThrust(percent float64) error {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidThrust, percent)
	}
	if percent < MinThrustPercent || percent > MaxThrustPercent {
		return fmt.Errorf("%w: %v out of range (must be %v-%v)", ErrInvalidThrust, percent, MinThrustPercent, MaxThrustPercent)
	}
	return nil
}

// ClampThrust limits a computed throttle to [0, 100]. NaN maps to zero.
func ClampThrust(percent float64) float64 {
	if math.IsNaN(percent) {
		return MinThrustPercent
	}
	return math.Max(MinThrustPercent, math.Min(percent, MaxThrustPercent))
}

// ValidateTimeStep checks that dt is a finite, positive number of seconds.
func ValidateTimeStep(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidTimeStep, dt)
	}
	if dt <= 0 {
		return fmt.Errorf("%w: %v must be positive", ErrInvalidTimeStep, dt)
	}
	return nil
}
