// pkg/physics/lander.go
package physics

// Default initial conditions and vehicle constants
const (
	DefaultAltitude     = 1000.0 // meters
	DefaultVelocity     = 0.0    // m/s, positive is up
	DefaultFuel         = 500.0  // kg
	DefaultGravity      = -1.62  // m/s², Moon-like
	DefaultMaxThrust    = 4.0    // m/s² upward at 100% throttle
	DefaultFuelBurnRate = 0.5    // kg per unit of thrust acceleration per second
	DefaultTimeStep     = 1.0    // seconds per tick
)

// LanderState is the complete state of a descending vehicle. A state is owned
// by exactly one driver loop and mutated in place once per tick.
type LanderState struct {
	Altitude float64 // meters above the landing surface
	Velocity float64 // m/s, negative is downward
	Fuel     float64 // kg
	Time     float64 // seconds elapsed

	Gravity      float64 // constant for the lifetime of the state
	MaxThrust    float64
	FuelBurnRate float64
}

// NewLanderState returns a state with the default initial conditions.
func NewLanderState() *LanderState {
	return NewLanderStateWith(DefaultAltitude, DefaultVelocity, DefaultFuel)
}

// NewLanderStateWith returns a state with the given initial altitude, velocity
// and fuel and the default vehicle constants.
func NewLanderStateWith(altitude, velocity, fuel float64) *LanderState {
	return &LanderState{
		Altitude:     altitude,
		Velocity:     velocity,
		Fuel:         fuel,
		Gravity:      DefaultGravity,
		MaxThrust:    DefaultMaxThrust,
		FuelBurnRate: DefaultFuelBurnRate,
	}
}

// Step advances state by dt seconds under the commanded throttle percentage.
//
// thrustPercent is not validated: callers keep it within [0, 100]. When the
// tank cannot cover the burn the fuel is floored at zero, but the full
// commanded thrust is still applied for this tick. Altitude is integrated
// with the velocity computed in the same tick.
func Step(state *LanderState, thrustPercent, dt float64) {
	thrustAccel := state.MaxThrust * (thrustPercent / 100)
	netAccel := state.Gravity + thrustAccel

	fuelUsed := state.FuelBurnRate * thrustAccel * dt
	if fuelUsed > state.Fuel {
		state.Fuel = 0
	} else {
		state.Fuel -= fuelUsed
	}

	state.Velocity += netAccel * dt
	state.Altitude += state.Velocity * dt
	state.Time += dt
}

// Tick advances the state by DefaultTimeStep.
func (s *LanderState) Tick(thrustPercent float64) {
	Step(s, thrustPercent, DefaultTimeStep)
}

// ThrustAcceleration returns the upward acceleration produced by the given
// throttle percentage.
func (s LanderState) ThrustAcceleration(thrustPercent float64) float64 {
	return s.MaxThrust * (thrustPercent / 100)
}

// Descending reports whether the vehicle is still above the surface.
func (s LanderState) Descending() bool {
	return s.Altitude > 0
}

// FuelExhausted reports whether the tank is empty.
func (s LanderState) FuelExhausted() bool {
	return s.Fuel <= 0
}
