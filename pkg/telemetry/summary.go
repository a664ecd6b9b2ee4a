// pkg/telemetry/summary.go
package telemetry

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrNoSamples is returned when summarizing an empty trajectory.
var ErrNoSamples = errors.New("no samples recorded")

// Summary condenses a trajectory.
type Summary struct {
	Ticks          int
	Duration       float64 // seconds
	FuelUsed       float64 // kg, negative if the tank gained fuel
	PeakDescent    float64 // most negative velocity, m/s
	PeakDescentAt  float64 // time of PeakDescent
	MaxThrust      float64 // percent
	MeanThrust     float64 // percent, over ticks
	BurnTicks      int     // ticks with non-zero thrust
	FinalAltitude  float64
	FinalVelocity  float64
	LowestAltitude float64
}

// Summarize computes a Summary from samples in tick order. The first sample
// is taken as the initial conditions.
func Summarize(samples []Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}

	first, last := samples[0], samples[len(samples)-1]
	velocities := make([]float64, len(samples))
	altitudes := make([]float64, len(samples))
	for i, s := range samples {
		velocities[i] = s.Velocity
		altitudes[i] = s.Altitude
	}

	sum := Summary{
		Ticks:          len(samples) - 1,
		Duration:       last.Time - first.Time,
		FuelUsed:       first.Fuel - last.Fuel,
		FinalAltitude:  last.Altitude,
		FinalVelocity:  last.Velocity,
		LowestAltitude: floats.Min(altitudes),
	}

	idx := floats.MinIdx(velocities)
	sum.PeakDescent = velocities[idx]
	sum.PeakDescentAt = samples[idx].Time

	if sum.Ticks > 0 {
		thrusts := make([]float64, 0, sum.Ticks)
		for _, s := range samples[1:] {
			thrusts = append(thrusts, s.Thrust)
			if s.Thrust != 0 {
				sum.BurnTicks++
			}
		}
		sum.MaxThrust = floats.Max(thrusts)
		sum.MeanThrust = floats.Sum(thrusts) / float64(len(thrusts))
	}

	return sum, nil
}
