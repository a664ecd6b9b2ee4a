// Package telemetry records the trajectory of a run and derives summary
// figures from it.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/physics"
)

// Sample is one row of a trajectory. The first sample of a run holds the
// initial conditions and zero thrust.
type Sample struct {
	Tick     int
	Time     float64
	Altitude float64
	Velocity float64
	Fuel     float64
	Thrust   float64
}

// Recorder is an engine.Sink that keeps every sample of a run.
type Recorder struct {
	engine.BaseSink

	mu      sync.RWMutex
	samples []Sample
	result  *engine.Result
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnStart resets the recorder and stores the initial conditions.
func (r *Recorder) OnStart(state physics.LanderState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples[:0], sampleOf(0, 0, state))
	r.result = nil
}

// OnTick appends one sample.
func (r *Recorder) OnTick(report engine.TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sampleOf(report.Tick, report.Thrust, report.State))
}

// OnFinish stores the outcome.
func (r *Recorder) OnFinish(result engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = &result
}

// Samples returns a copy of the recorded trajectory.
func (r *Recorder) Samples() []Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Sample(nil), r.samples...)
}

// Result returns the outcome once the run has finished.
func (r *Recorder) Result() (engine.Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.result == nil {
		return engine.Result{}, false
	}
	return *r.result, true
}

func sampleOf(tick int, thrust float64, s physics.LanderState) Sample {
	return Sample{
		Tick:     tick,
		Time:     s.Time,
		Altitude: s.Altitude,
		Velocity: s.Velocity,
		Fuel:     s.Fuel,
		Thrust:   thrust,
	}
}

// WriteTable writes the trajectory as a tab separated table with a header.
// Each row holds the state a throttle command was chosen from next to that
// command, so the first row is the initial conditions and the final state,
// which commanded nothing, is left out.
func (r *Recorder) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "TIME\tALT(m)\tVEL(m/s)\tFUEL\tTHRUST%"); err != nil {
		return fmt.Errorf("failed to write table header: %w", err)
	}
	samples := r.Samples()
	for i := 1; i < len(samples); i++ {
		from := samples[i-1]
		if _, err := fmt.Fprintf(w, "%.0f\t%.1f\t%.2f\t%.1f\t%.0f\n",
			from.Time, from.Altitude, from.Velocity, from.Fuel, samples[i].Thrust); err != nil {
			return fmt.Errorf("failed to write table row: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"tick", "time", "altitude", "velocity", "fuel", "thrust"}

// WriteCSV writes every sample, initial conditions included, at full
// precision.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	format := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for _, s := range r.Samples() {
		record := []string{
			strconv.Itoa(s.Tick),
			format(s.Time),
			format(s.Altitude),
			format(s.Velocity),
			format(s.Fuel),
			format(s.Thrust),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
