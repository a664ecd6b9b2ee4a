package engo

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/config"
	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/logging"
	"github.com/opd-ai/go-lander/pkg/physics"
)

func newTestDescent(t *testing.T, cfg *config.SimulationConfig, pilot autopilot.Strategy) (*DescentSystem, *engine.Simulation) {
	t.Helper()
	sim := engine.NewSimulation(cfg, engine.WithLogger(logging.NewDiscardLogger()))
	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d := NewDescentSystem(context.Background(), sim, pilot, nil, 0.25, NewViewport(600, 1000))
	return d, sim
}

func TestDescentSystem_TicksFollowFrameClock(t *testing.T) {
	d, sim := newTestDescent(t, nil, autopilot.StrategyFunc(func(physics.LanderState) float64 { return 0 }))

	if n := d.advance(0.1); n != 0 {
		t.Errorf("advance(0.1) ran %d ticks, want 0", n)
	}
	if n := d.advance(0.2); n != 1 {
		t.Errorf("advance(0.2) ran %d ticks, want 1", n)
	}
	if n := d.advance(1.0); n != 4 {
		t.Errorf("advance(1.0) ran %d ticks, want 4", n)
	}
	if got := sim.Ticks(); got != 5 {
		t.Errorf("Ticks() = %d, want 5", got)
	}
}

func TestDescentSystem_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		pilot       autopilot.Strategy
		wantTicks   int
		wantLanding engine.Landing
	}{
		{
			name:        "free fall",
			pilot:       autopilot.StrategyFunc(func(physics.LanderState) float64 { return 0 }),
			wantTicks:   35,
			wantLanding: engine.LandingCrash,
		},
		{
			name:        "proportional",
			pilot:       autopilot.Proportional{Gain: 20},
			wantTicks:   75,
			wantLanding: engine.LandingSuccessful,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDescent(t, nil, tt.pilot)
			var notified engine.Result
			d.onFinish = func(r engine.Result) { notified = r }

			d.advance(1000)

			res, done := d.Finished()
			if !done {
				t.Fatal("descent did not finish")
			}
			if res.Termination != engine.TerminationTouchdown {
				t.Errorf("Termination = %v, want touchdown", res.Termination)
			}
			if res.Ticks != tt.wantTicks {
				t.Errorf("Ticks = %d, want %d", res.Ticks, tt.wantTicks)
			}
			if res.Landing != tt.wantLanding {
				t.Errorf("Landing = %v, want %v", res.Landing, tt.wantLanding)
			}
			if notified.Ticks != res.Ticks {
				t.Errorf("onFinish saw %d ticks, want %d", notified.Ticks, res.Ticks)
			}
			if n := d.advance(10); n != 0 {
				t.Errorf("advance after finish ran %d ticks", n)
			}
		})
	}
}

func TestDescentSystem_TickLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.MaxTicks = 10
	d, _ := newTestDescent(t, cfg, autopilot.StrategyFunc(func(physics.LanderState) float64 { return 100 }))

	d.advance(100)

	res, done := d.Finished()
	if !done {
		t.Fatal("descent did not finish")
	}
	if res.Termination != engine.TerminationTickLimit || res.Ticks != 10 {
		t.Errorf("got %v after %d ticks, want tick limit after 10", res.Termination, res.Ticks)
	}
}

func TestDescentSystem_ClampsPilot(t *testing.T) {
	d, sim := newTestDescent(t, nil, autopilot.StrategyFunc(func(physics.LanderState) float64 { return 250 }))

	d.advance(0.25)

	if d.lastThrust != 100 {
		t.Errorf("lastThrust = %v, want 100", d.lastThrust)
	}
	if got := sim.Snapshot().Fuel; got != 498 {
		t.Errorf("Fuel = %v, want 498", got)
	}
}

func TestViewport_AltitudeToY(t *testing.T) {
	v := NewViewport(600, 1000)

	tests := []struct {
		name     string
		altitude float64
		want     float32
	}{
		{"surface", 0, 540},
		{"top", 1000, 40},
		{"halfway", 500, 290},
		{"below surface", -10, 540},
		{"above top", 5000, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.AltitudeToY(tt.altitude); got != tt.want {
				t.Errorf("AltitudeToY(%v) = %v, want %v", tt.altitude, got, tt.want)
			}
		})
	}

	if got := NewViewport(600, 0).TopAltitude; got != 1 {
		t.Errorf("zero top altitude not replaced, got %v", got)
	}
}

func TestKeyboardThrottle(t *testing.T) {
	k := &KeyboardThrottle{}
	state := physics.LanderState{}

	for i := 0; i < 12; i++ {
		k.Apply(Controls{ThrottleUp: true})
	}
	if got := k.Level(); got != 100 {
		t.Errorf("Level after 12 steps up = %v, want 100", got)
	}

	k.Apply(Controls{ThrottleDown: true})
	if got := k.Throttle(state); got != 90 {
		t.Errorf("Throttle = %v, want 90", got)
	}

	k.Apply(Controls{Cut: true, Burn: true})
	if got := k.Level(); got != 0 {
		t.Errorf("Level after cut = %v, want 0", got)
	}
	if got := k.Throttle(state); got != 100 {
		t.Errorf("Throttle with burn held = %v, want 100", got)
	}

	k.Apply(Controls{})
	if got := k.Throttle(state); got != 0 {
		t.Errorf("Throttle after burn released = %v, want 0", got)
	}
}

func TestPatternImage(t *testing.T) {
	lit := color.NRGBA{255, 0, 0, 255}
	img := PatternImage([]string{"#.", ".#", "#"}, lit)

	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 2x3", b)
	}
	if got := img.NRGBAAt(0, 0); got != lit {
		t.Errorf("(0,0) = %v, want lit", got)
	}
	if got := img.NRGBAAt(1, 0); got.A != 0 {
		t.Errorf("(1,0) = %v, want clear", got)
	}
	if got := img.NRGBAAt(1, 2); got.A != 0 {
		t.Errorf("(1,2) = %v, want clear", got)
	}
}

func TestStatusText(t *testing.T) {
	got := StatusText(physics.LanderState{Altitude: 998.38, Velocity: -1.62, Fuel: 500, Time: 1}, 50)
	for _, want := range []string{"TIME: 1s", "ALTITUDE: 998.38 m", "VELOCITY: -1.62 m/s", "FUEL: 500.00 kg", "THRUST: 50%"} {
		if !strings.Contains(got, want) {
			t.Errorf("StatusText missing %q:\n%s", want, got)
		}
	}
}

func TestOutcomeText(t *testing.T) {
	tests := []struct {
		name      string
		result    engine.Result
		want      []string
		wantColor color.Color
	}{
		{
			name:      "safe touchdown",
			result:    engine.Result{Termination: engine.TerminationTouchdown, Landing: engine.LandingSuccessful},
			want:      []string{"Impact!", "Successful landing!"},
			wantColor: successColor,
		},
		{
			name:      "fuel out",
			result:    engine.Result{Termination: engine.TerminationFuelExhausted, Landing: engine.LandingCrash},
			want:      []string{"Out of fuel!", "Crash landing."},
			wantColor: crashColor,
		},
		{
			name:      "aborted",
			result:    engine.Result{Termination: engine.TerminationAborted, Landing: engine.LandingCrash},
			want:      []string{"Run aborted"},
			wantColor: crashColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, c := OutcomeText(tt.result)
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("OutcomeText missing %q:\n%s", w, text)
				}
			}
			if c != tt.wantColor {
				t.Errorf("color = %v, want %v", c, tt.wantColor)
			}
		})
	}
}

func TestFuelFraction(t *testing.T) {
	tests := []struct {
		fuel, initial float64
		want          float32
	}{
		{250, 500, 0.5},
		{-3, 500, 0},
		{600, 500, 1},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := FuelFraction(tt.fuel, tt.initial); got != tt.want {
			t.Errorf("FuelFraction(%v, %v) = %v, want %v", tt.fuel, tt.initial, got, tt.want)
		}
	}
}
