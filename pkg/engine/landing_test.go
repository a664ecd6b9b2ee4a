// pkg/engine/landing_test.go
package engine

import "testing"

// TestClassifyLanding verifies the safe landing speed boundary
func TestClassifyLanding(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		safe     float64
		want     Landing
	}{
		{"at rest", 0, DefaultSafeLandingSpeed, LandingSuccessful},
		{"gentle descent", -4.18, DefaultSafeLandingSpeed, LandingSuccessful},
		{"exactly safe downward", -5.0, DefaultSafeLandingSpeed, LandingSuccessful},
		{"exactly safe upward", 5.0, DefaultSafeLandingSpeed, LandingSuccessful},
		{"just too fast", -5.01, DefaultSafeLandingSpeed, LandingCrash},
		{"free fall impact", -56.7, DefaultSafeLandingSpeed, LandingCrash},
		{"rising too fast", 6.92, DefaultSafeLandingSpeed, LandingCrash},
		{"stricter limit", -3, 2, LandingCrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLanding(tt.velocity, tt.safe); got != tt.want {
				t.Errorf("ClassifyLanding(%v, %v) = %v, want %v", tt.velocity, tt.safe, got, tt.want)
			}
		})
	}
}

// TestResult_Landed verifies that only a touchdown can count as landed
func TestResult_Landed(t *testing.T) {
	tests := []struct {
		term    Termination
		landing Landing
		want    bool
	}{
		{TerminationTouchdown, LandingSuccessful, true},
		{TerminationTouchdown, LandingCrash, false},
		{TerminationFuelExhausted, LandingSuccessful, false},
		{TerminationTickLimit, LandingSuccessful, false},
		{TerminationAborted, LandingSuccessful, false},
	}

	for _, tt := range tests {
		r := Result{Termination: tt.term, Landing: tt.landing}
		if got := r.Landed(); got != tt.want {
			t.Errorf("Result{%v, %v}.Landed() = %v, want %v", tt.term, tt.landing, got, tt.want)
		}
	}
}

func TestStringers(t *testing.T) {
	if TerminationFuelExhausted.String() != "fuel_exhausted" || Termination(99).String() != "unknown" {
		t.Error("unexpected Termination strings")
	}
	if LandingCrash.String() != "crash" || Landing(0).String() != "unknown" {
		t.Error("unexpected Landing strings")
	}
	if StatusActive.String() != "active" || Status(7).String() != "unknown" {
		t.Error("unexpected Status strings")
	}
}
