// pkg/input/script_test.go
package input

import (
	"context"
	"errors"
	"testing"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []float64
		wantErr bool
	}{
		{"commas", "0,0,50", []float64{0, 0, 50}, false},
		{"mixed separators", " 10, 20;30\t40 ", []float64{10, 20, 30, 40}, false},
		{"empty", "", []float64{}, false},
		{"out of range", "0,101", nil, true},
		{"not a number", "0,full", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := ParseScript(tt.text)
			if tt.wantErr {
				if !errors.Is(err, validation.ErrInvalidThrust) {
					t.Errorf("error = %v, want ErrInvalidThrust", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if script.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", script.Len(), len(tt.want))
			}
			for i, want := range tt.want {
				got, _ := script.NextThrust(context.Background(), physics.LanderState{})
				if got != want {
					t.Errorf("value %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestScript_RepeatsLastValue(t *testing.T) {
	ctx := context.Background()
	script := NewScript(10, 60)

	var got []float64
	for i := 0; i < 4; i++ {
		v, err := script.NextThrust(ctx, physics.LanderState{})
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		got = append(got, v)
	}

	want := []float64{10, 60, 60, 60}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	empty := NewScript()
	if v, err := empty.NextThrust(ctx, physics.LanderState{}); v != 0 || err != nil {
		t.Errorf("empty script = %v, %v; want 0, nil", v, err)
	}
}
