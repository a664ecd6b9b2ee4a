// pkg/engine/race_condition_test.go
package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/config"
)

// TestSimulationConcurrentObservers reads snapshots from other goroutines
// while a run mutates the state. Run with -race.
func TestSimulationConcurrentObservers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.StopOnFuelExhausted = false
	sim := newTestSimulation(cfg)

	var wg sync.WaitGroup
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lastTime := -1.0
			for {
				select {
				case <-done:
					return
				default:
				}
				s := sim.Snapshot()
				if s.Time < lastTime {
					t.Errorf("time went backwards: %v after %v", s.Time, lastTime)
					return
				}
				lastTime = s.Time
				_ = sim.GetStatus()
				_ = sim.Ticks()
				_, _ = sim.LastResult()
			}
		}()
	}

	res, err := sim.Run(context.Background(), AutopilotInput{Strategy: autopilot.Threshold()})
	close(done)
	wg.Wait()

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Ticks != cfg.Run.MaxTicks {
		t.Errorf("ticks = %d, want %d", res.Ticks, cfg.Run.MaxTicks)
	}
}
