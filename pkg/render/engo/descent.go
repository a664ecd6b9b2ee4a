// pkg/render/engo/descent.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// sprite is a drawable entity in the scene.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// DescentSystem advances the simulation on the frame clock: one tick every
// TickInterval seconds of wall time, with the throttle sampled from the
// pilot at each tick.
type DescentSystem struct {
	sim          *engine.Simulation
	pilot        autopilot.Strategy
	keyboard     *KeyboardThrottle // nil when an autopilot flies
	tickInterval float32
	viewport     Viewport
	ctx          context.Context

	lander *sprite
	flame  *sprite
	hud    *HUD

	elapsed    float32
	lastThrust float64
	finished   bool
	result     engine.Result
	onFinish   func(engine.Result)
}

// NewDescentSystem creates a descent system. keyboard may be nil.
func NewDescentSystem(ctx context.Context, sim *engine.Simulation, pilot autopilot.Strategy, keyboard *KeyboardThrottle, tickInterval float32, viewport Viewport) *DescentSystem {
	if tickInterval <= 0 {
		tickInterval = 0.25
	}
	return &DescentSystem{
		ctx:          ctx,
		sim:          sim,
		pilot:        pilot,
		keyboard:     keyboard,
		tickInterval: tickInterval,
		viewport:     viewport,
	}
}

// Remove satisfies ecs.System.
func (d *DescentSystem) Remove(ecs.BasicEntity) {}

// Update samples the keyboard, advances the simulation and moves the
// sprites.
func (d *DescentSystem) Update(dt float32) {
	if d.keyboard != nil {
		d.keyboard.Apply(ReadControls())
	}
	d.advance(dt)
	d.sync()
}

// advance runs as many ticks as dt covers and reports how many ran.
func (d *DescentSystem) advance(dt float32) int {
	if d.finished {
		return 0
	}

	ticks := 0
	d.elapsed += dt
	for d.elapsed >= d.tickInterval && !d.finished {
		d.elapsed -= d.tickInterval

		if d.sim.MaxTicks > 0 && d.sim.Ticks() >= d.sim.MaxTicks {
			d.finish(engine.TerminationTickLimit)
			break
		}

		d.lastThrust = validation.ClampThrust(d.pilot.Throttle(d.sim.Snapshot()))
		_, term := d.sim.Advance(d.ctx, d.lastThrust)
		ticks++
		if term != engine.TerminationNone {
			d.finish(term)
		}
	}
	return ticks
}

func (d *DescentSystem) finish(term engine.Termination) {
	d.finished = true
	d.lastThrust = 0
	d.result = d.sim.Finish(d.ctx, term)
	if d.hud != nil {
		d.hud.ShowOutcome(d.result)
	}
	if d.onFinish != nil {
		d.onFinish(d.result)
	}
}

// sync moves the sprites to match the simulation state.
func (d *DescentSystem) sync() {
	state := d.sim.Snapshot()
	if d.lander != nil {
		d.lander.Position.Y = d.viewport.AltitudeToY(state.Altitude) - d.lander.Height
	}
	if d.flame != nil && d.lander != nil {
		d.flame.Position.Y = d.lander.Position.Y + d.lander.Height
		d.flame.Hidden = d.lastThrust <= 0 || d.finished
		d.flame.Height = flameHeight(d.lastThrust)
	}
	if d.hud != nil {
		d.hud.Update(state, d.lastThrust)
	}
}

func flameHeight(thrust float64) float32 {
	return float32(thrust/100) * 30
}

// Finished reports whether the run has ended, with its result.
func (d *DescentSystem) Finished() (engine.Result, bool) {
	return d.result, d.finished
}

// State returns the current lander state.
func (d *DescentSystem) State() physics.LanderState {
	return d.sim.Snapshot()
}
