// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/logging"
)

// SceneOptions configures a LanderScene.
type SceneOptions struct {
	Width        float32
	Height       float32
	TickInterval float32 // wall seconds per simulation tick
	// Autopilot flies the lander when set; otherwise the keyboard does.
	Autopilot autopilot.Strategy
	// OnFinish is called once with the result when the run ends.
	OnFinish func(engine.Result)
}

// LanderScene is the graphical front end: it steps a simulation on the frame
// clock and draws the lander descending toward the surface.
type LanderScene struct {
	ctx     context.Context
	sim     *engine.Simulation
	opts    SceneOptions
	logger  *logging.Logger
	assets  *AssetManager
	descent *DescentSystem
}

// NewLanderScene creates a scene for sim. The simulation must not have been
// started.
func NewLanderScene(ctx context.Context, sim *engine.Simulation, opts SceneOptions, logger *logging.Logger) *LanderScene {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &LanderScene{
		ctx:    ctx,
		sim:    sim,
		opts:   opts,
		logger: logger,
		assets: NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *LanderScene) Type() string {
	return "LanderScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *LanderScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *LanderScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)
	RegisterButtons()

	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(scene.ctx, "Failed to load assets", err)
		engo.Exit()
		return
	}

	render := &common.RenderSystem{}
	world.AddSystem(render)

	initial := scene.sim.Snapshot()
	viewport := NewViewport(scene.opts.Height, initial.Altitude)

	ground := &sprite{BasicEntity: ecs.NewBasic()}
	ground.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: 0, Y: viewport.GroundY()},
		Width:    scene.opts.Width,
		Height:   viewport.GroundMargin,
	}
	ground.RenderComponent = common.RenderComponent{Drawable: common.Rectangle{}, Color: color.RGBA{120, 120, 120, 255}}
	render.Add(&ground.BasicEntity, &ground.RenderComponent, &ground.SpaceComponent)

	landerX := scene.opts.Width/2 - 24
	lander := &sprite{BasicEntity: ecs.NewBasic()}
	lander.RenderComponent = common.RenderComponent{Drawable: scene.assets.Lander(), Scale: engo.Point{X: 3, Y: 3}}
	lander.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: landerX, Y: viewport.AltitudeToY(initial.Altitude) - 33},
		Width:    48,
		Height:   33,
	}
	lander.SetZIndex(2)
	render.Add(&lander.BasicEntity, &lander.RenderComponent, &lander.SpaceComponent)

	flame := &sprite{BasicEntity: ecs.NewBasic()}
	flame.RenderComponent = common.RenderComponent{Drawable: scene.assets.Flame(), Scale: engo.Point{X: 3, Y: 3}, Hidden: true}
	flame.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: landerX + 12, Y: lander.Position.Y + lander.Height},
		Width:    24,
	}
	flame.SetZIndex(1)
	render.Add(&flame.BasicEntity, &flame.RenderComponent, &flame.SpaceComponent)

	hud := NewHUD(scene.assets.Font(), initial.Fuel)
	hud.Attach(render)

	var keyboard *KeyboardThrottle
	pilot := scene.opts.Autopilot
	if pilot == nil {
		keyboard = &KeyboardThrottle{}
		pilot = keyboard
	}

	scene.descent = NewDescentSystem(scene.ctx, scene.sim, pilot, keyboard, scene.opts.TickInterval, viewport)
	scene.descent.lander = lander
	scene.descent.flame = flame
	scene.descent.hud = hud
	scene.descent.onFinish = scene.opts.OnFinish
	world.AddSystem(scene.descent)

	if err := scene.sim.Start(scene.ctx); err != nil {
		scene.logger.Error(scene.ctx, "Failed to start simulation", err)
		engo.Exit()
		return
	}
	hud.Update(initial, 0)
	if !initial.Descending() {
		scene.descent.finish(engine.TerminationTouchdown)
	}
}

// Exit is called when the window closes. A run still in progress is
// finished as aborted so observers see an outcome.
func (scene *LanderScene) Exit() {
	if scene.descent == nil {
		return
	}
	if _, done := scene.descent.Finished(); !done {
		scene.descent.finish(engine.TerminationAborted)
	}
}

// Result returns the run result once the descent has ended.
func (scene *LanderScene) Result() (engine.Result, bool) {
	if scene.descent == nil {
		return engine.Result{}, false
	}
	return scene.descent.Finished()
}

// Run opens a window and flies the scene until it is closed.
func Run(scene *LanderScene, title string) {
	engo.Run(engo.RunOptions{
		Title:  title,
		Width:  int(scene.opts.Width),
		Height: int(scene.opts.Height),
	}, scene)
}
