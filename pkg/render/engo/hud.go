// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/physics"
)

// HUD colors
var (
	hudColor     = color.RGBA{255, 255, 255, 255}
	warnColor    = color.RGBA{255, 220, 0, 255}
	successColor = color.RGBA{80, 255, 80, 255}
	crashColor   = color.RGBA{255, 60, 60, 255}
	gaugeBack    = color.RGBA{60, 60, 60, 255}
	fuelColor    = color.RGBA{80, 160, 255, 255}
)

// hudEntity is a text or rectangle drawn over the scene.
type hudEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// HUD shows telemetry text, a fuel bar and the outcome banner.
type HUD struct {
	font        *common.Font
	initialFuel float64

	status  *hudEntity
	fuelBar *hudEntity
	banner  *hudEntity
}

// NewHUD creates a HUD; call Attach to add its entities to a world.
func NewHUD(font *common.Font, initialFuel float64) *HUD {
	return &HUD{font: font, initialFuel: initialFuel}
}

// Attach creates the HUD entities and adds them to rs.
func (h *HUD) Attach(rs *common.RenderSystem) {
	h.status = &hudEntity{BasicEntity: ecs.NewBasic()}
	h.status.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 10}}
	h.status.RenderComponent = common.RenderComponent{Color: hudColor}
	h.status.SetZIndex(10)
	h.status.SetShader(common.HUDShader)

	back := &hudEntity{BasicEntity: ecs.NewBasic()}
	back.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 110}, Width: 200, Height: 12}
	back.RenderComponent = common.RenderComponent{Drawable: common.Rectangle{}, Color: gaugeBack}
	back.SetZIndex(9)
	back.SetShader(common.HUDShader)

	h.fuelBar = &hudEntity{BasicEntity: ecs.NewBasic()}
	h.fuelBar.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 110}, Width: 200, Height: 12}
	h.fuelBar.RenderComponent = common.RenderComponent{Drawable: common.Rectangle{}, Color: fuelColor}
	h.fuelBar.SetZIndex(10)
	h.fuelBar.SetShader(common.HUDShader)

	h.banner = &hudEntity{BasicEntity: ecs.NewBasic()}
	h.banner.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 140}}
	h.banner.RenderComponent = common.RenderComponent{Color: hudColor, Hidden: true}
	h.banner.SetZIndex(10)
	h.banner.SetShader(common.HUDShader)

	for _, e := range []*hudEntity{h.status, back, h.fuelBar, h.banner} {
		rs.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	}
}

// Update refreshes the HUD from the current state.
func (h *HUD) Update(state physics.LanderState, thrust float64) {
	if h.status == nil {
		return
	}
	h.status.Drawable = common.Text{Font: h.font, Text: StatusText(state, thrust), LineSpacing: 0.25}
	h.fuelBar.Width = 200 * FuelFraction(state.Fuel, h.initialFuel)
	if state.FuelExhausted() {
		h.status.Color = warnColor
	}
}

// ShowOutcome displays the result banner.
func (h *HUD) ShowOutcome(result engine.Result) {
	if h.banner == nil {
		return
	}
	text, c := OutcomeText(result)
	h.banner.Drawable = common.Text{Font: h.font, Text: text, LineSpacing: 0.25}
	h.banner.Color = c
	h.banner.Hidden = false
}

// StatusText formats the telemetry block shown at the top left.
func StatusText(s physics.LanderState, thrust float64) string {
	return fmt.Sprintf("TIME: %ds\nALTITUDE: %.2f m\nVELOCITY: %.2f m/s\nFUEL: %.2f kg\nTHRUST: %.0f%%",
		int(s.Time), s.Altitude, s.Velocity, s.Fuel, thrust)
}

// OutcomeText returns the banner text and color for a finished run.
func OutcomeText(r engine.Result) (string, color.Color) {
	headline := "Impact!"
	switch r.Termination {
	case engine.TerminationFuelExhausted:
		headline = "Out of fuel!"
	case engine.TerminationTickLimit:
		headline = "Tick limit reached"
	case engine.TerminationAborted:
		headline = "Run aborted"
	}

	verdict, c := "Crash landing.", color.Color(crashColor)
	if r.Landing == engine.LandingSuccessful {
		verdict, c = "Successful landing!", successColor
	}
	return fmt.Sprintf("%s\nFinal velocity: %.2f m/s\n%s", headline, r.Final.Velocity, verdict), c
}

// FuelFraction returns fuel/initial clamped to [0, 1].
func FuelFraction(fuel, initial float64) float32 {
	if initial <= 0 {
		return 0
	}
	f := fuel / initial
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return float32(f)
}
