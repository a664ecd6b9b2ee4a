// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Button names registered by RegisterButtons
const (
	ButtonBurn         = "burn"
	ButtonThrottleUp   = "throttleUp"
	ButtonThrottleDown = "throttleDown"
	ButtonCut          = "cut"
)

// ThrottleStep is the change per throttle up or down press, in percent.
const ThrottleStep = 10.0

// RegisterButtons binds the keyboard controls.
func RegisterButtons() {
	engo.Input.RegisterButton(ButtonBurn, engo.KeyW, engo.KeyArrowUp, engo.KeySpace)
	engo.Input.RegisterButton(ButtonThrottleUp, engo.KeyE, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonThrottleDown, engo.KeyQ, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonCut, engo.KeyX)
}

// Controls is one frame's worth of button state.
type Controls struct {
	Burn         bool // held
	ThrottleUp   bool // just pressed
	ThrottleDown bool // just pressed
	Cut          bool // just pressed
}

// ReadControls samples the registered buttons.
func ReadControls() Controls {
	return Controls{
		Burn:         engo.Input.Button(ButtonBurn).Down(),
		ThrottleUp:   engo.Input.Button(ButtonThrottleUp).JustPressed(),
		ThrottleDown: engo.Input.Button(ButtonThrottleDown).JustPressed(),
		Cut:          engo.Input.Button(ButtonCut).JustPressed(),
	}
}

// KeyboardThrottle turns keyboard controls into a throttle setting. It
// implements autopilot.Strategy so the scene can fly either.
type KeyboardThrottle struct {
	level float64
	burn  bool
}

// Apply folds one frame of controls into the throttle setting.
func (k *KeyboardThrottle) Apply(c Controls) {
	switch {
	case c.Cut:
		k.level = 0
	case c.ThrottleUp:
		k.level = validation.ClampThrust(k.level + ThrottleStep)
	case c.ThrottleDown:
		k.level = validation.ClampThrust(k.level - ThrottleStep)
	}
	k.burn = c.Burn
}

// Level returns the set throttle, ignoring a held burn key.
func (k *KeyboardThrottle) Level() float64 {
	return k.level
}

// Throttle returns full thrust while the burn key is held, otherwise the
// set level.
func (k *KeyboardThrottle) Throttle(physics.LanderState) float64 {
	if k.burn {
		return validation.MaxThrustPercent
	}
	return k.level
}
