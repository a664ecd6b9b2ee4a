// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Renderer names accepted by DisplayConfig.Renderer
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
	RendererNone     = "none"
)

// SimulationConfig contains configuration for a lander simulation run
type SimulationConfig struct {
	Lander    LanderConfig    `json:"lander"`
	Run       RunConfig       `json:"run"`
	Autopilot AutopilotConfig `json:"autopilot"`
	Input     InputConfig     `json:"input"`
	Metrics   MetricsConfig   `json:"metrics"`
	Display   DisplayConfig   `json:"display"`
}

// LanderConfig contains the initial conditions and vehicle constants
type LanderConfig struct {
	InitialAltitude float64 `json:"initialAltitude"`
	InitialVelocity float64 `json:"initialVelocity"`
	InitialFuel     float64 `json:"initialFuel"`
	Gravity         float64 `json:"gravity"`
	MaxThrust       float64 `json:"maxThrust"`
	FuelBurnRate    float64 `json:"fuelBurnRate"`
}

// RunConfig contains driver loop settings
type RunConfig struct {
	TimeStep            float64 `json:"timeStep"`
	MaxTicks            int     `json:"maxTicks"` // 0 means unlimited
	StopOnFuelExhausted bool    `json:"stopOnFuelExhausted"`
	SafeLandingSpeed    float64 `json:"safeLandingSpeed"`
}

// AutopilotConfig selects a throttle policy. An empty strategy means the
// operator flies manually.
type AutopilotConfig struct {
	Strategy string  `json:"strategy"`
	Gain     float64 `json:"gain"` // proportional controller gain
}

// InputConfig contains settings for the guarded input source
type InputConfig struct {
	MaxConsecutiveFailures int     `json:"maxConsecutiveFailures"` // 0 re-prompts forever
	ResetTimeoutSeconds    float64 `json:"resetTimeoutSeconds"`
}

// MetricsConfig contains settings for the Prometheus status listener
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

// DisplayConfig contains output settings
type DisplayConfig struct {
	Renderer string `json:"renderer"`
	Color    bool   `json:"color"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// FieldError reports an invalid configuration value
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	if config == nil {
		return fmt.Errorf("cannot save nil config")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the reference lunar descent: 1000 m, 500 kg of fuel,
// one second ticks, landing safe at 5 m/s or less.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Lander: LanderConfig{
			InitialAltitude: physics.DefaultAltitude,
			InitialVelocity: physics.DefaultVelocity,
			InitialFuel:     physics.DefaultFuel,
			Gravity:         physics.DefaultGravity,
			MaxThrust:       physics.DefaultMaxThrust,
			FuelBurnRate:    physics.DefaultFuelBurnRate,
		},
		Run: RunConfig{
			TimeStep:            physics.DefaultTimeStep,
			MaxTicks:            1000,
			StopOnFuelExhausted: true,
			SafeLandingSpeed:    5.0,
		},
		Autopilot: AutopilotConfig{
			Strategy: "",
			Gain:     20,
		},
		Input: InputConfig{
			MaxConsecutiveFailures: 0,
			ResetTimeoutSeconds:    30,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9464",
		},
		Display: DisplayConfig{
			Renderer: RendererTerminal,
			Color:    true,
			Width:    480,
			Height:   720,
		},
	}
}

// NewState builds a lander state from the configured initial conditions.
func (c LanderConfig) NewState() *physics.LanderState {
	return &physics.LanderState{
		Altitude:     c.InitialAltitude,
		Velocity:     c.InitialVelocity,
		Fuel:         c.InitialFuel,
		Gravity:      c.Gravity,
		MaxThrust:    c.MaxThrust,
		FuelBurnRate: c.FuelBurnRate,
	}
}

// Validate checks the configuration for values the simulation cannot use.
func (c *SimulationConfig) Validate() error {
	finite := []struct {
		field string
		value float64
	}{
		{"lander.initialAltitude", c.Lander.InitialAltitude},
		{"lander.initialVelocity", c.Lander.InitialVelocity},
		{"lander.initialFuel", c.Lander.InitialFuel},
		{"lander.gravity", c.Lander.Gravity},
		{"lander.maxThrust", c.Lander.MaxThrust},
		{"lander.fuelBurnRate", c.Lander.FuelBurnRate},
		{"run.safeLandingSpeed", c.Run.SafeLandingSpeed},
		{"autopilot.gain", c.Autopilot.Gain},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &FieldError{Field: f.field, Message: "must be finite"}
		}
	}

	if c.Lander.InitialFuel < 0 {
		return &FieldError{Field: "lander.initialFuel", Message: "cannot be negative"}
	}
	if c.Lander.Gravity >= 0 {
		return &FieldError{Field: "lander.gravity", Message: "must point downward (negative)"}
	}
	if c.Lander.MaxThrust < 0 {
		return &FieldError{Field: "lander.maxThrust", Message: "cannot be negative"}
	}
	if c.Lander.FuelBurnRate < 0 {
		return &FieldError{Field: "lander.fuelBurnRate", Message: "cannot be negative"}
	}
	if err := validation.ValidateTimeStep(c.Run.TimeStep); err != nil {
		return &FieldError{Field: "run.timeStep", Message: err.Error()}
	}
	if c.Run.MaxTicks < 0 {
		return &FieldError{Field: "run.maxTicks", Message: "cannot be negative"}
	}
	if c.Run.SafeLandingSpeed < 0 {
		return &FieldError{Field: "run.safeLandingSpeed", Message: "cannot be negative"}
	}
	if c.Input.MaxConsecutiveFailures < 0 {
		return &FieldError{Field: "input.maxConsecutiveFailures", Message: "cannot be negative"}
	}
	if c.Input.ResetTimeoutSeconds < 0 {
		return &FieldError{Field: "input.resetTimeoutSeconds", Message: "cannot be negative"}
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return &FieldError{Field: "metrics.address", Message: "required when metrics are enabled"}
	}

	switch c.Display.Renderer {
	case RendererTerminal, RendererEngo, RendererNone:
	default:
		return &FieldError{Field: "display.renderer", Message: fmt.Sprintf("unknown renderer %q", c.Display.Renderer)}
	}
	if c.Display.Renderer == RendererEngo && (c.Display.Width <= 0 || c.Display.Height <= 0) {
		return &FieldError{Field: "display.width", Message: "window size must be positive"}
	}

	return nil
}
