// pkg/config/env.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvInitialAltitude = "LANDER_INITIAL_ALTITUDE"
	EnvInitialVelocity = "LANDER_INITIAL_VELOCITY"
	EnvInitialFuel     = "LANDER_INITIAL_FUEL"
	EnvTimeStep        = "LANDER_TIME_STEP"
	EnvMaxTicks        = "LANDER_MAX_TICKS"
	EnvStopOnEmpty     = "LANDER_STOP_ON_EMPTY"
	EnvSafeSpeed       = "LANDER_SAFE_SPEED"
	EnvAutopilot       = "LANDER_AUTOPILOT"
	EnvAutopilotGain   = "LANDER_AUTOPILOT_GAIN"
	EnvInputMaxFails   = "LANDER_INPUT_MAX_FAILURES"
	EnvMetricsAddr     = "LANDER_METRICS_ADDR"
	EnvRenderer        = "LANDER_RENDERER"
	EnvColor           = "LANDER_COLOR"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Files that do not exist are skipped and variables already
// set in the environment win. With no paths it tries ".env".
func LoadDotEnv(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	return loaded, nil
}

// ApplyEnvironmentOverrides replaces configuration values with any LANDER_*
// variables that are set, then validates the result.
func ApplyEnvironmentOverrides(config *SimulationConfig) error {
	if config == nil {
		return fmt.Errorf("cannot apply overrides to nil config")
	}

	var err error
	if config.Lander.InitialAltitude, err = getEnvFloat(EnvInitialAltitude, config.Lander.InitialAltitude); err != nil {
		return err
	}
	if config.Lander.InitialVelocity, err = getEnvFloat(EnvInitialVelocity, config.Lander.InitialVelocity); err != nil {
		return err
	}
	if config.Lander.InitialFuel, err = getEnvFloat(EnvInitialFuel, config.Lander.InitialFuel); err != nil {
		return err
	}
	if config.Run.TimeStep, err = getEnvFloat(EnvTimeStep, config.Run.TimeStep); err != nil {
		return err
	}
	if config.Run.MaxTicks, err = getEnvInt(EnvMaxTicks, config.Run.MaxTicks); err != nil {
		return err
	}
	if config.Run.StopOnFuelExhausted, err = getEnvBool(EnvStopOnEmpty, config.Run.StopOnFuelExhausted); err != nil {
		return err
	}
	if config.Run.SafeLandingSpeed, err = getEnvFloat(EnvSafeSpeed, config.Run.SafeLandingSpeed); err != nil {
		return err
	}
	config.Autopilot.Strategy = getEnvString(EnvAutopilot, config.Autopilot.Strategy)
	if config.Autopilot.Gain, err = getEnvFloat(EnvAutopilotGain, config.Autopilot.Gain); err != nil {
		return err
	}
	if config.Input.MaxConsecutiveFailures, err = getEnvInt(EnvInputMaxFails, config.Input.MaxConsecutiveFailures); err != nil {
		return err
	}
	if addr := getEnvString(EnvMetricsAddr, ""); addr != "" {
		config.Metrics.Enabled = true
		config.Metrics.Address = addr
	}
	config.Display.Renderer = getEnvString(EnvRenderer, config.Display.Renderer)
	if config.Display.Color, err = getEnvBool(EnvColor, config.Display.Color); err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("environment configuration invalid: %w", err)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := getEnvString(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnvString(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := getEnvString(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}
