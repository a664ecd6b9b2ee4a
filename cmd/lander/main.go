// cmd/lander/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-lander/pkg/autopilot"
	"github.com/opd-ai/go-lander/pkg/config"
	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/health"
	"github.com/opd-ai/go-lander/pkg/input"
	"github.com/opd-ai/go-lander/pkg/logging"
	"github.com/opd-ai/go-lander/pkg/metrics"
	"github.com/opd-ai/go-lander/pkg/render"
	engorender "github.com/opd-ai/go-lander/pkg/render/engo"
	"github.com/opd-ai/go-lander/pkg/status"
	"github.com/opd-ai/go-lander/pkg/telemetry"
)

// Exit codes
const (
	exitLanded = 0
	exitError  = 1
	exitCrash  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "lander.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	strategy := flag.String("autopilot", "", "Autopilot strategy (empty for manual control)")
	search := flag.Bool("search", false, "Try every autopilot strategy until one lands safely")
	script := flag.String("script", "", "Comma separated thrust values to replay instead of prompting")
	renderer := flag.String("renderer", "", "Renderer: 'terminal', 'engo' or 'none' (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Serve /metrics, /health, /ready and /state on this address")
	table := flag.Bool("table", false, "Print the trajectory table after the run")
	inputLimit := flag.Int("input-limit", -1, "End a console run after this many consecutive rejected inputs (0 asks forever; default from config)")
	csvPath := flag.String("csv", "", "Write the trajectory as CSV to this file")
	width := flag.Int("width", 0, "Window width (engo only)")
	height := flag.Int("height", 0, "Window height (engo only)")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			return exitError
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return exitLanded
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		return exitError
	}

	// Flags win over the file and the environment.
	if *strategy != "" {
		cfg.Autopilot.Strategy = *strategy
	}
	if *renderer != "" {
		cfg.Display.Renderer = *renderer
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = *metricsAddr
	}
	if *inputLimit >= 0 {
		cfg.Input.MaxConsecutiveFailures = *inputLimit
	}
	if *width > 0 {
		cfg.Display.Width = *width
	}
	if *height > 0 {
		cfg.Display.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, "")

	if *search {
		return runSearch(ctx, logger, cfg)
	}

	recorder := telemetry.NewRecorder()
	opts := []engine.Option{engine.WithLogger(logger), engine.WithSink(recorder)}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		opts = append(opts, engine.WithSink(collector))
	}

	switch cfg.Display.Renderer {
	case config.RendererTerminal:
		opts = append(opts, engine.WithSink(render.NewTerminal(os.Stdout, render.TerminalOptions{
			Color:               cfg.Display.Color,
			SafeLandingSpeed:    cfg.Run.SafeLandingSpeed,
			StopOnFuelExhausted: cfg.Run.StopOnFuelExhausted,
			GaugeWidth:          40,
		})))
	case config.RendererNone:
		opts = append(opts, engine.WithSink(render.NewNullRenderer(logger)))
	}

	sim := engine.NewSimulation(cfg, opts...)

	engoMode := cfg.Display.Renderer == config.RendererEngo

	var src engine.InputSource
	var guarded *input.Guarded
	if !engoMode {
		src, err = buildInput(cfg, *script, logger)
		if err != nil {
			logger.Error(ctx, "Invalid input configuration", err)
			return exitError
		}
		guarded, _ = src.(*input.Guarded)
	}

	if cfg.Metrics.Enabled {
		srv := startStatusServer(ctx, logger, cfg, sim, collector, guarded)
		if srv == nil {
			return exitError
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "Status server shutdown failed", err)
			}
		}()
	}

	var result engine.Result
	if engoMode {
		result, err = runEngo(ctx, logger, cfg, sim, *script != "")
	} else {
		result, err = sim.Run(ctx, src)
	}

	if *table {
		if werr := recorder.WriteTable(os.Stdout); werr != nil {
			logger.Error(ctx, "Failed to write trajectory table", werr)
		}
	}
	if *csvPath != "" {
		if werr := writeCSV(recorder, *csvPath); werr != nil {
			logger.Error(ctx, "Failed to write trajectory CSV", werr, "path", *csvPath)
		}
	}
	if summary, serr := telemetry.Summarize(recorder.Samples()); serr == nil {
		logger.Info(ctx, "Flight summary",
			"ticks", summary.Ticks,
			"duration", summary.Duration,
			"fuel_used", summary.FuelUsed,
			"peak_descent", summary.PeakDescent,
			"max_thrust", summary.MaxThrust,
			"burn_ticks", summary.BurnTicks,
		)
	}

	if err != nil {
		var runErr *engine.RunError
		if errors.As(err, &runErr) && errors.Is(err, context.Canceled) {
			logger.Info(ctx, "Interrupted", "tick", runErr.Tick)
		} else {
			logger.Error(ctx, "Simulation failed", err)
		}
		return exitError
	}
	if !result.Landed() {
		return exitCrash
	}
	return exitLanded
}

// loadConfig reads .env files, the configuration file (defaults when it is
// missing) and the LANDER_* environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.SimulationConfig, error) {
	if loaded, err := config.LoadDotEnv(); err != nil {
		logger.Error(ctx, "Failed to load .env", err)
		return nil, err
	} else if len(loaded) > 0 {
		logger.Info(ctx, "Loaded environment files", "files", loaded)
	}

	var cfg *config.SimulationConfig
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", path,
			)
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		return nil, err
	}
	return cfg, nil
}

// buildInput picks the throttle source: a script, an autopilot, or the
// console behind a circuit breaker.
func buildInput(cfg *config.SimulationConfig, script string, logger *logging.Logger) (engine.InputSource, error) {
	if script != "" {
		s, err := input.ParseScript(script)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if cfg.Autopilot.Strategy != "" {
		strategy, err := autopilot.Lookup(cfg.Autopilot.Strategy, cfg.Autopilot.Gain)
		if err != nil {
			return nil, err
		}
		return engine.AutopilotInput{Strategy: strategy}, nil
	}
	return input.NewGuarded(input.NewConsole(os.Stdin, os.Stdout), cfg.Input, logger), nil
}

func startStatusServer(ctx context.Context, logger *logging.Logger, cfg *config.SimulationConfig, sim *engine.Simulation, collector *metrics.Collector, guarded *input.Guarded) *status.Server {
	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewSimulationHealthCheck(sim.Snapshot))
	checker.AddCheck(health.NewMemoryHealthCheck(500, nil))
	if guarded != nil {
		checker.AddCheck(health.NewInputHealthCheck(func() bool {
			return guarded.Disabled()
		}))
	}

	srv := status.NewServer(sim, checker, collector.Handler(), logger)
	if err := srv.Start(ctx, cfg.Metrics.Address); err != nil {
		logger.Error(ctx, "Failed to start status server", err,
			"address", cfg.Metrics.Address,
		)
		return nil
	}
	return srv
}

// runSearch flies every built-in autopilot until one lands safely.
func runSearch(ctx context.Context, logger *logging.Logger, cfg *config.SimulationConfig) int {
	attempts, err := engine.FirstSuccessful(ctx, cfg, autopilot.Builtins(cfg.Autopilot.Gain), engine.WithLogger(logger))
	for _, a := range attempts {
		fmt.Printf("%-14s %-14s %-10s %4d ticks  v=%.2f m/s  fuel=%.2f kg\n",
			a.Name, a.Result.Termination, a.Result.Landing, a.Result.Ticks,
			a.Result.Final.Velocity, a.Result.Final.Fuel)
	}
	switch {
	case errors.Is(err, engine.ErrNoSuccessfulStrategy):
		fmt.Println("No strategy landed safely.")
		return exitCrash
	case err != nil:
		logger.Error(ctx, "Strategy search failed", err)
		return exitError
	}
	fmt.Printf("First successful strategy: %s\n", attempts[len(attempts)-1].Name)
	return exitLanded
}

// runEngo opens the graphical front end. The window owns the main thread
// until it is closed.
func runEngo(ctx context.Context, logger *logging.Logger, cfg *config.SimulationConfig, sim *engine.Simulation, scripted bool) (engine.Result, error) {
	var pilot autopilot.Strategy
	if cfg.Autopilot.Strategy != "" {
		strategy, err := autopilot.Lookup(cfg.Autopilot.Strategy, cfg.Autopilot.Gain)
		if err != nil {
			return engine.Result{}, err
		}
		pilot = strategy
	}
	if scripted {
		logger.Warn(ctx, "Scripts are not supported by the engo renderer; using keyboard control")
	}

	scene := engorender.NewLanderScene(ctx, sim, engorender.SceneOptions{
		Width:        float32(cfg.Display.Width),
		Height:       float32(cfg.Display.Height),
		TickInterval: 0.25,
		Autopilot:    pilot,
	}, logger)
	engorender.Run(scene, "Lunar Lander")

	result, ok := scene.Result()
	if !ok {
		return result, errors.New("window closed before the run started")
	}
	return result, nil
}

func writeCSV(recorder *telemetry.Recorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := recorder.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
