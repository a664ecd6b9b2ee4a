// Package metrics exports the state of a run as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Collector is an engine.Sink that mirrors every tick into gauges and
// counters on its own registry.
type Collector struct {
	engine.BaseSink

	registry *prometheus.Registry

	altitude   prometheus.Gauge
	velocity   prometheus.Gauge
	fuel       prometheus.Gauge
	simTime    prometheus.Gauge
	thrust     prometheus.Gauge
	netAccel   prometheus.Gauge
	ticks      prometheus.Counter
	rejections *prometheus.CounterVec
	runs       *prometheus.CounterVec
	touchdown  prometheus.Histogram
}

// NewCollector creates a collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_altitude_meters",
			Help: "Altitude above the landing surface.",
		}),
		velocity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_velocity_mps",
			Help: "Vertical velocity, negative is downward.",
		}),
		fuel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_fuel_kg",
			Help: "Remaining fuel.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_sim_time_seconds",
			Help: "Simulated time elapsed.",
		}),
		thrust: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_thrust_percent",
			Help: "Throttle commanded on the last tick.",
		}),
		netAccel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lander_net_acceleration_mps2",
			Help: "Gravity plus thrust acceleration on the last tick.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lander_ticks_total",
			Help: "Completed simulation ticks.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lander_input_rejections_total",
			Help: "Operator inputs refused without a tick.",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lander_runs_total",
			Help: "Finished runs by termination and landing classification.",
		}, []string{"termination", "landing"}),
		touchdown: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lander_final_speed_mps",
			Help:    "Absolute vertical speed at the end of each run.",
			Buckets: []float64{1, 2, 3, 4, 5, 7.5, 10, 20, 40, 80},
		}),
	}

	c.registry.MustRegister(
		c.altitude, c.velocity, c.fuel, c.simTime, c.thrust, c.netAccel,
		c.ticks, c.rejections, c.runs, c.touchdown,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OnStart publishes the initial conditions.
func (c *Collector) OnStart(state physics.LanderState) {
	c.setState(state)
	c.thrust.Set(0)
	c.netAccel.Set(state.Gravity)
}

// OnTick publishes the state after one tick.
func (c *Collector) OnTick(report engine.TickReport) {
	c.setState(report.State)
	c.thrust.Set(report.Thrust)
	c.netAccel.Set(report.State.Gravity + report.State.ThrustAcceleration(report.Thrust))
	c.ticks.Inc()
}

// OnRejected counts a refused input.
func (c *Collector) OnRejected(tick int, err error) {
	kind := "other"
	if errors.Is(err, validation.ErrInvalidThrust) {
		kind = "invalid_thrust"
	}
	c.rejections.WithLabelValues(kind).Inc()
}

// OnFinish counts the run outcome.
func (c *Collector) OnFinish(result engine.Result) {
	c.setState(result.Final)
	c.runs.WithLabelValues(result.Termination.String(), result.Landing.String()).Inc()
	speed := result.Final.Velocity
	if speed < 0 {
		speed = -speed
	}
	c.touchdown.Observe(speed)
}

func (c *Collector) setState(s physics.LanderState) {
	c.altitude.Set(s.Altitude)
	c.velocity.Set(s.Velocity)
	c.fuel.Set(s.Fuel)
	c.simTime.Set(s.Time)
}
