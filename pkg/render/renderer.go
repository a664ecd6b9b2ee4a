// Package render provides the output sinks that show a run to a person:
// a styled console view and a null sink that only logs.
package render

import (
	"context"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/logging"
	"github.com/opd-ai/go-lander/pkg/physics"
)

// NullRenderer is an engine.Sink that draws nothing and logs every
// callback at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer. A nil logger uses the default
// structured logger.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// OnStart implements engine.Sink.
func (d *NullRenderer) OnStart(state physics.LanderState) {
	d.logger.Debug(context.Background(), "OnStart called",
		"altitude", state.Altitude,
		"fuel", state.Fuel,
	)
}

// OnTick implements engine.Sink.
func (d *NullRenderer) OnTick(report engine.TickReport) {
	d.logger.Debug(context.Background(), "OnTick called",
		"tick", report.Tick,
		"thrust", report.Thrust,
		"altitude", report.State.Altitude,
	)
}

// OnRejected implements engine.Sink.
func (d *NullRenderer) OnRejected(tick int, err error) {
	d.logger.Debug(context.Background(), "OnRejected called", "tick", tick, "reason", err.Error())
}

// OnFinish implements engine.Sink.
func (d *NullRenderer) OnFinish(result engine.Result) {
	d.logger.Debug(context.Background(), "OnFinish called",
		"termination", result.Termination.String(),
		"landing", result.Landing.String(),
	)
}
