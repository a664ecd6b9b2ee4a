// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-lander/pkg/engine"
	"github.com/opd-ai/go-lander/pkg/physics"
)

// TerminalOptions configures a Terminal.
type TerminalOptions struct {
	Color               bool
	SafeLandingSpeed    float64
	StopOnFuelExhausted bool
	GaugeWidth          int // altitude gauge cells; 0 hides the gauge
}

// Terminal is an engine.Sink printing the console game: a banner, a status
// block before every prompt, and the outcome.
type Terminal struct {
	out  io.Writer
	opts TerminalOptions

	title   lipgloss.Style
	label   lipgloss.Style
	warn    lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	dim     lipgloss.Style
	outcome lipgloss.Style

	initialAltitude float64
	last            physics.LanderState
}

// NewTerminal creates a terminal sink writing to out.
func NewTerminal(out io.Writer, opts TerminalOptions) *Terminal {
	if opts.SafeLandingSpeed <= 0 {
		opts.SafeLandingSpeed = engine.DefaultSafeLandingSpeed
	}

	r := lipgloss.NewRenderer(out)
	t := &Terminal{
		out:     out,
		opts:    opts,
		title:   r.NewStyle().Bold(true),
		label:   r.NewStyle(),
		warn:    r.NewStyle(),
		good:    r.NewStyle(),
		bad:     r.NewStyle(),
		dim:     r.NewStyle(),
		outcome: r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
	if opts.Color {
		t.title = t.title.Foreground(lipgloss.Color("86"))
		t.label = t.label.Foreground(lipgloss.Color("255"))
		t.warn = t.warn.Foreground(lipgloss.Color("220"))
		t.good = t.good.Foreground(lipgloss.Color("82"))
		t.bad = t.bad.Foreground(lipgloss.Color("196"))
		t.dim = t.dim.Foreground(lipgloss.Color("242"))
	}
	return t
}

// OnStart prints the banner and the first status block.
func (t *Terminal) OnStart(state physics.LanderState) {
	t.initialAltitude = state.Altitude
	t.last = state

	fmt.Fprintln(t.out, t.title.Render("Lunar Lander"))
	fmt.Fprintf(t.out, "Goal: Land with vertical speed of at most %g m/s without running out of fuel.\n\n",
		t.opts.SafeLandingSpeed)
	if state.Descending() {
		t.printStatus(state)
	}
}

// OnTick prints the next status block while the run continues.
func (t *Terminal) OnTick(report engine.TickReport) {
	t.last = report.State
	if !report.State.Descending() {
		return
	}
	if report.State.FuelExhausted() && t.opts.StopOnFuelExhausted {
		return
	}
	fmt.Fprintln(t.out)
	t.printStatus(report.State)
}

// OnRejected asks again, repeating the unchanged status.
func (t *Terminal) OnRejected(tick int, err error) {
	fmt.Fprintln(t.out, t.warn.Render("Invalid input. Try again."))
	t.printStatus(t.last)
}

// OnFinish prints why the run ended and the landing classification.
func (t *Terminal) OnFinish(result engine.Result) {
	switch result.Termination {
	case engine.TerminationFuelExhausted:
		fmt.Fprintf(t.out, "\n%s\n", t.warn.Render("Out of fuel!"))
	case engine.TerminationTickLimit:
		fmt.Fprintf(t.out, "\n%s\n", t.warn.Render(fmt.Sprintf("Tick limit reached after %d ticks.", result.Ticks)))
	case engine.TerminationAborted:
		fmt.Fprintf(t.out, "\n%s\n", t.warn.Render("Run aborted."))
	}

	lines := []string{
		"Impact!",
		fmt.Sprintf("Final velocity: %.2f m/s", result.Final.Velocity),
	}
	if result.Termination != engine.TerminationTouchdown {
		lines[0] = fmt.Sprintf("Stopped at %.2f m", result.Final.Altitude)
	}
	if result.Landing == engine.LandingSuccessful {
		lines = append(lines, t.good.Render("Successful landing!"))
	} else {
		lines = append(lines, t.bad.Render("Crash landing."))
	}
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.outcome.Render(strings.Join(lines, "\n")))
}

func (t *Terminal) printStatus(s physics.LanderState) {
	fmt.Fprintf(t.out, "%s %ds\n", t.label.Render("TIME:"), int(s.Time))
	fmt.Fprintf(t.out, "%s %.2f m\n", t.label.Render("ALTITUDE:"), s.Altitude)
	fmt.Fprintf(t.out, "%s %.2f m/s\n", t.label.Render("VELOCITY:"), s.Velocity)
	fmt.Fprintf(t.out, "%s %.2f kg\n", t.label.Render("FUEL:"), s.Fuel)
	if t.opts.GaugeWidth > 0 {
		fmt.Fprintln(t.out, t.dim.Render(AltitudeGauge(s.Altitude, t.initialAltitude, t.opts.GaugeWidth)))
	}
}

// AltitudeGauge draws altitude as a bar of width cells relative to top,
// with the lander marker at the current height: "|####^     |".
func AltitudeGauge(altitude, top float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if top > 0 {
		frac := math.Max(0, math.Min(altitude/top, 1))
		filled = int(math.Round(frac * float64(width-1)))
	}
	return "|" + strings.Repeat("#", filled) + "^" + strings.Repeat(" ", width-1-filled) + "|"
}
