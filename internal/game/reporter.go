package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60 Hz).
const reportWindowTicks = 600

// SentinelReport captures a single sentinel's state.
type SentinelReport struct {
	Label      string
	State      SentinelState
	Pos        Vec2
	Visibility float64
	HasTarget  bool
}

// SimReport is a full snapshot of the simulation at one tick.
type SimReport struct {
	Tick int

	States map[SentinelState]int

	Stamina    float64
	Exhausted  bool
	Tier       MoveTier
	PlayerDead bool

	LivePulses   int
	LitWalls     int // walls with a visible highlight
	VisibleEnemy int // sentinels a renderer would currently show

	Sentinels []SentinelReport // verbose only
}

// SimReporter collects periodic reports from a world and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
	verbose     bool
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int, verbose bool) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Collect gathers a snapshot from the current world state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(w *World) {
	report := SimReport{
		Tick:       w.Tick(),
		States:     make(map[SentinelState]int),
		LivePulses: w.Pulses().Len(),
	}
	if p := w.Player(); p != nil {
		report.Stamina = p.stamina
		report.Exhausted = p.exhausted
		report.Tier = p.tier
		report.PlayerDead = p.dead
	}
	for _, wl := range w.Walls() {
		if wl.reveal > 0.01 {
			report.LitWalls++
		}
	}
	for _, s := range w.Sentinels() {
		report.States[s.state]++
		vis := s.Visibility()
		if vis > 0.01 {
			report.VisibleEnemy++
		}
		if r.verbose {
			report.Sentinels = append(report.Sentinels, SentinelReport{
				Label:      s.label,
				State:      s.state,
				Pos:        s.pos,
				Visibility: vis,
				HasTarget:  s.lastHeard != nil,
			})
		}
	}
	r.history = append(r.history, report)
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowSummary returns an aggregated summary over the recent time window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      window[0].Tick,
		SampleCount: len(window),
		StatePct:    make(map[SentinelState]float64),
		TierPct:     make(map[MoveTier]float64),
	}

	stateTotal := make(map[SentinelState]float64)
	var sentinelSamples float64
	for _, rpt := range window {
		for st, c := range rpt.States {
			stateTotal[st] += float64(c)
			sentinelSamples += float64(c)
		}
		wr.TierPct[rpt.Tier] += 100 / n
		wr.AvgStamina += rpt.Stamina
		if rpt.Exhausted {
			wr.ExhaustedPct += 100 / n
		}
		wr.AvgLivePulses += float64(rpt.LivePulses)
		wr.AvgLitWalls += float64(rpt.LitWalls)
		wr.AvgVisible += float64(rpt.VisibleEnemy)
	}
	if sentinelSamples > 0 {
		for st, c := range stateTotal {
			wr.StatePct[st] = c / sentinelSamples * 100
		}
	}
	wr.AvgStamina /= n
	wr.AvgLivePulses /= n
	wr.AvgLitWalls /= n
	wr.AvgVisible /= n
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Distributions as percentages (0-100).
	StatePct     map[SentinelState]float64
	TierPct      map[MoveTier]float64
	ExhaustedPct float64

	// Averages over the window.
	AvgStamina    float64
	AvgLivePulses float64
	AvgLitWalls   float64
	AvgVisible    float64
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Sentinel State Distribution ---\n")
	for st := SentinelPatrol; st <= SentinelStunned; st++ {
		if pct, ok := wr.StatePct[st]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-14s %5.1f%%\n", st, pct)
		}
	}

	sb.WriteString("\n--- Player Movement ---\n")
	for t := TierIdle; t <= TierDash; t++ {
		if pct, ok := wr.TierPct[t]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-14s %5.1f%%\n", t, pct)
		}
	}
	fmt.Fprintf(&sb, "  stamina avg=%.1f  exhausted=%.1f%%\n", wr.AvgStamina, wr.ExhaustedPct)

	sb.WriteString("\n--- Sensing ---\n")
	fmt.Fprintf(&sb, "  live pulses=%.1f  lit walls=%.1f  visible sentinels=%.2f\n",
		wr.AvgLivePulses, wr.AvgLitWalls, wr.AvgVisible)
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	fmt.Fprintf(&sb, "Player: stamina=%.1f exhausted=%t tier=%s dead=%t\n",
		rpt.Stamina, rpt.Exhausted, rpt.Tier, rpt.PlayerDead)
	fmt.Fprintf(&sb, "Pulses=%d lit_walls=%d visible=%d\n", rpt.LivePulses, rpt.LitWalls, rpt.VisibleEnemy)
	sb.WriteString("States: ")
	for st := SentinelPatrol; st <= SentinelStunned; st++ {
		if c := rpt.States[st]; c > 0 {
			fmt.Fprintf(&sb, "%s=%d ", st, c)
		}
	}
	sb.WriteByte('\n')
	for _, s := range rpt.Sentinels {
		fmt.Fprintf(&sb, "  %s %-12s (%.0f,%.0f) vis=%.2f target=%t\n",
			s.Label, s.State, s.Pos.X, s.Pos.Y, s.Visibility, s.HasTarget)
	}
	return sb.String()
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// StateProportions computes the fraction of live sentinels in each state.
func StateProportions(sentinels []*Sentinel) map[SentinelState]float64 {
	counts := make(map[SentinelState]int)
	for _, s := range sentinels {
		counts[s.state]++
	}
	props := make(map[SentinelState]float64, len(counts))
	if len(sentinels) > 0 {
		for st, c := range counts {
			props[st] = float64(c) / float64(len(sentinels))
		}
	}
	return props
}
