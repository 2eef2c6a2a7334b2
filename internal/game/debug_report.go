package game

import (
	"fmt"
	"math"
	"strings"
)

// traceCapacity is how many per-tick samples each sentinel keeps (~10s at 60 Hz).
const traceCapacity = 600

// sentinelSample is one tick of a sentinel's observable state.
type sentinelSample struct {
	Tick       int
	State      SentinelState
	Pos        Vec2
	Facing     float64
	Reveal     float64
	HasTarget  bool
	Target     Vec2
	PlayerDist float64
}

// CompactString renders the sample on one line.
func (s sentinelSample) CompactString(label string) string {
	target := "-"
	if s.HasTarget {
		target = fmt.Sprintf("(%.0f,%.0f)", s.Target.X, s.Target.Y)
	}
	return fmt.Sprintf("T=%d %s st=%s pos=(%.0f,%.0f) face=%.2f rev=%.2f tgt=%s dP=%.0f",
		s.Tick, label, s.State, s.Pos.X, s.Pos.Y, s.Facing, s.Reveal, target, s.PlayerDist)
}

// sentinelTrace keeps a bounded per-sentinel history for debug reports.
type sentinelTrace struct {
	capacity int
	samples  map[Handle][]sentinelSample
}

func newSentinelTrace(capacity int) *sentinelTrace {
	return &sentinelTrace{capacity: capacity, samples: make(map[Handle][]sentinelSample)}
}

// record samples every live sentinel and forgets eliminated ones.
func (t *sentinelTrace) record(w *World) {
	var playerPos Vec2
	hasPlayer := false
	if p := w.Player(); p != nil && !p.dead {
		playerPos, hasPlayer = p.pos, true
	}
	live := make(map[Handle]bool)
	for _, s := range w.Sentinels() {
		live[s.handle] = true
		smp := sentinelSample{
			Tick:       w.Tick(),
			State:      s.state,
			Pos:        s.pos,
			Facing:     s.facing,
			Reveal:     s.reveal,
			PlayerDist: -1,
		}
		if s.lastHeard != nil {
			smp.HasTarget, smp.Target = true, *s.lastHeard
		}
		if hasPlayer {
			smp.PlayerDist = s.pos.Dist(playerPos)
		}
		buf := append(t.samples[s.handle], smp)
		if len(buf) > t.capacity {
			buf = buf[len(buf)-t.capacity:]
		}
		t.samples[s.handle] = buf
	}
	for h := range t.samples {
		if !live[h] {
			delete(t.samples, h)
		}
	}
}

// between returns the samples for h within [fromTick, toTick].
func (t *sentinelTrace) between(h Handle, fromTick, toTick int) []sentinelSample {
	var out []sentinelSample
	for _, s := range t.samples[h] {
		if s.Tick >= fromTick && s.Tick <= toTick {
			out = append(out, s)
		}
	}
	return out
}

func (g *Game) sentinelDebugReport(selected *Sentinel, lastTicks int) string {
	if selected == nil {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := g.world.Tick()
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- PulseSense debug report ---\n")
	fmt.Fprintf(&b, "run=%d tick_range=[%d..%d] ticks=%d\n", g.runs, fromTick, toTick, toTick-fromTick+1)
	fmt.Fprintf(&b, "selected=%s handle=%s\n\n", selected.label, selected.handle)
	writeSentinelTimeline(&b, selected.label, g.trace.between(selected.handle, fromTick, toTick))

	b.WriteString("log:\n")
	for _, e := range g.world.SimLog().FilterTickRange(fromTick, toTick) {
		if e.Label == selected.label || e.Category == "combat" || e.Category == "session" {
			b.WriteString("  ")
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func writeSentinelTimeline(b *strings.Builder, label string, snaps []sentinelSample) {
	if len(snaps) == 0 {
		b.WriteString("(no samples recorded yet)\n\n")
		return
	}
	sum := summarizeSamples(snaps)
	fmt.Fprintf(b, "summary: patrol=%d chase=%d search=%d return=%d windup=%d lunge=%d stunned=%d movedTicks=%d revealedTicks=%d\n",
		sum.ticks[SentinelPatrol], sum.ticks[SentinelChase], sum.ticks[SentinelSearch], sum.ticks[SentinelReturn],
		sum.ticks[SentinelLungeWindup], sum.ticks[SentinelLunge], sum.ticks[SentinelStunned],
		sum.movedTicks, sum.revealedTicks)
	fmt.Fprintf(b, "         dPlayer[min/avg/max]=%.0f/%.0f/%.0f\n", sum.minPlayer, sum.avgPlayer, sum.maxPlayer)

	if events := storyEvents(snaps); len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	b.WriteString("stages:\n")
	for i, st := range buildStages(snaps) {
		fmt.Fprintf(b, "  %02d) T=%d..%d (%dt) state:%s moved:%.0f\n",
			i+1, st.startTick, st.endTick, st.count, st.first.State, st.movedDistance)
		if st.count <= 3 {
			for _, ss := range snaps[st.startIdx : st.endIdx+1] {
				b.WriteString("      ")
				b.WriteString(ss.CompactString(label))
				b.WriteByte('\n')
			}
		} else {
			b.WriteString("      first: ")
			b.WriteString(st.first.CompactString(label))
			b.WriteByte('\n')
			b.WriteString("      last:  ")
			b.WriteString(st.last.CompactString(label))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
}

type sampleSummary struct {
	ticks         map[SentinelState]int
	movedTicks    int
	revealedTicks int
	minPlayer     float64
	avgPlayer     float64
	maxPlayer     float64
}

func summarizeSamples(snaps []sentinelSample) sampleSummary {
	res := sampleSummary{ticks: make(map[SentinelState]int), minPlayer: math.MaxFloat64}
	sum, n := 0.0, 0
	for i, s := range snaps {
		res.ticks[s.State]++
		if i > 0 && s.Pos.Dist(snaps[i-1].Pos) > 0.5 {
			res.movedTicks++
		}
		if s.Reveal > 0.01 {
			res.revealedTicks++
		}
		if s.PlayerDist >= 0 {
			res.minPlayer = math.Min(res.minPlayer, s.PlayerDist)
			res.maxPlayer = math.Max(res.maxPlayer, s.PlayerDist)
			sum += s.PlayerDist
			n++
		}
	}
	if n > 0 {
		res.avgPlayer = sum / float64(n)
	}
	if res.minPlayer == math.MaxFloat64 {
		res.minPlayer = 0
	}
	return res
}

type reportStage struct {
	startIdx      int
	endIdx        int
	startTick     int
	endTick       int
	count         int
	first         sentinelSample
	last          sentinelSample
	movedDistance float64
}

// buildStages splits the samples into runs of the same state.
func buildStages(snaps []sentinelSample) []reportStage {
	if len(snaps) == 0 {
		return nil
	}
	stages := make([]reportStage, 0, 8)
	start := 0
	for i := 1; i < len(snaps); i++ {
		if snaps[i].State == snaps[start].State {
			continue
		}
		stages = append(stages, makeStage(snaps, start, i-1))
		start = i
	}
	return append(stages, makeStage(snaps, start, len(snaps)-1))
}

func makeStage(snaps []sentinelSample, start, end int) reportStage {
	first := snaps[start]
	last := snaps[end]
	moved := 0.0
	for i := start + 1; i <= end; i++ {
		moved += snaps[i].Pos.Dist(snaps[i-1].Pos)
	}
	return reportStage{
		startIdx:      start,
		endIdx:        end,
		startTick:     first.Tick,
		endTick:       last.Tick,
		count:         end - start + 1,
		first:         first,
		last:          last,
		movedDistance: moved,
	}
}

func storyEvents(snaps []sentinelSample) []string {
	if len(snaps) == 0 {
		return nil
	}
	var out []string
	prev := snaps[0]
	for i := 1; i < len(snaps); i++ {
		cur := snaps[i]
		if cur.State != prev.State {
			out = append(out, fmt.Sprintf("T=%d state %s -> %s", cur.Tick, prev.State, cur.State))
		}
		if cur.HasTarget && (!prev.HasTarget || cur.Target != prev.Target) {
			out = append(out, fmt.Sprintf("T=%d heard (%.0f,%.0f)", cur.Tick, cur.Target.X, cur.Target.Y))
		}
		if cur.Reveal > prev.Reveal+0.5 {
			out = append(out, fmt.Sprintf("T=%d revealed", cur.Tick))
		}
		prev = cur
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}
