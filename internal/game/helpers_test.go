package game

import (
	"math"
	"testing"
)

// probe is a counting stand-in registered under an arbitrary kind. It only
// works with code paths that go through Index.Query, never the typed getters.
type probe struct {
	h       Handle
	kind    Kind
	pos     Vec2
	reveals int
	heard   []Vec2
}

func (p *probe) Handle() Handle { return p.h }
func (p *probe) Kind() Kind { return p.kind }
func (p *probe) Pos() Vec2 { return p.pos }
func (p *probe) Reveal() { p.reveals++ }
func (p *probe) Hear(v Vec2) { p.heard = append(p.heard, v) }

func addProbe(w *World, k Kind, pos Vec2) *probe {
	p := &probe{h: w.registry.Alloc(), kind: k, pos: pos}
	w.registry.Bind(p)
	w.index.Insert(p)
	return p
}

// emptyWorld is a 1280x720 world whose player stands far out of the way in
// the bottom-right corner.
func emptyWorld() *World {
	return NewWorld(Level{Bounds: Rect{W: 1280, H: 720}, Spawn: V(1260, 700)})
}

// stepPulses advances only the pulse engine until every wavefront is gone.
func stepPulses(t *testing.T, w *World, dt float64, maxSteps int) int {
	t.Helper()
	for i := 1; i <= maxSteps; i++ {
		w.pulses.Step(w, dt)
		if w.pulses.Len() == 0 {
			return i
		}
	}
	t.Fatalf("pulses still live after %d steps", maxSteps)
	return -1
}

// checkStaminaBounds fails when the player's stamina left [0, 100].
func checkStaminaBounds(t *testing.T, p *Player, step int) {
	t.Helper()
	if p.stamina < 0 || p.stamina > staminaMax {
		t.Fatalf("step %d: stamina %.4f outside [0,%v]", step, p.stamina, staminaMax)
	}
}

// checkSentinelSpeeds fails when a sentinel's speed disagrees with its state.
func checkSentinelSpeeds(t *testing.T, w *World, step int) {
	t.Helper()
	for _, s := range w.Sentinels() {
		if (s.speed == 0) != (s.state == SentinelStunned) {
			t.Fatalf("step %d: %s speed=%.0f in state %s", step, s.label, s.speed, s.state)
		}
	}
}

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }
