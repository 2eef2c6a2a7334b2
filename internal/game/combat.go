package game

import "fmt"

// CombatResolver evaluates contact, lunge, backstab and cone outcomes once per
// step, after movement and pulse propagation, so every decision sees positions
// already updated this step.
type CombatResolver struct{}

// NewCombatResolver creates a resolver.
func NewCombatResolver() *CombatResolver {
	return &CombatResolver{}
}

// Resolve runs the combat phase for one step.
func (cr *CombatResolver) Resolve(w *World) {
	for _, s := range w.index.Sentinels() {
		if !w.registry.Alive(s.handle) {
			continue
		}
		// The state at the start of this phase decides which rule applies, so a
		// lunge that ends below cannot also trip the generic contact check.
		switch st := s.state; {
		case st.contactLethal():
			if p := w.livePlayerWithin(s.pos, contactKillRadius); p != nil {
				w.killPlayer(p, s, "contact")
			}
		case st == SentinelLunge:
			cr.resolveLunge(w, s)
		}
	}

	for _, p := range w.index.Players() {
		if p.swingPending {
			p.swingPending = false
			if p.stealthSwing {
				cr.stealthAttack(w, p)
			} else {
				cr.coneAttack(w, p)
			}
		}
	}
}

// resolveLunge checks a lunging sentinel against the player: a parry stuns the
// sentinel, anything else kills the player. No contact and an expired timer
// sends the sentinel searching.
func (cr *CombatResolver) resolveLunge(w *World, s *Sentinel) {
	if p := w.livePlayerWithin(s.pos, lungeContactRadius); p != nil {
		if p.combat == CombatParry {
			cr.parrySuccess(w, p, s)
		} else {
			w.killPlayer(p, s, "lunge")
		}
		return
	}
	if s.lungeTimer <= 0 {
		s.endLunge()
	}
}

func (cr *CombatResolver) parrySuccess(w *World, p *Player, s *Sentinel) {
	s.Stun(fullStunTime)
	if p.parrySuccess {
		return
	}
	p.parrySuccess = true
	w.stats.Parries++
	w.emitPulse(p.pos, parryPulseRadius, parryPulseDuration, true, p.handle, PulseParry)
	w.cue(CueParrySuccess)
	w.impactFreeze()
	w.record(s.label, "combat", "parry", fmt.Sprintf("parried %s at (%.0f,%.0f)", s.label, s.pos.X, s.pos.Y), 1)
}

// stealthAttack eliminates the first sentinel in front of the player that is
// either stunned or not facing the player.
func (cr *CombatResolver) stealthAttack(w *World, p *Player) {
	fwd := FromAngle(p.facing)
	for _, s := range w.index.Sentinels() {
		to := s.pos.Sub(p.pos)
		d := to.Len()
		if d > stealthRange {
			continue
		}
		if d > 1e-6 && fwd.Dot(to.Scale(1/d)) < stealthForwardDot {
			continue
		}
		toPlayer := p.pos.Sub(s.pos).Unit()
		if s.stunned || s.FacingVec().Dot(toPlayer) < backstabFacingDot {
			w.eliminate(s, "backstab")
			return
		}
	}
}

// coneAttack sweeps a vision cone and stuns sentinels caught close in front.
func (cr *CombatResolver) coneAttack(w *World, p *Player) {
	c := NewVisionCone(p.pos, p.facing, degToRad(coneHalfAngleDeg), coneRange, coneLife)
	w.cones = append(w.cones, c)
	c.Step(w, 0)

	half := degToRad(coneStunHalfDeg)
	for _, s := range w.index.Sentinels() {
		if s.stunned || !inArc(p.pos, p.facing, half, coneStunRange, s.pos) {
			continue
		}
		s.Stun(rangedStunTime)
		w.stats.Stuns++
		w.cue(CueStun)
		w.record(s.label, "combat", "stun", fmt.Sprintf("cone stun %.1fs", rangedStunTime), rangedStunTime)
	}
}
