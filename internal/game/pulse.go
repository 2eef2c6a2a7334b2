package game

// PulseCategory tags a wavefront for renderers and logs. It has no effect on
// propagation.
type PulseCategory int

const (
	PulsePlayer PulseCategory = iota
	PulseSentinel
	PulseEcho
	PulseParry
	PulseWarning
)

func (c PulseCategory) String() string {
	switch c {
	case PulsePlayer:
		return "player"
	case PulseSentinel:
		return "sentinel"
	case PulseEcho:
		return "echo"
	case PulseParry:
		return "parry"
	case PulseWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Pulse is one expanding, fading circular wavefront.
type Pulse struct {
	ID        int
	Origin    Vec2
	Radius    float64
	Opacity   float64
	MaxRadius float64
	Duration  float64
	Echo      bool
	Source    Handle // zero when nobody in particular emitted it
	Category  PulseCategory

	hits map[Handle]struct{}
	dead bool
}

// Hit reports whether the pulse already processed h.
func (p *Pulse) Hit(h Handle) bool {
	_, ok := p.hits[h]
	return ok
}

// HitCount is the number of entities this pulse has touched.
func (p *Pulse) HitCount() int { return len(p.hits) }

// Dead reports whether the pulse has faded out.
func (p *Pulse) Dead() bool { return p.dead }

func (p *Pulse) mark(h Handle) { p.hits[h] = struct{}{} }

// PulseEngine owns the live wavefronts.
type PulseEngine struct {
	live    []*Pulse
	pending []*Pulse // echoes spawned mid-step; they join on the next step
	nextID  int
}

// NewPulseEngine creates an engine with no live pulses.
func NewPulseEngine() *PulseEngine {
	return &PulseEngine{}
}

// Emit creates a wavefront at origin. It is live immediately and is advanced by
// the next Step call (including one later in the same simulation step).
func (pe *PulseEngine) Emit(origin Vec2, maxRadius, duration float64, echo bool, source Handle, cat PulseCategory) *Pulse {
	p := pe.newPulse(origin, maxRadius, duration, echo, source, cat)
	pe.live = append(pe.live, p)
	return p
}

func (pe *PulseEngine) newPulse(origin Vec2, maxRadius, duration float64, echo bool, source Handle, cat PulseCategory) *Pulse {
	if duration <= 0 {
		duration = 1e-3
	}
	pe.nextID++
	return &Pulse{
		ID:        pe.nextID,
		Origin:    origin,
		Opacity:   1,
		MaxRadius: maxRadius,
		Duration:  duration,
		Echo:      echo,
		Source:    source,
		Category:  cat,
		hits:      make(map[Handle]struct{}),
	}
}

// Live returns the current wavefronts. The slice is owned by the engine.
func (pe *PulseEngine) Live() []*Pulse { return pe.live }

// Len is the number of live wavefronts.
func (pe *PulseEngine) Len() int { return len(pe.live) }

// Clear drops every wavefront.
func (pe *PulseEngine) Clear() {
	pe.live = nil
	pe.pending = nil
}

// Step advances every live wavefront by dt and hit-tests it against the world.
func (pe *PulseEngine) Step(w *World, dt float64) {
	kept := pe.live[:0]
	for _, p := range pe.live {
		pe.advance(w, p, dt)
		if !p.dead {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(pe.live); i++ {
		pe.live[i] = nil
	}
	pe.live = append(kept, pe.pending...)
	pe.pending = pe.pending[:0]
}

func (pe *PulseEngine) advance(w *World, p *Pulse, dt float64) {
	p.Radius += (p.MaxRadius / p.Duration) * dt
	p.Opacity -= (1 / p.Duration) * dt
	if p.Opacity <= 0 {
		p.Opacity = 0
		p.dead = true
		return
	}

	for _, e := range w.index.Query(KindWall) {
		h := e.Handle()
		if p.Hit(h) {
			continue
		}
		if e.Pos().Dist(p.Origin) < p.Radius+wallHitMargin {
			p.mark(h)
			if r, ok := e.(Revealable); ok {
				r.Reveal()
			}
			if !p.Echo {
				echo := pe.newPulse(e.Pos(), p.MaxRadius*echoRadiusMul, p.Duration*echoDurationMul, true, Handle{}, PulseEcho)
				pe.pending = append(pe.pending, echo)
				w.stats.Echoes++
			}
		}
	}

	for _, e := range w.index.Query(KindSentinel) {
		h := e.Handle()
		if p.Hit(h) || h == p.Source {
			continue
		}
		if e.Pos().Dist(p.Origin) < p.Radius+sentinelHitMargin {
			p.mark(h)
			if r, ok := e.(Revealable); ok {
				r.Reveal()
			}
			if hr, ok := e.(Hearer); ok && !p.Echo {
				hr.Hear(p.Origin)
			}
		}
	}

	// A sentinel's own probe can report the player back to that sentinel.
	src, ok := w.registry.Lookup(p.Source)
	if !ok {
		return
	}
	listener, ok := src.(Hearer)
	if !ok {
		return
	}
	for _, e := range w.index.Query(KindPlayer) {
		h := e.Handle()
		if p.Hit(h) {
			continue
		}
		if e.Pos().Dist(p.Origin) < p.Radius+playerHitMargin {
			p.mark(h)
			listener.Hear(e.Pos())
		}
	}
}
