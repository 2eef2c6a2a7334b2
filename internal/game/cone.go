package game

import "math"

// VisionCone is a short-lived angular sweep from the player's attack. It
// reveals each wall and sentinel it covers at most once.
type VisionCone struct {
	Origin    Vec2
	Heading   float64 // radians, 0 = right, pi/2 = down
	HalfAngle float64 // radians
	Range     float64
	Life      float64 // seconds remaining

	hits map[Handle]struct{}
	dead bool
}

// NewVisionCone creates a cone with its own empty hit-set.
func NewVisionCone(origin Vec2, heading, halfAngle, rng, life float64) *VisionCone {
	return &VisionCone{
		Origin:    origin,
		Heading:   heading,
		HalfAngle: halfAngle,
		Range:     rng,
		Life:      life,
		hits:      make(map[Handle]struct{}),
	}
}

// InCone returns true if p is within range and inside the angular half-width.
func (c *VisionCone) InCone(p Vec2) bool {
	return inArc(c.Origin, c.Heading, c.HalfAngle, c.Range, p)
}

// inArc is the shared cone test: p within rng of o, and within halfAngle of heading.
func inArc(o Vec2, heading, halfAngle, rng float64, p Vec2) bool {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > rng || dist < 1e-6 {
		return false
	}
	diff := normalizeAngle(math.Atan2(dy, dx) - heading)
	return diff >= -halfAngle && diff <= halfAngle
}

// Hit reports whether the cone already revealed h.
func (c *VisionCone) Hit(h Handle) bool {
	_, ok := c.hits[h]
	return ok
}

// Dead reports whether the cone has expired.
func (c *VisionCone) Dead() bool { return c.dead }

// Opacity fades with remaining life.
func (c *VisionCone) Opacity() float64 { return clamp01(c.Life / coneLife) }

// Step counts the cone down and reveals what it covers.
func (c *VisionCone) Step(w *World, dt float64) {
	c.Life -= dt
	if c.Life <= 0 {
		c.dead = true
		return
	}
	for _, k := range [...]Kind{KindWall, KindSentinel} {
		for _, e := range w.index.Query(k) {
			h := e.Handle()
			if c.Hit(h) || !c.InCone(e.Pos()) {
				continue
			}
			c.hits[h] = struct{}{}
			if r, ok := e.(Revealable); ok {
				r.Reveal()
			}
		}
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }
