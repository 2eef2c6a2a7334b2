package game

import "math"

// Wall is a static, normally invisible 80x80 obstacle. It never emits pulses;
// it only lights up when something touches it.
type Wall struct {
	handle Handle
	pos    Vec2
	reveal float64 // 1 on contact, decays toward 0
}

func newWall(h Handle, pos Vec2) *Wall {
	return &Wall{handle: h, pos: pos}
}

func (w *Wall) Handle() Handle { return w.handle }
func (w *Wall) Kind() Kind { return KindWall }
func (w *Wall) Pos() Vec2 { return w.pos }

// RevealIntensity is the current highlight level in [0,1].
func (w *Wall) RevealIntensity() float64 { return w.reveal }

// Reveal lights the wall up fully.
func (w *Wall) Reveal() { w.reveal = 1 }

// Step decays the reveal highlight.
func (w *Wall) Step(_ *World, dt float64) {
	w.reveal = clamp01(w.reveal - dt*wallRevealDecay)
}

// Bounds returns the wall's footprint.
func (w *Wall) Bounds() Rect {
	h := wallSize / 2
	return Rect{X: w.pos.X - h, Y: w.pos.Y - h, W: wallSize, H: wallSize}
}

// resolveWalls pushes a circular body of radius r out of every wall it overlaps.
func resolveWalls(ix *Index, p Vec2, r float64) Vec2 {
	for _, e := range ix.Query(KindWall) {
		c := e.Pos()
		if math.Abs(p.X-c.X) > wallSize/2+r || math.Abs(p.Y-c.Y) > wallSize/2+r {
			continue
		}
		p = pushOutOfBox(p, r, c, wallSize/2)
	}
	return p
}
