package game

import "math"

// Vec2 is a world-space point or direction in pixels.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(k float64) Vec2 { return Vec2{a.X * k, a.Y * k} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dist(b Vec2) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }
func (a Vec2) IsZero() bool { return a.X == 0 && a.Y == 0 }
func (a Vec2) AngleTo(b Vec2) float64 { return HeadingTo(a.X, a.Y, b.X, b.Y) }

// Unit returns the normalised vector, or the zero vector for zero input.
func (a Vec2) Unit() Vec2 {
	l := a.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// FromAngle returns the unit vector for an angle in radians.
func FromAngle(a float64) Vec2 {
	return Vec2{math.Cos(a), math.Sin(a)}
}

// HeadingTo returns the angle in radians from (ox,oy) toward (tx,ty).
func HeadingTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Inset shrinks the rectangle by m on every side.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, W: math.Max(0, r.W-2*m), H: math.Max(0, r.H-2*m)}
}

// pushOutOfBox moves a circle of radius r centred at p out of the square box of
// half-extent half centred at c. Returns p unchanged when they do not overlap.
func pushOutOfBox(p Vec2, r float64, c Vec2, half float64) Vec2 {
	nx := clamp(p.X, c.X-half, c.X+half)
	ny := clamp(p.Y, c.Y-half, c.Y+half)
	dx := p.X - nx
	dy := p.Y - ny
	d2 := dx*dx + dy*dy
	if d2 >= r*r {
		return p
	}
	if d2 > 1e-12 {
		d := math.Sqrt(d2)
		push := r - d
		return Vec2{p.X + dx/d*push, p.Y + dy/d*push}
	}
	// Centre is inside the box: leave through the nearest face.
	left := p.X - (c.X - half)
	right := (c.X + half) - p.X
	top := p.Y - (c.Y - half)
	bottom := (c.Y + half) - p.Y
	m := math.Min(math.Min(left, right), math.Min(top, bottom))
	switch m {
	case left:
		return Vec2{c.X - half - r, p.Y}
	case right:
		return Vec2{c.X + half + r, p.Y}
	case top:
		return Vec2{p.X, c.Y - half - r}
	default:
		return Vec2{p.X, c.Y + half + r}
	}
}
