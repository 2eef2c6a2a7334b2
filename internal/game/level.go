package game

import "math/rand"

// ExitZone is a circular goal area. Entering it wins the session.
type ExitZone struct {
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside the zone.
func (e ExitZone) Contains(p Vec2) bool {
	return e.Center.Dist(p) <= e.Radius
}

// Level is the static geometry a World is populated from once at start.
type Level struct {
	Bounds Rect
	Walls  []Vec2 // wall centres
	Spawn  Vec2   // player start
	Exits  []ExitZone
	Routes [][]Vec2 // one patrol route per sentinel; an empty route patrols randomly
}

const (
	levelEdgeInset  = 100
	spawnClearance  = 120 // no wall centre this close to spawn, an exit or a waypoint
	exitRadius      = 40
	exitCornerInset = 70
	routeInset      = 200
	maxWallAttempts = 50
)

// RandomLevel scatters walls over a w x h field with the player in the middle,
// one sentinel walking a square route and an exit in the far corner.
func RandomLevel(rng *rand.Rand, w, h float64, walls int) Level {
	spawn := V(w/2, h/2)
	exit := ExitZone{Center: V(w-exitCornerInset, h-exitCornerInset), Radius: exitRadius}

	lvl := Level{
		Bounds: Rect{W: w, H: h},
		Spawn:  spawn,
		Exits:  []ExitZone{exit},
		Routes: [][]Vec2{{
			V(routeInset, routeInset),
			V(w-routeInset, routeInset),
			V(w-routeInset, h-routeInset),
			V(routeInset, h-routeInset),
		}},
	}

	keepClear := append([]Vec2{spawn, exit.Center}, lvl.Routes[0]...)
	inner := lvl.Bounds.Inset(levelEdgeInset)
	for i := 0; i < walls; i++ {
		var p Vec2
		for attempt := 0; attempt < maxWallAttempts; attempt++ {
			p = V(inner.X+rng.Float64()*inner.W, inner.Y+rng.Float64()*inner.H) // #nosec G404 -- level layout
			if clearOf(p, keepClear, spawnClearance) {
				break
			}
		}
		lvl.Walls = append(lvl.Walls, p)
	}
	return lvl
}

// clearOf reports whether p is at least d away from every point in pts.
func clearOf(p Vec2, pts []Vec2, d float64) bool {
	for _, q := range pts {
		if p.Dist(q) < d {
			return false
		}
	}
	return true
}

// DemoLevel is a fixed 1280x720 layout: a corridor of walls, two sentinels and
// one exit on the right edge.
func DemoLevel() Level {
	return Level{
		Bounds: Rect{W: 1280, H: 720},
		Spawn:  V(120, 360),
		Walls: []Vec2{
			V(400, 200), V(400, 280),
			V(400, 440), V(400, 520),
			V(700, 120), V(700, 600),
			V(900, 320), V(900, 400),
		},
		Exits: []ExitZone{{Center: V(1210, 360), Radius: exitRadius}},
		Routes: [][]Vec2{
			{V(560, 160), V(560, 560)},
			{V(800, 200), V(1040, 200), V(1040, 520), V(800, 520)},
		},
	}
}
