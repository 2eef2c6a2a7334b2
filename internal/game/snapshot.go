package game

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// It holds no references into the live world.
type Snapshot struct {
	Tick      int     `json:"tick"`
	Elapsed   float64 `json:"elapsed"`
	TimeScale float64 `json:"timeScale"`
	Bounds    Rect    `json:"bounds"`

	Pulses    []PulseView    `json:"pulses"`
	Walls     []WallView     `json:"walls"`
	Sentinels []SentinelView `json:"sentinels"`
	Player    PlayerView     `json:"player"`
	Cones     []ConeView     `json:"cones"`
	Exits     []ExitZone     `json:"exits"`
}

type PulseView struct {
	Origin   Vec2    `json:"origin"`
	Radius   float64 `json:"radius"`
	Opacity  float64 `json:"opacity"`
	Echo     bool    `json:"echo"`
	Category string  `json:"category"`
}

type WallView struct {
	Pos    Vec2    `json:"pos"`
	Reveal float64 `json:"reveal"`
}

type SentinelView struct {
	Label      string  `json:"label"`
	Pos        Vec2    `json:"pos"`
	Facing     float64 `json:"facing"`
	State      string  `json:"state"`
	Visibility float64 `json:"visibility"`
	Stunned    bool    `json:"stunned"`
}

type PlayerView struct {
	Pos       Vec2    `json:"pos"`
	Facing    float64 `json:"facing"`
	Stamina   float64 `json:"stamina"`
	Exhausted bool    `json:"exhausted"`
	Dashing   bool    `json:"dashing"`
	Tier      string  `json:"tier"`
	Combat    string  `json:"combat"`
	Dead      bool    `json:"dead"`
	Won       bool    `json:"won"`
}

type ConeView struct {
	Origin    Vec2    `json:"origin"`
	Heading   float64 `json:"heading"`
	HalfAngle float64 `json:"halfAngle"`
	Range     float64 `json:"range"`
	Opacity   float64 `json:"opacity"`
}

// Snapshot copies the current visual state out of the world.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      w.tick,
		Elapsed:   w.elapsed,
		TimeScale: w.timeScale,
		Bounds:    w.bounds,
		Exits:     append([]ExitZone(nil), w.exits...),
	}
	for _, p := range w.pulses.Live() {
		snap.Pulses = append(snap.Pulses, PulseView{
			Origin:   p.Origin,
			Radius:   p.Radius,
			Opacity:  p.Opacity,
			Echo:     p.Echo,
			Category: p.Category.String(),
		})
	}
	for _, wl := range w.index.Walls() {
		snap.Walls = append(snap.Walls, WallView{Pos: wl.pos, Reveal: wl.reveal})
	}
	for _, s := range w.index.Sentinels() {
		snap.Sentinels = append(snap.Sentinels, SentinelView{
			Label:      s.label,
			Pos:        s.pos,
			Facing:     s.facing,
			State:      s.state.String(),
			Visibility: s.Visibility(),
			Stunned:    s.stunned,
		})
	}
	for _, c := range w.cones {
		snap.Cones = append(snap.Cones, ConeView{
			Origin:    c.Origin,
			Heading:   c.Heading,
			HalfAngle: c.HalfAngle,
			Range:     c.Range,
			Opacity:   c.Opacity(),
		})
	}
	if p := w.player; p != nil {
		snap.Player = PlayerView{
			Pos:       p.pos,
			Facing:    p.facing,
			Stamina:   p.stamina,
			Exhausted: p.exhausted,
			Dashing:   p.dashing,
			Tier:      p.tier.String(),
			Combat:    p.combat.String(),
			Dead:      p.dead,
			Won:       p.won,
		}
	}
	return snap
}
