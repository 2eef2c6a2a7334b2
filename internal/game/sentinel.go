package game

// SentinelState is the sentinel's current behaviour.
type SentinelState int

const (
	SentinelPatrol      SentinelState = iota // walking the route
	SentinelChase                            // heading for the last heard position
	SentinelSearch                           // standing still, about to probe
	SentinelReturn                           // walking back to the route
	SentinelLungeWindup                      // telegraphing an attack
	SentinelLunge                            // committed dash along a locked direction
	SentinelStunned                          // parried or hit by a cone
)

func (ss SentinelState) String() string {
	switch ss {
	case SentinelPatrol:
		return "patrol"
	case SentinelChase:
		return "chase"
	case SentinelSearch:
		return "search"
	case SentinelReturn:
		return "return"
	case SentinelLungeWindup:
		return "lunge_windup"
	case SentinelLunge:
		return "lunge"
	case SentinelStunned:
		return "stunned"
	default:
		return "unknown"
	}
}

// canHear reports whether a new target position may redirect the sentinel.
func (ss SentinelState) canHear() bool {
	return ss != SentinelStunned && ss != SentinelLunge && ss != SentinelLungeWindup
}

// contactLethal reports whether plain body contact kills the player in this state.
func (ss SentinelState) contactLethal() bool {
	switch ss {
	case SentinelPatrol, SentinelChase, SentinelSearch, SentinelReturn:
		return true
	default:
		return false
	}
}

// speedFor is the designated speed of each state. Only stunned is zero.
func speedFor(ss SentinelState) float64 {
	switch ss {
	case SentinelChase, SentinelLungeWindup:
		return sentinelChaseSpeed
	case SentinelLunge:
		return sentinelLungeSpeed
	case SentinelStunned:
		return 0
	default:
		return sentinelPatrolSpeed
	}
}

// Sentinel is an enemy agent that listens for pulses and hunts the player.
type Sentinel struct {
	handle Handle
	label  string

	pos    Vec2
	facing float64 // radians
	speed  float64

	route    []Vec2
	waypoint int

	state     SentinelState
	stateTime float64 // seconds spent in the current state

	searchTimer float64
	windupTimer float64
	lungeTimer  float64
	stunTimer   float64

	lastHeard   *Vec2
	lungeDir    Vec2
	hasLungeDir bool

	reveal  float64
	stunned bool

	pingTimer float64
	pings     int

	onTransition func(s *Sentinel, from, to SentinelState)
}

func newSentinel(h Handle, label string, start Vec2, route []Vec2) *Sentinel {
	r := make([]Vec2, len(route))
	copy(r, route)
	s := &Sentinel{
		handle: h,
		label:  label,
		pos:    start,
		route:  r,
		state:  SentinelPatrol,
		speed:  sentinelPatrolSpeed,
	}
	if len(r) > 0 {
		s.facing = start.AngleTo(r[0])
	}
	return s
}

func (s *Sentinel) Handle() Handle { return s.handle }
func (s *Sentinel) Kind() Kind { return KindSentinel }
func (s *Sentinel) Pos() Vec2 { return s.pos }

// Label is the short display name, e.g. "S0".
func (s *Sentinel) Label() string { return s.label }
func (s *Sentinel) State() SentinelState { return s.state }
func (s *Sentinel) Facing() float64 { return s.facing }
func (s *Sentinel) Speed() float64 { return s.speed }
func (s *Sentinel) Stunned() bool { return s.stunned }
func (s *Sentinel) RevealIntensity() float64 { return s.reveal }
func (s *Sentinel) Route() []Vec2 { return s.route }
func (s *Sentinel) Waypoint() int { return s.waypoint }
func (s *Sentinel) Pings() int { return s.pings }

// LastHeard returns the last heard position, if any.
func (s *Sentinel) LastHeard() (Vec2, bool) {
	if s.lastHeard == nil {
		return Vec2{}, false
	}
	return *s.lastHeard, true
}

// LungeDirection returns the locked lunge direction, if one is held.
func (s *Sentinel) LungeDirection() (Vec2, bool) { return s.lungeDir, s.hasLungeDir }

// Timers exposes the per-state countdowns for inspectors and reports.
func (s *Sentinel) Timers() (search, windup, lunge, stun float64) {
	return s.searchTimer, s.windupTimer, s.lungeTimer, s.stunTimer
}

// FacingVec is the unit vector the sentinel is looking along.
func (s *Sentinel) FacingVec() Vec2 { return FromAngle(s.facing) }

// Visibility is what a renderer should use as the sentinel's opacity.
// Stunned sentinels are always fully visible; a winding-up sentinel flickers.
func (s *Sentinel) Visibility() float64 {
	switch s.state {
	case SentinelStunned:
		return 1
	case SentinelLungeWindup:
		if int(s.stateTime/windupFlickerRate)%2 == 0 {
			return 1
		}
		return windupFlickerLow
	default:
		return s.reveal
	}
}

// Reveal lights the sentinel up fully.
func (s *Sentinel) Reveal() { s.reveal = 1 }

// Hear points the sentinel at pos. Ignored while stunned or attacking; while
// already chasing it only retargets.
func (s *Sentinel) Hear(pos Vec2) {
	if !s.state.canHear() {
		return
	}
	p := pos
	s.lastHeard = &p
	if s.state != SentinelChase {
		s.setState(SentinelChase)
	}
}

// Stun incapacitates the sentinel and drops any locked lunge direction. A
// shorter stun never cuts a longer one short.
func (s *Sentinel) Stun(duration float64) {
	s.lungeDir = Vec2{}
	s.hasLungeDir = false
	if s.state == SentinelStunned && s.stunTimer > duration {
		return
	}
	s.stunTimer = duration
	s.stunned = true
	s.reveal = 1
	if s.state != SentinelStunned {
		s.setState(SentinelStunned)
	}
}

func (s *Sentinel) setState(to SentinelState) {
	from := s.state
	s.state = to
	s.stateTime = 0
	s.speed = speedFor(to)
	if to != SentinelStunned {
		s.stunned = false
	}
	if s.onTransition != nil && from != to {
		s.onTransition(s, from, to)
	}
}

func (s *Sentinel) decayReveal(dt float64) {
	s.reveal = clamp01(s.reveal - dt*sentinelRevealDecay)
}

// Step runs one tick of the state machine.
func (s *Sentinel) Step(w *World, dt float64) {
	s.stateTime += dt
	s.tickPing(dt)

	switch s.state {
	case SentinelPatrol:
		target := s.currentWaypoint(w)
		s.moveToward(w, target, dt)
		if s.pos.Dist(target) < waypointArrival {
			s.waypoint = (s.waypoint + 1) % len(s.route)
		}

	case SentinelChase:
		if s.lastHeard == nil {
			s.setState(SentinelReturn)
			return
		}
		target := *s.lastHeard
		s.moveToward(w, target, dt)
		if p := w.livePlayerWithin(s.pos, lungeTriggerRange); p != nil {
			s.beginWindup(w, p)
			return
		}
		if s.pos.Dist(target) < chaseArrival {
			s.searchTimer = searchTime
			s.setState(SentinelSearch)
		}

	case SentinelLungeWindup:
		if p := w.livePlayerWithin(s.pos, lungeTriggerRange*4); p != nil {
			s.facing = s.pos.AngleTo(p.pos)
		}
		s.windupTimer -= dt
		if s.windupTimer <= 0 {
			s.lockLunge(w)
		}

	case SentinelLunge:
		s.pos = w.clampToBounds(resolveWalls(w.index, s.pos.Add(s.lungeDir.Scale(s.speed*dt)), sentinelBody))
		s.lungeTimer -= dt

	case SentinelStunned:
		s.stunTimer -= dt
		if s.stunTimer <= 0 {
			s.stunTimer = 0
			s.setState(SentinelReturn)
		}

	case SentinelSearch:
		s.searchTimer -= dt
		if s.searchTimer <= 0 {
			s.searchTimer = 0
			w.emitPulse(s.pos, searchPulseRadius, searchPulseDuration, false, s.handle, PulseSentinel)
			s.setState(SentinelReturn)
		}

	case SentinelReturn:
		target := s.currentWaypoint(w)
		s.moveToward(w, target, dt)
		if s.pos.Dist(target) < waypointArrival {
			s.setState(SentinelPatrol)
		}
	}
}

// tickPing advances the cosmetic footstep ping cadence.
func (s *Sentinel) tickPing(dt float64) {
	if s.state == SentinelStunned {
		return
	}
	s.pingTimer += dt
	interval := pingIntervalCalm
	if s.state == SentinelChase {
		interval = pingIntervalChase
	}
	if s.pingTimer > interval {
		s.pingTimer = 0
		s.pings++
	}
}

// currentWaypoint returns the active route point, generating one lazily when
// the route is empty.
func (s *Sentinel) currentWaypoint(w *World) Vec2 {
	if len(s.route) == 0 {
		s.route = append(s.route, w.randomPoint(randomWaypointInset))
		s.waypoint = 0
	}
	if s.waypoint >= len(s.route) {
		s.waypoint = 0
	}
	return s.route[s.waypoint]
}

// moveToward steps toward target at the current speed without overshooting,
// facing the travel direction.
func (s *Sentinel) moveToward(w *World, target Vec2, dt float64) {
	d := target.Sub(s.pos)
	dist := d.Len()
	if dist < 1e-6 {
		return
	}
	s.facing = s.pos.AngleTo(target)
	step := s.speed * dt
	if step >= dist {
		s.pos = target
	} else {
		s.pos = s.pos.Add(d.Scale(step / dist))
	}
	s.pos = w.clampToBounds(resolveWalls(w.index, s.pos, sentinelBody))
}

func (s *Sentinel) beginWindup(w *World, target *Player) {
	s.windupTimer = lungeWindupTime
	s.hasLungeDir = false
	s.facing = s.pos.AngleTo(target.pos)
	s.setState(SentinelLungeWindup)
	w.emitPulse(s.pos, warningPulseRadius, warningPulseDuration, false, s.handle, PulseWarning)
	w.cue(CueLungeWarn)
}

// lockLunge fixes the attack direction toward where the player is right now.
func (s *Sentinel) lockLunge(w *World) {
	dir := FromAngle(s.facing)
	if p := w.primaryLivePlayer(); p != nil {
		if d := p.pos.Sub(s.pos).Unit(); !d.IsZero() {
			dir = d
		}
	}
	s.windupTimer = 0
	s.lungeDir = dir
	s.hasLungeDir = true
	s.facing = HeadingTo(0, 0, dir.X, dir.Y)
	s.lungeTimer = lungeTime
	s.setState(SentinelLunge)
}

// endLunge drops the locked direction and goes searching.
func (s *Sentinel) endLunge() {
	s.lungeTimer = 0
	s.hasLungeDir = false
	s.searchTimer = searchTime
	s.setState(SentinelSearch)
}
