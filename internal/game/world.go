package game

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Cue is a fire-and-forget audio event name.
type Cue string

const (
	CuePulse        Cue = "pulse"
	CueDash         Cue = "dash"
	CueAttack       Cue = "attack"
	CueParry        Cue = "parry"
	CueParrySuccess Cue = "parry_success"
	CueKill         Cue = "kill"
	CueStun         Cue = "stun"
	CueLungeWarn    Cue = "lunge_warn"
	CueDeath        Cue = "death"
	CueWin          Cue = "win"
)

// AllCues lists every cue the world can emit.
var AllCues = []Cue{
	CuePulse, CueDash, CueAttack, CueParry, CueParrySuccess,
	CueKill, CueStun, CueLungeWarn, CueDeath, CueWin,
}

// CueSink receives audio cues. Implementations must not block.
type CueSink interface {
	PlayCue(c Cue)
}

// NopCues discards every cue.
type NopCues struct{}

func (NopCues) PlayCue(Cue) {}

// Session is the external lifecycle controller. The core only signals it.
type Session interface {
	Restart()
	Win()
}

type nopSession struct{}

func (nopSession) Restart() {}
func (nopSession) Win() {}

// SessionStats counts what happened in a world's lifetime.
type SessionStats struct {
	Pulses      int
	Echoes      int
	Alerts      int // sentinel transitions into chase
	Lunges      int
	Parries     int
	Stuns       int
	Kills       int
	Deaths      int
	Wins        int
	Transitions int
}

// World is the simulation root. It owns the registry, the categorical index
// and every subsystem, and advances them in a fixed phase order.
type World struct {
	registry *Registry
	index    *Index
	pulses   *PulseEngine
	cones    []*VisionCone
	sched    *Scheduler
	combat   *CombatResolver

	player *Player
	bounds Rect
	exits  []ExitZone

	rng       *rand.Rand
	tick      int
	elapsed   float64 // unscaled seconds
	simTime   float64 // scaled seconds
	timeScale float64
	// freezeUntil is the elapsed time at which the latest impact freeze ends.
	freezeUntil float64

	cues     CueSink
	session  Session
	log      logrus.FieldLogger
	simLog   *SimLog
	thoughts *ThoughtLog

	stats        SessionStats
	nextSentinel int
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithSeed makes the world's random choices deterministic.
func WithSeed(seed int64) WorldOption {
	return func(w *World) {
		w.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
	}
}

// WithCues routes audio cues to sink.
func WithCues(sink CueSink) WorldOption {
	return func(w *World) {
		if sink != nil {
			w.cues = sink
		}
	}
}

// WithSession routes restart/win signals to s.
func WithSession(s Session) WorldOption {
	return func(w *World) {
		if s != nil {
			w.session = s
		}
	}
}

// WithLogger attaches a process logger for debug-level transition logging.
func WithLogger(l logrus.FieldLogger) WorldOption {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSimLog records structured events into sl.
func WithSimLog(sl *SimLog) WorldOption {
	return func(w *World) {
		if sl != nil {
			w.simLog = sl
		}
	}
}

// WithThoughtLog mirrors notable events into an on-screen ring buffer.
func WithThoughtLog(tl *ThoughtLog) WorldOption {
	return func(w *World) { w.thoughts = tl }
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewWorld builds a world from static level geometry.
func NewWorld(level Level, opts ...WorldOption) *World {
	w := &World{
		registry:  NewRegistry(),
		index:     NewIndex(),
		pulses:    NewPulseEngine(),
		sched:     NewScheduler(),
		combat:    NewCombatResolver(),
		bounds:    level.Bounds,
		timeScale: 1,
		cues:      NopCues{},
		session:   nopSession{},
		simLog:    NewSimLog(false),
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- gameplay randomness
	}
	for _, o := range opts {
		o(w)
	}
	if w.log == nil {
		w.log = discardLogger()
	}
	if w.bounds.W <= 0 || w.bounds.H <= 0 {
		w.bounds = Rect{W: 1280, H: 720}
	}

	for _, pos := range level.Walls {
		w.SpawnWall(pos)
	}
	w.exits = append(w.exits, level.Exits...)
	w.SpawnPlayer(level.Spawn)
	for _, route := range level.Routes {
		if len(route) > 0 {
			w.SpawnSentinel(route[0], route)
		} else {
			w.SpawnSentinel(w.randomPoint(randomWaypointInset), nil)
		}
	}
	return w
}

// SpawnWall adds a wall centred at pos.
func (w *World) SpawnWall(pos Vec2) *Wall {
	wall := newWall(w.registry.Alloc(), pos)
	w.registry.Bind(wall)
	w.index.Insert(wall)
	return wall
}

// SpawnPlayer adds a player at pos. The first player spawned receives Input.
func (w *World) SpawnPlayer(pos Vec2) *Player {
	p := newPlayer(w.registry.Alloc(), pos)
	w.registry.Bind(p)
	w.index.Insert(p)
	if w.player == nil {
		w.player = p
	}
	return p
}

// SpawnSentinel adds a sentinel at start walking route (cyclic, may be empty).
func (w *World) SpawnSentinel(start Vec2, route []Vec2) *Sentinel {
	label := fmt.Sprintf("S%d", w.nextSentinel)
	w.nextSentinel++
	s := newSentinel(w.registry.Alloc(), label, start, route)
	s.onTransition = w.recordTransition
	w.registry.Bind(s)
	w.index.Insert(s)
	return s
}

// Step advances the whole simulation by dt seconds of wall-clock time.
func (w *World) Step(dt float64, in Input) {
	if dt <= 0 {
		return
	}
	w.tick++
	w.elapsed += dt

	// 1. SCHEDULE: delayed one-shots due by now.
	w.sched.Run(w, w.elapsed)

	// 2. TIME: impact freeze scales the simulated step.
	sdt := dt * w.timeScale
	w.simTime += sdt

	// 3. PLAYER: resources, movement, movement pulses, combat requests.
	for _, p := range w.index.Players() {
		if p == w.player {
			p.update(w, sdt, in)
		} else {
			p.update(w, sdt, Input{})
		}
	}
	w.checkExits()

	// 4. DECAY: reveal highlights fade.
	w.stepKind(KindWall, sdt)
	for _, s := range w.index.Sentinels() {
		s.decayReveal(sdt)
	}

	// 5. AGENTS: sentinel state machines.
	w.stepKind(KindSentinel, sdt)

	// 6. PROPAGATE: wavefronts and cones hit-test the world.
	w.pulses.Step(w, sdt)
	w.stepCones(sdt)

	// 7+8. COMBAT + REMOVE: contact, lunge, attacks; eliminations are immediate.
	w.combat.Resolve(w)

	// 9. CLAMP
	for _, p := range w.index.Players() {
		p.stamina = clamp(p.stamina, 0, staminaMax)
	}
}

// stepKind dispatches Step to every Steppable entity of kind k.
func (w *World) stepKind(k Kind, dt float64) {
	list := append([]Entity(nil), w.index.Query(k)...)
	for _, e := range list {
		if !w.registry.Alive(e.Handle()) {
			continue
		}
		if st, ok := e.(Steppable); ok {
			st.Step(w, dt)
		}
	}
}

func (w *World) stepCones(dt float64) {
	kept := w.cones[:0]
	for _, c := range w.cones {
		c.Step(w, dt)
		if !c.Dead() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(w.cones); i++ {
		w.cones[i] = nil
	}
	w.cones = kept
}

func (w *World) checkExits() {
	p := w.player
	if p == nil || p.dead || p.won {
		return
	}
	for _, ex := range w.exits {
		if ex.Contains(p.pos) {
			p.won = true
			w.stats.Wins++
			w.cue(CueWin)
			w.record("P", "session", "win", fmt.Sprintf("reached exit at (%.0f,%.0f)", ex.Center.X, ex.Center.Y), 0)
			w.log.WithField("tick", w.tick).Info("player reached exit")
			w.session.Win()
			return
		}
	}
}

// emitPulse creates a wavefront and accounts for it.
func (w *World) emitPulse(origin Vec2, maxRadius, duration float64, echo bool, source Handle, cat PulseCategory) *Pulse {
	p := w.pulses.Emit(origin, maxRadius, duration, echo, source, cat)
	w.stats.Pulses++
	if cat == PulsePlayer {
		w.cue(CuePulse)
	}
	if w.simLog.verbose {
		w.record(w.labelOf(source), "pulse", "emit", fmt.Sprintf("%s r=%.0f d=%.2f", cat, maxRadius, duration), maxRadius)
	}
	return p
}

// EmitPulse lets collaborators inject a wavefront (e.g. scripted noise).
func (w *World) EmitPulse(origin Vec2, maxRadius, duration float64, echo bool, source Handle, cat PulseCategory) *Pulse {
	return w.emitPulse(origin, maxRadius, duration, echo, source, cat)
}

func (w *World) cue(c Cue) { w.cues.PlayCue(c) }

// livePlayerWithin returns the nearest live player within r of pos.
func (w *World) livePlayerWithin(pos Vec2, r float64) *Player {
	var best *Player
	bestD := r
	for _, e := range w.index.Query(KindPlayer) {
		p := e.(*Player)
		if !p.alive() {
			continue
		}
		if d := p.pos.Dist(pos); d < bestD {
			best = p
			bestD = d
		}
	}
	return best
}

// primaryLivePlayer returns the input-driven player if it is still alive.
func (w *World) primaryLivePlayer() *Player {
	if w.player == nil || !w.player.alive() || !w.registry.Alive(w.player.handle) {
		return nil
	}
	return w.player
}

func (w *World) randomPoint(inset float64) Vec2 {
	r := w.bounds.Inset(inset)
	return Vec2{
		X: r.X + w.rng.Float64()*r.W,
		Y: r.Y + w.rng.Float64()*r.H,
	}
}

func (w *World) clampToBounds(p Vec2) Vec2 {
	return Vec2{
		X: clamp(p.X, w.bounds.X, w.bounds.X+w.bounds.W),
		Y: clamp(p.Y, w.bounds.Y, w.bounds.Y+w.bounds.H),
	}
}

// killPlayer runs the death sequence once per player.
func (w *World) killPlayer(p *Player, by *Sentinel, cause string) {
	if !p.kill() {
		return
	}
	w.stats.Deaths++
	w.cue(CueDeath)
	w.record(by.label, "combat", "player_death", fmt.Sprintf("%s by %s (%s)", cause, by.label, by.state), 0)
	w.log.WithFields(logrus.Fields{"tick": w.tick, "sentinel": by.label, "cause": cause}).Info("player died")
	w.sched.Schedule(ScheduledEvent{
		At:     w.elapsed + restartDelay,
		Name:   "restart",
		Target: p.handle,
		Fn:     func(w *World) { w.session.Restart() },
	})
}

// eliminate removes a sentinel from the world at once.
func (w *World) eliminate(s *Sentinel, cause string) {
	if !w.registry.Alive(s.handle) {
		return
	}
	w.index.Remove(KindSentinel, s.handle)
	w.registry.Free(s.handle)
	s.onTransition = nil
	w.stats.Kills++
	w.cue(CueKill)
	w.impactFreeze()
	w.record(s.label, "combat", "kill", fmt.Sprintf("%s while %s", cause, s.state), 0)
	w.log.WithFields(logrus.Fields{"tick": w.tick, "sentinel": s.label, "cause": cause}).Info("sentinel eliminated")
}

// impactFreeze slows simulated time briefly and schedules the restore. A
// restore queued by an earlier impact leaves a later freeze in place.
func (w *World) impactFreeze() {
	w.timeScale = freezeScale
	w.freezeUntil = math.Max(w.freezeUntil, w.elapsed+freezeDuration)
	w.sched.Schedule(ScheduledEvent{
		At:   w.freezeUntil,
		Name: "unfreeze",
		Fn: func(w *World) {
			if w.elapsed >= w.freezeUntil {
				w.timeScale = 1
			}
		},
	})
}

func (w *World) recordTransition(s *Sentinel, from, to SentinelState) {
	w.stats.Transitions++
	switch to {
	case SentinelChase:
		w.stats.Alerts++
	case SentinelLunge:
		w.stats.Lunges++
	}
	w.record(s.label, "state", "change", fmt.Sprintf("%s → %s", from, to), 0)
	w.log.WithFields(logrus.Fields{"tick": w.tick, "sentinel": s.label, "from": from.String(), "to": to.String()}).Debug("sentinel transition")
}

// record writes one structured event to the sim log and the thought log.
func (w *World) record(label, category, key, value string, num float64) {
	w.simLog.Add(w.tick, label, category, key, value, num)
	if w.thoughts != nil && category != "pulse" {
		w.thoughts.Add(w.tick, label, key, value)
	}
}

func (w *World) labelOf(h Handle) string {
	e, ok := w.registry.Lookup(h)
	if !ok {
		return "--"
	}
	switch v := e.(type) {
	case *Sentinel:
		return v.label
	case *Player:
		return "P"
	default:
		return "--"
	}
}

// Schedule queues a delayed one-shot callback relative to now.
func (w *World) Schedule(delay float64, name string, target Handle, fn func(*World)) {
	w.sched.Schedule(ScheduledEvent{At: w.elapsed + delay, Name: name, Target: target, Fn: fn})
}

// Accessors for collaborators and tests.

func (w *World) Player() *Player { return w.player }
func (w *World) Index() *Index { return w.index }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Pulses() *PulseEngine { return w.pulses }
func (w *World) Cones() []*VisionCone { return w.cones }
func (w *World) Sentinels() []*Sentinel { return w.index.Sentinels() }
func (w *World) Walls() []*Wall { return w.index.Walls() }
func (w *World) Exits() []ExitZone { return w.exits }
func (w *World) Bounds() Rect { return w.bounds }
func (w *World) Tick() int { return w.tick }
func (w *World) Elapsed() float64 { return w.elapsed }
func (w *World) SimTime() float64 { return w.simTime }
func (w *World) TimeScale() float64 { return w.timeScale }
func (w *World) Stats() SessionStats { return w.stats }
func (w *World) SimLog() *SimLog { return w.simLog }
func (w *World) Scheduler() *Scheduler { return w.sched }
