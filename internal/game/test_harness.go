package game

import (
	"math/rand"
)

// DefaultStep is the fixed timestep the harness advances by (60 Hz).
const DefaultStep = 1.0 / 60.0

// CueRecorder is a CueSink that counts every cue it receives.
type CueRecorder struct {
	Played []Cue
}

// PlayCue records c.
func (r *CueRecorder) PlayCue(c Cue) { r.Played = append(r.Played, c) }

// Count returns how many times c was played.
func (r *CueRecorder) Count(c Cue) int {
	n := 0
	for _, p := range r.Played {
		if p == c {
			n++
		}
	}
	return n
}

// SessionRecorder is a Session that counts lifecycle signals.
type SessionRecorder struct {
	Restarts int
	Wins     int
}

func (s *SessionRecorder) Restart() { s.Restarts++ }
func (s *SessionRecorder) Win() { s.Wins++ }

// ScriptFunc supplies the player input for the given step number (starting at 1).
type ScriptFunc func(step int, ts *TestSim) Input

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a World at a fixed timestep with scripted input and
// records cues, session signals and structured events.
type TestSim struct {
	World   *World
	SimLog  *SimLog
	Cues    *CueRecorder
	Session *SessionRecorder
	Dt      float64

	level  Level
	seed   int64
	script ScriptFunc
	steps  int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // geometry, seed and timestep; applied first
	simOptEntity                      // sentinels; applied after the world exists
	simOptScript                      // input scripts; applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapSize sets the playfield dimensions.
func WithMapSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level.Bounds = Rect{W: w, H: h}
	}}
}

// WithLevel replaces the whole level geometry.
func WithLevel(l Level) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level = l
	}}
}

// WithWall adds a wall centred at (x,y).
func WithWall(x, y float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level.Walls = append(ts.level.Walls, V(x, y))
	}}
}

// WithPlayerAt sets the player spawn point.
func WithPlayerAt(x, y float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level.Spawn = V(x, y)
	}}
}

// WithExit adds an exit zone.
func WithExit(x, y, r float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level.Exits = append(ts.level.Exits, ExitZone{Center: V(x, y), Radius: r})
	}}
}

// WithSimSeed sets the RNG seed for deterministic runs.
func WithSimSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithVerbose enables per-pulse logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithStep overrides the fixed timestep.
func WithStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Dt = dt
	}}
}

// WithSentinel adds a sentinel at (x,y) walking the given cyclic route.
func WithSentinel(x, y float64, route ...Vec2) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.SpawnSentinel(V(x, y), route)
	}}
}

// WithInput holds the same input on every step.
func WithInput(in Input) SimOption {
	return SimOption{simOptScript, func(ts *TestSim) {
		ts.script = func(int, *TestSim) Input { return in }
	}}
}

// WithScript drives the player from a per-step function.
func WithScript(fn ScriptFunc) SimOption {
	return SimOption{simOptScript, func(ts *TestSim) {
		ts.script = fn
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (geometry, seed, verbose, timestep)
//  2. Build the World
//  3. Entities
//  4. Input script
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		SimLog:  NewSimLog(false),
		Cues:    &CueRecorder{},
		Session: &SessionRecorder{},
		Dt:      DefaultStep,
		seed:    1,
		level: Level{
			Bounds: Rect{W: 1280, H: 720},
			Spawn:  V(640, 360),
		},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.World = NewWorld(ts.level,
		WithSeed(ts.seed),
		WithCues(ts.Cues),
		WithSession(ts.Session),
		WithSimLog(ts.SimLog),
	)
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptScript {
			o.fn(ts)
		}
	}
	return ts
}

// Player is the input-driven player.
func (ts *TestSim) Player() *Player { return ts.World.Player() }

// Sentinel returns the i-th live sentinel, or nil.
func (ts *TestSim) Sentinel(i int) *Sentinel {
	all := ts.World.Sentinels()
	if i < 0 || i >= len(all) {
		return nil
	}
	return all[i]
}

// Rand returns a generator seeded from the sim seed, for scripts that need noise.
func (ts *TestSim) Rand() *rand.Rand {
	return rand.New(rand.NewSource(ts.seed)) // #nosec G404 -- test harness
}

// Step advances one step with explicit input, bypassing the script.
func (ts *TestSim) Step(in Input) {
	ts.steps++
	ts.World.Step(ts.Dt, in)
}

// RunSteps advances the simulation n steps using the script (or idle input).
func (ts *TestSim) RunSteps(n int) {
	for i := 0; i < n; i++ {
		ts.Step(ts.nextInput())
	}
}

// RunFor advances the simulation by roughly the given number of seconds.
func (ts *TestSim) RunFor(seconds float64) {
	ts.RunSteps(int(seconds/ts.Dt + 0.5))
}

// RunUntil advances the simulation up to maxSteps, stopping early if predicate
// returns true. Returns the step at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxSteps int) int {
	for i := 0; i < maxSteps; i++ {
		ts.Step(ts.nextInput())
		if predicate(ts) {
			return ts.steps
		}
	}
	return -1
}

func (ts *TestSim) nextInput() Input {
	if ts.script == nil {
		return Input{}
	}
	return ts.script(ts.steps+1, ts)
}

// CurrentStep returns how many steps have run.
func (ts *TestSim) CurrentStep() int {
	return ts.steps
}

// Snapshot returns the world's current render snapshot.
func (ts *TestSim) Snapshot() Snapshot {
	return ts.World.Snapshot()
}
