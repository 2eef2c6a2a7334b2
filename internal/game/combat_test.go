package game

import (
	"math"
	"testing"
)

// lungeDuel places a sentinel 200px left of the player and alerts it.
func lungeDuel(opts ...SimOption) (*TestSim, *Sentinel) {
	base := []SimOption{
		WithPlayerAt(500, 360),
		WithSentinel(300, 360, V(300, 360)),
	}
	ts := NewTestSim(append(base, opts...)...)
	s := ts.Sentinel(0)
	s.Hear(ts.Player().pos)
	return ts, s
}

func TestCombat_ScenarioB_ParryStunsLunge(t *testing.T) {
	ts, s := lungeDuel(WithScript(func(_ int, ts *TestSim) Input {
		if s := ts.Sentinel(0); s != nil && s.State() == SentinelLunge {
			return Input{Parry: true, Aim: s.Pos()}
		}
		return Input{}
	}))
	p := ts.Player()

	if ts.RunUntil(func(ts *TestSim) bool { return p.ParrySuccess() }, 240) < 0 {
		t.Fatalf("parry never landed:\n%s", ts.SimLog.Format())
	}
	if p.Dead() {
		t.Fatal("player died despite parrying")
	}
	if s.state != SentinelStunned || s.stunTimer != fullStunTime {
		t.Fatalf("sentinel %s stun=%.2f, want stunned for %.1fs", s.state, s.stunTimer, fullStunTime)
	}
	if _, ok := s.LungeDirection(); ok {
		t.Fatal("parried sentinel kept its lunge direction")
	}
	if got := ts.World.Stats().Parries; got != 1 {
		t.Fatalf("parries = %d, want 1", got)
	}
	if ts.Cues.Count(CueParrySuccess) != 1 {
		t.Fatalf("parry_success cues = %d, want 1", ts.Cues.Count(CueParrySuccess))
	}
	if ts.World.TimeScale() != freezeScale {
		t.Fatalf("time scale %.2f, want impact freeze %.2f", ts.World.TimeScale(), freezeScale)
	}

	parryPulse := false
	for _, pl := range ts.World.Pulses().Live() {
		if pl.Category == PulseParry {
			parryPulse = true
			if !pl.Echo {
				t.Fatal("parry pulse must not alert sentinels")
			}
		}
	}
	if !parryPulse {
		t.Fatal("no parry pulse emitted")
	}

	ts.RunSteps(60)
	if p.Dead() || s.state != SentinelStunned {
		t.Fatalf("after parry: dead=%v sentinel=%s", p.Dead(), s.state)
	}
	if ts.World.TimeScale() != 1 {
		t.Fatalf("freeze never lifted (scale %.2f)", ts.World.TimeScale())
	}
}

func TestCombat_ScenarioC_UnparriedLungeKillsOnce(t *testing.T) {
	ts, s := lungeDuel()
	p := ts.Player()

	if ts.RunUntil(func(ts *TestSim) bool { return p.Dead() }, 240) < 0 {
		t.Fatalf("player survived an unparried lunge:\n%s", ts.SimLog.Format())
	}
	if !ts.SimLog.HasEntry("combat", "player_death", "lunge by S0") {
		t.Fatalf("death not attributed to the lunge:\n%s", ts.SimLog.Format())
	}

	ts.RunFor(2)
	st := ts.World.Stats()
	if st.Deaths != 1 || ts.Cues.Count(CueDeath) != 1 {
		t.Fatalf("deaths=%d cues=%d, want exactly one", st.Deaths, ts.Cues.Count(CueDeath))
	}
	if n := ts.SimLog.CountCategory("combat", "player_death"); n != 1 {
		t.Fatalf("player_death entries = %d, want 1", n)
	}
	if ts.Session.Restarts != 1 {
		t.Fatalf("restarts = %d, want 1", ts.Session.Restarts)
	}

	pending := ts.World.Scheduler().Pending()
	ts.World.killPlayer(p, s, "again")
	if ts.World.Stats().Deaths != 1 || ts.World.Scheduler().Pending() != pending {
		t.Fatal("second kill of a dead player had effects")
	}
}

func TestCombat_LungeMissGoesSearching(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(1000, 360),
		WithSentinel(200, 200, V(200, 200)),
	)
	s := ts.Sentinel(0)
	s.lungeDir, s.hasLungeDir = V(0, 1), true
	s.lungeTimer = lungeTime
	s.setState(SentinelLunge)

	if ts.RunUntil(func(*TestSim) bool { return s.state != SentinelLunge }, 30) < 0 {
		t.Fatal("lunge never ended")
	}
	if s.state != SentinelSearch || s.hasLungeDir {
		t.Fatalf("after miss: state %s lungeDir=%v", s.state, s.hasLungeDir)
	}
	if !near(s.pos.Y, 200+sentinelLungeSpeed*lungeTime, sentinelLungeSpeed*DefaultStep+1e-6) {
		t.Fatalf("lunge travelled to y=%.1f", s.pos.Y)
	}
	if ts.Player().Dead() {
		t.Fatal("far player died")
	}
}

func TestCombat_ScenarioD_BackstabStunnedSentinel(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(400, 360),
		WithSentinel(440, 360, V(440, 360)),
	)
	s := ts.Sentinel(0)
	s.facing = math.Pi
	s.Stun(fullStunTime)

	ts.Step(Input{Attack: true, Sneak: true, Aim: V(440, 360)})

	if ts.World.Registry().Alive(s.handle) {
		t.Fatal("stunned sentinel survived a backstab")
	}
	if len(ts.World.Sentinels()) != 0 {
		t.Fatal("eliminated sentinel still indexed")
	}
	if ts.World.Stats().Kills != 1 || ts.Cues.Count(CueKill) != 1 {
		t.Fatalf("kills=%d cues=%d", ts.World.Stats().Kills, ts.Cues.Count(CueKill))
	}
	if ts.World.TimeScale() != freezeScale {
		t.Fatal("kill did not trigger the impact freeze")
	}
	if got := ts.Player().Stamina(); got != staminaMax-staminaAttackCost {
		t.Fatalf("stamina %.1f after attack", got)
	}
}

func TestCombat_BackstabNeedsSentinelFacingAway(t *testing.T) {
	cases := []struct {
		name   string
		facing float64
		kill   bool
	}{
		{"facing player", math.Pi, false},
		{"facing away", 0, true},
		{"side on", math.Pi / 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := NewTestSim(
				WithPlayerAt(400, 360),
				WithSentinel(450, 360, V(450, 360)),
			)
			s := ts.Sentinel(0)
			s.facing = tc.facing

			ts.Step(Input{Attack: true, Sneak: true, Aim: V(450, 360)})

			if killed := !ts.World.Registry().Alive(s.handle); killed != tc.kill {
				t.Fatalf("killed=%v, want %v", killed, tc.kill)
			}
			if ts.Player().Dead() {
				t.Fatal("player died at 50px")
			}
		})
	}
}

func TestCombat_BackstabTakesOneSentinel(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(400, 360),
		WithSentinel(450, 360, V(450, 360)),
		WithSentinel(450, 380, V(450, 380)),
	)
	ts.Step(Input{Attack: true, Sneak: true, Aim: V(450, 360)})

	if got := ts.World.Stats().Kills; got != 1 {
		t.Fatalf("kills = %d, want 1", got)
	}
	if got := len(ts.World.Sentinels()); got != 1 {
		t.Fatalf("%d sentinels left, want 1", got)
	}
}

func TestCombat_BackstabOutOfReach(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(400, 360),
		WithSentinel(470, 360, V(470, 360)),
		WithSentinel(350, 360, V(350, 360)),
	)
	ts.Step(Input{Attack: true, Sneak: true, Aim: V(500, 360)})

	if got := ts.World.Stats().Kills; got != 0 {
		t.Fatalf("kills = %d; one target is too far and the other is behind", got)
	}
}

func TestCombat_ConeStunsCloseAndRevealsFar(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(400, 360),
		WithSentinel(470, 360, V(470, 360)),
		WithSentinel(600, 360, V(600, 360)),
		WithSentinel(300, 360, V(300, 360)),
	)
	inReach, far, behind := ts.Sentinel(0), ts.Sentinel(1), ts.Sentinel(2)

	ts.Step(Input{Attack: true, Aim: V(500, 360)})

	if inReach.state != SentinelStunned || inReach.stunTimer != rangedStunTime {
		t.Fatalf("close sentinel %s stun=%.2f", inReach.state, inReach.stunTimer)
	}
	if far.state == SentinelStunned {
		t.Fatal("sentinel outside stun range was stunned")
	}
	if far.reveal != 1 {
		t.Fatalf("far sentinel reveal %.2f, want 1", far.reveal)
	}
	if behind.reveal != 0 {
		t.Fatalf("sentinel behind the player revealed (%.2f)", behind.reveal)
	}
	if ts.World.Stats().Stuns != 1 || ts.Cues.Count(CueStun) != 1 {
		t.Fatalf("stuns=%d cues=%d", ts.World.Stats().Stuns, ts.Cues.Count(CueStun))
	}
	if ts.World.Stats().Pulses != 0 {
		t.Fatal("cone attack emitted a pulse")
	}

	far.reveal = 0
	ts.Step(Input{})
	if far.reveal != 0 {
		t.Fatal("cone revealed the same sentinel twice")
	}
	if len(ts.World.Cones()) != 1 {
		t.Fatalf("%d cones live, want 1", len(ts.World.Cones()))
	}
}

func TestCombat_ConeDoesNotRestun(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(400, 360),
		WithSentinel(470, 360, V(470, 360)),
	)
	s := ts.Sentinel(0)
	s.Stun(fullStunTime)

	ts.Step(Input{Attack: true, Aim: V(500, 360)})
	if ts.World.Stats().Stuns != 0 {
		t.Fatal("already stunned sentinel counted as a new stun")
	}
	if s.stunTimer < fullStunTime-DefaultStep-1e-9 {
		t.Fatalf("cone shortened a full stun to %.2f", s.stunTimer)
	}
}

func TestCombat_ContactRules(t *testing.T) {
	cases := []struct {
		name  string
		at    Vec2
		setup func(*Sentinel)
		dies  bool
	}{
		{"patrol inside radius", V(420, 360), nil, true},
		{"patrol exactly at radius", V(440, 360), nil, false},
		{"windup at close range", V(410, 360), func(s *Sentinel) {
			s.setState(SentinelLungeWindup)
			s.windupTimer = 100
		}, false},
		{"stunned on top of player", V(400, 360), func(s *Sentinel) {
			s.Stun(100)
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := NewTestSim(
				WithPlayerAt(400, 360),
				WithSentinel(tc.at.X, tc.at.Y, tc.at),
			)
			if tc.setup != nil {
				tc.setup(ts.Sentinel(0))
			}
			steps := 1
			if !tc.dies {
				steps = 30
			}
			ts.RunSteps(steps)

			if got := ts.Player().Dead(); got != tc.dies {
				t.Fatalf("dead=%v, want %v\n%s", got, tc.dies, ts.SimLog.Format())
			}
			if tc.dies && !ts.SimLog.HasEntry("combat", "player_death", "contact") {
				t.Fatal("death not logged as contact")
			}
		})
	}
}
