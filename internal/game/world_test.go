package game

import (
	"math/rand"
	"testing"
)

func TestRegistry_GenerationsInvalidateStaleHandles(t *testing.T) {
	r := NewRegistry()
	w := emptyWorld()
	p := &probe{h: r.Alloc(), kind: KindWall}
	r.Bind(p)

	if !r.Alive(p.h) {
		t.Fatal("bound handle not alive")
	}
	old := p.h
	r.Free(old)
	if r.Alive(old) {
		t.Fatal("freed handle still alive")
	}
	if _, ok := r.Lookup(old); ok {
		t.Fatal("stale handle resolved")
	}

	reused := r.Alloc()
	if reused.Index != old.Index || reused.Gen == old.Gen {
		t.Fatalf("slot not reused with a new generation: old %s new %s", old, reused)
	}
	r.Bind(&probe{h: reused, kind: KindWall})
	if r.Alive(old) || !r.Alive(reused) {
		t.Fatal("old handle resolved to the new occupant")
	}
	r.Free(old)
	if !r.Alive(reused) {
		t.Fatal("freeing a stale handle released the new occupant")
	}
	if !w.Registry().Alive(w.Player().Handle()) {
		t.Fatal("world player handle not alive")
	}
}

func TestRegistry_ZeroHandleNeverResolves(t *testing.T) {
	r := NewRegistry()
	r.Bind(&probe{kind: KindWall})
	if r.Alive(Handle{}) || r.Len() != 0 {
		t.Fatal("zero handle resolved")
	}
}

func TestIndex_RemoveKeepsOrder(t *testing.T) {
	w := emptyWorld()
	a := w.SpawnSentinel(V(100, 100), nil)
	b := w.SpawnSentinel(V(200, 100), nil)
	c := w.SpawnSentinel(V(300, 100), nil)

	if !w.Index().Remove(KindSentinel, b.handle) {
		t.Fatal("remove failed")
	}
	got := w.Sentinels()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("order after remove: %v", got)
	}
	if w.Index().Remove(KindSentinel, b.handle) {
		t.Fatal("second remove reported success")
	}
	if n := len(w.Index().Within(KindSentinel, V(150, 100), 160)); n != 2 {
		t.Fatalf("within found %d, want 2", n)
	}
}

func TestScheduler_OrderAndStaleTargets(t *testing.T) {
	w := emptyWorld()
	var order []string
	add := func(name string) func(*World) {
		return func(*World) { order = append(order, name) }
	}

	s := w.SpawnSentinel(V(100, 100), nil)
	w.Schedule(0.1, "second", Handle{}, add("b"))
	w.Schedule(0.05, "first", Handle{}, add("a"))
	w.Schedule(0.1, "third", Handle{}, add("c"))
	w.Schedule(0.05, "targeted", s.handle, add("stale"))
	w.eliminate(s, "test")

	for i := 0; i < 12; i++ {
		w.Step(DefaultStep, Input{})
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
	if w.Scheduler().Pending() != 0 {
		t.Fatalf("%d events still queued", w.Scheduler().Pending())
	}
}

func TestScheduler_EventScheduledForNowRunsInSamePass(t *testing.T) {
	w := emptyWorld()
	ran := 0
	w.sched.Schedule(ScheduledEvent{At: 0, Fn: func(w *World) {
		w.sched.Schedule(ScheduledEvent{At: 0, Fn: func(*World) { ran++ }})
	}})
	if n := w.sched.Run(w, 0); n != 2 || ran != 1 {
		t.Fatalf("ran %d callbacks (inner %d), want 2 (1)", n, ran)
	}
}

func TestWorld_ImpactFreezeRestores(t *testing.T) {
	w := emptyWorld()
	w.impactFreeze()

	w.Step(DefaultStep, Input{})
	if !near(w.SimTime(), DefaultStep*freezeScale, 1e-12) {
		t.Fatalf("sim time %.5f during freeze, want %.5f", w.SimTime(), DefaultStep*freezeScale)
	}

	steps := 1
	for w.TimeScale() != 1 {
		w.Step(DefaultStep, Input{})
		steps++
		if steps > 30 {
			t.Fatal("freeze never lifted")
		}
	}
	if steps < 9 || steps > 10 {
		t.Fatalf("freeze lasted %d steps, want about %.2fs", steps, freezeDuration)
	}
	if !near(w.Elapsed(), float64(steps)*DefaultStep, 1e-9) {
		t.Fatalf("elapsed %.4f drifted from wall time", w.Elapsed())
	}
}

func TestWorld_OverlappingFreezesExtend(t *testing.T) {
	w := emptyWorld()
	w.impactFreeze()
	for i := 0; i < 6; i++ {
		w.Step(DefaultStep, Input{})
	}
	second := w.Elapsed()
	w.impactFreeze()

	for w.Elapsed()+DefaultStep < second+freezeDuration-DefaultStep/2 {
		w.Step(DefaultStep, Input{})
		if w.TimeScale() != freezeScale {
			t.Fatalf("freeze lifted at %.3f, second freeze runs to %.3f", w.Elapsed(), second+freezeDuration)
		}
	}
	for i := 0; i < 2 && w.TimeScale() != 1; i++ {
		w.Step(DefaultStep, Input{})
	}
	if w.TimeScale() != 1 {
		t.Fatalf("freeze still on at %.3f", w.Elapsed())
	}
}

func TestResolveWalls_PushesOutOfEitherSide(t *testing.T) {
	w := NewWorld(Level{Bounds: Rect{W: 1280, H: 720}, Spawn: V(1260, 700), Walls: []Vec2{V(300, 300)}})
	cases := []struct {
		at, want Vec2
	}{
		{V(350, 300), V(357.5, 300)},
		{V(250, 300), V(242.5, 300)},
		{V(300, 245), V(300, 242.5)},
		{V(400, 300), V(400, 300)},
	}
	for _, c := range cases {
		got := resolveWalls(w.Index(), c.at, playerBody)
		if !near(got.X, c.want.X, 1e-9) || !near(got.Y, c.want.Y, 1e-9) {
			t.Errorf("resolveWalls(%v) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestWorld_EliminateIsIdempotent(t *testing.T) {
	ts := NewTestSim(WithSentinel(100, 100, V(100, 100)))
	s := ts.Sentinel(0)
	ts.World.eliminate(s, "test")
	ts.World.eliminate(s, "test")

	if ts.World.Stats().Kills != 1 || ts.Cues.Count(CueKill) != 1 {
		t.Fatalf("kills=%d cues=%d after double eliminate", ts.World.Stats().Kills, ts.Cues.Count(CueKill))
	}
	if !ts.SimLog.HasEntry("combat", "kill", "test while patrol") {
		t.Fatal("kill not logged")
	}
}

func TestWorld_TransitionsAreCounted(t *testing.T) {
	ts := NewTestSim(WithSentinel(100, 100, V(100, 100)))
	s := ts.Sentinel(0)
	s.Hear(V(600, 600))
	s.Hear(V(700, 600))
	s.Stun(rangedStunTime)

	st := ts.World.Stats()
	if st.Transitions != 2 || st.Alerts != 1 {
		t.Fatalf("transitions=%d alerts=%d, want 2 and 1", st.Transitions, st.Alerts)
	}
	if !ts.SimLog.HasEntry("state", "change", "chase → stunned") {
		t.Fatalf("missing stun transition:\n%s", ts.SimLog.Format())
	}
}

func TestWorld_ZeroStepIsNoop(t *testing.T) {
	w := emptyWorld()
	w.Step(0, Input{Move: V(1, 0)})
	w.Step(-1, Input{Move: V(1, 0)})
	if w.Tick() != 0 || w.Player().Pos() != V(1260, 700) {
		t.Fatal("non-positive dt advanced the world")
	}
}

func TestWorld_LongRandomRunKeepsInvariants(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		rng := rand.New(rand.NewSource(seed))
		lvl := RandomLevel(rng, 1280, 720, 12)
		lvl.Routes = append(lvl.Routes, nil, []Vec2{V(640, 150), V(640, 570)})
		ts := NewTestSim(WithLevel(lvl), WithSimSeed(seed))
		p := ts.Player()

		for i := 0; i < 1800; i++ {
			ts.Step(randomInput(rng))
			checkStaminaBounds(t, p, i)
			checkSentinelSpeeds(t, ts.World, i)
			for _, s := range ts.World.Sentinels() {
				if !lvl.Bounds.Contains(s.pos) {
					t.Fatalf("seed %d step %d: %s at %v out of bounds", seed, i, s.label, s.pos)
				}
			}
			for _, pl := range ts.World.Pulses().Live() {
				if pl.Radius > pl.MaxRadius+1e-9 || pl.Opacity < 0 || pl.Opacity > 1 {
					t.Fatalf("seed %d step %d: pulse r=%.1f/%.1f a=%.2f", seed, i, pl.Radius, pl.MaxRadius, pl.Opacity)
				}
			}
		}
		if got := ts.World.Stats().Deaths; got > 1 {
			t.Fatalf("seed %d: %d deaths in one life", seed, got)
		}
	}
}
