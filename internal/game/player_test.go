package game

import (
	"math/rand"
	"testing"
)

func randomInput(rng *rand.Rand) Input {
	var in Input
	if rng.Float64() < 0.8 {
		in.Move = V(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	in.Sprint = rng.Float64() < 0.5
	in.Sneak = rng.Float64() < 0.2
	in.Dash = rng.Float64() < 0.05
	in.Attack = rng.Float64() < 0.05
	in.Parry = rng.Float64() < 0.05
	in.Aim = V(rng.Float64()*1280, rng.Float64()*720)
	return in
}

func TestPlayer_StaminaStaysInRange(t *testing.T) {
	ts := NewTestSim()
	rng := rand.New(rand.NewSource(7))
	p := ts.Player()

	for i := 0; i < 3000; i++ {
		wasExhausted := p.exhausted && p.stamina < exhaustionRecovered
		ts.Step(randomInput(rng))
		checkStaminaBounds(t, p, i)
		if wasExhausted && p.tier == TierSprint {
			t.Fatalf("step %d: sprinting while exhausted", i)
		}
		if !ts.World.Bounds().Contains(p.pos) {
			t.Fatalf("step %d: player left the field at %v", i, p.pos)
		}
	}
}

func TestPlayer_ScenarioF_ExhaustionHysteresis(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(100, 360),
		WithInput(Input{Move: V(1, 0), Sprint: true}),
	)
	p := ts.Player()
	p.stamina = 1

	if ts.RunUntil(func(*TestSim) bool { return p.exhausted }, 10) < 0 {
		t.Fatalf("never exhausted, stamina %.2f", p.stamina)
	}
	if p.stamina != 0 {
		t.Fatalf("exhausted at stamina %.2f, want 0", p.stamina)
	}

	steps := 0
	for p.exhausted {
		if p.stamina >= exhaustionRecovered {
			t.Fatalf("still exhausted at stamina %.2f", p.stamina)
		}
		ts.RunSteps(1)
		steps++
		if p.tier != TierWalk {
			t.Fatalf("tier %s while exhausted, want walk", p.tier)
		}
		if steps > 200 {
			t.Fatal("exhaustion never cleared")
		}
	}
	if p.stamina < exhaustionRecovered {
		t.Fatalf("exhaustion cleared at %.2f", p.stamina)
	}
	if steps < 115 || steps > 125 {
		t.Fatalf("recovery took %d steps, want about 2s of walking", steps)
	}

	before := p.stamina
	ts.RunSteps(1)
	if p.tier != TierSprint || p.stamina >= before {
		t.Fatalf("sprint did not resume: tier %s stamina %.2f -> %.2f", p.tier, before, p.stamina)
	}
}

func TestPlayer_FirstStepPulsesImmediately(t *testing.T) {
	ts := NewTestSim()
	walk := Input{Move: V(1, 0)}

	ts.Step(walk)
	if got := ts.World.Stats().Pulses; got != 1 {
		t.Fatalf("pulses after first step = %d, want 1", got)
	}
	if ts.Cues.Count(CuePulse) != 1 {
		t.Fatal("movement pulse had no cue")
	}

	for i := 0; i < 40; i++ {
		ts.Step(walk)
	}
	if got := ts.World.Stats().Pulses; got != 1 {
		t.Fatalf("pulses before the walk interval = %d, want 1", got)
	}
	for i := 0; i < 4; i++ {
		ts.Step(walk)
	}
	if got := ts.World.Stats().Pulses; got != 2 {
		t.Fatalf("pulses after the walk interval = %d, want 2", got)
	}

	ts.Step(Input{})
	ts.Step(walk)
	if got := ts.World.Stats().Pulses; got != 3 {
		t.Fatalf("pulses after stop-start = %d, want 3", got)
	}
}

func TestPlayer_SprintPulsesFasterAndLarger(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(100, 360), WithInput(Input{Move: V(1, 0), Sprint: true}))
	ts.RunSteps(1)

	live := ts.World.Pulses().Live()
	if len(live) != 1 || live[0].MaxRadius != sprintPulseRadius {
		t.Fatalf("first sprint pulse: %d live", len(live))
	}
	ts.RunFor(1)
	if got := ts.World.Stats().Pulses; got < 4 {
		t.Fatalf("sprint emitted %d pulses in over a second, want at least 4", got)
	}
}

func TestPlayer_SneakIsSilent(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(200, 360), WithInput(Input{Move: V(1, 0), Sneak: true}))
	p := ts.Player()
	ts.RunSteps(60)

	if got := ts.World.Stats().Pulses; got != 0 {
		t.Fatalf("sneaking emitted %d pulses", got)
	}
	if p.tier != TierSneak {
		t.Fatalf("tier %s, want sneak", p.tier)
	}
	if !near(p.pos.X, 200+sneakSpeed, 1e-6) {
		t.Fatalf("sneak moved to x=%.2f, want %.0f", p.pos.X, 200+sneakSpeed)
	}
}

func TestPlayer_Dash(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(200, 360))
	p := ts.Player()

	ts.Step(Input{Move: V(1, 0), Dash: true})
	if !p.dashing || p.tier != TierDash {
		t.Fatal("dash did not start")
	}
	if p.stamina != staminaMax-staminaDashCost {
		t.Fatalf("stamina %.2f after dash, want %.0f", p.stamina, staminaMax-staminaDashCost)
	}
	live := ts.World.Pulses().Live()
	if len(live) != 1 || live[0].MaxRadius != dashPulseRadius || live[0].Duration != dashPulseDuration {
		t.Fatalf("dash pulse missing or wrong size (%d live)", len(live))
	}
	if ts.Cues.Count(CueDash) != 1 {
		t.Fatal("no dash cue")
	}

	for i := 0; i < 8; i++ {
		ts.Step(Input{Move: V(1, 0)})
	}
	if got := ts.World.Stats().Pulses; got != 1 {
		t.Fatalf("pulses while dashing = %d, want only the dash pulse", got)
	}
	if p.pos.X < 200+dashSpeed*dashTime*0.9 {
		t.Fatalf("dash covered too little ground: x=%.1f", p.pos.X)
	}
}

func TestPlayer_DashRejected(t *testing.T) {
	t.Run("low stamina", func(t *testing.T) {
		ts := NewTestSim()
		p := ts.Player()
		p.stamina = staminaDashCost - 1
		ts.Step(Input{Move: V(1, 0), Dash: true})
		if p.dashing || p.tier != TierWalk {
			t.Fatalf("dash at %.0f stamina: dashing=%v tier=%s", staminaDashCost-1, p.dashing, p.tier)
		}
	})
	t.Run("standing still", func(t *testing.T) {
		ts := NewTestSim()
		p := ts.Player()
		ts.Step(Input{Dash: true})
		if p.dashing || p.stamina != staminaMax {
			t.Fatalf("stationary dash: dashing=%v stamina=%.1f", p.dashing, p.stamina)
		}
	})
}

func TestPlayer_AttackCostAndDuration(t *testing.T) {
	ts := NewTestSim()
	p := ts.Player()

	ts.Step(Input{Attack: true, Aim: V(800, 360)})
	if p.combat != CombatAttack {
		t.Fatalf("combat %s, want attack", p.combat)
	}
	if p.stamina != staminaMax-staminaAttackCost {
		t.Fatalf("stamina %.2f after attack", p.stamina)
	}
	if ts.Cues.Count(CueAttack) != 1 {
		t.Fatal("no attack cue")
	}

	ts.Step(Input{Attack: true, Aim: V(800, 360)})
	if ts.Cues.Count(CueAttack) != 1 {
		t.Fatal("second attack started mid-swing")
	}

	ts.RunSteps(20)
	if p.combat != CombatIdle {
		t.Fatalf("attack still %s after %.2fs", p.combat, 21*DefaultStep)
	}
}

func TestPlayer_CombatRejected(t *testing.T) {
	t.Run("low stamina", func(t *testing.T) {
		ts := NewTestSim()
		p := ts.Player()
		p.stamina = 5
		ts.Step(Input{Attack: true})
		if p.combat != CombatIdle {
			t.Fatal("attack started without stamina")
		}
	})
	t.Run("exhausted", func(t *testing.T) {
		ts := NewTestSim()
		p := ts.Player()
		p.stamina, p.exhausted = staminaAttackCost, true
		ts.Step(Input{Attack: true})
		if p.combat != CombatIdle {
			t.Fatal("attack started while exhausted")
		}
	})
	t.Run("dashing", func(t *testing.T) {
		ts := NewTestSim()
		p := ts.Player()
		ts.Step(Input{Move: V(1, 0), Dash: true})
		ts.Step(Input{Move: V(1, 0), Parry: true})
		if p.combat != CombatIdle {
			t.Fatal("parry started mid-dash")
		}
	})
}

func TestPlayer_ParryResetsSuccessFlag(t *testing.T) {
	ts := NewTestSim()
	p := ts.Player()
	p.parrySuccess = true

	ts.Step(Input{Parry: true})
	if p.combat != CombatParry || p.parrySuccess {
		t.Fatalf("combat %s parrySuccess=%v", p.combat, p.parrySuccess)
	}
	if p.stamina != staminaMax-staminaParryCost {
		t.Fatalf("stamina %.2f after parry", p.stamina)
	}
	if ts.Cues.Count(CueParry) != 1 {
		t.Fatal("no parry cue")
	}
}

func TestPlayer_ExitWinsOnce(t *testing.T) {
	ts := NewTestSim(
		WithPlayerAt(600, 360),
		WithExit(700, 360, 40),
		WithInput(Input{Move: V(1, 0)}),
	)
	ts.RunFor(3)

	if !ts.Player().Won() {
		t.Fatal("player walked through the exit without winning")
	}
	if ts.World.Stats().Wins != 1 || ts.Session.Wins != 1 || ts.Cues.Count(CueWin) != 1 {
		t.Fatalf("wins=%d session=%d cues=%d, want one each",
			ts.World.Stats().Wins, ts.Session.Wins, ts.Cues.Count(CueWin))
	}
	if !ts.SimLog.HasEntry("session", "win", "reached exit") {
		t.Fatal("win not logged")
	}
}
