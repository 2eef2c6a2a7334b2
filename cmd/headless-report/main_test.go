package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/Pulse-Sense/internal/game"
)

func TestOutcomeCounts(t *testing.T) {
	all := []runStats{
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeEscaped}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeDied}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeEscaped}},
	}
	counts := outcomeCounts(all)
	if counts[game.OutcomeEscaped] != 2 || counts[game.OutcomeDied] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestDetectDominantStrategy_Ghost(t *testing.T) {
	all := []runStats{
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeEscaped}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeEscaped}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeDied, Alerts: 2}},
	}
	got, reason := detectDominantStrategy(all)
	if got != "ghost" {
		t.Fatalf("expected ghost, got %s (%s)", got, reason)
	}
	if !strings.Contains(reason, "unheard_escapes=2/3") {
		t.Fatalf("unexpected reason %s", reason)
	}
}

func TestDetectDominantStrategy_Doomed(t *testing.T) {
	all := []runStats{
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeDied}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeDied}},
		{outcome: game.RunOutcomeReason{Outcome: game.OutcomeEscaped, Alerts: 1, Kills: 1}},
	}
	if got, reason := detectDominantStrategy(all); got != "doomed" {
		t.Fatalf("expected doomed, got %s (%s)", got, reason)
	}
}

func TestDetectDominantStrategy_Empty(t *testing.T) {
	if got, _ := detectDominantStrategy(nil); got != "mixed" {
		t.Fatalf("expected mixed for no runs, got %s", got)
	}
}

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: "state", Key: "change", Value: "patrol → search"},
		{Tick: 9, Category: "state", Key: "change", Value: "search → chase"},
		{Tick: 12, Category: "state", Key: "change", Value: "patrol → chase"},
	}
	if got := firstTick(entries, "state", "change", "→ chase"); got != 9 {
		t.Fatalf("first chase tick = %d, want 9", got)
	}
	if got := firstTick(entries, "state", "change", "→ lunge"); got != -1 {
		t.Fatalf("missing marker = %d, want -1", got)
	}
}

func TestNearestExit(t *testing.T) {
	exits := []game.ExitZone{
		{Center: game.V(1000, 0), Radius: 40},
		{Center: game.V(100, 0), Radius: 40},
	}
	got, ok := nearestExit(exits, game.V(0, 0))
	if !ok || got != game.V(100, 0) {
		t.Fatalf("nearest = %v ok=%v", got, ok)
	}
	if _, ok := nearestExit(nil, game.V(0, 0)); ok {
		t.Fatal("no exits should report not found")
	}
}

func TestIdleScenarioRunsToTimeLimit(t *testing.T) {
	rs := runScenario(1, 7, game.DemoLevel(), scenarios["idle"], 2)
	if rs.steps != 120 {
		t.Fatalf("steps = %d, want 120", rs.steps)
	}
	if rs.outcome.Outcome != game.OutcomeInconclusive {
		t.Fatalf("idle player outcome = %s, want inconclusive", rs.outcome.Outcome)
	}
	if rs.outcome.SentinelsTotal != 2 {
		t.Fatalf("sentinels = %d, want 2", rs.outcome.SentinelsTotal)
	}
}
