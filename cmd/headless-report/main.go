package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Pulse-Sense/internal/game"
	"github.com/Garsondee/Pulse-Sense/pkg/logger"
)

// scenarios maps a name to the player behaviour it scripts.
var scenarios = map[string]pilot{
	"idle":   {},
	"walk":   {steer: true},
	"sneak":  {steer: true, sneak: true},
	"sprint": {steer: true, sprint: true},
	"fight":  {steer: true, sneak: true, fight: true},
}

// pilot is a simple scripted player: head for the nearest exit and optionally
// strike or parry nearby sentinels.
type pilot struct {
	steer  bool
	sneak  bool
	sprint bool
	fight  bool
}

const (
	strikeRange = 70.0
	parryRange  = 160.0
)

type runStats struct {
	runIndex int
	seed     int64
	steps    int

	firstAlertTick int
	firstLungeTick int
	firstStunTick  int
	endTick        int

	pulses      int
	echoes      int
	transitions int

	outcome       game.RunOutcomeReason
	windowSummary *game.WindowReport
}

func main() {
	var runs int
	var seconds float64
	var seedBase int64
	var seedStep int64
	var scenario string
	var random bool
	var walls int
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.Float64Var(&seconds, "seconds", 60, "simulated seconds per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "sneak", "player script: "+strings.Join(scenarioNames(), ", "))
	flag.BoolVar(&random, "random", false, "use a random level per seed instead of the demo layout")
	flag.IntVar(&walls, "walls", 12, "wall count for random levels")
	flag.StringVar(&logLevel, "log-level", "warn", "process log level")
	flag.Parse()

	logger.Init(logLevel, "text")

	if runs <= 0 {
		logger.Log.Error("-runs must be > 0")
		os.Exit(2)
	}
	if seconds <= 0 {
		logger.Log.Error("-seconds must be > 0")
		os.Exit(2)
	}
	pl, ok := scenarios[scenario]
	if !ok {
		logger.Log.Errorf("unsupported scenario %q (supported: %s)", scenario, strings.Join(scenarioNames(), ", "))
		os.Exit(2)
	}

	fmt.Printf("=== Headless Stealth Report ===\n")
	fmt.Printf("scenario=%s runs=%d seconds=%.0f seed_base=%d seed_step=%d random=%t\n\n",
		scenario, runs, seconds, seedBase, seedStep, random)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		lvl := game.DemoLevel()
		if random {
			lvl = game.RandomLevel(rand.New(rand.NewSource(seed)), 1280, 720, walls) // #nosec G404 -- level layout
		}
		stats := runScenario(i+1, seed, lvl, pl, seconds)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// script turns the pilot into per-step input.
func (pl pilot) script(_ int, ts *game.TestSim) game.Input {
	p := ts.Player()
	if p == nil || p.Dead() || p.Won() {
		return game.Input{}
	}
	in := game.Input{Sneak: pl.sneak, Sprint: pl.sprint}
	if pl.steer {
		if exit, ok := nearestExit(ts.World.Exits(), p.Pos()); ok {
			in.Move = exit.Sub(p.Pos()).Unit()
			in.Aim = exit
		}
	}
	if !pl.fight {
		return in
	}
	for _, s := range ts.World.Sentinels() {
		d := s.Pos().Dist(p.Pos())
		switch {
		case s.State() == game.SentinelLungeWindup && d < parryRange:
			in.Parry = true
			in.Aim = s.Pos()
		case d < strikeRange && s.State() != game.SentinelLunge:
			in.Attack = true
			in.Aim = s.Pos()
		}
	}
	return in
}

func nearestExit(exits []game.ExitZone, from game.Vec2) (game.Vec2, bool) {
	best, found := game.Vec2{}, false
	bestD := 0.0
	for _, e := range exits {
		if d := e.Center.Dist(from); !found || d < bestD {
			best, bestD, found = e.Center, d, true
		}
	}
	return best, found
}

func runScenario(runIndex int, seed int64, lvl game.Level, pl pilot, seconds float64) runStats {
	ts := game.NewTestSim(
		game.WithLevel(lvl),
		game.WithSimSeed(seed),
		game.WithScript(pl.script),
	)
	sentinels := len(ts.World.Sentinels())
	reporter := game.NewSimReporter(0, false)

	maxSteps := int(seconds/ts.Dt + 0.5)
	done := func(ts *game.TestSim) bool {
		if ts.CurrentStep()%60 == 0 {
			reporter.Collect(ts.World)
		}
		p := ts.Player()
		return p == nil || p.Dead() || p.Won()
	}
	ts.RunUntil(done, maxSteps)
	reporter.Collect(ts.World)

	st := ts.World.Stats()
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		steps:          ts.CurrentStep(),
		firstAlertTick: firstTick(ts.SimLog.Entries(), "state", "change", "→ chase"),
		firstLungeTick: firstTick(ts.SimLog.Entries(), "state", "change", "→ lunge"),
		firstStunTick:  firstTick(ts.SimLog.Entries(), "state", "change", "→ stunned"),
		endTick:        ts.World.Tick(),
		pulses:         st.Pulses,
		echoes:         st.Echoes,
		transitions:    st.Transitions,
		outcome:        game.DetermineRunOutcome(ts.World, sentinels),
		windowSummary:  reporter.WindowSummary(),
	}
}

// firstTick returns the tick of the first matching entry whose value ends in
// suffix, or -1.
func firstTick(entries []game.SimLogEntry, category, key, suffix string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if suffix == "" || strings.HasSuffix(e.Value, suffix) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s reason=%s elapsed=%.1fs steps=%d\n",
		rs.outcome.Outcome, rs.outcome.Description, rs.outcome.Elapsed, rs.steps)
	fmt.Printf("phase_markers: first_alert=%d first_lunge=%d first_stun=%d end=%d\n",
		rs.firstAlertTick, rs.firstLungeTick, rs.firstStunTick, rs.endTick)
	fmt.Printf("event_totals: pulses=%d echoes=%d transitions=%d alerts=%d kills=%d parries=%d stuns=%d\n",
		rs.pulses, rs.echoes, rs.transitions, rs.outcome.Alerts, rs.outcome.Kills, rs.outcome.Parries, rs.outcome.Stuns)
	fmt.Printf("sentinels: %d/%d left  stamina=%.1f\n",
		rs.outcome.SentinelsLeft, rs.outcome.SentinelsTotal, rs.outcome.Stamina)
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

// outcomeCounts tallies outcomes in a stable order.
func outcomeCounts(all []runStats) map[game.RunOutcome]int {
	counts := make(map[game.RunOutcome]int)
	for _, rs := range all {
		counts[rs.outcome.Outcome]++
	}
	return counts
}

// detectDominantStrategy names the run shape that best describes the batch:
// "ghost" when most escapes were never heard, "brawler" when kills carry the
// escapes, "doomed" when most runs die, otherwise "mixed".
func detectDominantStrategy(all []runStats) (string, string) {
	if len(all) == 0 {
		return "mixed", "no_runs"
	}
	n := len(all)
	var ghosts, brawls, deaths int
	for _, rs := range all {
		switch {
		case rs.outcome.Outcome == game.OutcomeDied:
			deaths++
		case rs.outcome.Outcome == game.OutcomeEscaped && rs.outcome.Alerts == 0:
			ghosts++
		case rs.outcome.Kills > 0:
			brawls++
		}
	}
	switch {
	case deaths*2 > n:
		return "doomed", fmt.Sprintf("deaths=%d/%d", deaths, n)
	case ghosts*2 > n:
		return "ghost", fmt.Sprintf("unheard_escapes=%d/%d", ghosts, n)
	case brawls*2 > n:
		return "brawler", fmt.Sprintf("runs_with_kills=%d/%d", brawls, n)
	default:
		return "mixed", fmt.Sprintf("deaths=%d ghosts=%d brawls=%d of %d", deaths, ghosts, brawls, n)
	}
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	fmt.Println("=== Aggregate ===")
	counts := outcomeCounts(all)
	for _, o := range []game.RunOutcome{game.OutcomeEscaped, game.OutcomeCleared, game.OutcomeDied, game.OutcomeInconclusive} {
		fmt.Printf("  %-13s %d\n", o, counts[o])
	}

	var elapsed, pulses, alerts float64
	var firstAlerts []int
	for _, rs := range all {
		elapsed += rs.outcome.Elapsed
		pulses += float64(rs.pulses)
		alerts += float64(rs.outcome.Alerts)
		if rs.firstAlertTick >= 0 {
			firstAlerts = append(firstAlerts, rs.firstAlertTick)
		}
	}
	n := float64(len(all))
	fmt.Printf("avg: elapsed=%.1fs pulses=%.1f alerts=%.2f\n", elapsed/n, pulses/n, alerts/n)
	if len(firstAlerts) > 0 {
		sort.Ints(firstAlerts)
		fmt.Printf("first_alert_tick: min=%d median=%d max=%d (%d runs)\n",
			firstAlerts[0], firstAlerts[len(firstAlerts)/2], firstAlerts[len(firstAlerts)-1], len(firstAlerts))
	} else {
		fmt.Println("first_alert_tick: never")
	}
	strategy, reason := detectDominantStrategy(all)
	fmt.Printf("dominant=%s (%s)\n", strategy, reason)
}
