package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"
)

// hudScale is the integer upscale factor applied to HUD text (2 = 2x larger).
const hudScale = 2

const (
	maxPeek       = 150.0 // how far the camera leans toward the cursor
	cameraLerp    = 8.0
	winRestart    = 2.5 // seconds the win banner stays up before the next run
	shakeDash     = 3.0
	shakeDeath    = 30.0
	shakeKill     = 8.0
	shakeDecay    = 60.0 // shake magnitude lost per second
	shardCount    = 15
	shardLife     = 0.5
	reportEvery   = 60 // ticks between reporter samples
	fixedStep     = 1.0 / 60.0
	defaultWorldW = 1280
	defaultWorldH = 720
)

// Config holds the front-end knobs. cmd/game fills it from the environment.
type Config struct {
	Seed         int64 // 0 = time-based
	WindowWidth  int
	WindowHeight int
	WorldWidth   float64
	WorldHeight  float64
	Walls        int
	Demo         bool // fixed DemoLevel instead of a random layout
}

// SnapshotSink receives the world state after every step.
type SnapshotSink interface {
	Publish(s Snapshot)
}

// Option configures a Game.
type Option func(*Game)

// WithAudio routes cues to a sound backend.
func WithAudio(c CueSink) Option {
	return func(g *Game) { g.audio = c }
}

// WithLog attaches the process logger.
func WithLog(l logrus.FieldLogger) Option {
	return func(g *Game) { g.log = l }
}

// WithSpectator publishes every step's snapshot to s.
func WithSpectator(s SnapshotSink) Option {
	return func(g *Game) { g.spectator = s }
}

// shard is one piece of the player's death burst. Purely cosmetic.
type shard struct {
	pos, vel Vec2
	rot      float64
	life     float64
}

// frontSession is the Session the ebiten front hands to each World. Restarts
// are deferred until the current step has finished.
type frontSession struct {
	g *Game
}

func (s frontSession) Restart() { s.g.restartPending = true }

func (s frontSession) Win() {
	g := s.g
	g.showBanner("EXIT REACHED", winRestart)
	g.world.Schedule(winRestart, "next-run", Handle{}, func(*World) { g.restartPending = true })
}

type Game struct {
	cfg    Config
	width  int
	height int

	world *World
	level Level
	rng   *rand.Rand
	runs  int

	audio     CueSink
	log       logrus.FieldLogger
	spectator SnapshotSink

	thoughtLog *ThoughtLog
	reporter   *SimReporter
	trace      *sentinelTrace
	inspector  Inspector

	// Camera centre in world space.
	camX, camY float64
	shake      float64

	shards      []shard
	banner      string
	bannerTimer float64

	restartPending bool
	showHUD        bool
	showLog        bool
	revealAll      bool

	simSpeed  float64 // 0=paused, 0.5, 1, 2
	tickAccum float64

	hudFace *text.GoXFace
	hudBuf  *ebiten.Image
	inspBuf *ebiten.Image
}

// New builds the windowed game and its first run.
func New(cfg Config, opts ...Option) *Game {
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = defaultWorldW + logPanelWidth
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = defaultWorldH
	}
	if cfg.WorldWidth <= 0 {
		cfg.WorldWidth = defaultWorldW
	}
	if cfg.WorldHeight <= 0 {
		cfg.WorldHeight = defaultWorldH
	}
	if cfg.Walls < 0 {
		cfg.Walls = 0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:        cfg,
		width:      cfg.WindowWidth,
		height:     cfg.WindowHeight,
		rng:        rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay randomness
		audio:      NopCues{},
		thoughtLog: NewThoughtLog(),
		showHUD:    true,
		showLog:    true,
		simSpeed:   1,
		hudFace:    text.NewGoXFace(basicfont.Face7x13),
	}
	for _, o := range opts {
		o(g)
	}
	if g.log == nil {
		g.log = discardLogger()
	}
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	g.log.WithFields(logrus.Fields{"seed": seed, "demo": cfg.Demo}).Info("game created")
	g.newRun()
	return g
}

// newRun discards the current world and builds a fresh one.
func (g *Game) newRun() {
	g.runs++
	if g.cfg.Demo {
		g.level = DemoLevel()
	} else {
		g.level = RandomLevel(g.rng, g.cfg.WorldWidth, g.cfg.WorldHeight, g.cfg.Walls)
	}
	g.world = NewWorld(g.level,
		WithSeed(g.rng.Int63()),
		WithCues(g),
		WithSession(frontSession{g: g}),
		WithLogger(g.log.WithField("run", g.runs)),
		WithThoughtLog(g.thoughtLog),
	)
	g.reporter = NewSimReporter(reportWindowTicks, true)
	g.trace = newSentinelTrace(traceCapacity)
	g.inspector.selected = nil
	g.shards = g.shards[:0]
	g.restartPending = false
	g.camX, g.camY = g.level.Spawn.X, g.level.Spawn.Y
	g.thoughtLog.Add(0, "--", "run", "run started")
	g.log.WithFields(logrus.Fields{"run": g.runs, "walls": len(g.level.Walls), "sentinels": len(g.level.Routes)}).Info("run started")
}

// PlayCue lets the front react to cues (shake, shards) before forwarding them
// to the audio backend.
func (g *Game) PlayCue(c Cue) {
	switch c {
	case CueDash:
		g.shake = math.Max(g.shake, shakeDash)
	case CueKill, CueParrySuccess:
		g.shake = math.Max(g.shake, shakeKill)
	case CueDeath:
		g.shake = shakeDeath
		g.spawnShards()
	}
	g.audio.PlayCue(c)
}

func (g *Game) spawnShards() {
	p := g.world.Player()
	if p == nil {
		return
	}
	for i := 0; i < shardCount; i++ {
		a := g.rng.Float64() * 2 * math.Pi // #nosec G404 -- cosmetic
		speed := 100 + g.rng.Float64()*100 // #nosec G404 -- cosmetic
		g.shards = append(g.shards, shard{
			pos:  p.pos,
			vel:  FromAngle(a).Scale(speed),
			rot:  g.rng.Float64() * 2 * math.Pi, // #nosec G404 -- cosmetic
			life: shardLife,
		})
	}
}

func (g *Game) showBanner(msg string, seconds float64) {
	g.banner = msg
	g.bannerTimer = seconds
}

func (g *Game) Update() error {
	in := g.handleInput()

	if g.simSpeed > 0 {
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1.0 {
			g.tickAccum -= 1.0
			g.simTick(in)
			// Presses apply to the first sub-step only.
			in.Dash, in.Attack, in.Parry = false, false, false
		}
	}

	g.updateEffects(fixedStep)
	g.updateCamera(fixedStep)

	if g.restartPending {
		g.newRun()
	}
	return nil
}

// simTick runs one world step plus the front's per-step bookkeeping.
func (g *Game) simTick(in Input) {
	g.world.Step(fixedStep, in)
	g.trace.record(g.world)

	if g.world.Tick()%reportEvery == 0 {
		g.reporter.Collect(g.world)
	}
	if g.spectator != nil {
		g.spectator.Publish(g.world.Snapshot())
	}
}

// handleInput maps keyboard and mouse state onto a core Input and processes
// front-end toggles.
func (g *Game) handleInput() Input {
	var in Input
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move.Y = -1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move.Y = 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move.X = -1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move.X = 1
	}
	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Sneak = ebiten.IsKeyPressed(ebiten.KeyControl)
	in.Dash = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Attack = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.Parry = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	mx, my := ebiten.CursorPosition()
	in.Aim = g.screenToWorld(mx, my)

	// H: toggle HUD key legend.
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	// Tab: toggle event log panel.
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showLog = !g.showLog
	}
	// F1: debug reveal of every entity.
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.revealAll = !g.revealAll
	}
	// R: restart the run by hand.
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restartPending = true
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 && speeds[i+1] > g.simSpeed {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	// Q: inspect the sentinel nearest the cursor. I: raw/curated toggle.
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.handleInspectorPick(in.Aim)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}
	// C: copy the selected sentinel's debug report to the clipboard.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyDebugReport()
	}
	return in
}

func (g *Game) copyDebugReport() {
	report := g.sentinelDebugReport(g.inspector.selected, 300)
	if report == "" {
		report = g.world.SimLog().Summary(g.world) + g.reporter.WindowSummary().Format()
	}
	if err := clipboard.WriteAll(report); err != nil {
		g.log.WithError(err).Warn("clipboard copy failed")
		g.showBanner("COPY FAILED", 1)
		return
	}
	g.showBanner("REPORT COPIED", 1)
}

func (g *Game) updateEffects(dt float64) {
	kept := g.shards[:0]
	for _, s := range g.shards {
		s.life -= dt
		if s.life <= 0 {
			continue
		}
		s.pos = s.pos.Add(s.vel.Scale(dt))
		kept = append(kept, s)
	}
	g.shards = kept

	g.shake = math.Max(0, g.shake-shakeDecay*dt)
	if g.bannerTimer > 0 {
		g.bannerTimer -= dt
		if g.bannerTimer <= 0 {
			g.banner = ""
		}
	}
}

// updateCamera leans the view from the player toward the cursor.
func (g *Game) updateCamera(dt float64) {
	p := g.world.Player()
	if p == nil || p.Dead() {
		return
	}
	vw, vh := float64(g.viewWidth()), float64(g.height)
	mx, my := ebiten.CursorPosition()
	px := (float64(mx) - vw/2) / (vw / 2)
	py := (math.Max(float64(my), 5) - vh/2) / (vh / 2)
	tx := p.pos.X + clamp(px, -1, 1)*maxPeek
	ty := p.pos.Y + clamp(py, -1, 1)*maxPeek
	k := math.Min(1, dt*cameraLerp)
	g.camX += (tx - g.camX) * k
	g.camY += (ty - g.camY) * k
}

// viewWidth is the playfield width on screen (log panel takes the rest).
func (g *Game) viewWidth() int {
	if g.showLog {
		return g.width - logPanelWidth
	}
	return g.width
}

// worldToScreen applies the camera and the current shake offset.
func (g *Game) worldToScreen(p Vec2) (float32, float32) {
	sx := p.X - g.camX + float64(g.viewWidth())/2
	sy := p.Y - g.camY + float64(g.height)/2
	if g.shake > 0 {
		sx += (g.rng.Float64()*2 - 1) * g.shake // #nosec G404 -- cosmetic
		sy += (g.rng.Float64()*2 - 1) * g.shake // #nosec G404 -- cosmetic
	}
	return float32(sx), float32(sy)
}

func (g *Game) screenToWorld(x, y int) Vec2 {
	return Vec2{
		X: float64(x) - float64(g.viewWidth())/2 + g.camX,
		Y: float64(y) - float64(g.height)/2 + g.camY,
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// World exposes the current run's world.
func (g *Game) World() *World { return g.world }
