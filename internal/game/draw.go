package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colPlayer   = color.RGBA{R: 0, G: 255, B: 255, A: 255}   // neon cyan
	colWall     = color.RGBA{R: 240, G: 255, B: 255, A: 255} // neon white
	colSentinel = color.RGBA{R: 255, G: 50, B: 50, A: 255}   // neon red
	colWarning  = color.RGBA{R: 255, G: 190, B: 40, A: 255}
	colExit     = color.RGBA{R: 60, G: 255, B: 120, A: 255}
	colGridDim  = color.RGBA{R: 30, G: 30, B: 60, A: 255}
)

const scanGridSize = 80

// fade returns c with its alpha scaled by a in [0,1].
func fade(c color.RGBA, a float64) color.RGBA {
	a = clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// lerpColor blends from a (t=0) to b (t=1).
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func pulseColor(cat string) color.RGBA {
	switch cat {
	case "sentinel":
		return colSentinel
	case "warning":
		return colWarning
	case "parry":
		return colWall
	default:
		return colPlayer
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	snap := g.world.Snapshot()

	g.drawScanGrid(screen, snap)
	g.drawExits(screen, snap)
	g.drawPulses(screen, snap)
	g.drawWalls(screen, snap)
	g.drawCones(screen, snap)
	g.drawSentinels(screen, snap)
	g.drawPlayer(screen, snap)
	g.drawShards(screen)

	if g.showLog {
		g.thoughtLog.Draw(screen, g.viewWidth(), g.height)
	}
	g.drawStatus(screen, snap)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
	g.drawBanner(screen)
}

// drawScanGrid lights grid intersections covered by live wavefronts; the
// intersections near a wavefront's edge glow brighter.
func (g *Game) drawScanGrid(screen *ebiten.Image, snap Snapshot) {
	if len(snap.Pulses) == 0 {
		return
	}
	vw := float64(g.viewWidth())
	vh := float64(g.height)
	left := g.camX - vw/2
	top := g.camY - vh/2
	startX := math.Floor(left/scanGridSize) * scanGridSize
	startY := math.Floor(top/scanGridSize) * scanGridSize
	for x := startX; x < left+vw+scanGridSize; x += scanGridSize {
		for y := startY; y < top+vh+scanGridSize; y += scanGridSize {
			p := V(x, y)
			for _, pl := range snap.Pulses {
				d := p.Dist(pl.Origin)
				if d >= pl.Radius {
					continue
				}
				sx, sy := g.worldToScreen(p)
				if math.Abs(d-pl.Radius) < 30 {
					vector.FillCircle(screen, sx, sy, 2.5, fade(pulseColor(pl.Category), pl.Opacity), false)
				} else {
					vector.FillCircle(screen, sx, sy, 1.5, fade(colGridDim, pl.Opacity*0.3), false)
				}
			}
		}
	}
}

func (g *Game) drawPulses(screen *ebiten.Image, snap Snapshot) {
	for _, p := range snap.Pulses {
		if p.Radius <= 0 {
			continue
		}
		cx, cy := g.worldToScreen(p.Origin)
		width := float32(3)
		if p.Echo {
			width = 1.5
		}
		vector.StrokeCircle(screen, cx, cy, float32(p.Radius), width, fade(pulseColor(p.Category), p.Opacity), true)
	}
}

func (g *Game) drawWalls(screen *ebiten.Image, snap Snapshot) {
	const half = wallSize / 2
	for _, w := range snap.Walls {
		a := w.Reveal
		if g.revealAll {
			a = math.Max(a, 0.25)
		}
		if a <= 0.01 {
			continue
		}
		x, y := g.worldToScreen(w.Pos)
		vector.StrokeRect(screen, x-half, y-half, wallSize, wallSize, 4, fade(colWall, a), false)
		vector.FillRect(screen, x-half+5, y-half+5, wallSize-10, wallSize-10, fade(colWall, a*0.1), false)
	}
}

func (g *Game) drawExits(screen *ebiten.Image, snap Snapshot) {
	pulse := 0.6 + 0.4*math.Sin(snap.Elapsed*3)
	for _, e := range snap.Exits {
		x, y := g.worldToScreen(e.Center)
		vector.StrokeCircle(screen, x, y, float32(e.Radius), 2, fade(colExit, pulse), true)
		vector.FillCircle(screen, x, y, float32(e.Radius)*0.3, fade(colExit, pulse*0.4), true)
	}
}

func (g *Game) drawCones(screen *ebiten.Image, snap Snapshot) {
	for _, c := range snap.Cones {
		ox, oy := g.worldToScreen(c.Origin)
		col := fade(colPlayer, c.Opacity*0.8)
		const segments = 8
		prevX, prevY := ox, oy
		for i := 0; i <= segments; i++ {
			a := c.Heading - c.HalfAngle + 2*c.HalfAngle*float64(i)/segments
			ex, ey := g.worldToScreen(c.Origin.Add(FromAngle(a).Scale(c.Range)))
			vector.StrokeLine(screen, prevX, prevY, ex, ey, 2, col, true)
			prevX, prevY = ex, ey
		}
		vector.StrokeLine(screen, prevX, prevY, ox, oy, 2, col, true)
	}
}

// drawSentinels draws each sentinel as a triangle pointing along its facing.
func (g *Game) drawSentinels(screen *ebiten.Image, snap Snapshot) {
	for _, s := range snap.Sentinels {
		a := s.Visibility
		if g.revealAll {
			a = math.Max(a, 0.35)
		}
		if a <= 0.01 {
			continue
		}
		col := colSentinel
		switch s.State {
		case "lunge_windup", "lunge":
			col = colWarning
		case "stunned":
			col = lerpColor(colSentinel, colWall, 0.5)
		}
		drawTriangle(g, screen, s.Pos, s.Facing, 30, 20, 4, fade(col, a))
		drawTriangle(g, screen, s.Pos, s.Facing, 24, 16, 1, fade(col, a*0.4))
		if s.Stunned {
			x, y := g.worldToScreen(s.Pos)
			vector.StrokeCircle(screen, x, y, 28, 1, fade(colWall, a*0.6), true)
		}
	}
}

// drawTriangle strokes an isosceles triangle with its tip length ahead of pos
// and a base of half-width half behind it.
func drawTriangle(g *Game, screen *ebiten.Image, pos Vec2, facing, length, half float64, width float32, col color.RGBA) {
	fwd := FromAngle(facing)
	side := Vec2{X: -fwd.Y, Y: fwd.X}
	tip := pos.Add(fwd.Scale(length))
	back := pos.Sub(fwd.Scale(half))
	l := back.Add(side.Scale(half))
	r := back.Sub(side.Scale(half))
	tx, ty := g.worldToScreen(tip)
	lx, ly := g.worldToScreen(l)
	rx, ry := g.worldToScreen(r)
	vector.StrokeLine(screen, tx, ty, lx, ly, width, col, true)
	vector.StrokeLine(screen, lx, ly, rx, ry, width, col, true)
	vector.StrokeLine(screen, rx, ry, tx, ty, width, col, true)
}

// drawPlayer draws the neon box, its stamina fill and the facing pointer.
func (g *Game) drawPlayer(screen *ebiten.Image, snap Snapshot) {
	p := snap.Player
	if p.Dead {
		return
	}
	x, y := g.worldToScreen(p.Pos)
	half := float32(playerSize / 2)

	// Squash and stretch while moving.
	sx, sy := float32(1), float32(1)
	if p.Tier != "idle" {
		intensity := 0.15
		if p.Tier == "sneak" {
			intensity = 0.05
		}
		st := float32(math.Sin(snap.Elapsed*20) * intensity)
		sx, sy = 1+st, 1-st
	}
	w, h := playerSize*sx, playerSize*sy

	pct := p.Stamina / staminaMax
	fill := lerpColor(colSentinel, colPlayer, pct)
	barH := h * float32(pct)
	vector.FillRect(screen, x-w/2, y+h/2-barH, w, barH, fade(fill, 0.6), false)

	outline := colWall
	switch p.Combat {
	case "attack":
		outline = colPlayer
	case "parry":
		outline = colWarning
	}
	if p.Exhausted {
		outline = fade(outline, 0.5)
	}
	vector.StrokeRect(screen, x-w/2, y-h/2, w, h, 4, outline, false)

	tip := p.Pos.Add(FromAngle(p.Facing).Scale(float64(half)))
	tx, ty := g.worldToScreen(tip)
	vector.StrokeLine(screen, x, y, tx, ty, 4, colWall, false)
}

func (g *Game) drawShards(screen *ebiten.Image) {
	for _, s := range g.shards {
		x, y := g.worldToScreen(s.pos)
		a := s.life / shardLife
		d := FromAngle(s.rot).Scale(4)
		vector.StrokeLine(screen, x-float32(d.X), y-float32(d.Y), x+float32(d.X), y+float32(d.Y), 8, fade(colWall, a), false)
	}
}

// drawStatus prints stamina and run state top-left.
func (g *Game) drawStatus(screen *ebiten.Image, snap Snapshot) {
	p := snap.Player
	st := g.world.Stats()
	speed := "1x"
	switch g.simSpeed {
	case 0:
		speed = "PAUSED"
	case 0.5:
		speed = "0.5x"
	case 2:
		speed = "2x"
	}
	line := fmt.Sprintf("run %d  stamina %3.0f%s  %s/%s  kills %d  parries %d  sim %s",
		g.runs, p.Stamina, exhaustedTag(p.Exhausted), p.Tier, p.Combat, st.Kills, st.Parries, speed)
	ebitenutil.DebugPrintAt(screen, line, 8, 6)
}

func exhaustedTag(ex bool) string {
	if ex {
		return " (EXHAUSTED)"
	}
	return ""
}

// drawHUD renders the key legend into hudBuf at 1x, then blits it at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		"WASD move  Shift sprint  Ctrl sneak",
		"Space dash  LMB attack  RMB parry",
		"Ctrl+LMB backstab",
		"Q inspect  I raw  C copy report",
		"P pause  ,/. speed  R restart",
		"Tab log  F1 reveal  H hide",
	}

	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 4, G: 6, B: 14, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 40, G: 80, B: 110, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

// drawBanner centres the current banner message over the playfield.
func (g *Game) drawBanner(screen *ebiten.Image) {
	if g.banner == "" {
		return
	}
	const scale = 3
	w, h := text.Measure(g.banner, g.hudFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(g.viewWidth())/2-w*scale/2, float64(g.height)/3-h*scale/2)
	op.ColorScale.ScaleWithColor(colExit)
	text.Draw(screen, g.banner, g.hudFace, op)
}
