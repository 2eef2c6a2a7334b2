package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel: drawn into an offscreen buffer at 1× and blitted at inspScale.
const (
	inspScale    = 2   // scale factor for inspector text rendering
	inspBufW     = 200 // buffer width in pixels
	inspBufH     = 200 // buffer height in pixels
	inspPad      = 4   // padding in buffer-space pixels
	inspLineH    = 13  // line height in buffer-space pixels
	inspPickDist = 80  // world pixels around the cursor searched by a pick
)

// Inspector holds the selected sentinel and view toggle state.
type Inspector struct {
	selected *Sentinel
	rawView  bool // false = curated, true = raw dump
}

// handleInspectorPick selects the sentinel nearest to the world point at, or
// clears the selection when none is close.
func (g *Game) handleInspectorPick(at Vec2) bool {
	var hit *Sentinel
	best := float64(inspPickDist)
	for _, s := range g.world.Sentinels() {
		if d := s.pos.Dist(at); d < best {
			best = d
			hit = s
		}
	}
	g.inspector.selected = hit
	return hit != nil
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	s := g.inspector.selected
	if s == nil {
		return
	}
	if !g.world.Registry().Alive(s.handle) {
		g.inspector.selected = nil
		return
	}

	buf := g.inspBuf
	buf.Clear()
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	panelBorder := color.RGBA{R: 110, G: 40, B: 40, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 14, G: 8, B: 10, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)

	lx := inspPad
	ly := inspPad
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ SENTINEL %s ]", s.label), lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	if g.inspector.rawView {
		g.drawInspectorRaw(buf, s, lx, ly)
	} else {
		g.drawInspectorCurated(buf, s, lx, ly)
	}

	px := g.viewWidth() - inspBufW*inspScale - 12
	py := g.height - inspBufH*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// drawInspectorCurated draws the organised, human-readable inspector view.
func (g *Game) drawInspectorCurated(buf *ebiten.Image, s *Sentinel, lx, ly int) {
	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}
	bar := func(label string, v float64) {
		filled := int(clamp01(v) * 12)
		b := ""
		for i := 0; i < 12; i++ {
			if i < filled {
				b += "#"
			} else {
				b += "."
			}
		}
		line(fmt.Sprintf("%-7s %s %.2f", label, b, v))
	}

	line(fmt.Sprintf("state: %s (%.1fs)", s.state, s.stateTime))
	line(fmt.Sprintf("speed: %.0f", s.speed))
	if lh, ok := s.LastHeard(); ok {
		line(fmt.Sprintf("heard: (%.0f,%.0f) d=%.0f", lh.X, lh.Y, lh.Dist(s.pos)))
	} else {
		line("heard: -")
	}
	if len(s.route) > 0 {
		wp := s.route[s.waypoint%len(s.route)]
		line(fmt.Sprintf("wp %d/%d (%.0f,%.0f)", s.waypoint+1, len(s.route), wp.X, wp.Y))
	}
	bar("reveal", s.reveal)
	bar("visible", s.Visibility())

	search, windup, lunge, stun := s.Timers()
	switch s.state {
	case SentinelSearch:
		line(fmt.Sprintf("probe in %.2fs", search))
	case SentinelLungeWindup:
		line(fmt.Sprintf("lunge in %.2fs", windup))
	case SentinelLunge:
		line(fmt.Sprintf("lunging %.2fs", lunge))
	case SentinelStunned:
		line(fmt.Sprintf("stunned %.2fs", stun))
	}
	line(fmt.Sprintf("pings: %d", s.pings))
}

// drawInspectorRaw dumps every field verbatim.
func (g *Game) drawInspectorRaw(buf *ebiten.Image, s *Sentinel, lx, ly int) {
	line := func(text string) {
		ebitenutil.DebugPrintAt(buf, text, lx, ly)
		ly += inspLineH
	}
	search, windup, lunge, stun := s.Timers()
	line(fmt.Sprintf("h=%s %s", s.handle, s.label))
	line(fmt.Sprintf("pos=(%.1f,%.1f)", s.pos.X, s.pos.Y))
	line(fmt.Sprintf("face=%.2f spd=%.0f", s.facing, s.speed))
	line(fmt.Sprintf("st=%s t=%.2f", s.state, s.stateTime))
	line(fmt.Sprintf("srch=%.2f wind=%.2f", search, windup))
	line(fmt.Sprintf("lng=%.2f stun=%.2f", lunge, stun))
	line(fmt.Sprintf("dir=(%.2f,%.2f) ok=%v", s.lungeDir.X, s.lungeDir.Y, s.hasLungeDir))
	line(fmt.Sprintf("rev=%.2f stunned=%v", s.reveal, s.stunned))
	line(fmt.Sprintf("route=%d wp=%d", len(s.route), s.waypoint))
	line(fmt.Sprintf("ping=%.2f n=%d", s.pingTimer, s.pings))
}
