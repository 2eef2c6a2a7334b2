package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 11
)

// ThoughtEntry is a single line in the event feed.
type ThoughtEntry struct {
	Tick    int
	Label   string // "P" or a sentinel label such as "S0"
	Key     string
	Message string
}

// ThoughtLog is a fixed-size ring buffer of notable events rendered on-screen.
type ThoughtLog struct {
	entries []ThoughtEntry
	head    int
	count   int
}

// NewThoughtLog creates a thought log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{
		entries: make([]ThoughtEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (tl *ThoughtLog) Add(tick int, label, key, msg string) {
	tl.entries[tl.head] = ThoughtEntry{
		Tick:    tick,
		Label:   label,
		Key:     key,
		Message: msg,
	}
	tl.head = (tl.head + 1) % logMaxEntries
	if tl.count < logMaxEntries {
		tl.count++
	}
}

// Len is the number of buffered entries.
func (tl *ThoughtLog) Len() int { return tl.count }

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	result := make([]ThoughtEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + logMaxEntries) % logMaxEntries
		result[i] = tl.entries[idx]
	}
	return result
}

func thoughtColor(e ThoughtEntry) color.RGBA {
	switch {
	case e.Label == "P":
		return colPlayer
	case e.Key == "kill" || e.Key == "parry" || e.Key == "stun":
		return colWarning
	default:
		return colSentinel
	}
}

// Draw renders the panel at panelX, newest entry at the bottom.
func (tl *ThoughtLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 6, G: 6, B: 12, A: 235}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 40, G: 60, B: 90, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)

	entries := tl.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 20, G: 25, B: 40, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, thoughtColor(e), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += logLineHeight
	}
}
