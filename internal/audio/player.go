// Package audio turns simulation cues into short synthesised sounds.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Pulse-Sense/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)

	// maxVoices caps concurrently mixed cues. Footstep pulses can fire every
	// frame while sprinting.
	maxVoices = 16
)

// Player mixes cue sounds onto the speaker. It implements game.CueSink.
// Until Init succeeds every PlayCue is dropped.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	log         logrus.FieldLogger
	initialized bool
	muted       map[game.Cue]bool
}

// NewPlayer creates an idle player.
func NewPlayer(log logrus.FieldLogger) *Player {
	return &Player{
		mixer: &beep.Mixer{},
		log:   log,
		muted: make(map[game.Cue]bool),
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.WithField("rate", int(sampleRate)).Info("audio ready")
	return nil
}

// Mute silences one cue kind.
func (p *Player) Mute(c game.Cue, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted[c] = muted
}

// PlayCue queues the cue's sound and returns immediately.
func (p *Player) PlayCue(c game.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || p.muted[c] {
		return
	}
	s := Sound(c, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// Close drops every queued sound.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
