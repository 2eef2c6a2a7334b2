package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Pulse-Sense/internal/game"
)

// voice is one synthesised layer of a cue.
type voice struct {
	from, to float64
	dur      time.Duration
	delay    time.Duration
	wave     Wave
	vol      float64
}

// cueVoices lists the layers each cue is built from. Layers with a delay are
// sequenced after silence; the rest sound together.
var cueVoices = map[game.Cue][]voice{
	game.CuePulse:        {{from: 880, to: 440, dur: 60 * time.Millisecond, wave: WaveSine, vol: 0.15}},
	game.CueDash:         {{from: 300, to: 1200, dur: 120 * time.Millisecond, wave: WaveNoise, vol: 0.2}},
	game.CueAttack:       {{from: 600, to: 200, dur: 90 * time.Millisecond, wave: WaveSaw, vol: 0.3}},
	game.CueParry:        {{from: 1400, to: 1400, dur: 80 * time.Millisecond, wave: WaveSquare, vol: 0.2}},
	game.CueParrySuccess: {{from: 1046, to: 1046, dur: 90 * time.Millisecond, wave: WaveSquare, vol: 0.3}, {from: 1568, to: 1568, dur: 160 * time.Millisecond, delay: 90 * time.Millisecond, wave: WaveSquare, vol: 0.3}},
	game.CueKill:         {{from: 220, to: 55, dur: 250 * time.Millisecond, wave: WaveSine, vol: 0.5}, {from: 0, to: 0, dur: 120 * time.Millisecond, wave: WaveNoise, vol: 0.3}},
	game.CueStun:         {{from: 180, to: 180, dur: 200 * time.Millisecond, wave: WaveSquare, vol: 0.3}},
	game.CueLungeWarn:    {{from: 500, to: 900, dur: 150 * time.Millisecond, wave: WaveSaw, vol: 0.25}},
	game.CueDeath:        {{from: 400, to: 40, dur: 700 * time.Millisecond, wave: WaveSaw, vol: 0.5}, {from: 0, to: 0, dur: 300 * time.Millisecond, wave: WaveNoise, vol: 0.4}},
	game.CueWin:          {{from: 523, to: 523, dur: 120 * time.Millisecond, wave: WaveSine, vol: 0.4}, {from: 659, to: 659, dur: 120 * time.Millisecond, delay: 120 * time.Millisecond, wave: WaveSine, vol: 0.4}, {from: 784, to: 784, dur: 300 * time.Millisecond, delay: 240 * time.Millisecond, wave: WaveSine, vol: 0.4}},
}

// CueLength is the total play time of c, or zero for an unknown cue.
func CueLength(c game.Cue) time.Duration {
	var longest time.Duration
	for _, v := range cueVoices[c] {
		if end := v.delay + v.dur; end > longest {
			longest = end
		}
	}
	return longest
}

// Sound synthesises the streamer for c, or nil when c has no sound.
func Sound(c game.Cue, rate beep.SampleRate) beep.Streamer {
	voices, ok := cueVoices[c]
	if !ok {
		return nil
	}
	layers := make([]beep.Streamer, 0, len(voices))
	for _, v := range voices {
		s := NewDecay(NewSweep(v.from, v.to, v.dur, v.wave, rate), v.dur, 5*time.Millisecond, rate)
		s = withVolume(s, v.vol)
		if v.delay > 0 {
			s = beep.Seq(beep.Silence(rate.N(v.delay)), s)
		}
		layers = append(layers, s)
	}
	if len(layers) == 1 {
		return layers[0]
	}
	return beep.Mix(layers...)
}
