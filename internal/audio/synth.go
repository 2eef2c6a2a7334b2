package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sweep is an oscillator whose frequency glides linearly from `from` to `to`
// over its length. A constant tone is a sweep with from == to.
type sweep struct {
	from, to float64
	phase    float64
	length   int
	pos      int
	wave     Wave
	rate     beep.SampleRate
}

// NewSweep returns a finite streamer gliding between two frequencies.
func NewSweep(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, length: rate.N(d), wave: wave, rate: rate}
}

// NewTone returns a finite constant-frequency streamer.
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, d, wave, rate)
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.length {
			return i, i > 0
		}
		var v float64
		switch s.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * s.phase)
		case WaveSquare:
			v = 1
			if s.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (s.phase - 0.5)
		case WaveNoise:
			v = rand.Float64()*2 - 1 // #nosec G404 -- audio noise
		}
		samples[i][0] = v
		samples[i][1] = v

		t := float64(s.pos) / float64(s.length)
		freq := s.from + (s.to-s.from)*t
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// decay shapes a streamer with a short linear attack and an exponential tail.
type decay struct {
	s       beep.Streamer
	pos     int
	attack  int
	length  int
	falloff float64
}

// NewDecay wraps s so it starts from silence and dies away over d.
func NewDecay(s beep.Streamer, d, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{s: s, attack: rate.N(attack), length: rate.N(d), falloff: 5}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		var vol float64
		switch {
		case e.pos < e.attack:
			vol = float64(e.pos) / float64(e.attack)
		case e.length > 0:
			vol = math.Exp(-e.falloff * float64(e.pos) / float64(e.length))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *decay) Err() error { return e.s.Err() }

// withVolume scales s linearly. Zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
