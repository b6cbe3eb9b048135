package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
)

// oscillator is a fixed-length tone; phase runs over [0, 1) once per cycle
type oscillator struct {
	step      float64 // phase advance per sample
	phase     float64
	remaining int
	wave      WaveType
}

// NewOscillator creates a tone of freq Hz lasting duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		step:      freq / float64(rate),
		remaining: rate.N(duration),
		wave:      wave,
	}
}

func (o *oscillator) level() float64 {
	if o.wave == WaveSquare {
		if o.phase < 0.5 {
			return 1
		}
		return -1
	}
	return math.Sin(2 * math.Pi * o.phase)
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	n = min(len(samples), o.remaining)
	for i := range samples[:n] {
		v := o.level()
		samples[i] = [2]float64{v, v}
		_, o.phase = math.Modf(o.phase + o.step)
	}
	o.remaining -= n
	return n, n > 0
}

func (o *oscillator) Err() error { return nil }

// decay applies a linear fade-out over the whole stream to avoid clicks at the end
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

// NewDecay fades s to silence over duration
func NewDecay(s beep.Streamer, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, total: rate.N(duration)}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0 - float64(d.position)/float64(d.total)
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume wraps s with a linear volume
// math.Log2(0) is -Inf, so 0 volume is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is one tone in a cue
type note struct {
	freq     float64
	duration time.Duration
	wave     WaveType
}

// sequence builds the streamer for a list of notes played back to back
func sequence(notes []note, rate beep.SampleRate, vol float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := NewOscillator(n.freq, n.duration, n.wave, rate)
		parts = append(parts, NewDecay(osc, n.duration, rate))
	}
	return newVolume(beep.Seq(parts...), vol)
}
