// Package audio plays short cues for status display events
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/gui"
)

const sampleRate = beep.SampleRate(44100)

// Cue identifies a feedback sound
type Cue int

const (
	CueNone Cue = iota
	CueClick
	CueInserted
	CueSaved
)

var cueNotes = map[Cue][]note{
	CueClick: {
		{freq: 1800, duration: 12 * time.Millisecond, wave: WaveSquare},
	},
	CueInserted: {
		{freq: 659.25, duration: 60 * time.Millisecond, wave: WaveSine},
		{freq: 987.77, duration: 90 * time.Millisecond, wave: WaveSine},
	},
	CueSaved: {
		{freq: 987.77, duration: 70 * time.Millisecond, wave: WaveSquare},
		{freq: 1318.51, duration: 140 * time.Millisecond, wave: WaveSquare},
	},
}

// CueFor maps a status display step to the cue it should play
func CueFor(step fsm.Step) Cue {
	switch step.To {
	case gui.StateSelectingNext, gui.StateSelectingPrevious:
		return CueClick
	case gui.StateInserted:
		return CueInserted
	case gui.StateDataSaved:
		return CueSaved
	}
	return CueNone
}

// player abstracts the speaker so Feedback can run without an audio device
type player interface {
	Play(s ...beep.Streamer)
}

type speakerPlayer struct{}

func (speakerPlayer) Play(s ...beep.Streamer) { speaker.Play(s...) }

// Feedback plays cues for FSM steps
// All operations are safe without Initialize; they become no-ops
type Feedback struct {
	mu          sync.Mutex
	volume      float64
	out         player
	initialized bool
	played      map[Cue]int
}

// NewFeedback creates a feedback player at volume (0..1)
func NewFeedback(volume float64) *Feedback {
	return &Feedback{
		volume: volume,
		out:    speakerPlayer{},
		played: make(map[Cue]int),
	}
}

// Initialize sets up the speaker
// Failure is expected on machines without audio; the display works without sound
func (f *Feedback) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	f.initialized = true
	return nil
}

// Cleanup stops playback and closes the speaker
func (f *Feedback) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	f.initialized = false
}

// Observe is an fsm step observer
func (f *Feedback) Observe(step fsm.Step) {
	f.Play(CueFor(step))
}

// Play plays a cue if audio is up
func (f *Feedback) Play(c Cue) {
	notes, ok := cueNotes[c]
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return
	}
	f.played[c]++
	f.out.Play(sequence(notes, sampleRate, f.volume))
}

// Played returns how many times a cue was sent to the speaker
func (f *Feedback) Played(c Cue) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.played[c]
}
