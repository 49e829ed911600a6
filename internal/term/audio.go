package term

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue is a short sound played on a game event.
type Cue int

const (
	CueJump Cue = iota
	CueDeath
	CueFinish
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueDeath:
		return "death"
	case CueFinish:
		return "finish"
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

type note struct {
	freq float64
	dur  time.Duration
}

var cueNotes = map[Cue][]note{
	CueJump:   {{660, 50 * time.Millisecond}},
	CueDeath:  {{220, 120 * time.Millisecond}, {110, 220 * time.Millisecond}},
	CueFinish: {{523.25, 90 * time.Millisecond}, {659.25, 90 * time.Millisecond}, {783.99, 180 * time.Millisecond}},
}

// CueStreamer builds the sound for c at the given rate and volume (0..1).
func CueStreamer(c Cue, rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	notes, ok := cueNotes[c]
	if !ok {
		return nil, fmt.Errorf("unknown cue %s", c)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(rate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("cue %s: %w", c, err)
		}
		parts = append(parts, beep.Take(rate.N(n.dur), tone))
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// math.Log2(0) is -Inf, so zero volume is a silent stream.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Audio plays cues on the default output device. A zero Audio, or one
// whose Init failed, stays silent.
type Audio struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	initialized bool
}

// NewAudio returns a silent player; call Init to open the device.
func NewAudio(volume float64) *Audio {
	return &Audio{rate: beep.SampleRate(44100), volume: volume}
}

// Init opens the speaker.
func (a *Audio) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if err := speaker.Init(a.rate, a.rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("opening speaker: %w", err)
	}
	a.initialized = true
	return nil
}

// Play starts cue c without waiting for it to finish.
func (a *Audio) Play(c Cue) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return
	}
	s, err := CueStreamer(c, a.rate, a.volume)
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Close releases the speaker.
func (a *Audio) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		speaker.Close()
		a.initialized = false
	}
}
