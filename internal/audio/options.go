package audio

import (
	"errors"
	"fmt"
	"math"

	"github.com/SamSeenX/BeatR/internal/dsp"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

var (
	// ErrBackendUnavailable is returned by New when the audio device
	// cannot be opened.
	ErrBackendUnavailable = errors.New("audio: backend unavailable")
	ErrInvalidOptions     = errors.New("audio: invalid options")
)

// Options configures an Engine. Start from DefaultOptions.
type Options struct {
	SampleRate int

	// MasterVolume is the output gain of the master bus.
	MasterVolume float64

	// Reverb impulse shape and the gain of the reverb return.
	ReverbSeconds float64
	ReverbDecay   float64
	ReverbWet     float64

	// ReverbSend is the initial send level of every channel.
	ReverbSend float64

	// Bypass routes channel inputs straight to the master bus.
	Bypass bool

	// AnalyserSize is the analysis window in frames.
	AnalyserSize int

	// Rand supplies noise. Nil uses the unseeded global generator.
	Rand dsp.Source

	// Backend receives the rendered output. Nil renders offline: the
	// caller pulls frames with Render, Read or Stream.
	Backend Backend

	Logger *beatr_log.Logger
}

func DefaultOptions() Options {
	return Options{
		SampleRate:    44100,
		MasterVolume:  0.5,
		ReverbSeconds: 3.0,
		ReverbDecay:   3.0,
		ReverbWet:     1.5,
		ReverbSend:    0,
		AnalyserSize:  dsp.DefaultFFTSize,
	}
}

func (o Options) validate() error {
	switch {
	case o.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidOptions, o.SampleRate)
	case !(o.ReverbSeconds > 0) || math.IsInf(o.ReverbSeconds, 0):
		return fmt.Errorf("%w: reverb duration %v", ErrInvalidOptions, o.ReverbSeconds)
	case o.ReverbDecay < 0 || math.IsNaN(o.ReverbDecay):
		return fmt.Errorf("%w: reverb decay %v", ErrInvalidOptions, o.ReverbDecay)
	}
	return nil
}
