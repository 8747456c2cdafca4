package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/SamSeenX/BeatR/internal/dsp"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

// Quantum is the number of frames rendered per pass. Voices queued by
// Play are adopted at quantum boundaries.
const Quantum = 512

// State is the engine clock state.
type State int32

const (
	Suspended State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "suspended"
}

// Engine owns the six channels, the master bus and the reverb, and renders
// triggered voices on its own clock. Play and the channel setters never
// block on rendering.
type Engine struct {
	sampleRate float64
	logger     *beatr_log.Logger
	backend    Backend
	rig        rig

	channels [NumInstruments]*Channel
	master   *MasterBus
	reverb   *Reverb
	analyser *dsp.Analyser

	state  atomic.Int32
	bypass atomic.Bool
	frame  atomic.Int64
	live   atomic.Int32

	// mu guards pending and state transitions.
	mu      sync.Mutex
	pending []*Voice
	closed  bool

	// renderMu serializes rendering; everything below belongs to it.
	renderMu   sync.Mutex
	voices     []*Voice
	in         [NumInstruments][]float64
	mixL, mixR []float64
	send       []float64
	block      [][2]float64
	blockPos   int
	readFrames [][2]float64
}

// New builds an engine in the Suspended state. With a Backend set, the
// engine is started on it and stays silent until Resume.
func New(opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.AnalyserSize == 0 {
		opts.AnalyserSize = dsp.DefaultFFTSize
	}
	analyser, err := dsp.NewAnalyser(opts.AnalyserSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	var src dsp.Source = dsp.GlobalSource
	if opts.Rand != nil {
		src = &lockedSource{src: opts.Rand}
	}
	sr := float64(opts.SampleRate)
	reverb, err := newReverb(src, sr, opts.ReverbSeconds, opts.ReverbDecay, Quantum)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	e := &Engine{
		sampleRate: sr,
		logger:     beatr_log.OrDiscard(opts.Logger),
		rig:        rig{sampleRate: sr, rand: src},
		reverb:     reverb,
		analyser:   analyser,
		mixL:       make([]float64, Quantum),
		mixR:       make([]float64, Quantum),
		send:       make([]float64, Quantum),
		block:      make([][2]float64, Quantum),
		blockPos:   Quantum,
	}
	e.master = newMasterBus(opts.MasterVolume, opts.ReverbWet, reverb, analyser, Quantum)
	for i := range e.channels {
		e.channels[i] = newChannel(Instrument(i), sr, opts.ReverbSend)
		e.in[i] = make([]float64, Quantum)
	}
	e.bypass.Store(opts.Bypass)

	if opts.Backend != nil {
		if err := opts.Backend.Start(e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		if err := opts.Backend.Suspend(); err != nil {
			e.logger.Warnf("[AUDIO] suspend backend: %v", err)
		}
		e.backend = opts.Backend
	}
	e.logger.Infof("[AUDIO] engine ready at %dHz, reverb %.1fs", opts.SampleRate, opts.ReverbSeconds)
	return e, nil
}

func (e *Engine) SampleRate() int { return int(e.sampleRate) }

func (e *Engine) State() State { return State(e.state.Load()) }

// Resume moves a suspended engine to Running. It is a no-op when the
// engine is already running.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.State() == Running {
		return nil
	}
	if e.backend != nil {
		if err := e.backend.Resume(); err != nil {
			return fmt.Errorf("audio: resume: %w", err)
		}
	}
	e.state.Store(int32(Running))
	e.logger.Debugf("[AUDIO] resumed at %.3fs", e.CurrentTime())
	return nil
}

// CurrentTime is the engine clock in seconds: the start of the next
// quantum to render.
func (e *Engine) CurrentTime() float64 {
	return float64(e.frame.Load()) / e.sampleRate
}

// PlaySound triggers the named instrument at clock time at. Unknown names
// are ignored.
func (e *Engine) PlaySound(name string, at float64) {
	inst, ok := ParseInstrument(name)
	if !ok {
		e.logger.Debugf("[AUDIO] ignoring unknown instrument %q", name)
		return
	}
	e.Play(inst, at)
}

// Play triggers inst at clock time at. For a time already past, whatever
// remains of the hit plays from the next quantum. Invalid instruments and
// non-finite times are ignored.
func (e *Engine) Play(inst Instrument, at float64) {
	if !inst.Valid() {
		e.logger.Debugf("[AUDIO] ignoring instrument %d", int(inst))
		return
	}
	if math.IsNaN(at) || math.IsInf(at, 0) {
		e.logger.Warnf("[AUDIO] %v at invalid time %v", inst, at)
		return
	}
	if at < 0 {
		at = 0
	}
	v := recipes[inst].newVoice(&e.rig, at)
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.pending = append(e.pending, v)
	e.mu.Unlock()
	e.logger.Debugf("[AUDIO] %v at %.3fs", inst, at)
}

// Channel returns the strip for inst, or nil for an invalid instrument.
func (e *Engine) Channel(inst Instrument) *Channel {
	if !inst.Valid() {
		return nil
	}
	return e.channels[inst]
}

func (e *Engine) ChannelByName(name string) (*Channel, bool) {
	inst, ok := ParseInstrument(name)
	if !ok {
		return nil, false
	}
	return e.channels[inst], true
}

func (e *Engine) Channels() []*Channel {
	return append([]*Channel(nil), e.channels[:]...)
}

// Analyser is the read-only tap on the master output.
func (e *Engine) Analyser() *dsp.Analyser { return e.analyser }

func (e *Engine) Reverb() *Reverb { return e.reverb }

func (e *Engine) SetMasterVolume(v float64) { e.master.volume.Store(v) }
func (e *Engine) MasterVolume() float64     { return e.master.volume.Load() }

// SetBypass switches between the full channel strips and the flat mix.
func (e *Engine) SetBypass(on bool) { e.bypass.Store(on) }
func (e *Engine) Bypassed() bool    { return e.bypass.Load() }

// ActiveVoices counts voices that are playing or queued.
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	n := len(e.pending)
	e.mu.Unlock()
	return n + int(e.live.Load())
}

// Close releases the backend. Later triggers are dropped.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.pending = nil
	if e.backend != nil {
		return e.backend.Close()
	}
	return nil
}

// lockedSource serializes a caller supplied generator, which need not be
// safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	src dsp.Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
