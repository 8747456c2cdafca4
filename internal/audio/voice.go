package audio

import (
	"math"

	"github.com/SamSeenX/BeatR/internal/dsp"
)

// voiceTail is how long a voice keeps rendering its filters after the last
// source stops.
const voiceTail = 0.05

// source is a scheduled signal generator read once per frame in clock order.
type source interface {
	Next(t float64) float64
	End() float64
}

// layer is one source through its filter chain and gain envelope.
type layer struct {
	src     source
	filters []*dsp.Biquad
	gain    *dsp.Param
}

// Voice is one triggered hit: a set of layers summed into its
// instrument's channel. A voice is built on the control side and then only
// touched by the render loop.
type Voice struct {
	inst   Instrument
	start  float64
	end    float64
	layers []*layer
}

func newVoice(inst Instrument, at float64) *Voice {
	return &Voice{inst: inst, start: at, end: at}
}

func (v *Voice) add(src source, gain *dsp.Param, filters ...*dsp.Biquad) {
	v.layers = append(v.layers, &layer{src: src, filters: filters, gain: gain})
	if end := src.End() + voiceTail; end > v.end && !math.IsInf(end, 1) {
		v.end = end
	}
}

func (v *Voice) Instrument() Instrument { return v.inst }

// Start is the trigger time.
func (v *Voice) Start() float64 { return v.start }

// End is the time after which the voice produces nothing.
func (v *Voice) End() float64 { return v.end }

// sample renders the voice at clock time t. Filters run on every frame
// once the voice has started, including the silent tail.
func (v *Voice) sample(t float64) float64 {
	if t < v.start {
		return 0
	}
	var sum float64
	for _, l := range v.layers {
		x := l.src.Next(t)
		for _, f := range l.filters {
			x = f.Process(x)
		}
		sum += x * l.gain.ValueAt(t)
	}
	return sum
}

func (v *Voice) done(t float64) bool { return t >= v.end }

// recipe builds the voice for one instrument hit at clock time at.
type recipe interface {
	newVoice(r *rig, at float64) *Voice
}

// rig carries what recipes need from the engine.
type rig struct {
	sampleRate float64
	rand       dsp.Source
}

func (r *rig) noise(seconds float64) *dsp.BufferSource {
	b := dsp.NewNoiseBuffer(r.rand, r.sampleRate, dsp.NoiseLength(r.sampleRate, seconds), 1)
	return dsp.NewBufferSource(b, 0)
}

func (r *rig) osc(w dsp.Waveform, freq, at, stop float64) *dsp.Oscillator {
	o := dsp.NewOscillator(w, r.sampleRate, freq)
	o.Frequency.SetValueAtTime(freq, at)
	o.Start, o.Stop = at, stop
	return o
}

func (r *rig) filter(typ dsp.FilterType, freq float64) *dsp.Biquad {
	return dsp.NewBiquad(typ, r.sampleRate, freq, 1, 0)
}

// decay is the common envelope: hold peak at the trigger, then fall
// exponentially to the floor over d seconds.
func decay(peak, at, d float64) *dsp.Param {
	p := dsp.NewParam(1)
	p.SetValueAtTime(peak, at)
	p.ExponentialRampToValueAtTime(dsp.MinExponentialValue, at+d)
	return p
}

var recipes = [NumInstruments]recipe{
	Kick:  kick{},
	Snare: snare{},
	HiHat: hihat{},
	Tom:   tom{},
	Clap:  clap{},
	Rim:   rim{},
}
