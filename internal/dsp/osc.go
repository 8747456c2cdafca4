package dsp

import "math"

type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// Shape evaluates one cycle of the waveform at phase in [0,1).
func (w Waveform) Shape(phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	case Sawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Oscillator is a periodic source whose frequency is an automated Param.
// It produces sound in [Start, Stop); Stop <= Start means it never stops.
type Oscillator struct {
	Waveform  Waveform
	Frequency *Param
	Start     float64
	Stop      float64

	sampleRate float64
	phase      float64
}

func NewOscillator(w Waveform, sampleRate, freq float64) *Oscillator {
	return &Oscillator{
		Waveform:   w,
		Frequency:  NewParam(freq),
		sampleRate: sampleRate,
	}
}

// Active reports whether the oscillator sounds at clock time t.
func (o *Oscillator) Active(t float64) bool {
	if t < o.Start {
		return false
	}
	return o.Stop <= o.Start || t < o.Stop
}

// Next returns the sample at clock time t and advances the phase by one
// sample at the frequency in effect at t.
func (o *Oscillator) Next(t float64) float64 {
	if !o.Active(t) {
		return 0
	}
	v := o.Waveform.Shape(o.phase)
	_, o.phase = math.Modf(o.phase + o.Frequency.ValueAt(t)/o.sampleRate)
	if o.phase < 0 {
		o.phase++
	}
	return v
}

// End is the stop time, or +Inf for an oscillator that never stops.
func (o *Oscillator) End() float64 {
	if o.Stop <= o.Start {
		return math.Inf(1)
	}
	return o.Stop
}
