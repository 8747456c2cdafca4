package dsp

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// FilterType enumerates the biquad responses used by the drum voices and
// the channel EQ.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
	Peaking
	Lowshelf
	Highshelf
)

func (f FilterType) String() string {
	switch f {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Peaking:
		return "peaking"
	case Lowshelf:
		return "lowshelf"
	case Highshelf:
		return "highshelf"
	default:
		return "unknown"
	}
}

// Biquad wraps a biquad.Section with Audio EQ Cookbook coefficients.
// Q is in dB for lowpass and highpass and linear for bandpass and peaking;
// shelves use a slope of 1 and ignore Q. Gain is in dB and only affects
// peaking and shelving types.
type Biquad struct {
	typ        FilterType
	sampleRate float64
	freq, q    float64
	gain       float64

	sec *biquad.Section
}

// NewBiquad returns a filter with coefficients for the given settings.
func NewBiquad(typ FilterType, sampleRate, freq, q, gain float64) *Biquad {
	f := &Biquad{typ: typ, sampleRate: sampleRate, freq: freq, q: q, gain: gain}
	f.sec = biquad.NewSection(f.coefficients())
	return f
}

func (f *Biquad) Type() FilterType   { return f.typ }
func (f *Biquad) Frequency() float64 { return f.freq }
func (f *Biquad) Q() float64         { return f.q }
func (f *Biquad) Gain() float64      { return f.gain }

// Set updates the settings. Coefficients are only recomputed when something
// changed, and the filter history is kept so there is no click.
func (f *Biquad) Set(freq, q, gain float64) {
	if freq == f.freq && q == f.q && gain == f.gain {
		return
	}
	f.freq, f.q, f.gain = freq, q, gain
	f.sec.Coefficients = f.coefficients()
}

// SetGain is Set with the current frequency and Q.
func (f *Biquad) SetGain(gain float64) { f.Set(f.freq, f.q, gain) }

// Reset clears the filter history.
func (f *Biquad) Reset() { f.sec.Reset() }

// Coefficients returns the normalized coefficients in use.
func (f *Biquad) Coefficients() biquad.Coefficients { return f.sec.Coefficients }

func (f *Biquad) coefficients() biquad.Coefficients {
	nyquist := f.sampleRate / 2
	freq := f.freq
	if freq < 1e-3 {
		freq = 1e-3
	}
	if freq > nyquist*0.9999 {
		freq = nyquist * 0.9999
	}
	w0 := 2 * math.Pi * freq / f.sampleRate
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)
	A := math.Pow(10, f.gain/40)

	var b0, b1, b2, a0, a1, a2 float64
	switch f.typ {
	case Lowpass:
		alpha := sinw / (2 * math.Pow(10, f.q/20))
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw
		a2 = 1 - alpha
	case Highpass:
		alpha := sinw / (2 * math.Pow(10, f.q/20))
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = (1 + cosw) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw
		a2 = 1 - alpha
	case Bandpass:
		alpha := sinw / (2 * positiveQ(f.q))
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosw
		a2 = 1 - alpha
	case Peaking:
		alpha := sinw / (2 * positiveQ(f.q))
		b0 = 1 + alpha*A
		b1 = -2 * cosw
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosw
		a2 = 1 - alpha/A
	case Lowshelf:
		alpha := sinw / 2 * math.Sqrt2
		k := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) - (A-1)*cosw + k)
		b1 = 2 * A * ((A - 1) - (A+1)*cosw)
		b2 = A * ((A + 1) - (A-1)*cosw - k)
		a0 = (A + 1) + (A-1)*cosw + k
		a1 = -2 * ((A - 1) + (A+1)*cosw)
		a2 = (A + 1) + (A-1)*cosw - k
	case Highshelf:
		alpha := sinw / 2 * math.Sqrt2
		k := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) + (A-1)*cosw + k)
		b1 = -2 * A * ((A - 1) + (A+1)*cosw)
		b2 = A * ((A + 1) + (A-1)*cosw - k)
		a0 = (A + 1) - (A-1)*cosw + k
		a1 = 2 * ((A - 1) - (A+1)*cosw)
		a2 = (A + 1) - (A-1)*cosw - k
	default:
		b0, a0 = 1, 1
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

func positiveQ(q float64) float64 {
	if q < 1e-4 {
		return 1e-4
	}
	return q
}

// Process filters one sample.
func (f *Biquad) Process(x float64) float64 { return f.sec.ProcessSample(x) }

// ProcessBlock filters buf in place.
func (f *Biquad) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.sec.ProcessSample(x)
	}
}

// Response returns the filter magnitude at freq in Hz.
func (f *Biquad) Response(freq float64) float64 {
	return math.Pow(10, f.sec.Coefficients.MagnitudeDB(freq, f.sampleRate)/20)
}
