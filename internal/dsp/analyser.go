package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/maddyblue/go-dsp/fft"
	"github.com/maddyblue/go-dsp/window"
)

// Analyser defaults, matching the Web Audio AnalyserNode.
const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// Analyser keeps the most recent FFTSize frames passing through the master
// bus and derives time and frequency domain snapshots from them. Write is
// called by the render goroutine; the getters may be called from any other.
type Analyser struct {
	mu   sync.Mutex
	ring []float64
	pos  int

	size        int
	smoothing   float64
	minDecibels float64
	maxDecibels float64
	win         []float64
	smoothed    []float64
	scratch     []float64
}

// NewAnalyser returns an analyser with a window of fftSize frames, which
// must be a power of two of at least 32.
func NewAnalyser(fftSize int) (*Analyser, error) {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("dsp: analyser fft size %d must be a power of two >= 32", fftSize)
	}
	return &Analyser{
		ring:        make([]float64, fftSize),
		size:        fftSize,
		smoothing:   DefaultSmoothing,
		minDecibels: DefaultMinDecibels,
		maxDecibels: DefaultMaxDecibels,
		win:         window.Blackman(fftSize),
		smoothed:    make([]float64, fftSize/2),
		scratch:     make([]float64, fftSize),
	}, nil
}

func (a *Analyser) FFTSize() int { return a.size }

func (a *Analyser) FrequencyBinCount() int { return a.size / 2 }

// SetSmoothing changes the time constant used to average spectra, in [0,1].
func (a *Analyser) SetSmoothing(s float64) {
	a.mu.Lock()
	a.smoothing = math.Max(0, math.Min(1, s))
	a.mu.Unlock()
}

// SetDecibelRange changes the range mapped onto byte frequency data.
func (a *Analyser) SetDecibelRange(min, max float64) {
	a.mu.Lock()
	if min < max {
		a.minDecibels, a.maxDecibels = min, max
	}
	a.mu.Unlock()
}

// Write appends stereo frames, downmixed to mono.
func (a *Analyser) Write(frames [][2]float64) {
	a.mu.Lock()
	for _, f := range frames {
		a.ring[a.pos] = (f[0] + f[1]) / 2
		a.pos = (a.pos + 1) % a.size
	}
	a.mu.Unlock()
}

// snapshot copies the ring, oldest frame first. Caller holds mu.
func (a *Analyser) snapshot(dst []float64) {
	n := copy(dst, a.ring[a.pos:])
	copy(dst[n:], a.ring[:a.pos])
}

// FloatTimeDomainData copies the most recent frames into dst.
func (a *Analyser) FloatTimeDomainData(dst []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot(a.scratch)
	for i := 0; i < len(dst) && i < a.size; i++ {
		dst[i] = float32(a.scratch[i])
	}
}

// ByteTimeDomainData maps the most recent frames from [-1,1] onto 0..255
// with 128 as silence.
func (a *Analyser) ByteTimeDomainData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot(a.scratch)
	for i := 0; i < len(dst) && i < a.size; i++ {
		dst[i] = clampByte(128 * (1 + a.scratch[i]))
	}
}

// FloatFrequencyData writes the smoothed magnitude spectrum in decibels.
func (a *Analyser) FloatFrequencyData(dst []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spectrum()
	for i := 0; i < len(dst) && i < len(a.smoothed); i++ {
		dst[i] = float32(toDecibels(a.smoothed[i]))
	}
}

// ByteFrequencyData writes the smoothed spectrum scaled from the decibel
// range onto 0..255.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spectrum()
	span := a.maxDecibels - a.minDecibels
	for i := 0; i < len(dst) && i < len(a.smoothed); i++ {
		db := toDecibels(a.smoothed[i])
		dst[i] = clampByte(255 * (db - a.minDecibels) / span)
	}
}

// spectrum updates the smoothed magnitudes from the current ring. Caller
// holds mu.
func (a *Analyser) spectrum() {
	a.snapshot(a.scratch)
	for i := range a.scratch {
		a.scratch[i] *= a.win[i]
	}
	bins := fft.FFTReal(a.scratch)
	n := float64(a.size)
	for k := range a.smoothed {
		mag := cmplx.Abs(bins[k]) / n
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
	}
}

func toDecibels(mag float64) float64 {
	if mag <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(mag)
}

func clampByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}
