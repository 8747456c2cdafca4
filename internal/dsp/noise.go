package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var ErrInvalidImpulse = errors.New("dsp: invalid impulse response")

// Source supplies uniform random numbers in [0,1). *rand.Rand satisfies it,
// so tests can pass a seeded generator.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// GlobalSource draws from the unseeded, goroutine-safe global generator.
var GlobalSource Source = globalSource{}

// NoiseLength converts a duration to a whole number of frames.
func NoiseLength(sampleRate, seconds float64) int {
	return int(math.Round(sampleRate * seconds))
}

// Buffer is sample data laid out as [channel][frame].
type Buffer struct {
	SampleRate float64
	Data       [][]float64
}

func (b *Buffer) Channels() int { return len(b.Data) }

func (b *Buffer) Len() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration is the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / b.SampleRate
}

// NewNoiseBuffer fills length frames on each channel with white noise in [-1,1).
func NewNoiseBuffer(src Source, sampleRate float64, length, channels int) *Buffer {
	if src == nil {
		src = GlobalSource
	}
	b := &Buffer{SampleRate: sampleRate, Data: make([][]float64, channels)}
	for c := range b.Data {
		ch := make([]float64, length)
		for i := range ch {
			ch[i] = src.Float64()*2 - 1
		}
		b.Data[c] = ch
	}
	return b
}

// ImpulseEnvelope is the amplitude of frame i in an impulse of the given
// length: (1 - i/length)^decay.
func ImpulseEnvelope(i, length int, decay float64) float64 {
	return math.Pow(1-float64(i)/float64(length), decay)
}

// BuildImpulseResponse synthesizes a stereo reverb tail: independent noise
// per channel under an (1 - i/length)^decay envelope.
func BuildImpulseResponse(src Source, sampleRate, duration, decay float64) (*Buffer, error) {
	length := NoiseLength(sampleRate, duration)
	if length <= 0 {
		return nil, fmt.Errorf("%w: %.3fs at %.0fHz has no frames", ErrInvalidImpulse, duration, sampleRate)
	}
	if decay < 0 || math.IsNaN(decay) {
		return nil, fmt.Errorf("%w: decay %v", ErrInvalidImpulse, decay)
	}
	if src == nil {
		src = GlobalSource
	}
	b := &Buffer{SampleRate: sampleRate, Data: [][]float64{
		make([]float64, length),
		make([]float64, length),
	}}
	left, right := b.Data[0], b.Data[1]
	for i := 0; i < length; i++ {
		env := ImpulseEnvelope(i, length, decay)
		left[i] = (src.Float64()*2 - 1) * env
		right[i] = (src.Float64()*2 - 1) * env
	}
	return b, nil
}

// BufferSource plays one channel of a buffer once, starting at Start.
// Stop, when after Start, cuts it short.
type BufferSource struct {
	Data       []float64
	Start      float64
	Stop       float64
	sampleRate float64
}

func NewBufferSource(b *Buffer, channel int) *BufferSource {
	return &BufferSource{Data: b.Data[channel], sampleRate: b.SampleRate}
}

// Next returns the buffer sample playing at clock time t.
func (s *BufferSource) Next(t float64) float64 {
	if t < s.Start || (s.Stop > s.Start && t >= s.Stop) {
		return 0
	}
	i := int((t-s.Start)*s.sampleRate + 1e-9)
	if i < 0 || i >= len(s.Data) {
		return 0
	}
	return s.Data[i]
}

// End is the time the source goes silent.
func (s *BufferSource) End() float64 {
	end := s.Start + float64(len(s.Data))/s.sampleRate
	if s.Stop > s.Start && s.Stop < end {
		return s.Stop
	}
	return end
}
