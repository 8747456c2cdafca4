package dsp

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// constSource always returns the same draw.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestNoiseBufferRangeAndShape(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))
	b := NewNoiseBuffer(src, testRate, NoiseLength(testRate, 0.1), 1)
	if b.Channels() != 1 || b.Len() != 4410 {
		t.Fatalf("got %d channels x %d frames, want 1 x 4410", b.Channels(), b.Len())
	}
	if !near(b.Duration(), 0.1, 1e-12) {
		t.Fatalf("duration %v, want 0.1", b.Duration())
	}
	var sum float64
	for _, v := range b.Data[0] {
		if v < -1 || v >= 1 {
			t.Fatalf("sample %v outside [-1,1)", v)
		}
		sum += v
	}
	if mean := sum / float64(b.Len()); math.Abs(mean) > 0.05 {
		t.Fatalf("noise mean %v too far from 0", mean)
	}
}

func TestNoiseIsDeterministicWithSeededSource(t *testing.T) {
	a := NewNoiseBuffer(rand.New(rand.NewPCG(7, 7)), testRate, 64, 2)
	b := NewNoiseBuffer(rand.New(rand.NewPCG(7, 7)), testRate, 64, 2)
	for c := range a.Data {
		for i := range a.Data[c] {
			if a.Data[c][i] != b.Data[c][i] {
				t.Fatalf("channel %d frame %d differs", c, i)
			}
		}
	}
	c := NewNoiseBuffer(nil, testRate, 64, 1)
	if c.Len() != 64 {
		t.Fatalf("global source buffer has %d frames", c.Len())
	}
}

func TestImpulseResponseLengthAndEnvelope(t *testing.T) {
	for _, rate := range []float64{22050, 44100, 48000} {
		ir, err := BuildImpulseResponse(constSource(0.75), rate, 3.0, 3.0)
		if err != nil {
			t.Fatalf("BuildImpulseResponse: %v", err)
		}
		length := int(math.Round(rate * 3.0))
		if ir.Len() != length || ir.Channels() != 2 {
			t.Fatalf("rate %v: %d x %d, want 2 x %d", rate, ir.Channels(), ir.Len(), length)
		}
		for c := 0; c < 2; c++ {
			first, last := ir.Data[c][0], ir.Data[c][length-1]
			if first != 0.5 {
				t.Fatalf("first sample %v, want 0.5", first)
			}
			want := math.Pow(1/float64(length), 3.0)
			if ratio := last / first; !near(ratio, want, want*1e-9) {
				t.Fatalf("end/start ratio %v, want %v", ratio, want)
			}
		}
	}
}

func TestImpulseChannelsAreIndependent(t *testing.T) {
	ir, err := BuildImpulseResponse(rand.New(rand.NewPCG(3, 4)), testRate, 0.05, 2)
	if err != nil {
		t.Fatalf("BuildImpulseResponse: %v", err)
	}
	same := 0
	for i := range ir.Data[0] {
		if ir.Data[0][i] == ir.Data[1][i] {
			same++
		}
	}
	if same > 1 {
		t.Fatalf("%d identical frames between channels", same)
	}
}

func TestImpulseRejectsEmpty(t *testing.T) {
	if _, err := BuildImpulseResponse(nil, testRate, 0, 3); !errors.Is(err, ErrInvalidImpulse) {
		t.Fatalf("expected ErrInvalidImpulse, got %v", err)
	}
	if _, err := BuildImpulseResponse(nil, testRate, 1, -1); !errors.Is(err, ErrInvalidImpulse) {
		t.Fatalf("expected ErrInvalidImpulse for negative decay, got %v", err)
	}
}

func TestBufferSourcePlaysOnce(t *testing.T) {
	b := &Buffer{SampleRate: 10, Data: [][]float64{{1, 2, 3}}}
	s := NewBufferSource(b, 0)
	s.Start = 1
	cases := []struct{ at, want float64 }{
		{0.95, 0}, {1.0, 1}, {1.1, 2}, {1.2, 3}, {1.3, 0},
	}
	for _, c := range cases {
		if v := s.Next(c.at); v != c.want {
			t.Fatalf("Next(%v) = %v, want %v", c.at, v, c.want)
		}
	}
	if !near(s.End(), 1.3, 1e-12) {
		t.Fatalf("End = %v, want 1.3", s.End())
	}
	s.Stop = 1.15
	if v := s.Next(1.2); v != 0 {
		t.Fatalf("Next after stop = %v", v)
	}
	if s.End() != 1.15 {
		t.Fatalf("End with stop = %v", s.End())
	}
}
