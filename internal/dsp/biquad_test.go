package dsp

import (
	"math"
	"testing"
)

const testRate = 44100.0

func TestZeroGainEQIsTransparent(t *testing.T) {
	for _, typ := range []FilterType{Lowshelf, Peaking, Highshelf} {
		f := NewBiquad(typ, testRate, 1000, 0.5, 0)
		for _, freq := range []float64{50, 320, 1000, 3200, 12000} {
			if r := f.Response(freq); !near(r, 1, 1e-9) {
				t.Fatalf("%v at %vHz: response %v, want 1", typ, freq, r)
			}
		}
	}
}

func TestShelfGains(t *testing.T) {
	low := NewBiquad(Lowshelf, testRate, 320, 0, 6)
	if r := low.Response(10); !near(r, math.Pow(10, 6.0/20), 1e-2) {
		t.Fatalf("lowshelf DC gain %v, want %v", r, math.Pow(10, 6.0/20))
	}
	if r := low.Response(15000); !near(r, 1, 1e-2) {
		t.Fatalf("lowshelf treble gain %v, want ~1", r)
	}

	high := NewBiquad(Highshelf, testRate, 3200, 0, -12)
	if r := high.Response(20000); !near(r, math.Pow(10, -12.0/20), 2e-2) {
		t.Fatalf("highshelf top gain %v, want %v", r, math.Pow(10, -12.0/20))
	}
	if r := high.Response(20); !near(r, 1, 1e-3) {
		t.Fatalf("highshelf DC gain %v, want 1", r)
	}
}

func TestPeakingGainAtCenter(t *testing.T) {
	f := NewBiquad(Peaking, testRate, 1000, 0.5, 9)
	if r := f.Response(1000); !near(r, math.Pow(10, 9.0/20), 1e-6) {
		t.Fatalf("peak gain %v, want %v", r, math.Pow(10, 9.0/20))
	}
}

func TestBandpassUnityAtCenter(t *testing.T) {
	f := NewBiquad(Bandpass, testRate, 1500, 1, 0)
	if r := f.Response(1500); !near(r, 1, 1e-6) {
		t.Fatalf("bandpass center gain %v, want 1", r)
	}
	if r := f.Response(50); r > 0.1 {
		t.Fatalf("bandpass should reject 50Hz, got %v", r)
	}
}

func TestHighpassBlocksDC(t *testing.T) {
	f := NewBiquad(Highpass, testRate, 1000, 1, 0)
	var y float64
	for i := 0; i < 20000; i++ {
		y = f.Process(1)
	}
	if math.Abs(y) > 1e-6 {
		t.Fatalf("highpass DC output %v, want ~0", y)
	}
}

func TestSetKeepsHistoryAndRecomputes(t *testing.T) {
	f := NewBiquad(Lowshelf, testRate, 320, 0, 0)
	f.Process(1)
	f.SetGain(12)
	if f.Gain() != 12 {
		t.Fatalf("gain = %v, want 12", f.Gain())
	}
	fresh := NewBiquad(Lowshelf, testRate, 320, 0, 12)
	if a, b := f.Process(0), fresh.Process(0); a == b {
		t.Fatalf("history dropped on coefficient change: %v == %v", a, b)
	}
	if r := f.Response(10); r < 3.5 {
		t.Fatalf("coefficients not recomputed, DC gain %v", r)
	}
	f.Reset()
	fresh.Reset()
	for i := 0; i < 8; i++ {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if a, b := f.Process(x), fresh.Process(x); !near(a, b, 1e-15) {
			t.Fatalf("Reset kept history: sample %d %v != %v", i, a, b)
		}
	}
}

func TestProcessMatchesDirectForm(t *testing.T) {
	f := NewBiquad(Peaking, testRate, 1000, 0.5, 9)
	c := f.Coefficients()
	var x1, x2, y1, y2 float64
	for i := 0; i < 256; i++ {
		x := math.Sin(float64(i) * 0.3)
		want := c.B0*x + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		x2, x1 = x1, x
		y2, y1 = y1, want
		if got := f.Process(x); !near(got, want, 1e-9) {
			t.Fatalf("sample %d: %v, want %v", i, got, want)
		}
	}
}

func TestProcessBlockMatchesProcess(t *testing.T) {
	a := NewBiquad(Highpass, testRate, 800, 3, 0)
	b := NewBiquad(Highpass, testRate, 800, 3, 0)
	buf := make([]float64, 64)
	for i := range buf {
		buf[i] = math.Cos(float64(i))
	}
	want := make([]float64, len(buf))
	for i, x := range buf {
		want[i] = a.Process(x)
	}
	b.ProcessBlock(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d: %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestFrequencyAboveNyquistIsClamped(t *testing.T) {
	f := NewBiquad(Bandpass, 8000, 10000, 1, 0)
	for i := 0; i < 1000; i++ {
		if y := f.Process(math.Sin(float64(i))); math.IsNaN(y) || math.IsInf(y, 0) {
			t.Fatalf("unstable output %v at %d", y, i)
		}
	}
}
