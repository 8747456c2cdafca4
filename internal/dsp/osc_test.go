package dsp

import "testing"

func TestOscillatorWaveformsAndLifetime(t *testing.T) {
	if v := Square.Shape(0.25); v != 1 {
		t.Fatalf("square first half = %v", v)
	}
	if v := Square.Shape(0.75); v != -1 {
		t.Fatalf("square second half = %v", v)
	}
	if v := Triangle.Shape(0.25); v != 1 {
		t.Fatalf("triangle peak = %v", v)
	}
	if v := Triangle.Shape(0.75); v != -1 {
		t.Fatalf("triangle trough = %v", v)
	}
	if v := Sawtooth.Shape(0); v != -1 {
		t.Fatalf("saw start = %v", v)
	}

	o := NewOscillator(Sine, 8, 2)
	o.Start, o.Stop = 1, 2
	if o.Next(0.5) != 0 {
		t.Fatalf("oscillator sounded before start")
	}
	// Four samples per cycle at 2Hz and 8Hz sampling.
	want := []float64{0, 1, 0, -1}
	for i, w := range want {
		if v := o.Next(1 + float64(i)/8); !near(v, w, 1e-9) {
			t.Fatalf("sample %d = %v, want %v", i, v, w)
		}
	}
	if o.Next(2) != 0 {
		t.Fatalf("oscillator sounded after stop")
	}
	if o.End() != 2 {
		t.Fatalf("End = %v", o.End())
	}
}
