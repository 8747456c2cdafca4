package dsp

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestParamHoldsDefaultWithoutEvents(t *testing.T) {
	p := NewParam(440)
	for _, at := range []float64{-1, 0, 3.5} {
		if v := p.ValueAt(at); v != 440 {
			t.Fatalf("ValueAt(%v) = %v, want 440", at, v)
		}
	}
	if p.EndTime() != 0 {
		t.Fatalf("EndTime = %v, want 0", p.EndTime())
	}
}

func TestParamSetValueAtTime(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(1, 1)
	p.SetValueAtTime(2, 2)
	cases := []struct{ at, want float64 }{
		{0.5, 0}, {1, 1}, {1.5, 1}, {2, 2}, {10, 2},
	}
	for _, c := range cases {
		if v := p.ValueAt(c.at); v != c.want {
			t.Fatalf("ValueAt(%v) = %v, want %v", c.at, v, c.want)
		}
	}
}

func TestParamLinearRamp(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 1)
	p.LinearRampToValueAtTime(0.8, 1.01)
	if v := p.ValueAt(1.005); !near(v, 0.4, 1e-9) {
		t.Fatalf("midpoint = %v, want 0.4", v)
	}
	if v := p.ValueAt(1.01); !near(v, 0.8, 1e-12) {
		t.Fatalf("end = %v, want 0.8", v)
	}
}

func TestParamExponentialRampFollowsExponentialLaw(t *testing.T) {
	p := NewParam(1)
	p.SetValueAtTime(150, 0)
	p.ExponentialRampToValueAtTime(0.01, 0.5)

	if v := p.ValueAt(0); v != 150 {
		t.Fatalf("start = %v, want 150", v)
	}
	for _, frac := range []float64{0.1, 0.25, 0.5, 0.9} {
		want := 150 * math.Pow(0.01/150, frac)
		if v := p.ValueAt(0.5 * frac); !near(v, want, 1e-9*want) {
			t.Fatalf("ValueAt(%v) = %v, want %v", 0.5*frac, v, want)
		}
	}
	if v := p.ValueAt(0.5); !near(v, 0.01, 1e-12) {
		t.Fatalf("end = %v, want 0.01", v)
	}
}

func TestExponentialRampClampsTargets(t *testing.T) {
	for _, target := range []float64{0.009, 0, -3, math.NaN()} {
		p := NewParam(1)
		p.SetValueAtTime(1, 0)
		p.ExponentialRampToValueAtTime(target, 1)
		bps := p.Breakpoints()
		if got := bps[len(bps)-1].Value; got != MinExponentialValue {
			t.Fatalf("target %v stored as %v, want %v", target, got, MinExponentialValue)
		}
		for _, at := range []float64{0, 0.3, 0.7, 1, 2} {
			if v := p.ValueAt(at); !(v > 0) {
				t.Fatalf("target %v: ValueAt(%v) = %v, want > 0", target, at, v)
			}
		}
	}
	if ClampExponential(0.5) != 0.5 {
		t.Fatalf("ClampExponential should keep values above the floor")
	}
}

func TestExponentialRampFromZeroHolds(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 0)
	p.ExponentialRampToValueAtTime(1, 1)
	if v := p.ValueAt(0.5); v != 0 {
		t.Fatalf("ramp from zero = %v, want hold at 0", v)
	}
	if v := p.ValueAt(1); v != 1 {
		t.Fatalf("after ramp end = %v, want 1", v)
	}
}

func TestClapEnvelopeShape(t *testing.T) {
	p := NewParam(1)
	p.SetValueAtTime(0, 2)
	p.LinearRampToValueAtTime(0.8, 2.01)
	p.ExponentialRampToValueAtTime(0.01, 2.15)

	if v := p.ValueAt(2); v != 0 {
		t.Fatalf("attack start = %v, want 0", v)
	}
	if v := p.ValueAt(2.01); !near(v, 0.8, 1e-12) {
		t.Fatalf("peak = %v, want 0.8", v)
	}
	want := 0.8 * math.Pow(0.01/0.8, 0.5)
	if v := p.ValueAt(2.08); !near(v, want, 1e-9) {
		t.Fatalf("decay midpoint = %v, want %v", v, want)
	}
}

func TestParamOutOfOrderInsertKeepsTimeOrder(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(3, 3)
	p.SetValueAtTime(1, 1)
	p.SetValueAtTime(2, 2)
	p.SetValueAtTime(5, 2)
	bps := p.Breakpoints()
	want := []float64{1, 2, 5, 3}
	for i, bp := range bps {
		if bp.Value != want[i] {
			t.Fatalf("breakpoint %d = %v, want %v (all %v)", i, bp.Value, want[i], bps)
		}
	}
	// The later of two events at the same time wins.
	if v := p.ValueAt(2); v != 5 {
		t.Fatalf("ValueAt(2) = %v, want 5", v)
	}
}

func TestCancelScheduledValues(t *testing.T) {
	p := NewParam(0.5)
	p.SetValueAtTime(1, 1)
	p.LinearRampToValueAtTime(0, 2)
	p.CancelScheduledValues(1.5)
	if len(p.Breakpoints()) != 1 {
		t.Fatalf("expected one breakpoint left, got %v", p.Breakpoints())
	}
	if v := p.ValueAt(3); v != 1 {
		t.Fatalf("ValueAt(3) = %v, want 1", v)
	}
}

func TestValue(t *testing.T) {
	v := NewValue(0.25)
	if v.Load() != 0.25 {
		t.Fatalf("Load = %v", v.Load())
	}
	v.Store(-7.5)
	if v.Load() != -7.5 {
		t.Fatalf("Load after Store = %v", v.Load())
	}
}
