package dsp

import (
	"math"
	"testing"
)

func TestPanGains(t *testing.T) {
	l, r := PanGains(-1)
	if !near(l, 1, 1e-12) || !near(r, 0, 1e-12) {
		t.Fatalf("hard left: %v %v", l, r)
	}
	l, r = PanGains(1)
	if !near(l, 0, 1e-12) || !near(r, 1, 1e-12) {
		t.Fatalf("hard right: %v %v", l, r)
	}
	l, r = PanGains(0)
	if !near(l, math.Sqrt2/2, 1e-12) || !near(r, math.Sqrt2/2, 1e-12) {
		t.Fatalf("center: %v %v, want equal power", l, r)
	}
	if !near(l*l+r*r, 1, 1e-12) {
		t.Fatalf("center power %v, want 1", l*l+r*r)
	}
	l2, r2 := PanGains(-5)
	if l2 != 1 || !near(r2, 0, 1e-12) {
		t.Fatalf("pan below -1 should clamp, got %v %v", l2, r2)
	}
}
