package dsp

import (
	"math"
	"sort"
)

// MinExponentialValue is the floor applied to exponential ramp targets.
// An exponential curve can never reach or cross zero.
const MinExponentialValue = 0.01

// Curve selects how a breakpoint is approached from the one before it.
type Curve int

const (
	CurveSet Curve = iota
	CurveLinear
	CurveExponential
)

func (c Curve) String() string {
	switch c {
	case CurveSet:
		return "set"
	case CurveLinear:
		return "linear"
	case CurveExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// Breakpoint is one scheduled automation event on a Param.
type Breakpoint struct {
	Time  float64
	Value float64
	Curve Curve
}

// Param is a scalar value automated over an absolute audio clock.
//
// A Param is built on the control goroutine and handed to the render
// goroutine whole; it is not safe for concurrent scheduling and reading.
type Param struct {
	def    float64
	events []Breakpoint
}

func NewParam(def float64) *Param {
	return &Param{def: def}
}

// Default returns the value used before the first breakpoint.
func (p *Param) Default() float64 { return p.def }

func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(Breakpoint{Time: t, Value: v, Curve: CurveSet})
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(Breakpoint{Time: t, Value: v, Curve: CurveLinear})
}

// ExponentialRampToValueAtTime schedules an exponential approach to v ending
// at t. Targets below MinExponentialValue are raised to it.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.insert(Breakpoint{Time: t, Value: ClampExponential(v), Curve: CurveExponential})
}

// CancelScheduledValues drops every breakpoint at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].Time >= t })
	p.events = p.events[:i]
}

// ClampExponential returns v raised to MinExponentialValue when it is below it.
func ClampExponential(v float64) float64 {
	if v < MinExponentialValue || math.IsNaN(v) {
		return MinExponentialValue
	}
	return v
}

// insert keeps events ordered by time; equal times go after existing ones.
func (p *Param) insert(bp Breakpoint) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].Time > bp.Time })
	p.events = append(p.events, Breakpoint{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = bp
}

// Breakpoints returns a copy of the scheduled events in time order.
func (p *Param) Breakpoints() []Breakpoint {
	return append([]Breakpoint(nil), p.events...)
}

// EndTime is the time of the last breakpoint, or 0 when none are scheduled.
func (p *Param) EndTime() float64 {
	if len(p.events) == 0 {
		return 0
	}
	return p.events[len(p.events)-1].Time
}

// ValueAt evaluates the automation curve at clock time t.
func (p *Param) ValueAt(t float64) float64 {
	// next is the first event strictly after t.
	next := sort.Search(len(p.events), func(i int) bool { return p.events[i].Time > t })

	t0, v0 := 0.0, p.def
	if next > 0 {
		prev := p.events[next-1]
		t0, v0 = prev.Time, prev.Value
	}
	if next == len(p.events) {
		return v0
	}

	ev := p.events[next]
	switch ev.Curve {
	case CurveLinear:
		if ev.Time <= t0 {
			return v0
		}
		return v0 + (ev.Value-v0)*(t-t0)/(ev.Time-t0)
	case CurveExponential:
		if v0 <= 0 || ev.Time <= t0 {
			return v0
		}
		return v0 * math.Pow(ev.Value/v0, (t-t0)/(ev.Time-t0))
	default:
		return v0
	}
}
