package dsp

import (
	"math"
	"sync/atomic"
)

// Value is a float64 written by the control goroutine and read by the
// render goroutine without locking.
type Value struct {
	bits atomic.Uint64
}

func NewValue(v float64) *Value {
	val := &Value{}
	val.Store(v)
	return val
}

func (v *Value) Load() float64 { return math.Float64frombits(v.bits.Load()) }

func (v *Value) Store(f float64) { v.bits.Store(math.Float64bits(f)) }
